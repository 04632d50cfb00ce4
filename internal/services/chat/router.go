package chat

import (
	"context"
	"fmt"
	"strings"

	"visionguard/internal/logger"
	"visionguard/internal/services/session"
)

// Fixed replies for the conversational surface.
const (
	NoImageReply     = "No image available for generating a response."
	NoObjectsReply   = "No objects detected in the current image."
	UnavailableReply = "Image chat is currently unavailable."
)

// Captioner is the capability the router needs from the captioning backend.
type Captioner interface {
	Caption(ctx context.Context, image []byte, prompt string) (string, error)
}

// handlerFunc produces the reply for one matched route.
type handlerFunc func(ctx context.Context, sess *session.Session, userText string) (string, error)

// route pairs a predicate over the lower-cased input with its handler.
type route struct {
	match  func(lowered string) bool
	handle handlerFunc
}

// Router answers free-text questions about the current image. Routing is an
// explicit ordered dispatch table: the first matching route wins, so
// precedence is declared in one place instead of scattered through
// conditionals. The no-image check runs before any keyword logic.
type Router struct {
	captioner Captioner
	enabled   bool
	logger    *logger.Logger
	routes    []route
}

// NewRouter builds the dispatch table. enabled=false (captioner failed its
// startup probe) keeps the router serving detection-list queries while all
// captioning paths answer with a fixed unavailable message.
func NewRouter(captioner Captioner, enabled bool, log *logger.Logger) *Router {
	r := &Router{
		captioner: captioner,
		enabled:   enabled,
		logger:    log,
	}

	r.routes = []route{
		{match: containsAny("describe", "what is in the image", "caption"), handle: r.describeImage},
		{match: containsAny("object", "detect", "see", "found"), handle: r.listDetections},
		{match: matchAll, handle: r.followUp},
	}

	return r
}

// Respond produces the reply for one chat turn. A returned error means the
// captioning backend failed mid-call; the session stays usable and the
// caller decides how to render the failure.
func (r *Router) Respond(ctx context.Context, sess *session.Session, userText string) (string, error) {
	if sess.Image() == nil {
		return NoImageReply, nil
	}

	lowered := strings.ToLower(userText)
	for _, rt := range r.routes {
		if rt.match(lowered) {
			return rt.handle(ctx, sess, userText)
		}
	}

	// Unreachable: the final route matches everything.
	return "", fmt.Errorf("no route matched input")
}

// describeImage captions the image without a prompt and stores the result
// as the session's caption.
func (r *Router) describeImage(ctx context.Context, sess *session.Session, _ string) (string, error) {
	if !r.enabled {
		return UnavailableReply, nil
	}

	caption, err := r.captioner.Caption(ctx, sess.Image(), "")
	if err != nil {
		return "", err
	}

	sess.SetCaption(caption)
	return caption, nil
}

// listDetections recites the labels accumulated for the current cycle.
func (r *Router) listDetections(_ context.Context, sess *session.Session, _ string) (string, error) {
	labels := sess.Labels()
	if len(labels) == 0 {
		return NoObjectsReply, nil
	}
	return fmt.Sprintf("Detected objects: %s.", strings.Join(labels, ", ")), nil
}

// followUp conditions the captioner on the user's question. The previously
// stored caption, when present, is prepended as context so follow-up
// questions build on the earlier description.
func (r *Router) followUp(ctx context.Context, sess *session.Session, userText string) (string, error) {
	if !r.enabled {
		return UnavailableReply, nil
	}

	prompt := userText
	if prior := sess.Caption(); prior != "" {
		prompt = fmt.Sprintf("Image context: %s\nQuestion: %s", prior, userText)
	}

	return r.captioner.Caption(ctx, sess.Image(), prompt)
}

// containsAny returns a predicate matching when the input contains any of
// the given keywords.
func containsAny(keywords ...string) func(string) bool {
	return func(lowered string) bool {
		for _, kw := range keywords {
			if strings.Contains(lowered, kw) {
				return true
			}
		}
		return false
	}
}

func matchAll(string) bool { return true }
