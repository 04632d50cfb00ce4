package session

import (
	"context"
	"sync"
	"time"

	"visionguard/internal/models"
)

// Session is the explicit per-user context for the interaction loop. It
// replaces process-global state: the current image, the accumulated
// detected labels, the last generated caption and the alert state all live
// here, created on session start and destroyed on expiry.
type Session struct {
	ID string

	mu          sync.Mutex
	image       []byte
	labels      []string
	caption     string
	alert       models.AlertState
	latestFrame []byte // most recent webcam frame, pending capture
	createdAt   time.Time
	lastSeen    time.Time
}

func newSession(id string) *Session {
	now := time.Now()
	return &Session{
		ID:        id,
		createdAt: now,
		lastSeen:  now,
	}
}

// SetCycle installs the results of one analysis cycle. The previous cycle's
// image, labels and alert are replaced wholesale; the caption survives until
// the next captioning call overwrites it.
func (s *Session) SetCycle(image []byte, labels []string, alert models.AlertState) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.image = image
	s.labels = labels
	s.alert = alert
}

// Image returns the image of the current cycle, or nil if none is active.
func (s *Session) Image() []byte {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.image
}

// Labels returns the detected labels of the current cycle.
func (s *Session) Labels() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.labels
}

// Caption returns the most recently generated caption.
func (s *Session) Caption() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.caption
}

// SetCaption overwrites the stored caption.
func (s *Session) SetCaption(caption string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.caption = caption
}

// Alert returns the alert state of the current cycle.
func (s *Session) Alert() models.AlertState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.alert
}

// SetLatestFrame stores the most recent webcam frame for a later capture.
func (s *Session) SetLatestFrame(frame []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.latestFrame = frame
}

// LatestFrame returns the held webcam frame, or nil if none arrived yet.
func (s *Session) LatestFrame() []byte {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.latestFrame
}

// Reset clears all per-cycle state, returning the session to its initial
// empty condition.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.image = nil
	s.labels = nil
	s.caption = ""
	s.alert = models.AlertNone
	s.latestFrame = nil
}

// Touch marks the session as recently used.
func (s *Session) Touch() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastSeen = time.Now()
}

func (s *Session) lastSeenAt() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSeen
}

type ctxKey struct{}

// NewContext returns a context carrying the session.
func NewContext(ctx context.Context, sess *Session) context.Context {
	return context.WithValue(ctx, ctxKey{}, sess)
}

// FromContext extracts the session installed by the session middleware.
func FromContext(ctx context.Context) *Session {
	sess, _ := ctx.Value(ctxKey{}).(*Session)
	return sess
}
