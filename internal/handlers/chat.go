package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"visionguard/internal/dto"
	"visionguard/internal/logger"
	"visionguard/internal/services/session"
)

// ChatResponder answers one free-text question about the current image.
type ChatResponder interface {
	Respond(ctx context.Context, sess *session.Session, message string) (string, error)
}

// chatFailureReply is what the user sees when the captioning backend
// failed mid-call. The session itself stays alive.
const chatFailureReply = "Sorry, something went wrong while generating a response. Please try again."

// ChatHandler answers one conversational turn.
func ChatHandler(router ChatResponder, logger *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
			return
		}

		var req dto.ChatRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "Invalid request body.")
			return
		}

		if strings.TrimSpace(req.Message) == "" {
			writeError(w, http.StatusBadRequest, "Message is required.")
			return
		}

		sess := session.FromContext(r.Context())
		if sess == nil {
			writeError(w, http.StatusInternalServerError, "Session unavailable.")
			return
		}

		reply, err := router.Respond(r.Context(), sess, req.Message)
		if err != nil {
			logger.Error("Chat turn failed for session %s: %v", sess.ID, err)
			writeJSON(w, http.StatusOK, dto.ChatResponse{Reply: chatFailureReply})
			return
		}

		writeJSON(w, http.StatusOK, dto.ChatResponse{Reply: reply})
	}
}

// ResetSessionHandler clears the session's image, labels, caption and alert
// and deletes its scratch image, starting a fresh cycle baseline.
func ResetSessionHandler(store *session.Store, logger *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
			return
		}

		sess := session.FromContext(r.Context())
		if sess == nil {
			writeError(w, http.StatusInternalServerError, "Session unavailable.")
			return
		}

		store.Reset(sess.ID)
		logger.Info("Session reset: %s", sess.ID)

		writeJSON(w, http.StatusOK, map[string]string{"status": "reset"})
	}
}
