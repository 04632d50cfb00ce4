package handlers

import (
	"net/http"
	"time"

	"visionguard/internal/logger"
	"visionguard/internal/services/session"

	"github.com/gorilla/websocket"
)

const (
	maxFrameBytes   = 2 << 20
	webcamReadGrace = 60 * time.Second
)

var Upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// WebcamStreamHandler accepts webcam frames from the browser over a
// WebSocket. Each binary message is one JPEG frame; only the most recent
// frame is held, pending a single-frame capture.
func WebcamStreamHandler(logger *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess := session.FromContext(r.Context())
		if sess == nil {
			writeError(w, http.StatusInternalServerError, "Session unavailable.")
			return
		}

		connection, err := Upgrader.Upgrade(w, r, nil)
		if err != nil {
			logger.Error("WebSocket upgrade error: %v", err)
			return
		}
		defer connection.Close()

		connection.SetReadLimit(maxFrameBytes)
		connection.SetReadDeadline(time.Now().Add(webcamReadGrace))
		connection.SetPongHandler(func(appData string) error {
			connection.SetReadDeadline(time.Now().Add(webcamReadGrace))
			return nil
		})

		logger.Info("Webcam stream opened for session %s", sess.ID)

		for {
			messageType, frame, err := connection.ReadMessage()
			if err != nil {
				logger.Info("Webcam stream closed for session %s: %v", sess.ID, err)
				break
			}

			connection.SetReadDeadline(time.Now().Add(webcamReadGrace))

			if messageType == websocket.BinaryMessage && len(frame) > 0 {
				sess.SetLatestFrame(frame)
			}
		}
	}
}

// WebcamCaptureHandler runs an analysis cycle over the most recently held
// webcam frame.
func WebcamCaptureHandler(manager Analyzer, logger *logger.Logger) http.HandlerFunc {
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

		frame := sess.LatestFrame()
		if frame == nil {
			writeError(w, http.StatusConflict, "Camera frame not available. Start the webcam first.")
			return
		}

		result, err := manager.Analyze(sess, frame, "webcam")
		if err != nil {
			logger.Error("Webcam analysis failed: %v", err)
			writeError(w, http.StatusInternalServerError, "Analysis failed. Please capture a new frame.")
			return
		}

		writeJSON(w, http.StatusOK, result)
	}
}
