package handlers

import (
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"visionguard/internal/config"
	"visionguard/internal/dto"
	"visionguard/internal/logger"
	"visionguard/internal/services/session"
)

// Analyzer runs one analysis cycle over an acquired image.
type Analyzer interface {
	Analyze(sess *session.Session, image []byte, source string) (*dto.AnalysisResult, error)
}

var allowedExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
}

// AnalyzeHandler accepts a multipart image upload and runs a full analysis
// cycle over it.
func AnalyzeHandler(manager Analyzer, cfg *config.Config, logger *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
			return
		}

		r.Body = http.MaxBytesReader(w, r.Body, cfg.MaxUploadBytes)
		if err := r.ParseMultipartForm(cfg.MaxUploadBytes); err != nil {
			writeError(w, http.StatusBadRequest, "Failed to parse upload. The image may be too large.")
			return
		}

		file, header, err := r.FormFile("image")
		if err != nil {
			writeError(w, http.StatusBadRequest, "No image file provided. Use 'image' as the form field name.")
			return
		}
		defer file.Close()

		ext := strings.ToLower(filepath.Ext(header.Filename))
		if !allowedExtensions[ext] {
			writeError(w, http.StatusBadRequest, "Unsupported image format. Supported: jpg, jpeg, png.")
			return
		}

		data, err := io.ReadAll(file)
		if err != nil {
			logger.Error("Failed to read uploaded image: %v", err)
			writeError(w, http.StatusBadRequest, "Failed to read the uploaded image.")
			return
		}

		sess := session.FromContext(r.Context())
		if sess == nil {
			writeError(w, http.StatusInternalServerError, "Session unavailable.")
			return
		}

		logger.Info("Received upload %s (%d bytes) for session %s", header.Filename, header.Size, sess.ID)

		result, err := manager.Analyze(sess, data, "upload")
		if err != nil {
			logger.Error("Analysis failed: %v", err)
			writeError(w, http.StatusInternalServerError, "Analysis failed. Please try a different image.")
			return
		}

		writeJSON(w, http.StatusOK, result)
	}
}
