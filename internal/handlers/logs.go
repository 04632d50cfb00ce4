package handlers

import (
	"net/http"
	"os"
	"path/filepath"

	"visionguard/internal/config"
	"visionguard/internal/logger"
)

// ShowLogsHandler serves one of the level log files as plain text.
func ShowLogsHandler(cfg *config.Config, filename string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		filePath := filepath.Join(cfg.LogDirectory, filename)

		if _, err := os.Stat(filePath); os.IsNotExist(err) {
			w.WriteHeader(http.StatusNotFound)
			w.Write([]byte("Log file not found: " + filename))
			return
		}

		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.Header().Set("Cache-Control", "no-cache")

		http.ServeFile(w, r, filePath)
	}
}

// ClearLogsHandler truncates one of the level log files.
func ClearLogsHandler(log *logger.Logger, filename string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log.CleanLogs(filename)
		w.WriteHeader(http.StatusOK)
	}
}
