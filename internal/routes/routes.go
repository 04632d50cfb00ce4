package routes

import (
	"net/http"
	"os"
	"path/filepath"

	"visionguard/internal/config"
	"visionguard/internal/handlers"
	"visionguard/internal/logger"
	"visionguard/internal/middleware"
	"visionguard/internal/repository"
	"visionguard/internal/services"
	"visionguard/internal/services/ai"
	"visionguard/internal/services/caption"
	"visionguard/internal/services/chat"
	"visionguard/internal/services/session"
	"visionguard/internal/services/storage"
	"visionguard/internal/services/websocket"
)

// Deps collects everything the route table needs.
type Deps struct {
	Config        *config.Config
	Logger        *logger.Logger
	Manager       *services.Manager
	Chat          *chat.Router
	Registry      *ai.Registry
	Captioner     *caption.Client
	Sessions      *session.Store
	Hub           *websocket.HubService
	ImageStore    *storage.ImageStore
	AnalysisRepo  repository.AnalysisRepository
	DetectionRepo repository.DetectionRepository
}

// dynamicHTMLHandler serves /path as <static>/path.html if the file exists; otherwise 404.
func dynamicHTMLHandler(staticDir string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		path := r.URL.Path

		if path == "/" {
			path = "/index"
		}

		filePath := filepath.Join(staticDir, path+".html")

		if _, err := os.Stat(filePath); os.IsNotExist(err) {
			http.NotFound(w, r)
			return
		}

		http.ServeFile(w, r, filePath)
	}
}

// SetupRoutes registers static file serving and the API endpoints, then
// wraps the mux with the session middleware.
func SetupRoutes(d Deps) http.Handler {
	mux := http.NewServeMux()

	// Static files
	mux.Handle("/static/", http.StripPrefix("/static/", http.FileServer(http.Dir(d.Config.StaticDirectory))))

	// Analysis endpoints
	mux.HandleFunc("/api/analyze", handlers.AnalyzeHandler(d.Manager, d.Config, d.Logger))
	mux.HandleFunc("/api/webcam", handlers.WebcamStreamHandler(d.Logger))
	mux.HandleFunc("/api/webcam/capture", handlers.WebcamCaptureHandler(d.Manager, d.Logger))

	// Chat endpoints
	mux.HandleFunc("/api/chat", handlers.ChatHandler(d.Chat, d.Logger))
	mux.HandleFunc("/api/session/reset", handlers.ResetSessionHandler(d.Sessions, d.Logger))

	// Alert push channel
	mux.HandleFunc("/api/events", handlers.AlertEventsHandler(d.Hub, d.Logger))

	// History endpoints
	mux.HandleFunc("/api/history", handlers.GetHistoryHandler(d.AnalysisRepo, d.DetectionRepo, d.Logger))
	mux.HandleFunc("/api/history/view", handlers.ViewHistoryImageHandler(d.ImageStore))
	mux.HandleFunc("/api/history/delete", handlers.DeleteHistoryHandler(d.AnalysisRepo, d.ImageStore, d.Logger))
	mux.HandleFunc("/api/history/clear", handlers.ClearHistoryHandler(d.AnalysisRepo, d.ImageStore, d.Logger))
	mux.HandleFunc("/api/history/filters", handlers.GetFiltersHandler(d.DetectionRepo, d.Logger))
	mux.HandleFunc("/api/history/stats", handlers.GetStatsHandler(d.AnalysisRepo, d.Logger))

	// Service status
	mux.HandleFunc("/api/status", handlers.StatusHandler(d.Registry, d.Captioner, d.Sessions))

	// Log endpoints
	mux.HandleFunc("/logs/info", handlers.ShowLogsHandler(d.Config, "info.log"))
	mux.HandleFunc("/logs/warning", handlers.ShowLogsHandler(d.Config, "warning.log"))
	mux.HandleFunc("/logs/error", handlers.ShowLogsHandler(d.Config, "error.log"))

	mux.HandleFunc("/logs/info/clear", handlers.ClearLogsHandler(d.Logger, "info.log"))
	mux.HandleFunc("/logs/warning/clear", handlers.ClearLogsHandler(d.Logger, "warning.log"))
	mux.HandleFunc("/logs/error/clear", handlers.ClearLogsHandler(d.Logger, "error.log"))

	// Automatic HTML handler mapping, for example /history -> static/history.html
	mux.HandleFunc("/", dynamicHTMLHandler(d.Config.StaticDirectory))

	// Apply middleware
	return middleware.SessionMiddleware(d.Sessions)(mux)
}
