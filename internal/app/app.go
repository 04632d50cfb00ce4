package app

import (
	"fmt"
	"net/http"
	"time"

	"visionguard/internal/config"
	"visionguard/internal/logger"
	"visionguard/internal/repository"
	"visionguard/internal/repository/sqlite"
	"visionguard/internal/routes"
	"visionguard/internal/services"
	"visionguard/internal/services/ai"
	"visionguard/internal/services/alert"
	"visionguard/internal/services/caption"
	"visionguard/internal/services/chat"
	"visionguard/internal/services/session"
	"visionguard/internal/services/storage"
	"visionguard/internal/services/websocket"
)

const sessionSweepInterval = 5 * time.Minute

type App struct {
	config        *config.Config
	logger        *logger.Logger
	db            *sqlite.DB
	analysisRepo  repository.AnalysisRepository
	detectionRepo repository.DetectionRepository
	registry      *ai.Registry
	captioner     *caption.Client
	chatRouter    *chat.Router
	sessions      *session.Store
	imageStore    *storage.ImageStore
	hubService    *websocket.HubService
	manager       *services.Manager
}

func NewApp() (*App, error) {
	cfg := config.Load()
	log := logger.NewLogger(cfg)

	db, err := sqlite.New(cfg.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	analysisRepo := sqlite.NewAnalysisRepository(db)
	detectionRepo := sqlite.NewDetectionRepository(db)

	registry := ai.NewRegistry(cfg, log)

	captioner := caption.NewClient(cfg.CaptionServiceURL, time.Duration(cfg.CaptionTimeoutSeconds)*time.Second, log)
	chatEnabled := captioner.Healthy()
	if !chatEnabled {
		log.Warning("Caption service unreachable at %s, image chat disabled", cfg.CaptionServiceURL)
	}
	chatRouter := chat.NewRouter(captioner, chatEnabled, log)

	sessions, err := session.NewStore(cfg.TempDirectory, time.Duration(cfg.SessionTTLMinutes)*time.Minute, log)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("init session store: %w", err)
	}

	imageStore, err := storage.NewImageStore(cfg.ImageDirectory, log)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("init image store: %w", err)
	}

	hub := websocket.NewHubService(log)

	detectors := make([]services.ObjectDetector, 0, 2)
	for _, d := range registry.Detectors() {
		detectors = append(detectors, d)
	}

	evaluator := alert.NewEvaluator(cfg.AlertHighThreshold, cfg.AlertPossibleThreshold)

	mng := services.NewManager(
		detectors,
		ai.DetectorKnife,
		evaluator,
		imageStore,
		analysisRepo,
		detectionRepo,
		sessions,
		hub,
		cfg.ConfidenceThreshold,
		log,
	)

	return &App{
		config:        cfg,
		logger:        log,
		db:            db,
		analysisRepo:  analysisRepo,
		detectionRepo: detectionRepo,
		registry:      registry,
		captioner:     captioner,
		chatRouter:    chatRouter,
		sessions:      sessions,
		imageStore:    imageStore,
		hubService:    hub,
		manager:       mng,
	}, nil
}

func (a *App) Run() error {
	// Start background services
	go a.hubService.Run()
	go a.sessions.Run(sessionSweepInterval)

	router := routes.SetupRoutes(routes.Deps{
		Config:        a.config,
		Logger:        a.logger,
		Manager:       a.manager,
		Chat:          a.chatRouter,
		Registry:      a.registry,
		Captioner:     a.captioner,
		Sessions:      a.sessions,
		Hub:           a.hubService,
		ImageStore:    a.imageStore,
		AnalysisRepo:  a.analysisRepo,
		DetectionRepo: a.detectionRepo,
	})

	fmt.Printf("🚀 VisionGuard Image Analysis Server\n")
	fmt.Printf("📍 URL: http://localhost:%d\n", a.config.Port)
	fmt.Printf("📁 Images: %s\n", a.config.ImageDirectory)
	fmt.Printf("🤖 Detectors: %s, %s\n", ai.DetectorCoco, ai.DetectorKnife)
	fmt.Printf("💬 Caption service: %s\n", a.config.CaptionServiceURL)

	return http.ListenAndServe(fmt.Sprintf(":%d", a.config.Port), router)
}

// Close releases the model nets and the database handle.
func (a *App) Close() {
	a.registry.Close()
	if err := a.db.Close(); err != nil {
		a.logger.Error("Failed to close database: %v", err)
	}
}
