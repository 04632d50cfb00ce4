package config

import (
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	Port                   int
	DatabasePath           string
	ImageDirectory         string // annotated images kept for the history view
	TempDirectory          string // per-session scratch images, wiped on startup
	LogDirectory           string
	StaticDirectory        string
	CocoModelPath          string
	CocoConfigPath         string
	KnifeModelPath         string
	KnifeConfigPath        string
	CaptionServiceURL      string
	CaptionTimeoutSeconds  int
	ConfidenceThreshold    float64 // inclusive lower bound for a detection to count
	AlertHighThreshold     float64
	AlertPossibleThreshold float64
	DrawFloor              float64 // minimum confidence for a box to be drawn
	MaxUploadBytes         int64
	SessionTTLMinutes      int
}

func Load() *Config {
	// Optional .env file; real environment variables take precedence.
	_ = godotenv.Load()

	return &Config{
		Port:                   getEnvAsInt("PORT", 8080),
		DatabasePath:           getEnv("DATABASE_PATH", filepath.Join(".", "data", "visionguard.db")),
		ImageDirectory:         getEnv("IMAGE_DIR", filepath.Join(".", "images")),
		TempDirectory:          getEnv("TEMP_DIR", filepath.Join(".", "tmp")),
		LogDirectory:           getEnv("LOG_DIR", filepath.Join(".", "logs")),
		StaticDirectory:        getEnv("STATIC_DIR", filepath.Join(".", "static")),
		CocoModelPath:          getEnv("COCO_MODEL_PATH", filepath.Join(".", "models", "frozen_inference_graph.pb")),
		CocoConfigPath:         getEnv("COCO_CONFIG_PATH", filepath.Join(".", "models", "ssd_mobilenet_v1_coco_2017_11_17.pbtxt")),
		KnifeModelPath:         getEnv("KNIFE_MODEL_PATH", filepath.Join(".", "models", "knife_detector.pb")),
		KnifeConfigPath:        getEnv("KNIFE_CONFIG_PATH", filepath.Join(".", "models", "knife_detector.pbtxt")),
		CaptionServiceURL:      getEnv("CAPTION_SERVICE_URL", "http://localhost:5005"),
		CaptionTimeoutSeconds:  getEnvAsInt("CAPTION_TIMEOUT", 30),
		ConfidenceThreshold:    getEnvAsFloat("CONFIDENCE_THRESHOLD", 0.7),
		AlertHighThreshold:     getEnvAsFloat("ALERT_HIGH_THRESHOLD", 0.7),
		AlertPossibleThreshold: getEnvAsFloat("ALERT_POSSIBLE_THRESHOLD", 0.45),
		DrawFloor:              getEnvAsFloat("DRAW_FLOOR", 0.3),
		MaxUploadBytes:         getEnvAsInt64("MAX_UPLOAD_BYTES", 10<<20),
		SessionTTLMinutes:      getEnvAsInt("SESSION_TTL_MINUTES", 60),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsInt64(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.ParseInt(value, 10, 64); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}
