package repository

import (
	"visionguard/internal/dto"
	"visionguard/internal/models"
)

// AnalysisRepository defines the interface for analysis history operations.
type AnalysisRepository interface {
	// Create operations
	Insert(a *models.Analysis) (int64, error)

	// Read operations
	GetByID(id int64) (*models.Analysis, error)
	GetAll(filter *dto.HistoryFilters, limit, offset int) ([]models.Analysis, error)
	GetTotalCount(filter *dto.HistoryFilters) (int, error)
	GetTotalSize() (int64, error)
	GetStats() (*dto.HistoryStats, error)

	// Delete operations
	Delete(id int64) error
	DeleteAll() error
}

// DetectionRepository defines the interface for stored detection operations.
type DetectionRepository interface {
	// Create operations
	InsertBatch(detections []models.StoredDetection) error

	// Read operations
	GetByAnalysisID(analysisID int64) ([]models.StoredDetection, error)
	GetLabelsByAnalysisID(analysisID int64) ([]string, error)
	GetAllLabels() ([]string, error)

	// Delete operations
	DeleteByAnalysisID(analysisID int64) error
}
