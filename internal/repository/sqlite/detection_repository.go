package sqlite

import (
	"fmt"

	"visionguard/internal/models"
)

// DetectionRepository implements repository.DetectionRepository for SQLite.
type DetectionRepository struct {
	db *DB
}

// NewDetectionRepository creates a new SQLite detection repository.
func NewDetectionRepository(db *DB) *DetectionRepository {
	return &DetectionRepository{db: db}
}

// InsertBatch adds multiple detections in a single transaction.
func (r *DetectionRepository) InsertBatch(detections []models.StoredDetection) error {
	if len(detections) == 0 {
		return nil
	}

	r.db.Lock()
	defer r.db.Unlock()

	tx, err := r.db.Conn().Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
		INSERT INTO detections (analysis_id, detector, label, confidence, x, y, width, height)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer stmt.Close()

	for _, det := range detections {
		if _, err := stmt.Exec(det.AnalysisID, det.Detector, det.Label, det.Confidence, det.X, det.Y, det.Width, det.Height); err != nil {
			return fmt.Errorf("failed to insert detection: %w", err)
		}
	}

	return tx.Commit()
}

// GetByAnalysisID returns all detections stored for an analysis.
func (r *DetectionRepository) GetByAnalysisID(analysisID int64) ([]models.StoredDetection, error) {
	r.db.RLock()
	defer r.db.RUnlock()

	rows, err := r.db.Conn().Query(`
		SELECT id, analysis_id, detector, label, confidence, x, y, width, height
		FROM detections WHERE analysis_id = ?
	`, analysisID)
	if err != nil {
		return nil, fmt.Errorf("failed to query detections: %w", err)
	}
	defer rows.Close()

	var detections []models.StoredDetection
	for rows.Next() {
		var det models.StoredDetection
		if err := rows.Scan(&det.ID, &det.AnalysisID, &det.Detector, &det.Label, &det.Confidence, &det.X, &det.Y, &det.Width, &det.Height); err != nil {
			return nil, fmt.Errorf("failed to scan detection: %w", err)
		}
		detections = append(detections, det)
	}

	return detections, rows.Err()
}

// GetLabelsByAnalysisID returns just the distinct labels for an analysis.
func (r *DetectionRepository) GetLabelsByAnalysisID(analysisID int64) ([]string, error) {
	r.db.RLock()
	defer r.db.RUnlock()

	return r.queryLabels(`SELECT DISTINCT label FROM detections WHERE analysis_id = ?`, analysisID)
}

// GetAllLabels returns all unique detected labels across the history.
func (r *DetectionRepository) GetAllLabels() ([]string, error) {
	r.db.RLock()
	defer r.db.RUnlock()

	return r.queryLabels(`SELECT DISTINCT label FROM detections ORDER BY label`)
}

func (r *DetectionRepository) queryLabels(query string, args ...interface{}) ([]string, error) {
	rows, err := r.db.Conn().Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query labels: %w", err)
	}
	defer rows.Close()

	var labels []string
	for rows.Next() {
		var label string
		if err := rows.Scan(&label); err != nil {
			return nil, fmt.Errorf("failed to scan label: %w", err)
		}
		labels = append(labels, label)
	}

	return labels, rows.Err()
}

// DeleteByAnalysisID removes all detections for a specific analysis.
func (r *DetectionRepository) DeleteByAnalysisID(analysisID int64) error {
	r.db.Lock()
	defer r.db.Unlock()

	if _, err := r.db.Conn().Exec(`DELETE FROM detections WHERE analysis_id = ?`, analysisID); err != nil {
		return fmt.Errorf("failed to delete detections: %w", err)
	}
	return nil
}
