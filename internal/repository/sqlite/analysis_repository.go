package sqlite

import (
	"database/sql"
	"fmt"

	"visionguard/internal/dto"
	"visionguard/internal/models"
)

// AnalysisRepository implements repository.AnalysisRepository for SQLite.
type AnalysisRepository struct {
	db *DB
}

// NewAnalysisRepository creates a new SQLite analysis repository.
func NewAnalysisRepository(db *DB) *AnalysisRepository {
	return &AnalysisRepository{db: db}
}

// Insert adds a new analysis record to the database.
func (r *AnalysisRepository) Insert(a *models.Analysis) (int64, error) {
	r.db.Lock()
	defer r.db.Unlock()

	result, err := r.db.Conn().Exec(`
		INSERT INTO analyses (session_id, filename, filepath, filesize, source, alert, caption, timestamp)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, a.SessionID, a.Filename, a.FilePath, a.FileSize, a.Source, a.Alert.String(), a.Caption, a.Timestamp)
	if err != nil {
		return 0, fmt.Errorf("failed to insert analysis: %w", err)
	}

	return result.LastInsertId()
}

// GetByID retrieves an analysis by its ID.
func (r *AnalysisRepository) GetByID(id int64) (*models.Analysis, error) {
	r.db.RLock()
	defer r.db.RUnlock()

	row := r.db.Conn().QueryRow(`
		SELECT id, session_id, filename, filepath, filesize, source, alert, caption, timestamp
		FROM analyses WHERE id = ?
	`, id)

	a, err := scanAnalysis(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get analysis: %w", err)
	}
	return a, nil
}

// scanner is satisfied by both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...interface{}) error
}

func scanAnalysis(s scanner) (*models.Analysis, error) {
	var a models.Analysis
	var alert string
	if err := s.Scan(&a.ID, &a.SessionID, &a.Filename, &a.FilePath, &a.FileSize, &a.Source, &alert, &a.Caption, &a.Timestamp); err != nil {
		return nil, err
	}
	a.Alert = models.ParseAlertState(alert)
	return &a, nil
}

// buildFilterClause appends WHERE conditions for the given filters and
// returns the SQL fragment plus its arguments.
func buildFilterClause(filter *dto.HistoryFilters) (string, []interface{}) {
	clause := " WHERE 1=1"
	args := []interface{}{}

	if filter == nil {
		return clause, args
	}

	if filter.Object != "" {
		clause += " AND d.label = ?"
		args = append(args, filter.Object)
	}

	if filter.Alert != "" {
		clause += " AND a.alert = ?"
		args = append(args, filter.Alert)
	}

	if filter.Source != "" {
		clause += " AND a.source = ?"
		args = append(args, filter.Source)
	}

	if !filter.DateAfter.IsZero() {
		clause += " AND DATE(a.timestamp) >= DATE(?)"
		args = append(args, filter.DateAfter)
	}

	if !filter.DateBefore.IsZero() {
		clause += " AND DATE(a.timestamp) <= DATE(?)"
		args = append(args, filter.DateBefore)
	}

	return clause, args
}

// GetAll retrieves analyses matching the filter, newest first.
func (r *AnalysisRepository) GetAll(filter *dto.HistoryFilters, limit, offset int) ([]models.Analysis, error) {
	r.db.RLock()
	defer r.db.RUnlock()

	query := `
		SELECT DISTINCT a.id, a.session_id, a.filename, a.filepath, a.filesize, a.source, a.alert, a.caption, a.timestamp
		FROM analyses a
		LEFT JOIN detections d ON a.id = d.analysis_id
	`
	clause, args := buildFilterClause(filter)
	query += clause + " ORDER BY a.timestamp DESC"

	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}
	if offset > 0 {
		query += " OFFSET ?"
		args = append(args, offset)
	}

	rows, err := r.db.Conn().Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query analyses: %w", err)
	}
	defer rows.Close()

	var analyses []models.Analysis
	for rows.Next() {
		a, err := scanAnalysis(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan analysis: %w", err)
		}
		analyses = append(analyses, *a)
	}

	return analyses, rows.Err()
}

// GetTotalCount returns the number of analyses matching the filter.
func (r *AnalysisRepository) GetTotalCount(filter *dto.HistoryFilters) (int, error) {
	r.db.RLock()
	defer r.db.RUnlock()

	query := `
		SELECT COUNT(DISTINCT a.id)
		FROM analyses a
		LEFT JOIN detections d ON a.id = d.analysis_id
	`
	clause, args := buildFilterClause(filter)
	query += clause

	var count int
	if err := r.db.Conn().QueryRow(query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count analyses: %w", err)
	}

	return count, nil
}

// GetTotalSize returns the combined size in bytes of all stored images.
func (r *AnalysisRepository) GetTotalSize() (int64, error) {
	r.db.RLock()
	defer r.db.RUnlock()

	var size int64
	if err := r.db.Conn().QueryRow(`SELECT COALESCE(SUM(filesize), 0) FROM analyses`).Scan(&size); err != nil {
		return 0, fmt.Errorf("failed to sum image sizes: %w", err)
	}
	return size, nil
}

// GetStats returns statistics about stored analyses.
func (r *AnalysisRepository) GetStats() (*dto.HistoryStats, error) {
	r.db.RLock()
	defer r.db.RUnlock()

	stats := &dto.HistoryStats{
		PerAlert:     make(map[string]int),
		ObjectCounts: make(map[string]int),
	}

	if err := r.db.Conn().QueryRow(`SELECT COUNT(*) FROM analyses`).Scan(&stats.TotalAnalyses); err != nil {
		return nil, err
	}

	if err := r.db.Conn().QueryRow(`SELECT COALESCE(SUM(filesize), 0) FROM analyses`).Scan(&stats.TotalSizeBytes); err != nil {
		return nil, err
	}

	rows, err := r.db.Conn().Query(`SELECT alert, COUNT(*) FROM analyses GROUP BY alert`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var alert string
		var count int
		if err := rows.Scan(&alert, &count); err != nil {
			return nil, err
		}
		stats.PerAlert[alert] = count
	}

	objectRows, err := r.db.Conn().Query(`
		SELECT label, COUNT(*) as cnt
		FROM detections
		GROUP BY label
		ORDER BY cnt DESC
		LIMIT 10
	`)
	if err != nil {
		return nil, err
	}
	defer objectRows.Close()

	for objectRows.Next() {
		var label string
		var count int
		if err := objectRows.Scan(&label, &count); err != nil {
			return nil, err
		}
		stats.ObjectCounts[label] = count
	}

	return stats, nil
}

// Delete removes an analysis and its detections by ID.
func (r *AnalysisRepository) Delete(id int64) error {
	r.db.Lock()
	defer r.db.Unlock()

	if _, err := r.db.Conn().Exec(`DELETE FROM detections WHERE analysis_id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete detections: %w", err)
	}

	if _, err := r.db.Conn().Exec(`DELETE FROM analyses WHERE id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete analysis: %w", err)
	}
	return nil
}

// DeleteAll removes all analyses and their detections.
func (r *AnalysisRepository) DeleteAll() error {
	r.db.Lock()
	defer r.db.Unlock()

	if _, err := r.db.Conn().Exec(`DELETE FROM detections`); err != nil {
		return fmt.Errorf("failed to delete detections: %w", err)
	}

	if _, err := r.db.Conn().Exec(`DELETE FROM analyses`); err != nil {
		return fmt.Errorf("failed to delete analyses: %w", err)
	}

	return nil
}
