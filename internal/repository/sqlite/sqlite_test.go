package sqlite

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"visionguard/internal/dto"
	"visionguard/internal/models"
)

func testDB(t *testing.T) *DB {
	t.Helper()
	db, err := New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Failed to create database: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func sampleAnalysis(filename string, alert models.AlertState) *models.Analysis {
	return &models.Analysis{
		SessionID: "sess-1",
		Filename:  filename,
		FilePath:  "/images/" + filename,
		FileSize:  1024,
		Source:    "upload",
		Alert:     alert,
		Timestamp: time.Now(),
	}
}

func TestDatabase_Connection(t *testing.T) {
	tempDir := t.TempDir()
	dbPath := filepath.Join(tempDir, "test.db")

	db, err := New(dbPath)
	if err != nil {
		t.Fatalf("Failed to create database: %v", err)
	}
	defer db.Close()

	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("Database file should exist")
	}
}

func TestAnalysisRepository_InsertAndGet(t *testing.T) {
	db := testDB(t)
	repo := NewAnalysisRepository(db)

	id, err := repo.Insert(sampleAnalysis("a.jpg", models.AlertHighConfidenceWeapon))
	if err != nil {
		t.Fatalf("Insert() error = %v", err)
	}
	if id == 0 {
		t.Fatal("Insert() returned zero ID")
	}

	got, err := repo.GetByID(id)
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if got == nil {
		t.Fatal("GetByID() = nil, want analysis")
	}
	if got.Filename != "a.jpg" {
		t.Errorf("Filename = %q, want a.jpg", got.Filename)
	}
	if got.Alert != models.AlertHighConfidenceWeapon {
		t.Errorf("Alert = %v, want high confidence weapon", got.Alert)
	}
}

func TestAnalysisRepository_GetByID_Missing(t *testing.T) {
	db := testDB(t)
	repo := NewAnalysisRepository(db)

	got, err := repo.GetByID(999)
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if got != nil {
		t.Errorf("GetByID(missing) = %v, want nil", got)
	}
}

func TestAnalysisRepository_Filters(t *testing.T) {
	db := testDB(t)
	repo := NewAnalysisRepository(db)

	if _, err := repo.Insert(sampleAnalysis("a.jpg", models.AlertNone)); err != nil {
		t.Fatalf("Insert() error = %v", err)
	}
	weapon := sampleAnalysis("b.jpg", models.AlertHighConfidenceWeapon)
	weapon.Source = "webcam"
	if _, err := repo.Insert(weapon); err != nil {
		t.Fatalf("Insert() error = %v", err)
	}

	all, err := repo.GetAll(nil, 10, 0)
	if err != nil {
		t.Fatalf("GetAll() error = %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("GetAll() returned %d rows, want 2", len(all))
	}

	filtered, err := repo.GetAll(&dto.HistoryFilters{Alert: "weapon"}, 10, 0)
	if err != nil {
		t.Fatalf("GetAll(alert filter) error = %v", err)
	}
	if len(filtered) != 1 || filtered[0].Filename != "b.jpg" {
		t.Errorf("GetAll(alert filter) = %v, want only b.jpg", filtered)
	}

	bySource, err := repo.GetAll(&dto.HistoryFilters{Source: "webcam"}, 10, 0)
	if err != nil {
		t.Fatalf("GetAll(source filter) error = %v", err)
	}
	if len(bySource) != 1 || bySource[0].Filename != "b.jpg" {
		t.Errorf("GetAll(source filter) = %v, want only b.jpg", bySource)
	}

	count, err := repo.GetTotalCount(&dto.HistoryFilters{Alert: "weapon"})
	if err != nil {
		t.Fatalf("GetTotalCount() error = %v", err)
	}
	if count != 1 {
		t.Errorf("GetTotalCount(alert filter) = %d, want 1", count)
	}
}

func TestAnalysisRepository_Delete(t *testing.T) {
	db := testDB(t)
	repo := NewAnalysisRepository(db)

	id, err := repo.Insert(sampleAnalysis("a.jpg", models.AlertNone))
	if err != nil {
		t.Fatalf("Insert() error = %v", err)
	}

	if err := repo.Delete(id); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}

	got, err := repo.GetByID(id)
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if got != nil {
		t.Error("Analysis should be gone after Delete")
	}
}

func TestDetectionRepository_InsertBatchAndLabels(t *testing.T) {
	db := testDB(t)
	analysisRepo := NewAnalysisRepository(db)
	detectionRepo := NewDetectionRepository(db)

	id, err := analysisRepo.Insert(sampleAnalysis("a.jpg", models.AlertNone))
	if err != nil {
		t.Fatalf("Insert() error = %v", err)
	}

	batch := []models.StoredDetection{
		{AnalysisID: id, Detector: "coco", Label: "person", Confidence: 0.9, X: 10, Y: 10, Width: 50, Height: 120},
		{AnalysisID: id, Detector: "knife", Label: "knife", Confidence: 0.8, X: 80, Y: 40, Width: 30, Height: 15},
	}
	if err := detectionRepo.InsertBatch(batch); err != nil {
		t.Fatalf("InsertBatch() error = %v", err)
	}

	stored, err := detectionRepo.GetByAnalysisID(id)
	if err != nil {
		t.Fatalf("GetByAnalysisID() error = %v", err)
	}
	if len(stored) != 2 {
		t.Fatalf("GetByAnalysisID() returned %d rows, want 2", len(stored))
	}

	labels, err := detectionRepo.GetLabelsByAnalysisID(id)
	if err != nil {
		t.Fatalf("GetLabelsByAnalysisID() error = %v", err)
	}
	if len(labels) != 2 {
		t.Errorf("GetLabelsByAnalysisID() = %v, want 2 labels", labels)
	}

	all, err := detectionRepo.GetAllLabels()
	if err != nil {
		t.Fatalf("GetAllLabels() error = %v", err)
	}
	if len(all) != 2 {
		t.Errorf("GetAllLabels() = %v, want 2 distinct labels", all)
	}
}

func TestDetectionRepository_InsertBatch_Empty(t *testing.T) {
	db := testDB(t)
	repo := NewDetectionRepository(db)

	if err := repo.InsertBatch(nil); err != nil {
		t.Errorf("InsertBatch(nil) error = %v, want nil", err)
	}
}

func TestStats(t *testing.T) {
	db := testDB(t)
	analysisRepo := NewAnalysisRepository(db)
	detectionRepo := NewDetectionRepository(db)

	id, err := analysisRepo.Insert(sampleAnalysis("a.jpg", models.AlertPossibleWeapon))
	if err != nil {
		t.Fatalf("Insert() error = %v", err)
	}
	if err := detectionRepo.InsertBatch([]models.StoredDetection{
		{AnalysisID: id, Detector: "knife", Label: "knife", Confidence: 0.5},
	}); err != nil {
		t.Fatalf("InsertBatch() error = %v", err)
	}

	stats, err := analysisRepo.GetStats()
	if err != nil {
		t.Fatalf("GetStats() error = %v", err)
	}
	if stats.TotalAnalyses != 1 {
		t.Errorf("TotalAnalyses = %d, want 1", stats.TotalAnalyses)
	}
	if stats.PerAlert["possible_weapon"] != 1 {
		t.Errorf("PerAlert = %v, want possible_weapon count 1", stats.PerAlert)
	}

	size, err := analysisRepo.GetTotalSize()
	if err != nil {
		t.Fatalf("GetTotalSize() error = %v", err)
	}
	if size != 1024 {
		t.Errorf("GetTotalSize() = %d, want 1024", size)
	}
}
