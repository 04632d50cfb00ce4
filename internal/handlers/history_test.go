package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"visionguard/internal/dto"
	"visionguard/internal/models"
)

type fakeAnalysisRepo struct {
	analyses   []models.Analysis
	deletedIDs []int64
	lastFilter *dto.HistoryFilters
}

func (f *fakeAnalysisRepo) Insert(*models.Analysis) (int64, error) { return 0, nil }
func (f *fakeAnalysisRepo) GetByID(id int64) (*models.Analysis, error) {
	for i := range f.analyses {
		if f.analyses[i].ID == id {
			return &f.analyses[i], nil
		}
	}
	return nil, nil
}
func (f *fakeAnalysisRepo) GetAll(filter *dto.HistoryFilters, limit, offset int) ([]models.Analysis, error) {
	f.lastFilter = filter
	return f.analyses, nil
}
func (f *fakeAnalysisRepo) GetTotalCount(*dto.HistoryFilters) (int, error) {
	return len(f.analyses), nil
}
func (f *fakeAnalysisRepo) GetTotalSize() (int64, error)         { return 2048, nil }
func (f *fakeAnalysisRepo) GetStats() (*dto.HistoryStats, error) { return &dto.HistoryStats{}, nil }
func (f *fakeAnalysisRepo) Delete(id int64) error {
	f.deletedIDs = append(f.deletedIDs, id)
	return nil
}
func (f *fakeAnalysisRepo) DeleteAll() error { return nil }

type fakeDetectionRepo struct {
	labels []string
}

func (f *fakeDetectionRepo) InsertBatch([]models.StoredDetection) error { return nil }
func (f *fakeDetectionRepo) GetByAnalysisID(int64) ([]models.StoredDetection, error) {
	return nil, nil
}
func (f *fakeDetectionRepo) GetLabelsByAnalysisID(int64) ([]string, error) { return f.labels, nil }
func (f *fakeDetectionRepo) GetAllLabels() ([]string, error)               { return f.labels, nil }
func (f *fakeDetectionRepo) DeleteByAnalysisID(int64) error                { return nil }

func TestGetHistoryHandler(t *testing.T) {
	analysisRepo := &fakeAnalysisRepo{
		analyses: []models.Analysis{
			{
				ID:        1,
				Filename:  "a.jpg",
				Source:    "upload",
				Alert:     models.AlertHighConfidenceWeapon,
				Timestamp: time.Date(2026, 8, 29, 14, 30, 0, 0, time.UTC),
			},
		},
	}
	detectionRepo := &fakeDetectionRepo{labels: []string{"person", "knife"}}
	handler := GetHistoryHandler(analysisRepo, detectionRepo, testLogger(t))

	r := httptest.NewRequest(http.MethodGet, "/api/history?page=1&alert=weapon", nil)
	w := httptest.NewRecorder()
	handler(w, r)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}

	var data struct {
		Analyses []struct {
			ID        int64    `json:"id"`
			Name      string   `json:"name"`
			Date      string   `json:"date"`
			TimeOfDay string   `json:"timeOfDay"`
			Alert     string   `json:"alert"`
			Objects   []string `json:"objects"`
		} `json:"analyses"`
		Length      int `json:"length"`
		TotalPages  int `json:"totalPages"`
		CurrentPage int `json:"currentPage"`
	}
	if err := json.NewDecoder(w.Body).Decode(&data); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}

	if len(data.Analyses) != 1 {
		t.Fatalf("analyses = %d, want 1", len(data.Analyses))
	}
	entry := data.Analyses[0]
	if entry.Name != "a.jpg" || entry.Alert != "weapon" {
		t.Errorf("entry = %+v", entry)
	}
	if entry.Date != "29-08-2026" {
		t.Errorf("date = %q, want 29-08-2026", entry.Date)
	}
	if entry.TimeOfDay != "14:30" {
		t.Errorf("timeOfDay = %q, want 14:30", entry.TimeOfDay)
	}
	if len(entry.Objects) != 2 {
		t.Errorf("objects = %v, want 2 labels", entry.Objects)
	}
	if data.TotalPages != 1 || data.CurrentPage != 1 {
		t.Errorf("pagination = %d/%d", data.CurrentPage, data.TotalPages)
	}

	if analysisRepo.lastFilter == nil || analysisRepo.lastFilter.Alert != "weapon" {
		t.Error("alert filter not passed to repository")
	}
}

func TestDeleteHistoryHandler_NotFound(t *testing.T) {
	handler := DeleteHistoryHandler(&fakeAnalysisRepo{}, nil, testLogger(t))

	r := httptest.NewRequest(http.MethodPost, "/api/history/delete?id=42", nil)
	w := httptest.NewRecorder()
	handler(w, r)

	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", w.Code)
	}
}

func TestDeleteHistoryHandler_InvalidID(t *testing.T) {
	handler := DeleteHistoryHandler(&fakeAnalysisRepo{}, nil, testLogger(t))

	r := httptest.NewRequest(http.MethodPost, "/api/history/delete?id=abc", nil)
	w := httptest.NewRecorder()
	handler(w, r)

	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func TestViewHistoryImageHandler_RejectsTraversal(t *testing.T) {
	handler := ViewHistoryImageHandler(nil)

	r := httptest.NewRequest(http.MethodGet, "/api/history/view?image=..%2F..%2Fetc%2Fpasswd", nil)
	w := httptest.NewRecorder()
	handler(w, r)

	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}
