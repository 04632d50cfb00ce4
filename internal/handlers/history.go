package handlers

import (
	"net/http"
	"strconv"

	"visionguard/internal/dto"
	"visionguard/internal/logger"
	"visionguard/internal/repository"
	"visionguard/internal/services/storage"
)

// GetHistoryHandler returns a filtered, paginated list of past analyses.
func GetHistoryHandler(analysisRepo repository.AnalysisRepository, detectionRepo repository.DetectionRepository, logger *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		page := atoiDefault(q.Get("page"), 1)
		limit := atoiDefault(q.Get("limit"), 24)

		filter := historyFiltersFromQuery(r)

		analyses, err := analysisRepo.GetAll(filter, limit, (page-1)*limit)
		if err != nil {
			logger.Error("Error querying analysis history: %v", err)
			writeError(w, http.StatusInternalServerError, "Failed to load history.")
			return
		}

		totalCount, err := analysisRepo.GetTotalCount(filter)
		if err != nil {
			logger.Error("Error counting analyses: %v", err)
			totalCount = len(analyses)
		}

		totalSize, err := analysisRepo.GetTotalSize()
		if err != nil {
			logger.Error("Error getting history size: %v", err)
			totalSize = 0
		}

		var infos []dto.HistoryInfo
		for _, a := range analyses {
			objects, err := detectionRepo.GetLabelsByAnalysisID(a.ID)
			if err != nil {
				logger.Error("Error getting labels for analysis %d: %v", a.ID, err)
				objects = []string{}
			}

			infos = append(infos, dto.HistoryInfo{
				ID:        a.ID,
				Name:      a.Filename,
				Date:      a.Timestamp,
				TimeOfDay: a.Timestamp,
				Source:    a.Source,
				Alert:     a.Alert.String(),
				Caption:   a.Caption,
				Objects:   objects,
			})
		}

		totalPages := 0
		if totalCount > 0 {
			totalPages = (totalCount + limit - 1) / limit
		}

		writeJSON(w, http.StatusOK, dto.HistoryData{
			Analyses:    infos,
			Size:        totalSize,
			Length:      totalCount,
			TotalPages:  totalPages,
			CurrentPage: page,
			Limit:       limit,
		})
	}
}

// ViewHistoryImageHandler serves one stored annotated image by filename.
func ViewHistoryImageHandler(imageStore *storage.ImageStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		name := r.URL.Query().Get("image")
		if !isValidFilename(name) {
			writeError(w, http.StatusBadRequest, "Invalid image name.")
			return
		}
		http.ServeFile(w, r, imageStore.Path(name))
	}
}

// DeleteHistoryHandler removes one analysis, its detections and its image.
func DeleteHistoryHandler(analysisRepo repository.AnalysisRepository, imageStore *storage.ImageStore, logger *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost && r.Method != http.MethodDelete {
			writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
			return
		}

		id, err := strconv.ParseInt(r.URL.Query().Get("id"), 10, 64)
		if err != nil || id <= 0 {
			writeError(w, http.StatusBadRequest, "Invalid analysis id.")
			return
		}

		analysis, err := analysisRepo.GetByID(id)
		if err != nil {
			logger.Error("Error loading analysis %d: %v", id, err)
			writeError(w, http.StatusInternalServerError, "Failed to delete analysis.")
			return
		}
		if analysis == nil {
			writeError(w, http.StatusNotFound, "Analysis not found.")
			return
		}

		if err := imageStore.Delete(analysis.Filename); err != nil {
			logger.Error("Error deleting image for analysis %d: %v", id, err)
		}

		if err := analysisRepo.Delete(id); err != nil {
			logger.Error("Error deleting analysis %d: %v", id, err)
			writeError(w, http.StatusInternalServerError, "Failed to delete analysis.")
			return
		}

		writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
	}
}

// ClearHistoryHandler removes every stored analysis and image.
func ClearHistoryHandler(analysisRepo repository.AnalysisRepository, imageStore *storage.ImageStore, logger *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
			return
		}

		if err := imageStore.DeleteAll(); err != nil {
			logger.Error("Error clearing stored images: %v", err)
		}

		if err := analysisRepo.DeleteAll(); err != nil {
			logger.Error("Error clearing analysis history: %v", err)
			writeError(w, http.StatusInternalServerError, "Failed to clear history.")
			return
		}

		writeJSON(w, http.StatusOK, map[string]string{"status": "cleared"})
	}
}

// GetFiltersHandler returns the distinct detected labels for the history
// filter dropdown.
func GetFiltersHandler(detectionRepo repository.DetectionRepository, logger *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		labels, err := detectionRepo.GetAllLabels()
		if err != nil {
			logger.Error("Error loading filter labels: %v", err)
			writeError(w, http.StatusInternalServerError, "Failed to load filters.")
			return
		}

		writeJSON(w, http.StatusOK, map[string][]string{"objects": labels})
	}
}

// GetStatsHandler returns summary statistics for the history view.
func GetStatsHandler(analysisRepo repository.AnalysisRepository, logger *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		stats, err := analysisRepo.GetStats()
		if err != nil {
			logger.Error("Error loading history stats: %v", err)
			writeError(w, http.StatusInternalServerError, "Failed to load statistics.")
			return
		}

		writeJSON(w, http.StatusOK, stats)
	}
}
