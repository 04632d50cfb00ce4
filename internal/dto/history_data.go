package dto

// HistoryData is a paginated response payload for the analysis history.
type HistoryData struct {
	Analyses    []HistoryInfo `json:"analyses"`
	Size        int64         `json:"size"`
	Length      int           `json:"length"`
	TotalPages  int           `json:"totalPages"`
	CurrentPage int           `json:"currentPage"`
	Limit       int           `json:"pageSize"`
}

// HistoryStats summarizes the stored analyses.
type HistoryStats struct {
	TotalAnalyses  int            `json:"total_analyses"`
	TotalSizeBytes int64          `json:"total_size_bytes"`
	PerAlert       map[string]int `json:"per_alert"`
	ObjectCounts   map[string]int `json:"object_counts"`
}
