package models

import "time"

// Analysis represents one stored analysis cycle.
type Analysis struct {
	ID        int64      `json:"id"`
	SessionID string     `json:"session_id"`
	Filename  string     `json:"filename"`
	FilePath  string     `json:"filepath"`
	FileSize  int64      `json:"filesize"`
	Source    string     `json:"source"` // "upload" or "webcam"
	Alert     AlertState `json:"alert"`
	Caption   string     `json:"caption"`
	Timestamp time.Time  `json:"timestamp"`
}

// StoredDetection is one detection row attached to a stored analysis.
type StoredDetection struct {
	ID         int64   `json:"id"`
	AnalysisID int64   `json:"analysis_id"`
	Detector   string  `json:"detector"` // "coco" or "knife"
	Label      string  `json:"label"`
	Confidence float64 `json:"confidence"`
	X          int     `json:"x"`
	Y          int     `json:"y"`
	Width      int     `json:"width"`
	Height     int     `json:"height"`
}
