package dto

// DetectorResult carries the outcome of one detector over one image.
type DetectorResult struct {
	Detector       string   `json:"detector"`
	Labels         []string `json:"labels"`
	AnnotatedImage string   `json:"annotatedImage,omitempty"` // base64-encoded JPEG
	Disabled       bool     `json:"disabled"`
	Notice         string   `json:"notice,omitempty"`
}

// AnalysisResult is the response payload for one analysis cycle.
type AnalysisResult struct {
	AnalysisID   int64            `json:"analysisId,omitempty"`
	Source       string           `json:"source"`
	Detectors    []DetectorResult `json:"detectors"`
	Alert        string           `json:"alert"`
	AlertMessage string           `json:"alertMessage"`
}
