package models

// Detection represents a single detected object in an image.
type Detection struct {
	Label      string  `json:"label"`
	Confidence float64 `json:"confidence"`
	X          int     `json:"x"`
	Y          int     `json:"y"`
	Width      int     `json:"width"`
	Height     int     `json:"height"`
}

// FilterLabels returns the class names of all detections whose confidence is
// at least threshold (inclusive). Order follows the detector output and
// duplicate labels are kept.
func FilterLabels(detections []Detection, threshold float64) []string {
	var labels []string
	for _, det := range detections {
		if det.Confidence >= threshold {
			labels = append(labels, det.Label)
		}
	}
	return labels
}
