package dto

import (
	"encoding/json"
	"time"
)

// HistoryInfo represents metadata about one stored analysis.
type HistoryInfo struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Date      time.Time `json:"date"`
	TimeOfDay time.Time `json:"timeOfDay"`
	Source    string    `json:"source"`
	Alert     string    `json:"alert"`
	Caption   string    `json:"caption,omitempty"`
	Objects   []string  `json:"objects"`
}

// MarshalJSON customizes JSON output for HistoryInfo to format date and time-of-day.
func (h HistoryInfo) MarshalJSON() ([]byte, error) {
	type Alias HistoryInfo
	return json.Marshal(&struct {
		Date      string `json:"date"`
		TimeOfDay string `json:"timeOfDay"`
		Alias
	}{
		Date:      h.Date.Format("02-01-2006"),
		TimeOfDay: h.TimeOfDay.Format("15:04"),
		Alias:     (Alias)(h),
	})
}
