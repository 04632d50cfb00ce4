package dto

import "time"

// HistoryFilters describe user-provided filters to narrow the analysis history.
type HistoryFilters struct {
	Object     string
	Alert      string
	Source     string
	DateAfter  time.Time
	DateBefore time.Time
}
