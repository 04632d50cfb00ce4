package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"visionguard/internal/dto"
)

// writeJSON sends v as a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError sends a short human-readable error message as JSON.
// Raw internal error text never goes through here.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

// atoiDefault parses a positive integer, falling back to def for empty,
// malformed or non-positive input.
func atoiDefault(s string, def int) int {
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return def
	}
	return n
}

// parseDate parses a yyyy-mm-dd query parameter; zero time on failure.
func parseDate(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}
	}
	return t
}

// isValidFilename rejects empty names, path traversal and control bytes.
func isValidFilename(name string) bool {
	if name == "" {
		return false
	}
	if strings.ContainsAny(name, "/\\\x00") {
		return false
	}
	if strings.Contains(name, "..") {
		return false
	}
	return true
}

// historyFiltersFromQuery builds repository filters from query parameters.
func historyFiltersFromQuery(r *http.Request) *dto.HistoryFilters {
	q := r.URL.Query()
	return &dto.HistoryFilters{
		Object:     q.Get("object"),
		Alert:      q.Get("alert"),
		Source:     q.Get("source"),
		DateAfter:  parseDate(q.Get("dateAfter")),
		DateBefore: parseDate(q.Get("dateBefore")),
	}
}
