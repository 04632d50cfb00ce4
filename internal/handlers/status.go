package handlers

import (
	"net/http"

	"visionguard/internal/services/ai"
	"visionguard/internal/services/session"
)

// CaptionProbe reports whether the captioning backend is reachable.
type CaptionProbe interface {
	Healthy() bool
}

type detectorStatus struct {
	Name    string `json:"name"`
	Enabled bool   `json:"enabled"`
	Error   string `json:"error,omitempty"`
}

type statusResponse struct {
	Detectors []detectorStatus `json:"detectors"`
	Captioner struct {
		Healthy bool `json:"healthy"`
	} `json:"captioner"`
	Sessions int `json:"sessions"`
}

// StatusHandler reports model load state and captioner health. Detector
// load failures surface here so the UI can show which panel is disabled.
func StatusHandler(registry *ai.Registry, captioner CaptionProbe, store *session.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var resp statusResponse

		for _, d := range registry.Detectors() {
			status := detectorStatus{
				Name:    d.Name(),
				Enabled: d.Enabled(),
			}
			if err := d.LoadError(); err != nil {
				status.Error = err.Error()
			}
			resp.Detectors = append(resp.Detectors, status)
		}

		resp.Captioner.Healthy = captioner.Healthy()
		resp.Sessions = store.Count()

		writeJSON(w, http.StatusOK, resp)
	}
}
