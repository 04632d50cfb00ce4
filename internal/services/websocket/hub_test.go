package websocket

import (
	"encoding/json"
	"testing"

	"visionguard/internal/config"
	"visionguard/internal/logger"
	"visionguard/internal/models"
)

func testLogger(t *testing.T) *logger.Logger {
	t.Helper()
	return logger.NewLogger(&config.Config{LogDirectory: t.TempDir()})
}

func TestPublishAlert_SkipsNoneState(t *testing.T) {
	hub := NewHubService(testLogger(t))

	hub.PublishAlert(models.AlertNone, "upload")

	if len(hub.broadcast) != 0 {
		t.Errorf("broadcast queue has %d messages, want 0 for none state", len(hub.broadcast))
	}
}

func TestPublishAlert_EncodesEvent(t *testing.T) {
	hub := NewHubService(testLogger(t))

	hub.PublishAlert(models.AlertHighConfidenceWeapon, "webcam")

	if len(hub.broadcast) != 1 {
		t.Fatalf("broadcast queue has %d messages, want 1", len(hub.broadcast))
	}

	var event AlertEvent
	if err := json.Unmarshal(<-hub.broadcast, &event); err != nil {
		t.Fatalf("Failed to decode event: %v", err)
	}
	if event.Alert != "weapon" {
		t.Errorf("Alert = %q, want weapon", event.Alert)
	}
	if event.Message != models.AlertHighConfidenceWeapon.Message() {
		t.Errorf("Message = %q", event.Message)
	}
	if event.Source != "webcam" {
		t.Errorf("Source = %q, want webcam", event.Source)
	}
}
