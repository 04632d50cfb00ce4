package session

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"visionguard/internal/config"
	"visionguard/internal/logger"
	"visionguard/internal/models"
)

func testLogger(t *testing.T) *logger.Logger {
	t.Helper()
	return logger.NewLogger(&config.Config{LogDirectory: t.TempDir()})
}

func TestNewStore_WipesLeftoverScratchFiles(t *testing.T) {
	tempDir := filepath.Join(t.TempDir(), "temp")
	if err := os.MkdirAll(tempDir, 0755); err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}
	leftover := filepath.Join(tempDir, "old-session.jpg")
	if err := os.WriteFile(leftover, []byte("stale"), 0644); err != nil {
		t.Fatalf("Failed to write leftover file: %v", err)
	}

	if _, err := NewStore(tempDir, time.Hour, testLogger(t)); err != nil {
		t.Fatalf("NewStore() error = %v", err)
	}

	if _, err := os.Stat(leftover); !os.IsNotExist(err) {
		t.Error("Leftover scratch file should have been removed")
	}
	if _, err := os.Stat(tempDir); err != nil {
		t.Errorf("Temp dir should exist after NewStore: %v", err)
	}
}

func TestCreate_RemovesStaleScratchFile(t *testing.T) {
	tempDir := filepath.Join(t.TempDir(), "temp")
	store, err := NewStore(tempDir, time.Hour, testLogger(t))
	if err != nil {
		t.Fatalf("NewStore() error = %v", err)
	}

	stale := store.TempPath("abc")
	if err := os.WriteFile(stale, []byte("stale"), 0644); err != nil {
		t.Fatalf("Failed to write stale file: %v", err)
	}

	sess := store.Create("abc")
	if sess.ID != "abc" {
		t.Errorf("Create() ID = %q, want abc", sess.ID)
	}
	if _, err := os.Stat(stale); !os.IsNotExist(err) {
		t.Error("Stale scratch file should have been removed on session start")
	}
}

func TestGetOrCreate_ReturnsExisting(t *testing.T) {
	store, err := NewStore(filepath.Join(t.TempDir(), "temp"), time.Hour, testLogger(t))
	if err != nil {
		t.Fatalf("NewStore() error = %v", err)
	}

	first := store.GetOrCreate("abc")
	first.SetCaption("remembered")

	second := store.GetOrCreate("abc")
	if second != first {
		t.Error("GetOrCreate should return the same session instance")
	}
	if second.Caption() != "remembered" {
		t.Errorf("Caption = %q, want remembered", second.Caption())
	}
	if store.Count() != 1 {
		t.Errorf("Count() = %d, want 1", store.Count())
	}
}

func TestReset_ClearsStateAndScratchFile(t *testing.T) {
	store, err := NewStore(filepath.Join(t.TempDir(), "temp"), time.Hour, testLogger(t))
	if err != nil {
		t.Fatalf("NewStore() error = %v", err)
	}

	sess := store.Create("abc")
	sess.SetCycle([]byte{1, 2, 3}, []string{"person"}, models.AlertHighConfidenceWeapon)
	sess.SetCaption("a caption")
	if err := os.WriteFile(store.TempPath("abc"), []byte{1, 2, 3}, 0644); err != nil {
		t.Fatalf("Failed to write scratch file: %v", err)
	}

	store.Reset("abc")

	if sess.Image() != nil {
		t.Error("Image should be nil after reset")
	}
	if len(sess.Labels()) != 0 {
		t.Error("Labels should be empty after reset")
	}
	if sess.Caption() != "" {
		t.Error("Caption should be empty after reset")
	}
	if sess.Alert() != models.AlertNone {
		t.Error("Alert should be none after reset")
	}
	if _, err := os.Stat(store.TempPath("abc")); !os.IsNotExist(err) {
		t.Error("Scratch file should be removed on reset")
	}
	if _, ok := store.Get("abc"); !ok {
		t.Error("Session should survive a reset")
	}
}

func TestSweep_EvictsExpiredSessions(t *testing.T) {
	store, err := NewStore(filepath.Join(t.TempDir(), "temp"), 10*time.Millisecond, testLogger(t))
	if err != nil {
		t.Fatalf("NewStore() error = %v", err)
	}

	store.Create("old")
	if err := os.WriteFile(store.TempPath("old"), []byte{1}, 0644); err != nil {
		t.Fatalf("Failed to write scratch file: %v", err)
	}

	time.Sleep(20 * time.Millisecond)
	fresh := store.Create("fresh")

	store.Sweep()

	if _, ok := store.Get("old"); ok {
		t.Error("Expired session should have been evicted")
	}
	if _, err := os.Stat(store.TempPath("old")); !os.IsNotExist(err) {
		t.Error("Expired session's scratch file should be removed")
	}
	if got, ok := store.Get("fresh"); !ok || got != fresh {
		t.Error("Fresh session should survive the sweep")
	}
}
