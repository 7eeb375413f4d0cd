package storage

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"go.uber.org/zap"
)

func newTestEventLog(t *testing.T) (*EventLog, string) {
	t.Helper()
	dir := t.TempDir()
	log, err := NewEventLog(dir, zap.NewNop())
	if err != nil {
		t.Fatalf("NewEventLog: %v", err)
	}
	return log, dir
}

func TestEventLogAppendAssignsIDAndTimestamp(t *testing.T) {
	log, _ := newTestEventLog(t)

	e := log.Append("search", "/search", map[string]any{"query": "rembrandt"})
	if e.ID == "" {
		t.Error("Append must assign an ID")
	}
	if _, err := time.Parse(time.RFC3339, e.TS); err != nil {
		t.Errorf("timestamp %q is not RFC3339: %v", e.TS, err)
	}
	if e.Event != "search" || e.Page != "/search" {
		t.Errorf("event fields lost: %+v", e)
	}
}

func TestEventLogReadAllRoundTrip(t *testing.T) {
	log, _ := newTestEventLog(t)

	log.Append("search", "/search", map[string]any{"query": "vermeer"})
	log.Append("view_artwork", "/artworks", map[string]any{"object_number": "SK-C-5"})

	events, err := log.ReadAll()
	if err != nil {
		t.Fatalf("ReadAll: %v", err)
	}
	if len(events) != 2 {
		t.Fatalf("expected 2 events, got %d", len(events))
	}
	if events[0].Event != "search" || events[1].Event != "view_artwork" {
		t.Errorf("order lost: %+v", events)
	}
	if events[1].Props["object_number"] != "SK-C-5" {
		t.Errorf("props lost: %+v", events[1].Props)
	}
}

func TestEventLogSkipsBrokenLines(t *testing.T) {
	log, dir := newTestEventLog(t)

	log.Append("search", "/search", nil)

	// Kaputte Zeile von Hand einschieben.
	path := filepath.Join(dir, "analytics", "events.jsonl")
	f, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := f.WriteString("{not json\n"); err != nil {
		t.Fatal(err)
	}
	f.Close()

	log.Append("export", "/exports", map[string]any{"format": "csv"})

	events, err := log.ReadAll()
	if err != nil {
		t.Fatalf("ReadAll: %v", err)
	}
	if len(events) != 2 {
		t.Fatalf("broken line must be skipped, got %d events", len(events))
	}
}

func TestEventLogReadAllMissingFile(t *testing.T) {
	log, _ := newTestEventLog(t)

	events, err := log.ReadAll()
	if err != nil {
		t.Fatalf("missing log must not error: %v", err)
	}
	if len(events) != 0 {
		t.Errorf("expected empty slice, got %d", len(events))
	}
}
