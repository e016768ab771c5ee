package monitoring

import (
	"path/filepath"
	"testing"
	"time"
)

func TestEventLogWriteRead(t *testing.T) {
	path := filepath.Join(t.TempDir(), "events.jsonl")
	el, err := NewJSONLEventLog(path)
	if err != nil {
		t.Fatalf("creating event log: %v", err)
	}
	defer el.Close()

	events := []Event{
		{Time: time.Now().UTC().Add(-2 * time.Hour), Level: LevelInfo, Type: EventMonitorStarted, Message: "monitoring started"},
		{Time: time.Now().UTC().Add(-time.Hour), Level: LevelWarn, Type: EventAlertTriggered, Message: "memory usage 92.0% exceeds threshold 90.0%"},
		{Time: time.Now().UTC(), Level: LevelInfo, Type: EventAlertCleared, Message: "alert resource_memory cleared after 1h0m0s"},
	}
	for _, e := range events {
		if err := el.Write(e); err != nil {
			t.Fatalf("writing event: %v", err)
		}
	}

	all, err := el.Read(EventFilter{})
	if err != nil {
		t.Fatalf("reading events: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("expected 3 events, got %d", len(all))
	}

	warns, err := el.Read(EventFilter{Level: LevelWarn})
	if err != nil {
		t.Fatalf("reading filtered events: %v", err)
	}
	if len(warns) != 1 || warns[0].Type != EventAlertTriggered {
		t.Errorf("expected 1 alert.triggered warning, got %v", warns)
	}

	since := time.Now().UTC().Add(-90 * time.Minute)
	recent, err := el.Read(EventFilter{Since: &since})
	if err != nil {
		t.Fatalf("reading since-filtered events: %v", err)
	}
	if len(recent) != 2 {
		t.Errorf("expected 2 recent events, got %d", len(recent))
	}
}

func TestEventLogReadMissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "events.jsonl")
	el, err := NewJSONLEventLog(path)
	if err != nil {
		t.Fatalf("creating event log: %v", err)
	}
	defer el.Close()

	// Nothing written: the underlying file exists but is empty.
	events, err := el.Read(EventFilter{})
	if err != nil {
		t.Fatalf("reading empty log: %v", err)
	}
	if len(events) != 0 {
		t.Errorf("expected no events, got %d", len(events))
	}
}

func TestNopEventLog(t *testing.T) {
	el := NewNopEventLog()

	if err := el.Write(Event{Type: EventCycleError}); err != nil {
		t.Errorf("nop write returned error: %v", err)
	}
	events, err := el.Read(EventFilter{})
	if err != nil {
		t.Errorf("nop read returned error: %v", err)
	}
	if len(events) != 0 {
		t.Errorf("expected nop log to hold nothing, got %d events", len(events))
	}
	if err := el.Close(); err != nil {
		t.Errorf("nop close returned error: %v", err)
	}
}

func TestLogEventNilSink(t *testing.T) {
	// Must not panic.
	logEvent(nil, LevelInfo, EventMonitorStarted, "monitoring started", nil)
}
