package storage

import (
	"testing"
	"time"
)

func TestFileRecorderAppendAndLoad(t *testing.T) {
	r, err := NewFileRecorder(t.TempDir() + "/log.jsonl")
	if err != nil {
		t.Fatalf("init recorder: %v", err)
	}

	ev := Event{
		Timestamp:         time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC),
		UserID:            42,
		Language:          "georgian",
		UserMessage:       "გამარჯობა",
		AssistantResponse: "გამარჯობა! 👋",
		Model:             "claude-3-5-sonnet-20241022",
		TotalTokens:       123,
	}
	if err := r.AppendInteraction(ev); err != nil {
		t.Fatalf("append: %v", err)
	}
	if err := r.AppendInteraction(Event{UserID: 7}); err != nil {
		t.Fatalf("append second: %v", err)
	}

	events, err := r.LoadInteractions()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(events) != 2 {
		t.Fatalf("loaded %d events, want 2", len(events))
	}
	if events[0].UserID != 42 || events[0].UserMessage != "გამარჯობა" {
		t.Errorf("first event mismatch: %+v", events[0])
	}
	if events[0].TotalTokens != 123 {
		t.Errorf("tokens = %d, want 123", events[0].TotalTokens)
	}
	if events[1].UserID != 7 {
		t.Errorf("second event mismatch: %+v", events[1])
	}
}
