package eventstore

import (
	"bytes"
	"path/filepath"
	"testing"
	"time"
)

const testRunID = "3f1c6a1e-7d4b-4b7a-9d55-0c2f5b9a1e01"

func TestEventStoreAppendAndRetrieve(t *testing.T) {
	store, err := NewSQLiteStore(":memory:")
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	defer func() { _ = store.Close() }()

	ctx := t.Context()
	payload := []byte(`{"process": "backend"}`)

	err = store.Append(ctx, testRunID, TypeProcessStarted, payload, map[string]string{"key": "value"})
	if err != nil {
		t.Fatalf("failed to append event: %v", err)
	}

	events, err := store.GetByRunID(ctx, testRunID)
	if err != nil {
		t.Fatalf("failed to get events: %v", err)
	}
	if len(events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(events))
	}

	event := events[0]
	if event.RunID() != testRunID {
		t.Errorf("expected run_id %s, got %s", testRunID, event.RunID())
	}
	if event.Type() != TypeProcessStarted {
		t.Errorf("expected event_type %s, got %s", TypeProcessStarted, event.Type())
	}
	if !bytes.Equal(event.Payload(), payload) {
		t.Errorf("expected payload %s, got %s", payload, event.Payload())
	}
	if event.Metadata()["key"] != "value" {
		t.Errorf("expected metadata key=value, got %v", event.Metadata())
	}
}

func TestEventStoreGetRange(t *testing.T) {
	store, err := NewSQLiteStore(":memory:")
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	defer func() { _ = store.Close() }()

	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	tick := 0
	store.now = func() time.Time {
		tick++
		return base.Add(time.Duration(tick) * time.Minute)
	}

	ctx := t.Context()
	for range 3 {
		if err := store.Append(ctx, "run-1", "Event", []byte("{}"), nil); err != nil {
			t.Fatalf("failed to append event: %v", err)
		}
	}

	events, err := store.GetRange(ctx, base, base.Add(2*time.Minute))
	if err != nil {
		t.Fatalf("failed to get range: %v", err)
	}
	if len(events) != 2 {
		t.Errorf("expected 2 events, got %d", len(events))
	}
}

func TestEventStoreMultipleRuns(t *testing.T) {
	store, err := NewSQLiteStore(":memory:")
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	defer func() { _ = store.Close() }()

	ctx := t.Context()
	_ = store.Append(ctx, "run-1", "Event1", []byte("data1"), nil)
	_ = store.Append(ctx, "run-2", "Event2", []byte("data2"), nil)
	_ = store.Append(ctx, "run-1", "Event3", []byte("data3"), nil)

	events, err := store.GetByRunID(ctx, "run-1")
	if err != nil {
		t.Fatalf("failed to get events: %v", err)
	}
	if len(events) != 2 {
		t.Errorf("expected 2 events for run-1, got %d", len(events))
	}

	events, err = store.GetByRunID(ctx, "run-2")
	if err != nil {
		t.Fatalf("failed to get events: %v", err)
	}
	if len(events) != 1 {
		t.Errorf("expected 1 event for run-2, got %d", len(events))
	}
}

func TestEventStorePersistsToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "events.db")

	store, err := NewSQLiteStore(path)
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	if err := store.Append(t.Context(), testRunID, TypeRunStarted, nil, nil); err != nil {
		t.Fatalf("failed to append event: %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("failed to close store: %v", err)
	}

	reopened, err := NewSQLiteStore(path)
	if err != nil {
		t.Fatalf("failed to reopen store: %v", err)
	}
	defer func() { _ = reopened.Close() }()

	events, err := reopened.GetByRunID(t.Context(), testRunID)
	if err != nil {
		t.Fatalf("failed to get events: %v", err)
	}
	if len(events) != 1 || string(events[0].Payload()) != "{}" {
		t.Fatalf("expected one persisted event with empty payload, got %v", events)
	}
}
