package eventstore

import (
	"context"
	"testing"
	"time"
)

func recordAll(t *testing.T, j *Journal, events ...Event) {
	t.Helper()
	for _, e := range events {
		if err := j.Record(context.Background(), e); err != nil {
			t.Fatalf("record %s: %v", e.Type(), err)
		}
	}
}

func must[T Event](t *testing.T) func(T, error) T {
	return func(e T, err error) T {
		t.Helper()
		if err != nil {
			t.Fatalf("build event: %v", err)
		}
		return e
	}
}

func TestRunHistoryProjection(t *testing.T) {
	store, err := NewSQLiteStore(":memory:")
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	defer func() { _ = store.Close() }()

	base := time.Date(2025, 5, 4, 9, 0, 0, 0, time.UTC)
	tick := 0
	store.now = func() time.Time {
		tick++
		return base.Add(time.Duration(tick) * time.Second)
	}

	journal := NewJournal(store, map[string]string{"host": "dev"})

	recordAll(t, journal,
		must[*RunStarted](t)(NewRunStarted("run-a", "/src/app", "abc123", "v1")),
		must[*StepCompleted](t)(NewStepCompleted("run-a", "create-venv", false, time.Second)),
		must[*StepCompleted](t)(NewStepCompleted("run-a", "npm-install", true, 0)),
		must[*ProcessStarted](t)(NewProcessStarted("run-a", "backend", 42, "uvicorn")),
		must[*RunStopped](t)(NewRunStopped("run-a", time.Minute)),
		must[*RunStarted](t)(NewRunStarted("run-b", "/src/app", "", "v1")),
		must[*RunFailed](t)(NewRunFailed("run-b", "prerequisite", "npm not found")),
	)

	projection := NewRunHistoryProjection(store, 10)
	if err := projection.Rebuild(t.Context()); err != nil {
		t.Fatalf("rebuild: %v", err)
	}

	recent := projection.Recent(0)
	if len(recent) != 2 {
		t.Fatalf("expected 2 runs, got %d", len(recent))
	}
	if recent[0].RunID != "run-b" {
		t.Errorf("expected newest run first, got %s", recent[0].RunID)
	}
	if recent[0].Status != RunStatusFailed || recent[0].ErrorMessage != "npm not found" {
		t.Errorf("unexpected failed run summary: %+v", recent[0])
	}

	runA, ok := projection.Get("run-a")
	if !ok {
		t.Fatal("run-a missing")
	}
	if runA.Status != RunStatusStopped || runA.EndedAt == nil {
		t.Errorf("expected stopped run with end time, got %+v", runA)
	}
	if runA.StepsRun != 1 || runA.StepsSkipped != 1 {
		t.Errorf("expected 1 run and 1 skipped step, got %d/%d", runA.StepsRun, runA.StepsSkipped)
	}
	if runA.Processes["backend"] != 42 {
		t.Errorf("expected backend pid 42, got %v", runA.Processes)
	}
	if runA.Commit != "abc123" {
		t.Errorf("expected commit abc123, got %q", runA.Commit)
	}

	if got := projection.Recent(1); len(got) != 1 {
		t.Errorf("expected limit to apply, got %d", len(got))
	}

	events, err := store.GetByRunID(t.Context(), "run-a")
	if err != nil {
		t.Fatalf("get events: %v", err)
	}
	if events[0].Metadata()["host"] != "dev" {
		t.Errorf("expected journal metadata on events, got %v", events[0].Metadata())
	}
}
