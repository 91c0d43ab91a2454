package storage

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/mossline/biodome/telemetry"
)

func newTestStore(t *testing.T) *RunStore {
	t.Helper()
	s := NewRunStore(filepath.Join(t.TempDir(), "runs.db"))
	if err := s.Init(context.Background()); err != nil {
		t.Fatalf("Init: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestInitRequiresPath(t *testing.T) {
	s := NewRunStore("")
	if err := s.Init(context.Background()); err == nil {
		t.Fatal("Init with empty path succeeded")
	}
}

func TestInitIdempotent(t *testing.T) {
	s := newTestStore(t)
	if err := s.Init(context.Background()); err != nil {
		t.Fatalf("second Init: %v", err)
	}
}

func TestUninitializedStoreErrors(t *testing.T) {
	s := NewRunStore(filepath.Join(t.TempDir(), "runs.db"))
	if _, err := s.BeginRun(context.Background(), 1, ""); err == nil {
		t.Error("BeginRun before Init succeeded")
	}
	if err := s.SaveWindow(context.Background(), "x", telemetry.WindowStats{}); err == nil {
		t.Error("SaveWindow before Init succeeded")
	}
}

func TestRunLifecycle(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	id, err := s.BeginRun(ctx, 42, "garden")
	if err != nil {
		t.Fatalf("BeginRun: %v", err)
	}
	if id == "" {
		t.Fatal("empty run id")
	}
	if err := s.FinishRun(ctx, id, 4800, "victory"); err != nil {
		t.Fatalf("FinishRun: %v", err)
	}

	runs, err := s.LastRuns(ctx, 10)
	if err != nil {
		t.Fatalf("LastRuns: %v", err)
	}
	if len(runs) != 1 {
		t.Fatalf("got %d runs, want 1", len(runs))
	}
	r := runs[0]
	if r.ID != id || r.Seed != 42 || r.Scenario != "garden" {
		t.Errorf("run = %+v, want id %s, seed 42, scenario garden", r, id)
	}
	if r.FinalTick != 4800 || r.Outcome != "victory" {
		t.Errorf("run = %+v, want final tick 4800, outcome victory", r)
	}
}

// An unfinished run reads back with zero-value outcome columns.
func TestLastRunsUnfinishedRun(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	if _, err := s.BeginRun(ctx, 7, ""); err != nil {
		t.Fatalf("BeginRun: %v", err)
	}
	runs, err := s.LastRuns(ctx, 1)
	if err != nil {
		t.Fatalf("LastRuns: %v", err)
	}
	if len(runs) != 1 {
		t.Fatalf("got %d runs, want 1", len(runs))
	}
	if runs[0].FinalTick != 0 || runs[0].Outcome != "" {
		t.Errorf("unfinished run = %+v, want zero final tick and empty outcome", runs[0])
	}
}

func TestLastRunsNewestFirst(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	for seed := int64(1); seed <= 3; seed++ {
		if _, err := s.BeginRun(ctx, seed, ""); err != nil {
			t.Fatalf("BeginRun(%d): %v", seed, err)
		}
	}

	runs, err := s.LastRuns(ctx, 2)
	if err != nil {
		t.Fatalf("LastRuns: %v", err)
	}
	if len(runs) != 2 {
		t.Fatalf("got %d runs, want limit 2", len(runs))
	}
	if runs[0].Seed != 3 || runs[1].Seed != 2 {
		t.Errorf("seeds = %d, %d, want newest first: 3, 2", runs[0].Seed, runs[1].Seed)
	}
}

// Re-saving the same window replaces the row instead of failing on the
// (run_id, tick) key.
func TestSaveWindowUpsert(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	id, err := s.BeginRun(ctx, 11, "")
	if err != nil {
		t.Fatalf("BeginRun: %v", err)
	}

	w := telemetry.WindowStats{
		Tick: 240, Births: 3, Deaths: 1, PredationHits: 2, PredationMiss: 4,
		Plants: 60, Creatures: 30, Predators: 6,
		MeanHealth: 48.5, StdHealth: 3.2, MeanEnergy: 21,
	}
	if err := s.SaveWindow(ctx, id, w); err != nil {
		t.Fatalf("SaveWindow: %v", err)
	}
	w.Births = 9
	if err := s.SaveWindow(ctx, id, w); err != nil {
		t.Fatalf("SaveWindow upsert: %v", err)
	}
	w2 := w
	w2.Tick = 480
	if err := s.SaveWindow(ctx, id, w2); err != nil {
		t.Fatalf("SaveWindow second window: %v", err)
	}

	windows, err := s.RunWindows(ctx, id)
	if err != nil {
		t.Fatalf("RunWindows: %v", err)
	}
	if len(windows) != 2 {
		t.Fatalf("got %d windows, want 2", len(windows))
	}
	if windows[0].Tick != 240 || windows[1].Tick != 480 {
		t.Errorf("ticks = %d, %d, want tick order 240, 480", windows[0].Tick, windows[1].Tick)
	}
	if windows[0].Births != 9 {
		t.Errorf("births = %d after upsert, want 9", windows[0].Births)
	}
	if windows[0].MeanHealth != 48.5 || windows[0].PredationMiss != 4 {
		t.Errorf("window = %+v, want saved stats back", windows[0])
	}
}

// A store reopened on the same file sees earlier runs.
func TestReopenKeepsHistory(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "runs.db")

	s := NewRunStore(path)
	if err := s.Init(ctx); err != nil {
		t.Fatalf("Init: %v", err)
	}
	id, err := s.BeginRun(ctx, 5, "flood")
	if err != nil {
		t.Fatalf("BeginRun: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	s2 := NewRunStore(path)
	if err := s2.Init(ctx); err != nil {
		t.Fatalf("reopen Init: %v", err)
	}
	defer s2.Close()

	runs, err := s2.LastRuns(ctx, 10)
	if err != nil {
		t.Fatalf("LastRuns: %v", err)
	}
	if len(runs) != 1 || runs[0].ID != id {
		t.Errorf("reopened store returned %+v, want the run begun before close", runs)
	}
}
