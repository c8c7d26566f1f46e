package app

import (
	"context"
	"testing"

	"tableflip.dev/dayplan/pkg/task"
	"tableflip.dev/dayplan/pkg/timemath"
)

func TestReportTotals(t *testing.T) {
	a := seeded("a", "p", "09:00", 60)
	a.Category = task.CategoryWork
	a.Completed = true
	b := seeded("b", "p", "09:30", 60)
	b.Category = task.CategoryWork
	c := seeded("c", "p", "12:00", 30)
	c.Category = task.CategoryHealth
	pool := seeded("d", "p", "", 30)

	svc := &Service{Persistence: newMemoryPersistence(a, b, c, pool)}
	got, err := svc.Report(context.Background(), "p", timemath.Window{StartHour: 8, EndHour: 18})
	if err != nil {
		t.Fatalf("report: %v", err)
	}
	if got.Tasks != 4 || got.Completed != 1 || got.Pool != 1 {
		t.Fatalf("unexpected counts %+v", got)
	}
	if got.Planned != 150 {
		t.Fatalf("expected 150 planned minutes, got %d", got.Planned)
	}
	// 09:00-10:30 and 12:00-12:30 are covered out of ten hours.
	if got.Free != 600-120 {
		t.Fatalf("expected 480 free minutes, got %d", got.Free)
	}
	if len(got.Categories) != 2 || got.Categories[0].Category != task.CategoryWork {
		t.Fatalf("unexpected categories %+v", got.Categories)
	}
	if work := got.Categories[0]; work.Planned != 120 || work.Done != 60 || work.Tasks != 2 {
		t.Fatalf("unexpected work totals %+v", work)
	}
}

func TestRolloverMovesUnfinishedIntoPool(t *testing.T) {
	done := seeded("done", "mon", "09:00", 30)
	done.Completed = true
	open := seeded("open", "mon", "10:00", 45)
	idle := seeded("idle", "mon", "", 20)
	mp := newMemoryPersistence(done, open, idle)
	svc := &Service{Persistence: mp, Now: fixedNow}
	ctx := context.Background()

	candidates, err := svc.RolloverCandidates(ctx, "mon")
	if err != nil {
		t.Fatalf("candidates: %v", err)
	}
	if len(candidates) != 2 || candidates[0].ID != "open" {
		t.Fatalf("expected scheduled task first, got %v", candidates)
	}

	moved, err := svc.Rollover(ctx, "mon", "tue")
	if err != nil {
		t.Fatalf("rollover: %v", err)
	}
	if len(moved) != 2 {
		t.Fatalf("expected 2 moved, got %d", len(moved))
	}
	for _, m := range moved {
		if m.Scheduled() || m.PlanID != "tue" {
			t.Fatalf("expected pool task in tue, got %+v", m)
		}
	}
	if left := mp.List(ctx, "mon"); len(left) != 1 || left[0].ID != "done" {
		t.Fatalf("expected only the completed task to stay, got %v", left)
	}
	tue := mp.List(ctx, "tue")
	total := 0
	for _, m := range tue {
		total += m.Duration()
	}
	if total != 65 {
		t.Fatalf("durations must be kept, got %d", total)
	}
}

func TestRolloverSelectedIDs(t *testing.T) {
	mp := newMemoryPersistence(seeded("a", "mon", "", 20), seeded("b", "mon", "", 20))
	svc := &Service{Persistence: mp}
	moved, err := svc.Rollover(context.Background(), "mon", "tue", "b")
	if err != nil || len(moved) != 1 || moved[0].Title != "b" {
		t.Fatalf("unexpected rollover %v %v", err, moved)
	}
}
