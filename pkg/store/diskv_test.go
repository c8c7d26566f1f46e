package store

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"tableflip.dev/dayplan/pkg/task"
	"tableflip.dev/dayplan/pkg/timemath"
)

func TestStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	p, err := Load(Static{Path: t.TempDir()})
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	a := task.New("2025-03-01", "standup")
	a.ID = "6f1c0a52-8d7e-4b7a-9a55-1f2e3d4c5b6a"
	a.StartTime = "09:00"
	a.DurationMinutes = task.Minutes(15)
	a.Category = task.CategoryWork
	if err := p.Store(a); err != nil {
		t.Fatalf("store: %v", err)
	}
	b := task.New("2025-03-02", "gym")
	b.ID = "b"
	if err := p.Store(b); err != nil {
		t.Fatalf("store: %v", err)
	}

	got := p.List(ctx, "2025-03-01")
	if len(got) != 1 {
		t.Fatalf("expected 1 task, got %d", len(got))
	}
	if got[0].ID != a.ID || got[0].PlanID != "2025-03-01" {
		t.Fatalf("unexpected identity %q/%q", got[0].ID, got[0].PlanID)
	}
	if got[0].StartTime != "09:00:00" || got[0].EndTime != "09:15:00" || got[0].Category != task.CategoryWork {
		t.Fatalf("unexpected record %+v", got[0])
	}

	if all := p.ListAll(ctx); len(all) != 2 {
		t.Fatalf("expected 2 tasks overall, got %d", len(all))
	}

	found, err := p.Get(ctx, "b")
	if err != nil || found.Title != "gym" {
		t.Fatalf("get: %v %+v", err, found)
	}
	if _, err := p.Get(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	if err := p.Delete(found); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if left := p.List(ctx, "2025-03-02"); len(left) != 0 {
		t.Fatalf("expected empty plan after delete, got %d", len(left))
	}
}

func TestStoreRejectsTaskWithoutPlan(t *testing.T) {
	p, err := Load(Static{Path: t.TempDir()})
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if err := p.Store(&task.Task{Title: "orphan"}); err == nil {
		t.Fatal("expected error")
	}
}

func TestReadRepairsUnknownEnums(t *testing.T) {
	base := t.TempDir()
	p, err := Load(Static{Path: base})
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	dir := filepath.Join(base, toPlan("p"))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	raw := `{"title":"odd","category":"hobby","priority":"urgent","startTime":"25:00"}`
	if err := os.WriteFile(filepath.Join(dir, "x"), []byte(raw), 0o644); err != nil {
		t.Fatal(err)
	}

	got := p.List(context.Background(), "p")
	if len(got) != 1 {
		t.Fatalf("expected 1 task, got %d", len(got))
	}
	tk := got[0]
	if tk.Category != task.CategoryOther || tk.Priority != task.PriorityMedium {
		t.Fatalf("expected repaired enums, got %s/%s", tk.Category, tk.Priority)
	}
	if tk.Scheduled() {
		t.Fatalf("malformed start must be dropped, got %q", tk.StartTime)
	}
}

func TestPlansIndex(t *testing.T) {
	ctx := context.Background()
	p, err := Load(Static{Path: t.TempDir()})
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	for _, title := range []string{"a", "b"} {
		tk := task.New("2025-03-01", title)
		tk.ID = title
		if err := p.Store(tk); err != nil {
			t.Fatalf("store: %v", err)
		}
	}
	if err := p.SetPlanWindow("night", timemath.Window{StartHour: 22, EndHour: 26}); err != nil {
		t.Fatalf("set window: %v", err)
	}

	plans := p.Plans(ctx)
	if len(plans) != 2 {
		t.Fatalf("expected 2 plans, got %+v", plans)
	}
	if plans[0].Name != "2025-03-01" || plans[0].Tasks != 2 || plans[0].Window != nil {
		t.Fatalf("unexpected plan %+v", plans[0])
	}
	if plans[1].Name != "night" || plans[1].Window == nil || plans[1].Window.EndHour != 2 {
		t.Fatalf("unexpected plan %+v", plans[1])
	}
}

func TestKeyTransformKeepsDashedIDs(t *testing.T) {
	key := toKey(&task.Task{PlanID: "2025-03-01", ID: "6f1c0a52-8d7e"})
	pk := keyToPathTransform(key)
	if fromPlan(pk.Path[0]) != "2025-03-01" || pk.FileName != "6f1c0a52-8d7e" {
		t.Fatalf("unexpected path key %+v", pk)
	}
	if pathToKeyTransform(pk) != key {
		t.Fatalf("inverse transform mismatch")
	}
}
