package complete

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fatih/color"

	"tableflip.dev/dayplan/pkg/app"
	"tableflip.dev/dayplan/pkg/store"
)

func TestCompleteAndUndo(t *testing.T) {
	color.NoColor = true
	p, err := store.Load(store.Static{Path: filepath.Join(t.TempDir(), "db")})
	if err != nil {
		t.Fatal(err)
	}
	svc := &app.Service{Persistence: p}
	ctx := context.Background()
	created, err := svc.CreateTask(ctx, app.NewTask{Plan: "mon", Title: "stretch", Start: "08:00"})
	if err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	if err := (&Complete{ID: created.ID, Service: svc, Out: &buf}).Do(ctx); err != nil {
		t.Fatalf("complete: %v", err)
	}
	if !strings.Contains(buf.String(), created.ID) {
		t.Fatalf("expected the id in %q", buf.String())
	}
	got, _ := svc.Get(ctx, created.ID)
	if !got.Completed || got.StartTime != "08:00:00" {
		t.Fatalf("unexpected task %+v", got)
	}

	if err := (&Complete{ID: created.ID, Undo: true, Service: svc, Out: &buf}).Do(ctx); err != nil {
		t.Fatalf("undo: %v", err)
	}
	got, _ = svc.Get(ctx, created.ID)
	if got.Completed {
		t.Fatal("expected task to be open again")
	}
}
