package get

import (
	"bytes"
	"context"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fatih/color"

	"tableflip.dev/dayplan/pkg/app"
	"tableflip.dev/dayplan/pkg/printers"
	"tableflip.dev/dayplan/pkg/store"
	"tableflip.dev/dayplan/pkg/task"
	"tableflip.dev/dayplan/pkg/timemath"
)

func newService(t *testing.T) *app.Service {
	t.Helper()
	p, err := store.Load(store.Static{Path: filepath.Join(t.TempDir(), "db")})
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	return &app.Service{Persistence: p}
}

func TestGetPretty(t *testing.T) {
	color.NoColor = true
	svc := newService(t)
	ctx := context.Background()
	if _, err := svc.CreateTask(ctx, app.NewTask{Plan: "mon", Title: "standup", Start: "09:00", Duration: task.Minutes(30)}); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.CreateTask(ctx, app.NewTask{Plan: "mon", Title: "groceries"}); err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	g := &Get{Plan: "mon", Strip: true, Width: 40, Window: timemath.Window{StartHour: 8, EndHour: 12}, Service: svc, Out: &buf}
	if err := g.Do(ctx); err != nil {
		t.Fatalf("get: %v", err)
	}
	out := buf.String()
	for _, want := range []string{"mon - 2 tasks", "09:00-09:30", "standup", "Pool - 1 task", "groceries", "08"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in %q", want, out)
		}
	}
}

func TestGetJSON(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()
	if _, err := svc.CreateTask(ctx, app.NewTask{Plan: "mon", Title: "standup", Start: "09:00"}); err != nil {
		t.Fatal(err)
	}
	var buf bytes.Buffer
	g := &Get{Plan: "mon", Format: printers.FormatJSON, Service: svc, Out: &buf}
	if err := g.Do(ctx); err != nil {
		t.Fatalf("get: %v", err)
	}
	var got []map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("decode %q: %v", buf.String(), err)
	}
	if len(got) != 1 || got[0]["endTime"] != "10:00:00" {
		t.Fatalf("unexpected output %v", got)
	}
}

func TestGetNoPersistence(t *testing.T) {
	if err := (&Get{}).Do(context.Background()); err == nil {
		t.Fatal("expected error")
	}
}
