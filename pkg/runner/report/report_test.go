package report

import (
	"bytes"
	"context"
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

func TestReport(t *testing.T) {
	color.NoColor = true
	p, err := store.Load(store.Static{Path: filepath.Join(t.TempDir(), "db")})
	if err != nil {
		t.Fatal(err)
	}
	svc := &app.Service{Persistence: p}
	ctx := context.Background()
	if _, err := svc.CreateTask(ctx, app.NewTask{Plan: "mon", Title: "deep work", Category: "work", Start: "09:00", Duration: task.Minutes(120)}); err != nil {
		t.Fatal(err)
	}
	if err := svc.SetWindow(ctx, "mon", timemath.Window{StartHour: 8, EndHour: 12}); err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	if err := (&Report{Plan: "mon", Window: timemath.DefaultWindow, Service: svc, Out: &buf}).Do(ctx); err != nil {
		t.Fatalf("report: %v", err)
	}
	for _, want := range []string{"work", "2h", "free"} {
		if !strings.Contains(buf.String(), want) {
			t.Fatalf("expected %q in %q", want, buf.String())
		}
	}

	buf.Reset()
	if err := (&Report{Plan: "mon", Window: timemath.DefaultWindow, Format: printers.FormatYAML, Service: svc, Out: &buf}).Do(ctx); err != nil {
		t.Fatalf("report: %v", err)
	}
	// the plan's own 08-12 window leaves two free hours
	if !strings.Contains(buf.String(), "freeMinutes: 120") {
		t.Fatalf("unexpected yaml %q", buf.String())
	}
}
