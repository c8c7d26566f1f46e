package mcp

import (
	"context"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/mark3labs/mcp-go/mcp"

	"tableflip.dev/dayplan/pkg/app"
	"tableflip.dev/dayplan/pkg/clock"
	"tableflip.dev/dayplan/pkg/store"
	"tableflip.dev/dayplan/pkg/task"
	"tableflip.dev/dayplan/pkg/timemath"
)

func newTestService(t *testing.T) *Service {
	t.Helper()
	p, err := store.Load(store.Static{Path: filepath.Join(t.TempDir(), "db")})
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	svc := NewService(&app.Service{Persistence: p}, "mon", timemath.Window{StartHour: 8, EndHour: 18})
	svc.Clock = clock.NewFixed(time.Date(2025, 3, 3, 9, 30, 0, 0, time.Local))
	return svc
}

func call(t *testing.T, h func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error), args map[string]any) (string, bool) {
	t.Helper()
	req := mcp.CallToolRequest{}
	req.Params.Arguments = args
	res, err := h(context.Background(), req)
	if err != nil {
		t.Fatalf("handler: %v", err)
	}
	if len(res.Content) != 1 {
		t.Fatalf("expected one content item, got %d", len(res.Content))
	}
	text, ok := res.Content[0].(mcp.TextContent)
	if !ok {
		t.Fatalf("unexpected content %T", res.Content[0])
	}
	return text.Text, res.IsError
}

func TestServiceViewLanes(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	for _, nt := range []app.NewTask{
		{Title: "a", Start: "09:00", Duration: task.Minutes(60)},
		{Title: "b", Start: "09:30", Duration: task.Minutes(60)},
		{Title: "c"},
	} {
		if _, err := svc.Create(ctx, nt); err != nil {
			t.Fatalf("create: %v", err)
		}
	}
	view, err := svc.View(ctx, "")
	if err != nil {
		t.Fatalf("view: %v", err)
	}
	if view.Plan != "mon" || view.Lanes != 2 || len(view.Scheduled) != 2 || len(view.Pool) != 1 {
		t.Fatalf("unexpected view %+v", view)
	}
	if *view.Scheduled[0].Lane != 0 || *view.Scheduled[1].Lane != 1 {
		t.Fatalf("overlapping tasks must take separate lanes: %+v", view.Scheduled)
	}
}

func TestToolsRoundTrip(t *testing.T) {
	svc := newTestService(t)

	out, isErr := call(t, createTaskHandler(svc), map[string]any{"title": "standup", "start_time": "9:00", "duration": "1h"})
	if isErr {
		t.Fatalf("create failed: %s", out)
	}
	var created TaskDTO
	if err := json.Unmarshal([]byte(out), &created); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if created.Plan != "mon" || created.EndTime != "10:00:00" || !created.Scheduled {
		t.Fatalf("unexpected task %+v", created)
	}

	out, _ = call(t, nowHandler(svc), map[string]any{})
	var now NowDTO
	if err := json.Unmarshal([]byte(out), &now); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if now.Mode != "executing" || now.Current == nil || now.Current.ID != created.ID || now.Countdown != "30:00" {
		t.Fatalf("unexpected now %+v", now)
	}

	out, isErr = call(t, scheduleTaskHandler(svc), map[string]any{"id": created.ID, "start_time": "13:00"})
	if isErr {
		t.Fatalf("schedule failed: %s", out)
	}
	out, _ = call(t, unassignTaskHandler(svc), map[string]any{"id": created.ID})
	var pooled TaskDTO
	_ = json.Unmarshal([]byte(out), &pooled)
	if pooled.Scheduled || pooled.DurationMinutes != 60 {
		t.Fatalf("unexpected pool task %+v", pooled)
	}

	out, _ = call(t, completeTaskHandler(svc), map[string]any{"id": created.ID})
	var done TaskDTO
	_ = json.Unmarshal([]byte(out), &done)
	if !done.Completed {
		t.Fatalf("expected completed, got %s", out)
	}

	if _, isErr := call(t, deleteTaskHandler(svc), map[string]any{"id": created.ID}); isErr {
		t.Fatal("delete failed")
	}
	if out, isErr := call(t, deleteTaskHandler(svc), map[string]any{"id": created.ID}); !isErr {
		t.Fatalf("second delete must fail, got %s", out)
	}
}

func TestToolsRejectBadInput(t *testing.T) {
	svc := newTestService(t)
	if _, isErr := call(t, createTaskHandler(svc), map[string]any{"title": "x", "category": "hobby"}); !isErr {
		t.Fatal("expected unknown category error")
	}
	if _, isErr := call(t, createTaskHandler(svc), map[string]any{"title": "x", "duration": "soon"}); !isErr {
		t.Fatal("expected duration error")
	}
	if _, isErr := call(t, scheduleTaskHandler(svc), map[string]any{"id": "nope"}); !isErr {
		t.Fatal("expected missing start_time error")
	}
}

func TestPlanResource(t *testing.T) {
	svc := newTestService(t)
	if _, err := svc.Create(context.Background(), app.NewTask{Title: "a", Start: "10:00"}); err != nil {
		t.Fatal(err)
	}
	req := mcp.ReadResourceRequest{}
	req.Params.URI = "dayplan://plans/mon"
	req.Params.Arguments = map[string]any{"plan": []string{"mon"}}
	contents, err := planTemplateHandler(svc)(context.Background(), req)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	text := contents[0].(mcp.TextResourceContents)
	var view PlanView
	if err := json.Unmarshal([]byte(text.Text), &view); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if view.Plan != "mon" || len(view.Scheduled) != 1 || text.URI != "dayplan://plans/mon" {
		t.Fatalf("unexpected resource %+v", view)
	}
}

func TestNewServerRegistersEverything(t *testing.T) {
	srv := NewServer("dayplan MCP", "test", newTestService(t))
	resp := srv.HandleMessage(context.Background(), json.RawMessage(`{"jsonrpc":"2.0","id":1,"method":"tools/list"}`))
	b, err := json.Marshal(resp)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	for _, name := range []string{"list_tasks", "list_plans", "create_task", "schedule_task", "unassign_task", "complete_task", "delete_task", "now", "report"} {
		if !strings.Contains(string(b), `"name":"`+name+`"`) {
			t.Fatalf("missing tool %s in %s", name, b)
		}
	}
}
