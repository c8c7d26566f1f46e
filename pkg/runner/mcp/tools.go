package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"tableflip.dev/dayplan/pkg/app"
	"tableflip.dev/dayplan/pkg/task"
	"tableflip.dev/dayplan/pkg/timeutil"
)

func registerTools(srv *server.MCPServer, svc *Service) {
	srv.AddTool(listTasksTool(), listTasksHandler(svc))
	srv.AddTool(listPlansTool(), listPlansHandler(svc))
	srv.AddTool(createTaskTool(), createTaskHandler(svc))
	srv.AddTool(scheduleTaskTool(), scheduleTaskHandler(svc))
	srv.AddTool(unassignTaskTool(), unassignTaskHandler(svc))
	srv.AddTool(completeTaskTool(), completeTaskHandler(svc))
	srv.AddTool(deleteTaskTool(), deleteTaskHandler(svc))
	srv.AddTool(nowTool(), nowHandler(svc))
	srv.AddTool(reportTool(), reportHandler(svc))
}

func planParam() mcp.ToolOption {
	return mcp.WithString("plan",
		mcp.Description("Plan identifier, usually a date like 2025-03-01. Defaults to today's plan."),
	)
}

func idParam(what string) mcp.ToolOption {
	return mcp.WithString("id",
		mcp.Required(),
		mcp.Description(fmt.Sprintf("Task identifier to %s.", what)),
	)
}

func listTasksTool() mcp.Tool {
	return mcp.NewTool(
		"list_tasks",
		mcp.WithDescription("List a plan: scheduled tasks in start order with their lanes, then the unscheduled pool."),
		planParam(),
	)
}

func listTasksHandler(svc *Service) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		view, err := svc.View(ctx, request.GetString("plan", ""))
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return toJSONResult(view)
	}
}

func listPlansTool() mcp.Tool {
	return mcp.NewTool(
		"list_plans",
		mcp.WithDescription("List stored plans with task counts and window overrides."),
	)
}

func listPlansHandler(svc *Service) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		plans, err := svc.ListPlans(ctx)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return toJSONResult(map[string]any{
			"plans": plans,
			"count": len(plans),
		})
	}
}

func createTaskTool() mcp.Tool {
	categories := make([]string, 0, len(task.AllCategories()))
	for _, c := range task.AllCategories() {
		categories = append(categories, string(c))
	}
	return mcp.NewTool(
		"create_task",
		mcp.WithDescription("Create a task. Without a start time it goes to the pool."),
		planParam(),
		mcp.WithString("title",
			mcp.Required(),
			mcp.Description("What the task is."),
		),
		mcp.WithString("category",
			mcp.Description("Task category."),
			mcp.Enum(categories...),
		),
		mcp.WithString("priority",
			mcp.Description("Task priority."),
			mcp.Enum("low", "medium", "high"),
		),
		mcp.WithString("start_time",
			mcp.Description("Optional start time of day, HH:MM."),
		),
		mcp.WithString("duration",
			mcp.Description("Optional duration such as 45, 45m or 1h30m. Defaults to one hour."),
		),
	)
}

func createTaskHandler(svc *Service) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		var args struct {
			Plan      string `json:"plan"`
			Title     string `json:"title"`
			Category  string `json:"category"`
			Priority  string `json:"priority"`
			StartTime string `json:"start_time"`
			Duration  string `json:"duration"`
		}
		if err := request.BindArguments(&args); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("invalid arguments: %v", err)), nil
		}
		duration, err := parseDuration(args.Duration)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		dto, err := svc.Create(ctx, app.NewTask{
			Plan:     args.Plan,
			Title:    args.Title,
			Category: args.Category,
			Priority: args.Priority,
			Start:    strings.TrimSpace(args.StartTime),
			Duration: duration,
		})
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return toJSONResult(dto)
	}
}

func scheduleTaskTool() mcp.Tool {
	return mcp.NewTool(
		"schedule_task",
		mcp.WithDescription("Place a task on the timeline at a start time, optionally changing its duration."),
		idParam("schedule"),
		mcp.WithString("start_time",
			mcp.Required(),
			mcp.Description("Start time of day, HH:MM."),
		),
		mcp.WithString("duration",
			mcp.Description("Optional new duration such as 30m or 1h."),
		),
	)
}

func scheduleTaskHandler(svc *Service) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		id, err := request.RequireString("id")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		start, err := request.RequireString("start_time")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		duration, err := parseDuration(request.GetString("duration", ""))
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		dto, err := svc.Schedule(ctx, id, start, duration)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return toJSONResult(dto)
	}
}

func unassignTaskTool() mcp.Tool {
	return mcp.NewTool(
		"unassign_task",
		mcp.WithDescription("Move a task back to the unscheduled pool, keeping its duration."),
		idParam("unassign"),
	)
}

func unassignTaskHandler(svc *Service) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		id, err := request.RequireString("id")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		dto, err := svc.Unassign(ctx, id)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return toJSONResult(dto)
	}
}

func completeTaskTool() mcp.Tool {
	return mcp.NewTool(
		"complete_task",
		mcp.WithDescription("Mark a task as done, or as not done with completed=false."),
		idParam("complete"),
		mcp.WithBoolean("completed",
			mcp.Description("Completion state to set (default true)."),
		),
	)
}

func completeTaskHandler(svc *Service) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		id, err := request.RequireString("id")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		dto, err := svc.Complete(ctx, id, request.GetBool("completed", true))
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return toJSONResult(dto)
	}
}

func deleteTaskTool() mcp.Tool {
	return mcp.NewTool(
		"delete_task",
		mcp.WithDescription("Delete a task permanently."),
		idParam("delete"),
	)
}

func deleteTaskHandler(svc *Service) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		id, err := request.RequireString("id")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		if err := svc.Delete(ctx, id); err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return toJSONResult(map[string]any{"deleted": id})
	}
}

func nowTool() mcp.Tool {
	return mcp.NewTool(
		"now",
		mcp.WithDescription("What is running now, what is next, and the countdown."),
		planParam(),
	)
}

func nowHandler(svc *Service) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		dto, err := svc.Now(ctx, request.GetString("plan", ""))
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return toJSONResult(dto)
	}
}

func reportTool() mcp.Tool {
	return mcp.NewTool(
		"report",
		mcp.WithDescription("Planned and completed minutes per category, pool size and free time for a plan."),
		planParam(),
	)
}

func reportHandler(svc *Service) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		r, err := svc.Report(ctx, request.GetString("plan", ""))
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return toJSONResult(r)
	}
}

func parseDuration(raw string) (*int, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}
	minutes, _, err := timeutil.ParseDuration(raw)
	if err != nil {
		return nil, fmt.Errorf("invalid duration: %w", err)
	}
	return &minutes, nil
}

func toJSONResult(data any) (*mcp.CallToolResult, error) {
	b, err := json.Marshal(data)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("marshal error: %v", err)), nil
	}
	return mcp.NewToolResultText(string(b)), nil
}
