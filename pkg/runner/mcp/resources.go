package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

func registerResources(srv *server.MCPServer, svc *Service) {
	srv.AddResource(plansResource(), plansResourceHandler(svc))
	srv.AddResourceTemplate(planTemplate(), planTemplateHandler(svc))
	srv.AddResourceTemplate(taskTemplate(), taskTemplateHandler(svc))
}

func plansResource() mcp.Resource {
	return mcp.NewResource(
		"dayplan://plans",
		"Plans",
		mcp.WithResourceDescription("All stored plans with task counts."),
		mcp.WithMIMEType("application/json"),
	)
}

func plansResourceHandler(svc *Service) server.ResourceHandlerFunc {
	return func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		plans, err := svc.ListPlans(ctx)
		if err != nil {
			return nil, err
		}
		return encodeResourceJSON(request.Params.URI, map[string]any{
			"plans": plans,
			"count": len(plans),
		})
	}
}

func planTemplate() mcp.ResourceTemplate {
	return mcp.NewResourceTemplate(
		"dayplan://plans/{plan}",
		"Plan Timeline",
		mcp.WithTemplateDescription("A plan laid out on its window: lanes, scheduled tasks and pool."),
		mcp.WithTemplateMIMEType("application/json"),
	)
}

func planTemplateHandler(svc *Service) server.ResourceTemplateHandlerFunc {
	return func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		plan := argument(request.Params.Arguments, "plan")
		if plan == "" {
			return nil, fmt.Errorf("plan is required")
		}
		view, err := svc.View(ctx, plan)
		if err != nil {
			return nil, err
		}
		return encodeResourceJSON(request.Params.URI, view)
	}
}

func taskTemplate() mcp.ResourceTemplate {
	return mcp.NewResourceTemplate(
		"dayplan://tasks/{id}",
		"Task Details",
		mcp.WithTemplateDescription("A single task."),
		mcp.WithTemplateMIMEType("application/json"),
	)
}

func taskTemplateHandler(svc *Service) server.ResourceTemplateHandlerFunc {
	return func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		id := argument(request.Params.Arguments, "id")
		if id == "" {
			return nil, fmt.Errorf("task id is required")
		}
		dto, err := svc.Get(ctx, id)
		if err != nil {
			return nil, err
		}
		return encodeResourceJSON(request.Params.URI, map[string]any{"task": dto})
	}
}

// argument reads a template variable, which arrives either as a string or as
// the matcher's list of values.
func argument(args map[string]any, name string) string {
	switch v := args[name].(type) {
	case string:
		return v
	case []string:
		if len(v) > 0 {
			return v[0]
		}
	}
	return ""
}

func encodeResourceJSON(uri string, payload any) ([]mcp.ResourceContents, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}
