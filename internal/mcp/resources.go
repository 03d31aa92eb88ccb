package mcp

import (
	"context"
	"encoding/json"
	"time"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/NicolajFoerderer/workout-tracker/internal/models"
)

func (h *handlers) recentWorkouts(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	uid := UserIDFromContext(ctx)

	end := time.Now()
	start := end.AddDate(0, 0, -14)
	workouts, err := h.ds.QueryWorkouts(ctx, start, end, uid)
	if err != nil {
		return nil, err
	}

	return jsonResource(req.Params.URI, workouts)
}

func (h *handlers) templateCatalog(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	uid := UserIDFromContext(ctx)

	templates, err := h.ds.ListTemplates(ctx, uid)
	if err != nil {
		return nil, err
	}

	details := make([]models.TemplateDetail, 0, len(templates))
	for _, t := range templates {
		detail, err := h.ds.GetTemplate(ctx, t.ID, uid)
		if err != nil {
			h.log.Warn("template_catalog: detail failed", "template", t.ID, "error", err)
			continue
		}
		details = append(details, *detail)
	}

	return jsonResource(req.Params.URI, details)
}

func jsonResource(uri string, v any) ([]mcp.ResourceContents, error) {
	data, err := json.Marshal(v)
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
