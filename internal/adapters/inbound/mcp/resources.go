package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	mcplib "github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/dashlint/dashlint/internal/application"
)

const (
	reportURI = "dashlint://report"
	rulesURI  = "dashlint://rules"
)

// registerResources registers all dashlint MCP resources on the given server.
func registerResources(s *server.MCPServer, h *handlers) {
	// 1. dashlint://report - read-only health report of the project
	s.AddResource(
		mcplib.NewResource(
			reportURI,
			"Health Report",
			mcplib.WithResourceDescription("Current health report for the project: profile, findings and scores"),
			mcplib.WithMIMEType("application/json"),
		),
		h.handleReportResource,
	)

	// 2. dashlint://rules - registered rules
	s.AddResource(
		mcplib.NewResource(
			rulesURI,
			"Rules",
			mcplib.WithResourceDescription("Every registered rule with its category, severity and fixability"),
			mcplib.WithMIMEType("application/json"),
		),
		h.handleRulesResource,
	)
}

func (h *handlers) handleReportResource(ctx context.Context, _ mcplib.ReadResourceRequest) ([]mcplib.ResourceContents, error) {
	report, err := h.svc.Check(ctx, h.projectPath, application.CheckOptions{})
	if err != nil {
		return nil, fmt.Errorf("check failed: %w", err)
	}
	return jsonContents(reportURI, report)
}

func (h *handlers) handleRulesResource(_ context.Context, _ mcplib.ReadResourceRequest) ([]mcplib.ResourceContents, error) {
	infos, err := h.listRules("")
	if err != nil {
		return nil, err
	}
	return jsonContents(rulesURI, infos)
}

func jsonContents(uri string, v any) ([]mcplib.ResourceContents, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshaling %s: %w", uri, err)
	}
	return []mcplib.ResourceContents{
		mcplib.TextResourceContents{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}
