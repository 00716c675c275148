package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"

	mcplib "github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/dashlint/dashlint/internal/application"
	"github.com/dashlint/dashlint/internal/domain"
	"github.com/dashlint/dashlint/internal/domain/rules"
)

// registerTools registers all dashlint MCP tools on the given server.
func registerTools(s *server.MCPServer, h *handlers) {
	// 1. dashlint_check
	s.AddTool(
		mcplib.NewTool("dashlint_check",
			mcplib.WithDescription("Check the project and return the full health report (profile, findings, scores) as JSON"),
			mcplib.WithString("path", mcplib.Description("Project path, relative to the server's project (default: the project itself)")),
			mcplib.WithString("check", mcplib.Description("Rule selection: smart, all, or a comma-separated category list")),
		),
		h.handleCheck,
	)

	// 2. dashlint_score
	s.AddTool(
		mcplib.NewTool("dashlint_score",
			mcplib.WithDescription("Return the project's health score, verdict and category breakdown without findings"),
			mcplib.WithString("path", mcplib.Description("Project path, relative to the server's project")),
		),
		h.handleScore,
	)

	// 3. dashlint_detect
	s.AddTool(
		mcplib.NewTool("dashlint_detect",
			mcplib.WithDescription("Return the detected technology tags and any manifest that could not be parsed"),
			mcplib.WithString("path", mcplib.Description("Project path, relative to the server's project")),
		),
		h.handleDetect,
	)

	// 4. dashlint_rules
	s.AddTool(
		mcplib.NewTool("dashlint_rules",
			mcplib.WithDescription("List the registered rules, optionally for one category"),
			mcplib.WithString("category", mcplib.Description("security, quality, performance, ux or residue")),
		),
		h.handleRules,
	)

	// 5. dashlint_fix
	s.AddTool(
		mcplib.NewTool("dashlint_fix",
			mcplib.WithDescription("Fix every fixable finding. Dry run by default: returns unified diffs without writing"),
			mcplib.WithBoolean("dry_run", mcplib.Description("Only show the diffs (default true)")),
			mcplib.WithString("check", mcplib.Description("Rule selection: smart, all, or a comma-separated category list")),
			mcplib.WithString("path", mcplib.Description("Project path, relative to the server's project")),
		),
		h.handleFix,
	)
}

// resolve maps a tool's path argument onto a project root.
func (h *handlers) resolve(request mcplib.CallToolRequest) string {
	p := stringArg(request, "path")
	switch {
	case p == "":
		return h.projectPath
	case filepath.IsAbs(p):
		return p
	default:
		return filepath.Join(h.projectPath, p)
	}
}

func (h *handlers) check(ctx context.Context, root string, opts application.CheckOptions) (*domain.HealthReport, *mcplib.CallToolResult) {
	report, err := h.svc.Check(ctx, root, opts)
	if err != nil {
		return nil, errorResult(fmt.Sprintf("check failed: %v", err))
	}
	if report.Errored() {
		return nil, errorResult(fmt.Sprintf("check failed: %s", report.FatalError))
	}
	return report, nil
}

func (h *handlers) handleCheck(ctx context.Context, request mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
	report, failed := h.check(ctx, h.resolve(request), application.CheckOptions{Selection: stringArg(request, "check")})
	if failed != nil {
		return failed, nil
	}
	return jsonResult(report)
}

// scoreView is the findings-free slice of a report.
type scoreView struct {
	Root           string                 `json:"root"`
	Overall        int                    `json:"overall"`
	Grade          string                 `json:"grade"`
	Verdict        domain.Verdict         `json:"verdict"`
	ScoringVersion string                 `json:"scoring_version"`
	Categories     []domain.CategoryScore `json:"categories"`
}

func newScoreView(r *domain.HealthReport) scoreView {
	return scoreView{
		Root:           r.Root,
		Overall:        r.Overall,
		Grade:          r.Grade(),
		Verdict:        r.Verdict,
		ScoringVersion: r.ScoringVersion,
		Categories:     r.Categories,
	}
}

func (h *handlers) handleScore(ctx context.Context, request mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
	report, failed := h.check(ctx, h.resolve(request), application.CheckOptions{})
	if failed != nil {
		return failed, nil
	}
	return jsonResult(newScoreView(report))
}

func (h *handlers) handleDetect(_ context.Context, request mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
	det, err := h.svc.Detect(h.resolve(request))
	if err != nil {
		return errorResult(fmt.Sprintf("detect failed: %v", err)), nil
	}
	return jsonResult(det)
}

func (h *handlers) listRules(category string) ([]rules.Info, error) {
	reg, err := h.svc.Rules("")
	if err != nil {
		return nil, err
	}
	if category == "" {
		return rules.Infos(reg.All()), nil
	}
	cat, err := domain.ParseCategory(category)
	if err != nil {
		return nil, err
	}
	return rules.Infos(reg.ByCategory(cat)), nil
}

func (h *handlers) handleRules(_ context.Context, request mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
	infos, err := h.listRules(stringArg(request, "category"))
	if err != nil {
		return errorResult(err.Error()), nil
	}
	return jsonResult(infos)
}

// fixView reports the fix pass and the score it leaves behind.
type fixView struct {
	DryRun bool               `json:"dry_run"`
	Fixes  []domain.FixResult `json:"fixes"`
	Score  scoreView          `json:"score"`
}

func (h *handlers) handleFix(ctx context.Context, request mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
	mode := domain.FixModeDryRun
	if dryRun, ok := request.GetArguments()["dry_run"].(bool); ok && !dryRun {
		mode = domain.FixModeApply
	}
	report, failed := h.check(ctx, h.resolve(request), application.CheckOptions{
		Selection: stringArg(request, "check"),
		FixMode:   mode,
	})
	if failed != nil {
		return failed, nil
	}
	fixes := report.Fixes
	if fixes == nil {
		fixes = []domain.FixResult{}
	}
	return jsonResult(fixView{DryRun: mode == domain.FixModeDryRun, Fixes: fixes, Score: newScoreView(report)})
}

func stringArg(request mcplib.CallToolRequest, key string) string {
	v, _ := request.GetArguments()[key].(string)
	return v
}

func jsonResult(v any) (*mcplib.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshaling result: %w", err)
	}
	return &mcplib.CallToolResult{
		Content: []mcplib.Content{mcplib.NewTextContent(string(data))},
	}, nil
}

// errorResult returns a tool result that indicates an error occurred.
func errorResult(msg string) *mcplib.CallToolResult {
	return &mcplib.CallToolResult{
		Content: []mcplib.Content{mcplib.NewTextContent(msg)},
		IsError: true,
	}
}
