package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/dashlint/dashlint/internal/domain"
)

var (
	sectionHeaderStyle = lipgloss.NewStyle().Bold(true).Foreground(accent)
	hintStyle          = lipgloss.NewStyle().Foreground(dim).Italic(true)
	diffAddStyle       = lipgloss.NewStyle().Foreground(success)
	diffDelStyle       = lipgloss.NewStyle().Foreground(danger)
	diffHunkStyle      = lipgloss.NewStyle().Foreground(info)
)

func renderFixes(b *strings.Builder, fixes []domain.FixResult) {
	if len(fixes) == 0 {
		return
	}

	applied, skipped, failed := 0, 0, 0
	dryRun := false
	for _, f := range fixes {
		switch f.Outcome {
		case domain.FixApplied:
			applied++
		case domain.FixSkipped:
			skipped++
		default:
			failed++
		}
		dryRun = dryRun || f.DryRun
	}

	title := "Fixes"
	if dryRun {
		title = "Fixes (dry run)"
	}
	fmt.Fprintf(b, "\n  %s %s\n",
		sectionHeaderStyle.Render(title),
		dimStyle.Render(fmt.Sprintf("(%d applied, %d skipped, %d failed)", applied, skipped, failed)),
	)

	for _, f := range fixes {
		var icon string
		switch f.Outcome {
		case domain.FixApplied:
			icon = passStyle.Render("✓")
		case domain.FixSkipped:
			icon = skipStyle.Render("○")
		default:
			icon = failStyle.Render("✗")
		}

		line := fmt.Sprintf("    %s %s  %s", icon, fileStyle.Render(f.File), faintStyle.Render(strings.Join(f.Rules, ", ")))
		if f.Reason != "" {
			line += "  " + dimStyle.Render(f.Reason)
		}
		b.WriteString(line + "\n")

		if f.Diff != "" {
			renderDiff(b, f.Diff)
		}
	}

	if dryRun && applied > 0 {
		b.WriteString("\n  " + hintStyle.Render("Re-run with --fix and without --dry-run to write these changes.") + "\n")
	}
}

func renderDiff(b *strings.Builder, diff string) {
	for _, line := range strings.Split(strings.TrimRight(diff, "\n"), "\n") {
		var styled string
		switch {
		case strings.HasPrefix(line, "+++"), strings.HasPrefix(line, "---"):
			styled = dimStyle.Render(line)
		case strings.HasPrefix(line, "@@"):
			styled = diffHunkStyle.Render(line)
		case strings.HasPrefix(line, "+"):
			styled = diffAddStyle.Render(line)
		case strings.HasPrefix(line, "-"):
			styled = diffDelStyle.Render(line)
		default:
			styled = line
		}
		b.WriteString("        " + styled + "\n")
	}
}
