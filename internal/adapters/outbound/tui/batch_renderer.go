package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/dashlint/dashlint/internal/domain"
)

// RenderBatch produces the summary table of a batch run followed by each
// project's category line.
func RenderBatch(batch *domain.BatchReport) string {
	var b strings.Builder

	grade := domain.GradeFor(batch.Overall)
	scoreStyled := lipgloss.NewStyle().
		Bold(true).
		Foreground(gradeColor(grade)).
		Render(fmt.Sprintf("%d / 100", batch.Overall))
	body := headerStyle.Render("dashlint batch") + "\n" +
		dimStyle.Render(fmt.Sprintf("%d projects, %d errored", len(batch.Projects), batch.ErroredCount())) + "\n\n" +
		scoreStyled + "  " + verdictTag(batch.Verdict)
	b.WriteString(boxStyle.Render(body))
	b.WriteString("\n\n")

	fmt.Fprintf(&b, "  %s  %s  %s  %s\n",
		dimStyle.Render(padRight("project", 36)),
		dimStyle.Render("score"),
		dimStyle.Render("verdict"),
		dimStyle.Render("findings"),
	)
	b.WriteString("  " + separatorLine + "\n")

	for _, p := range batch.Projects {
		name := padRight(shortenPath(p.Root), 36)
		if p.Errored || p.Report == nil {
			fmt.Fprintf(&b, "  %s  %s  %s\n", titleStyle.Render(name), failStyle.Bold(true).Render("ERRORED"), dimStyle.Render(p.Error))
			continue
		}
		r := p.Report
		errs, warns, infos := r.CountBySeverity()
		score := lipgloss.NewStyle().Foreground(scoreColor(r.Overall)).Render(fmt.Sprintf("%5d", r.Overall))
		fmt.Fprintf(&b, "  %s  %s  %s     %s\n",
			titleStyle.Render(name),
			score,
			verdictTag(r.Verdict),
			faintStyle.Render(fmt.Sprintf("%dE %dW %dI", errs, warns, infos)),
		)
	}
	b.WriteString("\n")
	return b.String()
}
