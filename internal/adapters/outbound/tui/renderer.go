package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/dashlint/dashlint/internal/domain"
)

// ── Warm palette ──
var (
	accent    = lipgloss.Color("#D97706") // amber
	fg        = lipgloss.Color("#E8E6E3") // warm light gray
	dim       = lipgloss.Color("#6B7280") // muted gray
	faint     = lipgloss.Color("#3F3F46") // very dim
	success   = lipgloss.Color("#22C55E") // green
	danger    = lipgloss.Color("#EF4444") // red
	warning   = lipgloss.Color("#F59E0B") // amber-yellow
	info      = lipgloss.Color("#8B949E") // soft blue-gray
	skipColor = lipgloss.Color("#4B5563") // dark gray
)

var (
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(accent).
			Align(lipgloss.Center)

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(accent).
			Padding(1, 4).
			Align(lipgloss.Center).
			Width(68)

	gradeColors = map[string]lipgloss.Color{
		"A": success,
		"B": lipgloss.Color("#A3E635"), // lime
		"C": warning,
		"D": lipgloss.Color("#FB923C"), // orange
		"F": danger,
	}

	dimStyle      = lipgloss.NewStyle().Foreground(dim)
	faintStyle    = lipgloss.NewStyle().Foreground(faint)
	passStyle     = lipgloss.NewStyle().Foreground(success)
	failStyle     = lipgloss.NewStyle().Foreground(danger)
	warnStyle     = lipgloss.NewStyle().Foreground(warning)
	skipStyle     = lipgloss.NewStyle().Foreground(skipColor)
	errorTagStyle = lipgloss.NewStyle().Foreground(danger).Bold(true)
	warnTagStyle  = lipgloss.NewStyle().Foreground(warning).Bold(true)
	infoTagStyle  = lipgloss.NewStyle().Foreground(info)
	fileStyle     = lipgloss.NewStyle().Foreground(dim)
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(fg)
	catNameStyle  = lipgloss.NewStyle().Bold(true).Foreground(fg)
	separatorLine = faintStyle.Render(strings.Repeat("─", 64))
)

// RenderReport renders a full health report: header, categories, findings,
// fixes and anything that went wrong along the way.
func RenderReport(r *domain.HealthReport) string {
	var b strings.Builder

	renderHeader(&b, r)
	if r.Errored() {
		b.WriteString("  " + errorTagStyle.Render("fatal") + " " + r.FatalError + "\n\n")
		return b.String()
	}

	renderCategories(&b, r.Categories)

	b.WriteString("\n")
	b.WriteString("  " + separatorLine)
	b.WriteString("\n\n")

	renderFindings(&b, r)
	renderFixes(&b, r.Fixes)
	renderGaps(&b, r.DetectionGaps)

	b.WriteString("\n")
	return b.String()
}

// RenderScore renders the header and category breakdown without findings.
func RenderScore(r *domain.HealthReport) string {
	var b strings.Builder
	renderHeader(&b, r)
	if r.Errored() {
		b.WriteString("  " + errorTagStyle.Render("fatal") + " " + r.FatalError + "\n\n")
		return b.String()
	}
	renderCategories(&b, r.Categories)
	b.WriteString("\n")
	return b.String()
}

func renderHeader(b *strings.Builder, r *domain.HealthReport) {
	grade := r.Grade()
	title := headerStyle.Render("dashlint")
	subtitle := dimStyle.Render(shortenPath(r.Root))

	body := title + "\n" + subtitle + "\n\n"
	if r.Errored() {
		body += failStyle.Bold(true).Render("ERRORED")
	} else {
		scoreStyled := lipgloss.NewStyle().
			Bold(true).
			Foreground(gradeColor(grade)).
			Render(fmt.Sprintf("%d / 100", r.Overall))
		gradeStyled := lipgloss.NewStyle().
			Bold(true).
			Foreground(gradeColor(grade)).
			Render(grade)
		body += scoreStyled + "  " + gradeStyled + "  " + verdictTag(r.Verdict)
	}

	b.WriteString(boxStyle.Render(body))
	b.WriteString("\n")

	tags := make([]string, 0, len(r.Profile.Tags))
	for _, t := range r.Profile.Tags {
		tags = append(tags, string(t))
	}
	profile := "none detected"
	if len(tags) > 0 {
		profile = strings.Join(tags, ", ")
	}
	fmt.Fprintf(b, "  %s %s\n", dimStyle.Render("profile"), profile)
	fmt.Fprintf(b, "  %s %s  %s %d rules, %d files  %s v%s\n\n",
		dimStyle.Render("check"), r.Selection,
		dimStyle.Render("·"), r.RulesEvaluated, r.FilesScanned,
		dimStyle.Render("· scoring"), r.ScoringVersion,
	)
}

func renderCategories(b *strings.Builder, cats []domain.CategoryScore) {
	for _, cat := range cats {
		color := scoreColor(cat.Score)
		scoreText := lipgloss.NewStyle().Bold(true).Foreground(color).Render(fmt.Sprintf("%3d", cat.Score))
		bar := coloredBar(cat.Score, 20)
		weight := dimStyle.Render(fmt.Sprintf("%3d%%", int(cat.Weight*100+0.5)))
		name := catNameStyle.Render(padRight(string(cat.Name), 14))

		counts := ""
		if cat.Total() > 0 {
			counts = faintStyle.Render(fmt.Sprintf("%dE %dW %dI", cat.Errors, cat.Warnings, cat.Infos))
		}
		fmt.Fprintf(b, "  %s %s  %s %s  %s\n", name, bar, scoreText, weight, counts)
	}
}

func renderFindings(b *strings.Builder, r *domain.HealthReport) {
	errs, warns, infos := r.CountBySeverity()
	if errs+warns+infos == 0 {
		b.WriteString("  " + passStyle.Render("No findings.") + "\n")
	} else {
		b.WriteString("  ")
		b.WriteString(titleStyle.Render("Findings"))
		b.WriteString("  ")
		if errs > 0 {
			b.WriteString(errorTagStyle.Render(fmt.Sprintf("%d errors", errs)))
			b.WriteString("  ")
		}
		if warns > 0 {
			b.WriteString(warnTagStyle.Render(fmt.Sprintf("%d warnings", warns)))
			b.WriteString("  ")
		}
		if infos > 0 {
			b.WriteString(infoTagStyle.Render(fmt.Sprintf("%d info", infos)))
		}
		b.WriteString("\n")

		current := ""
		for _, f := range r.Findings {
			if f.Category == domain.CategoryInternal {
				continue
			}
			if f.File != current {
				current = f.File
				fmt.Fprintf(b, "\n    %s\n", fileStyle.Render(f.File))
			}
			renderFinding(b, f)
		}
	}

	if internal := r.InternalErrors(); len(internal) > 0 {
		fmt.Fprintf(b, "\n  %s %s\n", titleStyle.Render("Rule errors"), dimStyle.Render(fmt.Sprintf("(%d)", len(internal))))
		for _, f := range internal {
			fmt.Fprintf(b, "    %s %s  %s\n", failStyle.Render("●"), fileStyle.Render(f.File), dimStyle.Render(f.Message))
		}
	}
}

func renderFinding(b *strings.Builder, f domain.Finding) {
	loc := "     "
	if f.Line > 0 {
		loc = fmt.Sprintf("%5d", f.Line)
	}
	fixable := ""
	if f.Fixable {
		fixable = " " + passStyle.Render("[fixable]")
	}
	fmt.Fprintf(b, "    %s %s %s  %s%s\n",
		faintStyle.Render(loc),
		severityTag(f.Severity),
		dimStyle.Render(f.RuleKey),
		f.Message,
		fixable,
	)
}

func renderGaps(b *strings.Builder, gaps []domain.DetectionGap) {
	if len(gaps) == 0 {
		return
	}
	fmt.Fprintf(b, "\n  %s %s\n", titleStyle.Render("Detection gaps"), dimStyle.Render(fmt.Sprintf("(%d)", len(gaps))))
	for _, g := range gaps {
		fmt.Fprintf(b, "    %s %s  %s\n", warnStyle.Render("●"), fileStyle.Render(g.Path), dimStyle.Render(g.Reason))
	}
}

func verdictTag(v domain.Verdict) string {
	switch v {
	case domain.VerdictPass:
		return passStyle.Bold(true).Render("PASS")
	case domain.VerdictWarn:
		return warnStyle.Bold(true).Render("WARN")
	default:
		return failStyle.Bold(true).Render("FAIL")
	}
}

func severityTag(severity domain.Severity) string {
	switch severity {
	case domain.SeverityError:
		return errorTagStyle.Render("error")
	case domain.SeverityWarning:
		return warnTagStyle.Render("warn ")
	default:
		return infoTagStyle.Render("info ")
	}
}

func coloredBar(score, width int) string {
	filled := max(0, min(score*width/100, width))
	empty := width - filled

	color := scoreColor(score)
	filledStr := lipgloss.NewStyle().Foreground(color).Render(strings.Repeat("█", filled))
	emptyStr := lipgloss.NewStyle().Foreground(faint).Render(strings.Repeat("░", empty))
	return filledStr + emptyStr
}

func scoreColor(score int) lipgloss.Color {
	switch {
	case score >= 80:
		return success
	case score >= 60:
		return warning
	default:
		return danger
	}
}

func shortenPath(path string) string {
	parts := strings.Split(strings.ReplaceAll(path, "\\", "/"), "/")
	if len(parts) > 3 {
		return ".../" + strings.Join(parts[len(parts)-3:], "/")
	}
	return path
}

func padRight(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return s + strings.Repeat(" ", width-len(s))
}

func gradeColor(grade string) lipgloss.Color {
	if c, ok := gradeColors[grade]; ok {
		return c
	}
	return fg
}
