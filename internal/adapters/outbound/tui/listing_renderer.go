package tui

import (
	"fmt"
	"strings"

	"github.com/dashlint/dashlint/internal/domain"
	"github.com/dashlint/dashlint/internal/domain/rules"
)

// RenderDetection lists a project's tags and detection gaps.
func RenderDetection(det domain.Detection) string {
	var b strings.Builder
	fmt.Fprintf(&b, "\n  %s %s\n\n", titleStyle.Render("Profile"), dimStyle.Render(det.Profile.Root))
	if det.Profile.IsEmpty() {
		b.WriteString("    " + dimStyle.Render("No manifest recognised; only profile-agnostic rules apply.") + "\n")
	}
	for _, t := range det.Profile.Tags {
		fmt.Fprintf(&b, "    %s %s\n", passStyle.Render("●"), string(t))
	}
	renderGaps(&b, det.Gaps)
	b.WriteString("\n")
	return b.String()
}

// RenderRules lists registered rules grouped by category.
func RenderRules(rs []rules.Rule) string {
	var b strings.Builder
	var current domain.Category
	for _, r := range rs {
		if r.Category != current {
			current = r.Category
			fmt.Fprintf(&b, "\n  %s\n", sectionHeaderStyle.Render(string(current)))
		}
		fix := "     "
		if r.Fixable() {
			fix = passStyle.Render("fix  ")
		}
		scope := ""
		if len(r.Profiles) > 0 {
			tags := make([]string, len(r.Profiles))
			for i, t := range r.Profiles {
				tags[i] = string(t)
			}
			scope = "  " + faintStyle.Render("["+strings.Join(tags, " ")+"]")
		}
		fmt.Fprintf(&b, "    %s %s %s  %s%s\n",
			severityTag(r.Severity),
			fix,
			padRight(r.Key, 34),
			dimStyle.Render(r.Description),
			scope,
		)
	}
	b.WriteString("\n")
	return b.String()
}
