package rules

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/dashlint/dashlint/internal/domain"
)

// UXRules returns the UX and accessibility catalog.
func UXRules() []Rule {
	return []Rule{
		{
			Key:         "ux/select-in-table-cell",
			Category:    domain.CategoryUX,
			Severity:    domain.SeverityWarning,
			Description: "native <select> used for row actions in a table cell",
			Extensions:  markupExts,
			Check:       checkSelectInCell,
			Fix:         fixSelectInCell,
		},
		{
			Key:         "ux/icon-button-label",
			Category:    domain.CategoryUX,
			Severity:    domain.SeverityWarning,
			Description: "<sl-icon-button> without a label",
			Profiles:    []domain.Tag{domain.TagShoelace},
			Extensions:  markupExts,
			Check:       checkIconButtonLabel,
			Fix:         fixIconButtonLabel,
		},
		{
			Key:         "ux/icon-only-button",
			Category:    domain.CategoryUX,
			Severity:    domain.SeverityWarning,
			Description: "icon-only button without title or aria-label",
			Extensions:  markupExts,
			Check:       checkIconOnlyButton,
			Fix:         fixIconOnlyButton,
		},
		{
			Key:         "ux/empty-button",
			Category:    domain.CategoryUX,
			Severity:    domain.SeverityWarning,
			Description: "button has no text, icon or accessible name",
			Extensions:  markupExts,
			Check:       checkEmptyButton,
		},
		{
			Key:         "ux/img-alt",
			Category:    domain.CategoryUX,
			Severity:    domain.SeverityWarning,
			Description: "<img> without alt text",
			Extensions:  markupExts,
			Check:       checkImgAlt,
		},
		{
			Key:         "ux/card-border",
			Category:    domain.CategoryUX,
			Severity:    domain.SeverityInfo,
			Description: "card style removes its border",
			Extensions:  []string{".css", ".scss", ".less"},
			Check:       checkCardBorder,
			Fix:         fixCardBorder,
		},
		{
			Key:         "ux/table-cell-buttons",
			Category:    domain.CategoryUX,
			Severity:    domain.SeverityInfo,
			Description: "too many buttons in one table cell",
			Extensions:  markupExts,
			Check:       checkCellButtons,
		},
		{
			Key:         "ux/table-structure",
			Category:    domain.CategoryUX,
			Severity:    domain.SeverityInfo,
			Description: "<table> without <thead>",
			Extensions:  markupExts,
			Check:       checkTableStructure,
		},
		{
			Key:         "ux/select-without-options",
			Category:    domain.CategoryUX,
			Severity:    domain.SeverityInfo,
			Description: "<select> without static options",
			Extensions:  markupExts,
			Check:       checkSelectWithoutOptions,
		},
	}
}

var (
	tdRe            = regexp.MustCompile(`(?is)<td\b[^>]*>(.*?)</td\s*>`)
	selectRe        = regexp.MustCompile(`(?is)<select\b([^>]*)>(.*?)</select\s*>`)
	optionRe        = regexp.MustCompile(`(?is)<option\b([^>]*)>(.*?)</option\s*>`)
	optionOpenRe    = regexp.MustCompile(`(?i)<option\b`)
	inlineHandlerRe = regexp.MustCompile(`(?i)\s(?:on[a-z]+|\(change\)|@change|v-on:change)\s*=`)
)

// maxCellActions is the largest select converted into buttons.
const maxCellActions = 3

type cellSelect struct {
	start, end int
	attrs      string
	body       string
	siblings   int
}

// selectsInCells finds every <select> nested directly in a <td>.
func selectsInCells(content string) []cellSelect {
	var out []cellSelect
	for _, td := range tdRe.FindAllStringSubmatchIndex(content, -1) {
		inner := content[td[2]:td[3]]
		locs := selectRe.FindAllStringSubmatchIndex(inner, -1)
		for _, l := range locs {
			out = append(out, cellSelect{
				start:    td[2] + l[0],
				end:      td[2] + l[1],
				attrs:    inner[l[2]:l[3]],
				body:     inner[l[4]:l[5]],
				siblings: len(locs),
			})
		}
	}
	return out
}

type cellAction struct {
	value string
	label string
}

// cellActions extracts the options a select can be converted from.
func cellActions(attrs, body string) ([]cellAction, error) {
	switch {
	case inlineHandlerRe.MatchString(" " + attrs):
		return nil, fmt.Errorf("inline change handler: %w", domain.ErrUnsupportedPattern)
	case strings.Contains(strings.ToLower(body), "<optgroup"):
		return nil, fmt.Errorf("option groups: %w", domain.ErrUnsupportedPattern)
	case isDynamic(body):
		return nil, fmt.Errorf("options are rendered dynamically: %w", domain.ErrUnsupportedPattern)
	}

	opts := optionRe.FindAllStringSubmatch(body, -1)
	if len(opts) != len(optionOpenRe.FindAllStringIndex(body, -1)) {
		return nil, fmt.Errorf("unclosed <option>: %w", domain.ErrUnsupportedPattern)
	}
	var actions []cellAction
	for _, o := range opts {
		value, ok := attrValue(" "+o[1], "value")
		if !ok || strings.TrimSpace(value) == "" {
			continue
		}
		label := innerText(o[2])
		if label == "" {
			label = value
		}
		actions = append(actions, cellAction{value: value, label: label})
	}
	switch {
	case len(actions) == 0:
		return nil, fmt.Errorf("no actionable options: %w", domain.ErrUnsupportedPattern)
	case len(actions) > maxCellActions:
		return nil, fmt.Errorf("%d actions: %w", len(actions), domain.ErrUnsupportedPattern)
	}
	return actions, nil
}

func quoteAttr(s string) string { return strings.ReplaceAll(s, `"`, "&quot;") }

func renderActionGroup(actions []cellAction, indent string, multiline bool) string {
	buttons := make([]string, len(actions))
	for i, a := range actions {
		icon := slug(a.value)
		if icon == "" {
			icon = "action"
		}
		buttons[i] = fmt.Sprintf(
			`<button type="button" class="icon-button" data-action="%s" title="%s" aria-label="%s"><i class="icon icon-%s" aria-hidden="true"></i></button>`,
			quoteAttr(a.value), quoteAttr(a.label), quoteAttr(a.label), icon,
		)
	}
	if !multiline {
		return `<div class="action-group" role="group">` + strings.Join(buttons, "") + `</div>`
	}
	var b strings.Builder
	b.WriteString(`<div class="action-group" role="group">`)
	for _, btn := range buttons {
		b.WriteString("\n" + indent + "  " + btn)
	}
	b.WriteString("\n" + indent + "</div>")
	return b.String()
}

func checkSelectInCell(f File) []Match {
	var out []Match
	for _, s := range selectsInCells(f.Content) {
		m := Match{
			Line:    lineAt(f.Content, s.start),
			EndLine: lineAt(f.Content, s.end),
			Message: "native <select> in a table cell; use an icon-button group",
		}
		if s.siblings > 1 {
			m.ManualOnly = true
			m.Message += " (several selects in one cell)"
		} else if _, err := cellActions(s.attrs, s.body); err != nil {
			m.ManualOnly = true
		}
		if m.EndLine == m.Line {
			m.EndLine = 0
		}
		out = append(out, m)
	}
	return out
}

// fixSelectInCell converts every convertible select and leaves the rest for
// manual review. Several selects sharing a cell abort the file.
func fixSelectInCell(f File) (string, error) {
	found := selectsInCells(f.Content)
	for _, s := range found {
		if s.siblings > 1 {
			return "", fmt.Errorf("line %d: %d selects in one cell: %w", lineAt(f.Content, s.start), s.siblings, domain.ErrAmbiguousMatch)
		}
	}

	content := f.Content
	changed := false
	for i := len(found) - 1; i >= 0; i-- {
		s := found[i]
		actions, err := cellActions(s.attrs, s.body)
		if err != nil {
			continue
		}
		original := content[s.start:s.end]
		group := renderActionGroup(actions, leadingSpace(content, s.start), strings.Contains(original, "\n"))
		content = content[:s.start] + group + content[s.end:]
		changed = true
	}
	if !changed {
		return "", domain.ErrNoMatch
	}
	return content, nil
}

var slIconButtonRe = regexp.MustCompile(`(?i)<sl-icon-button\b[^>]*>`)

func checkIconButtonLabel(f File) []Match {
	var out []Match
	for _, loc := range slIconButtonRe.FindAllStringIndex(f.Content, -1) {
		tag := f.Content[loc[0]:loc[1]]
		if hasAttr(tag, "label") {
			continue
		}
		name, _ := attrValue(tag, "name")
		_, mapped := labelForIcon(name)
		out = append(out, Match{
			Line:       lineAt(f.Content, loc[0]),
			Message:    fmt.Sprintf("<sl-icon-button name=%q> has no label", name),
			ManualOnly: !mapped || isDynamic(name),
		})
	}
	return out
}

// insertAfterAttr inserts extra right after attr's quoted value in tag.
func insertAfterAttr(tag, attr, extra string) (string, bool) {
	for _, loc := range quotedAttrRe.FindAllStringSubmatchIndex(tag, -1) {
		if strings.EqualFold(tag[loc[2]:loc[3]], attr) {
			return tag[:loc[1]] + extra + tag[loc[1]:], true
		}
	}
	return tag, false
}

func fixIconButtonLabel(f File) (string, error) {
	changed := false
	out := slIconButtonRe.ReplaceAllStringFunc(f.Content, func(tag string) string {
		if hasAttr(tag, "label") {
			return tag
		}
		name, _ := attrValue(tag, "name")
		label, ok := labelForIcon(name)
		if !ok || isDynamic(name) {
			return tag
		}
		next, ok := insertAfterAttr(tag, "name", fmt.Sprintf(` label="%s"`, label))
		if ok {
			changed = true
		}
		return next
	})
	if !changed {
		return "", domain.ErrNoMatch
	}
	return out, nil
}

var (
	buttonRe    = regexp.MustCompile(`(?is)<button\b([^>]*)>(.*?)</button\s*>`)
	iconClassRe = regexp.MustCompile(`\b(?:bi|icon|fa|pi)-([a-z0-9-]+)`)
	slIconRe    = regexp.MustCompile(`(?i)<sl-icon\b[^>]*\bname="([^"{}]+)"`)
	graphicRe   = regexp.MustCompile(`(?i)<(?:i|span|svg|img|sl-icon|mat-icon)\b`)
)

var iconModifiers = map[string]bool{
	"solid": true, "regular": true, "light": true, "brands": true,
	"lg": true, "sm": true, "xs": true, "fw": true, "2x": true, "spin": true,
}

// iconName extracts the icon referenced in a button body.
func iconName(body string) (string, bool) {
	if m := slIconRe.FindStringSubmatch(body); m != nil {
		return m[1], true
	}
	name := ""
	for _, m := range iconClassRe.FindAllStringSubmatch(body, -1) {
		if !iconModifiers[m[1]] {
			name = m[1]
		}
	}
	return name, name != ""
}

func hasAccessibleName(attrs string) bool {
	return hasAttr(attrs, "aria-label") || hasAttr(attrs, "title")
}

func checkIconOnlyButton(f File) []Match {
	var out []Match
	for _, m := range buttonRe.FindAllStringSubmatchIndex(f.Content, -1) {
		attrs := f.Content[m[2]:m[3]]
		body := f.Content[m[4]:m[5]]
		if hasAccessibleName(attrs) || innerText(body) != "" {
			continue
		}
		name, ok := iconName(body)
		if !ok {
			continue
		}
		_, mapped := labelForIcon(name)
		out = append(out, Match{
			Line:       lineAt(f.Content, m[0]),
			Message:    fmt.Sprintf("icon-only button (%s) has no title or aria-label", name),
			ManualOnly: !mapped,
		})
	}
	return out
}

func fixIconOnlyButton(f File) (string, error) {
	locs := buttonRe.FindAllStringSubmatchIndex(f.Content, -1)
	content := f.Content
	changed := false
	for i := len(locs) - 1; i >= 0; i-- {
		m := locs[i]
		attrs := f.Content[m[2]:m[3]]
		body := f.Content[m[4]:m[5]]
		if hasAccessibleName(attrs) || innerText(body) != "" {
			continue
		}
		name, ok := iconName(body)
		if !ok {
			continue
		}
		label, ok := labelForIcon(name)
		if !ok {
			continue
		}
		insert := m[0] + len("<button")
		content = content[:insert] + fmt.Sprintf(` title="%s" aria-label="%s"`, label, label) + content[insert:]
		changed = true
	}
	if !changed {
		return "", domain.ErrNoMatch
	}
	return content, nil
}

func checkEmptyButton(f File) []Match {
	var out []Match
	for _, m := range buttonRe.FindAllStringSubmatchIndex(f.Content, -1) {
		attrs := f.Content[m[2]:m[3]]
		body := f.Content[m[4]:m[5]]
		if hasAccessibleName(attrs) || innerText(body) != "" || graphicRe.MatchString(body) || isDynamic(body) {
			continue
		}
		out = append(out, Match{Line: lineAt(f.Content, m[0]), Message: "button has no text or accessible name"})
	}
	return out
}

var imgRe = regexp.MustCompile(`(?i)<img\b[^>]*>`)

func checkImgAlt(f File) []Match {
	var out []Match
	for _, loc := range imgRe.FindAllStringIndex(f.Content, -1) {
		if hasAttr(f.Content[loc[0]:loc[1]], "alt") {
			continue
		}
		out = append(out, Match{Line: lineAt(f.Content, loc[0]), Message: "<img> has no alt attribute"})
	}
	return out
}

var (
	cssBlockRe     = regexp.MustCompile(`([^{}]+)\{([^{}]*)\}`)
	cardSelectorRe = regexp.MustCompile(`\.(?:[\w-]+-)?card$`)
	borderDeclRe   = regexp.MustCompile(`(?i)(?:^|[;\s])border\s*:\s*([^;}]+)`)
)

const cardBorderDecl = "border: 1px solid var(--card-border-color, #e5e7eb);"

type cardState struct {
	line       int
	borderless bool
}

// borderlessCards returns card selectors whose last border declaration
// removes the border, in order of first appearance.
func borderlessCards(content string) ([]string, map[string]cardState) {
	var order []string
	states := make(map[string]cardState)
	for _, m := range cssBlockRe.FindAllStringSubmatchIndex(content, -1) {
		decls := content[m[4]:m[5]]
		borders := borderDeclRe.FindAllStringSubmatch(decls, -1)
		if len(borders) == 0 {
			continue
		}
		val := strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(borders[len(borders)-1][1]), "!important"))
		borderless := val == "none" || val == "0" || strings.HasPrefix(val, "0 ") || strings.HasPrefix(val, "none ")

		selText := content[m[2]:m[3]]
		if i := strings.LastIndex(selText, "*/"); i >= 0 {
			selText = selText[i+2:]
		}
		if i := strings.LastIndex(selText, ";"); i >= 0 {
			selText = selText[i+1:]
		}
		for _, sel := range strings.Split(selText, ",") {
			sel = strings.Join(strings.Fields(sel), " ")
			if !cardSelectorRe.MatchString(sel) {
				continue
			}
			if _, seen := states[sel]; !seen {
				order = append(order, sel)
			}
			states[sel] = cardState{line: lineAt(content, m[4]), borderless: borderless}
		}
	}
	var out []string
	for _, sel := range order {
		if states[sel].borderless {
			out = append(out, sel)
		}
	}
	return out, states
}

func checkCardBorder(f File) []Match {
	sels, states := borderlessCards(f.Content)
	out := make([]Match, 0, len(sels))
	for _, sel := range sels {
		out = append(out, Match{Line: states[sel].line, Message: fmt.Sprintf("%s removes its border; cards need a visible edge", sel)})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Line < out[j].Line })
	return out
}

// fixCardBorder appends a border rule per card; existing styles are kept.
func fixCardBorder(f File) (string, error) {
	sels, _ := borderlessCards(f.Content)
	if len(sels) == 0 {
		return "", domain.ErrNoMatch
	}
	var b strings.Builder
	b.WriteString(f.Content)
	if f.Content != "" && !strings.HasSuffix(f.Content, "\n") {
		b.WriteString("\n")
	}
	for _, sel := range sels {
		fmt.Fprintf(&b, "\n%s {\n  %s\n}\n", sel, cardBorderDecl)
	}
	return b.String(), nil
}

var buttonOpenRe = regexp.MustCompile(`(?i)<button\b`)

func checkCellButtons(f File) []Match {
	var out []Match
	for _, td := range tdRe.FindAllStringSubmatchIndex(f.Content, -1) {
		n := len(buttonOpenRe.FindAllStringIndex(f.Content[td[2]:td[3]], -1))
		if n > maxCellActions {
			out = append(out, Match{Line: lineAt(f.Content, td[0]), Message: fmt.Sprintf("%d buttons in one table cell; group them", n)})
		}
	}
	return out
}

var tableRe = regexp.MustCompile(`(?is)<table\b[^>]*>(.*?)</table\s*>`)

func checkTableStructure(f File) []Match {
	var out []Match
	for _, m := range tableRe.FindAllStringSubmatchIndex(f.Content, -1) {
		body := strings.ToLower(f.Content[m[2]:m[3]])
		if strings.Contains(body, "<thead") || isDynamic(body) && !strings.Contains(body, "<tr") {
			continue
		}
		out = append(out, Match{Line: lineAt(f.Content, m[0]), Message: "<table> has no <thead>"})
	}
	return out
}

func checkSelectWithoutOptions(f File) []Match {
	var out []Match
	for _, m := range selectRe.FindAllStringSubmatchIndex(f.Content, -1) {
		body := f.Content[m[4]:m[5]]
		if optionOpenRe.MatchString(body) || isDynamic(body) {
			continue
		}
		out = append(out, Match{Line: lineAt(f.Content, m[0]), Message: "<select> has no options; populated at runtime?"})
	}
	return out
}
