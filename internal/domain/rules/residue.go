package rules

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/dashlint/dashlint/internal/domain"
)

// ResidueRules returns the migration-residue catalog: leftovers of a
// framework the project has migrated away from.
func ResidueRules() []Rule {
	return []Rule{
		{
			Key:         "residue/shoelace-tag",
			Category:    domain.CategoryResidue,
			Severity:    domain.SeverityWarning,
			Description: "Shoelace element left after the daisyUI migration",
			Profiles:    []domain.Tag{domain.TagDaisyUI},
			Extensions:  markupExts,
			Check:       checkShoelaceTags,
			Fix:         fixShoelaceTags,
		},
		{
			Key:         "residue/shoelace-css-var",
			Category:    domain.CategoryResidue,
			Severity:    domain.SeverityWarning,
			Description: "Shoelace design token left after the daisyUI migration",
			Profiles:    []domain.Tag{domain.TagDaisyUI},
			Extensions:  join(markupExts, styleExts),
			Check:       checkShoelaceVars,
			Fix:         fixShoelaceVars,
		},
		{
			Key:         "residue/shoelace-import",
			Category:    domain.CategoryResidue,
			Severity:    domain.SeverityWarning,
			Description: "Shoelace package still imported",
			Profiles:    []domain.Tag{domain.TagDaisyUI},
			Extensions:  join(scriptExts, markupExts, styleExts),
			Check: func(f File) []Match {
				return lineMatches(f.Content, shoelaceImportRe, true, func(string) string {
					return "@shoelace-style/shoelace is still imported; remove it"
				})
			},
		},
		{
			Key:         "residue/pxblue-prefix",
			Category:    domain.CategoryResidue,
			Severity:    domain.SeverityWarning,
			Description: "PX Blue name left after the Brightlayer UI migration",
			Profiles:    []domain.Tag{domain.TagBLUI},
			Extensions:  join(scriptExts, markupExts, styleExts),
			Check:       checkPXBlue,
			Fix:         fixPXBlue,
		},
	}
}

// shoelaceElement describes how one sl-* element maps to daisyUI markup.
type shoelaceElement struct {
	tag      string
	class    string
	variants map[string]string
	// open is appended after the new opening tag, close is prepended to the
	// new closing tag.
	open  string
	close string
	// void elements lose their closing tag.
	void bool
}

const modalBackdrop = `</div><form method="dialog" class="modal-backdrop"><button>close</button></form>`

var shoelaceElements = map[string]shoelaceElement{
	"sl-button": {tag: "button", class: "btn", variants: map[string]string{
		"primary": "btn-primary", "success": "btn-success", "warning": "btn-warning",
		"danger": "btn-error", "neutral": "btn-ghost", "default": "", "text": "btn-link",
	}},
	"sl-badge": {tag: "span", class: "badge", variants: map[string]string{
		"primary": "badge-primary", "success": "badge-success", "warning": "badge-warning",
		"danger": "badge-error", "neutral": "badge-neutral",
	}},
	"sl-spinner":     {tag: "span", class: "loading loading-spinner"},
	"sl-input":       {tag: "input", class: "input input-bordered", void: true},
	"sl-select":      {tag: "select", class: "select select-bordered"},
	"sl-option":      {tag: "option"},
	"sl-textarea":    {tag: "textarea", class: "textarea textarea-bordered"},
	"sl-dialog":      {tag: "dialog", class: "modal", open: `<div class="modal-box">`, close: modalBackdrop},
	"sl-drawer":      {tag: "dialog", class: "modal modal-bottom sm:modal-middle", open: `<div class="modal-box">`, close: modalBackdrop},
	"sl-card":        {tag: "div", class: "card bg-base-100 shadow", open: `<div class="card-body">`, close: "</div>"},
	"sl-divider":     {tag: "div", class: "divider"},
	"sl-icon":        {tag: "i"},
	"sl-icon-button": {tag: "button", class: "btn btn-ghost btn-square"},
}

var (
	shoelaceTagRe    = regexp.MustCompile(`<(/?)(sl-[a-z0-9-]+)\b([^>]*)>`)
	shoelaceImportRe = regexp.MustCompile(`@shoelace-style/shoelace`)
)

func checkShoelaceTags(f File) []Match {
	var out []Match
	for _, m := range shoelaceTagRe.FindAllStringSubmatchIndex(f.Content, -1) {
		if m[3] > m[2] {
			continue
		}
		name := f.Content[m[4]:m[5]]
		_, err := convertShoelaceOpen(name, f.Content[m[6]:m[7]])
		msg := fmt.Sprintf("<%s> is Shoelace residue", name)
		if err != nil {
			msg = fmt.Sprintf("<%s> is Shoelace residue: %v", name, err)
		}
		out = append(out, Match{Line: lineAt(f.Content, m[0]), Message: msg, ManualOnly: err != nil})
	}
	return out
}

// fixShoelaceTags rewrites every sl-* element or none of them.
func fixShoelaceTags(f File) (string, error) {
	locs := shoelaceTagRe.FindAllStringSubmatchIndex(f.Content, -1)
	if len(locs) == 0 {
		return "", domain.ErrNoMatch
	}
	var b strings.Builder
	last := 0
	for _, m := range locs {
		name := f.Content[m[4]:m[5]]
		var repl string
		var err error
		if m[3] > m[2] {
			repl, err = convertShoelaceClose(name)
		} else {
			repl, err = convertShoelaceOpen(name, f.Content[m[6]:m[7]])
		}
		if err != nil {
			return "", fmt.Errorf("line %d: %w", lineAt(f.Content, m[0]), err)
		}
		b.WriteString(f.Content[last:m[0]])
		b.WriteString(repl)
		last = m[1]
	}
	b.WriteString(f.Content[last:])
	return b.String(), nil
}

func convertShoelaceClose(name string) (string, error) {
	el, ok := shoelaceElements[name]
	if !ok {
		return "", fmt.Errorf("<%s>: %w", name, domain.ErrNoEquivalent)
	}
	if el.void {
		return "", nil
	}
	return el.close + "</" + el.tag + ">", nil
}

func convertShoelaceOpen(name, attrs string) (string, error) {
	el, ok := shoelaceElements[name]
	if !ok {
		return "", fmt.Errorf("<%s>: %w", name, domain.ErrNoEquivalent)
	}

	selfClosing := strings.HasSuffix(strings.TrimSpace(attrs), "/")
	if selfClosing {
		attrs = strings.TrimSuffix(strings.TrimRight(attrs, " \t\n"), "/")
	}

	classes := []string{el.class}
	if variant, ok := attrValue(attrs, "variant"); ok {
		if isDynamic(variant) {
			return "", fmt.Errorf("<%s variant=%q>: %w", name, variant, domain.ErrUnsupportedPattern)
		}
		extra, ok := el.variants[variant]
		if !ok {
			return "", fmt.Errorf("<%s variant=%q>: %w", name, variant, domain.ErrNoEquivalent)
		}
		classes = append(classes, extra)
		attrs = removeAttr(attrs, "variant")
	}

	var extraAttrs, inner string
	switch name {
	case "sl-icon", "sl-icon-button":
		icon, ok := attrValue(attrs, "name")
		if !ok || isDynamic(icon) {
			return "", fmt.Errorf("<%s> without a static name: %w", name, domain.ErrUnsupportedPattern)
		}
		attrs = removeAttr(attrs, "name")
		if name == "sl-icon" {
			classes = append(classes, "icon", "icon-"+icon)
			extraAttrs = ` aria-hidden="true"`
			break
		}
		label, ok := attrValue(attrs, "label")
		if ok {
			attrs = removeAttr(attrs, "label")
		} else {
			label, _ = labelForIcon(icon)
		}
		extraAttrs = ` type="button"`
		if label != "" {
			extraAttrs += fmt.Sprintf(` title="%s" aria-label="%s"`, quoteAttr(label), quoteAttr(label))
		}
		inner = fmt.Sprintf(`<i class="icon icon-%s" aria-hidden="true"></i>`, icon)
	}

	dynamicClass := ""
	if existing, ok := attrValue(attrs, "class"); ok {
		attrs = removeAttr(attrs, "class")
		if isDynamic(existing) {
			dynamicClass = existing
		} else {
			classes = append(classes, existing)
		}
	}
	class := strings.Join(uniqueStrings(strings.Fields(strings.Join(classes, " "))), " ")
	if dynamicClass != "" {
		class = strings.TrimSpace(class + " " + dynamicClass)
	}

	var b strings.Builder
	b.WriteString("<" + el.tag)
	if class != "" {
		b.WriteString(` class="` + class + `"`)
	}
	b.WriteString(extraAttrs)
	b.WriteString(attrs)
	b.WriteString(">")
	b.WriteString(el.open)
	b.WriteString(inner)
	if selfClosing && !el.void {
		b.WriteString(el.close + "</" + el.tag + ">")
	}
	return b.String(), nil
}

// shoelaceVars maps Shoelace design tokens to daisyUI 5 variables.
var shoelaceVars = map[string]string{
	"--sl-color-primary-500":    "--color-primary",
	"--sl-color-primary-600":    "--color-primary",
	"--sl-color-success-600":    "--color-success",
	"--sl-color-warning-600":    "--color-warning",
	"--sl-color-danger-600":     "--color-error",
	"--sl-color-neutral-0":      "--color-base-100",
	"--sl-color-neutral-50":     "--color-base-200",
	"--sl-color-neutral-100":    "--color-base-300",
	"--sl-color-neutral-900":    "--color-base-content",
	"--sl-border-radius-small":  "--radius-selector",
	"--sl-border-radius-medium": "--radius-field",
	"--sl-border-radius-large":  "--radius-box",
}

var shoelaceVarRe = regexp.MustCompile(`--sl-[a-z0-9-]*[a-z0-9]`)

func checkShoelaceVars(f File) []Match {
	var out []Match
	for i, line := range f.Lines() {
		vars := uniqueStrings(shoelaceVarRe.FindAllString(line, -1))
		if len(vars) == 0 {
			continue
		}
		manual := false
		for _, v := range vars {
			if _, ok := shoelaceVars[v]; !ok {
				manual = true
			}
		}
		out = append(out, Match{
			Line:       i + 1,
			Message:    fmt.Sprintf("Shoelace token %s", strings.Join(vars, ", ")),
			ManualOnly: manual,
		})
	}
	return out
}

func fixShoelaceVars(f File) (string, error) {
	found := uniqueStrings(shoelaceVarRe.FindAllString(f.Content, -1))
	if len(found) == 0 {
		return "", domain.ErrNoMatch
	}
	sort.Strings(found)
	for _, v := range found {
		if _, ok := shoelaceVars[v]; !ok {
			return "", fmt.Errorf("%s: %w", v, domain.ErrNoEquivalent)
		}
	}
	return shoelaceVarRe.ReplaceAllStringFunc(f.Content, func(v string) string {
		return shoelaceVars[v]
	}), nil
}

var (
	pxbPrefixRe  = regexp.MustCompile(`(^|[^\w-])pxb-`)
	pxbPackageRe = regexp.MustCompile(`@pxblue/([a-z0-9-]+)`)
)

// pxbluePackages lists PX Blue packages with a Brightlayer UI successor.
var pxbluePackages = map[string]string{
	"angular-components": "@brightlayer-ui/angular-components",
	"angular-themes":     "@brightlayer-ui/angular-themes",
	"colors":             "@brightlayer-ui/colors",
	"icons":              "@brightlayer-ui/icons",
	"icons-mui":          "@brightlayer-ui/icons-mui",
	"icons-svg":          "@brightlayer-ui/icons-svg",
	"react-components":   "@brightlayer-ui/react-components",
	"react-themes":       "@brightlayer-ui/react-themes",
}

func checkPXBlue(f File) []Match {
	var out []Match
	for i, line := range f.Lines() {
		pkgs := pxbPackageRe.FindAllStringSubmatch(line, -1)
		prefix := pxbPrefixRe.MatchString(line)
		if len(pkgs) == 0 && !prefix {
			continue
		}
		manual := false
		for _, p := range pkgs {
			if _, ok := pxbluePackages[p[1]]; !ok {
				manual = true
			}
		}
		out = append(out, Match{Line: i + 1, Message: "PX Blue name; use the blui-/@brightlayer-ui equivalent", ManualOnly: manual})
	}
	return out
}

func fixPXBlue(f File) (string, error) {
	for _, p := range pxbPackageRe.FindAllStringSubmatch(f.Content, -1) {
		if _, ok := pxbluePackages[p[1]]; !ok {
			return "", fmt.Errorf("@pxblue/%s: %w", p[1], domain.ErrNoEquivalent)
		}
	}
	out := pxbPackageRe.ReplaceAllStringFunc(f.Content, func(m string) string {
		return pxbluePackages[strings.TrimPrefix(m, "@pxblue/")]
	})
	out = pxbPrefixRe.ReplaceAllString(out, "${1}blui-")
	if out == f.Content {
		return "", domain.ErrNoMatch
	}
	return out, nil
}
