package rules

import (
	"regexp"
	"sort"
	"strings"
)

var (
	scriptExts = []string{".js", ".mjs", ".cjs", ".jsx", ".ts", ".tsx", ".gs"}
	markupExts = []string{".html", ".htm", ".vue", ".svelte", ".js", ".mjs", ".jsx", ".ts", ".tsx"}
	styleExts  = []string{".css", ".scss", ".sass", ".less"}
	secretExts = []string{".js", ".mjs", ".cjs", ".jsx", ".ts", ".tsx", ".gs", ".py", ".go", ".json", ".yaml", ".yml"}
	sourceExts = []string{
		".js", ".mjs", ".cjs", ".jsx", ".ts", ".tsx", ".gs", ".vue", ".svelte",
		".html", ".htm", ".css", ".scss", ".sass", ".less", ".py", ".go",
	}
)

func join(groups ...[]string) []string {
	seen := make(map[string]bool)
	var out []string
	for _, g := range groups {
		for _, e := range g {
			if !seen[e] {
				seen[e] = true
				out = append(out, e)
			}
		}
	}
	sort.Strings(out)
	return out
}

// lineAt returns the 1-based line of byte offset off in s.
func lineAt(s string, off int) int {
	return strings.Count(s[:off], "\n") + 1
}

// lineCount counts lines the way editors show them.
func lineCount(s string) int {
	if s == "" {
		return 0
	}
	n := strings.Count(s, "\n")
	if !strings.HasSuffix(s, "\n") {
		n++
	}
	return n
}

func isCommentLine(line string) bool {
	t := strings.TrimSpace(line)
	return strings.HasPrefix(t, "//") || strings.HasPrefix(t, "/*") || strings.HasPrefix(t, "*") || strings.HasPrefix(t, "#")
}

// lineMatches reports one match per line containing re, skipping comments
// when skipComments is set.
func lineMatches(content string, re *regexp.Regexp, skipComments bool, msg func(line string) string) []Match {
	var out []Match
	for i, line := range strings.Split(content, "\n") {
		if skipComments && isCommentLine(line) {
			continue
		}
		if re.MatchString(line) {
			out = append(out, Match{Line: i + 1, Message: msg(line)})
		}
	}
	return out
}

// attrRes is filled once at init and only read afterwards.
var attrRes = map[string]*regexp.Regexp{}

func compileAttr(name string) *regexp.Regexp {
	return regexp.MustCompile(`(?i)[\s:\[]` + regexp.QuoteMeta(name) + `\]?\s*=`)
}

func attrRe(name string) *regexp.Regexp {
	if re, ok := attrRes[name]; ok {
		return re
	}
	return compileAttr(name)
}

func init() {
	for _, a := range []string{"alt", "title", "aria-label", "label", "class", "name", "value", "variant"} {
		attrRes[a] = compileAttr(a)
	}
}

// hasAttr reports whether an opening tag carries attr, including bound forms
// such as :alt= and [alt]=.
func hasAttr(tag, attr string) bool {
	return attrRe(attr).MatchString(tag)
}

var quotedAttrRe = regexp.MustCompile(`\s([a-zA-Z_:@\[\]().-][\w:@\[\]().-]*)\s*=\s*(?:"([^"]*)"|'([^']*)')`)

// attrValue returns the literal value of attr in an opening tag.
func attrValue(tag, attr string) (string, bool) {
	for _, m := range quotedAttrRe.FindAllStringSubmatch(tag, -1) {
		if strings.EqualFold(m[1], attr) {
			if m[2] != "" {
				return m[2], true
			}
			return m[3], true
		}
	}
	return "", false
}

// removeAttr drops a quoted attribute and its leading whitespace from attrs.
func removeAttr(attrs, attr string) string {
	for _, loc := range quotedAttrRe.FindAllStringSubmatchIndex(attrs, -1) {
		if strings.EqualFold(attrs[loc[2]:loc[3]], attr) {
			return attrs[:loc[0]] + attrs[loc[1]:]
		}
	}
	return attrs
}

// isDynamic reports template interpolation ({{ }}, ${ }, JSX braces).
func isDynamic(s string) bool {
	return strings.ContainsAny(s, "{}")
}

var nonSlug = regexp.MustCompile(`[^a-z0-9]+`)

// slug turns an arbitrary value into a lowercase kebab token.
func slug(s string) string {
	return strings.Trim(nonSlug.ReplaceAllString(strings.ToLower(s), "-"), "-")
}

var tagStrip = regexp.MustCompile(`<[^>]*>`)

func innerText(s string) string {
	return strings.Join(strings.Fields(tagStrip.ReplaceAllString(s, " ")), " ")
}

// leadingSpace returns the indentation of the line containing off.
func leadingSpace(s string, off int) string {
	start := strings.LastIndex(s[:off], "\n") + 1
	end := start
	for end < len(s) && (s[end] == ' ' || s[end] == '\t') {
		end++
	}
	return s[start:end]
}

func uniqueStrings(in []string) []string {
	seen := make(map[string]bool, len(in))
	var out []string
	for _, s := range in {
		if !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}
	return out
}

// iconLabels maps icon names to the accessible labels injected by fixers.
var iconLabels = map[string]string{
	"pencil":              "Edit",
	"pencil-square":       "Edit",
	"trash":               "Delete",
	"trash3":              "Delete",
	"eye":                 "View",
	"plus":                "Add",
	"plus-lg":             "Add",
	"x":                   "Close",
	"x-lg":                "Close",
	"check":               "Confirm",
	"check-lg":            "Confirm",
	"arrow-clockwise":     "Refresh",
	"download":            "Download",
	"upload":              "Upload",
	"search":              "Search",
	"gear":                "Settings",
	"key":                 "Password",
	"shield":              "Security",
	"person":              "User",
	"people":              "Group",
	"three-dots":          "More",
	"three-dots-vertical": "More",
	"box-arrow-right":     "Sign out",
	"box-arrow-in-right":  "Sign in",
	"save":                "Save",
	"copy":                "Copy",
	"link":                "Link",
	"send":                "Send",
	"printer":             "Print",
	"house":               "Home",
	"calendar":            "Calendar",
}

// labelForIcon looks up a label, falling back to the longest known icon
// name contained in name.
func labelForIcon(name string) (string, bool) {
	if l, ok := iconLabels[name]; ok {
		return l, true
	}
	best := ""
	for k := range iconLabels {
		if !strings.Contains(name, k) {
			continue
		}
		if len(k) > len(best) || (len(k) == len(best) && k < best) {
			best = k
		}
	}
	if best == "" || len(best) < 3 {
		return "", false
	}
	return iconLabels[best], true
}
