package rules

import (
	"encoding/json"
	"fmt"
	"path"
	"regexp"
	"sort"
	"strings"

	"github.com/dashlint/dashlint/internal/domain"
)

const (
	maxDependencies = 50
	maxInlineBase64 = 10 * 1024
	maxSVGBytes     = 500 * 1024
)

// PerformanceRules returns the performance catalog.
func PerformanceRules() []Rule {
	return []Rule{
		{
			Key:         "performance/dependency-count",
			Category:    domain.CategoryPerformance,
			Severity:    domain.SeverityWarning,
			Description: fmt.Sprintf("more than %d dependencies", maxDependencies),
			Names:       []string{"package.json"},
			Check:       checkDependencyCount,
		},
		{
			Key:         "performance/inline-base64",
			Category:    domain.CategoryPerformance,
			Severity:    domain.SeverityWarning,
			Description: "large base64 payload inlined in source",
			Extensions:  sourceExts,
			Check:       checkInlineBase64,
		},
		{
			Key:         "performance/full-library-import",
			Category:    domain.CategoryPerformance,
			Severity:    domain.SeverityWarning,
			Description: "whole-library import defeats tree shaking",
			Extensions:  scriptExts,
			Check:       checkFullLibraryImport,
		},
		{
			Key:         "performance/css-import",
			Category:    domain.CategoryPerformance,
			Severity:    domain.SeverityInfo,
			Description: "CSS @import chains block rendering",
			Extensions:  []string{".css"},
			Check:       checkCSSImport,
		},
		{
			Key:         "performance/unused-dependency",
			Category:    domain.CategoryPerformance,
			Severity:    domain.SeverityWarning,
			Description: "dependency is never imported by the project's sources",
			Profiles:    []domain.Tag{domain.TagNode},
			Names:       []string{"package.json"},
			Check:       checkUnusedDependencies,
		},
		{
			Key:         "performance/large-svg",
			Category:    domain.CategoryPerformance,
			Severity:    domain.SeverityWarning,
			Description: "SVG larger than 500 KB",
			Extensions:  []string{".svg"},
			Check: func(f File) []Match {
				if len(f.Content) <= maxSVGBytes {
					return nil
				}
				return []Match{{Message: fmt.Sprintf("SVG is %d KB; optimise it", len(f.Content)/1024)}}
			},
		},
	}
}

type packageManifest struct {
	Dependencies    map[string]string `json:"dependencies"`
	DevDependencies map[string]string `json:"devDependencies"`
}

func checkDependencyCount(f File) []Match {
	var pkg packageManifest
	if err := json.Unmarshal([]byte(f.Content), &pkg); err != nil {
		return nil
	}
	n := len(pkg.Dependencies) + len(pkg.DevDependencies)
	if n <= maxDependencies {
		return nil
	}
	return []Match{{Message: fmt.Sprintf("%d dependencies (limit %d)", n, maxDependencies)}}
}

var dataURIRe = regexp.MustCompile(`data:[a-zA-Z]+/[a-zA-Z0-9.+-]+;base64,`)

func isBase64Byte(c byte) bool {
	return c >= 'A' && c <= 'Z' || c >= 'a' && c <= 'z' || c >= '0' && c <= '9' || c == '+' || c == '/' || c == '='
}

func checkInlineBase64(f File) []Match {
	var out []Match
	for _, loc := range dataURIRe.FindAllStringIndex(f.Content, -1) {
		end := loc[1]
		for end < len(f.Content) && isBase64Byte(f.Content[end]) {
			end++
		}
		if n := end - loc[1]; n > maxInlineBase64 {
			out = append(out, Match{
				Line:    lineAt(f.Content, loc[0]),
				Message: fmt.Sprintf("%d KB inline base64; serve it as a file", n/1024),
			})
		}
	}
	return out
}

var fullImportRe = regexp.MustCompile(`(?:import\s+(?:\*\s+as\s+)?[\w$]+\s+from\s+|require\s*\(\s*)['"](lodash|moment)['"]`)

func checkFullLibraryImport(f File) []Match {
	return lineMatches(f.Content, fullImportRe, true, func(line string) string {
		lib := fullImportRe.FindStringSubmatch(line)[1]
		return fmt.Sprintf("imports all of %s; import single functions or use a lighter library", lib)
	})
}

var cssImportRe = regexp.MustCompile(`@import\s+(?:url\(\s*)?['"]?([^'");\s]+)`)

func checkCSSImport(f File) []Match {
	var out []Match
	for i, line := range f.Lines() {
		m := cssImportRe.FindStringSubmatch(line)
		if m == nil || strings.HasPrefix(m[1], "tailwindcss") {
			continue
		}
		out = append(out, Match{Line: i + 1, Message: fmt.Sprintf("@import %s is fetched serially; bundle it", m[1])})
	}
	return out
}

var importSpecRe = regexp.MustCompile(`(?:\bfrom\s*|\bimport\s*\(?\s*|\brequire\s*\(\s*|@import\s+(?:url\(\s*)?)['"]([^'"\s]+)['"]`)

// IndexImports collects the package names imported by script, markup and
// style files. Relative paths, URLs and node: builtins are not packages.
func IndexImports(contents map[string]string) map[string]bool {
	exts := make(map[string]bool)
	for _, e := range join(scriptExts, markupExts, styleExts) {
		exts[e] = true
	}
	out := make(map[string]bool)
	for rel, content := range contents {
		if !exts[strings.ToLower(path.Ext(rel))] {
			continue
		}
		for _, m := range importSpecRe.FindAllStringSubmatch(content, -1) {
			if name := packageName(m[1]); name != "" {
				out[name] = true
			}
		}
	}
	return out
}

// packageName maps an import specifier such as "@scope/pkg/sub" or
// "lodash/fp" onto its package.
func packageName(spec string) string {
	spec = strings.TrimPrefix(spec, "~")
	if spec == "" || strings.HasPrefix(spec, ".") || strings.HasPrefix(spec, "/") ||
		strings.HasPrefix(spec, "node:") || strings.Contains(spec, "://") {
		return ""
	}
	parts := strings.Split(spec, "/")
	if strings.HasPrefix(spec, "@") {
		if len(parts) < 2 {
			return ""
		}
		return parts[0] + "/" + parts[1]
	}
	return parts[0]
}

// implicitDeps are used through tooling configuration, not imports.
var implicitDeps = map[string]bool{
	"vite": true, "tailwindcss": true, "daisyui": true, "postcss": true,
	"autoprefixer": true, "typescript": true, "tslib": true, "zone.js": true,
}

func checkUnusedDependencies(f File) []Match {
	if f.Project.Imports == nil {
		return nil
	}
	var pkg packageManifest
	if err := json.Unmarshal([]byte(f.Content), &pkg); err != nil {
		return nil
	}
	names := make([]string, 0, len(pkg.Dependencies))
	for name := range pkg.Dependencies {
		names = append(names, name)
	}
	sort.Strings(names)

	var out []Match
	for _, name := range names {
		if implicitDeps[name] || strings.HasPrefix(name, "@types/") || f.Project.Imports[name] {
			continue
		}
		line := 0
		if idx := strings.Index(f.Content, `"`+name+`"`); idx >= 0 {
			line = lineAt(f.Content, idx)
		}
		out = append(out, Match{Line: line, Message: fmt.Sprintf("%s is never imported; remove it or move it to devDependencies", name)})
	}
	return out
}
