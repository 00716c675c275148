// Package rules holds the rule model, the explicit rule registry and the
// built-in rule catalogs. Every check is a pure function of a file's path and
// content; every fixer is a pure text transformation.
package rules

import (
	"path"
	"strings"

	"github.com/dashlint/dashlint/internal/domain"
)

// ProjectContext is read-only project data some rules need alongside a file.
type ProjectContext struct {
	Profile      domain.ProjectProfile
	HasGitIgnore bool
	GitIgnore    []string
	// Imports holds every package name imported by a scanned source file.
	// Nil means the index was not built.
	Imports map[string]bool
}

// File is the unit a rule evaluates. Path is slash-separated and relative to
// the project root.
type File struct {
	Path    string
	Content string
	Project ProjectContext
}

// NewFile builds a File with an empty project context.
func NewFile(path, content string) File {
	return File{Path: path, Content: content}
}

func (f File) Ext() string  { return strings.ToLower(path.Ext(f.Path)) }
func (f File) Base() string { return path.Base(f.Path) }

// Lines splits the content on newlines. Line n is Lines()[n-1].
func (f File) Lines() []string { return strings.Split(f.Content, "\n") }

// Match is one hit reported by a rule's check.
type Match struct {
	Line    int
	EndLine int
	Message string
	// ManualOnly marks a hit the rule's fixer cannot resolve.
	ManualOnly bool
}

// CheckFunc reports every violation of a rule in f.
type CheckFunc func(f File) []Match

// FixFunc rewrites the whole content of f so the rule no longer matches.
// It must return an error instead of guessing when the rewrite is ambiguous.
type FixFunc func(f File) (string, error)

// Rule is a registered check definition.
type Rule struct {
	Key         string
	Category    domain.Category
	Severity    domain.Severity
	Description string
	// Profiles restricts the rule to projects carrying at least one of the
	// tags. Empty means any project.
	Profiles []domain.Tag
	// Extensions and Names restrict which files are evaluated. Both empty
	// means every scanned file.
	Extensions []string
	Names      []string
	Check      CheckFunc
	Fix        FixFunc
}

func (r Rule) Fixable() bool { return r.Fix != nil }

// AppliesToProfile is monotonic in the profile's tags: adding tags never
// makes a rule stop applying.
func (r Rule) AppliesToProfile(p domain.ProjectProfile) bool {
	if len(r.Profiles) == 0 {
		return true
	}
	return p.HasAny(r.Profiles...)
}

func (r Rule) AppliesToFile(filePath string) bool {
	if len(r.Extensions) == 0 && len(r.Names) == 0 {
		return true
	}
	base := path.Base(filePath)
	for _, n := range r.Names {
		if ok, _ := path.Match(n, base); ok {
			return true
		}
	}
	ext := strings.ToLower(path.Ext(base))
	for _, e := range r.Extensions {
		if e == ext {
			return true
		}
	}
	return false
}

// Finding converts a match into a finding for file.
func (r Rule) Finding(file string, m Match) domain.Finding {
	msg := m.Message
	if msg == "" {
		msg = r.Description
	}
	return domain.Finding{
		File:     file,
		Line:     m.Line,
		EndLine:  m.EndLine,
		RuleKey:  r.Key,
		Category: r.Category,
		Severity: r.Severity,
		Message:  msg,
		Fixable:  r.Fixable() && !m.ManualOnly,
	}
}

// Info is the serialisable view of a rule used by listings.
type Info struct {
	Key         string          `json:"key"`
	Category    domain.Category `json:"category"`
	Severity    domain.Severity `json:"severity"`
	Description string          `json:"description"`
	Profiles    []domain.Tag    `json:"profiles,omitempty"`
	Extensions  []string        `json:"extensions,omitempty"`
	Names       []string        `json:"names,omitempty"`
	Fixable     bool            `json:"fixable"`
}

func (r Rule) Info() Info {
	return Info{
		Key:         r.Key,
		Category:    r.Category,
		Severity:    r.Severity,
		Description: r.Description,
		Profiles:    r.Profiles,
		Extensions:  r.Extensions,
		Names:       r.Names,
		Fixable:     r.Fixable(),
	}
}

// Infos converts rs for listing, dropping the reserved internal rule.
func Infos(rs []Rule) []Info {
	out := make([]Info, 0, len(rs))
	for _, r := range rs {
		if r.Category == domain.CategoryInternal {
			continue
		}
		out = append(out, r.Info())
	}
	return out
}
