package domain

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// Severity ranks how serious a Finding is.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
	SeverityInfo    Severity = "info"
)

// Category groups rules into catalogs.
type Category string

const (
	CategorySecurity    Category = "security"
	CategoryQuality     Category = "quality"
	CategoryPerformance Category = "performance"
	CategoryUX          Category = "ux"
	CategoryResidue     Category = "residue"

	// CategoryInternal is reserved for isolated rule failures. It is never
	// selectable and never scored.
	CategoryInternal Category = "internal"
)

// ValidCategories enumerates the selectable catalogs in report order.
var ValidCategories = []Category{
	CategorySecurity,
	CategoryQuality,
	CategoryPerformance,
	CategoryUX,
	CategoryResidue,
}

var categoryAliases = map[string]Category{
	"security":          CategorySecurity,
	"quality":           CategoryQuality,
	"code-quality":      CategoryQuality,
	"performance":       CategoryPerformance,
	"perf":              CategoryPerformance,
	"ux":                CategoryUX,
	"a11y":              CategoryUX,
	"residue":           CategoryResidue,
	"migration":         CategoryResidue,
	"migration-residue": CategoryResidue,
}

// ParseCategory resolves a user-supplied catalog name, accepting the common
// aliases (a11y, migration, code-quality).
func ParseCategory(name string) (Category, error) {
	c, ok := categoryAliases[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return "", fmt.Errorf("unknown category %q (valid: security, quality, performance, ux, residue)", name)
	}
	return c, nil
}

// Finding is one rule violation tied to a file. Line 0 means the whole file.
type Finding struct {
	File     string   `json:"file"`
	Line     int      `json:"line,omitempty"`
	EndLine  int      `json:"end_line,omitempty"`
	RuleKey  string   `json:"rule"`
	Category Category `json:"category"`
	Severity Severity `json:"severity"`
	Message  string   `json:"message"`
	Fixable  bool     `json:"fixable"`
}

// SortFindings orders findings by file path, then rule key, then line.
func SortFindings(findings []Finding) {
	sort.SliceStable(findings, func(i, j int) bool {
		a, b := findings[i], findings[j]
		if a.File != b.File {
			return a.File < b.File
		}
		if a.RuleKey != b.RuleKey {
			return a.RuleKey < b.RuleKey
		}
		if a.Line != b.Line {
			return a.Line < b.Line
		}
		if a.EndLine != b.EndLine {
			return a.EndLine < b.EndLine
		}
		return a.Message < b.Message
	})
}

// Verdict is the pass/warn/fail outcome of a score.
type Verdict string

const (
	VerdictPass Verdict = "pass"
	VerdictWarn Verdict = "warn"
	VerdictFail Verdict = "fail"
)

// CategoryScore is the aggregated result for one catalog.
type CategoryScore struct {
	Name     Category `json:"name"`
	Score    int      `json:"score"`
	Weight   float64  `json:"weight"`
	Verdict  Verdict  `json:"verdict"`
	Errors   int      `json:"errors"`
	Warnings int      `json:"warnings"`
	Infos    int      `json:"infos"`
}

// Total returns the number of findings counted in the category.
func (c CategoryScore) Total() int { return c.Errors + c.Warnings + c.Infos }

// HealthReport is the artifact of one project run.
type HealthReport struct {
	RunID          string          `json:"run_id"`
	Root           string          `json:"root"`
	CommitHash     string          `json:"commit_hash,omitempty"`
	Timestamp      time.Time       `json:"timestamp"`
	Profile        ProjectProfile  `json:"profile"`
	Selection      string          `json:"selection"`
	RulesEvaluated int             `json:"rules_evaluated"`
	FilesScanned   int             `json:"files_scanned"`
	ScoringVersion string          `json:"scoring_version"`
	Overall        int             `json:"overall"`
	Verdict        Verdict         `json:"verdict"`
	Categories     []CategoryScore `json:"categories"`
	Findings       []Finding       `json:"findings"`
	Fixes          []FixResult     `json:"fixes,omitempty"`
	DetectionGaps  []DetectionGap  `json:"detection_gaps,omitempty"`
	FatalError     string          `json:"fatal_error,omitempty"`
}

func (r HealthReport) Grade() string { return GradeFor(r.Overall) }

// Errored reports whether the run was aborted by a fatal error.
func (r HealthReport) Errored() bool { return r.FatalError != "" }

// InternalErrors returns the findings recorded for rules that failed on a file.
func (r HealthReport) InternalErrors() []Finding {
	var out []Finding
	for _, f := range r.Findings {
		if f.Category == CategoryInternal {
			out = append(out, f)
		}
	}
	return out
}

// FailedFixes returns fix results that did not apply cleanly.
func (r HealthReport) FailedFixes() []FixResult {
	var out []FixResult
	for _, fr := range r.Fixes {
		if fr.Outcome != FixApplied {
			out = append(out, fr)
		}
	}
	return out
}

// CountBySeverity tallies findings, ignoring internal errors.
func (r HealthReport) CountBySeverity() (errors, warnings, infos int) {
	for _, f := range r.Findings {
		if f.Category == CategoryInternal {
			continue
		}
		switch f.Severity {
		case SeverityError:
			errors++
		case SeverityWarning:
			warnings++
		default:
			infos++
		}
	}
	return
}

// ProjectResult is one entry of a batch run.
type ProjectResult struct {
	Root    string        `json:"root"`
	Errored bool          `json:"errored"`
	Error   string        `json:"error,omitempty"`
	Report  *HealthReport `json:"report,omitempty"`
}

// BatchReport aggregates independent project runs.
type BatchReport struct {
	RunID          string          `json:"run_id"`
	Timestamp      time.Time       `json:"timestamp"`
	ScoringVersion string          `json:"scoring_version"`
	Overall        int             `json:"overall"`
	Verdict        Verdict         `json:"verdict"`
	Projects       []ProjectResult `json:"projects"`
}

// ErroredCount returns how many projects were aborted.
func (b BatchReport) ErroredCount() int {
	n := 0
	for _, p := range b.Projects {
		if p.Errored {
			n++
		}
	}
	return n
}

func GradeFor(score int) string {
	switch {
	case score >= 90:
		return "A"
	case score >= 80:
		return "B"
	case score >= 70:
		return "C"
	case score >= 60:
		return "D"
	default:
		return "F"
	}
}

func BadgeColor(score int) string {
	switch {
	case score >= 90:
		return "brightgreen"
	case score >= 80:
		return "green"
	case score >= 70:
		return "yellow"
	case score >= 60:
		return "orange"
	default:
		return "red"
	}
}
