// Package check evaluates resolved rules against single files. It does no
// I/O; traversal and concurrency live in the application layer.
package check

import (
	"fmt"

	"github.com/dashlint/dashlint/internal/domain"
	"github.com/dashlint/dashlint/internal/domain/rules"
)

// Applicable filters rs down to the rules that evaluate filePath.
func Applicable(rs []rules.Rule, filePath string) []rules.Rule {
	var out []rules.Rule
	for _, r := range rs {
		if r.AppliesToFile(filePath) {
			out = append(out, r)
		}
	}
	return out
}

// EvaluateFile applies every applicable rule to f independently. A rule that
// panics yields one internal finding for (file, rule) and the remaining rules
// still run. The result is sorted.
func EvaluateFile(f rules.File, rs []rules.Rule) []domain.Finding {
	var out []domain.Finding
	for _, r := range Applicable(rs, f.Path) {
		matches, err := evaluate(r, f)
		if err != nil {
			out = append(out, InternalFinding(f.Path, r.Key, err))
			continue
		}
		for _, m := range matches {
			out = append(out, r.Finding(f.Path, m))
		}
	}
	domain.SortFindings(out)
	return out
}

func evaluate(r rules.Rule, f rules.File) (matches []rules.Match, err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("rule %s panicked: %v", r.Key, p)
		}
	}()
	return r.Check(f), nil
}

// InternalFinding reports a rule that failed to evaluate on file.
func InternalFinding(file, ruleKey string, cause error) domain.Finding {
	return domain.Finding{
		File:     file,
		RuleKey:  rules.InternalErrorKey,
		Category: domain.CategoryInternal,
		Severity: domain.SeverityError,
		Message:  fmt.Sprintf("%s: %v", ruleKey, cause),
	}
}

// ReplaceFile swaps every finding for file with fresh and returns the sorted
// result. findings is not modified.
func ReplaceFile(findings []domain.Finding, file string, fresh []domain.Finding) []domain.Finding {
	out := make([]domain.Finding, 0, len(findings)+len(fresh))
	for _, f := range findings {
		if f.File != file {
			out = append(out, f)
		}
	}
	out = append(out, fresh...)
	domain.SortFindings(out)
	return out
}

// GroupByFile returns fixable findings keyed by file, keeping input order.
func GroupByFile(findings []domain.Finding) map[string][]domain.Finding {
	out := make(map[string][]domain.Finding)
	for _, f := range findings {
		if f.Fixable {
			out[f.File] = append(out[f.File], f)
		}
	}
	return out
}
