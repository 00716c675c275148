// Package fix computes whole-file rewrites from fixable findings. Writing the
// result is the caller's job.
package fix

import (
	"errors"
	"fmt"
	"sort"

	"github.com/dashlint/dashlint/internal/domain"
	"github.com/dashlint/dashlint/internal/domain/rules"
)

// PlanFile runs, in rule-key order, the fixer of every rule behind a fixable
// finding in findings, threading the content from one fixer to the next.
// Any fixer error discards all rewrites for the file. Rules without a fixer
// are never invoked.
func PlanFile(f rules.File, findings []domain.Finding, rs []rules.Rule) domain.FixResult {
	byKey := make(map[string]rules.Rule, len(rs))
	for _, r := range rs {
		byKey[r.Key] = r
	}

	seen := make(map[string]bool)
	var keys []string
	count := 0
	for _, fd := range findings {
		if fd.File != f.Path || !fd.Fixable {
			continue
		}
		r, ok := byKey[fd.RuleKey]
		if !ok || r.Fix == nil {
			continue
		}
		count++
		if !seen[fd.RuleKey] {
			seen[fd.RuleKey] = true
			keys = append(keys, fd.RuleKey)
		}
	}
	sort.Strings(keys)

	res := domain.FixResult{
		File:     f.Path,
		Rules:    keys,
		Findings: count,
		Original: f.Content,
		Updated:  f.Content,
	}
	if len(keys) == 0 {
		res.Outcome = domain.FixSkipped
		res.Reason = "no fixable findings"
		return res
	}

	content := f.Content
	for _, k := range keys {
		out, err := apply(byKey[k], rules.File{Path: f.Path, Content: content, Project: f.Project})
		if errors.Is(err, domain.ErrNoMatch) {
			continue
		}
		if err != nil {
			res.Outcome = domain.OutcomeFor(err)
			res.Reason = fmt.Sprintf("%s: %v", k, err)
			return res
		}
		content = out
	}

	if content == f.Content {
		res.Outcome = domain.FixSkipped
		res.Reason = "nothing to change"
		return res
	}
	res.Outcome = domain.FixApplied
	res.Updated = content
	return res
}

func apply(r rules.Rule, f rules.File) (out string, err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("fixer panicked: %v", p)
		}
	}()
	return r.Fix(f)
}
