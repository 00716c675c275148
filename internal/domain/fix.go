package domain

import "errors"

// FixMode selects what the fix engine does with computed rewrites.
type FixMode string

const (
	FixModeNone   FixMode = ""
	FixModeDryRun FixMode = "dry-run"
	FixModeApply  FixMode = "apply"
)

// FixOutcome is the per-file result of a fix attempt.
type FixOutcome string

const (
	FixApplied FixOutcome = "applied"
	FixSkipped FixOutcome = "skipped"
	FixFailed  FixOutcome = "failed"
)

// FixResult describes one file the fix engine touched or declined to touch.
// A file is rewritten as a whole or not at all.
type FixResult struct {
	File     string     `json:"file"`
	Outcome  FixOutcome `json:"outcome"`
	Rules    []string   `json:"rules"`
	Findings int        `json:"findings"`
	Reason   string     `json:"reason,omitempty"`
	DryRun   bool       `json:"dry_run"`
	Diff     string     `json:"diff,omitempty"`
	Original string     `json:"-"`
	Updated  string     `json:"-"`
}

// OutcomeFor classifies a fixer error. Ambiguity and nothing-to-do are
// skips; missing equivalents, unsupported shapes and I/O errors are failures.
func OutcomeFor(err error) FixOutcome {
	switch {
	case err == nil:
		return FixApplied
	case errors.Is(err, ErrAmbiguousMatch), errors.Is(err, ErrNoMatch):
		return FixSkipped
	default:
		return FixFailed
	}
}
