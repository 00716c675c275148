package domain

import "errors"

// Fixer errors. A fixer returning any of these leaves the file untouched.
var (
	ErrAmbiguousMatch     = errors.New("ambiguous match")
	ErrNoMatch            = errors.New("no match to fix")
	ErrNoEquivalent       = errors.New("no registered equivalent, manual migration required")
	ErrUnsupportedPattern = errors.New("unsupported pattern")
)

var (
	ErrDuplicateRule          = errors.New("duplicate rule key")
	ErrUnknownRule            = errors.New("unknown rule")
	ErrScoringVersionMismatch = errors.New("scoring table version mismatch")
	ErrUnreadableRoot         = errors.New("unreadable project root")
)
