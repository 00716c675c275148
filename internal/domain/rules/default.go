package rules

import "github.com/dashlint/dashlint/internal/domain"

// InternalErrorKey is the rule reported when another rule panics.
const InternalErrorKey = "internal/rule-error"

// Options tunes the built-in catalogs.
type Options struct {
	MaxFileLines int
}

// InternalRule is registered so internal findings always reference a known
// rule. Selections never resolve it.
func InternalRule() Rule {
	return Rule{
		Key:         InternalErrorKey,
		Category:    domain.CategoryInternal,
		Severity:    domain.SeverityError,
		Description: "rule evaluation failed",
		Check:       func(File) []Match { return nil },
	}
}

// NewDefault builds a registry holding every built-in catalog.
func NewDefault(opts Options) (*Registry, error) {
	reg := NewRegistry()
	catalogs := [][]Rule{
		SecurityRules(),
		QualityRules(opts),
		UXRules(),
		ResidueRules(),
		PerformanceRules(),
		{InternalRule()},
	}
	for _, c := range catalogs {
		if err := reg.Register(c...); err != nil {
			return nil, err
		}
	}
	return reg, nil
}
