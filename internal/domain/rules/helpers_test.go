package rules_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dashlint/dashlint/internal/domain"
	"github.com/dashlint/dashlint/internal/domain/rules"
)

func newDefault(t *testing.T) *rules.Registry {
	t.Helper()
	reg, err := rules.NewDefault(rules.Options{})
	require.NoError(t, err)
	return reg
}

func mustRule(t *testing.T, key string) rules.Rule {
	t.Helper()
	r, ok := newDefault(t).Get(key)
	require.True(t, ok, "rule %s not registered", key)
	return r
}

// check evaluates one rule against a file the rule applies to.
func check(t *testing.T, key, path, content string) []rules.Match {
	t.Helper()
	return checkIn(t, key, rules.File{Path: path, Content: content})
}

func checkIn(t *testing.T, key string, f rules.File) []rules.Match {
	t.Helper()
	r := mustRule(t, key)
	require.True(t, r.AppliesToFile(f.Path), "%s does not apply to %s", key, f.Path)
	return r.Check(f)
}

// fix runs a rule's fixer and re-checks the output.
func fix(t *testing.T, key, path, content string) (string, []rules.Match) {
	t.Helper()
	r := mustRule(t, key)
	require.NotNil(t, r.Fix, "%s has no fixer", key)
	out, err := r.Fix(rules.NewFile(path, content))
	require.NoError(t, err)
	return out, r.Check(rules.NewFile(path, out))
}

func fixErr(t *testing.T, key, path, content string) error {
	t.Helper()
	r := mustRule(t, key)
	require.NotNil(t, r.Fix, "%s has no fixer", key)
	_, err := r.Fix(rules.NewFile(path, content))
	return err
}

func fixable(ms []rules.Match) int {
	n := 0
	for _, m := range ms {
		if !m.ManualOnly {
			n++
		}
	}
	return n
}

func evaluateCategory(reg *rules.Registry, cat domain.Category, f rules.File) []domain.Finding {
	var out []domain.Finding
	for _, r := range reg.ByCategory(cat) {
		if !r.AppliesToFile(f.Path) || !r.AppliesToProfile(f.Project.Profile) {
			continue
		}
		for _, m := range r.Check(f) {
			out = append(out, r.Finding(f.Path, m))
		}
	}
	return out
}
