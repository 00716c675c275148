package domain_test

import (
	"testing"

	"github.com/dashlint/dashlint/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGradeFor(t *testing.T) {
	tests := []struct {
		score int
		grade string
	}{
		{95, "A"}, {85, "B"}, {75, "C"}, {65, "D"}, {45, "F"}, {0, "F"}, {100, "A"},
	}
	for _, tt := range tests {
		r := domain.HealthReport{Overall: tt.score}
		assert.Equal(t, tt.grade, r.Grade(), "score %d", tt.score)
	}
}

func TestBadgeColor(t *testing.T) {
	assert.Equal(t, "brightgreen", domain.BadgeColor(95))
	assert.Equal(t, "red", domain.BadgeColor(30))
}

func TestParseCategory_Aliases(t *testing.T) {
	tests := map[string]domain.Category{
		"security":          domain.CategorySecurity,
		"a11y":              domain.CategoryUX,
		"UX":                domain.CategoryUX,
		"migration":         domain.CategoryResidue,
		"migration-residue": domain.CategoryResidue,
		"code-quality":      domain.CategoryQuality,
		" perf ":            domain.CategoryPerformance,
	}
	for in, want := range tests {
		got, err := domain.ParseCategory(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
}

func TestParseCategory_Unknown(t *testing.T) {
	_, err := domain.ParseCategory("internal")
	assert.Error(t, err, "the internal category is not selectable")
}

func TestSortFindings_FileThenRuleThenLine(t *testing.T) {
	findings := []domain.Finding{
		{File: "b.js", RuleKey: "quality/a", Line: 1},
		{File: "a.js", RuleKey: "ux/z", Line: 3},
		{File: "a.js", RuleKey: "security/k", Line: 9},
		{File: "a.js", RuleKey: "security/k", Line: 2},
	}
	domain.SortFindings(findings)

	assert.Equal(t, "a.js", findings[0].File)
	assert.Equal(t, "security/k", findings[0].RuleKey)
	assert.Equal(t, 2, findings[0].Line)
	assert.Equal(t, 9, findings[1].Line)
	assert.Equal(t, "ux/z", findings[2].RuleKey)
	assert.Equal(t, "b.js", findings[3].File)
}

func TestHealthReport_InternalErrorsAndCounts(t *testing.T) {
	r := domain.HealthReport{
		Findings: []domain.Finding{
			{Category: domain.CategorySecurity, Severity: domain.SeverityError},
			{Category: domain.CategoryUX, Severity: domain.SeverityWarning},
			{Category: domain.CategoryInternal, Severity: domain.SeverityError},
			{Category: domain.CategoryQuality, Severity: domain.SeverityInfo},
		},
	}
	e, w, i := r.CountBySeverity()
	assert.Equal(t, 1, e)
	assert.Equal(t, 1, w)
	assert.Equal(t, 1, i)
	assert.Len(t, r.InternalErrors(), 1)
}

func TestHealthReport_FailedFixes(t *testing.T) {
	r := domain.HealthReport{
		Fixes: []domain.FixResult{
			{File: "a.html", Outcome: domain.FixApplied},
			{File: "b.html", Outcome: domain.FixSkipped},
			{File: "c.html", Outcome: domain.FixFailed},
		},
	}
	failed := r.FailedFixes()
	require.Len(t, failed, 2)
	assert.Equal(t, "b.html", failed[0].File)
	assert.Equal(t, "c.html", failed[1].File)
}

func TestBatchReport_ErroredCount(t *testing.T) {
	b := domain.BatchReport{Projects: []domain.ProjectResult{
		{Root: "a"}, {Root: "b", Errored: true}, {Root: "c"},
	}}
	assert.Equal(t, 1, b.ErroredCount())
}
