package rules_test

import (
	"sort"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dashlint/dashlint/internal/domain"
	"github.com/dashlint/dashlint/internal/domain/rules"
)

func noop(rules.File) []rules.Match { return nil }

func TestRegistry_RejectsDuplicateKey(t *testing.T) {
	reg := rules.NewRegistry()
	r := rules.Rule{Key: "quality/x", Category: domain.CategoryQuality, Severity: domain.SeverityInfo, Check: noop}
	require.NoError(t, reg.Register(r))

	err := reg.Register(r)
	assert.ErrorIs(t, err, domain.ErrDuplicateRule)
	assert.Equal(t, 1, reg.Len())
}

func TestRegistry_RejectsMalformedRules(t *testing.T) {
	tests := []struct {
		name string
		rule rules.Rule
	}{
		{"empty key", rules.Rule{Category: domain.CategoryQuality, Check: noop}},
		{"nil check", rules.Rule{Key: "quality/x", Category: domain.CategoryQuality}},
		{"unknown category", rules.Rule{Key: "bogus/x", Category: "bogus", Check: noop}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Error(t, rules.NewRegistry().Register(tt.rule))
		})
	}
}

func TestNewDefault_KeysArePrefixedByCategory(t *testing.T) {
	reg := newDefault(t)
	require.Greater(t, reg.Len(), 30)

	for _, r := range reg.All() {
		assert.True(t, strings.HasPrefix(r.Key, string(r.Category)+"/"), r.Key)
		assert.NotEmpty(t, r.Description, r.Key)
	}

	_, ok := reg.Get(rules.InternalErrorKey)
	assert.True(t, ok)
}

func TestNewDefault_EveryCatalogPopulated(t *testing.T) {
	reg := newDefault(t)
	for _, c := range domain.ValidCategories {
		assert.NotEmpty(t, reg.ByCategory(c), c)
	}
}

func keysOf(rs []rules.Rule) []string {
	out := make([]string, len(rs))
	for i, r := range rs {
		out[i] = r.Key
	}
	return out
}

func TestResolve_SmartNeverEmpty(t *testing.T) {
	reg := newDefault(t)
	sel, err := rules.ParseSelection("smart")
	require.NoError(t, err)

	got := reg.Resolve(sel, domain.NewProfile("/p"))
	require.NotEmpty(t, got)
	for _, r := range got {
		assert.Empty(t, r.Profiles, "%s is profile-gated", r.Key)
		assert.NotEqual(t, domain.CategoryInternal, r.Category)
	}
}

func TestResolve_SmartIsMonotonicInTags(t *testing.T) {
	reg := newDefault(t)
	sel, err := rules.ParseSelection("smart")
	require.NoError(t, err)

	steps := [][]domain.Tag{
		{},
		{domain.TagNode},
		{domain.TagNode, domain.TagVite},
		{domain.TagNode, domain.TagVite, domain.TagDaisyUI, domain.TagShoelace},
		{domain.TagNode, domain.TagVite, domain.TagDaisyUI, domain.TagShoelace,
			domain.TagAngular, domain.TagPrimeNG, domain.TagBLUI, domain.TagPython, domain.TagGo, domain.TagExpress},
	}

	var prev []string
	for _, tags := range steps {
		got := keysOf(reg.Resolve(sel, domain.NewProfile("/p", tags...)))
		for _, k := range prev {
			assert.Contains(t, got, k, "tags %v dropped %s", tags, k)
		}
		assert.GreaterOrEqual(t, len(got), len(prev))
		prev = got
	}
}

func TestResolve_OrderedByKey(t *testing.T) {
	reg := newDefault(t)
	sel, err := rules.ParseSelection("all")
	require.NoError(t, err)

	got := keysOf(reg.Resolve(sel, domain.NewProfile("/p", domain.TagAngular, domain.TagDaisyUI)))
	assert.True(t, sort.StringsAreSorted(got))
	assert.NotContains(t, got, rules.InternalErrorKey)
}

func TestResolve_ExplicitAndDisabled(t *testing.T) {
	reg := newDefault(t)
	sel, err := rules.ParseSelection("security")
	require.NoError(t, err)
	sel.Disabled = []string{"security/hardcoded-password"}

	got := reg.Resolve(sel, domain.NewProfile("/p"))
	require.NotEmpty(t, got)
	for _, r := range got {
		assert.Equal(t, domain.CategorySecurity, r.Category)
	}
	assert.NotContains(t, keysOf(got), "security/hardcoded-password")
}

func TestResolve_ProfileGatedRuleNeedsTag(t *testing.T) {
	reg := newDefault(t)
	sel, err := rules.ParseSelection("residue")
	require.NoError(t, err)

	assert.Empty(t, reg.Resolve(sel, domain.NewProfile("/p", domain.TagVite)))
	assert.Contains(t, keysOf(reg.Resolve(sel, domain.NewProfile("/p", domain.TagDaisyUI))), "residue/shoelace-tag")
}

func TestParseSelection(t *testing.T) {
	tests := []struct {
		in      string
		mode    rules.SelectionMode
		cats    []domain.Category
		wantErr bool
	}{
		{in: "", mode: rules.ModeSmart},
		{in: "smart", mode: rules.ModeSmart},
		{in: "ALL", mode: rules.ModeAll},
		{in: "security,ux", mode: rules.ModeExplicit, cats: []domain.Category{domain.CategorySecurity, domain.CategoryUX}},
		{in: "a11y, ux", mode: rules.ModeExplicit, cats: []domain.Category{domain.CategoryUX}},
		{in: "migration", mode: rules.ModeExplicit, cats: []domain.Category{domain.CategoryResidue}},
		{in: "bogus", wantErr: true},
		{in: ",", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			sel, err := rules.ParseSelection(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.mode, sel.Mode)
			assert.Equal(t, tt.cats, sel.Categories)
		})
	}
}

func TestSelection_RestrictIntersects(t *testing.T) {
	sel := rules.Selection{Mode: rules.ModeAll, Restrict: []domain.Category{domain.CategorySecurity}}
	assert.Equal(t, []domain.Category{domain.CategorySecurity}, sel.CategoriesFor(domain.NewProfile("/p")))
	assert.Equal(t, "all", sel.String())
}

func TestSmartCategories(t *testing.T) {
	assert.Equal(t,
		[]domain.Category{domain.CategorySecurity, domain.CategoryQuality},
		rules.SmartCategories(domain.NewProfile("/p", domain.TagPython)))
	assert.Equal(t,
		[]domain.Category{domain.CategorySecurity, domain.CategoryQuality, domain.CategoryPerformance, domain.CategoryUX, domain.CategoryResidue},
		rules.SmartCategories(domain.NewProfile("/p", domain.TagVite)))
}

func TestRule_AppliesToFile(t *testing.T) {
	r := mustRule(t, "security/sensitive-file")
	assert.True(t, r.AppliesToFile(".env"))
	assert.True(t, r.AppliesToFile("config/.env.local"))
	assert.True(t, r.AppliesToFile("certs/server.pem"))
	assert.False(t, r.AppliesToFile("src/env.js"))

	q := mustRule(t, "quality/console-log")
	assert.True(t, q.AppliesToFile("src/App.TSX"))
	assert.False(t, q.AppliesToFile("README.md"))
}

func TestRule_FindingHonoursManualOnly(t *testing.T) {
	r := mustRule(t, "quality/duplicate-class")

	f := r.Finding("a.html", rules.Match{Line: 3, Message: "m"})
	assert.True(t, f.Fixable)
	assert.Equal(t, "quality/duplicate-class", f.RuleKey)
	assert.Equal(t, domain.CategoryQuality, f.Category)

	manual := r.Finding("a.html", rules.Match{Line: 3, ManualOnly: true})
	assert.False(t, manual.Fixable)
	assert.Equal(t, r.Description, manual.Message)

	noFixer := mustRule(t, "quality/console-log").Finding("a.js", rules.Match{Line: 1})
	assert.False(t, noFixer.Fixable)
}

func TestInfos_DropInternalRule(t *testing.T) {
	reg := newDefault(t)
	infos := rules.Infos(reg.All())

	assert.Len(t, infos, reg.Len()-1)
	for _, info := range infos {
		assert.NotEqual(t, rules.InternalErrorKey, info.Key)
	}

	r, ok := reg.Get("ux/select-in-table-cell")
	require.True(t, ok)
	assert.True(t, r.Info().Fixable)
	assert.Equal(t, domain.CategoryUX, r.Info().Category)
}
