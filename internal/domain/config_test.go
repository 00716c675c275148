package domain_test

import (
	"testing"

	"github.com/dashlint/dashlint/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := domain.DefaultConfig()
	assert.Equal(t, domain.DefaultMaxFileLines, cfg.MaxFileLines)
	assert.Equal(t, "smart", cfg.Check)
	assert.Empty(t, cfg.IgnorePaths)
	assert.Nil(t, cfg.Weights)
	assert.NoError(t, cfg.Validate())
}

func TestWithDefaults_KeepsExplicitValues(t *testing.T) {
	cfg := domain.ProjectConfig{MaxFileLines: 800}.WithDefaults()
	assert.Equal(t, 800, cfg.MaxFileLines)
	assert.Equal(t, "smart", cfg.Check)
}

func TestIsRuleDisabled(t *testing.T) {
	cfg := domain.ProjectConfig{DisabledRules: []string{"quality/console-log"}}
	assert.True(t, cfg.IsRuleDisabled("quality/console-log"))
	assert.False(t, cfg.IsRuleDisabled("quality/todo-marker"))
}

func TestEnabledCategories(t *testing.T) {
	cfg := domain.ProjectConfig{Categories: []string{"security", "a11y"}}
	cats, err := cfg.EnabledCategories()
	require.NoError(t, err)
	assert.Equal(t, []domain.Category{domain.CategorySecurity, domain.CategoryUX}, cats)

	none, err := domain.ProjectConfig{}.EnabledCategories()
	require.NoError(t, err)
	assert.Nil(t, none)
}

func TestValidate_Errors(t *testing.T) {
	tests := []struct {
		name string
		cfg  domain.ProjectConfig
		msg  string
	}{
		{"negative max lines", domain.ProjectConfig{MaxFileLines: -1}, "max_file_lines"},
		{"bad check", domain.ProjectConfig{Check: "security,styling"}, "check"},
		{"bad category", domain.ProjectConfig{Categories: []string{"bogus"}}, "categories"},
		{"bad weight key", domain.ProjectConfig{Weights: map[string]float64{"bogus": 0.5}}, "unknown category"},
		{"weight out of range", domain.ProjectConfig{Weights: map[string]float64{"security": 1.5}}, "between 0 and 1"},
		{"negative workers", domain.ProjectConfig{Workers: -2}, "workers"},
		{"empty ignore path", domain.ProjectConfig{IgnorePaths: []string{"  "}}, "ignore_paths[0]"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.msg)
		})
	}
}

func TestValidate_AcceptsCategoryList(t *testing.T) {
	cfg := domain.ProjectConfig{Check: "security,ux", Weights: map[string]float64{"security": 0.5}}
	assert.NoError(t, cfg.Validate())
}
