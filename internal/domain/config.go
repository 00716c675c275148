package domain

import (
	"fmt"
	"strings"
)

// DefaultMaxFileLines is the line count above which a file is reported as too long.
const DefaultMaxFileLines = 500

// ProjectConfig holds project-level configuration loaded from .dashlint.yaml.
type ProjectConfig struct {
	IgnorePaths   []string           `yaml:"ignore_paths,omitempty"   json:"ignore_paths,omitempty"`
	MaxFileLines  int                `yaml:"max_file_lines,omitempty" json:"max_file_lines,omitempty"`
	Check         string             `yaml:"check,omitempty"          json:"check,omitempty"`
	Categories    []string           `yaml:"categories,omitempty"     json:"categories,omitempty"`
	DisabledRules []string           `yaml:"disabled_rules,omitempty" json:"disabled_rules,omitempty"`
	Weights       map[string]float64 `yaml:"weights,omitempty"        json:"weights,omitempty"`
	Workers       int                `yaml:"workers,omitempty"        json:"workers,omitempty"`
}

// DefaultConfig returns the built-in defaults used when no config file exists.
func DefaultConfig() ProjectConfig {
	return ProjectConfig{
		MaxFileLines: DefaultMaxFileLines,
		Check:        "smart",
	}
}

// WithDefaults fills zero values from DefaultConfig.
func (c ProjectConfig) WithDefaults() ProjectConfig {
	d := DefaultConfig()
	if c.MaxFileLines == 0 {
		c.MaxFileLines = d.MaxFileLines
	}
	if c.Check == "" {
		c.Check = d.Check
	}
	return c
}

// IsRuleDisabled reports whether key is listed in disabled_rules.
func (c ProjectConfig) IsRuleDisabled(key string) bool {
	for _, r := range c.DisabledRules {
		if r == key {
			return true
		}
	}
	return false
}

// EnabledCategories parses the categories list. A nil result means no
// restriction.
func (c ProjectConfig) EnabledCategories() ([]Category, error) {
	if len(c.Categories) == 0 {
		return nil, nil
	}
	out := make([]Category, 0, len(c.Categories))
	for _, name := range c.Categories {
		cat, err := ParseCategory(name)
		if err != nil {
			return nil, err
		}
		out = append(out, cat)
	}
	return out, nil
}

// Validate checks the config for invalid values and returns a descriptive error.
func (c ProjectConfig) Validate() error {
	// 1. max_file_lines must be positive when set
	if c.MaxFileLines < 0 {
		return fmt.Errorf("max_file_lines must be > 0 (got %d)", c.MaxFileLines)
	}

	// 2. check must be smart, all, or a category list
	if c.Check != "" && c.Check != "smart" && c.Check != "all" {
		for _, name := range strings.Split(c.Check, ",") {
			if _, err := ParseCategory(name); err != nil {
				return fmt.Errorf("check: %w", err)
			}
		}
	}

	// 3. categories must be known
	if _, err := c.EnabledCategories(); err != nil {
		return fmt.Errorf("categories: %w", err)
	}

	// 4. weights keys must be valid categories, values in [0, 1]
	for k, w := range c.Weights {
		if _, err := ParseCategory(k); err != nil {
			return fmt.Errorf("unknown category %q in weights", k)
		}
		if w < 0 || w > 1 {
			return fmt.Errorf("weights[%q] = %.2f (must be between 0 and 1)", k, w)
		}
	}

	// 5. workers cannot be negative
	if c.Workers < 0 {
		return fmt.Errorf("workers must be >= 0 (got %d)", c.Workers)
	}

	// 6. ignore_paths entries cannot be empty
	for i, p := range c.IgnorePaths {
		if strings.TrimSpace(p) == "" {
			return fmt.Errorf("ignore_paths[%d] is empty", i)
		}
	}

	return nil
}
