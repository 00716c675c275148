package rules

import (
	"fmt"
	"sort"
	"strings"

	"github.com/dashlint/dashlint/internal/domain"
)

// Registry is the catalogue of rules known to one process. It is built once
// at startup and read-only afterwards.
type Registry struct {
	rules map[string]Rule
	keys  []string
}

func NewRegistry() *Registry {
	return &Registry{rules: make(map[string]Rule)}
}

// Register adds rules, rejecting duplicate or malformed definitions.
func (r *Registry) Register(rs ...Rule) error {
	for _, rule := range rs {
		if rule.Key == "" {
			return fmt.Errorf("registering rule: empty key")
		}
		if rule.Check == nil {
			return fmt.Errorf("registering rule %s: nil check", rule.Key)
		}
		if rule.Category != domain.CategoryInternal {
			if _, err := domain.ParseCategory(string(rule.Category)); err != nil {
				return fmt.Errorf("registering rule %s: %w", rule.Key, err)
			}
		}
		if _, ok := r.rules[rule.Key]; ok {
			return fmt.Errorf("registering rule %s: %w", rule.Key, domain.ErrDuplicateRule)
		}
		r.rules[rule.Key] = rule
		r.keys = append(r.keys, rule.Key)
	}
	sort.Strings(r.keys)
	return nil
}

func (r *Registry) Get(key string) (Rule, bool) {
	rule, ok := r.rules[key]
	return rule, ok
}

func (r *Registry) Len() int { return len(r.keys) }

// All returns every rule ordered by key.
func (r *Registry) All() []Rule {
	out := make([]Rule, 0, len(r.keys))
	for _, k := range r.keys {
		out = append(out, r.rules[k])
	}
	return out
}

// ByCategory returns the rules of one catalog ordered by key.
func (r *Registry) ByCategory(cat domain.Category) []Rule {
	var out []Rule
	for _, k := range r.keys {
		if r.rules[k].Category == cat {
			out = append(out, r.rules[k])
		}
	}
	return out
}

// Resolve returns the rules selected for profile, ordered by key. The
// internal category is never resolved.
func (r *Registry) Resolve(sel Selection, profile domain.ProjectProfile) []Rule {
	cats := make(map[domain.Category]bool)
	for _, c := range sel.CategoriesFor(profile) {
		cats[c] = true
	}
	disabled := make(map[string]bool, len(sel.Disabled))
	for _, k := range sel.Disabled {
		disabled[k] = true
	}

	var out []Rule
	for _, k := range r.keys {
		rule := r.rules[k]
		if !cats[rule.Category] || disabled[k] {
			continue
		}
		if !rule.AppliesToProfile(profile) {
			continue
		}
		out = append(out, rule)
	}
	return out
}

// SelectionMode says how catalogs are picked.
type SelectionMode string

const (
	ModeSmart    SelectionMode = "smart"
	ModeAll      SelectionMode = "all"
	ModeExplicit SelectionMode = "explicit"
)

// Selection is a parsed --check value plus config restrictions.
type Selection struct {
	Mode       SelectionMode
	Categories []domain.Category
	// Restrict, when non-empty, intersects whatever the mode selects.
	Restrict []domain.Category
	Disabled []string
}

// ParseSelection accepts "smart", "all", or a comma-separated catalog list.
func ParseSelection(s string) (Selection, error) {
	switch strings.TrimSpace(strings.ToLower(s)) {
	case "", "smart":
		return Selection{Mode: ModeSmart}, nil
	case "all":
		return Selection{Mode: ModeAll}, nil
	}

	seen := make(map[domain.Category]bool)
	var cats []domain.Category
	for _, part := range strings.Split(s, ",") {
		if strings.TrimSpace(part) == "" {
			continue
		}
		c, err := domain.ParseCategory(part)
		if err != nil {
			return Selection{}, err
		}
		if !seen[c] {
			seen[c] = true
			cats = append(cats, c)
		}
	}
	if len(cats) == 0 {
		return Selection{}, fmt.Errorf("empty category list %q", s)
	}
	return Selection{Mode: ModeExplicit, Categories: cats}, nil
}

func (s Selection) String() string {
	switch s.Mode {
	case ModeExplicit:
		parts := make([]string, len(s.Categories))
		for i, c := range s.Categories {
			parts[i] = string(c)
		}
		return strings.Join(parts, ",")
	case ModeAll:
		return "all"
	default:
		return "smart"
	}
}

// CategoriesFor returns the catalogs the selection enables for profile.
func (s Selection) CategoriesFor(profile domain.ProjectProfile) []domain.Category {
	var cats []domain.Category
	switch s.Mode {
	case ModeExplicit:
		cats = s.Categories
	case ModeAll:
		cats = domain.ValidCategories
	default:
		cats = SmartCategories(profile)
	}
	if len(s.Restrict) == 0 {
		return cats
	}
	allowed := make(map[domain.Category]bool, len(s.Restrict))
	for _, c := range s.Restrict {
		allowed[c] = true
	}
	var out []domain.Category
	for _, c := range cats {
		if allowed[c] {
			out = append(out, c)
		}
	}
	return out
}

// SmartCategories picks catalogs from detected tags. Security and quality
// always apply; both contain profile-agnostic rules, so smart mode is never
// empty. More tags never remove a catalog.
func SmartCategories(profile domain.ProjectProfile) []domain.Category {
	cats := []domain.Category{domain.CategorySecurity, domain.CategoryQuality}
	if profile.HasAny(domain.TagNode, domain.TagFrontend) {
		cats = append(cats, domain.CategoryPerformance)
	}
	if profile.Has(domain.TagFrontend) {
		cats = append(cats, domain.CategoryUX, domain.CategoryResidue)
	}
	return cats
}
