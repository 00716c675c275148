// Package scoring turns findings into category scores, an overall score and
// a verdict. Everything here is a pure reduction.
package scoring

import (
	"fmt"
	"math"

	"github.com/dashlint/dashlint/internal/domain"
)

// CurrentVersion identifies the scoring table new reports are built with.
// Bump it whenever a weight, band or formula changes.
const CurrentVersion = "1"

// Table is one immutable version of the scoring rules.
type Table struct {
	Version         string
	SeverityWeights map[domain.Severity]int
	CategoryWeights map[domain.Category]float64
	// PassAt and WarnAt are inclusive lower bounds of the verdict bands.
	PassAt int
	WarnAt int
}

var tables = map[string]Table{
	"1": {
		Version: "1",
		SeverityWeights: map[domain.Severity]int{
			domain.SeverityError:   10,
			domain.SeverityWarning: 3,
			domain.SeverityInfo:    1,
		},
		CategoryWeights: map[domain.Category]float64{
			domain.CategorySecurity:    0.35,
			domain.CategoryQuality:     0.25,
			domain.CategoryPerformance: 0.15,
			domain.CategoryUX:          0.15,
			domain.CategoryResidue:     0.10,
		},
		PassAt: 80,
		WarnAt: 60,
	},
}

// Current returns the table for CurrentVersion.
func Current() Table {
	t, _ := Lookup(CurrentVersion)
	return t
}

// Lookup returns the table a report was scored with.
func Lookup(version string) (Table, error) {
	t, ok := tables[version]
	if !ok {
		return Table{}, fmt.Errorf("scoring table %q: %w", version, domain.ErrScoringVersionMismatch)
	}
	return t.clone(), nil
}

func (t Table) clone() Table {
	out := t
	out.SeverityWeights = make(map[domain.Severity]int, len(t.SeverityWeights))
	for k, v := range t.SeverityWeights {
		out.SeverityWeights[k] = v
	}
	out.CategoryWeights = make(map[domain.Category]float64, len(t.CategoryWeights))
	for k, v := range t.CategoryWeights {
		out.CategoryWeights[k] = v
	}
	return out
}

// WithWeights returns a copy with category weights overridden by a project's
// configuration. Unknown names are ignored; config validation rejects them.
func (t Table) WithWeights(overrides map[string]float64) Table {
	out := t.clone()
	for name, w := range overrides {
		c, err := domain.ParseCategory(name)
		if err != nil {
			continue
		}
		out.CategoryWeights[c] = w
	}
	return out
}

// Verdict maps a score onto the table's bands.
func (t Table) Verdict(score int) domain.Verdict {
	switch {
	case score >= t.PassAt:
		return domain.VerdictPass
	case score >= t.WarnAt:
		return domain.VerdictWarn
	default:
		return domain.VerdictFail
	}
}

// Result is the scored view of one project's findings.
type Result struct {
	Overall    int
	Verdict    domain.Verdict
	Categories []domain.CategoryScore
}

// Aggregate scores the evaluated categories. Categories that were not
// evaluated are absent from the result and do not dilute the overall score.
// Internal findings are never scored.
func (t Table) Aggregate(findings []domain.Finding, evaluated []domain.Category) Result {
	enabled := make(map[domain.Category]bool, len(evaluated))
	for _, c := range evaluated {
		enabled[c] = true
	}

	byCat := make(map[domain.Category]*domain.CategoryScore)
	var cats []domain.CategoryScore
	for _, c := range domain.ValidCategories {
		if enabled[c] {
			cats = append(cats, domain.CategoryScore{Name: c, Weight: t.CategoryWeights[c]})
		}
	}
	for i := range cats {
		byCat[cats[i].Name] = &cats[i]
	}

	penalties := make(map[domain.Category]int)
	securityError := false
	for _, f := range findings {
		cs, ok := byCat[f.Category]
		if !ok {
			continue
		}
		switch f.Severity {
		case domain.SeverityError:
			cs.Errors++
			if f.Category == domain.CategorySecurity {
				securityError = true
			}
		case domain.SeverityWarning:
			cs.Warnings++
		default:
			cs.Infos++
		}
		penalties[f.Category] += t.SeverityWeights[f.Severity]
	}

	var weighted, totalWeight float64
	for i := range cats {
		cats[i].Score = max(0, 100-penalties[cats[i].Name])
		cats[i].Verdict = t.Verdict(cats[i].Score)
		weighted += float64(cats[i].Score) * cats[i].Weight
		totalWeight += cats[i].Weight
	}

	overall := 100
	if totalWeight > 0 {
		overall = int(math.Round(weighted / totalWeight))
	}
	verdict := t.Verdict(overall)
	if securityError && verdict == domain.VerdictPass {
		verdict = domain.VerdictWarn
	}
	return Result{Overall: overall, Verdict: verdict, Categories: cats}
}

// Apply scores report in place from its findings.
func (t Table) Apply(report *domain.HealthReport, evaluated []domain.Category) {
	res := t.Aggregate(report.Findings, evaluated)
	report.ScoringVersion = t.Version
	report.Overall = res.Overall
	report.Verdict = res.Verdict
	report.Categories = res.Categories
}

// AggregateBatch averages the overall scores of the projects that completed.
// Every completed report must carry this table's version.
func (t Table) AggregateBatch(results []domain.ProjectResult) (int, domain.Verdict, error) {
	sum, n := 0, 0
	for _, r := range results {
		if r.Errored || r.Report == nil {
			continue
		}
		if r.Report.ScoringVersion != t.Version {
			return 0, "", fmt.Errorf("%s scored with table %q, batch uses %q: %w",
				r.Root, r.Report.ScoringVersion, t.Version, domain.ErrScoringVersionMismatch)
		}
		sum += r.Report.Overall
		n++
	}
	if n == 0 {
		return 0, domain.VerdictFail, nil
	}
	overall := int(math.Round(float64(sum) / float64(n)))
	return overall, t.Verdict(overall), nil
}
