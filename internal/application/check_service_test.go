package application_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dashlint/dashlint/internal/adapters/outbound/fsstore"
	"github.com/dashlint/dashlint/internal/application"
	"github.com/dashlint/dashlint/internal/domain"
	"github.com/dashlint/dashlint/internal/domain/rules"
)

func TestCheck_ViteDaisyUIProject(t *testing.T) {
	svc := newCheckService(nil)

	report, err := svc.Check(context.Background(), fixture("vite-daisyui"), application.CheckOptions{})
	require.NoError(t, err)
	require.False(t, report.Errored(), report.FatalError)

	assert.NotEmpty(t, report.RunID)
	assert.True(t, filepath.IsAbs(report.Root))
	assert.Equal(t, "1", report.ScoringVersion)
	assert.Equal(t, "smart", report.Selection)
	assert.True(t, report.Profile.Has(domain.TagVite))
	assert.True(t, report.Profile.Has(domain.TagDaisyUI))
	assert.Positive(t, report.FilesScanned)
	assert.Positive(t, report.RulesEvaluated)

	assert.NotEmpty(t, findingsFor(report, "src/main.js", "ux/select-in-table-cell"))
	assert.NotEmpty(t, findingsFor(report, "src/main.js", "residue/shoelace-tag"))
	assert.NotEmpty(t, findingsFor(report, "src/style.css", "ux/card-border"))
	assert.Contains(t, categoryNames(report), domain.CategoryUX)
	assert.Contains(t, categoryNames(report), domain.CategoryResidue)
	assert.Empty(t, report.Fixes)
}

func TestCheck_FindingsAreSorted(t *testing.T) {
	report, err := newCheckService(nil).Check(context.Background(), fixture("vite-daisyui"), application.CheckOptions{})
	require.NoError(t, err)

	for i := 1; i < len(report.Findings); i++ {
		a, b := report.Findings[i-1], report.Findings[i]
		if a.File != b.File {
			assert.Less(t, a.File, b.File)
			continue
		}
		if a.RuleKey != b.RuleKey {
			assert.Less(t, a.RuleKey, b.RuleKey)
			continue
		}
		assert.LessOrEqual(t, a.Line, b.Line)
	}
}

func TestCheck_DeterministicAcrossRuns(t *testing.T) {
	svc := newCheckService(nil)
	first, err := svc.Check(context.Background(), fixture("vite-daisyui"), application.CheckOptions{Workers: 1})
	require.NoError(t, err)
	second, err := svc.Check(context.Background(), fixture("vite-daisyui"), application.CheckOptions{Workers: 8})
	require.NoError(t, err)

	assert.Equal(t, first.Findings, second.Findings)
	assert.Equal(t, first.Overall, second.Overall)
	assert.Equal(t, first.Categories, second.Categories)
	assert.NotEqual(t, first.RunID, second.RunID)
}

func TestCheck_PlainProjectSmartModeStillRunsRules(t *testing.T) {
	report, err := newCheckService(nil).Check(context.Background(), fixture("plain"), application.CheckOptions{})
	require.NoError(t, err)
	require.False(t, report.Errored())

	assert.True(t, report.Profile.IsEmpty())
	assert.Positive(t, report.RulesEvaluated)
	assert.Equal(t, []domain.Category{domain.CategorySecurity, domain.CategoryQuality}, categoryNames(report))
}

func TestCheck_ExplicitSelectionScoresOnlyThoseCategories(t *testing.T) {
	report, err := newCheckService(nil).Check(context.Background(), fixture("vite-daisyui"), application.CheckOptions{Selection: "ux"})
	require.NoError(t, err)

	assert.Equal(t, "ux", report.Selection)
	assert.Equal(t, []domain.Category{domain.CategoryUX}, categoryNames(report))
	for _, f := range report.Findings {
		assert.Contains(t, []domain.Category{domain.CategoryUX, domain.CategoryInternal}, f.Category)
	}
}

func TestCheck_InvalidSelectionIsFatal(t *testing.T) {
	report, err := newCheckService(nil).Check(context.Background(), fixture("plain"), application.CheckOptions{Selection: "styling"})
	require.NoError(t, err)
	assert.True(t, report.Errored())
	assert.Contains(t, report.FatalError, "styling")
	assert.Equal(t, domain.VerdictFail, report.Verdict)
}

func TestCheck_ConfigRestrictsAndDisables(t *testing.T) {
	dir := copyFixture(t, "vite-daisyui")
	cfg := "categories: [security, ux]\ndisabled_rules: [ux/card-border]\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".dashlint.yaml"), []byte(cfg), 0o644))

	report, err := newCheckService(nil).Check(context.Background(), dir, application.CheckOptions{})
	require.NoError(t, err)
	require.False(t, report.Errored(), report.FatalError)

	assert.Equal(t, []domain.Category{domain.CategorySecurity, domain.CategoryUX}, categoryNames(report))
	assert.Empty(t, findingsFor(report, "src/style.css", "ux/card-border"))
	assert.NotEmpty(t, findingsFor(report, "src/main.js", "ux/select-in-table-cell"))
}

func TestCheck_MalformedConfigIsFatal(t *testing.T) {
	dir := copyFixture(t, "plain")
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".dashlint.yaml"), []byte("workers: -1\n"), 0o644))

	report, err := newCheckService(nil).Check(context.Background(), dir, application.CheckOptions{})
	require.NoError(t, err)
	assert.True(t, report.Errored())
	assert.Contains(t, report.FatalError, "invalid .dashlint.yaml")
	assert.Empty(t, report.Findings)
}

func TestCheck_MissingRootIsFatal(t *testing.T) {
	report, err := newCheckService(nil).Check(context.Background(), filepath.Join(t.TempDir(), "gone"), application.CheckOptions{})
	require.NoError(t, err)
	assert.True(t, report.Errored())
	assert.Contains(t, report.FatalError, domain.ErrUnreadableRoot.Error())
}

func TestCheck_DetectionGapsAreReported(t *testing.T) {
	report, err := newCheckService(nil).Check(context.Background(), fixture("broken-manifest"), application.CheckOptions{})
	require.NoError(t, err)
	require.False(t, report.Errored())
	require.Len(t, report.DetectionGaps, 1)
	assert.Equal(t, "package.json", report.DetectionGaps[0].Path)
}

func TestCheck_PanickingRuleBecomesInternalFinding(t *testing.T) {
	factory := func(opts rules.Options) (*rules.Registry, error) {
		reg, err := rules.NewDefault(opts)
		if err != nil {
			return nil, err
		}
		err = reg.Register(rules.Rule{
			Key:        "quality/explodes",
			Category:   domain.CategoryQuality,
			Severity:   domain.SeverityWarning,
			Extensions: []string{".js"},
			Check:      func(rules.File) []rules.Match { panic("boom") },
		})
		return reg, err
	}
	svc := newCheckService(nil, application.WithRegistryFactory(factory))

	report, err := svc.Check(context.Background(), fixture("vite-daisyui"), application.CheckOptions{})
	require.NoError(t, err)
	require.False(t, report.Errored())

	internal := report.InternalErrors()
	require.Len(t, internal, 1)
	assert.Equal(t, "src/main.js", internal[0].File)
	assert.Equal(t, rules.InternalErrorKey, internal[0].RuleKey)
	assert.Contains(t, internal[0].Message, "quality/explodes")

	// Other rules still ran on the same file.
	assert.NotEmpty(t, findingsFor(report, "src/main.js", "ux/select-in-table-cell"))
}

func TestCheck_TimestampFromClock(t *testing.T) {
	fixed := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	svc := newCheckService(nil, application.WithClock(func() time.Time { return fixed }))

	report, err := svc.Check(context.Background(), fixture("plain"), application.CheckOptions{})
	require.NoError(t, err)
	assert.Equal(t, fixed, report.Timestamp)
}

func TestCheck_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newCheckService(nil).Check(ctx, fixture("vite-daisyui"), application.CheckOptions{})
	require.Error(t, err)
	assert.True(t, application.IsCancelled(err))
}

func TestCheck_DryRunLeavesFilesUntouched(t *testing.T) {
	dir := copyFixture(t, "vite-daisyui")
	before := readFile(t, filepath.Join(dir, "src", "main.js"))

	report, err := newCheckService(nil).Check(context.Background(), dir, application.CheckOptions{FixMode: domain.FixModeDryRun})
	require.NoError(t, err)

	res, ok := fixFor(report, "src/main.js")
	require.True(t, ok)
	assert.Equal(t, domain.FixApplied, res.Outcome)
	assert.True(t, res.DryRun)
	assert.Contains(t, res.Diff, "--- a/src/main.js")
	assert.Contains(t, res.Diff, `+`)
	assert.Equal(t, before, readFile(t, filepath.Join(dir, "src", "main.js")))
	assert.NotEmpty(t, findingsFor(report, "src/main.js", "ux/select-in-table-cell"))
}

func TestCheck_ApplyRewritesAndRechecks(t *testing.T) {
	dir := copyFixture(t, "vite-daisyui")
	svc := newCheckService(nil)

	report, err := svc.Check(context.Background(), dir, application.CheckOptions{FixMode: domain.FixModeApply})
	require.NoError(t, err)

	res, ok := fixFor(report, "src/main.js")
	require.True(t, ok)
	assert.Equal(t, domain.FixApplied, res.Outcome)
	assert.False(t, res.DryRun)
	assert.Contains(t, res.Rules, "ux/select-in-table-cell")
	assert.Contains(t, res.Rules, "residue/shoelace-tag")

	content := readFile(t, filepath.Join(dir, "src", "main.js"))
	assert.NotContains(t, content, "<select>")
	assert.NotContains(t, content, "<sl-button")
	assert.Contains(t, content, `class="action-group"`)
	assert.Contains(t, content, "btn-primary")

	assert.Empty(t, findingsFor(report, "src/main.js", "ux/select-in-table-cell"))
	assert.Empty(t, findingsFor(report, "src/main.js", "residue/shoelace-tag"))
	assert.Empty(t, findingsFor(report, "src/style.css", "ux/card-border"))
}

func TestCheck_ApplyIsIdempotent(t *testing.T) {
	dir := copyFixture(t, "vite-daisyui")
	svc := newCheckService(nil)

	_, err := svc.Check(context.Background(), dir, application.CheckOptions{FixMode: domain.FixModeApply})
	require.NoError(t, err)
	mainJS := readFile(t, filepath.Join(dir, "src", "main.js"))
	styleCSS := readFile(t, filepath.Join(dir, "src", "style.css"))

	second, err := svc.Check(context.Background(), dir, application.CheckOptions{FixMode: domain.FixModeApply})
	require.NoError(t, err)
	for _, f := range second.Fixes {
		assert.NotEqual(t, domain.FixApplied, f.Outcome, "second pass rewrote %s", f.File)
	}
	assert.Equal(t, mainJS, readFile(t, filepath.Join(dir, "src", "main.js")))
	assert.Equal(t, styleCSS, readFile(t, filepath.Join(dir, "src", "style.css")))
}

func TestCheck_GitIgnoreFixClearsSensitiveFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".gitignore"), []byte("node_modules\n*.log\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("DEBUG=1\n"), 0o644))
	svc := newCheckService(nil)

	report, err := svc.Check(context.Background(), dir, application.CheckOptions{
		Selection: "security",
		FixMode:   domain.FixModeApply,
	})
	require.NoError(t, err)

	res, ok := fixFor(report, ".gitignore")
	require.True(t, ok)
	assert.Equal(t, domain.FixApplied, res.Outcome)
	assert.Equal(t, "node_modules\n*.log\n.env\n", readFile(t, filepath.Join(dir, ".gitignore")))

	assert.Empty(t, findingsFor(report, ".env", "security/sensitive-file"))
	assert.Empty(t, report.Findings)

	fresh, err := svc.Check(context.Background(), dir, application.CheckOptions{Selection: "security"})
	require.NoError(t, err)
	assert.Equal(t, fresh.Overall, report.Overall)
	assert.Equal(t, fresh.Verdict, report.Verdict)
	assert.Equal(t, domain.VerdictPass, report.Verdict)
}

func TestCheck_WriteFailureLeavesFileAndFindings(t *testing.T) {
	dir := copyFixture(t, "vite-daisyui")
	before := readFile(t, filepath.Join(dir, "src", "main.js"))
	store := &failingStore{Store: fsstore.New()}

	report, err := newCheckService(store).Check(context.Background(), dir, application.CheckOptions{FixMode: domain.FixModeApply})
	require.NoError(t, err)

	assert.Positive(t, store.writes)
	res, ok := fixFor(report, "src/main.js")
	require.True(t, ok)
	assert.Equal(t, domain.FixFailed, res.Outcome)
	assert.True(t, strings.HasPrefix(res.Reason, "write failed"))
	assert.Equal(t, before, readFile(t, filepath.Join(dir, "src", "main.js")))
	assert.NotEmpty(t, findingsFor(report, "src/main.js", "ux/select-in-table-cell"))
}

func TestRules_UsesProjectMaxFileLines(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".dashlint.yaml"), []byte("max_file_lines: 2\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "app.js"), []byte("a\nb\nc\nd\n"), 0o644))

	report, err := newCheckService(nil).Check(context.Background(), dir, application.CheckOptions{})
	require.NoError(t, err)
	assert.NotEmpty(t, findingsFor(report, "app.js", "quality/file-too-long"))

	reg, err := newCheckService(nil).Rules("")
	require.NoError(t, err)
	assert.Positive(t, reg.Len())
}
