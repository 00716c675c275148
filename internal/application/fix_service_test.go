package application_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dashlint/dashlint/internal/adapters/outbound/differ"
	"github.com/dashlint/dashlint/internal/adapters/outbound/fsstore"
	"github.com/dashlint/dashlint/internal/adapters/outbound/logging"
	"github.com/dashlint/dashlint/internal/application"
	"github.com/dashlint/dashlint/internal/domain"
	"github.com/dashlint/dashlint/internal/domain/rules"
)

const cardCSS = ".order-card {\n  border: none;\n}\n"

func cardRequest(t *testing.T, root string, mode domain.FixMode) application.FixRequest {
	t.Helper()
	reg, err := rules.NewDefault(rules.Options{})
	require.NoError(t, err)
	r, ok := reg.Get("ux/card-border")
	require.True(t, ok)

	return application.FixRequest{
		Root:  root,
		Mode:  mode,
		Rules: []rules.Rule{r},
		Findings: []domain.Finding{
			{File: "a.css", Line: 1, RuleKey: "ux/card-border", Category: domain.CategoryUX, Severity: domain.SeverityWarning, Fixable: true},
			{File: "b.css", Line: 1, RuleKey: "ux/card-border", Category: domain.CategoryUX, Severity: domain.SeverityWarning, Fixable: true},
			{File: "c.css", Line: 3, RuleKey: "quality/todo-marker", Category: domain.CategoryQuality, Severity: domain.SeverityInfo},
		},
		Contents: map[string]string{"a.css": cardCSS, "b.css": cardCSS, "c.css": "/* TODO */"},
	}
}

func TestFixService_DryRunProducesDiffPerFile(t *testing.T) {
	svc := application.NewFixService(fsstore.New(), differ.New(), logging.Discard())

	out := svc.Run(context.Background(), cardRequest(t, t.TempDir(), domain.FixModeDryRun))

	require.Len(t, out.Results, 2)
	assert.Equal(t, "a.css", out.Results[0].File)
	assert.Equal(t, "b.css", out.Results[1].File)
	for _, r := range out.Results {
		assert.Equal(t, domain.FixApplied, r.Outcome)
		assert.True(t, r.DryRun)
		assert.Contains(t, r.Diff, "+  border: 1px solid")
	}
	assert.Len(t, out.Findings, 3, "dry run keeps findings")
}

func TestFixService_ExpiredDeadlineFailsEveryFile(t *testing.T) {
	store := &failingStore{Store: fsstore.New()}
	svc := application.NewFixService(store, differ.New(), logging.Discard())
	ctx, cancel := context.WithDeadline(context.Background(), time.Now().Add(-time.Second))
	defer cancel()

	out := svc.Run(ctx, cardRequest(t, t.TempDir(), domain.FixModeApply))

	require.Len(t, out.Results, 2)
	for _, r := range out.Results {
		assert.Equal(t, domain.FixFailed, r.Outcome)
		assert.Contains(t, r.Reason, "timeout")
	}
	assert.Zero(t, store.writes)
}

func TestFixService_MissingContentFails(t *testing.T) {
	svc := application.NewFixService(fsstore.New(), differ.New(), logging.Discard())
	req := cardRequest(t, t.TempDir(), domain.FixModeDryRun)
	delete(req.Contents, "b.css")

	out := svc.Run(context.Background(), req)

	require.Len(t, out.Results, 2)
	assert.Equal(t, domain.FixApplied, out.Results[0].Outcome)
	assert.Equal(t, domain.FixFailed, out.Results[1].Outcome)
}

func TestFixService_NoFixableFindings(t *testing.T) {
	svc := application.NewFixService(fsstore.New(), differ.New(), logging.Discard())
	req := cardRequest(t, t.TempDir(), domain.FixModeApply)
	req.Findings = req.Findings[2:]

	out := svc.Run(context.Background(), req)
	assert.Empty(t, out.Results)
	assert.Equal(t, req.Findings, out.Findings)
}
