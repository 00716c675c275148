package application

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/dashlint/dashlint/internal/domain"
	"github.com/dashlint/dashlint/internal/domain/scoring"
)

// BatchService runs independent projects in parallel and aggregates them.
// One project failing never stops the others.
type BatchService struct {
	checker  *CheckService
	parallel int
	logger   logrus.FieldLogger
}

// NewBatchService creates a BatchService running at most parallel projects at
// once. parallel <= 0 means one per CPU.
func NewBatchService(checker *CheckService, parallel int, logger logrus.FieldLogger) *BatchService {
	return &BatchService{checker: checker, parallel: parallel, logger: logger}
}

// CheckAll checks every root and returns the batch report in input order.
func (s *BatchService) CheckAll(ctx context.Context, roots []string, opts CheckOptions) (*domain.BatchReport, error) {
	results := make([]domain.ProjectResult, len(roots))

	g := new(errgroup.Group)
	g.SetLimit(workerCount(s.parallel))
	for i, root := range roots {
		g.Go(func() error {
			results[i] = s.checkOne(ctx, root, opts)
			return nil
		})
	}
	_ = g.Wait()
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	table := scoring.Current()
	overall, verdict, err := table.AggregateBatch(results)
	if err != nil {
		return nil, err
	}
	report := &domain.BatchReport{
		RunID:          uuid.NewString(),
		Timestamp:      time.Now().UTC(),
		ScoringVersion: table.Version,
		Overall:        overall,
		Verdict:        verdict,
		Projects:       results,
	}
	s.logger.WithFields(logrus.Fields{
		"projects": len(results),
		"errored":  report.ErroredCount(),
		"score":    overall,
	}).Info("batch complete")
	return report, nil
}

func (s *BatchService) checkOne(ctx context.Context, root string, opts CheckOptions) domain.ProjectResult {
	report, err := s.checker.Check(ctx, root, opts)
	if err != nil {
		return domain.ProjectResult{Root: root, Errored: true, Error: err.Error()}
	}
	if report.Errored() {
		return domain.ProjectResult{Root: report.Root, Errored: true, Error: report.FatalError, Report: report}
	}
	return domain.ProjectResult{Root: report.Root, Report: report}
}
