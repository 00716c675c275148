package application

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/dashlint/dashlint/internal/domain"
)

// WatchService re-checks a project every time its files change.
type WatchService struct {
	checker *CheckService
	watcher domain.ChangeWatcher
	config  domain.ConfigLoader
	logger  logrus.FieldLogger
}

func NewWatchService(checker *CheckService, watcher domain.ChangeWatcher, config domain.ConfigLoader, logger logrus.FieldLogger) *WatchService {
	return &WatchService{checker: checker, watcher: watcher, config: config, logger: logger}
}

// Watch runs an initial check, then one per batch of changes, handing each
// report to onReport. changed is nil for the initial run. It blocks until
// ctx is done.
func (s *WatchService) Watch(
	ctx context.Context,
	projectPath string,
	opts CheckOptions,
	onReport func(report *domain.HealthReport, changed []string),
) error {
	report, err := s.checker.Check(ctx, projectPath, opts)
	if err != nil {
		return err
	}
	onReport(report, nil)
	if report.Errored() {
		return fmt.Errorf("initial check: %s", report.FatalError)
	}

	// A broken config edit mid-watch keeps the last good ignore list.
	cfg, err := s.config.Load(report.Root)
	if err != nil {
		cfg = domain.DefaultConfig()
	}

	return s.watcher.Watch(ctx, report.Root, cfg.IgnorePaths, func(paths []string) {
		log := s.logger.WithField("project", report.Root)
		if fixesOnly(report, paths) {
			log.WithField("files", paths).Debug("ignoring own fix writes")
			report.Fixes = nil
			return
		}
		log.WithField("files", len(paths)).Info("change detected, re-checking")
		next, err := s.checker.Check(ctx, projectPath, opts)
		if err != nil {
			log.WithError(err).Warn("re-check interrupted")
			return
		}
		report = next
		onReport(next, paths)
	})
}

// fixesOnly reports whether every changed path is a file the previous run
// just rewrote. Without this, apply mode would re-check after its own writes.
func fixesOnly(prev *domain.HealthReport, paths []string) bool {
	if prev == nil || len(prev.Fixes) == 0 || len(paths) == 0 {
		return false
	}
	written := make(map[string]bool)
	for _, f := range prev.Fixes {
		if f.Outcome == domain.FixApplied && !f.DryRun {
			written[f.File] = true
		}
	}
	for _, p := range paths {
		if !written[p] {
			return false
		}
	}
	return true
}
