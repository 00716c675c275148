package application

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"runtime"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/dashlint/dashlint/internal/domain"
	"github.com/dashlint/dashlint/internal/domain/check"
	"github.com/dashlint/dashlint/internal/domain/rules"
	"github.com/dashlint/dashlint/internal/domain/scoring"
)

// RegistryFactory builds the rule registry for one project.
type RegistryFactory func(opts rules.Options) (*rules.Registry, error)

// CheckOptions are the per-run knobs coming from flags or MCP arguments.
// Zero values defer to the project configuration.
type CheckOptions struct {
	Selection string
	FixMode   domain.FixMode
	Workers   int
	// Timeout bounds the fix pass. Zero means no limit.
	Timeout time.Duration
}

// CheckService orchestrates one project run:
// config -> detect -> resolve rules -> scan -> evaluate -> fix -> score.
type CheckService struct {
	scanner  domain.ProjectScanner
	detector domain.ProfileDetector
	config   domain.ConfigLoader
	files    domain.FileStore
	git      domain.GitInfo
	fixer    *FixService
	logger   logrus.FieldLogger

	registry RegistryFactory
	now      func() time.Time
}

// Option customises a CheckService.
type Option func(*CheckService)

// WithRegistryFactory replaces the built-in rule catalogs.
func WithRegistryFactory(f RegistryFactory) Option {
	return func(s *CheckService) { s.registry = f }
}

// WithClock sets the clock used for report timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *CheckService) { s.now = now }
}

func NewCheckService(
	scanner domain.ProjectScanner,
	detector domain.ProfileDetector,
	config domain.ConfigLoader,
	files domain.FileStore,
	differ domain.Differ,
	git domain.GitInfo,
	logger logrus.FieldLogger,
	opts ...Option,
) *CheckService {
	s := &CheckService{
		scanner:  scanner,
		detector: detector,
		config:   config,
		files:    files,
		git:      git,
		fixer:    NewFixService(files, differ, logger),
		logger:   logger,
		registry: rules.NewDefault,
		now:      time.Now,
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Check runs the full pipeline on projectPath. Fatal problems (unreadable
// root, malformed config, bad selection) do not return an error: the report
// comes back with FatalError set so batch callers can keep going. The error
// return is reserved for a cancelled context.
func (s *CheckService) Check(ctx context.Context, projectPath string, opts CheckOptions) (*domain.HealthReport, error) {
	report := &domain.HealthReport{
		RunID:          uuid.NewString(),
		Root:           projectPath,
		Timestamp:      s.now().UTC(),
		ScoringVersion: scoring.CurrentVersion,
		Findings:       []domain.Finding{},
	}
	if abs, err := filepath.Abs(projectPath); err == nil {
		report.Root = abs
	}
	log := s.logger.WithFields(logrus.Fields{"project": report.Root, "run_id": report.RunID})

	fatal := func(err error) (*domain.HealthReport, error) {
		report.FatalError = err.Error()
		report.Verdict = domain.VerdictFail
		log.WithError(err).Error("project aborted")
		return report, nil
	}

	// 1. Load config
	cfg, err := s.config.Load(report.Root)
	if err != nil {
		return fatal(err)
	}

	// 2. Detect profile
	det, err := s.detector.Detect(report.Root, cfg.IgnorePaths...)
	if err != nil {
		return fatal(fmt.Errorf("detecting profile: %w", err))
	}
	report.Profile = det.Profile
	report.DetectionGaps = det.Gaps
	for _, g := range det.Gaps {
		log.WithField("file", g.Path).Warn("detection gap: " + g.Reason)
	}

	// 3. Resolve rules
	sel, err := s.selection(cfg, opts)
	if err != nil {
		return fatal(err)
	}
	report.Selection = sel.String()
	reg, err := s.registry(rules.Options{MaxFileLines: cfg.MaxFileLines})
	if err != nil {
		return fatal(fmt.Errorf("building rule registry: %w", err))
	}
	resolved := reg.Resolve(sel, det.Profile)
	report.RulesEvaluated = len(resolved)

	// 4. Scan
	scan, err := s.scanner.Scan(report.Root, cfg.IgnorePaths...)
	if err != nil {
		return fatal(fmt.Errorf("scanning project: %w", err))
	}
	report.FilesScanned = len(scan.Files)
	project := rules.ProjectContext{Profile: det.Profile, HasGitIgnore: scan.HasGitIgnore, GitIgnore: scan.GitIgnore}

	// 5. Evaluate files
	workers := firstPositive(opts.Workers, cfg.Workers)
	findings, contents, err := s.evaluate(ctx, report.Root, scan.Files, resolved, &project, workers, log)
	if err != nil {
		return nil, err
	}

	// 6. Fix
	if opts.FixMode != domain.FixModeNone {
		fixCtx := ctx
		if opts.Timeout > 0 {
			var cancel context.CancelFunc
			fixCtx, cancel = context.WithTimeout(ctx, opts.Timeout)
			defer cancel()
		}
		out := s.fixer.Run(fixCtx, FixRequest{
			Root:     report.Root,
			Mode:     opts.FixMode,
			Workers:  workers,
			Rules:    resolved,
			Project:  project,
			Findings: findings,
			Contents: contents,
		})
		findings = out.Findings
		report.Fixes = out.Results
	}
	report.Findings = findings

	// 7. Score
	scoring.Current().WithWeights(cfg.Weights).Apply(report, evaluatedCategories(resolved))

	if s.git != nil && s.git.IsGitRepo(report.Root) {
		if hash, err := s.git.CommitHash(report.Root); err == nil {
			report.CommitHash = hash
		} else {
			log.WithError(err).Debug("no commit hash")
		}
	}

	log.WithFields(logrus.Fields{"score": report.Overall, "verdict": report.Verdict, "findings": len(report.Findings)}).Info("check complete")
	return report, nil
}

// Detect classifies projectPath honouring its configured ignore paths.
func (s *CheckService) Detect(projectPath string) (domain.Detection, error) {
	cfg, err := s.config.Load(projectPath)
	if err != nil {
		return domain.Detection{}, err
	}
	return s.detector.Detect(projectPath, cfg.IgnorePaths...)
}

// Rules returns the registry a project would use, or the default one when
// projectPath is empty.
func (s *CheckService) Rules(projectPath string) (*rules.Registry, error) {
	cfg := domain.DefaultConfig()
	if projectPath != "" {
		var err error
		if cfg, err = s.config.Load(projectPath); err != nil {
			return nil, err
		}
	}
	return s.registry(rules.Options{MaxFileLines: cfg.MaxFileLines})
}

func (s *CheckService) selection(cfg domain.ProjectConfig, opts CheckOptions) (rules.Selection, error) {
	raw := opts.Selection
	if raw == "" {
		raw = cfg.Check
	}
	sel, err := rules.ParseSelection(raw)
	if err != nil {
		return rules.Selection{}, fmt.Errorf("invalid check selection: %w", err)
	}
	restrict, err := cfg.EnabledCategories()
	if err != nil {
		return rules.Selection{}, err
	}
	sel.Restrict = restrict
	sel.Disabled = cfg.DisabledRules
	return sel, nil
}

func (s *CheckService) evaluate(
	ctx context.Context,
	root string,
	files []string,
	resolved []rules.Rule,
	project *rules.ProjectContext,
	workers int,
	log logrus.FieldLogger,
) ([]domain.Finding, map[string]string, error) {
	contents := make([]string, len(files))
	readable := make([]bool, len(files))

	// Rules may read a project-wide import index, so every file is read
	// before any is evaluated.
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workerCount(workers))
	for i, rel := range files {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			data, err := s.files.ReadFile(filepath.Join(root, filepath.FromSlash(rel)))
			if err != nil {
				log.WithError(err).WithField("file", rel).Warn("skipping unreadable file")
				return nil
			}
			contents[i] = string(data)
			readable[i] = true
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, fmt.Errorf("reading %s: %w", root, err)
	}

	byPath := make(map[string]string, len(files))
	for i, rel := range files {
		if readable[i] {
			byPath[rel] = contents[i]
		}
	}
	project.Imports = rules.IndexImports(byPath)

	perFile := make([][]domain.Finding, len(files))
	g, gctx = errgroup.WithContext(ctx)
	g.SetLimit(workerCount(workers))
	for i, rel := range files {
		if !readable[i] {
			continue
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			f := rules.File{Path: rel, Content: contents[i], Project: *project}
			perFile[i] = check.EvaluateFile(f, resolved)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, fmt.Errorf("checking %s: %w", root, err)
	}

	findings := []domain.Finding{}
	for i := range files {
		for _, f := range perFile[i] {
			if f.Category == domain.CategoryInternal {
				log.WithField("file", f.File).Error("rule error: " + f.Message)
			}
			findings = append(findings, f)
		}
	}
	domain.SortFindings(findings)
	return findings, byPath, nil
}

// evaluatedCategories returns the catalogs that had at least one rule
// resolved. Catalogs with no rules are not scored.
func evaluatedCategories(resolved []rules.Rule) []domain.Category {
	seen := make(map[domain.Category]bool)
	for _, r := range resolved {
		seen[r.Category] = true
	}
	var out []domain.Category
	for _, c := range domain.ValidCategories {
		if seen[c] {
			out = append(out, c)
		}
	}
	return out
}

func firstPositive(vals ...int) int {
	for _, v := range vals {
		if v > 0 {
			return v
		}
	}
	return 0
}

func workerCount(n int) int {
	if n > 0 {
		return n
	}
	return runtime.NumCPU()
}

// IsCancelled reports whether err came from a cancelled or expired context.
func IsCancelled(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
