package application

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sort"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/dashlint/dashlint/internal/domain"
	"github.com/dashlint/dashlint/internal/domain/check"
	"github.com/dashlint/dashlint/internal/domain/fix"
	"github.com/dashlint/dashlint/internal/domain/rules"
)

// FixService orchestrates the fix pipeline for one project:
// group fixable findings → plan per file → diff or write → re-check.
type FixService struct {
	files  domain.FileStore
	differ domain.Differ
	logger logrus.FieldLogger
}

func NewFixService(files domain.FileStore, differ domain.Differ, logger logrus.FieldLogger) *FixService {
	return &FixService{files: files, differ: differ, logger: logger}
}

// FixRequest carries everything the fix pass needs from the check pass.
type FixRequest struct {
	Root     string
	Mode     domain.FixMode
	Workers  int
	Rules    []rules.Rule
	Project  rules.ProjectContext
	Findings []domain.Finding
	// Contents holds the checked content of every scanned file by relative path.
	Contents map[string]string
}

// FixOutput is the fix pass result: per-file outcomes and the findings list
// with every rewritten file re-checked. A rewritten root .gitignore re-checks
// the whole project.
type FixOutput struct {
	Results  []domain.FixResult
	Findings []domain.Finding
}

// Run fixes every file that has fixable findings. Files are independent and
// run in parallel; a file is rewritten whole or left untouched. When ctx is
// done, files not yet started are reported as failed.
func (s *FixService) Run(ctx context.Context, req FixRequest) FixOutput {
	groups := check.GroupByFile(req.Findings)
	files := make([]string, 0, len(groups))
	for f := range groups {
		files = append(files, f)
	}
	sort.Strings(files)

	results := make([]domain.FixResult, len(files))
	fresh := make([][]domain.Finding, len(files))

	g := new(errgroup.Group)
	g.SetLimit(workerCount(req.Workers))
	for i, rel := range files {
		g.Go(func() error {
			results[i], fresh[i] = s.fixFile(ctx, req, rel, groups[rel])
			return nil
		})
	}
	_ = g.Wait()

	findings := req.Findings
	written := make(map[string]string)
	for i, r := range results {
		if r.Outcome == domain.FixApplied && !r.DryRun {
			findings = check.ReplaceFile(findings, r.File, fresh[i])
			written[r.File] = r.Updated
		}
	}
	if gi, ok := written[".gitignore"]; ok {
		findings = s.recheckProject(req, written, gi)
	}
	return FixOutput{Results: results, Findings: findings}
}

// recheckProject evaluates every file again after the root .gitignore was
// rewritten, since rules such as security/sensitive-file read it through the
// project context.
func (s *FixService) recheckProject(req FixRequest, written map[string]string, gitIgnore string) []domain.Finding {
	project := req.Project
	project.HasGitIgnore = true
	project.GitIgnore = rules.GitIgnorePatterns(gitIgnore)

	files := make([]string, 0, len(req.Contents))
	for rel := range req.Contents {
		files = append(files, rel)
	}
	sort.Strings(files)

	contents := make(map[string]string, len(req.Contents))
	for rel, content := range req.Contents {
		contents[rel] = content
	}
	for rel, updated := range written {
		contents[rel] = updated
	}
	project.Imports = rules.IndexImports(contents)

	findings := []domain.Finding{}
	for _, rel := range files {
		findings = append(findings, check.EvaluateFile(rules.File{Path: rel, Content: contents[rel], Project: project}, req.Rules)...)
	}
	domain.SortFindings(findings)
	s.logger.WithField("project", req.Root).Debug(".gitignore rewritten; project re-checked")
	return findings
}

func (s *FixService) fixFile(ctx context.Context, req FixRequest, rel string, findings []domain.Finding) (domain.FixResult, []domain.Finding) {
	log := s.logger.WithFields(logrus.Fields{"project": req.Root, "file": rel})

	if err := ctx.Err(); err != nil {
		res := domain.FixResult{File: rel, Outcome: domain.FixFailed, Findings: len(findings), DryRun: req.Mode == domain.FixModeDryRun}
		res.Reason = fmt.Sprintf("fix pass stopped: %v", contextReason(err))
		log.Warn(res.Reason)
		return res, nil
	}

	content, ok := req.Contents[rel]
	if !ok {
		return domain.FixResult{File: rel, Outcome: domain.FixFailed, Findings: len(findings), Reason: "file content unavailable"}, nil
	}
	f := rules.File{Path: rel, Content: content, Project: req.Project}

	res := fix.PlanFile(f, findings, req.Rules)
	res.DryRun = req.Mode == domain.FixModeDryRun
	if res.Outcome != domain.FixApplied {
		entry := log.WithField("outcome", res.Outcome)
		if res.Outcome == domain.FixFailed {
			entry.Warn("fix failed: " + res.Reason)
		} else {
			entry.Debug("fix skipped: " + res.Reason)
		}
		return res, nil
	}

	diff, err := s.differ.Diff(rel, res.Original, res.Updated)
	if err != nil {
		log.WithError(err).Warn("cannot render diff")
	}
	res.Diff = diff
	if res.DryRun {
		return res, nil
	}

	if err := s.files.WriteFileAtomic(filepath.Join(req.Root, filepath.FromSlash(rel)), []byte(res.Updated)); err != nil {
		res.Outcome = domain.FixFailed
		res.Reason = fmt.Sprintf("write failed: %v", err)
		res.Updated = res.Original
		log.WithError(err).Error("fix not written")
		return res, nil
	}
	log.WithField("rules", res.Rules).Info("file fixed")

	updated := rules.File{Path: rel, Content: res.Updated, Project: req.Project}
	return res, check.EvaluateFile(updated, req.Rules)
}

func contextReason(err error) string {
	if errors.Is(err, context.DeadlineExceeded) {
		return "timeout"
	}
	return err.Error()
}
