package application_test

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dashlint/dashlint/internal/adapters/outbound/config"
	"github.com/dashlint/dashlint/internal/adapters/outbound/detector"
	"github.com/dashlint/dashlint/internal/adapters/outbound/differ"
	"github.com/dashlint/dashlint/internal/adapters/outbound/fsstore"
	"github.com/dashlint/dashlint/internal/adapters/outbound/gitinfo"
	"github.com/dashlint/dashlint/internal/adapters/outbound/logging"
	"github.com/dashlint/dashlint/internal/adapters/outbound/scanner"
	"github.com/dashlint/dashlint/internal/application"
	"github.com/dashlint/dashlint/internal/domain"
)

const projectsDir = "../../testdata/projects"

func fixture(name string) string {
	return filepath.Join(projectsDir, name)
}

func newCheckService(files domain.FileStore, opts ...application.Option) *application.CheckService {
	if files == nil {
		files = fsstore.New()
	}
	return application.NewCheckService(
		scanner.New(),
		detector.New(),
		config.New(),
		files,
		differ.New(),
		gitinfo.New(),
		logging.Discard(),
		opts...,
	)
}

// copyFixture copies a fixture project into a temp dir so tests can mutate it.
func copyFixture(t *testing.T, name string) string {
	t.Helper()
	src := fixture(name)
	dst := t.TempDir()
	err := filepath.WalkDir(src, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, _ := filepath.Rel(src, p)
		target := filepath.Join(dst, rel)
		if d.IsDir() {
			return os.MkdirAll(target, 0o755)
		}
		data, err := os.ReadFile(p)
		if err != nil {
			return err
		}
		return os.WriteFile(target, data, 0o644)
	})
	require.NoError(t, err)
	return dst
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

// failingStore reads from disk but refuses every write.
type failingStore struct {
	*fsstore.Store
	writes int
}

func (s *failingStore) WriteFileAtomic(string, []byte) error {
	s.writes++
	return errors.New("disk full")
}

func findingsFor(report *domain.HealthReport, file, rule string) []domain.Finding {
	var out []domain.Finding
	for _, f := range report.Findings {
		if f.File == file && f.RuleKey == rule {
			out = append(out, f)
		}
	}
	return out
}

func fixFor(report *domain.HealthReport, file string) (domain.FixResult, bool) {
	for _, f := range report.Fixes {
		if f.File == file {
			return f, true
		}
	}
	return domain.FixResult{}, false
}

func categoryNames(report *domain.HealthReport) []domain.Category {
	out := make([]domain.Category, 0, len(report.Categories))
	for _, c := range report.Categories {
		out = append(out, c.Name)
	}
	return out
}
