// Package differ renders unified diffs for dry-run fixes.
package differ

import (
	"fmt"

	"github.com/pmezard/go-difflib/difflib"
)

const defaultContext = 3

// UnifiedDiffer implements domain.Differ with go-difflib.
type UnifiedDiffer struct {
	Context int
}

func New() *UnifiedDiffer {
	return &UnifiedDiffer{Context: defaultContext}
}

// Diff returns a git-style unified diff of path, or "" when nothing changed.
func (d *UnifiedDiffer) Diff(path, before, after string) (string, error) {
	if before == after {
		return "", nil
	}
	out, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(before),
		B:        difflib.SplitLines(after),
		FromFile: "a/" + path,
		ToFile:   "b/" + path,
		Context:  d.Context,
	})
	if err != nil {
		return "", fmt.Errorf("diffing %s: %w", path, err)
	}
	return out, nil
}
