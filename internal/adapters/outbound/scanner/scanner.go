package scanner

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar"

	"github.com/dashlint/dashlint/internal/domain"
	"github.com/dashlint/dashlint/internal/domain/rules"
)

var skipDirs = map[string]bool{
	"node_modules": true,
	".git":         true,
	"dist":         true,
	"build":        true,
	".next":        true,
	".nuxt":        true,
	".svelte-kit":  true,
	"__pycache__":  true,
	".angular":     true,
	"venv":         true,
	".venv":        true,
	".cache":       true,
	"coverage":     true,
	"vendor":       true,
	".idea":        true,
	".vscode":      true,
}

// textExts is the extension allow-list. Everything else is skipped unless
// its name is listed in textNames.
var textExts = map[string]bool{
	".js": true, ".mjs": true, ".cjs": true, ".jsx": true, ".ts": true, ".tsx": true,
	".gs": true, ".vue": true, ".svelte": true,
	".html": true, ".htm": true,
	".css": true, ".scss": true, ".sass": true, ".less": true,
	".json": true, ".yaml": true, ".yml": true, ".toml": true,
	".md": true, ".txt": true, ".svg": true, ".xml": true,
	".py": true, ".go": true, ".mod": true,
	".sh": true, ".pem": true, ".key": true, ".cfg": true, ".ini": true,
}

var textNames = map[string]bool{
	".gitignore":    true,
	"Dockerfile":    true,
	"Makefile":      true,
	"Procfile":      true,
	".npmrc":        true,
	".editorconfig": true,
}

// skipNames are generated files that are text but never worth checking.
var skipNames = map[string]bool{
	"package-lock.json": true,
	"yarn.lock":         true,
	"pnpm-lock.yaml":    true,
	"poetry.lock":       true,
	"Pipfile.lock":      true,
	"go.sum":            true,
}

// binarySniffSize is how much of a file is inspected for NUL bytes.
const binarySniffSize = 8 * 1024

// FileScanner implements domain.ProjectScanner by walking the filesystem.
type FileScanner struct{}

func New() *FileScanner {
	return &FileScanner{}
}

// Scan lists the checkable text files under projectPath, relative and
// slash-separated, in lexical order. ignorePatterns are doublestar globs
// matched against relative paths; a pattern without a slash also matches
// any single path segment.
func (s *FileScanner) Scan(projectPath string, ignorePatterns ...string) (*domain.ScanResult, error) {
	absPath, err := filepath.Abs(projectPath)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrUnreadableRoot, err)
	}
	info, err := os.Stat(absPath)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrUnreadableRoot, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: %s is not a directory", domain.ErrUnreadableRoot, absPath)
	}

	result := &domain.ScanResult{RootPath: absPath}

	err = filepath.WalkDir(absPath, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			if p == absPath {
				return err
			}
			// Unreadable subtrees are left out rather than failing the scan.
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		rel, _ := filepath.Rel(absPath, p)
		rel = filepath.ToSlash(rel)
		if rel == "." {
			return nil
		}

		if d.IsDir() {
			if SkipDir(d.Name()) || Ignored(rel, true, ignorePatterns) {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() {
			return nil
		}
		if !IsTextCandidate(d.Name()) || Ignored(rel, false, ignorePatterns) {
			return nil
		}
		if binary, err := looksBinary(p); err != nil || binary {
			return nil
		}

		result.Files = append(result.Files, rel)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrUnreadableRoot, err)
	}
	sort.Strings(result.Files)

	result.HasGitIgnore, result.GitIgnore = readGitIgnore(absPath)
	return result, nil
}

// SkipDir reports whether a directory name is always pruned.
func SkipDir(name string) bool { return skipDirs[name] }

// IsTextCandidate applies the name-based part of the text allow-list.
func IsTextCandidate(name string) bool {
	if skipNames[name] {
		return false
	}
	lower := strings.ToLower(name)
	if strings.HasSuffix(lower, ".min.js") || strings.HasSuffix(lower, ".min.css") || strings.HasSuffix(lower, ".map") {
		return false
	}
	if textNames[name] || name == ".env" || strings.HasPrefix(name, ".env.") {
		return true
	}
	return textExts[strings.ToLower(path.Ext(name))]
}

// Ignored reports whether rel matches one of the ignore globs. Directory
// patterns of the form "dir/**" also prune "dir" itself.
func Ignored(rel string, isDir bool, patterns []string) bool {
	base := path.Base(rel)
	for _, raw := range patterns {
		p := strings.TrimPrefix(strings.TrimSpace(raw), "./")
		if p == "" {
			continue
		}
		p = strings.TrimSuffix(p, "/")
		if ok, _ := doublestar.Match(p, rel); ok {
			return true
		}
		if isDir {
			if trimmed := strings.TrimSuffix(p, "/**"); trimmed != p {
				if ok, _ := doublestar.Match(trimmed, rel); ok {
					return true
				}
			}
		}
		if !strings.Contains(p, "/") {
			if ok, _ := doublestar.Match(p, base); ok {
				return true
			}
		}
	}
	return false
}

func looksBinary(p string) (bool, error) {
	f, err := os.Open(p)
	if err != nil {
		return false, err
	}
	defer f.Close()

	buf := make([]byte, binarySniffSize)
	n, err := io.ReadFull(f, buf)
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, io.ErrUnexpectedEOF) {
		return false, err
	}
	return bytes.IndexByte(buf[:n], 0) >= 0, nil
}

// readGitIgnore returns the patterns of the root .gitignore.
func readGitIgnore(root string) (bool, []string) {
	data, err := os.ReadFile(filepath.Join(root, ".gitignore"))
	if err != nil {
		return false, nil
	}
	return true, rules.GitIgnorePatterns(string(data))
}
