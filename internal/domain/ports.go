package domain

import "context"

// ProjectScanner walks a project and returns the eligible text files.
type ProjectScanner interface {
	Scan(projectPath string, ignorePatterns ...string) (*ScanResult, error)
}

// ScanResult holds the result of scanning a project directory.
// GitIgnore holds the non-comment lines of the root .gitignore, if any.
type ScanResult struct {
	RootPath     string   `json:"root_path"`
	Files        []string `json:"files"`
	HasGitIgnore bool     `json:"has_gitignore"`
	GitIgnore    []string `json:"gitignore,omitempty"`
}

// ProfileDetector classifies a project root into technology tags. Ignore
// patterns prune subdirectories from monorepo detection.
type ProfileDetector interface {
	Detect(projectPath string, ignorePatterns ...string) (Detection, error)
}

// ConfigLoader loads project-level configuration.
type ConfigLoader interface {
	Load(projectPath string) (ProjectConfig, error)
}

// FileStore reads source files and writes fixed content back.
// WriteFileAtomic must leave the original untouched on failure.
type FileStore interface {
	ReadFile(path string) ([]byte, error)
	WriteFileAtomic(path string, data []byte) error
}

// Differ renders a unified diff between two versions of a file.
type Differ interface {
	Diff(path, before, after string) (string, error)
}

// GitInfo provides git metadata for a project.
type GitInfo interface {
	IsGitRepo(projectPath string) bool
	CommitHash(projectPath string) (string, error)
}

// ChangeWatcher delivers batches of changed project-relative paths until ctx
// is done.
type ChangeWatcher interface {
	Watch(ctx context.Context, root string, ignorePatterns []string, onChange func(paths []string)) error
}
