// Package fsstore reads project files and writes fixed content back
// atomically.
package fsstore

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// Store implements domain.FileStore on the local filesystem. Writes to the
// same path are serialised; writes to different paths run in parallel.
type Store struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func New() *Store {
	return &Store{locks: make(map[string]*sync.Mutex)}
}

func (s *Store) ReadFile(path string) ([]byte, error) {
	return os.ReadFile(path)
}

// WriteFileAtomic writes data to a temporary file next to path and renames
// it over path. On any failure the original file is left as it was and the
// temporary file is removed.
func (s *Store) WriteFileAtomic(path string, data []byte) (err error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	lock := s.lockFor(abs)
	lock.Lock()
	defer lock.Unlock()

	mode := os.FileMode(0o644)
	if info, statErr := os.Stat(abs); statErr == nil {
		if !info.Mode().IsRegular() {
			return fmt.Errorf("writing %s: not a regular file", path)
		}
		mode = info.Mode().Perm()
	}

	tmp, err := os.CreateTemp(filepath.Dir(abs), "."+filepath.Base(abs)+".dashlint-*")
	if err != nil {
		return fmt.Errorf("creating temp file for %s: %w", path, err)
	}
	tmpName := tmp.Name()
	defer func() {
		if err != nil {
			os.Remove(tmpName)
		}
	}()

	if _, err = tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("writing %s: %w", path, err)
	}
	if err = tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("syncing %s: %w", path, err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("closing %s: %w", path, err)
	}
	if err = os.Chmod(tmpName, mode); err != nil {
		return fmt.Errorf("chmod %s: %w", path, err)
	}
	if err = os.Rename(tmpName, abs); err != nil {
		return fmt.Errorf("replacing %s: %w", path, err)
	}
	return nil
}

func (s *Store) lockFor(path string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.locks[path]
	if !ok {
		l = &sync.Mutex{}
		s.locks[path] = l
	}
	return l
}
