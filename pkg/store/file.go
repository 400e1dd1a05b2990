package store

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/matzehuels/nodegraph/pkg/errors"
)

// FileStore keeps one "<id>.json" file per graph in a directory.
type FileStore struct {
	mu      sync.RWMutex
	baseDir string
}

// NewFileStore creates a file-based store.
// If baseDir is empty, defaults to ~/.config/nodegraph/graphs/
func NewFileStore(baseDir string) (*FileStore, error) {
	if baseDir == "" {
		dir, err := os.UserConfigDir()
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeIO, err, "locate config dir")
		}
		baseDir = filepath.Join(dir, "nodegraph", "graphs")
	}
	if err := os.MkdirAll(baseDir, 0o700); err != nil {
		return nil, errors.Wrap(errors.ErrCodeIO, err, "create store dir")
	}
	return &FileStore{baseDir: baseDir}, nil
}

func (s *FileStore) path(id string) string {
	return filepath.Join(s.baseDir, id+".json")
}

func (s *FileStore) Put(ctx context.Context, id string, data []byte) error {
	if err := errors.ValidateGraphID(id); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	// Write then rename so readers never see a partial document.
	tmp, err := os.CreateTemp(s.baseDir, ".put-*")
	if err != nil {
		return errors.Wrap(errors.ErrCodeIO, err, "write %s", id)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return errors.Wrap(errors.ErrCodeIO, err, "write %s", id)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return errors.Wrap(errors.ErrCodeIO, err, "write %s", id)
	}
	if err := os.Rename(tmp.Name(), s.path(id)); err != nil {
		os.Remove(tmp.Name())
		return errors.Wrap(errors.ErrCodeIO, err, "write %s", id)
	}
	return nil
}

func (s *FileStore) Get(ctx context.Context, id string) ([]byte, error) {
	if err := errors.ValidateGraphID(id); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	data, err := os.ReadFile(s.path(id))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, notFound(id)
		}
		return nil, errors.Wrap(errors.ErrCodeIO, err, "read %s", id)
	}
	return data, nil
}

func (s *FileStore) List(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeIO, err, "read store dir")
	}
	var ids []string
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || strings.HasPrefix(name, ".") || filepath.Ext(name) != ".json" {
			continue
		}
		ids = append(ids, strings.TrimSuffix(name, ".json"))
	}
	sort.Strings(ids)
	return ids, nil
}

func (s *FileStore) Delete(ctx context.Context, id string) error {
	if err := errors.ValidateGraphID(id); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.path(id)); err != nil {
		if os.IsNotExist(err) {
			return notFound(id)
		}
		return errors.Wrap(errors.ErrCodeIO, err, "remove %s", id)
	}
	return nil
}

func (s *FileStore) Close() error { return nil }

// Path returns the directory holding the documents.
func (s *FileStore) Path() string {
	return s.baseDir
}

var _ Store = (*FileStore)(nil)
