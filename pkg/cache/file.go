package cache

import (
	"context"
	"encoding/json"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// FileCache keeps one JSON file per entry under dir, grouped by key kind:
//
//	<dir>/artifact/3f/a81c….json
//	<dir>/layout/07/e2d9….json
//
// Entries are written through a temp file and renamed into place, so
// concurrent CLI runs never read a partial entry.
type FileCache struct {
	dir string
}

// NewFileCache creates dir if needed and returns a cache over it.
func NewFileCache(dir string) (*FileCache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &FileCache{dir: dir}, nil
}

// fileEntry is the on-disk form of one entry. A zero Expires never expires.
type fileEntry struct {
	Key     string    `json:"key"`
	Expires time.Time `json:"expires,omitzero"`
	Data    []byte    `json:"data"`
}

func (e fileEntry) expired(now time.Time) bool {
	return !e.Expires.IsZero() && now.After(e.Expires)
}

// Get returns the entry under key. Expired or unreadable entries are
// removed and reported as misses.
func (c *FileCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	path := c.path(key)
	raw, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
		return nil, false, nil
	case err != nil:
		return nil, false, err
	}

	var e fileEntry
	if json.Unmarshal(raw, &e) != nil || e.Key != key || e.expired(time.Now()) {
		_ = os.Remove(path)
		return nil, false, nil
	}
	return e.Data, true, nil
}

// Set writes data under key.
func (c *FileCache) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	e := fileEntry{Key: key, Data: data}
	if ttl > 0 {
		e.Expires = time.Now().Add(ttl)
	}
	raw, err := json.Marshal(e)
	if err != nil {
		return err
	}

	path := c.path(key)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), ".entry-*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(raw); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}

// Delete removes key. A missing key is not an error.
func (c *FileCache) Delete(ctx context.Context, key string) error {
	if err := os.Remove(c.path(key)); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

func (c *FileCache) Close() error { return nil }

// Dir returns the cache directory.
func (c *FileCache) Dir() string { return c.dir }

// Clear removes every entry and returns how many there were. The cache
// directory itself is kept.
func (c *FileCache) Clear() (int, error) {
	kinds, err := os.ReadDir(c.dir)
	if os.IsNotExist(err) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}

	count := 0
	for _, k := range kinds {
		root := filepath.Join(c.dir, k.Name())
		_ = filepath.WalkDir(root, func(_ string, d fs.DirEntry, err error) error {
			if err == nil && !d.IsDir() {
				count++
			}
			return nil
		})
		if err := os.RemoveAll(root); err != nil {
			return count, err
		}
	}
	return count, nil
}

// path maps key to <dir>/<kind>/<h[:2]>/<h[2:]>.json, h being the hash of
// the full key. Keys without a usable kind go under "misc".
func (c *FileCache) path(key string) string {
	kind := "misc"
	if k := keyType(key); strings.Contains(key, ":") && k != "" && !strings.ContainsAny(k, `/\.`) {
		kind = k
	}
	h := Hash([]byte(key))
	return filepath.Join(c.dir, kind, h[:2], h[2:]+".json")
}

var _ Cache = (*FileCache)(nil)
