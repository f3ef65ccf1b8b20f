package cache

import (
	"context"
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// FileCache stores one JSON file per entry below a directory. Entries are
// spread over 256 subdirectories named by the first byte of the key hash.
type FileCache struct {
	dir string
	now func() time.Time
}

// NewFileCache creates a file cache in dir, creating it if needed.
func NewFileCache(dir string) (*FileCache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &FileCache{dir: dir, now: time.Now}, nil
}

type fileEntry struct {
	Data      []byte    `json:"data"`
	ExpiresAt time.Time `json:"expires_at"`
}

func (e fileEntry) expired(now time.Time) bool {
	return !e.ExpiresAt.IsZero() && now.After(e.ExpiresAt)
}

// Dir returns the cache directory.
func (c *FileCache) Dir() string { return c.dir }

func (c *FileCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	if err := ctx.Err(); err != nil {
		return nil, false, err
	}
	path := c.path(key)
	raw, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	var entry fileEntry
	if err := json.Unmarshal(raw, &entry); err != nil {
		_ = os.Remove(path)
		return nil, false, nil
	}
	if entry.expired(c.now()) {
		_ = os.Remove(path)
		return nil, false, nil
	}
	return entry.Data, true, nil
}

// Set writes the entry to a temporary file and renames it into place, so
// readers never see a partial entry.
func (c *FileCache) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	entry := fileEntry{Data: data}
	if ttl > 0 {
		entry.ExpiresAt = c.now().Add(ttl)
	}
	raw, err := json.Marshal(entry)
	if err != nil {
		return err
	}

	path := c.path(key)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), ".tmp-*")
	if err != nil {
		return err
	}
	if _, err := tmp.Write(raw); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	return os.Rename(tmp.Name(), path)
}

func (c *FileCache) Delete(_ context.Context, key string) error {
	err := os.Remove(c.path(key))
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}

func (c *FileCache) Close() error { return nil }

// Usage describes the entries currently on disk.
type Usage struct {
	Entries int
	Bytes   int64
	Expired int
}

// Usage walks the cache directory and counts its entries.
func (c *FileCache) Usage() (Usage, error) {
	var u Usage
	now := c.now()
	err := c.walk(func(path string, info fs.FileInfo) error {
		u.Entries++
		u.Bytes += info.Size()
		if e, err := readEntry(path); err == nil && e.expired(now) {
			u.Expired++
		}
		return nil
	})
	return u, err
}

// Prune removes expired and unreadable entries and returns how many were
// removed.
func (c *FileCache) Prune() (int, error) {
	now := c.now()
	removed := 0
	err := c.walk(func(path string, _ fs.FileInfo) error {
		e, err := readEntry(path)
		if err == nil && !e.expired(now) {
			return nil
		}
		if err := os.Remove(path); err != nil {
			return err
		}
		removed++
		return nil
	})
	return removed, err
}

// Clear removes every entry and returns how many were removed.
func (c *FileCache) Clear() (int, error) {
	removed := 0
	err := c.walk(func(path string, _ fs.FileInfo) error {
		if err := os.Remove(path); err != nil {
			return err
		}
		removed++
		return nil
	})
	return removed, err
}

func (c *FileCache) walk(fn func(path string, info fs.FileInfo) error) error {
	return filepath.WalkDir(c.dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return nil
			}
			return err
		}
		if d.IsDir() || !strings.HasSuffix(d.Name(), ".json") {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		return fn(path, info)
	})
}

func (c *FileCache) path(key string) string {
	h := Hash([]byte(key))
	return filepath.Join(c.dir, h[:2], h[2:]+".json")
}

func readEntry(path string) (fileEntry, error) {
	var e fileEntry
	raw, err := os.ReadFile(path)
	if err != nil {
		return e, err
	}
	err = json.Unmarshal(raw, &e)
	return e, err
}

var _ Cache = (*FileCache)(nil)
