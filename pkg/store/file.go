package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	perrors "github.com/matzehuels/procmap/pkg/errors"
)

// FileStore keeps one JSON file per document in a directory.
type FileStore struct {
	mu  sync.RWMutex
	dir string
	now func() time.Time
}

// NewFileStore creates a file store in dir, creating it if needed.
func NewFileStore(dir string) (*FileStore, error) {
	if dir == "" {
		return nil, errors.New("store directory is required")
	}
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("create store dir: %w", err)
	}
	return &FileStore{dir: dir, now: time.Now}, nil
}

// Dir returns the directory holding the documents.
func (s *FileStore) Dir() string { return s.dir }

func (s *FileStore) path(id string) (string, error) {
	if err := perrors.ValidateKey(id); err != nil {
		return "", err
	}
	return filepath.Join(s.dir, id+".json"), nil
}

func (s *FileStore) Save(_ context.Context, doc *Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	prepare(doc, s.now())
	path, err := s.path(doc.ID)
	if err != nil {
		return err
	}
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal layout: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("write layout file: %w", err)
	}
	return nil
}

func (s *FileStore) Get(_ context.Context, id string) (*Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	path, err := s.path(id)
	if err != nil {
		return nil, ErrNotFound
	}
	doc, err := readDocument(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if doc.IsExpired(s.now()) {
		return nil, ErrExpired
	}
	return doc, nil
}

func (s *FileStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	path, err := s.path(id)
	if err != nil {
		return nil
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("remove layout file: %w", err)
	}
	return nil
}

func (s *FileStore) Cleanup(context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return fmt.Errorf("read store dir: %w", err)
	}
	now := s.now()
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".json" {
			continue
		}
		path := filepath.Join(s.dir, entry.Name())
		doc, err := readDocument(path)
		if err != nil {
			continue
		}
		if doc.IsExpired(now) {
			_ = os.Remove(path)
		}
	}
	return nil
}

func (s *FileStore) Close() error { return nil }

func readDocument(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse layout file: %w", err)
	}
	return &doc, nil
}

var _ Store = (*FileStore)(nil)
