package repository

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// Sentinel errors shared by the document-backed repositories.
var (
	ErrNotFound = errors.New("record not found")
	ErrConflict = errors.New("record already exists")
)

// documentStore persists a map[string]T as a single JSON document. Every
// mutation reads the whole file, applies the change in memory, and writes the
// whole file back; the mutex serializes that read-modify-write cycle so
// concurrent requests cannot lose updates against the same store.
type documentStore[T any] struct {
	mu   sync.Mutex
	path string
}

func newDocumentStore[T any](path string) *documentStore[T] {
	return &documentStore[T]{path: path}
}

func (d *documentStore[T]) load() (map[string]T, error) {
	raw, err := os.ReadFile(d.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return map[string]T{}, nil
		}
		return nil, fmt.Errorf("read %s: %w", d.path, err)
	}

	docs := map[string]T{}
	if len(raw) == 0 {
		return docs, nil
	}
	if err := json.Unmarshal(raw, &docs); err != nil {
		return nil, fmt.Errorf("decode %s: %w", d.path, err)
	}
	return docs, nil
}

// write replaces the document via a temp file and rename so a crash mid-write
// never leaves a truncated store behind.
func (d *documentStore[T]) write(docs map[string]T) error {
	raw, err := json.MarshalIndent(docs, "", "  ")
	if err != nil {
		return fmt.Errorf("encode %s: %w", d.path, err)
	}

	if err := os.MkdirAll(filepath.Dir(d.path), 0o755); err != nil {
		return fmt.Errorf("ensure data dir: %w", err)
	}

	tmp := d.path + ".tmp"
	if err := os.WriteFile(tmp, raw, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, d.path); err != nil {
		return fmt.Errorf("replace %s: %w", d.path, err)
	}
	return nil
}

// View runs fn against a freshly loaded snapshot without persisting anything.
func (d *documentStore[T]) View(fn func(map[string]T) error) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	docs, err := d.load()
	if err != nil {
		return err
	}
	return fn(docs)
}

// Update runs fn against a freshly loaded snapshot and, when fn succeeds,
// writes the whole document back before returning. A failing fn leaves the
// file untouched.
func (d *documentStore[T]) Update(fn func(map[string]T) error) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	docs, err := d.load()
	if err != nil {
		return err
	}
	if err := fn(docs); err != nil {
		return err
	}
	return d.write(docs)
}
