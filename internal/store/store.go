// Package store persists entities as one JSON document per entity, keyed by
// id, under a data directory. It provides the save/load/list/delete
// capability the generation and execution engines rely on.
package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ciciliostudio/viewpoint/internal/logging"
)

// ErrNotFound is returned when a referenced entity does not exist. Callers
// surface it as a failed operation, never a silent default.
var ErrNotFound = errors.New("entity not found")

// docStore reads and writes one entity type in its own directory.
type docStore[T any] struct {
	dir string
	id  func(*T) string
}

func newDocStore[T any](dir string, id func(*T) string) *docStore[T] {
	return &docStore[T]{dir: dir, id: id}
}

func (s *docStore[T]) path(id string) string {
	return filepath.Join(s.dir, id+".json")
}

// Save writes the entity, creating the directory on first use.
func (s *docStore[T]) Save(entity *T) error {
	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return fmt.Errorf("failed to create data directory %s: %w", s.dir, err)
	}
	data, err := json.MarshalIndent(entity, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal entity: %w", err)
	}
	path := s.path(s.id(entity))
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

// Load reads the entity with the given id, or ErrNotFound.
func (s *docStore[T]) Load(id string) (*T, error) {
	data, err := os.ReadFile(s.path(id))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
		}
		return nil, fmt.Errorf("failed to read %s: %w", s.path(id), err)
	}
	var entity T
	if err := json.Unmarshal(data, &entity); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", s.path(id), err)
	}
	return &entity, nil
}

// List reads every entity in the directory, skipping files that fail to
// parse. A missing directory is an empty store, not an error.
func (s *docStore[T]) List() ([]*T, error) {
	files, err := os.ReadDir(s.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read data directory %s: %w", s.dir, err)
	}
	var out []*T
	for _, f := range files {
		if f.IsDir() || !strings.HasSuffix(f.Name(), ".json") {
			continue
		}
		data, err := os.ReadFile(filepath.Join(s.dir, f.Name()))
		if err != nil {
			logging.Warn("skipping unreadable entity %s: %v", f.Name(), err)
			continue
		}
		var entity T
		if err := json.Unmarshal(data, &entity); err != nil {
			logging.Warn("skipping malformed entity %s: %v", f.Name(), err)
			continue
		}
		out = append(out, &entity)
	}
	return out, nil
}

// Delete removes the entity and reports whether it existed.
func (s *docStore[T]) Delete(id string) bool {
	if err := os.Remove(s.path(id)); err != nil {
		return false
	}
	return true
}
