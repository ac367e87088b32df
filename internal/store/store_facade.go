package store

import (
	"path/filepath"

	"github.com/ciciliostudio/viewpoint/internal/model"
)

// Store is the project-level persistence root. Structures, cases and
// executions each live in their own subdirectory of the data dir.
type Store struct {
	Structures *docStore[model.PageStructure]
	Cases      *docStore[model.TestCase]
	Executions *docStore[model.TestExecution]
}

// New opens a store rooted at dataDir. Directories are created lazily on
// first save, so opening a store never touches the filesystem.
func New(dataDir string) *Store {
	return &Store{
		Structures: newDocStore(filepath.Join(dataDir, "structures"), func(s *model.PageStructure) string { return s.ID }),
		Cases:      newDocStore(filepath.Join(dataDir, "cases"), func(c *model.TestCase) string { return c.ID }),
		Executions: newDocStore(filepath.Join(dataDir, "executions"), func(e *model.TestExecution) string { return e.ID }),
	}
}
