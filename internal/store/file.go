package store

import (
	"context"
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
)

// FileStore persists the blob as a single JSON file — the closest server-side
// analog to the browser storage slot the original client used.
type FileStore struct {
	path string
}

func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

func (s *FileStore) Load(ctx context.Context) (Database, error) {
	blob, err := os.ReadFile(s.path)

	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return NewDatabase(), nil
		}

		return Database{}, err
	}

	return decode(blob)
}

func (s *FileStore) Save(ctx context.Context, db Database) error {
	blob, err := json.Marshal(db)

	if err != nil {
		return err
	}

	// write-then-rename so a crash mid-write cannot leave a torn blob
	tmp := s.path + ".tmp"

	if err := os.WriteFile(tmp, blob, 0o600); err != nil {
		return err
	}

	return os.Rename(tmp, filepath.Clean(s.path))
}
