package store

import (
	"context"
	"encoding/json"
	"sync"
)

// MemoryStore keeps the blob in process memory. Used by tests and the demo
// store mode.
//
// The blob is held serialized, not as live maps, so a caller can never alias
// persisted state through a returned Database.
type MemoryStore struct {
	mu   sync.RWMutex
	blob []byte
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Load(ctx context.Context) (Database, error) {
	s.mu.RLock()
	blob := s.blob
	s.mu.RUnlock()

	if blob == nil {
		return NewDatabase(), nil
	}

	return decode(blob)
}

func (s *MemoryStore) Save(ctx context.Context, db Database) error {
	blob, err := json.Marshal(db)

	if err != nil {
		return err
	}

	s.mu.Lock()
	s.blob = blob
	s.mu.Unlock()

	return nil
}

func decode(blob []byte) (Database, error) {
	db := NewDatabase()

	if err := json.Unmarshal(blob, &db); err != nil {
		return Database{}, err
	}

	if db.Users == nil {
		db.Users = NewDatabase().Users
	}
	if db.Logs == nil {
		db.Logs = NewDatabase().Logs
	}

	return db, nil
}
