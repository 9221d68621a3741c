package store

import (
	"context"

	"github.com/sisuapp/sisu/internal/domain/audit"
	"github.com/sisuapp/sisu/internal/domain/user"
)

// Database is the whole persisted state: every user record and every log
// history, serialized together as one blob. There are no partial writes —
// every mutation re-reads the current blob, merges its change and writes the
// full structure back.
type Database struct {
	Users map[string]user.User `json:"users"`
	Logs  audit.HistoryMap     `json:"logs"`
}

// NewDatabase returns an initialized empty database.
func NewDatabase() Database {
	return Database{
		Users: make(map[string]user.User),
		Logs:  make(audit.HistoryMap),
	}
}

// Store is the port to the key-value slot holding the database blob.
type Store interface {
	// Load returns the current persisted state, or an empty database when
	// nothing has been saved yet.
	Load(ctx context.Context) (Database, error)

	// Save serializes the entire database and replaces any prior value.
	Save(ctx context.Context, db Database) error
}
