package store

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const defaultSlotName = "sisu"

// PostgresStore keeps the blob in one row of a key-value table. The data
// model is a single serialized structure, so there is no row-per-entity
// schema here — postgres only plays the part of a durable slot.
type PostgresStore struct {
	pool *pgxpool.Pool
	slot string
}

func NewPool(dbURL string) (*pgxpool.Pool, error) {
	cfg, err := pgxpool.ParseConfig(dbURL)

	if err != nil {
		return nil, err
	}

	cfg.MaxConns = 5

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)

	defer cancel()

	pool, err := pgxpool.NewWithConfig(ctx, cfg)

	if err != nil {
		return nil, err
	}

	err = pool.Ping(ctx)

	if err != nil {
		pool.Close()
		return nil, err
	}

	return pool, nil
}

func NewPostgresStore(pool *pgxpool.Pool, slot string) *PostgresStore {
	if slot == "" {
		slot = defaultSlotName
	}

	return &PostgresStore{pool: pool, slot: slot}
}

// Migrate creates the slot table if it does not exist yet.
func (s *PostgresStore) Migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx,
		`CREATE TABLE IF NOT EXISTS blobs (
            slot  TEXT PRIMARY KEY,
            value JSONB NOT NULL
        )`)

	return err
}

func (s *PostgresStore) Load(ctx context.Context) (Database, error) {
	var blob []byte

	err := s.pool.QueryRow(
		ctx,
		`SELECT value FROM blobs WHERE slot = $1`,
		s.slot,
	).Scan(&blob)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return NewDatabase(), nil
		}

		return Database{}, err
	}

	return decode(blob)
}

func (s *PostgresStore) Save(ctx context.Context, db Database) error {
	blob, err := json.Marshal(db)

	if err != nil {
		return err
	}

	_, err = s.pool.Exec(
		ctx,
		`INSERT INTO blobs (slot, value) VALUES ($1, $2)
         ON CONFLICT (slot) DO UPDATE SET value = EXCLUDED.value`,
		s.slot, blob,
	)

	return err
}
