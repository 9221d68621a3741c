package store

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

const defaultRedisKey = "sisu:db"

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	Key      string
}

// RedisStore holds the blob under a single redis key.
type RedisStore struct {
	redisdb *redis.Client
	key     string
}

func NewRedisStore(cfg RedisConfig) *RedisStore {
	redisdb := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  2 * time.Second,
		ReadTimeout:  2 * time.Second,
		WriteTimeout: 2 * time.Second,
	})

	key := cfg.Key
	if key == "" {
		key = defaultRedisKey
	}

	return &RedisStore{redisdb: redisdb, key: key}
}

func (s *RedisStore) Load(ctx context.Context) (Database, error) {
	blob, err := s.redisdb.Get(ctx, s.key).Bytes()

	if err != nil {
		if errors.Is(err, redis.Nil) {
			return NewDatabase(), nil
		}

		return Database{}, err
	}

	return decode(blob)
}

func (s *RedisStore) Save(ctx context.Context, db Database) error {
	blob, err := json.Marshal(db)

	if err != nil {
		return err
	}

	return s.redisdb.Set(ctx, s.key, blob, 0).Err()
}

// Ping checks redis connectivity.
func (s *RedisStore) Ping(ctx context.Context) error {
	return s.redisdb.Ping(ctx).Err()
}

func (s *RedisStore) Close() error {
	return s.redisdb.Close()
}
