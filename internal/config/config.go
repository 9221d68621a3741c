package config

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Env  string
	Port int

	// record store slot
	StoreDriver string // memory | file | redis | postgres
	StorePath   string
	BlobSlot    string
	RedisAddr   string
	RedisPass   string
	RedisDB     int
	DBURL       string

	// gateway
	MaxLatencyMs int

	// sessions
	SessionSecret string

	// tracing
	OtelEndpoint string
}

func Load() Config {
	// .env is optional; real env vars win
	_ = godotenv.Load()

	env := getEnv("APP_ENV", "dev")
	port := getEnvInt("PORT", 8080)

	return Config{
		Env:           env,
		Port:          port,
		StoreDriver:   getEnv("STORE_DRIVER", "file"),
		StorePath:     getEnv("STORE_PATH", "sisu.db.json"),
		BlobSlot:      getEnv("BLOB_SLOT", "sisu:db"),
		RedisAddr:     getEnv("REDIS_ADDR", "127.0.0.1:6379"),
		RedisPass:     getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getEnvInt("REDIS_DB", 0),
		DBURL:         buildDBURL(),
		MaxLatencyMs:  getEnvInt("MAX_LATENCY_MS", 2000),
		SessionSecret: getEnv("SESSION_SECRET", ""),
		OtelEndpoint:  getEnv("OTEL_ENDPOINT", ""),
	}
}

func buildDBURL() string {
	host := getEnv("DB_HOST", "127.0.0.1")
	port := getEnv("DB_PORT", "5432")
	user := getEnv("DB_USER", "sisu")
	pass := getEnv("DB_PASSWORD", "sisu")
	name := getEnv("DB_NAME", "sisu")
	ssl := getEnv("DB_SSLMODE", "disable")

	return "postgres://" + user + ":" + pass + "@" + host + ":" + port + "/" + name + "?sslmode=" + ssl
}

func WithTimeout(duration time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), duration)
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}

	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		num, err := strconv.Atoi(v)

		if err != nil {
			fmt.Println(err)
			return fallback
		}

		return num
	}
	return fallback
}
