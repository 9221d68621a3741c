package main

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/sisuapp/sisu/internal/cache"
	"github.com/sisuapp/sisu/internal/config"
	"github.com/sisuapp/sisu/internal/directory"
	"github.com/sisuapp/sisu/internal/gateway"
	httpx "github.com/sisuapp/sisu/internal/http"
	"github.com/sisuapp/sisu/internal/notifications"
	"github.com/sisuapp/sisu/internal/observability"
	"github.com/sisuapp/sisu/internal/session"
	"github.com/sisuapp/sisu/internal/store"
)

func main() {
	// Load the config set up
	cfg := config.Load()

	// start up the observability logger
	log := observability.NewLogger(cfg.Env)
	slog.SetDefault(log)

	if cfg.SessionSecret == "" {
		log.Error("SESSION_SECRET is required")
		os.Exit(1)
	}

	// tracing is optional; only wired when an endpoint is configured
	if cfg.OtelEndpoint != "" {
		shutdown, err := observability.InitTracer(context.Background(), "sisu", cfg.OtelEndpoint)

		if err != nil {
			log.Error("init tracer", "err", err)
			os.Exit(1)
		}

		defer func() {
			ctx, cancel := config.WithTimeout(3 * time.Second)
			defer cancel()
			_ = shutdown(ctx)
		}()
	}

	reg := prometheus.NewRegistry()
	prom := observability.NewProm(reg)

	recordStore, ping, err := buildStore(cfg)

	if err != nil {
		log.Error("open record store", "driver", cfg.StoreDriver, "err", err)
		os.Exit(1)
	}

	// event bus owned here, with the log listener attached for the
	// process lifetime
	bus := notifications.NewBus()
	unsubscribe := bus.Subscribe(notifications.NewLogListener(log))
	defer unsubscribe()

	dir := directory.New(
		store.NewInstrumented(recordStore, prom),
		directory.WithCache(cache.New(30*time.Second)),
		directory.WithBus(bus),
	)

	gw := gateway.New(dir,
		gateway.WithProm(prom),
		gateway.WithLatency(latencyHook(cfg.MaxLatencyMs)),
	)

	sessions := session.NewManager(cfg.SessionSecret)

	router := httpx.NewRouter(httpx.RouterDeps{
		Gateway:  gw,
		Sessions: sessions,
		Prom:     prom,
		Registry: reg,
		Ping:     ping,
	})

	// server set up
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.Info("Server starting", "port", cfg.Port, "env", cfg.Env, "store", cfg.StoreDriver)
		err := srv.ListenAndServe()

		if err != nil && err != http.ErrServerClosed {
			log.Error("server failed", "err", err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop
	log.Info("server shutting down")

	shutdownCh := make(chan struct{})

	go func() {
		defer close(shutdownCh)

		ctx, cancel := config.WithTimeout(10 * time.Second)

		defer cancel()

		err := srv.Shutdown(ctx)

		if err != nil {
			log.Error("graceful shutdown failed", "err", err)

			return
		}
	}()

	select {
	case <-shutdownCh:
		log.Info("shutdown complete")

	case <-time.After(12 * time.Second):
		log.Error("shutdown timed out")
	}
}

// buildStore opens the configured record-store slot and returns it with a
// readiness probe for its backing service (nil when there is none).
func buildStore(cfg config.Config) (store.Store, func() error, error) {
	switch cfg.StoreDriver {
	case "memory":
		return store.NewMemoryStore(), nil, nil

	case "file":
		return store.NewFileStore(cfg.StorePath), nil, nil

	case "redis":
		s := store.NewRedisStore(store.RedisConfig{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPass,
			DB:       cfg.RedisDB,
			Key:      cfg.BlobSlot,
		})

		ping := func() error {
			ctx, cancel := config.WithTimeout(1 * time.Second)
			defer cancel()
			return s.Ping(ctx)
		}

		return s, ping, nil

	case "postgres":
		pool, err := store.NewPool(cfg.DBURL)

		if err != nil {
			return nil, nil, err
		}

		s := store.NewPostgresStore(pool, cfg.BlobSlot)

		ctx, cancel := config.WithTimeout(5 * time.Second)
		defer cancel()

		if err := s.Migrate(ctx); err != nil {
			return nil, nil, err
		}

		ping := func() error {
			ctx, cancel := config.WithTimeout(1 * time.Second)
			defer cancel()
			return pool.Ping(ctx)
		}

		return s, ping, nil

	default:
		return nil, nil, fmt.Errorf("unknown store driver %q", cfg.StoreDriver)
	}
}

func latencyHook(maxMs int) func() time.Duration {
	if maxMs <= 0 {
		return func() time.Duration { return 0 }
	}

	return func() time.Duration {
		return time.Duration(rand.IntN(maxMs+1)) * time.Millisecond
	}
}
