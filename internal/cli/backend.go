package cli

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"quizgenius/internal/app"
	"quizgenius/internal/config"
	"quizgenius/internal/generation"
	"quizgenius/internal/infra/memory"
	"quizgenius/internal/infra/postgres"
	redisstore "quizgenius/internal/infra/redis"
	"quizgenius/internal/infra/sqlite"
	"quizgenius/internal/scheduler"
	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/redis/go-redis/v9"
)

// backend holds the service and every connection opened for it.
type backend struct {
	service *app.QuizService
	// sweeper evicts abandoned play sessions every sweepEvery
	sweeper    scheduler.Sweeper
	sweepEvery time.Duration
	closers    []func()
}

func (b *backend) Close() {
	for i := len(b.closers) - 1; i >= 0; i-- {
		b.closers[i]()
	}
}

// openBackend selects the store by storage.driver, wraps remote stores in a read cache
// and wires sessions and the Gemini generator.
func openBackend(ctx context.Context, cfg config.Config) (*backend, error) {
	b := &backend{}
	cacheTTL := config.TTLDuration(cfg.Cache.TTL, time.Minute)

	var redisClient *redis.Client
	if cfg.Redis.Addr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		b.closers = append(b.closers, func() { _ = redisClient.Close() })
	}

	var store app.Store
	switch cfg.Storage.Driver {
	case config.DriverMemory:
		store = memory.NewStore()
	case config.DriverRedis:
		if redisClient == nil {
			b.Close()
			return nil, fmt.Errorf("redis driver selected but redis.addr is empty")
		}
		store = memory.NewCachedStore(redisstore.NewStore(redisClient, cfg.Redis.Prefix), cacheTTL)
	case config.DriverPostgres:
		if err := runMigrationsWithConfig(ctx, cfg); err != nil {
			b.Close()
			return nil, err
		}
		pool, err := pgxpool.Connect(ctx, cfg.Postgres.URL)
		if err != nil {
			b.Close()
			return nil, fmt.Errorf("connect postgres: %w", err)
		}
		b.closers = append(b.closers, pool.Close)
		store = memory.NewCachedStore(postgres.NewStore(pool), cacheTTL)
	case config.DriverSQLite:
		db, err := sqlite.Open(ctx, cfg.SQLite.Path)
		if err != nil {
			b.Close()
			return nil, err
		}
		b.closers = append(b.closers, func() { _ = db.Close() })
		store = db
	default:
		b.Close()
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
	}

	sessionTTL := config.TTLDuration(cfg.Session.TTL, 30*time.Minute)
	var sessions app.SessionRepository
	if redisClient != nil {
		redisSessions := redisstore.NewSessionStore(redisClient, sessionTTL)
		sessions, b.sweeper = redisSessions, redisSessions
	} else {
		localSessions := memory.NewSessionStore(sessionTTL)
		sessions, b.sweeper = localSessions, localSessions
	}
	b.sweepEvery = sessionTTL / 2
	if b.sweepEvery < time.Second {
		b.sweepEvery = time.Second
	}

	var generator app.Generator
	if cfg.Gemini.APIKey != "" {
		httpClient := &http.Client{Timeout: config.TTLDuration(cfg.Gemini.Timeout, 90*time.Second)}
		gemini, err := generation.NewGemini(ctx, generation.Config{
			APIKey:      cfg.Gemini.APIKey,
			BaseURL:     cfg.Gemini.BaseURL,
			Model:       cfg.Gemini.Model,
			Temperature: cfg.Gemini.Temperature,
		}, httpClient)
		if err != nil {
			b.Close()
			return nil, err
		}
		generator = gemini
	} else {
		log.Printf("no Gemini API key configured; quiz generation is disabled")
	}

	b.service = app.NewQuizService(store, sessions, generator)
	return b, nil
}

func loadBackend(ctx context.Context, configPath string) (*backend, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	return openBackend(ctx, cfg)
}
