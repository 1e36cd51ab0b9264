// Package app wires the configured store, the question catalog, the
// persistence adapter and the state container into one handle for the CLI.
package app

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/rotar1/rota/internal/catalog"
	"github.com/rotar1/rota/internal/config"
	"github.com/rotar1/rota/internal/questions"
	"github.com/rotar1/rota/internal/record"
	"github.com/rotar1/rota/internal/store"
)

// App holds the opened components. Close releases the store.
type App struct {
	Config    *config.Config
	Log       *zap.Logger
	KV        store.KV
	Records   *record.Adapter
	Questions *questions.Container
}

// Open opens the store selected by cfg, loads the embedded catalog and
// builds the state container from the persisted record.
func Open(ctx context.Context, cfg *config.Config, log *zap.Logger) (*App, error) {
	if log == nil {
		log = zap.NewNop()
	}

	qs, err := catalog.Default()
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}
	for _, p := range catalog.Check(qs) {
		log.Warn("catalog problem", zap.String("question", p.QuestionID), zap.String("reason", p.Reason))
	}

	kv, err := OpenStore(ctx, cfg.Storage, log)
	if err != nil {
		return nil, err
	}

	records := record.NewAdapter(kv,
		record.WithKey(cfg.Storage.Key),
		record.WithLogger(log.Named("record")))

	return &App{
		Config:    cfg,
		Log:       log,
		KV:        kv,
		Records:   records,
		Questions: questions.New(ctx, qs, records, questions.WithLogger(log.Named("questions"))),
	}, nil
}

// OpenStore opens the key-value backend named by cfg.Backend.
func OpenStore(ctx context.Context, cfg config.StorageConfig, log *zap.Logger) (store.KV, error) {
	switch cfg.Backend {
	case config.BackendMemory:
		log.Debug("using in-memory store")
		return store.NewMemory(), nil

	case config.BackendRedis:
		r, err := store.OpenRedis(ctx, cfg.RedisURL)
		if err != nil {
			return nil, fmt.Errorf("open redis store: %w", err)
		}
		log.Debug("using redis store")
		return r, nil

	case config.BackendSQLite, "":
		path := cfg.Path
		if path == "" {
			p, err := store.DefaultDBPath()
			if err != nil {
				return nil, fmt.Errorf("resolve database path: %w", err)
			}
			path = p
		} else if err := store.EnsureDir(path); err != nil {
			return nil, fmt.Errorf("create database directory: %w", err)
		}
		s, err := store.OpenSQLite(path)
		if err != nil {
			return nil, fmt.Errorf("open sqlite store: %w", err)
		}
		log.Debug("using sqlite store", zap.String("path", path))
		return s, nil

	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Backend)
	}
}

// Close releases the store.
func (a *App) Close() error {
	return a.KV.Close()
}
