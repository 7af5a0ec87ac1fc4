package app

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/bill8575/e-learning/internal/config"
	"github.com/bill8575/e-learning/internal/logger"
	"github.com/bill8575/e-learning/internal/redis"
	"github.com/bill8575/e-learning/internal/session"

	_ "github.com/lib/pq"
)

// setupStore builds the configured session store backend and a cleanup
// for whatever infrastructure it opened.
func setupStore(ctx context.Context, cfg config.Config) (session.Store, func() error, error) {

	switch cfg.SessionStore {

	case "file":
		logger.Info("session store ready", map[string]any{
			"backend": "file",
			"path":    cfg.SessionFile,
		})
		return session.NewFileStore(cfg.SessionFile), nil, nil

	case "redis":
		client, err := redis.New(cfg.RedisAddr, cfg.RedisPassword)
		if err != nil {
			return nil, nil, err
		}

		logger.Info("session store ready", map[string]any{
			"backend": "redis",
		})

		return session.NewRedisStore(client.Client), client.Close, nil

	case "postgres":
		db, err := sql.Open("postgres", cfg.DatabaseDSN)
		if err != nil {
			return nil, nil, err
		}

		if err := db.PingContext(ctx); err != nil {
			return nil, nil, err
		}

		store, err := session.NewPostgresStore(ctx, db)
		if err != nil {
			return nil, nil, err
		}

		logger.Info("session store ready", map[string]any{
			"backend": "postgres",
		})

		return store, db.Close, nil
	}

	return nil, nil, fmt.Errorf("unknown session store backend: %s", cfg.SessionStore)
}
