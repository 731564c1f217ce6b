// internal/app/store.go
package app

import (
	"context"
	"fmt"
	"time"

	"savings-tracker/internal/config"
	"savings-tracker/internal/storage"
	"savings-tracker/internal/storage/memory"
	"savings-tracker/internal/storage/mongodb"
	"savings-tracker/internal/storage/postgres"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

const connectTimeout = 10 * time.Second

// OpenStore connects the backend selected by cfg.StoreDriver.
// The returned close func is never nil.
func OpenStore(ctx context.Context, cfg config.Config, log *zap.Logger) (storage.Storage, func(), error) {
	ctx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	switch cfg.StoreDriver {
	case config.DriverPostgres:
		pool, err := pgxpool.New(ctx, cfg.DBConn)
		if err != nil {
			return nil, func() {}, fmt.Errorf("connect postgres: %w", err)
		}
		if err := pool.Ping(ctx); err != nil {
			pool.Close()
			return nil, func() {}, fmt.Errorf("ping postgres: %w", err)
		}
		log.Info("connected to PostgreSQL")
		return postgres.NewStorage(pool), pool.Close, nil

	case config.DriverMongo:
		store, err := mongodb.Connect(ctx, cfg.MongoURI, cfg.MongoDatabase, log)
		if err != nil {
			return nil, func() {}, err
		}
		return store, func() {
			closeCtx, cancel := context.WithTimeout(context.Background(), connectTimeout)
			defer cancel()
			store.Close(closeCtx)
		}, nil

	case config.DriverMemory:
		log.Warn("using in-memory store, data is lost on restart")
		return memory.NewStorage(), func() {}, nil

	default:
		return nil, func() {}, fmt.Errorf("unknown STORE_DRIVER %q", cfg.StoreDriver)
	}
}
