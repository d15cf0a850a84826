package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/aretw0/pipewright"
	"github.com/aretw0/pipewright/internal/config"
	"github.com/aretw0/pipewright/pkg/adapters/file"
	"github.com/aretw0/pipewright/pkg/adapters/memory"
	"github.com/aretw0/pipewright/pkg/adapters/redis"
	"github.com/aretw0/pipewright/pkg/adapters/sqlite"
	"github.com/aretw0/pipewright/pkg/persistence/middleware"
	"github.com/aretw0/pipewright/pkg/ports"
)

type closer func() error

func noopClose() error { return nil }

// openStore builds the document store selected by c. The redis backend also
// returns a distributed locker sharing the store's client.
func openStore(ctx context.Context, c config.StoreConfig) (ports.DocumentStore, ports.DistributedLocker, closer, error) {
	switch c.Backend {
	case "memory":
		return memory.NewStore(), nil, noopClose, nil
	case "file", "":
		return file.New(c.Dir), nil, noopClose, nil
	case "redis":
		opts := []redis.Option{redis.WithPrefix(c.Redis.Prefix)}
		if c.Redis.TTL > 0 {
			opts = append(opts, redis.WithTTL(c.Redis.TTL))
		}
		store := redis.New(c.Redis.Addr, c.Redis.Password, c.Redis.DB, opts...)
		locker := redis.NewLocker(store.Client(), c.Redis.Prefix+"lock:")
		return store, locker, store.Close, nil
	case "sqlite":
		store, err := sqlite.Open(ctx, c.SQLite)
		if err != nil {
			return nil, nil, nil, err
		}
		return store, nil, store.Close, nil
	default:
		return nil, nil, nil, fmt.Errorf("unknown store backend %q", c.Backend)
	}
}

// storeMiddleware returns the decorators enabled by c.
func storeMiddleware(c config.StoreConfig) ([]middleware.Middleware, error) {
	var mws []middleware.Middleware
	if c.Encryption.Enabled() {
		active, fallback, err := c.Encryption.Keys()
		if err != nil {
			return nil, err
		}
		mws = append(mws, middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{
			ActiveKey:    active,
			FallbackKeys: fallback,
		}))
	}
	return mws, nil
}

// newEngine opens the configured store and wraps it in an Engine.
func newEngine(ctx context.Context, c *config.Config, log *slog.Logger, opts ...pipewright.Option) (*pipewright.Engine, closer, error) {
	mws, err := storeMiddleware(c.Store)
	if err != nil {
		return nil, nil, err
	}
	store, locker, closeStore, err := openStore(ctx, c.Store)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open %s store: %w", c.Store.Backend, err)
	}
	store = middleware.Chain(store, mws...)

	opts = append([]pipewright.Option{pipewright.WithLogger(log)}, opts...)
	if locker != nil {
		opts = append(opts, pipewright.WithLocker(locker), pipewright.WithLockTTL(c.Store.LockTTL))
	}
	return pipewright.New(store, opts...), closeStore, nil
}
