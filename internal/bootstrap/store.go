package bootstrap

import (
	"context"
	"fmt"

	"github.com/bnema/folio/internal/domain/repository"
	"github.com/bnema/folio/internal/infrastructure/config"
	"github.com/bnema/folio/internal/infrastructure/jsdom"
	"github.com/bnema/folio/internal/infrastructure/persistence/memory"
	redisstore "github.com/bnema/folio/internal/infrastructure/persistence/redis"
	"github.com/bnema/folio/internal/infrastructure/persistence/sqlite"
	"github.com/bnema/folio/internal/logging"
)

// OpenStore opens the preference store selected by storage.driver.
// The returned cleanup flushes and closes it and is never nil.
//
// For the localstorage driver, script is the runtime whose localStorage
// holds the preferences; nil starts a headless one seeded from storage.path.
func OpenStore(ctx context.Context, cfg *config.Config, script *jsdom.Runtime) (repository.PreferenceStore, func(), error) {
	log := logging.FromContext(ctx)
	noop := func() {}

	switch cfg.Storage.Driver {
	case config.StorageMemory:
		return memory.NewStore(nil), noop, nil

	case config.StorageSQLite:
		db := sqlite.NewLazyDB(cfg.Storage.Path)
		cleanup := func() {
			if err := db.Close(); err != nil {
				log.Warn().Err(err).Msg("failed to close preference database")
			}
		}
		return sqlite.NewPreferenceStore(db), cleanup, nil

	case config.StorageRedis:
		store, err := redisstore.Connect(ctx, redisstore.Config{
			Addr:      cfg.Storage.RedisAddr,
			Password:  cfg.Storage.RedisPassword,
			DB:        cfg.Storage.RedisDB,
			KeyPrefix: cfg.Storage.KeyPrefix,
		})
		if err != nil {
			return nil, noop, err
		}
		cleanup := func() {
			if err := store.Close(); err != nil {
				log.Warn().Err(err).Msg("failed to close redis client")
			}
		}
		return store, cleanup, nil

	case config.StorageLocalStorage:
		if script == nil {
			items, err := jsdom.LoadStorageFile(cfg.Storage.Path)
			if err != nil {
				return nil, noop, err
			}
			script, err = jsdom.New(ctx, jsdom.Options{Storage: items})
			if err != nil {
				return nil, noop, fmt.Errorf("failed to start localStorage runtime: %w", err)
			}
		}
		store := script.LocalStorage()
		path := cfg.Storage.Path
		cleanup := func() {
			if err := store.SaveStorageFile(ctx, path); err != nil {
				log.Warn().Err(err).Str("path", path).Msg("failed to save localStorage")
			}
		}
		return store, cleanup, nil
	}

	return nil, noop, fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
}
