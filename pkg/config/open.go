package config

import (
	"context"
	"path/filepath"

	"github.com/matzehuels/procmap/pkg/cache"
	perrors "github.com/matzehuels/procmap/pkg/errors"
	"github.com/matzehuels/procmap/pkg/store"
)

// Open creates the configured cache backend. The file backend defaults
// to "cache" below the config directory.
func (c CacheConfig) Open(ctx context.Context) (cache.Cache, error) {
	switch c.Backend {
	case CacheNone:
		return cache.NewNullCache(), nil
	case CacheRedis:
		rc, err := cache.NewRedisCache(ctx, cache.RedisOptions{
			Addr:     c.RedisAddr,
			Password: c.RedisPassword,
			DB:       c.RedisDB,
		})
		if err != nil {
			return nil, perrors.Wrap(perrors.ErrCodeCache, err, "open redis cache")
		}
		return rc, nil
	default:
		dir, err := c.dir()
		if err != nil {
			return nil, err
		}
		fc, err := cache.NewFileCache(dir)
		if err != nil {
			return nil, perrors.Wrap(perrors.ErrCodeCache, err, "open file cache")
		}
		return fc, nil
	}
}

func (c CacheConfig) dir() (string, error) {
	if c.Dir != "" {
		return c.Dir, nil
	}
	base, err := Dir()
	if err != nil {
		return "", perrors.Wrap(perrors.ErrCodeCache, err, "locate cache dir")
	}
	return filepath.Join(base, "cache"), nil
}

// Keyer returns the cache keyer, namespaced by Prefix when one is set.
func (c CacheConfig) Keyer() cache.Keyer {
	if c.Prefix == "" {
		return cache.NewDefaultKeyer()
	}
	return cache.NewScopedKeyer(nil, c.Prefix)
}

// CacheDir returns the directory the file backend uses.
func (c CacheConfig) CacheDir() (string, error) { return c.dir() }

// Open creates the configured store backend. The file backend defaults to
// "layouts" below the config directory.
func (c StoreConfig) Open(ctx context.Context) (store.Store, error) {
	switch c.Backend {
	case StoreMongo:
		ms, err := store.NewMongoStore(ctx, store.MongoOptions{
			URI:        c.URI,
			Database:   c.Database,
			Collection: c.Collection,
		})
		if err != nil {
			return nil, perrors.Wrap(perrors.ErrCodeStorage, err, "open mongo store")
		}
		return ms, nil
	case StoreFile:
		dir := c.Dir
		if dir == "" {
			base, err := Dir()
			if err != nil {
				return nil, perrors.Wrap(perrors.ErrCodeStorage, err, "locate store dir")
			}
			dir = filepath.Join(base, "layouts")
		}
		fs, err := store.NewFileStore(dir)
		if err != nil {
			return nil, perrors.Wrap(perrors.ErrCodeStorage, err, "open file store")
		}
		return fs, nil
	default:
		return store.NewMemoryStore(), nil
	}
}
