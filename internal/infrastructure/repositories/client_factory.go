package repositories

import (
	"context"

	logger "github.com/sirupsen/logrus"

	"github.com/rios0rios0/depwatch/internal/cache"
	"github.com/rios0rios0/depwatch/internal/domain/entities"
	"github.com/rios0rios0/depwatch/internal/httpclient"
)

// ClientFactory opens the registry client of one command run.
// The caller owns the client and must Close it.
type ClientFactory func(ctx context.Context, settings *entities.Settings) (*httpclient.Client, error)

// NewClientFactory returns the factory used outside tests.
func NewClientFactory() ClientFactory {
	return OpenRegistryClient
}

// OpenRegistryClient builds the client with the cache backend the settings ask for:
// none, redis when a URL is configured, else a file cache.
func OpenRegistryClient(ctx context.Context, settings *entities.Settings) (*httpclient.Client, error) {
	responseCache, err := openCache(ctx, settings.Cache)
	if err != nil {
		return nil, err
	}
	return httpclient.NewClient(httpclient.Options{
		Timeout:    settings.Registry.Timeout,
		Retries:    settings.Registry.Retries,
		RetryDelay: settings.Registry.RetryDelay,
		Cache:      responseCache,
		CacheTTL:   settings.Cache.TTL,
	}), nil
}

func openCache(ctx context.Context, cfg entities.CacheSettings) (cache.Cache, error) {
	switch {
	case cfg.Disabled:
		return cache.NewNullCache(), nil
	case cfg.RedisURL != "":
		return cache.NewRedisCache(ctx, cfg.RedisURL)
	default:
		fileCache, err := cache.NewFileCache(cfg.Dir)
		if err != nil {
			logger.Warnf("Response cache disabled: %v", err)
			return cache.NewNullCache(), nil
		}
		logger.Debugf("Caching registry responses in %s", fileCache.Dir())
		return fileCache, nil
	}
}
