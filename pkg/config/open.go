package config

import (
	"context"

	"github.com/matzehuels/peerplot/pkg/cache"
	"github.com/matzehuels/peerplot/pkg/errors"
	"github.com/matzehuels/peerplot/pkg/source"
)

// OpenCache returns the configured artifact cache. The file backend uses
// [cache.DefaultDir] when Dir is empty.
func (c CacheConfig) OpenCache(ctx context.Context) (cache.Cache, error) {
	switch c.Backend {
	case BackendNone:
		return cache.NewNullCache(), nil
	case BackendRedis:
		rc, err := cache.NewRedisCache(ctx, cache.RedisConfig{URL: c.RedisURL, Prefix: c.Prefix})
		if err != nil {
			return nil, err
		}
		return rc, nil
	default:
		dir := c.Dir
		if dir == "" {
			var err error
			if dir, err = cache.DefaultDir(); err != nil {
				return nil, err
			}
		}
		fc, err := cache.NewFileCache(dir)
		if err != nil {
			return nil, err
		}
		return fc, nil
	}
}

// OpenSource returns the configured question source. A file source needs
// a path, either from the config or from the caller.
func (s SourceConfig) OpenSource(ctx context.Context) (source.Source, error) {
	switch s.Kind {
	case SourceMongo:
		m, err := source.NewMongo(ctx, source.MongoConfig{
			URI:        s.MongoURI,
			Database:   s.Database,
			Collection: s.Collection,
			Timeout:    s.Timeout.Duration,
		})
		if err != nil {
			return nil, err
		}
		return m, nil
	default:
		if s.Path == "" {
			return nil, errors.New(errors.ErrCodeInvalidInput, "file source requires a path")
		}
		return source.NewFile(s.Path), nil
	}
}
