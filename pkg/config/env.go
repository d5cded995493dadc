package config

import (
	"strconv"
	"strings"
	"time"
)

// Environment variables read by [Config.ApplyEnv].
const (
	EnvFormats         = "PEERPLOT_FORMATS"
	EnvCacheBackend    = "PEERPLOT_CACHE"
	EnvCacheDir        = "PEERPLOT_CACHE_DIR"
	EnvCacheTTL        = "PEERPLOT_CACHE_TTL"
	EnvRedisURL        = "PEERPLOT_REDIS_URL"
	EnvSource          = "PEERPLOT_SOURCE"
	EnvSourcePath      = "PEERPLOT_SOURCE_PATH"
	EnvMongoURI        = "PEERPLOT_MONGO_URI"
	EnvMongoDatabase   = "PEERPLOT_MONGO_DATABASE"
	EnvMongoCollection = "PEERPLOT_MONGO_COLLECTION"
	EnvAddr            = "PEERPLOT_ADDR"
	EnvConcurrency     = "PEERPLOT_CONCURRENCY"
)

// ApplyEnv overrides settings from the environment. lookup is usually
// os.LookupEnv. Unparseable numeric or duration values are ignored.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) {
	str := func(key string, dst *string) {
		if v, ok := lookup(key); ok && v != "" {
			*dst = v
		}
	}

	if v, ok := lookup(EnvFormats); ok && v != "" {
		var formats []string
		for _, f := range strings.Split(v, ",") {
			if f = strings.TrimSpace(f); f != "" {
				formats = append(formats, strings.ToLower(f))
			}
		}
		c.Render.Formats = formats
	}
	if v, ok := lookup(EnvConcurrency); ok {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			c.Render.Concurrency = n
		}
	}

	str(EnvCacheBackend, &c.Cache.Backend)
	str(EnvCacheDir, &c.Cache.Dir)
	str(EnvRedisURL, &c.Cache.RedisURL)
	if v, ok := lookup(EnvCacheTTL); ok {
		if d, err := time.ParseDuration(v); err == nil {
			c.Cache.TTL = Duration{d}
		}
	}

	str(EnvSource, &c.Source.Kind)
	str(EnvSourcePath, &c.Source.Path)
	str(EnvMongoURI, &c.Source.MongoURI)
	str(EnvMongoDatabase, &c.Source.Database)
	str(EnvMongoCollection, &c.Source.Collection)

	str(EnvAddr, &c.Server.Addr)
}
