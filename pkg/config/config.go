// Package config loads peerplot settings from TOML files and the environment.
//
// Settings are layered: compiled defaults, then a TOML file, then
// PEERPLOT_* environment variables. Command-line flags are applied last by
// the caller. A missing config file is not an error.
//
// # File Format
//
//	[render]
//	matrix_size = 100
//	frequency_width = 160
//	frequency_height = 80
//	formats = ["svg", "png"]
//	scale = 2.0
//
//	[cache]
//	backend = "redis"          # file | redis | none
//	redis_url = "redis://localhost:6379/0"
//	ttl = "168h"
//
//	[source]
//	kind = "mongo"             # file | mongo
//	mongo_uri = "mongodb://localhost:27017"
//
//	[server]
//	addr = ":8080"
package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/peerplot/pkg/cache"
	"github.com/matzehuels/peerplot/pkg/errors"
	"github.com/matzehuels/peerplot/pkg/pipeline"
	"github.com/matzehuels/peerplot/pkg/plot"
	"github.com/matzehuels/peerplot/pkg/source"
)

const appName = "peerplot"

// FileName is the config file looked up in the working directory.
const FileName = appName + ".toml"

// Cache backends.
const (
	BackendFile  = "file"
	BackendRedis = "redis"
	BackendNone  = "none"
)

// Source kinds.
const (
	SourceFile  = "file"
	SourceMongo = "mongo"
)

// DefaultAddr is the server listen address.
const DefaultAddr = ":8080"

// Config holds every peerplot setting.
type Config struct {
	Render RenderConfig `toml:"render"`
	Cache  CacheConfig  `toml:"cache"`
	Source SourceConfig `toml:"source"`
	Server ServerConfig `toml:"server"`

	// Path is the file the config was loaded from, empty for defaults.
	Path string `toml:"-"`
}

// RenderConfig mirrors the serializable part of [pipeline.Options].
type RenderConfig struct {
	MatrixSize      float64  `toml:"matrix_size"`
	FrequencyWidth  float64  `toml:"frequency_width"`
	FrequencyHeight float64  `toml:"frequency_height"`
	Formats         []string `toml:"formats"`
	Scale           float64  `toml:"scale"`
	Animate         bool     `toml:"animate"`
	RSVG            bool     `toml:"rsvg"`
	Concurrency     int      `toml:"concurrency"`
}

// CacheConfig selects and configures the artifact cache.
type CacheConfig struct {
	Backend  string   `toml:"backend"`
	Dir      string   `toml:"dir"`
	RedisURL string   `toml:"redis_url"`
	Prefix   string   `toml:"prefix"`
	TTL      Duration `toml:"ttl"`
}

// SourceConfig selects where questions are read from.
type SourceConfig struct {
	Kind       string   `toml:"kind"`
	Path       string   `toml:"path"`
	MongoURI   string   `toml:"mongo_uri"`
	Database   string   `toml:"database"`
	Collection string   `toml:"collection"`
	Timeout    Duration `toml:"timeout"`
}

// ServerConfig configures the HTTP service.
type ServerConfig struct {
	Addr            string   `toml:"addr"`
	ReadTimeout     Duration `toml:"read_timeout"`
	ShutdownTimeout Duration `toml:"shutdown_timeout"`
}

// Duration is a time.Duration written as a Go duration string ("10m").
type Duration struct {
	time.Duration
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// Default returns the compiled-in configuration.
func Default() Config {
	return Config{
		Render: RenderConfig{
			MatrixSize:      plot.DefaultMatrixSize,
			FrequencyWidth:  plot.DefaultFrequencyWidth,
			FrequencyHeight: plot.DefaultFrequencyHeight,
			Formats:         []string{pipeline.FormatSVG},
			Scale:           pipeline.DefaultScale,
			Concurrency:     pipeline.DefaultConcurrency,
		},
		Cache: CacheConfig{
			Backend: BackendFile,
			Prefix:  appName + ":",
			TTL:     Duration{cache.TTLArtifact},
		},
		Source: SourceConfig{
			Kind:       SourceFile,
			Database:   source.DefaultMongoDatabase,
			Collection: source.DefaultMongoCollection,
			Timeout:    Duration{source.DefaultMongoTimeout},
		},
		Server: ServerConfig{
			Addr:            DefaultAddr,
			ReadTimeout:     Duration{30 * time.Second},
			ShutdownTimeout: Duration{10 * time.Second},
		},
	}
}

// Load reads the config at path, or the first file found by [Find] when
// path is empty, then applies the environment. An explicit path must exist.
func Load(path string) (Config, error) {
	if path == "" {
		path = Find()
	}
	cfg := Default()
	if path != "" {
		var err error
		if cfg, err = LoadFile(path); err != nil {
			return Config{}, err
		}
	}
	cfg.ApplyEnv(os.LookupEnv)
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// LoadFile decodes the TOML file at path over the defaults. Unknown keys are
// rejected so typos do not pass silently.
func LoadFile(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Config{}, errors.New(errors.ErrCodeFileNotFound, "config file not found: %s", path)
		}
		return Config{}, errors.Wrap(errors.ErrCodeInvalidInput, err, "read config")
	}
	md, err := toml.Decode(string(data), &cfg)
	if err != nil {
		return Config{}, errors.Wrap(errors.ErrCodeInvalidInput, err, "parse %s", path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return Config{}, errors.New(errors.ErrCodeInvalidInput, "%s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	cfg.Path = path
	return cfg, nil
}

// Find returns the first existing config file: ./peerplot.toml, then
// $XDG_CONFIG_HOME/peerplot/config.toml (~/.config when unset). It returns
// "" when there is none.
func Find() string {
	candidates := []string{FileName}
	if dir, err := Dir(); err == nil {
		candidates = append(candidates, filepath.Join(dir, "config.toml"))
	}
	for _, p := range candidates {
		if info, err := os.Stat(p); err == nil && !info.IsDir() {
			return p
		}
	}
	return ""
}

// Dir returns the peerplot config directory using the XDG standard
// (~/.config/peerplot/).
func Dir() (string, error) {
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName), nil
}

// Validate checks enumerations and render settings.
func (c Config) Validate() error {
	switch c.Cache.Backend {
	case BackendFile, BackendRedis, BackendNone:
	default:
		return errors.New(errors.ErrCodeInvalidInput, "cache backend must be file, redis or none, got %q", c.Cache.Backend)
	}
	if c.Cache.Backend == BackendRedis && c.Cache.RedisURL == "" {
		return errors.New(errors.ErrCodeInvalidInput, "cache backend redis requires redis_url")
	}
	switch c.Source.Kind {
	case SourceFile, SourceMongo:
	default:
		return errors.New(errors.ErrCodeInvalidInput, "source kind must be file or mongo, got %q", c.Source.Kind)
	}
	opts := c.PipelineOptions()
	return opts.ValidateAndSetDefaults()
}

// PipelineOptions converts the render section into pipeline options.
func (c Config) PipelineOptions() pipeline.Options {
	return pipeline.Options{
		MatrixSize:      c.Render.MatrixSize,
		FrequencyWidth:  c.Render.FrequencyWidth,
		FrequencyHeight: c.Render.FrequencyHeight,
		Formats:         append([]string(nil), c.Render.Formats...),
		Scale:           c.Render.Scale,
		Animate:         c.Render.Animate,
		RSVG:            c.Render.RSVG,
		Concurrency:     c.Render.Concurrency,
	}
}
