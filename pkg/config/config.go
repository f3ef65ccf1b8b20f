// Package config loads procmap settings from a TOML file.
//
// Every section is optional; missing keys keep their defaults:
//
//	[layout]
//	width = 176
//	height = 46
//	gap = 50
//	fake_width = 20
//
//	[colors]
//	primary = "#A5BFDD"
//
//	[cache]
//	backend = "redis"        # none, file or redis
//	redis_addr = "localhost:6379"
//	ttl = "168h"
//
//	[store]
//	backend = "mongo"        # memory, file or mongo
//	uri = "mongodb://localhost:27017"
//
//	[server]
//	addr = ":8080"
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	perrors "github.com/matzehuels/procmap/pkg/errors"
	"github.com/matzehuels/procmap/pkg/layout"
)

// FileName is the name of the configuration file below the config directory.
const FileName = "config.toml"

// Cache backends.
const (
	CacheNone  = "none"
	CacheFile  = "file"
	CacheRedis = "redis"
)

// Store backends.
const (
	StoreMemory = "memory"
	StoreFile   = "file"
	StoreMongo  = "mongo"
)

// Config is the complete procmap configuration.
type Config struct {
	Layout  layout.Rect    `toml:"layout"`
	Colors  layout.Palette `toml:"colors"`
	Markers layout.Palette `toml:"markers"`
	Cache   CacheConfig    `toml:"cache"`
	Store   StoreConfig    `toml:"store"`
	Server  ServerConfig   `toml:"server"`
}

// CacheConfig selects and configures the cache backend.
type CacheConfig struct {
	Backend       string   `toml:"backend"`
	Dir           string   `toml:"dir"`
	RedisAddr     string   `toml:"redis_addr"`
	RedisPassword string   `toml:"redis_password"`
	RedisDB       int      `toml:"redis_db"`
	Prefix        string   `toml:"prefix"`
	TTL           Duration `toml:"ttl"`
}

// StoreConfig selects and configures where saved layouts live.
type StoreConfig struct {
	Backend    string   `toml:"backend"`
	Dir        string   `toml:"dir"`
	URI        string   `toml:"uri"`
	Database   string   `toml:"database"`
	Collection string   `toml:"collection"`
	TTL        Duration `toml:"ttl"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Addr         string   `toml:"addr"`
	MaxBodyBytes int64    `toml:"max_body_bytes"`
	ReadTimeout  Duration `toml:"read_timeout"`
	WriteTimeout Duration `toml:"write_timeout"`
}

// Duration is a time.Duration written as a Go duration string ("90s").
type Duration struct{ time.Duration }

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

// Default returns the configuration used when no file exists.
func Default() Config {
	return Config{
		Layout:  layout.DefaultRect(),
		Colors:  layout.DefaultColors(),
		Markers: layout.DefaultMarkers(),
		Cache: CacheConfig{
			Backend: CacheFile,
			TTL:     Duration{7 * 24 * time.Hour},
		},
		Store: StoreConfig{
			Backend:    StoreMemory,
			Database:   "procmap",
			Collection: "layouts",
			TTL:        Duration{30 * 24 * time.Hour},
		},
		Server: ServerConfig{
			Addr:         ":8080",
			MaxBodyBytes: 8 << 20,
			ReadTimeout:  Duration{30 * time.Second},
			WriteTimeout: Duration{60 * time.Second},
		},
	}
}

// Dir returns the procmap config directory, honoring XDG_CONFIG_HOME.
func Dir() (string, error) {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "procmap"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "procmap"), nil
}

// Load reads the configuration at path. An empty path loads the default
// location, and a missing default file yields Default(). An explicit path
// must exist.
func Load(path string) (Config, error) {
	explicit := path != ""
	if !explicit {
		dir, err := Dir()
		if err != nil {
			return Default(), nil
		}
		path = filepath.Join(dir, FileName)
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) && !explicit {
		return Default(), nil
	}
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Config{}, perrors.Wrap(perrors.ErrCodeFileNotFound, err, "config file not found: %s", path)
		}
		return Config{}, perrors.Wrap(perrors.ErrCodeInvalidConfig, err, "read config %s", path)
	}
	cfg, err := Parse(string(data))
	if err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Parse decodes TOML text over the defaults and validates the result.
// Unknown keys are rejected.
func Parse(text string) (Config, error) {
	cfg := Default()
	md, err := toml.Decode(text, &cfg)
	if err != nil {
		return Config{}, perrors.Wrap(perrors.ErrCodeInvalidConfig, err, "parse config")
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return Config{}, perrors.New(perrors.ErrCodeInvalidConfig, "unknown config keys: %s", strings.Join(keys, ", "))
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate rejects non-positive geometry, unknown backends and backends
// missing their connection settings.
func (c Config) Validate() error {
	r := c.Layout
	for _, f := range []struct {
		name string
		v    float64
	}{
		{"width", r.Width}, {"height", r.Height}, {"gap", r.Gap}, {"fake_width", r.FakeWidth},
	} {
		if f.v <= 0 {
			return perrors.New(perrors.ErrCodeInvalidConfig, "layout.%s must be positive, got %v", f.name, f.v)
		}
	}

	if !slices.Contains([]string{CacheNone, CacheFile, CacheRedis}, c.Cache.Backend) {
		return perrors.New(perrors.ErrCodeInvalidConfig, "unknown cache backend %q", c.Cache.Backend)
	}
	if c.Cache.Backend == CacheRedis && c.Cache.RedisAddr == "" {
		return perrors.New(perrors.ErrCodeInvalidConfig, "cache.redis_addr is required for the redis backend")
	}
	if c.Cache.TTL.Duration < 0 {
		return perrors.New(perrors.ErrCodeInvalidConfig, "cache.ttl cannot be negative")
	}

	if !slices.Contains([]string{StoreMemory, StoreFile, StoreMongo}, c.Store.Backend) {
		return perrors.New(perrors.ErrCodeInvalidConfig, "unknown store backend %q", c.Store.Backend)
	}
	if c.Store.Backend == StoreMongo && c.Store.URI == "" {
		return perrors.New(perrors.ErrCodeInvalidConfig, "store.uri is required for the mongo backend")
	}
	if c.Store.TTL.Duration < 0 {
		return perrors.New(perrors.ErrCodeInvalidConfig, "store.ttl cannot be negative")
	}

	if c.Server.MaxBodyBytes <= 0 {
		return perrors.New(perrors.ErrCodeInvalidConfig, "server.max_body_bytes must be positive")
	}
	return nil
}

// LayoutOptions returns the engine options carried by the configuration.
func (c Config) LayoutOptions() []layout.Option {
	return []layout.Option{
		layout.WithRect(c.Layout),
		layout.WithColors(c.Colors),
		layout.WithMarkers(c.Markers),
	}
}

func (c Config) String() string {
	return fmt.Sprintf("cache=%s store=%s addr=%s", c.Cache.Backend, c.Store.Backend, c.Server.Addr)
}
