// Package config loads the jsontree configuration file.
//
// The file is TOML, read from $XDG_CONFIG_HOME/jsontree/config.toml (or
// ~/.config/jsontree/config.toml) unless a path is given explicitly:
//
//	[layout]
//	engine = "layered"
//	direction = "LR"
//	node_width = 140
//
//	[server]
//	addr = "127.0.0.1:8080"
//	shutdown_timeout = "5s"
//
//	[cache]
//	backend = "redis"
//	redis_addr = "localhost:6379"
//	ttl = "24h"
//
//	[ui]
//	theme = "dark"
//
// Missing keys keep their defaults. Command-line flags override the file,
// and JSONTREE_REDIS_ADDR overrides cache.redis_addr.
package config

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"

	apperrors "github.com/matzehuels/jsontree/pkg/errors"
	"github.com/matzehuels/jsontree/pkg/layout"
	"github.com/matzehuels/jsontree/pkg/render"
)

const appName = "jsontree"

// EnvRedisAddr overrides [CacheConfig.RedisAddr] when set.
const EnvRedisAddr = "JSONTREE_REDIS_ADDR"

// Cache backends.
const (
	BackendFile  = "file"
	BackendRedis = "redis"
	BackendNone  = "none"
)

// Config is the complete configuration.
type Config struct {
	Layout LayoutConfig `toml:"layout"`
	Server ServerConfig `toml:"server"`
	Cache  CacheConfig  `toml:"cache"`
	UI     UIConfig     `toml:"ui"`
}

// LayoutConfig selects the layout engine and its geometry.
type LayoutConfig struct {
	Engine string `toml:"engine"`
	layout.Options
}

// ServerConfig configures `jsontree serve`.
type ServerConfig struct {
	Addr              string   `toml:"addr"`
	ReadHeaderTimeout Duration `toml:"read_header_timeout"`
	ShutdownTimeout   Duration `toml:"shutdown_timeout"`
}

// CacheConfig selects the layout cache backend.
type CacheConfig struct {
	Backend       string   `toml:"backend"`
	Dir           string   `toml:"dir,omitempty"`
	RedisAddr     string   `toml:"redis_addr,omitempty"`
	RedisPassword string   `toml:"redis_password,omitempty"`
	RedisDB       int      `toml:"redis_db"`
	TTL           Duration `toml:"ttl"`
}

// UIConfig holds presentation defaults.
type UIConfig struct {
	Theme string `toml:"theme"`
}

// Duration is a time.Duration written as a string such as "5s" in TOML.
type Duration struct {
	time.Duration
}

// MarshalText implements [encoding.TextMarshaler].
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// UnmarshalText implements [encoding.TextUnmarshaler].
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Layout: LayoutConfig{
			Engine:  layout.DefaultEngine,
			Options: layout.DefaultOptions(),
		},
		Server: ServerConfig{
			Addr:              "127.0.0.1:8080",
			ReadHeaderTimeout: Duration{10 * time.Second},
			ShutdownTimeout:   Duration{5 * time.Second},
		},
		Cache: CacheConfig{
			Backend: BackendFile,
			TTL:     Duration{7 * 24 * time.Hour},
		},
		UI: UIConfig{Theme: string(render.ThemeLight)},
	}
}

// Dir returns the jsontree configuration directory.
func Dir() (string, error) {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName), nil
}

// DefaultPath returns the path of the default configuration file.
func DefaultPath() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// Load reads the configuration at path over the defaults. An empty path
// means the default location, where a missing file is not an error; an
// explicitly named file must exist.
func Load(path string) (Config, error) {
	cfg := Default()
	explicit := path != ""
	if !explicit {
		p, err := DefaultPath()
		if err != nil {
			return cfg, cfg.finish()
		}
		path = p
	}

	md, err := toml.DecodeFile(path, &cfg)
	switch {
	case err == nil:
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			return Config{}, apperrors.New(apperrors.ErrCodeInvalidConfig, "%s: unknown key %q", path, undecoded[0].String())
		}
	case errors.Is(err, fs.ErrNotExist) && !explicit:
	default:
		return Config{}, apperrors.Wrap(apperrors.ErrCodeInvalidConfig, err, "read %s", path)
	}
	return cfg, cfg.finish()
}

// Decode parses TOML text over the defaults. It does not consult the
// environment.
func Decode(text string) (Config, error) {
	cfg := Default()
	if _, err := toml.Decode(text, &cfg); err != nil {
		return Config{}, apperrors.Wrap(apperrors.ErrCodeInvalidConfig, err, "decode config")
	}
	return cfg, cfg.Validate()
}

func (c *Config) finish() error {
	if addr := os.Getenv(EnvRedisAddr); addr != "" {
		c.Cache.RedisAddr = addr
	}
	return c.Validate()
}

// Validate checks every section, reporting the first problem as an
// INVALID_CONFIG error. Engine names are resolved later by [layout.New],
// since engines register themselves from their own packages.
func (c Config) Validate() error {
	invalid := func(err error) error {
		return apperrors.Wrap(apperrors.ErrCodeInvalidConfig, err, "invalid configuration")
	}
	if c.Layout.Engine == "" {
		return invalid(fmt.Errorf("layout.engine is required"))
	}
	if err := c.LayoutOptions().Validate(); err != nil {
		return invalid(err)
	}
	if _, err := render.ParseTheme(c.UI.Theme); err != nil {
		return invalid(err)
	}
	switch c.Cache.Backend {
	case BackendFile, BackendNone:
	case BackendRedis:
		if c.Cache.RedisAddr == "" {
			return invalid(fmt.Errorf("cache.redis_addr is required for the redis backend"))
		}
	default:
		return invalid(fmt.Errorf("unknown cache backend %q (want file, redis or none)", c.Cache.Backend))
	}
	if c.Cache.TTL.Duration < 0 {
		return invalid(fmt.Errorf("cache.ttl must not be negative"))
	}
	if c.Server.Addr == "" {
		return invalid(fmt.Errorf("server.addr is required"))
	}
	return nil
}

// LayoutOptions returns the layout options with defaults filled in.
func (c Config) LayoutOptions() layout.Options {
	return c.Layout.Options.WithDefaults()
}

// Write encodes c as TOML.
func (c Config) Write(w io.Writer) error {
	return toml.NewEncoder(w).Encode(c)
}
