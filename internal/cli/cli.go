// Package cli implements the jsontree command-line interface.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/jsontree/pkg/buildinfo"
	"github.com/matzehuels/jsontree/pkg/cache"
	"github.com/matzehuels/jsontree/pkg/config"
	"github.com/matzehuels/jsontree/pkg/layout"
	"github.com/matzehuels/jsontree/pkg/observability"
	"github.com/matzehuels/jsontree/pkg/pipeline"
	"github.com/matzehuels/jsontree/pkg/render"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for directories and display.
const appName = "jsontree"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	configPath string
	verbose    bool
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           appName,
		Short:         "jsontree draws JSON documents as node trees",
		Long:          `jsontree turns a JSON document into a tree of nodes, one per value, arranged by a layered layout. Render it to SVG, PNG, PDF or DOT, search it by path, browse it in the terminal, or serve it to the browser.`,
		Version:       buildinfo.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if c.verbose {
				c.SetLogLevel(LogDebug)
				observability.SetPipelineHooks(observability.NewLogHooks(c.Logger))
				observability.SetCacheHooks(observability.NewLogHooks(c.Logger))
			}
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "enable verbose logging")
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default $XDG_CONFIG_HOME/jsontree/config.toml)")

	// Register all subcommands
	root.AddCommand(c.generateCommand())
	root.AddCommand(c.searchCommand())
	root.AddCommand(c.nodesCommand())
	root.AddCommand(c.browseCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.configCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Configuration
// =============================================================================

// loadConfig reads the --config file, or the default one if it exists.
func (c *CLI) loadConfig() (config.Config, error) {
	return config.Load(c.configPath)
}

// layoutFlags are the generation flags shared by the commands that build a
// tree. Empty values leave the configuration alone.
type layoutFlags struct {
	engine    string
	direction string
	theme     string
	noCache   bool
	refresh   bool
}

func (f *layoutFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.engine, "engine", "", "layout engine: layered (default), graphviz")
	cmd.Flags().StringVarP(&f.direction, "direction", "d", "", "tree direction: LR (default), TB, RL, BT")
	cmd.Flags().StringVar(&f.theme, "theme", "", "theme: light (default), dark")
	cmd.Flags().BoolVar(&f.noCache, "no-cache", false, "disable the layout cache")
	cmd.Flags().BoolVar(&f.refresh, "refresh", false, "recompute the layout even if cached")
}

// apply overrides cfg with the flags that were set.
func (f *layoutFlags) apply(cfg *config.Config) error {
	if f.engine != "" {
		if _, err := layout.New(f.engine); err != nil {
			return err
		}
		cfg.Layout.Engine = f.engine
	}
	if f.direction != "" {
		d, err := layout.ParseDirection(f.direction)
		if err != nil {
			return err
		}
		cfg.Layout.Direction = d
	}
	if f.theme != "" {
		t, err := render.ParseTheme(f.theme)
		if err != nil {
			return err
		}
		cfg.UI.Theme = string(t)
	}
	if f.noCache {
		cfg.Cache.Backend = config.BackendNone
	}
	return nil
}

// setup loads the configuration, applies the flags and builds a runner.
func (c *CLI) setup(ctx context.Context, f *layoutFlags) (config.Config, *pipeline.Runner, error) {
	cfg, err := c.loadConfig()
	if err != nil {
		return cfg, nil, err
	}
	if err := f.apply(&cfg); err != nil {
		return cfg, nil, err
	}
	runner, err := c.newRunner(ctx, cfg)
	if err != nil {
		return cfg, nil, err
	}
	return cfg, runner, nil
}

// pipelineOptions returns the generation options for cfg.
func (c *CLI) pipelineOptions(cfg config.Config, refresh bool) pipeline.Options {
	return pipeline.Options{
		Engine:  cfg.Layout.Engine,
		Layout:  cfg.LayoutOptions(),
		Refresh: refresh,
		Logger:  c.Logger,
	}
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner backed by the configured cache.
func (c *CLI) newRunner(ctx context.Context, cfg config.Config) (*pipeline.Runner, error) {
	store, keyer, err := newCache(ctx, cfg.Cache)
	if err != nil {
		return nil, err
	}
	r := pipeline.NewRunner(store, keyer, c.Logger)
	if ttl := cfg.Cache.TTL.Duration; ttl > 0 {
		r.LayoutTTL = ttl
	}
	return r, nil
}

// newCache opens the cache backend. Redis keys are scoped to the build
// version, since a shared server may outlive several releases.
func newCache(ctx context.Context, cc config.CacheConfig) (cache.Cache, cache.Keyer, error) {
	switch cc.Backend {
	case config.BackendNone:
		return cache.NewNullCache(), nil, nil
	case config.BackendRedis:
		rc, err := cache.NewRedisCache(ctx, cache.RedisOptions{
			Addr:     cc.RedisAddr,
			Password: cc.RedisPassword,
			DB:       cc.RedisDB,
		})
		if err != nil {
			return nil, nil, fmt.Errorf("connect redis %s: %w", cc.RedisAddr, err)
		}
		return rc, cache.NewScopedKeyer(cache.NewDefaultKeyer(), buildinfo.CachePrefix()), nil
	}

	dir := cc.Dir
	if dir == "" {
		d, err := cacheDir()
		if err != nil {
			return cache.NewNullCache(), nil, nil
		}
		dir = d
	}
	fc, err := cache.NewFileCache(dir)
	if err != nil {
		return nil, nil, err
	}
	return fc, nil, nil
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/jsontree/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}
