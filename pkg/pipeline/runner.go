package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/jsontree/pkg/cache"
	"github.com/matzehuels/jsontree/pkg/observability"
	"github.com/matzehuels/jsontree/pkg/render"
	"github.com/matzehuels/jsontree/pkg/tree"
)

// Runner encapsulates pipeline execution with caching.
// The CLI, the terminal browser and the server all generate through it.
//
// The Runner is stateless except for the cache and logger - it doesn't
// store results. Multiple goroutines can safely use the same Runner with
// different options.
type Runner struct {
	Cache       cache.Cache
	Keyer       cache.Keyer
	Logger      *log.Logger
	LayoutTTL   time.Duration
	ArtifactTTL time.Duration
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:       c,
		Keyer:       keyer,
		Logger:      logger,
		LayoutTTL:   DefaultLayoutTTL,
		ArtifactTTL: DefaultArtifactTTL,
	}
}

// Generate parses data, builds the tree and lays it out. Parse failures
// are returned unchanged so callers can show the parser diagnostic.
func (r *Runner) Generate(ctx context.Context, data []byte, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	opts = opts.WithDefaults()
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	res := &Result{
		GenerationID: uuid.NewString(),
		InputHash:    cache.Hash(data),
		Options:      opts,
	}
	logger := r.Logger.With("generation", res.GenerationID)

	// Stage 1: Parse
	parseStart := time.Now()
	v, err := Parse(data)
	res.Stats.ParseTime = time.Since(parseStart)
	if err != nil {
		observability.Pipeline().OnParseComplete(ctx, len(data), 0, res.Stats.ParseTime, err)
		return nil, err
	}

	// Stage 2: Build
	buildStart := time.Now()
	g := tree.Build(v)
	res.Stats.BuildTime = time.Since(buildStart)
	res.Graph = g
	res.Stats.NodeCount = len(g.Nodes)
	res.Stats.EdgeCount = len(g.Edges)
	observability.Pipeline().OnParseComplete(ctx, len(data), g.Len(), res.Stats.ParseTime, nil)

	logger.Debug("built tree",
		"nodes", res.Stats.NodeCount,
		"edges", res.Stats.EdgeCount,
		"parse", res.Stats.ParseTime,
		"build", res.Stats.BuildTime)

	// Stage 3: Layout
	layoutStart := time.Now()
	hit, err := r.layoutWithCache(ctx, res, opts)
	if err != nil {
		return nil, fmt.Errorf("layout: %w", err)
	}
	res.Stats.LayoutTime = time.Since(layoutStart)
	res.CacheHit = hit

	logger.Info("generated tree",
		"nodes", res.Stats.NodeCount,
		"engine", opts.Engine,
		"cached", hit,
		"duration", res.Stats.ParseTime+res.Stats.BuildTime+res.Stats.LayoutTime)

	return res, nil
}

// layoutWithCache restores cached positions onto res.Graph or computes and
// caches them. It sets res.LayoutHash and reports whether the cache hit.
func (r *Runner) layoutWithCache(ctx context.Context, res *Result, opts Options) (bool, error) {
	key := r.Keyer.LayoutKey(res.InputHash, opts.LayoutKeyOpts())

	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
			if err := applyPositions(res.Graph, data); err == nil {
				observability.Cache().OnCacheHit(ctx, "layout")
				res.LayoutHash = cache.Hash(append([]byte(res.InputHash), data...))
				return true, nil
			}
			// If deserialization fails, fall through to recompute
		} else if err != nil {
			r.Logger.Warn("layout cache read failed", "err", err)
		}
		observability.Cache().OnCacheMiss(ctx, "layout")
	}

	if g := res.Graph; !g.IsEmpty() {
		observability.Pipeline().OnLayoutStart(ctx, opts.Engine, g.Len())
	}
	start := time.Now()
	err := Layout(ctx, res.Graph, opts)
	observability.Pipeline().OnLayoutComplete(ctx, opts.Engine, time.Since(start), err)
	if err != nil {
		return false, err
	}

	data, err := marshalPositions(res.Graph)
	if err != nil {
		return false, fmt.Errorf("encode positions: %w", err)
	}
	res.LayoutHash = cache.Hash(append([]byte(res.InputHash), data...))
	if err := r.Cache.Set(ctx, key, data, r.LayoutTTL); err != nil {
		r.Logger.Warn("layout cache write failed", "err", err)
	} else {
		observability.Cache().OnCacheSet(ctx, "layout", len(data))
	}
	return false, nil
}

// RenderWithCacheInfo renders res in the requested format with caching and
// returns cache hit info. The key covers the positions, the theme and the
// highlighted nodes.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, res *Result, opts RenderOptions) ([]byte, bool, error) {
	if opts.Theme == "" {
		opts.Theme = render.ThemeLight
	}
	observability.Pipeline().OnExportStart(ctx, string(opts.Format))
	start := time.Now()

	key := r.Keyer.ArtifactKey(res.LayoutHash, cache.ArtifactKeyOpts{
		Format:   string(opts.Format),
		Theme:    string(opts.Theme),
		States:   statesDigest(res.Graph),
		Graphviz: opts.Graphviz,
	})
	if res.LayoutHash != "" {
		if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
			observability.Cache().OnCacheHit(ctx, "artifact")
			observability.Pipeline().OnExportComplete(ctx, string(opts.Format), len(data), time.Since(start), nil)
			return data, true, nil
		}
		observability.Cache().OnCacheMiss(ctx, "artifact")
	}

	data, err := Render(ctx, res.Graph, res.Options.Layout, opts)
	observability.Pipeline().OnExportComplete(ctx, string(opts.Format), len(data), time.Since(start), err)
	if err != nil {
		return nil, false, err
	}

	if res.LayoutHash != "" {
		if err := r.Cache.Set(ctx, key, data, r.ArtifactTTL); err == nil {
			observability.Cache().OnCacheSet(ctx, "artifact", len(data))
		}
	}
	return data, false, nil
}

// Render is a convenience wrapper that calls RenderWithCacheInfo and
// discards the cache hit info.
func (r *Runner) Render(ctx context.Context, res *Result, opts RenderOptions) ([]byte, error) {
	data, _, err := r.RenderWithCacheInfo(ctx, res, opts)
	return data, err
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
