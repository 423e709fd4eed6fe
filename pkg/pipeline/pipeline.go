// Package pipeline turns JSON text into a laid-out tree and renders it.
//
// This package implements the parse → build → layout → render pipeline that
// the CLI, the terminal browser and the browser server share, so that every
// entry point reports the same errors and hits the same caches.
//
// # Architecture
//
// The pipeline consists of four stages:
//
//  1. Parse: read one JSON value, keeping member order and number spelling
//  2. Build: turn the value into a tree of nodes and edges
//  3. Layout: assign node positions with a registered layout engine
//  4. Render: draw the positioned tree as SVG, PNG, PDF, DOT or JSON
//
// Layout positions and rendered artifacts are cached; building is cheap and
// always redone, so a cache hit restores positions onto a fresh tree.
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	res, err := runner.Generate(ctx, data, pipeline.Options{})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	png, err := runner.Render(ctx, res, pipeline.RenderOptions{Format: render.FormatPNG})
package pipeline

import (
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/jsontree/pkg/cache"
	"github.com/matzehuels/jsontree/pkg/layout"
	"github.com/matzehuels/jsontree/pkg/render"
	"github.com/matzehuels/jsontree/pkg/tree"
)

// =============================================================================
// Default Values
// =============================================================================

const (
	// DefaultLayoutTTL is how long computed positions stay cached.
	DefaultLayoutTTL = 7 * 24 * time.Hour

	// DefaultArtifactTTL is how long rendered images stay cached.
	DefaultArtifactTTL = 24 * time.Hour
)

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options configures a generation.
type Options struct {
	// Engine names the layout engine; empty selects layout.DefaultEngine.
	Engine string `json:"engine,omitempty"`
	// Layout holds the box geometry and direction.
	Layout layout.Options `json:"layout"`
	// Refresh skips the layout cache lookup but still stores the result.
	Refresh bool `json:"refresh,omitempty"`

	// Logger receives stage logs. Runtime only.
	Logger *log.Logger `json:"-"`
}

// WithDefaults returns opts with defaults filled in.
func (o Options) WithDefaults() Options {
	if o.Engine == "" {
		o.Engine = layout.DefaultEngine
	}
	o.Layout = o.Layout.WithDefaults()
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return o
}

// Validate checks the engine name and the layout options.
func (o Options) Validate() error {
	if _, err := layout.New(o.Engine); err != nil {
		return err
	}
	return o.Layout.Validate()
}

// LayoutKeyOpts returns cache key options for layout computation.
func (o Options) LayoutKeyOpts() cache.LayoutKeyOpts {
	return cache.LayoutKeyOpts{
		Engine:     o.Engine,
		Direction:  string(o.Layout.Direction),
		NodeWidth:  o.Layout.NodeWidth,
		NodeHeight: o.Layout.NodeHeight,
		NodeSep:    o.Layout.NodeSep,
		RankSep:    o.Layout.RankSep,
	}
}

// RenderOptions configures an export.
type RenderOptions struct {
	Format render.Format `json:"format"`
	Theme  render.Theme  `json:"theme,omitempty"`
	// Graphviz hands SVG and PNG output to Graphviz dot, which lays the tree
	// out again and draws it in its own style. Other formats ignore it.
	Graphviz bool `json:"graphviz,omitempty"`
}

// =============================================================================
// Results
// =============================================================================

// Result is one generation.
type Result struct {
	// Graph is the laid-out tree.
	Graph *tree.Graph

	// GenerationID identifies this generation in logs and API responses.
	GenerationID string

	// InputHash is the SHA-256 of the JSON text.
	InputHash string

	// LayoutHash identifies the positions; artifact cache keys derive from it.
	LayoutHash string

	// Options are the options the generation ran with, defaults applied.
	Options Options

	// Stats contains timing and size information.
	Stats Stats

	// CacheHit reports whether the positions came from the cache.
	CacheHit bool
}

// Stats contains generation statistics.
type Stats struct {
	NodeCount  int           `json:"node_count"`
	EdgeCount  int           `json:"edge_count"`
	ParseTime  time.Duration `json:"parse_time"`
	BuildTime  time.Duration `json:"build_time"`
	LayoutTime time.Duration `json:"layout_time"`
}

// Snapshot returns a copy of r whose graph can be read while the original
// is being searched.
func (r *Result) Snapshot() *Result {
	s := *r
	s.Graph = r.Graph.Clone()
	return &s
}
