// Package layout assigns coordinates to the nodes of a [tree.Graph].
//
// # Engines
//
// A layout [Engine] takes a built graph and writes [tree.Node.Position] for
// every node. Two engines are registered:
//
//   - "layered" (the default): a built-in Sugiyama-style layered layout
//   - "graphviz": Graphviz dot, run in-process through go-graphviz
//
// Engines are looked up by name with [New]:
//
//	eng, err := layout.New("layered")
//	err = eng.Layout(ctx, g, layout.DefaultOptions())
//
// # Geometry
//
// Every node is a box of NodeWidth x NodeHeight. Positions are the top-left
// corner of the box, so the box centre is Position + size/2. Ranks follow the
// primary axis given by [Direction]: with LR the root is leftmost and
// children lie to its right; siblings are spread along the cross axis.
//
// Coordinates have no fixed origin. Renderers fit the viewport afterwards
// using [tree.Graph.Bounds].
package layout

import (
	"context"
	"fmt"
	"slices"
	"sort"
	"strings"
	"sync"

	apperrors "github.com/matzehuels/jsontree/pkg/errors"
	"github.com/matzehuels/jsontree/pkg/tree"
)

// Engine assigns a position to every node of a graph.
type Engine interface {
	// Name returns the registry name of the engine.
	Name() string
	// Layout sets Position on every node of g. It must not change anything
	// else about the graph.
	Layout(ctx context.Context, g *tree.Graph, opts Options) error
}

// DefaultEngine is the engine used when none is configured.
const DefaultEngine = "layered"

var (
	registryMu sync.RWMutex
	registry   = map[string]func() Engine{}
)

// Register makes an engine available under name. It panics if name is
// already registered. Engine packages call it from init.
func Register(name string, factory func() Engine) {
	registryMu.Lock()
	defer registryMu.Unlock()
	if _, dup := registry[name]; dup {
		panic("layout: engine registered twice: " + name)
	}
	registry[name] = factory
}

// New returns a fresh engine registered under name. An empty name selects
// [DefaultEngine].
func New(name string) (Engine, error) {
	if name == "" {
		name = DefaultEngine
	}
	registryMu.RLock()
	factory, ok := registry[strings.ToLower(name)]
	registryMu.RUnlock()
	if !ok {
		return nil, apperrors.New(apperrors.ErrCodeUnknownEngine,
			"unknown layout engine %q (available: %s)", name, strings.Join(Engines(), ", "))
	}
	return factory(), nil
}

// Engines returns the names of the registered engines in sorted order.
func Engines() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Direction is the orientation of the primary (rank) axis.
type Direction string

const (
	LeftRight  Direction = "LR"
	TopBottom  Direction = "TB"
	RightLeft  Direction = "RL"
	BottomTop  Direction = "BT"
	DefaultDir           = LeftRight
)

var directions = []Direction{LeftRight, TopBottom, RightLeft, BottomTop}

// ParseDirection parses a direction name, case-insensitively. An empty
// string yields [DefaultDir].
func ParseDirection(s string) (Direction, error) {
	if s == "" {
		return DefaultDir, nil
	}
	d := Direction(strings.ToUpper(strings.TrimSpace(s)))
	if !slices.Contains(directions, d) {
		return "", apperrors.New(apperrors.ErrCodeInvalidDirection,
			"invalid direction %q (want LR, TB, RL or BT)", s)
	}
	return d, nil
}

// Horizontal reports whether ranks advance along the x axis.
func (d Direction) Horizontal() bool { return d == LeftRight || d == RightLeft }

// Reversed reports whether ranks advance towards negative coordinates.
func (d Direction) Reversed() bool { return d == RightLeft || d == BottomTop }

// Options configures a layout run. Sizes are in layout units (pixels in the
// browser page).
type Options struct {
	Direction  Direction `json:"direction" toml:"direction"`
	NodeWidth  float64   `json:"node_width" toml:"node_width"`
	NodeHeight float64   `json:"node_height" toml:"node_height"`
	NodeSep    float64   `json:"node_sep" toml:"node_sep"`
	RankSep    float64   `json:"rank_sep" toml:"rank_sep"`
}

// Default geometry.
const (
	DefaultNodeWidth  = 140
	DefaultNodeHeight = 60
	DefaultNodeSep    = 30
	DefaultRankSep    = 60
)

// DefaultOptions returns left-to-right options with the default geometry.
func DefaultOptions() Options {
	return Options{
		Direction:  DefaultDir,
		NodeWidth:  DefaultNodeWidth,
		NodeHeight: DefaultNodeHeight,
		NodeSep:    DefaultNodeSep,
		RankSep:    DefaultRankSep,
	}
}

// WithDefaults returns opts with every zero field replaced by its default
// and a recognised direction in canonical upper case.
func (o Options) WithDefaults() Options {
	d := DefaultOptions()
	if dir, err := ParseDirection(string(o.Direction)); err == nil {
		o.Direction = dir
	}
	if o.NodeWidth == 0 {
		o.NodeWidth = d.NodeWidth
	}
	if o.NodeHeight == 0 {
		o.NodeHeight = d.NodeHeight
	}
	if o.NodeSep == 0 {
		o.NodeSep = d.NodeSep
	}
	if o.RankSep == 0 {
		o.RankSep = d.RankSep
	}
	return o
}

// Validate checks that the direction is known and sizes are positive.
func (o Options) Validate() error {
	if _, err := ParseDirection(string(o.Direction)); err != nil {
		return err
	}
	if o.NodeWidth <= 0 || o.NodeHeight <= 0 {
		return apperrors.New(apperrors.ErrCodeInvalidConfig, "node size must be positive (got %gx%g)", o.NodeWidth, o.NodeHeight)
	}
	if o.NodeSep < 0 || o.RankSep < 0 {
		return apperrors.New(apperrors.ErrCodeInvalidConfig, "separations must not be negative")
	}
	return nil
}

// Extents returns the box size along the primary and the cross axis.
func (o Options) Extents() (primary, cross float64) {
	if o.Direction.Horizontal() {
		return o.NodeWidth, o.NodeHeight
	}
	return o.NodeHeight, o.NodeWidth
}

// Axes splits a position into its primary-axis and cross-axis coordinates.
// Reversed directions are negated so that primary always grows away from
// the root.
func (o Options) Axes(p tree.Position) (primary, cross float64) {
	switch o.Direction {
	case TopBottom:
		return p.Y, p.X
	case RightLeft:
		return -p.X, p.Y
	case BottomTop:
		return -p.Y, p.X
	}
	return p.X, p.Y
}

// Place is the inverse of [Options.Axes]: it builds a box position from an
// anchor (box centre) given as primary and cross coordinates.
func (o Options) Place(primary, cross float64) tree.Position {
	var cx, cy float64
	switch o.Direction {
	case TopBottom:
		cx, cy = cross, primary
	case RightLeft:
		cx, cy = -primary, cross
	case BottomTop:
		cx, cy = cross, -primary
	default:
		cx, cy = primary, cross
	}
	return tree.Position{X: cx - o.NodeWidth/2, Y: cy - o.NodeHeight/2}
}

// Center returns the centre of a node's box.
func (o Options) Center(n *tree.Node) (x, y float64) {
	return n.Position.X + o.NodeWidth/2, n.Position.Y + o.NodeHeight/2
}

// Check verifies the geometric guarantees of a layout: along every edge the
// child lies strictly further from the root on the primary axis, and any two
// siblings are at least one box plus NodeSep apart on the cross axis.
func Check(g *tree.Graph, opts Options) error {
	opts = opts.WithDefaults()
	_, crossExtent := opts.Extents()
	// Graphviz reports coordinates rounded to hundredths of a point.
	minGap := crossExtent + opts.NodeSep - 0.5

	for _, e := range g.Edges {
		src, ok1 := g.ByID(e.Source)
		dst, ok2 := g.ByID(e.Target)
		if !ok1 || !ok2 {
			return fmt.Errorf("edge %s references unknown node", e.ID)
		}
		sp, _ := opts.Axes(src.Position)
		dp, _ := opts.Axes(dst.Position)
		if !(sp < dp) {
			return fmt.Errorf("edge %s: parent %s at %g is not before child %s at %g", e.ID, src.ID, sp, dst.ID, dp)
		}
	}

	for _, parent := range g.Nodes {
		kids := g.Children(parent.ID)
		for i := 0; i < len(kids); i++ {
			a, _ := g.ByID(kids[i])
			_, ca := opts.Axes(a.Position)
			for j := i + 1; j < len(kids); j++ {
				b, _ := g.ByID(kids[j])
				_, cb := opts.Axes(b.Position)
				if gap := max(ca-cb, cb-ca); gap < minGap {
					return fmt.Errorf("siblings %s and %s are %g apart, want at least %g", a.ID, b.ID, gap, crossExtent+opts.NodeSep)
				}
			}
		}
	}
	return nil
}
