// Package graphviz implements a layout engine backed by Graphviz dot.
//
// Graphviz runs in-process through github.com/goccy/go-graphviz (a WASM
// build), so no external binary is needed. The engine writes the tree as a
// DOT graph of fixed-size boxes, lets dot lay it out, and reads the node
// centres back from the attributed DOT output. Graphviz puts the origin at
// the bottom left; positions are flipped against the graph bounding box so
// y grows downwards like the rest of the layouts.
//
// Importing the package registers the engine as "graphviz".
package graphviz

import (
	"bytes"
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/jsontree/pkg/layout"
	"github.com/matzehuels/jsontree/pkg/tree"
)

// Name is the registry name of the engine.
const Name = "graphviz"

// pointsPerInch converts layout units (points) to the inches dot expects for
// sizes and separations.
const pointsPerInch = 72.0

func init() {
	layout.Register(Name, func() layout.Engine { return New() })
}

// Engine lays out graphs with Graphviz dot.
type Engine struct{}

// New returns a Graphviz engine.
func New() *Engine { return &Engine{} }

// Name implements [layout.Engine].
func (e *Engine) Name() string { return Name }

// Layout implements [layout.Engine].
func (e *Engine) Layout(ctx context.Context, g *tree.Graph, opts layout.Options) error {
	opts = opts.WithDefaults()
	if err := opts.Validate(); err != nil {
		return err
	}
	if g.IsEmpty() {
		return nil
	}

	gv, err := graphviz.New(ctx)
	if err != nil {
		return fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	src, err := graphviz.ParseBytes([]byte(DOT(g, opts)))
	if err != nil {
		return fmt.Errorf("parse DOT: %w", err)
	}
	defer src.Close()

	var buf bytes.Buffer
	if err := gv.SetLayout(graphviz.DOT).Render(ctx, src, graphviz.XDOT, &buf); err != nil {
		return fmt.Errorf("dot layout: %w", err)
	}

	out, err := graphviz.ParseBytes(buf.Bytes())
	if err != nil {
		return fmt.Errorf("parse dot output: %w", err)
	}
	defer out.Close()

	_, _, _, top, err := parseBox(out.GetStr("bb"))
	if err != nil {
		return fmt.Errorf("graph bounding box: %w", err)
	}

	pos := make(map[string]tree.Position, g.Len())
	for _, n := range g.Nodes {
		if err := ctx.Err(); err != nil {
			return err
		}
		gn, err := out.NodeByName(n.ID)
		if err != nil || gn == nil {
			return fmt.Errorf("node %s missing from dot output", n.ID)
		}
		x, y, err := parsePoint(gn.GetStr("pos"))
		if err != nil {
			return fmt.Errorf("node %s: %w", n.ID, err)
		}
		pos[n.ID] = tree.Position{X: x - opts.NodeWidth/2, Y: (top - y) - opts.NodeHeight/2}
	}
	return g.ApplyPositions(pos)
}

// DOT returns the layout input for g: fixed-size boxes named by node id,
// edges in document order, and the rank direction and separations of opts.
func DOT(g *tree.Graph, opts layout.Options) string {
	opts = opts.WithDefaults()
	var b strings.Builder
	b.WriteString("digraph G {\n")
	fmt.Fprintf(&b, "  rankdir=%s;\n", opts.Direction)
	b.WriteString("  ordering=out;\n")
	fmt.Fprintf(&b, "  nodesep=%s;\n", inches(opts.NodeSep))
	fmt.Fprintf(&b, "  ranksep=%s;\n", inches(opts.RankSep))
	fmt.Fprintf(&b, "  node [shape=box, fixedsize=true, width=%s, height=%s, label=\"\"];\n",
		inches(opts.NodeWidth), inches(opts.NodeHeight))
	for _, n := range g.Nodes {
		fmt.Fprintf(&b, "  %q;\n", n.ID)
	}
	for _, e := range g.Edges {
		fmt.Fprintf(&b, "  %q -> %q;\n", e.Source, e.Target)
	}
	b.WriteString("}\n")
	return b.String()
}

func inches(units float64) string {
	return strconv.FormatFloat(units/pointsPerInch, 'f', 4, 64)
}

// parsePoint parses a Graphviz "x,y" point, ignoring a trailing "!".
func parsePoint(s string) (x, y float64, err error) {
	xs, ys, ok := strings.Cut(strings.TrimSuffix(strings.TrimSpace(s), "!"), ",")
	if !ok {
		return 0, 0, fmt.Errorf("malformed point %q", s)
	}
	if x, err = strconv.ParseFloat(xs, 64); err != nil {
		return 0, 0, fmt.Errorf("malformed point %q: %w", s, err)
	}
	if y, err = strconv.ParseFloat(ys, 64); err != nil {
		return 0, 0, fmt.Errorf("malformed point %q: %w", s, err)
	}
	return x, y, nil
}

// parseBox parses a Graphviz "llx,lly,urx,ury" rectangle.
func parseBox(s string) (llx, lly, urx, ury float64, err error) {
	parts := strings.Split(strings.TrimSpace(s), ",")
	if len(parts) != 4 {
		return 0, 0, 0, 0, fmt.Errorf("malformed box %q", s)
	}
	var v [4]float64
	for i, p := range parts {
		if v[i], err = strconv.ParseFloat(p, 64); err != nil {
			return 0, 0, 0, 0, fmt.Errorf("malformed box %q: %w", s, err)
		}
	}
	return v[0], v[1], v[2], v[3], nil
}
