package render

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/jsontree/pkg/layout"
	"github.com/matzehuels/jsontree/pkg/tree"
)

// Options configures drawing.
type Options struct {
	Layout layout.Options
	Theme  Theme
}

func (o Options) withDefaults() Options {
	o.Layout = o.Layout.WithDefaults()
	if o.Theme == "" {
		o.Theme = ThemeLight
	}
	return o
}

// ToDOT converts g to Graphviz DOT. Boxes use the layout's node size and the
// theme's kind colours; search states are drawn as outline and opacity.
//
// When pinned is true each node gets a pos attribute with its current
// position, so that rendering with the nop layout reproduces the layout
// exactly. Otherwise Graphviz dot computes its own layout from rankdir and
// the separations.
func ToDOT(g *tree.Graph, opts Options, pinned bool) string {
	opts = opts.withDefaults()
	lo := opts.Layout
	pal := PaletteFor(opts.Theme)

	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	fmt.Fprintf(&buf, "  rankdir=%s;\n", lo.Direction)
	fmt.Fprintf(&buf, "  bgcolor=%q;\n", pal.Background)
	fmt.Fprintf(&buf, "  nodesep=%s;\n", inches(lo.NodeSep))
	fmt.Fprintf(&buf, "  ranksep=%s;\n", inches(lo.RankSep))
	buf.WriteString("  ordering=out;\n")
	fmt.Fprintf(&buf, "  node [shape=box, style=\"rounded,filled\", fixedsize=true, width=%s, height=%s, fontname=\"Helvetica\", fontsize=12, fontcolor=%q, color=%q];\n",
		inches(lo.NodeWidth), inches(lo.NodeHeight), pal.Text, pal.Edge)
	fmt.Fprintf(&buf, "  edge [color=%q, arrowsize=0.6];\n", pal.Edge)
	buf.WriteString("\n")

	for _, n := range g.Nodes {
		attrs := []string{
			fmt.Sprintf("label=%q", truncate(n.Label, labelLimit(lo.NodeWidth))),
			fmt.Sprintf("tooltip=%q", n.Path),
			fmt.Sprintf("fillcolor=%q", nodeFill(pal, n)),
		}
		switch n.State {
		case tree.StateHighlighted:
			attrs = append(attrs, fmt.Sprintf("color=%q", pal.Highlight), "penwidth=3")
		case tree.StateDimmed:
			attrs = append(attrs, fmt.Sprintf("fontcolor=%q", withAlpha(pal.Text, DimOpacity)))
		}
		if pinned {
			cx, cy := lo.Center(n)
			// Graphviz points grow upwards.
			attrs = append(attrs, fmt.Sprintf("pos=\"%s,%s!\"", num(cx), num(0-cy)))
		}
		fmt.Fprintf(&buf, "  %q [%s];\n", n.ID, strings.Join(attrs, ", "))
	}

	buf.WriteString("\n")
	for _, e := range g.Edges {
		fmt.Fprintf(&buf, "  %q -> %q;\n", e.Source, e.Target)
	}

	buf.WriteString("}\n")
	return buf.String()
}

func nodeFill(pal Palette, n *tree.Node) string {
	fill := pal.Fill(n.Kind)
	if n.State == tree.StateDimmed {
		return withAlpha(fill, DimOpacity)
	}
	return fill
}

// withAlpha appends an alpha channel to a #rrggbb colour.
func withAlpha(hex string, alpha float64) string {
	if len(hex) != 7 {
		return hex
	}
	return fmt.Sprintf("%s%02x", hex, int(alpha*255+0.5))
}

func inches(units float64) string {
	return strconv.FormatFloat(units/72, 'f', 4, 64)
}

func num(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// RenderSVG lays out a DOT graph with Graphviz dot and renders it to SVG.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	svg, err := renderDOT(ctx, dot, graphviz.DOT, graphviz.SVG)
	if err != nil {
		return nil, err
	}
	return normalizeViewBox(svg), nil
}

// RenderPNG lays out a DOT graph with Graphviz dot and renders it to PNG.
func RenderPNG(ctx context.Context, dot string) ([]byte, error) {
	return renderDOT(ctx, dot, graphviz.DOT, graphviz.PNG)
}

// PNG renders g as laid out, using pinned node positions.
func PNG(ctx context.Context, g *tree.Graph, opts Options) ([]byte, error) {
	return renderDOT(ctx, ToDOT(g, opts, true), graphviz.NOP, graphviz.PNG)
}

func renderDOT(ctx context.Context, dot string, engine graphviz.Layout, format graphviz.Format) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.SetLayout(engine).Render(ctx, g, format, &buf); err != nil {
		return nil, fmt.Errorf("render %s: %w", format, err)
	}
	return buf.Bytes(), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox replaces Graphviz's pt-sized svg element with a plain
// pixel-sized one so the image scales in the browser page.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	newSvg := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)

	return svgTagRe.ReplaceAll(svg, []byte(newSvg))
}
