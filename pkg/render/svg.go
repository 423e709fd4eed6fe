package render

import (
	"bytes"
	"encoding/xml"
	"fmt"

	"github.com/matzehuels/jsontree/pkg/layout"
	"github.com/matzehuels/jsontree/pkg/tree"
)

// Margin is the empty border around the drawing, in layout units.
const Margin = 20

const (
	cornerRadius = 8
	fontSize     = 12
	charWidth    = 7 // average glyph width at fontSize
)

// SVG draws g at its current positions. The viewBox is the bounding box of
// the nodes plus [Margin], so the drawing has no fixed origin.
func SVG(g *tree.Graph, opts Options) []byte {
	opts = opts.withDefaults()
	lo := opts.Layout
	pal := PaletteFor(opts.Theme)

	minX, minY, maxX, maxY := g.Bounds(lo.NodeWidth, lo.NodeHeight)
	minX, minY = minX-Margin, minY-Margin
	w, h := maxX-minX+Margin, maxY-minY+Margin

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="%.1f %.1f %.1f %.1f" width="%.0f" height="%.0f" data-theme="%s">`+"\n",
		minX, minY, w, h, w, h, opts.Theme)
	renderDefs(&buf, pal)
	fmt.Fprintf(&buf, `  <rect x="%.1f" y="%.1f" width="%.1f" height="%.1f" fill="%s"/>`+"\n", minX, minY, w, h, pal.Background)
	fmt.Fprintf(&buf, `  <rect x="%.1f" y="%.1f" width="%.1f" height="%.1f" fill="url(#grid)"/>`+"\n", minX, minY, w, h)

	buf.WriteString(`  <g class="edges">` + "\n")
	for _, e := range g.Edges {
		src, ok1 := g.ByID(e.Source)
		dst, ok2 := g.ByID(e.Target)
		if !ok1 || !ok2 {
			continue
		}
		renderEdge(&buf, e, src, dst, lo, pal)
	}
	buf.WriteString("  </g>\n")

	buf.WriteString(`  <g class="nodes">` + "\n")
	for _, n := range g.Nodes {
		renderNode(&buf, n, lo, pal)
	}
	buf.WriteString("  </g>\n")

	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

func renderDefs(buf *bytes.Buffer, pal Palette) {
	buf.WriteString("  <defs>\n")
	fmt.Fprintf(buf, `    <pattern id="grid" width="12" height="12" patternUnits="userSpaceOnUse"><circle cx="1" cy="1" r="1" fill="%s"/></pattern>`+"\n", pal.Grid)
	fmt.Fprintf(buf, `    <marker id="arrow" viewBox="0 0 10 10" refX="10" refY="5" markerWidth="6" markerHeight="6" orient="auto-start-reverse"><path d="M 0 0 L 10 5 L 0 10 z" fill="%s"/></marker>`+"\n", pal.Edge)
	buf.WriteString("  </defs>\n")
}

func renderNode(buf *bytes.Buffer, n *tree.Node, lo layout.Options, pal Palette) {
	opacity := ""
	if n.State == tree.StateDimmed {
		opacity = fmt.Sprintf(` opacity="%.2f"`, DimOpacity)
	}
	stroke, strokeWidth := pal.Edge, 1.0
	if n.State == tree.StateHighlighted {
		stroke, strokeWidth = pal.Highlight, 3
	}

	fmt.Fprintf(buf, `    <g class="node node-%s" id="%s" data-id="%s" data-path="%s" data-state="%s"%s>`+"\n",
		n.Kind, EscapeXML(n.ID), EscapeXML(n.ID), EscapeXML(n.Path), n.State, opacity)
	fmt.Fprintf(buf, `      <title>%s</title>`+"\n", EscapeXML(n.Path))
	fmt.Fprintf(buf, `      <rect x="%.1f" y="%.1f" width="%.1f" height="%.1f" rx="%d" fill="%s" stroke="%s" stroke-width="%.0f"/>`+"\n",
		n.Position.X, n.Position.Y, lo.NodeWidth, lo.NodeHeight, cornerRadius, pal.Fill(n.Kind), stroke, strokeWidth)
	cx, cy := lo.Center(n)
	fmt.Fprintf(buf, `      <text x="%.1f" y="%.1f" text-anchor="middle" dominant-baseline="central" font-family="Helvetica, Arial, sans-serif" font-size="%d" fill="%s">%s</text>`+"\n",
		cx, cy, fontSize, pal.Text, EscapeXML(truncate(n.Label, labelLimit(lo.NodeWidth))))
	buf.WriteString("    </g>\n")
}

// renderEdge draws a step-shaped connector from the parent's far side to the
// child's near side, turning halfway across the rank gap.
func renderEdge(buf *bytes.Buffer, e tree.Edge, src, dst *tree.Node, lo layout.Options, pal Palette) {
	sx, sy := lo.Center(src)
	tx, ty := lo.Center(dst)
	hw, hh := lo.NodeWidth/2, lo.NodeHeight/2

	var d string
	switch lo.Direction {
	case layout.TopBottom:
		sy, ty = sy+hh, ty-hh
		my := (sy + ty) / 2
		d = fmt.Sprintf("M %.1f %.1f V %.1f H %.1f V %.1f", sx, sy, my, tx, ty)
	case layout.BottomTop:
		sy, ty = sy-hh, ty+hh
		my := (sy + ty) / 2
		d = fmt.Sprintf("M %.1f %.1f V %.1f H %.1f V %.1f", sx, sy, my, tx, ty)
	case layout.RightLeft:
		sx, tx = sx-hw, tx+hw
		mx := (sx + tx) / 2
		d = fmt.Sprintf("M %.1f %.1f H %.1f V %.1f H %.1f", sx, sy, mx, ty, tx)
	default:
		sx, tx = sx+hw, tx-hw
		mx := (sx + tx) / 2
		d = fmt.Sprintf("M %.1f %.1f H %.1f V %.1f H %.1f", sx, sy, mx, ty, tx)
	}
	fmt.Fprintf(buf, `    <path id="%s" class="edge" d="%s" fill="none" stroke="%s" stroke-width="1.5" marker-end="url(#arrow)"/>`+"\n",
		EscapeXML(e.ID), d, pal.Edge)
}

// EscapeXML escapes s for use in XML text and attribute values.
func EscapeXML(s string) string {
	var buf bytes.Buffer
	_ = xml.EscapeText(&buf, []byte(s))
	return buf.String()
}

// labelLimit is the number of characters that fit in a box of width w.
func labelLimit(w float64) int {
	return max(4, int((w-16)/charWidth))
}

// truncate shortens s to at most n runes, marking the cut with an ellipsis.
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
