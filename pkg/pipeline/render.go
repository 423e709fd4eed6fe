package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/matzehuels/jsontree/pkg/cache"
	apperrors "github.com/matzehuels/jsontree/pkg/errors"
	"github.com/matzehuels/jsontree/pkg/layout"
	"github.com/matzehuels/jsontree/pkg/render"
	"github.com/matzehuels/jsontree/pkg/tree"
)

// Render draws a positioned graph in the requested format.
//
// SVG is drawn directly from the positions. PNG pins the positions and
// rasterises through Graphviz, so the image matches the screen. PDF
// converts the SVG. DOT is unpinned, for feeding to other Graphviz tools.
// With opts.Graphviz, SVG and PNG come from dot laying out that DOT.
func Render(ctx context.Context, g *tree.Graph, lo layout.Options, opts RenderOptions) ([]byte, error) {
	if g.IsEmpty() {
		return nil, apperrors.New(apperrors.ErrCodeNothingToExport, "nothing to export")
	}
	format, err := render.ParseFormat(string(opts.Format))
	if err != nil {
		return nil, err
	}
	ropts := render.Options{Layout: lo, Theme: opts.Theme}

	var data []byte
	switch {
	case format == render.FormatSVG && opts.Graphviz:
		data, err = render.RenderSVG(ctx, render.ToDOT(g, ropts, false))
	case format == render.FormatPNG && opts.Graphviz:
		data, err = render.RenderPNG(ctx, render.ToDOT(g, ropts, false))
	case format == render.FormatSVG:
		data = render.SVG(g, ropts)
	case format == render.FormatPNG:
		data, err = render.PNG(ctx, g, ropts)
	case format == render.FormatPDF:
		data, err = render.PDF(ctx, g, ropts)
	case format == render.FormatDOT:
		data = []byte(render.ToDOT(g, ropts, false))
	case format == render.FormatJSON:
		data, err = json.MarshalIndent(g, "", "  ")
	}
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeExportFailed, err, "render %s", format)
	}
	return data, nil
}

// statesDigest summarises the search states so renderings of the same
// layout with different highlights get different cache keys.
func statesDigest(g *tree.Graph) string {
	if g.IsEmpty() {
		return ""
	}
	var sb strings.Builder
	for _, n := range g.Nodes {
		if n.State == tree.StateHighlighted {
			fmt.Fprintf(&sb, "%s;", n.ID)
		}
	}
	if sb.Len() == 0 {
		return ""
	}
	return cache.Hash([]byte(sb.String()))
}
