package pipeline

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/matzehuels/jsontree/pkg/layout"
	"github.com/matzehuels/jsontree/pkg/tree"

	// Register the built-in engines.
	_ "github.com/matzehuels/jsontree/pkg/layout/graphviz"
	_ "github.com/matzehuels/jsontree/pkg/layout/layered"
)

// Layout positions g with the engine named in opts. Defaults are applied.
func Layout(ctx context.Context, g *tree.Graph, opts Options) error {
	opts = opts.WithDefaults()
	engine, err := layout.New(opts.Engine)
	if err != nil {
		return err
	}
	if err := engine.Layout(ctx, g, opts.Layout); err != nil {
		return fmt.Errorf("%s layout: %w", engine.Name(), err)
	}
	if err := layout.Check(g, opts.Layout); err != nil {
		opts.Logger.Warn("layout check failed", "engine", engine.Name(), "err", err)
	}
	return nil
}

// marshalPositions encodes the positions of g. Map keys are sorted by
// encoding/json, so equal layouts encode to equal bytes.
func marshalPositions(g *tree.Graph) ([]byte, error) {
	return json.Marshal(g.Positions())
}

// applyPositions restores positions encoded by marshalPositions.
func applyPositions(g *tree.Graph, data []byte) error {
	var pos map[string]tree.Position
	if err := json.Unmarshal(data, &pos); err != nil {
		return err
	}
	return g.ApplyPositions(pos)
}
