// Package layered implements the built-in layered layout engine.
//
// The engine follows the Sugiyama scheme specialised to trees:
//
//  1. Ranks: longest path from the root, which for a tree is the depth.
//  2. Ordering: barycenter sweeps that keep only crossing-reducing changes.
//  3. Coordinates: leaves take consecutive cross-axis slots of one box plus
//     NodeSep; every parent is centred between its first and last child.
//     The primary axis is rank * (box extent + RankSep).
//
// Importing the package registers the engine as "layered".
package layered

import (
	"context"
	"fmt"
	"slices"

	"github.com/matzehuels/jsontree/pkg/dag"
	"github.com/matzehuels/jsontree/pkg/layout"
	"github.com/matzehuels/jsontree/pkg/tree"
)

// Name is the registry name of the engine.
const Name = "layered"

func init() {
	layout.Register(Name, func() layout.Engine { return New() })
}

// Engine is the layered layout engine. The zero value is ready to use.
type Engine struct {
	// Orderer orders nodes within rows. Nil means Barycentric{}.
	Orderer Orderer
}

// New returns an engine with the default orderer.
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

	d, err := toDAG(g)
	if err != nil {
		return err
	}
	dag.AssignLayers(d)
	if err := d.Validate(); err != nil {
		return fmt.Errorf("layered: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	orderer := e.Orderer
	if orderer == nil {
		orderer = Barycentric{}
	}
	orders := orderer.OrderRows(d)
	if err := ctx.Err(); err != nil {
		return err
	}

	assignCoordinates(g, d, orders, opts)
	return nil
}

func toDAG(g *tree.Graph) (*dag.DAG, error) {
	d := dag.New()
	for _, n := range g.Nodes {
		if err := d.AddNode(dag.Node{ID: n.ID}); err != nil {
			return nil, fmt.Errorf("add node %s: %w", n.ID, err)
		}
	}
	for _, e := range g.Edges {
		if err := d.AddEdge(dag.Edge{From: e.Source, To: e.Target}); err != nil {
			return nil, fmt.Errorf("add edge %s: %w", e.ID, err)
		}
	}
	return d, nil
}

// assignCoordinates walks the tree with children in row order, handing out
// leaf slots and centring parents over their children.
func assignCoordinates(g *tree.Graph, d *dag.DAG, orders map[int][]string, opts layout.Options) {
	primaryExtent, crossExtent := opts.Extents()
	slot := crossExtent + opts.NodeSep
	rankStep := primaryExtent + opts.RankSep

	pos := make(map[string]int, g.Len())
	for _, order := range orders {
		for i, id := range order {
			pos[id] = i
		}
	}

	cross := make(map[string]float64, g.Len())
	nextLeaf := 0

	// Post-order over an explicit stack; documents nest up to jsonvalue.MaxDepth.
	type frame struct {
		id       string
		children []string
		next     int
	}
	root := g.Root().ID
	stack := []frame{{id: root, children: sortedChildren(d, root, pos)}}
	for len(stack) > 0 {
		top := &stack[len(stack)-1]
		if top.next < len(top.children) {
			c := top.children[top.next]
			top.next++
			stack = append(stack, frame{id: c, children: sortedChildren(d, c, pos)})
			continue
		}
		if len(top.children) == 0 {
			cross[top.id] = float64(nextLeaf) * slot
			nextLeaf++
		} else {
			first, last := top.children[0], top.children[len(top.children)-1]
			cross[top.id] = (cross[first] + cross[last]) / 2
		}
		stack = stack[:len(stack)-1]
	}

	for _, n := range g.Nodes {
		dn, _ := d.Node(n.ID)
		n.Position = opts.Place(float64(dn.Row)*rankStep, cross[n.ID])
	}
}

func sortedChildren(d *dag.DAG, id string, pos map[string]int) []string {
	kids := slices.Clone(d.Children(id))
	// Children of one node share a row, so row positions order them.
	slices.SortStableFunc(kids, func(a, b string) int { return pos[a] - pos[b] })
	return kids
}
