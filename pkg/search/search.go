// Package search finds nodes by path and sets the highlight state used to
// draw search results.
//
// Matching is exact string equality on [tree.Node.Path]; there are no
// wildcards or partial matches. A successful search highlights the match,
// dims every other node and yields the point the viewport should centre on.
// A failed search leaves the graph untouched.
package search

import (
	"strings"

	apperrors "github.com/matzehuels/jsontree/pkg/errors"
	"github.com/matzehuels/jsontree/pkg/jsonpath"
	"github.com/matzehuels/jsontree/pkg/layout"
	"github.com/matzehuels/jsontree/pkg/tree"
)

// Point is a location in layout units.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Find returns the node whose path equals query after trimming surrounding
// whitespace. It returns an [apperrors.ErrCodeEmptyQuery] error for a blank
// query and an [apperrors.ErrCodeNoMatch] error when nothing matches.
func Find(g *tree.Graph, query string) (*tree.Node, error) {
	q := strings.TrimSpace(query)
	if q == "" {
		return nil, apperrors.New(apperrors.ErrCodeEmptyQuery, "empty query")
	}
	if g != nil {
		if n, ok := g.ByPath(q); ok {
			return n, nil
		}
	}
	if !jsonpath.Valid(q) {
		return nil, apperrors.New(apperrors.ErrCodeNoMatch, "no node at %s (not a valid path)", q)
	}
	return nil, apperrors.New(apperrors.ErrCodeNoMatch, "no node at %s", q)
}

// Highlight marks the node with the given id highlighted and every other
// node dimmed. It reports false, changing nothing, if id is unknown.
func Highlight(g *tree.Graph, id string) bool {
	if _, ok := g.ByID(id); !ok {
		return false
	}
	for _, n := range g.Nodes {
		if n.ID == id {
			n.State = tree.StateHighlighted
		} else {
			n.State = tree.StateDimmed
		}
	}
	return true
}

// Reset returns every node to the normal state.
func Reset(g *tree.Graph) {
	g.SetStates(tree.StateNormal)
}

// Focus returns the centre of n's box, where the viewport should centre.
func Focus(n *tree.Node, opts layout.Options) Point {
	opts = opts.WithDefaults()
	x, y := opts.Center(n)
	return Point{X: x, Y: y}
}

// Result is the outcome of a successful [Run].
type Result struct {
	Node  *tree.Node `json:"node"`
	Focus Point      `json:"focus"`
}

// Run finds query in g and, on a match, highlights it and computes the focus
// point. On any error the graph is left as it was.
func Run(g *tree.Graph, query string, opts layout.Options) (*Result, error) {
	n, err := Find(g, query)
	if err != nil {
		return nil, err
	}
	Highlight(g, n.ID)
	return &Result{Node: n, Focus: Focus(n, opts)}, nil
}
