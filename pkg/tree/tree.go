package tree

import (
	"errors"
	"fmt"

	"github.com/matzehuels/jsontree/pkg/jsonvalue"
)

var (
	// ErrNoRoot is returned by [Graph.Validate] when the first node is missing
	// or does not have the root path.
	ErrNoRoot = errors.New("graph has no root node at $")

	// ErrDuplicateID is returned by [Graph.Validate] when two nodes share an id.
	ErrDuplicateID = errors.New("duplicate node id")

	// ErrDuplicatePath is returned by [Graph.Validate] when two nodes share a path.
	ErrDuplicatePath = errors.New("duplicate node path")

	// ErrDanglingEdge is returned by [Graph.Validate] when an edge references
	// a node that does not exist.
	ErrDanglingEdge = errors.New("edge references unknown node")

	// ErrMultipleParents is returned by [Graph.Validate] when a node is the
	// target of more than one edge, or the root is the target of any edge.
	ErrMultipleParents = errors.New("node has more than one parent")

	// ErrDisconnected is returned by [Graph.Validate] when some node cannot be
	// reached from the root.
	ErrDisconnected = errors.New("graph is not connected")

	// ErrEdgeCount is returned by [Graph.Validate] when the edge count is not
	// one less than the node count.
	ErrEdgeCount = errors.New("edge count must equal node count minus one")
)

// Kind classifies a node for labelling and styling.
type Kind string

const (
	KindObject    Kind = "object"
	KindArray     Kind = "array"
	KindPrimitive Kind = "primitive"
)

// IsContainer reports whether k is object or array.
func (k Kind) IsContainer() bool { return k == KindObject || k == KindArray }

// State is the transient visual state set by search.
type State string

const (
	StateNormal      State = "normal"
	StateHighlighted State = "highlighted"
	StateDimmed      State = "dimmed"
)

// Position is the top-left corner of a node's box in layout units.
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Node is one JSON value of the document.
type Node struct {
	ID       string          `json:"id"`
	Path     string          `json:"path"`
	Kind     Kind            `json:"kind"`
	Label    string          `json:"label"`
	Value    jsonvalue.Value `json:"value"`
	Position Position        `json:"position"`
	State    State           `json:"state"`
}

// Edge links a container node to one of its direct children.
type Edge struct {
	ID     string `json:"id"`
	Source string `json:"source"`
	Target string `json:"target"`
}

// EdgeID returns the id of the edge from source to target.
func EdgeID(source, target string) string {
	return "e" + source + "-" + target
}

// Graph is the node/edge collection built from one document. Nodes and Edges
// are in depth-first pre-order; Nodes[0] is the root.
//
// A Graph is not safe for concurrent use.
type Graph struct {
	Nodes []*Node `json:"nodes"`
	Edges []Edge  `json:"edges"`

	byID     map[string]*Node
	byPath   map[string]*Node
	children map[string][]string
	parent   map[string]string
}

// New returns a graph over the given nodes and edges. The first node is
// taken as the root. New does not validate; call [Graph.Validate].
func New(nodes []*Node, edges []Edge) *Graph {
	g := &Graph{Nodes: nodes, Edges: edges}
	g.reindex()
	return g
}

// Empty returns a graph with no nodes, the state after a clear.
func Empty() *Graph {
	return New([]*Node{}, []Edge{})
}

// Clone returns a deep copy of g. Values are shared since they are
// immutable.
func (g *Graph) Clone() *Graph {
	if g == nil {
		return Empty()
	}
	nodes := make([]*Node, len(g.Nodes))
	for i, n := range g.Nodes {
		c := *n
		nodes[i] = &c
	}
	return New(nodes, append([]Edge(nil), g.Edges...))
}

// Len returns the number of nodes.
func (g *Graph) Len() int { return len(g.Nodes) }

// IsEmpty reports whether g has no nodes.
func (g *Graph) IsEmpty() bool { return g == nil || len(g.Nodes) == 0 }

// Root returns the root node, or nil for an empty graph.
func (g *Graph) Root() *Node {
	if g.IsEmpty() {
		return nil
	}
	return g.Nodes[0]
}

// ByID returns the node with the given id.
func (g *Graph) ByID(id string) (*Node, bool) {
	n, ok := g.byID[id]
	return n, ok
}

// ByPath returns the node with the given path. Keys holding "." or "["
// can make two paths spell the same, as in {"a.b":1,"a":{"b":2}}; the
// node that comes first in document order wins.
func (g *Graph) ByPath(path string) (*Node, bool) {
	n, ok := g.byPath[path]
	return n, ok
}

// Children returns the ids of the direct children of id in document order.
// The returned slice must not be modified.
func (g *Graph) Children(id string) []string { return g.children[id] }

// Parent returns the id of the parent of id, or "" for the root.
func (g *Graph) Parent(id string) string { return g.parent[id] }

// Depth returns the number of edges between the root and id.
func (g *Graph) Depth(id string) int {
	d := 0
	for p := g.parent[id]; p != ""; p = g.parent[p] {
		d++
	}
	return d
}

// SetStates sets every node to state.
func (g *Graph) SetStates(state State) {
	for _, n := range g.Nodes {
		n.State = state
	}
}

// Positions returns a copy of every node's position keyed by id.
func (g *Graph) Positions() map[string]Position {
	m := make(map[string]Position, len(g.Nodes))
	for _, n := range g.Nodes {
		m[n.ID] = n.Position
	}
	return m
}

// ApplyPositions sets the positions of the nodes named in pos. It returns an
// error if pos does not cover exactly the nodes of g.
func (g *Graph) ApplyPositions(pos map[string]Position) error {
	if len(pos) != len(g.Nodes) {
		return fmt.Errorf("position set has %d entries for %d nodes", len(pos), len(g.Nodes))
	}
	for _, n := range g.Nodes {
		p, ok := pos[n.ID]
		if !ok {
			return fmt.Errorf("no position for node %s", n.ID)
		}
		n.Position = p
	}
	return nil
}

// Bounds returns the smallest rectangle enclosing every node box of the
// given size. It returns zeros for an empty graph.
func (g *Graph) Bounds(width, height float64) (minX, minY, maxX, maxY float64) {
	for i, n := range g.Nodes {
		x0, y0 := n.Position.X, n.Position.Y
		x1, y1 := x0+width, y0+height
		if i == 0 {
			minX, minY, maxX, maxY = x0, y0, x1, y1
			continue
		}
		minX, minY = min(minX, x0), min(minY, y0)
		maxX, maxY = max(maxX, x1), max(maxY, y1)
	}
	return minX, minY, maxX, maxY
}

func (g *Graph) reindex() {
	g.byID = make(map[string]*Node, len(g.Nodes))
	g.byPath = make(map[string]*Node, len(g.Nodes))
	g.children = make(map[string][]string, len(g.Nodes))
	g.parent = make(map[string]string, len(g.Nodes))
	for _, n := range g.Nodes {
		g.byID[n.ID] = n
		if _, dup := g.byPath[n.Path]; !dup {
			g.byPath[n.Path] = n
		}
	}
	for _, e := range g.Edges {
		g.children[e.Source] = append(g.children[e.Source], e.Target)
		g.parent[e.Target] = e.Source
	}
}

// Validate checks that g is a single tree rooted at "$": unique ids and
// paths, edges between existing nodes, at most one parent per node, every
// node reachable from the root, and exactly len(Nodes)-1 edges. An empty
// graph is valid.
func (g *Graph) Validate() error {
	if len(g.Nodes) == 0 {
		if len(g.Edges) != 0 {
			return ErrEdgeCount
		}
		return nil
	}
	if g.Nodes[0].Path != rootPath {
		return ErrNoRoot
	}

	ids := make(map[string]bool, len(g.Nodes))
	paths := make(map[string]bool, len(g.Nodes))
	for _, n := range g.Nodes {
		if ids[n.ID] {
			return fmt.Errorf("%w: %s", ErrDuplicateID, n.ID)
		}
		if paths[n.Path] {
			return fmt.Errorf("%w: %s", ErrDuplicatePath, n.Path)
		}
		ids[n.ID], paths[n.Path] = true, true
	}

	if len(g.Edges) != len(g.Nodes)-1 {
		return fmt.Errorf("%w: %d nodes, %d edges", ErrEdgeCount, len(g.Nodes), len(g.Edges))
	}

	rootID := g.Nodes[0].ID
	hasParent := make(map[string]bool, len(g.Edges))
	out := make(map[string][]string, len(g.Nodes))
	for _, e := range g.Edges {
		if !ids[e.Source] || !ids[e.Target] {
			return fmt.Errorf("%w: %s", ErrDanglingEdge, e.ID)
		}
		if hasParent[e.Target] || e.Target == rootID {
			return fmt.Errorf("%w: %s", ErrMultipleParents, e.Target)
		}
		hasParent[e.Target] = true
		out[e.Source] = append(out[e.Source], e.Target)
	}

	// With one parent per node and n-1 edges, reaching every node from the
	// root rules out cycles as well.
	seen := map[string]bool{rootID: true}
	stack := []string{rootID}
	for len(stack) > 0 {
		id := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for _, c := range out[id] {
			if !seen[c] {
				seen[c] = true
				stack = append(stack, c)
			}
		}
	}
	if len(seen) != len(g.Nodes) {
		return fmt.Errorf("%w: %d of %d nodes reachable", ErrDisconnected, len(seen), len(g.Nodes))
	}
	return nil
}
