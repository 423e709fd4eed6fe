package tree

import (
	"strconv"

	"github.com/matzehuels/jsontree/pkg/jsonpath"
	"github.com/matzehuels/jsontree/pkg/jsonvalue"
)

const (
	rootPath  = jsonpath.Root
	rootLabel = "root"
)

// Build converts v into a graph with one node per JSON value and one edge per
// non-root value, in depth-first pre-order. Object members are visited in
// document order, array elements in index order.
func Build(v jsonvalue.Value) *Graph {
	b := &builder{g: &Graph{
		Nodes: make([]*Node, 0, v.Count()),
		Edges: make([]Edge, 0, v.Count()-1),
	}}
	b.visit(v, rootPath, "")
	b.g.reindex()
	return b.g
}

// builder carries the id counter for one Build call.
type builder struct {
	g    *Graph
	next int
}

func (b *builder) id() string {
	b.next++
	return "n" + strconv.Itoa(b.next)
}

func (b *builder) visit(v jsonvalue.Value, path, parentID string) {
	n := &Node{
		ID:    b.id(),
		Path:  path,
		Kind:  kindOf(v),
		Label: Label(path, v),
		Value: v,
		State: StateNormal,
	}
	b.g.Nodes = append(b.g.Nodes, n)
	if parentID != "" {
		b.g.Edges = append(b.g.Edges, Edge{ID: EdgeID(parentID, n.ID), Source: parentID, Target: n.ID})
	}

	switch v.Kind() {
	case jsonvalue.KindObject:
		for _, m := range v.Members() {
			b.visit(m.Value, jsonpath.Member(path, m.Key), n.ID)
		}
	case jsonvalue.KindArray:
		for i, it := range v.Items() {
			b.visit(it, jsonpath.Index(path, i), n.ID)
		}
	}
}

func kindOf(v jsonvalue.Value) Kind {
	switch v.Kind() {
	case jsonvalue.KindObject:
		return KindObject
	case jsonvalue.KindArray:
		return KindArray
	}
	return KindPrimitive
}

// Label returns the display label of the value v found at path. Containers
// show their name; primitives show "name: literal". The root is named "root".
func Label(path string, v jsonvalue.Value) string {
	name := jsonpath.Segment(path)
	if path == rootPath {
		name = rootLabel
	}
	if v.IsContainer() {
		return name
	}
	return name + ": " + v.Literal()
}
