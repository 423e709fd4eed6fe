// Package tree turns a parsed JSON document into a labelled node graph.
//
// # Overview
//
// Every value in the document becomes one [Node]: objects and arrays are
// container nodes, everything else (null included) is a primitive node.
// Containment becomes an [Edge] from the parent's node to the child's node,
// so the result is always a tree rooted at the node whose path is "$".
//
// # Building
//
//	v, _ := jsonvalue.ParseString(`{"items":[{"name":"item1"}]}`)
//	g := tree.Build(v)
//	n, _ := g.ByPath("$.items[0].name")
//	fmt.Println(n.Label) // name: "item1"
//
// Node ids are "n1", "n2", ... in depth-first pre-order. The counter lives in
// a single [Build] call, so two builds of the same document produce the same
// ids.
//
// # Mutation
//
// After Build only two fields change: [Node.Position], assigned by a layout
// engine, and [Node.State], assigned by search. Everything else describes the
// document and is fixed for the lifetime of the graph.
package tree
