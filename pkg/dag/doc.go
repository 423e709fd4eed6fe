// Package dag provides a directed acyclic graph organised into rows (ranks)
// for layered graph layouts.
//
// # Overview
//
// A Sugiyama-style layout places every node on a rank and then orders the
// nodes of each rank to reduce edge crossings. This package holds the graph
// during that process: nodes carry a row, edges are expected to connect
// consecutive rows, and crossings between two rows can be counted quickly.
//
// # Basic Usage
//
//	g := dag.New()
//	_ = g.AddNode(dag.Node{ID: "n1"})
//	_ = g.AddNode(dag.Node{ID: "n2"})
//	_ = g.AddEdge(dag.Edge{From: "n1", To: "n2"})
//	dag.AssignLayers(g) // n1 -> row 0, n2 -> row 1
//
// Use [DAG.Validate] to verify that edges connect consecutive rows and that
// the graph has no cycles.
//
// # Edge Crossings
//
// [CountCrossings] and [CountLayerCrossings] use a Fenwick tree to count
// inversions in O(E log V), which keeps repeated evaluation of candidate
// orderings cheap.
//
// # Concurrency
//
// DAG instances are not safe for concurrent use. Counting crossings on a
// graph that is no longer modified can run in parallel.
package dag
