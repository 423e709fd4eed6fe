// Package pkg provides the core libraries of jsontree.
//
// # Overview
//
// jsontree turns a JSON document into a tree of nodes, one per value, and
// arranges the tree with a layered layout. The pkg directory is organized
// into three areas:
//
//  1. Domain logic: [jsonvalue], [jsonpath], [tree], [dag], [layout], [search], [render]
//  2. Orchestration: [pipeline], [workspace]
//  3. Infrastructure: [cache], [config], [errors], [observability], [buildinfo]
//
// # Architecture
//
// The data flow through jsontree:
//
//	JSON text
//	    ↓
//	[jsonvalue] package (ordered parse, parser diagnostics)
//	    ↓
//	[tree] package (one node per value, one edge per containment)
//	    ↓
//	[layout] package (layered or graphviz engine assigns positions)
//	    ↓
//	[search] package (optional: highlight one path, dim the rest)
//	    ↓
//	[render] package (SVG, PNG, PDF, DOT or JSON)
//
// [pipeline] runs these stages with a position cache, and [workspace] holds
// the interactive state (text, tree, status message, theme) shared by the
// terminal browser and the HTTP server.
//
// # Quick Start
//
//	import (
//	    "context"
//	    "github.com/matzehuels/jsontree/pkg/pipeline"
//	    "github.com/matzehuels/jsontree/pkg/render"
//	)
//
//	runner := pipeline.NewRunner(nil, nil, nil)
//	res, err := runner.Generate(ctx, data, pipeline.Options{})
//	if err != nil {
//	    return err // invalid JSON carries the parser diagnostic
//	}
//	svg, err := runner.Render(ctx, res, pipeline.RenderOptions{Format: render.FormatSVG})
//
// # Testing
//
//	go test ./pkg/...          # All tests
//	go test ./pkg/layout/...   # Specific package
//	go test -run Example       # Examples only
//
// [jsonvalue]: https://pkg.go.dev/github.com/matzehuels/jsontree/pkg/jsonvalue
// [jsonpath]: https://pkg.go.dev/github.com/matzehuels/jsontree/pkg/jsonpath
// [tree]: https://pkg.go.dev/github.com/matzehuels/jsontree/pkg/tree
// [dag]: https://pkg.go.dev/github.com/matzehuels/jsontree/pkg/dag
// [layout]: https://pkg.go.dev/github.com/matzehuels/jsontree/pkg/layout
// [search]: https://pkg.go.dev/github.com/matzehuels/jsontree/pkg/search
// [render]: https://pkg.go.dev/github.com/matzehuels/jsontree/pkg/render
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/jsontree/pkg/pipeline
// [workspace]: https://pkg.go.dev/github.com/matzehuels/jsontree/pkg/workspace
// [cache]: https://pkg.go.dev/github.com/matzehuels/jsontree/pkg/cache
// [config]: https://pkg.go.dev/github.com/matzehuels/jsontree/pkg/config
// [errors]: https://pkg.go.dev/github.com/matzehuels/jsontree/pkg/errors
// [observability]: https://pkg.go.dev/github.com/matzehuels/jsontree/pkg/observability
// [buildinfo]: https://pkg.go.dev/github.com/matzehuels/jsontree/pkg/buildinfo
package pkg
