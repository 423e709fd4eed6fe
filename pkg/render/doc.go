// Package render draws laid-out JSON trees.
//
// # Overview
//
// A [tree.Graph] whose nodes carry positions can be turned into several
// outputs:
//
//   - [SVG]: a standalone SVG drawing of the graph as laid out, with
//     rounded boxes coloured by node kind and step-shaped edges. Every box
//     carries data-id and data-path attributes for click-to-copy.
//   - [ToDOT]: Graphviz DOT source of the same graph.
//   - [PNG]: a raster image of the graph as laid out, rendered by Graphviz
//     with node positions pinned.
//   - [RenderSVG], [RenderPNG]: Graphviz renderings of any DOT source, with
//     dot computing its own layout.
//   - [PDF]: the SVG drawing converted with rsvg-convert.
//
// # Themes
//
// Colours come from a [Palette] chosen by [Theme] ("light" or "dark"). Node
// states from search are drawn on top of the kind colour: highlighted nodes
// get an indigo outline and dimmed nodes are faded to 45% opacity.
//
// # Dependencies
//
// Graphviz runs in-process through github.com/goccy/go-graphviz. PDF output
// requires librsvg (rsvg-convert) on the PATH.
package render
