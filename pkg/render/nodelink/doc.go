// Package nodelink renders ordered layered graphs as node-link diagrams.
//
// # Overview
//
// Each layer becomes a Graphviz rank. Nodes of a layer are chained with
// invisible edges in their resolved order, so Graphviz keeps the order the
// ordering step produced instead of running its own crossing reduction.
//
// # Usage
//
//	dot := nodelink.ToDOT(g, nodelink.Options{Detailed: false})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//
// # Options
//
//   - Detailed: node labels include the layer and model order
//
// Subdivider nodes are drawn dashed and grey. Edges reversed while breaking
// cycles are drawn with dir=back so arrows point along the original edge.
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz] for in-process SVG
// rendering.
package nodelink
