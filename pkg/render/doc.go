// Package render groups the output renderers for ordered layered graphs.
//
// The [nodelink] subpackage turns an ordered graph into Graphviz DOT with
// one rank per layer and renders it to SVG in-process.
//
// [nodelink]: github.com/matzehuels/stacklayout/pkg/render/nodelink
package render
