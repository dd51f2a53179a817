// Package dag provides the layered graph model that node ordering works on.
//
// # Overview
//
// A [Graph] holds nodes, ports and edges. Nodes own an ordered list of
// [Port]s and edges always run from a source port to a target port. Every
// node is assigned to a layer; within a layer nodes have a left-to-right
// order which layout phases rearrange.
//
// # Basic Usage
//
//	g := dag.New()
//	app, _ := g.AddNode(dag.Node{ID: "app", Layer: 0})
//	lib, _ := g.AddNode(dag.Node{ID: "lib", Layer: 1})
//	out, _ := g.AddPort(app, "out")
//	in, _ := g.AddPort(lib, "in")
//	g.Connect(out, in)
//
// [Graph.ConnectNodes] is a shortcut that creates one new port on each side
// per edge.
//
// # Model Order
//
// Nodes and edges from the input model carry their position in it under the
// [ModelOrder] key. Synthetic nodes ([NodeKindSubdivider],
// [NodeKindAuxiliary]) never do, which is how the ordering phase recognizes
// them.
//
// # Edge Crossings
//
// [CountCrossings] and [CountLayerCrossings] use a Fenwick tree to count
// inversions in O(E log V) time.
//
// # Concurrency
//
// Graph instances are not safe for concurrent use. Read-only operations such
// as counting crossings can run in parallel on a graph nobody modifies.
//
// The [transform] subpackage prepares an arbitrary directed graph for
// ordering: cycle breaking, layer assignment and long-edge subdivision.
//
// [transform]: github.com/matzehuels/stacklayout/pkg/dag/transform
package dag
