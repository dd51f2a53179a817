// Package model provides the graph element model that layout options are
// attached to.
//
// A [Graph] is an arena that owns every [Element]: nodes, ports, edges and
// labels. Elements are identified by a [Handle], an opaque value made of the
// owning graph's UUID, the arena slot index and the slot's generation. Handles
// are comparable and safe to copy, so they can key maps without relying on
// pointer identity, and two elements with identical attributes always have
// distinct handles. Removing an element bumps its slot generation, so handles
// to removed elements never resolve again even when the slot is reused.
//
// # Kinds and Tags
//
// Every element has a concrete [Kind]. Tags group kinds for configuration
// purposes: [TagShape] covers nodes, ports and labels, [TagConnectableShape]
// covers nodes and ports, and [TagElement] covers everything.
//
// # Traversal
//
// [Walk] visits every element below a node exactly once, top-down, which is
// how configurators are applied to a whole graph.
package model
