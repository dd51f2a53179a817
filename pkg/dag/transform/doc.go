// Package transform provides graph transformations that prepare a
// [dag.Graph] for node ordering.
//
// # Overview
//
// Input graphs rarely arrive layered. The [Normalize] function applies the
// complete pipeline in the correct order:
//
//   - [BreakCycles] reverses back edges so the graph becomes acyclic
//   - [AssignLayers] places every node one layer below its deepest parent
//   - [Subdivide] splits edges spanning several layers into chains of
//     subdivider nodes
//
// After Normalize, every edge connects consecutive layers and
// [dag.Graph.Validate] succeeds.
//
// # Edge Subdivision
//
// Subdivider nodes keep a MasterID linking back to their origin and carry no
// model order. The edges entering them keep the original edge's properties,
// including its model order, which the ordering phase uses to place them.
//
// # Usage
//
//	stats := transform.Normalize(g) // modifies g in place
//
// For fine-grained control, apply transformations individually:
//
//	transform.BreakCycles(g)
//	transform.AssignLayers(g)
//	transform.Subdivide(g)
package transform
