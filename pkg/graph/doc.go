// Package graph provides serialization types for layered graphs and their
// ordering results.
//
// This package defines the wire format used for JSON files, API requests and
// responses, and the layout cache.
//
// # Core Types
//
//   - [Graph]: node-link format for input graphs, with ports and options
//   - [Layout]: resolved layer orders plus the normalized graph
//   - [Node], [Edge]: shared structural types
//
// Use [ToDAG] and [FromDAG] to convert between [Graph] and dag.Graph.
//
// # Graph Serialization
//
//	{
//	  "nodes": [{"id": "app"}, {"id": "lib", "ports": ["in"]}],
//	  "edges": [{"from": "app", "to": "lib", "to_port": "in"}],
//	  "options": {"layered.considerModelOrder.strategy": "PREFER_MODEL_ORDER"}
//	}
//
// List position is the model order unless model_order is given. Option
// values become properties of the element they are attached to. Numbers
// written without a fraction or exponent decode as int, others as float64.
//
// # Layout Serialization
//
// Layouts are written as JSON by [MarshalLayout] and as BSON by
// [MarshalLayoutBSON]; the cache stores the BSON form.
package graph
