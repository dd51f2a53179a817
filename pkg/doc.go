// Package pkg provides the core libraries for stacklayout.
//
// # Overview
//
// Stacklayout orders the nodes of layered graphs. Each layer is sorted so
// that the drawing follows the order in which nodes and edges were declared
// (their model order), as far as the edges allow. Layout options are attached
// to the graph and its elements through configurators before ordering.
//
// # Architecture
//
// The typical data flow:
//
//	graph.json + configurator file
//	         ↓
//	    [graph] package (decode, assign model order)
//	         ↓
//	    [configurator] package (apply options to elements)
//	         ↓
//	    [dag/transform] package (break cycles, layer, subdivide long edges)
//	         ↓
//	    [order] package (sort layers with the model-order comparator)
//	         ↓
//	    layout.json / DOT / SVG
//
// [pipeline] runs these stages for both the CLI and the HTTP service.
//
// # Main Packages
//
// ## Option Model
//
// [property] - Typed keys over a string-keyed value container.
//
// [model] - Graph elements (nodes, ports, edges, labels) that carry options,
// with tags grouping element kinds.
//
// [options] - The catalog of known options and the element kinds they
// target, loaded from TOML.
//
// [configurator] - Resolves which option values apply to which element, from
// tag-level and element-level settings, with pluggable filters. Files are
// TOML, YAML or JSON.
//
// ## Ordering
//
// [dag] - Layered graph with ports, optimized for row-by-row ordering.
//
// [dag/transform] - Cycle breaking, layer assignment and long-edge
// subdivision. [transform.Normalize] runs all three.
//
// [order] - The model-order comparator and the layer sort built on it.
//
// ## Serialization and Output
//
// [graph] - Serialization types for graphs and layouts (JSON, BSON).
//
// [render/nodelink] - Graphviz DOT and SVG output that preserves the
// resolved layer order.
//
// ## Infrastructure
//
// [cache] - File, Redis and null caches for layouts and rendered artifacts.
//
// [observability] - Hooks for metrics around ordering, rendering and caching.
//
// [errors] - Coded errors shared by the CLI and the HTTP service.
//
// # Testing
//
//	go test ./...                # All tests
//	go test ./pkg/order/...      # Specific package
//	go test -run Example ./pkg/... # Examples only
package pkg
