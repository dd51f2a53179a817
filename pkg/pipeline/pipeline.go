// Package pipeline provides the ordering pipeline shared by the CLI and the
// HTTP service.
//
// # Architecture
//
// A run takes a serialized graph through these stages:
//
//  1. Configure: optionally apply a configurator file to the graph elements
//  2. Normalize: break cycles, assign layers, subdivide long edges
//  3. Order: sort every layer with the model-order comparator
//  4. Render: turn the ordered layout into DOT or SVG
//
// Stages 1-3 produce a [graph.Layout], cached by graph hash and options.
// Rendering works from a Layout alone, so cached layouts can be rendered
// without re-running the ordering.
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	res, err := runner.Order(ctx, g, pipeline.Options{Strategy: "PREFER_MODEL_ORDER"})
//	if err != nil {
//	    return err
//	}
//	svg, err := runner.Render(ctx, res.Layout, pipeline.FormatSVG)
package pipeline

import (
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/stacklayout/pkg/cache"
	"github.com/matzehuels/stacklayout/pkg/configurator"
	"github.com/matzehuels/stacklayout/pkg/graph"
	"github.com/matzehuels/stacklayout/pkg/order"
)

// Format constants for rendered artifacts.
const (
	FormatDOT  = "dot"
	FormatSVG  = "svg"
	FormatJSON = "json"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatDOT:  true,
	FormatSVG:  true,
	FormatJSON: true,
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options configures an ordering run. It is also the body of API requests
// next to the graph.
type Options struct {
	// Strategy and LongEdge override the graph-level options of the same
	// meaning. Empty means: use the graph's options, else the defaults.
	Strategy string `json:"strategy,omitempty"`
	LongEdge string `json:"long_edge,omitempty"`

	// Config is applied to the graph before ordering.
	Config *configurator.File `json:"config,omitempty"`

	// Refresh skips the cache lookup. The result is still stored.
	Refresh bool `json:"refresh,omitempty"`

	Logger *log.Logger `json:"-"`
}

// Validate checks that the strategy names parse.
func (o *Options) Validate() error {
	if o.Strategy != "" {
		if _, err := order.ParseStrategy(o.Strategy); err != nil {
			return err
		}
	}
	if o.LongEdge != "" {
		if _, err := order.ParseLongEdgeOrder(o.LongEdge); err != nil {
			return err
		}
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return nil
}

// LayoutKeyOpts returns cache key options for the layout of a run.
func (o *Options) LayoutKeyOpts() cache.LayoutKeyOpts {
	k := cache.LayoutKeyOpts{Strategy: o.Strategy, LongEdge: o.LongEdge}
	if o.Config != nil {
		k.ConfigHash = cache.HashJSON(o.Config)
	}
	return k
}

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return fmt.Errorf("invalid format: %q (must be one of: dot, svg, json)", format)
	}
	return nil
}

// =============================================================================
// Result
// =============================================================================

// Result contains the outputs of an ordering run.
type Result struct {
	Layout    graph.Layout
	GraphHash string
	CacheHit  bool
	Duration  time.Duration
}
