// Package options declares the layout options known to stacklayout: their
// identifiers, the element kinds they may be applied to, and their defaults.
//
// The registry is consumed by configurator filters to decide whether an
// option is applicable to a given element, and by callers that want the
// declared default of an option. Registries are loaded from TOML catalogs:
//
//	[[option]]
//	id = "spacing.nodeNode"
//	targets = ["nodes", "parents"]
//	default = 20.0
//	description = "Minimal spacing between two nodes."
//
// [Builtin] returns the catalog shipped with this module.
package options

import (
	"maps"
	"slices"
	"sync"

	"github.com/matzehuels/stacklayout/pkg/errors"
)

// Target is an element kind an option can be applied to.
type Target string

const (
	TargetNodes   Target = "nodes"
	TargetParents Target = "parents"
	TargetEdges   Target = "edges"
	TargetPorts   Target = "ports"
	TargetLabels  Target = "labels"
	TargetGraphs  Target = "graphs"
)

var validTargets = map[Target]bool{
	TargetNodes:   true,
	TargetParents: true,
	TargetEdges:   true,
	TargetPorts:   true,
	TargetLabels:  true,
	TargetGraphs:  true,
}

// Option describes a single layout option.
type Option struct {
	ID          string   `toml:"id" json:"id"`
	Targets     []Target `toml:"targets" json:"targets"`
	Default     any      `toml:"default" json:"default,omitempty"`
	Description string   `toml:"description" json:"description,omitempty"`
}

// AppliesTo reports whether the option declares t as a target.
func (o Option) AppliesTo(t Target) bool {
	return slices.Contains(o.Targets, t)
}

// Registry holds option declarations keyed by ID.
// It is safe for concurrent use.
type Registry struct {
	mu      sync.RWMutex
	options map[string]Option
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{options: make(map[string]Option)}
}

// Register adds o to the registry. It fails for invalid IDs, unknown
// targets, or an ID that is already registered.
func (r *Registry) Register(o Option) error {
	if err := errors.ValidateOptionID(o.ID); err != nil {
		return err
	}
	for _, t := range o.Targets {
		if !validTargets[t] {
			return errors.New(errors.ErrCodeInvalidOption, "option %s: unknown target %q", o.ID, t)
		}
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.options[o.ID]; exists {
		return errors.New(errors.ErrCodeInvalidOption, "option %s registered twice", o.ID)
	}
	o.Targets = slices.Clone(o.Targets)
	r.options[o.ID] = o
	return nil
}

// Lookup returns the option registered under id.
func (r *Registry) Lookup(id string) (Option, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	o, ok := r.options[id]
	return o, ok
}

// Default returns the declared default value of option id.
func (r *Registry) Default(id string) (any, bool) {
	o, ok := r.Lookup(id)
	if !ok || o.Default == nil {
		return nil, false
	}
	return o.Default, true
}

// Options returns all registered options sorted by ID.
func (r *Registry) Options() []Option {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ids := slices.Sorted(maps.Keys(r.options))
	out := make([]Option, len(ids))
	for i, id := range ids {
		out[i] = r.options[id]
	}
	return out
}

// Len returns the number of registered options.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.options)
}
