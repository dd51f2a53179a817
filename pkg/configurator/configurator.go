package configurator

import (
	"slices"

	"github.com/matzehuels/stacklayout/pkg/model"
	"github.com/matzehuels/stacklayout/pkg/property"
)

// AddLayoutConfig is set on the top-level graph element to name a
// configurator that a multi-iteration layout run should apply to every
// iteration after the current one. It is not interpreted by this package.
var AddLayoutConfig = property.NewKey[*Configurator]("addLayoutConfig", nil)

// Filter decides whether the option id may be written to element e.
type Filter func(e model.Element, id property.ID) bool

// Configurator applies layout option values to graph elements.
// The zero value is not usable; create instances with [New].
type Configurator struct {
	elements    map[model.Handle]*property.Container
	tags        map[model.Tag]*property.Container
	filters     []Filter
	clearLayout bool
}

// New returns an empty configurator without filters.
func New() *Configurator {
	return &Configurator{
		elements: make(map[model.Handle]*property.Container),
		tags:     make(map[model.Tag]*property.Container),
	}
}

// Configure returns the container holding the options for e, creating it on
// first use. Repeated calls return the same container.
func (c *Configurator) Configure(e model.Element) *property.Container {
	h := e.Handle()
	p, ok := c.elements[h]
	if !ok {
		p = property.New()
		c.elements[h] = p
	}
	return p
}

// ConfigureTag returns the container holding the options for every element
// matching t, creating it on first use. [model.TagElement] configures all
// elements; more specific tags override it for their kinds.
func (c *Configurator) ConfigureTag(t model.Tag) *property.Container {
	p, ok := c.tags[t]
	if !ok {
		p = property.New()
		c.tags[t] = p
	}
	return p
}

// Properties returns the container configured for e, or nil.
func (c *Configurator) Properties(e model.Element) *property.Container {
	return c.elements[e.Handle()]
}

// TagProperties returns the container configured for t, or nil.
func (c *Configurator) TagProperties(t model.Tag) *property.Container {
	return c.tags[t]
}

// AddFilter appends f to the filter chain.
func (c *Configurator) AddFilter(f Filter) *Configurator {
	c.filters = append(c.filters, f)
	return c
}

// Filters returns a copy of the filter chain.
func (c *Configurator) Filters() []Filter {
	return slices.Clone(c.filters)
}

// SetClearLayout sets whether an element's existing properties are wiped
// before the configured values are applied. Properties the configurator does
// not set are lost in that case.
func (c *Configurator) SetClearLayout(clearLayout bool) *Configurator {
	c.clearLayout = clearLayout
	return c
}

// ClearLayout reports whether visited elements are cleared first.
func (c *Configurator) ClearLayout() bool { return c.clearLayout }

// Visit applies the configured options to e.
func (c *Configurator) Visit(e model.Element) {
	if c.clearLayout {
		e.Properties().Clear()
	}
	c.apply(e, c.Resolve(e))
}

// Resolve returns the merged options for e: the tag containers in precedence
// order, then the element's own container. Filters are not consulted. The
// result is a fresh container owned by the caller.
func (c *Configurator) Resolve(e model.Element) *property.Container {
	combined := property.New()
	for _, t := range Precedence(e.Kind()) {
		combined.CopyFrom(c.tags[t])
	}
	return combined.CopyFrom(c.elements[e.Handle()])
}

func (c *Configurator) apply(e model.Element, props *property.Container) {
	target := e.Properties()
	for _, id := range props.Keys() {
		if !c.accept(e, id) {
			continue
		}
		v, _ := props.Value(id)
		target.SetValue(id, property.Duplicate(v))
	}
}

func (c *Configurator) accept(e model.Element, id property.ID) bool {
	for _, f := range c.filters {
		if !f(e, id) {
			return false
		}
	}
	return true
}

// OverrideWith merges all element and tag options of other into c, with
// other's values winning. c's filters and clear-layout flag are replaced by
// other's.
func (c *Configurator) OverrideWith(other *Configurator) *Configurator {
	for h, p := range other.elements {
		mine, ok := c.elements[h]
		if !ok {
			mine = property.New()
			c.elements[h] = mine
		}
		mine.CopyFrom(p)
	}
	for t, p := range other.tags {
		c.ConfigureTag(t).CopyFrom(p)
	}
	c.clearLayout = other.clearLayout
	c.filters = slices.Clone(other.filters)
	return c
}

// Apply walks the graph below root and visits every element with each
// configurator in turn.
func Apply(root *model.Node, configurators ...*Configurator) {
	visitors := make([]model.Visitor, len(configurators))
	for i, c := range configurators {
		visitors[i] = c
	}
	model.Walk(root, visitors...)
}
