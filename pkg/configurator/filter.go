package configurator

import (
	"github.com/matzehuels/stacklayout/pkg/model"
	"github.com/matzehuels/stacklayout/pkg/options"
	"github.com/matzehuels/stacklayout/pkg/property"
)

// NoOverwrite rejects options the element already carries.
func NoOverwrite(e model.Element, id property.ID) bool {
	return !e.Properties().Has(id)
}

// OptionLookup resolves option declarations. [*options.Registry] implements
// it.
type OptionLookup interface {
	Lookup(id string) (options.Option, bool)
}

// TargetFilter returns a filter that accepts an option only if its declared
// targets include the element's kind. Hierarchical nodes match both nodes
// and parents. Options the registry does not know are accepted.
func TargetFilter(reg OptionLookup) Filter {
	return func(e model.Element, id property.ID) bool {
		o, ok := reg.Lookup(string(id))
		if !ok {
			return true
		}
		switch v := e.(type) {
		case *model.Node:
			if v.Hierarchical() {
				return o.AppliesTo(options.TargetNodes) || o.AppliesTo(options.TargetParents)
			}
			return o.AppliesTo(options.TargetNodes)
		case *model.Edge:
			return o.AppliesTo(options.TargetEdges)
		case *model.Port:
			return o.AppliesTo(options.TargetPorts)
		case *model.Label:
			return o.AppliesTo(options.TargetLabels)
		}
		return true
	}
}
