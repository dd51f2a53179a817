// Package configurator resolves which layout option values apply to which
// graph element.
//
// Options can be given at two granularities: per element (keyed by the
// element's [model.Handle]) and per element tag ([model.TagNode],
// [model.TagShape], ...). A [Configurator] holds both and, when visiting an
// element, merges them into the element's own properties:
//
//	c := configurator.New()
//	property.Set(c.ConfigureTag(model.TagNode), Spacing, 30.0)
//	property.Set(c.Configure(special), Spacing, 50.0)
//	model.Walk(g.Root(), c)
//
// # Precedence
//
// Tag containers are merged from most general to most specific, following
// the table returned by [Precedence]: element, shape, label (labels stop
// here), connectable shape, node or port (both stop), edge. Element-specific
// values are merged last and win over every tag.
//
// # Filters
//
// Filters decide per (element, option) pair whether a value may be written.
// All filters must accept; a rejected pair is skipped silently and the
// remaining pairs are still applied. [NoOverwrite] and [TargetFilter] are the
// two standard filters.
//
// # Concurrency
//
// A configurator is a template: [Configurator.Visit] never mutates it, so
// concurrent visits of different elements are safe once all Configure calls
// have completed.
package configurator
