// Package order sorts the nodes of each layer so that the drawing follows
// the order of the input model.
//
// Two nodes of a layer are compared as follows. If the strategy is
// [PreferEdges], or either node lacks a model order (subdividers never have
// one), the nodes feeding them from the previous layer decide: nodes fed by
// the same node follow that node's port order, nodes fed by different nodes
// follow the previous layer's order. If that does not decide and a model
// order is missing, the model order of each node's first incoming edge is
// compared, with [LongEdgeOrder] standing in for nodes without one.
// Otherwise the two model orders are compared directly.
//
// Verdicts are not necessarily transitive on their own, so a
// [NodeComparator] records each one together with everything it implies and
// answers later comparisons from that record. The number of recorded pairs
// is bounded by n(n-1)/2 for a layer of n nodes.
//
//	err := order.SortLayer(layer, previous, order.PreferModelOrder, order.Equal)
//
// [OrderGraph] sorts all layers of a graph top-down.
package order
