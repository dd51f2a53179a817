package order

import (
	"fmt"
	"slices"

	"github.com/matzehuels/stacklayout/pkg/dag"
	"github.com/matzehuels/stacklayout/pkg/errors"
)

// SortLayer sorts layer in place by model order, given the final order of
// the preceding layer. A fresh [NodeComparator] is used and discarded. On an
// invariant violation layer is left untouched and the violation is returned.
func SortLayer(layer, prev []*dag.Node, s Strategy, le LongEdgeOrder) error {
	_, err := sortLayer(layer, NewNodeComparator(prev, s, le))
	return err
}

func sortLayer(layer []*dag.Node, c *NodeComparator) (stats Stats, err error) {
	sorted := slices.Clone(layer)

	defer func() {
		if r := recover(); r != nil {
			e, ok := errors.AsInvariant(r)
			if !ok {
				panic(r)
			}
			stats, err = c.Stats(), e
		}
	}()

	slices.SortStableFunc(sorted, c.Compare)
	copy(layer, sorted)
	return c.Stats(), nil
}

// OrderGraph sorts every layer of g top-down, each against the already
// sorted layer above it. The topmost layer is sorted without a previous
// layer. It returns the summed comparator stats.
func OrderGraph(g *dag.Graph, s Strategy, le LongEdgeOrder) (Stats, error) {
	var total Stats
	var prev []*dag.Node
	prevID := 0
	for i, id := range g.LayerIDs() {
		if i > 0 && id != prevID+1 {
			prev = nil
		}
		layer := slices.Clone(g.Layer(id))
		stats, err := sortLayer(layer, NewNodeComparator(prev, s, le))
		total = total.Add(stats)
		if err != nil {
			return total, fmt.Errorf("layer %d: %w", id, err)
		}
		if err := g.SetLayerOrder(id, layer); err != nil {
			return total, fmt.Errorf("layer %d: %w", id, err)
		}
		prev, prevID = g.Layer(id), id
	}
	return total, nil
}
