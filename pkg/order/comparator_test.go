package order

import (
	"fmt"
	"slices"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/matzehuels/stacklayout/pkg/dag"
	"github.com/matzehuels/stacklayout/pkg/errors"
)

func TestSortLayer_ModelOrder(t *testing.T) {
	for _, s := range []Strategy{PreferModelOrder, PreferEdges} {
		t.Run(s.String(), func(t *testing.T) {
			b := newBuilder(t)
			n1 := b.node("n1", 0, 5)
			n2 := b.node("n2", 0, 2)
			layer := []*dag.Node{n1, n2}

			if err := SortLayer(layer, nil, s, Equal); err != nil {
				t.Fatalf("SortLayer: %v", err)
			}
			if diff := cmp.Diff([]string{"n2", "n1"}, ids(layer)); diff != "" {
				t.Errorf("order mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestSortLayer_SameAnchorPortOrder(t *testing.T) {
	for _, s := range []Strategy{PreferModelOrder, PreferEdges} {
		t.Run(s.String(), func(t *testing.T) {
			b := newBuilder(t)
			p := b.node("p", 0, 0)
			b.port(p, "0")
			b.port(p, "1")
			d1 := b.dummy("d1", 1)
			d2 := b.dummy("d2", 1)
			// Add the edges in reverse so edge order cannot explain the result.
			b.edge(p, "1", d2)
			b.edge(p, "0", d1)
			layer := []*dag.Node{d2, d1}

			if err := SortLayer(layer, []*dag.Node{p}, s, Equal); err != nil {
				t.Fatalf("SortLayer: %v", err)
			}
			if diff := cmp.Diff([]string{"d1", "d2"}, ids(layer)); diff != "" {
				t.Errorf("order mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestSortLayer_DifferentAnchors(t *testing.T) {
	tests := []struct {
		strategy Strategy
		want     []string
	}{
		// Anchors decide: b hangs below p, which comes first.
		{PreferEdges, []string{"b", "a"}},
		// Both have a model order, so anchors are ignored.
		{PreferModelOrder, []string{"a", "b"}},
	}
	for _, tt := range tests {
		t.Run(tt.strategy.String(), func(t *testing.T) {
			bld := newBuilder(t)
			p := bld.node("p", 0, 0)
			q := bld.node("q", 0, 1)
			a := bld.node("a", 1, 0)
			b := bld.node("b", 1, 1)
			bld.edge(q, "out", a)
			bld.edge(p, "out", b)
			layer := []*dag.Node{a, b}

			if err := SortLayer(layer, []*dag.Node{p, q}, tt.strategy, Equal); err != nil {
				t.Fatalf("SortLayer: %v", err)
			}
			if diff := cmp.Diff(tt.want, ids(layer)); diff != "" {
				t.Errorf("order mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestSortLayer_LongEdgeOrder(t *testing.T) {
	tests := []struct {
		longEdge LongEdgeOrder
		want     []string
	}{
		{Lower, []string{"n", "d"}},
		{Higher, []string{"d", "n"}},
		{Equal, []string{"n", "d"}},
	}
	for _, tt := range tests {
		t.Run(tt.longEdge.String(), func(t *testing.T) {
			b := newBuilder(t)
			src := b.node("src", 0, 0)
			d := b.dummy("d", 1)
			n := b.node("n", 1, 1)
			b.edge(src, "out", d, 3)
			layer := []*dag.Node{d, n}

			// src is not part of the previous layer, so no anchor decides.
			if err := SortLayer(layer, nil, PreferEdges, tt.longEdge); err != nil {
				t.Fatalf("SortLayer: %v", err)
			}
			if diff := cmp.Diff(tt.want, ids(layer)); diff != "" {
				t.Errorf("order mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestSortLayer_EqualModelOrderIsDeterministic(t *testing.T) {
	var first []string
	for run := 0; run < 20; run++ {
		b := newBuilder(t)
		x := b.node("x", 0, 3)
		y := b.node("y", 0, 3)
		layer := []*dag.Node{x, y}
		if err := SortLayer(layer, nil, PreferModelOrder, Equal); err != nil {
			t.Fatalf("SortLayer: %v", err)
		}
		got := ids(layer)
		if first == nil {
			first = got
			continue
		}
		if diff := cmp.Diff(first, got); diff != "" {
			t.Fatalf("run %d differs (-first +got):\n%s", run, diff)
		}
	}
}

func TestCompare_EqualModelOrderFixedDirection(t *testing.T) {
	b := newBuilder(t)
	x := b.node("x", 0, 3)
	y := b.node("y", 0, 3)

	c := NewNodeComparator(nil, PreferModelOrder, Equal)
	if got := c.Compare(x, y); got != -1 {
		t.Errorf("Compare(x, y) = %d, want -1", got)
	}
	// The recorded verdict now answers the reverse question.
	if got := c.Compare(y, x); got != 1 {
		t.Errorf("Compare(y, x) = %d, want 1", got)
	}
	if got := c.Compare(x, x); got != 0 {
		t.Errorf("Compare(x, x) = %d, want 0", got)
	}
}

// cycleLayer builds three dummies whose pairwise verdicts form a cycle:
// y before z by port order on their shared anchor, z before x and x before y
// by the model order of their incoming edges.
func cycleLayer(t *testing.T) (x, y, z *dag.Node) {
	b := newBuilder(t)
	p := b.node("p", 0, 0)
	r := b.node("r", 0, 1)
	x = b.dummy("x", 1)
	y = b.dummy("y", 1)
	z = b.dummy("z", 1)
	b.edge(p, "0", y, 5)
	b.edge(p, "1", z, 1)
	b.edge(r, "0", x, 3)
	return x, y, z
}

func TestCompare_RawVerdictsCycle(t *testing.T) {
	x, y, z := cycleLayer(t)
	fresh := func() *NodeComparator { return NewNodeComparator(nil, PreferEdges, Equal) }

	if fresh().Compare(y, z) >= 0 {
		t.Error("expected y before z")
	}
	if fresh().Compare(z, x) >= 0 {
		t.Error("expected z before x")
	}
	if fresh().Compare(x, y) >= 0 {
		t.Error("expected x before y")
	}
}

func TestCompare_ClosureKeepsCycleConsistent(t *testing.T) {
	x, y, z := cycleLayer(t)
	c := NewNodeComparator(nil, PreferEdges, Equal)

	if c.Compare(y, z) >= 0 || c.Compare(z, x) >= 0 {
		t.Fatal("unexpected raw verdicts")
	}
	// y < z < x is now recorded, so x vs y must follow the closure rather
	// than the raw edge model orders.
	if got := c.Compare(x, y); got != 1 {
		t.Errorf("Compare(x, y) = %d, want 1 from the closure", got)
	}
	if got := c.Compare(y, x); got != -1 {
		t.Errorf("Compare(y, x) = %d, want -1 from the closure", got)
	}
	assertClosure(t, c, []*dag.Node{x, y, z})
}

func TestSortLayer_CycleConsistentAcrossPermutations(t *testing.T) {
	perms := [][]int{{0, 1, 2}, {0, 2, 1}, {1, 0, 2}, {1, 2, 0}, {2, 0, 1}, {2, 1, 0}}
	for _, perm := range perms {
		t.Run(fmt.Sprint(perm), func(t *testing.T) {
			x, y, z := cycleLayer(t)
			nodes := []*dag.Node{x, y, z}
			layer := make([]*dag.Node, 3)
			for i, j := range perm {
				layer[i] = nodes[j]
			}

			c := NewNodeComparator(nil, PreferEdges, Equal)
			if _, err := sortLayer(layer, c); err != nil {
				t.Fatalf("sortLayer: %v", err)
			}
			assertClosure(t, c, nodes)
			for i := range layer {
				for j := i + 1; j < len(layer); j++ {
					if c.Relation(layer[i], layer[j]) == 1 {
						t.Errorf("output %v places %s before %s against a recorded relation",
							ids(layer), layer[i].ID, layer[j].ID)
					}
				}
			}
		})
	}
}

func TestStats_RelationsBounded(t *testing.T) {
	const n = 60
	b := newBuilder(t)
	var prev []*dag.Node
	for i := 0; i < 4; i++ {
		prev = append(prev, b.node(fmt.Sprintf("p%d", i), 0, i))
	}
	var layer []*dag.Node
	for i := 0; i < n; i++ {
		var node *dag.Node
		if i%3 == 0 {
			node = b.node(fmt.Sprintf("n%d", i), 1, (i*7)%11)
		} else {
			node = b.dummy(fmt.Sprintf("d%d", i), 1)
		}
		switch i % 4 {
		case 0:
			// unconnected
		case 1:
			b.edge(prev[i%len(prev)], fmt.Sprintf("o%d", i%5), node, (i*5)%13)
		default:
			b.edge(prev[(i/4)%len(prev)], fmt.Sprintf("o%d", i%3), node, (i*3)%17)
		}
		layer = append(layer, node)
	}

	for _, s := range []Strategy{PreferEdges, PreferModelOrder} {
		for _, le := range []LongEdgeOrder{Lower, Higher, Equal} {
			c := NewNodeComparator(prev, s, le)
			work := slices.Clone(layer)
			stats, err := sortLayer(work, c)
			if err != nil {
				t.Fatalf("%v/%v: sortLayer: %v", s, le, err)
			}
			if limit := n * (n - 1) / 2; stats.Relations > limit {
				t.Errorf("%v/%v: %d relations, want <= %d", s, le, stats.Relations, limit)
			}
			if stats.Comparisons == 0 {
				t.Errorf("%v/%v: no comparisons counted", s, le)
			}
			assertClosure(t, c, layer)
		}
	}
}

func TestCompare_InvariantViolationPanics(t *testing.T) {
	b := newBuilder(t)
	p := b.node("p", 0, 0)
	d1 := b.dummy("d1", 1)
	d2 := b.dummy("d2", 1)
	b.edge(p, "0", d1)
	b.edge(p, "1", d2)

	c := NewNodeComparator([]*dag.Node{p}, PreferEdges, Equal)
	c.ports = func(*dag.Node) []*dag.Port { return nil }

	defer func() {
		r := recover()
		err, ok := r.(error)
		if !ok || !errors.Is(err, errors.ErrCodeInvariant) {
			t.Errorf("recovered %v, want an invariant violation", r)
		}
	}()
	c.Compare(d1, d2)
}

func TestSortLayer_InvariantViolationReturnsError(t *testing.T) {
	b := newBuilder(t)
	p := b.node("p", 0, 0)
	d1 := b.dummy("d1", 1)
	d2 := b.dummy("d2", 1)
	b.edge(p, "0", d1)
	b.edge(p, "1", d2)

	c := NewNodeComparator([]*dag.Node{p}, PreferEdges, Equal)
	c.ports = func(*dag.Node) []*dag.Port { return nil }
	layer := []*dag.Node{d2, d1}

	_, err := sortLayer(layer, c)
	if !errors.Is(err, errors.ErrCodeInvariant) {
		t.Fatalf("sortLayer error = %v, want INVARIANT_VIOLATION", err)
	}
	if diff := cmp.Diff([]string{"d2", "d1"}, ids(layer)); diff != "" {
		t.Errorf("layer modified on failure (-want +got):\n%s", diff)
	}
}

// assertClosure checks that the recorded relations mirror each other and
// never claim both directions for a pair.
func assertClosure(t *testing.T, c *NodeComparator, nodes []*dag.Node) {
	t.Helper()
	for _, a := range nodes {
		for _, b := range nodes {
			if a == b {
				continue
			}
			if c.after[a].has(b) && c.after[b].has(a) {
				t.Errorf("%s and %s both recorded before each other", a.ID, b.ID)
			}
			if c.after[a].has(b) != c.before[b].has(a) {
				t.Errorf("after[%s] and before[%s] disagree about each other", a.ID, b.ID)
			}
		}
	}
}
