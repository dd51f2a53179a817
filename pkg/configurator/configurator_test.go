package configurator

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/matzehuels/stacklayout/pkg/model"
	"github.com/matzehuels/stacklayout/pkg/options"
	"github.com/matzehuels/stacklayout/pkg/property"
)

var (
	optA     = property.NewKey("test.a", 0)
	optB     = property.NewKey("test.b", 0)
	optC     = property.NewKey("test.c", 0)
	optFlag  = property.NewKey("test.flag", false)
	optColor = property.NewKey("test.color", "")
)

type testGraph struct {
	g      *model.Graph
	n1, n2 *model.Node
	p      *model.Port
	e      *model.Edge
	l      *model.Label
}

func newTestGraph() testGraph {
	g := model.NewGraph()
	n1 := g.AddNode(g.Root(), "n1")
	n2 := g.AddNode(g.Root(), "n2")
	p := g.AddPort(n1, "p1")
	e := g.AddEdge("e1", p, n2)
	l := g.AddLabel(n1, "hello")
	return testGraph{g: g, n1: n1, n2: n2, p: p, e: e, l: l}
}

func TestPrecedence(t *testing.T) {
	tests := []struct {
		kind model.Kind
		want []model.Tag
	}{
		{model.KindNode, []model.Tag{model.TagElement, model.TagShape, model.TagConnectableShape, model.TagNode}},
		{model.KindPort, []model.Tag{model.TagElement, model.TagShape, model.TagConnectableShape, model.TagPort}},
		{model.KindEdge, []model.Tag{model.TagElement, model.TagEdge}},
		{model.KindLabel, []model.Tag{model.TagElement, model.TagShape, model.TagLabel}},
	}
	for _, tt := range tests {
		t.Run(tt.kind.String(), func(t *testing.T) {
			if diff := cmp.Diff(tt.want, Precedence(tt.kind)); diff != "" {
				t.Errorf("Precedence(%v) mismatch (-want +got):\n%s", tt.kind, diff)
			}
		})
	}
}

func TestConfigureIdempotent(t *testing.T) {
	tg := newTestGraph()
	c := New()

	first := c.Configure(tg.n1)
	if second := c.Configure(tg.n1); first != second {
		t.Error("Configure returned different containers for the same element")
	}
	if c.Configure(tg.n2) == first {
		t.Error("Configure shared a container between elements")
	}
	if c.ConfigureTag(model.TagNode) != c.ConfigureTag(model.TagNode) {
		t.Error("ConfigureTag returned different containers for the same tag")
	}
	if c.Properties(tg.p) != nil {
		t.Error("Properties should be nil for an unconfigured element")
	}
	if c.TagProperties(model.TagEdge) != nil {
		t.Error("TagProperties should be nil for an unconfigured tag")
	}
}

func TestVisitElementBeatsTag(t *testing.T) {
	tg := newTestGraph()
	c := New()
	property.Set(c.ConfigureTag(model.TagNode), optFlag, true)
	property.Set(c.Configure(tg.n1), optFlag, false)

	c.Visit(tg.n1)
	c.Visit(tg.n2)

	if got, ok := property.Lookup(tg.n1.Properties(), optFlag); !ok || got {
		t.Errorf("n1 flag = %v (set %v), want false", got, ok)
	}
	if got := property.Get(tg.n2.Properties(), optFlag); !got {
		t.Error("n2 flag = false, want true from the node tag")
	}
}

func TestVisitSpecificTagBeatsGeneric(t *testing.T) {
	tg := newTestGraph()
	c := New()
	property.Set(c.ConfigureTag(model.TagElement), optA, 1)
	property.Set(c.ConfigureTag(model.TagShape), optA, 2)
	property.Set(c.ConfigureTag(model.TagConnectableShape), optA, 3)
	property.Set(c.ConfigureTag(model.TagPort), optA, 4)

	model.Walk(tg.g.Root(), c)

	tests := []struct {
		name string
		e    model.Element
		want int
	}{
		{"node", tg.n1, 3},
		{"port", tg.p, 4},
		{"edge", tg.e, 1},
		{"label", tg.l, 2},
	}
	for _, tt := range tests {
		if got := property.Get(tt.e.Properties(), optA); got != tt.want {
			t.Errorf("%s: a = %d, want %d", tt.name, got, tt.want)
		}
	}
}

func TestVisitLabelIgnoresConnectableAndEdge(t *testing.T) {
	tg := newTestGraph()
	c := New()
	property.Set(c.ConfigureTag(model.TagShape), optA, 1)
	property.Set(c.ConfigureTag(model.TagConnectableShape), optB, 2)
	property.Set(c.ConfigureTag(model.TagEdge), optC, 3)
	property.Set(c.ConfigureTag(model.TagNode), optColor, "red")

	c.Visit(tg.l)

	props := tg.l.Properties()
	if !props.Has(optA.ID()) {
		t.Error("label should receive shape options")
	}
	for _, id := range []property.ID{optB.ID(), optC.ID(), optColor.ID()} {
		if props.Has(id) {
			t.Errorf("label received %q", id)
		}
	}
}

func TestVisitFilterRejectsSinglePair(t *testing.T) {
	tg := newTestGraph()
	c := New()
	props := c.Configure(tg.n1)
	property.Set(props, optA, 1)
	property.Set(props, optB, 2)
	property.Set(props, optC, 3)
	c.AddFilter(func(e model.Element, id property.ID) bool { return id != optB.ID() })

	c.Visit(tg.n1)

	got := tg.n1.Properties().Keys()
	want := []property.ID{optA.ID(), optC.ID()}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("applied keys mismatch (-want +got):\n%s", diff)
	}
}

func TestVisitAllFiltersMustAccept(t *testing.T) {
	tg := newTestGraph()
	c := New()
	property.Set(c.Configure(tg.n1), optA, 1)
	c.AddFilter(func(model.Element, property.ID) bool { return true }).
		AddFilter(func(model.Element, property.ID) bool { return false })

	c.Visit(tg.n1)

	if tg.n1.Properties().Len() != 0 {
		t.Errorf("expected no properties, got %v", tg.n1.Properties().Keys())
	}
}

func TestVisitClearLayout(t *testing.T) {
	tg := newTestGraph()
	property.Set(tg.n1.Properties(), optColor, "blue")

	c := New()
	property.Set(c.Configure(tg.n1), optA, 7)

	c.Visit(tg.n1)
	if !tg.n1.Properties().Has(optColor.ID()) {
		t.Fatal("existing property lost without clearLayout")
	}

	c.SetClearLayout(true).Visit(tg.n1)
	if tg.n1.Properties().Has(optColor.ID()) {
		t.Error("clearLayout should remove unconfigured properties")
	}
	if got := property.Get(tg.n1.Properties(), optA); got != 7 {
		t.Errorf("a = %d, want 7", got)
	}
}

func TestVisitDoesNotMutateConfigurator(t *testing.T) {
	tg := newTestGraph()
	c := New()
	property.Set(c.ConfigureTag(model.TagNode), optA, 1)
	property.Set(c.Configure(tg.n1), optB, 2)

	c.Visit(tg.n1)
	property.Set(tg.n1.Properties(), optA, 99)

	if got := property.Get(c.TagProperties(model.TagNode), optA); got != 1 {
		t.Errorf("tag container changed to %d", got)
	}
	if c.Properties(tg.n1).Has(optA.ID()) {
		t.Error("element container picked up tag values")
	}
}

type box struct{ n int }

func (b *box) CloneValue() any { return &box{n: b.n} }

func TestVisitDuplicatesClonableValues(t *testing.T) {
	tg := newTestGraph()
	key := property.NewKey[*box]("test.box", nil)
	orig := &box{n: 3}

	c := New()
	property.Set(c.ConfigureTag(model.TagNode), key, orig)
	c.Visit(tg.n1)
	c.Visit(tg.n2)

	b1 := property.Get(tg.n1.Properties(), key)
	b2 := property.Get(tg.n2.Properties(), key)
	if b1 == orig || b2 == orig || b1 == b2 {
		t.Error("clonable value was shared instead of duplicated")
	}
	if b1.n != 3 || b2.n != 3 {
		t.Errorf("duplicated values = %d, %d, want 3", b1.n, b2.n)
	}
}

func TestNoOverwrite(t *testing.T) {
	tg := newTestGraph()
	property.Set(tg.n1.Properties(), optColor, "X")

	c := New().AddFilter(NoOverwrite)
	property.Set(c.Configure(tg.n1), optColor, "Y")
	property.Set(c.Configure(tg.n1), optA, 1)

	c.Visit(tg.n1)

	if got := property.Get(tg.n1.Properties(), optColor); got != "X" {
		t.Errorf("color = %q, want X", got)
	}
	if got := property.Get(tg.n1.Properties(), optA); got != 1 {
		t.Errorf("a = %d, want 1", got)
	}
}

func TestTargetFilter(t *testing.T) {
	reg := options.NewRegistry()
	for _, o := range []options.Option{
		{ID: "t.nodes", Targets: []options.Target{options.TargetNodes}},
		{ID: "t.parents", Targets: []options.Target{options.TargetParents}},
		{ID: "t.edges", Targets: []options.Target{options.TargetEdges}},
		{ID: "t.ports", Targets: []options.Target{options.TargetPorts}},
		{ID: "t.labels", Targets: []options.Target{options.TargetLabels}},
		{ID: "t.graphs", Targets: []options.Target{options.TargetGraphs}},
	} {
		if err := reg.Register(o); err != nil {
			t.Fatalf("Register(%s): %v", o.ID, err)
		}
	}

	tg := newTestGraph()
	tg.g.AddNode(tg.n2, "child")
	f := TargetFilter(reg)

	tests := []struct {
		name string
		e    model.Element
		id   property.ID
		want bool
	}{
		{"leaf node accepts nodes", tg.n1, "t.nodes", true},
		{"leaf node rejects parents", tg.n1, "t.parents", false},
		{"parent node accepts nodes", tg.n2, "t.nodes", true},
		{"parent node accepts parents", tg.n2, "t.parents", true},
		{"edge accepts edges", tg.e, "t.edges", true},
		{"edge rejects nodes", tg.e, "t.nodes", false},
		{"port accepts ports", tg.p, "t.ports", true},
		{"port rejects labels", tg.p, "t.labels", false},
		{"label accepts labels", tg.l, "t.labels", true},
		{"label rejects edges", tg.l, "t.edges", false},
		{"root rejects graphs", tg.g.Root(), "t.graphs", false},
		{"root accepts parents", tg.g.Root(), "t.parents", true},
		{"leaf rejects graphs", tg.n1, "t.graphs", false},
		{"unknown option accepted", tg.e, "t.unknown", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := f(tt.e, tt.id); got != tt.want {
				t.Errorf("filter(%s) = %v, want %v", tt.id, got, tt.want)
			}
		})
	}
}

func TestOverrideWith(t *testing.T) {
	tg := newTestGraph()

	base := New().AddFilter(NoOverwrite).SetClearLayout(true)
	property.Set(base.ConfigureTag(model.TagNode), optA, 1)
	property.Set(base.ConfigureTag(model.TagNode), optB, 1)
	property.Set(base.Configure(tg.n1), optC, 1)

	other := New()
	property.Set(other.ConfigureTag(model.TagNode), optB, 2)
	property.Set(other.Configure(tg.n1), optC, 2)
	property.Set(other.Configure(tg.n2), optA, 2)

	if base.OverrideWith(other) != base {
		t.Fatal("OverrideWith should return the receiver")
	}

	if base.ClearLayout() {
		t.Error("clearLayout should be taken from other")
	}
	if n := len(base.Filters()); n != 0 {
		t.Errorf("filters = %d, want 0 from other", n)
	}

	nodeTag := base.TagProperties(model.TagNode)
	if got := property.Get(nodeTag, optA); got != 1 {
		t.Errorf("tag a = %d, want 1", got)
	}
	if got := property.Get(nodeTag, optB); got != 2 {
		t.Errorf("tag b = %d, want 2", got)
	}
	if got := property.Get(base.Properties(tg.n1), optC); got != 2 {
		t.Errorf("n1 c = %d, want 2", got)
	}
	if got := property.Get(base.Properties(tg.n2), optA); got != 2 {
		t.Errorf("n2 a = %d, want 2", got)
	}
}

func TestOverrideWithCopiesFilters(t *testing.T) {
	reject := func(model.Element, property.ID) bool { return false }
	other := New().AddFilter(reject)
	c := New().OverrideWith(other)

	other.AddFilter(NoOverwrite)
	if n := len(c.Filters()); n != 1 {
		t.Errorf("filters = %d, want 1", n)
	}
}

func TestApply(t *testing.T) {
	tg := newTestGraph()
	first := New()
	property.Set(first.ConfigureTag(model.TagElement), optA, 1)
	second := New()
	property.Set(second.ConfigureTag(model.TagEdge), optA, 2)

	Apply(tg.g.Root(), first, second)

	if got := property.Get(tg.e.Properties(), optA); got != 2 {
		t.Errorf("edge a = %d, want 2", got)
	}
	if got := property.Get(tg.n1.Properties(), optA); got != 1 {
		t.Errorf("node a = %d, want 1", got)
	}
	if got := property.Get(tg.g.Root().Properties(), optA); got != 1 {
		t.Errorf("root a = %d, want 1", got)
	}
}

func TestAddLayoutConfigKey(t *testing.T) {
	tg := newTestGraph()
	next := New()
	c := New()
	property.Set(c.Configure(tg.g.Root()), AddLayoutConfig, next)

	c.Visit(tg.g.Root())

	if got := property.Get(tg.g.Root().Properties(), AddLayoutConfig); got != next {
		t.Error("addLayoutConfig value not applied to the root")
	}
}

func TestNilConfiguratorIsAbsent(t *testing.T) {
	tg := newTestGraph()
	root := tg.g.Root()
	property.Set(root.Properties(), AddLayoutConfig, nil)
	if root.Properties().Has(AddLayoutConfig.ID()) {
		t.Fatal("nil configurator stored on the root")
	}

	next := New()
	c := New().AddFilter(NoOverwrite)
	property.Set(c.Configure(root), AddLayoutConfig, next)
	c.Visit(root)

	if got := property.Get(root.Properties(), AddLayoutConfig); got != next {
		t.Error("noOverwrite rejected a value for an absent key")
	}
}
