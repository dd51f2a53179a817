package nodelink

import (
	"context"
	"strings"
	"testing"

	"github.com/matzehuels/stacklayout/pkg/dag"
	"github.com/matzehuels/stacklayout/pkg/dag/transform"
	"github.com/matzehuels/stacklayout/pkg/property"
)

func orderedGraph(t *testing.T) *dag.Graph {
	t.Helper()
	g := dag.New()
	for _, n := range []dag.Node{
		{ID: "root", Layer: 0},
		{ID: "b", Layer: 1},
		{ID: "a", Layer: 1},
		{ID: "a_sub_2", Layer: 2, Kind: dag.NodeKindSubdivider, MasterID: "a"},
	} {
		if _, err := g.AddNode(n); err != nil {
			t.Fatal(err)
		}
	}
	for _, e := range [][2]string{{"root", "a"}, {"root", "b"}, {"a", "a_sub_2"}} {
		if _, err := g.ConnectNodes(e[0], e[1]); err != nil {
			t.Fatal(err)
		}
	}
	return g
}

func TestToDOT(t *testing.T) {
	g := orderedGraph(t)
	dot := ToDOT(g, Options{})

	for _, want := range []string{
		`{ rank=same; "b"; "a"; }`,
		`"b" -> "a" [style=invis];`,
		`"root" -> "a";`,
		`"a_sub_2" [label="a_sub_2", style="rounded,filled,dashed"`,
	} {
		if !strings.Contains(dot, want) {
			t.Errorf("DOT missing %q\n%s", want, dot)
		}
	}
	if strings.Contains(dot, `"a" -> "b" [style=invis]`) {
		t.Error("layer chain does not follow the layer order")
	}
}

func TestToDOTReversedEdge(t *testing.T) {
	g := orderedGraph(t)
	e := g.Edges()[0]
	property.Set(e.Properties(), transform.Reversed, true)

	dot := ToDOT(g, Options{})
	if !strings.Contains(dot, `"root" -> "a" [dir=back];`) {
		t.Errorf("reversed edge not drawn backwards\n%s", dot)
	}
}

func TestToDOTDetailed(t *testing.T) {
	g := orderedGraph(t)
	n, _ := g.Node("a")
	property.Set(n.Properties(), dag.ModelOrder, 7)

	dot := ToDOT(g, Options{Detailed: true})
	if !strings.Contains(dot, `label="a\nlayer: 1\norder: 7"`) {
		t.Errorf("detailed label missing\n%s", dot)
	}
}

func TestRenderSVG(t *testing.T) {
	svg, err := RenderSVG(context.Background(), ToDOT(orderedGraph(t), Options{}))
	if err != nil {
		t.Fatalf("RenderSVG: %v", err)
	}
	if !strings.Contains(string(svg), "<svg") {
		t.Error("output is not SVG")
	}
	if !strings.Contains(string(svg), `viewBox="0 0 `) {
		t.Error("viewBox not normalized")
	}
}

func TestNormalizeViewBox(t *testing.T) {
	in := []byte(`<svg width="10pt" height="20pt" viewBox="0.00 0.00 100.00 50.00" xmlns="http://www.w3.org/2000/svg"><g/></svg>`)
	got := string(normalizeViewBox(in))
	want := `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 100.00 50.00" width="100" height="50"><g/></svg>`
	if got != want {
		t.Errorf("normalizeViewBox =\n%s\nwant\n%s", got, want)
	}
}
