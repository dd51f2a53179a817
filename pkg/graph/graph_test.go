package graph

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/matzehuels/stacklayout/pkg/dag"
	"github.com/matzehuels/stacklayout/pkg/errors"
	"github.com/matzehuels/stacklayout/pkg/property"
)

func TestReadGraph(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		wantNodes int
		wantEdges int
		wantCode  errors.Code
		check     func(t *testing.T, g *dag.Graph)
	}{
		{
			name: "Valid",
			input: `{
				"nodes": [
					{"id": "A", "options": {"priority": 3, "spacing.nodeNode": 20.0}},
					{"id": "B", "ports": ["west", "east"]},
					{"id": "C", "model_order": 9}
				],
				"edges": [
					{"from": "A", "to": "B", "to_port": "east"},
					{"from": "A", "to": "C"}
				],
				"options": {"layered.considerModelOrder.strategy": "PREFER_MODEL_ORDER"}
			}`,
			wantNodes: 3,
			wantEdges: 2,
			check: func(t *testing.T, g *dag.Graph) {
				a, _ := g.Node("A")
				if got := property.Get(a.Properties(), property.NewKey("priority", 0)); got != 3 {
					t.Errorf("priority = %v, want int 3", got)
				}
				if got := property.Get(a.Properties(), property.NewKey("spacing.nodeNode", 0.0)); got != 20.0 {
					t.Errorf("spacing = %v, want float 20", got)
				}
				if mo, ok := a.ModelOrder(); !ok || mo != 0 {
					t.Errorf("A model order = %d (%v), want 0", mo, ok)
				}
				c, _ := g.Node("C")
				if mo, _ := c.ModelOrder(); mo != 9 {
					t.Errorf("C model order = %d, want 9", mo)
				}

				b, _ := g.Node("B")
				if diff := cmp.Diff([]string{"west", "east"}, portIDs(b)); diff != "" {
					t.Errorf("B ports mismatch (-want +got):\n%s", diff)
				}
				if b.FirstIncoming().Target.ID != "east" {
					t.Errorf("edge should enter B through east")
				}
				if mo, _ := c.FirstIncoming().ModelOrder(); mo != 1 {
					t.Errorf("edge A→C model order = %d, want 1", mo)
				}
				if !g.Properties().Has("layered.considerModelOrder.strategy") {
					t.Error("graph options not applied")
				}
			},
		},
		{
			name:      "Empty",
			input:     `{"nodes": [], "edges": []}`,
			wantNodes: 0,
			wantEdges: 0,
		},
		{
			name:     "Invalid",
			input:    `{invalid json}`,
			wantCode: errors.ErrCodeInvalidFormat,
		},
		{
			name:     "UnknownNode",
			input:    `{"nodes": [{"id": "A"}], "edges": [{"from": "A", "to": "Z"}]}`,
			wantCode: errors.ErrCodeInvalidGraph,
		},
		{
			name:     "DuplicateNode",
			input:    `{"nodes": [{"id": "A"}, {"id": "A"}]}`,
			wantCode: errors.ErrCodeInvalidGraph,
		},
		{
			name:     "EmptyID",
			input:    `{"nodes": [{"id": ""}]}`,
			wantCode: errors.ErrCodeInvalidInput,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, err := ReadGraph(strings.NewReader(tt.input))
			if tt.wantCode != "" {
				if !errors.Is(err, tt.wantCode) {
					t.Fatalf("ReadGraph error = %v, want code %s", err, tt.wantCode)
				}
				return
			}
			if err != nil {
				t.Fatalf("ReadGraph: %v", err)
			}
			if got := g.NodeCount(); got != tt.wantNodes {
				t.Errorf("nodes = %d, want %d", got, tt.wantNodes)
			}
			if got := g.EdgeCount(); got != tt.wantEdges {
				t.Errorf("edges = %d, want %d", got, tt.wantEdges)
			}
			if tt.check != nil {
				tt.check(t, g)
			}
		})
	}
}

func portIDs(n *dag.Node) []string {
	var ids []string
	for _, p := range n.Ports() {
		ids = append(ids, p.ID)
	}
	return ids
}

func TestSyntheticNodesGetNoModelOrder(t *testing.T) {
	g, err := ToDAG(Graph{Nodes: []Node{
		{ID: "a"},
		{ID: "a_sub_1", Kind: KindSubdivider, MasterID: "a"},
	}})
	if err != nil {
		t.Fatal(err)
	}
	sub, _ := g.Node("a_sub_1")
	if _, ok := sub.ModelOrder(); ok {
		t.Error("subdivider should not get a positional model order")
	}
	if !sub.IsSubdivider() || sub.MasterID != "a" {
		t.Errorf("subdivider = %v master %q", sub.Kind, sub.MasterID)
	}
}

func TestGraphRoundTrip(t *testing.T) {
	in := `{
		"nodes": [{"id": "p", "ports": ["o1", "o2"]}, {"id": "a"}, {"id": "b"}],
		"edges": [{"from": "p", "from_port": "o2", "to": "a"}, {"from": "p", "from_port": "o1", "to": "b"}]
	}`
	g, err := ReadGraph(strings.NewReader(in))
	if err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	if err := WriteGraph(g, &buf); err != nil {
		t.Fatalf("WriteGraph: %v", err)
	}
	g2, err := ReadGraph(&buf)
	if err != nil {
		t.Fatalf("re-read: %v", err)
	}

	if diff := cmp.Diff(FromDAG(g), FromDAG(g2)); diff != "" {
		t.Errorf("round trip mismatch (-first +second):\n%s", diff)
	}
	p, _ := g2.Node("p")
	if diff := cmp.Diff([]string{"o1", "o2"}, portIDs(p)); diff != "" {
		t.Errorf("port order mismatch (-want +got):\n%s", diff)
	}
}

func TestGraphFile(t *testing.T) {
	g := dag.New()
	_, _ = g.AddNode(dag.Node{ID: "x"})
	path := filepath.Join(t.TempDir(), "g.json")

	if err := WriteGraphFile(g, path); err != nil {
		t.Fatalf("WriteGraphFile: %v", err)
	}
	got, err := ReadGraphFile(path)
	if err != nil {
		t.Fatalf("ReadGraphFile: %v", err)
	}
	if got.NodeCount() != 1 {
		t.Errorf("nodes = %d, want 1", got.NodeCount())
	}
	if _, err := ReadGraphFile(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestMarshalGraphOmitsModelOrderOption(t *testing.T) {
	g := dag.New()
	n, _ := g.AddNode(dag.Node{ID: "x"})
	property.Set(n.Properties(), dag.ModelOrder, 4)
	n.Properties().SetValue("priority", 1)

	data, err := MarshalGraph(g)
	if err != nil {
		t.Fatal(err)
	}
	var out Graph
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatal(err)
	}
	if out.Nodes[0].ModelOrder == nil || *out.Nodes[0].ModelOrder != 4 {
		t.Errorf("model_order = %v, want 4", out.Nodes[0].ModelOrder)
	}
	if _, ok := out.Nodes[0].Options[string(dag.ModelOrder.ID())]; ok {
		t.Error("model order duplicated into options")
	}
	if _, ok := out.Nodes[0].Options["priority"]; !ok {
		t.Error("priority option missing")
	}
}

func TestLayoutCodecs(t *testing.T) {
	mo := 2
	l := Layout{
		RunID:     "run-1",
		Strategy:  "PREFER_EDGES",
		LongEdge:  "EQUAL",
		Layers:    [][]string{{"a"}, {"b", "a_sub_1"}},
		Nodes:     []Node{{ID: "a", ModelOrder: &mo}, {ID: "b"}, {ID: "a_sub_1", Kind: KindSubdivider, MasterID: "a", Layer: 1}},
		Edges:     []Edge{{From: "a", FromPort: "p0", To: "b", ToPort: "p0"}},
		Crossings: 1,
		Stats:     Stats{Comparisons: 3, Relations: 1},
	}

	t.Run("JSON", func(t *testing.T) {
		data, err := MarshalLayout(l)
		if err != nil {
			t.Fatal(err)
		}
		got, err := UnmarshalLayout(data)
		if err != nil {
			t.Fatal(err)
		}
		if diff := cmp.Diff(l, got); diff != "" {
			t.Errorf("JSON round trip mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("BSON", func(t *testing.T) {
		data, err := MarshalLayoutBSON(l)
		if err != nil {
			t.Fatal(err)
		}
		got, err := UnmarshalLayoutBSON(data)
		if err != nil {
			t.Fatal(err)
		}
		if diff := cmp.Diff(l, got); diff != "" {
			t.Errorf("BSON round trip mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("DuplicateNode", func(t *testing.T) {
		if _, err := UnmarshalLayout([]byte(`{"layers": [["a"], ["a"]]}`)); !errors.Is(err, errors.ErrCodeInvalidFormat) {
			t.Errorf("error = %v, want INVALID_FORMAT", err)
		}
	})
}

func TestLayoutFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "layout.json")
	l := Layout{Strategy: "PREFER_EDGES", LongEdge: "EQUAL", Layers: [][]string{{"a", "b"}}}
	if err := WriteLayoutFile(l, path); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatal(err)
	}
	got, err := ReadLayoutFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(l.Layers, got.Layers); diff != "" {
		t.Errorf("layers mismatch (-want +got):\n%s", diff)
	}
}

func TestLayoutFromDAG(t *testing.T) {
	g := dag.New()
	_, _ = g.AddNode(dag.Node{ID: "a", Layer: 0})
	_, _ = g.AddNode(dag.Node{ID: "c", Layer: 1})
	_, _ = g.AddNode(dag.Node{ID: "b", Layer: 1})

	l := LayoutFromDAG(g)

	if diff := cmp.Diff([][]string{{"a"}, {"c", "b"}}, l.Layers); diff != "" {
		t.Errorf("layers mismatch (-want +got):\n%s", diff)
	}
	if len(l.Nodes) != 3 {
		t.Errorf("nodes = %d, want 3", len(l.Nodes))
	}
}
