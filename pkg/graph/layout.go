package graph

import (
	"encoding/json"
	"fmt"
	"os"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/matzehuels/stacklayout/pkg/dag"
	"github.com/matzehuels/stacklayout/pkg/errors"
)

// =============================================================================
// Layout - Ordering Result
// =============================================================================

// Layout is the serialization format for an ordered layered graph.
//
// Layers lists node IDs per layer, top to bottom, in their resolved
// left-to-right order. Nodes and Edges describe the graph after
// normalization, including subdividers.
type Layout struct {
	RunID     string     `json:"run_id,omitempty" bson:"run_id,omitempty"`
	Strategy  string     `json:"strategy" bson:"strategy"`
	LongEdge  string     `json:"long_edge" bson:"long_edge"`
	Layers    [][]string `json:"layers" bson:"layers"`
	Nodes     []Node     `json:"nodes,omitempty" bson:"nodes,omitempty"`
	Edges     []Edge     `json:"edges,omitempty" bson:"edges,omitempty"`
	Crossings int        `json:"crossings" bson:"crossings"`
	Stats     Stats      `json:"stats" bson:"stats"`
}

// Stats summarizes the work done while producing a layout.
type Stats struct {
	ReversedEdges int `json:"reversed_edges" bson:"reversed_edges"`
	Subdividers   int `json:"subdividers" bson:"subdividers"`
	Comparisons   int `json:"comparisons" bson:"comparisons"`
	CacheHits     int `json:"cache_hits" bson:"cache_hits"`
	Relations     int `json:"relations" bson:"relations"`
}

// LayoutFromDAG captures the layers, nodes and edges of g. Strategy,
// LongEdge, Crossings and Stats are left for the caller.
func LayoutFromDAG(g *dag.Graph) Layout {
	gj := FromDAG(g)
	l := Layout{Nodes: gj.Nodes, Edges: gj.Edges}
	for _, layer := range g.Layers() {
		l.Layers = append(l.Layers, dag.NodeIDs(layer))
	}
	return l
}

// =============================================================================
// Layout Serialization API
// =============================================================================

// MarshalLayout serializes a Layout to pretty-printed JSON bytes.
func MarshalLayout(l Layout) ([]byte, error) {
	return json.MarshalIndent(l, "", "  ")
}

// UnmarshalLayout deserializes JSON bytes into a Layout.
func UnmarshalLayout(data []byte) (Layout, error) {
	var l Layout
	if err := json.Unmarshal(data, &l); err != nil {
		return Layout{}, errors.Wrap(errors.ErrCodeInvalidFormat, err, "unmarshal layout")
	}
	if err := l.validate(); err != nil {
		return Layout{}, err
	}
	return l, nil
}

// MarshalLayoutBSON serializes a Layout to BSON, the format used by the
// layout cache.
func MarshalLayoutBSON(l Layout) ([]byte, error) {
	data, err := bson.Marshal(l)
	if err != nil {
		return nil, fmt.Errorf("marshal layout: %w", err)
	}
	return data, nil
}

// UnmarshalLayoutBSON deserializes BSON bytes into a Layout.
func UnmarshalLayoutBSON(data []byte) (Layout, error) {
	var l Layout
	if err := bson.Unmarshal(data, &l); err != nil {
		return Layout{}, errors.Wrap(errors.ErrCodeInvalidFormat, err, "unmarshal layout")
	}
	if err := l.validate(); err != nil {
		return Layout{}, err
	}
	return l, nil
}

func (l *Layout) validate() error {
	seen := make(map[string]bool)
	for i, layer := range l.Layers {
		for _, id := range layer {
			if seen[id] {
				return errors.New(errors.ErrCodeInvalidFormat, "node %q listed twice (layer %d)", id, i)
			}
			seen[id] = true
		}
	}
	return nil
}

// WriteLayoutFile writes a Layout to a JSON file.
func WriteLayoutFile(l Layout, path string) error {
	data, err := MarshalLayout(l)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// ReadLayoutFile reads a Layout from a JSON file.
func ReadLayoutFile(path string) (Layout, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Layout{}, fmt.Errorf("read %s: %w", path, err)
	}
	return UnmarshalLayout(data)
}
