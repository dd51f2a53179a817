package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/matzehuels/stacklayout/pkg/graph"
	"github.com/matzehuels/stacklayout/pkg/pipeline"
)

const fanOutJSON = `{
	"nodes": [{"id": "r"}, {"id": "a"}, {"id": "b"}, {"id": "c"}],
	"edges": [
		{"from": "r", "to": "c"},
		{"from": "r", "to": "b"},
		{"from": "r", "to": "a"}
	]
}`

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func execute(t *testing.T, args ...string) error {
	t.Helper()
	c := New(io.Discard, LogInfo)
	root := c.RootCommand()
	root.SetArgs(args)
	root.SetOut(io.Discard)
	root.SetErr(io.Discard)
	return root.ExecuteContext(context.Background())
}

func TestOrderCommand(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want [][]string
	}{
		{"Default", nil, [][]string{{"r"}, {"c", "b", "a"}}},
		{"PreferModelOrder", []string{"--strategy", "PREFER_MODEL_ORDER"}, [][]string{{"r"}, {"a", "b", "c"}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			input := writeFile(t, dir, "graph.json", fanOutJSON)
			args := append([]string{"order", input, "--no-cache"}, tt.args...)
			if err := execute(t, args...); err != nil {
				t.Fatalf("order: %v", err)
			}
			l, err := graph.ReadLayoutFile(filepath.Join(dir, "graph.layout.json"))
			if err != nil {
				t.Fatalf("read layout: %v", err)
			}
			if diff := cmp.Diff(tt.want, l.Layers); diff != "" {
				t.Errorf("layers mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestOrderCommandWithConfig(t *testing.T) {
	dir := t.TempDir()
	input := writeFile(t, dir, "graph.json", fanOutJSON)
	config := writeFile(t, dir, "layout.toml", `
[[elements]]
name = "@graph"
options = { "layered.considerModelOrder.strategy" = "PREFER_MODEL_ORDER" }
`)
	out := filepath.Join(dir, "out.dot")
	if err := execute(t, "order", input, "--no-cache", "-c", config, "-f", "dot", "-o", out); err != nil {
		t.Fatalf("order: %v", err)
	}
	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), `{ rank=same; "a"; "b"; "c"; }`) {
		t.Errorf("configured strategy not applied:\n%s", data)
	}
}

func TestOrderCommandErrors(t *testing.T) {
	dir := t.TempDir()
	input := writeFile(t, dir, "graph.json", fanOutJSON)
	tests := []struct {
		name string
		args []string
	}{
		{"MissingFile", []string{"order", filepath.Join(dir, "nope.json"), "--no-cache"}},
		{"BadStrategy", []string{"order", input, "--no-cache", "--strategy", "SOMETIMES"}},
		{"BadFormat", []string{"order", input, "--no-cache", "-f", "png"}},
		{"BadConfig", []string{"order", input, "--no-cache", "-c", writeFile(t, dir, "c.ini", "")}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := execute(t, tt.args...); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestRenderCommand(t *testing.T) {
	dir := t.TempDir()
	input := writeFile(t, dir, "graph.json", fanOutJSON)
	if err := execute(t, "order", input, "--no-cache"); err != nil {
		t.Fatalf("order: %v", err)
	}
	layout := filepath.Join(dir, "graph.layout.json")
	if err := execute(t, "render", layout, "--no-cache", "-f", "dot"); err != nil {
		t.Fatalf("render: %v", err)
	}
	data, err := os.ReadFile(filepath.Join(dir, "graph.dot"))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(string(data), "digraph") {
		t.Errorf("render output is not DOT:\n%s", data)
	}

	if err := execute(t, "render", layout, "--no-cache", "-f", "json"); err == nil {
		t.Error("rendering a layout to json should fail")
	}
}

func TestDefaultOutput(t *testing.T) {
	tests := []struct {
		input, format, want string
	}{
		{"g.json", pipeline.FormatJSON, "g.layout.json"},
		{"g.json", pipeline.FormatSVG, "g.svg"},
		{"dir/g.layout.json", pipeline.FormatDOT, "dir/g.dot"},
	}
	for _, tt := range tests {
		if got := defaultOutput(tt.input, tt.format); got != tt.want {
			t.Errorf("defaultOutput(%q, %q) = %q, want %q", tt.input, tt.format, got, tt.want)
		}
	}
}
