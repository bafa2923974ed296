package output

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/ikari-pl/go-graphscope/internal/graph"
)

func buildGraph(t *testing.T, raw *graph.RawGraph) *graph.ElementGraph {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	g, err := graph.NewBuilder(logger, "/").Build(context.Background(), raw)
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	return g
}

func two() *int { v := 2; return &v }

func sampleGraph(t *testing.T) *graph.ElementGraph {
	return buildGraph(t, &graph.RawGraph{
		Nodes: []graph.RawNode{
			{ID: 0, Name: "input", Op: "Placeholder", OpName: "Placeholder"},
			{ID: 1, Name: "dense/kernel", Op: "Const", OpName: "Const"},
			{ID: 2, Name: "dense/MatMul", Op: "MatMul", OpName: "MatMul"},
			{ID: 3, Name: "dense/bias/add", Op: "Add", OpName: "Add"},
		},
		Edges: []graph.RawEdge{
			{ID: 0, SourceID: 0, TargetID: 2, Label: []*int{nil, two()}},
			{ID: 1, SourceID: 1, TargetID: 2},
			{ID: 2, SourceID: 2, TargetID: 3},
		},
	})
}

func TestNewExporter(t *testing.T) {
	e := NewExporter()
	if e == nil {
		t.Fatal("NewExporter returned nil")
	}
}

func TestExportJSON(t *testing.T) {
	e := NewExporter()

	tests := []struct {
		name         string
		graph        *graph.ElementGraph
		wantElements int
	}{
		{
			name:         "empty graph",
			graph:        buildGraph(t, &graph.RawGraph{}),
			wantElements: 0,
		},
		{
			name:         "scoped graph",
			graph:        sampleGraph(t),
			wantElements: 2 + 4 + 3,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := e.ExportJSON(tt.graph)
			if err != nil {
				t.Fatalf("ExportJSON() error = %v", err)
			}

			var doc Document
			if err := json.Unmarshal(data, &doc); err != nil {
				t.Fatalf("ExportJSON() produced invalid JSON: %v", err)
			}
			if len(doc.Elements) != tt.wantElements {
				t.Errorf("elements = %d, want %d", len(doc.Elements), tt.wantElements)
			}
			if doc.Separator != "/" {
				t.Errorf("separator = %q, want %q", doc.Separator, "/")
			}
		})
	}
}

func TestExportJSONElementShape(t *testing.T) {
	data, err := NewExporter().ExportJSON(sampleGraph(t))
	if err != nil {
		t.Fatalf("ExportJSON() error = %v", err)
	}

	var raw struct {
		Elements []map[string]any `json:"elements"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatal(err)
	}

	first := raw.Elements[0]
	if first["kind"] != "metanode" || first["op"] != graph.MetaOp || first["id"] != "scope:dense" {
		t.Errorf("first element = %v, want the dense scope", first)
	}
	last := raw.Elements[len(raw.Elements)-1]
	if last["kind"] != "edge" || last["source"] != "node:dense/MatMul" {
		t.Errorf("last element = %v, want the MatMul edge", last)
	}
}

func TestExportDOT(t *testing.T) {
	out, err := NewExporter().ExportDOT(sampleGraph(t))
	if err != nil {
		t.Fatalf("ExportDOT() error = %v", err)
	}

	wants := []string{
		"digraph ComputationGraph {",
		"subgraph cluster_0 {",
		"label=\"dense\";",
		"    subgraph cluster_1 {",
		"label=\"bias\";",
		"\"dense/bias/add\" [label=\"add\\n(Add)\"",
		"\"input\" -> \"dense/MatMul\" [label=\"?x2\"];",
		"\"dense/kernel\" -> \"dense/MatMul\";",
	}
	for _, want := range wants {
		if !strings.Contains(out, want) {
			t.Errorf("ExportDOT() missing %q in:\n%s", want, out)
		}
	}

	// nested cluster closes inside its parent
	inner := strings.Index(out, "cluster_1")
	outerClose := strings.LastIndex(out[:strings.Index(out, "// Edges")], "  }\n")
	if inner < 0 || outerClose < inner {
		t.Errorf("cluster_1 is not nested inside cluster_0:\n%s", out)
	}
}

func TestExportDOTEscaping(t *testing.T) {
	g := buildGraph(t, &graph.RawGraph{
		Nodes: []graph.RawNode{{ID: 0, Name: `say"hi`, Op: "Const", OpName: "Const"}},
	})
	out, err := NewExporter().ExportDOT(g)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, `"say\"hi"`) {
		t.Errorf("quotes not escaped:\n%s", out)
	}
}

func TestExportMermaid(t *testing.T) {
	out, err := NewExporter().ExportMermaid(sampleGraph(t))
	if err != nil {
		t.Fatalf("ExportMermaid() error = %v", err)
	}

	if !strings.HasPrefix(out, "```mermaid\nflowchart TB\n") {
		t.Errorf("missing mermaid header:\n%s", out)
	}
	if !strings.HasSuffix(out, "```\n") {
		t.Errorf("missing closing fence:\n%s", out)
	}
	if strings.Count(out, "subgraph ") != 2 || strings.Count(out, "end\n") != 2 {
		t.Errorf("want two subgraphs:\n%s", out)
	}
	if !strings.Contains(out, "-->|?x2|") {
		t.Errorf("missing labeled edge:\n%s", out)
	}
	if !strings.Contains(out, "fill:"+graph.ColorFor("MatMul")) {
		t.Errorf("missing op color class:\n%s", out)
	}
}

func TestExportMarkdown(t *testing.T) {
	out, err := NewExporter().ExportMarkdown(sampleGraph(t))
	if err != nil {
		t.Fatalf("ExportMarkdown() error = %v", err)
	}

	wants := []string{
		"# Computation Graph",
		"| Nodes | 4 |",
		"| Scopes | 2 |",
		"| Max Scope Depth | 2 |",
		"- **dense/** (3)",
		"  - **bias/** (1)",
		"    - `add` Add",
		"```mermaid",
	}
	for _, want := range wants {
		if !strings.Contains(out, want) {
			t.Errorf("ExportMarkdown() missing %q", want)
		}
	}
}
