package output

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/ikari-pl/go-graphscope/internal/graph"
)

// Exporter renders element graphs into document formats.
type Exporter struct{}

// NewExporter creates a new Exporter instance.
func NewExporter() *Exporter {
	return &Exporter{}
}

// Document is the JSON form handed to external renderers.
type Document struct {
	Separator string          `json:"separator"`
	Stats     graph.Stats     `json:"stats"`
	Elements  []graph.Element `json:"elements"`
}

// ExportJSON exports the graph as pretty-printed JSON.
func (e *Exporter) ExportJSON(g *graph.ElementGraph) ([]byte, error) {
	doc := Document{
		Separator: g.Separator,
		Stats:     g.Stats,
		Elements:  g.Elements(),
	}
	if doc.Elements == nil {
		doc.Elements = []graph.Element{}
	}
	return json.MarshalIndent(doc, "", "  ")
}

// ExportDOT exports the graph as DOT format for Graphviz, one nested
// cluster per scope.
func (e *Exporter) ExportDOT(g *graph.ElementGraph) (string, error) {
	var buf bytes.Buffer

	buf.WriteString("digraph ComputationGraph {\n")
	buf.WriteString("  // Graph settings\n")
	buf.WriteString("  graph [rankdir=TB, compound=true, nodesep=0.6, ranksep=0.8];\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fontname=\"Helvetica\"];\n")
	buf.WriteString("  edge [fontname=\"Helvetica\", fontsize=10];\n\n")

	clusters := 0
	var writeScope func(parent string, indent string)
	writeScope = func(parent string, indent string) {
		for _, id := range g.Children(parent) {
			el, _ := g.Element(id)
			if el.IsMetanode() {
				buf.WriteString(fmt.Sprintf("%ssubgraph cluster_%d {\n", indent, clusters))
				clusters++
				buf.WriteString(fmt.Sprintf("%s  label=\"%s\";\n", indent, e.escapeString(el.Label)))
				buf.WriteString(fmt.Sprintf("%s  style=dashed;\n", indent))
				writeScope(id, indent+"  ")
				buf.WriteString(indent + "}\n")
				continue
			}
			buf.WriteString(fmt.Sprintf("%s\"%s\" [label=\"%s\\n(%s)\", fillcolor=\"%s\"];\n",
				indent, e.escapeString(el.Path), e.escapeString(el.Label), e.escapeString(el.Op), el.Color))
		}
	}
	writeScope("", "  ")

	buf.WriteString("\n  // Edges\n")
	for _, id := range g.Edges() {
		edge, _ := g.Element(id)
		src, _ := g.Element(edge.Source)
		dst, _ := g.Element(edge.Target)
		attrs := ""
		if edge.Label != "" {
			attrs = fmt.Sprintf(" [label=\"%s\"]", e.escapeString(edge.Label))
		}
		buf.WriteString(fmt.Sprintf("  \"%s\" -> \"%s\"%s;\n",
			e.escapeString(src.Path), e.escapeString(dst.Path), attrs))
	}

	buf.WriteString("}\n")
	return buf.String(), nil
}

// ExportMermaid exports the graph as a Mermaid flowchart with one subgraph
// per scope.
func (e *Exporter) ExportMermaid(g *graph.ElementGraph) (string, error) {
	var buf bytes.Buffer

	buf.WriteString("```mermaid\nflowchart TB\n")

	ids := make(map[string]string, g.Len())
	for i, el := range g.Elements() {
		if el.Kind == graph.KindMetanode {
			ids[el.ID] = fmt.Sprintf("s%d", i)
		} else {
			ids[el.ID] = fmt.Sprintf("n%d", i)
		}
	}

	buf.WriteString("\n    %% Node definitions\n")
	var writeScope func(parent string, indent string)
	writeScope = func(parent string, indent string) {
		for _, id := range g.Children(parent) {
			el, _ := g.Element(id)
			if el.IsMetanode() {
				buf.WriteString(fmt.Sprintf("%ssubgraph %s[\"%s\"]\n", indent, ids[id], e.escapeMermaid(el.Label)))
				writeScope(id, indent+"    ")
				buf.WriteString(indent + "end\n")
				continue
			}
			buf.WriteString(fmt.Sprintf("%s%s[\"%s\"]\n", indent, ids[id], e.escapeMermaid(el.Label)))
		}
	}
	writeScope("", "    ")

	buf.WriteString("\n    %% Connections\n")
	for _, id := range g.Edges() {
		edge, _ := g.Element(id)
		if edge.Label != "" {
			buf.WriteString(fmt.Sprintf("    %s -->|%s| %s\n", ids[edge.Source], e.escapeMermaid(edge.Label), ids[edge.Target]))
		} else {
			buf.WriteString(fmt.Sprintf("    %s --> %s\n", ids[edge.Source], ids[edge.Target]))
		}
	}

	// Styles, one class per op so colors match the renderer
	classes := make(map[string][]string)
	for _, el := range g.Elements() {
		if el.Kind == graph.KindLeaf {
			classes[el.OpName] = append(classes[el.OpName], ids[el.ID])
		}
	}
	if len(classes) > 0 {
		buf.WriteString("\n    %% Styles\n")
		ops := make([]string, 0, len(classes))
		for op := range classes {
			ops = append(ops, op)
		}
		sort.Strings(ops)
		for i, op := range ops {
			buf.WriteString(fmt.Sprintf("    classDef op%d fill:%s,color:#000\n", i, graph.ColorFor(op)))
			buf.WriteString(fmt.Sprintf("    class %s op%d\n", strings.Join(classes[op], ","), i))
		}
	}

	buf.WriteString("```\n")
	return buf.String(), nil
}

// ExportMarkdown exports the graph as Markdown documentation.
func (e *Exporter) ExportMarkdown(g *graph.ElementGraph) (string, error) {
	var buf bytes.Buffer

	buf.WriteString("# Computation Graph\n\n")

	buf.WriteString("## 📊 Statistics\n\n")
	buf.WriteString("| Metric | Count |\n")
	buf.WriteString("|--------|-------|\n")
	buf.WriteString(fmt.Sprintf("| Nodes | %d |\n", g.Stats.Leaves))
	buf.WriteString(fmt.Sprintf("| Scopes | %d |\n", g.Stats.Metanodes))
	buf.WriteString(fmt.Sprintf("| Edges | %d |\n", g.Stats.Edges))
	buf.WriteString(fmt.Sprintf("| Max Scope Depth | %d |\n", g.Stats.MaxDepth))
	buf.WriteString("\n")

	if len(g.Stats.Ops) > 0 {
		ops := make([]string, 0, len(g.Stats.Ops))
		for op := range g.Stats.Ops {
			ops = append(ops, op)
		}
		sort.Slice(ops, func(i, j int) bool {
			if g.Stats.Ops[ops[i]] != g.Stats.Ops[ops[j]] {
				return g.Stats.Ops[ops[i]] > g.Stats.Ops[ops[j]]
			}
			return ops[i] < ops[j]
		})

		buf.WriteString("## ⚙️ Operations\n\n")
		buf.WriteString("| Op | Count |\n")
		buf.WriteString("|----|-------|\n")
		for _, op := range ops {
			buf.WriteString(fmt.Sprintf("| `%s` | %d |\n", op, g.Stats.Ops[op]))
		}
		buf.WriteString("\n")
	}

	buf.WriteString("## 🗂 Scopes\n\n")
	var writeScope func(parent string, depth int)
	writeScope = func(parent string, depth int) {
		for _, id := range g.Children(parent) {
			el, _ := g.Element(id)
			indent := strings.Repeat("  ", depth)
			if el.IsMetanode() {
				buf.WriteString(fmt.Sprintf("%s- **%s/** (%d)\n", indent, el.Label, len(g.Children(id))))
				writeScope(id, depth+1)
				continue
			}
			buf.WriteString(fmt.Sprintf("%s- `%s` %s\n", indent, el.Label, el.OpName))
		}
	}
	writeScope("", 0)
	buf.WriteString("\n")

	mermaid, _ := e.ExportMermaid(g)
	buf.WriteString("## 📈 Dependency Graph\n\n")
	buf.WriteString(mermaid)

	return buf.String(), nil
}

// Helper functions

func (e *Exporter) escapeString(s string) string {
	s = strings.ReplaceAll(s, "\\", "\\\\")
	s = strings.ReplaceAll(s, "\"", "\\\"")
	s = strings.ReplaceAll(s, "\n", "\\n")
	return s
}

func (e *Exporter) escapeMermaid(s string) string {
	s = strings.ReplaceAll(s, "\"", "#quot;")
	s = strings.ReplaceAll(s, "|", "#124;")
	return s
}
