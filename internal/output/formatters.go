package output

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"

	"github.com/ikari-pl/go-graphscope/internal/graph"
)

// textFormatter adapts one of the Exporter's string renderers.
type textFormatter struct {
	name        string
	description string
	extension   string
	render      func(*graph.ElementGraph) (string, error)
}

func (f *textFormatter) Format(ctx context.Context, g *graph.ElementGraph, w io.Writer) error {
	text, err := f.render(g)
	if err != nil {
		return err
	}
	_, err = io.WriteString(w, text)
	return err
}

func (f *textFormatter) Name() string        { return f.name }
func (f *textFormatter) Description() string { return f.description }
func (f *textFormatter) Extension() string   { return f.extension }

// NewDOTFormatter creates a Graphviz DOT formatter.
func NewDOTFormatter() Formatter {
	return &textFormatter{
		name:        "dot",
		description: "Graphviz DOT with one cluster per scope",
		extension:   ".dot",
		render:      NewExporter().ExportDOT,
	}
}

// NewMermaidFormatter creates a Mermaid flowchart formatter.
func NewMermaidFormatter() Formatter {
	return &textFormatter{
		name:        "mermaid",
		description: "Mermaid flowchart with nested subgraphs",
		extension:   ".md",
		render:      NewExporter().ExportMermaid,
	}
}

// NewMarkdownFormatter creates a Markdown summary formatter.
func NewMarkdownFormatter() Formatter {
	return &textFormatter{
		name:        "markdown",
		description: "Markdown summary with statistics and scope tree",
		extension:   ".md",
		render:      NewExporter().ExportMarkdown,
	}
}

// manager implements the Manager interface.
type manager struct {
	mu         sync.RWMutex
	formatters map[string]Formatter
	aliases    map[string]string
}

// NewManager creates a Manager with the built-in formatters registered.
func NewManager() Manager {
	m := &manager{
		formatters: make(map[string]Formatter),
		aliases:    map[string]string{"md": "markdown"},
	}
	m.RegisterFormatter(NewJSONFormatter())
	m.RegisterFormatter(NewDOTFormatter())
	m.RegisterFormatter(NewMermaidFormatter())
	m.RegisterFormatter(NewMarkdownFormatter())
	return m
}

func (m *manager) RegisterFormatter(formatter Formatter) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.formatters[formatter.Name()] = formatter
}

func (m *manager) GetFormatter(name string) (Formatter, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	key := strings.ToLower(name)
	if alias, ok := m.aliases[key]; ok {
		key = alias
	}
	f, ok := m.formatters[key]
	if !ok {
		return nil, fmt.Errorf("unknown output format %q", name)
	}
	return f, nil
}

func (m *manager) ListFormatters() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	names := make([]string, 0, len(m.formatters))
	for name := range m.formatters {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (m *manager) Format(ctx context.Context, formatName string, g *graph.ElementGraph, w io.Writer) error {
	f, err := m.GetFormatter(formatName)
	if err != nil {
		return err
	}
	if err := f.Format(ctx, g, w); err != nil {
		return fmt.Errorf("failed to format graph as %s: %w", f.Name(), err)
	}
	return nil
}
