package output

import (
	"context"
	"io"

	"github.com/ikari-pl/go-graphscope/internal/graph"
)

// jsonFormatter implements the Formatter interface for JSON output.
type jsonFormatter struct {
	exporter *Exporter
}

// NewJSONFormatter creates a new JSON formatter.
func NewJSONFormatter() Formatter {
	return &jsonFormatter{exporter: NewExporter()}
}

// Format formats the given graph and writes it to the writer as JSON.
func (f *jsonFormatter) Format(ctx context.Context, g *graph.ElementGraph, w io.Writer) error {
	data, err := f.exporter.ExportJSON(g)
	if err != nil {
		return err
	}
	_, err = w.Write(append(data, '\n'))
	return err
}

// Name returns the name of the formatter.
func (f *jsonFormatter) Name() string {
	return "json"
}

// Description returns a description of the output format.
func (f *jsonFormatter) Description() string {
	return "Flat element list for external renderers"
}

func (f *jsonFormatter) Extension() string {
	return ".json"
}
