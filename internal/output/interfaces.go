// Package output provides the export formats for built element graphs.
package output

import (
	"context"
	"io"

	"github.com/ikari-pl/go-graphscope/internal/graph"
)

// Formatter provides methods for formatting element graphs into different output formats.
type Formatter interface {
	// Format formats the given graph and writes it to the writer.
	Format(ctx context.Context, g *graph.ElementGraph, w io.Writer) error

	// Name returns the name of the formatter.
	Name() string

	// Description returns a description of the output format.
	Description() string

	// Extension returns the file extension used when exporting to a file.
	Extension() string
}

// Manager manages multiple output formatters.
type Manager interface {
	// RegisterFormatter registers a new formatter.
	RegisterFormatter(formatter Formatter)

	// GetFormatter returns a formatter by name.
	GetFormatter(name string) (Formatter, error)

	// ListFormatters returns all available formatter names.
	ListFormatters() []string

	// Format formats the graph using the specified formatter.
	Format(ctx context.Context, formatName string, g *graph.ElementGraph, w io.Writer) error
}
