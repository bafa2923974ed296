package graph

import (
	"context"
)

// Builder constructs element graphs from raw input.
type Builder interface {
	// Build creates the element graph for raw. It fails without returning a
	// partial graph when the input is malformed.
	Build(ctx context.Context, raw *RawGraph) (*ElementGraph, error)
}

// Repository provides persistence operations for raw graphs.
type Repository interface {
	// LoadGraph loads a raw graph from storage.
	LoadGraph(ctx context.Context, path string) (*RawGraph, error)

	// SaveGraph persists a raw graph to storage.
	SaveGraph(ctx context.Context, raw *RawGraph, path string) error
}

// Service provides the high-level load/build/validate operations.
type Service interface {
	// Open loads the raw graph at path and builds its element graph.
	Open(ctx context.Context, path string) (*ElementGraph, error)

	// Validate checks a built graph for structural oddities worth reporting.
	Validate(ctx context.Context, g *ElementGraph) ([]ValidationIssue, error)
}

// ValidationIssue represents a potential problem found in the graph.
type ValidationIssue struct {
	Type       string `json:"type"` // "warning", "error", "info"
	Message    string `json:"message"`
	ElementID  string `json:"element_id,omitempty"`
	Severity   int    `json:"severity"` // 1-10, 10 being most severe
	Suggestion string `json:"suggestion,omitempty"`
}
