package graph

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
)

// service implements the Service interface.
type service struct {
	logger     *slog.Logger
	builder    Builder
	repository Repository
}

// NewService creates a new Service instance.
func NewService(logger *slog.Logger, builder Builder, repo Repository) Service {
	return &service{
		logger:     logger,
		builder:    builder,
		repository: repo,
	}
}

// Open loads the raw graph at path and builds its element graph.
func (s *service) Open(ctx context.Context, path string) (*ElementGraph, error) {
	s.logger.Info("Opening graph", "path", path)

	raw, err := s.repository.LoadGraph(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("failed to load graph: %w", err)
	}

	g, err := s.builder.Build(ctx, raw)
	if err != nil {
		return nil, fmt.Errorf("failed to build graph: %w", err)
	}

	return g, nil
}

// Validate checks the graph for orphans, self loops and cycles.
func (s *service) Validate(ctx context.Context, g *ElementGraph) ([]ValidationIssue, error) {
	var issues []ValidationIssue

	for _, el := range g.Elements() {
		select {
		case <-ctx.Done():
			return issues, ctx.Err()
		default:
		}

		switch el.Kind {
		case KindLeaf:
			if len(g.Outgoing(el.ID)) == 0 && len(g.Incoming(el.ID)) == 0 {
				issues = append(issues, ValidationIssue{
					Type:       "warning",
					Message:    fmt.Sprintf("Node '%s' has no connections (orphan)", el.Path),
					ElementID:  el.ID,
					Severity:   3,
					Suggestion: "Check whether the node was left behind by graph pruning",
				})
			}
		case KindEdge:
			if el.Source == el.Target {
				issues = append(issues, ValidationIssue{
					Type:      "info",
					Message:   fmt.Sprintf("Edge %d loops on '%s'", el.RawID, strings.TrimPrefix(el.Source, leafIDPrefix)),
					ElementID: el.ID,
					Severity:  2,
				})
			}
		}
	}

	for _, cycle := range FindCycles(ctx, g) {
		issues = append(issues, ValidationIssue{
			Type:       "info",
			Message:    fmt.Sprintf("Dependency cycle detected: %s", cycle),
			Severity:   5,
			Suggestion: "Cycles are expected only inside control-flow frames",
		})
	}

	s.logger.Info("Graph validation complete", "issues_found", len(issues))
	return issues, nil
}

// FindCycles detects dependency cycles between leaves with a DFS over
// outgoing edges and returns one "a -> b -> a" entry per back edge, so
// cycles sharing nodes are all reported. Self loops are not included.
func FindCycles(ctx context.Context, g *ElementGraph) []string {
	var cycles []string
	visited := make(map[string]bool)
	onStack := make(map[string]bool)
	var path []string

	var visit func(id string)
	visit = func(id string) {
		visited[id] = true
		onStack[id] = true
		path = append(path, id)
		defer func() {
			path = path[:len(path)-1]
			onStack[id] = false
		}()

		for _, edgeID := range g.Outgoing(id) {
			if ctx.Err() != nil {
				return
			}
			edge, _ := g.Element(edgeID)
			next := edge.Target
			if next == id {
				continue
			}
			if !visited[next] {
				visit(next)
				continue
			}
			if !onStack[next] {
				continue
			}
			for i := len(path) - 1; i >= 0; i-- {
				if path[i] == next {
					cycle := append(append([]string(nil), path[i:]...), next)
					cycles = append(cycles, formatCycle(cycle))
					break
				}
			}
		}
	}

	for _, el := range g.Elements() {
		if ctx.Err() != nil {
			break
		}
		if el.Kind != KindLeaf || visited[el.ID] {
			continue
		}
		visit(el.ID)
	}

	return cycles
}

func formatCycle(ids []string) string {
	names := make([]string, len(ids))
	for i, id := range ids {
		names[i] = strings.TrimPrefix(id, leafIDPrefix)
	}
	return strings.Join(names, " -> ")
}
