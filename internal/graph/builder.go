package graph

import (
	"context"
	"fmt"
	"log/slog"
)

// builder implements the Builder interface.
type builder struct {
	logger *slog.Logger
	sep    string
}

// NewBuilder creates a new Builder that splits names on sep.
func NewBuilder(logger *slog.Logger, sep string) Builder {
	if sep == "" {
		sep = DefaultSeparator
	}
	return &builder{
		logger: logger,
		sep:    sep,
	}
}

// Build creates the element graph for raw.
func (b *builder) Build(ctx context.Context, raw *RawGraph) (*ElementGraph, error) {
	if raw == nil {
		return nil, fmt.Errorf("raw graph cannot be nil")
	}

	h, err := NewHierarchy(raw.Nodes, WithSeparator(b.sep))
	if err != nil {
		return nil, fmt.Errorf("failed to build scope hierarchy: %w", err)
	}

	g := newElementGraph(h.ScopeCount()+len(raw.Nodes)+len(raw.Edges), b.sep)

	// First pass: scopes, parents always precede their children
	for _, meta := range h.Metanodes() {
		if err := g.add(meta); err != nil {
			return nil, err
		}
		g.metanodes = append(g.metanodes, meta.ID)
		if depth := h.Depth(meta.Path); depth > g.Stats.MaxDepth {
			g.Stats.MaxDepth = depth
		}
	}
	g.Stats.Metanodes = len(g.metanodes)

	// Second pass: leaves
	for _, node := range raw.Nodes {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		leaf := Element{
			ID:     LeafID(node.Name),
			Kind:   KindLeaf,
			Label:  h.Name(node.Name),
			Color:  ColorFor(node.OpName),
			Path:   node.Name,
			Op:     node.Op,
			OpName: node.OpName,
			RawID:  node.ID,
			Other:  node.Other,
		}
		if parent, ok := h.Parent(node.Name); ok {
			leaf.Parent = parent
		}
		if err := g.add(leaf); err != nil {
			return nil, err
		}
		g.Stats.Leaves++
		g.Stats.Ops[node.OpName]++
	}

	// Third pass: edges
	for _, edge := range raw.Edges {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		el, err := b.edgeElement(h, edge)
		if err != nil {
			return nil, err
		}
		if err := g.add(el); err != nil {
			return nil, err
		}
		g.edges = append(g.edges, el.ID)
		g.outgoing[el.Source] = append(g.outgoing[el.Source], el.ID)
		g.incoming[el.Target] = append(g.incoming[el.Target], el.ID)
	}
	g.Stats.Edges = len(g.edges)

	b.logger.Info("Built element graph",
		"leaves", g.Stats.Leaves,
		"metanodes", g.Stats.Metanodes,
		"edges", g.Stats.Edges,
		"max_depth", g.Stats.MaxDepth)

	return g, nil
}

// edgeElement resolves both endpoints of a raw edge.
func (b *builder) edgeElement(h *Hierarchy, edge RawEdge) (Element, error) {
	src, err := h.Path(edge.SourceID)
	if err != nil {
		return Element{}, fmt.Errorf("edge %d source: %w", edge.ID, err)
	}
	dst, err := h.Path(edge.TargetID)
	if err != nil {
		return Element{}, fmt.Errorf("edge %d target: %w", edge.ID, err)
	}

	return Element{
		ID:     EdgeID(edge.ID),
		Kind:   KindEdge,
		Label:  ShapeLabel(edge.Label),
		Source: LeafID(src),
		Target: LeafID(dst),
		RawID:  edge.ID,
		Other:  edge.Other,
	}, nil
}

// add appends el, enforcing unique ids and present parents.
func (g *ElementGraph) add(el Element) error {
	if _, exists := g.index[el.ID]; exists {
		return fmt.Errorf("duplicate element id %q", el.ID)
	}
	if el.Parent != "" {
		if _, ok := g.index[el.Parent]; !ok {
			return fmt.Errorf("element %q references missing parent %q", el.ID, el.Parent)
		}
	}

	g.index[el.ID] = len(g.elements)
	g.elements = append(g.elements, el)
	if el.Kind != KindEdge {
		g.children[el.Parent] = append(g.children[el.Parent], el.ID)
	}
	return nil
}
