package tui

import (
	"strings"

	"github.com/ikari-pl/go-graphscope/internal/graph"
)

// navigator implements the Navigator interface.
type navigator struct {
	stack []ViewState
	path  []PathItem
}

// NewNavigator creates a new Navigator instance.
func NewNavigator() Navigator {
	return &navigator{
		stack: make([]ViewState, 0),
		path:  make([]PathItem, 0),
	}
}

// PushState saves the current state to the navigation stack.
func (n *navigator) PushState(state ViewState) {
	n.stack = append(n.stack, state)
}

// PopState returns to the previous state from the navigation stack.
func (n *navigator) PopState() (ViewState, bool) {
	if len(n.stack) == 0 {
		return ViewState{}, false
	}

	last := n.stack[len(n.stack)-1]
	n.stack = n.stack[:len(n.stack)-1]
	return last, true
}

// SetPath replaces the breadcrumb with the scopes containing id followed by
// the element itself.
func (n *navigator) SetPath(g *graph.ElementGraph, id string) {
	n.path = n.path[:0]
	if g == nil {
		return
	}
	el, ok := g.Element(id)
	if !ok {
		return
	}

	ids := append(g.Ancestors(id), id)
	if el.Kind == graph.KindEdge {
		ids = []string{id}
	}
	if len(ids) > MaxNavPathLength {
		ids = ids[len(ids)-MaxNavPathLength:]
	}

	for _, aid := range ids {
		item, ok := g.Element(aid)
		if !ok {
			continue
		}
		name := item.Label
		if name == "" {
			name = aid
		}
		if len(name) > 20 {
			name = name[:17] + EllipsisString
		}
		n.path = append(n.path, PathItem{ID: aid, DisplayName: name})
	}
}

// GetPath returns the current breadcrumb.
func (n *navigator) GetPath() []PathItem {
	return n.path
}

// ClearPath clears the breadcrumb.
func (n *navigator) ClearPath() {
	n.path = make([]PathItem, 0)
}

// RenderPath renders the breadcrumb as "a / b / c".
func (n *navigator) RenderPath() string {
	if len(n.path) == 0 {
		return ""
	}

	parts := make([]string, len(n.path))
	for i, item := range n.path {
		parts[i] = item.DisplayName
	}
	return strings.Join(parts, " / ")
}

// GetDepth returns the current navigation depth.
func (n *navigator) GetDepth() int {
	return len(n.stack)
}
