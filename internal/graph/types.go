// Package graph turns a flat list of scoped computation-graph nodes and edges
// into a nested element graph with synthetic scope elements ("metanodes").
package graph

import (
	"errors"
	"strconv"
	"strings"
)

// MetaOp is the op tag carried by synthetic scope elements.
const MetaOp = "Meta"

// DefaultSeparator splits node names into scope segments.
const DefaultSeparator = "/"

// Element id prefixes. A real node and a scope may share the same string
// ("dense" and "dense/kernel"), so ids are namespaced by kind.
const (
	leafIDPrefix  = "node:"
	scopeIDPrefix = "scope:"
	edgeIDPrefix  = "edge:"
)

// Construction errors. They are always wrapped with the offending record.
var (
	ErrDuplicateName     = errors.New("duplicate node name")
	ErrDuplicateID       = errors.New("duplicate node id")
	ErrMalformedName     = errors.New("malformed node name")
	ErrDanglingReference = errors.New("dangling node reference")
)

// RawNode is one operation of the input graph.
type RawNode struct {
	ID     int            `json:"id"`
	Name   string         `json:"name"`
	Op     string         `json:"op"`
	OpName string         `json:"op_name"`
	Other  map[string]any `json:"other,omitempty"`
}

// RawEdge is a data dependency between two raw nodes.
type RawEdge struct {
	ID       int `json:"id"`
	SourceID int `json:"scr_node_id"`
	TargetID int `json:"dst_node_id"`
	// Label is an optional shape descriptor; nil dimensions are unknown.
	// A nil slice means no descriptor, an empty one a scalar.
	Label []*int         `json:"label"`
	Other map[string]any `json:"other,omitempty"`
}

// RawGraph is the immutable input of one build.
type RawGraph struct {
	Nodes []RawNode `json:"nodes"`
	Edges []RawEdge `json:"edges"`
}

// ElementKind distinguishes the variants of Element.
type ElementKind string

const (
	KindLeaf     ElementKind = "leaf"
	KindMetanode ElementKind = "metanode"
	KindEdge     ElementKind = "edge"
)

// Element is one entry of the flat collection handed to a renderer.
type Element struct {
	ID     string      `json:"id"`
	Kind   ElementKind `json:"kind"`
	Parent string      `json:"parent,omitempty"`
	Label  string      `json:"label"`
	Color  string      `json:"color,omitempty"`

	// Node and scope attributes
	Path   string `json:"path,omitempty"`
	Op     string `json:"op,omitempty"`
	OpName string `json:"op_name,omitempty"`
	RawID  int    `json:"raw_id"`

	// Edge attributes
	Source string `json:"source,omitempty"`
	Target string `json:"target,omitempty"`

	Other map[string]any `json:"other,omitempty"`
}

// IsMetanode reports whether the element is a synthetic scope.
func (e *Element) IsMetanode() bool {
	return e != nil && e.Kind == KindMetanode
}

// LeafID returns the element id of the node with the given name.
func LeafID(name string) string {
	return leafIDPrefix + name
}

// ScopeID returns the element id of the scope with the given prefix.
func ScopeID(prefix string) string {
	return scopeIDPrefix + prefix
}

// EdgeID returns the element id of the raw edge with the given id.
func EdgeID(id int) string {
	return edgeIDPrefix + strconv.Itoa(id)
}

// ShapeLabel renders an edge shape descriptor, e.g. "2x?x3".
func ShapeLabel(dims []*int) string {
	if dims == nil {
		return ""
	}
	if len(dims) == 0 {
		return "scalar"
	}
	parts := make([]string, len(dims))
	for i, d := range dims {
		if d == nil {
			parts[i] = "?"
			continue
		}
		parts[i] = strconv.Itoa(*d)
	}
	return strings.Join(parts, "x")
}
