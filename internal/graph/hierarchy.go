package graph

import (
	"fmt"
	"strings"
)

// scopeRecord is one node of the scope prefix tree.
type scopeRecord struct {
	prefix string
	label  string
	parent int // index into Hierarchy.scopes, -1 at top level
	depth  int
}

// Hierarchy is the scope tree derived from node names. It is built once per
// input graph and answers parent/name/path/metanode queries without
// re-parsing strings.
//
// Every non-empty proper prefix of a multi-segment name becomes a scope,
// independent of how many nodes share it.
type Hierarchy struct {
	sep     string
	scopes  []scopeRecord
	byScope map[string]int // prefix -> scopes index
	parents map[string]int // node name -> scopes index, -1 at top level
	paths   map[int]string // node id -> name
}

// HierarchyOption customizes hierarchy construction.
type HierarchyOption func(*Hierarchy)

// WithSeparator sets the scope separator. Empty values are ignored.
func WithSeparator(sep string) HierarchyOption {
	return func(h *Hierarchy) {
		if sep != "" {
			h.sep = sep
		}
	}
}

// NewHierarchy builds the scope tree for the given nodes. Duplicate names,
// duplicate ids and names with empty segments are fatal.
func NewHierarchy(nodes []RawNode, opts ...HierarchyOption) (*Hierarchy, error) {
	h := &Hierarchy{
		sep:     DefaultSeparator,
		byScope: make(map[string]int),
		parents: make(map[string]int, len(nodes)),
		paths:   make(map[int]string, len(nodes)),
	}
	for _, opt := range opts {
		opt(h)
	}

	for _, node := range nodes {
		if _, exists := h.parents[node.Name]; exists {
			return nil, fmt.Errorf("%w: %q (node id %d)", ErrDuplicateName, node.Name, node.ID)
		}
		if prev, exists := h.paths[node.ID]; exists {
			return nil, fmt.Errorf("%w: %d used by %q and %q", ErrDuplicateID, node.ID, prev, node.Name)
		}

		segments := strings.Split(node.Name, h.sep)
		for _, seg := range segments {
			if seg == "" {
				return nil, fmt.Errorf("%w: %q (node id %d) has an empty segment", ErrMalformedName, node.Name, node.ID)
			}
		}

		parent := -1
		for i := 1; i < len(segments); i++ {
			parent = h.ensureScope(segments[:i], parent)
		}

		h.parents[node.Name] = parent
		h.paths[node.ID] = node.Name
	}

	return h, nil
}

// ensureScope returns the arena index for the prefix made of segs, creating
// the record under parent if it does not exist yet.
func (h *Hierarchy) ensureScope(segs []string, parent int) int {
	prefix := strings.Join(segs, h.sep)
	if idx, ok := h.byScope[prefix]; ok {
		return idx
	}
	h.scopes = append(h.scopes, scopeRecord{
		prefix: prefix,
		label:  segs[len(segs)-1],
		parent: parent,
		depth:  len(segs),
	})
	idx := len(h.scopes) - 1
	h.byScope[prefix] = idx
	return idx
}

// Separator returns the scope separator in use.
func (h *Hierarchy) Separator() string {
	return h.sep
}

// Parent returns the element id of the scope immediately containing name.
// The second result is false for single-segment names.
func (h *Hierarchy) Parent(name string) (string, bool) {
	idx, ok := h.parents[name]
	if !ok {
		idx = h.parentOfUnknown(name)
	}
	if idx < 0 {
		return "", false
	}
	return ScopeID(h.scopes[idx].prefix), true
}

// parentOfUnknown resolves the parent scope of a name that is not a node,
// such as a scope prefix itself.
func (h *Hierarchy) parentOfUnknown(name string) int {
	cut := strings.LastIndex(name, h.sep)
	if cut <= 0 {
		return -1
	}
	if idx, ok := h.byScope[name[:cut]]; ok {
		return idx
	}
	return -1
}

// Name returns the last path segment of name.
func (h *Hierarchy) Name(name string) string {
	if cut := strings.LastIndex(name, h.sep); cut >= 0 {
		return name[cut+len(h.sep):]
	}
	return name
}

// Path resolves a node id to its full name.
func (h *Hierarchy) Path(nodeID int) (string, error) {
	name, ok := h.paths[nodeID]
	if !ok {
		return "", fmt.Errorf("%w: node id %d", ErrDanglingReference, nodeID)
	}
	return name, nil
}

// Depth returns the number of segments of a scope prefix, or 0 if prefix is
// not a scope.
func (h *Hierarchy) Depth(prefix string) int {
	if idx, ok := h.byScope[prefix]; ok {
		return h.scopes[idx].depth
	}
	return 0
}

// Metanodes returns one synthetic element per scope, in first-seen order.
func (h *Hierarchy) Metanodes() []Element {
	out := make([]Element, 0, len(h.scopes))
	for _, rec := range h.scopes {
		el := Element{
			ID:    ScopeID(rec.prefix),
			Kind:  KindMetanode,
			Label: rec.label,
			Path:  rec.prefix,
			Op:    MetaOp,
			RawID: -1,
		}
		if rec.parent >= 0 {
			el.Parent = ScopeID(h.scopes[rec.parent].prefix)
		}
		out = append(out, el)
	}
	return out
}

// ScopeCount returns the number of distinct scopes.
func (h *Hierarchy) ScopeCount() int {
	return len(h.scopes)
}
