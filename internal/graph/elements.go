package graph

// Stats contains statistics about a built element graph.
type Stats struct {
	Leaves    int            `json:"leaves"`
	Metanodes int            `json:"metanodes"`
	Edges     int            `json:"edges"`
	MaxDepth  int            `json:"max_depth"`
	Ops       map[string]int `json:"ops,omitempty"`
}

// ElementGraph is the flat element collection produced by a build, with
// lookup indexes for renderers and controllers.
type ElementGraph struct {
	Stats     Stats  `json:"stats"`
	Separator string `json:"separator"`

	elements  []Element
	index     map[string]int
	children  map[string][]string // parent id ("" for top level) -> node and scope ids
	metanodes []string
	edges     []string
	outgoing  map[string][]string // leaf id -> edge ids
	incoming  map[string][]string // leaf id -> edge ids
}

func newElementGraph(capacity int, sep string) *ElementGraph {
	return &ElementGraph{
		Separator: sep,
		elements:  make([]Element, 0, capacity),
		index:     make(map[string]int, capacity),
		children:  make(map[string][]string),
		outgoing:  make(map[string][]string),
		incoming:  make(map[string][]string),
		Stats:     Stats{Ops: make(map[string]int)},
	}
}

// Elements returns every element: metanodes, then leaves, then edges.
func (g *ElementGraph) Elements() []Element {
	return g.elements
}

// Len returns the number of elements.
func (g *ElementGraph) Len() int {
	return len(g.elements)
}

// Element looks up an element by id.
func (g *ElementGraph) Element(id string) (*Element, bool) {
	idx, ok := g.index[id]
	if !ok {
		return nil, false
	}
	return &g.elements[idx], true
}

// Children returns the ids of the nodes and scopes nested directly under id.
// An empty id lists the top level.
func (g *ElementGraph) Children(id string) []string {
	return g.children[id]
}

// Roots returns the top-level node and scope ids.
func (g *ElementGraph) Roots() []string {
	return g.children[""]
}

// Metanodes returns all scope ids.
func (g *ElementGraph) Metanodes() []string {
	return g.metanodes
}

// Edges returns all edge ids.
func (g *ElementGraph) Edges() []string {
	return g.edges
}

// Outgoing returns the ids of edges leaving the leaf id.
func (g *ElementGraph) Outgoing(id string) []string {
	return g.outgoing[id]
}

// Incoming returns the ids of edges entering the leaf id.
func (g *ElementGraph) Incoming(id string) []string {
	return g.incoming[id]
}

// Ancestors returns the scope ids containing id, outermost first.
func (g *ElementGraph) Ancestors(id string) []string {
	var chain []string
	el, ok := g.Element(id)
	for ok && el.Parent != "" {
		chain = append(chain, el.Parent)
		el, ok = g.Element(el.Parent)
	}
	for i, j := 0, len(chain)-1; i < j; i, j = i+1, j-1 {
		chain[i], chain[j] = chain[j], chain[i]
	}
	return chain
}
