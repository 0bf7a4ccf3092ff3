package graph

// Builder accumulates nodes and edges during a single traversal.
// Nodes are deduplicated through the registry; edges are appended as given.
type Builder struct {
	registry *Registry
	nodes    []*Node
	edges    []Edge
}

// NewBuilder creates an empty builder with a fresh registry.
func NewBuilder() *Builder {
	return &Builder{
		registry: NewRegistry(),
		nodes:    []*Node{},
		edges:    []Edge{},
	}
}

// AddNode appends n unless its id is already registered in the node's namespace.
// It reports whether the node was added.
func (b *Builder) AddNode(n *Node) bool {
	if n == nil {
		return false
	}
	if !b.registry.Register(NamespaceOf(n.Kind), n.ID) {
		return false
	}
	b.nodes = append(b.nodes, n)
	return true
}

// AddEdge appends an edge. Edges are never deduplicated.
func (b *Builder) AddEdge(source, target string, kind EdgeKind) {
	b.edges = append(b.edges, Edge{Source: source, Target: target, Kind: kind})
}

// Seen reports whether a node with this id and kind's namespace was already added.
func (b *Builder) Seen(kind NodeKind, id string) bool {
	return b.registry.Seen(NamespaceOf(kind), id)
}

// Len returns the number of nodes and edges collected so far.
func (b *Builder) Len() (nodes, edges int) {
	return len(b.nodes), len(b.edges)
}

// Graph returns a snapshot of the collected nodes and edges. Later calls to the
// builder do not affect a returned snapshot.
func (b *Builder) Graph() *Graph {
	g := &Graph{
		Nodes: make([]*Node, len(b.nodes)),
		Edges: make([]Edge, len(b.edges)),
	}
	copy(g.Nodes, b.nodes)
	copy(g.Edges, b.edges)
	return g
}
