package graph

// NodeKind is the type tag of a node.
type NodeKind string

const (
	KindPackage   NodeKind = "package"
	KindFile      NodeKind = "file"
	KindClass     NodeKind = "class"
	KindInterface NodeKind = "interface"
	KindMethod    NodeKind = "method"
	KindField     NodeKind = "field"
)

// EdgeKind is the type tag of an edge.
type EdgeKind string

const (
	EdgeContains   EdgeKind = "contains"
	EdgeImport     EdgeKind = "import"
	EdgeExtends    EdgeKind = "extends"
	EdgeImplements EdgeKind = "implements"
	EdgeCalls      EdgeKind = "calls"
)

// DefaultReturnType is recorded for methods without a declared return type.
const DefaultReturnType = "void"

// Node is a vertex of the knowledge graph. ID is unique within the node's namespace.
// Which of the attribute fields are meaningful depends on Kind; see MarshalJSON.
type Node struct {
	ID   string
	Name string
	Kind NodeKind

	// File
	Path string

	// Class / Interface. Stub nodes synthesized from a reference leave Declared false
	// and carry no attributes.
	Declared    bool
	Package     string
	File        string
	Extends     []string
	ExtendsList bool // Extends is rendered as an array (interfaces) rather than a single name
	Implements  []string

	// Method
	Signature  string
	ReturnType string

	// Method / Field
	Class string

	// Field
	Datatype string
}

// Edge is a directed relation between two ids. Target may name an id that has no node.
type Edge struct {
	Source string   `json:"source"`
	Target string   `json:"target"`
	Kind   EdgeKind `json:"type"`
}

// Graph is an immutable snapshot of the nodes and edges collected during a traversal,
// in insertion order.
type Graph struct {
	Nodes []*Node
	Edges []Edge
}

// NewGraph creates an empty graph.
func NewGraph() *Graph {
	return &Graph{
		Nodes: []*Node{},
		Edges: []Edge{},
	}
}

// NodeIDs returns the set of node ids in the graph.
func (g *Graph) NodeIDs() map[string]struct{} {
	ids := make(map[string]struct{}, len(g.Nodes))
	for _, n := range g.Nodes {
		ids[n.ID] = struct{}{}
	}
	return ids
}

// FindNode returns the first node with the given id and kind.
func (g *Graph) FindNode(id string, kind NodeKind) *Node {
	for _, n := range g.Nodes {
		if n.ID == id && n.Kind == kind {
			return n
		}
	}
	return nil
}

// EdgesOfKind returns the edges of one kind, in insertion order.
func (g *Graph) EdgesOfKind(kind EdgeKind) []Edge {
	var edges []Edge
	for _, e := range g.Edges {
		if e.Kind == kind {
			edges = append(edges, e)
		}
	}
	return edges
}
