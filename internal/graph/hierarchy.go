package graph

import "encoding/json"

// RootPolicy selects which parentless nodes become forest roots.
type RootPolicy int

const (
	// RootsPreferPackages uses parentless package nodes, or every parentless node
	// when there are none.
	RootsPreferPackages RootPolicy = iota
	// RootsAllOrphans uses every parentless node.
	RootsAllOrphans
)

// TreeNode is a node placed in the containment forest.
type TreeNode struct {
	Node     *Node
	Children []*TreeNode
}

// MarshalJSON renders the node followed by a children array, which is always present.
func (t *TreeNode) MarshalJSON() ([]byte, error) {
	w, err := t.Node.toWire()
	if err != nil {
		return nil, err
	}
	children := t.Children
	if children == nil {
		children = []*TreeNode{}
	}
	return encode(struct {
		wireNode
		Children []*TreeNode `json:"children"`
	}{w, children})
}

// UnmarshalJSON is the inverse of MarshalJSON.
func (t *TreeNode) UnmarshalJSON(data []byte) error {
	var n Node
	if err := n.UnmarshalJSON(data); err != nil {
		return err
	}
	var c struct {
		Children []*TreeNode `json:"children"`
	}
	if err := json.Unmarshal(data, &c); err != nil {
		return err
	}
	t.Node = &n
	t.Children = c.Children
	return nil
}

// Forest is the containment hierarchy rebuilt from a flat edge list plus every
// non-contains edge as a residual relation list.
type Forest struct {
	Roots     []*TreeNode
	Relations []Edge
	// Skipped counts contains edges dropped because they would have closed a cycle.
	Skipped int

	parent map[string]string
	byID   map[string]*TreeNode
}

// Assemble rebuilds the containment forest.
//
// Contains edges are applied in order and a later edge targeting the same node
// replaces the parent recorded by an earlier one. That holds only for edges
// that do not close a cycle: an edge whose target is already an ancestor of its
// source (or the source itself) is skipped and counted. Edges whose source or target
// has no node are ignored. Children are attached only under the final parent,
// so every node appears in the forest at most once.
func Assemble(nodes []*Node, edges []Edge, policy RootPolicy) *Forest {
	f := &Forest{
		Relations: []Edge{},
		parent:    make(map[string]string),
		byID:      make(map[string]*TreeNode, len(nodes)),
	}

	order := make([]*TreeNode, 0, len(nodes))
	for _, n := range nodes {
		if t, ok := f.byID[n.ID]; ok {
			t.Node = n
			continue
		}
		t := &TreeNode{Node: n, Children: []*TreeNode{}}
		f.byID[n.ID] = t
		order = append(order, t)
	}

	for _, e := range edges {
		if e.Kind != EdgeContains {
			f.Relations = append(f.Relations, e)
			continue
		}
		if !f.has(e.Source) || !f.has(e.Target) {
			continue
		}
		if f.isAncestorOrSelf(e.Target, e.Source) {
			f.Skipped++
			continue
		}
		f.parent[e.Target] = e.Source
	}

	attached := make(map[string]bool, len(f.parent))
	for _, e := range edges {
		if e.Kind != EdgeContains || attached[e.Target] {
			continue
		}
		if p, ok := f.parent[e.Target]; ok && p == e.Source {
			src := f.byID[e.Source]
			src.Children = append(src.Children, f.byID[e.Target])
			attached[e.Target] = true
		}
	}

	f.Roots = f.roots(order, policy)
	return f
}

func (f *Forest) roots(order []*TreeNode, policy RootPolicy) []*TreeNode {
	var orphans, packages []*TreeNode
	for _, t := range order {
		if _, ok := f.parent[t.Node.ID]; ok {
			continue
		}
		orphans = append(orphans, t)
		if t.Node.Kind == KindPackage {
			packages = append(packages, t)
		}
	}
	if policy == RootsPreferPackages && len(packages) > 0 {
		return packages
	}
	if orphans == nil {
		return []*TreeNode{}
	}
	return orphans
}

func (f *Forest) has(id string) bool {
	_, ok := f.byID[id]
	return ok
}

// isAncestorOrSelf walks up from id and reports whether candidate is reached.
func (f *Forest) isAncestorOrSelf(candidate, id string) bool {
	for cur := id; ; {
		if cur == candidate {
			return true
		}
		p, ok := f.parent[cur]
		if !ok {
			return false
		}
		cur = p
	}
}

// Parent returns the final parent id recorded for id.
func (f *Forest) Parent(id string) (string, bool) {
	p, ok := f.parent[id]
	return p, ok
}

// Lookup returns the tree node for id.
func (f *Forest) Lookup(id string) (*TreeNode, bool) {
	t, ok := f.byID[id]
	return t, ok
}

// Len returns the number of distinct node ids in the forest.
func (f *Forest) Len() int {
	return len(f.byID)
}
