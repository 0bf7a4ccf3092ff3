package partition

import (
	"path/filepath"
	"sort"
	"strings"

	"javagraph/internal/graph"
)

// FallbackKey collects nodes whose module cannot be derived.
const FallbackKey = "root"

// Module is a self-contained subgraph: its nodes, the edges whose endpoints both
// belong to it, and the forest assembled from exactly those.
type Module struct {
	Key    string
	Nodes  []*graph.Node
	Edges  []graph.Edge
	Forest *graph.Forest
}

// ModuleKey derives the module a node belongs to. root is the scan root that
// file paths are made relative to.
func ModuleKey(n *graph.Node, root string) string {
	var key string
	switch n.Kind {
	case graph.KindPackage:
		key = firstDotted(n.ID)
	case graph.KindFile:
		path := n.Path
		if path == "" {
			path = n.ID
		}
		key = firstPathSegment(path, root)
	default:
		switch {
		case n.Package != "":
			key = firstDotted(n.Package)
		case n.File != "":
			key = firstPathSegment(n.File, root)
		case n.Path != "":
			key = firstPathSegment(n.Path, root)
		}
	}
	if key == "" {
		return FallbackKey
	}
	return key
}

func firstDotted(s string) string {
	head, _, _ := strings.Cut(s, ".")
	return head
}

func firstPathSegment(path, root string) string {
	rel, err := filepath.Rel(root, path)
	if err != nil || rel == "." || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return FallbackKey
	}
	head, _, _ := strings.Cut(filepath.ToSlash(rel), "/")
	return head
}

// Partition groups the nodes of g by module key and builds one module per key,
// sorted by key. Edges that cross modules are left out of every module.
//
// Records sharing an id across kinds all go to the module of the first record,
// so module id sets stay disjoint.
func Partition(g *graph.Graph, root string) []Module {
	owner := make(map[string]string, len(g.Nodes))
	byKey := make(map[string]*Module)
	var keys []string

	for _, n := range g.Nodes {
		key, ok := owner[n.ID]
		if !ok {
			key = ModuleKey(n, root)
			owner[n.ID] = key
		}
		m, ok := byKey[key]
		if !ok {
			m = &Module{Key: key, Nodes: []*graph.Node{}, Edges: []graph.Edge{}}
			byKey[key] = m
			keys = append(keys, key)
		}
		m.Nodes = append(m.Nodes, n)
	}

	for _, e := range g.Edges {
		src, ok := owner[e.Source]
		if !ok {
			continue
		}
		if dst, ok := owner[e.Target]; ok && dst == src {
			byKey[src].Edges = append(byKey[src].Edges, e)
		}
	}

	sort.Strings(keys)
	modules := make([]Module, 0, len(keys))
	for _, key := range keys {
		m := byKey[key]
		m.Forest = graph.Assemble(m.Nodes, m.Edges, graph.RootsAllOrphans)
		modules = append(modules, *m)
	}
	return modules
}

// Keys returns the module keys in order.
func Keys(modules []Module) []string {
	keys := make([]string, 0, len(modules))
	for _, m := range modules {
		keys = append(keys, m.Key)
	}
	return keys
}
