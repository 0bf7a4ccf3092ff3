package partition

import (
	"path/filepath"
	"testing"

	"javagraph/internal/extractor"
	"javagraph/internal/graph"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var root = filepath.FromSlash("/work/src")

func path(rel string) string {
	return filepath.Join(root, filepath.FromSlash(rel))
}

func sampleGraph() *graph.Graph {
	b := graph.NewBuilder()
	b.AddUnit(path("com/acme/Foo.java"), &extractor.CompilationUnit{
		Package: "com.acme",
		Types: []extractor.TypeDecl{{
			Kind:       extractor.TypeClass,
			Name:       "Foo",
			Extends:    []string{"Base"},
			Implements: []string{"Runnable"},
			Members: []extractor.Member{
				{Field: &extractor.FieldDecl{Type: "int", Names: []string{"x"}}},
				{Method: &extractor.MethodDecl{
					Name:        "run",
					HasBody:     true,
					Invocations: []extractor.Invocation{{Qualifier: "Base", Member: "helper"}},
				}},
			},
		}},
	})
	b.AddUnit(path("org/util/Helper.java"), &extractor.CompilationUnit{
		Package: "org.util",
		Imports: []string{"java.util.List"},
		Types:   []extractor.TypeDecl{{Kind: extractor.TypeClass, Name: "Helper"}},
	})
	return b.Graph()
}

func TestModuleKey(t *testing.T) {
	tests := []struct {
		name string
		node *graph.Node
		want string
	}{
		{"Package", &graph.Node{ID: "com.acme.util", Kind: graph.KindPackage}, "com"},
		{"Single segment package", &graph.Node{ID: "acme", Kind: graph.KindPackage}, "acme"},
		{"File", &graph.Node{ID: path("com/acme/Foo.java"), Kind: graph.KindFile, Path: path("com/acme/Foo.java")}, "com"},
		{"File at root", &graph.Node{ID: path("Main.java"), Kind: graph.KindFile, Path: path("Main.java")}, "Main.java"},
		{"File outside root", &graph.Node{ID: "/elsewhere/X.java", Kind: graph.KindFile, Path: filepath.FromSlash("/elsewhere/X.java")}, FallbackKey},
		{"Class with package", &graph.Node{ID: "org.util.H", Kind: graph.KindClass, Declared: true, Package: "org.util", File: path("x/H.java")}, "org"},
		{"Class in default package", &graph.Node{ID: "H", Kind: graph.KindClass, Declared: true, File: path("legacy/H.java")}, "legacy"},
		{"Stub", &graph.Node{ID: "com.acme.Base", Kind: graph.KindClass}, FallbackKey},
		{"Method", &graph.Node{ID: "com.acme.Foo.run()", Kind: graph.KindMethod, Class: "com.acme.Foo"}, FallbackKey},
		{"Field", &graph.Node{ID: "com.acme.Foo.x", Kind: graph.KindField, Class: "com.acme.Foo"}, FallbackKey},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ModuleKey(tt.node, root))
		})
	}
}

func TestPartition(t *testing.T) {
	g := sampleGraph()
	modules := Partition(g, root)

	require.Equal(t, []string{"com", "java", "org", "root"}, Keys(modules))

	t.Run("Completeness and disjointness", func(t *testing.T) {
		owner := make(map[string]string)
		for _, m := range modules {
			for _, n := range m.Nodes {
				prev, dup := owner[n.ID]
				assert.False(t, dup, "%s in both %s and %s", n.ID, prev, m.Key)
				owner[n.ID] = m.Key
			}
		}
		assert.Equal(t, len(g.NodeIDs()), len(owner))
		for id := range g.NodeIDs() {
			assert.Contains(t, owner, id)
		}
	})

	t.Run("Cross-module edges are suppressed", func(t *testing.T) {
		cross := graph.Edge{Source: path("org/util/Helper.java"), Target: "java.util.List", Kind: graph.EdgeImport}
		for _, m := range modules {
			assert.NotContains(t, m.Edges, cross)
			ids := make(map[string]bool)
			for _, n := range m.Nodes {
				ids[n.ID] = true
			}
			for _, e := range m.Edges {
				assert.True(t, ids[e.Source] && ids[e.Target], "edge %v leaves module %s", e, m.Key)
			}
		}

		aggregate := graph.Assemble(g.Nodes, g.Edges, graph.RootsPreferPackages)
		assert.Contains(t, aggregate.Relations, cross)
	})

	t.Run("Module-local forest", func(t *testing.T) {
		com := modules[0]
		require.Len(t, com.Forest.Roots, 1)
		assert.Equal(t, "com.acme", com.Forest.Roots[0].Node.ID)
		require.Len(t, com.Forest.Roots[0].Children, 1)
		file := com.Forest.Roots[0].Children[0]
		assert.Equal(t, path("com/acme/Foo.java"), file.Node.ID)
		require.Len(t, file.Children, 1)
		assert.Equal(t, "com.acme.Foo", file.Children[0].Node.ID)
		assert.Empty(t, file.Children[0].Children, "members live in another module")
		assert.Empty(t, com.Forest.Relations)

		rest := modules[3]
		assert.Len(t, rest.Forest.Roots, 4, "stubs and members without a package are all roots")
		assert.Empty(t, rest.Edges)
	})
}

func TestPartition_CollidingIDs(t *testing.T) {
	g := &graph.Graph{
		Nodes: []*graph.Node{
			{ID: "com.acme.Foo", Name: "com.acme.Foo", Kind: graph.KindPackage},
			{ID: "com.acme.Foo", Name: "Foo", Kind: graph.KindClass, Declared: true, File: path("other/Foo.java")},
		},
	}

	modules := Partition(g, root)

	require.Len(t, modules, 1)
	assert.Equal(t, "com", modules[0].Key)
	assert.Len(t, modules[0].Nodes, 2)
}

func TestPartition_Empty(t *testing.T) {
	modules := Partition(graph.NewGraph(), root)
	assert.Empty(t, modules)
	assert.Empty(t, Keys(modules))
}
