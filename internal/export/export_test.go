package export

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"javagraph/internal/extractor"
	"javagraph/internal/graph"
	"javagraph/internal/partition"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleGraph(root string) *graph.Graph {
	b := graph.NewBuilder()
	b.AddUnit(filepath.Join(root, "com", "acme", "Foo.java"), &extractor.CompilationUnit{
		Package: "com.acme",
		Imports: []string{"java.util.List"},
		Types: []extractor.TypeDecl{{
			Kind:    extractor.TypeClass,
			Name:    "Foo",
			Extends: []string{"Base"},
			Members: []extractor.Member{
				{Method: &extractor.MethodDecl{
					Name:        "run",
					HasBody:     true,
					Invocations: []extractor.Invocation{{Qualifier: "Base", Member: "helper"}},
				}},
			},
		}},
	})
	return b.Graph()
}

func readJSON(t *testing.T, path string, v any) {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(data, v))
}

func TestIsAggregateTarget(t *testing.T) {
	assert.True(t, IsAggregateTarget("knowledge_graph.json"))
	assert.False(t, IsAggregateTarget("out/Graph.JSON"), "extension match is case-sensitive")
	assert.False(t, IsAggregateTarget("out"))
	assert.False(t, IsAggregateTarget("out/graphs.d"))
}

func TestSanitizeKey(t *testing.T) {
	assert.Equal(t, "com", SanitizeKey("com"))
	assert.Equal(t, "Main_java", SanitizeKey("Main.java"))
}

func TestExport_Aggregate(t *testing.T) {
	root := t.TempDir()
	target := filepath.Join(t.TempDir(), "nested", "graph.json")

	summary, err := NewExporter(nil).Export(target, sampleGraph(root), root)
	require.NoError(t, err)
	assert.False(t, summary.Modular)
	assert.Equal(t, []string{target}, summary.Files)

	var doc Aggregate
	readJSON(t, target, &doc)

	require.Len(t, doc.Hierarchy, 2, "package roots only")
	assert.Equal(t, "com.acme", doc.Hierarchy[0].Node.ID)
	assert.Equal(t, "java.util.List", doc.Hierarchy[1].Node.ID)

	assert.Equal(t, []graph.Edge{
		{Source: filepath.Join(root, "com", "acme", "Foo.java"), Target: "java.util.List", Kind: graph.EdgeImport},
		{Source: "com.acme.Foo", Target: "com.acme.Base", Kind: graph.EdgeExtends},
		{Source: "com.acme.Foo.run()", Target: "Base.helper", Kind: graph.EdgeCalls},
	}, doc.Relations)

	t.Run("Wire format", func(t *testing.T) {
		var raw map[string]any
		readJSON(t, target, &raw)
		hierarchy := raw["hierarchy"].([]any)
		list := hierarchy[1].(map[string]any)
		assert.Equal(t, "package", list["type"])
		assert.Equal(t, []any{}, list["children"])
		rel := raw["relations"].([]any)[0].(map[string]any)
		assert.Equal(t, "import", rel["type"])
	})
}

func TestExport_AggregateEmptyGraph(t *testing.T) {
	target := filepath.Join(t.TempDir(), "graph.json")

	_, err := NewExporter(nil).Export(target, graph.NewGraph(), t.TempDir())
	require.NoError(t, err)

	data, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.JSONEq(t, `{"hierarchy": [], "relations": []}`, string(data))
}

func TestExport_Modular(t *testing.T) {
	root := t.TempDir()
	dir := filepath.Join(t.TempDir(), "modules")

	summary, err := NewExporter(nil).Export(dir, sampleGraph(root), root)
	require.NoError(t, err)
	assert.True(t, summary.Modular)
	assert.Equal(t, []string{"com", "java", "root"}, summary.Modules)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	var names []string
	for _, e := range entries {
		names = append(names, e.Name())
	}
	assert.ElementsMatch(t, []string{"com.json", "java.json", "root.json", "index.json"}, names)

	var index []string
	readJSON(t, filepath.Join(dir, IndexFile), &index)
	assert.Equal(t, []string{"com", "java", "root"}, index)

	var com ModuleDocument
	readJSON(t, filepath.Join(dir, "com.json"), &com)
	require.Len(t, com.Hierarchy, 1)
	assert.Equal(t, "com.acme", com.Hierarchy[0].Node.ID)
	assert.Empty(t, com.Edges, "import and extends edges cross modules")

	var rest ModuleDocument
	readJSON(t, filepath.Join(dir, "root.json"), &rest)
	assert.Len(t, rest.Hierarchy, 2)
	assert.NotNil(t, rest.Edges)
}

func TestWriteModular_NameCollision(t *testing.T) {
	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, nil))
	dir := t.TempDir()

	g := &graph.Graph{Nodes: []*graph.Node{
		{ID: "a", Name: "a", Kind: graph.KindPackage},
		{ID: "b", Name: "b", Kind: graph.KindPackage},
	}}
	modules := []partition.Module{
		{Key: "x_y", Nodes: g.Nodes[:1], Forest: graph.Assemble(g.Nodes[:1], nil, graph.RootsAllOrphans)},
		{Key: "x.y", Nodes: g.Nodes[1:], Forest: graph.Assemble(g.Nodes[1:], nil, graph.RootsAllOrphans)},
	}

	files, err := NewExporter(logger).WriteModular(dir, modules)
	require.NoError(t, err)
	assert.Len(t, files, 3)
	assert.Contains(t, logs.String(), "module file name collision")

	var index []string
	readJSON(t, filepath.Join(dir, IndexFile), &index)
	assert.Equal(t, []string{"x.y", "x_y"}, index)
}
