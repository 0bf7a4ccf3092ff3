package export

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"javagraph/internal/graph"
	"javagraph/internal/partition"
)

const (
	// AggregateExt marks an output target as a single aggregate file.
	AggregateExt = ".json"
	// IndexFile lists the module keys of a modular export.
	IndexFile = "index.json"
)

// Aggregate is the single-file export shape.
type Aggregate struct {
	Hierarchy []*graph.TreeNode `json:"hierarchy"`
	Relations []graph.Edge      `json:"relations"`
}

// ModuleDocument is the per-module export shape.
type ModuleDocument struct {
	Hierarchy []*graph.TreeNode `json:"hierarchy"`
	Edges     []graph.Edge      `json:"edges"`
}

// Summary describes what an export wrote.
type Summary struct {
	Target  string
	Modular bool
	Files   []string
	Modules []string
}

// Exporter writes graphs to disk.
type Exporter struct {
	logger *slog.Logger
}

// NewExporter creates an exporter. A nil logger uses slog.Default().
func NewExporter(logger *slog.Logger) *Exporter {
	if logger == nil {
		logger = slog.Default()
	}
	return &Exporter{logger: logger}
}

// IsAggregateTarget reports whether target names a single aggregate file rather than a directory.
// The extension match is case-sensitive, so "graph.JSON" is a directory.
func IsAggregateTarget(target string) bool {
	return filepath.Ext(target) == AggregateExt
}

// SanitizeKey turns a module key into a file stem.
func SanitizeKey(key string) string {
	return strings.ReplaceAll(key, ".", "_")
}

// Export writes g to target: one aggregate file when target ends in .json,
// otherwise a directory of per-module files. root is the scan root used to
// derive module keys.
func (e *Exporter) Export(target string, g *graph.Graph, root string) (*Summary, error) {
	if IsAggregateTarget(target) {
		forest := graph.Assemble(g.Nodes, g.Edges, graph.RootsPreferPackages)
		if err := e.WriteAggregate(target, forest); err != nil {
			return nil, err
		}
		return &Summary{Target: target, Files: []string{target}}, nil
	}

	modules := partition.Partition(g, root)
	files, err := e.WriteModular(target, modules)
	if err != nil {
		return nil, err
	}
	return &Summary{Target: target, Modular: true, Files: files, Modules: partition.Keys(modules)}, nil
}

// WriteAggregate writes {"hierarchy", "relations"} to path.
func (e *Exporter) WriteAggregate(path string, forest *graph.Forest) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	doc := Aggregate{Hierarchy: nonNilTrees(forest.Roots), Relations: nonNilEdges(forest.Relations)}
	if err := writeJSON(path, doc); err != nil {
		return err
	}
	e.logger.Info("aggregate graph written", "path", path, "roots", len(doc.Hierarchy), "relations", len(doc.Relations))
	return nil
}

// WriteModular writes one file per module plus the index into dir and returns
// the written paths. The index is written last.
func (e *Exporter) WriteModular(dir string, modules []partition.Module) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	var files []string
	owners := make(map[string]string, len(modules))
	keys := make([]string, 0, len(modules))

	for _, m := range modules {
		name := SanitizeKey(m.Key) + AggregateExt
		if name == IndexFile {
			e.logger.Warn("module file will be replaced by the index", "module", m.Key)
		}
		if prev, ok := owners[name]; ok {
			e.logger.Warn("module file name collision", "file", name, "module", m.Key, "previous", prev)
		}
		owners[name] = m.Key

		doc := ModuleDocument{Edges: nonNilEdges(m.Edges), Hierarchy: []*graph.TreeNode{}}
		if m.Forest != nil {
			doc.Hierarchy = nonNilTrees(m.Forest.Roots)
			doc.Edges = nonNilEdges(m.Forest.Relations)
		}

		path := filepath.Join(dir, name)
		if err := writeJSON(path, doc); err != nil {
			return files, err
		}
		e.logger.Debug("module graph written", "module", m.Key, "path", path, "nodes", len(m.Nodes))
		files = append(files, path)
		keys = append(keys, m.Key)
	}

	sort.Strings(keys)
	indexPath := filepath.Join(dir, IndexFile)
	if err := writeJSON(indexPath, keys); err != nil {
		return files, err
	}
	files = append(files, indexPath)

	e.logger.Info("modular graphs written", "dir", dir, "modules", len(keys))
	return files, nil
}

func writeJSON(path string, v any) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer f.Close()

	encoder := json.NewEncoder(f)
	encoder.SetIndent("", "  ")
	encoder.SetEscapeHTML(false)
	if err := encoder.Encode(v); err != nil {
		return fmt.Errorf("failed to encode %s: %w", path, err)
	}
	return f.Close()
}

func nonNilTrees(in []*graph.TreeNode) []*graph.TreeNode {
	if in == nil {
		return []*graph.TreeNode{}
	}
	return in
}

func nonNilEdges(in []graph.Edge) []graph.Edge {
	if in == nil {
		return []graph.Edge{}
	}
	return in
}
