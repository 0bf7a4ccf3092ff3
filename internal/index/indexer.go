package index

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"javagraph/internal/crawler"
	"javagraph/internal/extractor"
	"javagraph/internal/graph"
)

// FileFailure is a source file that contributed nothing to the graph.
type FileFailure struct {
	Path string
	Err  error
}

// Report summarizes one indexing pass.
type Report struct {
	Root        string
	FilesSeen   int
	FilesParsed int
	Failures    []FileFailure
	// SkippedDirs lists directories the walk could not read. They are not source files
	// and are not counted in FilesSeen.
	SkippedDirs []string
	Stats       graph.Stats
	Duration    time.Duration
}

// Indexer orchestrates codebase indexing and graph construction.
type Indexer struct {
	crawler *crawler.Crawler
	logger  *slog.Logger
}

// NewIndexer creates a new indexer. A nil logger uses slog.Default().
func NewIndexer(c *crawler.Crawler, logger *slog.Logger) *Indexer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Indexer{
		crawler: c,
		logger:  logger,
	}
}

// BuildGraph scans the project root and constructs the knowledge graph.
// Files that fail to read or parse are logged, recorded in the report and
// skipped; they never fail the build.
func (i *Indexer) BuildGraph(ctx context.Context, root string) (*graph.Graph, *Report, error) {
	start := time.Now()
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to resolve root %q: %w", root, err)
	}

	b := graph.NewBuilder()
	report := &Report{Root: absRoot}

	err = i.crawler.ScanProject(ctx, absRoot,
		func(path string, unit *extractor.CompilationUnit) {
			report.FilesSeen++
			report.FilesParsed++
			b.AddUnit(path, unit)
			i.logger.Debug("indexed source file", "path", path, "types", len(unit.Types))
		},
		func(path string, err error) {
			i.recordFailure(report, path, err)
		},
	)
	if err != nil {
		return nil, nil, fmt.Errorf("scan failed: %w", err)
	}

	g := b.Graph()
	report.Stats = g.Stats()
	report.Duration = time.Since(start)

	i.logger.Info("graph built",
		"root", absRoot,
		"files_seen", report.FilesSeen,
		"files_parsed", report.FilesParsed,
		"files_failed", len(report.Failures),
		"dirs_skipped", len(report.SkippedDirs),
		"nodes", len(g.Nodes),
		"edges", len(g.Edges),
		"dangling_targets", report.Stats.DanglingTargets,
	)
	return g, report, nil
}

func (i *Indexer) recordFailure(report *Report, path string, err error) {
	var dirErr *crawler.DirError
	if errors.As(err, &dirErr) {
		report.SkippedDirs = append(report.SkippedDirs, path)
		i.logger.Warn("skipping unreadable directory", "path", path, "error", dirErr.Err)
		return
	}
	report.FilesSeen++
	report.Failures = append(report.Failures, FileFailure{Path: path, Err: err})
	i.logger.Warn("skipping source file", "path", path, "error", err)
}
