package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"javagraph/internal/crawler"
	"javagraph/internal/export"
	"javagraph/internal/extractor"
	"javagraph/internal/graph"
	"javagraph/internal/index"
	"javagraph/internal/storage"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// DefaultOutput is the aggregate file written when no output target is given.
const DefaultOutput = "knowledge_graph.json"

// ErrNoFilesParsed is returned when FailOnEmpty is set and no source file parsed.
var ErrNoFilesParsed = errors.New("no source files parsed successfully")

var tracer = otel.Tracer("javagraph.pipeline")

// Options configures a run.
type Options struct {
	Root   string
	Output string
	// DBPath, when set, also stores the built graph as a SQLite snapshot.
	DBPath string
	// FailOnEmpty turns a run in which every file failed, or none were found, into an error.
	FailOnEmpty    bool
	Gitignore      bool
	ExcludedDirs   []string
	IgnorePatterns []string
	Logger         *slog.Logger
}

// Result reports what a run did.
type Result struct {
	Report *index.Report
	Export *export.Summary
	Run    *storage.Run
}

// Run builds the graph for opts.Root, optionally stores it, and exports it to opts.Output.
func Run(ctx context.Context, opts Options) (*Result, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	output := opts.Output
	if output == "" {
		output = DefaultOutput
	}

	ctx, span := tracer.Start(ctx, "pipeline.Run",
		trace.WithAttributes(
			attribute.String("root", opts.Root),
			attribute.String("output", output),
		),
	)
	defer span.End()

	result, err := run(ctx, opts, output, logger)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return result, err
	}
	span.SetAttributes(
		attribute.Int("files_parsed", result.Report.FilesParsed),
		attribute.Int("files_failed", len(result.Report.Failures)),
	)
	return result, nil
}

func run(ctx context.Context, opts Options, output string, logger *slog.Logger) (*Result, error) {
	info, err := os.Stat(opts.Root)
	if err != nil {
		return nil, fmt.Errorf("source directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("source directory: %s is not a directory", opts.Root)
	}

	g, report, err := buildStage(ctx, opts, logger)
	if err != nil {
		return nil, err
	}
	result := &Result{Report: report}

	if opts.FailOnEmpty && report.FilesParsed == 0 {
		return result, fmt.Errorf("%w: %d of %d files under %s failed", ErrNoFilesParsed, len(report.Failures), report.FilesSeen, report.Root)
	}

	if opts.DBPath != "" {
		result.Run, err = storeStage(ctx, opts.DBPath, g, report)
		if err != nil {
			return result, err
		}
		logger.Info("graph snapshot stored", "db", opts.DBPath, "run", result.Run.ID)
	}

	result.Export, err = export.NewExporter(logger).Export(output, g, report.Root)
	if err != nil {
		return result, fmt.Errorf("export failed: %w", err)
	}
	return result, nil
}

func buildStage(ctx context.Context, opts Options, logger *slog.Logger) (*graph.Graph, *index.Report, error) {
	ext, err := extractor.NewExtractor("java")
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create extractor: %w", err)
	}

	c := crawler.NewCrawler(ext,
		crawler.WithExcludedDirs(opts.ExcludedDirs...),
		crawler.WithIgnorePatterns(opts.IgnorePatterns...),
		crawler.WithGitignore(opts.Gitignore),
	)
	return index.NewIndexer(c, logger).BuildGraph(ctx, opts.Root)
}

func storeStage(ctx context.Context, dbPath string, g *graph.Graph, report *index.Report) (*storage.Run, error) {
	store, err := storage.NewSQLiteStore(dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}
	defer store.Close()

	run, err := store.SaveGraph(ctx, g, storage.RunInfo{
		Root:        report.Root,
		FilesSeen:   report.FilesSeen,
		FilesParsed: report.FilesParsed,
		FilesFailed: len(report.Failures),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to save graph: %w", err)
	}
	return run, nil
}

// ExportStored re-exports the latest snapshot in dbPath without rescanning sources.
func ExportStored(ctx context.Context, dbPath, output string, logger *slog.Logger) (*export.Summary, *storage.Run, error) {
	if output == "" {
		output = DefaultOutput
	}
	ctx, span := tracer.Start(ctx, "pipeline.ExportStored", trace.WithAttributes(attribute.String("db", dbPath)))
	defer span.End()

	if _, err := os.Stat(dbPath); err != nil {
		return nil, nil, fmt.Errorf("database: %w", err)
	}
	store, err := storage.NewSQLiteStore(dbPath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open database: %w", err)
	}
	defer store.Close()

	run, err := store.LatestRun(ctx)
	if err != nil {
		return nil, nil, err
	}
	g, err := store.LoadGraph(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load graph: %w", err)
	}

	summary, err := export.NewExporter(logger).Export(output, g, run.Root)
	if err != nil {
		span.RecordError(err)
		return nil, run, fmt.Errorf("export failed: %w", err)
	}
	return summary, run, nil
}
