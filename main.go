package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"

	"javagraph/internal/config"
	"javagraph/internal/pipeline"
	"javagraph/internal/telemetry"
)

func main() {
	// 1. Load Configuration
	cfg, err := config.LoadConfig("config.yaml")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.LogLevel()}))
	slog.SetDefault(logger)

	ctx := context.Background()

	// 2. Initialize Telemetry
	shutdown, err := telemetry.Init(ctx, telemetry.Config{ServiceName: "javagraph", Exporter: cfg.Telemetry.Exporter})
	if err != nil {
		log.Fatalf("Failed to init telemetry: %v", err)
	}
	defer shutdown(context.Background())

	// 3. Build and export
	fmt.Printf("Scanning project at %s...\n", cfg.Project.Root)
	result, err := pipeline.Run(ctx, pipeline.Options{
		Root:           cfg.Project.Root,
		Output:         cfg.Project.Output,
		DBPath:         cfg.Project.DB,
		FailOnEmpty:    cfg.Run.FailOnEmpty,
		Gitignore:      cfg.Project.Gitignore,
		ExcludedDirs:   cfg.Project.Exclude,
		IgnorePatterns: cfg.Project.Ignore,
		Logger:         logger,
	})
	if err != nil {
		shutdown(context.Background())
		log.Fatalf("Failed to build graph: %v", err)
	}

	fmt.Printf("Parsed %d of %d files\n", result.Report.FilesParsed, result.Report.FilesSeen)
	if result.Export.Modular {
		fmt.Printf("Modular graphs saved under %s\n", result.Export.Target)
		return
	}
	fmt.Printf("Knowledge graph saved to %s\n", result.Export.Target)
}
