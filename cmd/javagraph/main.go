package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"javagraph/internal/config"
	"javagraph/internal/export"
	"javagraph/internal/pipeline"
	"javagraph/internal/telemetry"

	"github.com/spf13/cobra"
)

var (
	rootCmd = &cobra.Command{
		Use:   "javagraph <source_directory> [output_target]",
		Short: "Build a structural knowledge graph from Java sources",
		Long: `Scans a directory of Java sources and writes a knowledge graph of packages,
files, classes, methods and fields. An output target ending in .json receives a
single aggregate graph; any other target is treated as a directory of per-module
graphs plus index.json.`,
		Args:          cobra.RangeArgs(1, 2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runBuild,
	}

	exportCmd = &cobra.Command{
		Use:           "export [output_target]",
		Short:         "Export the graph stored in the database without rescanning",
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runExport,
	}

	configPath  string
	dbPath      string
	failOnEmpty bool
	gitignore   bool
	excludeDirs []string
	logLevel    string
	exporter    string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "config.yaml", "Path to the YAML config file")
	rootCmd.PersistentFlags().StringVarP(&dbPath, "db", "d", "", "SQLite database for graph snapshots")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().StringVar(&exporter, "telemetry", "", "Telemetry exporter: none, stdout")

	rootCmd.Flags().BoolVar(&failOnEmpty, "fail-on-empty", false, "Fail when no source file parses successfully")
	rootCmd.Flags().BoolVar(&gitignore, "gitignore", false, "Skip paths matched by the source directory's .gitignore")
	rootCmd.Flags().StringSliceVar(&excludeDirs, "exclude", nil, "Additional directory names to skip")

	rootCmd.AddCommand(exportCmd)
}

// loadConfig reads the config file and applies flags the user set explicitly.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	flags := cmd.Flags()
	if flags.Changed("db") {
		cfg.Project.DB = dbPath
	}
	if flags.Changed("log-level") {
		cfg.Log.Level = logLevel
	}
	if flags.Changed("telemetry") {
		cfg.Telemetry.Exporter = exporter
	}
	if flags.Changed("fail-on-empty") {
		cfg.Run.FailOnEmpty = failOnEmpty
	}
	if flags.Changed("gitignore") {
		cfg.Project.Gitignore = gitignore
	}
	if flags.Changed("exclude") {
		cfg.Project.Exclude = append(cfg.Project.Exclude, excludeDirs...)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// setup installs the logger and telemetry providers for one command run.
func setup(ctx context.Context, cfg *config.Config, stderr io.Writer) (*slog.Logger, func(context.Context) error, error) {
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: cfg.LogLevel()}))
	slog.SetDefault(logger)

	shutdown, err := telemetry.Init(ctx, telemetry.Config{
		ServiceName: "javagraph",
		Exporter:    cfg.Telemetry.Exporter,
		Writer:      stderr,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to init telemetry: %w", err)
	}
	return logger, shutdown, nil
}

func runBuild(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	cfg.Project.Root = args[0]
	if len(args) > 1 {
		cfg.Project.Output = args[1]
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	logger, shutdown, err := setup(ctx, cfg, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer shutdown(context.Background())

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
		return err
	}

	if n := len(result.Report.Failures); n > 0 {
		logger.Warn("some source files were skipped", "failed", n, "parsed", result.Report.FilesParsed)
	}
	printSummary(cmd.OutOrStdout(), result.Export)
	return nil
}

func runExport(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if cfg.Project.DB == "" {
		return fmt.Errorf("export needs a database: set --db or project.db")
	}
	output := cfg.Project.Output
	if len(args) > 0 {
		output = args[0]
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	logger, shutdown, err := setup(ctx, cfg, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer shutdown(context.Background())

	summary, run, err := pipeline.ExportStored(ctx, cfg.Project.DB, output, logger)
	if err != nil {
		return err
	}
	logger.Info("exported stored snapshot", "run", run.ID, "root", run.Root, "created_at", run.CreatedAt)
	printSummary(cmd.OutOrStdout(), summary)
	return nil
}

func printSummary(w io.Writer, s *export.Summary) {
	if s.Modular {
		fmt.Fprintf(w, "Modular graphs saved under %s (%d modules)\n", s.Target, len(s.Modules))
		return
	}
	fmt.Fprintf(w, "Knowledge graph saved to %s\n", s.Target)
}
