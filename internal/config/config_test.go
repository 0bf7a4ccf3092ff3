package config

import (
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func clearEnv(t *testing.T) {
	for _, key := range []string{"JAVAGRAPH_ROOT", "JAVAGRAPH_OUTPUT", "JAVAGRAPH_DB", "JAVAGRAPH_LOG_LEVEL", "JAVAGRAPH_FAIL_ON_EMPTY"} {
		t.Setenv(key, "")
	}
}

func TestLoadConfig(t *testing.T) {
	t.Run("Missing file yields defaults", func(t *testing.T) {
		clearEnv(t)
		cfg, err := LoadConfig(filepath.Join(t.TempDir(), "none.yaml"))
		require.NoError(t, err)
		assert.Equal(t, ".", cfg.Project.Root)
		assert.Equal(t, "knowledge_graph.json", cfg.Project.Output)
		assert.Equal(t, "none", cfg.Telemetry.Exporter)
		assert.False(t, cfg.Run.FailOnEmpty)
		assert.Equal(t, slog.LevelInfo, cfg.LogLevel())
	})

	t.Run("File values", func(t *testing.T) {
		clearEnv(t)
		path := writeConfig(t, `
project:
  root: ./src
  output: out/modules
  db: graph.db
  exclude: [build, target]
  ignore: ["*.gen.java"]
  gitignore: true
run:
  fail_on_empty: true
log:
  level: debug
telemetry:
  exporter: stdout
`)
		cfg, err := LoadConfig(path)
		require.NoError(t, err)
		assert.Equal(t, "./src", cfg.Project.Root)
		assert.Equal(t, "out/modules", cfg.Project.Output)
		assert.Equal(t, "graph.db", cfg.Project.DB)
		assert.Equal(t, []string{"build", "target"}, cfg.Project.Exclude)
		assert.Equal(t, []string{"*.gen.java"}, cfg.Project.Ignore)
		assert.True(t, cfg.Project.Gitignore)
		assert.True(t, cfg.Run.FailOnEmpty)
		assert.Equal(t, slog.LevelDebug, cfg.LogLevel())
		assert.Equal(t, "stdout", cfg.Telemetry.Exporter)
	})

	t.Run("Partial file keeps defaults", func(t *testing.T) {
		clearEnv(t)
		cfg, err := LoadConfig(writeConfig(t, "project:\n  root: /code\n"))
		require.NoError(t, err)
		assert.Equal(t, "/code", cfg.Project.Root)
		assert.Equal(t, "knowledge_graph.json", cfg.Project.Output)
	})

	t.Run("Environment overrides", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("JAVAGRAPH_ROOT", "/env/src")
		t.Setenv("JAVAGRAPH_OUTPUT", "/env/out")
		t.Setenv("JAVAGRAPH_DB", "/env/graph.db")
		t.Setenv("JAVAGRAPH_LOG_LEVEL", "WARN")
		t.Setenv("JAVAGRAPH_FAIL_ON_EMPTY", "true")

		cfg, err := LoadConfig(writeConfig(t, "project:\n  root: /code\n"))
		require.NoError(t, err)
		assert.Equal(t, "/env/src", cfg.Project.Root)
		assert.Equal(t, "/env/out", cfg.Project.Output)
		assert.Equal(t, "/env/graph.db", cfg.Project.DB)
		assert.Equal(t, slog.LevelWarn, cfg.LogLevel())
		assert.True(t, cfg.Run.FailOnEmpty)
	})

	t.Run("Invalid values", func(t *testing.T) {
		clearEnv(t)
		for name, content := range map[string]string{
			"level":    "log:\n  level: loud\n",
			"exporter": "telemetry:\n  exporter: jaeger\n",
			"exclude":  "project:\n  exclude: [a/b]\n",
			"yaml":     "project: [",
		} {
			_, err := LoadConfig(writeConfig(t, content))
			assert.True(t, errors.Is(err, ErrInvalidConfig), name)
		}

		t.Setenv("JAVAGRAPH_FAIL_ON_EMPTY", "maybe")
		_, err := LoadConfig(filepath.Join(t.TempDir(), "none.yaml"))
		assert.True(t, errors.Is(err, ErrInvalidConfig))
	})
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, ParseLevel("debug"))
	assert.Equal(t, slog.LevelWarn, ParseLevel("warning"))
	assert.Equal(t, slog.LevelError, ParseLevel("ERROR"))
	assert.Equal(t, slog.LevelInfo, ParseLevel(""))
}
