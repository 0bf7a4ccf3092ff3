package crawler

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"javagraph/internal/extractor"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const goodSource = `package com.acme;

class Foo extends Base implements Runnable {
    int x;
    void run() { Base.helper(); }
}
`

func writeFile(t *testing.T, root, rel, content string) string {
	t.Helper()
	path := filepath.Join(root, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func scan(t *testing.T, c *Crawler, root string) (parsed []string, failed map[string]error) {
	t.Helper()
	failed = make(map[string]error)
	err := c.ScanProject(context.Background(), root,
		func(path string, unit *extractor.CompilationUnit) {
			rel, _ := filepath.Rel(root, path)
			parsed = append(parsed, filepath.ToSlash(rel))
		},
		func(path string, err error) {
			rel, _ := filepath.Rel(root, path)
			failed[filepath.ToSlash(rel)] = err
		},
	)
	require.NoError(t, err)
	return parsed, failed
}

func TestCrawler_ScanProject(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "src/com/acme/Foo.java", goodSource)
	writeFile(t, root, "src/com/acme/Broken.java", "class Broken {")
	writeFile(t, root, ".git/Hidden.java", goodSource)
	writeFile(t, root, "venv/lib/V.java", goodSource)
	writeFile(t, root, "src/__pycache__/C.java", goodSource)
	writeFile(t, root, "build/B.java", goodSource)
	writeFile(t, root, "generated/Gen.java", goodSource)
	writeFile(t, root, "notes.txt", "not java")
	writeFile(t, root, ".gitignore", "# generated sources\ngenerated/\n")

	ext, err := extractor.NewExtractor("java")
	require.NoError(t, err)

	t.Run("Defaults", func(t *testing.T) {
		parsed, failed := scan(t, NewCrawler(ext), root)

		assert.Equal(t, []string{"build/B.java", "generated/Gen.java", "src/com/acme/Foo.java"}, parsed)
		require.Contains(t, failed, "src/com/acme/Broken.java")
		assert.True(t, errors.Is(failed["src/com/acme/Broken.java"], extractor.ErrSyntax))
	})

	t.Run("Excluded dirs and gitignore", func(t *testing.T) {
		c := NewCrawler(ext, WithExcludedDirs("build"), WithGitignore(true))
		parsed, _ := scan(t, c, root)
		assert.Equal(t, []string{"src/com/acme/Foo.java"}, parsed)
	})

	t.Run("Ignore patterns", func(t *testing.T) {
		c := NewCrawler(ext, WithIgnorePatterns("build/", "Gen.java"))
		parsed, _ := scan(t, c, root)
		assert.Equal(t, []string{"src/com/acme/Foo.java"}, parsed)
	})

	t.Run("Missing .gitignore is fine", func(t *testing.T) {
		other := t.TempDir()
		writeFile(t, other, "A.java", "class A {}")
		parsed, failed := scan(t, NewCrawler(ext, WithGitignore(true)), other)
		assert.Equal(t, []string{"A.java"}, parsed)
		assert.Empty(t, failed)
	})
}

func TestCrawler_ScanProject_Errors(t *testing.T) {
	ext, err := extractor.NewExtractor("java")
	require.NoError(t, err)
	c := NewCrawler(ext)

	t.Run("Missing root", func(t *testing.T) {
		err := c.ScanProject(context.Background(), filepath.Join(t.TempDir(), "nope"),
			func(string, *extractor.CompilationUnit) {}, nil)
		assert.Error(t, err)
	})

	t.Run("Cancelled context", func(t *testing.T) {
		root := t.TempDir()
		writeFile(t, root, "A.java", "class A {}")
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		err := c.ScanProject(ctx, root, func(string, *extractor.CompilationUnit) {
			t.Fatal("no file should be visited")
		}, nil)
		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestCrawler_ScanProject_UnreadableDir(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("directory permissions are not enforced for root")
	}
	root := t.TempDir()
	writeFile(t, root, "A.java", "class A {}")
	locked := filepath.Join(root, "locked")
	writeFile(t, root, "locked/B.java", "class B {}")
	require.NoError(t, os.Chmod(locked, 0o000))
	t.Cleanup(func() { _ = os.Chmod(locked, 0o755) })

	ext, err := extractor.NewExtractor("java")
	require.NoError(t, err)

	parsed, failed := scan(t, NewCrawler(ext), root)
	assert.Equal(t, []string{"A.java"}, parsed)
	require.Contains(t, failed, "locked")

	var dirErr *DirError
	require.True(t, errors.As(failed["locked"], &dirErr))
	assert.Equal(t, locked, dirErr.Path)
}
