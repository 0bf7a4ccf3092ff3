package crawler

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"javagraph/internal/extractor"

	ignore "github.com/sabhiram/go-gitignore"
)

// DefaultExcludedDirs are skipped by name at any depth.
var DefaultExcludedDirs = []string{".git", ".github", "venv", ".venv", "__pycache__"}

// DirError reports a directory below the scan root that could not be read.
// The walk skips the directory and continues.
type DirError struct {
	Path string
	Err  error
}

func (e *DirError) Error() string {
	return fmt.Sprintf("%s: unreadable directory: %v", e.Path, e.Err)
}

func (e *DirError) Unwrap() error {
	return e.Err
}

// Crawler scans a directory for source files.
type Crawler struct {
	extractor  *extractor.Extractor
	ignored    map[string]bool
	extensions []string
	patterns   []string
	gitignore  bool
}

// Option configures a Crawler.
type Option func(*Crawler)

// WithExcludedDirs skips directories with these names in addition to the defaults.
func WithExcludedDirs(names ...string) Option {
	return func(c *Crawler) {
		for _, name := range names {
			if name = strings.TrimSpace(name); name != "" {
				c.ignored[name] = true
			}
		}
	}
}

// WithExtension replaces the file extensions that are visited.
func WithExtension(exts ...string) Option {
	return func(c *Crawler) {
		if len(exts) > 0 {
			c.extensions = exts
		}
	}
}

// WithIgnorePatterns skips paths matching gitignore-style patterns relative to the scan root.
func WithIgnorePatterns(patterns ...string) Option {
	return func(c *Crawler) {
		c.patterns = append(c.patterns, patterns...)
	}
}

// WithGitignore honours the .gitignore at the scan root, if there is one.
func WithGitignore(enabled bool) Option {
	return func(c *Crawler) {
		c.gitignore = enabled
	}
}

// NewCrawler creates a new crawler instance.
func NewCrawler(ext *extractor.Extractor, opts ...Option) *Crawler {
	c := &Crawler{
		extractor:  ext,
		ignored:    make(map[string]bool),
		extensions: ext.Extensions(),
	}
	for _, name := range DefaultExcludedDirs {
		c.ignored[name] = true
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ScanProject walks root in lexical order and extracts every matching file.
// Results are streamed through onUnit. A file that cannot be read or parsed is
// reported through onError and the walk continues. An unreadable directory is
// reported as a *DirError and skipped. Only a failure on root itself or a
// cancelled context stops the walk.
func (c *Crawler) ScanProject(
	ctx context.Context,
	root string,
	onUnit func(path string, unit *extractor.CompilationUnit),
	onError func(path string, err error),
) error {
	if onError == nil {
		onError = func(string, error) {}
	}

	matcher, err := c.matcher(root)
	if err != nil {
		return err
	}

	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == root {
				return err
			}
			if d != nil && d.IsDir() {
				onError(path, &DirError{Path: path, Err: err})
				return filepath.SkipDir
			}
			onError(path, err)
			return nil
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}

		if path != root && c.ignoredPath(matcher, root, path) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		if d.IsDir() {
			if path != root && c.ignored[d.Name()] {
				return filepath.SkipDir
			}
			return nil
		}

		if !c.wanted(d.Name()) {
			return nil
		}

		unit, err := c.extractor.ExtractFromFile(ctx, path)
		if err != nil {
			onError(path, err)
			return nil
		}
		onUnit(path, unit)
		return nil
	})
}

func (c *Crawler) wanted(name string) bool {
	for _, ext := range c.extensions {
		if strings.HasSuffix(name, ext) {
			return true
		}
	}
	return false
}

func (c *Crawler) matcher(root string) (*ignore.GitIgnore, error) {
	lines := append([]string{}, c.patterns...)
	if c.gitignore {
		data, err := os.ReadFile(filepath.Join(root, ".gitignore"))
		switch {
		case err == nil:
			lines = append(lines, strings.Split(string(data), "\n")...)
		case !errors.Is(err, fs.ErrNotExist):
			return nil, fmt.Errorf("failed to read .gitignore: %w", err)
		}
	}
	if len(lines) == 0 {
		return nil, nil
	}
	return ignore.CompileIgnoreLines(lines...), nil
}

func (c *Crawler) ignoredPath(m *ignore.GitIgnore, root, path string) bool {
	if m == nil {
		return false
	}
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return false
	}
	return m.MatchesPath(filepath.ToSlash(rel))
}
