package extractor

import (
	"errors"
	"fmt"

	sitter "github.com/smacker/go-tree-sitter"
)

var (
	// ErrUnsupportedLanguage is returned by NewExtractor for languages without an extractor.
	ErrUnsupportedLanguage = errors.New("unsupported language")

	// ErrRead indicates the source file could not be read.
	ErrRead = errors.New("read failed")

	// ErrParse indicates the parser itself failed (no tree was produced).
	ErrParse = errors.New("parse failed")

	// ErrSyntax indicates the source was parsed but contains syntax errors.
	ErrSyntax = errors.New("syntax error")
)

// SourceError ties a read or parse failure to the file it happened on.
type SourceError struct {
	Path string
	Err  error
}

func (e *SourceError) Error() string {
	return fmt.Sprintf("%s: %v", e.Path, e.Err)
}

func (e *SourceError) Unwrap() error {
	return e.Err
}

// SyntaxError locates the first syntax error in a parse tree.
type SyntaxError struct {
	Line    int
	Column  int
	Missing string // Node type tree-sitter expected but did not find, if any
	Snippet string
}

func (e *SyntaxError) Error() string {
	if e.Missing != "" {
		return fmt.Sprintf("syntax error at %d:%d: missing %s", e.Line, e.Column, e.Missing)
	}
	if e.Snippet != "" {
		return fmt.Sprintf("syntax error at %d:%d near %q", e.Line, e.Column, e.Snippet)
	}
	return fmt.Sprintf("syntax error at %d:%d", e.Line, e.Column)
}

func (e *SyntaxError) Unwrap() error {
	return ErrSyntax
}

const maxSnippet = 40

func newSyntaxError(root *sitter.Node, sourceCode []byte) *SyntaxError {
	node := firstErrorNode(root)
	if node == nil {
		node = root
	}
	point := node.StartPoint()
	serr := &SyntaxError{
		Line:   int(point.Row) + 1,
		Column: int(point.Column) + 1,
	}
	if node.IsMissing() {
		serr.Missing = node.Type()
		return serr
	}

	start, end := node.StartByte(), node.EndByte()
	if end > uint32(len(sourceCode)) {
		end = uint32(len(sourceCode))
	}
	if end > start {
		snippet := string(sourceCode[start:end])
		if len(snippet) > maxSnippet {
			snippet = snippet[:maxSnippet]
		}
		serr.Snippet = snippet
	}
	return serr
}

// firstErrorNode returns the first ERROR or MISSING node in document order.
func firstErrorNode(node *sitter.Node) *sitter.Node {
	if node == nil {
		return nil
	}
	if node.IsError() || node.IsMissing() {
		return node
	}
	for i := 0; i < int(node.ChildCount()); i++ {
		child := node.Child(i)
		if child == nil || !(child.HasError() || child.IsMissing()) {
			continue
		}
		if found := firstErrorNode(child); found != nil {
			return found
		}
	}
	return nil
}
