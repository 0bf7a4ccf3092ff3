package extractor

import (
	"context"
	"fmt"
	"os"
	"time"

	sitter "github.com/smacker/go-tree-sitter"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Extractor orchestrates the extraction process using language-specific extractors.
type Extractor struct {
	langExtractor LanguageExtractor
	langName      string
	query         *sitter.Query
}

// NewExtractor creates a new extractor for a given language.
func NewExtractor(lang string) (*Extractor, error) {
	var langExt LanguageExtractor
	switch lang {
	case "java":
		langExt = &JavaExtractor{}
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedLanguage, lang)
	}

	query, err := sitter.NewQuery([]byte(langExt.GetQuery()), langExt.GetLanguage())
	if err != nil {
		return nil, fmt.Errorf("failed to create query: %w", err)
	}
	return &Extractor{langExtractor: langExt, langName: lang, query: query}, nil
}

// Language returns the language this extractor was created for.
func (e *Extractor) Language() string {
	return e.langName
}

// Extensions returns the file extensions handled by the underlying language extractor.
func (e *Extractor) Extensions() []string {
	return e.langExtractor.Extensions()
}

// ExtractFromFile reads and parses a single source file.
// Every failure is returned as a *SourceError carrying the path.
func (e *Extractor) ExtractFromFile(ctx context.Context, filepath string) (*CompilationUnit, error) {
	sourceCode, err := os.ReadFile(filepath)
	if err != nil {
		return nil, &SourceError{Path: filepath, Err: fmt.Errorf("%w: %w", ErrRead, err)}
	}

	unit, err := e.Extract(ctx, sourceCode)
	if err != nil {
		return nil, &SourceError{Path: filepath, Err: err}
	}
	return unit, nil
}

// Extract parses source text into a CompilationUnit.
// Source with syntax errors is rejected with a *SyntaxError instead of a partial unit.
func (e *Extractor) Extract(ctx context.Context, sourceCode []byte) (*CompilationUnit, error) {
	ctx, span := tracer.Start(ctx, "extractor.Extract",
		trace.WithAttributes(
			attribute.String("language", e.langName),
			attribute.Int("source_bytes", len(sourceCode)),
		),
	)
	defer span.End()

	start := time.Now()
	unit, err := e.extract(ctx, sourceCode)
	recordParseMetrics(ctx, e.langName, time.Since(start), unit, err)

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	span.SetAttributes(attribute.Int("types", len(unit.Types)))
	return unit, nil
}

func (e *Extractor) extract(ctx context.Context, sourceCode []byte) (*CompilationUnit, error) {
	parser := sitter.NewParser()
	defer parser.Close()
	parser.SetLanguage(e.langExtractor.GetLanguage())

	tree, err := parser.ParseCtx(ctx, nil, sourceCode)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrParse, err)
	}
	defer tree.Close()

	root := tree.RootNode()
	if root.HasError() {
		return nil, newSyntaxError(root, sourceCode)
	}

	unit := &CompilationUnit{
		Imports: []string{},
		Types:   []TypeDecl{},
	}

	qc := sitter.NewQueryCursor()
	defer qc.Close()
	qc.Exec(e.query, root)

	for {
		m, ok := qc.NextMatch()
		if !ok {
			break
		}
		for _, c := range m.Captures {
			captureName := e.query.CaptureNameForId(c.Index)
			e.langExtractor.ExtractUnit(captureName, c.Node, sourceCode, unit)
		}
	}

	return unit, nil
}
