package extractor

import sitter "github.com/smacker/go-tree-sitter"

// LanguageExtractor defines the interface that each language parser must implement.
type LanguageExtractor interface {
	GetLanguage() *sitter.Language
	GetQuery() string
	Extensions() []string
	// ExtractUnit folds one query capture into the compilation unit being built.
	ExtractUnit(captureName string, node *sitter.Node, sourceCode []byte, unit *CompilationUnit)
}
