package extractor

import (
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/java"
)

// JavaExtractor implements LanguageExtractor for Java.
type JavaExtractor struct{}

func (j *JavaExtractor) GetLanguage() *sitter.Language {
	return java.GetLanguage()
}

func (j *JavaExtractor) Extensions() []string {
	return []string{".java"}
}

func (j *JavaExtractor) GetQuery() string {
	return `
		(package_declaration) @package
		(import_declaration) @import
		(class_declaration) @type
		(interface_declaration) @type
	`
}

func (j *JavaExtractor) ExtractUnit(captureName string, node *sitter.Node, sourceCode []byte, unit *CompilationUnit) {
	switch captureName {
	case "package":
		unit.Package = declaredName(node, sourceCode)
	case "import":
		if name := declaredName(node, sourceCode); name != "" {
			unit.Imports = append(unit.Imports, name)
		}
	case "type":
		// Nested declarations also match the query; only top-level ones are types of the unit.
		if parent := node.Parent(); parent == nil || parent.Type() != "program" {
			return
		}
		if decl := j.extractType(node, sourceCode); decl != nil {
			unit.Types = append(unit.Types, *decl)
		}
	}
}

// declaredName returns the dotted name of a package or import declaration.
// The wildcard of an on-demand import is a separate node and is not included.
func declaredName(node *sitter.Node, sourceCode []byte) string {
	for i := 0; i < int(node.NamedChildCount()); i++ {
		child := node.NamedChild(i)
		if child.Type() == "scoped_identifier" || child.Type() == "identifier" {
			return child.Content(sourceCode)
		}
	}
	return ""
}

func (j *JavaExtractor) extractType(node *sitter.Node, sourceCode []byte) *TypeDecl {
	nameNode := node.ChildByFieldName("name")
	if nameNode == nil {
		return nil
	}

	decl := &TypeDecl{
		Kind:      TypeClass,
		Name:      nameNode.Content(sourceCode),
		Members:   []Member{},
		StartLine: int(node.StartPoint().Row + 1),
		EndLine:   int(node.EndPoint().Row + 1),
	}
	if node.Type() == "interface_declaration" {
		decl.Kind = TypeInterface
	}

	var body *sitter.Node
	for i := 0; i < int(node.NamedChildCount()); i++ {
		child := node.NamedChild(i)
		switch child.Type() {
		case "superclass", "extends_interfaces":
			decl.Extends = append(decl.Extends, typeNames(child, sourceCode)...)
		case "super_interfaces":
			decl.Implements = append(decl.Implements, typeNames(child, sourceCode)...)
		case "class_body", "interface_body":
			body = child
		}
	}

	if body != nil {
		decl.Members = j.extractMembers(body, sourceCode)
	}
	return decl
}

func (j *JavaExtractor) extractMembers(body *sitter.Node, sourceCode []byte) []Member {
	members := []Member{}
	for i := 0; i < int(body.NamedChildCount()); i++ {
		child := body.NamedChild(i)
		switch child.Type() {
		case "field_declaration", "constant_declaration":
			if field := extractField(child, sourceCode); field != nil {
				members = append(members, Member{Field: field})
			}
		case "method_declaration":
			if method := extractMethod(child, sourceCode); method != nil {
				members = append(members, Member{Method: method})
			}
		}
	}
	return members
}

func extractField(node *sitter.Node, sourceCode []byte) *FieldDecl {
	field := &FieldDecl{Names: []string{}}
	if typeNode := node.ChildByFieldName("type"); typeNode != nil {
		field.Type = typeName(typeNode, sourceCode)
	}

	for i := 0; i < int(node.NamedChildCount()); i++ {
		child := node.NamedChild(i)
		if child.Type() != "variable_declarator" {
			continue
		}
		if nameNode := child.ChildByFieldName("name"); nameNode != nil {
			field.Names = append(field.Names, nameNode.Content(sourceCode))
		}
	}

	if len(field.Names) == 0 {
		return nil
	}
	return field
}

func extractMethod(node *sitter.Node, sourceCode []byte) *MethodDecl {
	nameNode := node.ChildByFieldName("name")
	if nameNode == nil {
		return nil
	}

	method := &MethodDecl{
		Name:       nameNode.Content(sourceCode),
		ParamTypes: []string{},
	}

	if typeNode := node.ChildByFieldName("type"); typeNode != nil && typeNode.Type() != "void_type" {
		method.ReturnType = typeName(typeNode, sourceCode)
	}

	if params := node.ChildByFieldName("parameters"); params != nil {
		method.ParamTypes = parameterTypes(params, sourceCode)
	}

	if body := node.ChildByFieldName("body"); body != nil {
		method.HasBody = true
		collectInvocations(body, sourceCode, &method.Invocations)
	}
	return method
}

func parameterTypes(params *sitter.Node, sourceCode []byte) []string {
	types := []string{}
	for i := 0; i < int(params.NamedChildCount()); i++ {
		param := params.NamedChild(i)
		switch param.Type() {
		case "formal_parameter":
			if typeNode := param.ChildByFieldName("type"); typeNode != nil {
				types = append(types, typeName(typeNode, sourceCode))
			}
		case "spread_parameter":
			// Varargs carry the element type; the "..." is not part of the name.
			for k := 0; k < int(param.NamedChildCount()); k++ {
				if child := param.NamedChild(k); isTypeNode(child) {
					types = append(types, typeName(child, sourceCode))
					break
				}
			}
		}
	}
	return types
}

// collectInvocations walks the subtree in pre-order, so calls inside lambdas,
// anonymous class bodies and nested blocks are all attributed to the enclosing method.
func collectInvocations(node *sitter.Node, sourceCode []byte, out *[]Invocation) {
	if node.Type() == "method_invocation" {
		if inv, ok := invocationOf(node, sourceCode); ok {
			*out = append(*out, inv)
		}
	}
	for i := 0; i < int(node.NamedChildCount()); i++ {
		collectInvocations(node.NamedChild(i), sourceCode, out)
	}
}

func invocationOf(node *sitter.Node, sourceCode []byte) (Invocation, bool) {
	nameNode := node.ChildByFieldName("name")
	if nameNode == nil {
		return Invocation{}, false
	}
	inv := Invocation{Member: nameNode.Content(sourceCode)}
	if object := node.ChildByFieldName("object"); object != nil {
		inv.Qualifier = qualifierOf(object, sourceCode)
	}
	return inv, true
}

// qualifierOf keeps the receiver text only when it is a plain name chain.
// Receivers rooted at this, or computed by calls, casts or allocations, are dropped.
func qualifierOf(object *sitter.Node, sourceCode []byte) string {
	switch object.Type() {
	case "identifier", "super":
		return object.Content(sourceCode)
	case "field_access":
		if isNameChain(object) {
			return object.Content(sourceCode)
		}
	}
	return ""
}

func isNameChain(node *sitter.Node) bool {
	switch node.Type() {
	case "identifier", "super":
		return true
	case "field_access":
		object := node.ChildByFieldName("object")
		return object != nil && isNameChain(object)
	}
	return false
}

var typeNodeKinds = map[string]bool{
	"type_identifier":        true,
	"scoped_type_identifier": true,
	"generic_type":           true,
	"array_type":             true,
	"annotated_type":         true,
	"integral_type":          true,
	"floating_point_type":    true,
	"boolean_type":           true,
	"void_type":              true,
}

func isTypeNode(node *sitter.Node) bool {
	return node != nil && typeNodeKinds[node.Type()]
}

// typeNames collects the textual names of every type listed under node,
// descending into type_list wrappers.
func typeNames(node *sitter.Node, sourceCode []byte) []string {
	var names []string
	for i := 0; i < int(node.NamedChildCount()); i++ {
		child := node.NamedChild(i)
		switch {
		case child.Type() == "type_list":
			names = append(names, typeNames(child, sourceCode)...)
		case isTypeNode(child):
			names = append(names, typeName(child, sourceCode))
		}
	}
	return names
}

// typeName renders a type the way it is referenced by name: type arguments and
// array dimensions are dropped, qualification dots are kept.
func typeName(node *sitter.Node, sourceCode []byte) string {
	switch node.Type() {
	case "generic_type":
		if node.NamedChildCount() > 0 {
			return typeName(node.NamedChild(0), sourceCode)
		}
	case "array_type":
		if element := node.ChildByFieldName("element"); element != nil {
			return typeName(element, sourceCode)
		}
	case "annotated_type":
		if n := int(node.NamedChildCount()); n > 0 {
			return typeName(node.NamedChild(n-1), sourceCode)
		}
	case "scoped_type_identifier":
		var parts []string
		for i := 0; i < int(node.NamedChildCount()); i++ {
			child := node.NamedChild(i)
			if isTypeNode(child) {
				parts = append(parts, typeName(child, sourceCode))
			}
		}
		if len(parts) > 0 {
			return strings.Join(parts, ".")
		}
	}
	return strings.TrimSpace(node.Content(sourceCode))
}
