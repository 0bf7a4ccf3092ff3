package extractor

// TypeKind distinguishes the two kinds of top-level type declaration that are extracted.
type TypeKind string

const (
	TypeClass     TypeKind = "class"
	TypeInterface TypeKind = "interface"
)

// CompilationUnit is the structure extracted from one source file.
type CompilationUnit struct {
	Package string     `json:"package,omitempty"` // Dotted package name, empty for the default package
	Imports []string   `json:"imports"`           // Import paths, wildcard suffix removed
	Types   []TypeDecl `json:"types"`             // Top-level class and interface declarations
}

// TypeDecl is a top-level class or interface declaration.
type TypeDecl struct {
	Kind       TypeKind `json:"kind"`
	Name       string   `json:"name"`
	Extends    []string `json:"extends,omitempty"`    // Superclass (classes) or super-interfaces (interfaces)
	Implements []string `json:"implements,omitempty"` // Only set on classes
	Members    []Member `json:"members"`              // Fields and methods in source order
	StartLine  int      `json:"start_line"`
	EndLine    int      `json:"end_line"`
}

// Member is either a field declaration or a method declaration.
type Member struct {
	Field  *FieldDecl  `json:"field,omitempty"`
	Method *MethodDecl `json:"method,omitempty"`
}

// FieldDecl is one field declaration statement, which may declare several names.
type FieldDecl struct {
	Type  string   `json:"type"`
	Names []string `json:"names"`
}

// MethodDecl is a method declaration. ReturnType is empty for void methods.
type MethodDecl struct {
	Name        string       `json:"name"`
	ParamTypes  []string     `json:"param_types"`
	ReturnType  string       `json:"return_type,omitempty"`
	HasBody     bool         `json:"has_body"`
	Invocations []Invocation `json:"invocations,omitempty"`
}

// Invocation is a method call expression found inside a method body.
type Invocation struct {
	Qualifier string `json:"qualifier,omitempty"`
	Member    string `json:"member"`
}

// Target renders the call target as written: "qualifier.member" or just "member".
func (i Invocation) Target() string {
	if i.Qualifier == "" {
		return i.Member
	}
	return i.Qualifier + "." + i.Member
}

// Fields returns the field declarations of the type in source order.
func (t *TypeDecl) Fields() []*FieldDecl {
	var fields []*FieldDecl
	for _, m := range t.Members {
		if m.Field != nil {
			fields = append(fields, m.Field)
		}
	}
	return fields
}

// Methods returns the method declarations of the type in source order.
func (t *TypeDecl) Methods() []*MethodDecl {
	var methods []*MethodDecl
	for _, m := range t.Members {
		if m.Method != nil {
			methods = append(methods, m.Method)
		}
	}
	return methods
}
