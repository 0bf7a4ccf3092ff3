package graph

import (
	"path/filepath"

	"javagraph/internal/extractor"
)

// AddUnit converts one extracted compilation unit into nodes and edges.
// path identifies the source file and becomes the file node id.
func (b *Builder) AddUnit(path string, unit *extractor.CompilationUnit) {
	if unit == nil {
		return
	}

	b.AddNode(&Node{ID: path, Name: filepath.Base(path), Kind: KindFile, Path: path})

	pkg := unit.Package
	if pkg != "" {
		b.AddNode(&Node{ID: pkg, Name: pkg, Kind: KindPackage})
		b.AddEdge(pkg, path, EdgeContains)
	}

	for _, imp := range unit.Imports {
		b.AddNode(&Node{ID: imp, Name: imp, Kind: KindPackage})
		b.AddEdge(path, imp, EdgeImport)
	}

	for i := range unit.Types {
		b.addType(path, pkg, &unit.Types[i])
	}
}

func (b *Builder) addType(path, pkg string, decl *extractor.TypeDecl) {
	classID := QualifyTypeName(decl.Name, pkg)
	isInterface := decl.Kind == extractor.TypeInterface

	b.AddNode(&Node{
		ID:          classID,
		Name:        decl.Name,
		Kind:        KindClass,
		Declared:    true,
		Package:     pkg,
		File:        path,
		Extends:     cloneStrings(decl.Extends),
		ExtendsList: isInterface,
		Implements:  cloneStrings(decl.Implements),
	})
	b.AddEdge(path, classID, EdgeContains)

	// Extends stubs are always tagged class, even under an interface.
	for _, ext := range decl.Extends {
		parentID := QualifyTypeName(ext, pkg)
		b.AddNode(&Node{ID: parentID, Name: ext, Kind: KindClass})
		b.AddEdge(classID, parentID, EdgeExtends)
	}

	for _, impl := range decl.Implements {
		ifaceID := QualifyTypeName(impl, pkg)
		b.AddNode(&Node{ID: ifaceID, Name: impl, Kind: KindInterface})
		b.AddEdge(classID, ifaceID, EdgeImplements)
	}

	for _, m := range decl.Members {
		switch {
		case m.Field != nil:
			for _, name := range m.Field.Names {
				fieldID := FieldID(classID, name)
				b.AddNode(&Node{
					ID:       fieldID,
					Name:     name,
					Kind:     KindField,
					Datatype: m.Field.Type,
					Class:    classID,
				})
				b.AddEdge(classID, fieldID, EdgeContains)
			}
		case m.Method != nil:
			b.addMethod(classID, m.Method)
		}
	}
}

func (b *Builder) addMethod(classID string, decl *extractor.MethodDecl) {
	methodID := MethodID(classID, decl.Name, decl.ParamTypes)
	returnType := decl.ReturnType
	if returnType == "" {
		returnType = DefaultReturnType
	}

	b.AddNode(&Node{
		ID:         methodID,
		Name:       decl.Name,
		Kind:       KindMethod,
		Signature:  MethodSignature(decl.Name, decl.ParamTypes),
		Class:      classID,
		ReturnType: returnType,
	})
	b.AddEdge(classID, methodID, EdgeContains)

	if !decl.HasBody {
		return
	}
	for _, inv := range decl.Invocations {
		b.AddEdge(methodID, inv.Target(), EdgeCalls)
	}
}

func cloneStrings(in []string) []string {
	if len(in) == 0 {
		return nil
	}
	out := make([]string, len(in))
	copy(out, in)
	return out
}
