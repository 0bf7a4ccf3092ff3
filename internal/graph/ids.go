package graph

import "strings"

// QualifyTypeName builds the candidate id of a type from its simple name and the
// package of the file it was seen in. This is textual only: a referenced name is
// qualified with the referencing file's package, not resolved through imports,
// so the result is a best-effort guess and never semantic truth.
func QualifyTypeName(simpleName, pkg string) string {
	if pkg == "" {
		return simpleName
	}
	return pkg + "." + simpleName
}

// MethodSignature renders "name(T1,T2)".
func MethodSignature(name string, paramTypes []string) string {
	return name + "(" + strings.Join(paramTypes, ",") + ")"
}

// MethodID is the owning class id followed by the method signature.
func MethodID(classID, name string, paramTypes []string) string {
	return classID + "." + MethodSignature(name, paramTypes)
}

// FieldID is the owning class id followed by the field name.
func FieldID(classID, name string) string {
	return classID + "." + name
}
