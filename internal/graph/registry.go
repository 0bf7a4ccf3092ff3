package graph

// Namespace is an identity space for node ids.
type Namespace string

const (
	NamespacePackage Namespace = "package"
	NamespaceFile    Namespace = "file"
	// NamespaceType is shared by classes, interfaces and stubs synthesized from
	// extends/implements references. A class and an interface with the same
	// qualified name are therefore the same entity and only the first record is kept.
	NamespaceType   Namespace = "type"
	NamespaceMethod Namespace = "method"
	NamespaceField  Namespace = "field"
)

// NamespaceOf maps a node kind to the identity space it is deduplicated in.
func NamespaceOf(kind NodeKind) Namespace {
	switch kind {
	case KindPackage:
		return NamespacePackage
	case KindFile:
		return NamespaceFile
	case KindClass, KindInterface:
		return NamespaceType
	case KindMethod:
		return NamespaceMethod
	case KindField:
		return NamespaceField
	}
	return Namespace(kind)
}

type registryKey struct {
	ns Namespace
	id string
}

// Registry decides whether an id is new within its namespace.
// Ids in different namespaces never conflict. It is not safe for concurrent use.
type Registry struct {
	seen map[registryKey]struct{}
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{seen: make(map[registryKey]struct{})}
}

// Register records id in ns and reports whether it was not seen before.
func (r *Registry) Register(ns Namespace, id string) bool {
	key := registryKey{ns: ns, id: id}
	if _, ok := r.seen[key]; ok {
		return false
	}
	r.seen[key] = struct{}{}
	return true
}

// Seen reports whether id is already registered in ns.
func (r *Registry) Seen(ns Namespace, id string) bool {
	_, ok := r.seen[registryKey{ns: ns, id: id}]
	return ok
}

// Len returns the number of registered ids across all namespaces.
func (r *Registry) Len() int {
	return len(r.seen)
}
