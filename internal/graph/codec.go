package graph

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// wireNode is the JSON shape of a node. Pointer fields are emitted only for the
// kinds that carry them.
type wireNode struct {
	ID         string          `json:"id"`
	Name       string          `json:"name"`
	Type       NodeKind        `json:"type"`
	Path       *string         `json:"path,omitempty"`
	Package    *string         `json:"package,omitempty"`
	File       *string         `json:"file,omitempty"`
	Extends    json.RawMessage `json:"extends,omitempty"`
	Implements []string        `json:"implements,omitempty"`
	Signature  *string         `json:"signature,omitempty"`
	Class      *string         `json:"class,omitempty"`
	ReturnType *string         `json:"return_type,omitempty"`
	Datatype   *string         `json:"datatype,omitempty"`
}

func (n *Node) toWire() (wireNode, error) {
	w := wireNode{ID: n.ID, Name: n.Name, Type: n.Kind}
	switch n.Kind {
	case KindFile:
		w.Path = strPtr(n.Path)
	case KindClass, KindInterface:
		if !n.Declared {
			break
		}
		w.Package = strPtr(n.Package)
		w.File = strPtr(n.File)
		if len(n.Extends) > 0 {
			var v any = n.Extends[0]
			if n.ExtendsList || len(n.Extends) > 1 {
				v = n.Extends
			}
			raw, err := encode(v)
			if err != nil {
				return w, err
			}
			w.Extends = raw
		}
		w.Implements = n.Implements
	case KindMethod:
		w.Signature = strPtr(n.Signature)
		w.Class = strPtr(n.Class)
		w.ReturnType = strPtr(n.ReturnType)
	case KindField:
		w.Datatype = strPtr(n.Datatype)
		w.Class = strPtr(n.Class)
	}
	return w, nil
}

func (n *Node) fromWire(w wireNode) error {
	*n = Node{ID: w.ID, Name: w.Name, Kind: w.Type}
	n.Path = deref(w.Path)
	n.Package = deref(w.Package)
	n.File = deref(w.File)
	n.Declared = w.Package != nil || w.File != nil
	n.Implements = w.Implements
	n.Signature = deref(w.Signature)
	n.Class = deref(w.Class)
	n.ReturnType = deref(w.ReturnType)
	n.Datatype = deref(w.Datatype)

	raw := bytes.TrimSpace(w.Extends)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil
	}
	if raw[0] == '[' {
		n.ExtendsList = true
		return json.Unmarshal(raw, &n.Extends)
	}
	var single string
	if err := json.Unmarshal(raw, &single); err != nil {
		return fmt.Errorf("node %q: extends: %w", n.ID, err)
	}
	n.Extends = []string{single}
	return nil
}

// MarshalJSON renders only the attributes that belong to the node's kind.
func (n *Node) MarshalJSON() ([]byte, error) {
	w, err := n.toWire()
	if err != nil {
		return nil, err
	}
	return encode(w)
}

// UnmarshalJSON is the inverse of MarshalJSON.
func (n *Node) UnmarshalJSON(data []byte) error {
	var w wireNode
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	return n.fromWire(w)
}

// encode marshals without HTML escaping and without the trailing newline.
func encode(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

func strPtr(s string) *string { return &s }

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
