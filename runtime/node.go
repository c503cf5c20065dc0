// Package runtime is the small support library a generated parser imports
// (spec.md §9: "provide a generic node type ... in both the generator's
// model and the emitted AST"). It deliberately carries no dependency
// beyond the standard library, since generated parser source must compile
// standalone against only this package (see SPEC_FULL.md's ambient-stack
// notes on the generated CLI staying on stdlib flag/json).
//
// Grounded conceptually on the prior design's tree package (parent/child
// linked Element/NodeElement, first/last-token traversal) but replaced
// with the flat string-keyed mapping spec.md §9 calls for instead of a
// linked tree, since captures assign directly into named fields rather
// than building a generic child list.
package runtime

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
)

// LC is a 1-based, inclusive [line, col] source position, serialized as a
// two-element JSON array (spec.md §6).
type LC [2]int

// Node is the generic AST node: a string-keyed mapping whose values are
// one of string, float64/int, LC, *Node, []any (built by Append), or
// nil, plus the two fields
// every node carries unconditionally (spec.md §6): Kind and LC.
type Node struct {
	Kind   string
	Pos    LC
	fields map[string]any
}

// NewNode creates an empty node of the given kind at pos.
func NewNode(kind string, pos LC) *Node {
	return &Node{Kind: kind, Pos: pos}
}

// Set assigns value to name, overwriting any previous value. name must
// not be "kind" or "lc"; those are reserved for Kind/Pos.
func (n *Node) Set(name string, value any) {
	if n.fields == nil {
		n.fields = map[string]any{}
	}
	n.fields[name] = value
}

// Append implements `*name` list-capture semantics: the first append
// creates the list, subsequent ones grow it.
func (n *Node) Append(name string, value any) {
	if n.fields == nil {
		n.fields = map[string]any{}
	}
	list, _ := n.fields[name].([]any)
	n.fields[name] = append(list, value)
}

// Get returns the value stored at name, if any.
func (n *Node) Get(name string) (any, bool) {
	if n.fields == nil {
		return nil, false
	}
	v, ok := n.fields[name]
	return v, ok
}

// Field projects field f from v (spec.md §9's "dotted captures": a
// two-step post-match read — if the sub-match is a node, project the
// named field; otherwise it is an error). "value" and "lc" are always
// available on a token-shaped match; "lc" is a SPEC_FULL.md addendum
// beyond the spec's guaranteed "value".
func Field(v any, f string) (any, error) {
	switch val := v.(type) {
	case *Node:
		if f == "lc" {
			return val.Pos, nil
		}
		fv, ok := val.Get(f)
		if !ok {
			return nil, fmt.Errorf("node of kind %q has no field %q", val.Kind, f)
		}
		return fv, nil
	case Token:
		switch f {
		case "lc":
			return val.Pos, nil
		case "value":
			return val.Value, nil
		default:
			return nil, fmt.Errorf("token match has no field %q", f)
		}
	default:
		return nil, fmt.Errorf("cannot project field %q from non-node value %v", f, v)
	}
}

// FieldNames returns n's non-reserved field names, the same order every
// time for a given Node (sorted), so generated tests and golden files are
// deterministic.
func (n *Node) FieldNames() []string {
	names := make([]string, 0, len(n.fields))
	for name := range n.fields {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// KeyReduce implements the `key:K` attribute (spec.md §4.4): if n's
// fields reduce to exactly {kind, lc, K}, it returns the value stored at
// K in place of n; otherwise it returns n unchanged.
func (n *Node) KeyReduce(key string) any {
	if len(n.fields) != 1 {
		return n
	}
	v, ok := n.fields[key]
	if !ok {
		return n
	}
	return v
}

// Flip implements the `flip:P` attribute: the child stored at field p
// becomes the new root, taking n as its own child under p. Returns n
// unchanged if p is absent.
func (n *Node) Flip(p string) any {
	child, ok := n.fields[p]
	if !ok {
		return n
	}
	childNode, ok := child.(*Node)
	if !ok {
		return n
	}
	delete(n.fields, p)
	childNode.Set(p, n)
	return childNode
}

// Merge implements the `merge` directive: child's fields are copied into
// n and n's Kind is replaced by child's, as if child's match had written
// directly into n. Used when a capture's matched rule carries `merge`.
func (n *Node) Merge(child *Node) {
	n.Kind = child.Kind
	for k, v := range child.fields {
		n.Set(k, v)
	}
}

// MarshalJSON emits {"kind":..., "lc":[l,c], ...fields} with fields in
// sorted key order, for deterministic output across runs.
func (n *Node) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')

	kindJSON, err := json.Marshal(n.Kind)
	if err != nil {
		return nil, err
	}
	fmt.Fprintf(&buf, `"kind":%s,`, kindJSON)

	lcJSON, err := json.Marshal(n.Pos)
	if err != nil {
		return nil, err
	}
	fmt.Fprintf(&buf, `"lc":%s`, lcJSON)

	for _, name := range n.FieldNames() {
		valueJSON, err := json.Marshal(n.fields[name])
		if err != nil {
			return nil, err
		}
		nameJSON, err := json.Marshal(name)
		if err != nil {
			return nil, err
		}
		buf.WriteByte(',')
		buf.Write(nameJSON)
		buf.WriteByte(':')
		buf.Write(valueJSON)
	}

	buf.WriteByte('}')
	return buf.Bytes(), nil
}
</content>
