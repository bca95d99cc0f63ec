// Package jsonvalue defines a closed, dynamically-typed JSON value and an
// order-preserving parser that produces it. Objects keep their members in
// source order so that anything iterating them is deterministic per input.
package jsonvalue

import "fmt"

// Kind identifies which variant of Value is populated.
type Kind uint8

const (
	Invalid Kind = iota
	Null
	Bool
	Number
	String
	Array
	Object
)

var kindNames = [...]string{
	Invalid: "invalid",
	Null:    "null",
	Bool:    "bool",
	Number:  "number",
	String:  "string",
	Array:   "array",
	Object:  "object",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("kind(%d)", uint8(k))
}

// Member is a single key/value pair of an Object.
type Member struct {
	Key   string
	Value Value
}

// Value is a tagged union over the six JSON types.
// Only the payload field matching Kind is meaningful; the others must be
// left at their zero value.
type Value struct {
	Kind    Kind
	Bool    bool
	Num     string // literal text of a Number, e.g. "-1.5e3"
	Str     string
	Elems   []Value
	Members []Member
}

// NullValue returns a JSON null.
func NullValue() Value { return Value{Kind: Null} }

// BoolValue returns a JSON boolean.
func BoolValue(b bool) Value { return Value{Kind: Bool, Bool: b} }

// NumberValue returns a JSON number holding the given literal.
func NumberValue(lit string) Value { return Value{Kind: Number, Num: lit} }

// StringValue returns a JSON string.
func StringValue(s string) Value { return Value{Kind: String, Str: s} }

// ArrayValue returns a JSON array of the given elements.
// An empty call yields an empty (non-nil) array.
func ArrayValue(elems ...Value) Value {
	if elems == nil {
		elems = []Value{}
	}
	return Value{Kind: Array, Elems: elems}
}

// ObjectValue returns a JSON object with members in the given order.
func ObjectValue(members ...Member) Value {
	if members == nil {
		members = []Member{}
	}
	return Value{Kind: Object, Members: members}
}

// Get returns the value of the first member named key.
// It reports false for non-objects and missing keys.
func (v Value) Get(key string) (Value, bool) {
	if v.Kind != Object {
		return Value{}, false
	}
	for _, m := range v.Members {
		if m.Key == key {
			return m.Value, true
		}
	}
	return Value{}, false
}

// Depth returns the nesting depth of v. Scalars have depth 0.
func (v Value) Depth() int {
	depth := 0
	switch v.Kind {
	case Array:
		for _, e := range v.Elems {
			if d := e.Depth() + 1; d > depth {
				depth = d
			}
		}
		if depth == 0 {
			depth = 1
		}
	case Object:
		for _, m := range v.Members {
			if d := m.Value.Depth() + 1; d > depth {
				depth = d
			}
		}
		if depth == 0 {
			depth = 1
		}
	}
	return depth
}
