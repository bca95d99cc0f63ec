// Package normalize converts a parsed jsonvalue.Value into a tree built only
// from generic Go containers and primitives, so that any JSON encoder can
// consume it:
//
//	null    → nil
//	bool    → bool
//	number  → int64 when the literal is an integer that fits, else float64
//	string  → string
//	array   → []any
//	object  → map[string]any
//
// Integer literals outside the int64 range and numbers whose magnitude
// overflows float64 are kept as json.Number so that no precision is lost
// beyond what the parser produced. "-0" becomes a negative-zero float64.
package normalize

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/derickschaefer/jsonperf/internal/jsonvalue"
)

// ErrMalformedValueKind is returned when a value's payload does not agree
// with its Kind. A conformant parser never produces such a value.
var ErrMalformedValueKind = errors.New("malformed value kind")

// ErrNotObject is returned by Document when the root value is not an object.
var ErrNotObject = errors.New("document root is not an object")

// Tree is a normalized JSON object.
type Tree = map[string]any

// Normalize converts v into its generic representation. It never mutates v
// and the result shares no memory with it.
func Normalize(v jsonvalue.Value) (any, error) {
	return normalize(v, "$")
}

// Document normalizes a root object into a Tree.
func Document(v jsonvalue.Value) (Tree, error) {
	if v.Kind != jsonvalue.Object {
		return nil, fmt.Errorf("%w: got %s", ErrNotObject, v.Kind)
	}
	out, err := normalize(v, "$")
	if err != nil {
		return nil, err
	}
	return out.(Tree), nil
}

func normalize(v jsonvalue.Value, path string) (any, error) {
	if err := checkShape(v, path); err != nil {
		return nil, err
	}

	switch v.Kind {
	case jsonvalue.Null:
		return nil, nil
	case jsonvalue.Bool:
		return v.Bool, nil
	case jsonvalue.Number:
		return number(v.Num, path)
	case jsonvalue.String:
		return v.Str, nil
	case jsonvalue.Array:
		out := make([]any, len(v.Elems))
		for i, e := range v.Elems {
			n, err := normalize(e, path+"["+strconv.Itoa(i)+"]")
			if err != nil {
				return nil, err
			}
			out[i] = n
		}
		return out, nil
	case jsonvalue.Object:
		out := make(Tree, len(v.Members))
		for _, m := range v.Members {
			n, err := normalize(m.Value, path+"."+m.Key)
			if err != nil {
				return nil, err
			}
			out[m.Key] = n
		}
		return out, nil
	default:
		return nil, fmt.Errorf("%w at %s: unknown %s", ErrMalformedValueKind, path, v.Kind)
	}
}

// checkShape rejects values carrying children that their kind cannot hold.
func checkShape(v jsonvalue.Value, path string) error {
	switch v.Kind {
	case jsonvalue.Array:
		if v.Members != nil {
			return fmt.Errorf("%w at %s: array carries object members", ErrMalformedValueKind, path)
		}
	case jsonvalue.Object:
		if v.Elems != nil {
			return fmt.Errorf("%w at %s: object carries array elements", ErrMalformedValueKind, path)
		}
	default:
		if v.Elems != nil || v.Members != nil {
			return fmt.Errorf("%w at %s: %s carries children", ErrMalformedValueKind, path, v.Kind)
		}
	}
	return nil
}

func number(lit, path string) (any, error) {
	if !isNumberLiteral(lit) {
		return nil, fmt.Errorf("%w at %s: bad number literal %q", ErrMalformedValueKind, path, lit)
	}
	if !strings.ContainsAny(lit, ".eE") {
		if lit == "-0" {
			return math.Copysign(0, -1), nil
		}
		i, err := strconv.ParseInt(lit, 10, 64)
		if err == nil {
			return i, nil
		}
		if errors.Is(err, strconv.ErrRange) {
			return json.Number(lit), nil
		}
		return nil, fmt.Errorf("%w at %s: bad number literal %q", ErrMalformedValueKind, path, lit)
	}
	f, err := strconv.ParseFloat(lit, 64)
	if err == nil {
		return f, nil
	}
	if errors.Is(err, strconv.ErrRange) {
		return json.Number(lit), nil
	}
	return nil, fmt.Errorf("%w at %s: bad number literal %q", ErrMalformedValueKind, path, lit)
}

// isNumberLiteral reports whether lit is a JSON number. strconv alone would
// also accept "NaN", "Inf", hex floats and underscores.
func isNumberLiteral(lit string) bool {
	if lit == "" {
		return false
	}
	if c := lit[0]; c != '-' && (c < '0' || c > '9') {
		return false
	}
	return json.Valid([]byte(lit))
}
