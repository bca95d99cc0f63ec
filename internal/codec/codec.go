// Package codec holds the JSON libraries under test behind one interface.
// Every codec encodes a normalized tree and decodes back into generic
// containers, the same way the original measurements did.
package codec

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ErrUnknownCodec is returned by Get for an unregistered name.
var ErrUnknownCodec = errors.New("unknown codec")

// Codec encodes and decodes generic JSON trees.
type Codec interface {
	Name() string
	Encode(v any) ([]byte, error)
	Decode(data []byte) (any, error)
}

var registry = map[string]Codec{}

func register(c Codec) {
	if _, dup := registry[c.Name()]; dup {
		panic("codec: duplicate registration of " + c.Name())
	}
	registry[c.Name()] = c
}

func init() {
	register(stdCodec{})
	register(newJSONIter("jsoniter", false))
	register(newJSONIter("jsoniter-fastest", true))
	register(goccyCodec{})
	register(sonicCodec{})
}

// Get returns the codec registered under name.
func Get(name string) (Codec, error) {
	c, ok := registry[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return nil, fmt.Errorf("%w %q (available: %s)", ErrUnknownCodec, name, strings.Join(Names(), ", "))
	}
	return c, nil
}

// Resolve looks up every name, preserving order and dropping duplicates.
// An empty list selects all codecs.
func Resolve(names []string) ([]Codec, error) {
	if len(names) == 0 {
		names = Names()
	}
	seen := make(map[string]bool, len(names))
	out := make([]Codec, 0, len(names))
	for _, n := range names {
		c, err := Get(n)
		if err != nil {
			return nil, err
		}
		if seen[c.Name()] {
			continue
		}
		seen[c.Name()] = true
		out = append(out, c)
	}
	return out, nil
}

// Names returns the registered codec names, sorted.
func Names() []string {
	names := make([]string, 0, len(registry))
	for n := range registry {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
