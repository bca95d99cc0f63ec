package normalize_test

import (
	"encoding/json"
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/derickschaefer/jsonperf/internal/jsonvalue"
	"github.com/derickschaefer/jsonperf/internal/normalize"
)

func mustParse(t *testing.T, s string) jsonvalue.Value {
	t.Helper()
	v, err := jsonvalue.Parse([]byte(s))
	require.NoError(t, err)
	return v
}

func TestNormalizeScalars(t *testing.T) {
	cases := []struct {
		in   jsonvalue.Value
		want any
	}{
		{jsonvalue.NullValue(), nil},
		{jsonvalue.BoolValue(true), true},
		{jsonvalue.NumberValue("7"), int64(7)},
		{jsonvalue.NumberValue("-9223372036854775808"), int64(-9223372036854775808)},
		{jsonvalue.NumberValue("2.5"), 2.5},
		{jsonvalue.NumberValue("1e3"), 1000.0},
		{jsonvalue.NumberValue("1e400"), json.Number("1e400")},
		{jsonvalue.NumberValue("12345678901234567890"), json.Number("12345678901234567890")},
		{jsonvalue.NumberValue("-9223372036854775809"), json.Number("-9223372036854775809")},
		{jsonvalue.NumberValue("0"), int64(0)},
		{jsonvalue.StringValue("x"), "x"},
	}
	for _, tc := range cases {
		got, err := normalize.Normalize(tc.in)
		require.NoError(t, err)
		require.Equal(t, tc.want, got)
	}
}

func TestNormalizeContainers(t *testing.T) {
	v := mustParse(t, `{"list":[3,1,2,{"k":"v"}],"nested":{"deep":[[]]},"empty":{}}`)
	tree, err := normalize.Document(v)
	require.NoError(t, err)

	require.Equal(t, normalize.Tree{
		"list":   []any{int64(3), int64(1), int64(2), map[string]any{"k": "v"}},
		"nested": map[string]any{"deep": []any{[]any{}}},
		"empty":  map[string]any{},
	}, tree)
}

func TestNormalizeDoesNotMutateInput(t *testing.T) {
	v := mustParse(t, `{"a":[1,{"b":"c"}],"d":null}`)
	before := mustParse(t, `{"a":[1,{"b":"c"}],"d":null}`)

	tree, err := normalize.Document(v)
	require.NoError(t, err)

	// Mutating the output must not reach back into the input.
	tree["a"].([]any)[1].(map[string]any)["b"] = "changed"
	tree["new"] = true

	require.Equal(t, before, v)
}

func TestNormalizeRoundTrip(t *testing.T) {
	docs := []string{
		`{"name":"widget","price":12.75,"qty":3,"tags":["a","b"],"meta":{"ok":true,"none":null}}`,
		`{"matrix":[[1,2],[3,4]],"unicode":"日本語 é","neg":-0.001,"big":123456789012}`,
		`{}`,
	}
	for _, doc := range docs {
		tree, err := normalize.Document(mustParse(t, doc))
		require.NoError(t, err)

		encoded, err := json.Marshal(tree)
		require.NoError(t, err)

		var want, got any
		require.NoError(t, json.Unmarshal([]byte(doc), &want))
		require.NoError(t, json.Unmarshal(encoded, &got))
		require.Equal(t, want, got, "round trip of %s", doc)
	}
}

func TestNormalizeDeepNesting(t *testing.T) {
	const depth = 256
	in := `{"x":` + strings.Repeat(`{"x":`, depth) + `1` + strings.Repeat(`}`, depth) + `}`
	tree, err := normalize.Document(mustParse(t, in))
	require.NoError(t, err)

	var cur any = tree
	for i := 0; i <= depth; i++ {
		m, ok := cur.(map[string]any)
		require.True(t, ok, "level %d", i)
		cur = m["x"]
	}
	require.Equal(t, int64(1), cur)
}

func TestNormalizeMalformed(t *testing.T) {
	cases := map[string]jsonvalue.Value{
		"unknown kind":       {Kind: jsonvalue.Kind(99)},
		"invalid kind":       {},
		"array with members": {Kind: jsonvalue.Array, Members: []jsonvalue.Member{{Key: "a"}}},
		"object with elems":  {Kind: jsonvalue.Object, Elems: []jsonvalue.Value{jsonvalue.NullValue()}},
		"scalar with elems":  {Kind: jsonvalue.String, Elems: []jsonvalue.Value{}},
		"bad number":         jsonvalue.NumberValue("12abc"),
		"nested": jsonvalue.ObjectValue(jsonvalue.Member{
			Key:   "inner",
			Value: jsonvalue.ArrayValue(jsonvalue.Value{Kind: jsonvalue.Kind(42)}),
		}),
	}
	for name, v := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := normalize.Normalize(v)
			require.Error(t, err)
			require.True(t, errors.Is(err, normalize.ErrMalformedValueKind))
		})
	}
}

func TestNormalizeMalformedReportsPath(t *testing.T) {
	v := jsonvalue.ObjectValue(jsonvalue.Member{
		Key:   "items",
		Value: jsonvalue.ArrayValue(jsonvalue.NullValue(), jsonvalue.NumberValue("nan")),
	})
	_, err := normalize.Normalize(v)
	require.ErrorContains(t, err, "$.items[1]")
}

func TestDocumentRequiresObject(t *testing.T) {
	_, err := normalize.Document(mustParse(t, `[1,2]`))
	require.ErrorIs(t, err, normalize.ErrNotObject)
}

func TestNormalizeNegativeZeroKeepsSign(t *testing.T) {
	for _, lit := range []string{"-0", "-0.0"} {
		got, err := normalize.Normalize(jsonvalue.NumberValue(lit))
		require.NoError(t, err)
		f, ok := got.(float64)
		require.True(t, ok, "%s normalized to %T", lit, got)
		require.True(t, math.Signbit(f), "%s lost its sign", lit)
	}
}

func TestNormalizeLargeIntegersRoundTripExactly(t *testing.T) {
	src := `{"id":12345678901234567890,"neg":-98765432109876543210,"small":42}`
	tree, err := normalize.Document(mustParse(t, src))
	require.NoError(t, err)

	out, err := json.Marshal(tree)
	require.NoError(t, err)
	require.Equal(t, `{"id":12345678901234567890,"neg":-98765432109876543210,"small":42}`, string(out))
}
