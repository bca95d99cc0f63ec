package jsonvalue_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/derickschaefer/jsonperf/internal/jsonvalue"
)

func TestParseScalars(t *testing.T) {
	cases := []struct {
		in   string
		want jsonvalue.Value
	}{
		{`null`, jsonvalue.NullValue()},
		{`true`, jsonvalue.BoolValue(true)},
		{`false`, jsonvalue.BoolValue(false)},
		{`42`, jsonvalue.NumberValue("42")},
		{` -1.5e3 `, jsonvalue.NumberValue("-1.5e3")},
		{`"héllo\n"`, jsonvalue.StringValue("héllo\n")},
	}
	for _, tc := range cases {
		t.Run(tc.in, func(t *testing.T) {
			got, err := jsonvalue.Parse([]byte(tc.in))
			require.NoError(t, err)
			require.Equal(t, tc.want, got)
		})
	}
}

func TestParsePreservesMemberOrder(t *testing.T) {
	v, err := jsonvalue.Parse([]byte(`{"z":1,"a":2,"m":{"y":true,"b":null}}`))
	require.NoError(t, err)
	require.Equal(t, jsonvalue.Object, v.Kind)

	keys := make([]string, 0, len(v.Members))
	for _, m := range v.Members {
		keys = append(keys, m.Key)
	}
	require.Equal(t, []string{"z", "a", "m"}, keys)

	inner, ok := v.Get("m")
	require.True(t, ok)
	require.Equal(t, "y", inner.Members[0].Key)
	require.Equal(t, "b", inner.Members[1].Key)
	require.Equal(t, jsonvalue.Null, inner.Members[1].Value.Kind)
}

func TestParseArrays(t *testing.T) {
	v, err := jsonvalue.Parse([]byte(`[1,"two",[3],{},[]]`))
	require.NoError(t, err)
	require.Equal(t, jsonvalue.Array, v.Kind)
	require.Len(t, v.Elems, 5)
	require.Equal(t, jsonvalue.NumberValue("1"), v.Elems[0])
	require.Equal(t, jsonvalue.StringValue("two"), v.Elems[1])
	require.Equal(t, jsonvalue.ArrayValue(jsonvalue.NumberValue("3")), v.Elems[2])
	require.Equal(t, jsonvalue.ObjectValue(), v.Elems[3])
	require.Equal(t, jsonvalue.ArrayValue(), v.Elems[4])
}

func TestParseRejectsMalformed(t *testing.T) {
	for _, in := range []string{``, `{`, `[1`, `{"a":}`, `{"a":1} x`, `nul`, `[1,]`} {
		_, err := jsonvalue.Parse([]byte(in))
		require.Error(t, err, "input %q", in)
		require.True(t, errors.Is(err, jsonvalue.ErrInvalidJSON), "input %q", in)
	}
}

func TestParseDeepNesting(t *testing.T) {
	const depth = 256
	in := strings.Repeat("[", depth) + "0" + strings.Repeat("]", depth)
	v, err := jsonvalue.Parse([]byte(in))
	require.NoError(t, err)
	require.Equal(t, depth, v.Depth())
}

func TestKindString(t *testing.T) {
	require.Equal(t, "object", jsonvalue.Object.String())
	require.Equal(t, "kind(42)", jsonvalue.Kind(42).String())
}
