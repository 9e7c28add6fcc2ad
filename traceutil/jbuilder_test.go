package traceutil_test

import (
	"encoding/json"
	"testing"

	"github.com/tatchi/trace-go/traceutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddStringBodyEscapes(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"plain", "hello", "hello"},
		{"quote", `a"b`, `a\"b`},
		{"backslash", `a\b`, `a\\b`},
		{"newline", "a\nb", `a\nb`},
		{"carriage return", "a\rb", `a\rb`},
		{"tab", "a\tb", `a\tb`},
		{"backspace", "a\bb", `a\bb`},
		{"low control", "a\x01b", `a\u0001b`},
		{"high control", "a\x1fb", `a\u001fb`},
		{"utf8 passthrough", "héllo ✓", "héllo ✓"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var b traceutil.JBuilder
			b.AddStringBody(tc.in)
			assert.Equal(t, tc.want, string(b.B))

			// quoted form must decode back to the input
			var b2 traceutil.JBuilder
			b2.AddString(tc.in)
			var decoded string
			require.NoError(t, json.Unmarshal(b2.B, &decoded))
			assert.Equal(t, tc.in, decoded)
		})
	}
}

func TestComma(t *testing.T) {
	var b traceutil.JBuilder
	b.Comma() // empty: nothing
	assert.Equal(t, "", string(b.B))

	b.AppendByte('{')
	b.Comma() // after '{': nothing
	assert.Equal(t, "{", string(b.B))

	b.AddKey("a")
	b.Comma() // after ':': nothing
	b.AddInt64(1)
	b.Comma() // after a value: comma
	assert.Equal(t, `{"a":1,`, string(b.B))
}

func TestNumbers(t *testing.T) {
	var b traceutil.JBuilder
	b.AddFixed2(0)
	b.AppendByte(' ')
	b.AddFixed2(1234.5)
	b.AppendByte(' ')
	b.AddFloat64(1.5)
	b.AppendByte(' ')
	b.AddFloat64(3)
	b.AppendByte(' ')
	b.AddInt64(-42)
	b.AppendByte(' ')
	b.AddUint64(7)
	b.AppendByte(' ')
	b.AddBool(true)
	assert.Equal(t, "0.00 1234.50 1.5 3 -42 7 true", string(b.B))
}

func TestAddKeyFastKeys(t *testing.T) {
	b := traceutil.JBuilder{FastKeys: true}
	b.AppendByte('{')
	b.AddKey("x")
	b.AddInt64(1)
	b.AddKey("y")
	b.AddInt64(2)
	assert.Equal(t, `{"x":1,"y":2`, string(b.B))
}

func TestWriteAndReset(t *testing.T) {
	var b traceutil.JBuilder
	n, err := b.Write([]byte("abc"))
	require.NoError(t, err)
	assert.Equal(t, 3, n)
	assert.Equal(t, "abc", string(b.B))
	b.Reset()
	assert.Equal(t, "", string(b.B))
}
