package ustring

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseStringRoundTrip(t *testing.T) {
	cases := []struct{ raw, want string }{
		{"hello world", "hello world"},
		{"", ""},
		{"tab\\tnewline\\nquote\\\"backslash\\\\", "tab\tnewline\nquote\"backslash\\"},
		{"café", "café"}, // multi-byte UTF-8
	}

	for _, c := range cases {
		u, diags := ParseString(c.raw)
		require.Empty(t, diags, "no diagnostics expected for %q", c.raw)

		// Round trip only holds when escapes expand to themselves, i.e.
		// the escaped form and the unparsed literal bytes agree. For the
		// plain cases, ParseString -> String reproduces the raw text
		// exactly; for the escaped case it yields the decoded text.
		require.Equal(t, c.want, u.String())
	}
}

func TestParseStringEscapes(t *testing.T) {
	u, diags := ParseString(`a\tb\nc`)
	require.Empty(t, diags)
	require.Equal(t, "a\tb\nc", u.String())
	require.Equal(t, 5, u.Len())
}

func TestParseStringEscapedNewlineSuppressed(t *testing.T) {
	u, diags := ParseString("a\\\nb")
	require.Empty(t, diags)
	require.Equal(t, "ab", u.String())
}

func TestParseStringUnknownEscapeIsLenient(t *testing.T) {
	u, diags := ParseString(`a\qb`)
	require.Len(t, diags, 1)
	require.Equal(t, "aqb", u.String())
}

func TestUTF8Equality(t *testing.T) {
	a, _ := ParseString("héllo")
	b, _ := ParseString("héllo")
	require.True(t, Eq(a, b))

	c, _ := ParseString("hello")
	require.False(t, Eq(a, c))
}

func TestMultiByteRoundTrip(t *testing.T) {
	u, diags := ParseString("日本語")
	require.Empty(t, diags)
	require.Equal(t, "日本語", u.String())
	require.Equal(t, 3, u.Len())
}
