package jsonschema

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCompile(t *testing.T) {
	tests := []struct {
		input    string
		expected Path
	}{
		{"name", Path{Key("name")}},
		{"address.city", Path{Key("address"), Key("city")}},
		{"tags[]", Path{Key("tags"), ArrayWildcard}},
		{"items[].name", Path{Key("items"), ArrayWildcard, Key("name")}},
		{"[]", Path{ArrayWildcard}},
		{"[].id", Path{ArrayWildcard, Key("id")}},
		{"matrix[][]", Path{Key("matrix"), ArrayWildcard, ArrayWildcard}},
		{"items[0].name", Path{Key("items"), ArrayWildcard, Key("name")}},
		{"items[12]", Path{Key("items"), ArrayWildcard}},
		{"a['b.c']", Path{Key("a"), Key("b.c")}},
		{`a["x y"].z`, Path{Key("a"), Key("x y"), Key("z")}},
		{"['root.key']", Path{Key("root.key")}},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := Compile(tt.input)
			require.NoError(t, err)
			require.Equal(t, tt.expected, got)
		})
	}
}

func TestCompileMalformed(t *testing.T) {
	tests := []struct {
		input  string
		reason string
	}{
		{"", "empty path"},
		{"a..b", "consecutive '.'"},
		{".a", "leading '.'"},
		{"a.", "trailing '.'"},
		{"a[", "unmatched '['"},
		{"a]", "unmatched ']'"},
		{"a[].[]", "expected key after '.'"},
		{"a[]b", "missing '.' before key"},
		{"a[x]", "invalid bracket expression [x]"},
		{"a['']", "empty quoted key"},
		{"a.*.b", "map wildcards are not supported"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			_, err := Compile(tt.input)
			var malformed *MalformedPathError
			require.True(t, errors.As(err, &malformed), "expected MalformedPathError, got %v", err)
			require.Equal(t, tt.input, malformed.Path)
			require.Equal(t, tt.reason, malformed.Reason)
		})
	}
}

func TestPathString(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"items[].name", "items[].name"},
		{"items[3].name", "items[].name"},
		{"[].id", "[].id"},
		{"a['b.c'].d", "a['b.c'].d"},
		{`a["it's"]`, `a["it's"]`},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			p, err := Compile(tt.input)
			require.NoError(t, err)
			require.Equal(t, tt.expected, p.String())

			again, err := Compile(p.String())
			require.NoError(t, err)
			require.True(t, p.Equal(again))
		})
	}
}

func TestPathHasPrefix(t *testing.T) {
	p := Path{Key("items"), ArrayWildcard, Key("id")}

	require.True(t, p.HasPrefix(nil))
	require.True(t, p.HasPrefix(Path{Key("items")}))
	require.True(t, p.HasPrefix(Path{Key("items"), ArrayWildcard}))
	require.False(t, p.HasPrefix(Path{Key("item")}))
	require.False(t, p.HasPrefix(Path{Key("items"), Key("id")}))
	require.False(t, Path{Key("items")}.HasPrefix(p))
}

func TestPathKeyIsUnambiguous(t *testing.T) {
	dotted := Path{Key("a.b")}
	nested := Path{Key("a"), Key("b")}
	require.NotEqual(t, dotted.key(), nested.key())
	require.NotEqual(t, Path{Key("[]")}.key(), Path{ArrayWildcard}.key())
}
