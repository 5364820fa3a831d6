package urlpattern

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenize(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []token
	}{
		{
			name:  "empty",
			input: "",
			expected: []token{
				{typ: tokenEnd, index: 0, value: ""},
			},
		},
		{
			name:  "every token kind",
			input: `/:id(\d+)?*`,
			expected: []token{
				{typ: tokenChar, index: 0, value: "/"},
				{typ: tokenName, index: 1, value: "id"},
				{typ: tokenRegexp, index: 4, value: `\d+`},
				{typ: tokenOtherModifier, index: 9, value: "?"},
				{typ: tokenAsterisk, index: 10, value: "*"},
				{typ: tokenEnd, index: 11, value: ""},
			},
		},
		{
			name:  "grouping and escapes",
			input: `{a\:}+`,
			expected: []token{
				{typ: tokenOpen, index: 0, value: "{"},
				{typ: tokenChar, index: 1, value: "a"},
				{typ: tokenEscapedChar, index: 2, value: ":"},
				{typ: tokenClose, index: 4, value: "}"},
				{typ: tokenOtherModifier, index: 5, value: "+"},
				{typ: tokenEnd, index: 6, value: ""},
			},
		},
		{
			name:  "name stops at invalid code point",
			input: ":foo-bar",
			expected: []token{
				{typ: tokenName, index: 0, value: "foo"},
				{typ: tokenChar, index: 4, value: "-"},
				{typ: tokenChar, index: 5, value: "b"},
				{typ: tokenChar, index: 6, value: "a"},
				{typ: tokenChar, index: 7, value: "r"},
				{typ: tokenEnd, index: 8, value: ""},
			},
		},
		{
			name:  "unicode name",
			input: ":café",
			expected: []token{
				{typ: tokenName, index: 0, value: "café"},
				{typ: tokenEnd, index: 6, value: ""},
			},
		},
		{
			name:  "non-capturing group inside regexp",
			input: "((?:a|b)c)",
			expected: []token{
				{typ: tokenRegexp, index: 0, value: "(?:a|b)c"},
				{typ: tokenEnd, index: 10, value: ""},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tokens, err := tokenize(tt.input, policyStrict)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, tokens)
		})
	}
}

func TestTokenizeErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{name: "trailing backslash", input: `/foo\`},
		{name: "missing name", input: "/:"},
		{name: "unbalanced regexp", input: "/(a"},
		{name: "empty regexp", input: "/()"},
		{name: "capturing group", input: "/((a))"},
		{name: "regexp starting with question mark", input: "/(?=a)"},
		{name: "non-ASCII regexp", input: "/(é)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tokenize(tt.input, policyStrict)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidPattern)

			tokens, err := tokenize(tt.input, policyLenient)
			require.NoError(t, err)
			assert.Equal(t, tokenEnd, tokens[len(tokens)-1].typ)

			var invalid bool
			for _, tok := range tokens {
				if tok.typ == tokenInvalidChar {
					invalid = true
				}
			}
			assert.True(t, invalid, "lenient tokenize should emit an invalid-char token")
		})
	}
}

func TestIsValidNameCodePoint(t *testing.T) {
	tests := []struct {
		r     rune
		first bool
		want  bool
	}{
		{r: 'a', first: true, want: true},
		{r: '_', first: true, want: true},
		{r: '$', first: true, want: true},
		{r: '1', first: true, want: false},
		{r: '1', first: false, want: true},
		{r: '-', first: false, want: false},
		{r: '\u200D', first: true, want: false},
		{r: '\u200D', first: false, want: true},
		{r: 'é', first: true, want: true},
	}

	for _, tt := range tests {
		assert.Equalf(t, tt.want, isValidNameCodePoint(tt.r, tt.first), "%q first=%v", tt.r, tt.first)
	}
}
