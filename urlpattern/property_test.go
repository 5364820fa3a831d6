package urlpattern

import (
	"strings"
	"testing"

	fuzz "github.com/google/gofuzz"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMatchTotality(t *testing.T) {
	patterns := []*URLPattern{
		MustParse("https://*.example.com/users/:id", ""),
		MustParse("/books{/:id}?/:rest*", "https://example.com"),
		MustParse(`http{s}?://:host/:n(\d+)?*#:frag?`, ""),
		MustParse("mailto:*", ""),
	}

	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 300
	properties := gopter.NewProperties(parameters)

	pieces := gen.SliceOf(gen.OneConstOf(
		"https://", "http://", "mailto:", "api.", "example.com", "/", "users", "books", "42",
		"?", "#", "%2F", "..", ":", "@", "[::1]", " ", "é", "\\",
	))

	properties.Property("test agrees with exec", prop.ForAll(
		func(parts []string, base string) bool {
			input := strings.Join(parts, "")
			for _, p := range patterns {
				r := p.Exec(input, base)
				if p.Test(input, base) != (r != nil) {
					return false
				}
				if r != nil && r.Inputs[0] != input {
					return false
				}
			}
			return true
		},
		pieces,
		gen.OneConstOf("", "https://example.com/a/", "mailto:x", "bogus"),
	))

	properties.TestingRun(t)
}

func TestFuzzPatternCompile(t *testing.T) {
	unicodeRanges := fuzz.UnicodeRanges{
		{First: 0x20, Last: 0x7E},
		{First: 0xE0, Last: 0xFF},
	}
	f := fuzz.New().NilChance(0).Funcs(unicodeRanges.CustomStringFuzzFunc())
	syntax := []string{"", ":id", "*", "(\\d+)", "{/x}?", "/", "https://", "?", "#", "\\"}

	for i := 0; i < 2000; i++ {
		var body string
		f.Fuzz(&body)
		pattern := syntax[i%len(syntax)] + body + syntax[(i/len(syntax))%len(syntax)]

		var (
			p   *URLPattern
			err error
		)
		require.NotPanicsf(t, func() {
			p, err = Parse(pattern, "https://example.com")
		}, "pattern %q", pattern)
		if err != nil {
			assert.ErrorIsf(t, err, ErrInvalidPattern, "pattern %q", pattern)
			continue
		}

		require.NotPanicsf(t, func() {
			p.Test("https://example.com/"+body, "")
		}, "pattern %q", pattern)
	}
}
