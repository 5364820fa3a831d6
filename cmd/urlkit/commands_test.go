package main

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/vitalvas/urlkit/urlpattern"
)

func parseJSON[T any](t *testing.T, out string) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal([]byte(out), &v))
	return v
}

func TestParseCmd(t *testing.T) {
	t.Run("canonicalizes and reports offsets", func(t *testing.T) {
		out, _, err := execute(t, "-o", "json", "parse", "HTTP://User@EXAMPLE.com:8080/a/../b?x=1#f")
		require.NoError(t, err)

		rec := parseJSON[urlRecord](t, out)
		assert.Equal(t, "http://User@example.com:8080/b?x=1#f", rec.Href)
		assert.Equal(t, "http://example.com:8080", rec.Origin)
		assert.Equal(t, "8080", rec.Port)
		assert.Equal(t, 4, rec.Offsets.SchemeEnd)
		require.NotNil(t, rec.Offsets.Port)
		assert.Equal(t, 8080, *rec.Offsets.Port)
		require.NotNil(t, rec.Offsets.QueryStart)
		assert.Equal(t, "?x=1", rec.Href[*rec.Offsets.QueryStart:*rec.Offsets.FragmentStart])
	})

	t.Run("relative with base", func(t *testing.T) {
		out, _, err := execute(t, "-o", "json", "parse", "../c", "--base", "https://example.com/a/b/")
		require.NoError(t, err)
		assert.Equal(t, "https://example.com/a/c", parseJSON[urlRecord](t, out).Href)
	})

	t.Run("no port and no query", func(t *testing.T) {
		out, _, err := execute(t, "-o", "json", "parse", "https://example.com/")
		require.NoError(t, err)

		rec := parseJSON[urlRecord](t, out)
		assert.Nil(t, rec.Offsets.Port)
		assert.Nil(t, rec.Offsets.QueryStart)
		assert.Nil(t, rec.Offsets.FragmentStart)
	})

	t.Run("invalid input", func(t *testing.T) {
		_, _, err := execute(t, "parse", "not a url")
		assert.Error(t, err)
	})
}

func TestSetCmd(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		want    string
		wantErr bool
	}{
		{"hostname", []string{"set", "https://example.com/p", "hostname", "EXAMPLE.org"}, "https://example.org/p", false},
		{"port", []string{"set", "https://example.com/", "port", "8443"}, "https://example.com:8443/", false},
		{"default port is dropped", []string{"set", "https://example.com:8443/", "port", "443"}, "https://example.com/", false},
		{"search", []string{"set", "https://example.com/", "search", "a=b c"}, "https://example.com/?a=b%20c", false},
		{"href", []string{"set", "https://example.com/", "href", "http://other.test/x"}, "http://other.test/x", false},
		{"rejected value leaves URL unchanged", []string{"set", "https://example.com/", "port", "99999"}, "https://example.com/", false},
		{"strict rejection", []string{"set", "--strict", "https://example.com/", "port", "99999"}, "", true},
		{"invalid href", []string{"set", "https://example.com/", "href", "nope"}, "", true},
		{"unknown component", []string{"set", "https://example.com/", "fragment", "x"}, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, _, err := execute(t, append([]string{"-o", "json"}, tt.args...)...)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, parseJSON[urlRecord](t, out).Href)
		})
	}
}

func TestQueryCmd(t *testing.T) {
	tests := []struct {
		name  string
		args  []string
		query string
		pairs [][2]string
	}{
		{
			name:  "decodes pairs",
			args:  []string{"?a=1&b=x+y&a=%262"},
			query: "a=1&b=x+y&a=%262",
			pairs: [][2]string{{"a", "1"}, {"b", "x y"}, {"a", "&2"}},
		},
		{
			name:  "edits in order",
			args:  []string{"b=1&a=2&c=3", "--delete", "c", "--set", "b=9", "--append", "a=0", "--sort"},
			query: "a=2&a=0&b=9",
			pairs: [][2]string{{"a", "2"}, {"a", "0"}, {"b", "9"}},
		},
		{
			name:  "empty input",
			query: "",
			pairs: [][2]string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, _, err := execute(t, append([]string{"-o", "json", "query"}, tt.args...)...)
			require.NoError(t, err)

			rec := parseJSON[queryRecord](t, out)
			assert.Equal(t, tt.query, rec.Query)
			assert.Equal(t, tt.pairs, rec.Pairs)
		})
	}

	t.Run("malformed pair", func(t *testing.T) {
		_, _, err := execute(t, "query", "--append", "novalue")
		assert.Error(t, err)
	})
}

func TestMatchCmd(t *testing.T) {
	t.Run("prints the normalized pattern", func(t *testing.T) {
		out, _, err := execute(t, "match", "https://*.example.com/books/:id(\\d+)")
		require.NoError(t, err)

		var rec patternRecord
		require.NoError(t, yaml.Unmarshal([]byte(out), &rec))
		assert.Equal(t, "https", rec.Protocol)
		assert.Equal(t, "*.example.com", rec.Hostname)
		assert.Equal(t, "", rec.Port)
		assert.Equal(t, `/books/:id(\d+)`, rec.Pathname)
		assert.True(t, rec.HasRegExpGroups)
	})

	t.Run("prints the match result", func(t *testing.T) {
		out, _, err := execute(t, "-o", "json", "match", "https://*.example.com/books/:id", "https://shop.example.com/books/42")
		require.NoError(t, err)

		res := parseJSON[urlpattern.Result](t, out)
		assert.Equal(t, "42", res.Pathname.Groups["id"])
		assert.Equal(t, "shop", res.Hostname.Groups["0"])
	})

	t.Run("ignore case", func(t *testing.T) {
		_, _, err := execute(t, "match", "-i", "/Books/*", "/books/x", "--base", "https://example.com")
		assert.NoError(t, err)
	})

	t.Run("no match", func(t *testing.T) {
		_, _, err := execute(t, "match", "https://example.com/a", "https://example.com/b")
		assert.ErrorIs(t, err, errNoMatch)
	})

	t.Run("invalid pattern", func(t *testing.T) {
		_, _, err := execute(t, "match", "https://example.com/:id(")
		assert.ErrorIs(t, err, urlpattern.ErrInvalidPattern)
	})
}
