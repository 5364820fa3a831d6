package weburl

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseQuery(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []Pair
	}{
		{name: "empty", input: "", expected: nil},
		{name: "simple", input: "a=1&b=2", expected: []Pair{{"a", "1"}, {"b", "2"}}},
		{name: "duplicates keep order", input: "a=1&b=2&a=3", expected: []Pair{{"a", "1"}, {"b", "2"}, {"a", "3"}}},
		{name: "missing value", input: "flag&x=", expected: []Pair{{"flag", ""}, {"x", ""}}},
		{name: "value with equals", input: "k=a=b", expected: []Pair{{"k", "a=b"}}},
		{name: "empty pieces skipped", input: "&&a=1&", expected: []Pair{{"a", "1"}}},
		{name: "plus is space", input: "q=a+b", expected: []Pair{{"q", "a b"}}},
		{name: "percent decoded", input: "q=%41%2b%20", expected: []Pair{{"q", "A+ "}}},
		{name: "invalid escapes kept", input: "q=%zz%4", expected: []Pair{{"q", "%zz%4"}}},
		{name: "utf8", input: "name=%E2%82%AC", expected: []Pair{{"name", "€"}}},
		{name: "invalid utf8 replaced", input: "b=%FF", expected: []Pair{{"b", "\uFFFD"}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ParseQuery(tt.input))
		})
	}
}

func TestParseURLEncoded(t *testing.T) {
	assert.Equal(t, []Pair{{"a", "b c"}}, ParseURLEncoded([]byte("a=b+c")))
}

func TestStringifyQuery(t *testing.T) {
	tests := []struct {
		name     string
		input    []Pair
		expected string
	}{
		{name: "empty", input: nil, expected: ""},
		{name: "simple", input: []Pair{{"a", "1"}, {"b", "2"}}, expected: "a=1&b=2"},
		{name: "space", input: []Pair{{"q", "a b"}}, expected: "q=a+b"},
		{name: "safe bytes", input: []Pair{{"k", "*-._~"}}, expected: "k=*-._%7E"},
		{name: "reserved", input: []Pair{{"a&b", "c=d+e"}}, expected: "a%26b=c%3Dd%2Be"},
		{name: "utf8", input: []Pair{{"name", "€"}}, expected: "name=%E2%82%AC"},
		{name: "empty value", input: []Pair{{"flag", ""}}, expected: "flag="},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, StringifyQuery(tt.input))
		})
	}
}

func TestPercentEncode(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		set      EncodeSet
		expected string
	}{
		{name: "c0 keeps space", input: "a b\x01", set: C0ControlSet, expected: "a b%01"},
		{name: "fragment", input: "a b`<>", set: FragmentSet, expected: "a%20b%60%3C%3E"},
		{name: "query keeps apostrophe", input: "'#", set: QuerySet, expected: "'%23"},
		{name: "special query", input: "'", set: SpecialQuerySet, expected: "%27"},
		{name: "path", input: "a?{}", set: PathSet, expected: "a%3F%7B%7D"},
		{name: "userinfo", input: "a:b@c", set: UserinfoSet, expected: "a%3Ab%40c"},
		{name: "component", input: "a&b+c", set: ComponentSet, expected: "a%26b%2Bc"},
		{name: "percent kept", input: "%41", set: PathSet, expected: "%41"},
		{name: "non-ascii", input: "é", set: C0ControlSet, expected: "%C3%A9"},
		{name: "delete", input: "\x7f", set: C0ControlSet, expected: "%7F"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, PercentEncode(tt.input, tt.set))
		})
	}
}

func TestPercentDecode(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{input: "", expected: ""},
		{input: "abc", expected: "abc"},
		{input: "%41%62", expected: "Ab"},
		{input: "%", expected: "%"},
		{input: "%4", expected: "%4"},
		{input: "%4g", expected: "%4g"},
		{input: "a%2", expected: "a%2"},
		{input: "%%41", expected: "%A"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, PercentDecode(tt.input))
		})
	}
}
