package weburl

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseHost(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		special   bool
		expected  string
		expectErr bool
	}{
		{name: "lowercase domain", input: "Example.COM", special: true, expected: "example.com"},
		{name: "percent decoded domain", input: "ex%41mple.com", special: true, expected: "example.com"},
		{name: "idna", input: "bücher.example", special: true, expected: "xn--bcher-kva.example"},
		{name: "punycode kept", input: "xn--bcher-kva.example", special: true, expected: "xn--bcher-kva.example"},
		{name: "fullwidth mapped", input: "ＥＸＡＭＰＬＥ.com", special: true, expected: "example.com"},
		{name: "forbidden", input: "a<b", special: true, expectErr: true},
		{name: "percent forbidden after decode", input: "a%25b", special: true, expectErr: true},
		{name: "ipv4 decimal", input: "127.0.0.1", special: true, expected: "127.0.0.1"},
		{name: "ipv4 octal", input: "0177.0.0.01", special: true, expected: "127.0.0.1"},
		{name: "ipv4 trailing dot", input: "1.2.3.4.", special: true, expected: "1.2.3.4"},
		{name: "ipv4 three parts", input: "10.1.257", special: true, expected: "10.1.1.1"},
		{name: "ipv4 hex empty", input: "0x", special: true, expected: "0.0.0.0"},
		{name: "ipv4 invalid part", input: "1.2.3.09", special: true, expectErr: true},
		{name: "ipv4 too large", input: "4294967296", special: true, expectErr: true},
		{name: "ipv6", input: "[0:0:0:0:0:0:0:1]", special: true, expected: "[::1]"},
		{name: "ipv6 non-special", input: "[FE80::1]", expected: "[fe80::1]"},
		{name: "ipv6 embedded ipv4", input: "[::ffff:192.168.0.1]", special: true, expected: "[::ffff:c0a8:1]"},
		{name: "ipv6 zone", input: "[fe80::1%25eth0]", special: true, expectErr: true},
		{name: "ipv6 invalid", input: "[1:2]", special: true, expectErr: true},
		{name: "ipv4 in brackets", input: "[127.0.0.1]", special: true, expectErr: true},
		{name: "opaque keeps case", input: "Host", expected: "Host"},
		{name: "opaque encodes non-ascii", input: "hé", expected: "h%C3%A9"},
		{name: "opaque forbidden", input: "a b", expectErr: true},
		{name: "opaque empty", input: "", expected: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			host, err := parseHost(tt.input, tt.special)
			if tt.expectErr {
				assert.ErrorIs(t, err, ErrMalformedInput)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, host)
		})
	}
}

func TestSerializeIPv6(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{input: "::", expected: "::"},
		{input: "::1", expected: "::1"},
		{input: "1::", expected: "1::"},
		{input: "1:0:0:2:0:0:0:3", expected: "1:0:0:2::3"},
		{input: "1:0:2:0:3:0:4:0", expected: "1:0:2:0:3:0:4:0"},
		{input: "2001:db8:0:0:1:0:0:1", expected: "2001:db8::1:0:0:1"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			addr, err := parseIPv6(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, serializeIPv6(addr))
		})
	}
}

func TestEndsInNumber(t *testing.T) {
	tests := []struct {
		input    string
		expected bool
	}{
		{input: "example.com", expected: false},
		{input: "1.2.3.4", expected: true},
		{input: "a.0x1f", expected: true},
		{input: "a.0x1g", expected: false},
		{input: "a.1.", expected: true},
		{input: "a..", expected: false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, endsInNumber(tt.input))
		})
	}
}

func TestDomainToUnicode(t *testing.T) {
	assert.Equal(t, "bücher.example", DomainToUnicode("xn--bcher-kva.example"))
	assert.Equal(t, "plain.example", DomainToUnicode("plain.example"))
}
