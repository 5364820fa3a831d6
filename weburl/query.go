package weburl

import (
	"strings"
	"unicode/utf8"
)

// Pair is a single name/value entry of an application/x-www-form-urlencoded
// list.
type Pair struct {
	Name  string
	Value string
}

// ParseQuery splits an application/x-www-form-urlencoded string into an
// ordered list of pairs. Empty pieces between '&' separators are skipped, a
// piece without '=' gets an empty value, '+' decodes to a space, and
// malformed percent escapes are kept literally.
func ParseQuery(text string) []Pair {
	var pairs []Pair
	for text != "" {
		var piece string
		piece, text, _ = strings.Cut(text, "&")
		if piece == "" {
			continue
		}
		name, value, _ := strings.Cut(piece, "=")
		pairs = append(pairs, Pair{
			Name:  decodeFormComponent(name),
			Value: decodeFormComponent(value),
		})
	}
	return pairs
}

// ParseURLEncoded parses a form body. It is ParseQuery over bytes.
func ParseURLEncoded(body []byte) []Pair {
	return ParseQuery(string(body))
}

func decodeFormComponent(s string) string {
	s = strings.ReplaceAll(s, "+", " ")
	s = PercentDecode(s)
	if !utf8.ValidString(s) {
		s = strings.ToValidUTF8(s, "\uFFFD")
	}
	return s
}

// StringifyQuery serializes pairs as application/x-www-form-urlencoded:
// alphanumerics and "*-._" are kept, space becomes '+', and every other
// byte is percent-encoded.
func StringifyQuery(pairs []Pair) string {
	var b strings.Builder
	for i, p := range pairs {
		if i > 0 {
			b.WriteByte('&')
		}
		writeFormComponent(&b, p.Name)
		b.WriteByte('=')
		writeFormComponent(&b, p.Value)
	}
	return b.String()
}

func writeFormComponent(b *strings.Builder, s string) {
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c == ' ':
			b.WriteByte('+')
		case isFormSafe(c):
			b.WriteByte(c)
		default:
			b.WriteByte('%')
			b.WriteByte(upperhex[c>>4])
			b.WriteByte(upperhex[c&15])
		}
	}
}

func isFormSafe(c byte) bool {
	switch {
	case 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z', '0' <= c && c <= '9':
		return true
	case c == '*', c == '-', c == '.', c == '_':
		return true
	}
	return false
}
