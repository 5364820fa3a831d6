package weburl

import "strings"

// EncodeSet selects which bytes PercentEncode escapes. Every set escapes
// C0 controls, DEL, and all non-ASCII bytes.
type EncodeSet int

const (
	// C0ControlSet escapes only C0 controls and bytes above '~'.
	C0ControlSet EncodeSet = iota
	// FragmentSet adds space, '"', '<', '>' and '`'.
	FragmentSet
	// QuerySet adds space, '"', '#', '<' and '>'.
	QuerySet
	// SpecialQuerySet is QuerySet plus '\'' for special schemes.
	SpecialQuerySet
	// PathSet is QuerySet plus '?', '`', '{' and '}'.
	PathSet
	// UserinfoSet is PathSet plus '/', ':', ';', '=', '@', '[', '\\', ']', '^' and '|'.
	UserinfoSet
	// ComponentSet is UserinfoSet plus '$', '%', '&', '+' and ','.
	ComponentSet

	numEncodeSets
)

// encodeBits holds one 128-bit bitmap per set for the printable ASCII range.
var encodeBits [numEncodeSets][2]uint64

func init() {
	extra := [numEncodeSets]string{
		C0ControlSet:    "",
		FragmentSet:     " \"<>`",
		QuerySet:        " \"#<>",
		SpecialQuerySet: " \"#<>'",
		PathSet:         " \"#<>?`{}",
		UserinfoSet:     " \"#<>?`{}/:;=@[\\]^|",
		ComponentSet:    " \"#<>?`{}/:;=@[\\]^|$%&+,",
	}
	for set, chars := range extra {
		for _, c := range []byte(chars) {
			encodeBits[set][c/64] |= 1 << (c % 64)
		}
	}
}

func (s EncodeSet) contains(c byte) bool {
	if c < 0x20 || c > 0x7e {
		return true
	}
	return encodeBits[s][c/64]&(1<<(c%64)) != 0
}

const upperhex = "0123456789ABCDEF"

// PercentEncode escapes every byte of s that belongs to set as %XX with
// uppercase hex digits. Existing '%' bytes are left alone unless the set
// contains '%'.
func PercentEncode(s string, set EncodeSet) string {
	n := 0
	for i := 0; i < len(s); i++ {
		if set.contains(s[i]) {
			n++
		}
	}
	if n == 0 {
		return s
	}

	var b strings.Builder
	b.Grow(len(s) + 2*n)
	for i := 0; i < len(s); i++ {
		c := s[i]
		if set.contains(c) {
			b.WriteByte('%')
			b.WriteByte(upperhex[c>>4])
			b.WriteByte(upperhex[c&15])
			continue
		}
		b.WriteByte(c)
	}
	return b.String()
}

// PercentDecode decodes %XX triples in s. Malformed triples are kept
// literally. The result may contain invalid UTF-8.
func PercentDecode(s string) string {
	i := strings.IndexByte(s, '%')
	if i < 0 {
		return s
	}

	b := make([]byte, 0, len(s))
	b = append(b, s[:i]...)
	for ; i < len(s); i++ {
		c := s[i]
		if c == '%' && i+2 < len(s) && ishex(s[i+1]) && ishex(s[i+2]) {
			b = append(b, unhex(s[i+1])<<4|unhex(s[i+2]))
			i += 2
			continue
		}
		b = append(b, c)
	}
	return string(b)
}

func ishex(c byte) bool {
	return ('0' <= c && c <= '9') || ('a' <= c && c <= 'f') || ('A' <= c && c <= 'F')
}

func unhex(c byte) byte {
	switch {
	case '0' <= c && c <= '9':
		return c - '0'
	case 'a' <= c && c <= 'f':
		return c - 'a' + 10
	case 'A' <= c && c <= 'F':
		return c - 'A' + 10
	}
	return 0
}
