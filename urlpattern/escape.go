package urlpattern

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// patternSpecial is a bitmap of the bytes that have meaning in pattern
// syntax.
var patternSpecial [16]byte

func init() {
	for _, b := range []byte(`\+*?(){}:`) {
		patternSpecial[b%16] |= 1 << (b / 16)
	}
}

func isPatternSpecial(b byte) bool {
	return b < utf8.RuneSelf && patternSpecial[b%16]&(1<<(b/16)) != 0
}

// escapePatternString backslash-escapes pattern syntax characters so s
// matches literally.
func escapePatternString(s string) string {
	i := 0
	for i < len(s) && !isPatternSpecial(s[i]) {
		i++
	}
	if i == len(s) {
		return s
	}

	var b strings.Builder
	b.Grow(2*len(s) - i)
	b.WriteString(s[:i])
	for ; i < len(s); i++ {
		if isPatternSpecial(s[i]) {
			b.WriteByte('\\')
		}
		b.WriteByte(s[i])
	}
	return b.String()
}

// escapeRegexpString quotes s for use inside a regular expression.
func escapeRegexpString(s string) string {
	return regexp.QuoteMeta(s)
}

// segmentWildcardRegexp matches one or more characters up to the next
// delimiter.
func segmentWildcardRegexp(opts options) string {
	if opts.delimiter == "" {
		return `[\s\S]+?`
	}
	return "[^" + escapeRegexpString(opts.delimiter) + "]+?"
}
