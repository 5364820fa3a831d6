package mux

import (
	"fmt"
	"regexp"
)

// varMatcher validates a single route variable value.
// *regexp.Regexp satisfies this interface.
type varMatcher interface {
	MatchString(string) bool
	String() string
}

// lengthMatcher wraps a regexp with an additional maximum length constraint.
type lengthMatcher struct {
	re     *regexp.Regexp
	maxLen int
}

func (m *lengthMatcher) MatchString(s string) bool {
	return len(s) <= m.maxLen && m.re.MatchString(s)
}

func (m *lengthMatcher) String() string {
	return m.re.String()
}

// macro holds a pattern string and its pre-compiled validation matcher.
type macro struct {
	pattern string
	matcher varMatcher
}

// patternMacros maps macro names to their compiled patterns.
// Used as a group regexp in route patterns: ":name(macro)".
var patternMacros = func() map[string]macro {
	raw := map[string]string{
		"uuid":     `[0-9a-fA-F]{8}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{12}`,
		"int":      `[0-9]+`,
		"float":    `[0-9]*\.?[0-9]+`,
		"slug":     `[a-zA-Z0-9]+(?:-[a-zA-Z0-9]+)*`,
		"alpha":    `[a-zA-Z]+`,
		"alphanum": `[a-zA-Z0-9]+`,
		"date":     `[0-9]{4}-[0-9]{2}-[0-9]{2}`,
		"hex":      `[0-9a-fA-F]+`,
		// RFC 1035/1123: labels 1-63 chars, total up to 253 chars.
		"domain": `(?:[a-zA-Z0-9](?:[a-zA-Z0-9-]{0,61}[a-zA-Z0-9])?\.)*[a-zA-Z0-9](?:[a-zA-Z0-9-]{0,61}[a-zA-Z0-9])?`,
	}

	// Macros that require additional length validation beyond regex.
	maxLengths := map[string]int{
		"domain": 253,
	}

	m := make(map[string]macro, len(raw))
	for name, pattern := range raw {
		re := regexp.MustCompile(fmt.Sprintf("^%s$", pattern))

		var matcher varMatcher
		if maxLen, ok := maxLengths[name]; ok {
			matcher = &lengthMatcher{re: re, maxLen: maxLen}
		} else {
			matcher = re
		}

		m[name] = macro{
			pattern: pattern,
			matcher: matcher,
		}
	}

	return m
}()

// macroGroup finds ":name(macro)" groups in a pattern.
var macroGroup = regexp.MustCompile(`:([A-Za-z_$][A-Za-z0-9_$]*)\(([a-z]+)\)`)

// expandMacros replaces every ":name(macro)" group whose macro is known with
// the macro's regexp. It returns the rewritten pattern and the matchers
// that validate the captured values. Unknown names are left untouched and
// are compiled as plain regexps.
func expandMacros(pattern string) (string, map[string]varMatcher) {
	var validators map[string]varMatcher

	expanded := macroGroup.ReplaceAllStringFunc(pattern, func(group string) string {
		sub := macroGroup.FindStringSubmatch(group)
		m, ok := patternMacros[sub[2]]
		if !ok {
			return group
		}
		if validators == nil {
			validators = make(map[string]varMatcher)
		}
		validators[sub[1]] = m.matcher
		return ":" + sub[1] + "(" + m.pattern + ")"
	})
	return expanded, validators
}
