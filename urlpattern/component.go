package urlpattern

import (
	"regexp"
	"strings"
)

// component is one compiled URL component pattern.
type component struct {
	pattern         string
	re              *regexp.Regexp
	groupNames      []string
	hasRegexpGroups bool
}

func compileComponent(name, input string, encode encodingCallback, opts options) (*component, error) {
	parts, err := parsePatternString(input, opts, encode)
	if err != nil {
		return nil, &PatternError{Component: name, Pattern: input, Err: err}
	}

	expr, groupNames := generateRegexp(parts, opts)
	if opts.ignoreCase {
		expr = "(?i)" + expr
	}

	re, err := compileRegexp(expr)
	if err != nil {
		return nil, &PatternError{Component: name, Pattern: input, Err: patternFailure("%v", err)}
	}
	if re.NumSubexp() != len(groupNames) {
		return nil, &PatternError{Component: name, Pattern: input, Err: patternFailure("regexp groups must not capture")}
	}

	c := &component{
		pattern:    generatePatternString(parts, opts),
		re:         re,
		groupNames: groupNames,
	}
	for _, p := range parts {
		if p.typ == partRegexp {
			c.hasRegexpGroups = true
			break
		}
	}
	return c, nil
}

// match runs the component expression and returns the captured groups
// by name. Groups that did not participate map to "".
func (c *component) match(input string) (map[string]string, bool) {
	m := c.re.FindStringSubmatch(input)
	if m == nil {
		return nil, false
	}
	groups := make(map[string]string, len(c.groupNames))
	for i, name := range c.groupNames {
		groups[name] = m[i+1]
	}
	return groups, true
}

// matchesSpecialScheme reports whether the protocol pattern accepts any
// special scheme.
func (c *component) matchesSpecialScheme() bool {
	for _, scheme := range specialSchemes {
		if c.re.MatchString(scheme) {
			return true
		}
	}
	return false
}

// generateRegexp builds the anchored expression for parts and the ordered
// list of group names it captures.
func generateRegexp(parts []part, opts options) (string, []string) {
	segment := segmentWildcardRegexp(opts)

	var b strings.Builder
	b.WriteByte('^')
	names := []string{}

	for _, p := range parts {
		if p.typ == partFixedText {
			if p.modifier == modifierNone {
				b.WriteString(escapeRegexpString(p.value))
			} else {
				b.WriteString("(?:" + escapeRegexpString(p.value) + ")" + p.modifier.String())
			}
			continue
		}

		names = append(names, p.name)

		value := p.value
		switch p.typ {
		case partSegmentWildcard:
			value = segment
		case partFullWildcard:
			value = fullWildcardRegexp
		}

		if p.prefix == "" && p.suffix == "" {
			if p.modifier == modifierNone || p.modifier == modifierOptional {
				b.WriteString("(" + value + ")" + p.modifier.String())
			} else {
				b.WriteString("((?:" + value + ")" + p.modifier.String() + ")")
			}
			continue
		}

		prefix := escapeRegexpString(p.prefix)
		suffix := escapeRegexpString(p.suffix)

		if p.modifier == modifierNone || p.modifier == modifierOptional {
			b.WriteString("(?:" + prefix + "(" + value + ")" + suffix + ")" + p.modifier.String())
			continue
		}

		b.WriteString("(?:" + prefix + "((?:" + value + ")(?:" + suffix + prefix + "(?:" + value + "))*)" + suffix + ")")
		if p.modifier == modifierZeroOrMore {
			b.WriteByte('?')
		}
	}

	b.WriteByte('$')
	return b.String(), names
}

// generatePatternString renders parts back into normalized pattern syntax.
func generatePatternString(parts []part, opts options) string {
	segment := segmentWildcardRegexp(opts)

	var b strings.Builder
	for i, p := range parts {
		var previous, next *part
		if i > 0 {
			previous = &parts[i-1]
		}
		if i < len(parts)-1 {
			next = &parts[i+1]
		}

		if p.typ == partFixedText {
			if p.modifier == modifierNone {
				b.WriteString(escapePatternString(p.value))
			} else {
				b.WriteString("{" + escapePatternString(p.value) + "}" + p.modifier.String())
			}
			continue
		}

		customName := !isASCIIDigit(p.name[0])
		needsGrouping := p.suffix != "" || (p.prefix != "" && p.prefix != opts.prefix)

		if !needsGrouping && customName && p.typ == partSegmentWildcard && p.modifier == modifierNone &&
			next != nil && next.prefix == "" && next.suffix == "" {
			if next.typ == partFixedText {
				if next.value != "" {
					needsGrouping = isValidNameCodePoint(firstRune(next.value), false)
				}
			} else {
				needsGrouping = isASCIIDigit(next.name[0])
			}
		}

		if !needsGrouping && p.prefix == "" && previous != nil && previous.typ == partFixedText &&
			previous.value != "" && opts.prefix != "" && strings.HasSuffix(previous.value, opts.prefix) {
			needsGrouping = true
		}

		if needsGrouping {
			b.WriteByte('{')
		}
		b.WriteString(escapePatternString(p.prefix))
		if customName {
			b.WriteString(":" + p.name)
		}

		switch p.typ {
		case partRegexp:
			b.WriteString("(" + p.value + ")")
		case partSegmentWildcard:
			if !customName {
				b.WriteString("(" + segment + ")")
			}
		case partFullWildcard:
			if !customName && (previous == nil || previous.typ == partFixedText || previous.modifier != modifierNone ||
				needsGrouping || p.prefix != "") {
				b.WriteByte('*')
			} else {
				b.WriteString("(" + fullWildcardRegexp + ")")
			}
		}

		if p.typ == partSegmentWildcard && customName && p.suffix != "" && isValidNameCodePoint(firstRune(p.suffix), false) {
			b.WriteByte('\\')
		}
		b.WriteString(escapePatternString(p.suffix))

		if needsGrouping {
			b.WriteByte('}')
		}
		b.WriteString(p.modifier.String())
	}
	return b.String()
}

func firstRune(s string) rune {
	for _, r := range s {
		return r
	}
	return 0
}

func isASCIIDigit(c byte) bool {
	return '0' <= c && c <= '9'
}
