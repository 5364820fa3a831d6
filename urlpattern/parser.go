package urlpattern

import "strconv"

type partType int

const (
	partFixedText partType = iota
	partRegexp
	partSegmentWildcard
	partFullWildcard
)

type partModifier int

const (
	modifierNone partModifier = iota
	modifierOptional
	modifierZeroOrMore
	modifierOneOrMore
)

func (m partModifier) String() string {
	switch m {
	case modifierOptional:
		return "?"
	case modifierZeroOrMore:
		return "*"
	case modifierOneOrMore:
		return "+"
	}
	return ""
}

// part is one element of a parsed pattern: literal text or a group with
// optional prefix and suffix.
type part struct {
	typ      partType
	value    string
	modifier partModifier
	name     string
	prefix   string
	suffix   string
}

const fullWildcardRegexp = ".*"

// encodingCallback canonicalizes literal text of one component.
type encodingCallback func(string) (string, error)

type patternParser struct {
	tokens   []token
	encode   encodingCallback
	segment  string
	prefixCP string

	parts           []part
	pendingFixed    string
	index           int
	nextNumericName int
}

// parsePatternString turns a component pattern into its list of parts.
func parsePatternString(input string, opts options, encode encodingCallback) ([]part, error) {
	tokens, err := tokenize(input, policyStrict)
	if err != nil {
		return nil, err
	}

	p := &patternParser{
		tokens:   tokens,
		encode:   encode,
		segment:  segmentWildcardRegexp(opts),
		prefixCP: opts.prefix,
	}

	for p.index < len(p.tokens) {
		charToken := p.tryConsume(tokenChar)
		nameToken := p.tryConsume(tokenName)
		regexpOrWildcard := p.tryConsumeRegexpOrWildcard(nameToken)

		if nameToken != nil || regexpOrWildcard != nil {
			prefix := ""
			if charToken != nil {
				prefix = charToken.value
			}
			if prefix != "" && prefix != p.prefixCP {
				p.pendingFixed += prefix
				prefix = ""
			}
			if err := p.flushPendingFixed(); err != nil {
				return nil, err
			}
			modifierToken := p.tryConsumeModifier()
			if err := p.addPart(prefix, nameToken, regexpOrWildcard, "", modifierToken); err != nil {
				return nil, err
			}
			continue
		}

		fixedToken := charToken
		if fixedToken == nil {
			fixedToken = p.tryConsume(tokenEscapedChar)
		}
		if fixedToken != nil {
			p.pendingFixed += fixedToken.value
			continue
		}

		if p.tryConsume(tokenOpen) != nil {
			prefix := p.consumeText()
			nameToken = p.tryConsume(tokenName)
			regexpOrWildcard = p.tryConsumeRegexpOrWildcard(nameToken)
			suffix := p.consumeText()
			if err := p.consumeRequired(tokenClose); err != nil {
				return nil, err
			}
			modifierToken := p.tryConsumeModifier()
			if err := p.addPart(prefix, nameToken, regexpOrWildcard, suffix, modifierToken); err != nil {
				return nil, err
			}
			continue
		}

		if err := p.flushPendingFixed(); err != nil {
			return nil, err
		}
		if err := p.consumeRequired(tokenEnd); err != nil {
			return nil, err
		}
	}

	return p.parts, nil
}

func (p *patternParser) tryConsume(typ tokenType) *token {
	if p.index >= len(p.tokens) || p.tokens[p.index].typ != typ {
		return nil
	}
	t := &p.tokens[p.index]
	p.index++
	return t
}

func (p *patternParser) tryConsumeModifier() *token {
	if t := p.tryConsume(tokenOtherModifier); t != nil {
		return t
	}
	return p.tryConsume(tokenAsterisk)
}

func (p *patternParser) tryConsumeRegexpOrWildcard(nameToken *token) *token {
	t := p.tryConsume(tokenRegexp)
	if nameToken == nil && t == nil {
		t = p.tryConsume(tokenAsterisk)
	}
	return t
}

func (p *patternParser) consumeRequired(typ tokenType) error {
	if p.tryConsume(typ) != nil {
		return nil
	}
	if p.index < len(p.tokens) {
		t := p.tokens[p.index]
		return patternFailure("unexpected %q at offset %d", t.value, t.index)
	}
	return patternFailure("unexpected end of pattern")
}

func (p *patternParser) consumeText() string {
	var result string
	for {
		t := p.tryConsume(tokenChar)
		if t == nil {
			t = p.tryConsume(tokenEscapedChar)
		}
		if t == nil {
			return result
		}
		result += t.value
	}
}

func (p *patternParser) flushPendingFixed() error {
	if p.pendingFixed == "" {
		return nil
	}
	encoded, err := p.encode(p.pendingFixed)
	if err != nil {
		return err
	}
	p.pendingFixed = ""
	p.parts = append(p.parts, part{typ: partFixedText, value: encoded})
	return nil
}

func (p *patternParser) addPart(prefix string, nameToken, regexpOrWildcard *token, suffix string, modifierToken *token) error {
	modifier := modifierNone
	if modifierToken != nil {
		switch modifierToken.value {
		case "?":
			modifier = modifierOptional
		case "*":
			modifier = modifierZeroOrMore
		case "+":
			modifier = modifierOneOrMore
		}
	}

	if nameToken == nil && regexpOrWildcard == nil && modifier == modifierNone {
		p.pendingFixed += prefix
		return nil
	}

	if err := p.flushPendingFixed(); err != nil {
		return err
	}

	if nameToken == nil && regexpOrWildcard == nil {
		if prefix == "" {
			return nil
		}
		encoded, err := p.encode(prefix)
		if err != nil {
			return err
		}
		p.parts = append(p.parts, part{typ: partFixedText, value: encoded, modifier: modifier})
		return nil
	}

	regexpValue := p.segment
	if regexpOrWildcard != nil {
		if regexpOrWildcard.typ == tokenAsterisk {
			regexpValue = fullWildcardRegexp
		} else {
			regexpValue = regexpOrWildcard.value
		}
	}

	typ := partRegexp
	switch regexpValue {
	case p.segment:
		typ = partSegmentWildcard
		regexpValue = ""
	case fullWildcardRegexp:
		typ = partFullWildcard
		regexpValue = ""
	}

	var name string
	switch {
	case nameToken != nil:
		name = nameToken.value
	case regexpOrWildcard != nil:
		name = strconv.Itoa(p.nextNumericName)
		p.nextNumericName++
	}
	for _, existing := range p.parts {
		if existing.name == name {
			return patternFailure("duplicate group name %q", name)
		}
	}

	encodedPrefix, err := p.encode(prefix)
	if err != nil {
		return err
	}
	encodedSuffix, err := p.encode(suffix)
	if err != nil {
		return err
	}

	p.parts = append(p.parts, part{
		typ:      typ,
		value:    regexpValue,
		modifier: modifier,
		name:     name,
		prefix:   encodedPrefix,
		suffix:   encodedSuffix,
	})
	return nil
}
