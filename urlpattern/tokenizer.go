package urlpattern

import (
	"unicode"
	"unicode/utf8"
)

type tokenType int

const (
	tokenOpen tokenType = iota
	tokenClose
	tokenRegexp
	tokenName
	tokenChar
	tokenEscapedChar
	tokenOtherModifier
	tokenAsterisk
	tokenEnd
	tokenInvalidChar
)

type token struct {
	typ   tokenType
	index int
	value string
}

// tokenizePolicy decides what happens on a syntax error: strict fails,
// lenient emits an invalid-char token and carries on.
type tokenizePolicy int

const (
	policyStrict tokenizePolicy = iota
	policyLenient
)

type tokenizer struct {
	input  string
	policy tokenizePolicy
	tokens []token

	index     int
	nextIndex int
	codePoint rune
}

// tokenize splits a pattern string into tokens. Indices are byte offsets
// into input.
func tokenize(input string, policy tokenizePolicy) ([]token, error) {
	t := &tokenizer{input: input, policy: policy}

	for t.index < len(t.input) {
		t.seekAndGetNextCodePoint(t.index)

		switch t.codePoint {
		case '*':
			t.addTokenWithDefaults(tokenAsterisk)
			continue
		case '+', '?':
			t.addTokenWithDefaults(tokenOtherModifier)
			continue
		case '\\':
			if t.index == len(t.input)-1 {
				if err := t.processError(t.nextIndex, t.index, "trailing backslash"); err != nil {
					return nil, err
				}
				continue
			}
			escapedIndex := t.nextIndex
			t.getNextCodePoint()
			t.addToken(tokenEscapedChar, t.nextIndex, escapedIndex, t.nextIndex-escapedIndex)
			continue
		case '{':
			t.addTokenWithDefaults(tokenOpen)
			continue
		case '}':
			t.addTokenWithDefaults(tokenClose)
			continue
		case ':':
			if err := t.consumeName(); err != nil {
				return nil, err
			}
			continue
		case '(':
			if err := t.consumeRegexp(); err != nil {
				return nil, err
			}
			continue
		}
		t.addTokenWithDefaults(tokenChar)
	}

	t.addToken(tokenEnd, t.index, t.index, 0)
	return t.tokens, nil
}

func (t *tokenizer) consumeName() error {
	namePosition := t.nextIndex
	nameStart := namePosition
	for namePosition < len(t.input) {
		t.seekAndGetNextCodePoint(namePosition)
		if !isValidNameCodePoint(t.codePoint, namePosition == nameStart) {
			break
		}
		namePosition = t.nextIndex
	}
	if namePosition <= nameStart {
		return t.processError(nameStart, t.index, "missing parameter name")
	}
	t.addToken(tokenName, namePosition, nameStart, namePosition-nameStart)
	return nil
}

func (t *tokenizer) consumeRegexp() error {
	depth := 1
	regexpPosition := t.nextIndex
	regexpStart := regexpPosition
	failed := false

	for regexpPosition < len(t.input) {
		t.seekAndGetNextCodePoint(regexpPosition)

		if t.codePoint >= utf8.RuneSelf {
			if err := t.processError(regexpStart, t.index, "non-ASCII character in regexp group"); err != nil {
				return err
			}
			failed = true
			break
		}
		if regexpPosition == regexpStart && t.codePoint == '?' {
			if err := t.processError(regexpStart, t.index, "regexp group starts with '?'"); err != nil {
				return err
			}
			failed = true
			break
		}
		if t.codePoint == '\\' {
			if regexpPosition == len(t.input)-1 {
				if err := t.processError(regexpStart, t.index, "trailing backslash in regexp group"); err != nil {
					return err
				}
				failed = true
				break
			}
			t.getNextCodePoint()
			if t.codePoint >= utf8.RuneSelf {
				if err := t.processError(regexpStart, t.index, "non-ASCII character in regexp group"); err != nil {
					return err
				}
				failed = true
				break
			}
			regexpPosition = t.nextIndex
			continue
		}
		if t.codePoint == ')' {
			depth--
			if depth == 0 {
				regexpPosition = t.nextIndex
				break
			}
		} else if t.codePoint == '(' {
			depth++
			if regexpPosition == len(t.input)-1 {
				if err := t.processError(regexpStart, t.index, "unterminated regexp group"); err != nil {
					return err
				}
				failed = true
				break
			}
			temporaryPosition := t.nextIndex
			t.getNextCodePoint()
			if t.codePoint != '?' {
				if err := t.processError(regexpStart, t.index, "capturing group inside regexp group"); err != nil {
					return err
				}
				failed = true
				break
			}
			t.nextIndex = temporaryPosition
		}
		regexpPosition = t.nextIndex
	}

	if failed {
		return nil
	}
	if depth != 0 {
		return t.processError(regexpStart, t.index, "unbalanced regexp group")
	}
	regexpLength := regexpPosition - regexpStart - 1
	if regexpLength == 0 {
		return t.processError(regexpStart, t.index, "empty regexp group")
	}
	t.addToken(tokenRegexp, regexpPosition, regexpStart, regexpLength)
	return nil
}

func (t *tokenizer) getNextCodePoint() {
	r, size := utf8.DecodeRuneInString(t.input[t.nextIndex:])
	t.codePoint = r
	t.nextIndex += size
}

func (t *tokenizer) seekAndGetNextCodePoint(index int) {
	t.nextIndex = index
	t.getNextCodePoint()
}

func (t *tokenizer) addToken(typ tokenType, nextPosition, valuePosition, valueLength int) {
	t.tokens = append(t.tokens, token{
		typ:   typ,
		index: t.index,
		value: t.input[valuePosition : valuePosition+valueLength],
	})
	t.index = nextPosition
}

func (t *tokenizer) addTokenWithDefaults(typ tokenType) {
	t.addToken(typ, t.nextIndex, t.index, t.nextIndex-t.index)
}

func (t *tokenizer) processError(nextPosition, valuePosition int, reason string) error {
	if t.policy == policyStrict {
		return patternFailure("%s at offset %d", reason, valuePosition)
	}
	t.addToken(tokenInvalidChar, nextPosition, valuePosition, nextPosition-valuePosition)
	return nil
}

// isValidNameCodePoint reports whether r may appear in a group name.
func isValidNameCodePoint(r rune, first bool) bool {
	if r == '$' || r == '_' {
		return true
	}
	isStart := unicode.IsLetter(r) || unicode.Is(unicode.Nl, r) || unicode.Is(unicode.Other_ID_Start, r)
	if first {
		return isStart
	}
	if r == '\u200C' || r == '\u200D' {
		return true
	}
	return isStart || unicode.In(r, unicode.Mn, unicode.Mc, unicode.Nd, unicode.Pc, unicode.Other_ID_Continue)
}
