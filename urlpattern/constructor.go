package urlpattern

type constructorState int

const (
	stateInit constructorState = iota
	stateProtocol
	stateAuthority
	stateUsername
	statePassword
	stateHostname
	statePort
	statePathname
	stateSearch
	stateHash
	stateDone
)

// constructorParser splits a pattern string such as
// "https://*.example.com/users/:id?*" into per-component pattern strings.
type constructorParser struct {
	input  string
	tokens []token
	result Init
	state  constructorState

	componentStart int
	tokenIndex     int
	tokenIncrement int
	groupDepth     int
	ipv6Depth      int

	protocolMatchesSpecialScheme bool
}

func parseConstructorString(input string) (Init, error) {
	tokens, err := tokenize(input, policyLenient)
	if err != nil {
		return Init{}, err
	}
	p := &constructorParser{input: input, tokens: tokens, tokenIncrement: 1}

	for p.tokenIndex < len(p.tokens) {
		p.tokenIncrement = 1

		if p.tokens[p.tokenIndex].typ == tokenEnd {
			if p.state == stateInit {
				p.rewind()
				switch {
				case p.isHashPrefix():
					p.changeState(stateHash, 1)
				case p.isSearchPrefix():
					p.changeState(stateSearch, 1)
				default:
					p.changeState(statePathname, 0)
				}
				p.tokenIndex += p.tokenIncrement
				continue
			}
			if p.state == stateAuthority {
				p.rewindAndSetState(stateHostname)
				p.tokenIndex += p.tokenIncrement
				continue
			}
			p.changeState(stateDone, 0)
			break
		}

		if p.isGroupOpen() {
			p.groupDepth++
			p.tokenIndex += p.tokenIncrement
			continue
		}
		if p.groupDepth > 0 {
			if !p.isGroupClose() {
				p.tokenIndex += p.tokenIncrement
				continue
			}
			p.groupDepth--
		}

		if err := p.step(); err != nil {
			return Init{}, err
		}
		p.tokenIndex += p.tokenIncrement
	}

	if p.result.Hostname != nil && p.result.Port == nil {
		p.result.Port = Ptr("")
	}
	return p.result, nil
}

func (p *constructorParser) step() error {
	switch p.state {
	case stateInit:
		if p.isProtocolSuffix() {
			p.rewindAndSetState(stateProtocol)
		}
	case stateProtocol:
		if !p.isProtocolSuffix() {
			return nil
		}
		if err := p.computeProtocolMatchesSpecialScheme(); err != nil {
			return err
		}
		next, skip := statePathname, 1
		if p.nextIsAuthoritySlashes() {
			next, skip = stateAuthority, 3
		} else if p.protocolMatchesSpecialScheme {
			next = stateAuthority
		}
		p.changeState(next, skip)
	case stateAuthority:
		if p.isIdentityTerminator() {
			p.rewindAndSetState(stateUsername)
		} else if p.isPathnameStart() || p.isSearchPrefix() || p.isHashPrefix() {
			p.rewindAndSetState(stateHostname)
		}
	case stateUsername:
		if p.isPasswordPrefix() {
			p.changeState(statePassword, 1)
		} else if p.isIdentityTerminator() {
			p.changeState(stateHostname, 1)
		}
	case statePassword:
		if p.isIdentityTerminator() {
			p.changeState(stateHostname, 1)
		}
	case stateHostname:
		switch {
		case p.isIPv6Open():
			p.ipv6Depth++
		case p.isIPv6Close():
			p.ipv6Depth--
		case p.isPortPrefix() && p.ipv6Depth == 0:
			p.changeState(statePort, 1)
		case p.isPathnameStart():
			p.changeState(statePathname, 0)
		case p.isSearchPrefix():
			p.changeState(stateSearch, 1)
		case p.isHashPrefix():
			p.changeState(stateHash, 1)
		}
	case statePort:
		switch {
		case p.isPathnameStart():
			p.changeState(statePathname, 0)
		case p.isSearchPrefix():
			p.changeState(stateSearch, 1)
		case p.isHashPrefix():
			p.changeState(stateHash, 1)
		}
	case statePathname:
		if p.isSearchPrefix() {
			p.changeState(stateSearch, 1)
		} else if p.isHashPrefix() {
			p.changeState(stateHash, 1)
		}
	case stateSearch:
		if p.isHashPrefix() {
			p.changeState(stateHash, 1)
		}
	}
	return nil
}

// field returns the Init slot that holds the component for state.
func (p *constructorParser) field(state constructorState) **string {
	switch state {
	case stateProtocol:
		return &p.result.Protocol
	case stateUsername:
		return &p.result.Username
	case statePassword:
		return &p.result.Password
	case stateHostname:
		return &p.result.Hostname
	case statePort:
		return &p.result.Port
	case statePathname:
		return &p.result.Pathname
	case stateSearch:
		return &p.result.Search
	case stateHash:
		return &p.result.Hash
	}
	return nil
}

func (p *constructorParser) changeState(state constructorState, skip int) {
	if f := p.field(p.state); f != nil {
		v := p.makeComponentString()
		*f = &v
	}

	if p.state != stateInit && state != stateDone {
		if p.state <= statePassword && state >= statePort && p.result.Hostname == nil {
			p.result.Hostname = Ptr("")
		}
		if p.state <= statePort && state >= stateSearch && p.result.Pathname == nil {
			if p.protocolMatchesSpecialScheme {
				p.result.Pathname = Ptr("/")
			} else {
				p.result.Pathname = Ptr("")
			}
		}
		if p.state <= statePathname && state == stateHash && p.result.Search == nil {
			p.result.Search = Ptr("")
		}
	}

	p.state = state
	p.tokenIndex += skip
	p.componentStart = p.tokenIndex
	p.tokenIncrement = 0
}

func (p *constructorParser) rewind() {
	p.tokenIndex = p.componentStart
	p.tokenIncrement = 0
}

func (p *constructorParser) rewindAndSetState(state constructorState) {
	p.rewind()
	p.state = state
}

func (p *constructorParser) safeToken(i int) token {
	if i < len(p.tokens) {
		return p.tokens[i]
	}
	return p.tokens[len(p.tokens)-1]
}

// isNonSpecialPatternChar reports whether the token at i is the literal
// character value rather than pattern syntax.
func (p *constructorParser) isNonSpecialPatternChar(i int, value string) bool {
	t := p.safeToken(i)
	if t.value != value {
		return false
	}
	return t.typ == tokenChar || t.typ == tokenEscapedChar || t.typ == tokenInvalidChar
}

func (p *constructorParser) isProtocolSuffix() bool {
	return p.isNonSpecialPatternChar(p.tokenIndex, ":")
}

func (p *constructorParser) nextIsAuthoritySlashes() bool {
	return p.isNonSpecialPatternChar(p.tokenIndex+1, "/") && p.isNonSpecialPatternChar(p.tokenIndex+2, "/")
}

func (p *constructorParser) isIdentityTerminator() bool {
	return p.isNonSpecialPatternChar(p.tokenIndex, "@")
}

func (p *constructorParser) isPasswordPrefix() bool {
	return p.isNonSpecialPatternChar(p.tokenIndex, ":")
}

func (p *constructorParser) isPortPrefix() bool {
	return p.isNonSpecialPatternChar(p.tokenIndex, ":")
}

func (p *constructorParser) isPathnameStart() bool {
	return p.isNonSpecialPatternChar(p.tokenIndex, "/")
}

// isSearchPrefix treats a '?' modifier as the start of the search unless
// it follows something it could modify.
func (p *constructorParser) isSearchPrefix() bool {
	if p.isNonSpecialPatternChar(p.tokenIndex, "?") {
		return true
	}
	if p.tokens[p.tokenIndex].value != "?" {
		return false
	}
	if p.tokenIndex == 0 {
		return true
	}
	switch p.safeToken(p.tokenIndex - 1).typ {
	case tokenName, tokenRegexp, tokenClose, tokenAsterisk:
		return false
	}
	return true
}

func (p *constructorParser) isHashPrefix() bool {
	return p.isNonSpecialPatternChar(p.tokenIndex, "#")
}

func (p *constructorParser) isGroupOpen() bool {
	return p.tokens[p.tokenIndex].typ == tokenOpen
}

func (p *constructorParser) isGroupClose() bool {
	return p.tokens[p.tokenIndex].typ == tokenClose
}

func (p *constructorParser) isIPv6Open() bool {
	return p.isNonSpecialPatternChar(p.tokenIndex, "[")
}

func (p *constructorParser) isIPv6Close() bool {
	return p.isNonSpecialPatternChar(p.tokenIndex, "]")
}

func (p *constructorParser) makeComponentString() string {
	end := p.tokens[p.tokenIndex].index
	start := p.safeToken(p.componentStart).index
	return p.input[start:end]
}

func (p *constructorParser) computeProtocolMatchesSpecialScheme() error {
	c, err := compileComponent("protocol", p.makeComponentString(), canonicalizeProtocol, defaultOptions)
	if err != nil {
		return err
	}
	p.protocolMatchesSpecialScheme = c.matchesSpecialScheme()
	return nil
}
