package weburl

import (
	"fmt"
	"strings"
)

// Setter names the URL component a Reparse call replaces.
type Setter int

const (
	SetHash Setter = iota
	SetHost
	SetHostname
	SetPassword
	SetPathname
	SetPort
	SetProtocol
	SetSearch
	SetUsername
)

var setterNames = [...]string{
	SetHash:     "hash",
	SetHost:     "host",
	SetHostname: "hostname",
	SetPassword: "password",
	SetPathname: "pathname",
	SetPort:     "port",
	SetProtocol: "protocol",
	SetSearch:   "search",
	SetUsername: "username",
}

func (s Setter) String() string {
	if s < 0 || int(s) >= len(setterNames) {
		return fmt.Sprintf("Setter(%d)", int(s))
	}
	return setterNames[s]
}

// ParseSetter returns the Setter for a component name such as "hostname".
func ParseSetter(name string) (Setter, error) {
	for i, n := range setterNames {
		if n == name {
			return Setter(i), nil
		}
	}
	return 0, fmt.Errorf("weburl: unknown URL component %q", name)
}

// Reparse replaces one component of c with value and parses the resulting
// string from scratch. When the new value is rejected, or the rebuilt
// string does not parse, c is returned unchanged together with an error
// wrapping ErrInvalidSetterValue.
func Reparse(c Canonical, kind Setter, value string) (Canonical, error) {
	p := partsOf(c)
	if err := p.set(kind, value); err != nil {
		return c, fmt.Errorf("%w: %s: %w", ErrInvalidSetterValue, kind, err)
	}

	u, err := parse(p.String(), nil)
	if err != nil {
		return c, fmt.Errorf("%w: %s: %w", ErrInvalidSetterValue, kind, err)
	}
	return u.serialize(), nil
}

// parts is the textual decomposition of a URL used to rebuild it after one
// component changes.
type parts struct {
	scheme       string
	hasAuthority bool
	username     string
	password     string
	host         string
	port         string
	path         string
	opaque       bool

	query       string
	hasQuery    bool
	fragment    string
	hasFragment bool
}

func partsOf(c Canonical) parts {
	s := c.serialization
	p := parts{
		scheme:       c.scheme(),
		hasAuthority: c.hasAuthority(),
		username:     c.username(),
		password:     c.password(),
		host:         c.hostname(),
		port:         c.portString(),
		path:         c.pathname(),
		opaque:       c.opaquePath(),
	}

	if start, ok := c.QueryStart(); ok {
		end := len(s)
		if c.hasFragment {
			end = c.fragmentStart
		}
		p.query, p.hasQuery = s[start+1:end], true
	}
	if start, ok := c.FragmentStart(); ok {
		p.fragment, p.hasFragment = s[start+1:], true
	}
	return p
}

func (p parts) String() string {
	var b strings.Builder
	b.WriteString(p.scheme)
	b.WriteByte(':')
	if p.hasAuthority {
		b.WriteString("//")
		if p.username != "" || p.password != "" {
			b.WriteString(p.username)
			if p.password != "" {
				b.WriteByte(':')
				b.WriteString(p.password)
			}
			b.WriteByte('@')
		}
		b.WriteString(p.host)
		if p.port != "" {
			b.WriteByte(':')
			b.WriteString(p.port)
		}
	} else if strings.HasPrefix(p.path, "//") {
		b.WriteString("/.")
	}
	b.WriteString(p.path)
	if p.hasQuery {
		b.WriteByte('?')
		b.WriteString(p.query)
	}
	if p.hasFragment {
		b.WriteByte('#')
		b.WriteString(p.fragment)
	}
	return b.String()
}

// cannotHaveCredentialsOrPort reports whether the URL has no place for a
// username, password, or port.
func (p *parts) cannotHaveCredentialsOrPort() bool {
	return !p.hasAuthority || p.host == "" || p.scheme == "file"
}

func (p *parts) set(kind Setter, value string) error {
	switch kind {
	case SetProtocol:
		return p.setProtocol(value)
	case SetUsername:
		if p.cannotHaveCredentialsOrPort() {
			return errNoCredentials
		}
		p.username = PercentEncode(value, UserinfoSet)
	case SetPassword:
		if p.cannotHaveCredentialsOrPort() {
			return errNoCredentials
		}
		p.password = PercentEncode(value, UserinfoSet)
	case SetHost:
		return p.setHost(value, true)
	case SetHostname:
		return p.setHost(value, false)
	case SetPort:
		return p.setPort(value)
	case SetPathname:
		return p.setPathname(value)
	case SetSearch:
		p.query, p.hasQuery = "", false
		if value != "" {
			p.query = strings.ReplaceAll(strings.TrimPrefix(value, "?"), "#", "%23")
			p.hasQuery = true
		}
	case SetHash:
		p.fragment, p.hasFragment = "", false
		if value != "" {
			p.fragment = strings.TrimPrefix(value, "#")
			p.hasFragment = true
		}
	default:
		return fmt.Errorf("unknown setter %s", kind)
	}
	return nil
}

var (
	errNoCredentials = parseFailure("URL cannot have credentials or a port")
	errOpaquePath    = parseFailure("URL has an opaque path")
)

func (p *parts) setProtocol(value string) error {
	scheme, _, _ := strings.Cut(value, ":")
	if !validScheme(scheme) {
		return parseFailure("invalid scheme")
	}
	scheme = strings.ToLower(scheme)

	if isSpecial(scheme) != isSpecial(p.scheme) {
		return parseFailure("cannot switch between special and non-special schemes")
	}
	if scheme == "file" && (p.username != "" || p.password != "" || p.port != "") {
		return parseFailure("file URLs cannot have credentials or a port")
	}
	if p.scheme == "file" && p.host == "" && scheme != "file" {
		return parseFailure("empty host")
	}
	p.scheme = scheme
	return nil
}

func (p *parts) setHost(value string, withPort bool) error {
	if p.opaque {
		return errOpaquePath
	}

	delims := "/?#"
	if isSpecial(p.scheme) {
		delims = `/?#\`
	}
	if i := strings.IndexAny(value, delims); i >= 0 {
		value = value[:i]
	}

	host, port, hasPort := splitHostPort(value)
	if hasPort && !withPort {
		return parseFailure("hostname cannot carry a port")
	}
	if strings.ContainsRune(host, '@') {
		return parseFailure("forbidden host code point")
	}
	if host == "" && (isSpecial(p.scheme) || p.username != "" || p.password != "" || p.port != "") {
		return parseFailure("empty host")
	}

	p.host = host
	p.hasAuthority = true
	if hasPort {
		if digits := leadingDigits(port); digits != "" {
			if p.scheme == "file" {
				return errNoCredentials
			}
			p.port = digits
		}
	}
	return nil
}

func (p *parts) setPort(value string) error {
	if p.cannotHaveCredentialsOrPort() {
		return errNoCredentials
	}
	if value == "" {
		p.port = ""
		return nil
	}
	digits := leadingDigits(value)
	if digits == "" {
		return parseFailure("invalid port")
	}
	p.port = digits
	return nil
}

func (p *parts) setPathname(value string) error {
	if p.opaque {
		return errOpaquePath
	}
	value = strings.NewReplacer("?", "%3F", "#", "%23").Replace(value)
	if !startsWithSlash(value, isSpecial(p.scheme)) && (value != "" || !p.hasAuthority) {
		value = "/" + value
	}
	p.path = value
	return nil
}

func leadingDigits(s string) string {
	i := 0
	for i < len(s) && isASCIIDigit(s[i]) {
		i++
	}
	return s[:i]
}
