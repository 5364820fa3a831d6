package urlpattern

import (
	"fmt"
	"strings"

	"github.com/vitalvas/urlkit/weburl"
)

const (
	protocolComponent = iota
	usernameComponent
	passwordComponent
	hostnameComponent
	portComponent
	pathnameComponent
	searchComponent
	hashComponent
	numComponents
)

var componentNames = [numComponents]string{
	"protocol", "username", "password", "hostname", "port", "pathname", "search", "hash",
}

// URLPattern is a compiled pattern over the eight URL components. It is
// immutable and safe for concurrent use.
type URLPattern struct {
	components      [numComponents]*component
	hasRegexpGroups bool
}

// ComponentResult holds the input of one component and the groups its
// pattern captured. Optional groups that did not match map to "".
type ComponentResult struct {
	Input  string            `json:"input" yaml:"input"`
	Groups map[string]string `json:"groups" yaml:"groups"`
}

// Result is a successful match.
type Result struct {
	// Inputs echoes the string input and base URL given to Exec. It is nil
	// for ExecInit.
	Inputs []string `json:"inputs,omitempty" yaml:"inputs,omitempty"`

	Protocol ComponentResult `json:"protocol" yaml:"protocol"`
	Username ComponentResult `json:"username" yaml:"username"`
	Password ComponentResult `json:"password" yaml:"password"`
	Hostname ComponentResult `json:"hostname" yaml:"hostname"`
	Port     ComponentResult `json:"port" yaml:"port"`
	Pathname ComponentResult `json:"pathname" yaml:"pathname"`
	Search   ComponentResult `json:"search" yaml:"search"`
	Hash     ComponentResult `json:"hash" yaml:"hash"`
}

func (r *Result) component(i int) *ComponentResult {
	return [numComponents]*ComponentResult{
		&r.Protocol, &r.Username, &r.Password, &r.Hostname,
		&r.Port, &r.Pathname, &r.Search, &r.Hash,
	}[i]
}

// New compiles a pattern from its components. Components left nil match
// anything unless they are inherited from init.BaseURL.
func New(init Init, opts ...Option) (*URLPattern, error) {
	cfg := config{}
	for _, opt := range opts {
		opt(&cfg)
	}

	processed, err := processInit(init, initPattern)
	if err != nil {
		return nil, fmt.Errorf("urlpattern: %w", err)
	}

	values := [numComponents]*string{
		processed.Protocol, processed.Username, processed.Password, processed.Hostname,
		processed.Port, processed.Pathname, processed.Search, processed.Hash,
	}
	var patterns [numComponents]string
	for i, v := range values {
		if v == nil {
			patterns[i] = "*"
		} else {
			patterns[i] = *v
		}
	}

	if port, ok := defaultPorts[patterns[protocolComponent]]; ok && patterns[portComponent] == port {
		patterns[portComponent] = ""
	}

	p := &URLPattern{}
	compile := func(i int, encode encodingCallback, o options) error {
		c, err := compileComponent(componentNames[i], patterns[i], encode, o)
		if err != nil {
			return err
		}
		p.components[i] = c
		p.hasRegexpGroups = p.hasRegexpGroups || c.hasRegexpGroups
		return nil
	}

	hostnameEncode := canonicalizeHostname
	if hostnamePatternIsIPv6(patterns[hostnameComponent]) {
		hostnameEncode = canonicalizeIPv6Hostname
	}
	portEncode := func(s string) (string, error) {
		return canonicalizePort(s, "")
	}

	steps := []struct {
		index  int
		encode encodingCallback
		opts   options
	}{
		{protocolComponent, canonicalizeProtocol, defaultOptions},
		{usernameComponent, canonicalizeUsername, defaultOptions},
		{passwordComponent, canonicalizePassword, defaultOptions},
		{hostnameComponent, hostnameEncode, hostnameOptions},
		{portComponent, portEncode, defaultOptions},
	}
	for _, s := range steps {
		if err := compile(s.index, s.encode, s.opts); err != nil {
			return nil, err
		}
	}

	compileOpts := defaultOptions
	compileOpts.ignoreCase = cfg.ignoreCase

	if p.components[protocolComponent].matchesSpecialScheme() {
		o := pathnameOptions
		o.ignoreCase = cfg.ignoreCase
		err = compile(pathnameComponent, canonicalizePathname, o)
	} else {
		err = compile(pathnameComponent, canonicalizeOpaquePathname, compileOpts)
	}
	if err != nil {
		return nil, err
	}
	if err := compile(searchComponent, canonicalizeSearch, compileOpts); err != nil {
		return nil, err
	}
	if err := compile(hashComponent, canonicalizeHash, compileOpts); err != nil {
		return nil, err
	}
	return p, nil
}

// Parse compiles a pattern string such as "https://*.example.com/:id". A
// relative pattern string needs baseURL.
func Parse(pattern, baseURL string, opts ...Option) (*URLPattern, error) {
	init, err := parseConstructorString(pattern)
	if err != nil {
		return nil, err
	}
	if baseURL == "" && init.Protocol == nil {
		return nil, ErrNoBaseURL
	}
	init.BaseURL = baseURL
	return New(init, opts...)
}

// MustParse is like Parse but panics if the pattern cannot be compiled.
func MustParse(pattern, baseURL string, opts ...Option) *URLPattern {
	p, err := Parse(pattern, baseURL, opts...)
	if err != nil {
		panic(err)
	}
	return p
}

func (p *URLPattern) Protocol() string { return p.components[protocolComponent].pattern }
func (p *URLPattern) Username() string { return p.components[usernameComponent].pattern }
func (p *URLPattern) Password() string { return p.components[passwordComponent].pattern }
func (p *URLPattern) Hostname() string { return p.components[hostnameComponent].pattern }
func (p *URLPattern) Port() string     { return p.components[portComponent].pattern }
func (p *URLPattern) Pathname() string { return p.components[pathnameComponent].pattern }
func (p *URLPattern) Search() string   { return p.components[searchComponent].pattern }
func (p *URLPattern) Hash() string     { return p.components[hashComponent].pattern }

// HasRegExpGroups reports whether any component uses a custom regexp group.
func (p *URLPattern) HasRegExpGroups() bool {
	return p.hasRegexpGroups
}

// Test reports whether input, resolved against baseURL when it is not
// empty, matches the pattern.
func (p *URLPattern) Test(input, baseURL string) bool {
	return p.Exec(input, baseURL) != nil
}

// Exec matches input, resolved against baseURL when it is not empty, and
// returns the captured groups. It returns nil when input is not a valid
// URL or does not match.
func (p *URLPattern) Exec(input, baseURL string) *Result {
	var (
		u   *weburl.URL
		err error
	)
	inputs := []string{input}
	if baseURL != "" {
		u, err = weburl.ParseWithBase(input, baseURL)
		inputs = append(inputs, baseURL)
	} else {
		u, err = weburl.Parse(input)
	}
	if err != nil {
		return nil
	}

	values := [numComponents]string{
		strings.TrimSuffix(u.Protocol(), ":"),
		u.Username(),
		u.Password(),
		u.Hostname(),
		u.Port(),
		u.Pathname(),
		strings.TrimPrefix(u.Search(), "?"),
		strings.TrimPrefix(u.Hash(), "#"),
	}
	r := p.match(values)
	if r != nil {
		r.Inputs = inputs
	}
	return r
}

// TestInit reports whether the URL described by init matches the pattern.
func (p *URLPattern) TestInit(init Init) bool {
	return p.ExecInit(init) != nil
}

// ExecInit matches the URL described by init component by component.
func (p *URLPattern) ExecInit(init Init) *Result {
	processed, err := processInit(init, initURL)
	if err != nil {
		return nil
	}
	values := [numComponents]string{
		deref(processed.Protocol), deref(processed.Username), deref(processed.Password), deref(processed.Hostname),
		deref(processed.Port), deref(processed.Pathname), deref(processed.Search), deref(processed.Hash),
	}
	return p.match(values)
}

func (p *URLPattern) match(values [numComponents]string) *Result {
	r := &Result{}
	for i, c := range p.components {
		groups, ok := c.match(values[i])
		if !ok {
			return nil
		}
		*r.component(i) = ComponentResult{Input: values[i], Groups: groups}
	}
	return r
}
