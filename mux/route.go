package mux

import (
	"errors"
	"fmt"
	"net/http"
	"regexp"
	"strings"

	"github.com/vitalvas/urlkit/urlpattern"
	"github.com/vitalvas/urlkit/weburl"
)

// matcher is the interface implemented by route matchers.
type matcher interface {
	Match(*http.Request, *RouteMatch) bool
}

// Route stores information to match a request and build URLs.
//
// A route matches the absolute request URL against a URL pattern. The
// pattern is either given whole (Pattern with an absolute pattern string,
// or URLPattern) or assembled from per-component calls such as Path and
// Host.
type Route struct {
	router   *Router
	handler  http.Handler
	matchers []matcher

	init       urlpattern.Init
	pattern    *urlpattern.URLPattern
	whole      bool
	validators map[string]varMatcher

	name          string
	err           error
	buildVarsFunc BuildVarsFunc
	buildScheme   string
}

// Match matches this route against the request.
func (r *Route) Match(req *http.Request, match *RouteMatch) bool {
	if r.err != nil || r.pattern == nil {
		return false
	}

	var methodMismatch bool

	for _, m := range r.matchers {
		if !m.Match(req, match) {
			if _, ok := m.(methodMatcher); ok {
				methodMismatch = true
				continue
			}
			if match.MatchErr == ErrMethodMismatch {
				methodMismatch = true
				continue
			}
			return false
		}
	}

	result := r.pattern.Exec(match.getURL(req), "")
	if result == nil {
		return false
	}
	vars := collectVars(result)
	for name, v := range r.validators {
		if value := vars[name]; value != "" && !v.MatchString(value) {
			return false
		}
	}

	// If method didn't match but everything else did, record the mismatch.
	if methodMismatch {
		match.MatchErr = ErrMethodMismatch
		return false
	}

	match.Route = r
	match.Handler = r.handler
	match.MatchErr = nil
	match.Result = result
	match.Vars = vars
	if r.buildVarsFunc != nil {
		match.Vars = r.buildVarsFunc(match.Vars)
	}
	return true
}

// collectVars merges the named groups of every component. Unnamed groups
// are left out; they stay reachable through the match result.
func collectVars(result *urlpattern.Result) map[string]string {
	vars := make(map[string]string)
	components := []urlpattern.ComponentResult{
		result.Protocol, result.Username, result.Password, result.Hostname,
		result.Port, result.Search, result.Hash, result.Pathname,
	}
	for _, c := range components {
		for name, value := range c.Groups {
			if name != "" && (name[0] < '0' || name[0] > '9') {
				vars[name] = value
			}
		}
	}
	return vars
}

// --- Matchers ---

// addMatcher adds a matcher to the route.
func (r *Route) addMatcher(m matcher) *Route {
	if r.err == nil {
		r.matchers = append(r.matchers, m)
	}
	return r
}

// setComponent assigns one component pattern, expanding macros, and
// recompiles the route pattern.
func (r *Route) setComponent(field **string, tpl string) *Route {
	if r.err != nil {
		return r
	}
	if r.whole {
		r.err = errors.New("mux: route already has a full URL pattern")
		return r
	}
	expanded, validators := expandMacros(tpl)
	r.addValidators(validators)
	*field = &expanded
	return r.compile()
}

func (r *Route) addValidators(validators map[string]varMatcher) {
	for name, v := range validators {
		if r.validators == nil {
			r.validators = make(map[string]varMatcher)
		}
		r.validators[name] = v
	}
}

// compile rebuilds the route pattern from its components.
func (r *Route) compile() *Route {
	p, err := urlpattern.New(r.init, r.router.patternOptions()...)
	if err != nil {
		r.err = fmt.Errorf("mux: %w", err)
		return r
	}
	r.pattern = p
	return r
}

// Handler sets a handler for the route.
func (r *Route) Handler(handler http.Handler) *Route {
	if r.err == nil {
		r.handler = handler
	}
	return r
}

// HandlerFunc sets a handler function for the route.
func (r *Route) HandlerFunc(f func(http.ResponseWriter, *http.Request)) *Route {
	return r.Handler(http.HandlerFunc(f))
}

// GetHandler returns the handler for the route, if any.
func (r *Route) GetHandler() http.Handler {
	return r.handler
}

// Name sets the name for the route, used to build URLs.
// Returns an error if the name was already used.
func (r *Route) Name(name string) *Route {
	if r.name != "" {
		r.err = fmt.Errorf("mux: route already has name %q, can't set %q", r.name, name)
		return r
	}
	if r.err == nil {
		r.name = name
		r.router.namedRoutes[name] = r
	}
	return r
}

// GetName returns the name for the route, if any.
func (r *Route) GetName() string {
	return r.name
}

// Pattern sets the URL pattern of the route. A pattern starting with '/'
// is a pathname pattern and leaves the other components open; anything
// else is parsed as an absolute pattern string such as
// "https://:tenant.example.com/api/*".
func (r *Route) Pattern(pattern string) *Route {
	if strings.HasPrefix(pattern, "/") {
		return r.Path(pattern)
	}
	if r.err != nil {
		return r
	}

	expanded, validators := expandMacros(pattern)
	p, err := urlpattern.Parse(expanded, "", r.router.patternOptions()...)
	if err != nil {
		r.err = fmt.Errorf("mux: %w", err)
		return r
	}
	r.addValidators(validators)
	return r.URLPattern(p)
}

// URLPattern sets a compiled pattern for the route. It replaces every
// component set so far.
func (r *Route) URLPattern(p *urlpattern.URLPattern) *Route {
	if r.err == nil {
		r.pattern = p
		r.whole = true
	}
	return r
}

// Path sets the pathname pattern of the route, such as "/users/:id(int)".
func (r *Route) Path(tpl string) *Route {
	return r.setComponent(&r.init.Pathname, tpl)
}

// PathPrefix matches every pathname that starts with tpl.
func (r *Route) PathPrefix(tpl string) *Route {
	if !strings.HasSuffix(tpl, "*") {
		tpl += "*"
	}
	return r.Path(tpl)
}

// Host sets the hostname pattern of the route, such as ":sub.example.com".
func (r *Route) Host(tpl string) *Route {
	return r.setComponent(&r.init.Hostname, tpl)
}

// Schemes restricts the route to the given URL schemes.
func (r *Route) Schemes(schemes ...string) *Route {
	quoted := make([]string, len(schemes))
	for i, s := range schemes {
		quoted[i] = regexp.QuoteMeta(strings.ToLower(s))
	}
	if len(schemes) > 0 {
		r.buildScheme = strings.ToLower(schemes[0])
	}
	return r.setComponent(&r.init.Protocol, "("+strings.Join(quoted, "|")+")")
}

// Methods adds a method matcher to the route.
// Calling Methods multiple times replaces the previous method matcher.
func (r *Route) Methods(methods ...string) *Route {
	for i, m := range methods {
		methods[i] = strings.ToUpper(m)
	}
	// Remove existing method matchers to allow replacing via chained calls.
	filtered := r.matchers[:0]
	for _, m := range r.matchers {
		if _, ok := m.(methodMatcher); !ok {
			filtered = append(filtered, m)
		}
	}
	r.matchers = filtered
	return r.addMatcher(methodMatcher(methods))
}

// Headers adds a matcher for request header values.
// It accepts pairs of header names and values. The value can be empty,
// in which case the matcher will only check for the header presence.
func (r *Route) Headers(pairs ...string) *Route {
	if r.err == nil {
		m, err := mapFromPairsToString(pairs...)
		if err != nil {
			r.err = err
			return r
		}
		return r.addMatcher(headerMatcher(m))
	}
	return r
}

// HeadersRegexp adds a matcher for request header values using regexps.
func (r *Route) HeadersRegexp(pairs ...string) *Route {
	if r.err == nil {
		m, err := mapFromPairsToRegex(pairs...)
		if err != nil {
			r.err = err
			return r
		}
		return r.addMatcher(headerRegexMatcher(m))
	}
	return r
}

// Queries adds a matcher for query parameters. It accepts pairs of names
// and values; an empty value only checks for the parameter's presence.
func (r *Route) Queries(pairs ...string) *Route {
	if r.err == nil {
		m, err := mapFromPairsToString(pairs...)
		if err != nil {
			r.err = err
			return r
		}
		return r.addMatcher(queryMatcher(m))
	}
	return r
}

// MatcherFunc adds a custom matcher function to the route.
func (r *Route) MatcherFunc(f MatcherFunc) *Route {
	return r.addMatcher(f)
}

// BuildVarsFunc adds a custom variable builder function to the route.
func (r *Route) BuildVarsFunc(f BuildVarsFunc) *Route {
	if r.buildVarsFunc != nil {
		old := r.buildVarsFunc
		r.buildVarsFunc = func(m map[string]string) map[string]string {
			return f(old(m))
		}
	} else {
		r.buildVarsFunc = f
	}
	return r
}

// --- URL Building ---

// URL builds an absolute URL for the route from key/value pairs for the
// route variables. The hostname and pathname patterns must consist of
// literal text and plain named groups.
func (r *Route) URL(pairs ...string) (*weburl.URL, error) {
	if r.err != nil {
		return nil, r.err
	}
	values, err := r.prepareVars(pairs...)
	if err != nil {
		return nil, err
	}

	scheme := "http"
	if r.buildScheme != "" {
		scheme = r.buildScheme
	} else if p := r.pattern.Protocol(); p != "*" {
		if scheme, err = r.build(p, values, nil); err != nil {
			return nil, err
		}
	}
	if r.pattern.Hostname() == "*" {
		return nil, errors.New("mux: route doesn't have a host")
	}
	host, err := r.build(r.pattern.Hostname(), values, nil)
	if err != nil {
		return nil, err
	}
	if p := r.pattern.Port(); p != "" && p != "*" {
		port, err := r.build(p, values, nil)
		if err != nil {
			return nil, err
		}
		host += ":" + port
	}
	path, err := r.urlPath(values)
	if err != nil {
		return nil, err
	}
	return weburl.Parse(scheme + "://" + host + path)
}

// URLPath builds the path of the route from key/value pairs for the route
// variables. Values are percent-encoded as path segments.
func (r *Route) URLPath(pairs ...string) (string, error) {
	if r.err != nil {
		return "", r.err
	}
	values, err := r.prepareVars(pairs...)
	if err != nil {
		return "", err
	}
	return r.urlPath(values)
}

func (r *Route) urlPath(values map[string]string) (string, error) {
	if r.pattern.Pathname() == "*" {
		return "", errors.New("mux: route doesn't have a path")
	}
	return r.build(r.pattern.Pathname(), values, func(s string) string {
		return weburl.PercentEncode(s, weburl.ComponentSet)
	})
}

// prepareVars converts key/value pairs to a map and applies buildVarsFunc.
func (r *Route) prepareVars(pairs ...string) (map[string]string, error) {
	m, err := mapFromPairsToString(pairs...)
	if err != nil {
		return nil, err
	}
	if r.buildVarsFunc != nil {
		m = r.buildVarsFunc(m)
	}
	return m, nil
}

// build fills the named groups of a normalized component pattern with
// values. Wildcards, modifiers and groupings cannot be filled in and are
// rejected.
func (r *Route) build(pattern string, values map[string]string, encode func(string) string) (string, error) {
	var b strings.Builder
	for i := 0; i < len(pattern); {
		c := pattern[i]
		switch {
		case c == '\\' && i+1 < len(pattern):
			b.WriteByte(pattern[i+1])
			i += 2
		case c == ':':
			j := i + 1
			for j < len(pattern) && isNameByte(pattern[j]) {
				j++
			}
			name := pattern[i+1 : j]
			value, ok := values[name]
			if !ok {
				return "", fmt.Errorf("mux: missing route variable %q", name)
			}
			if j < len(pattern) && pattern[j] == '(' {
				end := closingParen(pattern, j)
				if end < 0 {
					return "", fmt.Errorf("mux: unbalanced group in pattern %q", pattern)
				}
				re, err := regexp.Compile("^(?:" + pattern[j+1:end] + ")$")
				if err != nil {
					return "", fmt.Errorf("mux: %w", err)
				}
				if !re.MatchString(value) {
					return "", fmt.Errorf("mux: variable %q doesn't match, expected %q", value, re.String())
				}
				j = end + 1
			}
			if v := r.validators[name]; v != nil && !v.MatchString(value) {
				return "", fmt.Errorf("mux: variable %q doesn't match, expected %q", value, v.String())
			}
			if encode != nil {
				value = encode(value)
			}
			b.WriteString(value)
			i = j
		case strings.IndexByte("*?+{}()", c) >= 0:
			return "", fmt.Errorf("mux: cannot build a URL from pattern %q", pattern)
		default:
			b.WriteByte(c)
			i++
		}
	}
	return b.String(), nil
}

func isNameByte(c byte) bool {
	return c == '_' || c == '$' || c >= 0x80 ||
		('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z') || ('0' <= c && c <= '9')
}

// closingParen returns the index of the ')' closing the '(' at open.
func closingParen(s string, open int) int {
	depth := 0
	for i := open; i < len(s); i++ {
		switch s[i] {
		case '\\':
			i++
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}

// --- Inspection ---

// GetPattern returns the compiled URL pattern of the route.
func (r *Route) GetPattern() (*urlpattern.URLPattern, error) {
	if r.err != nil {
		return nil, r.err
	}
	return r.pattern, nil
}

// GetPathTemplate returns the normalized pathname pattern of the route.
func (r *Route) GetPathTemplate() (string, error) {
	if r.err != nil {
		return "", r.err
	}
	return r.pattern.Pathname(), nil
}

// GetHostTemplate returns the normalized hostname pattern of the route.
func (r *Route) GetHostTemplate() (string, error) {
	if r.err != nil {
		return "", r.err
	}
	return r.pattern.Hostname(), nil
}

// GetMethods returns the methods the route matches against.
func (r *Route) GetMethods() ([]string, error) {
	if r.err != nil {
		return nil, r.err
	}
	for _, m := range r.matchers {
		if methods, ok := m.(methodMatcher); ok {
			return []string(methods), nil
		}
	}
	return nil, errors.New("mux: route doesn't have methods")
}

// GetError returns any error that was set on the route.
func (r *Route) GetError() error {
	return r.err
}

// --- Internal matchers ---

// methodMatcher matches the request method against a list of allowed
// methods.
type methodMatcher []string

func (m methodMatcher) Match(r *http.Request, _ *RouteMatch) bool {
	return matchInArray([]string(m), r.Method)
}

// headerMatcher matches request headers against expected values.
// Header names are case-insensitive.
type headerMatcher map[string]string

func (m headerMatcher) Match(r *http.Request, _ *RouteMatch) bool {
	return matchMapWithString(map[string]string(m), map[string][]string(r.Header), true)
}

// headerRegexMatcher matches request headers against regexp patterns.
type headerRegexMatcher map[string]*regexp.Regexp

func (m headerRegexMatcher) Match(r *http.Request, _ *RouteMatch) bool {
	return matchMapWithRegex(map[string]*regexp.Regexp(m), map[string][]string(r.Header), true)
}

// queryMatcher matches query parameters decoded the way browsers decode
// application/x-www-form-urlencoded data.
type queryMatcher map[string]string

func (m queryMatcher) Match(r *http.Request, match *RouteMatch) bool {
	params := match.getQuery(r)
	for name, want := range m {
		if !params.Has(name) {
			return false
		}
		if want != "" && !matchInArray(params.GetAll(name), want) {
			return false
		}
	}
	return true
}
