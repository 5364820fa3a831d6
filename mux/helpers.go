package mux

import (
	"fmt"
	"net/http"
	"regexp"
	"sort"
	"strings"
)

var (
	defaultNotFoundHandler         = http.NotFoundHandler()
	defaultMethodNotAllowedHandler = methodNotAllowedHandler()
)

// requestURL reconstructs the absolute URL of a request so it can be
// matched against a URL pattern. The scheme is inferred from the TLS state
// when the request line did not carry one.
func requestURL(req *http.Request) string {
	scheme := req.URL.Scheme
	if scheme == "" {
		if req.TLS != nil {
			scheme = "https"
		} else {
			scheme = "http"
		}
	}

	host := req.Host
	if host == "" {
		host = req.URL.Host
	}
	if host == "" {
		host = "localhost"
	}

	var b strings.Builder
	b.WriteString(scheme)
	b.WriteString("://")
	b.WriteString(host)

	path := req.URL.EscapedPath()
	if path == "" || path[0] != '/' {
		b.WriteByte('/')
	}
	b.WriteString(path)

	if req.URL.RawQuery != "" || req.URL.ForceQuery {
		b.WriteByte('?')
		b.WriteString(req.URL.RawQuery)
	}
	return b.String()
}

// checkPairs returns an error if the list of key/value pairs has odd length.
func checkPairs(pairs ...string) (int, error) {
	if len(pairs)%2 != 0 {
		return 0, fmt.Errorf("mux: number of parameters must be multiple of 2, got %v", pairs)
	}
	return len(pairs) / 2, nil
}

// mapFromPairsToString converts variadic string parameters to a string map.
func mapFromPairsToString(pairs ...string) (map[string]string, error) {
	length, err := checkPairs(pairs...)
	if err != nil {
		return nil, err
	}
	m := make(map[string]string, length)
	for i := 0; i < len(pairs); i += 2 {
		m[pairs[i]] = pairs[i+1]
	}
	return m, nil
}

// mapFromPairsToRegex converts variadic string parameters to a map of
// compiled regular expressions.
func mapFromPairsToRegex(pairs ...string) (map[string]*regexp.Regexp, error) {
	length, err := checkPairs(pairs...)
	if err != nil {
		return nil, err
	}
	m := make(map[string]*regexp.Regexp, length)
	for i := 0; i < len(pairs); i += 2 {
		regex, err := regexp.Compile(pairs[i+1])
		if err != nil {
			return nil, err
		}
		m[pairs[i]] = regex
	}
	return m, nil
}

// matchInArray returns true if the given string value is in the array.
func matchInArray(arr []string, value string) bool {
	for _, v := range arr {
		if v == value {
			return true
		}
	}
	return false
}

// matchMapWithString returns true if the given key/value pairs exist in a
// given map. An empty expected value only checks presence. When
// canonicalKey is true, keys are normalized as header field names.
func matchMapWithString(toCheck map[string]string, toMatch map[string][]string, canonicalKey bool) bool {
	for k, v := range toCheck {
		if canonicalKey {
			k = http.CanonicalHeaderKey(k)
		}
		values, keyExists := toMatch[k]
		if !keyExists {
			return false
		}
		if v != "" && !matchInArray(values, v) {
			return false
		}
	}
	return true
}

// matchMapWithRegex returns true if the given key/regexp pairs match a
// given map.
func matchMapWithRegex(toCheck map[string]*regexp.Regexp, toMatch map[string][]string, canonicalKey bool) bool {
	for k, v := range toCheck {
		if canonicalKey {
			k = http.CanonicalHeaderKey(k)
		}
		values, keyExists := toMatch[k]
		if !keyExists {
			return false
		}
		if !matchAnyRegexp(v, values) {
			return false
		}
	}
	return true
}

// matchAnyRegexp returns true if the regexp matches any of the given values.
func matchAnyRegexp(re *regexp.Regexp, values []string) bool {
	for _, v := range values {
		if re.MatchString(v) {
			return true
		}
	}
	return false
}

// allowedMethods returns the HTTP methods that match the request URL
// but not the request method. Used to populate the Allow header field
// on 405 responses, sorted alphabetically.
func allowedMethods(router *Router, req *http.Request) []string {
	methods := []string{
		http.MethodGet, http.MethodHead, http.MethodPost,
		http.MethodPut, http.MethodPatch, http.MethodDelete,
		http.MethodOptions,
	}
	var allowed []string
	for _, method := range methods {
		if method == req.Method {
			continue
		}
		testReq := req.Clone(req.Context())
		testReq.Method = method
		if router.Match(testReq, &RouteMatch{}) {
			allowed = append(allowed, method)
		}
	}
	sort.Strings(allowed)
	return allowed
}

// methodNotAllowed replies to the request with an HTTP 405 method not allowed.
// The Allow header is set by Router.ServeHTTP before this handler runs.
func methodNotAllowed(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusMethodNotAllowed)
}

// methodNotAllowedHandler returns a HandlerFunc that replies with 405.
func methodNotAllowedHandler() http.Handler {
	return http.HandlerFunc(methodNotAllowed)
}
