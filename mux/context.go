package mux

import (
	"context"
	"errors"
	"net/http"

	"github.com/vitalvas/urlkit/urlpattern"
	"github.com/vitalvas/urlkit/weburl"
)

// routeContextKey is an unexported type for the single context key.
type routeContextKey struct{}

// ctxKey is the single context key used to store the route, vars and
// match result.
var ctxKey = routeContextKey{}

// routeContext holds the matched route and extracted variables.
type routeContext struct {
	route  *Route
	vars   map[string]string
	result *urlpattern.Result
}

// Vars returns the route variables for the current request, if any.
// Named groups of every URL component are merged; a pathname group wins
// over a hostname group of the same name.
func Vars(r *http.Request) map[string]string {
	if rc, ok := r.Context().Value(ctxKey).(*routeContext); ok {
		return rc.vars
	}
	return nil
}

// VarGet returns the value of a single route variable by name and a boolean
// indicating whether the variable exists.
func VarGet(r *http.Request, name string) (string, bool) {
	if rc, ok := r.Context().Value(ctxKey).(*routeContext); ok && rc.vars != nil {
		val, exists := rc.vars[name]
		return val, exists
	}
	return "", false
}

// CurrentRoute returns the matched route for the current request, if any.
// This only works when called inside the handler of the matched route
// because the matched route is stored in the request context.
func CurrentRoute(r *http.Request) *Route {
	if rc, ok := r.Context().Value(ctxKey).(*routeContext); ok {
		return rc.route
	}
	return nil
}

// MatchResult returns the full pattern match for the current request,
// including per-component inputs and groups.
func MatchResult(r *http.Request) *urlpattern.Result {
	if rc, ok := r.Context().Value(ctxKey).(*routeContext); ok {
		return rc.result
	}
	return nil
}

// SetURLVars sets the URL variables for the given request, returning the
// modified request. This is intended for testing route handlers.
func SetURLVars(r *http.Request, val map[string]string) *http.Request {
	rc := &routeContext{vars: val}
	if prev, ok := r.Context().Value(ctxKey).(*routeContext); ok {
		rc.route = prev.route
		rc.result = prev.result
	}
	return r.WithContext(context.WithValue(r.Context(), ctxKey, rc))
}

func setRouteContext(r *http.Request, match *RouteMatch) *http.Request {
	rc := &routeContext{route: match.Route, vars: match.Vars, result: match.Result}
	return r.WithContext(context.WithValue(r.Context(), ctxKey, rc))
}

// RouteMatch stores information about a matched route.
type RouteMatch struct {
	// Route is the matched route, if any.
	Route *Route

	// Handler is the handler to use for the matched route.
	Handler http.Handler

	// Vars contains the named groups captured by the route pattern.
	Vars map[string]string

	// Result is the pattern match the vars were taken from.
	Result *urlpattern.Result

	// MatchErr is set to ErrMethodMismatch when the request method
	// does not match but the URL does. This triggers a 405 response
	// per RFC 9110 Section 15.5.6.
	MatchErr error

	// methodNotAllowed signals that the router should respond with
	// 405 Method Not Allowed instead of 404 Not Found.
	methodNotAllowed bool

	// href and params cache the reconstructed request URL and its query
	// across the routes tried for one request.
	href   string
	params *weburl.SearchParams
}

// getURL returns the absolute request URL, caching it for reuse.
func (m *RouteMatch) getURL(req *http.Request) string {
	if m.href == "" {
		m.href = requestURL(req)
	}
	return m.href
}

// getQuery returns the parsed query string, caching it for reuse.
func (m *RouteMatch) getQuery(req *http.Request) *weburl.SearchParams {
	if m.params == nil {
		m.params = weburl.NewSearchParams(req.URL.RawQuery)
	}
	return m.params
}

// MatcherFunc is the function signature used by custom matchers.
type MatcherFunc func(*http.Request, *RouteMatch) bool

// Match implements the matcher interface.
func (m MatcherFunc) Match(r *http.Request, match *RouteMatch) bool {
	return m(r, match)
}

// MiddlewareFunc is a function which receives an http.Handler and returns
// another http.Handler. It can be used to wrap handlers with additional
// behavior such as logging, authentication, etc.
type MiddlewareFunc func(http.Handler) http.Handler

// Middleware allows MiddlewareFunc to implement the Middleware interface.
func (mw MiddlewareFunc) Middleware(handler http.Handler) http.Handler {
	return mw(handler)
}

// BuildVarsFunc is the function signature used by custom build vars functions.
type BuildVarsFunc func(map[string]string) map[string]string

// WalkFunc is the type of the function called for each route visited by Walk.
type WalkFunc func(route *Route, router *Router) error

// ErrMethodMismatch is returned when the method in the request does not match
// the method defined against the route.
var ErrMethodMismatch = errors.New("method is not allowed")

// ErrNotFound is returned when no route match is found.
var ErrNotFound = errors.New("no matching route was found")

// SkipRoute is returned from a WalkFunc to skip the remaining routes
// without reporting an error.
var SkipRoute = errors.New("skip remaining routes") //nolint:revive,staticcheck // sentinel, not an error condition
