package mux

import (
	"net/http"
	"strings"
)

// CORSMethodMiddleware sets the Access-Control-Allow-Methods response
// header to every method registered for routes whose pattern matches the
// request URL.
func CORSMethodMiddleware(r *Router) MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			if methods := routeMethods(r, req); len(methods) > 0 {
				w.Header().Set("Access-Control-Allow-Methods", strings.Join(methods, ","))
			}
			next.ServeHTTP(w, req)
		})
	}
}

// routeMethods returns the methods of every route matching the request
// URL, in registration order and without duplicates.
func routeMethods(router *Router, req *http.Request) []string {
	var all []string
	match := &RouteMatch{}

	for _, route := range router.routes {
		methods, err := route.GetMethods()
		if err != nil {
			continue
		}
		for _, method := range methods {
			if matchInArray(all, method) {
				continue
			}
			testReq := req.Clone(req.Context())
			testReq.Method = method
			if route.Match(testReq, match) {
				all = append(all, method)
			}
		}
	}
	return all
}
