// Package mux implements a request router that matches incoming HTTP
// requests against URL patterns and dispatches them to handlers.
//
// Every route owns a urlpattern.URLPattern. The router rebuilds the
// absolute request URL (scheme from the request line or TLS state, host
// from the Host header) and executes each route's pattern against it in
// registration order. The first route whose pattern and matchers accept
// the request wins.
//
// # Router
//
//	r := mux.NewRouter()
//	r.HandleFunc("/articles/:category/:id(\\d+)", ArticleHandler)
//	r.HandleFunc("https://:tenant.example.com/admin/*", AdminHandler)
//	http.Handle("/", r)
//
// A pattern starting with '/' constrains only the pathname. Any other
// pattern string is parsed as a full URL pattern.
//
// # Variables
//
// Named groups of every URL component are merged into the request vars.
// A pathname group wins over a group of the same name in another
// component:
//
//	vars := mux.Vars(r)
//	category := vars["category"]
//
// The complete match, including per-component inputs, is available from
// MatchResult.
//
// # Pattern Macros
//
// A named group may carry a macro name instead of a regular expression:
//
//	r.HandleFunc("/users/:id(uuid)", handler)
//	r.HandleFunc("/articles/:page(int)", handler)
//
// Available macros: uuid, int, float, slug, alpha, alphanum, date, hex and
// domain. The domain macro additionally enforces a 253 byte limit.
//
// # Matchers
//
// Routes can be narrowed further:
//
//	r.HandleFunc("/products", handler).
//		Host(":shop.example.com").
//		Methods(http.MethodGet).
//		Schemes("https").
//		Headers("X-Requested-With", "XMLHttpRequest").
//		Queries("filter", "")
//
// Queries are decoded as application/x-www-form-urlencoded, the way
// URLSearchParams decodes them.
//
// When a URL matches but the method does not, the router replies 405 with
// an Allow header listing the accepted methods in sorted order.
//
// # URL Building
//
// Named routes build URLs from their variables:
//
//	r.HandleFunc("/articles/:category/:id", handler).
//		Host(":sub.example.com").
//		Name("article")
//	u, err := r.Get("article").URL("sub", "news", "category", "tech", "id", "42")
//	// "http://news.example.com/articles/tech/42"
//
// Only patterns made of literal text and named groups can be built.
//
// # Middleware
//
//	r.Use(func(next http.Handler) http.Handler {
//		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
//			log.Println(req.RequestURI)
//			next.ServeHTTP(w, req)
//		})
//	})
//
// Middleware runs only for matched routes.
package mux
