// Package muxhandlers provides HTTP middleware for the mux router.
//
// # Forwarded Middleware
//
// ForwardedMiddleware rewrites the request scheme and host from
// X-Forwarded-Proto, X-Forwarded-Host and, optionally, the RFC 7239
// Forwarded header, so URL patterns see the URL the client used. Headers
// are honoured only for peers in TrustedProxies (DefaultTrustedProxies when
// empty). Because router middleware runs after matching, wrap the router:
//
//	fwd, err := muxhandlers.ForwardedMiddleware(muxhandlers.ForwardedConfig{
//	    TrustedProxies: []string{"10.0.0.0/8"},
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	http.ListenAndServe(":8080", fwd(r))
//
// # Access Log Middleware
//
// AccessLogMiddleware assigns a UUIDv7 request ID and writes one structured
// entry per request, including the pathname pattern of the matched route.
//
//	r.Use(muxhandlers.AccessLogMiddleware(muxhandlers.AccessLogConfig{
//	    Logger: logger,
//	}))
//
// # Recovery Middleware
//
// RecoveryMiddleware answers a panicking handler with a 500 JSON error and
// logs the panic with the request ID.
package muxhandlers
