package muxhandlers

import (
	"errors"
	"fmt"
	"net/http"
	"net/netip"
	"strings"

	"github.com/vitalvas/urlkit/mux"
	"github.com/vitalvas/urlkit/weburl"
)

// ErrInvalidProxy is returned when a TrustedProxies entry is neither an IP
// address nor a CIDR prefix.
var ErrInvalidProxy = errors.New("muxhandlers: invalid trusted proxy")

// DefaultTrustedProxies holds the loopback and private ranges trusted when
// ForwardedConfig.TrustedProxies is empty.
var DefaultTrustedProxies = []string{
	"127.0.0.0/8",
	"10.0.0.0/8",
	"172.16.0.0/12",
	"192.168.0.0/16",
	"100.64.0.0/10",
	"::1/128",
	"fc00::/7",
}

// ForwardedConfig configures ForwardedMiddleware.
type ForwardedConfig struct {
	// TrustedProxies lists the peers allowed to set forwarding headers, as
	// IP addresses or CIDR prefixes.
	TrustedProxies []string

	// UseForwarded also reads the RFC 7239 Forwarded header, after the
	// X-Forwarded-* headers.
	UseForwarded bool
}

// ForwardedMiddleware rewrites the request scheme, host and remote address
// from reverse proxy headers so URL patterns match the public URL of the
// request. A forwarded host is only applied when it forms a valid URL host;
// it is stored in its canonical form.
//
// Router middleware runs after route matching, so the returned function is
// meant to wrap the router itself:
//
//	fwd, err := muxhandlers.ForwardedMiddleware(muxhandlers.ForwardedConfig{})
//	http.ListenAndServe(":8080", fwd(router))
func ForwardedMiddleware(cfg ForwardedConfig) (mux.MiddlewareFunc, error) {
	entries := cfg.TrustedProxies
	if len(entries) == 0 {
		entries = DefaultTrustedProxies
	}

	trusted, err := parseTrustedProxies(entries)
	if err != nil {
		return nil, err
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !trusted.contains(r.RemoteAddr) {
				next.ServeHTTP(w, r)
				return
			}

			var fwd forwardedElement
			if cfg.UseForwarded {
				fwd = parseForwarded(r.Header.Get("Forwarded"))
			}

			if addr := clientAddr(r, fwd); addr != "" {
				r.RemoteAddr = addr
			}

			scheme := forwardedScheme(r)
			if scheme == "" {
				scheme = fwd.proto
			}
			if scheme == "" {
				scheme = r.URL.Scheme
			}
			if scheme == "" {
				scheme = "http"
				if r.TLS != nil {
					scheme = "https"
				}
			}

			host := r.Header.Get("X-Forwarded-Host")
			if host == "" {
				host = fwd.host
			}
			if host == "" {
				host = r.Host
			}

			if u, err := weburl.Parse(scheme + "://" + host + "/"); err == nil && isBareHost(u) {
				rewritten := *r.URL
				rewritten.Scheme = scheme
				r.URL = &rewritten
				r.Host = u.Host()
			}

			next.ServeHTTP(w, r)
		})
	}, nil
}

// isBareHost reports whether u carries nothing but a scheme and a host.
func isBareHost(u *weburl.URL) bool {
	return u.Pathname() == "/" && u.Username() == "" && u.Password() == "" &&
		u.Search() == "" && u.Hash() == ""
}

type trustSet []netip.Prefix

func parseTrustedProxies(entries []string) (trustSet, error) {
	set := make(trustSet, 0, len(entries))
	for _, entry := range entries {
		if strings.Contains(entry, "/") {
			prefix, err := netip.ParsePrefix(entry)
			if err != nil {
				return nil, fmt.Errorf("%w: %q", ErrInvalidProxy, entry)
			}
			set = append(set, prefix.Masked())
			continue
		}
		addr, err := netip.ParseAddr(entry)
		if err != nil {
			return nil, fmt.Errorf("%w: %q", ErrInvalidProxy, entry)
		}
		set = append(set, netip.PrefixFrom(addr, addr.BitLen()))
	}
	return set, nil
}

// contains reports whether the peer address, with or without a port, is
// in the set.
func (s trustSet) contains(remoteAddr string) bool {
	addr, ok := parseAddr(remoteAddr)
	if !ok {
		return false
	}
	for _, prefix := range s {
		if prefix.Contains(addr) {
			return true
		}
	}
	return false
}

func parseAddr(s string) (netip.Addr, bool) {
	if ap, err := netip.ParseAddrPort(s); err == nil {
		return ap.Addr().Unmap(), true
	}
	addr, err := netip.ParseAddr(strings.Trim(s, "[]"))
	if err != nil {
		return netip.Addr{}, false
	}
	return addr.Unmap(), true
}

// clientAddr picks the client address: X-Forwarded-For, then X-Real-IP,
// then Forwarded for=.
func clientAddr(r *http.Request, fwd forwardedElement) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		for part := range strings.SplitSeq(xff, ",") {
			if addr, ok := parseAddr(strings.TrimSpace(part)); ok {
				return addr.String()
			}
		}
		return ""
	}
	if realIP := strings.TrimSpace(r.Header.Get("X-Real-IP")); realIP != "" {
		if addr, ok := parseAddr(realIP); ok {
			return addr.String()
		}
		return ""
	}
	return fwd.addr
}

// forwardedScheme returns http or https from X-Forwarded-Proto or
// X-Forwarded-Scheme, or "" if neither carries one of them.
func forwardedScheme(r *http.Request) string {
	for _, header := range []string{"X-Forwarded-Proto", "X-Forwarded-Scheme"} {
		if v := r.Header.Get(header); v != "" {
			return httpScheme(v)
		}
	}
	return ""
}

func httpScheme(v string) string {
	v = strings.ToLower(strings.TrimSpace(v))
	if v == "http" || v == "https" {
		return v
	}
	return ""
}

// forwardedElement holds the directives of the first Forwarded element.
type forwardedElement struct {
	addr  string
	proto string
	host  string
}

func parseForwarded(header string) forwardedElement {
	var el forwardedElement
	if header == "" {
		return el
	}
	if i := strings.IndexByte(header, ','); i >= 0 {
		header = header[:i]
	}

	for param := range strings.SplitSeq(header, ";") {
		key, val, ok := strings.Cut(strings.TrimSpace(param), "=")
		if !ok {
			continue
		}
		val = strings.Trim(strings.TrimSpace(val), `"`)

		switch strings.ToLower(strings.TrimSpace(key)) {
		case "for":
			if addr, ok := parseAddr(val); ok {
				el.addr = addr.String()
			}
		case "proto":
			el.proto = httpScheme(val)
		case "host":
			el.host = val
		}
	}
	return el
}
