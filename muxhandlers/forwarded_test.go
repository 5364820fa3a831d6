package muxhandlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vitalvas/urlkit/mux"
)

type seenRequest struct {
	scheme string
	host   string
	remote string
}

func runForwarded(t *testing.T, cfg ForwardedConfig, remote string, headers map[string]string) seenRequest {
	t.Helper()

	mw, err := ForwardedMiddleware(cfg)
	require.NoError(t, err)

	var seen seenRequest
	h := mw(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		seen = seenRequest{scheme: r.URL.Scheme, host: r.Host, remote: r.RemoteAddr}
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = remote
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	h.ServeHTTP(httptest.NewRecorder(), req)
	return seen
}

func TestForwardedMiddleware(t *testing.T) {
	tests := []struct {
		name    string
		cfg     ForwardedConfig
		remote  string
		headers map[string]string
		want    seenRequest
	}{
		{
			name:    "untrusted peer is ignored",
			remote:  "203.0.113.9:1234",
			headers: map[string]string{"X-Forwarded-Proto": "https", "X-Forwarded-Host": "public.test"},
			want:    seenRequest{scheme: "", host: "example.com", remote: "203.0.113.9:1234"},
		},
		{
			name:    "trusted peer rewrites scheme and host",
			remote:  "10.1.2.3:5555",
			headers: map[string]string{"X-Forwarded-Proto": "HTTPS", "X-Forwarded-Host": "Public.Test", "X-Forwarded-For": "198.51.100.7, 10.1.2.3"},
			want:    seenRequest{scheme: "https", host: "public.test", remote: "198.51.100.7"},
		},
		{
			name:    "default port is dropped",
			remote:  "127.0.0.1:1",
			headers: map[string]string{"X-Forwarded-Proto": "https", "X-Forwarded-Host": "public.test:443"},
			want:    seenRequest{scheme: "https", host: "public.test", remote: "127.0.0.1:1"},
		},
		{
			name:    "X-Real-IP",
			remote:  "127.0.0.1:1",
			headers: map[string]string{"X-Real-IP": "2001:db8::1"},
			want:    seenRequest{scheme: "http", host: "example.com", remote: "2001:db8::1"},
		},
		{
			name:    "invalid forwarded host leaves request alone",
			remote:  "127.0.0.1:1",
			headers: map[string]string{"X-Forwarded-Proto": "https", "X-Forwarded-Host": "bad host"},
			want:    seenRequest{scheme: "", host: "example.com", remote: "127.0.0.1:1"},
		},
		{
			name:    "host with path is rejected",
			remote:  "127.0.0.1:1",
			headers: map[string]string{"X-Forwarded-Host": "evil.test/x"},
			want:    seenRequest{scheme: "", host: "example.com", remote: "127.0.0.1:1"},
		},
		{
			name:    "unknown proto falls back to request scheme",
			remote:  "127.0.0.1:1",
			headers: map[string]string{"X-Forwarded-Proto": "gopher"},
			want:    seenRequest{scheme: "http", host: "example.com", remote: "127.0.0.1:1"},
		},
		{
			name:    "Forwarded header when enabled",
			cfg:     ForwardedConfig{UseForwarded: true},
			remote:  "192.168.0.10:80",
			headers: map[string]string{"Forwarded": `for="[2001:db8::7]:4711";proto=https;host=shop.test, for=10.0.0.1`},
			want:    seenRequest{scheme: "https", host: "shop.test", remote: "2001:db8::7"},
		},
		{
			name:    "Forwarded header ignored when disabled",
			remote:  "192.168.0.10:80",
			headers: map[string]string{"Forwarded": "proto=https;host=shop.test"},
			want:    seenRequest{scheme: "http", host: "example.com", remote: "192.168.0.10:80"},
		},
		{
			name:    "explicit trusted address",
			cfg:     ForwardedConfig{TrustedProxies: []string{"203.0.113.9"}},
			remote:  "203.0.113.9:1234",
			headers: map[string]string{"X-Forwarded-Host": "public.test"},
			want:    seenRequest{scheme: "http", host: "public.test", remote: "203.0.113.9:1234"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, runForwarded(t, tt.cfg, tt.remote, tt.headers))
		})
	}
}

func TestForwardedMiddlewareInvalidProxy(t *testing.T) {
	for _, entry := range []string{"not-an-ip", "10.0.0.0/99"} {
		t.Run(entry, func(t *testing.T) {
			_, err := ForwardedMiddleware(ForwardedConfig{TrustedProxies: []string{entry}})
			assert.ErrorIs(t, err, ErrInvalidProxy)
		})
	}
}

func TestForwardedMiddlewareRouting(t *testing.T) {
	r := mux.NewRouter()
	r.HandleFunc("https://:tenant.public.test/*", func(w http.ResponseWriter, req *http.Request) {
		w.Write([]byte(mux.Vars(req)["tenant"]))
	})

	fwd, err := ForwardedMiddleware(ForwardedConfig{})
	require.NoError(t, err)
	h := fwd(r)

	req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	req.RemoteAddr = "127.0.0.1:9000"
	req.Header.Set("X-Forwarded-Proto", "https")
	req.Header.Set("X-Forwarded-Host", "acme.public.test")

	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "acme", w.Body.String())
}
