package muxhandlers

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/vitalvas/urlkit/mux"
)

// Logger is the structured logger used by the middleware in this package.
// *log.Logger from github.com/charmbracelet/log satisfies it.
type Logger interface {
	Info(msg any, keyvals ...any)
	Error(msg any, keyvals ...any)
}

type requestIDKey struct{}

// RequestIDFromContext returns the request ID stored by AccessLogMiddleware,
// or "" if there is none.
func RequestIDFromContext(ctx context.Context) string {
	if id, ok := ctx.Value(requestIDKey{}).(string); ok {
		return id
	}
	return ""
}

// AccessLogConfig configures AccessLogMiddleware.
type AccessLogConfig struct {
	// Logger receives one info entry per request. When nil, only the
	// request ID is assigned.
	Logger Logger

	// RequestIDHeader carries the request ID on the request and the
	// response. Defaults to "X-Request-ID".
	RequestIDHeader string

	// TrustIncoming reuses a request ID sent by the client.
	TrustIncoming bool
}

// AccessLogMiddleware assigns every request a time-ordered UUIDv7 request ID
// and logs the method, URL, matched route pattern and response status once
// the handler returns.
func AccessLogMiddleware(cfg AccessLogConfig) mux.MiddlewareFunc {
	header := cfg.RequestIDHeader
	if header == "" {
		header = "X-Request-ID"
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var id string
			if cfg.TrustIncoming {
				id = r.Header.Get(header)
			}
			if id == "" {
				id = uuid.Must(uuid.NewV7()).String()
			}
			r.Header.Set(header, id)
			w.Header().Set(header, id)
			r = r.WithContext(context.WithValue(r.Context(), requestIDKey{}, id))

			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
			start := time.Now()
			next.ServeHTTP(rec, r)

			if cfg.Logger == nil {
				return
			}
			keyvals := []any{
				"request_id", id,
				"method", r.Method,
				"url", r.URL.RequestURI(),
				"status", rec.status,
				"bytes", rec.size,
				"duration", time.Since(start),
			}
			if route := mux.CurrentRoute(r); route != nil {
				if p, err := route.GetPattern(); err == nil {
					keyvals = append(keyvals, "pathname", p.Pathname())
				}
				if name := route.GetName(); name != "" {
					keyvals = append(keyvals, "route", name)
				}
			}
			cfg.Logger.Info("request", keyvals...)
		})
	}
}

// statusRecorder captures the status code and body size written by a
// handler.
type statusRecorder struct {
	http.ResponseWriter
	status      int
	size        int
	wroteHeader bool
}

func (w *statusRecorder) WriteHeader(code int) {
	if !w.wroteHeader {
		w.status = code
		w.wroteHeader = true
	}
	w.ResponseWriter.WriteHeader(code)
}

func (w *statusRecorder) Write(b []byte) (int, error) {
	w.wroteHeader = true
	n, err := w.ResponseWriter.Write(b)
	w.size += n
	return n, err
}

func (w *statusRecorder) Unwrap() http.ResponseWriter {
	return w.ResponseWriter
}
