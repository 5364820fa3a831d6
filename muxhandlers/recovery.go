package muxhandlers

import (
	"net/http"

	"github.com/vitalvas/urlkit/mux"
)

// RecoveryConfig configures RecoveryMiddleware.
type RecoveryConfig struct {
	// Logger receives one error entry per recovered panic. Optional.
	Logger Logger
}

// RecoveryMiddleware turns a panic in a downstream handler into a 500 JSON
// error response. http.ErrAbortHandler is re-raised so the server can abort
// the connection.
func RecoveryMiddleware(cfg RecoveryConfig) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				v := recover()
				if v == nil {
					return
				}
				if v == http.ErrAbortHandler { //nolint:errorlint // sentinel panic value
					panic(v)
				}
				if cfg.Logger != nil {
					cfg.Logger.Error("panic recovered",
						"panic", v,
						"method", r.Method,
						"url", r.URL.RequestURI(),
						"request_id", RequestIDFromContext(r.Context()),
					)
				}
				mux.ResponseJSON(w, http.StatusInternalServerError, map[string]string{
					"error": http.StatusText(http.StatusInternalServerError),
				})
			}()

			next.ServeHTTP(w, r)
		})
	}
}
