package muxhandlers

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vitalvas/urlkit/mux"
)

type logEntry struct {
	level  string
	msg    any
	fields map[string]any
}

type memoryLogger struct {
	mu      sync.Mutex
	entries []logEntry
}

func (l *memoryLogger) add(level string, msg any, keyvals []any) {
	fields := make(map[string]any, len(keyvals)/2)
	for i := 0; i+1 < len(keyvals); i += 2 {
		fields[fmt.Sprint(keyvals[i])] = keyvals[i+1]
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = append(l.entries, logEntry{level: level, msg: msg, fields: fields})
}

func (l *memoryLogger) Info(msg any, keyvals ...any)  { l.add("info", msg, keyvals) }
func (l *memoryLogger) Error(msg any, keyvals ...any) { l.add("error", msg, keyvals) }

func TestAccessLogMiddleware(t *testing.T) {
	t.Run("logs matched route", func(t *testing.T) {
		logger := &memoryLogger{}
		r := mux.NewRouter()
		r.Use(AccessLogMiddleware(AccessLogConfig{Logger: logger}))
		r.HandleFunc("/users/:id", func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusAccepted)
			fmt.Fprint(w, "ok")
		}).Name("user")

		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/users/7?x=1", nil))

		require.Len(t, logger.entries, 1)
		e := logger.entries[0]
		assert.Equal(t, "info", e.level)
		assert.Equal(t, "request", e.msg)
		assert.Equal(t, http.MethodPost, e.fields["method"])
		assert.Equal(t, "/users/7?x=1", e.fields["url"])
		assert.Equal(t, http.StatusAccepted, e.fields["status"])
		assert.Equal(t, 2, e.fields["bytes"])
		assert.Equal(t, "/users/:id", e.fields["pathname"])
		assert.Equal(t, "user", e.fields["route"])
		assert.Equal(t, w.Header().Get("X-Request-ID"), e.fields["request_id"])
	})

	t.Run("generates UUIDv7 request IDs", func(t *testing.T) {
		var fromCtx string
		h := AccessLogMiddleware(AccessLogConfig{})(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
			fromCtx = RequestIDFromContext(r.Context())
		}))

		w := httptest.NewRecorder()
		h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

		id, err := uuid.Parse(w.Header().Get("X-Request-ID"))
		require.NoError(t, err)
		assert.Equal(t, uuid.Version(7), id.Version())
		assert.Equal(t, id.String(), fromCtx)
	})

	t.Run("incoming ID", func(t *testing.T) {
		tests := []struct {
			name  string
			trust bool
			reuse bool
		}{
			{"reused when trusted", true, true},
			{"replaced when untrusted", false, false},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				h := AccessLogMiddleware(AccessLogConfig{RequestIDHeader: "X-Trace", TrustIncoming: tt.trust})(
					http.HandlerFunc(func(_ http.ResponseWriter, _ *http.Request) {}))

				req := httptest.NewRequest(http.MethodGet, "/", nil)
				req.Header.Set("X-Trace", "client-id")
				w := httptest.NewRecorder()
				h.ServeHTTP(w, req)

				assert.Equal(t, tt.reuse, w.Header().Get("X-Trace") == "client-id")
				assert.NotEmpty(t, w.Header().Get("X-Trace"))
			})
		}
	})

	t.Run("RequestIDFromContext without middleware", func(t *testing.T) {
		assert.Empty(t, RequestIDFromContext(httptest.NewRequest(http.MethodGet, "/", nil).Context()))
	})
}
