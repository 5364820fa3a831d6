package main

import (
	"context"
	"encoding/xml"
	"errors"
	"mime"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/vitalvas/urlkit/mux"
	"github.com/vitalvas/urlkit/muxhandlers"
	"github.com/vitalvas/urlkit/urlpattern"
	"github.com/vitalvas/urlkit/weburl"
)

// serveConfig holds the serve command flags.
type serveConfig struct {
	addr            string
	trustedProxies  []string
	shutdownTimeout time.Duration
}

func newServeCmd(a *app) *cobra.Command {
	cfg := serveConfig{}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the URL tools over HTTP",
		Long: `Serve the URL tools over HTTP:

  GET  /healthz                     liveness probe
  GET  /v1/parse?url=...&base=...   parse a URL (JSON, or XML by Accept)
  GET  /v1/query?...                decode the request's own query string
  POST /v1/match                    match a URL against a pattern (JSON or form body)`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			handler, err := newHandler(a.logger, cfg.trustedProxies)
			if err != nil {
				return err
			}
			return runServer(cmd.Context(), a.logger, &http.Server{
				Addr:              cfg.addr,
				Handler:           handler,
				ReadHeaderTimeout: 10 * time.Second,
			}, cfg.shutdownTimeout)
		},
	}

	cmd.Flags().StringVar(&cfg.addr, "addr", ":8080", "listen address")
	cmd.Flags().StringSliceVar(&cfg.trustedProxies, "trusted-proxy", nil, "IP or CIDR allowed to set X-Forwarded-* headers (default: private ranges)")
	cmd.Flags().DurationVar(&cfg.shutdownTimeout, "shutdown-timeout", 10*time.Second, "graceful shutdown timeout")
	return cmd
}

// runServer serves until ctx is cancelled, then shuts down gracefully.
func runServer(ctx context.Context, logger *log.Logger, srv *http.Server, timeout time.Duration) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()
	logger.Info("server started", "address", srv.Addr)

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown error", "error", err)
		return err
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	logger.Info("server stopped")
	return nil
}

// newHandler builds the HTTP API. Forwarding headers are applied before
// routing so patterns see the public URL.
func newHandler(logger *log.Logger, trustedProxies []string) (http.Handler, error) {
	r := mux.NewRouter()
	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		mux.Respond(w, req, http.StatusNotFound, errorRecord{Error: "not found"})
	})

	r.Use(
		muxhandlers.AccessLogMiddleware(muxhandlers.AccessLogConfig{Logger: logger}),
		muxhandlers.RecoveryMiddleware(muxhandlers.RecoveryConfig{Logger: logger}),
	)

	r.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		mux.ResponseJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}).Methods(http.MethodGet, http.MethodHead).Name("healthz")

	r.HandleFunc("/v1/parse", handleParse).
		Methods(http.MethodGet).
		Queries("url", "").
		Name("parse")

	r.HandleFunc("/v1/query", handleQuery).
		Methods(http.MethodGet).
		Name("query")

	r.HandleFunc("/v1/match", handleMatch).
		Methods(http.MethodPost).
		Name("match")

	fwd, err := muxhandlers.ForwardedMiddleware(muxhandlers.ForwardedConfig{
		TrustedProxies: trustedProxies,
		UseForwarded:   true,
	})
	if err != nil {
		return nil, err
	}
	return fwd(r), nil
}

// errorRecord is the body of every error response.
type errorRecord struct {
	XMLName xml.Name `json:"-" xml:"error"`
	Error   string   `json:"error" xml:"message"`
}

func handleParse(w http.ResponseWriter, r *http.Request) {
	params := weburl.NewSearchParams(r.URL.RawQuery)
	input, _ := params.Get("url")
	base, _ := params.Get("base")

	u, err := parseURL(input, base)
	if err != nil {
		mux.Respond(w, r, http.StatusBadRequest, errorRecord{Error: err.Error()})
		return
	}
	mux.Respond(w, r, http.StatusOK, newURLRecord(u))
}

func handleQuery(w http.ResponseWriter, r *http.Request) {
	var search string
	if res := mux.MatchResult(r); res != nil {
		search = res.Search.Input
	}
	mux.ResponseJSON(w, http.StatusOK, newQueryRecord(weburl.NewSearchParams(search)))
}

// matchRequest is the body accepted by POST /v1/match.
type matchRequest struct {
	Pattern    string `json:"pattern"`
	URL        string `json:"url"`
	Base       string `json:"base"`
	IgnoreCase bool   `json:"ignore_case"`
}

// matchResponse is the body returned by POST /v1/match.
type matchResponse struct {
	Matched bool               `json:"matched"`
	Result  *urlpattern.Result `json:"result,omitempty"`
}

func handleMatch(w http.ResponseWriter, r *http.Request) {
	req, err := bindMatchRequest(r)
	if err != nil {
		mux.ResponseJSON(w, http.StatusBadRequest, errorRecord{Error: err.Error()})
		return
	}

	var opts []urlpattern.Option
	if req.IgnoreCase {
		opts = append(opts, urlpattern.WithIgnoreCase())
	}
	p, err := urlpattern.Parse(req.Pattern, req.Base, opts...)
	if err != nil {
		mux.ResponseJSON(w, http.StatusUnprocessableEntity, errorRecord{Error: err.Error()})
		return
	}

	result := p.Exec(req.URL, req.Base)
	mux.ResponseJSON(w, http.StatusOK, matchResponse{Matched: result != nil, Result: result})
}

func bindMatchRequest(r *http.Request) (matchRequest, error) {
	var req matchRequest

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "application/x-www-form-urlencoded" {
		form, err := mux.BindForm(r)
		if err != nil {
			return req, err
		}
		req.Pattern, _ = form.Get("pattern")
		req.URL, _ = form.Get("url")
		req.Base, _ = form.Get("base")
		if v, _ := form.Get("ignore_case"); v == "true" || v == "1" {
			req.IgnoreCase = true
		}
	} else if err := mux.BindJSON(r, &req); err != nil {
		return req, err
	}

	if req.Pattern == "" {
		return req, errors.New("pattern is required")
	}
	return req, nil
}
