package infra

import (
	"context"
	"net/http"
	"time"
)

// readHeaderTimeout is fixed rather than configured: it only bounds
// slow-loris style header trickling, which no deployment tunes.
const readHeaderTimeout = 5 * time.Second

// HTTPServer runs the API with the configured timeout policy and exposes a
// graceful shutdown hook for the signal handler in cmd/api.
type HTTPServer struct {
	srv *http.Server
}

// NewHTTPServer builds a server for the handler on the configured port.
func NewHTTPServer(cfg *Config, handler http.Handler) *HTTPServer {
	return &HTTPServer{
		srv: &http.Server{
			Addr:              ":" + cfg.Port,
			Handler:           handler,
			ReadTimeout:       cfg.HTTPReadTimeout,
			ReadHeaderTimeout: readHeaderTimeout,
			WriteTimeout:      cfg.HTTPWriteTimeout,
			IdleTimeout:       cfg.HTTPIdleTimeout,
		},
	}
}

// Start blocks serving requests until Shutdown is called or the listener
// fails. It reports http.ErrServerClosed after a clean shutdown.
func (s *HTTPServer) Start() error {
	if s.srv == nil {
		return nil
	}
	return s.srv.ListenAndServe()
}

// Shutdown drains in-flight requests until ctx expires.
func (s *HTTPServer) Shutdown(ctx context.Context) error {
	if s.srv == nil {
		return nil
	}
	return s.srv.Shutdown(ctx)
}
