package http

import (
	"context"
	"errors"
	stdhttp "net/http"
	"time"

	"addrcheck/internal/platform/config"
	"addrcheck/internal/platform/logger"

	"github.com/go-chi/chi/v5"
)

// Server wraps a chi mux and a stdlib http.Server
type Server struct {
	addr string
	mux  *chi.Mux
	srv  *stdhttp.Server
}

// NewServer reads PORT and the timeouts from cfg (usually the CORE_API_ view).
// opts receive the mux so callers can mount middleware before routes
func NewServer(cfg config.Conf, opts ...func(*chi.Mux)) *Server {
	addr := cfg.MayString("PORT", ":4000")
	m := chi.NewRouter()
	for _, o := range opts {
		o(m)
	}
	return &Server{
		addr: addr,
		mux:  m,
		srv: &stdhttp.Server{
			Addr:              addr,
			Handler:           m,
			ReadHeaderTimeout: cfg.MayDuration("READ_HEADER_TIMEOUT", 10*time.Second),
			IdleTimeout:       cfg.MayDuration("IDLE_TIMEOUT", 2*time.Minute),
		},
	}
}

// Router returns the Router facade over the mux
func (s *Server) Router() Router { return AdaptChi(s.mux) }

// Addr returns the listen address
func (s *Server) Addr() string { return s.addr }

// Run serves until ctx is done or the listener fails. A closed server is not an error
func (s *Server) Run(ctx context.Context) error {
	log := logger.Named("http")
	errc := make(chan error, 1)
	go func() {
		log.Info().Str("addr", s.addr).Msg("http listening")
		errc <- s.srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if errors.Is(err, stdhttp.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		sctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 15*time.Second)
		defer cancel()
		return s.Shutdown(sctx)
	}
}

// Shutdown stops accepting and waits for in-flight requests
func (s *Server) Shutdown(ctx context.Context) error {
	logger.Named("http").Info().Msg("http shutting down")
	return s.srv.Shutdown(ctx)
}
