package http

import (
	"context"
	"errors"
	"net"
	stdhttp "net/http"
	"time"

	"ytchat/internal/platform/config"
	"ytchat/internal/platform/logger"

	"github.com/go-chi/chi/v5"
)

// Server owns the chi mux and the stdlib server in front of it
type Server struct {
	addr  string
	grace time.Duration
	mux   *chi.Mux
	srv   *stdhttp.Server
}

// NewServer reads its settings from cfg
//
//	API_PORT            listen address, default :8000
//	WRITE_TIMEOUT       default 90s, above the per request timeout so answers can finish
//	SHUTDOWN_GRACE      default 15s
func NewServer(cfg config.Conf) *Server {
	addr := cfg.MayString("API_PORT", ":8000")
	m := chi.NewRouter()
	return &Server{
		addr:  addr,
		grace: cfg.MayDuration("SHUTDOWN_GRACE", 15*time.Second),
		mux:   m,
		srv: &stdhttp.Server{
			Addr:              addr,
			Handler:           m,
			ReadHeaderTimeout: 10 * time.Second,
			WriteTimeout:      cfg.MayDuration("WRITE_TIMEOUT", 90*time.Second),
			IdleTimeout:       2 * time.Minute,
		},
	}
}

func (s *Server) Router() Router { return AdaptChi(s.mux) }

func (s *Server) Addr() string { return s.addr }

// Run serves until ctx is cancelled, then drains in flight requests for the
// shutdown grace period, a clean stop returns nil
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return err
	}
	logger.Named("http").Info().Str("addr", ln.Addr().String()).Msg("http listening")

	errc := make(chan error, 1)
	go func() { errc <- s.srv.Serve(ln) }()

	select {
	case err := <-errc:
		if errors.Is(err, stdhttp.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	sctx, cancel := context.WithTimeout(context.Background(), s.grace)
	defer cancel()
	if err := s.srv.Shutdown(sctx); err != nil {
		return err
	}
	if err := <-errc; !errors.Is(err, stdhttp.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown stops the server, Run returns nil afterwards
func (s *Server) Shutdown(ctx context.Context) error { return s.srv.Shutdown(ctx) }
