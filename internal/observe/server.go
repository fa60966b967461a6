package observe

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/Raikerian/go-discord-clipper/internal/config"
)

// ServerParams holds dependencies for NewServer.
type ServerParams struct {
	fx.In
	Cfg      *config.Config
	LC       fx.Lifecycle
	Logger   *zap.Logger
	Checkers []Checker `group:"readiness"`
}

// Server exposes /metrics, /healthz and /readyz.
type Server struct {
	logger *zap.Logger
	srv    *http.Server
	addr   string
}

// NewServer creates the observability HTTP server. It is a no-op when
// observe.listen_addr is empty.
func NewServer(params ServerParams) *Server {
	s := &Server{
		logger: params.Logger,
		addr:   params.Cfg.Observe.ListenAddr,
	}
	if s.addr == "" {
		params.Logger.Info("Observability endpoint disabled")
		return s
	}

	mux := http.NewServeMux()
	mux.Handle("GET /metrics", promhttp.Handler())
	NewHealth(params.Checkers...).Register(mux)

	s.srv = &http.Server{
		Addr:              s.addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	params.LC.Append(fx.Hook{
		OnStart: s.start,
		OnStop:  s.stop,
	})

	return s
}

func (s *Server) start(_ context.Context) error {
	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.addr, err)
	}
	s.logger.Info("Observability endpoint listening", zap.String("addr", ln.Addr().String()))

	go func() {
		if err := s.srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("Observability endpoint stopped", zap.Error(err))
		}
	}()
	return nil
}

func (s *Server) stop(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}
