package api

import (
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
)

const startupTimeout = 5 * time.Second

// Server exposes the committed ledger over HTTP.
type Server struct {
	logger   zerolog.Logger
	querier  LedgerQuerier
	gatherer prometheus.Gatherer
	server   *http.Server
}

// NewServer creates a new Server instance. gatherer may be nil, in which
// case /metrics is not served.
func NewServer(logger zerolog.Logger, port int, querier LedgerQuerier, gatherer prometheus.Gatherer) *Server {
	s := &Server{
		logger:   logger.With().Str("component", "api").Logger(),
		querier:  querier,
		gatherer: gatherer,
	}

	s.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           s.setupRoutes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	return s
}

// Handler returns the routed handler, mostly for tests.
func (s *Server) Handler() http.Handler {
	return s.server.Handler
}

// Start binds the port and serves in the background. It returns once the
// listener is up or binding failed.
func (s *Server) Start() error {
	if s.server == nil {
		return fmt.Errorf("query server is nil")
	}

	startupChan := make(chan error, 1)

	go func() {
		ln, err := net.Listen("tcp", s.server.Addr)
		if err != nil {
			startupChan <- fmt.Errorf("failed to bind to address %s: %w", s.server.Addr, err)
			return
		}

		startupChan <- nil
		s.logger.Info().Str("addr", s.server.Addr).Msg("Query server listening")

		err = s.server.Serve(ln)
		switch err {
		case nil:
			s.logger.Info().Msg("Query server stopped normally")
		case http.ErrServerClosed:
			s.logger.Info().Msg("Query server closed gracefully")
		default:
			s.logger.Error().Err(err).Msg("Query server error")
		}
	}()

	select {
	case err := <-startupChan:
		return err
	case <-time.After(startupTimeout):
		return fmt.Errorf("server startup timeout")
	}
}

// Stop shuts down the HTTP server
func (s *Server) Stop() error {
	if s.server != nil {
		return s.server.Close()
	}
	return nil
}
