// Package server exposes the scan pipeline over HTTP: archive uploads in,
// result documents, report history, and aggregated statistics out.
package server

import (
	"context"
	"errors"
	"net/http"

	"github.com/hashicorp/go-hclog"

	"github.com/scanmill/scanmill/internal/pipeline"
	"github.com/scanmill/scanmill/pkg/shared/config"
)

// Server is the HTTP front of the application.
type Server struct {
	logger     hclog.Logger
	cfg        *config.Config
	scanner    *pipeline.Scanner
	httpServer *http.Server
}

// New wires the HTTP front around a scan pipeline.
func New(logger hclog.Logger, cfg *config.Config, scanner *pipeline.Scanner) *Server {
	s := &Server{
		logger:  logger,
		cfg:     cfg,
		scanner: scanner,
	}
	s.httpServer = &http.Server{
		Addr:    config.GetServerAddr(cfg),
		Handler: cors(s.routes()),
	}
	return s
}

func (s *Server) routes() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/analyze", s.handleAnalyze)
	mux.HandleFunc("/api/reports", s.handleReports)
	mux.HandleFunc("/api/reports/", s.handleReportDetail)
	mux.HandleFunc("/api/stats", s.handleStats)
	mux.HandleFunc("/results/", s.handleDownload)
	return mux
}

// Start serves requests until the listener fails or Shutdown is called.
func (s *Server) Start() error {
	s.logger.Info("server listening", "addr", s.httpServer.Addr)
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown drains in-flight requests and stops the listener.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}
