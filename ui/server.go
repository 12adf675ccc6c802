// Package ui exposes the report generator over HTTP.
package ui

import (
	"context"
	stderrors "errors"
	"fmt"
	"net/http"
	"regexp"

	"autostat/app"
	"autostat/internal"
	"autostat/internal/config"
	"autostat/ports"

	"github.com/coder/quartz"
	"github.com/gin-gonic/gin"
)

// Deps are the collaborators the server needs
type Deps struct {
	Config      *config.Config
	Decoder     ports.DatasetDecoder
	Submissions ports.SubmissionRepository
	// Payments is nil when no checkout provider is configured
	Payments ports.PaymentGateway
	Reports  *app.ReportService
	Clock    quartz.Clock
	Logger   *internal.Logger
}

// Server represents the HTTP API of the report generator
type Server struct {
	router      *gin.Engine
	cfg         *config.Config
	origins     *regexp.Regexp
	decoder     ports.DatasetDecoder
	submissions ports.SubmissionRepository
	payments    ports.PaymentGateway
	reports     *app.ReportService
	clock       quartz.Clock
	logger      *internal.Logger
}

// NewServer wires routes and middleware
func NewServer(deps Deps) (*Server, error) {
	origins, err := regexp.Compile(deps.Config.Server.CORSOriginPattern)
	if err != nil {
		return nil, fmt.Errorf("invalid CORS origin pattern: %w", err)
	}
	if deps.Clock == nil {
		deps.Clock = quartz.NewReal()
	}
	if deps.Logger == nil {
		deps.Logger = internal.NewDiscardLogger()
	}

	s := &Server{
		router:      gin.New(),
		cfg:         deps.Config,
		origins:     origins,
		decoder:     deps.Decoder,
		submissions: deps.Submissions,
		payments:    deps.Payments,
		reports:     deps.Reports,
		clock:       deps.Clock,
		logger:      deps.Logger,
	}
	s.setupMiddleware()
	s.setupRoutes()
	return s, nil
}

// setupRoutes configures the application routes
func (s *Server) setupRoutes() {
	api := s.router.Group("/api")
	api.POST("/parse-preview", s.handleParsePreview)
	api.POST("/create-payment-session", s.handleCreatePaymentSession)
	api.POST("/generate-report", s.handleGenerateReport)
	api.GET("/test", s.handleSmokeTest)
}

// Handler returns the root HTTP handler
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run serves on the configured port until ctx is cancelled, then shuts down
// gracefully
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:    ":" + s.cfg.Server.Port,
		Handler: s.router,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("HTTP server listening on %s", srv.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if stderrors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.Server.ShutdownTimeout)
	defer cancel()
	s.logger.Info("shutting down HTTP server")
	return srv.Shutdown(shutdownCtx)
}
