// Package server provides the HTTP API of the agents pipeline.
package server

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/effective-security/agentflow/internal/app"
	"github.com/effective-security/agentflow/internal/config"
	"github.com/effective-security/agentflow/internal/ui"
	"github.com/effective-security/agentflow/orchestrator"
	"github.com/effective-security/agentflow/store"
	"github.com/effective-security/xlog"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var logger = xlog.NewPackageLogger("github.com/effective-security/agentflow/internal", "server")

var (
	httpRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "agentflow",
		Name:      "http_requests_total",
		Help:      "Total HTTP requests by route and status code",
	}, []string{"method", "route", "code"})

	httpDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "agentflow",
		Name:      "http_request_duration_seconds",
		Help:      "Duration of the HTTP requests",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "route"})
)

// Server is the HTTP server
type Server struct {
	e          *echo.Echo
	runner     app.Runner
	cfg        *config.ServerConfig
	validate   *validator.Validate
	runTimeout time.Duration
	endpoints  []string
	httpServer *http.Server
}

// New returns the server with all routes registered
func New(cfg *config.ServerConfig, runner app.Runner) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	s := &Server{
		e:          e,
		runner:     runner,
		cfg:        cfg,
		validate:   validator.New(),
		runTimeout: config.Duration(cfg.RunTimeout),
		endpoints:  append([]string(nil), Endpoints...),
	}
	s.httpServer = &http.Server{
		Addr:              cfg.ListenURL,
		Handler:           e,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       config.Duration(cfg.ReadTimeout),
		WriteTimeout:      config.Duration(cfg.WriteTimeout),
	}

	e.HTTPErrorHandler = s.errorHandler
	e.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{
		Generator: uuid.NewString,
	}))
	e.Use(s.observe)
	e.Use(middleware.Recover())
	if len(cfg.AllowedOrigins) > 0 {
		e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
			AllowOrigins: cfg.AllowedOrigins,
			AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
			AllowHeaders: []string{echo.HeaderContentType},
		}))
	}

	e.GET("/", s.home)
	e.GET("/hello", s.hello)
	e.GET("/docs-info", s.docsInfo)
	e.POST("/echo", s.echoInput)
	e.POST("/run-agents", s.runAgents)
	e.GET("/runs", s.listRuns)
	e.GET("/runs/:id", s.getRun)
	e.GET("/runs/:id/:output", s.getRunOutput)
	e.GET("/tools", s.listTools)
	e.GET("/healthz", s.healthz)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	if !cfg.DisableUI {
		ui.Register(e, runner)
		s.endpoints = append(s.endpoints, "GET /ui")
	}

	return s
}

// Handler returns the HTTP handler
func (s *Server) Handler() http.Handler {
	return s.e
}

// ListenAndServe serves the requests until Shutdown,
// it returns nil right away once the server was shut down
func (s *Server) ListenAndServe() error {
	logger.KV(xlog.NOTICE, "status", "listening", "address", s.cfg.ListenURL)
	err := s.httpServer.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return errors.WithStack(err)
}

// Shutdown stops the server gracefully
func (s *Server) Shutdown(ctx context.Context) error {
	logger.KV(xlog.NOTICE, "status", "shutdown", "address", s.cfg.ListenURL)
	return s.httpServer.Shutdown(ctx)
}

func (s *Server) observe(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		started := time.Now()
		err := next(c)
		if err != nil {
			c.Error(err)
		}

		req := c.Request()
		route := c.Path()
		if route == "" {
			route = "unknown"
		}
		code := c.Response().Status
		httpRequests.WithLabelValues(req.Method, route, strconv.Itoa(code)).Inc()
		httpDuration.WithLabelValues(req.Method, route).Observe(time.Since(started).Seconds())

		logger.KV(xlog.DEBUG,
			"method", req.Method,
			"path", req.URL.Path,
			"code", code,
			"request_id", c.Response().Header().Get(echo.HeaderXRequestID),
			"elapsed", time.Since(started).String())
		return nil
	}
}

func (s *Server) errorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	code := http.StatusInternalServerError
	msg := err.Error()

	var he *echo.HTTPError
	switch {
	case errors.As(err, &he):
		code = he.Code
		if m, ok := he.Message.(string); ok {
			msg = m
		} else {
			msg = http.StatusText(code)
		}
	case errors.Is(err, store.ErrNotFound):
		code = http.StatusNotFound
	case errors.Is(err, orchestrator.ErrEmptyInput):
		code = http.StatusBadRequest
	case errors.Is(err, context.DeadlineExceeded):
		code = http.StatusGatewayTimeout
	}

	req := c.Request()
	level := xlog.WARNING
	if code >= http.StatusInternalServerError {
		level = xlog.ERROR
	}
	logger.KV(level,
		"method", req.Method,
		"path", req.URL.Path,
		"code", code,
		"request_id", c.Response().Header().Get(echo.HeaderXRequestID),
		"err", err.Error())

	_ = c.JSON(code, ErrorResponse{Error: msg})
}
