package server

import (
	"context"
	"net/http"
	"strconv"

	"github.com/effective-security/agentflow/orchestrator"
	"github.com/effective-security/agentflow/store"
	"github.com/effective-security/agentflow/tools"
	"github.com/labstack/echo/v4"
)

// Endpoints lists the API routes, GET /ui is added when the UI is enabled
var Endpoints = []string{
	"GET /",
	"GET /hello",
	"GET /docs-info",
	"POST /echo",
	"POST /run-agents",
	"GET /runs",
	"GET /runs/:id",
	"GET /runs/:id/:output",
	"GET /tools",
	"GET /healthz",
	"GET /metrics",
}

// DefaultListLimit is the number of runs returned by GET /runs
const DefaultListLimit = 20

// UserRequest is the body of POST /echo and POST /run-agents
type UserRequest struct {
	UserInput string `json:"user_input" form:"user_input"`
}

// RunRequest is the validated body of POST /run-agents
type RunRequest struct {
	UserInput string `validate:"required"`
}

// MessageResponse is a simple message
type MessageResponse struct {
	Message string `json:"message"`
}

// DocsResponse lists the API routes
type DocsResponse struct {
	AvailableEndpoints []string `json:"available_endpoints"`
}

// EchoResponse returns the input
type EchoResponse struct {
	YouSent string `json:"you_sent"`
}

// ErrorResponse is returned on failed requests
type ErrorResponse struct {
	Error string `json:"error"`
}

// OutputResponse is a single output of a run
type OutputResponse struct {
	RunID  string `json:"run_id"`
	Stage  string `json:"stage"`
	Output string `json:"output"`
}

// RunsResponse lists the runs
type RunsResponse struct {
	Runs []*store.Run `json:"runs"`
}

// ToolsResponse lists the research tools
type ToolsResponse struct {
	Tools []tools.Info `json:"tools"`
}

func (s *Server) home(c echo.Context) error {
	return c.JSON(http.StatusOK, MessageResponse{Message: "API is running successfully!"})
}

func (s *Server) hello(c echo.Context) error {
	return c.JSON(http.StatusOK, MessageResponse{Message: "Welcome to Multi-Agent API"})
}

func (s *Server) docsInfo(c echo.Context) error {
	return c.JSON(http.StatusOK, DocsResponse{AvailableEndpoints: s.endpoints})
}

func (s *Server) healthz(c echo.Context) error {
	return c.String(http.StatusOK, "ok")
}

func (s *Server) echoInput(c echo.Context) error {
	var req UserRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	return c.JSON(http.StatusOK, EchoResponse{YouSent: req.UserInput})
}

func (s *Server) runAgents(c echo.Context) error {
	var req UserRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := s.validate.Struct(RunRequest(req)); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "user_input is required")
	}

	ctx := c.Request().Context()
	if s.runTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.runTimeout)
		defer cancel()
	}

	run, err := s.runner.Run(ctx, orchestrator.SourceAPI, req.UserInput)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, run)
}

func (s *Server) listRuns(c echo.Context) error {
	limit := DefaultListLimit
	if val := c.QueryParam("limit"); val != "" {
		n, err := strconv.Atoi(val)
		if err != nil || n < 1 {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid limit")
		}
		limit = n
	}

	runs, err := s.runner.Store().List(c.Request().Context(), limit)
	if err != nil {
		return err
	}
	if runs == nil {
		runs = []*store.Run{}
	}
	return c.JSON(http.StatusOK, RunsResponse{Runs: runs})
}

func (s *Server) getRun(c echo.Context) error {
	run, err := s.runner.Store().Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, run)
}

func (s *Server) getRunOutput(c echo.Context) error {
	run, err := s.runner.Store().Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}

	stage := c.Param("output")
	out, ok := run.Output(stage)
	if !ok {
		return echo.NewHTTPError(http.StatusBadRequest, "output must be one of research, summary, email")
	}
	return c.JSON(http.StatusOK, OutputResponse{
		RunID:  run.ID,
		Stage:  stage,
		Output: out,
	})
}

func (s *Server) listTools(c echo.Context) error {
	return c.JSON(http.StatusOK, ToolsResponse{Tools: tools.Describe(s.runner.Tools()...)})
}
