package server_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/effective-security/agentflow/internal/config"
	"github.com/effective-security/agentflow/internal/server"
	"github.com/effective-security/agentflow/mocks/mockapp"
	"github.com/effective-security/agentflow/orchestrator"
	"github.com/effective-security/agentflow/store"
	"github.com/effective-security/agentflow/tools"
	"github.com/effective-security/agentflow/tools/calculator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func newServer(t *testing.T) (*server.Server, *mockapp.MockRunner, store.RunStore) {
	ctrl := gomock.NewController(t)
	runner := mockapp.NewMockRunner(ctrl)
	st := store.NewMemoryStore(10)
	runner.EXPECT().Store().Return(st).AnyTimes()
	runner.EXPECT().Tools().Return([]tools.ITool{calculator.New()}).AnyTimes()

	s := server.New(&config.ServerConfig{
		ListenURL:      ":0",
		RunTimeout:     "1m",
		AllowedOrigins: []string{"http://localhost:3000"},
	}, runner)
	return s, runner, st
}

func do(t *testing.T, s *server.Server, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, v any) {
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), v), w.Body.String())
}

func testRun(id string) *store.Run {
	return &store.Run{
		ID:        id,
		Source:    orchestrator.SourceAPI,
		CreatedAt: time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC),
		Result: &orchestrator.Result{
			UserInput:      "AI in healthcare",
			ResearchOutput: "research",
			SummaryOutput:  "summary",
			EmailOutput:    "email",
		},
	}
}

func TestStaticRoutes(t *testing.T) {
	s, _, _ := newServer(t)

	w := do(t, s, http.MethodGet, "/", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"message":"API is running successfully!"}`, w.Body.String())
	assert.NotEmpty(t, w.Header().Get("X-Request-Id"))

	w = do(t, s, http.MethodGet, "/hello", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"message":"Welcome to Multi-Agent API"}`, w.Body.String())

	w = do(t, s, http.MethodGet, "/docs-info", "")
	assert.Equal(t, http.StatusOK, w.Code)
	var docs server.DocsResponse
	decode(t, w, &docs)
	assert.Contains(t, docs.AvailableEndpoints, "POST /run-agents")
	assert.Contains(t, docs.AvailableEndpoints, "GET /docs-info")
	assert.Contains(t, docs.AvailableEndpoints, "GET /ui")

	w = do(t, s, http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ok", w.Body.String())

	w = do(t, s, http.MethodGet, "/metrics", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "agentflow_http_requests_total")

	w = do(t, s, http.MethodGet, "/not-found", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"error":"Not Found"}`, w.Body.String())
}

func TestEcho(t *testing.T) {
	s, _, _ := newServer(t)

	w := do(t, s, http.MethodPost, "/echo", `{"user_input":"hi there"}`)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"you_sent":"hi there"}`, w.Body.String())

	w = do(t, s, http.MethodPost, "/echo", `{"user_input":`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"error":"invalid request body"}`, w.Body.String())
}

func TestRunAgents(t *testing.T) {
	s, runner, _ := newServer(t)

	runner.EXPECT().Run(gomock.Any(), orchestrator.SourceAPI, "AI in healthcare").
		DoAndReturn(func(ctx context.Context, _, _ string) (*store.Run, error) {
			_, ok := ctx.Deadline()
			assert.True(t, ok)
			return testRun("1001"), nil
		})

	w := do(t, s, http.MethodPost, "/run-agents", `{"user_input":"AI in healthcare"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var res map[string]any
	decode(t, w, &res)
	assert.Equal(t, "1001", res["run_id"])
	assert.Equal(t, "AI in healthcare", res["user_input"])
	assert.Equal(t, "research", res["research_output"])
	assert.Equal(t, "summary", res["summary_output"])
	assert.Equal(t, "email", res["email_output"])

	w = do(t, s, http.MethodPost, "/run-agents", `{"user_input":""}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"error":"user_input is required"}`, w.Body.String())

	runner.EXPECT().Run(gomock.Any(), orchestrator.SourceAPI, "  ").
		Return(nil, errors.WithStack(orchestrator.ErrEmptyInput))
	w = do(t, s, http.MethodPost, "/run-agents", `{"user_input":"  "}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"error":"user input is empty"}`, w.Body.String())

	runner.EXPECT().Run(gomock.Any(), orchestrator.SourceAPI, "boom").
		Return(nil, errors.New("research stage failed: quota exceeded"))
	w = do(t, s, http.MethodPost, "/run-agents", `{"user_input":"boom"}`)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"error":"research stage failed: quota exceeded"}`, w.Body.String())
}

func TestRuns(t *testing.T) {
	s, _, st := newServer(t)
	ctx := context.Background()

	w := do(t, s, http.MethodGet, "/runs", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"runs":[]}`, w.Body.String())

	require.NoError(t, st.Put(ctx, testRun("1")))
	require.NoError(t, st.Put(ctx, testRun("2")))

	w = do(t, s, http.MethodGet, "/runs?limit=1", "")
	assert.Equal(t, http.StatusOK, w.Code)
	var list struct {
		Runs []map[string]any `json:"runs"`
	}
	decode(t, w, &list)
	require.Len(t, list.Runs, 1)
	assert.Equal(t, "2", list.Runs[0]["run_id"])

	w = do(t, s, http.MethodGet, "/runs?limit=x", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(t, s, http.MethodGet, "/runs/1", "")
	assert.Equal(t, http.StatusOK, w.Code)
	var run map[string]any
	decode(t, w, &run)
	assert.Equal(t, "1", run["run_id"])
	assert.Equal(t, "email", run["email_output"])

	w = do(t, s, http.MethodGet, "/runs/1/summary", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"run_id":"1","stage":"summary","output":"summary"}`, w.Body.String())

	w = do(t, s, http.MethodGet, "/runs/1/poem", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(t, s, http.MethodGet, "/runs/404", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"error":"404: run not found"}`, w.Body.String())
}

func TestTools(t *testing.T) {
	s, _, _ := newServer(t)

	w := do(t, s, http.MethodGet, "/tools", "")
	assert.Equal(t, http.StatusOK, w.Code)
	var res server.ToolsResponse
	decode(t, w, &res)
	require.Len(t, res.Tools, 1)
	assert.Equal(t, calculator.ToolName, res.Tools[0].Name)
	assert.NotEmpty(t, res.Tools[0].Description)
}

func TestCORS(t *testing.T) {
	s, _, _ := newServer(t)

	req := httptest.NewRequest(http.MethodOptions, "/run-agents", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "http://localhost:3000", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestShutdownNotStarted(t *testing.T) {
	s, _, _ := newServer(t)
	assert.NoError(t, s.Shutdown(context.Background()))
	// a closed server does not start listening
	assert.NoError(t, s.ListenAndServe())
}

func TestListenAndShutdown(t *testing.T) {
	s, _, _ := newServer(t)

	errc := make(chan error, 1)
	go func() {
		errc <- s.ListenAndServe()
	}()
	time.Sleep(50 * time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, s.Shutdown(ctx))

	select {
	case err := <-errc:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}

func TestDisableUI(t *testing.T) {
	ctrl := gomock.NewController(t)
	runner := mockapp.NewMockRunner(ctrl)
	s := server.New(&config.ServerConfig{
		ListenURL:  ":0",
		RunTimeout: "1m",
		DisableUI:  true,
	}, runner)

	w := do(t, s, http.MethodGet, "/docs-info", "")
	assert.Equal(t, http.StatusOK, w.Code)
	var docs server.DocsResponse
	decode(t, w, &docs)
	assert.Contains(t, docs.AvailableEndpoints, "GET /runs")
	assert.NotContains(t, docs.AvailableEndpoints, "GET /ui")

	w = do(t, s, http.MethodGet, "/ui", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}
