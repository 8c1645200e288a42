package websearch_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	tavilyModels "github.com/diverged/tavily-go/models"
	"github.com/effective-security/agentflow/pkg/llmutils"
	"github.com/effective-security/agentflow/tools"
	"github.com/effective-security/agentflow/tools/websearch"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const ddgPage = `<html><body>
<div class="results">
  <div class="result results_links result--ad">
    <a class="result__a" href="https://ads.example.com">Sponsored</a>
    <a class="result__snippet">Buy now</a>
  </div>
  <div class="result results_links">
    <h2><a class="result__a" href="//duckduckgo.com/l/?uddg=https%3A%2F%2Fexample.com%2Fai&amp;rut=abc">AI in
      healthcare</a></h2>
    <a class="result__snippet" href="#">AI helps <b>diagnose</b> diseases.</a>
  </div>
  <div class="result results_links">
    <a class="result__a" href="https://example.org/ml">ML</a>
    <a class="result__snippet">Machine learning   improves imaging.</a>
  </div>
  <div class="result results_links">
    <a class="result__a" href="https://example.net">Third</a>
    <a class="result__snippet">Third snippet.</a>
  </div>
</div>
</body></html>`

func newDDGServer(t *testing.T, page string) *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "AI in healthcare", r.PostForm.Get("q"))
		assert.NotEmpty(t, r.Header.Get("User-Agent"))
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(page))
	}))
}

func TestDuckDuckGo(t *testing.T) {
	server := newDDGServer(t, ddgPage)
	defer server.Close()

	ddg := websearch.NewDuckDuckGo(server.Client(), "").WithRateLimit(0)
	ddg.BaseURL = server.URL

	tool := websearch.New(websearch.WithBackend(ddg), websearch.WithMaxResults(2))
	assert.Equal(t, websearch.ToolName, tool.Name())
	assert.Equal(t, "Search the web using DuckDuckGo and return relevant results.", tool.Description())
	assert.Contains(t, llmutils.ToJSON(tool.Parameters()), `"query"`)

	ctx := context.Background()
	res, err := tool.Run(ctx, &websearch.Input{Query: "AI in healthcare"})
	require.NoError(t, err)
	require.Len(t, res, 2)
	assert.Equal(t, websearch.Result{
		Title:   "AI in healthcare",
		URL:     "https://example.com/ai",
		Snippet: "AI helps diagnose diseases.",
	}, res[0])
	assert.Equal(t, "https://example.org/ml", res[1].URL)

	out, err := tool.Call(ctx, "AI in healthcare")
	require.NoError(t, err)
	assert.Equal(t, "AI helps diagnose diseases. Machine learning improves imaging.", out)

	_, err = tool.Call(ctx, "  ")
	assert.ErrorIs(t, err, tools.ErrEmptyInput)
}

func TestDuckDuckGo_NoResults(t *testing.T) {
	server := newDDGServer(t, `<html><body><div class="no-results">No results.</div></body></html>`)
	defer server.Close()

	ddg := websearch.NewDuckDuckGo(server.Client(), "ua").WithRateLimit(0)
	ddg.BaseURL = server.URL

	out, err := websearch.New(websearch.WithBackend(ddg)).Call(context.Background(), "AI in healthcare")
	require.NoError(t, err)
	assert.Equal(t, websearch.NoResults, out)
}

func TestDuckDuckGo_Error(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer server.Close()

	ddg := websearch.NewDuckDuckGo(server.Client(), "ua").WithRateLimit(0)
	ddg.BaseURL = server.URL + "/html/"

	_, err := websearch.New(websearch.WithBackend(ddg)).Call(context.Background(), "AI in healthcare")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duckduckgo search failed")
}

func TestParseDuckDuckGo(t *testing.T) {
	res, err := websearch.ParseDuckDuckGo([]byte(ddgPage), 0)
	require.NoError(t, err)
	assert.Len(t, res, 3)
	assert.Equal(t, websearch.NoResults, websearch.Snippets(nil))
	assert.Equal(t, "a b", websearch.Snippets([]websearch.Result{{Snippet: " a "}, {Snippet: ""}, {Snippet: "b"}}))
}

func TestTavily(t *testing.T) {
	t.Setenv("TAVILY_API_KEY", "")
	_, err := websearch.NewTavily("", nil)
	assert.EqualError(t, err, "TAVILY_API_KEY is not set")

	t.Setenv("TAVILY_API_KEY", "testkey")

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)

		var req tavilyModels.SearchRequest
		err := json.NewDecoder(r.Body).Decode(&req)
		assert.NoError(t, err)
		assert.Equal(t, "What is capital of France", req.Query)
		assert.True(t, req.IncludeAnswer)

		resp := map[string]any{
			"answer": "Paris",
			"results": []map[string]any{
				{"title": "France", "url": "https://example.com", "content": "Paris is the capital.", "score": 0.9},
			},
		}
		_ = json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	backend, err := websearch.NewBackend("tavily", "", server.Client(), "")
	require.NoError(t, err)
	tv := backend.(*websearch.Tavily)
	tv.BaseURL = server.URL

	tool := websearch.New(websearch.WithBackend(tv))
	out, err := tool.Call(context.Background(), "What is capital of France")
	require.NoError(t, err)
	assert.Equal(t, "Paris Paris is the capital.", out)
}

func TestNewBackend(t *testing.T) {
	b, err := websearch.NewBackend("", "", nil, "")
	require.NoError(t, err)
	assert.Equal(t, "duckduckgo", b.Name())

	b, err = websearch.NewBackend("DDG", "", nil, "")
	require.NoError(t, err)
	assert.Equal(t, "duckduckgo", b.Name())

	_, err = websearch.NewBackend("bing", "", nil, "")
	assert.EqualError(t, err, "unsupported web search backend: bing")

	assert.Equal(t, "duckduckgo", websearch.New().Backend().Name())
}
