package wikipedia_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/effective-security/agentflow/tools/wikipedia"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newServer(t *testing.T) *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/w/api.php", r.URL.Path)
		q := r.URL.Query()
		w.Header().Set("Content-Type", "application/json")

		switch {
		case q.Get("list") == "search":
			assert.Equal(t, "1", q.Get("srlimit"))
			switch q.Get("srsearch") {
			case "AI in healthcare":
				_, _ = w.Write([]byte(`{"query":{"searchinfo":{},"search":[{"ns":0,"title":"Artificial intelligence in healthcare"}]}}`))
			case "Mercury":
				_, _ = w.Write([]byte(`{"query":{"search":[{"title":"Mercury"}]}}`))
			case "artifical inteligence":
				_, _ = w.Write([]byte(`{"query":{"searchinfo":{"suggestion":"AI in healthcare"},"search":[]}}`))
			case "loop":
				_, _ = w.Write([]byte(`{"query":{"searchinfo":{"suggestion":"loop2"},"search":[]}}`))
			case "loop2":
				_, _ = w.Write([]byte(`{"query":{"searchinfo":{"suggestion":"loop"},"search":[]}}`))
			case "broken":
				w.WriteHeader(http.StatusInternalServerError)
			default:
				_, _ = w.Write([]byte(`{"query":{"searchinfo":{},"search":[]}}`))
			}
		case q.Get("prop") == "links":
			_, _ = w.Write([]byte(`{"query":{"pages":[{"title":"Mercury","links":[{"title":"Mercury (planet)"},{"title":"Mercury (element)"}]}]}}`))
		default:
			assert.Equal(t, "3", q.Get("exsentences"))
			assert.Equal(t, "1", q.Get("explaintext"))
			switch q.Get("titles") {
			case "Artificial intelligence in healthcare":
				_, _ = w.Write([]byte(`{"query":{"pages":[{"pageid":1,"title":"Artificial intelligence in healthcare","fullurl":"https://en.wikipedia.org/wiki/Artificial_intelligence_in_healthcare","extract":"Artificial intelligence in healthcare is the application of AI. It analyzes data. It is growing.\n"}]}}`))
			case "Mercury":
				_, _ = w.Write([]byte(`{"query":{"pages":[{"pageid":2,"title":"Mercury","pageprops":{"disambiguation":""},"extract":"Mercury may refer to:"}]}}`))
			}
		}
	}))
}

func TestWikipedia(t *testing.T) {
	server := newServer(t)
	defer server.Close()

	tool := wikipedia.New(wikipedia.WithBaseURL(server.URL+"/"), wikipedia.WithHTTPClient(server.Client(), "test"))
	assert.Equal(t, wikipedia.ToolName, tool.Name())
	assert.Equal(t, "Search Wikipedia and return a short summary about the topic.", tool.Description())
	assert.NotNil(t, tool.Parameters())

	ctx := context.Background()
	s, err := tool.Run(ctx, &wikipedia.Input{Query: "AI in healthcare"})
	require.NoError(t, err)
	assert.Equal(t, "Artificial intelligence in healthcare", s.Title)
	assert.Equal(t, "https://en.wikipedia.org/wiki/Artificial_intelligence_in_healthcare", s.URL)

	out, err := tool.Call(ctx, "AI in healthcare")
	require.NoError(t, err)
	assert.Equal(t, "Artificial intelligence in healthcare is the application of AI. It analyzes data. It is growing.", out)

	// suggestion
	out, err = tool.Call(ctx, "artifical inteligence")
	require.NoError(t, err)
	assert.Contains(t, out, "Artificial intelligence in healthcare is")

	_, err = tool.Run(ctx, &wikipedia.Input{Query: "Mercury"})
	var de *wikipedia.DisambiguationError
	require.True(t, errors.As(err, &de))
	assert.Equal(t, []string{"Mercury (planet)", "Mercury (element)"}, de.Options)

	out, err = tool.Call(ctx, "Mercury")
	require.NoError(t, err)
	assert.Equal(t, "Wikipedia error: \"Mercury\" may refer to: \nMercury (planet)\nMercury (element)", out)
}

func TestWikipedia_Errors(t *testing.T) {
	server := newServer(t)
	defer server.Close()

	tool := wikipedia.New(wikipedia.WithBaseURL(server.URL), wikipedia.WithHTTPClient(server.Client(), ""), wikipedia.WithSentences(3))
	ctx := context.Background()

	out, err := tool.Call(ctx, "xyzzy")
	require.NoError(t, err)
	assert.Equal(t, `Wikipedia error: Page id "xyzzy" does not match any pages. Try another id!`, out)

	out, err = tool.Call(ctx, "loop")
	require.NoError(t, err)
	assert.Equal(t, `Wikipedia error: Page id "loop2" does not match any pages. Try another id!`, out)

	out, err = tool.Call(ctx, "broken")
	require.NoError(t, err)
	assert.Contains(t, out, "Wikipedia error: unexpected status Internal Server Error")

	out, err = tool.Call(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, "Wikipedia error: empty tool input", out)
}
