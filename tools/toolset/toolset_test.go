package toolset_test

import (
	"testing"

	"github.com/effective-security/agentflow/tools"
	"github.com/effective-security/agentflow/tools/toolset"
	"github.com/effective-security/agentflow/tools/websearch"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	list, err := toolset.New(nil)
	require.NoError(t, err)
	assert.Equal(t, "web_search, wikipedia_search, arxiv_search, get_weather, calculator", tools.Names(list...))

	list, err = toolset.New(&toolset.Config{
		Enabled: []string{"calculator", "get_weather"},
		Timeout: "5s",
	})
	require.NoError(t, err)
	assert.Equal(t, "get_weather, calculator", tools.Names(list...))

	t.Setenv("TAVILY_API_KEY", "key")
	list, err = toolset.New(&toolset.Config{
		Enabled:          []string{"web_search"},
		WebSearchBackend: "tavily",
	})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "tavily", list[0].(*websearch.Tool).Backend().Name())
}

func TestNew_Errors(t *testing.T) {
	_, err := toolset.New(&toolset.Config{Timeout: "soon"})
	assert.ErrorContains(t, err, "invalid tools timeout")

	_, err = toolset.New(&toolset.Config{Enabled: []string{"python_repl"}})
	assert.EqualError(t, err, "unknown tool: python_repl")

	_, err = toolset.New(&toolset.Config{WebSearchBackend: "bing"})
	assert.EqualError(t, err, "unsupported web search backend: bing")

	t.Setenv("TAVILY_API_KEY", "")
	_, err = toolset.New(&toolset.Config{WebSearchBackend: "tavily"})
	assert.EqualError(t, err, "TAVILY_API_KEY is not set")
}
