package toolset

import (
	"net/http"
	"slices"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/effective-security/agentflow/tools"
	"github.com/effective-security/agentflow/tools/arxiv"
	"github.com/effective-security/agentflow/tools/calculator"
	"github.com/effective-security/agentflow/tools/weather"
	"github.com/effective-security/agentflow/tools/websearch"
	"github.com/effective-security/agentflow/tools/wikipedia"
	"github.com/effective-security/x/values"
	"github.com/effective-security/xlog"
)

var logger = xlog.NewPackageLogger("github.com/effective-security/agentflow/tools", "toolset")

// Default lists the research tools in prompt order
var Default = []string{
	websearch.ToolName,
	wikipedia.ToolName,
	arxiv.ToolName,
	weather.ToolName,
	calculator.ToolName,
}

// Config specifies the research tools
type Config struct {
	// Enabled lists the tool names, all tools when empty
	Enabled []string `json:"enabled,omitempty" yaml:"enabled,omitempty"`
	// WebSearchBackend is duckduckgo (default) or tavily
	WebSearchBackend string `json:"web_search_backend,omitempty" yaml:"web_search_backend,omitempty" validate:"omitempty,oneof=duckduckgo ddg tavily"`
	// TavilyAPIKey falls back to TAVILY_API_KEY
	TavilyAPIKey string `json:"tavily_api_key,omitempty" yaml:"tavily_api_key,omitempty"`
	// WebSearchResults is the number of search results in an observation
	WebSearchResults int `json:"web_search_results,omitempty" yaml:"web_search_results,omitempty" validate:"gte=0"`
	// WikipediaURL selects the Wikipedia site
	WikipediaURL string `json:"wikipedia_url,omitempty" yaml:"wikipedia_url,omitempty" validate:"omitempty,url"`
	// Timeout of a single tool HTTP request, for example 20s
	Timeout string `json:"timeout,omitempty" yaml:"timeout,omitempty"`
	// UserAgent sent by the tools
	UserAgent string `json:"user_agent,omitempty" yaml:"user_agent,omitempty"`
}

// New creates the enabled tools
func New(cfg *Config) ([]tools.ITool, error) {
	if cfg == nil {
		cfg = &Config{}
	}

	timeout := 20 * time.Second
	if cfg.Timeout != "" {
		d, err := time.ParseDuration(cfg.Timeout)
		if err != nil {
			return nil, errors.Wrap(err, "invalid tools timeout")
		}
		timeout = d
	}
	httpClient := &http.Client{Timeout: timeout}

	enabled := cfg.Enabled
	if len(enabled) == 0 {
		enabled = Default
	}

	var list []tools.ITool
	for _, name := range Default {
		if !slices.Contains(enabled, name) {
			continue
		}
		switch name {
		case websearch.ToolName:
			backend, err := websearch.NewBackend(cfg.WebSearchBackend, cfg.TavilyAPIKey, httpClient, cfg.UserAgent)
			if err != nil {
				return nil, err
			}
			list = append(list, websearch.New(
				websearch.WithBackend(backend),
				websearch.WithMaxResults(cfg.WebSearchResults),
			))
		case wikipedia.ToolName:
			list = append(list, wikipedia.New(
				wikipedia.WithBaseURL(cfg.WikipediaURL),
				wikipedia.WithHTTPClient(httpClient, cfg.UserAgent),
			))
		case arxiv.ToolName:
			list = append(list, arxiv.New(arxiv.WithHTTPClient(httpClient, cfg.UserAgent)))
		case weather.ToolName:
			list = append(list, weather.New(weather.WithHTTPClient(httpClient, cfg.UserAgent)))
		case calculator.ToolName:
			list = append(list, calculator.New())
		}
	}

	for _, name := range enabled {
		if !slices.Contains(Default, name) {
			return nil, errors.Errorf("unknown tool: %s", name)
		}
	}

	logger.KV(xlog.INFO,
		"status", "tools_created",
		"tools", tools.Names(list...),
		"web_search", values.StringsCoalesce(cfg.WebSearchBackend, "duckduckgo"))
	return list, nil
}
