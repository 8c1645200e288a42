package websearch

import (
	"context"
	"net/http"
	"os"

	"github.com/cockroachdb/errors"
	tavilygo "github.com/diverged/tavily-go"
	tavilyModels "github.com/diverged/tavily-go/models"
	"github.com/effective-security/x/values"
)

// Tavily uses the Tavily search API
type Tavily struct {
	BaseURL    string
	apiKey     string
	httpClient *http.Client
}

// NewTavily returns the backend, the key falls back to TAVILY_API_KEY
func NewTavily(apiKey string, httpClient *http.Client) (*Tavily, error) {
	apiKey = values.StringsCoalesce(apiKey, os.Getenv("TAVILY_API_KEY"))
	if apiKey == "" {
		return nil, errors.New("TAVILY_API_KEY is not set")
	}
	return &Tavily{
		apiKey:     apiKey,
		httpClient: httpClient,
	}, nil
}

func (t *Tavily) Name() string {
	return "tavily"
}

// Search returns the results, the aggregated answer comes first when present
func (t *Tavily) Search(ctx context.Context, query string, maxResults int) ([]Result, error) {
	client := tavilygo.NewClient(t.apiKey)
	if t.BaseURL != "" {
		client.BaseURL = t.BaseURL
	}
	if t.httpClient != nil {
		client.HTTPClient = t.httpClient
	}

	searchResp, err := tavilygo.Search(client, tavilyModels.SearchRequest{
		Query:         query,
		SearchDepth:   "basic",
		IncludeAnswer: true,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to perform search")
	}
	if err = ctx.Err(); err != nil {
		return nil, errors.WithStack(err)
	}

	res := make([]Result, 0, maxResults)
	if searchResp.Answer != "" {
		res = append(res, Result{Title: "Answer", Snippet: searchResp.Answer})
	}
	for _, r := range searchResp.Results {
		res = append(res, Result{
			Title:   r.Title,
			URL:     r.URL,
			Snippet: r.Content,
		})
	}
	return res, nil
}
