package websearch

import (
	"context"
	"net/http"
	"reflect"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/effective-security/agentflow/pkg/schema"
	"github.com/effective-security/agentflow/tools"
	"github.com/effective-security/xlog"
)

var logger = xlog.NewPackageLogger("github.com/effective-security/agentflow/tools", "websearch")

const (
	// ToolName is the name the agent uses in the Action line
	ToolName = "web_search"
	// NoResults is returned when the search finds nothing
	NoResults = "No good DuckDuckGo Search Result was found"
	// DefaultMaxResults is the number of results joined into the observation
	DefaultMaxResults = 5
)

// Input is the tool input
type Input struct {
	Query string `json:"query" jsonschema:"title=Query,description=The query to search the web for."`
}

var inputSchema = schema.MustNew(reflect.TypeOf(Input{}))

// Result is a single search hit
type Result struct {
	Title   string `json:"title"`
	URL     string `json:"url"`
	Snippet string `json:"snippet"`
}

// Backend performs the search
type Backend interface {
	Name() string
	Search(ctx context.Context, query string, maxResults int) ([]Result, error)
}

// Tool searches the web
type Tool struct {
	backend    Backend
	maxResults int
}

// ensure Tool implements the tools.ITool interface
var _ tools.ITool = (*Tool)(nil)

// Option configures the tool
type Option func(*Tool)

// WithBackend sets the search backend, DuckDuckGo by default
func WithBackend(b Backend) Option {
	return func(t *Tool) {
		t.backend = b
	}
}

// WithMaxResults limits the number of results
func WithMaxResults(n int) Option {
	return func(t *Tool) {
		if n > 0 {
			t.maxResults = n
		}
	}
}

// New returns the web search tool
func New(opts ...Option) *Tool {
	t := &Tool{
		maxResults: DefaultMaxResults,
	}
	for _, opt := range opts {
		opt(t)
	}
	if t.backend == nil {
		t.backend = NewDuckDuckGo(nil, "")
	}
	return t
}

// Backend returns the configured search backend
func (t *Tool) Backend() Backend {
	return t.backend
}

func (t *Tool) Name() string {
	return ToolName
}

func (t *Tool) Description() string {
	return "Search the web using DuckDuckGo and return relevant results."
}

func (t *Tool) Parameters() any {
	return inputSchema.Parameters
}

// Run returns the search results
func (t *Tool) Run(ctx context.Context, in *Input) ([]Result, error) {
	query := strings.TrimSpace(in.Query)
	if query == "" {
		return nil, errors.WithStack(tools.ErrEmptyInput)
	}
	res, err := t.backend.Search(ctx, query, t.maxResults)
	if err != nil {
		return nil, errors.WithMessagef(err, "%s search failed", t.backend.Name())
	}
	if len(res) > t.maxResults {
		res = res[:t.maxResults]
	}
	logger.ContextKV(ctx, xlog.DEBUG,
		"status", "searched",
		"backend", t.backend.Name(),
		"results", len(res))
	return res, nil
}

// Call returns the snippets of the results joined by a space.
// Errors are returned to the caller.
func (t *Tool) Call(ctx context.Context, input string) (string, error) {
	res, err := t.Run(ctx, &Input{Query: input})
	if err != nil {
		return "", err
	}
	return Snippets(res), nil
}

// Snippets joins the result snippets, or returns NoResults
func Snippets(res []Result) string {
	parts := make([]string, 0, len(res))
	for _, r := range res {
		if s := strings.TrimSpace(r.Snippet); s != "" {
			parts = append(parts, s)
		}
	}
	if len(parts) == 0 {
		return NoResults
	}
	return strings.Join(parts, " ")
}

// NewBackend returns the backend by name: duckduckgo (default) or tavily
func NewBackend(name, apiKey string, httpClient *http.Client, userAgent string) (Backend, error) {
	switch strings.ToLower(name) {
	case "", "duckduckgo", "ddg":
		return NewDuckDuckGo(httpClient, userAgent), nil
	case "tavily":
		return NewTavily(apiKey, httpClient)
	}
	return nil, errors.Errorf("unsupported web search backend: %s", name)
}
