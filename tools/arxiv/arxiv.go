package arxiv

import (
	"context"
	"encoding/xml"
	"net/http"
	"net/url"
	"reflect"
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/effective-security/agentflow/pkg/schema"
	"github.com/effective-security/agentflow/tools"
	"github.com/effective-security/agentflow/tools/internal/httpclient"
	"github.com/effective-security/xlog"
)

var logger = xlog.NewPackageLogger("github.com/effective-security/agentflow/tools", "arxiv")

const (
	// ToolName is the name the agent uses in the Action line
	ToolName = "arxiv_search"
	// DefaultBaseURL is the arXiv query API
	DefaultBaseURL = "https://export.arxiv.org/api/query"
	// DefaultMaxResults is the number of papers returned
	DefaultMaxResults = 3
	// NoPapers is returned when the search finds nothing
	NoPapers = "No papers found on Arxiv."
)

// Input is the tool input
type Input struct {
	Query string `json:"query" jsonschema:"title=Query,description=The research topic to search papers for."`
}

var inputSchema = schema.MustNew(reflect.TypeOf(Input{}))

// Paper is a search result
type Paper struct {
	ID        string   `xml:"id" json:"id"`
	Title     string   `xml:"title" json:"title"`
	Summary   string   `xml:"summary" json:"summary,omitempty"`
	Published string   `xml:"published" json:"published,omitempty"`
	Authors   []Author `xml:"author" json:"authors,omitempty"`
}

// Author of a paper
type Author struct {
	Name string `xml:"name" json:"name"`
}

type feed struct {
	XMLName xml.Name `xml:"feed"`
	Entries []Paper  `xml:"entry"`
}

// Tool searches arXiv papers
type Tool struct {
	baseURL    string
	maxResults int
	client     *httpclient.Client
}

// ensure Tool implements the tools.ITool interface
var _ tools.ITool = (*Tool)(nil)

// Option configures the tool
type Option func(*Tool)

// WithBaseURL sets the API endpoint
func WithBaseURL(u string) Option {
	return func(t *Tool) {
		if u != "" {
			t.baseURL = u
		}
	}
}

// WithMaxResults sets the number of papers
func WithMaxResults(n int) Option {
	return func(t *Tool) {
		if n > 0 {
			t.maxResults = n
		}
	}
}

// WithHTTPClient sets the HTTP client and user agent
func WithHTTPClient(c *http.Client, userAgent string) Option {
	return func(t *Tool) {
		t.client = httpclient.New(c, userAgent)
	}
}

// New returns the arXiv tool
func New(opts ...Option) *Tool {
	t := &Tool{
		baseURL:    DefaultBaseURL,
		maxResults: DefaultMaxResults,
	}
	for _, opt := range opts {
		opt(t)
	}
	if t.client == nil {
		t.client = httpclient.New(nil, "")
	}
	return t
}

func (t *Tool) Name() string {
	return ToolName
}

func (t *Tool) Description() string {
	return "Search Arxiv for research papers and return top 3 paper titles with links."
}

func (t *Tool) Parameters() any {
	return inputSchema.Parameters
}

// Run returns the most relevant papers
func (t *Tool) Run(ctx context.Context, in *Input) ([]Paper, error) {
	query := strings.TrimSpace(in.Query)
	if query == "" {
		return nil, errors.WithStack(tools.ErrEmptyInput)
	}

	body, err := t.client.Get(ctx, t.baseURL, url.Values{
		"search_query": {query},
		"start":        {"0"},
		"max_results":  {strconv.Itoa(t.maxResults)},
		"sortBy":       {"relevance"},
		"sortOrder":    {"descending"},
	})
	if err != nil {
		return nil, err
	}

	var f feed
	if err = xml.Unmarshal(body, &f); err != nil {
		return nil, errors.Wrap(err, "failed to parse feed")
	}

	papers := f.Entries
	if len(papers) > t.maxResults {
		papers = papers[:t.maxResults]
	}
	for i := range papers {
		papers[i].Title = collapse(papers[i].Title)
		papers[i].Summary = collapse(papers[i].Summary)
		papers[i].ID = strings.TrimSpace(papers[i].ID)
	}
	logger.ContextKV(ctx, xlog.DEBUG,
		"status", "searched",
		"query", query,
		"papers", len(papers))
	return papers, nil
}

// Call returns "Title: ...\nLink: ..." blocks separated by a blank line,
// failures are returned as "Arxiv error: ..." observation
func (t *Tool) Call(ctx context.Context, input string) (string, error) {
	papers, err := t.Run(ctx, &Input{Query: input})
	if err != nil {
		return "Arxiv error: " + err.Error(), nil
	}
	return Format(papers), nil
}

// Format renders the papers for the agent
func Format(papers []Paper) string {
	if len(papers) == 0 {
		return NoPapers
	}
	blocks := make([]string, 0, len(papers))
	for _, p := range papers {
		blocks = append(blocks, "Title: "+p.Title+"\nLink: "+p.ID)
	}
	return strings.Join(blocks, "\n\n")
}

func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
