package wikipedia

import (
	"context"
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

var logger = xlog.NewPackageLogger("github.com/effective-security/agentflow/tools", "wikipedia")

const (
	// ToolName is the name the agent uses in the Action line
	ToolName = "wikipedia_search"
	// DefaultBaseURL is the English Wikipedia
	DefaultBaseURL = "https://en.wikipedia.org"
	// DefaultSentences is the length of the summary
	DefaultSentences = 3
)

// Input is the tool input
type Input struct {
	Query string `json:"query" jsonschema:"title=Query,description=The topic to look up on Wikipedia."`
}

var inputSchema = schema.MustNew(reflect.TypeOf(Input{}))

// PageError is returned when no page matches the query
type PageError struct {
	Query string
}

func (e *PageError) Error() string {
	return "Page id \"" + e.Query + "\" does not match any pages. Try another id!"
}

// DisambiguationError is returned when the title refers to a disambiguation page
type DisambiguationError struct {
	Title   string
	Options []string
}

func (e *DisambiguationError) Error() string {
	return "\"" + e.Title + "\" may refer to: \n" + strings.Join(e.Options, "\n")
}

// Summary is the page summary
type Summary struct {
	Title   string `json:"title"`
	URL     string `json:"url"`
	Extract string `json:"extract"`
}

// Tool returns short Wikipedia summaries
type Tool struct {
	baseURL   string
	sentences int
	client    *httpclient.Client
}

// ensure Tool implements the tools.ITool interface
var _ tools.ITool = (*Tool)(nil)

// Option configures the tool
type Option func(*Tool)

// WithBaseURL sets the Wikipedia site, for example https://de.wikipedia.org
func WithBaseURL(u string) Option {
	return func(t *Tool) {
		if u != "" {
			t.baseURL = strings.TrimSuffix(u, "/")
		}
	}
}

// WithSentences sets the number of sentences in the summary
func WithSentences(n int) Option {
	return func(t *Tool) {
		if n > 0 {
			t.sentences = n
		}
	}
}

// WithHTTPClient sets the HTTP client and user agent
func WithHTTPClient(c *http.Client, userAgent string) Option {
	return func(t *Tool) {
		t.client = httpclient.New(c, userAgent)
	}
}

// New returns the Wikipedia tool
func New(opts ...Option) *Tool {
	t := &Tool{
		baseURL:   DefaultBaseURL,
		sentences: DefaultSentences,
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
	return "Search Wikipedia and return a short summary about the topic."
}

func (t *Tool) Parameters() any {
	return inputSchema.Parameters
}

// Run finds the best matching page and returns its summary
func (t *Tool) Run(ctx context.Context, in *Input) (*Summary, error) {
	query := strings.TrimSpace(in.Query)
	if query == "" {
		return nil, errors.WithStack(tools.ErrEmptyInput)
	}

	title, err := t.search(ctx, query, true)
	if err != nil {
		return nil, err
	}

	api := t.baseURL + "/w/api.php"
	res, err := t.client.GetJSON(ctx, api, url.Values{
		"action":        {"query"},
		"prop":          {"extracts|pageprops|info"},
		"inprop":        {"url"},
		"explaintext":   {"1"},
		"exsentences":   {strconv.Itoa(t.sentences)},
		"titles":        {title},
		"redirects":     {"1"},
		"format":        {"json"},
		"formatversion": {"2"},
	})
	if err != nil {
		return nil, err
	}

	page := res.Get("query.pages.0")
	if !page.Exists() || page.Get("missing").Bool() || page.Get("invalid").Bool() {
		return nil, errors.WithStack(&PageError{Query: title})
	}
	if page.Get("pageprops.disambiguation").Exists() {
		return nil, errors.WithStack(&DisambiguationError{
			Title:   page.Get("title").String(),
			Options: t.links(ctx, page.Get("title").String()),
		})
	}

	s := &Summary{
		Title:   page.Get("title").String(),
		URL:     page.Get("fullurl").String(),
		Extract: strings.TrimSpace(page.Get("extract").String()),
	}
	logger.ContextKV(ctx, xlog.DEBUG,
		"status", "summary",
		"query", query,
		"title", s.Title)
	return s, nil
}

func (t *Tool) search(ctx context.Context, query string, suggest bool) (string, error) {
	res, err := t.client.GetJSON(ctx, t.baseURL+"/w/api.php", url.Values{
		"action":   {"query"},
		"list":     {"search"},
		"srsearch": {query},
		"srlimit":  {"1"},
		"srinfo":   {"suggestion"},
		"srprop":   {""},
		"format":   {"json"},
	})
	if err != nil {
		return "", err
	}
	if msg := res.Get("error.info").String(); msg != "" {
		return "", errors.New(msg)
	}

	title := res.Get("query.search.0.title").String()
	if title == "" {
		// retry once with the spelling suggestion
		if suggestion := res.Get("query.searchinfo.suggestion").String(); suggest && suggestion != "" && suggestion != query {
			return t.search(ctx, suggestion, false)
		}
		return "", errors.WithStack(&PageError{Query: query})
	}
	return title, nil
}

// links returns the titles listed on a disambiguation page
func (t *Tool) links(ctx context.Context, title string) []string {
	res, err := t.client.GetJSON(ctx, t.baseURL+"/w/api.php", url.Values{
		"action":        {"query"},
		"prop":          {"links"},
		"titles":        {title},
		"pllimit":       {"20"},
		"plnamespace":   {"0"},
		"format":        {"json"},
		"formatversion": {"2"},
	})
	if err != nil {
		return nil
	}
	var options []string
	for _, l := range res.Get("query.pages.0.links.#.title").Array() {
		options = append(options, l.String())
	}
	return options
}

// Call returns the summary, failures are returned as "Wikipedia error: ..." observation
func (t *Tool) Call(ctx context.Context, input string) (string, error) {
	s, err := t.Run(ctx, &Input{Query: input})
	if err != nil {
		logger.ContextKV(ctx, xlog.DEBUG,
			"reason", "wikipedia",
			"query", input,
			"err", err.Error())
		return "Wikipedia error: " + err.Error(), nil
	}
	return s.Extract, nil
}
