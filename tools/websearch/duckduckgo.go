package websearch

import (
	"bytes"
	"context"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/cockroachdb/errors"
	"github.com/effective-security/agentflow/tools/internal/httpclient"
	"golang.org/x/time/rate"
)

// DuckDuckGoURL is the HTML endpoint of DuckDuckGo
const DuckDuckGoURL = "https://html.duckduckgo.com/html/"

// DuckDuckGo scrapes the DuckDuckGo HTML results page
type DuckDuckGo struct {
	BaseURL string
	client  *httpclient.Client
	limiter *rate.Limiter
}

// NewDuckDuckGo returns the backend, requests are limited to one per second
func NewDuckDuckGo(httpClient *http.Client, userAgent string) *DuckDuckGo {
	return &DuckDuckGo{
		BaseURL: DuckDuckGoURL,
		client:  httpclient.New(httpClient, userAgent),
		limiter: rate.NewLimiter(rate.Every(time.Second), 1),
	}
}

// WithRateLimit overrides the request rate, zero disables the limit
func (d *DuckDuckGo) WithRateLimit(every time.Duration) *DuckDuckGo {
	if every <= 0 {
		d.limiter = rate.NewLimiter(rate.Inf, 1)
	} else {
		d.limiter = rate.NewLimiter(rate.Every(every), 1)
	}
	return d
}

func (d *DuckDuckGo) Name() string {
	return "duckduckgo"
}

// Search returns up to maxResults organic results
func (d *DuckDuckGo) Search(ctx context.Context, query string, maxResults int) ([]Result, error) {
	if err := d.limiter.Wait(ctx); err != nil {
		return nil, errors.WithStack(err)
	}

	form := url.Values{"q": {query}, "b": {""}, "kl": {"wt-wt"}}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, d.BaseURL, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, errors.WithStack(err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "text/html")

	body, err := d.client.Do(req)
	if err != nil {
		return nil, err
	}
	return ParseDuckDuckGo(body, maxResults)
}

// ParseDuckDuckGo extracts results from the HTML page
func ParseDuckDuckGo(body []byte, maxResults int) ([]Result, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, errors.Wrap(err, "failed to parse results page")
	}

	var res []Result
	doc.Find("div.result").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		if s.HasClass("result--ad") {
			return true
		}
		a := s.Find("a.result__a").First()
		href, _ := a.Attr("href")
		r := Result{
			Title:   collapse(a.Text()),
			URL:     resultURL(href),
			Snippet: collapse(s.Find(".result__snippet").First().Text()),
		}
		if r.Title == "" && r.Snippet == "" {
			return true
		}
		res = append(res, r)
		return maxResults <= 0 || len(res) < maxResults
	})
	return res, nil
}

// resultURL unwraps the DuckDuckGo redirect link
func resultURL(href string) string {
	if href == "" {
		return ""
	}
	if strings.HasPrefix(href, "//") {
		href = "https:" + href
	}
	u, err := url.Parse(href)
	if err != nil {
		return href
	}
	if target := u.Query().Get("uddg"); target != "" {
		return target
	}
	return href
}

func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
