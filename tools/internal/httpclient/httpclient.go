// Package httpclient has the HTTP plumbing shared by the lookup tools.
package httpclient

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/tidwall/gjson"
)

// DefaultUserAgent is sent when the tool is not configured with one
const DefaultUserAgent = "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0 Safari/537.36 agentflow"

// DefaultTimeout for tool requests
const DefaultTimeout = 20 * time.Second

// MaxBodySize limits the response body read by tools
const MaxBodySize = 4 << 20

// Client issues requests for a tool
type Client struct {
	HTTPClient *http.Client
	UserAgent  string
}

// New returns a client, nil httpClient uses a client with DefaultTimeout
func New(httpClient *http.Client, userAgent string) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: DefaultTimeout}
	}
	if userAgent == "" {
		userAgent = DefaultUserAgent
	}
	return &Client{
		HTTPClient: httpClient,
		UserAgent:  userAgent,
	}
}

// StatusError is returned for non 2xx responses
type StatusError struct {
	StatusCode int
	URL        string
}

func (e *StatusError) Error() string {
	return "unexpected status " + http.StatusText(e.StatusCode) + " from " + e.URL
}

// Do sends the request and returns the body of a successful response
func (c *Client) Do(req *http.Request) ([]byte, error) {
	req.Header.Set("User-Agent", c.UserAgent)
	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, MaxBodySize))
		return nil, errors.WithStack(&StatusError{StatusCode: resp.StatusCode, URL: req.URL.Host + req.URL.Path})
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, MaxBodySize))
	if err != nil {
		return nil, errors.Wrap(err, "failed to read response")
	}
	return body, nil
}

// Get fetches the URL with the query parameters
func (c *Client) Get(ctx context.Context, base string, params url.Values) ([]byte, error) {
	u := base
	if len(params) > 0 {
		u += "?" + params.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	return c.Do(req)
}

// GetJSON fetches the URL and parses the JSON body
func (c *Client) GetJSON(ctx context.Context, base string, params url.Values) (gjson.Result, error) {
	body, err := c.Get(ctx, base, params)
	if err != nil {
		return gjson.Result{}, err
	}
	if !gjson.ValidBytes(body) {
		return gjson.Result{}, errors.New("invalid JSON response")
	}
	return gjson.ParseBytes(body), nil
}
