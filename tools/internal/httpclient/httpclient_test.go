package httpclient_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/effective-security/agentflow/tools/internal/httpclient"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "test-agent", r.Header.Get("User-Agent"))
		switch r.URL.Path {
		case "/json":
			assert.Equal(t, "Paris", r.URL.Query().Get("name"))
			_, _ = w.Write([]byte(`{"results":[{"latitude":48.85}]}`))
		case "/text":
			_, _ = w.Write([]byte(`not json`))
		default:
			w.WriteHeader(http.StatusServiceUnavailable)
		}
	}))
	defer server.Close()

	ctx := context.Background()
	c := httpclient.New(server.Client(), "test-agent")

	res, err := c.GetJSON(ctx, server.URL+"/json", url.Values{"name": {"Paris"}})
	require.NoError(t, err)
	assert.Equal(t, 48.85, res.Get("results.0.latitude").Float())

	_, err = c.GetJSON(ctx, server.URL+"/text", nil)
	assert.EqualError(t, err, "invalid JSON response")

	_, err = c.Get(ctx, server.URL+"/down", nil)
	require.Error(t, err)
	var se *httpclient.StatusError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, http.StatusServiceUnavailable, se.StatusCode)
	assert.Contains(t, err.Error(), "unexpected status Service Unavailable from 127.0.0.1")

	d := httpclient.New(nil, "")
	assert.Equal(t, httpclient.DefaultUserAgent, d.UserAgent)
	assert.Equal(t, httpclient.DefaultTimeout, d.HTTPClient.Timeout)
}
