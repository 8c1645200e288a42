package anthropic

import (
	"time"

	"github.com/anthropics/anthropic-sdk-go/option"
)

const (
	TokenEnvVarName = "ANTHROPIC_API_KEY" //nolint:gosec
)

// DefaultModel is used when no model is configured.
const DefaultModel = "claude-3-5-haiku-latest"

type Options struct {
	Token          string
	Model          string
	BaseURL        string
	HTTPClient     option.HTTPClient
	RequestTimeout time.Duration
	Temperature    float64
}

type Option func(*Options)

// WithToken passes the Anthropic API token to the client. If not set, the token
// is read from the ANTHROPIC_API_KEY environment variable.
func WithToken(token string) Option {
	return func(opts *Options) {
		opts.Token = token
	}
}

// WithModel passes the Anthropic model to the client.
func WithModel(model string) Option {
	return func(opts *Options) {
		if model != "" {
			opts.Model = model
		}
	}
}

// WithBaseURL passes the Anthropic base URL to the client.
// If not set, the default base URL is used.
func WithBaseURL(baseURL string) Option {
	return func(opts *Options) {
		opts.BaseURL = baseURL
	}
}

// WithHTTPClient allows setting a custom HTTP client.
func WithHTTPClient(client option.HTTPClient) Option {
	return func(opts *Options) {
		opts.HTTPClient = client
	}
}

// WithRequestTimeout limits a single API request.
func WithRequestTimeout(d time.Duration) Option {
	return func(opts *Options) {
		opts.RequestTimeout = d
	}
}

// WithDefaultTemperature sets the temperature used when the call does not specify one.
func WithDefaultTemperature(t float64) Option {
	return func(opts *Options) {
		opts.Temperature = t
	}
}
