package openai

import (
	"net/http"
	"os"

	"github.com/effective-security/x/values"
)

const (
	tokenEnvVarName        = "OPENAI_API_KEY"      //nolint:gosec
	modelEnvVarName        = "OPENAI_MODEL"        //nolint:gosec
	baseURLEnvVarName      = "OPENAI_BASE_URL"     //nolint:gosec
	organizationEnvVarName = "OPENAI_ORGANIZATION" //nolint:gosec
)

// DefaultModel is used when no model is configured.
const DefaultModel = "gpt-4o-mini"

type options struct {
	token        string
	model        string
	baseURL      string
	organization string
	httpClient   *http.Client
	temperature  float64
	maxTokens    int
}

// Option is a functional option for the OpenAI client.
type Option func(*options)

func defaultOptions() options {
	return options{
		token:        os.Getenv(tokenEnvVarName),
		model:        values.StringsCoalesce(os.Getenv(modelEnvVarName), DefaultModel),
		baseURL:      os.Getenv(baseURLEnvVarName),
		organization: os.Getenv(organizationEnvVarName),
		temperature:  0.7,
	}
}

// WithToken passes the OpenAI API token to the client. If not set, the token
// is read from the OPENAI_API_KEY environment variable.
func WithToken(token string) Option {
	return func(opts *options) {
		opts.token = token
	}
}

// WithModel passes the OpenAI model to the client. If not set, the model
// is read from the OPENAI_MODEL environment variable.
func WithModel(model string) Option {
	return func(opts *options) {
		if model != "" {
			opts.model = model
		}
	}
}

// WithBaseURL passes the OpenAI base url to the client. If not set, the base url
// is read from the OPENAI_BASE_URL environment variable.
func WithBaseURL(baseURL string) Option {
	return func(opts *options) {
		opts.baseURL = baseURL
	}
}

// WithOrganization passes the OpenAI organization to the client.
func WithOrganization(organization string) Option {
	return func(opts *options) {
		opts.organization = organization
	}
}

// WithHTTPClient allows setting a custom HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(opts *options) {
		opts.httpClient = client
	}
}

// WithDefaultTemperature sets the temperature used when the call does not specify one.
func WithDefaultTemperature(t float64) Option {
	return func(opts *options) {
		opts.temperature = t
	}
}

// WithDefaultMaxTokens sets the completion limit used when the call does not specify one.
func WithDefaultMaxTokens(n int) Option {
	return func(opts *options) {
		opts.maxTokens = n
	}
}
