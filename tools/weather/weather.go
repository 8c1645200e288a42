package weather

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"reflect"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/effective-security/agentflow/pkg/schema"
	"github.com/effective-security/agentflow/tools"
	"github.com/effective-security/agentflow/tools/internal/httpclient"
	"github.com/effective-security/xlog"
	"github.com/tidwall/gjson"
)

var logger = xlog.NewPackageLogger("github.com/effective-security/agentflow/tools", "weather")

const (
	// ToolName is the name the agent uses in the Action line
	ToolName = "get_weather"
	// DefaultGeocodingURL is the Open-Meteo geocoding API
	DefaultGeocodingURL = "https://geocoding-api.open-meteo.com/v1/search"
	// DefaultForecastURL is the Open-Meteo forecast API
	DefaultForecastURL = "https://api.open-meteo.com/v1/forecast"
)

// ErrCityNotFound is returned by Run when geocoding has no match
var ErrCityNotFound = errors.New("city not found")

// Input is the tool input
type Input struct {
	City string `json:"city" jsonschema:"title=City,description=The city to get the current weather for."`
}

var inputSchema = schema.MustNew(reflect.TypeOf(Input{}))

// Current is the current weather in a city,
// values are kept as reported by the API, empty when missing.
type Current struct {
	City        string  `json:"city"`
	Latitude    float64 `json:"latitude"`
	Longitude   float64 `json:"longitude"`
	Temperature string  `json:"temperature,omitempty"`
	WindSpeed   string  `json:"windspeed,omitempty"`
}

// String renders the observation
func (c *Current) String() string {
	return fmt.Sprintf("Weather in %s: Temperature %s°C, Wind %s km/h",
		c.City, orNA(c.Temperature), orNA(c.WindSpeed))
}

// Tool reports current weather from Open-Meteo
type Tool struct {
	geocodingURL string
	forecastURL  string
	client       *httpclient.Client
}

// ensure Tool implements the tools.ITool interface
var _ tools.ITool = (*Tool)(nil)

// Option configures the tool
type Option func(*Tool)

// WithURLs overrides the geocoding and forecast endpoints
func WithURLs(geocoding, forecast string) Option {
	return func(t *Tool) {
		if geocoding != "" {
			t.geocodingURL = geocoding
		}
		if forecast != "" {
			t.forecastURL = forecast
		}
	}
}

// WithHTTPClient sets the HTTP client and user agent
func WithHTTPClient(c *http.Client, userAgent string) Option {
	return func(t *Tool) {
		t.client = httpclient.New(c, userAgent)
	}
}

// New returns the weather tool
func New(opts ...Option) *Tool {
	t := &Tool{
		geocodingURL: DefaultGeocodingURL,
		forecastURL:  DefaultForecastURL,
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
	return "Get current weather info of a city using Open-Meteo API."
}

func (t *Tool) Parameters() any {
	return inputSchema.Parameters
}

// Run geocodes the city and fetches the current weather
func (t *Tool) Run(ctx context.Context, in *Input) (*Current, error) {
	city := strings.TrimSpace(in.City)
	if city == "" {
		return nil, errors.WithStack(tools.ErrEmptyInput)
	}

	geo, err := t.client.GetJSON(ctx, t.geocodingURL, url.Values{
		"name":  {city},
		"count": {"1"},
	})
	if err != nil {
		return nil, err
	}

	place := geo.Get("results.0")
	if !place.Exists() {
		return nil, errors.WithStack(ErrCityNotFound)
	}

	lat := place.Get("latitude")
	lon := place.Get("longitude")
	res, err := t.client.GetJSON(ctx, t.forecastURL, url.Values{
		"latitude":        {lat.Raw},
		"longitude":       {lon.Raw},
		"current_weather": {"true"},
	})
	if err != nil {
		return nil, err
	}

	current := res.Get("current_weather")
	c := &Current{
		City:        city,
		Latitude:    lat.Float(),
		Longitude:   lon.Float(),
		Temperature: value(current.Get("temperature")),
		WindSpeed:   value(current.Get("windspeed")),
	}
	logger.ContextKV(ctx, xlog.DEBUG,
		"status", "weather",
		"city", city,
		"temperature", c.Temperature)
	return c, nil
}

// Call returns the weather observation, failures are returned as observations
func (t *Tool) Call(ctx context.Context, input string) (string, error) {
	city := strings.TrimSpace(input)
	c, err := t.Run(ctx, &Input{City: city})
	if err != nil {
		if errors.Is(err, ErrCityNotFound) {
			return "City not found: " + city, nil
		}
		return "Weather tool error: " + err.Error(), nil
	}
	return c.String(), nil
}

func value(r gjson.Result) string {
	switch r.Type {
	case gjson.Number:
		return r.Raw
	case gjson.String:
		return r.String()
	}
	return ""
}

func orNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}
