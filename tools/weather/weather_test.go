package weather_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/effective-security/agentflow/tools/weather"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWeather(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/v1/search", func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, "1", q.Get("count"))
		switch q.Get("name") {
		case "Hyderabad":
			_, _ = w.Write([]byte(`{"results":[{"name":"Hyderabad","latitude":17.38405,"longitude":78.45636}]}`))
		case "Nowhere":
			_, _ = w.Write([]byte(`{"generationtime_ms":0.5}`))
		case "Calm":
			_, _ = w.Write([]byte(`{"results":[{"latitude":1.5,"longitude":2}]}`))
		default:
			w.WriteHeader(http.StatusBadGateway)
		}
	})
	mux.HandleFunc("/v1/forecast", func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, "true", q.Get("current_weather"))
		if q.Get("latitude") == "17.38405" {
			assert.Equal(t, "78.45636", q.Get("longitude"))
			_, _ = w.Write([]byte(`{"current_weather":{"temperature":31.2,"windspeed":9.4,"weathercode":1}}`))
			return
		}
		_, _ = w.Write([]byte(`{"current_weather":{"temperature":20}}`))
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	tool := weather.New(
		weather.WithURLs(server.URL+"/v1/search", server.URL+"/v1/forecast"),
		weather.WithHTTPClient(server.Client(), ""),
	)
	assert.Equal(t, weather.ToolName, tool.Name())
	assert.Equal(t, "Get current weather info of a city using Open-Meteo API.", tool.Description())

	ctx := context.Background()
	c, err := tool.Run(ctx, &weather.Input{City: "Hyderabad"})
	require.NoError(t, err)
	assert.Equal(t, 17.38405, c.Latitude)
	assert.Equal(t, "31.2", c.Temperature)

	out, err := tool.Call(ctx, " Hyderabad\n")
	require.NoError(t, err)
	assert.Equal(t, "Weather in Hyderabad: Temperature 31.2°C, Wind 9.4 km/h", out)

	out, err = tool.Call(ctx, "Calm")
	require.NoError(t, err)
	assert.Equal(t, "Weather in Calm: Temperature 20°C, Wind N/A km/h", out)

	out, err = tool.Call(ctx, "Nowhere")
	require.NoError(t, err)
	assert.Equal(t, "City not found: Nowhere", out)

	out, err = tool.Call(ctx, "Atlantis")
	require.NoError(t, err)
	assert.Contains(t, out, "Weather tool error: unexpected status Bad Gateway")
}
