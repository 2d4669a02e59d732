package weather

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	ts := httptest.NewServer(handler)
	t.Cleanup(ts.Close)

	c := NewClient("test-key")
	c.baseURL = ts.URL
	return c
}

func TestCurrentWeather(t *testing.T) {
	var gotQuery string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		json.NewEncoder(w).Encode(map[string]interface{}{
			"name":    "Paris",
			"weather": []map[string]string{{"description": "light rain"}},
			"main":    map[string]interface{}{"temp": 18.5, "humidity": 82},
		})
	})

	conditions, err := c.CurrentWeather(context.Background(), "Paris")

	require.NoError(t, err)
	assert.Equal(t, "Paris", conditions.City)
	assert.Equal(t, 18.5, conditions.Temperature)
	assert.Equal(t, "light rain", conditions.Description)
	assert.Equal(t, 82, conditions.Humidity)
	assert.Contains(t, gotQuery, "units=metric")
	assert.Contains(t, gotQuery, "appid=test-key")
}

func TestCurrentWeatherCachesPerCity(t *testing.T) {
	hits := 0
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		hits++
		json.NewEncoder(w).Encode(map[string]interface{}{
			"name":    "Paris",
			"weather": []map[string]string{{"description": "clear sky"}},
			"main":    map[string]interface{}{"temp": 20.0, "humidity": 50},
		})
	})

	_, err := c.CurrentWeather(context.Background(), "Paris")
	require.NoError(t, err)

	// Case and surrounding whitespace do not bust the cache.
	_, err = c.CurrentWeather(context.Background(), "  paris ")
	require.NoError(t, err)

	assert.Equal(t, 1, hits)
}

func TestCurrentWeatherUpstreamError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		json.NewEncoder(w).Encode(map[string]string{"message": "city not found"})
	})

	_, err := c.CurrentWeather(context.Background(), "Nowhere")

	require.Error(t, err)
	assert.Equal(t, "city not found", err.Error())
}
