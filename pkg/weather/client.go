package weather

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// Conditions is the normalized weather snapshot for a city.
type Conditions struct {
	City        string
	Temperature float64
	Description string
	Humidity    int
}

// Client queries OpenWeatherMap. Lookups are cached per city for a few
// minutes so chat bursts do not hammer the upstream quota.
type Client struct {
	baseURL string
	apiKey  string
	client  *http.Client
	cache   *gocache.Cache
}

func NewClient(apiKey string) *Client {
	return &Client{
		baseURL: "https://api.openweathermap.org/data/2.5/weather",
		apiKey:  apiKey,
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
		cache: gocache.New(10*time.Minute, 30*time.Minute),
	}
}

type weatherResponse struct {
	Name    string `json:"name"`
	Message string `json:"message"`
	Weather []struct {
		Description string `json:"description"`
	} `json:"weather"`
	Main struct {
		Temp     float64 `json:"temp"`
		Humidity int     `json:"humidity"`
	} `json:"main"`
}

// CurrentWeather returns current conditions for the city, metric units.
func (c *Client) CurrentWeather(ctx context.Context, city string) (Conditions, error) {
	cacheKey := strings.ToLower(strings.TrimSpace(city))
	if cached, found := c.cache.Get(cacheKey); found {
		return cached.(Conditions), nil
	}

	query := url.Values{}
	query.Set("q", city)
	query.Set("appid", c.apiKey)
	query.Set("units", "metric")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+query.Encode(), nil)
	if err != nil {
		return Conditions{}, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return Conditions{}, fmt.Errorf("weather request failed: %w", err)
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return Conditions{}, fmt.Errorf("read response: %w", err)
	}

	var parsed weatherResponse
	if err := json.Unmarshal(bodyBytes, &parsed); err != nil {
		return Conditions{}, fmt.Errorf("decode response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		if parsed.Message != "" {
			return Conditions{}, fmt.Errorf("%s", parsed.Message)
		}
		return Conditions{}, fmt.Errorf("weather error (status %d)", resp.StatusCode)
	}

	conditions := Conditions{
		City:        parsed.Name,
		Temperature: parsed.Main.Temp,
		Humidity:    parsed.Main.Humidity,
	}
	if len(parsed.Weather) > 0 {
		conditions.Description = parsed.Weather[0].Description
	}

	c.cache.Set(cacheKey, conditions, gocache.DefaultExpiration)

	return conditions, nil
}
