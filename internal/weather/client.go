package weather

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

const (
	defaultBaseURL = "https://api.openweathermap.org/data/2.5/weather"
	userAgent      = "weather-bgm-player/1.0"

	// cacheTTL bounds how often we hit OpenWeather for the same city.
	// The free tier allows 60 calls/min; one call per 5 minutes is plenty
	// for a single fixed location.
	cacheTTL = 5 * time.Minute
)

// Current is the projection of an OpenWeather response served to the page.
type Current struct {
	City        string   `json:"city"`
	Condition   string   `json:"condition"`
	Description string   `json:"description"`
	TempC       float64  `json:"temp_c"`
	Icon        string   `json:"icon"`
	Category    Category `json:"category"`
}

// Client fetches current weather for a fixed city with caching and
// outbound rate limiting.
type Client struct {
	apiKey     string
	city       string
	httpClient *http.Client
	baseURL    string
	limiter    *rate.Limiter

	mu        sync.RWMutex
	cached    *Current
	fetchedAt time.Time
}

// NewClient creates a weather client for the given city.
func NewClient(apiKey, city string) *Client {
	return &Client{
		apiKey: apiKey,
		city:   city,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		baseURL: defaultBaseURL,
		// One request per second with a small burst; combined with the
		// cache this keeps a misbehaving page from hammering the API.
		limiter: rate.NewLimiter(rate.Limit(1), 2),
	}
}

// Current returns the weather for the configured city, serving a cached
// result when it is fresh enough.
func (c *Client) Current(ctx context.Context) (*Current, error) {
	c.mu.RLock()
	if c.cached != nil && time.Since(c.fetchedAt) < cacheTTL {
		cur := c.cached
		c.mu.RUnlock()
		return cur, nil
	}
	c.mu.RUnlock()

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	cur, err := c.fetch(ctx)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.cached = cur
	c.fetchedAt = time.Now()
	c.mu.Unlock()

	return cur, nil
}

// openWeatherResponse covers the fields we project out of the verbose
// OpenWeather payload.
type openWeatherResponse struct {
	Weather []struct {
		Main        string `json:"main"`
		Description string `json:"description"`
		Icon        string `json:"icon"`
	} `json:"weather"`
	Main struct {
		Temp float64 `json:"temp"`
	} `json:"main"`
	Name string `json:"name"`
}

func (c *Client) fetch(ctx context.Context) (*Current, error) {
	params := url.Values{
		"q":     {c.city},
		"appid": {c.apiKey},
		"units": {"metric"},
	}
	reqURL := c.baseURL + "?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching weather: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading weather response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("weather API status %d: %s", resp.StatusCode, body)
	}

	var ow openWeatherResponse
	if err := json.Unmarshal(body, &ow); err != nil {
		return nil, fmt.Errorf("parsing weather response: %w", err)
	}

	cur := &Current{
		City:  ow.Name,
		TempC: ow.Main.Temp,
	}
	if len(ow.Weather) > 0 {
		cur.Condition = ow.Weather[0].Main
		cur.Description = ow.Weather[0].Description
		cur.Icon = ow.Weather[0].Icon
	}
	cur.Category = Classify(cur.Condition)

	return cur, nil
}
