package weather

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/jonboulle/clockwork"
)

// DefaultBaseURL is the OpenWeatherMap 2.5 API root.
const DefaultBaseURL = "https://api.openweathermap.org/data/2.5"

// maxErrorBody caps how much of a non-OK response body is kept for logging.
const maxErrorBody = 512

var errNoConditions = errors.New("response has no weather conditions")

// Client handles OpenWeatherMap API interactions
type Client struct {
	APIKey     string
	BaseURL    string
	UserAgent  string
	HTTPClient *http.Client
	Clock      clockwork.Clock
}

// NewClient creates a new OpenWeatherMap API client. A zero timeout disables the
// transport deadline.
func NewClient(apiKey, baseURL string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	return &Client{
		APIKey:    apiKey,
		BaseURL:   strings.TrimRight(baseURL, "/"),
		UserAgent: "weatherfinder/1.0",
		HTTPClient: &http.Client{
			Timeout: timeout,
		},
		Clock: clockwork.NewRealClock(),
	}
}

func (c *Client) get(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("User-Agent", c.UserAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, &StatusError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(body))}
	}

	return io.ReadAll(resp.Body)
}

// CurrentURL builds the current-conditions request URL for a city.
func (c *Client) CurrentURL(city string) string {
	params := url.Values{}
	params.Set("q", city)
	params.Set("appid", c.APIKey)
	params.Set("units", "metric")
	return c.BaseURL + "/weather?" + params.Encode()
}

// CurrentWeather fetches the current conditions for a city in metric units.
func (c *Client) CurrentWeather(ctx context.Context, city string) (*Snapshot, error) {
	data, err := c.get(ctx, c.CurrentURL(city))
	if err != nil {
		return nil, err
	}

	var cr currentResponse
	if err := json.Unmarshal(data, &cr); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	if len(cr.Weather) == 0 {
		return nil, errNoConditions
	}

	return &Snapshot{
		Location:    cr.Name,
		Country:     cr.Sys.Country,
		Temperature: cr.Main.Temp,
		FeelsLike:   cr.Main.FeelsLike,
		Humidity:    cr.Main.Humidity,
		WindSpeed:   cr.Wind.Speed,
		Condition:   cr.Weather[0].Main,
		Description: cr.Weather[0].Description,
		Icon:        cr.Weather[0].Icon,
		FetchedAt:   c.Clock.Now(),
	}, nil
}

// IconURL returns the provider icon URL for an icon code, or "" when there is no code.
func IconURL(baseURL, code string) string {
	if code == "" {
		return ""
	}
	return fmt.Sprintf("%s/%s@2x.png", strings.TrimRight(baseURL, "/"), url.PathEscape(code))
}
