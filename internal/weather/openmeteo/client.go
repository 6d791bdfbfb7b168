// Package openmeteo implements the weather.Provider interface against the
// Open-Meteo forecast API.
package openmeteo

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/rs/zerolog"

	"github.com/vbelide9/wayvue/internal/provider/resilience"
	"github.com/vbelide9/wayvue/internal/weather"
)

const (
	// ProviderName identifies this weather provider.
	ProviderName = "open-meteo"

	// DefaultBaseURL is the Open-Meteo API base URL.
	DefaultBaseURL = "https://api.open-meteo.com"

	// DefaultTimeout for forecast requests.
	DefaultTimeout = 8 * time.Second
)

// ClientConfig holds configuration for the Open-Meteo client.
type ClientConfig struct {
	// BaseURL is the API base URL (optional).
	BaseURL string

	// HTTPClient is the HTTP client to use (optional).
	// If nil, uses a resilient client with weather defaults.
	HTTPClient *resilience.Client

	// Logger for client operations.
	Logger zerolog.Logger
}

// Client is an Open-Meteo API client.
type Client struct {
	baseURL    string
	httpClient *resilience.Client
	logger     zerolog.Logger
}

// NewClient creates a new Open-Meteo client.
func NewClient(cfg ClientConfig) *Client {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = resilience.NewClient(
			resilience.UpstreamClientConfig(resilience.UpstreamWeather, DefaultTimeout))
	}

	return &Client{
		baseURL:    baseURL,
		httpClient: httpClient,
		logger:     cfg.Logger,
	}
}

// Name returns the provider name.
func (c *Client) Name() string {
	return ProviderName
}

// Observe retrieves the hourly forecast for a point and picks the entry
// matching the requested local date and hour.
func (c *Client) Observe(ctx context.Context, lat, lon float64, date string, hour int) (*weather.Observation, error) {
	params := url.Values{}
	params.Set("latitude", fmt.Sprintf("%.4f", lat))
	params.Set("longitude", fmt.Sprintf("%.4f", lon))
	params.Set("hourly", "temperature_2m,weather_code,wind_speed_10m,wind_direction_10m,relative_humidity_2m,precipitation_probability")
	params.Set("start_date", date)
	params.Set("end_date", date)
	params.Set("timezone", "auto")

	reqURL := fmt.Sprintf("%s/v1/forecast?%s", c.baseURL, params.Encode())

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("executing request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("forecast request returned HTTP %d: %w",
			resp.StatusCode, weather.ErrProviderUnavailable)
	}

	var forecast forecastResponse
	if err := json.NewDecoder(resp.Body).Decode(&forecast); err != nil {
		return nil, fmt.Errorf("decoding response: %w", err)
	}

	return pickHour(&forecast, date, hour)
}

// pickHour finds the hourly entry for the requested date and hour.
// Open-Meteo formats hourly timestamps as "2006-01-02T15:04".
func pickHour(forecast *forecastResponse, date string, hour int) (*weather.Observation, error) {
	want := fmt.Sprintf("%sT%02d:00", date, hour)

	for i, ts := range forecast.Hourly.Time {
		if ts != want {
			continue
		}
		if i >= len(forecast.Hourly.Temperature) || i >= len(forecast.Hourly.WeatherCode) {
			break
		}
		obs := &weather.Observation{
			Temperature: forecast.Hourly.Temperature[i],
			WeatherCode: forecast.Hourly.WeatherCode[i],
		}
		if i < len(forecast.Hourly.WindSpeed) {
			obs.WindSpeedKmh = forecast.Hourly.WindSpeed[i]
		}
		if i < len(forecast.Hourly.WindDirection) {
			obs.WindDirection = forecast.Hourly.WindDirection[i]
		}
		if i < len(forecast.Hourly.Humidity) {
			obs.Humidity = forecast.Hourly.Humidity[i]
		}
		if i < len(forecast.Hourly.PrecipProbability) {
			obs.PrecipProbability = forecast.Hourly.PrecipProbability[i]
		}
		return obs, nil
	}

	return nil, fmt.Errorf("hour %d of %s not in forecast window: %w", hour, date, weather.ErrNoData)
}

// Open-Meteo API response structures.

type forecastResponse struct {
	Hourly struct {
		Time              []string  `json:"time"`
		Temperature       []float64 `json:"temperature_2m"`
		WeatherCode       []int     `json:"weather_code"`
		WindSpeed         []float64 `json:"wind_speed_10m"`
		WindDirection     []float64 `json:"wind_direction_10m"`
		Humidity          []float64 `json:"relative_humidity_2m"`
		PrecipProbability []float64 `json:"precipitation_probability"`
	} `json:"hourly"`
}
