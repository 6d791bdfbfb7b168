// Package overpass implements the places.Provider interface against the
// OpenStreetMap Overpass API.
package overpass

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/vbelide9/wayvue/internal/places"
	"github.com/vbelide9/wayvue/internal/provider/resilience"
)

const (
	// ProviderName identifies this places provider.
	ProviderName = "overpass"

	// DefaultBaseURL is the public Overpass API endpoint.
	DefaultBaseURL = "https://overpass-api.de"

	// DefaultTimeout for Overpass queries. The public instance is slow.
	DefaultTimeout = 12 * time.Second

	// searchRadiusMeters bounds the around-point search.
	searchRadiusMeters = 8000
)

// ClientConfig holds configuration for the Overpass client.
type ClientConfig struct {
	// BaseURL is the API base URL (optional).
	BaseURL string

	// HTTPClient is the HTTP client to use (optional).
	// If nil, uses a resilient client with places defaults.
	HTTPClient *resilience.Client

	// Logger for client operations.
	Logger zerolog.Logger
}

// Client is an Overpass API client.
type Client struct {
	baseURL    string
	httpClient *resilience.Client
	logger     zerolog.Logger
}

// NewClient creates a new Overpass client.
func NewClient(cfg ClientConfig) *Client {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = resilience.NewClient(
			resilience.UpstreamClientConfig(resilience.UpstreamPlaces, DefaultTimeout))
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

// Nearby returns OSM places of a category around a point.
func (c *Client) Nearby(ctx context.Context, lat, lon float64, category places.Category) ([]places.RawPlace, error) {
	selector, ok := categorySelectors[category]
	if !ok {
		return nil, nil
	}

	query := fmt.Sprintf(`[out:json][timeout:10];
(
  node%s(around:%d,%.5f,%.5f);
);
out body 10;`, selector, searchRadiusMeters, lat, lon)

	form := url.Values{}
	form.Set("data", query)

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/api/interpreter", strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("executing request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("overpass query returned HTTP %d: %w",
			resp.StatusCode, places.ErrProviderUnavailable)
	}

	var overpassResp interpreterResponse
	if err := json.NewDecoder(resp.Body).Decode(&overpassResp); err != nil {
		return nil, fmt.Errorf("decoding response: %w", err)
	}

	return c.toRawPlaces(&overpassResp, category), nil
}

// toRawPlaces converts Overpass elements to domain places, dropping
// unnamed nodes.
func (c *Client) toRawPlaces(resp *interpreterResponse, category places.Category) []places.RawPlace {
	out := make([]places.RawPlace, 0, len(resp.Elements))
	for _, el := range resp.Elements {
		name := el.Tags["name"]
		if name == "" {
			continue
		}
		out = append(out, places.RawPlace{
			Title:    name,
			Category: category,
			Lat:      el.Lat,
			Lon:      el.Lon,
			Detail:   el.Tags["cuisine"],
		})
	}
	return out
}

// categorySelectors maps recommendation categories to Overpass tag filters.
var categorySelectors = map[places.Category]string{
	places.CategoryFood:     `["amenity"~"restaurant|cafe|fast_food"]`,
	places.CategoryGas:      `["amenity"="fuel"]`,
	places.CategoryCharging: `["amenity"="charging_station"]`,
	places.CategoryView:     `["tourism"="viewpoint"]`,
	places.CategoryRest:     `["highway"="rest_area"]`,
}

// Overpass API response structures.

type interpreterResponse struct {
	Elements []struct {
		Lat  float64           `json:"lat"`
		Lon  float64           `json:"lon"`
		Tags map[string]string `json:"tags"`
	} `json:"elements"`
}
