// Package nominatim implements the geocode.Provider interface against the
// OpenStreetMap Nominatim API.
package nominatim

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/vbelide9/wayvue/internal/geocode"
	"github.com/vbelide9/wayvue/internal/provider/resilience"
)

const (
	// ProviderName identifies this geocoding provider.
	ProviderName = "nominatim"

	// DefaultBaseURL is the public Nominatim instance.
	DefaultBaseURL = "https://nominatim.openstreetmap.org"

	// DefaultTimeout matches Nominatim's usual response window.
	DefaultTimeout = 5 * time.Second
)

// ClientConfig holds configuration for the Nominatim client.
type ClientConfig struct {
	// BaseURL is the API base URL (optional, defaults to the public instance).
	BaseURL string

	// UserAgent is sent on every request; Nominatim requires one.
	UserAgent string

	// HTTPClient is the HTTP client to use (optional).
	// If nil, uses a resilient client with geocoding defaults.
	HTTPClient *resilience.Client

	// Logger for client operations.
	Logger zerolog.Logger
}

// Client is a Nominatim API client.
type Client struct {
	baseURL    string
	userAgent  string
	httpClient *resilience.Client
	logger     zerolog.Logger
}

// NewClient creates a new Nominatim client.
func NewClient(cfg ClientConfig) *Client {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	userAgent := cfg.UserAgent
	if userAgent == "" {
		userAgent = "wayvue/1.0"
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = resilience.NewClient(
			resilience.UpstreamClientConfig(resilience.UpstreamGeocoding, DefaultTimeout))
	}

	return &Client{
		baseURL:    baseURL,
		userAgent:  userAgent,
		httpClient: httpClient,
		logger:     cfg.Logger,
	}
}

// Name returns the provider name.
func (c *Client) Name() string {
	return ProviderName
}

// Search resolves a free-text query to a location.
func (c *Client) Search(ctx context.Context, query string) (*geocode.Location, error) {
	u := fmt.Sprintf("%s/search?q=%s&format=json&limit=1", c.baseURL, url.QueryEscape(query))

	var results []searchResult
	if err := c.getJSON(ctx, u, &results); err != nil {
		return nil, err
	}

	if len(results) == 0 {
		return nil, geocode.ErrNotFound
	}

	lat, err := strconv.ParseFloat(results[0].Lat, 64)
	if err != nil {
		return nil, fmt.Errorf("parsing latitude: %w", err)
	}
	lon, err := strconv.ParseFloat(results[0].Lon, 64)
	if err != nil {
		return nil, fmt.Errorf("parsing longitude: %w", err)
	}

	return &geocode.Location{
		Lat:         lat,
		Lon:         lon,
		DisplayName: results[0].DisplayName,
	}, nil
}

// Reverse resolves a coordinate to place labels.
func (c *Client) Reverse(ctx context.Context, lat, lon float64) (*geocode.ReverseResult, error) {
	u := fmt.Sprintf("%s/reverse?lat=%.6f&lon=%.6f&format=json&zoom=10", c.baseURL, lat, lon)

	var result reverseResult
	if err := c.getJSON(ctx, u, &result); err != nil {
		return nil, err
	}

	if result.DisplayName == "" {
		return nil, geocode.ErrNotFound
	}

	return &geocode.ReverseResult{
		ShortLabel:  result.shortLabel(),
		FullAddress: result.DisplayName,
	}, nil
}

// getJSON executes a GET request and decodes the JSON response into out.
func (c *Client) getJSON(ctx context.Context, url string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("executing request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	return nil
}

// Nominatim API response structures.

type searchResult struct {
	Lat         string `json:"lat"`
	Lon         string `json:"lon"`
	DisplayName string `json:"display_name"`
}

type reverseResult struct {
	DisplayName string `json:"display_name"`
	Address     struct {
		City    string `json:"city"`
		Town    string `json:"town"`
		Village string `json:"village"`
		Hamlet  string `json:"hamlet"`
		County  string `json:"county"`
		State   string `json:"state"`
	} `json:"address"`
}

// shortLabel builds a town-level label from the most specific populated
// address component available.
func (r *reverseResult) shortLabel() string {
	place := r.Address.City
	if place == "" {
		place = r.Address.Town
	}
	if place == "" {
		place = r.Address.Village
	}
	if place == "" {
		place = r.Address.Hamlet
	}
	if place == "" {
		place = r.Address.County
	}

	if place == "" {
		return r.DisplayName
	}
	if r.Address.State != "" {
		return strings.Join([]string{place, r.Address.State}, ", ")
	}
	return place
}
