// Package osrm implements the routing.Provider interface against the OSRM
// HTTP API (route service, driving profile).
package osrm

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/vbelide9/wayvue/internal/provider/resilience"
	"github.com/vbelide9/wayvue/internal/routing"
	"github.com/vbelide9/wayvue/pkg/polyline"
)

const (
	// ProviderName identifies this routing provider.
	ProviderName = "osrm"

	// DefaultBaseURL is the public OSRM demo server.
	DefaultBaseURL = "https://router.project-osrm.org"

	// DefaultTimeout for route computation.
	DefaultTimeout = 10 * time.Second
)

// ClientConfig holds configuration for the OSRM client.
type ClientConfig struct {
	// BaseURL is the API base URL (optional, defaults to the public server).
	BaseURL string

	// HTTPClient is the HTTP client to use (optional).
	// If nil, uses a resilient client with routing defaults.
	HTTPClient *resilience.Client

	// Logger for client operations.
	Logger zerolog.Logger
}

// Client is an OSRM API client.
type Client struct {
	baseURL    string
	httpClient *resilience.Client
	logger     zerolog.Logger
}

// NewClient creates a new OSRM client.
func NewClient(cfg ClientConfig) *Client {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = resilience.NewClient(
			resilience.UpstreamClientConfig(resilience.UpstreamRouting, DefaultTimeout))
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

// GetDirections retrieves driving directions between two points.
func (c *Client) GetDirections(ctx context.Context, req routing.DirectionsRequest) (*routing.DirectionsResponse, error) {
	// OSRM expects lon,lat ordering in the path
	url := fmt.Sprintf("%s/route/v1/driving/%.6f,%.6f;%.6f,%.6f?overview=full&alternatives=%t",
		c.baseURL,
		req.Origin.Lon, req.Origin.Lat,
		req.Destination.Lon, req.Destination.Lat,
		req.WantAlternatives,
	)

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("executing request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &routing.Error{
			Provider: ProviderName,
			Code:     fmt.Sprintf("HTTP_%d", resp.StatusCode),
			Message:  "routing request failed",
			Err:      routing.ErrProviderUnavailable,
		}
	}

	var osrmResp routeResponse
	if err := json.NewDecoder(resp.Body).Decode(&osrmResp); err != nil {
		return nil, fmt.Errorf("decoding response: %w", err)
	}

	if osrmResp.Code != "Ok" || len(osrmResp.Routes) == 0 {
		return nil, &routing.Error{
			Provider: ProviderName,
			Code:     osrmResp.Code,
			Message:  "no route returned",
			Err:      routing.ErrNoRouteFound,
		}
	}

	return c.toDirections(&osrmResp), nil
}

// toDirections converts an OSRM response to the domain model, decoding each
// route's polyline geometry.
func (c *Client) toDirections(resp *routeResponse) *routing.DirectionsResponse {
	out := &routing.DirectionsResponse{
		Routes:    make([]routing.Route, 0, len(resp.Routes)),
		Provider:  ProviderName,
		FetchedAt: time.Now(),
	}

	for _, r := range resp.Routes {
		out.Routes = append(out.Routes, routing.Route{
			Geometry:        polyline.Decode(r.Geometry),
			DistanceMeters:  r.Distance,
			DurationSeconds: r.Duration,
		})
	}

	return out
}

// OSRM API response structures.

type routeResponse struct {
	Code   string `json:"code"`
	Routes []struct {
		Geometry string  `json:"geometry"` // polyline, precision 5
		Distance float64 `json:"distance"` // meters
		Duration float64 `json:"duration"` // seconds
	} `json:"routes"`
}
