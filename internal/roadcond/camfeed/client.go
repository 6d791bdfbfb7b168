// Package camfeed implements the roadcond.CameraSource interface against a
// JSON traffic camera feed.
package camfeed

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/vbelide9/wayvue/internal/provider/resilience"
	"github.com/vbelide9/wayvue/internal/roadcond"
	"github.com/vbelide9/wayvue/pkg/polyline"
)

const (
	// SourceName identifies this camera source.
	SourceName = "camera-feed"

	// DefaultTimeout for feed fetches.
	DefaultTimeout = 5 * time.Second

	// maxDistanceMiles bounds how far a camera may be from a segment to
	// count as nearby.
	maxDistanceMiles = 15

	// feedTTL is how long a fetched feed stays fresh. Camera inventories
	// change rarely.
	feedTTL = 30 * time.Minute
)

// ClientConfig holds configuration for the camera feed client.
type ClientConfig struct {
	// FeedURL is the camera feed endpoint. Required.
	FeedURL string

	// HTTPClient is the HTTP client to use (optional).
	// If nil, uses a resilient client with camera defaults.
	HTTPClient *resilience.Client

	// Logger for client operations.
	Logger zerolog.Logger
}

// Client fetches a traffic camera feed and serves nearest-camera lookups
// from a cached copy.
type Client struct {
	feedURL    string
	httpClient *resilience.Client
	logger     zerolog.Logger

	mu        sync.RWMutex
	cameras   []roadcond.CameraRef
	fetchedAt time.Time
}

// NewClient creates a new camera feed client.
func NewClient(cfg ClientConfig) *Client {
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = resilience.NewClient(
			resilience.UpstreamClientConfig(resilience.UpstreamCameras, DefaultTimeout))
	}

	return &Client{
		feedURL:    cfg.FeedURL,
		httpClient: httpClient,
		logger:     cfg.Logger,
	}
}

// Name returns the source identifier.
func (c *Client) Name() string {
	return SourceName
}

// NearestCamera returns the closest feed camera within range of the point,
// or nil when none qualifies.
func (c *Client) NearestCamera(ctx context.Context, lat, lon float64) (*roadcond.CameraRef, error) {
	cameras, err := c.feed(ctx)
	if err != nil {
		return nil, err
	}

	var nearest *roadcond.CameraRef
	best := float64(maxDistanceMiles)

	for i := range cameras {
		d := polyline.HaversineMiles(
			polyline.Coordinate{Lat: lat, Lon: lon},
			polyline.Coordinate{Lat: cameras[i].Lat, Lon: cameras[i].Lon},
		)
		if d < best {
			best = d
			nearest = &cameras[i]
		}
	}

	return nearest, nil
}

// feed returns the cached camera list, refreshing it when stale.
func (c *Client) feed(ctx context.Context) ([]roadcond.CameraRef, error) {
	c.mu.RLock()
	if c.cameras != nil && time.Since(c.fetchedAt) < feedTTL {
		cameras := c.cameras
		c.mu.RUnlock()
		return cameras, nil
	}
	c.mu.RUnlock()

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.cameras != nil && time.Since(c.fetchedAt) < feedTTL {
		return c.cameras, nil
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, c.feedURL, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("executing request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("camera feed returned HTTP %d", resp.StatusCode)
	}

	var feed feedResponse
	if err := json.NewDecoder(resp.Body).Decode(&feed); err != nil {
		return nil, fmt.Errorf("decoding feed: %w", err)
	}

	cameras := make([]roadcond.CameraRef, 0, len(feed.Cameras))
	for _, cam := range feed.Cameras {
		cameras = append(cameras, roadcond.CameraRef{
			ID:       cam.ID,
			Name:     cam.Name,
			ImageURL: cam.ImageURL,
			Lat:      cam.Lat,
			Lon:      cam.Lon,
		})
	}

	c.cameras = cameras
	c.fetchedAt = time.Now()

	c.logger.Debug().
		Int("cameras", len(cameras)).
		Msg("refreshed traffic camera feed")

	return c.cameras, nil
}

// Camera feed response structure.

type feedResponse struct {
	Cameras []struct {
		ID       string  `json:"id"`
		Name     string  `json:"name"`
		ImageURL string  `json:"imageUrl"`
		Lat      float64 `json:"lat"`
		Lon      float64 `json:"lon"`
	} `json:"cameras"`
}
