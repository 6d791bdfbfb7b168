package osrm_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vbelide9/wayvue/internal/provider/resilience"
	"github.com/vbelide9/wayvue/internal/routing"
	"github.com/vbelide9/wayvue/internal/routing/osrm"
	"github.com/vbelide9/wayvue/pkg/polyline"
)

// testClient builds a client with fast retry settings against a test server.
func testClient(baseURL string) *osrm.Client {
	return osrm.NewClient(osrm.ClientConfig{
		BaseURL: baseURL,
		HTTPClient: resilience.NewClient(resilience.ClientConfig{
			Name:            "routing-test",
			Timeout:         2 * time.Second,
			MaxRetries:      1,
			InitialInterval: 10 * time.Millisecond,
			MaxInterval:     20 * time.Millisecond,
		}),
	})
}

func routeBody(t *testing.T, coords []polyline.Coordinate, distance, duration float64) []byte {
	t.Helper()
	body, err := json.Marshal(map[string]any{
		"code": "Ok",
		"routes": []map[string]any{
			{
				"geometry": polyline.Encode(coords),
				"distance": distance,
				"duration": duration,
			},
		},
	})
	require.NoError(t, err)
	return body
}

func TestGetDirections_DecodesRoute(t *testing.T) {
	geometry := []polyline.Coordinate{
		{Lat: 40.7, Lon: -74.0},
		{Lat: 41.8, Lon: -76.4},
		{Lat: 42.9, Lon: -78.8},
	}

	var gotPath, gotAlternatives string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAlternatives = r.URL.Query().Get("alternatives")
		_, _ = w.Write(routeBody(t, geometry, 600000, 21600))
	}))
	defer server.Close()

	client := testClient(server.URL)

	resp, err := client.GetDirections(context.Background(), routing.DirectionsRequest{
		Origin:      routing.Coordinate{Lat: 40.7, Lon: -74.0},
		Destination: routing.Coordinate{Lat: 42.9, Lon: -78.8},
	})
	require.NoError(t, err)

	// OSRM takes lon,lat pairs in the path.
	assert.Equal(t, "/route/v1/driving/-74.000000,40.700000;-78.800000,42.900000", gotPath)
	assert.Equal(t, "false", gotAlternatives)

	assert.Equal(t, osrm.ProviderName, resp.Provider)
	require.Len(t, resp.Routes, 1)
	assert.Equal(t, 600000.0, resp.Routes[0].DistanceMeters)
	assert.Equal(t, 21600.0, resp.Routes[0].DurationSeconds)

	require.Len(t, resp.Routes[0].Geometry, len(geometry))
	for i, want := range geometry {
		assert.InDelta(t, want.Lat, resp.Routes[0].Geometry[i].Lat, 1e-4)
		assert.InDelta(t, want.Lon, resp.Routes[0].Geometry[i].Lon, 1e-4)
	}
}

func TestGetDirections_RequestsAlternatives(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "true", r.URL.Query().Get("alternatives"))
		_, _ = w.Write(routeBody(t, []polyline.Coordinate{{Lat: 40.7, Lon: -74.0}}, 1000, 60))
	}))
	defer server.Close()

	client := testClient(server.URL)

	_, err := client.GetDirections(context.Background(), routing.DirectionsRequest{
		Origin:           routing.Coordinate{Lat: 40.7, Lon: -74.0},
		Destination:      routing.Coordinate{Lat: 42.9, Lon: -78.8},
		WantAlternatives: true,
	})
	require.NoError(t, err)
}

func TestGetDirections_NoRoute(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"code":"NoRoute","routes":[]}`))
	}))
	defer server.Close()

	client := testClient(server.URL)

	_, err := client.GetDirections(context.Background(), routing.DirectionsRequest{
		Origin:      routing.Coordinate{Lat: 40.7, Lon: -74.0},
		Destination: routing.Coordinate{Lat: 40.7, Lon: -74.001},
	})
	assert.ErrorIs(t, err, routing.ErrNoRouteFound)

	var provErr *routing.Error
	require.ErrorAs(t, err, &provErr)
	assert.Equal(t, osrm.ProviderName, provErr.Provider)
	assert.Equal(t, "NoRoute", provErr.Code)
}

func TestGetDirections_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	client := testClient(server.URL)

	_, err := client.GetDirections(context.Background(), routing.DirectionsRequest{
		Origin:      routing.Coordinate{Lat: 40.7, Lon: -74.0},
		Destination: routing.Coordinate{Lat: 42.9, Lon: -78.8},
	})
	assert.ErrorIs(t, err, routing.ErrProviderUnavailable)
}
