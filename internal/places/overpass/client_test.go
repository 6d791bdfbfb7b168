package overpass_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vbelide9/wayvue/internal/places"
	"github.com/vbelide9/wayvue/internal/places/overpass"
	"github.com/vbelide9/wayvue/internal/provider/resilience"
)

// testClient builds a client with fast retry settings against a test server.
func testClient(baseURL string) *overpass.Client {
	return overpass.NewClient(overpass.ClientConfig{
		BaseURL: baseURL,
		HTTPClient: resilience.NewClient(resilience.ClientConfig{
			Name:            "places-test",
			Timeout:         2 * time.Second,
			MaxRetries:      1,
			InitialInterval: 10 * time.Millisecond,
			MaxInterval:     20 * time.Millisecond,
		}),
	})
}

func TestNearby_DropsUnnamedNodes(t *testing.T) {
	var gotQuery string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		gotQuery = r.PostFormValue("data")
		_, _ = w.Write([]byte(`{"elements":[
			{"lat": 43.05, "lon": -76.15, "tags": {"name": "Riverside Diner", "cuisine": "american"}},
			{"lat": 43.06, "lon": -76.14, "tags": {"amenity": "restaurant"}},
			{"lat": 43.07, "lon": -76.13, "tags": {"name": "Hilltop Cafe"}}
		]}`))
	}))
	defer server.Close()

	client := testClient(server.URL)

	results, err := client.Nearby(context.Background(), 43.05, -76.15, places.CategoryFood)
	require.NoError(t, err)

	require.Len(t, results, 2)
	assert.Equal(t, "Riverside Diner", results[0].Title)
	assert.Equal(t, places.CategoryFood, results[0].Category)
	assert.Equal(t, "american", results[0].Detail)
	assert.Equal(t, "Hilltop Cafe", results[1].Title)

	assert.Contains(t, gotQuery, `"amenity"~"restaurant|cafe|fast_food"`)
	assert.Contains(t, gotQuery, "around:8000,43.05000,-76.15000")
}

func TestNearby_CategorySelectors(t *testing.T) {
	tests := []struct {
		category places.Category
		selector string
	}{
		{places.CategoryGas, `"amenity"="fuel"`},
		{places.CategoryCharging, `"amenity"="charging_station"`},
		{places.CategoryView, `"tourism"="viewpoint"`},
		{places.CategoryRest, `"highway"="rest_area"`},
	}

	var gotQuery string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		gotQuery = r.PostFormValue("data")
		_, _ = w.Write([]byte(`{"elements":[]}`))
	}))
	defer server.Close()

	client := testClient(server.URL)

	for _, tt := range tests {
		t.Run(string(tt.category), func(t *testing.T) {
			_, err := client.Nearby(context.Background(), 43.05, -76.15, tt.category)
			require.NoError(t, err)
			assert.Contains(t, gotQuery, tt.selector)
		})
	}
}

func TestNearby_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusGatewayTimeout)
	}))
	defer server.Close()

	client := testClient(server.URL)

	_, err := client.Nearby(context.Background(), 43.05, -76.15, places.CategoryFood)
	assert.ErrorIs(t, err, places.ErrProviderUnavailable)
}
