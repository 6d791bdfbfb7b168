package routing

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/vbelide9/wayvue/pkg/polyline"
)

// mockProvider is a mock routing provider for testing.
type mockProvider struct {
	name      string
	response  *DirectionsResponse
	err       error
	callCount atomic.Int32
}

func (m *mockProvider) GetDirections(ctx context.Context, req DirectionsRequest) (*DirectionsResponse, error) {
	m.callCount.Add(1)
	if m.err != nil {
		return nil, m.err
	}
	return m.response, nil
}

func (m *mockProvider) Name() string {
	return m.name
}

func twoRouteResponse() *DirectionsResponse {
	return &DirectionsResponse{
		Routes: []Route{
			{
				Geometry: []polyline.Coordinate{
					{Lat: 40.7128, Lon: -74.0060},
					{Lat: 42.8864, Lon: -78.8784},
				},
				DistanceMeters:  602000,
				DurationSeconds: 21600,
			},
			{
				Geometry: []polyline.Coordinate{
					{Lat: 40.7128, Lon: -74.0060},
					{Lat: 41.5, Lon: -76.0},
					{Lat: 42.8864, Lon: -78.8784},
				},
				DistanceMeters:  650000,
				DurationSeconds: 25200,
			},
		},
		Provider:  "test-provider",
		FetchedAt: time.Now(),
	}
}

func TestService_GetDirections_CacheMiss(t *testing.T) {
	provider := &mockProvider{name: "test-provider", response: twoRouteResponse()}

	service := NewService(ServiceConfig{
		Provider: provider,
		CacheTTL: 5 * time.Minute,
	})

	resp, err := service.GetDirections(context.Background(), DirectionsRequest{
		Origin:      Coordinate{Lat: 40.7128, Lon: -74.0060},
		Destination: Coordinate{Lat: 42.8864, Lon: -78.8784},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if provider.callCount.Load() != 1 {
		t.Errorf("expected 1 provider call, got %d", provider.callCount.Load())
	}
	if len(resp.Routes) != 2 {
		t.Fatalf("expected 2 routes, got %d", len(resp.Routes))
	}
}

func TestService_GetDirections_CacheHit(t *testing.T) {
	provider := &mockProvider{name: "test-provider", response: twoRouteResponse()}

	service := NewService(ServiceConfig{
		Provider: provider,
		CacheTTL: 5 * time.Minute,
	})

	req := DirectionsRequest{
		Origin:      Coordinate{Lat: 40.7128, Lon: -74.0060},
		Destination: Coordinate{Lat: 42.8864, Lon: -78.8784},
	}

	if _, err := service.GetDirections(context.Background(), req); err != nil {
		t.Fatalf("unexpected error on first call: %v", err)
	}
	if _, err := service.GetDirections(context.Background(), req); err != nil {
		t.Fatalf("unexpected error on second call: %v", err)
	}

	if provider.callCount.Load() != 1 {
		t.Errorf("expected 1 provider call after cache hit, got %d", provider.callCount.Load())
	}
}

func TestService_GetDirections_AlternativesSeparateCacheKey(t *testing.T) {
	provider := &mockProvider{name: "test-provider", response: twoRouteResponse()}

	service := NewService(ServiceConfig{
		Provider: provider,
		CacheTTL: 5 * time.Minute,
	})

	origin := Coordinate{Lat: 40.7128, Lon: -74.0060}
	dest := Coordinate{Lat: 42.8864, Lon: -78.8784}

	if _, err := service.GetDirections(context.Background(), DirectionsRequest{Origin: origin, Destination: dest}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := service.GetDirections(context.Background(), DirectionsRequest{Origin: origin, Destination: dest, WantAlternatives: true}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if provider.callCount.Load() != 2 {
		t.Errorf("alternatives request must not share cache with plain request, got %d calls", provider.callCount.Load())
	}
}

func TestService_GetDirections_InvalidCoordinates(t *testing.T) {
	provider := &mockProvider{name: "test-provider", response: twoRouteResponse()}
	service := NewService(ServiceConfig{Provider: provider})

	_, err := service.GetDirections(context.Background(), DirectionsRequest{
		Origin:      Coordinate{Lat: 95, Lon: 0},
		Destination: Coordinate{Lat: 42.8864, Lon: -78.8784},
	})
	if !errors.Is(err, ErrInvalidCoordinates) {
		t.Errorf("expected ErrInvalidCoordinates, got %v", err)
	}
	if provider.callCount.Load() != 0 {
		t.Error("provider should not be called for invalid coordinates")
	}
}

func TestService_GetDirections_ProviderError(t *testing.T) {
	provider := &mockProvider{name: "test-provider", err: ErrNoRouteFound}
	service := NewService(ServiceConfig{Provider: provider})

	_, err := service.GetDirections(context.Background(), DirectionsRequest{
		Origin:      Coordinate{Lat: 40.7128, Lon: -74.0060},
		Destination: Coordinate{Lat: 42.8864, Lon: -78.8784},
	})
	if !errors.Is(err, ErrNoRouteFound) {
		t.Errorf("expected ErrNoRouteFound, got %v", err)
	}
}

func TestSelectRoute_ScenicPicksFirstAlternative(t *testing.T) {
	resp := twoRouteResponse()

	scenic, err := SelectRoute(resp, true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if scenic.DistanceMeters != 650000 {
		t.Errorf("scenic route should be the first alternative, got distance %f", scenic.DistanceMeters)
	}

	primary, err := SelectRoute(resp, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if primary.DistanceMeters != 602000 {
		t.Errorf("expected primary route, got distance %f", primary.DistanceMeters)
	}
}

func TestSelectRoute_ScenicFallsBackToPrimary(t *testing.T) {
	resp := twoRouteResponse()
	resp.Routes = resp.Routes[:1]

	route, err := SelectRoute(resp, true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if route.DistanceMeters != 602000 {
		t.Errorf("expected fallback to primary route, got distance %f", route.DistanceMeters)
	}
}

func TestSelectRoute_Empty(t *testing.T) {
	if _, err := SelectRoute(&DirectionsResponse{}, false); !errors.Is(err, ErrNoRouteFound) {
		t.Errorf("expected ErrNoRouteFound, got %v", err)
	}
	if _, err := SelectRoute(nil, false); !errors.Is(err, ErrNoRouteFound) {
		t.Errorf("expected ErrNoRouteFound for nil response, got %v", err)
	}
}

func TestRoute_DistanceMiles(t *testing.T) {
	r := Route{DistanceMeters: 1609.344}
	if miles := r.DistanceMiles(); miles < 0.999 || miles > 1.001 {
		t.Errorf("expected ~1 mile, got %f", miles)
	}
}
