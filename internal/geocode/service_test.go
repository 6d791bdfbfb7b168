package geocode

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"testing"
)

// mockProvider is a mock geocoding provider for testing.
type mockProvider struct {
	searchResult  *Location
	searchErr     error
	reverseResult *ReverseResult
	reverseErr    error
	reverseCalls  atomic.Int32
}

func (m *mockProvider) Search(ctx context.Context, query string) (*Location, error) {
	if m.searchErr != nil {
		return nil, m.searchErr
	}
	return m.searchResult, nil
}

func (m *mockProvider) Reverse(ctx context.Context, lat, lon float64) (*ReverseResult, error) {
	m.reverseCalls.Add(1)
	if m.reverseErr != nil {
		return nil, m.reverseErr
	}
	return m.reverseResult, nil
}

func (m *mockProvider) Name() string {
	return "mock"
}

func TestService_Resolve(t *testing.T) {
	provider := &mockProvider{
		searchResult: &Location{Lat: 40.7128, Lon: -74.0060, DisplayName: "New York, NY, USA"},
	}
	service := NewService(ServiceConfig{Provider: provider})

	loc, err := service.Resolve(context.Background(), "New York")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if loc.DisplayName != "New York, NY, USA" {
		t.Errorf("unexpected display name: %s", loc.DisplayName)
	}
}

func TestService_Resolve_EmptyQuery(t *testing.T) {
	service := NewService(ServiceConfig{Provider: &mockProvider{}})

	_, err := service.Resolve(context.Background(), "")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestService_Resolve_ProviderError(t *testing.T) {
	provider := &mockProvider{searchErr: ErrProviderUnavailable}
	service := NewService(ServiceConfig{Provider: provider})

	_, err := service.Resolve(context.Background(), "nowhere")
	if !errors.Is(err, ErrProviderUnavailable) {
		t.Errorf("expected ErrProviderUnavailable, got %v", err)
	}
}

func TestPassThrough(t *testing.T) {
	loc, err := PassThrough(42.8864, -78.8784, "Buffalo")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if loc.DisplayName != "Buffalo" {
		t.Errorf("display name should keep the original input, got %s", loc.DisplayName)
	}
	if loc.Lat != 42.8864 || loc.Lon != -78.8784 {
		t.Errorf("coordinates should pass through unchanged, got %v", loc)
	}
}

func TestPassThrough_InvalidCoordinates(t *testing.T) {
	if _, err := PassThrough(91, 0, "x"); !errors.Is(err, ErrInvalidCoordinates) {
		t.Errorf("expected ErrInvalidCoordinates for lat=91, got %v", err)
	}
	if _, err := PassThrough(0, -181, "x"); !errors.Is(err, ErrInvalidCoordinates) {
		t.Errorf("expected ErrInvalidCoordinates for lon=-181, got %v", err)
	}
}

func TestService_ReverseResolve_CachesByRoundedCoordinate(t *testing.T) {
	provider := &mockProvider{
		reverseResult: &ReverseResult{ShortLabel: "Syracuse, NY", FullAddress: "123 Main St, Syracuse, NY"},
	}
	service := NewService(ServiceConfig{Provider: provider})

	label, err := service.ReverseResolve(context.Background(), 43.04812, -76.14742, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if label != "Syracuse, NY" {
		t.Errorf("unexpected label: %s", label)
	}

	// Same coordinate within rounding precision: must be served from cache.
	_, err = service.ReverseResolve(context.Background(), 43.048123, -76.147418, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if calls := provider.reverseCalls.Load(); calls != 1 {
		t.Errorf("expected 1 provider call, got %d", calls)
	}

	// Full flag picks the full address from the same cached entry.
	full, err := service.ReverseResolve(context.Background(), 43.04812, -76.14742, true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if full != "123 Main St, Syracuse, NY" {
		t.Errorf("unexpected full address: %s", full)
	}
	if calls := provider.reverseCalls.Load(); calls != 1 {
		t.Errorf("full lookup should hit cache, got %d provider calls", calls)
	}
}

func TestService_ReverseResolve_EvictsOldest(t *testing.T) {
	provider := &mockProvider{
		reverseResult: &ReverseResult{ShortLabel: "Somewhere", FullAddress: "Somewhere"},
	}
	service := NewService(ServiceConfig{Provider: provider, ReverseCacheSize: 3})

	for i := 0; i < 5; i++ {
		_, err := service.ReverseResolve(context.Background(), 40.0+float64(i), -74.0, false)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	if got := service.CacheLen(); got != 3 {
		t.Errorf("cache should be capped at 3 entries, got %d", got)
	}

	// The first coordinate was evicted, so it triggers a fresh lookup.
	before := provider.reverseCalls.Load()
	if _, err := service.ReverseResolve(context.Background(), 40.0, -74.0, false); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if provider.reverseCalls.Load() != before+1 {
		t.Error("evicted entry should have caused a provider call")
	}
}

func TestService_ReverseResolve_ProviderError(t *testing.T) {
	provider := &mockProvider{reverseErr: fmt.Errorf("boom")}
	service := NewService(ServiceConfig{Provider: provider})

	_, err := service.ReverseResolve(context.Background(), 40.0, -74.0, false)
	if err == nil {
		t.Fatal("expected error")
	}
	if service.CacheLen() != 0 {
		t.Error("failed lookups must not be cached")
	}
}
