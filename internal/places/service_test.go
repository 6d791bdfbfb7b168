package places

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/vbelide9/wayvue/pkg/polyline"
)

// mockProvider is a mock place search provider for testing.
type mockProvider struct {
	mu         sync.Mutex
	byCategory map[Category][]RawPlace
	err        error
	calls      int
}

func (m *mockProvider) Nearby(ctx context.Context, lat, lon float64, category Category) ([]RawPlace, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	return m.byCategory[category], nil
}

func (m *mockProvider) Name() string {
	return "mock"
}

func testRoute(n int) []polyline.Coordinate {
	route := make([]polyline.Coordinate, n)
	for i := range route {
		route[i] = polyline.Coordinate{Lat: 40.0 + float64(i)*0.05, Lon: -74.0}
	}
	return route
}

func manyPlaces(category Category, count int) []RawPlace {
	out := make([]RawPlace, count)
	for i := range out {
		out[i] = RawPlace{
			Title:    fmt.Sprintf("%s place %d", category, i),
			Category: category,
			Lat:      40.5,
			Lon:      -74.0,
		}
	}
	return out
}

func newTestService(provider Provider) *Service {
	return NewService(ServiceConfig{Provider: provider, Stagger: time.Millisecond})
}

func TestRecommend_CategoryCaps(t *testing.T) {
	provider := &mockProvider{byCategory: map[Category][]RawPlace{
		CategoryFood: manyPlaces(CategoryFood, 10),
		CategoryGas:  manyPlaces(CategoryGas, 10),
		CategoryRest: manyPlaces(CategoryRest, 10),
	}}
	service := newTestService(provider)

	recs := service.Recommend(context.Background(), testRoute(20), 50)

	// Short route: one unique set per title across 3 context points, but
	// titles repeat across points so the global dedup keeps one each.
	counts := map[Category]int{}
	for _, rec := range recs {
		counts[rec.Category]++
	}
	if counts[CategoryFood] != 3 {
		t.Errorf("food should be capped at 3 per point, got %d after dedup", counts[CategoryFood])
	}
	if counts[CategoryGas] != 3 {
		t.Errorf("gas should be capped at 3 per point, got %d after dedup", counts[CategoryGas])
	}
	if counts[CategoryRest] != 2 {
		t.Errorf("rest should be capped at 2 per point, got %d after dedup", counts[CategoryRest])
	}
}

func TestRecommend_ShortVsLongRouteProbeCount(t *testing.T) {
	shortCalls := func(miles float64) int {
		provider := &mockProvider{}
		service := newTestService(provider)
		service.Recommend(context.Background(), testRoute(20), miles)
		return provider.calls
	}

	perPoint := len(Categories)
	if got := shortCalls(100); got != 3*perPoint {
		t.Errorf("route of 100 miles should probe 3 context points, got %d calls", got/perPoint)
	}
	if got := shortCalls(101); got != 5*perPoint {
		t.Errorf("route over 100 miles should probe 5 context points, got %d calls", got/perPoint)
	}
}

func TestRecommend_SortedByMilesFromStart(t *testing.T) {
	provider := &mockProvider{byCategory: map[Category][]RawPlace{
		CategoryFood: {{Title: "Diner A"}, {Title: "Diner B"}},
	}}
	service := newTestService(provider)

	recs := service.Recommend(context.Background(), testRoute(20), 200)

	for i := 1; i < len(recs); i++ {
		if recs[i].MilesFromStart < recs[i-1].MilesFromStart {
			t.Fatal("recommendations must be ordered by distance from start")
		}
	}
}

func TestRecommend_GlobalTitleDedup(t *testing.T) {
	provider := &mockProvider{byCategory: map[Category][]RawPlace{
		CategoryFood: {{Title: "Roadside Grill"}},
		CategoryGas:  {{Title: "Roadside Grill"}},
	}}
	service := newTestService(provider)

	recs := service.Recommend(context.Background(), testRoute(20), 200)

	if len(recs) != 1 {
		t.Fatalf("expected 1 recommendation after title dedup, got %d", len(recs))
	}
	if recs[0].Category != CategoryFood {
		t.Errorf("dedup should keep the earliest occurrence, got %s", recs[0].Category)
	}
}

func TestDedupByTitle_Idempotent(t *testing.T) {
	recs := []Recommendation{
		{Title: "Roadside Grill", MilesFromStart: 12},
		{Title: "Summit Overlook", MilesFromStart: 48},
		{Title: "Roadside Grill", MilesFromStart: 90},
	}

	first := append([]Recommendation(nil), dedupByTitle(recs)...)
	second := dedupByTitle(append([]Recommendation(nil), first...))

	if len(second) != len(first) {
		t.Fatalf("second dedup pass changed length: %d vs %d", len(second), len(first))
	}
	for i := range second {
		if second[i] != first[i] {
			t.Errorf("second dedup pass changed entry %d: %+v vs %+v", i, second[i], first[i])
		}
	}
}

func TestRecommend_SyntheticFallbackOnFailure(t *testing.T) {
	provider := &mockProvider{err: ErrProviderUnavailable}
	service := newTestService(provider)

	recs := service.Recommend(context.Background(), testRoute(20), 50)

	if len(recs) == 0 {
		t.Fatal("a failing provider must still yield synthetic recommendations")
	}
	for _, rec := range recs {
		if !rec.Synthetic {
			t.Errorf("expected synthetic recommendation, got %+v", rec)
		}
		if rec.ID == "" {
			t.Error("synthetic recommendations still need IDs")
		}
	}
}

func TestRecommend_SyntheticFallbackRotatesCategories(t *testing.T) {
	provider := &mockProvider{}
	service := newTestService(provider)

	recs := service.Recommend(context.Background(), testRoute(20), 50)

	categories := map[Category]bool{}
	for _, rec := range recs {
		categories[rec.Category] = true
	}
	if len(categories) < 3 {
		t.Errorf("fallback should rotate starting categories across points, saw %d categories", len(categories))
	}
}

func TestRecommend_SyntheticTitleUsesMileMarkerWithoutGeocoder(t *testing.T) {
	provider := &mockProvider{}
	service := newTestService(provider)

	recs := service.Recommend(context.Background(), testRoute(20), 50)

	if !strings.Contains(recs[0].Title, "mile ") {
		t.Errorf("expected mile-marker label in synthetic title, got %s", recs[0].Title)
	}
}

func TestRecommend_EmptyRoute(t *testing.T) {
	service := newTestService(&mockProvider{})
	if recs := service.Recommend(context.Background(), nil, 0); recs != nil {
		t.Errorf("expected nil for empty route, got %v", recs)
	}
}

func TestRecommend_UniqueIDs(t *testing.T) {
	provider := &mockProvider{byCategory: map[Category][]RawPlace{
		CategoryFood: {{Title: "A"}, {Title: "B"}, {Title: "C"}},
	}}
	service := newTestService(provider)

	recs := service.Recommend(context.Background(), testRoute(20), 50)

	seen := map[string]bool{}
	for _, rec := range recs {
		if seen[rec.ID] {
			t.Fatalf("duplicate recommendation ID %s", rec.ID)
		}
		seen[rec.ID] = true
	}
}
