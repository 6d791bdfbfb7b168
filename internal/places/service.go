package places

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/vbelide9/wayvue/pkg/polyline"
)

// Context point positions as fractions of the route. Short routes get
// three probes, longer ones five.
var (
	shortRouteFractions = []float64{0.1, 0.5, 0.9}
	longRouteFractions  = []float64{0.1, 0.3, 0.5, 0.7, 0.9}
)

// shortRouteMiles is the distance at or below which a route uses the
// three-probe layout.
const shortRouteMiles = 100

// Geocoder resolves a coordinate to a short place label.
type Geocoder interface {
	ReverseResolve(ctx context.Context, lat, lon float64, full bool) (string, error)
}

// ServiceConfig holds configuration for the places service.
type ServiceConfig struct {
	// Provider is the place search provider.
	Provider Provider

	// Geocoder labels context points for synthetic fallbacks (optional).
	Geocoder Geocoder

	// Logger for service operations.
	Logger zerolog.Logger

	// Stagger is the launch delay between consecutive context point
	// queries, keeping burst pressure off free-tier APIs (default: 150ms).
	Stagger time.Duration
}

// Service recommends stops along a route.
type Service struct {
	provider Provider
	geocoder Geocoder
	logger   zerolog.Logger
	stagger  time.Duration
}

// NewService creates a new places service.
func NewService(cfg ServiceConfig) *Service {
	stagger := cfg.Stagger
	if stagger == 0 {
		stagger = 150 * time.Millisecond
	}

	return &Service{
		provider: cfg.Provider,
		geocoder: cfg.Geocoder,
		logger:   cfg.Logger,
		stagger:  stagger,
	}
}

// Recommend searches for stops around context points along the route and
// returns a deduplicated list ordered by distance from the start. A failed
// context point degrades to synthetic suggestions instead of failing the
// whole recommendation set.
func (s *Service) Recommend(ctx context.Context, route []polyline.Coordinate, routeMiles float64) []Recommendation {
	if len(route) == 0 {
		return nil
	}

	fractions := longRouteFractions
	if routeMiles <= shortRouteMiles {
		fractions = shortRouteFractions
	}

	perPoint := make([][]Recommendation, len(fractions))

	var wg sync.WaitGroup
	for i, fraction := range fractions {
		wg.Add(1)
		go func(idx int, fraction float64) {
			defer wg.Done()

			select {
			case <-time.After(time.Duration(idx) * s.stagger):
			case <-ctx.Done():
				return
			}

			point := route[int(fraction*float64(len(route)-1))]
			miles := fraction * routeMiles
			perPoint[idx] = s.recommendAt(ctx, idx, point, miles)
		}(i, fraction)
	}
	wg.Wait()

	var all []Recommendation
	for _, recs := range perPoint {
		all = append(all, recs...)
	}

	sort.SliceStable(all, func(i, j int) bool {
		return all[i].MilesFromStart < all[j].MilesFromStart
	})

	return dedupByTitle(all)
}

// recommendAt queries every category around one context point, applying
// per-category caps. A point that yields nothing falls back to synthetic
// suggestions.
func (s *Service) recommendAt(ctx context.Context, pointIdx int, point polyline.Coordinate, miles float64) []Recommendation {
	var recs []Recommendation

	for _, category := range Categories {
		raw, err := s.provider.Nearby(ctx, point.Lat, point.Lon, category)
		if err != nil {
			s.logger.Warn().Err(err).
				Str("category", string(category)).
				Int("context_point", pointIdx).
				Msg("place search failed for category")
			continue
		}

		remaining := categoryCaps[category]
		for _, place := range raw {
			if remaining == 0 {
				break
			}
			remaining--
			recs = append(recs, Recommendation{
				ID:             uuid.New().String(),
				Title:          place.Title,
				Category:       category,
				Description:    place.Detail,
				MilesFromStart: miles,
				Lat:            place.Lat,
				Lon:            place.Lon,
			})
		}
	}

	if len(recs) == 0 {
		recs = s.syntheticFallback(ctx, pointIdx, point, miles)
	}

	return recs
}

// syntheticFallback fabricates one suggestion for a context point that
// produced no real results, rotating the category by point index so
// consecutive fallbacks do not repeat.
func (s *Service) syntheticFallback(ctx context.Context, pointIdx int, point polyline.Coordinate, miles float64) []Recommendation {
	town := s.townLabel(ctx, point, miles)
	category := Categories[pointIdx%len(Categories)]

	return []Recommendation{{
		ID:             uuid.New().String(),
		Title:          syntheticTitle(category, town),
		Category:       category,
		Description:    fmt.Sprintf("Suggested stop around %s", town),
		MilesFromStart: miles,
		Lat:            point.Lat,
		Lon:            point.Lon,
		Synthetic:      true,
	}}
}

func syntheticTitle(category Category, town string) string {
	switch category {
	case CategoryFood:
		return fmt.Sprintf("Local diner near %s", town)
	case CategoryGas:
		return fmt.Sprintf("Fuel stop near %s", town)
	case CategoryCharging:
		return fmt.Sprintf("EV charging near %s", town)
	case CategoryView:
		return fmt.Sprintf("Scenic overlook near %s", town)
	default:
		return fmt.Sprintf("Rest area near %s", town)
	}
}

// townLabel resolves a short place name for a context point, falling back
// to a mile marker.
func (s *Service) townLabel(ctx context.Context, point polyline.Coordinate, miles float64) string {
	if s.geocoder != nil {
		name, err := s.geocoder.ReverseResolve(ctx, point.Lat, point.Lon, false)
		if err == nil && name != "" {
			return name
		}
	}
	return fmt.Sprintf("mile %.0f", miles)
}

// dedupByTitle drops repeated titles, keeping the earliest occurrence.
func dedupByTitle(recs []Recommendation) []Recommendation {
	seen := make(map[string]bool, len(recs))
	out := recs[:0]
	for _, rec := range recs {
		if seen[rec.Title] {
			continue
		}
		seen[rec.Title] = true
		out = append(out, rec)
	}
	return out
}

// ProviderName returns the name of the underlying provider.
func (s *Service) ProviderName() string {
	return s.provider.Name()
}
