package geocode

import (
	"context"
	"fmt"
	"sync"

	"github.com/rs/zerolog"
)

// ServiceConfig holds configuration for the geocoding service.
type ServiceConfig struct {
	// Provider is the geocoding data provider.
	Provider Provider

	// Logger for service operations.
	Logger zerolog.Logger

	// ReverseCacheSize caps the reverse-geocode label cache. When full, the
	// oldest entry (by insert order) is evicted. Default: 2000.
	ReverseCacheSize int
}

// Service provides forward and reverse geocoding. Reverse lookups are cached
// by coordinate rounded to 4 decimal places (~11m): the same rounded point
// always resolves to the same label, so last-writer-wins under concurrency
// is acceptable.
type Service struct {
	provider  Provider
	logger    zerolog.Logger
	cacheSize int

	mu         sync.Mutex
	cache      map[string]*ReverseResult
	cacheOrder []string
}

// NewService creates a new geocoding service.
func NewService(cfg ServiceConfig) *Service {
	cacheSize := cfg.ReverseCacheSize
	if cacheSize == 0 {
		cacheSize = 2000
	}

	return &Service{
		provider:  cfg.Provider,
		logger:    cfg.Logger,
		cacheSize: cacheSize,
		cache:     make(map[string]*ReverseResult),
	}
}

// Resolve geocodes a free-text place name.
func (s *Service) Resolve(ctx context.Context, query string) (*Location, error) {
	if query == "" {
		return nil, ErrNotFound
	}

	loc, err := s.provider.Search(ctx, query)
	if err != nil {
		s.logger.Warn().Err(err).Str("query", query).Msg("geocode lookup failed")
		return nil, err
	}
	return loc, nil
}

// PassThrough wraps client-supplied coordinates in a Location, keeping the
// original input text as the display name. No provider call is made.
func PassThrough(lat, lon float64, displayName string) (*Location, error) {
	if err := validateCoordinates(lat, lon); err != nil {
		return nil, err
	}
	return &Location{Lat: lat, Lon: lon, DisplayName: displayName}, nil
}

// ReverseResolve resolves a coordinate to a place label. When full is true
// the complete formatted address is returned, otherwise a town-level label.
// Results are cached; a cache hit never touches the provider.
func (s *Service) ReverseResolve(ctx context.Context, lat, lon float64, full bool) (string, error) {
	if err := validateCoordinates(lat, lon); err != nil {
		return "", err
	}

	key := cacheKey(lat, lon)

	s.mu.Lock()
	if cached, ok := s.cache[key]; ok {
		s.mu.Unlock()
		return pickLabel(cached, full), nil
	}
	s.mu.Unlock()

	result, err := s.provider.Reverse(ctx, lat, lon)
	if err != nil {
		s.logger.Warn().Err(err).
			Float64("lat", lat).
			Float64("lon", lon).
			Msg("reverse geocode failed")
		return "", err
	}

	s.store(key, result)
	return pickLabel(result, full), nil
}

// store inserts a reverse result, evicting the oldest entry once the cache
// is at capacity.
func (s *Service) store(key string, result *ReverseResult) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.cache[key]; !exists {
		if len(s.cacheOrder) >= s.cacheSize {
			oldest := s.cacheOrder[0]
			s.cacheOrder = s.cacheOrder[1:]
			delete(s.cache, oldest)
		}
		s.cacheOrder = append(s.cacheOrder, key)
	}
	s.cache[key] = result
}

// CacheLen returns the number of cached reverse-geocode entries.
func (s *Service) CacheLen() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.cache)
}

// ProviderName returns the name of the underlying provider.
func (s *Service) ProviderName() string {
	return s.provider.Name()
}

func pickLabel(r *ReverseResult, full bool) string {
	if full {
		return r.FullAddress
	}
	return r.ShortLabel
}

// cacheKey rounds coordinates to 4 decimal places (~11m precision).
func cacheKey(lat, lon float64) string {
	return fmt.Sprintf("%.4f,%.4f", lat, lon)
}

// validateCoordinates checks if coordinates are within valid ranges.
func validateCoordinates(lat, lon float64) error {
	if lat < -90 || lat > 90 || lon < -180 || lon > 180 {
		return ErrInvalidCoordinates
	}
	return nil
}
