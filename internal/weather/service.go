package weather

import (
	"context"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// ServiceConfig holds configuration for the weather service.
type ServiceConfig struct {
	// Provider is the weather data provider.
	Provider Provider

	// Logger for service operations.
	Logger zerolog.Logger

	// CacheTTL is how long to cache observations (default: 10 minutes).
	CacheTTL time.Duration

	// CacheGridSize is the size of cache grid cells in degrees (default: 0.05 ~ 5.5km).
	// Points within the same grid cell and hour share a cached observation.
	CacheGridSize float64

	// CleanupInterval is how often to clean up expired entries (default: 10 minutes).
	CleanupInterval time.Duration

	// BatchChunkSize is how many points are fetched concurrently per chunk
	// (default: 5).
	BatchChunkSize int

	// BatchChunkDelay is the pause between chunks to stay polite with
	// free-tier forecast APIs (default: 200ms).
	BatchChunkDelay time.Duration
}

// Service provides weather observations with caching and batch fetching.
type Service struct {
	provider        Provider
	logger          zerolog.Logger
	cacheTTL        time.Duration
	cacheGridSize   float64
	cleanupInterval time.Duration
	batchChunkSize  int
	batchChunkDelay time.Duration

	mu          sync.RWMutex
	cache       map[string]*cachedObservation
	lastCleanup time.Time
}

type cachedObservation struct {
	observation *Observation
	fetchedAt   time.Time
	expiresAt   time.Time
}

// NewService creates a new weather service.
func NewService(cfg ServiceConfig) *Service {
	cacheTTL := cfg.CacheTTL
	if cacheTTL == 0 {
		cacheTTL = 10 * time.Minute
	}

	cacheGridSize := cfg.CacheGridSize
	if cacheGridSize == 0 {
		cacheGridSize = 0.05 // ~5.5km at equator
	}

	cleanupInterval := cfg.CleanupInterval
	if cleanupInterval == 0 {
		cleanupInterval = 10 * time.Minute
	}

	batchChunkSize := cfg.BatchChunkSize
	if batchChunkSize == 0 {
		batchChunkSize = 5
	}

	batchChunkDelay := cfg.BatchChunkDelay
	if batchChunkDelay == 0 {
		batchChunkDelay = 200 * time.Millisecond
	}

	return &Service{
		provider:        cfg.Provider,
		logger:          cfg.Logger,
		cacheTTL:        cacheTTL,
		cacheGridSize:   cacheGridSize,
		cleanupInterval: cleanupInterval,
		batchChunkSize:  batchChunkSize,
		batchChunkDelay: batchChunkDelay,
		cache:           make(map[string]*cachedObservation),
	}
}

// Observe returns the forecast observation for a point at a specific date
// and hour. Uses cached data if available and not expired.
func (s *Service) Observe(ctx context.Context, point TimedPoint) (*Observation, error) {
	if point.Lat < -90 || point.Lat > 90 || point.Lon < -180 || point.Lon > 180 {
		return nil, ErrInvalidCoordinates
	}

	cacheKey := s.cacheKey(point)

	s.mu.RLock()
	if cached, ok := s.cache[cacheKey]; ok && time.Now().Before(cached.expiresAt) {
		s.mu.RUnlock()
		return cached.observation, nil
	}
	s.mu.RUnlock()

	return s.fetchObservation(ctx, point, cacheKey)
}

// ObserveBatch fetches observations for an ordered slice of points. Points
// are fetched in chunks, concurrently within a chunk, with a short pause
// between chunks. The result slice is positionally aligned with the input:
// a failed point yields a nil entry at its index rather than failing the
// whole batch.
func (s *Service) ObserveBatch(ctx context.Context, points []TimedPoint) []*Observation {
	results := make([]*Observation, len(points))

	for start := 0; start < len(points); start += s.batchChunkSize {
		end := start + s.batchChunkSize
		if end > len(points) {
			end = len(points)
		}

		var wg sync.WaitGroup
		for i := start; i < end; i++ {
			wg.Add(1)
			go func(idx int) {
				defer wg.Done()
				obs, err := s.Observe(ctx, points[idx])
				if err != nil {
					s.logger.Warn().Err(err).
						Int("point_index", idx).
						Float64("lat", points[idx].Lat).
						Float64("lon", points[idx].Lon).
						Msg("weather fetch failed for route point")
					return
				}
				results[idx] = obs
			}(i)
		}
		wg.Wait()

		if end < len(points) {
			select {
			case <-time.After(s.batchChunkDelay):
			case <-ctx.Done():
				return results
			}
		}
	}

	return results
}

// FillGaps replaces nil observations with the nearest non-nil neighbor,
// scanning outward and preferring the left (earlier) neighbor at equal
// distance. If every entry is nil, all slots get the neutral default.
func FillGaps(observations []*Observation) []*Observation {
	filled := make([]*Observation, len(observations))
	copy(filled, observations)

	anyPresent := false
	for _, obs := range filled {
		if obs != nil {
			anyPresent = true
			break
		}
	}

	if !anyPresent {
		for i := range filled {
			filled[i] = NeutralObservation()
		}
		return filled
	}

	for i, obs := range filled {
		if obs != nil {
			continue
		}
		for dist := 1; dist < len(observations); dist++ {
			if left := i - dist; left >= 0 && observations[left] != nil {
				filled[i] = observations[left]
				break
			}
			if right := i + dist; right < len(observations) && observations[right] != nil {
				filled[i] = observations[right]
				break
			}
		}
	}

	return filled
}

// fetchObservation fetches an observation from the provider and updates cache.
func (s *Service) fetchObservation(ctx context.Context, point TimedPoint, cacheKey string) (*Observation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Double-check cache (prevents thundering herd)
	if cached, ok := s.cache[cacheKey]; ok && time.Now().Before(cached.expiresAt) {
		return cached.observation, nil
	}

	obs, err := s.provider.Observe(ctx, point.Lat, point.Lon, point.Date, point.Hour)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	s.cache[cacheKey] = &cachedObservation{
		observation: obs,
		fetchedAt:   now,
		expiresAt:   now.Add(s.cacheTTL),
	}

	s.cleanupIfNeeded()

	return obs, nil
}

// cacheKey generates a cache key from grid-quantized coordinates plus the
// forecast date and hour.
func (s *Service) cacheKey(point TimedPoint) string {
	gridLat := math.Floor(point.Lat/s.cacheGridSize) * s.cacheGridSize
	gridLon := math.Floor(point.Lon/s.cacheGridSize) * s.cacheGridSize
	return fmt.Sprintf("%.2f,%.2f:%s:%d", gridLat, gridLon, point.Date, point.Hour)
}

// cleanupIfNeeded removes expired entries if cleanup interval has passed.
func (s *Service) cleanupIfNeeded() {
	now := time.Now()
	if now.Sub(s.lastCleanup) < s.cleanupInterval {
		return
	}

	s.lastCleanup = now
	expired := 0

	for key, cached := range s.cache {
		if now.After(cached.expiresAt) {
			delete(s.cache, key)
			expired++
		}
	}

	if expired > 0 {
		s.logger.Debug().
			Int("expired_entries", expired).
			Msg("cleaned up expired weather cache entries")
	}
}

// InvalidateCache clears all cached data.
func (s *Service) InvalidateCache() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cache = make(map[string]*cachedObservation)
}

// ProviderName returns the name of the underlying provider.
func (s *Service) ProviderName() string {
	return s.provider.Name()
}
