package trip

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/vbelide9/wayvue/internal/geocode"
	"github.com/vbelide9/wayvue/internal/places"
	"github.com/vbelide9/wayvue/internal/roadcond"
	"github.com/vbelide9/wayvue/internal/routing"
	"github.com/vbelide9/wayvue/internal/weather"
	"github.com/vbelide9/wayvue/pkg/polyline"
)

// Sampling profile: aim for about a dozen weather points, never closer
// than ten miles apart.
const (
	targetSamplePoints = 12
	minIntervalMiles   = 10
)

// GeocodeResolver resolves locations to coordinates and back.
type GeocodeResolver interface {
	Resolve(ctx context.Context, query string) (*geocode.Location, error)
	ReverseResolve(ctx context.Context, lat, lon float64, full bool) (string, error)
}

// RouteFetcher computes driving routes.
type RouteFetcher interface {
	GetDirections(ctx context.Context, req routing.DirectionsRequest) (*routing.DirectionsResponse, error)
}

// WeatherObserver fetches time-aligned observations.
type WeatherObserver interface {
	Observe(ctx context.Context, point weather.TimedPoint) (*weather.Observation, error)
	ObserveBatch(ctx context.Context, points []weather.TimedPoint) []*weather.Observation
}

// SegmentBuilder classifies road segments.
type SegmentBuilder interface {
	BuildSegments(ctx context.Context, points []polyline.Coordinate, observations []*weather.Observation,
		departure time.Time, duration time.Duration, routeMiles float64) []roadcond.Segment
}

// Recommender suggests stops along a route.
type Recommender interface {
	Recommend(ctx context.Context, route []polyline.Coordinate, routeMiles float64) []places.Recommendation
}

// ServiceConfig holds the leg processor's dependencies.
type ServiceConfig struct {
	Geocoder GeocodeResolver
	Router   RouteFetcher
	Weather  WeatherObserver
	Roads    SegmentBuilder
	Stops    Recommender

	// Logger for processing operations.
	Logger zerolog.Logger

	// Rand seeds the narrative's fun line (optional, for reproducibility).
	Rand *rand.Rand

	// Now overrides the clock (optional, for tests).
	Now func() time.Time
}

// Service processes trip legs end to end.
type Service struct {
	geocoder GeocodeResolver
	router   RouteFetcher
	weather  WeatherObserver
	roads    SegmentBuilder
	stops    Recommender
	logger   zerolog.Logger
	rng      *rand.Rand
	now      func() time.Time
}

// NewService creates a new leg processor.
func NewService(cfg ServiceConfig) *Service {
	now := cfg.Now
	if now == nil {
		now = time.Now
	}

	return &Service{
		geocoder: cfg.Geocoder,
		router:   cfg.Router,
		weather:  cfg.Weather,
		roads:    cfg.Roads,
		stops:    cfg.Stops,
		logger:   cfg.Logger,
		rng:      cfg.Rand,
		now:      now,
	}
}

// ProcessLeg enriches one trip leg. Endpoint resolution and routing
// failures are fatal; every enrichment branch degrades independently.
func (s *Service) ProcessLeg(ctx context.Context, input LegInput) (*Leg, error) {
	departure := s.parseDeparture(input.DepartureDate, input.DepartureTime)

	start, err := s.resolveEndpoint(ctx, input.Start, input.StartCoords)
	if err != nil {
		return nil, fmt.Errorf("resolving start %q: %w", input.Start, err)
	}
	end, err := s.resolveEndpoint(ctx, input.End, input.EndCoords)
	if err != nil {
		return nil, fmt.Errorf("resolving end %q: %w", input.End, err)
	}

	directions, err := s.router.GetDirections(ctx, routing.DirectionsRequest{
		Origin:           routing.Coordinate{Lat: start.Lat, Lon: start.Lon},
		Destination:      routing.Coordinate{Lat: end.Lat, Lon: end.Lon},
		WantAlternatives: input.Scenic,
	})
	if err != nil {
		return nil, fmt.Errorf("fetching route: %w: %v", ErrRouteUnavailable, err)
	}

	route, err := routing.SelectRoute(directions, input.Scenic)
	if err != nil {
		return nil, fmt.Errorf("selecting route: %w: %v", ErrRouteUnavailable, err)
	}

	routeMiles := route.DistanceMiles()
	duration := time.Duration(route.DurationSeconds * float64(time.Second))

	interval := routeMiles / targetSamplePoints
	if interval < minIntervalMiles {
		interval = minIntervalMiles
	}
	sampled := polyline.SampleMiles(route.Geometry, interval)
	timed, sampleMiles := s.alignSamples(sampled, routeMiles, departure, duration)

	// Enrichment branches run concurrently and fail independently: a dead
	// branch leaves its section empty rather than failing the leg.
	var (
		wg              sync.WaitGroup
		weatherPoints   []WeatherPoint
		observations    []*weather.Observation
		labels          []string
		segments        []roadcond.Segment
		recommendations []places.Recommendation
	)

	wg.Add(3)
	go func() {
		defer wg.Done()
		observations = weather.FillGaps(s.weather.ObserveBatch(ctx, timed))
		labels = s.labelSamples(ctx, sampled, sampleMiles, start.DisplayName, end.DisplayName)
		weatherPoints = buildWeatherPoints(sampled, observations, labels, sampleMiles, timed)
	}()
	go func() {
		defer wg.Done()
		segObs := s.segmentObservations(ctx, timed)
		segments = s.roads.BuildSegments(ctx, sampled, segObs, departure, duration, routeMiles)
	}()
	go func() {
		defer wg.Done()
		recommendations = s.stops.Recommend(ctx, route.Geometry, routeMiles)
	}()
	wg.Wait()

	agg := buildAggregateContext(
		start.DisplayName, end.DisplayName,
		routeMiles, route.DurationSeconds,
		departure, observations, segments, labels,
	)

	score := Score(agg)
	narrative := Narrate(agg, score, s.rng)

	analysis := Analysis{Score: score, Narrative: narrative}
	now := s.now()
	if departure.Format("2006-01-02") == now.Format("2006-01-02") {
		analysis.DepartureOptions = s.adviseDepartures(ctx, start.Lat, start.Lon, agg, now)
	}

	return &Leg{
		Route: RouteSummary{
			StartName:     start.DisplayName,
			EndName:       end.DisplayName,
			DistanceMiles: routeMiles,
			DurationText:  formatDuration(route.DurationSeconds),
			Geometry:      route.Geometry,
			Scenic:        input.Scenic,
		},
		Metrics: Metrics{
			DistanceMiles:       routeMiles,
			DurationText:        formatDuration(route.DurationSeconds),
			FuelCostUSD:         agg.FuelCostUSD,
			EVCostUSD:           agg.EVCostUSD,
			TrafficDelayMinutes: agg.TrafficDelayMinutes,
			TempMinC:            agg.TempMinC,
			TempMaxC:            agg.TempMaxC,
			MaxWindKmh:          agg.MaxWindKmh,
			PrecipChance:        agg.PrecipChance,
		},
		Weather:         weatherPoints,
		RoadConditions:  segments,
		Analysis:        analysis,
		Recommendations: recommendations,
	}, nil
}

// resolveEndpoint geocodes a free-text location, or passes supplied
// coordinates through keeping the original text as display name.
func (s *Service) resolveEndpoint(ctx context.Context, text string, coords *routing.Coordinate) (*geocode.Location, error) {
	if coords != nil {
		loc, err := geocode.PassThrough(coords.Lat, coords.Lon, text)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrEndpointNotResolved, err)
		}
		return loc, nil
	}

	loc, err := s.geocoder.Resolve(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEndpointNotResolved, err)
	}
	return loc, nil
}

// parseDeparture combines date and time strings into a departure
// timestamp. Anything unparseable falls back to now.
func (s *Service) parseDeparture(date, clock string) time.Time {
	now := s.now()

	switch {
	case date != "" && clock != "":
		if t, err := time.ParseInLocation("2006-01-02 15:04", date+" "+clock, now.Location()); err == nil {
			return t
		}
	case date != "":
		if t, err := time.ParseInLocation("2006-01-02", date, now.Location()); err == nil {
			return time.Date(t.Year(), t.Month(), t.Day(), 9, 0, 0, 0, now.Location())
		}
	case clock != "":
		if t, err := time.ParseInLocation("15:04", clock, now.Location()); err == nil {
			return time.Date(now.Year(), now.Month(), now.Day(), t.Hour(), t.Minute(), 0, 0, now.Location())
		}
	}

	return now
}

// alignSamples computes cumulative miles along the sampled points and the
// forecast target time for each, spreading the trip duration over route
// progress.
func (s *Service) alignSamples(
	sampled []polyline.Coordinate,
	routeMiles float64,
	departure time.Time,
	duration time.Duration,
) ([]weather.TimedPoint, []float64) {
	timed := make([]weather.TimedPoint, len(sampled))
	miles := make([]float64, len(sampled))

	cum := 0.0
	for i, point := range sampled {
		if i > 0 {
			cum += polyline.HaversineMiles(sampled[i-1], point)
		}
		miles[i] = cum

		progress := 0.0
		if routeMiles > 0 {
			progress = cum / routeMiles
			if progress > 1 {
				progress = 1
			}
		}

		date, hour := weather.TargetTime(departure, duration, progress)
		timed[i] = weather.TimedPoint{Lat: point.Lat, Lon: point.Lon, Date: date, Hour: hour}
	}

	return timed, miles
}

// labelSamples reverse geocodes interior points. Endpoints keep their
// resolved display names, and a failed lookup degrades to a mile marker.
func (s *Service) labelSamples(ctx context.Context, sampled []polyline.Coordinate, miles []float64, startName, endName string) []string {
	labels := make([]string, len(sampled))
	if len(sampled) == 0 {
		return labels
	}

	labels[0] = startName
	labels[len(labels)-1] = endName

	for i := 1; i < len(sampled)-1; i++ {
		name, err := s.geocoder.ReverseResolve(ctx, sampled[i].Lat, sampled[i].Lon, false)
		if err != nil || name == "" {
			labels[i] = fmt.Sprintf("Mile %.0f", miles[i])
			continue
		}
		labels[i] = name
	}

	return labels
}

// segmentObservations fetches weather for just the segment positions,
// leaving other slots nil. Failures leave the slot nil, which the segment
// builder treats as neutral.
func (s *Service) segmentObservations(ctx context.Context, timed []weather.TimedPoint) []*weather.Observation {
	obs := make([]*weather.Observation, len(timed))
	if len(timed) == 0 {
		return obs
	}

	seen := make(map[int]bool, 4)
	for _, fraction := range []float64{0, 0.33, 0.66, 1.0} {
		idx := int(fraction * float64(len(timed)-1))
		if seen[idx] {
			continue
		}
		seen[idx] = true

		o, err := s.weather.Observe(ctx, timed[idx])
		if err != nil {
			continue
		}
		obs[idx] = o
	}

	return obs
}

// buildWeatherPoints zips sampled coordinates with their filled
// observations and labels.
func buildWeatherPoints(
	sampled []polyline.Coordinate,
	observations []*weather.Observation,
	labels []string,
	miles []float64,
	timed []weather.TimedPoint,
) []WeatherPoint {
	points := make([]WeatherPoint, 0, len(sampled))
	for i, coord := range sampled {
		obs := weather.NeutralObservation()
		if i < len(observations) && observations[i] != nil {
			obs = observations[i]
		}

		points = append(points, WeatherPoint{
			Label:             labels[i],
			Lat:               coord.Lat,
			Lon:               coord.Lon,
			MilesFromStart:    miles[i],
			ETA:               fmt.Sprintf("%s %02d:00", timed[i].Date, timed[i].Hour),
			Temperature:       obs.Temperature,
			WeatherCode:       obs.WeatherCode,
			Description:       weather.CodeDescription(obs.WeatherCode),
			WindSpeedKmh:      obs.WindSpeedKmh,
			Humidity:          obs.Humidity,
			PrecipProbability: obs.PrecipProbability,
		})
	}
	return points
}
