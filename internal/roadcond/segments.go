package roadcond

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/vbelide9/wayvue/internal/weather"
	"github.com/vbelide9/wayvue/pkg/polyline"
)

// segmentFractions are the route positions reported as road segments.
var segmentFractions = []float64{0, 0.33, 0.66, 1.0}

// Geocoder resolves a coordinate to a short place label.
type Geocoder interface {
	ReverseResolve(ctx context.Context, lat, lon float64, full bool) (string, error)
}

// ServiceConfig holds configuration for the road condition service.
type ServiceConfig struct {
	// Geocoder labels segment positions (optional). Without one, segments
	// fall back to mile-marker labels.
	Geocoder Geocoder

	// Cameras supplies traffic cameras near segments (optional).
	Cameras CameraSource

	// Logger for service operations.
	Logger zerolog.Logger
}

// Service builds classified road segments for a route.
type Service struct {
	geocoder Geocoder
	cameras  CameraSource
	logger   zerolog.Logger
}

// NewService creates a new road condition service.
func NewService(cfg ServiceConfig) *Service {
	return &Service{
		geocoder: cfg.Geocoder,
		cameras:  cfg.Cameras,
		logger:   cfg.Logger,
	}
}

// BuildSegments classifies driving conditions at fixed positions along the
// route. Points and observations are positionally aligned. Short routes
// where fractional positions collapse onto the same sample yield fewer
// than four segments.
func (s *Service) BuildSegments(
	ctx context.Context,
	points []polyline.Coordinate,
	observations []*weather.Observation,
	departure time.Time,
	duration time.Duration,
	routeMiles float64,
) []Segment {
	if len(points) == 0 {
		return nil
	}

	segments := make([]Segment, 0, len(segmentFractions))
	seen := make(map[int]bool, len(segmentFractions))

	for _, fraction := range segmentFractions {
		idx := int(fraction * float64(len(points)-1))
		if seen[idx] {
			continue
		}
		seen[idx] = true

		point := points[idx]
		progress := 0.0
		if len(points) > 1 {
			progress = float64(idx) / float64(len(points)-1)
		}

		obs := weather.NeutralObservation()
		if idx < len(observations) && observations[idx] != nil {
			obs = observations[idx]
		}

		miles := progress * routeMiles
		eta := departure.Add(time.Duration(progress * float64(duration)))

		segments = append(segments, Segment{
			Location:       s.label(ctx, point.Lat, point.Lon, miles),
			MilesFromStart: round1(miles),
			ETA:            eta.Format("3:04 PM"),
			Condition:      Classify(obs.WeatherCode),
			Temperature:    obs.Temperature,
			Camera:         s.attachCamera(ctx, point.Lat, point.Lon),
		})
	}

	return segments
}

// label resolves a short place name for a segment, falling back to a mile
// marker when reverse geocoding is unavailable or fails.
func (s *Service) label(ctx context.Context, lat, lon, miles float64) string {
	if s.geocoder != nil {
		name, err := s.geocoder.ReverseResolve(ctx, lat, lon, false)
		if err == nil && name != "" {
			return name
		}
		if err != nil {
			s.logger.Debug().Err(err).
				Float64("lat", lat).
				Float64("lon", lon).
				Msg("reverse geocode failed for segment label")
		}
	}
	return fmt.Sprintf("Mile %.0f", miles)
}

// attachCamera looks up the closest camera to a segment. A feed miss or
// failure yields a simulated placeholder so segments always carry a
// camera reference.
func (s *Service) attachCamera(ctx context.Context, lat, lon float64) CameraRef {
	if s.cameras != nil {
		cam, err := s.cameras.NearestCamera(ctx, lat, lon)
		if err != nil {
			s.logger.Debug().Err(err).
				Str("source", s.cameras.Name()).
				Msg("camera lookup failed for segment")
		} else if cam != nil {
			return *cam
		}
	}

	return CameraRef{
		ID:   fmt.Sprintf("sim-%.3f-%.3f", lat, lon),
		Name: fmt.Sprintf("Highway camera near %.3f, %.3f", lat, lon),
		Lat:  lat,
		Lon:  lon,
	}
}

func round1(v float64) float64 {
	return float64(int(v*10+0.5)) / 10
}
