package roadcond

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/vbelide9/wayvue/internal/weather"
	"github.com/vbelide9/wayvue/pkg/polyline"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name   string
		codes  []int
		status Status
	}{
		{"clear and cloudy are good", []int{0, 1, 2, 3}, StatusGood},
		{"fog is moderate", []int{45, 48}, StatusModerate},
		{"drizzle is moderate", []int{51, 53, 55}, StatusModerate},
		{"rain is moderate", []int{61, 63, 65, 80, 81, 82}, StatusModerate},
		{"thunderstorms are moderate", []int{95, 96, 99}, StatusModerate},
		{"freezing precipitation is poor", []int{56, 57, 66, 67}, StatusPoor},
		{"snow is poor", []int{71, 73, 75, 77, 85, 86}, StatusPoor},
		{"unknown codes are good", []int{42, 100, -1}, StatusGood},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, code := range tt.codes {
				if got := Classify(code).Status; got != tt.status {
					t.Errorf("code %d: expected %s, got %s", code, tt.status, got)
				}
			}
		})
	}
}

func TestClassify_Description(t *testing.T) {
	if c := Classify(71); c.Description != "Snowfall" {
		t.Errorf("unexpected description for snow: %s", c.Description)
	}
	if c := Classify(0); c.Description != "Clear sky" {
		t.Errorf("unexpected description for clear: %s", c.Description)
	}
}

type mockGeocoder struct {
	label string
	err   error
}

func (m *mockGeocoder) ReverseResolve(ctx context.Context, lat, lon float64, full bool) (string, error) {
	if m.err != nil {
		return "", m.err
	}
	return m.label, nil
}

func routePoints(n int) []polyline.Coordinate {
	points := make([]polyline.Coordinate, n)
	for i := range points {
		points[i] = polyline.Coordinate{Lat: 40.0 + float64(i)*0.1, Lon: -74.0}
	}
	return points
}

func uniformObservations(n, code int) []*weather.Observation {
	obs := make([]*weather.Observation, n)
	for i := range obs {
		obs[i] = &weather.Observation{Temperature: 15, WeatherCode: code}
	}
	return obs
}

func TestBuildSegments_FourPositions(t *testing.T) {
	service := NewService(ServiceConfig{Geocoder: &mockGeocoder{label: "Albany, NY"}})

	departure := time.Date(2026, 9, 1, 8, 0, 0, 0, time.UTC)
	segments := service.BuildSegments(context.Background(),
		routePoints(13), uniformObservations(13, 1), departure, 6*time.Hour, 300)

	if len(segments) != 4 {
		t.Fatalf("expected 4 segments, got %d", len(segments))
	}

	if segments[0].MilesFromStart != 0 {
		t.Errorf("first segment should be at the origin, got %f miles", segments[0].MilesFromStart)
	}
	if segments[3].MilesFromStart != 300 {
		t.Errorf("last segment should be at the destination, got %f miles", segments[3].MilesFromStart)
	}
	for i := 1; i < len(segments); i++ {
		if segments[i].MilesFromStart <= segments[i-1].MilesFromStart {
			t.Error("segments should be ordered by distance from start")
		}
	}

	if segments[0].ETA != "8:00 AM" {
		t.Errorf("origin ETA should be the departure time, got %s", segments[0].ETA)
	}
	if segments[3].ETA != "2:00 PM" {
		t.Errorf("destination ETA should be departure plus duration, got %s", segments[3].ETA)
	}
	if segments[0].Location != "Albany, NY" {
		t.Errorf("segment should use the geocoded label, got %s", segments[0].Location)
	}
}

func TestBuildSegments_ShortRouteDeduplicates(t *testing.T) {
	service := NewService(ServiceConfig{})

	departure := time.Date(2026, 9, 1, 8, 0, 0, 0, time.UTC)
	segments := service.BuildSegments(context.Background(),
		routePoints(2), uniformObservations(2, 1), departure, time.Hour, 20)

	// With two points, fractions 0 and 0.33 collapse to index 0 and
	// 0.66 and 1.0 collapse to index 1.
	if len(segments) != 2 {
		t.Fatalf("expected 2 deduplicated segments, got %d", len(segments))
	}
}

func TestBuildSegments_GeocodeFailureFallsBackToMileMarker(t *testing.T) {
	service := NewService(ServiceConfig{Geocoder: &mockGeocoder{err: errors.New("boom")}})

	departure := time.Date(2026, 9, 1, 8, 0, 0, 0, time.UTC)
	segments := service.BuildSegments(context.Background(),
		routePoints(13), uniformObservations(13, 1), departure, 6*time.Hour, 300)

	if !strings.HasPrefix(segments[1].Location, "Mile ") {
		t.Errorf("expected mile-marker fallback, got %s", segments[1].Location)
	}
}

func TestBuildSegments_NilObservationUsesNeutral(t *testing.T) {
	service := NewService(ServiceConfig{})

	departure := time.Date(2026, 9, 1, 8, 0, 0, 0, time.UTC)
	segments := service.BuildSegments(context.Background(),
		routePoints(4), make([]*weather.Observation, 4), departure, time.Hour, 60)

	for _, seg := range segments {
		if seg.Condition.Status != StatusGood {
			t.Errorf("neutral observation should classify as good, got %s", seg.Condition.Status)
		}
		if seg.Temperature != 18 {
			t.Errorf("expected neutral temperature, got %f", seg.Temperature)
		}
	}
}

type mockCameraSource struct {
	camera *CameraRef
	err    error
}

func (m *mockCameraSource) NearestCamera(ctx context.Context, lat, lon float64) (*CameraRef, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.camera, nil
}

func (m *mockCameraSource) Name() string { return "mock" }

func TestBuildSegments_AttachesFeedCamera(t *testing.T) {
	cam := &CameraRef{ID: "nysdot-42", Name: "I-90 at Exit 34"}
	service := NewService(ServiceConfig{Cameras: &mockCameraSource{camera: cam}})

	departure := time.Date(2026, 9, 1, 8, 0, 0, 0, time.UTC)
	segments := service.BuildSegments(context.Background(),
		routePoints(13), uniformObservations(13, 1), departure, 6*time.Hour, 300)

	for _, seg := range segments {
		if seg.Camera.ID != "nysdot-42" {
			t.Errorf("expected feed camera on segment, got %s", seg.Camera.ID)
		}
	}
}

func TestBuildSegments_CameraFallbackIsSimulated(t *testing.T) {
	tests := []struct {
		name   string
		source CameraSource
	}{
		{"no source", nil},
		{"feed error", &mockCameraSource{err: errors.New("feed down")}},
		{"no camera in range", &mockCameraSource{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service := NewService(ServiceConfig{Cameras: tt.source})

			departure := time.Date(2026, 9, 1, 8, 0, 0, 0, time.UTC)
			segments := service.BuildSegments(context.Background(),
				routePoints(13), uniformObservations(13, 1), departure, 6*time.Hour, 300)

			for _, seg := range segments {
				if !strings.HasPrefix(seg.Camera.ID, "sim-") {
					t.Errorf("fallback camera IDs must carry the sim- prefix, got %s", seg.Camera.ID)
				}
			}
		})
	}
}

func TestBuildSegments_Empty(t *testing.T) {
	service := NewService(ServiceConfig{})
	if segments := service.BuildSegments(context.Background(), nil, nil, time.Now(), time.Hour, 0); segments != nil {
		t.Errorf("expected nil for empty route, got %v", segments)
	}
}
