// Package routing provides driving-route computation for trip legs.
package routing

import (
	"context"
	"errors"
	"time"

	"github.com/vbelide9/wayvue/pkg/polyline"
)

// Sentinel errors for routing operations.
var (
	// ErrProviderUnavailable indicates the routing engine is down or the circuit breaker is open.
	ErrProviderUnavailable = errors.New("routing provider unavailable")
	// ErrNoRouteFound indicates no valid route exists between the given points.
	ErrNoRouteFound = errors.New("no route found between the given points")
	// ErrInvalidCoordinates indicates the provided coordinates are invalid or out of range.
	ErrInvalidCoordinates = errors.New("invalid coordinates")
)

// Provider defines the interface for routing providers.
type Provider interface {
	// GetDirections retrieves driving directions between two points.
	// Returns multiple route alternatives when requested and available.
	GetDirections(ctx context.Context, req DirectionsRequest) (*DirectionsResponse, error)
	// Name returns the provider identifier for logging and metrics.
	Name() string
}

// Coordinate represents a geographic point.
type Coordinate struct {
	Lat float64
	Lon float64
}

// DirectionsRequest is the request for computing driving routes.
type DirectionsRequest struct {
	Origin           Coordinate
	Destination      Coordinate
	WantAlternatives bool // Request alternative geometries (used for scenic selection)
}

// DirectionsResponse is the response containing route alternatives.
type DirectionsResponse struct {
	Routes    []Route
	Provider  string
	FetchedAt time.Time
}

// Route represents a single driving route.
type Route struct {
	// Geometry is the decoded route polyline, ordered start to end.
	Geometry []polyline.Coordinate

	// DistanceMeters is the total driving distance.
	DistanceMeters float64

	// DurationSeconds is the estimated driving time.
	DurationSeconds float64
}

// DistanceMiles returns the route distance in miles.
func (r *Route) DistanceMiles() float64 {
	return r.DistanceMeters / 1609.344
}

// Error provides detailed error information from the routing provider.
type Error struct {
	Provider string // Provider that generated the error
	Code     string // Error code from the provider
	Message  string // Human-readable error message
	Err      error  // Underlying error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}
