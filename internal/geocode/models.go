// Package geocode resolves free-text place names to coordinates and
// coordinates back to human-readable labels.
package geocode

import (
	"context"
	"errors"
)

// Geocoding errors.
var (
	ErrProviderUnavailable = errors.New("geocoding provider unavailable")
	ErrNotFound            = errors.New("no match for query")
	ErrInvalidCoordinates  = errors.New("invalid coordinates")
)

// Location is a resolved place: coordinates plus the label shown to users.
type Location struct {
	Lat         float64
	Lon         float64
	DisplayName string
}

// ReverseResult holds both label granularities from a reverse lookup.
type ReverseResult struct {
	// ShortLabel is a town/city-level label ("Binghamton, NY").
	ShortLabel string

	// FullAddress is the complete formatted address.
	FullAddress string
}

// Provider defines the interface for geocoding providers.
type Provider interface {
	// Search resolves a free-text query to a location.
	// Returns ErrNotFound if the query matches nothing.
	Search(ctx context.Context, query string) (*Location, error)

	// Reverse resolves a coordinate to place labels.
	Reverse(ctx context.Context, lat, lon float64) (*ReverseResult, error)

	// Name returns the provider identifier for logging.
	Name() string
}
