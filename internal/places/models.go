// Package places recommends stops (food, fuel, charging, viewpoints, rest
// areas) at context points along a route.
package places

import (
	"context"
	"errors"
)

// Sentinel errors for places operations.
var (
	// ErrProviderUnavailable indicates the places API is down or rate limited.
	ErrProviderUnavailable = errors.New("places provider unavailable")
)

// Category classifies a recommended stop.
type Category string

const (
	CategoryFood     Category = "food"
	CategoryGas      Category = "gas"
	CategoryCharging Category = "charging"
	CategoryView     Category = "view"
	CategoryRest     Category = "rest"
)

// Categories lists every recommendation category in display order.
var Categories = []Category{
	CategoryFood,
	CategoryGas,
	CategoryCharging,
	CategoryView,
	CategoryRest,
}

// categoryCaps bounds how many recommendations each category contributes
// per context point.
var categoryCaps = map[Category]int{
	CategoryFood:     3,
	CategoryGas:      3,
	CategoryCharging: 2,
	CategoryView:     2,
	CategoryRest:     2,
}

// Provider defines the interface for place search providers.
type Provider interface {
	// Nearby returns places of a category within a small radius of a point.
	Nearby(ctx context.Context, lat, lon float64, category Category) ([]RawPlace, error)
	// Name returns the provider identifier for logging and metrics.
	Name() string
}

// RawPlace is an unprocessed place result from a provider.
type RawPlace struct {
	Title    string
	Category Category
	Lat      float64
	Lon      float64
	Detail   string
}

// Recommendation is a suggested stop along the route.
type Recommendation struct {
	ID             string   `json:"id"`
	Title          string   `json:"title"`
	Category       Category `json:"category"`
	Description    string   `json:"description"`
	MilesFromStart float64  `json:"milesFromStart"`
	Lat            float64  `json:"lat"`
	Lon            float64  `json:"lon"`
	Synthetic      bool     `json:"synthetic,omitempty"`
}
