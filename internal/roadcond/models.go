// Package roadcond classifies driving conditions along a route from
// weather observations and annotates segments with camera references.
package roadcond

import "context"

// Status is the driving-condition classification for a road segment.
type Status string

const (
	StatusGood     Status = "good"
	StatusModerate Status = "moderate"
	StatusPoor     Status = "poor"
)

// Condition pairs a status with a short description of the driving weather.
type Condition struct {
	Status      Status `json:"status"`
	Description string `json:"description"`
}

// Segment is a classified stretch of the route.
type Segment struct {
	// Location is a short human label for the segment position.
	Location string `json:"location"`

	// MilesFromStart is the distance of the segment point from the origin.
	MilesFromStart float64 `json:"milesFromStart"`

	// ETA is the estimated local arrival time at the segment, formatted
	// for display (e.g. "2:30 PM").
	ETA string `json:"eta"`

	// Condition is the classified driving condition at the ETA.
	Condition Condition `json:"condition"`

	// Temperature in degrees Celsius at the ETA.
	Temperature float64 `json:"temperature"`

	// Camera is a traffic camera reference near the segment.
	Camera CameraRef `json:"camera"`
}

// CameraRef points at a traffic camera near a road segment.
type CameraRef struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	ImageURL string  `json:"imageUrl,omitempty"`
	Lat      float64 `json:"lat"`
	Lon      float64 `json:"lon"`
}

// CameraSource provides the traffic camera closest to a point.
// Implementations back onto state DOT feeds.
type CameraSource interface {
	// NearestCamera returns the closest camera to the point, or nil when
	// none is within range.
	NearestCamera(ctx context.Context, lat, lon float64) (*CameraRef, error)
	// Name returns the source identifier for logging.
	Name() string
}
