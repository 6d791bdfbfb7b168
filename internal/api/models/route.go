package models

import "github.com/vbelide9/wayvue/internal/trip"

// Route preference values.
const (
	PreferenceFastest = "fastest"
	PreferenceScenic  = "scenic"
)

// RouteRequest is the body for POST /api/route.
type RouteRequest struct {
	// Start and End are free-text locations. Required.
	Start string `json:"start"`
	End   string `json:"end"`

	// StartCoords and EndCoords bypass forward geocoding when set.
	StartCoords *Coords `json:"startCoords,omitempty"`
	EndCoords   *Coords `json:"endCoords,omitempty"`

	// DepartureDate (YYYY-MM-DD) and DepartureTime (HH:MM).
	DepartureDate string `json:"departureDate,omitempty"`
	DepartureTime string `json:"departureTime,omitempty"`

	// Preference selects the route: "fastest" (default) or "scenic".
	Preference string `json:"preference,omitempty"`

	// RoundTrip requests a return leg. ReturnDate and ReturnTime schedule it.
	RoundTrip  bool   `json:"roundTrip,omitempty"`
	ReturnDate string `json:"returnDate,omitempty"`
	ReturnTime string `json:"returnTime,omitempty"`
}

// Coords is a client-supplied coordinate pair.
type Coords struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// RoundTripResponse wraps outbound and return legs.
type RoundTripResponse struct {
	RoundTrip bool      `json:"roundTrip"`
	Outbound  *trip.Leg `json:"outbound"`
	Return    *trip.Leg `json:"return"`
}

// PlaceDetailsRequest is the body for POST /api/place-details.
type PlaceDetailsRequest struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// PlaceDetailsResponse carries the full reverse-geocoded address.
type PlaceDetailsResponse struct {
	Address string `json:"address"`
}
