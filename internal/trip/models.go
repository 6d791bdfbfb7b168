// Package trip assembles enriched trip legs: route, time-aligned weather,
// road conditions, stop recommendations, scoring, and narrative analysis.
package trip

import (
	"errors"

	"github.com/vbelide9/wayvue/internal/places"
	"github.com/vbelide9/wayvue/internal/roadcond"
	"github.com/vbelide9/wayvue/internal/routing"
	"github.com/vbelide9/wayvue/pkg/polyline"
)

// Sentinel errors for leg processing.
var (
	// ErrEndpointNotResolved indicates a start or end location could not be
	// geocoded.
	ErrEndpointNotResolved = errors.New("endpoint could not be resolved")
	// ErrRouteUnavailable indicates routing failed for the leg.
	ErrRouteUnavailable = errors.New("route unavailable")
)

// LegInput describes one leg to process.
type LegInput struct {
	// Start and End are free-text locations ("Albany, NY").
	Start string
	End   string

	// StartCoords and EndCoords, when set, bypass forward geocoding.
	StartCoords *routing.Coordinate
	EndCoords   *routing.Coordinate

	// DepartureDate (YYYY-MM-DD) and DepartureTime (HH:MM) are optional.
	// Unparseable values fall back to the current time.
	DepartureDate string
	DepartureTime string

	// Scenic requests the first route alternative instead of the fastest.
	Scenic bool
}

// Leg is a fully enriched trip leg.
type Leg struct {
	Route           RouteSummary            `json:"route"`
	Metrics         Metrics                 `json:"metrics"`
	Weather         []WeatherPoint          `json:"weather"`
	RoadConditions  []roadcond.Segment      `json:"roadConditions"`
	Analysis        Analysis                `json:"aiAnalysis"`
	Recommendations []places.Recommendation `json:"recommendations"`
}

// RouteSummary describes the selected route.
type RouteSummary struct {
	StartName     string                `json:"startName"`
	EndName       string                `json:"endName"`
	DistanceMiles float64               `json:"distanceMiles"`
	DurationText  string                `json:"durationText"`
	Geometry      []polyline.Coordinate `json:"geometry"`
	Scenic        bool                  `json:"scenic,omitempty"`
}

// Metrics are the headline numbers for a leg.
type Metrics struct {
	DistanceMiles       float64 `json:"distanceMiles"`
	DurationText        string  `json:"durationText"`
	FuelCostUSD         float64 `json:"fuelCostUsd"`
	EVCostUSD           float64 `json:"evCostUsd"`
	TrafficDelayMinutes float64 `json:"trafficDelayMinutes"`
	TempMinC            float64 `json:"tempMinC"`
	TempMaxC            float64 `json:"tempMaxC"`
	MaxWindKmh          float64 `json:"maxWindKmh"`
	PrecipChance        float64 `json:"precipChance"`
}

// WeatherPoint is a sampled route point with its aligned forecast.
type WeatherPoint struct {
	Label             string  `json:"label"`
	Lat               float64 `json:"lat"`
	Lon               float64 `json:"lon"`
	MilesFromStart    float64 `json:"milesFromStart"`
	ETA               string  `json:"eta"`
	Temperature       float64 `json:"temperature"`
	WeatherCode       int     `json:"weatherCode"`
	Description       string  `json:"description"`
	WindSpeedKmh      float64 `json:"windSpeed"`
	Humidity          float64 `json:"humidity"`
	PrecipProbability float64 `json:"precipProbability"`
}

// Analysis is the scored and narrated view of a leg.
type Analysis struct {
	Score            TripScore         `json:"score"`
	Narrative        Narrative         `json:"narrative"`
	DepartureOptions []DepartureOption `json:"departureOptions,omitempty"`
}

// TripScore grades a leg from 0 to 100.
type TripScore struct {
	Score      int         `json:"score"`
	Label      string      `json:"label"`
	Deductions []Deduction `json:"deductions"`
}

// Deduction records one penalty applied to the score.
type Deduction struct {
	Type  string `json:"type"`
	Value int    `json:"value"`
}

// Narrative is the structured trip summary plus insight bullets.
type Narrative struct {
	Sections Sections `json:"sections"`
	Insights Insights `json:"insights"`
	Tone     string   `json:"tone"`
}

// Sections are the fixed narrative paragraphs.
type Sections struct {
	Overview string `json:"overview"`
	Fuel     string `json:"fuel"`
	Weather  string `json:"weather"`
	Roads    string `json:"roads"`
	Stops    string `json:"stops"`
}

// Insights carry the conditional bullets and the fun line.
type Insights struct {
	Bullets   []string `json:"bullets"`
	FunMoment string   `json:"funMoment"`
}

// DepartureOption is one scored alternative departure time.
type DepartureOption struct {
	OffsetHours          int     `json:"offsetHours"`
	DepartAt             string  `json:"departAt"`
	TimestampMs          int64   `json:"timestampMs"`
	Score                int     `json:"score"`
	Label                string  `json:"label"`
	TemperatureC         float64 `json:"temperatureC"`
	PrecipProbabilityPct float64 `json:"precipProbabilityPct"`
	TrafficLabel         string  `json:"trafficLabel"`
	Conditions           string  `json:"conditions"`
}

// AggregateContext is the condensed view of a leg fed to the scorer and
// narrator.
type AggregateContext struct {
	StartName string
	EndName   string

	DistanceMiles       float64
	DurationSeconds     float64
	TrafficDelayMinutes float64

	TempMinC     float64
	TempMaxC     float64
	MaxWindKmh   float64
	PrecipChance float64 // fraction of sampled points with precipitation

	PoorSegments     int
	ModerateSegments int

	FuelCostUSD float64
	EVCostUSD   float64

	DepartureHour int

	TopCities  []string
	StopCities []string
}
