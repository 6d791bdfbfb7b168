// Package weather provides time-aligned weather observations for route points.
package weather

import (
	"context"
	"errors"
	"time"
)

// Sentinel errors for weather operations.
var (
	// ErrProviderUnavailable indicates the weather API is down or rate limited.
	ErrProviderUnavailable = errors.New("weather provider unavailable")
	// ErrInvalidCoordinates indicates the provided coordinates are invalid.
	ErrInvalidCoordinates = errors.New("invalid coordinates")
	// ErrNoData indicates the provider returned no data for the requested time.
	ErrNoData = errors.New("no weather data for requested time")
)

// Provider defines the interface for weather data providers.
type Provider interface {
	// Observe retrieves the forecast observation for a point at a specific
	// local date and hour (0-23).
	Observe(ctx context.Context, lat, lon float64, date string, hour int) (*Observation, error)
	// Name returns the provider identifier for logging and metrics.
	Name() string
}

// Observation is a single weather observation aligned to an hour of a day.
type Observation struct {
	// Temperature in degrees Celsius.
	Temperature float64 `json:"temperature"`

	// WeatherCode is the WMO weather interpretation code.
	WeatherCode int `json:"weatherCode"`

	// WindSpeedKmh is the wind speed in km/h.
	WindSpeedKmh float64 `json:"windSpeed"`

	// WindDirection is the wind direction in degrees.
	WindDirection float64 `json:"windDirection"`

	// Humidity is the relative humidity percentage.
	Humidity float64 `json:"humidity"`

	// PrecipProbability is the precipitation probability percentage.
	PrecipProbability float64 `json:"precipProbability"`
}

// TimedPoint is a route point annotated with the forecast target time for
// the traveler's arrival at that point.
type TimedPoint struct {
	Lat  float64
	Lon  float64
	Date string // YYYY-MM-DD
	Hour int    // 0-23
}

// NeutralObservation returns the fallback observation used when no forecast
// data can be obtained for any point. Mainly clear, mild, light wind.
func NeutralObservation() *Observation {
	return &Observation{
		Temperature:       18,
		WeatherCode:       1,
		WindSpeedKmh:      8,
		Humidity:          55,
		PrecipProbability: 10,
	}
}

// IsPrecipitationCode reports whether a WMO code describes any form of
// precipitation (drizzle, rain, snow, showers, thunderstorms).
func IsPrecipitationCode(code int) bool {
	switch {
	case code >= 51 && code <= 67:
		return true
	case code >= 71 && code <= 77:
		return true
	case code >= 80 && code <= 86:
		return true
	case code >= 95 && code <= 99:
		return true
	}
	return false
}

// CodeDescription returns a short human-readable label for a WMO weather code.
func CodeDescription(code int) string {
	switch code {
	case 0:
		return "Clear sky"
	case 1:
		return "Mainly clear"
	case 2:
		return "Partly cloudy"
	case 3:
		return "Overcast"
	case 45, 48:
		return "Fog"
	case 51, 53, 55:
		return "Drizzle"
	case 56, 57:
		return "Freezing drizzle"
	case 61, 63, 65:
		return "Rain"
	case 66, 67:
		return "Freezing rain"
	case 71, 73, 75:
		return "Snowfall"
	case 77:
		return "Snow grains"
	case 80, 81, 82:
		return "Rain showers"
	case 85, 86:
		return "Snow showers"
	case 95:
		return "Thunderstorm"
	case 96, 99:
		return "Thunderstorm with hail"
	default:
		return "Unknown"
	}
}

// TargetTime computes the forecast date and hour for a point a given
// fraction of the way through a trip departing at departure and lasting
// duration. The hour is truncated, not rounded, so a traveler passing a
// point at 14:50 gets the 14:00 forecast.
func TargetTime(departure time.Time, duration time.Duration, progressFraction float64) (string, int) {
	at := departure.Add(time.Duration(progressFraction * float64(duration)))
	return at.Format("2006-01-02"), at.Hour()
}
