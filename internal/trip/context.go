package trip

import (
	"fmt"
	"time"

	"github.com/vbelide9/wayvue/internal/roadcond"
	"github.com/vbelide9/wayvue/internal/weather"
)

// Cost model constants. Flat cents-per-mile figures for a typical sedan
// and EV at national average prices.
const (
	fuelCentsPerMile = 16
	evCentsPerMile   = 5

	// freeFlowMph is the assumed free-flow speed used to derive traffic
	// delay from the routing engine's actual duration.
	freeFlowMph = 65

	maxContextCities = 3
)

// buildAggregateContext condenses a processed leg into the scorer input.
// Observations must be gap-filled (non-nil).
func buildAggregateContext(
	startName, endName string,
	distanceMiles, durationSeconds float64,
	departure time.Time,
	observations []*weather.Observation,
	segments []roadcond.Segment,
	weatherLabels []string,
) AggregateContext {
	agg := AggregateContext{
		StartName:       startName,
		EndName:         endName,
		DistanceMiles:   distanceMiles,
		DurationSeconds: durationSeconds,
		FuelCostUSD:     distanceMiles * fuelCentsPerMile / 100,
		EVCostUSD:       distanceMiles * evCentsPerMile / 100,
		DepartureHour:   departure.Hour(),
	}

	agg.TrafficDelayMinutes = trafficDelayMinutes(distanceMiles, durationSeconds)

	if len(observations) > 0 {
		agg.TempMinC = observations[0].Temperature
		agg.TempMaxC = observations[0].Temperature
		precipPoints := 0
		for _, obs := range observations {
			if obs.Temperature < agg.TempMinC {
				agg.TempMinC = obs.Temperature
			}
			if obs.Temperature > agg.TempMaxC {
				agg.TempMaxC = obs.Temperature
			}
			if obs.WindSpeedKmh > agg.MaxWindKmh {
				agg.MaxWindKmh = obs.WindSpeedKmh
			}
			if weather.IsPrecipitationCode(obs.WeatherCode) {
				precipPoints++
			}
		}
		agg.PrecipChance = float64(precipPoints) / float64(len(observations))
	}

	for _, seg := range segments {
		switch seg.Condition.Status {
		case roadcond.StatusPoor:
			agg.PoorSegments++
		case roadcond.StatusModerate:
			agg.ModerateSegments++
		}
	}

	agg.TopCities = representativeCities(weatherLabels)
	agg.StopCities = stopCities(weatherLabels)

	return agg
}

// trafficDelayMinutes derives delay as the actual duration minus the
// free-flow duration, clamped at zero.
func trafficDelayMinutes(distanceMiles, durationSeconds float64) float64 {
	freeFlowMinutes := distanceMiles / freeFlowMph * 60
	delay := durationSeconds/60 - freeFlowMinutes
	if delay < 0 {
		return 0
	}
	return delay
}

// representativeCities picks up to three distinct interior labels, skipping
// mile-marker fallbacks.
func representativeCities(labels []string) []string {
	if len(labels) <= 2 {
		return nil
	}

	var cities []string
	seen := make(map[string]bool)
	for _, label := range labels[1 : len(labels)-1] {
		if label == "" || seen[label] || isMileMarker(label) {
			continue
		}
		seen[label] = true
		cities = append(cities, label)
		if len(cities) == maxContextCities {
			break
		}
	}
	return cities
}

// stopCities picks up to three distinct labels spread across the interior
// of the route, biased toward the middle where stops make sense.
func stopCities(labels []string) []string {
	if len(labels) <= 2 {
		return nil
	}

	interior := labels[1 : len(labels)-1]
	var cities []string
	seen := make(map[string]bool)

	for _, fraction := range []float64{0.5, 0.25, 0.75} {
		idx := int(fraction * float64(len(interior)-1))
		label := interior[idx]
		if label == "" || seen[label] || isMileMarker(label) {
			continue
		}
		seen[label] = true
		cities = append(cities, label)
	}
	return cities
}

func isMileMarker(label string) bool {
	var n float64
	_, err := fmt.Sscanf(label, "Mile %f", &n)
	return err == nil
}

// formatDuration renders seconds as "5h 58m" (or "45m" under an hour).
func formatDuration(seconds float64) string {
	total := int(seconds / 60)
	hours := total / 60
	minutes := total % 60
	if hours == 0 {
		return fmt.Sprintf("%dm", minutes)
	}
	return fmt.Sprintf("%dh %dm", hours, minutes)
}
