package trip

import (
	"context"
	"fmt"
	"time"

	"github.com/vbelide9/wayvue/internal/weather"
)

// departureOffsets are the alternative departure times evaluated, in hours
// from now.
var departureOffsets = []int{1, 2, 3}

// Rush-hour delay heuristic, in minutes.
const (
	rushHourDelay = 25
	offPeakDelay  = 5
)

// adviseDepartures scores alternative departures at fixed offsets from now.
// Each option re-fetches start-point weather for the shifted hour and
// substitutes it, plus a time-of-day traffic estimate, into a copy of the
// base context. Offsets whose weather fetch fails are dropped.
func (s *Service) adviseDepartures(
	ctx context.Context,
	startLat, startLon float64,
	base AggregateContext,
	now time.Time,
) []DepartureOption {
	options := make([]DepartureOption, 0, len(departureOffsets))

	for _, offset := range departureOffsets {
		departAt := now.Add(time.Duration(offset) * time.Hour)

		obs, err := s.weather.Observe(ctx, weather.TimedPoint{
			Lat:  startLat,
			Lon:  startLon,
			Date: departAt.Format("2006-01-02"),
			Hour: departAt.Hour(),
		})
		if err != nil {
			s.logger.Debug().Err(err).
				Int("offset_hours", offset).
				Msg("departure option weather fetch failed, dropping offset")
			continue
		}

		shifted := base
		shifted.DepartureHour = departAt.Hour()
		shifted.TrafficDelayMinutes = hourlyTrafficDelay(departAt.Hour())
		shifted.MaxWindKmh = obs.WindSpeedKmh
		shifted.PrecipChance = obs.PrecipProbability / 100
		if obs.Temperature < shifted.TempMinC {
			shifted.TempMinC = obs.Temperature
		}
		if obs.Temperature > shifted.TempMaxC {
			shifted.TempMaxC = obs.Temperature
		}

		score := Score(shifted)
		options = append(options, DepartureOption{
			OffsetHours:          offset,
			DepartAt:             departAt.Format("3:04 PM"),
			TimestampMs:          departAt.UnixMilli(),
			Score:                score.Score,
			Label:                score.Label,
			TemperatureC:         obs.Temperature,
			PrecipProbabilityPct: obs.PrecipProbability,
			TrafficLabel:         trafficLabel(shifted.TrafficDelayMinutes),
			Conditions: fmt.Sprintf("%s, %.0f°C",
				weather.CodeDescription(obs.WeatherCode), obs.Temperature),
		})
	}

	return options
}

// trafficLabel buckets an estimated delay for display.
func trafficLabel(delayMinutes float64) string {
	switch {
	case delayMinutes >= rushHourDelay:
		return "heavy"
	case delayMinutes == 0:
		return "clear"
	default:
		return "light"
	}
}

// hourlyTrafficDelay estimates congestion delay by departure hour: rush
// hours are slow, late night is clear, everything else gets a small
// default.
func hourlyTrafficDelay(hour int) float64 {
	switch {
	case hour >= 7 && hour <= 9, hour >= 16 && hour <= 18:
		return rushHourDelay
	case hour >= 22 || hour <= 5:
		return 0
	default:
		return offPeakDelay
	}
}
