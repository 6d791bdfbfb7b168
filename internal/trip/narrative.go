package trip

import (
	"fmt"
	"math/rand"
	"strings"
)

// Narrative tones.
const (
	ToneCaution  = "caution"
	TonePositive = "positive"
	ToneModerate = "moderate"
)

const maxInsightBullets = 4

// funMoments is the fixed pool the fun line is drawn from.
var funMoments = []string{
	"Queue up a road trip playlist before you lose signal.",
	"The best photos happen at the stops you didn't plan.",
	"Snacks bought at the start taste better at mile 100.",
	"Roll the windows down for at least one stretch of this drive.",
	"Every small town diner on this route has a story.",
	"Claim the aux cord early. You'll thank yourself later.",
}

// Narrate builds the structured trip summary from an aggregate context and
// its score. The fun line is picked uniformly at random from a fixed pool;
// pass a seeded rng for reproducible output, or nil for the shared source.
func Narrate(agg AggregateContext, score TripScore, rng *rand.Rand) Narrative {
	pick := rand.Intn
	if rng != nil {
		pick = rng.Intn
	}

	return Narrative{
		Sections: Sections{
			Overview: overviewSection(agg, score),
			Fuel:     fuelSection(agg),
			Weather:  weatherSection(agg),
			Roads:    roadsSection(agg),
			Stops:    stopsSection(agg),
		},
		Insights: Insights{
			Bullets:   insightBullets(agg),
			FunMoment: funMoments[pick(len(funMoments))],
		},
		Tone: tone(agg, score),
	}
}

func tone(agg AggregateContext, score TripScore) string {
	if agg.TrafficDelayMinutes >= 30 || agg.PrecipChance >= 0.5 {
		return ToneCaution
	}
	if score.Score >= 80 {
		return TonePositive
	}
	return ToneModerate
}

func overviewSection(agg AggregateContext, score TripScore) string {
	return fmt.Sprintf("%s to %s is %.0f miles, about %s of driving. Conditions look %s (%d/100).",
		agg.StartName, agg.EndName, agg.DistanceMiles,
		formatDuration(agg.DurationSeconds),
		strings.ToLower(score.Label), score.Score)
}

func fuelSection(agg AggregateContext) string {
	return fmt.Sprintf("Expect roughly $%.2f in gas, or about $%.2f of charge in an EV.",
		agg.FuelCostUSD, agg.EVCostUSD)
}

func weatherSection(agg AggregateContext) string {
	s := fmt.Sprintf("Temperatures range from %.0f°C to %.0f°C along the way.",
		agg.TempMinC, agg.TempMaxC)
	if agg.PrecipChance >= 0.3 {
		s += fmt.Sprintf(" Precipitation is likely over %.0f%% of the route.", agg.PrecipChance*100)
	}
	return s
}

func roadsSection(agg AggregateContext) string {
	switch {
	case agg.PoorSegments > 0:
		return fmt.Sprintf("%d stretch(es) of the route have poor driving conditions. Slow down and leave extra distance.", agg.PoorSegments)
	case agg.ModerateSegments > 0:
		return fmt.Sprintf("%d stretch(es) may be wet or foggy. Nothing serious, but stay alert.", agg.ModerateSegments)
	default:
		return "Road conditions look good the whole way."
	}
}

func stopsSection(agg AggregateContext) string {
	if len(agg.StopCities) == 0 {
		return "A short hop. No stops needed unless you want one."
	}
	return fmt.Sprintf("Good places to break up the drive: %s.", strings.Join(agg.StopCities, ", "))
}

// insightBullets emits up to four conditional observations about the leg.
func insightBullets(agg AggregateContext) []string {
	var bullets []string
	add := func(s string) {
		if len(bullets) < maxInsightBullets {
			bullets = append(bullets, s)
		}
	}

	if agg.TrafficDelayMinutes >= 10 {
		add(fmt.Sprintf("Traffic adds about %.0f minutes over free-flow driving.", agg.TrafficDelayMinutes))
	}
	if agg.DepartureHour >= 7 && agg.DepartureHour <= 9 {
		add("You're leaving during morning rush hour. Earlier or later would be smoother.")
	} else if agg.DepartureHour >= 16 && agg.DepartureHour <= 18 {
		add("You're leaving during evening rush hour. Earlier or later would be smoother.")
	} else if agg.DepartureHour >= 22 || agg.DepartureHour <= 4 {
		add("Overnight driving means empty roads but watch for fatigue.")
	}
	if agg.TempMaxC-agg.TempMinC > 15 {
		add(fmt.Sprintf("Big temperature swing en route (%.0f°C to %.0f°C). Dress in layers.", agg.TempMinC, agg.TempMaxC))
	}
	if agg.MaxWindKmh >= 30 {
		add(fmt.Sprintf("Gusts up to %.0f km/h expected. Keep both hands on the wheel on open stretches.", agg.MaxWindKmh))
	}
	if agg.DistanceMiles > 300 || agg.DurationSeconds > 6*3600 {
		add("This is a long haul. Plan at least one real break.")
	}

	return bullets
}
