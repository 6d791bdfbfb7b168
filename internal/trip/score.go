package trip

// Deduction types recorded on a trip score.
const (
	DeductionPrecipitation = "precipitation"
	DeductionTemperature   = "temperature"
	DeductionWind          = "wind"
	DeductionRoads         = "roads"
	DeductionTraffic       = "traffic"
)

// Score labels by band.
const (
	LabelExcellent = "Excellent"
	LabelGood      = "Good"
	LabelFair      = "Fair"
	LabelRisky     = "Risky"
)

const maxRoadDeduction = 25

// Score grades a leg starting from 100 and subtracting weather, road, and
// traffic penalties. Deterministic for a given context, and monotonic:
// worse conditions never raise the score.
func Score(agg AggregateContext) TripScore {
	score := 100
	var deductions []Deduction

	apply := func(dtype string, value int) {
		if value <= 0 {
			return
		}
		score -= value
		deductions = append(deductions, Deduction{Type: dtype, Value: value})
	}

	apply(DeductionPrecipitation, precipDeduction(agg.PrecipChance))
	apply(DeductionTemperature, tempDeduction(agg.TempMinC, agg.TempMaxC))
	apply(DeductionWind, windDeduction(agg.MaxWindKmh))
	apply(DeductionRoads, roadDeduction(agg.PoorSegments, agg.ModerateSegments))
	apply(DeductionTraffic, trafficDeduction(agg.TrafficDelayMinutes))

	if score < 0 {
		score = 0
	}

	return TripScore{
		Score:      score,
		Label:      scoreLabel(score),
		Deductions: deductions,
	}
}

func scoreLabel(score int) string {
	switch {
	case score >= 90:
		return LabelExcellent
	case score >= 80:
		return LabelGood
	case score >= 60:
		return LabelFair
	default:
		return LabelRisky
	}
}

func precipDeduction(chance float64) int {
	switch {
	case chance >= 0.6:
		return 25
	case chance >= 0.3:
		return 15
	case chance >= 0.1:
		return 5
	default:
		return 0
	}
}

func tempDeduction(minC, maxC float64) int {
	switch {
	case minC < -5 || maxC > 35:
		return 10
	case minC < 0 || maxC > 30:
		return 5
	default:
		return 0
	}
}

func windDeduction(maxKmh float64) int {
	switch {
	case maxKmh >= 50:
		return 15
	case maxKmh >= 30:
		return 8
	default:
		return 0
	}
}

func roadDeduction(poor, moderate int) int {
	d := poor*8 + moderate*4
	if d > maxRoadDeduction {
		return maxRoadDeduction
	}
	return d
}

func trafficDeduction(delayMinutes float64) int {
	switch {
	case delayMinutes >= 60:
		return 15
	case delayMinutes >= 30:
		return 8
	case delayMinutes >= 10:
		return 3
	default:
		return 0
	}
}
