package roadcond

import "github.com/vbelide9/wayvue/internal/weather"

// Classify maps a WMO weather code to a driving condition. Freezing
// precipitation and snow are poor, liquid precipitation, fog, and
// thunderstorms are moderate, everything else is good.
func Classify(code int) Condition {
	return Condition{
		Status:      statusFor(code),
		Description: weather.CodeDescription(code),
	}
}

func statusFor(code int) Status {
	switch code {
	case 56, 57, 66, 67, 71, 73, 75, 77, 85, 86:
		return StatusPoor
	case 45, 48, 51, 53, 55, 61, 63, 65, 80, 81, 82, 95, 96, 99:
		return StatusModerate
	default:
		return StatusGood
	}
}
