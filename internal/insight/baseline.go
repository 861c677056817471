package insight

import "tswtrack/internal/model"

// Baseline returns the mean canonical intensity over all check-ins. ok is
// false when the list is empty.
func Baseline(checkins []model.CheckIn) (mean float64, ok bool) {
	if len(checkins) == 0 {
		return 0, false
	}
	total := 0.0
	for _, c := range checkins {
		total += c.Intensity
	}
	return total / float64(len(checkins)), true
}

// baselineOr computes the mean over subset, falling back to fallback when
// the subset is empty. Never divides by zero.
func baselineOr(subset []model.CheckIn, fallback float64) float64 {
	if mean, ok := Baseline(subset); ok {
		return mean
	}
	return fallback
}

// safeBaseline floors a baseline used as a denominator so percent figures
// stay bounded for users whose baseline sits near zero.
func safeBaseline(b float64) float64 {
	if b < baselineFloor {
		return baselineFloor
	}
	return b
}
