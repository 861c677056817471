package insight

import (
	"time"

	"tswtrack/internal/model"
)

// BuildSummary computes the headline stats for one window: totals, means,
// and the overall direction of the user's skin over the recent window.
func BuildSummary(checkins []model.CheckIn, window model.TimeWindow, now time.Time) *model.SummaryStats {
	summary := &model.SummaryStats{
		Window:      window,
		Trend:       model.TrendStable,
		GeneratedAt: now,
	}

	windowed := filterWindow(checkins, window.Days(), now)
	if len(windowed) == 0 {
		return summary
	}

	summary.TotalCheckIns = len(windowed)

	days := make(map[string]struct{})
	painTotal, painCount := 0, 0
	sleepTotal, sleepCount := 0, 0
	for i := range windowed {
		c := &windowed[i]
		days[c.Day()] = struct{}{}
		if c.PainScore != nil {
			painTotal += *c.PainScore
			painCount++
		}
		if c.SleepScore != nil {
			sleepTotal += *c.SleepScore
			sleepCount++
		}
	}
	summary.TrackedDays = len(days)
	summary.AvgIntensity, _ = Baseline(windowed)
	if painCount > 0 {
		avg := float64(painTotal) / float64(painCount)
		summary.AvgPain = &avg
	}
	if sleepCount > 0 {
		avg := float64(sleepTotal) / float64(sleepCount)
		summary.AvgSleep = &avg
	}

	recent, historical := splitRecent(windowed, now)
	summary.RecentAvgIntensity = baselineOr(recent, summary.AvgIntensity)
	recentMean, recentOK := Baseline(recent)
	histMean, histOK := Baseline(historical)
	if recentOK && histOK {
		summary.Trend = classifyTrend(recentMean, uniqueDayCount(recent), histMean, uniqueDayCount(historical))
	}
	return summary
}

func uniqueDayCount(checkins []model.CheckIn) int {
	days := make(map[string]struct{}, len(checkins))
	for i := range checkins {
		days[checkins[i].Day()] = struct{}{}
	}
	return len(days)
}
