package insight

import (
	"math"
	"sort"
	"time"

	"tswtrack/internal/model"
)

// BuildTriggerReport computes the ranked same-day correlation report for the
// given window. It is a pure function of (checkins, window, now).
func BuildTriggerReport(checkins []model.CheckIn, window model.TimeWindow, now time.Time) *model.TriggerReport {
	report := &model.TriggerReport{
		Status:      model.ReportStatusNoData,
		Window:      window,
		Active:      []model.TriggerPattern{},
		Resolved:    []model.ResolvedTrigger{},
		GeneratedAt: now,
	}

	windowed := filterWindow(checkins, window.Days(), now)
	if len(windowed) == 0 {
		return report
	}

	stats := AggregateTriggers(windowed)
	if len(stats) == 0 {
		// Check-ins exist but none carry a trigger tag.
		return report
	}

	baseline, _ := Baseline(windowed)
	report.Baseline = baseline

	recent, historical := splitRecent(windowed, now)
	recentBaseline := baselineOr(recent, baseline)
	histBaseline := baselineOr(historical, baseline)
	recentStats := AggregateTriggers(recent)
	histStats := AggregateTriggers(historical)

	for tag, s := range stats {
		delta := s.MeanIntensity() - baseline
		recentImpact, recentDays := tagImpact(recentStats[tag], recentBaseline)
		histImpact, histDays := tagImpact(histStats[tag], histBaseline)

		active := s.UniqueDays() >= minActiveDays && delta > activeDeltaMin
		if active {
			pattern := model.TriggerPattern{
				Tag:            tag,
				Count:          s.Count,
				UniqueDays:     s.UniqueDays(),
				AvgIntensity:   s.MeanIntensity(),
				Baseline:       baseline,
				ImpactDelta:    delta,
				PercentWorse:   percentOfBaseline(delta, baseline),
				EffectScore:    round1(delta * 25),
				HighConfidence: s.UniqueDays() >= highConfDays && delta > highConfDelta,
				Trend:          classifyTrend(recentImpact, recentDays, histImpact, histDays),
			}
			if s.TotalSymptoms > 0 {
				pattern.AvgSymptomSeverity = float64(s.TotalSymptomSeverity) / float64(s.TotalSymptoms)
			}
			report.Active = append(report.Active, pattern)
			continue
		}

		// Historically a concern, but quiet (or absent) in the recent window.
		if histDays >= minActiveDays && histImpact > activeDeltaMin && recentImpact <= 0 {
			report.Resolved = append(report.Resolved, model.ResolvedTrigger{
				Tag:             tag,
				UniqueDays:      s.UniqueDays(),
				HistoricalDelta: histImpact,
				RecentDelta:     recentImpact,
			})
		}
	}

	sort.Slice(report.Active, func(i, j int) bool {
		a, b := report.Active[i], report.Active[j]
		if a.EffectScore != b.EffectScore {
			return a.EffectScore > b.EffectScore
		}
		return a.Tag < b.Tag
	})
	sort.Slice(report.Resolved, func(i, j int) bool {
		a, b := report.Resolved[i], report.Resolved[j]
		if a.HistoricalDelta != b.HistoricalDelta {
			return a.HistoricalDelta > b.HistoricalDelta
		}
		return a.Tag < b.Tag
	})

	if len(report.Active) > 0 || len(report.Resolved) > 0 {
		report.Status = model.ReportStatusOK
	} else {
		report.Status = model.ReportStatusInsufficientData
	}
	return report
}

// BuildTreatmentReport computes which treatments co-occur with below-baseline
// intensity. The same evidence thresholds apply, with the sign flipped.
func BuildTreatmentReport(checkins []model.CheckIn, window model.TimeWindow, now time.Time) *model.TreatmentReport {
	report := &model.TreatmentReport{
		Status:      model.ReportStatusNoData,
		Window:      window,
		Helpful:     []model.TreatmentEffect{},
		GeneratedAt: now,
	}

	windowed := filterWindow(checkins, window.Days(), now)
	if len(windowed) == 0 {
		return report
	}

	stats := AggregateTreatments(windowed)
	if len(stats) == 0 {
		return report
	}

	baseline, _ := Baseline(windowed)
	report.Baseline = baseline

	for name, s := range stats {
		delta := s.MeanIntensity() - baseline
		if s.UniqueDays() < minActiveDays || delta > -activeDeltaMin {
			continue
		}
		report.Helpful = append(report.Helpful, model.TreatmentEffect{
			Treatment:      name,
			Count:          s.Count,
			UniqueDays:     s.UniqueDays(),
			AvgIntensity:   s.MeanIntensity(),
			ImpactDelta:    delta,
			PercentBetter:  percentOfBaseline(-delta, baseline),
			HighConfidence: s.UniqueDays() >= highConfDays && delta < -highConfDelta,
		})
	}

	sort.Slice(report.Helpful, func(i, j int) bool {
		a, b := report.Helpful[i], report.Helpful[j]
		if a.ImpactDelta != b.ImpactDelta {
			return a.ImpactDelta < b.ImpactDelta
		}
		return a.Treatment < b.Treatment
	})

	if len(report.Helpful) > 0 {
		report.Status = model.ReportStatusOK
	} else {
		report.Status = model.ReportStatusInsufficientData
	}
	return report
}

// tagImpact returns a tag's impact delta within one sub-window, and the
// number of unique days backing it. A tag absent from the sub-window has
// zero impact there.
func tagImpact(s *TagStats, baseline float64) (float64, int) {
	if s == nil || s.Count == 0 {
		return 0, 0
	}
	return s.MeanIntensity() - baseline, s.UniqueDays()
}

// classifyTrend compares recent vs historical impact. With fewer than
// trendMinDays unique days on either side the trend defaults to stable
// rather than a separate "unknown" state.
func classifyTrend(recentImpact float64, recentDays int, histImpact float64, histDays int) model.Trend {
	if recentDays < trendMinDays || histDays < trendMinDays {
		return model.TrendStable
	}
	diff := recentImpact - histImpact
	switch {
	case diff < -trendDeltaMin:
		return model.TrendImproving
	case diff > trendDeltaMin:
		return model.TrendWorsening
	default:
		return model.TrendStable
	}
}

func percentOfBaseline(delta, baseline float64) int {
	return int(math.Round(delta / safeBaseline(baseline) * 100))
}

func round1(x float64) float64 {
	return math.Round(x*10) / 10
}
