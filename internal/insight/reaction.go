package insight

import (
	"sort"
	"strings"
	"time"

	"tswtrack/internal/model"
)

// Delayed-reaction analysis looks at outcome intensity 1-3 days after an
// exposure rather than same-day, since food and topical-product flares
// typically lag.
const (
	lagMinDays = 1
	lagMaxDays = 3

	reactionDeltaMin       = 0.3
	minAnalyzableExposures = 2
	directionShare         = 0.6

	confHighExposures   = 8
	confMediumExposures = 5
)

const (
	namespaceFood    = "food"
	namespaceProduct = "new_product"
)

// AnalyzeFoods rolls up delayed reactions for every food logged within the
// lookback window. lookbackDays == 0 means all-time.
func AnalyzeFoods(checkins []model.CheckIn, lookbackDays int, now time.Time) *model.ReactionReportSet {
	return analyzeNamespace(checkins, namespaceFood, "food", lookbackDays, now)
}

// AnalyzeProducts rolls up delayed reactions for every newly introduced
// topical product logged within the lookback window.
func AnalyzeProducts(checkins []model.CheckIn, lookbackDays int, now time.Time) *model.ReactionReportSet {
	return analyzeNamespace(checkins, namespaceProduct, "product", lookbackDays, now)
}

func analyzeNamespace(checkins []model.CheckIn, namespace, kind string, lookbackDays int, now time.Time) *model.ReactionReportSet {
	set := &model.ReactionReportSet{
		Status:       model.ReportStatusNoData,
		Kind:         kind,
		LookbackDays: lookbackDays,
		Items:        []model.ReactionReport{},
		GeneratedAt:  now,
	}

	windowed := filterWindow(checkins, lookbackDays, now)
	if len(windowed) == 0 {
		return set
	}

	baseline, _ := Baseline(windowed)
	days := dayMeans(windowed)

	// Exposure days per name, deduped: logging the same food twice in one
	// day is one exposure.
	exposures := make(map[string]map[string]struct{})
	for i := range windowed {
		c := &windowed[i]
		for _, raw := range c.Triggers {
			name, ok := namespacedName(raw, namespace)
			if !ok {
				continue
			}
			if exposures[name] == nil {
				exposures[name] = make(map[string]struct{})
			}
			exposures[name][c.Day()] = struct{}{}
		}
	}
	if len(exposures) == 0 {
		return set
	}

	for name, expDays := range exposures {
		item := model.ReactionReport{
			Name:      name,
			Exposures: len(expDays),
			Baseline:  baseline,
		}

		afterTotal := 0.0
		for day := range expDays {
			afterMean, ok := aftermathMean(days, day)
			if !ok {
				continue
			}
			item.Analyzable++
			afterTotal += afterMean
			switch delta := afterMean - baseline; {
			case delta > reactionDeltaMin:
				item.WorseCount++
			case delta < -reactionDeltaMin:
				item.BetterCount++
			default:
				item.NeutralCount++
			}
		}
		if item.Analyzable > 0 {
			item.AvgAfterIntensity = afterTotal / float64(item.Analyzable)
		}

		item.Pattern = classifyReaction(item)
		item.Confidence = classifyReactionConfidence(item.Analyzable)
		set.Items = append(set.Items, item)
	}

	sort.Slice(set.Items, func(i, j int) bool {
		a, b := set.Items[i], set.Items[j]
		if a.WorseCount != b.WorseCount {
			return a.WorseCount > b.WorseCount
		}
		if a.Analyzable != b.Analyzable {
			return a.Analyzable > b.Analyzable
		}
		return a.Name < b.Name
	})

	set.Status = model.ReportStatusInsufficientData
	for _, item := range set.Items {
		if item.Pattern != model.ReactionInsufficientData {
			set.Status = model.ReportStatusOK
			break
		}
	}
	return set
}

// namespacedName extracts and normalizes the name from a tag like
// "food:Banana " for the given namespace.
func namespacedName(tag, namespace string) (string, bool) {
	tag = strings.TrimSpace(tag)
	i := strings.IndexByte(tag, ':')
	if i <= 0 {
		return "", false
	}
	if !strings.EqualFold(strings.TrimSpace(tag[:i]), namespace) {
		return "", false
	}
	name := strings.ToLower(strings.TrimSpace(tag[i+1:]))
	if name == "" {
		return "", false
	}
	return name, true
}

type dayAccum struct {
	total float64
	count int
}

// dayMeans collapses check-ins into per-calendar-day mean intensity.
func dayMeans(checkins []model.CheckIn) map[string]dayAccum {
	out := make(map[string]dayAccum)
	for i := range checkins {
		c := &checkins[i]
		acc := out[c.Day()]
		acc.total += c.Intensity
		acc.count++
		out[c.Day()] = acc
	}
	return out
}

// aftermathMean averages the day-mean intensities logged 1-3 days after the
// exposure day. ok is false when no subsequent day was logged, making the
// exposure unanalyzable.
func aftermathMean(days map[string]dayAccum, exposureDay string) (float64, bool) {
	t, err := time.Parse("2006-01-02", exposureDay)
	if err != nil {
		return 0, false
	}
	total := 0.0
	n := 0
	for lag := lagMinDays; lag <= lagMaxDays; lag++ {
		key := t.AddDate(0, 0, lag).Format("2006-01-02")
		if acc, ok := days[key]; ok && acc.count > 0 {
			total += acc.total / float64(acc.count)
			n++
		}
	}
	if n == 0 {
		return 0, false
	}
	return total / float64(n), true
}

func classifyReaction(item model.ReactionReport) model.ReactionPattern {
	if item.Analyzable < minAnalyzableExposures {
		return model.ReactionInsufficientData
	}
	worseShare := float64(item.WorseCount) / float64(item.Analyzable)
	betterShare := float64(item.BetterCount) / float64(item.Analyzable)
	switch {
	case item.WorseCount >= minAnalyzableExposures && worseShare >= directionShare:
		return model.ReactionOftenWorse
	case item.BetterCount >= minAnalyzableExposures && betterShare >= directionShare:
		return model.ReactionOftenBetter
	case item.WorseCount > 0 && item.BetterCount > 0:
		return model.ReactionMixed
	default:
		return model.ReactionNoPattern
	}
}

func classifyReactionConfidence(analyzable int) model.ReactionConfidence {
	switch {
	case analyzable >= confHighExposures:
		return model.ConfidenceHigh
	case analyzable >= confMediumExposures:
		return model.ConfidenceMedium
	case analyzable >= minAnalyzableExposures:
		return model.ConfidenceLow
	default:
		return model.ConfidenceInsufficientData
	}
}
