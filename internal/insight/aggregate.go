// Package insight implements the reaction correlation engine: a family of
// pure functions that turn a user's check-in history into ranked trigger,
// treatment, and delayed-reaction reports. Nothing in here touches a store
// or a clock; callers pass the data and the reference time explicitly.
package insight

import (
	"strings"
	"time"

	"tswtrack/internal/model"
)

// Evidence and effect thresholds. These are fixed product decisions, not
// tunables: changing them silently changes what users see as a "pattern".
const (
	minActiveDays  = 3
	activeDeltaMin = 0.3

	trendDeltaMin = 0.3
	trendMinDays  = 2

	highConfDays  = 7
	highConfDelta = 0.5

	recentWindowDays = 14
	baselineFloor    = 0.5
)

// TagStats accumulates per-tag aggregates over a set of check-ins.
type TagStats struct {
	Count                int
	TotalIntensity       float64
	TotalSymptomSeverity int
	TotalSymptoms        int

	days map[string]struct{}
}

// UniqueDays returns the number of distinct calendar days the tag occurred on.
func (s *TagStats) UniqueDays() int {
	return len(s.days)
}

// MeanIntensity returns the mean intensity across the tag's occurrences.
func (s *TagStats) MeanIntensity() float64 {
	if s.Count == 0 {
		return 0
	}
	return s.TotalIntensity / float64(s.Count)
}

func (s *TagStats) addDay(day string) {
	if s.days == nil {
		s.days = make(map[string]struct{})
	}
	s.days[day] = struct{}{}
}

// CollapseTag normalizes a trigger tag for same-day correlation. Namespaced
// tags (food:banana, new_product:xyz) collapse to their namespace bucket;
// per-name analysis is the delayed-reaction analyzer's job. Plain tags are
// lower-cased and trimmed.
func CollapseTag(tag string) string {
	tag = strings.ToLower(strings.TrimSpace(tag))
	if i := strings.IndexByte(tag, ':'); i > 0 {
		return tag[:i]
	}
	return tag
}

// AggregateTriggers groups check-ins by collapsed trigger tag.
func AggregateTriggers(checkins []model.CheckIn) map[string]*TagStats {
	out := make(map[string]*TagStats)
	for i := range checkins {
		c := &checkins[i]
		if c.Timestamp.IsZero() {
			continue
		}
		seen := make(map[string]struct{}, len(c.Triggers))
		for _, raw := range c.Triggers {
			tag := CollapseTag(raw)
			if tag == "" {
				continue
			}
			// A check-in tagged food:banana and food:milk still counts
			// the food bucket once.
			if _, dup := seen[tag]; dup {
				continue
			}
			seen[tag] = struct{}{}

			stats := out[tag]
			if stats == nil {
				stats = &TagStats{}
				out[tag] = stats
			}
			stats.Count++
			stats.TotalIntensity += c.Intensity
			stats.TotalSymptomSeverity += c.TotalSymptomSeverity()
			stats.TotalSymptoms += len(c.Symptoms)
			stats.addDay(c.Day())
		}
	}
	return out
}

// AggregateTreatments groups check-ins by treatment name (lower-cased,
// trimmed; no namespace collapsing).
func AggregateTreatments(checkins []model.CheckIn) map[string]*TagStats {
	out := make(map[string]*TagStats)
	for i := range checkins {
		c := &checkins[i]
		if c.Timestamp.IsZero() {
			continue
		}
		seen := make(map[string]struct{}, len(c.Treatments))
		for _, raw := range c.Treatments {
			name := strings.ToLower(strings.TrimSpace(raw))
			if name == "" {
				continue
			}
			if _, dup := seen[name]; dup {
				continue
			}
			seen[name] = struct{}{}

			stats := out[name]
			if stats == nil {
				stats = &TagStats{}
				out[name] = stats
			}
			stats.Count++
			stats.TotalIntensity += c.Intensity
			stats.addDay(c.Day())
		}
	}
	return out
}

// filterWindow keeps check-ins inside the lookback window ending at now.
// days == 0 means all-time. Records with a zero timestamp are dropped as a
// data-quality issue, never surfaced as an error.
func filterWindow(checkins []model.CheckIn, days int, now time.Time) []model.CheckIn {
	var cutoff time.Time
	if days > 0 {
		cutoff = now.AddDate(0, 0, -days)
	}
	out := make([]model.CheckIn, 0, len(checkins))
	for _, c := range checkins {
		if c.Timestamp.IsZero() || c.Timestamp.After(now) {
			continue
		}
		if days > 0 && c.Timestamp.Before(cutoff) {
			continue
		}
		out = append(out, c)
	}
	return out
}

// splitRecent partitions check-ins at the recent-window cutoff.
func splitRecent(checkins []model.CheckIn, now time.Time) (recent, historical []model.CheckIn) {
	cutoff := now.AddDate(0, 0, -recentWindowDays)
	for _, c := range checkins {
		if c.Timestamp.Before(cutoff) {
			historical = append(historical, c)
		} else {
			recent = append(recent, c)
		}
	}
	return recent, historical
}
