package model

import "time"

// TimeWindow selects the lookback used for insight reports.
type TimeWindow string

const (
	WindowWeek  TimeWindow = "week"
	WindowMonth TimeWindow = "month"
	WindowAll   TimeWindow = "all"
)

// IsValid reports whether w is a known window.
func (w TimeWindow) IsValid() bool {
	switch w {
	case WindowWeek, WindowMonth, WindowAll:
		return true
	default:
		return false
	}
}

// Days returns the lookback length in days, or 0 for all-time.
func (w TimeWindow) Days() int {
	switch w {
	case WindowWeek:
		return 7
	case WindowMonth:
		return 30
	default:
		return 0
	}
}

// SymptomEntry is one symptom with its user-rated severity (1-5).
type SymptomEntry struct {
	Symptom  string `json:"symptom" bson:"symptom"`
	Severity int    `json:"severity" bson:"severity"`
}

// CheckIn is one user-submitted log entry.
type CheckIn struct {
	ID        string    `json:"id" bson:"_id,omitempty"`
	UserID    string    `json:"userId" bson:"userId"`
	Timestamp time.Time `json:"timestamp" bson:"timestamp"`

	// Raw scores as submitted. SkinFeeling is the legacy 1-5 scale
	// (5 = best); SkinIntensity is the newer 0-4 scale (4 = worst).
	SkinFeeling   *int `json:"skinFeeling,omitempty" bson:"skinFeeling,omitempty"`
	SkinIntensity *int `json:"skinIntensity,omitempty" bson:"skinIntensity,omitempty"`
	PainScore     *int `json:"painScore,omitempty" bson:"painScore,omitempty"`   // 0-10
	SleepScore    *int `json:"sleepScore,omitempty" bson:"sleepScore,omitempty"` // 1-5

	Triggers   []string       `json:"triggers" bson:"triggers"`
	Symptoms   []SymptomEntry `json:"symptoms" bson:"symptoms"`
	Treatments []string       `json:"treatments" bson:"treatments"`

	// Intensity is the canonical 0-4 outcome measure, resolved once at
	// ingestion from SkinIntensity / SkinFeeling.
	Intensity float64 `json:"intensity" bson:"intensity"`

	CreatedAt time.Time `json:"createdAt" bson:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt" bson:"updatedAt"`
}

// NeutralIntensity is assumed when a check-in carries no skin score at all.
const NeutralIntensity = 2.0

// ResolveIntensity returns the canonical intensity for the given raw scores.
func ResolveIntensity(skinIntensity, skinFeeling *int) float64 {
	if skinIntensity != nil {
		return float64(*skinIntensity)
	}
	if skinFeeling != nil {
		return float64(5 - *skinFeeling)
	}
	return NeutralIntensity
}

// Normalize fills the canonical Intensity field from the raw scores.
func (c *CheckIn) Normalize() {
	c.Intensity = ResolveIntensity(c.SkinIntensity, c.SkinFeeling)
}

// Day returns the calendar day key of the check-in in UTC.
func (c *CheckIn) Day() string {
	return c.Timestamp.UTC().Format("2006-01-02")
}

// TotalSymptomSeverity sums the severities of all recorded symptoms.
func (c *CheckIn) TotalSymptomSeverity() int {
	total := 0
	for _, s := range c.Symptoms {
		total += s.Severity
	}
	return total
}
