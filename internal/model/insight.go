package model

import "time"

// Trend classifies how a trigger's impact is moving between the recent and
// historical halves of the analysis window.
type Trend string

const (
	TrendImproving Trend = "improving"
	TrendWorsening Trend = "worsening"
	TrendStable    Trend = "stable"
)

// ReportStatus lets callers distinguish "no data logged at all" from
// "data exists but nothing qualifies yet".
type ReportStatus string

const (
	ReportStatusOK               ReportStatus = "ok"
	ReportStatusInsufficientData ReportStatus = "insufficient_data"
	ReportStatusNoData           ReportStatus = "no_data"
)

// TriggerPattern is one trigger tag with its aggregated effect statistics.
type TriggerPattern struct {
	Tag        string `json:"tag" bson:"tag"`
	Count      int    `json:"count" bson:"count"`
	UniqueDays int    `json:"uniqueDays" bson:"uniqueDays"`

	AvgIntensity float64 `json:"avgIntensity" bson:"avgIntensity"`
	Baseline     float64 `json:"baseline" bson:"baseline"`
	ImpactDelta  float64 `json:"impactDelta" bson:"impactDelta"`
	PercentWorse int     `json:"percentWorse" bson:"percentWorse"`
	EffectScore  float64 `json:"effectScore" bson:"effectScore"`

	HighConfidence bool  `json:"highConfidence" bson:"highConfidence"`
	Trend          Trend `json:"trend" bson:"trend"`

	AvgSymptomSeverity float64 `json:"avgSymptomSeverity" bson:"avgSymptomSeverity"`
}

// ResolvedTrigger is a past pattern that no longer shows above-baseline impact.
type ResolvedTrigger struct {
	Tag             string  `json:"tag" bson:"tag"`
	UniqueDays      int     `json:"uniqueDays" bson:"uniqueDays"`
	HistoricalDelta float64 `json:"historicalDelta" bson:"historicalDelta"`
	RecentDelta     float64 `json:"recentDelta" bson:"recentDelta"`
}

// TriggerReport is the ranked correlation report for one user and window.
type TriggerReport struct {
	Status      ReportStatus      `json:"status" bson:"status"`
	Window      TimeWindow        `json:"window" bson:"window"`
	Baseline    float64           `json:"baseline" bson:"baseline"`
	Active      []TriggerPattern  `json:"active" bson:"active"`
	Resolved    []ResolvedTrigger `json:"resolved" bson:"resolved"`
	GeneratedAt time.Time         `json:"generatedAt" bson:"generatedAt"`
}

// TreatmentEffect is one treatment with its aggregated effect statistics.
// Negative ImpactDelta means days with the treatment trend better than
// baseline.
type TreatmentEffect struct {
	Treatment      string  `json:"treatment" bson:"treatment"`
	Count          int     `json:"count" bson:"count"`
	UniqueDays     int     `json:"uniqueDays" bson:"uniqueDays"`
	AvgIntensity   float64 `json:"avgIntensity" bson:"avgIntensity"`
	ImpactDelta    float64 `json:"impactDelta" bson:"impactDelta"`
	PercentBetter  int     `json:"percentBetter" bson:"percentBetter"`
	HighConfidence bool    `json:"highConfidence" bson:"highConfidence"`
}

// TreatmentReport lists treatments that co-occur with better skin days.
type TreatmentReport struct {
	Status      ReportStatus      `json:"status" bson:"status"`
	Window      TimeWindow        `json:"window" bson:"window"`
	Baseline    float64           `json:"baseline" bson:"baseline"`
	Helpful     []TreatmentEffect `json:"helpful" bson:"helpful"`
	GeneratedAt time.Time         `json:"generatedAt" bson:"generatedAt"`
}

// ReactionPattern is the rollup of a food/product's delayed aftermaths.
type ReactionPattern string

const (
	ReactionOftenWorse       ReactionPattern = "often_worse"
	ReactionOftenBetter      ReactionPattern = "often_better"
	ReactionMixed            ReactionPattern = "mixed"
	ReactionNoPattern        ReactionPattern = "no_pattern"
	ReactionInsufficientData ReactionPattern = "insufficient_data"
)

// ReactionConfidence buckets how much evidence backs a reaction rollup.
type ReactionConfidence string

const (
	ConfidenceHigh             ReactionConfidence = "high"
	ConfidenceMedium           ReactionConfidence = "medium"
	ConfidenceLow              ReactionConfidence = "low"
	ConfidenceInsufficientData ReactionConfidence = "insufficient_data"
)

// ReactionReport is one food or product name with its delayed-reaction rollup.
type ReactionReport struct {
	Name       string `json:"name" bson:"name"`
	Exposures  int    `json:"exposures" bson:"exposures"`
	Analyzable int    `json:"analyzable" bson:"analyzable"`

	WorseCount   int `json:"worseCount" bson:"worseCount"`
	BetterCount  int `json:"betterCount" bson:"betterCount"`
	NeutralCount int `json:"neutralCount" bson:"neutralCount"`

	AvgAfterIntensity float64 `json:"avgAfterIntensity" bson:"avgAfterIntensity"`
	Baseline          float64 `json:"baseline" bson:"baseline"`

	Pattern    ReactionPattern    `json:"pattern" bson:"pattern"`
	Confidence ReactionConfidence `json:"confidence" bson:"confidence"`
}

// ReactionReportSet wraps per-name reaction reports for one namespace.
type ReactionReportSet struct {
	Status       ReportStatus     `json:"status" bson:"status"`
	Kind         string           `json:"kind" bson:"kind"` // "food" or "product"
	LookbackDays int              `json:"lookbackDays" bson:"lookbackDays"`
	Items        []ReactionReport `json:"items" bson:"items"`
	GeneratedAt  time.Time        `json:"generatedAt" bson:"generatedAt"`
}

// SummaryStats is the headline numbers shown above the charts.
type SummaryStats struct {
	Window        TimeWindow `json:"window" bson:"window"`
	TotalCheckIns int        `json:"totalCheckIns" bson:"totalCheckIns"`
	TrackedDays   int        `json:"trackedDays" bson:"trackedDays"`

	AvgIntensity float64  `json:"avgIntensity" bson:"avgIntensity"`
	AvgPain      *float64 `json:"avgPain,omitempty" bson:"avgPain,omitempty"`
	AvgSleep     *float64 `json:"avgSleep,omitempty" bson:"avgSleep,omitempty"`

	RecentAvgIntensity float64 `json:"recentAvgIntensity" bson:"recentAvgIntensity"`
	Trend              Trend   `json:"trend" bson:"trend"`

	GeneratedAt time.Time `json:"generatedAt" bson:"generatedAt"`
}
