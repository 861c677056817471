package insight

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tswtrack/internal/model"
)

func TestBuildSummary(t *testing.T) {
	pain := 6
	sleep := 3
	checkins := append(background(1, 6, 3), background(20, 6, 2)...)
	checkins = append(checkins, model.CheckIn{
		Timestamp:  testNow.AddDate(0, 0, -2),
		Intensity:  3,
		PainScore:  &pain,
		SleepScore: &sleep,
	})

	summary := BuildSummary(checkins, model.WindowAll, testNow)
	assert.Equal(t, 13, summary.TotalCheckIns)
	assert.Equal(t, 12, summary.TrackedDays)
	require.NotNil(t, summary.AvgPain)
	assert.InDelta(t, 6.0, *summary.AvgPain, 1e-9)
	require.NotNil(t, summary.AvgSleep)
	assert.InDelta(t, 3.0, *summary.AvgSleep, 1e-9)

	// Recent days run hotter than historical ones.
	assert.Equal(t, model.TrendWorsening, summary.Trend)
	assert.Greater(t, summary.RecentAvgIntensity, summary.AvgIntensity)
}

func TestBuildSummaryEmpty(t *testing.T) {
	summary := BuildSummary(nil, model.WindowWeek, testNow)
	assert.Equal(t, 0, summary.TotalCheckIns)
	assert.Equal(t, 0, summary.TrackedDays)
	assert.Nil(t, summary.AvgPain)
	assert.Nil(t, summary.AvgSleep)
	assert.Equal(t, model.TrendStable, summary.Trend)
}

func TestBuildSummaryOnlyRecentDataStaysStable(t *testing.T) {
	summary := BuildSummary(background(1, 5, 3), model.WindowMonth, testNow)
	assert.Equal(t, model.TrendStable, summary.Trend)
}
