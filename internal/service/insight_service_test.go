package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tswtrack/internal/model"
)

func seedCheckIns(t *testing.T, svc *CheckInService, userID string) {
	t.Helper()
	now := time.Now()
	for day := 20; day >= 1; day-- {
		intensity := 1
		var triggers []string
		if day%4 == 0 {
			intensity = 4
			triggers = []string{"stress"}
		}
		checkin := &model.CheckIn{
			Timestamp:     now.AddDate(0, 0, -day),
			SkinIntensity: &intensity,
			Triggers:      triggers,
		}
		require.NoError(t, svc.Log(context.Background(), userID, checkin))
	}
}

func TestTriggerReportMemoization(t *testing.T) {
	repo := newFakeRepo()
	ic := newFakeCache()
	checkinSvc := NewCheckInService(repo, ic)
	insightSvc := NewInsightService(repo, ic)

	seedCheckIns(t, checkinSvc, "usr_a")
	repo.listCalls = 0

	first, err := insightSvc.TriggerReport(context.Background(), "usr_a", model.WindowMonth)
	require.NoError(t, err)
	assert.Equal(t, model.ReportStatusOK, first.Status)
	require.Len(t, first.Active, 1)
	assert.Equal(t, "stress", first.Active[0].Tag)
	assert.Equal(t, 1, repo.listCalls)

	// Second read is served from the cache.
	second, err := insightSvc.TriggerReport(context.Background(), "usr_a", model.WindowMonth)
	require.NoError(t, err)
	assert.Same(t, first, second)
	assert.Equal(t, 1, repo.listCalls)
}

func TestTriggerReportRecomputesAfterMutation(t *testing.T) {
	repo := newFakeRepo()
	ic := newFakeCache()
	checkinSvc := NewCheckInService(repo, ic)
	insightSvc := NewInsightService(repo, ic)

	seedCheckIns(t, checkinSvc, "usr_a")

	_, err := insightSvc.TriggerReport(context.Background(), "usr_a", model.WindowMonth)
	require.NoError(t, err)
	repo.listCalls = 0

	// A new check-in bumps the revision and orphans the cached report.
	intensity := 2
	err = checkinSvc.Log(context.Background(), "usr_a", &model.CheckIn{
		Timestamp:     time.Now(),
		SkinIntensity: &intensity,
	})
	require.NoError(t, err)

	_, err = insightSvc.TriggerReport(context.Background(), "usr_a", model.WindowMonth)
	require.NoError(t, err)
	assert.Equal(t, 1, repo.listCalls)
}

func TestTriggerReportCachesPerWindow(t *testing.T) {
	repo := newFakeRepo()
	ic := newFakeCache()
	checkinSvc := NewCheckInService(repo, ic)
	insightSvc := NewInsightService(repo, ic)

	seedCheckIns(t, checkinSvc, "usr_a")

	month, err := insightSvc.TriggerReport(context.Background(), "usr_a", model.WindowMonth)
	require.NoError(t, err)
	week, err := insightSvc.TriggerReport(context.Background(), "usr_a", model.WindowWeek)
	require.NoError(t, err)
	assert.NotSame(t, month, week)
	assert.Equal(t, model.WindowWeek, week.Window)
}

func TestInsightServiceDegradesWithoutCache(t *testing.T) {
	repo := newFakeRepo()
	healthy := newFakeCache()
	checkinSvc := NewCheckInService(repo, healthy)
	seedCheckIns(t, checkinSvc, "usr_a")

	broken := newFakeCache()
	broken.failing = true
	insightSvc := NewInsightService(repo, broken)

	repo.listCalls = 0
	report, err := insightSvc.TriggerReport(context.Background(), "usr_a", model.WindowMonth)
	require.NoError(t, err)
	assert.Equal(t, model.ReportStatusOK, report.Status)

	// Nothing memoized: every read recomputes.
	_, err = insightSvc.TriggerReport(context.Background(), "usr_a", model.WindowMonth)
	require.NoError(t, err)
	assert.Equal(t, 2, repo.listCalls)
	assert.Empty(t, broken.store)
}

func TestFoodReportsMemoizedPerLookback(t *testing.T) {
	repo := newFakeRepo()
	ic := newFakeCache()
	checkinSvc := NewCheckInService(repo, ic)
	insightSvc := NewInsightService(repo, ic)

	now := time.Now()
	for _, day := range []int{12, 8, 4} {
		exposure := 2
		spike := 4
		require.NoError(t, checkinSvc.Log(context.Background(), "usr_a", &model.CheckIn{
			Timestamp:     now.AddDate(0, 0, -day),
			SkinIntensity: &exposure,
			Triggers:      []string{"food:dairy"},
		}))
		require.NoError(t, checkinSvc.Log(context.Background(), "usr_a", &model.CheckIn{
			Timestamp:     now.AddDate(0, 0, -day+1),
			SkinIntensity: &spike,
		}))
	}
	repo.listCalls = 0

	first, err := insightSvc.FoodReports(context.Background(), "usr_a", 30)
	require.NoError(t, err)
	require.Len(t, first.Items, 1)
	assert.Equal(t, "dairy", first.Items[0].Name)
	assert.Equal(t, model.ReactionOftenWorse, first.Items[0].Pattern)

	second, err := insightSvc.FoodReports(context.Background(), "usr_a", 30)
	require.NoError(t, err)
	assert.Same(t, first, second)
	assert.Equal(t, 1, repo.listCalls)

	// A different lookback is a different memo entry.
	_, err = insightSvc.FoodReports(context.Background(), "usr_a", 7)
	require.NoError(t, err)
	assert.Equal(t, 2, repo.listCalls)
}

func TestSummaryMemoization(t *testing.T) {
	repo := newFakeRepo()
	ic := newFakeCache()
	checkinSvc := NewCheckInService(repo, ic)
	insightSvc := NewInsightService(repo, ic)

	seedCheckIns(t, checkinSvc, "usr_a")
	repo.listCalls = 0

	first, err := insightSvc.Summary(context.Background(), "usr_a", model.WindowAll)
	require.NoError(t, err)
	assert.Equal(t, 20, first.TotalCheckIns)

	second, err := insightSvc.Summary(context.Background(), "usr_a", model.WindowAll)
	require.NoError(t, err)
	assert.Same(t, first, second)
	assert.Equal(t, 1, repo.listCalls)
}
