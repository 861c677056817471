package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tswtrack/internal/model"
)

var errCacheDown = errors.New("cache down")

// fakeRepo is an in-memory CheckInRepo.
type fakeRepo struct {
	nextID    int
	checkins  map[string]model.CheckIn
	listCalls int
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{checkins: make(map[string]model.CheckIn)}
}

func (r *fakeRepo) Create(ctx context.Context, checkin *model.CheckIn) error {
	r.nextID++
	checkin.ID = fmt.Sprintf("c%d", r.nextID)
	now := time.Now()
	if checkin.CreatedAt.IsZero() {
		checkin.CreatedAt = now
	}
	checkin.UpdatedAt = now
	r.checkins[checkin.ID] = *checkin
	return nil
}

func (r *fakeRepo) GetByID(ctx context.Context, id string) (*model.CheckIn, error) {
	c, ok := r.checkins[id]
	if !ok {
		return nil, nil
	}
	return &c, nil
}

func (r *fakeRepo) ListByUser(ctx context.Context, userID string) ([]model.CheckIn, error) {
	r.listCalls++
	var out []model.CheckIn
	for _, c := range r.checkins {
		if c.UserID == userID {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Timestamp.Before(out[j].Timestamp) })
	return out, nil
}

func (r *fakeRepo) ListByUserSince(ctx context.Context, userID string, since time.Time) ([]model.CheckIn, error) {
	all, _ := r.ListByUser(ctx, userID)
	var out []model.CheckIn
	for _, c := range all {
		if !c.Timestamp.Before(since) {
			out = append(out, c)
		}
	}
	return out, nil
}

func (r *fakeRepo) Update(ctx context.Context, checkin *model.CheckIn) error {
	checkin.UpdatedAt = time.Now()
	r.checkins[checkin.ID] = *checkin
	return nil
}

func (r *fakeRepo) Delete(ctx context.Context, id string) error {
	delete(r.checkins, id)
	return nil
}

// fakeCache is an in-memory InsightCache. With failing set, every call
// errors, simulating Redis being down.
type fakeCache struct {
	failing bool
	revs    map[string]int64
	store   map[string]interface{}
}

func newFakeCache() *fakeCache {
	return &fakeCache{
		revs:  make(map[string]int64),
		store: make(map[string]interface{}),
	}
}

func (c *fakeCache) Revision(ctx context.Context, userID string) (int64, error) {
	if c.failing {
		return 0, errCacheDown
	}
	return c.revs[userID], nil
}

func (c *fakeCache) BumpRevision(ctx context.Context, userID string) error {
	if c.failing {
		return errCacheDown
	}
	c.revs[userID]++
	return nil
}

func (c *fakeCache) GetTriggerReport(ctx context.Context, userID string, window model.TimeWindow, rev int64) (*model.TriggerReport, error) {
	if v, ok := c.store[fmt.Sprintf("trig:%s:%s:%d", userID, window, rev)]; ok {
		return v.(*model.TriggerReport), nil
	}
	return nil, nil
}

func (c *fakeCache) SetTriggerReport(ctx context.Context, userID string, rev int64, report *model.TriggerReport) error {
	c.store[fmt.Sprintf("trig:%s:%s:%d", userID, report.Window, rev)] = report
	return nil
}

func (c *fakeCache) GetTreatmentReport(ctx context.Context, userID string, window model.TimeWindow, rev int64) (*model.TreatmentReport, error) {
	if v, ok := c.store[fmt.Sprintf("treat:%s:%s:%d", userID, window, rev)]; ok {
		return v.(*model.TreatmentReport), nil
	}
	return nil, nil
}

func (c *fakeCache) SetTreatmentReport(ctx context.Context, userID string, rev int64, report *model.TreatmentReport) error {
	c.store[fmt.Sprintf("treat:%s:%s:%d", userID, report.Window, rev)] = report
	return nil
}

func (c *fakeCache) GetReactionReports(ctx context.Context, userID, kind string, lookbackDays int, rev int64) (*model.ReactionReportSet, error) {
	if v, ok := c.store[fmt.Sprintf("react:%s:%s:%d:%d", userID, kind, lookbackDays, rev)]; ok {
		return v.(*model.ReactionReportSet), nil
	}
	return nil, nil
}

func (c *fakeCache) SetReactionReports(ctx context.Context, userID string, rev int64, set *model.ReactionReportSet) error {
	c.store[fmt.Sprintf("react:%s:%s:%d:%d", userID, set.Kind, set.LookbackDays, rev)] = set
	return nil
}

func (c *fakeCache) GetSummary(ctx context.Context, userID string, window model.TimeWindow, rev int64) (*model.SummaryStats, error) {
	if v, ok := c.store[fmt.Sprintf("sum:%s:%s:%d", userID, window, rev)]; ok {
		return v.(*model.SummaryStats), nil
	}
	return nil, nil
}

func (c *fakeCache) SetSummary(ctx context.Context, userID string, rev int64, summary *model.SummaryStats) error {
	c.store[fmt.Sprintf("sum:%s:%s:%d", userID, summary.Window, rev)] = summary
	return nil
}

// fakeBroadcaster records pushed message types.
type fakeBroadcaster struct {
	messages []string
}

func (b *fakeBroadcaster) BroadcastToUser(userID, msgType string, payload interface{}) {
	b.messages = append(b.messages, msgType)
}

func intPtr(v int) *int { return &v }

func TestLogNormalizesAndBumpsRevision(t *testing.T) {
	repo := newFakeRepo()
	ic := newFakeCache()
	bc := &fakeBroadcaster{}
	svc := NewCheckInService(repo, ic)
	svc.SetBroadcaster(bc)

	checkin := &model.CheckIn{SkinFeeling: intPtr(2)}
	err := svc.Log(context.Background(), "usr_a", checkin)
	require.NoError(t, err)

	assert.Equal(t, "usr_a", checkin.UserID)
	assert.False(t, checkin.Timestamp.IsZero())
	assert.Equal(t, 3.0, checkin.Intensity)
	assert.NotEmpty(t, checkin.ID)

	assert.Equal(t, int64(1), ic.revs["usr_a"])
	assert.Equal(t, []string{MsgCheckInLogged, MsgInsightsStale}, bc.messages)
}

func TestLogRejectsInvalidScores(t *testing.T) {
	repo := newFakeRepo()
	ic := newFakeCache()
	svc := NewCheckInService(repo, ic)

	tests := []*model.CheckIn{
		{SkinFeeling: intPtr(6)},
		{SkinIntensity: intPtr(5)},
		{PainScore: intPtr(11)},
		{SleepScore: intPtr(0)},
		{Symptoms: []model.SymptomEntry{{Symptom: "", Severity: 3}}},
		{Symptoms: []model.SymptomEntry{{Symptom: "itching", Severity: 6}}},
		{Timestamp: time.Now().Add(2 * time.Hour)},
	}
	for _, checkin := range tests {
		err := svc.Log(context.Background(), "usr_a", checkin)
		assert.ErrorIs(t, err, ErrInvalidCheckIn)
	}

	assert.Empty(t, repo.checkins)
	assert.Zero(t, ic.revs["usr_a"])
}

func TestGetEnforcesOwnership(t *testing.T) {
	repo := newFakeRepo()
	svc := NewCheckInService(repo, newFakeCache())

	checkin := &model.CheckIn{Timestamp: time.Now()}
	require.NoError(t, svc.Log(context.Background(), "usr_a", checkin))

	_, err := svc.Get(context.Background(), "usr_b", checkin.ID)
	assert.ErrorIs(t, err, ErrNotOwner)

	_, err = svc.Get(context.Background(), "usr_a", "missing")
	assert.ErrorIs(t, err, ErrCheckInNotFound)

	got, err := svc.Get(context.Background(), "usr_a", checkin.ID)
	require.NoError(t, err)
	assert.Equal(t, checkin.ID, got.ID)
}

func TestUpdatePreservesOwnershipAndCreatedAt(t *testing.T) {
	repo := newFakeRepo()
	ic := newFakeCache()
	svc := NewCheckInService(repo, ic)

	original := &model.CheckIn{Timestamp: time.Now().Add(-time.Hour), SkinIntensity: intPtr(1)}
	require.NoError(t, svc.Log(context.Background(), "usr_a", original))

	update := &model.CheckIn{ID: original.ID, SkinIntensity: intPtr(4)}
	require.NoError(t, svc.Update(context.Background(), "usr_a", update))

	assert.Equal(t, "usr_a", update.UserID)
	assert.Equal(t, original.CreatedAt, update.CreatedAt)
	assert.Equal(t, original.Timestamp, update.Timestamp)
	assert.Equal(t, 4.0, update.Intensity)
	assert.Equal(t, int64(2), ic.revs["usr_a"])

	// Someone else can't touch it.
	err := svc.Update(context.Background(), "usr_b", &model.CheckIn{ID: original.ID})
	assert.ErrorIs(t, err, ErrNotOwner)
}

func TestDelete(t *testing.T) {
	repo := newFakeRepo()
	ic := newFakeCache()
	svc := NewCheckInService(repo, ic)

	checkin := &model.CheckIn{Timestamp: time.Now()}
	require.NoError(t, svc.Log(context.Background(), "usr_a", checkin))

	err := svc.Delete(context.Background(), "usr_b", checkin.ID)
	assert.ErrorIs(t, err, ErrNotOwner)

	require.NoError(t, svc.Delete(context.Background(), "usr_a", checkin.ID))
	assert.Empty(t, repo.checkins)
	assert.Equal(t, int64(2), ic.revs["usr_a"])
}

func TestListAppliesDayFilter(t *testing.T) {
	repo := newFakeRepo()
	svc := NewCheckInService(repo, newFakeCache())

	old := &model.CheckIn{Timestamp: time.Now().AddDate(0, 0, -40)}
	recent := &model.CheckIn{Timestamp: time.Now().AddDate(0, 0, -3)}
	require.NoError(t, svc.Log(context.Background(), "usr_a", old))
	require.NoError(t, svc.Log(context.Background(), "usr_a", recent))

	all, err := svc.List(context.Background(), "usr_a", 0)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	month, err := svc.List(context.Background(), "usr_a", 30)
	require.NoError(t, err)
	require.Len(t, month, 1)
	assert.Equal(t, recent.ID, month[0].ID)
}

func TestMutationsSurviveCacheOutage(t *testing.T) {
	repo := newFakeRepo()
	ic := newFakeCache()
	ic.failing = true
	svc := NewCheckInService(repo, ic)

	checkin := &model.CheckIn{Timestamp: time.Now()}
	err := svc.Log(context.Background(), "usr_a", checkin)
	require.NoError(t, err)
	assert.Len(t, repo.checkins, 1)
}
