package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"tswtrack/internal/model"
)

// InsightCache memoizes computed reports in Redis. Every check-in mutation
// bumps the user's revision counter; report keys embed the revision, so
// entries computed against stale data simply stop being read and expire.
type InsightCache interface {
	Revision(ctx context.Context, userID string) (int64, error)
	BumpRevision(ctx context.Context, userID string) error

	GetTriggerReport(ctx context.Context, userID string, window model.TimeWindow, rev int64) (*model.TriggerReport, error)
	SetTriggerReport(ctx context.Context, userID string, rev int64, report *model.TriggerReport) error

	GetTreatmentReport(ctx context.Context, userID string, window model.TimeWindow, rev int64) (*model.TreatmentReport, error)
	SetTreatmentReport(ctx context.Context, userID string, rev int64, report *model.TreatmentReport) error

	GetReactionReports(ctx context.Context, userID, kind string, lookbackDays int, rev int64) (*model.ReactionReportSet, error)
	SetReactionReports(ctx context.Context, userID string, rev int64, set *model.ReactionReportSet) error

	GetSummary(ctx context.Context, userID string, window model.TimeWindow, rev int64) (*model.SummaryStats, error)
	SetSummary(ctx context.Context, userID string, rev int64, summary *model.SummaryStats) error
}

type insightCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewInsightCache creates a new insight cache.
func NewInsightCache(client *redis.Client) InsightCache {
	return &insightCache{
		client: client,
		ttl:    24 * time.Hour,
	}
}

// Key helpers
func (c *insightCache) revisionKey(userID string) string {
	return fmt.Sprintf("user:%s:checkins:rev", userID)
}

func (c *insightCache) triggerKey(userID string, window model.TimeWindow, rev int64) string {
	return fmt.Sprintf("user:%s:insights:triggers:%s:r%d", userID, window, rev)
}

func (c *insightCache) treatmentKey(userID string, window model.TimeWindow, rev int64) string {
	return fmt.Sprintf("user:%s:insights:treatments:%s:r%d", userID, window, rev)
}

func (c *insightCache) reactionKey(userID, kind string, lookbackDays int, rev int64) string {
	return fmt.Sprintf("user:%s:insights:%s:%dd:r%d", userID, kind, lookbackDays, rev)
}

func (c *insightCache) summaryKey(userID string, window model.TimeWindow, rev int64) string {
	return fmt.Sprintf("user:%s:insights:summary:%s:r%d", userID, window, rev)
}

func (c *insightCache) Revision(ctx context.Context, userID string) (int64, error) {
	rev, err := c.client.Get(ctx, c.revisionKey(userID)).Int64()
	if err == redis.Nil {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return rev, nil
}

func (c *insightCache) BumpRevision(ctx context.Context, userID string) error {
	return c.client.Incr(ctx, c.revisionKey(userID)).Err()
}

func (c *insightCache) GetTriggerReport(ctx context.Context, userID string, window model.TimeWindow, rev int64) (*model.TriggerReport, error) {
	var report model.TriggerReport
	ok, err := c.getJSON(ctx, c.triggerKey(userID, window, rev), &report)
	if err != nil || !ok {
		return nil, err
	}
	return &report, nil
}

func (c *insightCache) SetTriggerReport(ctx context.Context, userID string, rev int64, report *model.TriggerReport) error {
	return c.setJSON(ctx, c.triggerKey(userID, report.Window, rev), report)
}

func (c *insightCache) GetTreatmentReport(ctx context.Context, userID string, window model.TimeWindow, rev int64) (*model.TreatmentReport, error) {
	var report model.TreatmentReport
	ok, err := c.getJSON(ctx, c.treatmentKey(userID, window, rev), &report)
	if err != nil || !ok {
		return nil, err
	}
	return &report, nil
}

func (c *insightCache) SetTreatmentReport(ctx context.Context, userID string, rev int64, report *model.TreatmentReport) error {
	return c.setJSON(ctx, c.treatmentKey(userID, report.Window, rev), report)
}

func (c *insightCache) GetReactionReports(ctx context.Context, userID, kind string, lookbackDays int, rev int64) (*model.ReactionReportSet, error) {
	var set model.ReactionReportSet
	ok, err := c.getJSON(ctx, c.reactionKey(userID, kind, lookbackDays, rev), &set)
	if err != nil || !ok {
		return nil, err
	}
	return &set, nil
}

func (c *insightCache) SetReactionReports(ctx context.Context, userID string, rev int64, set *model.ReactionReportSet) error {
	return c.setJSON(ctx, c.reactionKey(userID, set.Kind, set.LookbackDays, rev), set)
}

func (c *insightCache) GetSummary(ctx context.Context, userID string, window model.TimeWindow, rev int64) (*model.SummaryStats, error) {
	var summary model.SummaryStats
	ok, err := c.getJSON(ctx, c.summaryKey(userID, window, rev), &summary)
	if err != nil || !ok {
		return nil, err
	}
	return &summary, nil
}

func (c *insightCache) SetSummary(ctx context.Context, userID string, rev int64, summary *model.SummaryStats) error {
	return c.setJSON(ctx, c.summaryKey(userID, summary.Window, rev), summary)
}

func (c *insightCache) getJSON(ctx context.Context, key string, dest interface{}) (bool, error) {
	data, err := c.client.Get(ctx, key).Result()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal([]byte(data), dest); err != nil {
		return false, err
	}
	return true, nil
}

func (c *insightCache) setJSON(ctx context.Context, key string, value interface{}) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, key, data, c.ttl).Err()
}
