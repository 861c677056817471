package service

import (
	"context"
	"log"
	"time"

	"tswtrack/internal/cache"
	"tswtrack/internal/insight"
	"tswtrack/internal/model"
	"tswtrack/internal/repository"
)

// InsightService orchestrates repo -> engine -> cache. The engine itself is
// pure; this layer adds the memoization keyed on (revision, window) and
// degrades to a plain recompute whenever Redis misbehaves.
type InsightService struct {
	repo  repository.CheckInRepo
	cache cache.InsightCache
}

// NewInsightService creates a new insight service
func NewInsightService(repo repository.CheckInRepo, insightCache cache.InsightCache) *InsightService {
	return &InsightService{
		repo:  repo,
		cache: insightCache,
	}
}

// TriggerReport returns the same-day correlation report for one window.
func (s *InsightService) TriggerReport(ctx context.Context, userID string, window model.TimeWindow) (*model.TriggerReport, error) {
	rev, cacheable := s.revision(ctx, userID)
	if cacheable {
		cached, err := s.cache.GetTriggerReport(ctx, userID, window, rev)
		if err != nil {
			log.Printf("Insight cache read failed for %s: %v", userID, err)
		} else if cached != nil {
			return cached, nil
		}
	}

	checkins, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	report := insight.BuildTriggerReport(checkins, window, time.Now())
	if cacheable {
		if err := s.cache.SetTriggerReport(ctx, userID, rev, report); err != nil {
			log.Printf("Insight cache write failed for %s: %v", userID, err)
		}
	}
	return report, nil
}

// TreatmentReport returns treatments correlated with better skin days.
func (s *InsightService) TreatmentReport(ctx context.Context, userID string, window model.TimeWindow) (*model.TreatmentReport, error) {
	rev, cacheable := s.revision(ctx, userID)
	if cacheable {
		cached, err := s.cache.GetTreatmentReport(ctx, userID, window, rev)
		if err != nil {
			log.Printf("Insight cache read failed for %s: %v", userID, err)
		} else if cached != nil {
			return cached, nil
		}
	}

	checkins, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	report := insight.BuildTreatmentReport(checkins, window, time.Now())
	if cacheable {
		if err := s.cache.SetTreatmentReport(ctx, userID, rev, report); err != nil {
			log.Printf("Insight cache write failed for %s: %v", userID, err)
		}
	}
	return report, nil
}

// FoodReports returns the delayed-reaction rollup for logged foods.
func (s *InsightService) FoodReports(ctx context.Context, userID string, lookbackDays int) (*model.ReactionReportSet, error) {
	return s.reactionReports(ctx, userID, "food", lookbackDays, insight.AnalyzeFoods)
}

// ProductReports returns the delayed-reaction rollup for new products.
func (s *InsightService) ProductReports(ctx context.Context, userID string, lookbackDays int) (*model.ReactionReportSet, error) {
	return s.reactionReports(ctx, userID, "product", lookbackDays, insight.AnalyzeProducts)
}

func (s *InsightService) reactionReports(
	ctx context.Context,
	userID, kind string,
	lookbackDays int,
	analyze func([]model.CheckIn, int, time.Time) *model.ReactionReportSet,
) (*model.ReactionReportSet, error) {
	rev, cacheable := s.revision(ctx, userID)
	if cacheable {
		cached, err := s.cache.GetReactionReports(ctx, userID, kind, lookbackDays, rev)
		if err != nil {
			log.Printf("Insight cache read failed for %s: %v", userID, err)
		} else if cached != nil {
			return cached, nil
		}
	}

	checkins, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	set := analyze(checkins, lookbackDays, time.Now())
	if cacheable {
		if err := s.cache.SetReactionReports(ctx, userID, rev, set); err != nil {
			log.Printf("Insight cache write failed for %s: %v", userID, err)
		}
	}
	return set, nil
}

// Summary returns the headline stats for one window.
func (s *InsightService) Summary(ctx context.Context, userID string, window model.TimeWindow) (*model.SummaryStats, error) {
	rev, cacheable := s.revision(ctx, userID)
	if cacheable {
		cached, err := s.cache.GetSummary(ctx, userID, window, rev)
		if err != nil {
			log.Printf("Insight cache read failed for %s: %v", userID, err)
		} else if cached != nil {
			return cached, nil
		}
	}

	checkins, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	summary := insight.BuildSummary(checkins, window, time.Now())
	if cacheable {
		if err := s.cache.SetSummary(ctx, userID, rev, summary); err != nil {
			log.Printf("Insight cache write failed for %s: %v", userID, err)
		}
	}
	return summary, nil
}

// revision fetches the user's check-in revision. A Redis failure disables
// memoization for this request instead of failing it.
func (s *InsightService) revision(ctx context.Context, userID string) (int64, bool) {
	rev, err := s.cache.Revision(ctx, userID)
	if err != nil {
		log.Printf("Insight revision read failed for %s: %v", userID, err)
		return 0, false
	}
	return rev, true
}
