package service

import (
	"context"
	"errors"
	"log"
	"time"

	"tswtrack/internal/cache"
	"tswtrack/internal/model"
	"tswtrack/internal/repository"
)

var (
	ErrCheckInNotFound = errors.New("check-in not found")
	ErrNotOwner        = errors.New("check-in belongs to another user")
	ErrInvalidCheckIn  = errors.New("invalid check-in")
)

// WebSocket message types pushed after check-in mutations
const (
	MsgCheckInLogged  = "checkin_logged"
	MsgCheckInUpdated = "checkin_updated"
	MsgCheckInDeleted = "checkin_deleted"
	MsgInsightsStale  = "insights_stale"
)

// CheckInService handles check-in ingestion: validation, intensity
// normalization, persistence, and cache invalidation.
type CheckInService struct {
	repo        repository.CheckInRepo
	cache       cache.InsightCache
	broadcaster Broadcaster
}

// NewCheckInService creates a new check-in service
func NewCheckInService(repo repository.CheckInRepo, insightCache cache.InsightCache) *CheckInService {
	return &CheckInService{
		repo:  repo,
		cache: insightCache,
	}
}

// SetBroadcaster injects the WebSocket hub
func (s *CheckInService) SetBroadcaster(b Broadcaster) {
	s.broadcaster = b
}

// Log validates, normalizes, and persists a new check-in for the user.
func (s *CheckInService) Log(ctx context.Context, userID string, checkin *model.CheckIn) error {
	checkin.UserID = userID
	if checkin.Timestamp.IsZero() {
		checkin.Timestamp = time.Now()
	}
	if err := validateCheckIn(checkin); err != nil {
		return err
	}
	checkin.Normalize()

	if err := s.repo.Create(ctx, checkin); err != nil {
		return err
	}

	s.afterMutation(ctx, userID, MsgCheckInLogged, checkin)
	return nil
}

// List returns the user's check-ins, oldest first. days == 0 means all.
func (s *CheckInService) List(ctx context.Context, userID string, days int) ([]model.CheckIn, error) {
	if days > 0 {
		since := time.Now().AddDate(0, 0, -days)
		return s.repo.ListByUserSince(ctx, userID, since)
	}
	return s.repo.ListByUser(ctx, userID)
}

// Get returns one check-in, enforcing ownership.
func (s *CheckInService) Get(ctx context.Context, userID, id string) (*model.CheckIn, error) {
	checkin, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if checkin == nil {
		return nil, ErrCheckInNotFound
	}
	if checkin.UserID != userID {
		return nil, ErrNotOwner
	}
	return checkin, nil
}

// Update replaces the editable fields of an existing check-in.
func (s *CheckInService) Update(ctx context.Context, userID string, checkin *model.CheckIn) error {
	existing, err := s.Get(ctx, userID, checkin.ID)
	if err != nil {
		return err
	}

	checkin.UserID = existing.UserID
	checkin.CreatedAt = existing.CreatedAt
	if checkin.Timestamp.IsZero() {
		checkin.Timestamp = existing.Timestamp
	}
	if err := validateCheckIn(checkin); err != nil {
		return err
	}
	checkin.Normalize()

	if err := s.repo.Update(ctx, checkin); err != nil {
		return err
	}

	s.afterMutation(ctx, userID, MsgCheckInUpdated, checkin)
	return nil
}

// Delete removes a check-in, enforcing ownership.
func (s *CheckInService) Delete(ctx context.Context, userID, id string) error {
	if _, err := s.Get(ctx, userID, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	s.afterMutation(ctx, userID, MsgCheckInDeleted, map[string]string{"id": id})
	return nil
}

// afterMutation bumps the user's revision so memoized reports stop being
// served, then pushes live updates. Neither failure should fail the write.
func (s *CheckInService) afterMutation(ctx context.Context, userID, msgType string, payload interface{}) {
	if err := s.cache.BumpRevision(ctx, userID); err != nil {
		log.Printf("Failed to bump insight revision for %s: %v", userID, err)
	}
	if s.broadcaster != nil {
		s.broadcaster.BroadcastToUser(userID, msgType, payload)
		s.broadcaster.BroadcastToUser(userID, MsgInsightsStale, map[string]string{"userId": userID})
	}
}

func validateCheckIn(c *model.CheckIn) error {
	// Clock skew tolerance for client-submitted timestamps.
	if c.Timestamp.After(time.Now().Add(time.Hour)) {
		return ErrInvalidCheckIn
	}
	if c.SkinFeeling != nil && (*c.SkinFeeling < 1 || *c.SkinFeeling > 5) {
		return ErrInvalidCheckIn
	}
	if c.SkinIntensity != nil && (*c.SkinIntensity < 0 || *c.SkinIntensity > 4) {
		return ErrInvalidCheckIn
	}
	if c.PainScore != nil && (*c.PainScore < 0 || *c.PainScore > 10) {
		return ErrInvalidCheckIn
	}
	if c.SleepScore != nil && (*c.SleepScore < 1 || *c.SleepScore > 5) {
		return ErrInvalidCheckIn
	}
	for _, sym := range c.Symptoms {
		if sym.Symptom == "" || sym.Severity < 1 || sym.Severity > 5 {
			return ErrInvalidCheckIn
		}
	}
	return nil
}
