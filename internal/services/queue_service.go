package services

import (
	"context"

	"github.com/google/uuid"

	"github.com/boobaGreen/trinity-fat-loss-app/internal/metrics"
	"github.com/boobaGreen/trinity-fat-loss-app/internal/models"
)

// Estimated wait is a UI-facing hint, not a scheduling promise.
const (
	baseWaitHours    = 24
	waitHoursPerSlot = 6
	maxWaitHours     = 72
	minWaitHours     = 1
)

type queueStore interface {
	Insert(ctx context.Context, id, userID string) (*models.QueueEntry, error)
	ActiveEntriesByUser(ctx context.Context, userID string) ([]models.QueueEntry, error)
	DeleteByIDs(ctx context.Context, ids []string) error
	DeleteActiveByUser(ctx context.Context, userID string) error
	Position(ctx context.Context, userID string) (int, error)
	CountActive(ctx context.Context) (int, error)
	RefreshWaitTimes(ctx context.Context) (int64, error)
}

type QueueService struct {
	repo queueStore
}

func NewQueueService(repo queueStore) *QueueService {
	return &QueueService{repo: repo}
}

// Enqueue guarantees exactly one active entry per user: duplicates are
// collapsed down to the most recent entry, and an existing entry is returned
// unchanged rather than reinserted.
func (s *QueueService) Enqueue(ctx context.Context, userID string) (*models.QueueEntry, error) {
	entries, err := s.repo.ActiveEntriesByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	if len(entries) > 1 {
		stale := make([]string, 0, len(entries)-1)
		for _, entry := range entries[1:] {
			stale = append(stale, entry.ID)
		}
		if err := s.repo.DeleteByIDs(ctx, stale); err != nil {
			return nil, err
		}
	}
	if len(entries) > 0 {
		return &entries[0], nil
	}

	entry, err := s.repo.Insert(ctx, uuid.NewString(), userID)
	if err != nil {
		return nil, err
	}
	s.updateQueueGauge(ctx)
	return entry, nil
}

func (s *QueueService) Position(ctx context.Context, userID string) (int, error) {
	return s.repo.Position(ctx, userID)
}

// Remove deletes all active entries for the user. Removing an absent entry is
// success, not an error.
func (s *QueueService) Remove(ctx context.Context, userID string) error {
	if err := s.repo.DeleteActiveByUser(ctx, userID); err != nil {
		return err
	}
	s.updateQueueGauge(ctx)
	return nil
}

// RefreshWaitTimes is the trigger for the periodic wait-time job. Returns the
// number of entries touched.
func (s *QueueService) RefreshWaitTimes(ctx context.Context) (int64, error) {
	return s.repo.RefreshWaitTimes(ctx)
}

// EstimatedWaitHours maps a queue position to an advisory wait estimate:
// 24h for the head of the queue, 6h per additional slot, clamped to [1, 72].
func EstimatedWaitHours(position int) int {
	if position < 1 {
		return minWaitHours
	}
	hours := baseWaitHours + waitHoursPerSlot*(position-1)
	if hours > maxWaitHours {
		return maxWaitHours
	}
	if hours < minWaitHours {
		return minWaitHours
	}
	return hours
}

func (s *QueueService) updateQueueGauge(ctx context.Context) {
	if count, err := s.repo.CountActive(ctx); err == nil {
		metrics.QueueSize.Set(float64(count))
	}
}
