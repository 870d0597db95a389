package services

import (
	"context"
	"errors"
	"log"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/boobaGreen/trinity-fat-loss-app/internal/models"
	"github.com/boobaGreen/trinity-fat-loss-app/internal/repository"
)

var ErrTrioNotFound = errors.New("trio not found")

type trioReader interface {
	GetByID(ctx context.Context, trioID string) (*models.Trio, error)
	GetActiveByMember(ctx context.Context, userID string) (*models.Trio, error)
}

type memberSummaryReader interface {
	GetSummariesByIDs(ctx context.Context, ids []string) ([]models.MemberSummary, error)
}

type completionPublisher interface {
	PublishTrioCompleted(userID, trioID string) error
}

type TrioService struct {
	db        *pgxpool.Pool
	trioRepo  trioReader
	userRepo  memberSummaryReader
	publisher completionPublisher
}

func NewTrioService(
	db *pgxpool.Pool,
	trioRepo trioReader,
	userRepo memberSummaryReader,
	publisher completionPublisher,
) *TrioService {
	return &TrioService{
		db:        db,
		trioRepo:  trioRepo,
		userRepo:  userRepo,
		publisher: publisher,
	}
}

func (s *TrioService) GetMyTrio(ctx context.Context, userID string) (*models.TrioDetail, error) {
	trio, err := s.trioRepo.GetActiveByMember(ctx, userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrTrioNotFound
		}
		return nil, err
	}

	members, err := s.userRepo.GetSummariesByIDs(ctx, trio.MemberIDs())
	if err != nil {
		return nil, err
	}
	return &models.TrioDetail{Trio: *trio, Members: members}, nil
}

// CompleteTrio ends the program for all three members: the trio transitions to
// completed exactly once, and every member returns to the available pool.
func (s *TrioService) CompleteTrio(ctx context.Context, actorID, trioID string) (*models.Trio, error) {
	trio, err := s.trioRepo.GetByID(ctx, trioID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrTrioNotFound
		}
		return nil, err
	}
	if !trio.HasMember(actorID) {
		return nil, ErrForbidden
	}

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	txTrios := repository.NewTrioRepository(tx)
	txUsers := repository.NewUserRepository(tx)
	txNotifications := repository.NewNotificationRepository(tx)

	completed, err := txTrios.CompleteIfActive(ctx, trioID)
	if err != nil {
		return nil, err
	}
	if !completed {
		return nil, ErrInvalidStateTransition
	}

	if err := txUsers.ReleaseTrioMembers(ctx, trioID); err != nil {
		return nil, err
	}
	for _, memberID := range trio.MemberIDs() {
		if _, err := txNotifications.Create(ctx, repository.CreateNotificationInput{
			ID:      uuid.NewString(),
			UserID:  memberID,
			Title:   "Program completed",
			Message: "Your trio finished its 90-day program. You can start matching again anytime.",
			Type:    models.NotificationTrioCompleted,
		}); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	if s.publisher != nil {
		for _, memberID := range trio.MemberIDs() {
			if err := s.publisher.PublishTrioCompleted(memberID, trioID); err != nil {
				log.Printf("[trio] publish completion for %s: %v", memberID, err)
			}
		}
	}

	return s.trioRepo.GetByID(ctx, trioID)
}
