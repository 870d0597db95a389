package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/boobaGreen/trinity-fat-loss-app/internal/models"
	"github.com/boobaGreen/trinity-fat-loss-app/internal/repository"
)

// Task types seeded for every member on day one of the program.
var seedTaskTypes = []struct {
	taskType    string
	targetValue float64
	targetUnit  string
}{
	{"daily_movement", 30, "minutes"},
	{"hydration", 2, "liters"},
	{"meal_log", 3, "meals"},
}

// PgTrioAssembler executes trio formation as one transaction: claim all three
// members conditionally, insert the trio, clear their queue entries, write
// their notifications and seed day-one tasks. Any failed claim rolls the whole
// unit back and surfaces ErrMemberClaimed.
type PgTrioAssembler struct {
	db *pgxpool.Pool
}

func NewPgTrioAssembler(db *pgxpool.Pool) *PgTrioAssembler {
	return &PgTrioAssembler{db: db}
}

func (a *PgTrioAssembler) FormTrio(
	ctx context.Context,
	requester *models.User,
	peers []models.User,
) (*models.Trio, error) {
	if len(peers) != 2 {
		return nil, ErrInvalidInput
	}

	tx, err := a.db.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	txUsers := repository.NewUserRepository(tx)
	txQueue := repository.NewQueueRepository(tx)
	txTrios := repository.NewTrioRepository(tx)
	txNotifications := repository.NewNotificationRepository(tx)
	txTasks := repository.NewDailyTaskRepository(tx)

	memberIDs := [3]string{requester.ID, peers[0].ID, peers[1].ID}
	ages := []int{intValue(requester.Age), intValue(peers[0].Age), intValue(peers[1].Age)}
	ageMin, ageMax := minMax(ages)

	now := time.Now().UTC()
	startDate := now.Truncate(24 * time.Hour)
	trioID := uuid.NewString()

	trio, err := txTrios.Create(ctx, repository.CreateTrioInput{
		ID:                 trioID,
		MemberIDs:          memberIDs,
		Language:           commonLanguage(requester.Languages, peers[0].Languages, peers[1].Languages),
		WeightGoal:         stringValue(requester.WeightGoal),
		FitnessLevel:       stringValue(requester.FitnessLevel),
		AgeMin:             ageMin,
		AgeMax:             ageMax,
		CompatibilityScore: compatibilityScore(ages),
		StartDate:          startDate,
		EndDate:            startDate.AddDate(0, 0, models.ProgramDays),
	})
	if err != nil {
		return nil, err
	}

	for _, memberID := range memberIDs {
		claimed, err := txUsers.ClaimForTrio(ctx, memberID, trioID)
		if err != nil {
			return nil, err
		}
		if !claimed {
			return nil, fmt.Errorf("claim %s: %w", memberID, ErrMemberClaimed)
		}
		if err := txQueue.DeleteActiveByUser(ctx, memberID); err != nil {
			return nil, err
		}
		if _, err := txNotifications.Create(ctx, repository.CreateNotificationInput{
			ID:      uuid.NewString(),
			UserID:  memberID,
			Title:   "Your trio is ready",
			Message: "We matched you with two training partners. Your 90-day program starts today.",
			Type:    models.NotificationMatchFound,
		}); err != nil {
			return nil, err
		}
		for _, seed := range seedTaskTypes {
			target := seed.targetValue
			unit := seed.targetUnit
			if err := txTasks.Insert(ctx, repository.SeedTaskInput{
				ID:          uuid.NewString(),
				UserID:      memberID,
				TrioID:      trioID,
				TaskDate:    startDate,
				TaskType:    seed.taskType,
				TargetValue: &target,
				TargetUnit:  &unit,
			}); err != nil {
				return nil, err
			}
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return trio, nil
}

func minMax(values []int) (int, int) {
	min, max := values[0], values[0]
	for _, v := range values[1:] {
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
	}
	return min, max
}
