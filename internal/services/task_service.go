package services

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/boobaGreen/trinity-fat-loss-app/internal/models"
	"github.com/boobaGreen/trinity-fat-loss-app/internal/repository"
)

var (
	ErrTaskNotFound    = errors.New("task not found")
	ErrTaskNotEditable = errors.New("task is no longer editable")
)

// editGraceHour: yesterday's tasks stay editable until 03:00 today.
const editGraceHour = 3

type taskStore interface {
	GetByID(ctx context.Context, taskID string) (*models.DailyTask, error)
	ListByUserAndDate(ctx context.Context, userID string, date time.Time) ([]models.DailyTask, error)
	ListHistoryByTask(ctx context.Context, taskID string) ([]models.TaskHistoryEntry, error)
}

type TaskService struct {
	db       *pgxpool.Pool
	taskRepo taskStore
	now      func() time.Time
}

func NewTaskService(db *pgxpool.Pool, taskRepo taskStore) *TaskService {
	return &TaskService{db: db, taskRepo: taskRepo, now: time.Now}
}

func (s *TaskService) GetDailyTasks(
	ctx context.Context,
	userID string,
	date time.Time,
) ([]models.DailyTask, error) {
	return s.taskRepo.ListByUserAndDate(ctx, userID, date)
}

// UpdateTaskStatus toggles completion for a task the caller owns and records
// the change in the task history, inside one transaction.
func (s *TaskService) UpdateTaskStatus(
	ctx context.Context,
	actorID, taskID string,
	completed bool,
	reason *string,
) (*models.DailyTask, error) {
	task, err := s.taskRepo.GetByID(ctx, taskID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrTaskNotFound
		}
		return nil, err
	}
	if task.UserID != actorID {
		return nil, ErrForbidden
	}
	if !isDateEditable(task.TaskDate, s.now()) {
		return nil, ErrTaskNotEditable
	}

	now := s.now().UTC()
	var completedAt *time.Time
	if completed {
		completedAt = &now
	}

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	txTasks := repository.NewDailyTaskRepository(tx)

	updated, err := txTasks.UpdateCompletion(ctx, taskID, completed, completedAt)
	if err != nil {
		return nil, err
	}

	action := models.TaskActionComplete
	if !completed {
		action = models.TaskActionUncomplete
	}
	if err := txTasks.InsertHistory(ctx, repository.InsertHistoryInput{
		ID:         uuid.NewString(),
		TaskID:     taskID,
		UserID:     task.UserID,
		ActionType: action,
		OldValue:   models.TaskValue{Completed: task.Completed, CompletedAt: task.CompletedAt},
		NewValue:   models.TaskValue{Completed: completed, CompletedAt: completedAt},
		ModifiedBy: actorID,
		Reason:     reason,
	}); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return updated, nil
}

func (s *TaskService) GetTaskHistory(
	ctx context.Context,
	actorID, taskID string,
) ([]models.TaskHistoryEntry, error) {
	task, err := s.taskRepo.GetByID(ctx, taskID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrTaskNotFound
		}
		return nil, err
	}
	if task.UserID != actorID {
		return nil, ErrForbidden
	}
	return s.taskRepo.ListHistoryByTask(ctx, taskID)
}

// isDateEditable: a task may be changed on its own day, or on the following
// day before 03:00.
func isDateEditable(taskDate, now time.Time) bool {
	taskDay := time.Date(taskDate.Year(), taskDate.Month(), taskDate.Day(), 0, 0, 0, 0, now.Location())
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	switch {
	case taskDay.Equal(today):
		return true
	case taskDay.Equal(today.AddDate(0, 0, -1)):
		return now.Hour() < editGraceHour
	default:
		return false
	}
}
