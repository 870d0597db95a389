package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/boobaGreen/trinity-fat-loss-app/internal/models"
)

const taskColumns = `id, user_id, trio_id, task_date, task_type, completed,
	completed_at, target_value, actual_value, target_unit, notes, modified_at`

type DailyTaskRepository struct {
	db DBTX
}

func NewDailyTaskRepository(db DBTX) *DailyTaskRepository {
	return &DailyTaskRepository{db: db}
}

func scanTask(row pgx.Row, task *models.DailyTask) error {
	return row.Scan(
		&task.ID,
		&task.UserID,
		&task.TrioID,
		&task.TaskDate,
		&task.TaskType,
		&task.Completed,
		&task.CompletedAt,
		&task.TargetValue,
		&task.ActualValue,
		&task.TargetUnit,
		&task.Notes,
		&task.ModifiedAt,
	)
}

type SeedTaskInput struct {
	ID          string
	UserID      string
	TrioID      string
	TaskDate    time.Time
	TaskType    string
	TargetValue *float64
	TargetUnit  *string
}

func (r *DailyTaskRepository) Insert(ctx context.Context, input SeedTaskInput) error {
	query := `
		INSERT INTO daily_tasks (id, user_id, trio_id, task_date, task_type, target_value, target_unit)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (user_id, task_date, task_type) DO NOTHING
	`
	_, err := r.db.Exec(ctx, query,
		input.ID,
		input.UserID,
		input.TrioID,
		input.TaskDate,
		input.TaskType,
		input.TargetValue,
		input.TargetUnit,
	)
	return err
}

func (r *DailyTaskRepository) GetByID(ctx context.Context, taskID string) (*models.DailyTask, error) {
	query := `SELECT ` + taskColumns + ` FROM daily_tasks WHERE id = $1`
	var task models.DailyTask
	if err := scanTask(r.db.QueryRow(ctx, query, taskID), &task); err != nil {
		return nil, err
	}
	return &task, nil
}

func (r *DailyTaskRepository) ListByUserAndDate(
	ctx context.Context,
	userID string,
	date time.Time,
) ([]models.DailyTask, error) {
	query := `
		SELECT ` + taskColumns + `
		FROM daily_tasks
		WHERE user_id = $1 AND task_date = $2
		ORDER BY task_type ASC
	`
	rows, err := r.db.Query(ctx, query, userID, date)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tasks := make([]models.DailyTask, 0)
	for rows.Next() {
		var task models.DailyTask
		if err := scanTask(rows, &task); err != nil {
			return nil, err
		}
		tasks = append(tasks, task)
	}
	return tasks, rows.Err()
}

func (r *DailyTaskRepository) UpdateCompletion(
	ctx context.Context,
	taskID string,
	completed bool,
	completedAt *time.Time,
) (*models.DailyTask, error) {
	query := `
		UPDATE daily_tasks
		SET completed = $2, completed_at = $3, modified_at = NOW()
		WHERE id = $1
		RETURNING ` + taskColumns
	var task models.DailyTask
	if err := scanTask(r.db.QueryRow(ctx, query, taskID, completed, completedAt), &task); err != nil {
		return nil, err
	}
	return &task, nil
}

type InsertHistoryInput struct {
	ID         string
	TaskID     string
	UserID     string
	ActionType string
	OldValue   models.TaskValue
	NewValue   models.TaskValue
	ModifiedBy string
	Reason     *string
}

func (r *DailyTaskRepository) InsertHistory(ctx context.Context, input InsertHistoryInput) error {
	query := `
		INSERT INTO daily_tasks_history (id, task_id, user_id, action_type, old_value, new_value, modified_by, reason)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := r.db.Exec(ctx, query,
		input.ID,
		input.TaskID,
		input.UserID,
		input.ActionType,
		input.OldValue,
		input.NewValue,
		input.ModifiedBy,
		input.Reason,
	)
	return err
}

func (r *DailyTaskRepository) ListHistoryByTask(
	ctx context.Context,
	taskID string,
) ([]models.TaskHistoryEntry, error) {
	query := `
		SELECT id, task_id, user_id, action_type, old_value, new_value, modified_by, reason, modified_at
		FROM daily_tasks_history
		WHERE task_id = $1
		ORDER BY modified_at DESC
	`
	rows, err := r.db.Query(ctx, query, taskID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := make([]models.TaskHistoryEntry, 0)
	for rows.Next() {
		var entry models.TaskHistoryEntry
		if err := rows.Scan(
			&entry.ID,
			&entry.TaskID,
			&entry.UserID,
			&entry.ActionType,
			&entry.OldValue,
			&entry.NewValue,
			&entry.ModifiedBy,
			&entry.Reason,
			&entry.ModifiedAt,
		); err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}
