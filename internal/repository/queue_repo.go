package repository

import (
	"context"

	"github.com/boobaGreen/trinity-fat-loss-app/internal/models"
)

const queueColumns = `id, user_id, priority, wait_time_hours, status,
	flexible_age, flexible_level, flexible_goal, created_at`

type QueueRepository struct {
	db DBTX
}

func NewQueueRepository(db DBTX) *QueueRepository {
	return &QueueRepository{db: db}
}

func (r *QueueRepository) Insert(ctx context.Context, id, userID string) (*models.QueueEntry, error) {
	query := `
		INSERT INTO matching_queue (id, user_id, priority)
		VALUES ($1, $2, $3)
		RETURNING ` + queueColumns
	var entry models.QueueEntry
	err := r.db.QueryRow(ctx, query, id, userID, models.DefaultQueuePriority).Scan(
		&entry.ID,
		&entry.UserID,
		&entry.Priority,
		&entry.WaitTimeHours,
		&entry.Status,
		&entry.FlexibleAge,
		&entry.FlexibleLevel,
		&entry.FlexibleGoal,
		&entry.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

// ActiveEntriesByUser returns a user's active entries newest first. More than
// one element means duplicates that the dedupe sweep has not collapsed yet.
func (r *QueueRepository) ActiveEntriesByUser(
	ctx context.Context,
	userID string,
) ([]models.QueueEntry, error) {
	query := `
		SELECT ` + queueColumns + `
		FROM matching_queue
		WHERE user_id = $1 AND status = 'active'
		ORDER BY created_at DESC
	`
	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := make([]models.QueueEntry, 0, 1)
	for rows.Next() {
		var entry models.QueueEntry
		if err := rows.Scan(
			&entry.ID,
			&entry.UserID,
			&entry.Priority,
			&entry.WaitTimeHours,
			&entry.Status,
			&entry.FlexibleAge,
			&entry.FlexibleLevel,
			&entry.FlexibleGoal,
			&entry.CreatedAt,
		); err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

func (r *QueueRepository) DeleteByIDs(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	_, err := r.db.Exec(ctx, `DELETE FROM matching_queue WHERE id = ANY($1)`, ids)
	return err
}

func (r *QueueRepository) DeleteActiveByUser(ctx context.Context, userID string) error {
	query := `DELETE FROM matching_queue WHERE user_id = $1 AND status = 'active'`
	_, err := r.db.Exec(ctx, query, userID)
	return err
}

// Position returns the 1-based FIFO rank of the user's newest active entry
// among all active entries, or 0 when the user is not queued. Ranking against
// the newest entry keeps the result sensible even before the dedupe sweep has
// purged older duplicates.
func (r *QueueRepository) Position(ctx context.Context, userID string) (int, error) {
	query := `
		SELECT CASE
			WHEN ref.created_at IS NULL THEN 0
			ELSE (
				SELECT COUNT(*)::int + 1
				FROM matching_queue q
				WHERE q.status = 'active' AND q.created_at < ref.created_at
			)
		END
		FROM (
			SELECT MAX(created_at) AS created_at
			FROM matching_queue
			WHERE user_id = $1 AND status = 'active'
		) ref
	`
	var position int
	if err := r.db.QueryRow(ctx, query, userID).Scan(&position); err != nil {
		return 0, err
	}
	return position, nil
}

func (r *QueueRepository) CountActive(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRow(ctx,
		`SELECT COUNT(*)::int FROM matching_queue WHERE status = 'active'`,
	).Scan(&count)
	return count, err
}

// RefreshWaitTimes recomputes wait_time_hours for every active entry from its
// creation time. Invoked by the periodic external job, never scheduled here.
func (r *QueueRepository) RefreshWaitTimes(ctx context.Context) (int64, error) {
	query := `
		UPDATE matching_queue
		SET wait_time_hours = EXTRACT(EPOCH FROM (NOW() - created_at)) / 3600
		WHERE status = 'active'
	`
	tag, err := r.db.Exec(ctx, query)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
