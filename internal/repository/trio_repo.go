package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/boobaGreen/trinity-fat-loss-app/internal/models"
)

// current_day is derived from start_date at read time so the counter never
// needs a background job to advance it.
var trioColumns = fmt.Sprintf(`id, user1_id, user2_id, user3_id, language, weight_goal,
	fitness_level, age_min, age_max, compatibility_score, start_date, end_date, status,
	LEAST(%d, GREATEST(1, (CURRENT_DATE - start_date::date)::int + 1)) AS current_day,
	created_at`, models.ProgramDays)

type TrioRepository struct {
	db DBTX
}

func NewTrioRepository(db DBTX) *TrioRepository {
	return &TrioRepository{db: db}
}

func scanTrio(row pgx.Row, trio *models.Trio) error {
	return row.Scan(
		&trio.ID,
		&trio.User1ID,
		&trio.User2ID,
		&trio.User3ID,
		&trio.Language,
		&trio.WeightGoal,
		&trio.FitnessLevel,
		&trio.AgeMin,
		&trio.AgeMax,
		&trio.CompatibilityScore,
		&trio.StartDate,
		&trio.EndDate,
		&trio.Status,
		&trio.CurrentDay,
		&trio.CreatedAt,
	)
}

type CreateTrioInput struct {
	ID                 string
	MemberIDs          [3]string
	Language           string
	WeightGoal         string
	FitnessLevel       string
	AgeMin             int
	AgeMax             int
	CompatibilityScore int
	StartDate          time.Time
	EndDate            time.Time
}

func (r *TrioRepository) Create(ctx context.Context, input CreateTrioInput) (*models.Trio, error) {
	query := `
		INSERT INTO trios (id, user1_id, user2_id, user3_id, language, weight_goal,
			fitness_level, age_min, age_max, compatibility_score, start_date, end_date)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING ` + trioColumns
	var trio models.Trio
	err := scanTrio(r.db.QueryRow(ctx, query,
		input.ID,
		input.MemberIDs[0],
		input.MemberIDs[1],
		input.MemberIDs[2],
		input.Language,
		input.WeightGoal,
		input.FitnessLevel,
		input.AgeMin,
		input.AgeMax,
		input.CompatibilityScore,
		input.StartDate,
		input.EndDate,
	), &trio)
	if err != nil {
		return nil, err
	}
	return &trio, nil
}

func (r *TrioRepository) GetByID(ctx context.Context, trioID string) (*models.Trio, error) {
	query := `SELECT ` + trioColumns + ` FROM trios WHERE id = $1`
	var trio models.Trio
	if err := scanTrio(r.db.QueryRow(ctx, query, trioID), &trio); err != nil {
		return nil, err
	}
	return &trio, nil
}

func (r *TrioRepository) GetActiveByMember(ctx context.Context, userID string) (*models.Trio, error) {
	query := `
		SELECT ` + trioColumns + `
		FROM trios
		WHERE status = 'active'
		  AND (user1_id = $1 OR user2_id = $1 OR user3_id = $1)
	`
	var trio models.Trio
	if err := scanTrio(r.db.QueryRow(ctx, query, userID), &trio); err != nil {
		return nil, err
	}
	return &trio, nil
}

// CompleteIfActive marks the trio completed only when it is still active, so a
// double completion is detected instead of silently rewritten.
func (r *TrioRepository) CompleteIfActive(ctx context.Context, trioID string) (bool, error) {
	query := `UPDATE trios SET status = 'completed' WHERE id = $1 AND status = 'active'`
	tag, err := r.db.Exec(ctx, query, trioID)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}
