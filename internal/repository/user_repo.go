package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/boobaGreen/trinity-fat-loss-app/internal/models"
)

type DBTX interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

const userColumns = `id, email, password_hash, name, age, languages, weight_goal,
	fitness_level, matching_status, trio_id, onboarding_complete, created_at, updated_at`

type UserRepository struct {
	db DBTX
}

func NewUserRepository(db DBTX) *UserRepository {
	return &UserRepository{db: db}
}

func scanUser(row pgx.Row, user *models.User) error {
	return row.Scan(
		&user.ID,
		&user.Email,
		&user.PasswordHash,
		&user.Name,
		&user.Age,
		&user.Languages,
		&user.WeightGoal,
		&user.FitnessLevel,
		&user.MatchingStatus,
		&user.TrioID,
		&user.OnboardingComplete,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
}

func (r *UserRepository) CreateUser(ctx context.Context, user *models.User) error {
	query := `
		INSERT INTO users (id, email, password_hash)
		VALUES ($1, $2, $3)
		RETURNING matching_status, created_at, updated_at
	`
	return r.db.QueryRow(ctx, query, user.ID, user.Email, user.PasswordHash).
		Scan(&user.MatchingStatus, &user.CreatedAt, &user.UpdatedAt)
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`
	var user models.User
	if err := scanUser(r.db.QueryRow(ctx, query, email), &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	var user models.User
	if err := scanUser(r.db.QueryRow(ctx, query, id), &user); err != nil {
		return nil, err
	}
	return &user, nil
}

type MatchingProfileInput struct {
	Name         string
	Age          int
	Languages    []string
	WeightGoal   string
	FitnessLevel string
}

// UpdateMatchingProfile rewrites the attributes the matcher filters on. It runs
// before every search so repeated matching attempts stay idempotent per user.
func (r *UserRepository) UpdateMatchingProfile(
	ctx context.Context,
	userID string,
	input MatchingProfileInput,
) (*models.User, error) {
	query := `
		UPDATE users
		SET name = $1,
			age = $2,
			languages = $3,
			weight_goal = $4,
			fitness_level = $5,
			onboarding_complete = TRUE,
			updated_at = NOW()
		WHERE id = $6
		RETURNING ` + userColumns
	var user models.User
	err := scanUser(r.db.QueryRow(ctx, query,
		input.Name,
		input.Age,
		input.Languages,
		input.WeightGoal,
		input.FitnessLevel,
		userID,
	), &user)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

type UpdateProfileInput struct {
	Name         *string
	Age          *int
	Languages    *[]string
	WeightGoal   *string
	FitnessLevel *string
}

func (r *UserRepository) UpdatePartial(
	ctx context.Context,
	userID string,
	input UpdateProfileInput,
) (*models.User, error) {
	query := `
		UPDATE users
		SET name = COALESCE($1, name),
			age = COALESCE($2, age),
			languages = COALESCE($3, languages),
			weight_goal = COALESCE($4, weight_goal),
			fitness_level = COALESCE($5, fitness_level),
			updated_at = NOW()
		WHERE id = $6
		RETURNING ` + userColumns
	var user models.User
	err := scanUser(r.db.QueryRow(ctx, query,
		input.Name,
		input.Age,
		input.Languages,
		input.WeightGoal,
		input.FitnessLevel,
		userID,
	), &user)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

type FindMatchesInput struct {
	UserID       string
	WeightGoal   string
	FitnessLevel string
	AgeMin       int
	AgeMax       int
	Languages    []string
	Limit        int
}

// FindAvailableMatches applies the hard compatibility filters: identical goal
// and level, age inside the window, at least one shared language, status
// available. Ordered by account creation so repeated searches are stable.
func (r *UserRepository) FindAvailableMatches(
	ctx context.Context,
	input FindMatchesInput,
) ([]models.User, error) {
	query := `
		SELECT ` + userColumns + `
		FROM users
		WHERE id <> $1
		  AND matching_status = 'available'
		  AND onboarding_complete
		  AND weight_goal = $2
		  AND fitness_level = $3
		  AND age BETWEEN $4 AND $5
		  AND languages && $6
		ORDER BY created_at ASC
		LIMIT $7
	`
	rows, err := r.db.Query(ctx, query,
		input.UserID,
		input.WeightGoal,
		input.FitnessLevel,
		input.AgeMin,
		input.AgeMax,
		input.Languages,
		input.Limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users := make([]models.User, 0)
	for rows.Next() {
		var user models.User
		if err := scanUser(rows, &user); err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	return users, rows.Err()
}

// ClaimForTrio transitions a member from available to in_trio. The conditional
// WHERE closes the race between concurrent formations: the losing formation
// sees zero affected rows and rolls back.
func (r *UserRepository) ClaimForTrio(ctx context.Context, userID, trioID string) (bool, error) {
	query := `
		UPDATE users
		SET matching_status = 'in_trio', trio_id = $2, updated_at = NOW()
		WHERE id = $1 AND matching_status = 'available'
	`
	tag, err := r.db.Exec(ctx, query, userID, trioID)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

// ResetToAvailable makes a user discoverable again unless they already belong
// to a trio. Used by cancel and by the partial/queued outcomes.
func (r *UserRepository) ResetToAvailable(ctx context.Context, userID string) error {
	query := `
		UPDATE users
		SET matching_status = 'available', updated_at = NOW()
		WHERE id = $1 AND matching_status <> 'in_trio'
	`
	_, err := r.db.Exec(ctx, query, userID)
	return err
}

// ReleaseTrioMembers returns every member of a trio to the available pool.
func (r *UserRepository) ReleaseTrioMembers(ctx context.Context, trioID string) error {
	query := `
		UPDATE users
		SET matching_status = 'available', trio_id = NULL, updated_at = NOW()
		WHERE trio_id = $1
	`
	_, err := r.db.Exec(ctx, query, trioID)
	return err
}

func (r *UserRepository) GetSummariesByIDs(
	ctx context.Context,
	ids []string,
) ([]models.MemberSummary, error) {
	query := `
		SELECT id, name, age, languages, weight_goal, fitness_level
		FROM users
		WHERE id = ANY($1)
	`
	rows, err := r.db.Query(ctx, query, ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	summaries := make([]models.MemberSummary, 0, len(ids))
	for rows.Next() {
		var summary models.MemberSummary
		if err := rows.Scan(
			&summary.ID,
			&summary.Name,
			&summary.Age,
			&summary.Languages,
			&summary.WeightGoal,
			&summary.FitnessLevel,
		); err != nil {
			return nil, err
		}
		summaries = append(summaries, summary)
	}
	return summaries, rows.Err()
}
