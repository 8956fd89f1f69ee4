package users

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"chefdraft/internal/models"
)

// ErrNotFound is returned when no profile exists with the given ID.
var ErrNotFound = errors.New("user not found")

// ErrConflict is returned when a mutation loses its compare-and-swap
// race more times than the repository is willing to retry.
var ErrConflict = errors.New("user record changed concurrently")

const mutateAttempts = 3

// Repository implements profile data access over the users document table.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a new users repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// CreateUser inserts a profile. Inserting an ID that already exists is
// a no-op, so concurrent first sign-ins stay safe.
func (r *Repository) CreateUser(ctx context.Context, profile *models.UserProfile) error {
	doc, err := json.Marshal(profile)
	if err != nil {
		return fmt.Errorf("failed to marshal user: %w", err)
	}

	_, err = r.pool.Exec(ctx,
		`INSERT INTO users (id, doc) VALUES ($1, $2) ON CONFLICT (id) DO NOTHING`,
		profile.ID, doc,
	)
	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

// GetUser retrieves a profile by ID.
func (r *Repository) GetUser(ctx context.Context, id string) (*models.UserProfile, error) {
	var doc []byte
	err := r.pool.QueryRow(ctx, `SELECT doc FROM users WHERE id = $1`, id).Scan(&doc)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	var profile models.UserProfile
	if err := json.Unmarshal(doc, &profile); err != nil {
		return nil, fmt.Errorf("failed to unmarshal user: %w", err)
	}
	return &profile, nil
}

// ListByPoints returns every profile ordered by points, highest first.
func (r *Repository) ListByPoints(ctx context.Context) ([]models.UserProfile, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT doc FROM users ORDER BY (doc->>'points')::int DESC, doc->>'display_name'`,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	defer rows.Close()

	var profiles []models.UserProfile
	for rows.Next() {
		var doc []byte
		if err := rows.Scan(&doc); err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		var profile models.UserProfile
		if err := json.Unmarshal(doc, &profile); err != nil {
			return nil, fmt.Errorf("failed to unmarshal user: %w", err)
		}
		profiles = append(profiles, profile)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate users: %w", err)
	}
	return profiles, nil
}

// MutateUser applies fn to the current profile and writes the result
// back with a version check, retrying on concurrent updates.
func (r *Repository) MutateUser(ctx context.Context, id string, fn func(*models.UserProfile) error) (*models.UserProfile, error) {
	for attempt := 0; attempt < mutateAttempts; attempt++ {
		var doc []byte
		var version int64
		err := r.pool.QueryRow(ctx,
			`SELECT doc, version FROM users WHERE id = $1`, id,
		).Scan(&doc, &version)
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read user for update: %w", err)
		}

		var profile models.UserProfile
		if err := json.Unmarshal(doc, &profile); err != nil {
			return nil, fmt.Errorf("failed to unmarshal user: %w", err)
		}

		if err := fn(&profile); err != nil {
			return nil, err
		}

		updated, err := json.Marshal(&profile)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal user: %w", err)
		}

		tag, err := r.pool.Exec(ctx,
			`UPDATE users SET doc = $2, version = version + 1, updated_at = NOW()
			 WHERE id = $1 AND version = $3`,
			id, updated, version,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to update user: %w", err)
		}
		if tag.RowsAffected() == 1 {
			return &profile, nil
		}
	}
	return nil, ErrConflict
}
