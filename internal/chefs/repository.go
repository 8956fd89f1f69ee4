package chefs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"chefdraft/internal/models"
)

// ErrNotFound is returned when no chef exists with the given ID.
var ErrNotFound = errors.New("chef not found")

// ErrConflict is returned when a mutation loses its compare-and-swap
// race more times than the repository is willing to retry.
var ErrConflict = errors.New("chef record changed concurrently")

const mutateAttempts = 3

// Repository implements chef data access over the chefs document table.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a new chefs repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// CreateChef inserts a new chef document.
func (r *Repository) CreateChef(ctx context.Context, chef *models.Chef) error {
	doc, err := json.Marshal(chef)
	if err != nil {
		return fmt.Errorf("failed to marshal chef: %w", err)
	}

	_, err = r.pool.Exec(ctx,
		`INSERT INTO chefs (id, doc) VALUES ($1, $2)`,
		chef.ID, doc,
	)
	if err != nil {
		return fmt.Errorf("failed to create chef: %w", err)
	}
	return nil
}

// GetChef retrieves a chef by ID.
func (r *Repository) GetChef(ctx context.Context, id string) (*models.Chef, error) {
	var doc []byte
	err := r.pool.QueryRow(ctx, `SELECT doc FROM chefs WHERE id = $1`, id).Scan(&doc)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get chef: %w", err)
	}

	var chef models.Chef
	if err := json.Unmarshal(doc, &chef); err != nil {
		return nil, fmt.Errorf("failed to unmarshal chef: %w", err)
	}
	return &chef, nil
}

// ListChefs returns every chef, ordered by name.
func (r *Repository) ListChefs(ctx context.Context) ([]models.Chef, error) {
	rows, err := r.pool.Query(ctx, `SELECT doc FROM chefs ORDER BY doc->>'name'`)
	if err != nil {
		return nil, fmt.Errorf("failed to list chefs: %w", err)
	}
	defer rows.Close()

	return scanChefs(rows)
}

// ListChefsByStatus returns chefs with the given status, ordered by name.
func (r *Repository) ListChefsByStatus(ctx context.Context, status models.ChefStatus) ([]models.Chef, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT doc FROM chefs WHERE doc->>'status' = $1 ORDER BY doc->>'name'`,
		string(status),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list chefs by status: %w", err)
	}
	defer rows.Close()

	return scanChefs(rows)
}

// MutateChef applies fn to the current chef document and writes the
// result back with a version check, retrying on concurrent updates.
func (r *Repository) MutateChef(ctx context.Context, id string, fn func(*models.Chef) error) (*models.Chef, error) {
	for attempt := 0; attempt < mutateAttempts; attempt++ {
		var doc []byte
		var version int64
		err := r.pool.QueryRow(ctx,
			`SELECT doc, version FROM chefs WHERE id = $1`, id,
		).Scan(&doc, &version)
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read chef for update: %w", err)
		}

		var chef models.Chef
		if err := json.Unmarshal(doc, &chef); err != nil {
			return nil, fmt.Errorf("failed to unmarshal chef: %w", err)
		}

		if err := fn(&chef); err != nil {
			return nil, err
		}

		updated, err := json.Marshal(&chef)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal chef: %w", err)
		}

		tag, err := r.pool.Exec(ctx,
			`UPDATE chefs SET doc = $2, version = version + 1, updated_at = NOW()
			 WHERE id = $1 AND version = $3`,
			id, updated, version,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to update chef: %w", err)
		}
		if tag.RowsAffected() == 1 {
			return &chef, nil
		}
		// Lost the race; reread and try again.
	}
	return nil, ErrConflict
}

func scanChefs(rows pgx.Rows) ([]models.Chef, error) {
	var chefs []models.Chef
	for rows.Next() {
		var doc []byte
		if err := rows.Scan(&doc); err != nil {
			return nil, fmt.Errorf("failed to scan chef: %w", err)
		}
		var chef models.Chef
		if err := json.Unmarshal(doc, &chef); err != nil {
			return nil, fmt.Errorf("failed to unmarshal chef: %w", err)
		}
		chefs = append(chefs, chef)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate chefs: %w", err)
	}
	return chefs, nil
}
