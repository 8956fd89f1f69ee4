package teams

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"chefdraft/internal/models"
)

// ErrNotFound is returned when no team exists with the given ID or
// invite code.
var ErrNotFound = errors.New("team not found")

// ErrConflict is returned when a mutation loses its compare-and-swap
// race more times than the repository is willing to retry.
var ErrConflict = errors.New("team record changed concurrently")

const mutateAttempts = 3

// Repository implements team data access over the teams document table.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a new teams repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// CreateTeam inserts a new team document.
func (r *Repository) CreateTeam(ctx context.Context, team *models.Team) error {
	doc, err := json.Marshal(team)
	if err != nil {
		return fmt.Errorf("failed to marshal team: %w", err)
	}

	_, err = r.pool.Exec(ctx,
		`INSERT INTO teams (id, doc) VALUES ($1, $2)`,
		team.ID, doc,
	)
	if err != nil {
		return fmt.Errorf("failed to create team: %w", err)
	}
	return nil
}

// GetTeam retrieves a team by ID.
func (r *Repository) GetTeam(ctx context.Context, id string) (*models.Team, error) {
	var doc []byte
	err := r.pool.QueryRow(ctx, `SELECT doc FROM teams WHERE id = $1`, id).Scan(&doc)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get team: %w", err)
	}

	return unmarshalTeam(doc)
}

// GetTeamByInviteCode retrieves the team holding the given invite code.
func (r *Repository) GetTeamByInviteCode(ctx context.Context, code string) (*models.Team, error) {
	var doc []byte
	err := r.pool.QueryRow(ctx,
		`SELECT doc FROM teams WHERE doc->>'invite_code' = $1`, code,
	).Scan(&doc)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get team by invite code: %w", err)
	}

	return unmarshalTeam(doc)
}

// ListTeams returns every team, ordered by name.
func (r *Repository) ListTeams(ctx context.Context) ([]models.Team, error) {
	rows, err := r.pool.Query(ctx, `SELECT doc FROM teams ORDER BY doc->>'name'`)
	if err != nil {
		return nil, fmt.Errorf("failed to list teams: %w", err)
	}
	defer rows.Close()

	var teams []models.Team
	for rows.Next() {
		var doc []byte
		if err := rows.Scan(&doc); err != nil {
			return nil, fmt.Errorf("failed to scan team: %w", err)
		}
		team, err := unmarshalTeam(doc)
		if err != nil {
			return nil, err
		}
		teams = append(teams, *team)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate teams: %w", err)
	}
	return teams, nil
}

// MutateTeam applies fn to the current team document and writes the
// result back with a version check, retrying on concurrent updates.
func (r *Repository) MutateTeam(ctx context.Context, id string, fn func(*models.Team) error) (*models.Team, error) {
	for attempt := 0; attempt < mutateAttempts; attempt++ {
		var doc []byte
		var version int64
		err := r.pool.QueryRow(ctx,
			`SELECT doc, version FROM teams WHERE id = $1`, id,
		).Scan(&doc, &version)
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read team for update: %w", err)
		}

		team, err := unmarshalTeam(doc)
		if err != nil {
			return nil, err
		}

		if err := fn(team); err != nil {
			return nil, err
		}

		updated, err := json.Marshal(team)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal team: %w", err)
		}

		tag, err := r.pool.Exec(ctx,
			`UPDATE teams SET doc = $2, version = version + 1, updated_at = NOW()
			 WHERE id = $1 AND version = $3`,
			id, updated, version,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to update team: %w", err)
		}
		if tag.RowsAffected() == 1 {
			return team, nil
		}
	}
	return nil, ErrConflict
}

// DeleteTeam removes a team document.
func (r *Repository) DeleteTeam(ctx context.Context, id string) error {
	if _, err := r.pool.Exec(ctx, `DELETE FROM teams WHERE id = $1`, id); err != nil {
		return fmt.Errorf("failed to delete team: %w", err)
	}
	return nil
}

func unmarshalTeam(doc []byte) (*models.Team, error) {
	var team models.Team
	if err := json.Unmarshal(doc, &team); err != nil {
		return nil, fmt.Errorf("failed to unmarshal team: %w", err)
	}
	return &team, nil
}
