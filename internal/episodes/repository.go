package episodes

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"chefdraft/internal/models"
)

// ErrNotFound is returned when no episode exists with the given ID.
var ErrNotFound = errors.New("episode not found")

// ErrDuplicate is returned when an episode number already exists for
// the season.
var ErrDuplicate = errors.New("episode already recorded")

// Repository implements episode data access over the episodes document
// table. Episodes never change after insert, so there is no mutate
// path.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a new episodes repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// CreateEpisode inserts a new episode document.
func (r *Repository) CreateEpisode(ctx context.Context, episode *models.Episode) error {
	existing, err := r.findByNumber(ctx, episode.Season, episode.Number)
	if err != nil && !errors.Is(err, ErrNotFound) {
		return err
	}
	if existing != nil {
		return ErrDuplicate
	}

	doc, err := json.Marshal(episode)
	if err != nil {
		return fmt.Errorf("failed to marshal episode: %w", err)
	}

	_, err = r.pool.Exec(ctx,
		`INSERT INTO episodes (id, doc) VALUES ($1, $2)`,
		episode.ID, doc,
	)
	if err != nil {
		return fmt.Errorf("failed to create episode: %w", err)
	}
	return nil
}

// GetEpisode retrieves an episode by ID.
func (r *Repository) GetEpisode(ctx context.Context, id string) (*models.Episode, error) {
	var doc []byte
	err := r.pool.QueryRow(ctx, `SELECT doc FROM episodes WHERE id = $1`, id).Scan(&doc)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get episode: %w", err)
	}

	var episode models.Episode
	if err := json.Unmarshal(doc, &episode); err != nil {
		return nil, fmt.Errorf("failed to unmarshal episode: %w", err)
	}
	return &episode, nil
}

// ListEpisodes returns a season's episodes in airing order.
func (r *Repository) ListEpisodes(ctx context.Context, season string) ([]models.Episode, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT doc FROM episodes WHERE doc->>'season' = $1
		 ORDER BY (doc->>'number')::int`,
		season,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list episodes: %w", err)
	}
	defer rows.Close()

	var episodes []models.Episode
	for rows.Next() {
		var doc []byte
		if err := rows.Scan(&doc); err != nil {
			return nil, fmt.Errorf("failed to scan episode: %w", err)
		}
		var episode models.Episode
		if err := json.Unmarshal(doc, &episode); err != nil {
			return nil, fmt.Errorf("failed to unmarshal episode: %w", err)
		}
		episodes = append(episodes, episode)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate episodes: %w", err)
	}
	return episodes, nil
}

func (r *Repository) findByNumber(ctx context.Context, season string, number int) (*models.Episode, error) {
	var doc []byte
	err := r.pool.QueryRow(ctx,
		`SELECT doc FROM episodes
		 WHERE doc->>'season' = $1 AND (doc->>'number')::int = $2`,
		season, number,
	).Scan(&doc)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to look up episode: %w", err)
	}

	var episode models.Episode
	if err := json.Unmarshal(doc, &episode); err != nil {
		return nil, fmt.Errorf("failed to unmarshal episode: %w", err)
	}
	return &episode, nil
}
