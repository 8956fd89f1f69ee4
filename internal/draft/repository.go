package draft

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"chefdraft/internal/models"
	"chefdraft/internal/sqlutil"
)

// PendingEvent is an outbox row written in the same transaction as a
// draft record update.
type PendingEvent struct {
	Type    string
	Payload []byte
}

// Repository persists the single shared draft record with optimistic
// version checks, and writes outbox events transactionally with it.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a new draft repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// GetDraft reads the draft record and its current version.
// Returns ErrNotConfigured when no record exists.
func (r *Repository) GetDraft(ctx context.Context) (*models.DraftSettings, int64, error) {
	var doc []byte
	var version int64
	err := r.pool.QueryRow(ctx,
		`SELECT doc, version FROM fantasy_draft WHERE id = $1`, models.DraftDocID,
	).Scan(&doc, &version)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, 0, ErrNotConfigured
	}
	if err != nil {
		return nil, 0, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	var settings models.DraftSettings
	if err := json.Unmarshal(doc, &settings); err != nil {
		return nil, 0, fmt.Errorf("failed to unmarshal draft record: %w", err)
	}
	return &settings, version, nil
}

// UpsertDraft writes the record unconditionally, creating it if absent.
// Used by setOrder, which replaces the record wholesale while inactive.
func (r *Repository) UpsertDraft(ctx context.Context, settings *models.DraftSettings) error {
	doc, err := json.Marshal(settings)
	if err != nil {
		return fmt.Errorf("failed to marshal draft record: %w", err)
	}

	_, err = r.pool.Exec(ctx,
		`INSERT INTO fantasy_draft (id, doc) VALUES ($1, $2)
		 ON CONFLICT (id) DO UPDATE
		 SET doc = EXCLUDED.doc, version = fantasy_draft.version + 1, updated_at = NOW()`,
		models.DraftDocID, doc,
	)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return nil
}

// UpdateDraftCAS writes the record only if it is still at the version
// the caller read, and inserts the given outbox events in the same
// transaction. Returns ErrConflict when the version check fails.
func (r *Repository) UpdateDraftCAS(ctx context.Context, settings *models.DraftSettings, version int64, pending []PendingEvent) error {
	doc, err := json.Marshal(settings)
	if err != nil {
		return fmt.Errorf("failed to marshal draft record: %w", err)
	}

	err = sqlutil.Run(ctx, r.pool, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx,
			`UPDATE fantasy_draft
			 SET doc = $2, version = version + 1, updated_at = NOW()
			 WHERE id = $1 AND version = $3`,
			models.DraftDocID, doc, version,
		)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrUnavailable, err)
		}
		if tag.RowsAffected() == 0 {
			return ErrConflict
		}

		for _, ev := range pending {
			_, err := tx.Exec(ctx,
				`INSERT INTO draft_outbox (id, event_type, payload) VALUES ($1, $2, $3)`,
				uuid.New(), ev.Type, ev.Payload,
			)
			if err != nil {
				return fmt.Errorf("failed to insert %s outbox event: %w", ev.Type, err)
			}
		}
		return nil
	})
	if err != nil {
		return err
	}
	return nil
}
