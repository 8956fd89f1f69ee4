package outbox

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository reads and marks outbox rows. Fetching locks the rows so
// concurrent workers never double-publish within a batch.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a new outbox repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// FetchUnsent returns up to limit unsent events, oldest first, locked
// for the duration of tx.
func (r *Repository) FetchUnsent(ctx context.Context, tx pgx.Tx, limit int32) ([]Event, error) {
	rows, err := tx.Query(ctx,
		`SELECT id, event_type, payload, created_at, sent_at
		 FROM draft_outbox
		 WHERE sent_at IS NULL
		 ORDER BY created_at
		 LIMIT $1
		 FOR UPDATE SKIP LOCKED`, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch unsent events: %w", err)
	}
	defer rows.Close()

	var events []Event
	for rows.Next() {
		var ev Event
		if err := rows.Scan(&ev.ID, &ev.EventType, &ev.Payload, &ev.CreatedAt, &ev.SentAt); err != nil {
			return nil, fmt.Errorf("failed to scan outbox event: %w", err)
		}
		events = append(events, ev)
	}
	return events, rows.Err()
}

// MarkSent stamps the given events as published.
func (r *Repository) MarkSent(ctx context.Context, tx pgx.Tx, ids []uuid.UUID) error {
	_, err := tx.Exec(ctx,
		`UPDATE draft_outbox SET sent_at = NOW() WHERE id = ANY($1)`, ids,
	)
	if err != nil {
		return fmt.Errorf("failed to mark events sent: %w", err)
	}
	return nil
}

// ProcessUnsent runs one worker pass: lock a batch of unsent events,
// hand them to fn, and mark whichever IDs fn returns as sent. Events fn
// does not return stay unsent and are retried on a later pass.
func (r *Repository) ProcessUnsent(ctx context.Context, limit int32, fn func(ctx context.Context, events []Event) []uuid.UUID) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin outbox transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	events, err := r.FetchUnsent(ctx, tx, limit)
	if err != nil {
		return err
	}
	if len(events) == 0 {
		return nil
	}

	sent := fn(ctx, events)
	if len(sent) > 0 {
		if err := r.MarkSent(ctx, tx, sent); err != nil {
			return err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit outbox transaction: %w", err)
	}
	return nil
}
