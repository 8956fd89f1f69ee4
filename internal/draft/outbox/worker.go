package outbox

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"
)

// Config tunes the outbox polling loop.
type Config struct {
	PollInterval time.Duration
	BatchSize    int32
	MaxRetries   int
	RetryDelay   time.Duration
}

// DefaultConfig returns sensible polling defaults.
func DefaultConfig() Config {
	return Config{
		PollInterval: 5 * time.Second,
		BatchSize:    100,
		MaxRetries:   3,
		RetryDelay:   time.Second,
	}
}

// EventStore is what the worker needs from storage.
type EventStore interface {
	ProcessUnsent(ctx context.Context, limit int32, fn func(ctx context.Context, events []Event) []uuid.UUID) error
}

// Worker drains the outbox table into the publisher on a fixed
// interval. Events that fail to publish stay unsent and come around on
// the next pass.
type Worker struct {
	store     EventStore
	publisher EventPublisher
	config    Config
	clock     clockwork.Clock

	mu       sync.Mutex
	running  bool
	stopChan chan struct{}
	wg       sync.WaitGroup
}

// NewWorker creates an outbox worker.
func NewWorker(store EventStore, publisher EventPublisher, cfg Config, clock clockwork.Clock) *Worker {
	return &Worker{
		store:     store,
		publisher: publisher,
		config:    cfg,
		clock:     clock,
		stopChan:  make(chan struct{}),
	}
}

// Start launches the polling loop.
func (w *Worker) Start(ctx context.Context) error {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return fmt.Errorf("outbox worker already running")
	}
	w.running = true
	w.mu.Unlock()

	w.wg.Add(1)
	go w.run(ctx)

	log.Info().
		Dur("poll_interval", w.config.PollInterval).
		Int32("batch_size", w.config.BatchSize).
		Msg("outbox worker started")
	return nil
}

// Stop halts the loop and waits for the in-flight pass to finish.
func (w *Worker) Stop() error {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return fmt.Errorf("outbox worker not running")
	}
	w.running = false
	w.mu.Unlock()

	close(w.stopChan)
	w.wg.Wait()

	log.Info().Msg("outbox worker stopped")
	return nil
}

func (w *Worker) run(ctx context.Context) {
	defer w.wg.Done()

	ticker := w.clock.NewTicker(w.config.PollInterval)
	defer ticker.Stop()

	// Drain whatever piled up before the process started.
	w.processOutbox(ctx)

	for {
		select {
		case <-ctx.Done():
			return
		case <-w.stopChan:
			return
		case <-ticker.Chan():
			w.processOutbox(ctx)
		}
	}
}

func (w *Worker) processOutbox(ctx context.Context) {
	err := w.store.ProcessUnsent(ctx, w.config.BatchSize, func(ctx context.Context, events []Event) []uuid.UUID {
		var sent []uuid.UUID
		for _, ev := range events {
			if err := w.publishWithRetry(ctx, ev); err != nil {
				log.Error().Err(err).
					Str("event_id", ev.ID.String()).
					Str("event_type", ev.EventType).
					Msg("failed to publish event")
				continue
			}
			sent = append(sent, ev.ID)
		}
		if len(sent) > 0 {
			log.Info().Int("total", len(events)).Int("sent", len(sent)).Msg("processed outbox events")
		}
		return sent
	})
	if err != nil {
		log.Error().Err(err).Msg("outbox pass failed")
	}
}

func (w *Worker) publishWithRetry(ctx context.Context, event Event) error {
	var lastErr error
	for attempt := 0; attempt <= w.config.MaxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-w.clock.After(w.config.RetryDelay * time.Duration(attempt)):
			}
		}

		if err := w.publisher.Publish(ctx, event); err != nil {
			lastErr = err
			log.Warn().Err(err).
				Str("event_id", event.ID.String()).
				Int("attempt", attempt+1).
				Msg("failed to publish event, retrying")
			continue
		}
		return nil
	}
	return fmt.Errorf("failed after %d attempts: %w", w.config.MaxRetries+1, lastErr)
}
