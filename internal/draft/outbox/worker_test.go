package outbox

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeStore struct {
	pending []Event
	sent    []uuid.UUID
	err     error
}

func (s *fakeStore) ProcessUnsent(ctx context.Context, limit int32, fn func(ctx context.Context, events []Event) []uuid.UUID) error {
	if s.err != nil {
		return s.err
	}
	batch := s.pending
	if int32(len(batch)) > limit {
		batch = batch[:limit]
	}
	ids := fn(ctx, batch)
	s.sent = append(s.sent, ids...)

	remaining := s.pending[:0]
	for _, ev := range s.pending {
		kept := true
		for _, id := range ids {
			if ev.ID == id {
				kept = false
				break
			}
		}
		if kept {
			remaining = append(remaining, ev)
		}
	}
	s.pending = remaining
	return nil
}

type fakePublisher struct {
	published []Event
	failures  map[uuid.UUID]int // publish attempts to fail per event
}

func (p *fakePublisher) Publish(ctx context.Context, event Event) error {
	if p.failures[event.ID] > 0 {
		p.failures[event.ID]--
		return errors.New("broker unavailable")
	}
	p.published = append(p.published, event)
	return nil
}

func testEvent(eventType string) Event {
	return Event{
		ID:        uuid.New(),
		EventType: eventType,
		Payload:   []byte(`{}`),
		CreatedAt: time.Now().UTC(),
	}
}

func TestProcessOutbox(t *testing.T) {
	ctx := context.Background()

	t.Run("publishes pending events and marks them sent", func(t *testing.T) {
		ev1 := testEvent("PickMade")
		ev2 := testEvent("DraftCompleted")
		store := &fakeStore{pending: []Event{ev1, ev2}}
		publisher := &fakePublisher{}

		w := NewWorker(store, publisher, DefaultConfig(), clockwork.NewFakeClock())
		w.processOutbox(ctx)

		require.Len(t, publisher.published, 2)
		assert.ElementsMatch(t, []uuid.UUID{ev1.ID, ev2.ID}, store.sent)
		assert.Empty(t, store.pending)
	})

	t.Run("a failing event stays pending while others go through", func(t *testing.T) {
		bad := testEvent("PickMade")
		good := testEvent("PickMade")
		store := &fakeStore{pending: []Event{bad, good}}
		publisher := &fakePublisher{failures: map[uuid.UUID]int{bad.ID: 10}}

		cfg := DefaultConfig()
		cfg.MaxRetries = 1
		cfg.RetryDelay = 0

		w := NewWorker(store, publisher, cfg, clockwork.NewRealClock())
		w.processOutbox(ctx)

		require.Len(t, publisher.published, 1)
		assert.Equal(t, good.ID, publisher.published[0].ID)
		require.Len(t, store.pending, 1)
		assert.Equal(t, bad.ID, store.pending[0].ID)
	})

	t.Run("transient publish failures are retried within a pass", func(t *testing.T) {
		ev := testEvent("DraftStarted")
		store := &fakeStore{pending: []Event{ev}}
		publisher := &fakePublisher{failures: map[uuid.UUID]int{ev.ID: 1}}

		cfg := DefaultConfig()
		cfg.RetryDelay = 0

		w := NewWorker(store, publisher, cfg, clockwork.NewRealClock())
		w.processOutbox(ctx)

		require.Len(t, publisher.published, 1)
		assert.Empty(t, store.pending)
	})

	t.Run("respects the batch size", func(t *testing.T) {
		store := &fakeStore{pending: []Event{testEvent("a"), testEvent("b"), testEvent("c")}}
		publisher := &fakePublisher{}

		cfg := DefaultConfig()
		cfg.BatchSize = 2

		w := NewWorker(store, publisher, cfg, clockwork.NewFakeClock())
		w.processOutbox(ctx)

		assert.Len(t, publisher.published, 2)
		assert.Len(t, store.pending, 1)
	})
}

func TestWorkerLifecycle(t *testing.T) {
	ctx := context.Background()
	store := &fakeStore{}
	w := NewWorker(store, &fakePublisher{}, DefaultConfig(), clockwork.NewFakeClock())

	require.NoError(t, w.Start(ctx))
	require.Error(t, w.Start(ctx), "double start must be rejected")

	require.NoError(t, w.Stop())
	require.Error(t, w.Stop(), "double stop must be rejected")
}
