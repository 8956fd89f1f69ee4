package outbox

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
	"github.com/rs/zerolog/log"
)

// JetStreamConfig tunes the NATS JetStream publisher.
type JetStreamConfig struct {
	URL           string
	StreamName    string
	SubjectPrefix string
	MaxReconnects int
	ReconnectWait time.Duration
	MaxAge        time.Duration
	Replicas      int
}

// DefaultJetStreamConfig returns the stream settings used in
// development.
func DefaultJetStreamConfig() JetStreamConfig {
	return JetStreamConfig{
		URL:           nats.DefaultURL,
		StreamName:    "DRAFT_EVENTS",
		SubjectPrefix: "draft.events",
		MaxReconnects: -1,
		ReconnectWait: 2 * time.Second,
		MaxAge:        7 * 24 * time.Hour,
		Replicas:      1,
	}
}

// JetStreamPublisher publishes draft events to a NATS JetStream stream.
// Message IDs are the outbox row IDs, so JetStream's duplicate window
// absorbs redeliveries.
type JetStreamPublisher struct {
	nc     *nats.Conn
	js     jetstream.JetStream
	config JetStreamConfig
}

// NewJetStreamPublisher connects to NATS and makes sure the stream
// exists.
func NewJetStreamPublisher(cfg JetStreamConfig) (*JetStreamPublisher, error) {
	opts := []nats.Option{
		nats.MaxReconnects(cfg.MaxReconnects),
		nats.ReconnectWait(cfg.ReconnectWait),
		nats.DisconnectErrHandler(func(nc *nats.Conn, err error) {
			log.Error().Err(err).Msg("NATS disconnected")
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			log.Info().Str("url", nc.ConnectedUrl()).Msg("NATS reconnected")
		}),
	}

	nc, err := nats.Connect(cfg.URL, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}

	js, err := jetstream.New(nc)
	if err != nil {
		nc.Close()
		return nil, fmt.Errorf("failed to create JetStream context: %w", err)
	}

	p := &JetStreamPublisher{nc: nc, js: js, config: cfg}
	if err := p.ensureStream(context.Background()); err != nil {
		nc.Close()
		return nil, err
	}
	return p, nil
}

func (p *JetStreamPublisher) ensureStream(ctx context.Context) error {
	sc := jetstream.StreamConfig{
		Name:      p.config.StreamName,
		Subjects:  []string{fmt.Sprintf("%s.>", p.config.SubjectPrefix)},
		Retention: jetstream.LimitsPolicy,
		MaxAge:    p.config.MaxAge,
		Storage:   jetstream.FileStorage,
		Replicas:  p.config.Replicas,
	}

	if _, err := p.js.Stream(ctx, p.config.StreamName); err != nil {
		if _, err := p.js.CreateStream(ctx, sc); err != nil {
			return fmt.Errorf("failed to create stream: %w", err)
		}
		log.Info().Str("stream", p.config.StreamName).Msg("created JetStream stream")
	}
	return nil
}

// Publish sends one event to the stream.
func (p *JetStreamPublisher) Publish(ctx context.Context, event Event) error {
	subject := fmt.Sprintf("%s.%s", p.config.SubjectPrefix, event.EventType)

	env := map[string]interface{}{
		"eventId":   event.ID.String(),
		"eventType": event.EventType,
		"timestamp": event.CreatedAt,
		"payload":   json.RawMessage(event.Payload),
	}
	data, err := json.Marshal(env)
	if err != nil {
		return fmt.Errorf("failed to marshal event envelope: %w", err)
	}

	ack, err := p.js.PublishMsg(ctx, &nats.Msg{
		Subject: subject,
		Data:    data,
		Header: nats.Header{
			"Event-Type": []string{event.EventType},
			"Event-ID":   []string{event.ID.String()},
		},
	},
		jetstream.WithMsgID(event.ID.String()),
		jetstream.WithExpectStream(p.config.StreamName),
	)
	if err != nil {
		return fmt.Errorf("failed to publish to JetStream: %w", err)
	}

	log.Debug().
		Str("subject", subject).
		Str("event_id", event.ID.String()).
		Uint64("sequence", ack.Sequence).
		Msg("published draft event")
	return nil
}

// Close tears down the NATS connection.
func (p *JetStreamPublisher) Close() error {
	if p.nc != nil {
		p.nc.Close()
	}
	return nil
}

// LogPublisher writes events to the log instead of a broker. Used in
// development when no NATS URL is configured.
type LogPublisher struct{}

// Publish logs the event and reports success.
func (LogPublisher) Publish(ctx context.Context, event Event) error {
	log.Info().
		Str("event_id", event.ID.String()).
		Str("event_type", event.EventType).
		RawJSON("payload", event.Payload).
		Msg("draft event")
	return nil
}
