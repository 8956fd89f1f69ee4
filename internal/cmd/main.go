package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"chefdraft/internal/draft/outbox"
)

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	if os.Getenv("LOG_PRETTY") != "" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}

	if err := godotenv.Load(); err != nil {
		log.Warn().Err(err).Msg("could not load .env file")
	}

	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		log.Fatal().Msg("JWT_SECRET environment variable is required")
	}

	config, err := loadConfig(getEnv("CONFIG_PATH", "config.yaml"))
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pool, err := setupDatabase(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to set up database")
	}
	defer pool.Close()

	publisher, cleanup, err := setupPublisher(config)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to set up event publisher")
	}
	defer cleanup()

	services := setupServices(pool, config, publisher, []byte(jwtSecret))

	if err := services.OutboxWorker.Start(ctx); err != nil {
		log.Fatal().Err(err).Msg("failed to start outbox worker")
	}

	server := setupServer(services)
	go func() {
		log.Info().Str("addr", server.Addr).Str("season", config.Season).Msg("server listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server shutdown failed")
	}
	if err := services.OutboxWorker.Stop(); err != nil {
		log.Error().Err(err).Msg("outbox worker shutdown failed")
	}
}

// setupPublisher picks JetStream when a NATS URL is configured and
// falls back to logging events otherwise.
func setupPublisher(config *Config) (outbox.EventPublisher, func(), error) {
	if config.NATS.URL == "" {
		log.Info().Msg("no NATS URL configured, draft events go to the log")
		return outbox.LogPublisher{}, func() {}, nil
	}

	jsCfg := outbox.DefaultJetStreamConfig()
	jsCfg.URL = config.NATS.URL
	if config.NATS.StreamName != "" {
		jsCfg.StreamName = config.NATS.StreamName
	}
	if config.NATS.SubjectPrefix != "" {
		jsCfg.SubjectPrefix = config.NATS.SubjectPrefix
	}

	publisher, err := outbox.NewJetStreamPublisher(jsCfg)
	if err != nil {
		return nil, nil, err
	}
	return publisher, func() { _ = publisher.Close() }, nil
}
