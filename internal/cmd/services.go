package main

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jonboulle/clockwork"

	"chefdraft/internal/auth"
	"chefdraft/internal/chefs"
	"chefdraft/internal/draft"
	"chefdraft/internal/draft/outbox"
	"chefdraft/internal/episodes"
	"chefdraft/internal/models"
	"chefdraft/internal/teams"
	"chefdraft/internal/users"
)

type Services struct {
	Chefs    *chefs.Service
	Teams    *teams.Service
	Users    *users.Service
	Episodes *episodes.Service
	Draft    *draft.Service

	Auth         *auth.Middleware
	OutboxWorker *outbox.Worker
}

func setupServices(pool *pgxpool.Pool, config *Config, publisher outbox.EventPublisher, jwtSecret []byte) *Services {
	// Repository layer → App layer → Service layer, with cross-app
	// dependencies passed as interfaces.
	clock := clockwork.NewRealClock()

	usersRepo := users.NewRepository(pool)
	usersApp := users.NewApp(usersRepo, clock)

	teamsRepo := teams.NewRepository(pool)
	teamsApp := teams.NewApp(teamsRepo, usersApp, clock)

	chefsRepo := chefs.NewRepository(pool)
	chefsApp := chefs.NewApp(chefsRepo)

	draftRepo := draft.NewRepository(pool)
	draftApp := draft.NewApp(draftRepo, teamsApp, chefsApp, clock)

	episodesRepo := episodes.NewRepository(pool)
	episodesApp := episodes.NewApp(episodesRepo, chefsApp, teamsApp, usersApp, config.Scoring, clock)

	loadProfile := func(ctx context.Context, id, name, email, photoURL string) (*models.UserProfile, error) {
		return usersApp.GetOrCreate(ctx, users.NewProfileRequest{
			ID:          id,
			DisplayName: name,
			Email:       email,
			PhotoURL:    photoURL,
		})
	}

	outboxCfg := outbox.DefaultConfig()
	if config.Outbox.PollInterval > 0 {
		outboxCfg.PollInterval = config.Outbox.PollInterval
	}
	if config.Outbox.BatchSize > 0 {
		outboxCfg.BatchSize = config.Outbox.BatchSize
	}

	return &Services{
		Chefs:        chefs.NewService(chefsApp),
		Teams:        teams.NewService(teamsApp),
		Users:        users.NewService(usersApp, teamsApp),
		Episodes:     episodes.NewService(episodesApp, config.Season),
		Draft:        draft.NewService(draftApp),
		Auth:         auth.NewMiddleware(jwtSecret, loadProfile),
		OutboxWorker: outbox.NewWorker(outbox.NewRepository(pool), publisher, outboxCfg, clock),
	}
}
