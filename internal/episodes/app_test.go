package episodes_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"chefdraft/internal/chefs"
	"chefdraft/internal/episodes"
	"chefdraft/internal/models"
)

type fakeEpisodeRepo struct {
	episodes []*models.Episode
}

func (r *fakeEpisodeRepo) CreateEpisode(ctx context.Context, episode *models.Episode) error {
	for _, ep := range r.episodes {
		if ep.Season == episode.Season && ep.Number == episode.Number {
			return episodes.ErrDuplicate
		}
	}
	r.episodes = append(r.episodes, episode)
	return nil
}

func (r *fakeEpisodeRepo) GetEpisode(ctx context.Context, id string) (*models.Episode, error) {
	for _, ep := range r.episodes {
		if ep.ID == id {
			return ep, nil
		}
	}
	return nil, episodes.ErrNotFound
}

func (r *fakeEpisodeRepo) ListEpisodes(ctx context.Context, season string) ([]models.Episode, error) {
	var out []models.Episode
	for _, ep := range r.episodes {
		if ep.Season == season {
			out = append(out, *ep)
		}
	}
	return out, nil
}

type fakeChefRegistry struct {
	chefs map[string]*models.Chef
}

func (f *fakeChefRegistry) GetChef(ctx context.Context, id string) (*models.Chef, error) {
	chef, ok := f.chefs[id]
	if !ok {
		return nil, fmt.Errorf("chef not found")
	}
	return chef, nil
}

func (f *fakeChefRegistry) IncrementStats(ctx context.Context, id string, delta chefs.StatsDelta) (*models.Chef, error) {
	chef, ok := f.chefs[id]
	if !ok {
		return nil, fmt.Errorf("chef not found")
	}
	chef.Stats.QuickfireWins += delta.QuickfireWins
	chef.Stats.EliminationWins += delta.EliminationWins
	chef.Stats.TimesInBottom += delta.TimesInBottom
	chef.Stats.LastChanceKitchenWins += delta.LastChanceKitchenWins
	return chef, nil
}

func (f *fakeChefRegistry) UpdateStatus(ctx context.Context, id string, req chefs.UpdateStatusRequest) (*models.Chef, error) {
	chef, ok := f.chefs[id]
	if !ok {
		return nil, fmt.Errorf("chef not found")
	}
	chef.Status = req.Status
	if req.EliminatedEpisode != nil {
		chef.EliminatedEpisode = req.EliminatedEpisode
	}
	return chef, nil
}

type fakeTeamScorer struct {
	awards map[string][]models.PointsEntry
}

func (f *fakeTeamScorer) AwardPoints(ctx context.Context, teamID string, entry models.PointsEntry) error {
	if f.awards == nil {
		f.awards = make(map[string][]models.PointsEntry)
	}
	f.awards[teamID] = append(f.awards[teamID], entry)
	return nil
}

type fakeOwners struct {
	teamless map[string][]string
	awards   map[string][]models.PointsEntry
}

func (f *fakeOwners) ListTeamlessOwners(ctx context.Context, chefID string) ([]string, error) {
	return f.teamless[chefID], nil
}

func (f *fakeOwners) AwardPoints(ctx context.Context, userID string, entry models.PointsEntry) error {
	if f.awards == nil {
		f.awards = make(map[string][]models.PointsEntry)
	}
	f.awards[userID] = append(f.awards[userID], entry)
	return nil
}

type scoringFixture struct {
	repo   *fakeEpisodeRepo
	chefs  *fakeChefRegistry
	teams  *fakeTeamScorer
	owners *fakeOwners
	app    *episodes.App
}

func newScoringFixture(t *testing.T) *scoringFixture {
	t.Helper()

	f := &scoringFixture{
		repo:   &fakeEpisodeRepo{},
		chefs:  &fakeChefRegistry{chefs: make(map[string]*models.Chef)},
		teams:  &fakeTeamScorer{},
		owners: &fakeOwners{teamless: make(map[string][]string)},
	}
	for _, id := range []string{"c1", "c2", "c3"} {
		f.chefs.chefs[id] = &models.Chef{ID: id, Status: models.ChefStatusActive}
	}
	f.chefs.chefs["c1"].DraftedBy = &models.DraftAssignment{TeamID: "team1"}
	f.chefs.chefs["c2"].DraftedBy = &models.DraftAssignment{TeamID: "team2"}

	clock := clockwork.NewFakeClockAt(time.Date(2025, 3, 6, 21, 0, 0, 0, time.UTC))
	f.app = episodes.NewApp(f.repo, f.chefs, f.teams, f.owners, episodes.DefaultScoring(), clock)
	return f
}

func TestCreateEpisodeScoring(t *testing.T) {
	ctx := context.Background()

	t.Run("quickfire win credits the chef and their team", func(t *testing.T) {
		f := newScoringFixture(t)

		_, err := f.app.CreateEpisode(ctx, episodes.CreateEpisodeRequest{
			Number: 1, Season: "22", QuickfireWinner: "c1",
		})
		require.NoError(t, err)

		assert.Equal(t, 1, f.chefs.chefs["c1"].Stats.QuickfireWins)
		require.Len(t, f.teams.awards["team1"], 1)
		assert.Equal(t, 10, f.teams.awards["team1"][0].Points)
		assert.Equal(t, "quickfire win", f.teams.awards["team1"][0].Reason)
	})

	t.Run("elimination costs the owning team points", func(t *testing.T) {
		f := newScoringFixture(t)

		_, err := f.app.CreateEpisode(ctx, episodes.CreateEpisodeRequest{
			Number: 2, Season: "22", EliminatedChef: "c2",
		})
		require.NoError(t, err)

		chef := f.chefs.chefs["c2"]
		assert.Equal(t, models.ChefStatusEliminated, chef.Status)
		require.NotNil(t, chef.EliminatedEpisode)
		assert.Equal(t, 2, *chef.EliminatedEpisode)
		assert.Equal(t, 1, chef.Stats.TimesInBottom)

		require.Len(t, f.teams.awards["team2"], 1)
		assert.Equal(t, -10, f.teams.awards["team2"][0].Points)
	})

	t.Run("last chance kitchen win updates status and awards points", func(t *testing.T) {
		f := newScoringFixture(t)

		_, err := f.app.CreateEpisode(ctx, episodes.CreateEpisodeRequest{
			Number: 3, Season: "22", LastChanceKitchenWinner: "c1",
		})
		require.NoError(t, err)

		assert.Equal(t, models.ChefStatusLastChanceKitchen, f.chefs.chefs["c1"].Status)
		assert.Equal(t, 1, f.chefs.chefs["c1"].Stats.LastChanceKitchenWins)
		require.Len(t, f.teams.awards["team1"], 1)
		assert.Equal(t, 8, f.teams.awards["team1"][0].Points)
	})

	t.Run("undrafted chefs score for teamless owners", func(t *testing.T) {
		f := newScoringFixture(t)
		f.owners.teamless["c3"] = []string{"solo1", "solo2"}

		_, err := f.app.CreateEpisode(ctx, episodes.CreateEpisodeRequest{
			Number: 4, Season: "22", EliminationWinner: "c3",
		})
		require.NoError(t, err)

		assert.Empty(t, f.teams.awards)
		require.Len(t, f.owners.awards["solo1"], 1)
		assert.Equal(t, 15, f.owners.awards["solo1"][0].Points)
		assert.Len(t, f.owners.awards["solo2"], 1)
	})

	t.Run("one episode can carry every outcome", func(t *testing.T) {
		f := newScoringFixture(t)

		_, err := f.app.CreateEpisode(ctx, episodes.CreateEpisodeRequest{
			Number:                  5,
			Season:                  "22",
			QuickfireWinner:         "c1",
			EliminationWinner:       "c1",
			EliminatedChef:          "c2",
			LastChanceKitchenWinner: "c3",
		})
		require.NoError(t, err)

		// 10 for the quickfire plus 15 for the elimination win.
		awards := f.teams.awards["team1"]
		require.Len(t, awards, 2)
		assert.Equal(t, 25, awards[0].Points+awards[1].Points)
	})
}

func TestCreateEpisodeValidation(t *testing.T) {
	ctx := context.Background()

	t.Run("rejects a duplicate episode number", func(t *testing.T) {
		f := newScoringFixture(t)

		_, err := f.app.CreateEpisode(ctx, episodes.CreateEpisodeRequest{Number: 1, Season: "22"})
		require.NoError(t, err)

		_, err = f.app.CreateEpisode(ctx, episodes.CreateEpisodeRequest{Number: 1, Season: "22"})
		require.ErrorIs(t, err, episodes.ErrDuplicate)
	})

	t.Run("requires a positive number and a season", func(t *testing.T) {
		f := newScoringFixture(t)

		_, err := f.app.CreateEpisode(ctx, episodes.CreateEpisodeRequest{Number: 0, Season: "22"})
		require.Error(t, err)

		_, err = f.app.CreateEpisode(ctx, episodes.CreateEpisodeRequest{Number: 1})
		require.Error(t, err)
	})

	t.Run("episode persists even when scoring fails", func(t *testing.T) {
		f := newScoringFixture(t)

		episode, err := f.app.CreateEpisode(ctx, episodes.CreateEpisodeRequest{
			Number: 1, Season: "22", QuickfireWinner: "ghost",
		})
		require.Error(t, err)
		require.NotNil(t, episode)

		listed, listErr := f.app.ListEpisodes(ctx, "22")
		require.NoError(t, listErr)
		assert.Len(t, listed, 1)
	})
}
