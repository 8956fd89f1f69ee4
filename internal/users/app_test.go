package users_test

import (
	"context"
	"sort"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"chefdraft/internal/models"
	"chefdraft/internal/users"
)

func testClock() *clockwork.FakeClock {
	return clockwork.NewFakeClockAt(time.Date(2025, 3, 1, 20, 0, 0, 0, time.UTC))
}

type fakeUserRepo struct {
	byID map[string]*models.UserProfile
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{byID: make(map[string]*models.UserProfile)}
}

func (r *fakeUserRepo) CreateUser(ctx context.Context, profile *models.UserProfile) error {
	if _, exists := r.byID[profile.ID]; exists {
		return nil // mirrors the insert-if-absent write
	}
	cp := *profile
	r.byID[profile.ID] = &cp
	return nil
}

func (r *fakeUserRepo) GetUser(ctx context.Context, id string) (*models.UserProfile, error) {
	profile, ok := r.byID[id]
	if !ok {
		return nil, users.ErrNotFound
	}
	cp := *profile
	return &cp, nil
}

func (r *fakeUserRepo) ListByPoints(ctx context.Context) ([]models.UserProfile, error) {
	var out []models.UserProfile
	for _, p := range r.byID {
		out = append(out, *p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Points > out[j].Points })
	return out, nil
}

func (r *fakeUserRepo) MutateUser(ctx context.Context, id string, fn func(*models.UserProfile) error) (*models.UserProfile, error) {
	profile, ok := r.byID[id]
	if !ok {
		return nil, users.ErrNotFound
	}
	if err := fn(profile); err != nil {
		return nil, err
	}
	cp := *profile
	return &cp, nil
}

func TestGetOrCreate(t *testing.T) {
	ctx := context.Background()
	repo := newFakeUserRepo()
	app := users.NewApp(repo, testClock())

	t.Run("creates the profile on first sign-in", func(t *testing.T) {
		profile, err := app.GetOrCreate(ctx, users.NewProfileRequest{
			ID:          "user1",
			DisplayName: "Pat",
			Email:       "pat@example.com",
		})
		require.NoError(t, err)
		assert.Equal(t, "Pat", profile.DisplayName)
		assert.Empty(t, profile.Chefs)
		assert.Zero(t, profile.Points)
		assert.Equal(t, time.Date(2025, 3, 1, 20, 0, 0, 0, time.UTC), profile.CreatedAt)
	})

	t.Run("returns the stored profile on later sign-ins", func(t *testing.T) {
		profile, err := app.GetOrCreate(ctx, users.NewProfileRequest{
			ID:          "user1",
			DisplayName: "Patricia",
		})
		require.NoError(t, err)
		assert.Equal(t, "Pat", profile.DisplayName, "provider attributes must not overwrite the profile")
	})

	t.Run("requires an id", func(t *testing.T) {
		_, err := app.GetOrCreate(ctx, users.NewProfileRequest{})
		require.Error(t, err)
	})
}

func TestUpdateChefs(t *testing.T) {
	ctx := context.Background()
	repo := newFakeUserRepo()
	app := users.NewApp(repo, testClock())

	_, err := app.GetOrCreate(ctx, users.NewProfileRequest{ID: "user1"})
	require.NoError(t, err)

	profile, err := app.UpdateChefs(ctx, "user1", users.UpdateChefsRequest{Chefs: []string{"chef1", "chef2"}})
	require.NoError(t, err)
	assert.Equal(t, []string{"chef1", "chef2"}, profile.Chefs)
}

func TestLeaderboard(t *testing.T) {
	ctx := context.Background()
	repo := newFakeUserRepo()
	app := users.NewApp(repo, testClock())

	for _, id := range []string{"user1", "user2", "user3"} {
		_, err := app.GetOrCreate(ctx, users.NewProfileRequest{ID: id})
		require.NoError(t, err)
	}
	require.NoError(t, app.AwardPoints(ctx, "user2", models.PointsEntry{Points: 25}))
	require.NoError(t, app.AwardPoints(ctx, "user3", models.PointsEntry{Points: 10}))

	board, err := app.Leaderboard(ctx)
	require.NoError(t, err)
	require.Len(t, board, 3)
	assert.Equal(t, "user2", board[0].ID)
	assert.Equal(t, "user3", board[1].ID)
}

func TestListTeamlessOwners(t *testing.T) {
	ctx := context.Background()
	repo := newFakeUserRepo()
	app := users.NewApp(repo, testClock())

	for _, id := range []string{"solo", "teamed", "other"} {
		_, err := app.GetOrCreate(ctx, users.NewProfileRequest{ID: id})
		require.NoError(t, err)
	}

	_, err := app.UpdateChefs(ctx, "solo", users.UpdateChefsRequest{Chefs: []string{"chef1"}})
	require.NoError(t, err)
	_, err = app.UpdateChefs(ctx, "teamed", users.UpdateChefsRequest{Chefs: []string{"chef1"}})
	require.NoError(t, err)

	teamID := "team1"
	require.NoError(t, app.SetTeam(ctx, "teamed", &teamID))

	owners, err := app.ListTeamlessOwners(ctx, "chef1")
	require.NoError(t, err)
	assert.Equal(t, []string{"solo"}, owners, "team rosters take over for users on a team")
}
