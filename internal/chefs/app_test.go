package chefs_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"chefdraft/internal/chefs"
	"chefdraft/internal/models"
)

type fakeChefRepo struct {
	byID map[string]*models.Chef
}

func newFakeChefRepo() *fakeChefRepo {
	return &fakeChefRepo{byID: make(map[string]*models.Chef)}
}

func (r *fakeChefRepo) CreateChef(ctx context.Context, chef *models.Chef) error {
	cp := *chef
	r.byID[chef.ID] = &cp
	return nil
}

func (r *fakeChefRepo) GetChef(ctx context.Context, id string) (*models.Chef, error) {
	chef, ok := r.byID[id]
	if !ok {
		return nil, chefs.ErrNotFound
	}
	cp := *chef
	return &cp, nil
}

func (r *fakeChefRepo) ListChefs(ctx context.Context) ([]models.Chef, error) {
	var out []models.Chef
	for _, chef := range r.byID {
		out = append(out, *chef)
	}
	return out, nil
}

func (r *fakeChefRepo) ListChefsByStatus(ctx context.Context, status models.ChefStatus) ([]models.Chef, error) {
	var out []models.Chef
	for _, chef := range r.byID {
		if chef.Status == status {
			out = append(out, *chef)
		}
	}
	return out, nil
}

func (r *fakeChefRepo) MutateChef(ctx context.Context, id string, fn func(*models.Chef) error) (*models.Chef, error) {
	chef, ok := r.byID[id]
	if !ok {
		return nil, chefs.ErrNotFound
	}
	if err := fn(chef); err != nil {
		return nil, err
	}
	cp := *chef
	return &cp, nil
}

func TestCreateChef(t *testing.T) {
	ctx := context.Background()
	app := chefs.NewApp(newFakeChefRepo())

	t.Run("new chefs start active", func(t *testing.T) {
		chef, err := app.CreateChef(ctx, chefs.CreateChefRequest{Name: "Dale", Season: "22"})
		require.NoError(t, err)
		assert.NotEmpty(t, chef.ID)
		assert.Equal(t, models.ChefStatusActive, chef.Status)
	})

	t.Run("name and season are required", func(t *testing.T) {
		_, err := app.CreateChef(ctx, chefs.CreateChefRequest{Season: "22"})
		require.Error(t, err)

		_, err = app.CreateChef(ctx, chefs.CreateChefRequest{Name: "Dale"})
		require.Error(t, err)
	})
}

func TestUpdateStatus(t *testing.T) {
	ctx := context.Background()
	app := chefs.NewApp(newFakeChefRepo())

	chef, err := app.CreateChef(ctx, chefs.CreateChefRequest{Name: "Dale", Season: "22"})
	require.NoError(t, err)

	t.Run("records elimination with the episode", func(t *testing.T) {
		episode := 4
		updated, err := app.UpdateStatus(ctx, chef.ID, chefs.UpdateStatusRequest{
			Status:            models.ChefStatusEliminated,
			EliminatedEpisode: &episode,
		})
		require.NoError(t, err)
		assert.Equal(t, models.ChefStatusEliminated, updated.Status)
		require.NotNil(t, updated.EliminatedEpisode)
		assert.Equal(t, 4, *updated.EliminatedEpisode)
	})

	t.Run("rejects unknown statuses", func(t *testing.T) {
		_, err := app.UpdateStatus(ctx, chef.ID, chefs.UpdateStatusRequest{Status: "retired"})
		require.Error(t, err)
	})

	t.Run("unknown chef", func(t *testing.T) {
		_, err := app.UpdateStatus(ctx, "ghost", chefs.UpdateStatusRequest{Status: models.ChefStatusActive})
		require.ErrorIs(t, err, chefs.ErrNotFound)
	})
}

func TestIncrementStats(t *testing.T) {
	ctx := context.Background()
	app := chefs.NewApp(newFakeChefRepo())

	chef, err := app.CreateChef(ctx, chefs.CreateChefRequest{Name: "Dale", Season: "22"})
	require.NoError(t, err)

	_, err = app.IncrementStats(ctx, chef.ID, chefs.StatsDelta{QuickfireWins: 1})
	require.NoError(t, err)
	updated, err := app.IncrementStats(ctx, chef.ID, chefs.StatsDelta{QuickfireWins: 1, EliminationWins: 1})
	require.NoError(t, err)

	assert.Equal(t, 2, updated.Stats.QuickfireWins)
	assert.Equal(t, 1, updated.Stats.EliminationWins)
}

func TestAssignDraft(t *testing.T) {
	ctx := context.Background()
	app := chefs.NewApp(newFakeChefRepo())

	chef, err := app.CreateChef(ctx, chefs.CreateChefRequest{Name: "Dale", Season: "22"})
	require.NoError(t, err)

	req := chefs.AssignDraftRequest{TeamID: "team1", TeamName: "The Hot Plates", Round: 1, Position: 2}
	require.NoError(t, app.AssignDraft(ctx, chef.ID, req))
	// Re-applying the same stamp must be safe.
	require.NoError(t, app.AssignDraft(ctx, chef.ID, req))

	got, err := app.GetChef(ctx, chef.ID)
	require.NoError(t, err)
	require.NotNil(t, got.DraftedBy)
	assert.Equal(t, "team1", got.DraftedBy.TeamID)
	assert.Equal(t, 1, got.DraftedBy.Round)
}

func TestClearDraftAssignment(t *testing.T) {
	ctx := context.Background()
	app := chefs.NewApp(newFakeChefRepo())

	chef, err := app.CreateChef(ctx, chefs.CreateChefRequest{Name: "Dale", Season: "22"})
	require.NoError(t, err)

	req := chefs.AssignDraftRequest{TeamID: "team1", TeamName: "The Hot Plates", Round: 1, Position: 2}
	require.NoError(t, app.AssignDraft(ctx, chef.ID, req))

	require.NoError(t, app.ClearDraftAssignment(ctx, chef.ID))
	// Clearing an already clear chef must be safe.
	require.NoError(t, app.ClearDraftAssignment(ctx, chef.ID))

	got, err := app.GetChef(ctx, chef.ID)
	require.NoError(t, err)
	assert.Nil(t, got.DraftedBy)
}
