package concurrent

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"gamehub/cache"
	"gamehub/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSource struct {
	game          models.Game
	reviews       []models.Review
	reviewsErr    error
	genreCalls    atomic.Int32
	platformCalls atomic.Int32
}

func (f *fakeSource) GetGame(_ context.Context, id uint) (*models.Game, error) {
	g := f.game
	g.ID = id
	return &g, nil
}

func (f *fakeSource) Reviews(context.Context, uint) ([]models.Review, error) {
	return f.reviews, f.reviewsErr
}

func (f *fakeSource) Genres(context.Context) ([]models.Genre, error) {
	f.genreCalls.Add(1)
	return []models.Genre{{ID: 1, Name: "Puzzle"}}, nil
}

func (f *fakeSource) Platforms(context.Context) ([]models.Platform, error) {
	f.platformCalls.Add(1)
	return []models.Platform{{ID: 1, Name: "PC"}, {ID: 2, Name: "Switch"}}, nil
}

func newSource() *fakeSource {
	return &fakeSource{
		game: models.Game{
			Title:            "Portal",
			GenreID:          1,
			PlatformIDs:      []int{2, 1},
			CreatorID:        3,
			CreatorFirstName: "Gabe",
			CreatorLastName:  "N",
		},
		reviews: []models.Review{{ReviewerID: 9, Rating: 8}},
	}
}

func TestGameDetailsForAnonymousViewer(t *testing.T) {
	f := NewFetcher(newSource(), cache.NewMemory(32), time.Second)

	d, err := f.GameDetails(context.Background(), 5, nil)
	require.NoError(t, err)

	assert.Equal(t, uint(5), d.Game.ID)
	assert.Equal(t, "Puzzle", d.GenreName)
	assert.Equal(t, []string{"Switch", "PC"}, d.PlatformNames)
	assert.Equal(t, "Gabe N", d.CreatorName)
	assert.Equal(t, 1, d.ReviewCount)
	assert.False(t, d.CanReview)
	assert.Equal(t, "Log in to post a review", d.ReviewBlocked)
	assert.Equal(t, models.StatusNone, d.Status)
}

func TestGameDetailsReviewGuards(t *testing.T) {
	f := NewFetcher(newSource(), cache.NewMemory(32), time.Second)
	ctx := context.Background()

	creator := &models.ClientSession{Token: "t", UserID: 3}
	d, err := f.GameDetails(ctx, 5, creator)
	require.NoError(t, err)
	assert.True(t, d.IsCreator)
	assert.False(t, d.CanReview)
	assert.Equal(t, models.ErrSelfReview.Error(), d.ReviewBlocked)

	reviewer := &models.ClientSession{Token: "t", UserID: 9}
	d, err = f.GameDetails(ctx, 5, reviewer)
	require.NoError(t, err)
	assert.False(t, d.CanReview)
	assert.Equal(t, models.ErrDuplicateReview.Error(), d.ReviewBlocked)

	fresh := &models.ClientSession{Token: "t", UserID: 11, OwnedIDs: []uint{5}}
	d, err = f.GameDetails(ctx, 5, fresh)
	require.NoError(t, err)
	assert.True(t, d.CanReview)
	assert.Equal(t, models.StatusOwned, d.Status)
}

func TestGameDetailsCachesReferenceData(t *testing.T) {
	src := newSource()
	c := cache.NewMemory(32)
	f := NewFetcher(src, c, time.Second)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := f.GameDetails(ctx, 5, nil)
		require.NoError(t, err)
	}
	assert.Equal(t, int32(1), src.genreCalls.Load())
	assert.Equal(t, int32(1), src.platformCalls.Load())

	cached, ok := c.Game(ctx, 5)
	require.True(t, ok)
	assert.Equal(t, "Portal", cached.Title)
}

func TestGameDetailsFailsAsAWhole(t *testing.T) {
	src := newSource()
	src.reviewsErr = errors.New("boom")
	f := NewFetcher(src, cache.NewMemory(32), time.Second)

	d, err := f.GameDetails(context.Background(), 5, nil)
	assert.Error(t, err)
	assert.Nil(t, d)
}
