package collections

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"gamehub/cache"
	"gamehub/gateway"
	"gamehub/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRemote struct {
	lists     map[string][]models.Game
	listErr   error
	listCalls []models.GameQuery
	reviews   []models.Review
	deleted   []uint
	updated   []uint
	updateErr error
	game      *models.Game
}

func (f *fakeRemote) ListGames(_ context.Context, _ string, q models.GameQuery) (*models.GameList, error) {
	f.listCalls = append(f.listCalls, q)
	if f.listErr != nil {
		return nil, f.listErr
	}
	games := f.lists[queryName(q)]
	return &models.GameList{Games: games, Count: len(games)}, nil
}

func queryName(q models.GameQuery) string {
	switch {
	case q.OwnedByMe:
		return "owned"
	case q.WishlistedByMe:
		return "wishlisted"
	case q.CreatorID != 0:
		return "created"
	default:
		return "reviewed"
	}
}

func (f *fakeRemote) GetGame(_ context.Context, id uint) (*models.Game, error) {
	if f.game == nil {
		return nil, errors.New("gone")
	}
	return f.game, nil
}

func (f *fakeRemote) Reviews(context.Context, uint) ([]models.Review, error) {
	return f.reviews, nil
}

func (f *fakeRemote) UpdateGame(_ context.Context, _ string, id uint, _ models.GameInput) error {
	f.updated = append(f.updated, id)
	return f.updateErr
}

func (f *fakeRemote) DeleteGame(_ context.Context, _ string, id uint) error {
	f.deleted = append(f.deleted, id)
	return nil
}

var me = &models.ClientSession{ID: "s", Token: "tok", UserID: 7}

func TestKindQueries(t *testing.T) {
	assert.Equal(t, models.GameQuery{OwnedByMe: true}, Owned.Query(7))
	assert.Equal(t, models.GameQuery{WishlistedByMe: true}, Wishlisted.Query(7))
	assert.Equal(t, models.GameQuery{CreatorID: 7}, Created.Query(7))
	assert.Equal(t, models.GameQuery{ReviewerID: 7}, Reviewed.Query(7))

	_, err := ParseKind("library")
	assert.ErrorIs(t, err, ErrUnknownKind)
	k, err := ParseKind("created")
	require.NoError(t, err)
	assert.Equal(t, Created, k)
}

func TestViewUsesSharedCache(t *testing.T) {
	remote := &fakeRemote{lists: map[string][]models.Game{"owned": {{ID: 1}, {ID: 2}}}}
	s := NewService(remote, cache.NewMemory(32))
	ctx := context.Background()

	v, err := s.View(ctx, me, Owned)
	require.NoError(t, err)
	assert.Len(t, v.Games, 2)

	v, err = s.View(ctx, me, Owned)
	require.NoError(t, err)
	assert.Len(t, v.Games, 2)
	assert.Len(t, remote.listCalls, 1)
}

func TestViewFailureShowsEmptyList(t *testing.T) {
	remote := &fakeRemote{listErr: &gateway.APIError{Status: http.StatusInternalServerError, Message: "Internal Server Error"}}
	s := NewService(remote, cache.NewMemory(32))

	v, err := s.View(context.Background(), me, Created)
	require.Error(t, err)
	assert.NotNil(t, v.Games)
	assert.Empty(t, v.Games)
	require.NotNil(t, v.Notification)
	assert.Equal(t, "Error getting games: Internal Server Error", v.Notification.Message)
}

func TestViewNeedsLogin(t *testing.T) {
	s := NewService(&fakeRemote{}, cache.NewMemory(32))
	_, err := s.View(context.Background(), &models.ClientSession{ID: "s"}, Owned)
	assert.ErrorIs(t, err, ErrNotAuthenticated)
}

func TestDeleteRefusesReviewedGame(t *testing.T) {
	remote := &fakeRemote{reviews: []models.Review{{ReviewerID: 9}}}
	s := NewService(remote, cache.NewMemory(32))

	note, err := s.Delete(context.Background(), me, 4)
	assert.ErrorIs(t, err, ErrHasReviews)
	assert.Equal(t, models.SeverityError, note.Severity)
	assert.Equal(t, "Can not delete a game that has one or more reviews", note.Message)
	assert.Empty(t, remote.deleted, "delete must not be issued")
}

func TestDeleteUpdatesEveryCachedCollection(t *testing.T) {
	remote := &fakeRemote{lists: map[string][]models.Game{
		"created":    {{ID: 4}, {ID: 5}},
		"wishlisted": {{ID: 4}},
	}}
	c := cache.NewMemory(32)
	s := NewService(remote, c)
	ctx := context.Background()

	_, err := s.View(ctx, me, Created)
	require.NoError(t, err)
	_, err = s.View(ctx, me, Wishlisted)
	require.NoError(t, err)

	note, err := s.Delete(ctx, me, 4)
	require.NoError(t, err)
	assert.Equal(t, "Game deleted successfully", note.Message)
	assert.Equal(t, []uint{4}, remote.deleted)

	v, err := s.View(ctx, me, Created)
	require.NoError(t, err)
	require.Len(t, v.Games, 1)
	assert.Equal(t, uint(5), v.Games[0].ID)

	v, err = s.View(ctx, me, Wishlisted)
	require.NoError(t, err)
	assert.Empty(t, v.Games)
	assert.Len(t, remote.listCalls, 2, "lists were rewritten in cache, not refetched")
}

func TestEditReplacesCachedCopies(t *testing.T) {
	remote := &fakeRemote{
		lists: map[string][]models.Game{"created": {{ID: 4, Title: "Old"}}},
		game:  &models.Game{ID: 4, Title: "New"},
	}
	c := cache.NewMemory(32)
	s := NewService(remote, c)
	ctx := context.Background()

	_, err := s.View(ctx, me, Created)
	require.NoError(t, err)

	game, note, err := s.Edit(ctx, me, 4, models.GameInput{Title: "New"})
	require.NoError(t, err)
	assert.Equal(t, "New", game.Title)
	assert.Equal(t, models.SeveritySuccess, note.Severity)

	v, err := s.View(ctx, me, Created)
	require.NoError(t, err)
	assert.Equal(t, "New", v.Games[0].Title)

	cached, ok := c.Game(ctx, 4)
	require.True(t, ok)
	assert.Equal(t, "New", cached.Title)
}

func TestEditFailureKeepsCache(t *testing.T) {
	remote := &fakeRemote{
		lists:     map[string][]models.Game{"created": {{ID: 4, Title: "Old"}}},
		updateErr: &gateway.APIError{Status: http.StatusBadRequest, Message: "data/title must NOT have more than 128 characters"},
	}
	s := NewService(remote, cache.NewMemory(32))
	ctx := context.Background()

	_, err := s.View(ctx, me, Created)
	require.NoError(t, err)

	_, note, err := s.Edit(ctx, me, 4, models.GameInput{})
	require.Error(t, err)
	assert.Equal(t, gateway.KindValidation, gateway.Classify(err))
	assert.Equal(t, models.SeverityError, note.Severity)

	v, err := s.View(ctx, me, Created)
	require.NoError(t, err)
	assert.Equal(t, "Old", v.Games[0].Title)
}
