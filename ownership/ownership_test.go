package ownership

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"testing"
	"time"

	"gamehub/gateway"
	"gamehub/models"
	"gamehub/session"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRemote struct {
	mu    sync.Mutex
	calls []string
	fail  map[string]error
	lists map[string][]models.Game
	block chan struct{}
}

func (f *fakeRemote) record(name string) error {
	f.mu.Lock()
	f.calls = append(f.calls, name)
	err := f.fail[name]
	block := f.block
	f.mu.Unlock()
	if block != nil {
		<-block
	}
	return err
}

func (f *fakeRemote) AddToWishlist(context.Context, string, uint) error {
	return f.record("wishlist+")
}

func (f *fakeRemote) RemoveFromWishlist(context.Context, string, uint) error {
	return f.record("wishlist-")
}

func (f *fakeRemote) MarkOwned(context.Context, string, uint) error { return f.record("owned+") }

func (f *fakeRemote) UnmarkOwned(context.Context, string, uint) error { return f.record("owned-") }

func (f *fakeRemote) ListGames(_ context.Context, _ string, q models.GameQuery) (*models.GameList, error) {
	key := "wishlisted"
	if q.OwnedByMe {
		key = "owned"
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return &models.GameList{Games: f.lists[key], Count: len(f.lists[key])}, nil
}

func (f *fakeRemote) called() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string{}, f.calls...)
}

type fakeHints struct {
	saved int
}

func (h *fakeHints) SaveHints(context.Context, *models.ClientSession) error {
	h.saved++
	return nil
}

func (h *fakeHints) SetGameHint(context.Context, *models.ClientSession, uint, models.OwnershipStatus, bool) error {
	h.saved++
	return nil
}

func signedIn() *models.ClientSession {
	return &models.ClientSession{ID: "s", Token: "tok", UserID: 7}
}

var someGame = models.Game{ID: 42, CreatorID: 1}

func TestNext(t *testing.T) {
	tests := []struct {
		from   models.OwnershipStatus
		action Action
		to     models.OwnershipStatus
		err    error
	}{
		{models.StatusNone, AddWishlist, models.StatusWishlisted, nil},
		{models.StatusWishlisted, RemoveWishlist, models.StatusNone, nil},
		{models.StatusNone, Acquire, models.StatusOwned, nil},
		{models.StatusWishlisted, Acquire, models.StatusOwned, nil},
		{models.StatusOwned, Release, models.StatusNone, nil},
		{models.StatusOwned, AddWishlist, models.StatusOwned, ErrAlreadyOwned},
		{models.StatusOwned, Acquire, models.StatusOwned, ErrAlreadyOwned},
		{models.StatusNone, RemoveWishlist, models.StatusNone, ErrInvalidTransition},
		{models.StatusWishlisted, AddWishlist, models.StatusWishlisted, ErrInvalidTransition},
		{models.StatusNone, Release, models.StatusNone, ErrInvalidTransition},
	}

	for _, tc := range tests {
		got, err := Next(tc.from, tc.action)
		assert.Equal(t, tc.to, got, "%s + %s", tc.from, tc.action)
		if tc.err == nil {
			assert.NoError(t, err)
		} else {
			assert.ErrorIs(t, err, tc.err)
		}
	}
}

func TestParseAction(t *testing.T) {
	a, ok := ParseAction("owned", true)
	assert.True(t, ok)
	assert.Equal(t, Acquire, a)

	a, ok = ParseAction("wishlist", false)
	assert.True(t, ok)
	assert.Equal(t, RemoveWishlist, a)

	_, ok = ParseAction("cart", true)
	assert.False(t, ok)
}

func TestAcquireWhileWishlisted(t *testing.T) {
	remote := &fakeRemote{}
	hints := &fakeHints{}
	c := NewController(remote, hints)
	sess := signedIn()
	sess.WishlistedIDs = []uint{42}

	out, err := c.Toggle(context.Background(), sess, someGame, Acquire)
	require.NoError(t, err)

	assert.Equal(t, models.StatusOwned, out.Status)
	assert.Equal(t, []string{"owned+", "wishlist-"}, remote.called())
	assert.Empty(t, sess.WishlistedIDs)
	assert.Equal(t, []uint{42}, sess.OwnedIDs)
	assert.Equal(t, 1, hints.saved)
	assert.Equal(t, models.SeveritySuccess, out.Notification.Severity)
}

func TestAcquireIgnoresMissingWishlistEntry(t *testing.T) {
	remote := &fakeRemote{fail: map[string]error{
		"wishlist-": &gateway.APIError{Status: http.StatusNotFound, Message: "Not Found"},
	}}
	c := NewController(remote, &fakeHints{})
	sess := signedIn()
	sess.WishlistedIDs = []uint{42}

	out, err := c.Toggle(context.Background(), sess, someGame, Acquire)
	require.NoError(t, err)
	assert.Equal(t, models.SeveritySuccess, out.Notification.Severity)
	assert.False(t, sess.InWishlist(42))
}

func TestReleaseClearsLingeringWishlist(t *testing.T) {
	remote := &fakeRemote{}
	c := NewController(remote, &fakeHints{})
	sess := signedIn()
	sess.OwnedIDs = []uint{42}
	sess.WishlistedIDs = []uint{42}

	out, err := c.Toggle(context.Background(), sess, someGame, Release)
	require.NoError(t, err)
	assert.Equal(t, models.StatusNone, out.Status)
	assert.Equal(t, []string{"owned-", "wishlist-"}, remote.called())
	assert.Empty(t, sess.OwnedIDs)
	assert.Empty(t, sess.WishlistedIDs)
}

func TestReleaseReportsLingeringWishlist(t *testing.T) {
	remote := &fakeRemote{fail: map[string]error{
		"wishlist-": &gateway.APIError{Status: http.StatusInternalServerError, Message: "Internal Server Error"},
	}}
	c := NewController(remote, &fakeHints{})
	sess := signedIn()
	sess.OwnedIDs = []uint{42}
	sess.WishlistedIDs = []uint{42}

	out, err := c.Toggle(context.Background(), sess, someGame, Release)
	require.NoError(t, err)
	assert.Equal(t, models.StatusWishlisted, out.Status)
	assert.Equal(t, models.StatusWishlisted, sess.GameStatus(42))
	assert.Equal(t, models.SeverityWarning, out.Notification.Severity)
}

func TestOverlappingTogglesKeepBothHints(t *testing.T) {
	ctx := context.Background()
	manager := session.NewManager(session.NewMemoryStore())
	sess, err := manager.Start(ctx)
	require.NoError(t, err)
	require.NoError(t, manager.SignIn(ctx, sess, 7, "tok"))

	// Two requests of the same browser, each with its own copy.
	first, err := manager.Get(ctx, sess.ID)
	require.NoError(t, err)
	second, err := manager.Get(ctx, sess.ID)
	require.NoError(t, err)

	remote := &fakeRemote{}
	c := NewController(remote, manager)
	_, err = c.Toggle(ctx, first, models.Game{ID: 1, CreatorID: 1}, AddWishlist)
	require.NoError(t, err)
	_, err = c.Toggle(ctx, second, models.Game{ID: 2, CreatorID: 1}, AddWishlist)
	require.NoError(t, err)

	stored, err := manager.Get(ctx, sess.ID)
	require.NoError(t, err)
	assert.ElementsMatch(t, []uint{1, 2}, stored.WishlistedIDs)
	assert.ElementsMatch(t, []uint{1, 2}, second.WishlistedIDs)

	_, err = c.Toggle(ctx, stored, models.Game{ID: 1, CreatorID: 1}, Acquire)
	require.NoError(t, err)
	assert.Equal(t, []string{"wishlist+", "wishlist+", "owned+", "wishlist-"}, remote.called())
}

func TestCreatorIsNeverCalled(t *testing.T) {
	remote := &fakeRemote{}
	hints := &fakeHints{}
	c := NewController(remote, hints)
	sess := signedIn()
	own := models.Game{ID: 42, CreatorID: sess.UserID}

	for _, action := range []Action{AddWishlist, RemoveWishlist, Acquire, Release} {
		_, err := c.Toggle(context.Background(), sess, own, action)
		assert.ErrorIs(t, err, ErrOwnGame)
	}
	assert.Empty(t, remote.called())
	assert.Zero(t, hints.saved)
}

func TestAnonymousIsRejected(t *testing.T) {
	remote := &fakeRemote{}
	c := NewController(remote, &fakeHints{})

	out, err := c.Toggle(context.Background(), &models.ClientSession{ID: "s"}, someGame, AddWishlist)
	assert.ErrorIs(t, err, ErrNotAuthenticated)
	assert.NotNil(t, out.Notification)
	assert.Empty(t, remote.called())
}

func TestWishlistOwnedGameIsRejectedLocally(t *testing.T) {
	remote := &fakeRemote{}
	c := NewController(remote, &fakeHints{})
	sess := signedIn()
	sess.OwnedIDs = []uint{42}

	out, err := c.Toggle(context.Background(), sess, someGame, AddWishlist)
	assert.ErrorIs(t, err, ErrAlreadyOwned)
	assert.Equal(t, models.StatusOwned, out.Status)
	assert.Equal(t, "Can not wishlist a game that is already in the library", out.Notification.Message)
	assert.Empty(t, remote.called())
}

func TestFailureLeavesHintsUntouched(t *testing.T) {
	remote := &fakeRemote{fail: map[string]error{
		"wishlist+": &gateway.APIError{Status: http.StatusForbidden, Message: "Cannot wishlist a game that is already marked as owned"},
	}}
	hints := &fakeHints{}
	c := NewController(remote, hints)
	sess := signedIn()

	out, err := c.Toggle(context.Background(), sess, someGame, AddWishlist)
	require.Error(t, err)
	assert.Equal(t, gateway.KindRejection, gateway.Classify(err))
	assert.Equal(t, models.StatusNone, out.Status)
	assert.Equal(t, "Can not wishlist a game that is already in the library", out.Notification.Message)
	assert.Empty(t, sess.WishlistedIDs)
	assert.Zero(t, hints.saved)
}

func TestTransportFailureMessage(t *testing.T) {
	remote := &fakeRemote{fail: map[string]error{"owned+": errors.New("dial tcp: refused")}}
	c := NewController(remote, &fakeHints{})

	out, err := c.Toggle(context.Background(), signedIn(), someGame, Acquire)
	require.Error(t, err)
	assert.Equal(t, "Error adding game to your library", out.Notification.Message)
}

func TestSecondToggleWhileBusy(t *testing.T) {
	remote := &fakeRemote{block: make(chan struct{})}
	c := NewController(remote, &fakeHints{})
	first := signedIn()

	done := make(chan error, 1)
	go func() {
		_, err := c.Toggle(context.Background(), first, someGame, AddWishlist)
		done <- err
	}()

	require.Eventually(t, func() bool { return c.Busy(7, 42) && len(remote.called()) == 1 }, time.Second, time.Millisecond)

	_, err := c.Toggle(context.Background(), signedIn(), someGame, Acquire)
	assert.ErrorIs(t, err, ErrBusy)

	close(remote.block)
	require.NoError(t, <-done)
	assert.False(t, c.Busy(7, 42))
}

func TestSyncReplacesHints(t *testing.T) {
	remote := &fakeRemote{lists: map[string][]models.Game{
		"owned":      {{ID: 1}, {ID: 2}},
		"wishlisted": {{ID: 3}},
	}}
	hints := &fakeHints{}
	c := NewController(remote, hints)
	sess := signedIn()
	sess.OwnedIDs = []uint{9}
	sess.WishlistedIDs = []uint{1}

	require.NoError(t, c.Sync(context.Background(), sess))
	assert.Equal(t, []uint{1, 2}, sess.OwnedIDs)
	assert.Equal(t, []uint{3}, sess.WishlistedIDs)
	assert.Equal(t, models.StatusOwned, sess.GameStatus(1))
	assert.Equal(t, 1, hints.saved)
}
