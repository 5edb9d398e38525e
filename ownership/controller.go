package ownership

import (
	"context"
	"errors"
	"net/http"
	"sync"

	"gamehub/gateway"
	"gamehub/models"
	"gamehub/utils"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// Remote is the slice of the gateway the toggle needs.
type Remote interface {
	AddToWishlist(ctx context.Context, token string, gameID uint) error
	RemoveFromWishlist(ctx context.Context, token string, gameID uint) error
	MarkOwned(ctx context.Context, token string, gameID uint) error
	UnmarkOwned(ctx context.Context, token string, gameID uint) error
	ListGames(ctx context.Context, token string, q models.GameQuery) (*models.GameList, error)
}

// HintStore persists the session's wishlist/owned hints. SaveHints replaces
// both lists; SetGameHint changes one game and refreshes sess from the store.
type HintStore interface {
	SaveHints(ctx context.Context, sess *models.ClientSession) error
	SetGameHint(ctx context.Context, sess *models.ClientSession, gameID uint, status models.OwnershipStatus, keepWishlist bool) error
}

// Outcome is what the browser shows after a toggle.
type Outcome struct {
	Status       models.OwnershipStatus `json:"status"`
	Notification *models.Notification   `json:"notification,omitempty"`
}

type busyKey struct {
	userID uint
	gameID uint
}

type Controller struct {
	remote Remote
	hints  HintStore

	mu   sync.Mutex
	busy map[busyKey]struct{}
}

func NewController(remote Remote, hints HintStore) *Controller {
	return &Controller{
		remote: remote,
		hints:  hints,
		busy:   make(map[busyKey]struct{}),
	}
}

// Busy reports whether a toggle for the pair is outstanding; the browser
// disables both buttons meanwhile.
func (c *Controller) Busy(userID, gameID uint) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.busy[busyKey{userID, gameID}]
	return ok
}

func (c *Controller) acquire(k busyKey) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.busy[k]; ok {
		return false
	}
	c.busy[k] = struct{}{}
	return true
}

func (c *Controller) release(k busyKey) {
	c.mu.Lock()
	delete(c.busy, k)
	c.mu.Unlock()
}

// Toggle applies action to game for the session's user. Guards run before
// any remote call. Hints in sess change only after the server confirmed
// the transition; on error the returned outcome carries the unchanged status.
func (c *Controller) Toggle(ctx context.Context, sess *models.ClientSession, game models.Game, action Action) (Outcome, error) {
	if !sess.Authenticated() {
		return Outcome{Status: models.StatusNone, Notification: models.Failure(ErrNotAuthenticated.Error())}, ErrNotAuthenticated
	}
	current := sess.GameStatus(game.ID)
	if sess.UserID == game.CreatorID {
		return Outcome{Status: current}, ErrOwnGame
	}

	next, err := Next(current, action)
	if err != nil {
		msg := "That action is not available right now"
		if errors.Is(err, ErrAlreadyOwned) {
			msg = "Can not wishlist a game that is already in the library"
		}
		return Outcome{Status: current, Notification: models.Failure(msg)}, err
	}

	key := busyKey{sess.UserID, game.ID}
	if !c.acquire(key) {
		return Outcome{Status: current, Notification: models.Info("Please wait for the previous change to finish")}, ErrBusy
	}
	defer c.release(key)

	log := utils.Log.WithFields(logrus.Fields{
		"user_id": sess.UserID,
		"game_id": game.ID,
		"action":  string(action),
	})

	lingering := false
	switch action {
	case AddWishlist:
		err = c.remote.AddToWishlist(ctx, sess.Token, game.ID)
	case RemoveWishlist:
		err = c.remote.RemoveFromWishlist(ctx, sess.Token, game.ID)
	case Acquire:
		err = c.remote.MarkOwned(ctx, sess.Token, game.ID)
		if err == nil && current == models.StatusWishlisted {
			lingering = c.dropWishlist(ctx, sess.Token, game.ID, log)
		}
	case Release:
		err = c.remote.UnmarkOwned(ctx, sess.Token, game.ID)
		if err == nil && sess.InWishlist(game.ID) {
			lingering = c.dropWishlist(ctx, sess.Token, game.ID, log)
		}
	}

	if err != nil {
		log.WithFields(logrus.Fields{
			"error": err.Error(),
			"kind":  gateway.Classify(err).String(),
		}).Warn("Ownership toggle failed")
		return Outcome{Status: current, Notification: models.Failure(failureMessage(action, err))}, err
	}

	sess.ApplyHint(game.ID, next, lingering)
	if err := c.hints.SetGameHint(ctx, sess, game.ID, next, lingering); err != nil {
		log.WithError(err).Warn("Failed to persist ownership hints")
	}

	log.Info("Ownership toggled")
	out := Outcome{Status: sess.GameStatus(game.ID), Notification: models.Success(successMessage(action))}
	if lingering {
		out.Notification = models.Warning(successMessage(action) + " The game could not be removed from your wishlist.")
	}
	return out, nil
}

// dropWishlist clears a wishlist membership that outlived an ownership
// change. It reports whether the membership is still there.
func (c *Controller) dropWishlist(ctx context.Context, token string, gameID uint, log *logrus.Entry) bool {
	err := c.remote.RemoveFromWishlist(ctx, token, gameID)
	if err == nil || gateway.StatusOf(err) == http.StatusNotFound {
		return false
	}
	log.WithError(err).Warn("Failed to clear wishlist membership")
	return true
}

// Sync replaces the session hints with the server's owned and wishlisted
// lists.
func (c *Controller) Sync(ctx context.Context, sess *models.ClientSession) error {
	if !sess.Authenticated() {
		return ErrNotAuthenticated
	}

	var owned, wishlisted *models.GameList
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		owned, err = c.remote.ListGames(gctx, sess.Token, models.GameQuery{OwnedByMe: true})
		return err
	})
	g.Go(func() error {
		var err error
		wishlisted, err = c.remote.ListGames(gctx, sess.Token, models.GameQuery{WishlistedByMe: true})
		return err
	})
	if err := g.Wait(); err != nil {
		return err
	}

	sess.OwnedIDs = gameIDs(owned.Games)
	sess.WishlistedIDs = gameIDs(wishlisted.Games)
	return c.hints.SaveHints(ctx, sess)
}

func gameIDs(games []models.Game) []uint {
	ids := make([]uint, 0, len(games))
	for _, g := range games {
		ids = append(ids, g.ID)
	}
	return ids
}

func successMessage(action Action) string {
	switch action {
	case AddWishlist:
		return "Item added to your wishlist!"
	case RemoveWishlist:
		return "Item removed from your wishlist!"
	case Acquire:
		return "Game added to your owned games!"
	default:
		return "Item removed from your library!"
	}
}

func failureMessage(action Action, err error) string {
	if gateway.HasMessage(err, "Cannot wishlist a game that is already marked as owned") {
		return "Can not wishlist a game that is already in the library"
	}
	switch action {
	case AddWishlist:
		return "Error adding game to wishlist"
	case RemoveWishlist:
		return "Error removing from wishlist"
	case Acquire:
		return "Error adding game to your library"
	default:
		return "Error removing game from library"
	}
}
