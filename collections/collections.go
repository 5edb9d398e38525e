// Package collections serves the signed-in user's personal game lists and
// the edit/delete actions on games they created.
package collections

import (
	"context"
	"errors"
	"fmt"

	"gamehub/cache"
	"gamehub/gateway"
	"gamehub/models"
	"gamehub/utils"

	"github.com/sirupsen/logrus"
)

type Kind string

const (
	Owned      Kind = "owned"
	Wishlisted Kind = "wishlisted"
	Created    Kind = "created"
	Reviewed   Kind = "reviewed"
)

var Kinds = []Kind{Owned, Wishlisted, Created, Reviewed}

var (
	ErrUnknownKind      = errors.New("unknown collection")
	ErrNotAuthenticated = errors.New("Log in to see your games")
	ErrHasReviews       = errors.New("Can not delete a game that has one or more reviews")
)

func ParseKind(s string) (Kind, error) {
	for _, k := range Kinds {
		if string(k) == s {
			return k, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownKind, s)
}

// Query is the fixed catalog predicate behind the collection.
func (k Kind) Query(userID uint) models.GameQuery {
	switch k {
	case Owned:
		return models.GameQuery{OwnedByMe: true}
	case Wishlisted:
		return models.GameQuery{WishlistedByMe: true}
	case Created:
		return models.GameQuery{CreatorID: userID}
	default:
		return models.GameQuery{ReviewerID: userID}
	}
}

func cacheKinds() []string {
	out := make([]string, len(Kinds))
	for i, k := range Kinds {
		out[i] = string(k)
	}
	return out
}

type Remote interface {
	ListGames(ctx context.Context, token string, q models.GameQuery) (*models.GameList, error)
	GetGame(ctx context.Context, id uint) (*models.Game, error)
	Reviews(ctx context.Context, gameID uint) ([]models.Review, error)
	UpdateGame(ctx context.Context, token string, id uint, in models.GameInput) error
	DeleteGame(ctx context.Context, token string, id uint) error
}

// View is one collection as the profile tab renders it. The list is never
// paginated or filtered.
type View struct {
	Kind         Kind                 `json:"kind"`
	Games        []models.Game        `json:"games"`
	Notification *models.Notification `json:"notification,omitempty"`
}

type Service struct {
	remote Remote
	cache  *cache.Cache
}

func NewService(remote Remote, c *cache.Cache) *Service {
	return &Service{remote: remote, cache: c}
}

// View returns the collection, from the shared cache when it holds it.
// A failed fetch yields an empty list with an error notification.
func (s *Service) View(ctx context.Context, sess *models.ClientSession, kind Kind) (View, error) {
	if !sess.Authenticated() {
		return View{Kind: kind, Games: []models.Game{}}, ErrNotAuthenticated
	}

	if games, ok := s.cache.Collection(ctx, sess.UserID, string(kind)); ok {
		return View{Kind: kind, Games: games}, nil
	}

	list, err := s.remote.ListGames(ctx, sess.Token, kind.Query(sess.UserID))
	if err != nil {
		utils.Log.WithFields(logrus.Fields{
			"user_id": sess.UserID,
			"kind":    string(kind),
			"error":   err.Error(),
		}).Warn("Collection fetch failed")
		return View{
			Kind:         kind,
			Games:        []models.Game{},
			Notification: models.Failure("Error getting games: " + gateway.MessageOf(err)),
		}, err
	}

	s.cache.SetCollection(ctx, sess.UserID, string(kind), list.Games)
	games := list.Games
	if games == nil {
		games = []models.Game{}
	}
	return View{Kind: kind, Games: games}, nil
}

// Delete removes a game the user created. The review count is checked
// right before the delete call; a reviewed game is never deleted.
func (s *Service) Delete(ctx context.Context, sess *models.ClientSession, gameID uint) (*models.Notification, error) {
	if !sess.Authenticated() {
		return models.Failure(ErrNotAuthenticated.Error()), ErrNotAuthenticated
	}

	reviews, err := s.remote.Reviews(ctx, gameID)
	if err != nil {
		return models.Failure("Failed to check reviews"), err
	}
	if len(reviews) > 0 {
		return models.Failure(ErrHasReviews.Error()), ErrHasReviews
	}

	if err := s.remote.DeleteGame(ctx, sess.Token, gameID); err != nil {
		return models.Failure("Error deleting game: " + gateway.MessageOf(err)), err
	}

	s.cache.RemoveGame(ctx, sess.UserID, cacheKinds(), gameID)
	utils.Log.WithFields(logrus.Fields{"user_id": sess.UserID, "game_id": gameID}).Info("Game deleted")
	return models.Success("Game deleted successfully"), nil
}

// Edit patches a game and refreshes every cached copy of it. The input is
// expected to be validated already.
func (s *Service) Edit(ctx context.Context, sess *models.ClientSession, gameID uint, in models.GameInput) (*models.Game, *models.Notification, error) {
	if !sess.Authenticated() {
		return nil, models.Failure(ErrNotAuthenticated.Error()), ErrNotAuthenticated
	}

	if err := s.remote.UpdateGame(ctx, sess.Token, gameID, in); err != nil {
		return nil, models.Failure("Error updating game: " + gateway.MessageOf(err)), err
	}

	game, err := s.remote.GetGame(ctx, gameID)
	if err != nil {
		// The edit went through; drop the stale copies instead.
		s.cache.InvalidateGame(ctx, gameID)
		s.cache.InvalidateCollections(ctx, sess.UserID, cacheKinds())
		utils.Log.WithFields(logrus.Fields{"game_id": gameID, "error": err.Error()}).Warn("Refetch after edit failed")
		return nil, models.Success("Game updated successfully"), nil
	}

	s.cache.ReplaceGame(ctx, sess.UserID, cacheKinds(), *game)
	return game, models.Success("Game updated successfully"), nil
}

// Created drops the user's cached lists after a new game was created so the
// next view refetches.
func (s *Service) Created(ctx context.Context, sess *models.ClientSession) {
	s.cache.InvalidateCollections(ctx, sess.UserID, []string{string(Created)})
}

// Reviewed drops the reviewed list after the user posted a review.
func (s *Service) Reviewed(ctx context.Context, sess *models.ClientSession, gameID uint) {
	s.cache.InvalidateCollections(ctx, sess.UserID, []string{string(Reviewed)})
	s.cache.InvalidateGame(ctx, gameID)
}

// MembershipChanged drops the owned and wishlisted lists after a toggle.
func (s *Service) MembershipChanged(ctx context.Context, sess *models.ClientSession, gameID uint) {
	s.cache.InvalidateCollections(ctx, sess.UserID, []string{string(Owned), string(Wishlisted)})
	s.cache.InvalidateGame(ctx, gameID)
}
