// Package ownership drives the per-game wishlist/ownership toggle for the
// signed-in user.
package ownership

import (
	"errors"

	"gamehub/models"
)

type Action string

const (
	AddWishlist    Action = "wishlist"
	RemoveWishlist Action = "unwishlist"
	Acquire        Action = "acquire"
	Release        Action = "release"
)

var (
	ErrNotAuthenticated  = errors.New("Log in to manage your wishlist and library")
	ErrOwnGame           = errors.New("You can not wishlist or get your own game")
	ErrAlreadyOwned      = errors.New("Game is already owned")
	ErrInvalidTransition = errors.New("ownership: action does not apply to the current status")
	ErrBusy              = errors.New("ownership: a change for this game is still in progress")
)

// Next is the toggle state machine. It never touches the network.
func Next(status models.OwnershipStatus, action Action) (models.OwnershipStatus, error) {
	switch action {
	case AddWishlist:
		switch status {
		case models.StatusNone:
			return models.StatusWishlisted, nil
		case models.StatusOwned:
			return status, ErrAlreadyOwned
		}
	case RemoveWishlist:
		if status == models.StatusWishlisted {
			return models.StatusNone, nil
		}
	case Acquire:
		if status == models.StatusNone || status == models.StatusWishlisted {
			return models.StatusOwned, nil
		}
		return status, ErrAlreadyOwned
	case Release:
		if status == models.StatusOwned {
			return models.StatusNone, nil
		}
	}
	return status, ErrInvalidTransition
}

// ParseAction maps the route verb pair onto an action.
func ParseAction(list string, add bool) (Action, bool) {
	switch {
	case list == "wishlist" && add:
		return AddWishlist, true
	case list == "wishlist":
		return RemoveWishlist, true
	case list == "owned" && add:
		return Acquire, true
	case list == "owned":
		return Release, true
	}
	return "", false
}
