package models

import (
	"slices"
	"time"
)

// ClientSession is the persisted client-side state of one browser session:
// the API token, the signed-in user, the last profile tab and the
// denormalized wishlist/owned hints.
type ClientSession struct {
	ID            string    `gorm:"primaryKey;size:36" json:"id"`
	Token         string    `gorm:"size:128" json:"-"`
	UserID        uint      `gorm:"index" json:"userId"`
	ProfileTab    string    `gorm:"size:32" json:"profileTab"`
	WishlistedIDs []uint    `gorm:"serializer:json" json:"wishlistedIds"`
	OwnedIDs      []uint    `gorm:"serializer:json" json:"ownedIds"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

func (s *ClientSession) Authenticated() bool {
	return s != nil && s.Token != "" && s.UserID != 0
}

// GameStatus derives the hinted status of gameID. Owned wins over a
// lingering wishlist entry.
func (s *ClientSession) GameStatus(gameID uint) OwnershipStatus {
	switch {
	case slices.Contains(s.OwnedIDs, gameID):
		return StatusOwned
	case slices.Contains(s.WishlistedIDs, gameID):
		return StatusWishlisted
	default:
		return StatusNone
	}
}

// InWishlist reports a wishlist hint regardless of ownership.
func (s *ClientSession) InWishlist(gameID uint) bool {
	return slices.Contains(s.WishlistedIDs, gameID)
}

// SetGameStatus rewrites both hint lists so that gameID ends in status.
func (s *ClientSession) SetGameStatus(gameID uint, status OwnershipStatus) {
	s.WishlistedIDs = slices.DeleteFunc(s.WishlistedIDs, func(id uint) bool { return id == gameID })
	s.OwnedIDs = slices.DeleteFunc(s.OwnedIDs, func(id uint) bool { return id == gameID })
	switch status {
	case StatusWishlisted:
		s.WishlistedIDs = append(s.WishlistedIDs, gameID)
	case StatusOwned:
		s.OwnedIDs = append(s.OwnedIDs, gameID)
	}
}

// ApplyHint records one confirmed transition. keepWishlist leaves a wishlist
// entry the server still holds next to the new status.
func (s *ClientSession) ApplyHint(gameID uint, status OwnershipStatus, keepWishlist bool) {
	s.SetGameStatus(gameID, status)
	if keepWishlist && !s.InWishlist(gameID) {
		s.WishlistedIDs = append(s.WishlistedIDs, gameID)
	}
}

// ClearAuth drops everything tied to the signed-in user.
func (s *ClientSession) ClearAuth() {
	s.Token = ""
	s.UserID = 0
	s.WishlistedIDs = nil
	s.OwnedIDs = nil
}
