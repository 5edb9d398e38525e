package models

// OwnershipStatus is the viewing user's relation to one game.
type OwnershipStatus string

const (
	StatusNone       OwnershipStatus = "none"
	StatusWishlisted OwnershipStatus = "wishlisted"
	StatusOwned      OwnershipStatus = "owned"
)
