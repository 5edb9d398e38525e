package models

import (
	"errors"
	"time"
)

// MaxPrice is the highest price the client lets a creator set, in cents ($250).
const MaxPrice = 25000

var (
	ErrSelfReview      = errors.New("You can not review your own game")
	ErrDuplicateReview = errors.New("You can not post more than one review on a game")
)

type Game struct {
	ID                uint      `json:"gameId"`
	Title             string    `json:"title"`
	Description       string    `json:"description,omitempty"`
	GenreID           int       `json:"genreId"`
	CreationDate      time.Time `json:"creationDate"`
	CreatorID         uint      `json:"creatorId"`
	CreatorFirstName  string    `json:"creatorFirstName"`
	CreatorLastName   string    `json:"creatorLastName"`
	Price             int       `json:"price"`
	Rating            float64   `json:"rating"`
	PlatformIDs       []int     `json:"platformIds"`
	NumberOfWishlists int       `json:"numberOfWishlists"`
	NumberOfOwners    int       `json:"numberOfOwners"`
}

// CreatorName is the display name shown on cards and detail pages.
func (g Game) CreatorName() string {
	if g.CreatorLastName == "" {
		return g.CreatorFirstName
	}
	return g.CreatorFirstName + " " + g.CreatorLastName
}

// CanBeReviewedBy reports whether userID may post a review given the reviews
// already on the game. The API is authoritative; this only saves a round trip.
func (g Game) CanBeReviewedBy(userID uint, reviews []Review) error {
	if userID == g.CreatorID {
		return ErrSelfReview
	}
	for _, r := range reviews {
		if r.ReviewerID == userID {
			return ErrDuplicateReview
		}
	}
	return nil
}

// GameList is one page of catalog results plus the total number of matches.
type GameList struct {
	Games []Game `json:"games"`
	Count int    `json:"count"`
}

// GameInput - create and edit form payload. Price is in cents.
type GameInput struct {
	Title       string `json:"title" validate:"required,max=128"`
	Description string `json:"description" validate:"required,max=1024"`
	GenreID     *int   `json:"genreId" validate:"required,gte=0"`
	Price       *int   `json:"price" validate:"required,gte=0,lte=25000"`
	PlatformIDs []int  `json:"platformIds" validate:"required,min=1,dive,gte=0"`
}

// GameQuery holds the GET /games parameters. Zero values are omitted from
// the request, except StartIndex which is always sent once Count is set.
type GameQuery struct {
	Q              string
	GenreIDs       []int
	PlatformIDs    []int
	Price          *int
	SortBy         string
	StartIndex     int
	Count          int
	CreatorID      uint
	ReviewerID     uint
	OwnedByMe      bool
	WishlistedByMe bool
}
