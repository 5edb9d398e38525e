package gateway

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"gamehub/models"
)

// Values encodes q the way GET /games expects it. Array filters repeat the
// key; unset optional parameters are left out.
func Values(q models.GameQuery) url.Values {
	v := url.Values{}
	if q.Q != "" {
		v.Set("q", q.Q)
	}
	for _, id := range q.GenreIDs {
		v.Add("genreIds", strconv.Itoa(id))
	}
	for _, id := range q.PlatformIDs {
		v.Add("platformIds", strconv.Itoa(id))
	}
	if q.Price != nil {
		v.Set("price", strconv.Itoa(*q.Price))
	}
	if q.SortBy != "" {
		v.Set("sortBy", q.SortBy)
	}
	if q.Count > 0 {
		v.Set("startIndex", strconv.Itoa(q.StartIndex))
		v.Set("count", strconv.Itoa(q.Count))
	}
	if q.CreatorID != 0 {
		v.Set("creatorId", strconv.FormatUint(uint64(q.CreatorID), 10))
	}
	if q.ReviewerID != 0 {
		v.Set("reviewerId", strconv.FormatUint(uint64(q.ReviewerID), 10))
	}
	if q.OwnedByMe {
		v.Set("ownedByMe", "true")
	}
	if q.WishlistedByMe {
		v.Set("wishlistedByMe", "true")
	}
	return v
}

func (c *Client) ListGames(ctx context.Context, token string, q models.GameQuery) (*models.GameList, error) {
	var list models.GameList
	err := c.do(ctx, request{
		method:   http.MethodGet,
		path:     "/games",
		endpoint: "/games",
		token:    token,
		query:    Values(q),
	}, &list)
	if err != nil {
		return nil, err
	}
	if list.Games == nil {
		list.Games = []models.Game{}
	}
	return &list, nil
}

func (c *Client) GetGame(ctx context.Context, id uint) (*models.Game, error) {
	var game models.Game
	err := c.do(ctx, request{
		method:   http.MethodGet,
		path:     idPath("/games/%d", id),
		endpoint: "/games/:id",
	}, &game)
	if err != nil {
		return nil, err
	}
	return &game, nil
}

// CreateGame returns the id the API assigned.
func (c *Client) CreateGame(ctx context.Context, token string, in models.GameInput) (uint, error) {
	var out struct {
		GameID uint `json:"gameId"`
	}
	err := c.do(ctx, request{
		method:   http.MethodPost,
		path:     "/games",
		endpoint: "/games",
		token:    token,
		body:     in,
	}, &out)
	return out.GameID, err
}

func (c *Client) UpdateGame(ctx context.Context, token string, id uint, in models.GameInput) error {
	return c.do(ctx, request{
		method:   http.MethodPatch,
		path:     idPath("/games/%d", id),
		endpoint: "/games/:id",
		token:    token,
		body:     in,
	}, nil)
}

func (c *Client) DeleteGame(ctx context.Context, token string, id uint) error {
	return c.do(ctx, request{
		method:   http.MethodDelete,
		path:     idPath("/games/%d", id),
		endpoint: "/games/:id",
		token:    token,
	}, nil)
}

func (c *Client) Genres(ctx context.Context) ([]models.Genre, error) {
	var genres []models.Genre
	err := c.do(ctx, request{method: http.MethodGet, path: "/games/genres", endpoint: "/games/genres"}, &genres)
	return genres, err
}

func (c *Client) Platforms(ctx context.Context) ([]models.Platform, error) {
	var platforms []models.Platform
	err := c.do(ctx, request{method: http.MethodGet, path: "/games/platforms", endpoint: "/games/platforms"}, &platforms)
	return platforms, err
}

func (c *Client) Reviews(ctx context.Context, gameID uint) ([]models.Review, error) {
	var reviews []models.Review
	err := c.do(ctx, request{
		method:   http.MethodGet,
		path:     idPath("/games/%d/reviews", gameID),
		endpoint: "/games/:id/reviews",
	}, &reviews)
	return reviews, err
}

func (c *Client) PostReview(ctx context.Context, token string, gameID uint, in models.ReviewInput) error {
	return c.do(ctx, request{
		method:   http.MethodPost,
		path:     idPath("/games/%d/reviews", gameID),
		endpoint: "/games/:id/reviews",
		token:    token,
		body:     in,
	}, nil)
}

func (c *Client) AddToWishlist(ctx context.Context, token string, gameID uint) error {
	return c.membership(ctx, http.MethodPost, "wishlist", token, gameID)
}

func (c *Client) RemoveFromWishlist(ctx context.Context, token string, gameID uint) error {
	return c.membership(ctx, http.MethodDelete, "wishlist", token, gameID)
}

func (c *Client) MarkOwned(ctx context.Context, token string, gameID uint) error {
	return c.membership(ctx, http.MethodPost, "owned", token, gameID)
}

func (c *Client) UnmarkOwned(ctx context.Context, token string, gameID uint) error {
	return c.membership(ctx, http.MethodDelete, "owned", token, gameID)
}

func (c *Client) membership(ctx context.Context, method, list, token string, gameID uint) error {
	return c.do(ctx, request{
		method:   method,
		path:     idPath("/games/%d/", gameID) + list,
		endpoint: "/games/:id/" + list,
		token:    token,
		body:     struct{}{},
	}, nil)
}
