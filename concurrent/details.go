// Package concurrent fans out the independent remote calls behind one view.
package concurrent

import (
	"context"
	"fmt"
	"time"

	"gamehub/cache"
	"gamehub/models"
	"gamehub/utils"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// Source is the part of the gateway the detail page reads from.
type Source interface {
	GetGame(ctx context.Context, id uint) (*models.Game, error)
	Reviews(ctx context.Context, gameID uint) ([]models.Review, error)
	Genres(ctx context.Context) ([]models.Genre, error)
	Platforms(ctx context.Context) ([]models.Platform, error)
}

type GameDetails struct {
	Game          models.Game            `json:"game"`
	Reviews       []models.Review        `json:"reviews"`
	GenreName     string                 `json:"genreName"`
	PlatformNames []string               `json:"platformNames"`
	CreatorName   string                 `json:"creatorName"`
	ReviewCount   int                    `json:"reviewCount"`
	CanReview     bool                   `json:"canReview"`
	ReviewBlocked string                 `json:"reviewBlocked,omitempty"`
	Status        models.OwnershipStatus `json:"status"`
	IsCreator     bool                   `json:"isCreator"`
}

type Fetcher struct {
	src     Source
	cache   *cache.Cache
	timeout time.Duration
}

func NewFetcher(src Source, c *cache.Cache, timeout time.Duration) *Fetcher {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Fetcher{src: src, cache: c, timeout: timeout}
}

// ReferenceData returns genres and platforms, from cache when possible.
func (f *Fetcher) ReferenceData(ctx context.Context) ([]models.Genre, []models.Platform, error) {
	var (
		genres    []models.Genre
		platforms []models.Platform
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		genres, err = f.genres(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		platforms, err = f.platforms(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	return genres, platforms, nil
}

func (f *Fetcher) genres(ctx context.Context) ([]models.Genre, error) {
	if genres, ok := f.cache.Genres(ctx); ok {
		return genres, nil
	}
	genres, err := f.src.Genres(ctx)
	if err != nil {
		return nil, fmt.Errorf("genres: %w", err)
	}
	f.cache.SetGenres(ctx, genres)
	return genres, nil
}

func (f *Fetcher) platforms(ctx context.Context) ([]models.Platform, error) {
	if platforms, ok := f.cache.Platforms(ctx); ok {
		return platforms, nil
	}
	platforms, err := f.src.Platforms(ctx)
	if err != nil {
		return nil, fmt.Errorf("platforms: %w", err)
	}
	f.cache.SetPlatforms(ctx, platforms)
	return platforms, nil
}

// GameDetails loads a game, its reviews and the reference data in parallel
// and derives what the detail page shows for viewer. viewer may be nil.
func (f *Fetcher) GameDetails(ctx context.Context, gameID uint, viewer *models.ClientSession) (*GameDetails, error) {
	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	started := time.Now()
	var (
		game      *models.Game
		reviews   []models.Review
		genres    []models.Genre
		platforms []models.Platform
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		game, err = f.src.GetGame(gctx, gameID)
		return err
	})
	g.Go(func() error {
		var err error
		reviews, err = f.src.Reviews(gctx, gameID)
		return err
	})
	g.Go(func() error {
		var err error
		genres, platforms, err = f.ReferenceData(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	f.cache.SetGame(ctx, *game)
	if reviews == nil {
		reviews = []models.Review{}
	}

	d := &GameDetails{
		Game:          *game,
		Reviews:       reviews,
		GenreName:     models.GenreName(genres, game.GenreID),
		PlatformNames: models.PlatformNames(platforms, game.PlatformIDs),
		CreatorName:   game.CreatorName(),
		ReviewCount:   len(reviews),
		Status:        models.StatusNone,
	}

	switch {
	case !viewer.Authenticated():
		d.ReviewBlocked = "Log in to post a review"
	default:
		d.IsCreator = viewer.UserID == game.CreatorID
		d.Status = viewer.GameStatus(game.ID)
		if err := game.CanBeReviewedBy(viewer.UserID, reviews); err != nil {
			d.ReviewBlocked = err.Error()
		} else {
			d.CanReview = true
		}
	}

	utils.Log.WithFields(logrus.Fields{
		"game_id":  gameID,
		"reviews":  len(reviews),
		"duration": time.Since(started).String(),
	}).Debug("Game details loaded")
	return d, nil
}
