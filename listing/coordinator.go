package listing

import (
	"context"
	"errors"
	"sync"

	"gamehub/gateway"
	"gamehub/models"
	"gamehub/monitoring"
	"gamehub/utils"

	"github.com/sirupsen/logrus"
)

// Fetcher is the part of the gateway the coordinator needs.
type Fetcher interface {
	ListGames(ctx context.Context, token string, q models.GameQuery) (*models.GameList, error)
}

// ErrSuperseded is returned to a caller whose query lost to a newer state
// change. The snapshot returned with it reflects the newer state.
var ErrSuperseded = errors.New("listing: query superseded by a newer state change")

// Snapshot is the catalog view model.
type Snapshot struct {
	State        FilterState          `json:"state"`
	Games        []models.Game        `json:"games"`
	Count        int                  `json:"count"`
	Pagination   Pagination           `json:"pagination"`
	Notification *models.Notification `json:"notification,omitempty"`
}

// Coordinator keeps one catalog view in sync with its filter state. Every
// state change re-queries; the latest change wins and older in-flight
// queries are cancelled and their results dropped.
type Coordinator struct {
	fetcher Fetcher

	mu     sync.Mutex
	state  FilterState
	games  []models.Game
	count  int
	notice *models.Notification
	seq    uint64
	cancel context.CancelFunc
}

func NewCoordinator(f Fetcher, pageSize int) *Coordinator {
	return &Coordinator{
		fetcher: f,
		state:   Default(pageSize),
		games:   []models.Game{},
	}
}

// Mount runs the initial query.
func (c *Coordinator) Mount(ctx context.Context, token string) (Snapshot, error) {
	return c.Update(ctx, token, func(*FilterState) {})
}

func (c *Coordinator) SetSearch(ctx context.Context, token, text string) (Snapshot, error) {
	return c.Update(ctx, token, func(s *FilterState) { s.SetSearch(text) })
}

func (c *Coordinator) SetGenres(ctx context.Context, token string, ids []int) (Snapshot, error) {
	return c.Update(ctx, token, func(s *FilterState) { s.SetGenres(ids) })
}

func (c *Coordinator) SetPlatforms(ctx context.Context, token string, ids []int) (Snapshot, error) {
	return c.Update(ctx, token, func(s *FilterState) { s.SetPlatforms(ids) })
}

func (c *Coordinator) SetMaxPrice(ctx context.Context, token string, price int) (Snapshot, error) {
	return c.Update(ctx, token, func(s *FilterState) { s.SetMaxPrice(price) })
}

func (c *Coordinator) SetSort(ctx context.Context, token string, key SortKey) (Snapshot, error) {
	return c.Update(ctx, token, func(s *FilterState) { s.SetSort(key) })
}

func (c *Coordinator) SetPageSize(ctx context.Context, token string, size int) (Snapshot, error) {
	return c.Update(ctx, token, func(s *FilterState) { s.SetPageSize(size) })
}

func (c *Coordinator) Clear(ctx context.Context, token string) (Snapshot, error) {
	return c.Update(ctx, token, func(s *FilterState) { s.Clear() })
}

// SetPage moves to page, clamped against the last known result size.
func (c *Coordinator) SetPage(ctx context.Context, token string, page int) (Snapshot, error) {
	return c.Update(ctx, token, func(s *FilterState) {
		s.SetPage(page)
		if total := TotalPages(c.count, s.PageSize); total > 0 {
			s.Page = ClampPage(s.Page, total)
		}
	})
}

// Update applies change to the filter state and re-queries.
func (c *Coordinator) Update(ctx context.Context, token string, change func(*FilterState)) (Snapshot, error) {
	c.mu.Lock()
	change(&c.state)
	c.mu.Unlock()

	snap, reclamped, err := c.query(ctx, token)
	if reclamped {
		// The catalog shrank under the current page; fetch the last page once.
		snap, _, err = c.query(ctx, token)
	}
	return snap, err
}

// Snapshot returns the current view without querying.
func (c *Coordinator) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

func (c *Coordinator) query(ctx context.Context, token string) (Snapshot, bool, error) {
	c.mu.Lock()
	if c.cancel != nil {
		c.cancel()
	}
	c.seq++
	seq := c.seq
	qctx, cancel := context.WithCancel(ctx)
	c.cancel = cancel
	q := c.state.Query()
	c.mu.Unlock()

	list, err := c.fetcher.ListGames(qctx, token, q)

	c.mu.Lock()
	defer c.mu.Unlock()
	cancel()

	if seq != c.seq {
		monitoring.CatalogQueriesTotal.WithLabelValues("superseded").Inc()
		return c.snapshotLocked(), false, ErrSuperseded
	}
	c.cancel = nil

	// The caller went away; its result must not be applied.
	if ctx.Err() != nil {
		return c.snapshotLocked(), false, ctx.Err()
	}

	if err != nil {
		monitoring.CatalogQueriesTotal.WithLabelValues("failure").Inc()
		utils.Log.WithFields(logrus.Fields{
			"error":      err.Error(),
			"kind":       gateway.Classify(err).String(),
			"startIndex": q.StartIndex,
			"count":      q.Count,
		}).Warn("Catalog query failed")

		c.games = []models.Game{}
		c.count = 0
		c.notice = models.Failure("Error getting games: " + gateway.MessageOf(err))
		return c.snapshotLocked(), false, err
	}

	monitoring.CatalogQueriesTotal.WithLabelValues("success").Inc()
	c.games = list.Games
	if c.games == nil {
		c.games = []models.Game{}
	}
	c.count = list.Count
	c.notice = nil

	if total := TotalPages(c.count, c.state.PageSize); total > 0 && c.state.Page > total {
		c.state.Page = total
		return c.snapshotLocked(), true, nil
	}
	return c.snapshotLocked(), false, nil
}

func (c *Coordinator) snapshotLocked() Snapshot {
	state := c.state
	state.GenreIDs = append([]int{}, c.state.GenreIDs...)
	state.PlatformIDs = append([]int{}, c.state.PlatformIDs...)
	return Snapshot{
		State:        state,
		Games:        append([]models.Game{}, c.games...),
		Count:        c.count,
		Pagination:   Paginate(c.state.Page, c.count, c.state.PageSize),
		Notification: c.notice,
	}
}
