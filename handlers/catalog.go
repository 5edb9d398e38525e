package handlers

import (
	"errors"
	"net/http"

	"gamehub/gateway"
	"gamehub/listing"
	"gamehub/middleware"
	"gamehub/models"
	"gamehub/monitoring"

	"github.com/gin-gonic/gin"
)

type searchRequest struct {
	Search string `json:"search" validate:"max=128"`
}

type idsRequest struct {
	GenreIDs    []int `json:"genreIds" validate:"dive,gte=0"`
	PlatformIDs []int `json:"platformIds" validate:"dive,gte=0"`
}

type priceRequest struct {
	MaxPrice *int `json:"maxPrice" validate:"required,gte=0"`
}

type sortRequest struct {
	Sort string `json:"sort"`
}

type pageRequest struct {
	Page int `json:"page" validate:"required,gte=1"`
}

type pageSizeRequest struct {
	PageSize int `json:"pageSize" validate:"required,gte=1,lte=100"`
}

// coordinator returns the session's catalog view, mounting it on first use.
func (h *Handler) coordinator(c *gin.Context) (*listing.Coordinator, *listing.Snapshot, error) {
	sess := middleware.CurrentSession(c)
	coord, created := h.catalog.Get(sess.ID)
	if !created {
		return coord, nil, nil
	}
	snap, err := coord.Mount(c.Request.Context(), sess.Token)
	return coord, &snap, err
}

func (h *Handler) Catalog(c *gin.Context) {
	coord, mounted, err := h.coordinator(c)
	if mounted != nil {
		h.catalogResult(c, *mounted, err)
		return
	}
	h.catalogResult(c, coord.Snapshot(), err)
}

// catalogResult answers with the catalog view. A query that lost to a newer
// change answers 409 with the newer view; the browser drops it. A rejected
// token ends the session like any other call.
func (h *Handler) catalogResult(c *gin.Context, snap listing.Snapshot, err error) {
	switch {
	case err == nil:
		c.JSON(http.StatusOK, snap)
	case errors.Is(err, listing.ErrSuperseded):
		c.JSON(http.StatusConflict, gin.H{"superseded": true, "snapshot": snap})
	case c.Request.Context().Err() != nil:
		c.Abort()
	case gateway.Classify(err) == gateway.KindAuthorization && middleware.CurrentSession(c).Authenticated():
		h.apiFailure(c, err, false, snap.Notification)
	default:
		if snap.Notification != nil {
			monitoring.NotificationsTotal.WithLabelValues(string(models.SeverityError)).Inc()
		}
		c.JSON(http.StatusBadGateway, snap)
	}
}

// update applies one filter change to the session's view. A view that was
// never mounted starts from the default state; the change's query is its
// first.
func (h *Handler) update(c *gin.Context, change func(*listing.FilterState)) {
	sess := middleware.CurrentSession(c)
	coord, _ := h.catalog.Get(sess.ID)
	snap, err := coord.Update(c.Request.Context(), sess.Token, change)
	h.catalogResult(c, snap, err)
}

func (h *Handler) SetSearch(c *gin.Context) {
	var req searchRequest
	if !bind(c, &req) {
		return
	}
	h.update(c, func(s *listing.FilterState) { s.SetSearch(req.Search) })
}

func (h *Handler) SetGenres(c *gin.Context) {
	var req idsRequest
	if !bind(c, &req) {
		return
	}
	h.update(c, func(s *listing.FilterState) { s.SetGenres(req.GenreIDs) })
}

func (h *Handler) SetPlatforms(c *gin.Context) {
	var req idsRequest
	if !bind(c, &req) {
		return
	}
	h.update(c, func(s *listing.FilterState) { s.SetPlatforms(req.PlatformIDs) })
}

func (h *Handler) SetMaxPrice(c *gin.Context) {
	var req priceRequest
	if !bind(c, &req) {
		return
	}
	h.update(c, func(s *listing.FilterState) { s.SetMaxPrice(*req.MaxPrice) })
}

func (h *Handler) SetSort(c *gin.Context) {
	var req sortRequest
	if !bind(c, &req) {
		return
	}
	key, err := listing.ParseSortKey(req.Sort)
	if err != nil {
		notify(c, http.StatusBadRequest, models.Warning("Please fix the highlighted fields"), gin.H{
			"errors": map[string]string{"sort": "Unknown sort order"},
		})
		return
	}
	h.update(c, func(s *listing.FilterState) { s.SetSort(key) })
}

// SetPage moves within the current result set without touching filters.
func (h *Handler) SetPage(c *gin.Context) {
	var req pageRequest
	if !bind(c, &req) {
		return
	}
	sess := middleware.CurrentSession(c)
	coord, _ := h.catalog.Get(sess.ID)
	snap, err := coord.SetPage(c.Request.Context(), sess.Token, req.Page)
	h.catalogResult(c, snap, err)
}

func (h *Handler) SetPageSize(c *gin.Context) {
	var req pageSizeRequest
	if !bind(c, &req) {
		return
	}
	h.update(c, func(s *listing.FilterState) { s.SetPageSize(req.PageSize) })
}

func (h *Handler) ClearFilters(c *gin.Context) {
	h.update(c, func(s *listing.FilterState) { s.Clear() })
}
