// Package handlers is the HTTP surface the browser talks to.
package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"gamehub/cache"
	"gamehub/collections"
	"gamehub/concurrent"
	"gamehub/gateway"
	"gamehub/listing"
	"gamehub/middleware"
	"gamehub/models"
	"gamehub/monitoring"
	"gamehub/ownership"
	"gamehub/session"
	"gamehub/utils"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type Handler struct {
	api         *gateway.Client
	cache       *cache.Cache
	sessions    *session.Manager
	catalog     *listing.Registry
	details     *concurrent.Fetcher
	collections *collections.Service
	ownership   *ownership.Controller
}

type Deps struct {
	API         *gateway.Client
	Cache       *cache.Cache
	Sessions    *session.Manager
	Catalog     *listing.Registry
	Details     *concurrent.Fetcher
	Collections *collections.Service
	Ownership   *ownership.Controller
}

func New(d Deps) *Handler {
	return &Handler{
		api:         d.API,
		cache:       d.Cache,
		sessions:    d.Sessions,
		catalog:     d.Catalog,
		details:     d.Details,
		collections: d.Collections,
		ownership:   d.Ownership,
	}
}

// Register mounts every browser route on r. r must already carry the
// Sessions middleware.
func (h *Handler) Register(r gin.IRouter, authLimit gin.HandlerFunc) {
	r.POST("/register", authLimit, h.RegisterUser)
	r.POST("/login", authLimit, h.Login)
	r.POST("/logout", h.Logout)

	r.GET("/catalog", h.Catalog)
	cat := r.Group("/catalog")
	{
		cat.POST("/search", h.SetSearch)
		cat.POST("/genres", h.SetGenres)
		cat.POST("/platforms", h.SetPlatforms)
		cat.POST("/price", h.SetMaxPrice)
		cat.POST("/sort", h.SetSort)
		cat.POST("/page", h.SetPage)
		cat.POST("/page-size", h.SetPageSize)
		cat.POST("/clear", h.ClearFilters)
	}

	r.GET("/genres", h.Genres)
	r.GET("/platforms", h.Platforms)
	r.GET("/games/:id", h.GameDetails)
	r.GET("/games/:id/image", h.GameImage)
	r.GET("/users/:id/image", h.UserImage)

	auth := r.Group("/", middleware.RequireAuth())
	{
		auth.POST("/games", h.CreateGame)
		auth.PATCH("/games/:id", h.EditGame)
		auth.DELETE("/games/:id", h.DeleteGame)
		auth.PUT("/games/:id/image", h.PutGameImage)
		auth.POST("/games/:id/reviews", h.PostReview)

		auth.POST("/games/:id/wishlist", h.toggle("wishlist", true))
		auth.DELETE("/games/:id/wishlist", h.toggle("wishlist", false))
		auth.POST("/games/:id/owned", h.toggle("owned", true))
		auth.DELETE("/games/:id/owned", h.toggle("owned", false))

		auth.GET("/me", h.Profile)
		auth.PATCH("/me", h.UpdateProfile)
		auth.GET("/me/tab", h.ProfileTab)
		auth.PUT("/me/tab", h.SetProfileTab)
		auth.GET("/me/collections/:kind", h.Collection)
		auth.PUT("/me/image", h.PutAvatar)
		auth.DELETE("/me/image", h.DeleteAvatar)
	}
}

func gameID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid game id"})
		return 0, false
	}
	return uint(id), true
}

// bind decodes and validates a JSON body, answering 400 itself on failure.
func bind(c *gin.Context, dest interface{}) bool {
	if err := c.ShouldBindJSON(dest); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return false
	}
	if err := utils.ValidateStruct(dest); err != nil {
		utils.ValidationErrorResponse(c, err)
		return false
	}
	return true
}

// notify answers with a notification and any extra fields.
func notify(c *gin.Context, status int, note *models.Notification, extra gin.H) {
	body := gin.H{}
	for k, v := range extra {
		body[k] = v
	}
	if note != nil {
		body["notification"] = note
		monitoring.NotificationsTotal.WithLabelValues(string(note.Severity)).Inc()
		if note.Severity == models.SeverityError {
			body["error"] = note.Message
		}
	}
	c.JSON(status, body)
}

// formFailure answers a rejected form submission. Recognised API error text
// becomes field errors; anything else falls back to fallback.
func (h *Handler) formFailure(c *gin.Context, err error, sessionBound bool, fallback string) {
	if fields := utils.MapBackendError(gateway.MessageOf(err)); len(fields) > 0 {
		notify(c, http.StatusBadRequest, models.Warning("Please correct the highlighted fields"), gin.H{"errors": fields})
		return
	}
	h.apiFailure(c, err, sessionBound, models.Failure(fallback))
}

// apiFailure answers a failed gateway call. A rejected token, or a 404 on a
// call scoped to the signed-in user, ends the session and sends the browser
// to login.
func (h *Handler) apiFailure(c *gin.Context, err error, sessionBound bool, note *models.Notification) {
	kind := gateway.Classify(err)
	sess := middleware.CurrentSession(c)

	if sess.Authenticated() && (kind == gateway.KindAuthorization || (sessionBound && gateway.IsSessionRejected(err))) {
		h.endSession(c, sess)
		notify(c, http.StatusUnauthorized, models.Warning("Your session has expired. Please log in again."), gin.H{
			"error":    gateway.MessageOf(err),
			"redirect": "/login",
		})
		return
	}

	status := http.StatusBadGateway
	switch kind {
	case gateway.KindValidation:
		status = http.StatusBadRequest
	case gateway.KindAuthorization:
		status = http.StatusUnauthorized
	case gateway.KindRejection:
		if s := gateway.StatusOf(err); s < 500 {
			status = s
		}
	}

	utils.Log.WithFields(logrus.Fields{
		"path":   c.FullPath(),
		"kind":   kind.String(),
		"status": gateway.StatusOf(err),
		"error":  err.Error(),
	}).Warn("Remote call failed")
	notify(c, status, note, nil)
}

func (h *Handler) endSession(c *gin.Context, sess *models.ClientSession) {
	if err := h.sessions.SignOut(c.Request.Context(), sess); err != nil {
		utils.Log.WithError(err).Error("Failed to clear session")
	}
	h.catalog.Forget(sess.ID)
}

// game returns the game from cache or the API.
func (h *Handler) game(c *gin.Context, id uint) (*models.Game, error) {
	if g, ok := h.cache.Game(c.Request.Context(), id); ok {
		return g, nil
	}
	g, err := h.api.GetGame(c.Request.Context(), id)
	if err != nil {
		return nil, err
	}
	h.cache.SetGame(c.Request.Context(), *g)
	return g, nil
}

func isNotFound(err error) bool {
	return gateway.StatusOf(err) == http.StatusNotFound
}

var errBadImage = errors.New("Only JPEG, PNG, or GIF files are allowed.")

func imageType(contentType string) (string, error) {
	switch contentType {
	case "image/jpeg", "image/png", "image/gif":
		return contentType, nil
	case "image/jpg":
		return "image/jpeg", nil
	}
	return "", errBadImage
}
