package handlers

import (
	"errors"
	"net/http"

	"gamehub/collections"
	"gamehub/gateway"
	"gamehub/middleware"
	"gamehub/models"
	"gamehub/session"
	"gamehub/utils"

	"github.com/gin-gonic/gin"
)

// Profile returns the signed-in user and reconciles the ownership hints.
func (h *Handler) Profile(c *gin.Context) {
	sess := middleware.CurrentSession(c)

	user, err := h.api.GetUser(c.Request.Context(), sess.Token, sess.UserID)
	if err != nil {
		h.apiFailure(c, err, true, models.Failure("Error getting profile: "+gateway.MessageOf(err)))
		return
	}
	if err := h.ownership.Sync(c.Request.Context(), sess); err != nil {
		utils.Log.WithError(err).Warn("Failed to sync ownership hints")
	}

	c.JSON(http.StatusOK, gin.H{
		"userId":        sess.UserID,
		"user":          user,
		"profileTab":    sess.ProfileTab,
		"ownedIds":      sess.OwnedIDs,
		"wishlistedIds": sess.WishlistedIDs,
	})
}

func (h *Handler) UpdateProfile(c *gin.Context) {
	var input models.ProfileInput
	if !bind(c, &input) {
		return
	}
	if input.MissingNewPassword() {
		notify(c, http.StatusBadRequest, models.Warning("Please fix the highlighted fields"), gin.H{
			"errors": map[string]string{"password": "New password is required"},
		})
		return
	}
	sess := middleware.CurrentSession(c)

	if err := h.api.UpdateUser(c.Request.Context(), sess.Token, sess.UserID, input); err != nil {
		h.formFailure(c, err, true, gateway.MessageOf(err))
		return
	}
	notify(c, http.StatusOK, models.Success("Profile updated!"), nil)
}

func (h *Handler) ProfileTab(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"tab": middleware.CurrentSession(c).ProfileTab})
}

func (h *Handler) SetProfileTab(c *gin.Context) {
	var req struct {
		Tab string `json:"tab" validate:"required"`
	}
	if !bind(c, &req) {
		return
	}
	sess := middleware.CurrentSession(c)

	err := h.sessions.SetProfileTab(c.Request.Context(), sess, req.Tab)
	switch {
	case errors.Is(err, session.ErrUnknownTab):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case err != nil:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save profile tab"})
	default:
		c.JSON(http.StatusOK, gin.H{"tab": sess.ProfileTab})
	}
}

func (h *Handler) Collection(c *gin.Context) {
	kind, err := collections.ParseKind(c.Param("kind"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	sess := middleware.CurrentSession(c)

	view, err := h.collections.View(c.Request.Context(), sess, kind)
	if err != nil {
		if gateway.Classify(err) == gateway.KindAuthorization {
			h.apiFailure(c, err, false, view.Notification)
			return
		}
		notify(c, http.StatusBadGateway, view.Notification, gin.H{"kind": view.Kind, "games": view.Games})
		return
	}
	c.JSON(http.StatusOK, view)
}
