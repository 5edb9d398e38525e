package handlers

import (
	"errors"
	"net/http"

	"gamehub/gateway"
	"gamehub/middleware"
	"gamehub/models"
	"gamehub/ownership"

	"github.com/gin-gonic/gin"
)

func (h *Handler) toggle(list string, add bool) gin.HandlerFunc {
	action, _ := ownership.ParseAction(list, add)
	return func(c *gin.Context) {
		id, ok := gameID(c)
		if !ok {
			return
		}
		sess := middleware.CurrentSession(c)

		game, err := h.game(c, id)
		if err != nil {
			h.apiFailure(c, err, false, models.Failure("Error getting game: "+gateway.MessageOf(err)))
			return
		}

		out, err := h.ownership.Toggle(c.Request.Context(), sess, *game, action)
		switch {
		case err == nil:
			h.collections.MembershipChanged(c.Request.Context(), sess, id)
			notify(c, http.StatusOK, out.Notification, gin.H{"status": out.Status})
		case errors.Is(err, ownership.ErrOwnGame):
			// The creator never sees these controls.
			c.JSON(http.StatusForbidden, gin.H{"error": err.Error(), "status": out.Status})
		case errors.Is(err, ownership.ErrAlreadyOwned),
			errors.Is(err, ownership.ErrInvalidTransition),
			errors.Is(err, ownership.ErrBusy):
			notify(c, http.StatusConflict, out.Notification, gin.H{"status": out.Status})
		case errors.Is(err, ownership.ErrNotAuthenticated):
			notify(c, http.StatusUnauthorized, out.Notification, gin.H{"redirect": "/login"})
		default:
			h.apiFailure(c, err, false, out.Notification)
		}
	}
}
