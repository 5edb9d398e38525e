package handlers

import (
	"net/http"

	"gamehub/gateway"
	"gamehub/middleware"
	"gamehub/models"
	"gamehub/utils"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// PostReview checks the local review rules before calling the API.
func (h *Handler) PostReview(c *gin.Context) {
	id, ok := gameID(c)
	if !ok {
		return
	}
	sess := middleware.CurrentSession(c)

	var input models.ReviewInput
	if !bind(c, &input) {
		return
	}

	game, err := h.game(c, id)
	if err != nil {
		h.apiFailure(c, err, false, models.Failure("Error getting game: "+gateway.MessageOf(err)))
		return
	}
	reviews, err := h.api.Reviews(c.Request.Context(), id)
	if err != nil {
		h.apiFailure(c, err, false, models.Failure("Failed to submit review: "+gateway.MessageOf(err)))
		return
	}
	if err := game.CanBeReviewedBy(sess.UserID, reviews); err != nil {
		notify(c, http.StatusForbidden, models.Failure(err.Error()), nil)
		return
	}

	if err := h.api.PostReview(c.Request.Context(), sess.Token, id, input); err != nil {
		if gateway.HasMessage(err, "Cannot post more than one review on a game") {
			notify(c, http.StatusForbidden, models.Failure(models.ErrDuplicateReview.Error()), nil)
			return
		}
		h.apiFailure(c, err, false, models.Failure("Failed to submit review: "+gateway.MessageOf(err)))
		return
	}

	h.collections.Reviewed(c.Request.Context(), sess, id)
	utils.Log.WithFields(logrus.Fields{"user_id": sess.UserID, "game_id": id, "rating": input.Rating}).Info("Review posted")
	notify(c, http.StatusCreated, models.Success("Review submitted"), nil)
}
