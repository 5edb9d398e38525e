package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"gamehub/collections"
	"gamehub/gateway"
	"gamehub/middleware"
	"gamehub/models"
	"gamehub/utils"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

const maxUpload = 5 << 20

func (h *Handler) Genres(c *gin.Context) {
	genres, _, err := h.details.ReferenceData(c.Request.Context())
	if err != nil {
		h.apiFailure(c, err, false, models.Failure("Error getting genres: "+gateway.MessageOf(err)))
		return
	}
	c.JSON(http.StatusOK, genres)
}

func (h *Handler) Platforms(c *gin.Context) {
	_, platforms, err := h.details.ReferenceData(c.Request.Context())
	if err != nil {
		h.apiFailure(c, err, false, models.Failure("Error getting platforms: "+gateway.MessageOf(err)))
		return
	}
	c.JSON(http.StatusOK, platforms)
}

func (h *Handler) GameDetails(c *gin.Context) {
	id, ok := gameID(c)
	if !ok {
		return
	}
	sess := middleware.CurrentSession(c)

	d, err := h.details.GameDetails(c.Request.Context(), id, sess)
	if err != nil {
		h.apiFailure(c, err, false, models.Failure("Error getting game: "+gateway.MessageOf(err)))
		return
	}

	busy := sess.Authenticated() && h.ownership.Busy(sess.UserID, id)
	c.JSON(http.StatusOK, gin.H{"details": d, "busy": busy})
}

// CreateGame accepts either a JSON game or a multipart form with a "game"
// JSON field and an optional "image" file. A failed image upload is
// reported but the game stays created.
func (h *Handler) CreateGame(c *gin.Context) {
	sess := middleware.CurrentSession(c)

	var (
		input models.GameInput
		image *gateway.Image
	)
	if strings.HasPrefix(c.ContentType(), "multipart/") {
		if err := json.Unmarshal([]byte(c.PostForm("game")), &input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid game field"})
			return
		}
		if err := utils.ValidateStruct(&input); err != nil {
			utils.ValidationErrorResponse(c, err)
			return
		}
		img, err := formImage(c)
		if err != nil {
			notify(c, http.StatusBadRequest, models.Failure(err.Error()), gin.H{"errors": map[string]string{"image": err.Error()}})
			return
		}
		image = img
	} else if !bind(c, &input) {
		return
	}

	id, err := h.api.CreateGame(c.Request.Context(), sess.Token, input)
	if err != nil {
		h.formFailure(c, err, false, "Error creating game: "+gateway.MessageOf(err))
		return
	}
	h.collections.Created(c.Request.Context(), sess)

	utils.Log.WithFields(logrus.Fields{"user_id": sess.UserID, "game_id": id}).Info("Game created")

	if image != nil {
		if err := h.api.PutImage(c.Request.Context(), sess.Token, gateway.GameImage, id, *image); err != nil {
			utils.Log.WithFields(logrus.Fields{"game_id": id, "error": err.Error()}).Warn("Game image upload failed")
			notify(c, http.StatusCreated, models.Warning("Game added, but the image upload failed. Please try again from the edit form."), gin.H{"gameId": id})
			return
		}
	}

	notify(c, http.StatusCreated, models.Success("Game added successfully"), gin.H{"gameId": id})
}

// formImage reads the optional "image" file; nil when none was sent.
func formImage(c *gin.Context) (*gateway.Image, error) {
	fh, err := c.FormFile("image")
	if errors.Is(err, http.ErrMissingFile) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if fh.Size > maxUpload {
		return nil, errors.New("Image must be 5MB or smaller")
	}
	ct, err := imageType(fh.Header.Get("Content-Type"))
	if err != nil {
		return nil, err
	}
	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	data, err := io.ReadAll(f)
	if err != nil {
		return nil, err
	}
	return &gateway.Image{ContentType: ct, Data: data}, nil
}

func (h *Handler) EditGame(c *gin.Context) {
	id, ok := gameID(c)
	if !ok {
		return
	}
	var input models.GameInput
	if !bind(c, &input) {
		return
	}
	sess := middleware.CurrentSession(c)

	game, note, err := h.collections.Edit(c.Request.Context(), sess, id, input)
	if err != nil {
		h.formFailure(c, err, false, note.Message)
		return
	}
	notify(c, http.StatusOK, note, gin.H{"game": game})
}

func (h *Handler) DeleteGame(c *gin.Context) {
	id, ok := gameID(c)
	if !ok {
		return
	}
	sess := middleware.CurrentSession(c)

	note, err := h.collections.Delete(c.Request.Context(), sess, id)
	switch {
	case err == nil:
		notify(c, http.StatusOK, note, nil)
	case errors.Is(err, collections.ErrHasReviews):
		notify(c, http.StatusConflict, note, nil)
	default:
		h.apiFailure(c, err, false, note)
	}
}
