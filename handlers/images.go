package handlers

import (
	"io"
	"net/http"
	"strconv"

	"gamehub/gateway"
	"gamehub/middleware"
	"gamehub/models"

	"github.com/gin-gonic/gin"
)

func (h *Handler) GameImage(c *gin.Context) {
	id, ok := gameID(c)
	if !ok {
		return
	}
	h.image(c, gateway.GameImage, id)
}

func (h *Handler) UserImage(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user id"})
		return
	}
	h.image(c, gateway.UserImage, uint(id))
}

func (h *Handler) image(c *gin.Context, owner gateway.ImageOwner, id uint) {
	img, err := h.api.GetImage(c.Request.Context(), owner, id)
	if err != nil {
		if isNotFound(err) {
			c.JSON(http.StatusNotFound, gin.H{"error": "No image found"})
			return
		}
		h.apiFailure(c, err, false, models.Failure("Failed to load image"))
		return
	}
	c.Header("Cache-Control", "private, max-age=300")
	c.Data(http.StatusOK, img.ContentType, img.Data)
}

// readImage reads a raw image request body.
func readImage(c *gin.Context) (*gateway.Image, bool) {
	ct, err := imageType(c.ContentType())
	if err != nil {
		notify(c, http.StatusUnsupportedMediaType, models.Failure(err.Error()), nil)
		return nil, false
	}
	data, err := io.ReadAll(io.LimitReader(c.Request.Body, maxUpload+1))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to read image"})
		return nil, false
	}
	if len(data) == 0 || len(data) > maxUpload {
		notify(c, http.StatusRequestEntityTooLarge, models.Failure("Image must be between 1 byte and 5MB"), nil)
		return nil, false
	}
	return &gateway.Image{ContentType: ct, Data: data}, true
}

func (h *Handler) PutGameImage(c *gin.Context) {
	id, ok := gameID(c)
	if !ok {
		return
	}
	img, ok := readImage(c)
	if !ok {
		return
	}
	sess := middleware.CurrentSession(c)

	if err := h.api.PutImage(c.Request.Context(), sess.Token, gateway.GameImage, id, *img); err != nil {
		h.apiFailure(c, err, false, models.Failure("Failed to upload game image. Please try again."))
		return
	}
	notify(c, http.StatusOK, models.Success("Game image updated"), nil)
}

func (h *Handler) PutAvatar(c *gin.Context) {
	img, ok := readImage(c)
	if !ok {
		return
	}
	sess := middleware.CurrentSession(c)

	if err := h.api.PutImage(c.Request.Context(), sess.Token, gateway.UserImage, sess.UserID, *img); err != nil {
		h.apiFailure(c, err, true, models.Failure("Failed to upload profile picture. Please try again."))
		return
	}
	notify(c, http.StatusOK, models.Success("Avatar updated"), nil)
}

func (h *Handler) DeleteAvatar(c *gin.Context) {
	sess := middleware.CurrentSession(c)

	err := h.api.DeleteImage(c.Request.Context(), sess.Token, gateway.UserImage, sess.UserID)
	switch {
	case err == nil:
		notify(c, http.StatusOK, models.Success("Avatar removed"), nil)
	case isNotFound(err):
		// A missing avatar is not a missing session.
		notify(c, http.StatusNotFound, models.Failure("No user avatar found"), nil)
	default:
		h.apiFailure(c, err, true, models.Failure("Failed to remove avatar"))
	}
}
