package handlers

import (
	"net/http"

	"gamehub/middleware"
	"gamehub/models"
	"gamehub/monitoring"
	"gamehub/utils"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

func (h *Handler) RegisterUser(c *gin.Context) {
	sess := middleware.CurrentSession(c)
	if sess.Authenticated() {
		notify(c, http.StatusOK, models.Info("You are already logged in."), gin.H{"redirect": "/home"})
		return
	}

	var input models.RegisterInput
	if !bind(c, &input) {
		return
	}

	userID, err := h.api.Register(c.Request.Context(), input)
	if err != nil {
		h.formFailure(c, err, false, "Registration failed. Please check your inputs.")
		return
	}

	// Registration signs the user straight in.
	result, err := h.api.Login(c.Request.Context(), models.LoginInput{Email: input.Email, Password: input.Password})
	if err != nil {
		utils.Log.WithFields(logrus.Fields{"user_id": userID, "error": err.Error()}).Warn("Login after registration failed")
		notify(c, http.StatusCreated, models.Info("User registered successfully. Please log in."), gin.H{"userId": userID})
		return
	}
	if err := h.signIn(c, result); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save session"})
		return
	}

	notify(c, http.StatusCreated, models.Success("User registered successfully"), gin.H{"userId": result.UserID})
}

func (h *Handler) Login(c *gin.Context) {
	sess := middleware.CurrentSession(c)
	if sess.Authenticated() {
		notify(c, http.StatusOK, models.Info("You are already logged in."), gin.H{"redirect": "/home"})
		return
	}

	var input models.LoginInput
	if !bind(c, &input) {
		return
	}

	result, err := h.api.Login(c.Request.Context(), input)
	if err != nil {
		monitoring.AuthenticationAttempts.WithLabelValues("failure").Inc()
		h.formFailure(c, err, false, "Login failed. Please check your inputs.")
		return
	}
	monitoring.AuthenticationAttempts.WithLabelValues("success").Inc()

	if err := h.signIn(c, result); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save session"})
		return
	}
	notify(c, http.StatusOK, models.Success("User logged in successfully"), gin.H{"userId": result.UserID})
}

// signIn writes the token into the session and pulls the ownership hints
// from the server.
func (h *Handler) signIn(c *gin.Context, result *models.LoginResult) error {
	sess := middleware.CurrentSession(c)
	ctx := c.Request.Context()
	if err := h.sessions.SignIn(ctx, sess, result.UserID, result.Token); err != nil {
		utils.Log.WithError(err).Error("Failed to save session")
		return err
	}
	h.catalog.Forget(sess.ID)
	if err := h.ownership.Sync(ctx, sess); err != nil {
		utils.Log.WithError(err).Warn("Failed to sync ownership hints")
	}
	return nil
}

func (h *Handler) Logout(c *gin.Context) {
	sess := middleware.CurrentSession(c)
	if !sess.Authenticated() {
		notify(c, http.StatusOK, models.Info("You are not logged in."), gin.H{"redirect": "/login"})
		return
	}

	if err := h.api.Logout(c.Request.Context(), sess.Token); err != nil {
		// The local session ends regardless.
		utils.Log.WithError(err).Warn("Remote logout failed")
	}
	// The next request gets a fresh anonymous session.
	if err := h.sessions.Destroy(c.Request.Context(), sess.ID); err != nil {
		utils.Log.WithError(err).Error("Failed to destroy session")
	}
	h.catalog.Forget(sess.ID)
	notify(c, http.StatusOK, models.Success("Logged out successfully"), gin.H{"redirect": "/login"})
}
