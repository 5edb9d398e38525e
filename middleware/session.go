package middleware

import (
	"net/http"

	"gamehub/models"
	"gamehub/session"
	"gamehub/utils"

	"github.com/gin-gonic/gin"
)

const sessionKey = "session"

// Sessions loads the browser's session from its signed cookie, starting a
// new anonymous one when the cookie is missing, invalid or unknown.
func Sessions(manager *session.Manager, signer *session.Signer, secure bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()

		var sess *models.ClientSession
		if value, err := c.Cookie(session.CookieName); err == nil {
			if id, err := signer.Parse(value); err == nil {
				sess, _ = manager.Get(ctx, id)
			}
		}

		if sess == nil {
			var err error
			sess, err = manager.Start(ctx)
			if err != nil {
				utils.LogError("Failed to start session", map[string]interface{}{"error": err.Error()})
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Session unavailable"})
				return
			}
			value, err := signer.Sign(sess.ID)
			if err != nil {
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Session unavailable"})
				return
			}
			c.SetSameSite(http.SameSiteLaxMode)
			c.SetCookie(session.CookieName, value, int(signer.TTL().Seconds()), "/", "", secure, true)
		}

		c.Set(sessionKey, sess)
		c.Next()
	}
}

// CurrentSession returns the session loaded by Sessions.
func CurrentSession(c *gin.Context) *models.ClientSession {
	if v, ok := c.Get(sessionKey); ok {
		if sess, ok := v.(*models.ClientSession); ok {
			return sess
		}
	}
	return nil
}

// RequireAuth rejects anonymous sessions and sends the browser to login.
func RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !CurrentSession(c).Authenticated() {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error":    "Please log in",
				"redirect": "/login",
			})
			return
		}
		c.Next()
	}
}
