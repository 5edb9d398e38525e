package middleware

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"gamehub/cache"
	"gamehub/models"
	"gamehub/utils"

	"github.com/gin-gonic/gin"
)

// RateLimit caps requests per client IP for one scope, e.g. login attempts.
func RateLimit(c *cache.Cache, scope string, limit int, window time.Duration) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		ip := ctx.ClientIP()
		allowed, remaining := c.Allow(ctx.Request.Context(), scope+":"+ip, limit, window)

		ctx.Header("X-RateLimit-Limit", strconv.Itoa(limit))
		ctx.Header("X-RateLimit-Remaining", strconv.Itoa(remaining))
		ctx.Header("X-RateLimit-Window", window.String())

		if !allowed {
			utils.LogWarn("Rate limit exceeded", map[string]interface{}{"scope": scope, "ip": ip})
			ctx.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error":        "Rate limit exceeded",
				"notification": models.Failure(fmt.Sprintf("Too many attempts. Try again in %v", window)),
			})
			return
		}
		ctx.Next()
	}
}
