package middleware

import (
	"crypto/rand"
	"encoding/base64"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/hashicorp/golang-lru/v2/expirable"
)

const CSRFHeader = "X-CSRF-Token"

// CSRFStore issues tokens and remembers them until they expire.
type CSRFStore struct {
	tokens *expirable.LRU[string, time.Time]
	ttl    time.Duration
}

func NewCSRFStore(size int, ttl time.Duration) *CSRFStore {
	return &CSRFStore{
		tokens: expirable.NewLRU[string, time.Time](size, nil, ttl),
		ttl:    ttl,
	}
}

// Issue generates a new CSRF token
func (s *CSRFStore) Issue() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	token := base64.URLEncoding.EncodeToString(b)
	s.tokens.Add(token, time.Now())
	return token, nil
}

func (s *CSRFStore) Valid(token string) bool {
	if token == "" {
		return false
	}
	_, ok := s.tokens.Get(token)
	return ok
}

// CSRFProtection validates tokens on state-changing methods. Login and
// register are exempt since the browser has no token yet.
func CSRFProtection(store *CSRFStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		switch c.Request.Method {
		case http.MethodGet, http.MethodHead, http.MethodOptions:
			c.Next()
			return
		}

		if c.FullPath() == "/login" || c.FullPath() == "/register" {
			c.Next()
			return
		}

		token := c.GetHeader(CSRFHeader)
		if token == "" {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "CSRF token missing"})
			return
		}
		if !store.Valid(token) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Invalid or expired CSRF token"})
			return
		}
		c.Next()
	}
}

// CSRFTokenHandler hands out a fresh token.
func CSRFTokenHandler(store *CSRFStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := store.Issue()
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to issue CSRF token"})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"csrf_token": token,
			"expires_in": int(store.ttl.Seconds()),
		})
	}
}
