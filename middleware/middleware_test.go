package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"gamehub/cache"
	"gamehub/session"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newSessionRouter(t *testing.T) (*gin.Engine, *session.Manager, *session.Signer) {
	t.Helper()
	manager := session.NewManager(session.NewMemoryStore())
	signer, err := session.NewSigner("test-secret", time.Hour)
	require.NoError(t, err)

	r := gin.New()
	r.Use(Sessions(manager, signer, false))
	r.GET("/whoami", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"id": CurrentSession(c).ID})
	})
	r.GET("/private", RequireAuth(), func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})
	return r, manager, signer
}

func sessionID(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var body struct{ ID string }
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body.ID
}

func TestSessionsIssuesAndReusesCookie(t *testing.T) {
	r, _, _ := newSessionRouter(t)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/whoami", nil))
	require.Equal(t, http.StatusOK, w.Code)
	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, session.CookieName, cookies[0].Name)
	assert.True(t, cookies[0].HttpOnly)
	first := sessionID(t, w)

	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.AddCookie(cookies[0])
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, first, sessionID(t, w))
	assert.Empty(t, w.Result().Cookies(), "known session keeps its cookie")
}

func TestSessionsReplacesForgedCookie(t *testing.T) {
	r, _, _ := newSessionRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.AddCookie(&http.Cookie{Name: session.CookieName, Value: "forged"})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, w.Result().Cookies(), 1)
}

func TestRequireAuth(t *testing.T) {
	r, manager, signer := newSessionRouter(t)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/private", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), `"redirect":"/login"`)

	ctx := context.Background()
	sess, err := manager.Start(ctx)
	require.NoError(t, err)
	require.NoError(t, manager.SignIn(ctx, sess, 7, "tok"))
	value, err := signer.Sign(sess.ID)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/private", nil)
	req.AddCookie(&http.Cookie{Name: session.CookieName, Value: value})
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestRateLimit(t *testing.T) {
	r := gin.New()
	r.POST("/login", RateLimit(cache.NewMemory(16), "login", 2, time.Minute), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/login", nil))
		codes = append(codes, w.Code)
	}
	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)
}

func TestCSRFProtection(t *testing.T) {
	store := NewCSRFStore(16, time.Hour)
	r := gin.New()
	r.Use(CSRFProtection(store))
	r.GET("/csrf-token", CSRFTokenHandler(store))
	r.POST("/login", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.POST("/games", func(c *gin.Context) { c.Status(http.StatusCreated) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/games", nil))
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/login", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/csrf-token", nil))
	require.Equal(t, http.StatusOK, w.Code)
	var body struct {
		Token string `json:"csrf_token"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))

	req := httptest.NewRequest(http.MethodPost, "/games", nil)
	req.Header.Set(CSRFHeader, body.Token)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusCreated, w.Code)

	req = httptest.NewRequest(http.MethodPost, "/games", nil)
	req.Header.Set(CSRFHeader, "made-up")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestSecurityHeaders(t *testing.T) {
	r := gin.New()
	r.Use(SecurityHeaders())
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, "DENY", w.Header().Get("X-Frame-Options"))
	assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))
	assert.Empty(t, w.Header().Get("Strict-Transport-Security"))
}
