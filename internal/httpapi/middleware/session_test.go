package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/surajislam/Hean/internal/session"
)

func setupRouter(t *testing.T) (*gin.Engine, *session.Store) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	store := session.NewStore(time.Minute)

	r := gin.New()
	r.Use(Sessions(store))
	r.GET("/user", RequireUser(), func(c *gin.Context) {
		sess, _ := FromContext(c)
		c.String(http.StatusOK, sess.UserName)
	})
	r.GET("/admin", RequireAdmin(), func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})
	return r, store
}

func get(r *gin.Engine, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.AddCookie(&http.Cookie{Name: session.CookieName, Value: token})
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRequireUser(t *testing.T) {
	r, store := setupRouter(t)

	t.Run("no cookie", func(t *testing.T) {
		assert.Equal(t, http.StatusUnauthorized, get(r, "/user", "").Code)
	})

	t.Run("unknown token", func(t *testing.T) {
		assert.Equal(t, http.StatusUnauthorized, get(r, "/user", "bogus").Code)
	})

	t.Run("valid user session", func(t *testing.T) {
		token := store.Create(session.Session{UserHash: "HASH00000001", UserName: "Ann"})
		w := get(r, "/user", token)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "Ann", w.Body.String())
	})

	t.Run("admin session is not a user session", func(t *testing.T) {
		token := store.Create(session.Session{Admin: true, AdminUser: "rxprime"})
		assert.Equal(t, http.StatusUnauthorized, get(r, "/user", token).Code)
	})
}

func TestRequireAdmin(t *testing.T) {
	r, store := setupRouter(t)

	t.Run("user session rejected", func(t *testing.T) {
		token := store.Create(session.Session{UserHash: "HASH00000001"})
		assert.Equal(t, http.StatusUnauthorized, get(r, "/admin", token).Code)
	})

	t.Run("admin session accepted", func(t *testing.T) {
		token := store.Create(session.Session{Admin: true})
		assert.Equal(t, http.StatusOK, get(r, "/admin", token).Code)
	})
}
