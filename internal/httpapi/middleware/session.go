package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/surajislam/Hean/internal/session"
)

// sessionContextKey is where the resolved session is stashed on the gin
// context by Sessions.
const sessionContextKey = "session"

// Sessions resolves the session cookie on every request and stores the
// session on the context when the token is valid. It never rejects; the
// Require* middlewares do that.
func Sessions(store *session.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(session.CookieName)
		if err == nil && token != "" {
			if sess, ok := store.Get(token); ok {
				c.Set(sessionContextKey, sess)
			}
		}
		c.Next()
	}
}

// FromContext returns the session resolved by Sessions, if any.
func FromContext(c *gin.Context) (session.Session, bool) {
	v, ok := c.Get(sessionContextKey)
	if !ok {
		return session.Session{}, false
	}
	return v.(session.Session), true
}

// RequireUser rejects requests without an authenticated user session.
func RequireUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		sess, ok := FromContext(c)
		if !ok || sess.UserHash == "" {
			c.JSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"error":   "Authentication required",
			})
			c.Abort()
			return
		}

		logrus.Debug("user request authenticated")
		c.Next()
	}
}

// RequireAdmin rejects requests without an authenticated admin session.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		sess, ok := FromContext(c)
		if !ok || !sess.Admin {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			c.Abort()
			return
		}

		c.Next()
	}
}
