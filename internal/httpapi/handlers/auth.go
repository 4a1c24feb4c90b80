package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/surajislam/Hean/internal/httpapi/middleware"
	"github.com/surajislam/Hean/internal/session"
	"github.com/surajislam/Hean/pkg/registry"
)

type signupRequest struct {
	Name string `json:"name"`
}

type loginRequest struct {
	HashCode string `json:"hash_code"`
}

// Signup creates an account and returns the generated hash code. This is
// the only time the code is shown to the user.
func (h *Handlers) Signup(c *gin.Context) {
	var req signupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid request body"})
		return
	}

	user, err := h.registry.CreateUser(c.Request.Context(), req.Name)
	if err != nil {
		if errors.Is(err, registry.ErrValidation) {
			c.JSON(http.StatusBadRequest, gin.H{
				"success": false,
				"error":   "Please enter a valid name (min 2 chars)",
			})
			return
		}
		logrus.WithError(err).Error("failed to create user")
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Internal error"})
		return
	}

	if h.metrics != nil {
		h.metrics.UsersCreated.Inc(c.Request.Context())
	}
	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"hash_code": user.HashCode,
		"name":      user.Name,
	})
}

// Login authenticates a hash code and opens a session. The error body never
// distinguishes an unknown code from a malformed one.
func (h *Handlers) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid request body"})
		return
	}
	if req.HashCode == "" {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Enter your hash code"})
		return
	}

	user, err := h.registry.Authenticate(c.Request.Context(), req.HashCode)
	if err != nil {
		if errors.Is(err, registry.ErrNotFound) || errors.Is(err, registry.ErrValidation) {
			c.JSON(http.StatusUnauthorized, gin.H{"success": false, "error": "Invalid hash code"})
			return
		}
		logrus.WithError(err).Error("failed to authenticate user")
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Internal error"})
		return
	}

	token := h.sessions.Create(session.Session{
		UserHash: user.HashCode,
		UserName: user.Name,
	})
	h.setSessionCookie(c, token)

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": fmt.Sprintf("Welcome back, %s!", user.Name),
	})
}

// Logout drops the session and sends the user back to the login page.
func (h *Handlers) Logout(c *gin.Context) {
	if token, err := c.Cookie(session.CookieName); err == nil {
		h.sessions.Delete(token)
	}
	h.clearSessionCookie(c)
	c.Redirect(http.StatusFound, "/login")
}

// Home routes to the dashboard or the login page depending on session
// state.
func (h *Handlers) Home(c *gin.Context) {
	if sess, ok := middleware.FromContext(c); ok && sess.UserHash != "" {
		c.Redirect(http.StatusFound, "/dashboard")
		return
	}
	c.Redirect(http.StatusFound, "/login")
}

func (h *Handlers) LoginPage(c *gin.Context) {
	if sess, ok := middleware.FromContext(c); ok && sess.UserHash != "" {
		c.Redirect(http.StatusFound, "/")
		return
	}
	c.HTML(http.StatusOK, "login.html", nil)
}

// Dashboard renders the search page. The balance is re-read on every view
// so an admin top-up shows up on refresh.
func (h *Handlers) Dashboard(c *gin.Context) {
	sess, ok := middleware.FromContext(c)
	if !ok || sess.UserHash == "" {
		c.Redirect(http.StatusFound, "/login")
		return
	}

	balance := 0
	if user, err := h.registry.Authenticate(c.Request.Context(), sess.UserHash); err == nil {
		balance = user.Balance
	}

	c.HTML(http.StatusOK, "index.html", gin.H{
		"UserName": sess.UserName,
		"Balance":  balance,
	})
}
