package handlers

import (
	"crypto/subtle"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	"github.com/surajislam/Hean/internal/httpapi/middleware"
	"github.com/surajislam/Hean/internal/session"
)

type adminLoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type addBalanceRequest struct {
	Amount int `json:"amount"`
}

func (h *Handlers) AdminLoginPage(c *gin.Context) {
	c.HTML(http.StatusOK, "admin_login.html", nil)
}

// AdminLogin checks the configured admin credentials and opens an admin
// session. Password verification is bcrypt; the username compare is
// constant-time.
func (h *Handlers) AdminLogin(c *gin.Context) {
	var req adminLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid request body"})
		return
	}

	usernameOK := subtle.ConstantTimeCompare([]byte(req.Username), []byte(h.config.Admin.Username)) == 1
	passwordErr := bcrypt.CompareHashAndPassword([]byte(h.config.Admin.PasswordHash), []byte(req.Password))
	if !usernameOK || passwordErr != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "error": "Invalid admin credentials"})
		return
	}

	token := h.sessions.Create(session.Session{
		Admin:     true,
		AdminUser: req.Username,
	})
	h.setSessionCookie(c, token)

	logrus.WithField("admin", req.Username).Info("admin logged in")
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Admin access granted"})
}

func (h *Handlers) AdminDashboard(c *gin.Context) {
	sess, ok := middleware.FromContext(c)
	if !ok || !sess.Admin {
		c.Redirect(http.StatusFound, "/admin/login")
		return
	}
	c.HTML(http.StatusOK, "admin_dashboard.html", nil)
}

func (h *Handlers) AdminListUsers(c *gin.Context) {
	users, err := h.registry.ListUsers(c.Request.Context())
	if err != nil {
		logrus.WithError(err).Error("failed to list users")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list users"})
		return
	}
	c.JSON(http.StatusOK, users)
}

// AdminAddBalance tops up one user's balance by a positive amount.
func (h *Handlers) AdminAddBalance(c *gin.Context) {
	userID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid user id"})
		return
	}

	var req addBalanceRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Amount <= 0 {
		c.JSON(http.StatusOK, gin.H{"success": false, "error": "Amount must be > 0"})
		return
	}

	ctx := c.Request.Context()
	users, err := h.registry.ListUsers(ctx)
	if err != nil {
		logrus.WithError(err).Error("failed to list users")
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Internal error"})
		return
	}

	for _, u := range users {
		if u.ID != userID {
			continue
		}
		newBalance := u.Balance + req.Amount
		if err := h.registry.UpdateBalance(ctx, u.HashCode, newBalance); err != nil {
			logrus.WithField("user_id", userID).WithError(err).Error("failed to update balance")
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Internal error"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "new_balance": newBalance})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": false, "error": "User not found"})
}

func (h *Handlers) AdminListSearched(c *gin.Context) {
	entries, err := h.searches.List(c.Request.Context())
	if err != nil {
		logrus.WithError(err).Error("failed to list searched usernames")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list searched usernames"})
		return
	}
	c.JSON(http.StatusOK, entries)
}

func (h *Handlers) AdminDeleteSearched(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid id"})
		return
	}

	if err := h.searches.Delete(c.Request.Context(), id); err != nil {
		logrus.WithField("id", id).WithError(err).Error("failed to delete searched username")
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Internal error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}
