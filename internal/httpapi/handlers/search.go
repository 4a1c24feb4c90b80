package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/surajislam/Hean/internal/httpapi/middleware"
	"github.com/surajislam/Hean/pkg/registry"
	"github.com/surajislam/Hean/pkg/telemetry"
)

type searchRequest struct {
	Username string `json:"username"`
}

// Search looks a username up in the directory. Misses are recorded in the
// search log and answered with the operator-configured message instead of
// a bare error.
func (h *Handlers) Search(c *gin.Context) {
	sess, _ := middleware.FromContext(c)

	var req searchRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Username == "" {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Enter username"})
		return
	}

	ctx := c.Request.Context()

	// Simulated lookup latency.
	if h.config.Search.Delay > 0 {
		select {
		case <-time.After(h.config.Search.Delay):
		case <-ctx.Done():
			return
		}
	}

	result, err := h.registry.SearchPublicInfo(ctx, req.Username)
	if err != nil {
		if !errors.Is(err, registry.ErrNotFound) {
			logrus.WithError(err).Error("search failed")
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Internal error"})
			return
		}

		if addErr := h.searches.Add(ctx, req.Username, sess.UserHash); addErr != nil {
			logrus.WithField("username", req.Username).WithError(addErr).
				Error("failed to log searched username")
		}

		msg, msgErr := h.registry.CustomMessage(ctx)
		if msgErr != nil {
			logrus.WithError(msgErr).Error("failed to read custom message")
		}
		if h.metrics != nil {
			h.metrics.SearchesTotal.Inc(ctx, telemetry.AttrResult.String("not_found"))
		}
		c.JSON(http.StatusOK, gin.H{"success": false, "error": msg})
		return
	}

	if h.metrics != nil {
		h.metrics.SearchesTotal.Inc(ctx, telemetry.AttrResult.String("found"))
	}
	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"user_data": result,
	})
}
