/*
Copyright 2025.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/surajislam/Hean/internal/session"
	"github.com/surajislam/Hean/pkg/config"
	"github.com/surajislam/Hean/pkg/registry"
	"github.com/surajislam/Hean/pkg/searchlog"
	"github.com/surajislam/Hean/pkg/telemetry"
)

// Handlers carries the collaborators every route needs. One instance is
// constructed at startup and shared by all requests.
type Handlers struct {
	config   *config.AppConfig
	registry registry.Registry
	searches searchlog.Log
	sessions *session.Store
	metrics  *telemetry.AppMetrics
}

func NewHandlers(
	cfg *config.AppConfig,
	reg registry.Registry,
	searches searchlog.Log,
	sessions *session.Store,
	metrics *telemetry.AppMetrics,
) *Handlers {
	return &Handlers{
		config:   cfg,
		registry: reg,
		searches: searches,
		sessions: sessions,
		metrics:  metrics,
	}
}

func (h *Handlers) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"app":     h.config.App.Name,
		"version": h.config.App.Version,
	})
}

// setSessionCookie binds a session token to the client for the configured
// session lifetime. HttpOnly keeps it away from page scripts.
func (h *Handlers) setSessionCookie(c *gin.Context, token string) {
	c.SetCookie(session.CookieName, token, int(h.sessions.TTL().Seconds()), "/", "", false, true)
}

func (h *Handlers) clearSessionCookie(c *gin.Context) {
	c.SetCookie(session.CookieName, "", -1, "/", "", false, true)
}
