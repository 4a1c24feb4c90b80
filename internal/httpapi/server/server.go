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

package server

import (
	"context"
	"embed"
	"fmt"
	"html/template"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/surajislam/Hean/internal/httpapi/handlers"
	"github.com/surajislam/Hean/internal/httpapi/middleware"
	"github.com/surajislam/Hean/internal/session"
	"github.com/surajislam/Hean/pkg/config"
	"github.com/surajislam/Hean/pkg/telemetry"
)

//go:embed templates/*.html
var templatesFS embed.FS

type APIServer struct {
	config *config.AppConfig
	router *gin.Engine
	server *http.Server
}

func NewAPIServer(
	cfg *config.AppConfig,
	h *handlers.Handlers,
	sessions *session.Store,
	metrics *telemetry.AppMetrics,
) *APIServer {
	if cfg.App.Environment == "local" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())
	router.Use(middleware.CORS(&cfg.Server))
	router.Use(middleware.Sessions(sessions))
	if metrics != nil {
		router.Use(middleware.Metrics(metrics))
	}
	router.SetHTMLTemplate(template.Must(template.ParseFS(templatesFS, "templates/*.html")))

	s := &APIServer{
		config: cfg,
		router: router,
	}

	s.setupRoutes(h)
	return s
}

func (s *APIServer) setupRoutes(h *handlers.Handlers) {
	s.router.GET("/", h.Home)
	s.router.GET("/health", h.Health)

	s.router.GET("/login", h.LoginPage)
	s.router.POST("/login", h.Login)
	s.router.POST("/signup", h.Signup)
	s.router.GET("/logout", h.Logout)
	s.router.GET("/dashboard", h.Dashboard)

	s.router.POST("/search", middleware.RequireUser(), h.Search)

	s.router.GET("/admin/login", h.AdminLoginPage)
	s.router.POST("/admin/login", h.AdminLogin)
	s.router.GET("/admin/dashboard", h.AdminDashboard)

	admin := s.router.Group("/admin/api")
	admin.Use(middleware.RequireAdmin())
	admin.GET("/users", h.AdminListUsers)
	admin.POST("/users/:id/add-balance", h.AdminAddBalance)
	admin.GET("/searched-usernames", h.AdminListSearched)
	admin.DELETE("/searched-usernames/:id", h.AdminDeleteSearched)
}

// Router exposes the configured engine, mainly for tests.
func (s *APIServer) Router() http.Handler {
	return s.router
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *APIServer) Run(ctx context.Context) error {
	s.server = &http.Server{
		Addr:    fmt.Sprintf("%s:%d", s.config.Server.Host, s.config.Server.Port),
		Handler: s.router,
	}

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logrus.WithField("address", s.server.Addr).Info("starting http API server")
		if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("failed to start http API server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		logrus.Info("turning down http API server")
		if err := s.server.Shutdown(context.Background()); err != nil {
			return fmt.Errorf("error during HTTP API server shutdown: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return err
	}
	logrus.Info("http API server stopped")
	return nil
}
