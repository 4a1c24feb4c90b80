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

package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/surajislam/Hean/internal/httpapi/handlers"
	"github.com/surajislam/Hean/internal/httpapi/server"
	"github.com/surajislam/Hean/internal/session"
	"github.com/surajislam/Hean/pkg/config"
	"github.com/surajislam/Hean/pkg/registry"
	"github.com/surajislam/Hean/pkg/searchlog"
	"github.com/surajislam/Hean/pkg/telemetry"
)

func main() {
	configPath := flag.String("config", "", "path to config yaml (optional)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		logrus.WithError(err).Fatal("failed to load configuration")
	}

	if cfg.App.Environment != "local" {
		logrus.SetFormatter(&logrus.JSONFormatter{})
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := telemetry.Init(ctx, telemetry.Config{
		ServiceName:    cfg.App.Name,
		ServiceVersion: cfg.App.Version,
		OTLPEndpoint:   cfg.Telemetry.OTLPEndpoint,
		Insecure:       cfg.Telemetry.Insecure,
		Enabled:        cfg.Telemetry.Enabled,
	}); err != nil {
		logrus.WithError(err).Fatal("failed to initialize telemetry")
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := telemetry.Shutdown(shutdownCtx); err != nil {
			logrus.WithError(err).Error("failed to shut down telemetry")
		}
	}()

	metrics, err := telemetry.NewAppMetrics()
	if err != nil {
		logrus.WithError(err).Fatal("failed to register metrics")
	}

	reg, err := registry.NewManager(ctx, cfg.Storage.UsersPath())
	if err != nil {
		logrus.WithError(err).Fatal("failed to open user registry")
	}

	searches, err := searchlog.NewManager(ctx, cfg.Storage.SearchedPath())
	if err != nil {
		logrus.WithError(err).Fatal("failed to open search log")
	}

	sessions := session.NewStore(cfg.Session.TTL)

	h := handlers.NewHandlers(cfg, reg, searches, sessions, metrics)
	srv := server.NewAPIServer(cfg, h, sessions, metrics)

	if err := srv.Run(ctx); err != nil {
		logrus.WithError(err).Fatal("server exited with error")
	}
}
