package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gravadigital/huddle-api/internal/config"
	"github.com/gravadigital/huddle-api/internal/logger"
	"github.com/gravadigital/huddle-api/internal/recommend"
	"github.com/gravadigital/huddle-api/internal/server"
	"github.com/gravadigital/huddle-api/internal/services"
	"github.com/gravadigital/huddle-api/internal/session"
	"github.com/gravadigital/huddle-api/internal/storage"
	"github.com/gravadigital/huddle-api/internal/storage/objectstore"
)

func main() {
	cfg := config.Load()

	logger.Initialize(cfg.Log.Level)
	log := logger.Get()

	log.Info("Starting Huddle API", "environment", cfg.Server.Environment)

	store, err := storage.DefaultFactory().CreateContainer(cfg)
	if err != nil {
		log.Fatal("Failed to initialize storage", "error", err)
	}
	defer func() {
		if err := store.Close(); err != nil {
			log.Error("Failed to close storage", "error", err)
		}
	}()

	sessions, err := session.NewManager(session.Options{
		Secret:     cfg.Session.Secret,
		CookieName: cfg.Session.CookieName,
		TTL:        cfg.Session.TTL,
		Secure:     cfg.IsProduction(),
	})
	if err != nil {
		log.Fatal("Failed to initialize sessions", "error", err)
	}

	events := services.NewEventService(store, cfg.ShareURL)
	voting := services.NewVotingService(store)

	deps := server.Dependencies{
		Store:    store,
		Events:   events,
		Voting:   voting,
		Places:   recommend.New(cfg.Recommender.BaseURL, cfg.Recommender.Timeout),
		Sessions: sessions,
	}

	if cfg.Storage.Endpoint != "" {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		objects, err := objectstore.New(ctx, cfg)
		cancel()
		if err != nil {
			log.Fatal("Failed to initialize object storage", "error", err)
		}
		deps.Exporter = services.NewExportService(events, objects, cfg.Storage.URLTTL)
	} else {
		log.Warn("MINIO_ENDPOINT is not set, event exports are disabled")
	}

	srv := server.New(cfg, deps)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil {
			log.Error("Server stopped unexpectedly", "error", err)
		}
		return
	case sig := <-quit:
		log.Info("Received shutdown signal", "signal", sig.String())
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Stop(ctx); err != nil {
		log.Error("Server forced to shutdown", "error", err)
	}

	log.Info("Server exited")
}
