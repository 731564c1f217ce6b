// cmd/api/main.go
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"savings-tracker/internal/app"
	"savings-tracker/internal/auth"
	"savings-tracker/internal/config"
	"savings-tracker/internal/handler"
	"savings-tracker/internal/logger"
	"savings-tracker/internal/notify"
	"savings-tracker/internal/savings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	cfg := config.MustLoad()

	log, err := logger.New(logger.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, closeStore, err := app.OpenStore(ctx, cfg, log)
	if err != nil {
		log.Fatal("failed to open store", zap.String("driver", cfg.StoreDriver), zap.Error(err))
	}
	defer closeStore()

	hub := notify.NewHub(log.Named("ws"), cfg.WSAllowedOrigins)
	publishers, err := app.BadgePublisher(cfg, hub, app.TelegramSender, log)
	if err != nil {
		log.Fatal("failed to set up badge publishers", zap.Error(err))
	}

	now := func() time.Time { return time.Now().In(cfg.Location) }
	dispatcher := notify.NewDispatcher(store, publishers, log.Named("dispatcher"), notify.WithClock(now))
	svc := savings.NewService(store, dispatcher, log.Named("savings"), now)
	tokens := auth.NewTokenService(cfg, log)

	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := handler.SetupRouter(handler.RouterDeps{
		Savings: svc,
		Hub:     hub,
		Tokens:  tokens,
		Log:     log,
	})

	srv := &http.Server{
		Addr:              cfg.ServerPort,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info("🚀 server started", zap.String("addr", cfg.ServerPort), zap.String("store", cfg.StoreDriver))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("graceful shutdown failed", zap.Error(err))
	}
}
