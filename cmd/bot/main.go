// cmd/bot/main.go
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"savings-tracker/internal/app"
	"savings-tracker/internal/config"
	"savings-tracker/internal/logger"
	"savings-tracker/internal/notify"
	"savings-tracker/internal/savings"
	"savings-tracker/internal/telegram"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
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

	if cfg.TelegramBotToken == "" {
		log.Fatal("TELEGRAM_BOT_TOKEN not set")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, closeStore, err := app.OpenStore(ctx, cfg, log)
	if err != nil {
		log.Fatal("failed to open store", zap.String("driver", cfg.StoreDriver), zap.Error(err))
	}
	defer closeStore()

	api, err := tgbotapi.NewBotAPI(cfg.TelegramBotToken)
	if err != nil {
		log.Fatal("failed to init telegram bot", zap.Error(err))
	}
	log.Info("bot started", zap.String("username", api.Self.UserName))

	now := func() time.Time { return time.Now().In(cfg.Location) }
	publisher := telegram.NewPublisher(api, log.Named("telegram"))
	dispatcher := notify.NewDispatcher(store, publisher, log.Named("dispatcher"), notify.WithClock(now))
	svc := savings.NewService(store, dispatcher, log.Named("savings"), now)

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60
	updates := api.GetUpdatesChan(u)

	bot := telegram.NewBot(api, svc, cfg.Location, log.Named("bot"))
	bot.Run(ctx, updates)

	api.StopReceivingUpdates()
	log.Info("bot stopped")
}
