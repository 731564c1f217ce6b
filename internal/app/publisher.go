// internal/app/publisher.go
package app

import (
	"errors"
	"fmt"

	"savings-tracker/internal/config"
	"savings-tracker/internal/notify"
	"savings-tracker/internal/telegram"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

// SenderFactory builds a Telegram client from a bot token.
type SenderFactory func(token string) (telegram.Sender, error)

// TelegramSender is the SenderFactory backed by the Bot API.
func TelegramSender(token string) (telegram.Sender, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, err
	}
	return bot, nil
}

// BadgePublisher always includes hub. The Telegram channel is added only when
// cfg.TelegramPush is set, since it addresses chats by user id.
func BadgePublisher(cfg config.Config, hub notify.Publisher, newSender SenderFactory, log *zap.Logger) (notify.Fanout, error) {
	publishers := notify.Fanout{hub}
	if !cfg.TelegramPush {
		if cfg.TelegramBotToken != "" {
			log.Info("telegram badge push disabled, set TELEGRAM_PUSH=true to enable")
		}
		return publishers, nil
	}
	if cfg.TelegramBotToken == "" {
		return nil, errors.New("TELEGRAM_PUSH requires TELEGRAM_BOT_TOKEN")
	}

	sender, err := newSender(cfg.TelegramBotToken)
	if err != nil {
		return nil, fmt.Errorf("init telegram bot: %w", err)
	}
	log.Info("telegram badge push enabled")
	return append(publishers, telegram.NewPublisher(sender, log.Named("telegram"))), nil
}
