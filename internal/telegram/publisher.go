// internal/telegram/publisher.go
package telegram

import (
	"context"
	"fmt"
	"strings"

	"savings-tracker/internal/domain"
	"savings-tracker/internal/notify"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

// Sender is the part of *tgbotapi.BotAPI used here.
type Sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// Publisher pushes badge events to the user's private chat.
// Telegram private chat ids equal user ids.
type Publisher struct {
	bot Sender
	log *zap.Logger
}

var _ notify.Publisher = (*Publisher)(nil)

func NewPublisher(bot Sender, log *zap.Logger) *Publisher {
	return &Publisher{bot: bot, log: log}
}

func (p *Publisher) Publish(ctx context.Context, userID int64, event string, payload any) error {
	if event != notify.EventNewBadges {
		return nil
	}
	badges, ok := payload.([]domain.Badge)
	if !ok {
		return fmt.Errorf("telegram: unsupported payload %T", payload)
	}
	if len(badges) == 0 {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	if _, err := p.bot.Send(tgbotapi.NewMessage(userID, FormatNewBadges(badges))); err != nil {
		return &domain.NotificationDeliveryError{UserID: userID, Event: event, Err: err}
	}
	p.log.Debug("badge pushed to telegram", zap.Int64("user_id", userID), zap.Int("badges", len(badges)))
	return nil
}

func FormatNewBadges(badges []domain.Badge) string {
	var b strings.Builder
	if len(badges) == 1 {
		b.WriteString("🎉 New badge earned!\n")
	} else {
		b.WriteString("🎉 New badges earned!\n")
	}
	for _, badge := range badges {
		fmt.Fprintf(&b, "\n%s %s: %s", badge.Icon, badge.Name, badge.Description)
	}
	return b.String()
}
