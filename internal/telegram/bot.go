// internal/telegram/bot.go
package telegram

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"savings-tracker/internal/badge"
	"savings-tracker/internal/domain"
	"savings-tracker/internal/savings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
	"golang.org/x/text/encoding/charmap"
)

const (
	recentEntries  = 10
	handlerTimeout = 15 * time.Second
)

const helpText = "💰 Savings tracker\n\n" +
	"Commands:\n" +
	"/save <amount> [category]: add a saving, e.g. /save 500 Groceries\n" +
	"/savings: your latest savings\n" +
	"/badges: badges you have earned\n" +
	"/summary: totals and progress towards each badge\n" +
	"/help: this message"

type Service interface {
	Append(ctx context.Context, in savings.AppendInput) (savings.AppendResult, error)
	ListEntries(ctx context.Context, userID int64) ([]domain.SavingEntry, error)
	ListBadges(ctx context.Context, userID int64) ([]domain.Badge, error)
	Summary(ctx context.Context, userID int64) (badge.Summary, error)
}

type Bot struct {
	sender Sender
	svc    Service
	loc    *time.Location
	log    *zap.Logger
}

func NewBot(sender Sender, svc Service, loc *time.Location, log *zap.Logger) *Bot {
	if loc == nil {
		loc = time.Local
	}
	return &Bot{sender: sender, svc: svc, loc: loc, log: log}
}

// Run answers updates until ctx is cancelled or the channel closes.
func (b *Bot) Run(ctx context.Context, updates tgbotapi.UpdatesChannel) {
	for {
		select {
		case <-ctx.Done():
			return
		case update, ok := <-updates:
			if !ok {
				return
			}
			if update.Message == nil || update.Message.From == nil {
				continue
			}
			b.reply(ctx, update.Message)
		}
	}
}

func (b *Bot) reply(ctx context.Context, m *tgbotapi.Message) {
	ctx, cancel := context.WithTimeout(ctx, handlerTimeout)
	defer cancel()

	userID := m.From.ID
	text := SanitizeInput(fixEncoding(m.Text))
	b.log.Info("message received", zap.Int64("user_id", userID), zap.String("text", text))

	answer := b.Handle(ctx, userID, text)
	if _, err := b.sender.Send(tgbotapi.NewMessage(m.Chat.ID, answer)); err != nil {
		b.log.Error("failed to send reply", zap.Int64("user_id", userID), zap.Error(err))
	}
}

// Handle runs one command and returns the reply text.
func (b *Bot) Handle(ctx context.Context, userID int64, text string) string {
	cmd, args := splitCommand(text)

	var (
		msg string
		err error
	)
	switch cmd {
	case "/start", "/help":
		msg = helpText
	case "/save":
		msg, err = b.save(ctx, userID, args)
	case "/savings":
		msg, err = b.entries(ctx, userID)
	case "/badges":
		msg, err = b.badges(ctx, userID)
	case "/summary":
		msg, err = b.summary(ctx, userID)
	default:
		msg = "Unknown command. Send /help"
	}

	if err != nil {
		var ve *domain.ValidationError
		if errors.As(err, &ve) {
			return "❌ " + ve.Message
		}
		b.log.Error("command failed", zap.String("command", cmd), zap.Int64("user_id", userID), zap.Error(err))
		return "❌ Something went wrong, try again later"
	}
	return msg
}

func (b *Bot) save(ctx context.Context, userID int64, args []string) (string, error) {
	if len(args) == 0 {
		return "Usage: /save <amount> [category]", nil
	}
	res, err := b.svc.Append(ctx, savings.AppendInput{
		UserID:   userID,
		Amount:   strings.ReplaceAll(args[0], ",", "."),
		Category: strings.Join(args[1:], " "),
	})
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("✅ Saved %s (%s)", res.Saving.Amount.StringFixed(2), res.Saving.Category), nil
}

func (b *Bot) entries(ctx context.Context, userID int64) (string, error) {
	entries, err := b.svc.ListEntries(ctx, userID)
	if err != nil {
		return "", err
	}
	if len(entries) == 0 {
		return "📭 No savings yet. Try /save 100", nil
	}

	lines := []string{"📒 Latest savings"}
	for i, e := range entries {
		if i == recentEntries {
			lines = append(lines, fmt.Sprintf("…and %d more", len(entries)-recentEntries))
			break
		}
		lines = append(lines, fmt.Sprintf("%s  %s  %s",
			e.Date.In(b.loc).Format("2006-01-02"), e.Amount.StringFixed(2), e.Category))
	}
	return strings.Join(lines, "\n"), nil
}

func (b *Bot) badges(ctx context.Context, userID int64) (string, error) {
	badges, err := b.svc.ListBadges(ctx, userID)
	if err != nil {
		return "", err
	}
	if len(badges) == 0 {
		return "No badges yet. Keep saving!", nil
	}

	lines := []string{"🏅 Your badges"}
	for _, bd := range badges {
		lines = append(lines, fmt.Sprintf("%s %s (%s)", bd.Icon, bd.Name, bd.EarnedDate.In(b.loc).Format("2006-01-02")))
	}
	return strings.Join(lines, "\n"), nil
}

func (b *Bot) summary(ctx context.Context, userID int64) (string, error) {
	sum, err := b.svc.Summary(ctx, userID)
	if err != nil {
		return "", err
	}

	lines := []string{
		"📊 Summary",
		"This month: " + sum.ThisMonthTotal.StringFixed(2),
		"Total: " + sum.TotalSavings.StringFixed(2),
		fmt.Sprintf("Longest streak: %d month(s)", sum.LongestStreak),
		"",
	}
	for _, p := range sum.Progress {
		mark := "⬜"
		if p.Earned {
			mark = "✅"
		}
		lines = append(lines, fmt.Sprintf("%s %s %s: %s / %s", mark, p.Icon, p.Name, p.Current.String(), p.Target.String()))
	}
	return strings.Join(lines, "\n"), nil
}

// splitCommand drops a "@botname" suffix from the command word.
func splitCommand(text string) (string, []string) {
	fields := strings.Fields(text)
	if len(fields) == 0 {
		return "", nil
	}
	cmd := strings.ToLower(fields[0])
	if i := strings.IndexByte(cmd, '@'); i > 0 {
		cmd = cmd[:i]
	}
	return cmd, fields[1:]
}

// SanitizeInput collapses any run of whitespace into a single space.
func SanitizeInput(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// fixEncoding repairs text that arrived as windows-1251 bytes.
func fixEncoding(s string) string {
	if utf8.ValidString(s) {
		return s
	}
	fixed, err := charmap.Windows1251.NewDecoder().String(s)
	if err == nil && utf8.ValidString(fixed) {
		return fixed
	}
	return strings.ToValidUTF8(s, "")
}
