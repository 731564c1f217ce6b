package telegram

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"savings-tracker/internal/domain"
	"savings-tracker/internal/notify"
	"savings-tracker/internal/savings"
	"savings-tracker/internal/storage/memory"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/text/encoding/charmap"
)

type fakeSender struct {
	mu   sync.Mutex
	sent []tgbotapi.MessageConfig
	err  error
}

func (f *fakeSender) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return tgbotapi.Message{}, f.err
	}
	if m, ok := c.(tgbotapi.MessageConfig); ok {
		f.sent = append(f.sent, m)
	}
	return tgbotapi.Message{}, nil
}

func (f *fakeSender) messages() []tgbotapi.MessageConfig {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]tgbotapi.MessageConfig(nil), f.sent...)
}

var fixedNow = time.Date(2024, time.June, 15, 12, 0, 0, 0, time.UTC)

func newBot(t *testing.T) (*Bot, *fakeSender) {
	t.Helper()
	store := memory.NewStorage()
	now := func() time.Time { return fixedNow }
	disp := notify.NewDispatcher(store, notify.Nop, zap.NewNop(), notify.WithClock(now))
	svc := savings.NewService(store, disp, zap.NewNop(), now)
	sender := &fakeSender{}
	return NewBot(sender, svc, time.UTC, zap.NewNop()), sender
}

func TestHandle_Help(t *testing.T) {
	b, _ := newBot(t)
	for _, cmd := range []string{"/help", "/start", "/help@SavingsBot"} {
		assert.Equal(t, helpText, b.Handle(context.Background(), 1, cmd), cmd)
	}
	assert.Equal(t, "Unknown command. Send /help", b.Handle(context.Background(), 1, "hello"))
}

func TestHandle_SaveAndList(t *testing.T) {
	b, _ := newBot(t)
	ctx := context.Background()

	assert.Equal(t, "✅ Saved 500.00 (Groceries)", b.Handle(ctx, 7, "/save 500 Groceries"))
	assert.Equal(t, "✅ Saved 12.50 (General)", b.Handle(ctx, 7, "/save 12,5"))

	list := b.Handle(ctx, 7, "/savings")
	assert.Contains(t, list, "2024-06-15  500.00  Groceries")
	assert.Contains(t, list, "12.50  General")

	assert.Equal(t, "📭 No savings yet. Try /save 100", b.Handle(ctx, 8, "/savings"))
}

func TestHandle_SaveRejectsBadAmount(t *testing.T) {
	b, _ := newBot(t)
	ctx := context.Background()

	assert.Equal(t, "Usage: /save <amount> [category]", b.Handle(ctx, 1, "/save"))
	assert.Equal(t, "❌ Please enter a valid amount", b.Handle(ctx, 1, "/save abc"))
	assert.Equal(t, "❌ Amount must be greater than zero", b.Handle(ctx, 1, "/save -10"))
	assert.Equal(t, "❌ Amount is too large", b.Handle(ctx, 1, "/save 1e20000000"))
}

func TestHandle_SaveRejectsLongCategory(t *testing.T) {
	b, _ := newBot(t)
	ctx := context.Background()

	long := strings.Repeat("ab ", 30)
	assert.Equal(t, "❌ Category must be at most 64 characters", b.Handle(ctx, 1, "/save 10 "+long))
	assert.Equal(t, "📭 No savings yet. Try /save 100", b.Handle(ctx, 1, "/savings"))
}

func TestHandle_BadgesAndSummary(t *testing.T) {
	b, _ := newBot(t)
	ctx := context.Background()

	assert.Equal(t, "No badges yet. Keep saving!", b.Handle(ctx, 3, "/badges"))

	b.Handle(ctx, 3, "/save 5000")
	badges := b.Handle(ctx, 3, "/badges")
	assert.Contains(t, badges, "Super Saver")

	sum := b.Handle(ctx, 3, "/summary")
	assert.Contains(t, sum, "This month: 5000.00")
	assert.Contains(t, sum, "Longest streak: 1 month(s)")
	assert.Contains(t, sum, "✅ 🏆 Super Saver")
}

func TestRun_RepliesToChat(t *testing.T) {
	b, sender := newBot(t)
	updates := make(chan tgbotapi.Update, 2)
	updates <- tgbotapi.Update{Message: &tgbotapi.Message{
		From: &tgbotapi.User{ID: 42},
		Chat: &tgbotapi.Chat{ID: 42},
		Text: "  /help  ",
	}}
	updates <- tgbotapi.Update{}
	close(updates)

	b.Run(context.Background(), updates)

	msgs := sender.messages()
	require.Len(t, msgs, 1)
	assert.Equal(t, int64(42), msgs[0].ChatID)
	assert.Equal(t, helpText, msgs[0].Text)
}

func TestRun_StopsOnCancel(t *testing.T) {
	b, _ := newBot(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	done := make(chan struct{})
	go func() {
		b.Run(ctx, make(chan tgbotapi.Update))
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run did not return after cancel")
	}
}

func TestFixEncoding(t *testing.T) {
	cp1251, err := charmap.Windows1251.NewEncoder().String("Продукты")
	require.NoError(t, err)

	assert.Equal(t, "Продукты", fixEncoding(cp1251))
	assert.Equal(t, "plain", fixEncoding("plain"))
}

func TestSanitizeInput(t *testing.T) {
	assert.Equal(t, "/save 100 Food", SanitizeInput("\t/save  100\n Food "))
	assert.Equal(t, "", SanitizeInput("   "))
}

func TestPublisher(t *testing.T) {
	sender := &fakeSender{}
	p := NewPublisher(sender, zap.NewNop())
	ctx := context.Background()

	badges := []domain.Badge{{
		UserID:          9,
		BadgeDescriptor: domain.BadgeDescriptor{Type: domain.SuperSaver, Name: "Super Saver", Description: "Saved 5000 in a month", Icon: "🏆"},
	}}
	require.NoError(t, p.Publish(ctx, 9, notify.EventNewBadges, badges))

	msgs := sender.messages()
	require.Len(t, msgs, 1)
	assert.Equal(t, int64(9), msgs[0].ChatID)
	assert.True(t, strings.HasPrefix(msgs[0].Text, "🎉 New badge earned!"))
	assert.Contains(t, msgs[0].Text, "🏆 Super Saver: Saved 5000 in a month")

	require.NoError(t, p.Publish(ctx, 9, "other", badges))
	require.NoError(t, p.Publish(ctx, 9, notify.EventNewBadges, []domain.Badge{}))
	assert.Len(t, sender.messages(), 1)

	assert.Error(t, p.Publish(ctx, 9, notify.EventNewBadges, "nope"))
}

func TestPublisher_SendFailure(t *testing.T) {
	sender := &fakeSender{err: errors.New("chat not found")}
	p := NewPublisher(sender, zap.NewNop())

	err := p.Publish(context.Background(), 9, notify.EventNewBadges, []domain.Badge{{}})
	var nde *domain.NotificationDeliveryError
	require.ErrorAs(t, err, &nde)
	assert.Equal(t, int64(9), nde.UserID)
}
