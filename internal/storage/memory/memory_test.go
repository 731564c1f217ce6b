package memory

import (
	"context"
	"sync"
	"testing"
	"time"

	"savings-tracker/internal/domain"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSavings_InsertAndListNewestFirst(t *testing.T) {
	s := NewStorage()
	ctx := context.Background()
	base := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)

	for i, amt := range []int64{10, 20, 30} {
		e, err := s.InsertSaving(ctx, domain.SavingEntry{
			UserID: 1, Amount: decimal.NewFromInt(amt), Category: "General", Date: base.AddDate(0, i, 0),
		})
		require.NoError(t, err)
		assert.NotEmpty(t, e.ID)
	}
	_, err := s.InsertSaving(ctx, domain.SavingEntry{UserID: 2, Amount: decimal.NewFromInt(1), Date: base})
	require.NoError(t, err)

	got, err := s.ListSavings(ctx, 1)
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.True(t, got[0].Amount.Equal(decimal.NewFromInt(30)))
	assert.True(t, got[2].Amount.Equal(decimal.NewFromInt(10)))

	empty, err := s.ListSavings(ctx, 99)
	require.NoError(t, err)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)
}

func TestBadges_UniquePerUserAndType(t *testing.T) {
	s := NewStorage()
	ctx := context.Background()
	now := time.Now()

	b := domain.Badge{UserID: 1, BadgeDescriptor: domain.BadgeDescriptor{Type: domain.SuperSaver}, EarnedDate: now}
	inserted, err := s.InsertBadges(ctx, []domain.Badge{b, b})
	require.NoError(t, err)
	require.Len(t, inserted, 1)
	assert.NotEmpty(t, inserted[0].ID)

	inserted, err = s.InsertBadges(ctx, []domain.Badge{b})
	require.NoError(t, err)
	assert.Empty(t, inserted)

	other := b
	other.UserID = 2
	inserted, err = s.InsertBadges(ctx, []domain.Badge{other})
	require.NoError(t, err)
	assert.Len(t, inserted, 1)
}

func TestBadges_ListMostRecentFirst(t *testing.T) {
	s := NewStorage()
	ctx := context.Background()
	t0 := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	_, err := s.InsertBadges(ctx, []domain.Badge{
		{UserID: 1, BadgeDescriptor: domain.BadgeDescriptor{Type: domain.SuperSaver}, EarnedDate: t0},
		{UserID: 1, BadgeDescriptor: domain.BadgeDescriptor{Type: domain.WealthBuilder}, EarnedDate: t0.Add(time.Hour)},
	})
	require.NoError(t, err)

	got, err := s.ListBadges(ctx, 1)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, domain.WealthBuilder, got[0].Type)
}

func TestBadges_ConcurrentInsertKeepsOne(t *testing.T) {
	s := NewStorage()
	ctx := context.Background()
	b := domain.Badge{UserID: 1, BadgeDescriptor: domain.BadgeDescriptor{Type: domain.FinanceGuru}, EarnedDate: time.Now()}

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = s.InsertBadges(ctx, []domain.Badge{b})
		}()
	}
	wg.Wait()

	got, err := s.ListBadges(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, got, 1)
}

func TestCanceledContext(t *testing.T) {
	s := NewStorage()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := s.InsertSaving(ctx, domain.SavingEntry{UserID: 1})
	assert.ErrorIs(t, err, context.Canceled)
	_, err = s.ListBadges(ctx, 1)
	assert.ErrorIs(t, err, context.Canceled)
}
