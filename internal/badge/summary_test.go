package badge

import (
	"testing"
	"time"

	"savings-tracker/internal/domain"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSummarize(t *testing.T) {
	es := []domain.SavingEntry{
		entry("1200", now),
		entry("800", month(2026, time.September)),
	}
	earned := map[domain.BadgeType]bool{domain.WealthBuilder: true}

	sum := Summarize(es, earned, now)

	assert.True(t, sum.ThisMonthTotal.Equal(decimal.NewFromInt(1200)))
	assert.True(t, sum.TotalSavings.Equal(decimal.NewFromInt(2000)))
	assert.Equal(t, 2, sum.LongestStreak)
	assert.Equal(t, 2, sum.EntryCount)
	assert.Equal(t, []domain.BadgeType{domain.WealthBuilder}, sum.Earned)

	require.Len(t, sum.Progress, len(Catalog))
	assert.Equal(t, domain.SuperSaver, sum.Progress[0].Type)
	assert.True(t, sum.Progress[0].Target.Equal(SuperSaverMonthlyTarget))
	assert.True(t, sum.Progress[1].Current.Equal(decimal.NewFromInt(2)))
	assert.True(t, sum.Progress[2].Earned)
}

func TestSummarize_Empty(t *testing.T) {
	sum := Summarize(nil, nil, now)
	assert.True(t, sum.TotalSavings.IsZero())
	assert.Equal(t, 0, sum.LongestStreak)
	assert.NotNil(t, sum.Earned)
	assert.Len(t, sum.Progress, 3)
}
