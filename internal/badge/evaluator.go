// internal/badge/evaluator.go
package badge

import (
	"sort"
	"time"

	"savings-tracker/internal/domain"

	"github.com/shopspring/decimal"
)

// Stats is everything the badge rules look at, derived from raw ledger history.
type Stats struct {
	ThisMonth     decimal.Decimal
	Total         decimal.Decimal
	LongestStreak int
	Entries       int
}

// Compute derives Stats from entries. Months are calendar months in now's location.
func Compute(entries []domain.SavingEntry, now time.Time) Stats {
	st := Stats{ThisMonth: decimal.Zero, Total: decimal.Zero, Entries: len(entries)}
	loc := now.Location()
	current := monthIndex(now)

	seen := make(map[int]struct{}, len(entries))
	for _, e := range entries {
		m := monthIndex(e.Date.In(loc))
		seen[m] = struct{}{}
		st.Total = st.Total.Add(e.Amount)
		if m == current {
			st.ThisMonth = st.ThisMonth.Add(e.Amount)
		}
	}

	months := make([]int, 0, len(seen))
	for m := range seen {
		months = append(months, m)
	}
	sort.Ints(months)
	st.LongestStreak = longestRun(months)
	return st
}

// Evaluate returns the catalog badges entries qualify for that are not in earned,
// in catalog order. It has no side effects.
func Evaluate(entries []domain.SavingEntry, earned map[domain.BadgeType]bool, now time.Time) []domain.BadgeDescriptor {
	out := []domain.BadgeDescriptor{}
	if len(entries) == 0 {
		return out
	}
	st := Compute(entries, now)
	for _, d := range Catalog {
		if earned[d.Type] {
			continue
		}
		if qualifies(d.Type, st) {
			out = append(out, d)
		}
	}
	return out
}

func qualifies(t domain.BadgeType, st Stats) bool {
	switch t {
	case domain.SuperSaver:
		return st.ThisMonth.GreaterThanOrEqual(SuperSaverMonthlyTarget)
	case domain.FinanceGuru:
		return st.LongestStreak >= FinanceGuruStreakTarget
	case domain.WealthBuilder:
		return st.Total.GreaterThanOrEqual(WealthBuilderTotalTarget)
	}
	return false
}

// monthIndex maps a date to a month counter where consecutive months differ by one.
func monthIndex(t time.Time) int {
	return t.Year()*12 + int(t.Month()) - 1
}

// longestRun scans the whole sorted list, not only the run ending at the last month.
func longestRun(sorted []int) int {
	if len(sorted) == 0 {
		return 0
	}
	best, run := 1, 1
	for i := 1; i < len(sorted); i++ {
		if sorted[i] == sorted[i-1]+1 {
			run++
		} else {
			run = 1
		}
		if run > best {
			best = run
		}
	}
	return best
}
