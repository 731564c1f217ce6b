// internal/badge/summary.go
package badge

import (
	"time"

	"savings-tracker/internal/domain"

	"github.com/shopspring/decimal"
)

type Progress struct {
	Type    domain.BadgeType `json:"type"`
	Name    string           `json:"name"`
	Icon    string           `json:"icon"`
	Current decimal.Decimal  `json:"current"`
	Target  decimal.Decimal  `json:"target"`
	Earned  bool             `json:"earned"`
}

type Summary struct {
	ThisMonthTotal decimal.Decimal    `json:"thisMonthTotal"`
	TotalSavings   decimal.Decimal    `json:"totalSavings"`
	LongestStreak  int                `json:"longestStreak"`
	EntryCount     int                `json:"entryCount"`
	Earned         []domain.BadgeType `json:"earned"`
	Progress       []Progress         `json:"progress"`
}

// Summarize reports how far the user is from each badge, using the same Stats as Evaluate.
func Summarize(entries []domain.SavingEntry, earned map[domain.BadgeType]bool, now time.Time) Summary {
	st := Compute(entries, now)
	sum := Summary{
		ThisMonthTotal: st.ThisMonth,
		TotalSavings:   st.Total,
		LongestStreak:  st.LongestStreak,
		EntryCount:     st.Entries,
		Earned:         []domain.BadgeType{},
		Progress:       make([]Progress, 0, len(Catalog)),
	}
	for _, d := range Catalog {
		if earned[d.Type] {
			sum.Earned = append(sum.Earned, d.Type)
		}
		p := Progress{Type: d.Type, Name: d.Name, Icon: d.Icon, Earned: earned[d.Type]}
		switch d.Type {
		case domain.SuperSaver:
			p.Current, p.Target = st.ThisMonth, SuperSaverMonthlyTarget
		case domain.FinanceGuru:
			p.Current, p.Target = decimal.NewFromInt(int64(st.LongestStreak)), decimal.NewFromInt(int64(FinanceGuruStreakTarget))
		case domain.WealthBuilder:
			p.Current, p.Target = st.Total, WealthBuilderTotalTarget
		}
		sum.Progress = append(sum.Progress, p)
	}
	return sum
}
