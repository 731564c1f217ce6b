// internal/badge/catalog.go
package badge

import (
	"savings-tracker/internal/domain"

	"github.com/shopspring/decimal"
)

var (
	SuperSaverMonthlyTarget  = decimal.NewFromInt(5000)
	WealthBuilderTotalTarget = decimal.NewFromInt(50000)
	FinanceGuruStreakTarget  = 3
)

// Catalog lists every badge in evaluation order.
var Catalog = []domain.BadgeDescriptor{
	{
		Type:        domain.SuperSaver,
		Name:        "Super Saver",
		Description: "Saved ₹5000 in a month",
		Icon:        "🏆",
	},
	{
		Type:        domain.FinanceGuru,
		Name:        "Finance Guru",
		Description: "Maintained a 3-month saving streak",
		Icon:        "📈",
	},
	{
		Type:        domain.WealthBuilder,
		Name:        "Wealth Builder",
		Description: "Saved ₹50,000 in total",
		Icon:        "💰",
	},
}

func Lookup(t domain.BadgeType) (domain.BadgeDescriptor, bool) {
	for _, d := range Catalog {
		if d.Type == t {
			return d, true
		}
	}
	return domain.BadgeDescriptor{}, false
}
