// internal/domain/models.go
package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

func init() {
	// amounts go over the wire as JSON numbers, not strings
	decimal.MarshalJSONWithoutQuotes = true
}

const DefaultCategory = "General"

// SavingEntry is one append-only ledger line.
type SavingEntry struct {
	ID       string          `json:"id"`
	UserID   int64           `json:"user"`
	Amount   decimal.Decimal `json:"amount"`
	Category string          `json:"category"`
	Date     time.Time       `json:"date"`
}

type BadgeType string

const (
	SuperSaver    BadgeType = "SUPER_SAVER"
	FinanceGuru   BadgeType = "FINANCE_GURU"
	WealthBuilder BadgeType = "WEALTH_BUILDER"
)

func (t BadgeType) Valid() bool {
	switch t {
	case SuperSaver, FinanceGuru, WealthBuilder:
		return true
	}
	return false
}

// BadgeDescriptor is the catalog part of a badge, before it is awarded to anyone.
type BadgeDescriptor struct {
	Type        BadgeType `json:"type"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Icon        string    `json:"icon"`
}

// Badge is an awarded descriptor. One per (UserID, Type), never updated.
type Badge struct {
	ID     string `json:"id"`
	UserID int64  `json:"user"`
	BadgeDescriptor
	EarnedDate time.Time `json:"earnedDate"`
}

// Earned collects the badge types present in badges.
func Earned(badges []Badge) map[BadgeType]bool {
	out := make(map[BadgeType]bool, len(badges))
	for _, b := range badges {
		out[b.Type] = true
	}
	return out
}
