// internal/storage/storage.go
package storage

import (
	"context"

	"savings-tracker/internal/domain"
)

type SavingStorage interface {
	// InsertSaving assigns the ID and returns the stored entry.
	InsertSaving(ctx context.Context, entry domain.SavingEntry) (domain.SavingEntry, error)
	// ListSavings returns a user's entries, newest date first.
	ListSavings(ctx context.Context, userID int64) ([]domain.SavingEntry, error)
}

type BadgeStorage interface {
	// InsertBadges stores badges and returns only those actually inserted:
	// a (user, type) pair that already exists is skipped, not an error.
	InsertBadges(ctx context.Context, badges []domain.Badge) ([]domain.Badge, error)
	// ListBadges returns a user's badges, most recently earned first.
	ListBadges(ctx context.Context, userID int64) ([]domain.Badge, error)
}

type Storage interface {
	SavingStorage
	BadgeStorage
}
