// internal/savings/service.go
package savings

import (
	"context"
	"time"

	"savings-tracker/internal/badge"
	"savings-tracker/internal/domain"
	"savings-tracker/internal/storage"

	"go.uber.org/zap"
)

// BadgeDispatcher persists newly qualified badges and notifies the owner.
type BadgeDispatcher interface {
	Dispatch(ctx context.Context, userID int64, descriptors []domain.BadgeDescriptor) ([]domain.Badge, error)
}

type AppendInput struct {
	UserID   int64
	Amount   string
	Category string
	Date     *time.Time
}

type AppendResult struct {
	Saving    domain.SavingEntry
	NewBadges []domain.Badge
}

type Service struct {
	store      storage.Storage
	dispatcher BadgeDispatcher
	log        *zap.Logger
	now        func() time.Time
}

// NewService uses now for entry timestamps and as the evaluator's current month.
func NewService(store storage.Storage, dispatcher BadgeDispatcher, log *zap.Logger, now func() time.Time) *Service {
	if now == nil {
		now = time.Now
	}
	return &Service{store: store, dispatcher: dispatcher, log: log, now: now}
}

// Append validates and stores a saving, then awards any badges the updated
// ledger qualifies for before returning.
func (s *Service) Append(ctx context.Context, in AppendInput) (AppendResult, error) {
	amount, err := domain.ParseAmount(in.Amount)
	if err != nil {
		return AppendResult{}, err
	}
	category, err := normalizeCategory(in.Category)
	if err != nil {
		return AppendResult{}, err
	}
	now := s.now()
	date := now
	if in.Date != nil && !in.Date.IsZero() {
		date = *in.Date
	}

	saved, err := s.store.InsertSaving(ctx, domain.SavingEntry{
		UserID:   in.UserID,
		Amount:   amount,
		Category: category,
		Date:     date,
	})
	if err != nil {
		return AppendResult{}, domain.NewPersistenceError("insert saving", err)
	}
	s.log.Info("saving added",
		zap.Int64("user_id", in.UserID),
		zap.String("saving_id", saved.ID),
		zap.String("amount", amount.String()),
		zap.String("category", category))

	newBadges, err := s.award(ctx, in.UserID, now)
	if err != nil {
		return AppendResult{}, err
	}
	return AppendResult{Saving: saved, NewBadges: newBadges}, nil
}

func (s *Service) award(ctx context.Context, userID int64, now time.Time) ([]domain.Badge, error) {
	entries, err := s.store.ListSavings(ctx, userID)
	if err != nil {
		return nil, domain.NewPersistenceError("list savings", err)
	}
	existing, err := s.store.ListBadges(ctx, userID)
	if err != nil {
		return nil, domain.NewPersistenceError("list badges", err)
	}

	qualified := badge.Evaluate(entries, domain.Earned(existing), now)
	if len(qualified) == 0 {
		return []domain.Badge{}, nil
	}
	return s.dispatcher.Dispatch(ctx, userID, qualified)
}

func (s *Service) ListEntries(ctx context.Context, userID int64) ([]domain.SavingEntry, error) {
	entries, err := s.store.ListSavings(ctx, userID)
	if err != nil {
		return nil, domain.NewPersistenceError("list savings", err)
	}
	return entries, nil
}

func (s *Service) ListBadges(ctx context.Context, userID int64) ([]domain.Badge, error) {
	badges, err := s.store.ListBadges(ctx, userID)
	if err != nil {
		return nil, domain.NewPersistenceError("list badges", err)
	}
	return badges, nil
}

func (s *Service) Summary(ctx context.Context, userID int64) (badge.Summary, error) {
	entries, err := s.ListEntries(ctx, userID)
	if err != nil {
		return badge.Summary{}, err
	}
	badges, err := s.ListBadges(ctx, userID)
	if err != nil {
		return badge.Summary{}, err
	}
	return badge.Summarize(entries, domain.Earned(badges), s.now()), nil
}
