// internal/storage/memory/memory.go
package memory

import (
	"context"
	"sort"
	"sync"

	"savings-tracker/internal/domain"
	"savings-tracker/internal/storage"

	"github.com/google/uuid"
)

// Storage keeps everything in process memory. Used by tests and STORE_DRIVER=memory.
type Storage struct {
	mu      sync.RWMutex
	savings map[int64][]domain.SavingEntry
	badges  map[int64][]domain.Badge
}

var _ storage.Storage = (*Storage)(nil)

func NewStorage() *Storage {
	return &Storage{
		savings: make(map[int64][]domain.SavingEntry),
		badges:  make(map[int64][]domain.Badge),
	}
}

func (s *Storage) InsertSaving(ctx context.Context, entry domain.SavingEntry) (domain.SavingEntry, error) {
	if err := ctx.Err(); err != nil {
		return domain.SavingEntry{}, err
	}
	entry.ID = uuid.NewString()

	s.mu.Lock()
	s.savings[entry.UserID] = append(s.savings[entry.UserID], entry)
	s.mu.Unlock()
	return entry, nil
}

func (s *Storage) ListSavings(ctx context.Context, userID int64) ([]domain.SavingEntry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	out := append([]domain.SavingEntry{}, s.savings[userID]...)
	s.mu.RUnlock()

	sort.SliceStable(out, func(i, j int) bool { return out[i].Date.After(out[j].Date) })
	return out, nil
}

func (s *Storage) InsertBadges(ctx context.Context, badges []domain.Badge) ([]domain.Badge, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	inserted := make([]domain.Badge, 0, len(badges))
	for _, b := range badges {
		if s.hasBadge(b.UserID, b.Type) {
			continue
		}
		b.ID = uuid.NewString()
		s.badges[b.UserID] = append(s.badges[b.UserID], b)
		inserted = append(inserted, b)
	}
	return inserted, nil
}

func (s *Storage) hasBadge(userID int64, t domain.BadgeType) bool {
	for _, b := range s.badges[userID] {
		if b.Type == t {
			return true
		}
	}
	return false
}

func (s *Storage) ListBadges(ctx context.Context, userID int64) ([]domain.Badge, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	out := append([]domain.Badge{}, s.badges[userID]...)
	s.mu.RUnlock()

	sort.SliceStable(out, func(i, j int) bool { return out[i].EarnedDate.After(out[j].EarnedDate) })
	return out, nil
}
