// internal/storage/postgres/postgres.go
package postgres

import (
	"context"
	"errors"
	"fmt"

	"savings-tracker/internal/domain"
	"savings-tracker/internal/storage"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// DB is the subset of *pgxpool.Pool the store uses.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	Begin(ctx context.Context) (pgx.Tx, error)
}

var _ DB = (*pgxpool.Pool)(nil)

type Storage struct {
	db DB
}

var _ storage.Storage = (*Storage)(nil)

func NewStorage(db DB) *Storage {
	return &Storage{db: db}
}

// === SavingStorage ===

func (s *Storage) InsertSaving(ctx context.Context, entry domain.SavingEntry) (domain.SavingEntry, error) {
	entry.ID = uuid.NewString()

	_, err := s.db.Exec(ctx, `
		INSERT INTO savings (id, user_id, amount, category, date)
		VALUES ($1, $2, $3::numeric, $4, $5)
	`, entry.ID, entry.UserID, entry.Amount.String(), entry.Category, entry.Date)
	if err != nil {
		return domain.SavingEntry{}, fmt.Errorf("insert saving: %w", err)
	}
	return entry, nil
}

func (s *Storage) ListSavings(ctx context.Context, userID int64) ([]domain.SavingEntry, error) {
	rows, err := s.db.Query(ctx, `
		SELECT id::text, user_id, amount::text, category, date
		FROM savings
		WHERE user_id = $1
		ORDER BY date DESC
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("query savings: %w", err)
	}
	defer rows.Close()

	out := []domain.SavingEntry{}
	for rows.Next() {
		var (
			e      domain.SavingEntry
			amount string
		)
		if err := rows.Scan(&e.ID, &e.UserID, &amount, &e.Category, &e.Date); err != nil {
			return nil, fmt.Errorf("scan saving: %w", err)
		}
		if e.Amount, err = decimal.NewFromString(amount); err != nil {
			return nil, fmt.Errorf("parse amount %q: %w", amount, err)
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate savings: %w", err)
	}
	return out, nil
}

// === BadgeStorage ===

func (s *Storage) InsertBadges(ctx context.Context, badges []domain.Badge) (_ []domain.Badge, err error) {
	if len(badges) == 0 {
		return []domain.Badge{}, nil
	}

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		}
	}()

	inserted := make([]domain.Badge, 0, len(badges))
	for _, b := range badges {
		b.ID = uuid.NewString()
		var id string
		err = tx.QueryRow(ctx, `
			INSERT INTO badges (id, user_id, type, name, description, icon, earned_date)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
			ON CONFLICT (user_id, type) DO NOTHING
			RETURNING id::text
		`, b.ID, b.UserID, string(b.Type), b.Name, b.Description, b.Icon, b.EarnedDate).Scan(&id)
		if errors.Is(err, pgx.ErrNoRows) {
			// already awarded by a concurrent request
			err = nil
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("insert badge %s: %w", b.Type, err)
		}
		inserted = append(inserted, b)
	}

	if err = tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit badges: %w", err)
	}
	return inserted, nil
}

func (s *Storage) ListBadges(ctx context.Context, userID int64) ([]domain.Badge, error) {
	rows, err := s.db.Query(ctx, `
		SELECT id::text, user_id, type, name, COALESCE(description, ''), COALESCE(icon, ''), earned_date
		FROM badges
		WHERE user_id = $1
		ORDER BY earned_date DESC
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("query badges: %w", err)
	}
	defer rows.Close()

	out := []domain.Badge{}
	for rows.Next() {
		var (
			b     domain.Badge
			btype string
		)
		if err := rows.Scan(&b.ID, &b.UserID, &btype, &b.Name, &b.Description, &b.Icon, &b.EarnedDate); err != nil {
			return nil, fmt.Errorf("scan badge: %w", err)
		}
		b.Type = domain.BadgeType(btype)
		out = append(out, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate badges: %w", err)
	}
	return out, nil
}
