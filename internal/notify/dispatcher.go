// internal/notify/dispatcher.go
package notify

import (
	"context"
	"errors"
	"time"

	"savings-tracker/internal/domain"
	"savings-tracker/internal/storage"

	"go.uber.org/zap"
)

const defaultPublishTimeout = 5 * time.Second

// Dispatcher persists newly qualified badges and pushes them to the owner.
type Dispatcher struct {
	store          storage.BadgeStorage
	publisher      Publisher
	log            *zap.Logger
	now            func() time.Time
	publishTimeout time.Duration
}

type DispatcherOption func(*Dispatcher)

func WithClock(now func() time.Time) DispatcherOption {
	return func(d *Dispatcher) { d.now = now }
}

func WithPublishTimeout(timeout time.Duration) DispatcherOption {
	return func(d *Dispatcher) { d.publishTimeout = timeout }
}

func NewDispatcher(store storage.BadgeStorage, publisher Publisher, log *zap.Logger, opts ...DispatcherOption) *Dispatcher {
	if publisher == nil {
		publisher = Nop
	}
	d := &Dispatcher{
		store:          store,
		publisher:      publisher,
		log:            log,
		now:            time.Now,
		publishTimeout: defaultPublishTimeout,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Dispatch stores the descriptors the user does not own yet and returns the
// badges actually inserted. The push happens in the background; its outcome
// never affects the return value.
func (d *Dispatcher) Dispatch(ctx context.Context, userID int64, descriptors []domain.BadgeDescriptor) ([]domain.Badge, error) {
	if len(descriptors) == 0 {
		return []domain.Badge{}, nil
	}

	// re-check right before writing; another request may have won the race
	existing, err := d.store.ListBadges(ctx, userID)
	if err != nil {
		return nil, domain.NewPersistenceError("list badges", err)
	}
	earned := domain.Earned(existing)

	earnedAt := d.now()
	pending := make([]domain.Badge, 0, len(descriptors))
	for _, desc := range descriptors {
		if earned[desc.Type] {
			continue
		}
		earned[desc.Type] = true
		pending = append(pending, domain.Badge{UserID: userID, BadgeDescriptor: desc, EarnedDate: earnedAt})
	}
	if len(pending) == 0 {
		return []domain.Badge{}, nil
	}

	inserted, err := d.store.InsertBadges(ctx, pending)
	if err != nil {
		return nil, domain.NewPersistenceError("insert badges", err)
	}
	if len(inserted) == 0 {
		return inserted, nil
	}

	d.log.Info("badges awarded",
		zap.Int64("user_id", userID),
		zap.Int("count", len(inserted)))

	go d.publish(userID, inserted)
	return inserted, nil
}

func (d *Dispatcher) publish(userID int64, badges []domain.Badge) {
	ctx, cancel := context.WithTimeout(context.Background(), d.publishTimeout)
	defer cancel()
	defer func() {
		if r := recover(); r != nil {
			d.log.Error("badge publisher panicked",
				zap.Int64("user_id", userID),
				zap.Any("panic", r))
		}
	}()

	if err := d.publisher.Publish(ctx, userID, EventNewBadges, badges); err != nil {
		var nde *domain.NotificationDeliveryError
		if !errors.As(err, &nde) {
			err = &domain.NotificationDeliveryError{UserID: userID, Event: EventNewBadges, Err: err}
		}
		d.log.Warn("badge notification not delivered",
			zap.Int64("user_id", userID),
			zap.Error(err))
	}
}
