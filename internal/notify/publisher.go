// internal/notify/publisher.go
package notify

import (
	"context"
	"errors"
)

// EventNewBadges is pushed to a user's sessions when badges are awarded.
const EventNewBadges = "newBadges"

// Publisher delivers an event to every live session of a user.
// Having no live session is not an error.
type Publisher interface {
	Publish(ctx context.Context, userID int64, event string, payload any) error
}

// Fanout publishes to several publishers and joins their errors.
type Fanout []Publisher

func (f Fanout) Publish(ctx context.Context, userID int64, event string, payload any) error {
	var errs []error
	for _, p := range f {
		if err := p.Publish(ctx, userID, event, payload); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

type nopPublisher struct{}

func (nopPublisher) Publish(context.Context, int64, string, any) error { return nil }

// Nop drops every event.
var Nop Publisher = nopPublisher{}
