package notify

import (
	"context"

	"go.uber.org/multierr"
)

// Notifier delivers a message to a subscriber. Delivery is best effort:
// the dispatcher logs failures but does not retry them.
type Notifier interface {
	Send(ctx context.Context, chatID int64, text string) error
}

// Multi fans a message out to several notifiers and aggregates their
// errors.
type Multi []Notifier

func (m Multi) Send(ctx context.Context, chatID int64, text string) error {
	var err error
	for _, n := range m {
		if n == nil {
			continue
		}
		err = multierr.Append(err, n.Send(ctx, chatID, text))
	}
	return err
}
