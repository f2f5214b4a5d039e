// Package notify delivers user-facing alerts and keeps a record of every one
// of them in the notifications collection.
package notify

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/GustavoCaso/spendwatch/internal/identifier"
	"github.com/GustavoCaso/spendwatch/internal/logger"
	"github.com/GustavoCaso/spendwatch/internal/storage"
)

// Channel shows a notification to the user. Implementations must be safe for
// concurrent use.
type Channel interface {
	Deliver(ctx context.Context, title, body string) error
}

// DeliveryError reports that a channel could not show a notification. The
// notification record is persisted regardless.
type DeliveryError struct {
	Channel string
	Err     error
}

func (e *DeliveryError) Error() string {
	return fmt.Sprintf("deliver notification via %s: %v", e.Channel, e.Err)
}

func (e *DeliveryError) Unwrap() error {
	return e.Err
}

type Message struct {
	Title string
	Body  string
}

type Dispatcher struct {
	store   *storage.Store
	channel Channel
	ids     identifier.Generator
	now     func() time.Time
	logger  *logger.Logger
}

type Option func(*Dispatcher)

// WithClock replaces time.Now as the source of notification dates.
func WithClock(now func() time.Time) Option {
	return func(d *Dispatcher) {
		d.now = now
	}
}

func NewDispatcher(
	store *storage.Store,
	channel Channel,
	ids identifier.Generator,
	logger *logger.Logger,
	opts ...Option,
) *Dispatcher {
	if channel == nil {
		channel = Discard{}
	}
	d := &Dispatcher{
		store:   store,
		channel: channel,
		ids:     ids,
		now:     time.Now,
		logger:  logger.With("component", "notify", "channel", channelName(channel)),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Dispatch delivers msg through the channel and then appends the notification
// record, even when delivery failed. The returned notification is the record
// that was built; a non-nil error joins a *DeliveryError and/or a
// *storage.PersistenceError and is informational for callers.
func (d *Dispatcher) Dispatch(ctx context.Context, msg Message) (storage.Notification, error) {
	n := storage.Notification{
		ID:    d.ids.New(),
		Title: msg.Title,
		Body:  msg.Body,
		Date:  storage.FormatNotificationDate(d.now()),
		Read:  false,
	}

	var deliveryErr error
	if err := d.channel.Deliver(ctx, n.Title, n.Body); err != nil {
		deliveryErr = &DeliveryError{Channel: channelName(d.channel), Err: err}
		d.logger.Warn("Failed to deliver notification", "id", n.ID, "title", n.Title, "error", err)
	}

	persistErr := d.store.AppendNotification(ctx, n)
	if persistErr != nil {
		d.logger.Error("Failed to persist notification", "id", n.ID, "title", n.Title, "error", persistErr)
	} else {
		d.logger.Debug("Notification dispatched", "id", n.ID, "title", n.Title)
	}

	return n, errors.Join(deliveryErr, persistErr)
}

func channelName(c Channel) string {
	if named, ok := c.(interface{ Name() string }); ok {
		return named.Name()
	}
	return fmt.Sprintf("%T", c)
}
