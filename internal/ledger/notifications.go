package ledger

import (
	"cmp"
	"context"
	"slices"

	"github.com/GustavoCaso/spendwatch/internal/storage"
)

// ListNotifications returns every notification in the order it was issued.
// A storage failure is logged and reported as no notifications.
func (s *Service) ListNotifications(ctx context.Context) []storage.Notification {
	notifications, err := s.store.Notifications(ctx)
	if err != nil {
		s.logger.Warn("Failed to load notifications", "error", err)
		return []storage.Notification{}
	}
	return notifications
}

// NotificationHistory returns the notifications newest first.
func (s *Service) NotificationHistory(ctx context.Context) []storage.Notification {
	notifications := s.ListNotifications(ctx)
	slices.Reverse(notifications)
	slices.SortStableFunc(notifications, func(a, b storage.Notification) int {
		return cmp.Compare(b.Date, a.Date)
	})
	return notifications
}

func (s *Service) UnreadCount(ctx context.Context) int {
	count := 0
	for _, n := range s.ListNotifications(ctx) {
		if !n.Read {
			count++
		}
	}
	return count
}

// MarkNotificationRead sets Read on the notification with id. An unknown id
// is not an error and leaves the collection untouched.
func (s *Service) MarkNotificationRead(ctx context.Context, id string) error {
	found, err := s.store.MarkNotificationRead(ctx, id)
	if err != nil {
		s.logger.Error("Failed to mark notification read", "id", id, "error", err)
		return err
	}
	if !found {
		s.logger.Debug("Notification not found", "id", id)
	}
	return nil
}
