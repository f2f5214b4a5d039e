package storage

import "context"

func (s *Store) Expenses(ctx context.Context) ([]Expense, error) {
	return ReadCollection[Expense](ctx, s, ExpensesCollection)
}

func (s *Store) AppendExpense(ctx context.Context, e Expense) error {
	return AppendRecord(ctx, s, ExpensesCollection, e)
}

func (s *Store) Budgets(ctx context.Context) ([]Budget, error) {
	return ReadCollection[Budget](ctx, s, BudgetsCollection)
}

// BudgetForMonth returns nil when no budget was saved for month.
func (s *Store) BudgetForMonth(ctx context.Context, month string) (*Budget, error) {
	budgets, err := s.Budgets(ctx)
	if err != nil {
		return nil, err
	}
	for _, b := range budgets {
		if b.Month == month {
			found := b
			return &found, nil
		}
	}
	return nil, nil
}

func (s *Store) UpsertBudget(ctx context.Context, b Budget) error {
	return UpsertByKey(ctx, s, BudgetsCollection, b, func(b Budget) string {
		return b.Month
	})
}

func (s *Store) Notifications(ctx context.Context) ([]Notification, error) {
	return ReadCollection[Notification](ctx, s, NotificationsCollection)
}

func (s *Store) AppendNotification(ctx context.Context, n Notification) error {
	return AppendRecord(ctx, s, NotificationsCollection, n)
}

// MarkNotificationRead flips Read on the notification with id and leaves every
// other record untouched. It reports whether the id exists. Nothing is written
// when the notification is unknown or already read.
func (s *Store) MarkNotificationRead(ctx context.Context, id string) (bool, error) {
	found := false
	err := modify(ctx, s, NotificationsCollection, func(records []Notification) ([]Notification, bool) {
		found = false
		for i := range records {
			if records[i].ID != id {
				continue
			}
			found = true
			if records[i].Read {
				return records, false
			}
			records[i].Read = true
			return records, true
		}
		return records, false
	})
	return found, err
}

func (s *Store) AlertMarkers(ctx context.Context) ([]AlertMarker, error) {
	return ReadCollection[AlertMarker](ctx, s, AlertsCollection)
}

// RaiseAlertLevel stores level as the month's marker if it is higher than the
// stored one and reports whether it did. Callers use the result to decide
// whether an alert still has to be issued.
func (s *Store) RaiseAlertLevel(ctx context.Context, month string, level int) (bool, error) {
	raised := false
	err := modify(ctx, s, AlertsCollection, func(markers []AlertMarker) ([]AlertMarker, bool) {
		raised = false
		for i := range markers {
			if markers[i].Month != month {
				continue
			}
			if markers[i].Level >= level {
				return markers, false
			}
			markers[i].Level = level
			raised = true
			return markers, true
		}
		raised = true
		return append(markers, AlertMarker{Month: month, Level: level}), true
	})
	if err != nil {
		return false, err
	}
	return raised, nil
}

// LowerAlertLevel caps the month's marker at level. A level of zero forgets
// the month, so every alert can be issued again.
func (s *Store) LowerAlertLevel(ctx context.Context, month string, level int) error {
	return modify(ctx, s, AlertsCollection, func(markers []AlertMarker) ([]AlertMarker, bool) {
		kept := markers[:0]
		changed := false
		for _, m := range markers {
			if m.Month != month || m.Level <= level {
				kept = append(kept, m)
				continue
			}
			changed = true
			if level > 0 {
				m.Level = level
				kept = append(kept, m)
			}
		}
		return kept, changed
	})
}
