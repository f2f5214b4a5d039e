package ledger

import (
	"context"

	"github.com/GustavoCaso/spendwatch/internal/report"
	"github.com/GustavoCaso/spendwatch/internal/storage"
	"github.com/GustavoCaso/spendwatch/internal/validate"
)

// SetBudget saves b as the budget of its month, replacing any previous one.
// The month's escalation marker is lowered to the alert the month has under
// the new limit, so a raised limit can alert again while re-saving the same
// limit does not repeat an alert.
func (s *Service) SetBudget(ctx context.Context, b storage.Budget) error {
	if err := validate.Struct(b); err != nil {
		return err
	}

	if err := s.store.UpsertBudget(ctx, b); err != nil {
		s.logger.Error("Failed to save budget", "month", b.Month, "error", err)
		return err
	}

	if err := s.settleAlertLevel(ctx, b); err != nil {
		s.logger.Warn("Failed to update budget alerts", "month", b.Month, "error", err)
	}

	s.logger.Info("Budget saved", "month", b.Month, "limit", b.Limit.String())
	return nil
}

func (s *Service) settleAlertLevel(ctx context.Context, b storage.Budget) error {
	expenses, err := s.store.Expenses(ctx)
	if err != nil {
		return err
	}
	ev := s.evaluator.Evaluate(b.Month, report.TotalOf(report.FilterByMonth(expenses, b.Month)), &b)
	return s.store.LowerAlertLevel(ctx, b.Month, int(ev.Alert))
}

// GetBudgetForMonth returns nil when month has no budget or the budgets
// cannot be read.
func (s *Service) GetBudgetForMonth(ctx context.Context, month string) *storage.Budget {
	b, err := s.store.BudgetForMonth(ctx, month)
	if err != nil {
		s.logger.Warn("Failed to load budget", "month", month, "error", err)
		return nil
	}
	return b
}

func (s *Service) CurrentBudget(ctx context.Context) *storage.Budget {
	return s.GetBudgetForMonth(ctx, s.CurrentMonth())
}
