package ledger

import (
	"context"
	"strings"

	"github.com/GustavoCaso/spendwatch/internal/budget"
	"github.com/GustavoCaso/spendwatch/internal/report"
	"github.com/GustavoCaso/spendwatch/internal/storage"
	"github.com/GustavoCaso/spendwatch/internal/validate"
)

type ExpenseInput struct {
	Amount   storage.Amount   `json:"amount"`
	Category storage.Category `json:"category"`
	// Date defaults to today when empty.
	Date string `json:"date,omitempty"`
	Note string `json:"note,omitempty"`
}

// RecordExpense validates and appends the expense, then sends the "Expense
// Added" notification and, when the expense falls in the current month,
// checks the current month's budget. Only the
// validation and the expense write can fail the call; notification and
// budget check failures are logged.
func (s *Service) RecordExpense(ctx context.Context, input ExpenseInput) (storage.Expense, error) {
	expense := storage.Expense{
		ID:       s.ids.New(),
		Amount:   input.Amount,
		Category: input.Category,
		Date:     strings.TrimSpace(input.Date),
		Note:     strings.TrimSpace(input.Note),
	}
	if expense.Date == "" {
		expense.Date = s.Today()
	}

	if err := validate.Struct(expense); err != nil {
		return storage.Expense{}, err
	}

	if err := s.store.AppendExpense(ctx, expense); err != nil {
		s.logger.Error("Failed to record expense", "error", err)
		return storage.Expense{}, err
	}

	s.logger.Info("Expense recorded",
		"id", expense.ID,
		"amount", expense.Amount.String(),
		"category", expense.Category,
		"date", expense.Date,
	)

	if _, err := s.dispatcher.Dispatch(ctx, s.messages.ExpenseAdded(expense)); err != nil {
		s.logger.Debug("Expense notification incomplete", "id", expense.ID, "error", err)
	}

	if month := s.CurrentMonth(); expense.Month() == month {
		if err := s.checkBudget(ctx, month); err != nil {
			s.logger.Warn("Budget check failed", "month", month, "error", err)
		}
	}

	return expense, nil
}

// checkBudget evaluates month and dispatches its alert when it escalates the
// month's persisted marker. The marker is raised before dispatching so that
// concurrent checks dispatch a given alert at most once.
func (s *Service) checkBudget(ctx context.Context, month string) error {
	expenses, err := s.store.Expenses(ctx)
	if err != nil {
		return err
	}
	b, err := s.store.BudgetForMonth(ctx, month)
	if err != nil {
		return err
	}

	ev := s.evaluator.Evaluate(month, report.TotalOf(report.FilterByMonth(expenses, month)), b)

	issued, err := s.issuedAlert(ctx, month)
	if err != nil {
		return err
	}
	if !budget.ShouldDispatch(issued, ev.Alert) {
		return nil
	}

	raised, err := s.store.RaiseAlertLevel(ctx, month, int(ev.Alert))
	if err != nil {
		return err
	}
	if !raised {
		return nil
	}

	msg, ok := s.messages.BudgetAlert(ev)
	if !ok {
		return nil
	}

	s.logger.Info("Budget alert", "month", month, "alert", ev.Alert.String(), "used_percentage", ev.UsedPercentage)
	if _, err = s.dispatcher.Dispatch(ctx, msg); err != nil {
		s.logger.Debug("Budget alert notification incomplete", "month", month, "error", err)
	}
	return nil
}

func (s *Service) issuedAlert(ctx context.Context, month string) (budget.AlertKind, error) {
	markers, err := s.store.AlertMarkers(ctx)
	if err != nil {
		return budget.AlertNone, err
	}
	for _, m := range markers {
		if m.Month == month {
			return budget.AlertKind(m.Level), nil
		}
	}
	return budget.AlertNone, nil
}

// ListExpenses returns every expense in recorded order. A storage failure is
// logged and reported as no expenses.
func (s *Service) ListExpenses(ctx context.Context) []storage.Expense {
	expenses, err := s.store.Expenses(ctx)
	if err != nil {
		s.logger.Warn("Failed to load expenses", "error", err)
		return []storage.Expense{}
	}
	return expenses
}

func (s *Service) ListExpensesForMonth(ctx context.Context, month string) []storage.Expense {
	return report.FilterByMonth(s.ListExpenses(ctx), month)
}
