package notify

import (
	"fmt"

	"github.com/GustavoCaso/spendwatch/internal/budget"
	"github.com/GustavoCaso/spendwatch/internal/storage"
)

const (
	TitleExpenseAdded   = "Expense Added"
	TitleBudgetWarning  = "Budget Warning"
	TitleBudgetExceeded = "Budget Exceeded"
)

// Messages builds notification texts with amounts in Currency.
type Messages struct {
	Currency string
}

func (m Messages) money(a storage.Amount) string {
	return fmt.Sprintf("%s %s", m.Currency, a.String())
}

func (m Messages) ExpenseAdded(e storage.Expense) Message {
	return Message{
		Title: TitleExpenseAdded,
		Body:  fmt.Sprintf("You spent %s on %s", m.money(e.Amount), e.Category),
	}
}

func (m Messages) BudgetWarning(ev budget.Evaluation) Message {
	return Message{
		Title: TitleBudgetWarning,
		Body: fmt.Sprintf(
			"You have spent %s, which is %d%% of your monthly budget.",
			m.money(ev.Spent),
			ev.UsedPercentage,
		),
	}
}

func (m Messages) BudgetExceeded(ev budget.Evaluation) Message {
	return Message{
		Title: TitleBudgetExceeded,
		Body: fmt.Sprintf(
			"You have spent %s, which exceeds your budget of %s.",
			m.money(ev.Spent),
			m.money(ev.Limit),
		),
	}
}

// BudgetAlert returns the message for the alert carried by ev, or false when
// ev carries none.
func (m Messages) BudgetAlert(ev budget.Evaluation) (Message, bool) {
	switch ev.Alert {
	case budget.AlertBudgetWarning:
		return m.BudgetWarning(ev), true
	case budget.AlertBudgetExceeded:
		return m.BudgetExceeded(ev), true
	case budget.AlertNone:
		return Message{}, false
	default:
		return Message{}, false
	}
}
