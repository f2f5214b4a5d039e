package budget

import (
	"fmt"
	"math"

	"github.com/GustavoCaso/spendwatch/internal/storage"
)

type Status string

const (
	StatusNoBudget    Status = "no_budget"
	StatusUnderBudget Status = "under_budget"
	StatusWarning     Status = "warning"
	StatusExceeded    Status = "exceeded"
)

// AlertKind is ordered by severity so escalation is a plain comparison.
type AlertKind int

const (
	AlertNone AlertKind = iota
	AlertBudgetWarning
	AlertBudgetExceeded
)

func (k AlertKind) String() string {
	switch k {
	case AlertNone:
		return "none"
	case AlertBudgetWarning:
		return "budget_warning"
	case AlertBudgetExceeded:
		return "budget_exceeded"
	default:
		return "unknown"
	}
}

func (k AlertKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

func (k *AlertKind) UnmarshalText(text []byte) error {
	for _, kind := range []AlertKind{AlertNone, AlertBudgetWarning, AlertBudgetExceeded} {
		if kind.String() == string(text) {
			*k = kind
			return nil
		}
	}
	return fmt.Errorf("unknown alert kind %q", text)
}

const (
	DefaultWarningThreshold = 80

	percentageOfTotal = 100
)

type Evaluation struct {
	Month          string         `json:"month"`
	Spent          storage.Amount `json:"spent"`
	Limit          storage.Amount `json:"limit"`
	Remaining      storage.Amount `json:"remaining"`
	UsedPercentage int            `json:"used_percentage"`
	Status         Status         `json:"status"`
	Alert          AlertKind      `json:"alert"`
}

// Evaluator classifies a month's spending against its budget. A zero
// WarningThreshold means DefaultWarningThreshold.
type Evaluator struct {
	WarningThreshold int
}

func (ev Evaluator) threshold() int {
	if ev.WarningThreshold <= 0 {
		return DefaultWarningThreshold
	}
	return ev.WarningThreshold
}

// Evaluate is pure: it reads nothing and records nothing. The warning band
// is compared against the unrounded ratio, so 79.6% is still under budget
// while UsedPercentage reports 80.
func (ev Evaluator) Evaluate(month string, spent storage.Amount, b *storage.Budget) Evaluation {
	if b == nil {
		return Evaluation{
			Month:  month,
			Spent:  spent,
			Status: StatusNoBudget,
			Alert:  AlertNone,
		}
	}

	result := Evaluation{
		Month:     month,
		Spent:     spent,
		Limit:     b.Limit,
		Remaining: b.Limit - spent,
	}

	var ratio float64
	if b.Limit > 0 {
		ratio = float64(spent) / float64(b.Limit) * percentageOfTotal
	}
	result.UsedPercentage = int(math.Round(ratio))

	switch {
	case spent > b.Limit:
		result.Status = StatusExceeded
		result.Alert = AlertBudgetExceeded
	case b.Limit > 0 && ratio >= float64(ev.threshold()):
		result.Status = StatusWarning
		result.Alert = AlertBudgetWarning
	default:
		result.Status = StatusUnderBudget
		result.Alert = AlertNone
	}

	return result
}

// ShouldDispatch reports whether next is more severe than the most severe
// alert already issued for the month.
func ShouldDispatch(issued, next AlertKind) bool {
	return next > issued
}
