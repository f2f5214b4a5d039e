// Package ledger exposes the operations the CLI and the HTTP API call: record
// expenses, manage budgets and notifications, and summarise a month.
package ledger

import (
	"context"
	"time"

	"github.com/GustavoCaso/spendwatch/internal/budget"
	"github.com/GustavoCaso/spendwatch/internal/identifier"
	"github.com/GustavoCaso/spendwatch/internal/logger"
	"github.com/GustavoCaso/spendwatch/internal/notify"
	"github.com/GustavoCaso/spendwatch/internal/report"
	"github.com/GustavoCaso/spendwatch/internal/storage"
	"github.com/GustavoCaso/spendwatch/internal/validate"
)

// ValidationError is returned before anything is persisted when the input
// breaks a record rule.
type ValidationError = validate.ValidationError

type Config struct {
	WarningThreshold int
	Currency         string
	RecentExpenses   int
}

type Service struct {
	store      *storage.Store
	dispatcher *notify.Dispatcher
	evaluator  budget.Evaluator
	messages   notify.Messages
	ids        identifier.Generator
	recent     int
	now        func() time.Time
	logger     *logger.Logger
}

type Option func(*Service)

// WithClock replaces time.Now as the source of default dates and of the
// current month.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

func New(
	store *storage.Store,
	dispatcher *notify.Dispatcher,
	ids identifier.Generator,
	logger *logger.Logger,
	conf Config,
	opts ...Option,
) *Service {
	s := &Service{
		store:      store,
		dispatcher: dispatcher,
		evaluator:  budget.Evaluator{WarningThreshold: conf.WarningThreshold},
		messages:   notify.Messages{Currency: conf.Currency},
		ids:        ids,
		recent:     conf.RecentExpenses,
		now:        time.Now,
		logger:     logger.With("component", "ledger"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Today returns the current date in the expense date layout.
func (s *Service) Today() string {
	return s.now().Format(storage.DateLayout)
}

// CurrentMonth returns the current month in the budget month layout.
func (s *Service) CurrentMonth() string {
	return s.now().Format(storage.MonthLayout)
}

// ResetAllData empties every collection.
func (s *Service) ResetAllData(ctx context.Context) error {
	if err := s.store.ClearAll(ctx); err != nil {
		s.logger.Error("Failed to reset data", "error", err)
		return err
	}
	s.logger.Info("All data removed")
	return nil
}

type Summary struct {
	Report              report.Report       `json:"report"`
	Budget              *storage.Budget     `json:"budget"`
	Evaluation          budget.Evaluation   `json:"evaluation"`
	Chart               []report.ChartEntry `json:"chart"`
	UnreadNotifications int                 `json:"unread_notifications"`
}
