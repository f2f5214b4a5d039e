package ledger

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/GustavoCaso/spendwatch/internal/report"
	"github.com/GustavoCaso/spendwatch/internal/storage"
)

// Summary loads the collections in parallel and derives the month's report,
// budget evaluation and chart series. Like the list operations it degrades
// storage failures to empty data; the error is only the context's.
func (s *Service) Summary(ctx context.Context, month string) (Summary, error) {
	if month == "" {
		month = s.CurrentMonth()
	}

	var (
		expenses []storage.Expense
		b        *storage.Budget
		unread   int
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		expenses = s.ListExpenses(gctx)
		return gctx.Err()
	})
	g.Go(func() error {
		b = s.GetBudgetForMonth(gctx, month)
		return gctx.Err()
	})
	g.Go(func() error {
		unread = s.UnreadCount(gctx)
		return gctx.Err()
	})
	if err := g.Wait(); err != nil {
		return Summary{}, err
	}

	monthly := report.FilterByMonth(expenses, month)
	recent := s.recent
	if recent <= 0 {
		recent = report.DefaultRecent
	}

	return Summary{
		Report:              report.Monthly(monthly, month, recent),
		Budget:              b,
		Evaluation:          s.evaluator.Evaluate(month, report.TotalOf(monthly), b),
		Chart:               report.ToChartSeries(report.GroupByCategory(monthly)),
		UnreadNotifications: unread,
	}, nil
}
