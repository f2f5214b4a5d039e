package importutil

import (
	"context"
	"errors"
	"fmt"

	"github.com/GustavoCaso/spendwatch/internal/category"
	"github.com/GustavoCaso/spendwatch/internal/ledger"
	"github.com/GustavoCaso/spendwatch/internal/storage"
)

// Recorder is the part of the ledger an import needs.
type Recorder interface {
	RecordExpense(ctx context.Context, input ledger.ExpenseInput) (storage.Expense, error)
}

// RowError reports a row that could not be imported. Row is 1-based and
// counts data rows only.
type RowError struct {
	Row int
	Err error
}

func (e *RowError) Error() string {
	return fmt.Sprintf("row %d: %v", e.Row, e.Err)
}

func (e *RowError) Unwrap() error {
	return e.Err
}

// Result summarises an import. Imported rows were recorded through the ledger
// and raised the usual notifications.
type Result struct {
	Imported int
	Errors   []error
}

// Import records every row of data as an expense. Rows need an amount and
// either a category or a note the matcher recognises; date is optional. A bad
// row is reported and skipped, the rest are still imported. A cancelled
// context stops the import.
func Import(ctx context.Context, recorder Recorder, data *ParsedData, matcher *category.Matcher) (Result, error) {
	columns := make(map[string]int, len(data.Headers))
	for i, h := range data.Headers {
		columns[h] = i
	}
	if _, ok := columns["amount"]; !ok {
		return Result{}, errors.New(`missing "amount" column`)
	}
	_, hasCategory := columns["category"]
	_, hasNote := columns["note"]
	if !hasCategory && !hasNote {
		return Result{}, errors.New(`missing "category" column`)
	}

	field := func(row []string, name string) string {
		i, ok := columns[name]
		if !ok || i >= len(row) {
			return ""
		}
		return row[i]
	}

	var result Result
	for n, row := range data.Rows {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		amount, err := storage.ParseAmount(field(row, "amount"))
		if err != nil {
			result.Errors = append(result.Errors, &RowError{Row: n + 1, Err: fmt.Errorf("amount %q: %w", field(row, "amount"), err)})
			continue
		}

		c := storage.NormalizeCategory(field(row, "category"))
		if c == "" {
			if matched, ok := matcher.Match(field(row, "note")); ok {
				c = matched
			}
		}

		_, err = recorder.RecordExpense(ctx, ledger.ExpenseInput{
			Amount:   amount,
			Category: c,
			Date:     field(row, "date"),
			Note:     field(row, "note"),
		})
		if err != nil {
			result.Errors = append(result.Errors, &RowError{Row: n + 1, Err: err})
			continue
		}
		result.Imported++
	}

	return result, nil
}
