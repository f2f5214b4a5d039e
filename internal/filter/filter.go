package filter

import (
	"cmp"
	"slices"
	"strings"

	"github.com/GustavoCaso/spendwatch/internal/storage"
)

// ExpenseFilter holds filter criteria for expense queries.
// All fields are pointers to distinguish "not set" from zero values.
type ExpenseFilter struct {
	Category  *storage.Category // Exact category
	Note      *string           // Case-insensitive substring of the note
	AmountMin *storage.Amount   // Minimum amount (inclusive)
	AmountMax *storage.Amount   // Maximum amount (inclusive)
	DateFrom  *string           // Start date YYYY-MM-DD (inclusive)
	DateTo    *string           // End date YYYY-MM-DD (inclusive)
}

// Empty reports whether no criteria are set.
func (f *ExpenseFilter) Empty() bool {
	return f == nil || *f == ExpenseFilter{}
}

// Match reports whether e satisfies every criterion of f.
func (f *ExpenseFilter) Match(e storage.Expense) bool {
	if f == nil {
		return true
	}
	if f.Category != nil && e.Category != *f.Category {
		return false
	}
	if f.Note != nil && !strings.Contains(strings.ToLower(e.Note), strings.ToLower(*f.Note)) {
		return false
	}
	if f.AmountMin != nil && e.Amount < *f.AmountMin {
		return false
	}
	if f.AmountMax != nil && e.Amount > *f.AmountMax {
		return false
	}
	// YYYY-MM-DD dates order lexically
	if f.DateFrom != nil && e.Date < *f.DateFrom {
		return false
	}
	if f.DateTo != nil && e.Date > *f.DateTo {
		return false
	}
	return true
}

// SortField represents a field that can be sorted on.
type SortField string

const (
	SortByDate   SortField = "date"
	SortByAmount SortField = "amount"
)

// SortDirection represents sort order.
type SortDirection string

const (
	SortAsc  SortDirection = "asc"
	SortDesc SortDirection = "desc"
)

// SortOptions holds sorting preferences.
type SortOptions struct {
	Field     SortField
	Direction SortDirection
}

// DefaultSortOptions returns the default sort (date descending, newest first).
func DefaultSortOptions() *SortOptions {
	return &SortOptions{
		Field:     SortByDate,
		Direction: SortDesc,
	}
}

// String returns the sort options as a string (e.g., "date:desc").
func (s *SortOptions) String() string {
	return string(s.Field) + ":" + string(s.Direction)
}

// Apply returns the expenses matching f ordered by sort. Ties keep the
// recording order. The input is left untouched and the result is never nil.
func Apply(expenses []storage.Expense, f *ExpenseFilter, sort *SortOptions) []storage.Expense {
	if sort == nil {
		sort = DefaultSortOptions()
	}

	result := make([]storage.Expense, 0, len(expenses))
	for _, e := range expenses {
		if f.Match(e) {
			result = append(result, e)
		}
	}

	slices.SortStableFunc(result, func(a, b storage.Expense) int {
		var c int
		switch sort.Field {
		case SortByAmount:
			c = cmp.Compare(a.Amount, b.Amount)
		default:
			c = strings.Compare(a.Date, b.Date)
		}
		if sort.Direction == SortDesc {
			return -c
		}
		return c
	})

	return result
}
