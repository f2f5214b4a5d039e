package filter

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/GustavoCaso/spendwatch/internal/storage"
)

// Params are the raw filter values as typed by a user, e.g. from CLI flags
// or a query string.
type Params struct {
	Category  string
	Note      string
	AmountMin string
	AmountMax string
	DateFrom  string
	DateTo    string
	Sort      string
}

// parseSort parses a sort string like "date:desc" into SortOptions.
func parseSort(s string) (*SortOptions, error) {
	if s == "" {
		return nil, fmt.Errorf("sort string cannot be empty")
	}

	parts := strings.Split(s, ":")
	if len(parts) != 2 {
		return nil, fmt.Errorf("invalid sort format, expected field:direction")
	}

	field := SortField(parts[0])
	direction := SortDirection(parts[1])

	if field != SortByDate && field != SortByAmount {
		return nil, fmt.Errorf("invalid sort field: %s (must be date or amount)", field)
	}

	if direction != SortAsc && direction != SortDesc {
		return nil, fmt.Errorf("invalid sort direction: %s (must be asc or desc)", direction)
	}

	return &SortOptions{
		Field:     field,
		Direction: direction,
	}, nil
}

func parseDate(s string) (*string, error) {
	if _, err := time.Parse(storage.DateLayout, s); err != nil {
		return nil, err
	}
	return &s, nil
}

// Parse validates p and turns it into filter and sort options.
func Parse(p Params) (*ExpenseFilter, *SortOptions, error) {
	filter := &ExpenseFilter{}
	sort := DefaultSortOptions()

	if p.Category != "" {
		category := storage.NormalizeCategory(p.Category)
		if !category.Valid() {
			return nil, nil, fmt.Errorf("invalid category: %s", p.Category)
		}
		filter.Category = &category
	}

	if p.Note != "" {
		note := p.Note
		filter.Note = &note
	}

	if p.AmountMin != "" {
		val, err := storage.ParseAmount(p.AmountMin)
		if err != nil {
			return nil, nil, fmt.Errorf("invalid amount_min: %w", err)
		}
		filter.AmountMin = &val
	}

	if p.AmountMax != "" {
		val, err := storage.ParseAmount(p.AmountMax)
		if err != nil {
			return nil, nil, fmt.Errorf("invalid amount_max: %w", err)
		}
		filter.AmountMax = &val
	}

	if p.DateFrom != "" {
		val, err := parseDate(p.DateFrom)
		if err != nil {
			return nil, nil, fmt.Errorf("invalid date_from: %w", err)
		}
		filter.DateFrom = val
	}

	if p.DateTo != "" {
		val, err := parseDate(p.DateTo)
		if err != nil {
			return nil, nil, fmt.Errorf("invalid date_to: %w", err)
		}
		filter.DateTo = val
	}

	if p.Sort != "" {
		parsed, err := parseSort(p.Sort)
		if err != nil {
			return nil, nil, fmt.Errorf("invalid sort: %w", err)
		}
		sort = parsed
	}

	return filter, sort, nil
}

// ParseExpenseFilters parses URL query parameters into filter and sort options.
func ParseExpenseFilters(params url.Values) (*ExpenseFilter, *SortOptions, error) {
	return Parse(Params{
		Category:  params.Get("category"),
		Note:      params.Get("note"),
		AmountMin: params.Get("amount_min"),
		AmountMax: params.Get("amount_max"),
		DateFrom:  params.Get("date_from"),
		DateTo:    params.Get("date_to"),
		Sort:      params.Get("sort"),
	})
}
