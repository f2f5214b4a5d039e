package report

import (
	"cmp"
	"slices"
	"strings"

	"github.com/GustavoCaso/spendwatch/internal/storage"
)

const (
	DefaultRecent = 5

	FallbackColor = "#CCCCCC"

	percentageOfTotal = 100
)

var categoryColors = map[storage.Category]string{
	storage.CategoryFood:           "#FF6384",
	storage.CategoryTransportation: "#36A2EB",
	storage.CategoryHousing:        "#FFCE56",
	storage.CategoryUtilities:      "#4BC0C0",
	storage.CategoryEntertainment:  "#9966FF",
	storage.CategoryHealthcare:     "#FF9F40",
	storage.CategoryShopping:       "#C9CBCF",
	storage.CategoryEducation:      "#7CFC00",
	storage.CategoryTravel:         "#00BFFF",
	storage.CategoryOther:          "#808080",
}

// Color returns the chart colour of category, or FallbackColor for a category
// outside the fixed table.
func Color(category storage.Category) string {
	if c, ok := categoryColors[category]; ok {
		return c
	}
	return FallbackColor
}

// FilterByMonth keeps the expenses whose date starts with month (YYYY-MM).
// Input order is preserved.
func FilterByMonth(expenses []storage.Expense, month string) []storage.Expense {
	filtered := []storage.Expense{}
	for _, e := range expenses {
		if strings.HasPrefix(e.Date, month) {
			filtered = append(filtered, e)
		}
	}
	return filtered
}

// TotalOf sums the amounts of expenses. The sum saturates rather than wraps
// if it leaves the int64 range.
func TotalOf(expenses []storage.Expense) storage.Amount {
	var total storage.Amount
	for _, e := range expenses {
		total = total.Add(e.Amount)
	}
	return total
}

// GroupByCategory sums amounts per category. Categories without expenses are
// absent from the result.
func GroupByCategory(expenses []storage.Expense) map[storage.Category]storage.Amount {
	grouped := make(map[storage.Category]storage.Amount)
	for _, e := range expenses {
		grouped[e.Category] = grouped[e.Category].Add(e.Amount)
	}
	return grouped
}

type ChartEntry struct {
	Category storage.Category `json:"category"`
	Amount   storage.Amount   `json:"amount"`
	Color    string           `json:"color"`
}

// ToChartSeries turns grouped totals into chart entries ordered by amount
// descending, then category name.
func ToChartSeries(grouped map[storage.Category]storage.Amount) []ChartEntry {
	series := make([]ChartEntry, 0, len(grouped))
	for category, amount := range grouped {
		series = append(series, ChartEntry{
			Category: category,
			Amount:   amount,
			Color:    Color(category),
		})
	}

	slices.SortFunc(series, func(a, b ChartEntry) int {
		if c := cmp.Compare(b.Amount, a.Amount); c != 0 {
			return c
		}
		return cmp.Compare(a.Category, b.Category)
	})

	return series
}

type Category struct {
	Name              storage.Category `json:"name"`
	Amount            storage.Amount   `json:"amount"`
	Count             int              `json:"count"`
	PercentageOfTotal float64          `json:"percentage_of_total"`
	Color             string           `json:"color"`
}

type Report struct {
	Month      string            `json:"month"`
	Total      storage.Amount    `json:"total"`
	Count      int               `json:"count"`
	Categories []Category        `json:"categories"`
	Recent     []storage.Expense `json:"recent"`
}

// Monthly builds the summary of one month: totals, the per-category
// breakdown and the most recent expenses by date.
func Monthly(expenses []storage.Expense, month string, recent int) Report {
	monthly := FilterByMonth(expenses, month)
	total := TotalOf(monthly)

	counts := make(map[storage.Category]int)
	for _, e := range monthly {
		counts[e.Category]++
	}

	series := ToChartSeries(GroupByCategory(monthly))
	categories := make([]Category, 0, len(series))
	for _, entry := range series {
		var share float64
		if total > 0 {
			share = float64(entry.Amount) / float64(total) * percentageOfTotal
		}
		categories = append(categories, Category{
			Name:              entry.Category,
			Amount:            entry.Amount,
			Count:             counts[entry.Category],
			PercentageOfTotal: share,
			Color:             entry.Color,
		})
	}

	return Report{
		Month:      month,
		Total:      total,
		Count:      len(monthly),
		Categories: categories,
		Recent:     Recent(monthly, recent),
	}
}

// Recent returns up to n expenses, newest date first. Expenses sharing a date
// keep their recorded order reversed, so the last recorded comes first.
func Recent(expenses []storage.Expense, n int) []storage.Expense {
	if n <= 0 {
		return []storage.Expense{}
	}

	sorted := make([]storage.Expense, len(expenses))
	copy(sorted, expenses)
	slices.Reverse(sorted)
	slices.SortStableFunc(sorted, func(a, b storage.Expense) int {
		return cmp.Compare(b.Date, a.Date)
	})

	if len(sorted) > n {
		sorted = sorted[:n]
	}
	return sorted
}
