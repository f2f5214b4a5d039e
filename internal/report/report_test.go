package report

import (
	"math"
	"math/rand"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GustavoCaso/spendwatch/internal/storage"
)

func expense(id string, cents int64, category storage.Category, date string) storage.Expense {
	return storage.Expense{ID: id, Amount: storage.Amount(cents), Category: category, Date: date}
}

func sampleExpenses() []storage.Expense {
	return []storage.Expense{
		expense("1", 1250, storage.CategoryFood, "2024-05-01"),
		expense("2", 4000, storage.CategoryTransportation, "2024-05-03"),
		expense("3", 750, storage.CategoryFood, "2024-05-03"),
		expense("4", 99900, storage.CategoryHousing, "2024-04-30"),
		expense("5", 1000, storage.CategoryOther, "2024-05-20"),
		expense("6", 2500, storage.CategoryFood, "2023-05-12"),
	}
}

func TestFilterByMonth(t *testing.T) {
	expenses := sampleExpenses()

	filtered := FilterByMonth(expenses, "2024-05")

	ids := make([]string, 0, len(filtered))
	for _, e := range filtered {
		assert.True(t, strings.HasPrefix(e.Date, "2024-05"))
		ids = append(ids, e.ID)
	}
	assert.Equal(t, []string{"1", "2", "3", "5"}, ids)

	for _, e := range expenses {
		if !strings.HasPrefix(e.Date, "2024-05") {
			assert.NotContains(t, ids, e.ID)
		}
	}

	assert.Empty(t, FilterByMonth(expenses, "2022-01"))
	assert.NotNil(t, FilterByMonth(nil, "2024-05"))
}

func TestTotalOf(t *testing.T) {
	assert.Equal(t, storage.Amount(0), TotalOf(nil))

	expenses := sampleExpenses()
	want := TotalOf(expenses)
	assert.Equal(t, storage.Amount(109400), want)

	r := rand.New(rand.NewSource(7))
	for range 20 {
		shuffled := append([]storage.Expense(nil), expenses...)
		r.Shuffle(len(shuffled), func(i, j int) { shuffled[i], shuffled[j] = shuffled[j], shuffled[i] })
		assert.Equal(t, want, TotalOf(shuffled))
	}
}

func TestTotalOfSaturates(t *testing.T) {
	expenses := make([]storage.Expense, 0, 10)
	for range 10 {
		expenses = append(expenses, expense("big", math.MaxInt64/8, storage.CategoryHousing, "2024-05-01"))
	}
	assert.Equal(t, storage.Amount(math.MaxInt64), TotalOf(expenses))
}

func TestGroupByCategory(t *testing.T) {
	expenses := FilterByMonth(sampleExpenses(), "2024-05")

	grouped := GroupByCategory(expenses)

	assert.Equal(t, map[storage.Category]storage.Amount{
		storage.CategoryFood:           2000,
		storage.CategoryTransportation: 4000,
		storage.CategoryOther:          1000,
	}, grouped)

	var sum storage.Amount
	for _, amount := range grouped {
		sum += amount
	}
	assert.Equal(t, TotalOf(expenses), sum)
	assert.NotContains(t, grouped, storage.CategoryHousing)
}

func TestToChartSeries(t *testing.T) {
	series := ToChartSeries(map[storage.Category]storage.Amount{
		storage.CategoryFood:     2000,
		storage.CategoryTravel:   2000,
		storage.CategoryHousing:  5000,
		storage.Category("Pets"): 100,
	})

	require.Len(t, series, 4)
	assert.Equal(t, ChartEntry{Category: storage.CategoryHousing, Amount: 5000, Color: "#FFCE56"}, series[0])
	assert.Equal(t, ChartEntry{Category: storage.CategoryFood, Amount: 2000, Color: "#FF6384"}, series[1])
	assert.Equal(t, ChartEntry{Category: storage.CategoryTravel, Amount: 2000, Color: "#00BFFF"}, series[2])
	assert.Equal(t, ChartEntry{Category: "Pets", Amount: 100, Color: FallbackColor}, series[3])

	assert.Empty(t, ToChartSeries(nil))
}

func TestColorTableCoversCategories(t *testing.T) {
	for _, c := range storage.Categories {
		assert.NotEqual(t, FallbackColor, Color(c), c)
	}
}

func TestMonthly(t *testing.T) {
	report := Monthly(sampleExpenses(), "2024-05", 2)

	assert.Equal(t, "2024-05", report.Month)
	assert.Equal(t, storage.Amount(7000), report.Total)
	assert.Equal(t, 4, report.Count)

	require.Len(t, report.Categories, 3)
	assert.Equal(t, storage.CategoryTransportation, report.Categories[0].Name)
	assert.Equal(t, 1, report.Categories[0].Count)
	assert.InDelta(t, 57.14, report.Categories[0].PercentageOfTotal, 0.01)
	assert.Equal(t, storage.CategoryFood, report.Categories[1].Name)
	assert.Equal(t, 2, report.Categories[1].Count)

	require.Len(t, report.Recent, 2)
	assert.Equal(t, "5", report.Recent[0].ID)
	assert.Equal(t, "3", report.Recent[1].ID)
}

func TestMonthlyEmpty(t *testing.T) {
	report := Monthly(nil, "2024-05", DefaultRecent)

	assert.Equal(t, storage.Amount(0), report.Total)
	assert.Empty(t, report.Categories)
	assert.NotNil(t, report.Recent)
}
