package report

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GustavoCaso/spendwatch/internal/cli/clitest"
	"github.com/GustavoCaso/spendwatch/internal/ledger"
	"github.com/GustavoCaso/spendwatch/internal/storage"
)

func TestReport(t *testing.T) {
	env := clitest.NewEnv(t)
	require.NoError(t, env.Service.SetBudget(t.Context(), storage.Budget{Limit: 20000, Month: "2024-05"}))
	for _, input := range []ledger.ExpenseInput{
		{Amount: 5000, Category: storage.CategoryFood, Date: "2024-05-01"},
		{Amount: 2500, Category: storage.CategoryTransportation, Date: "2024-05-02", Note: "bus pass"},
		{Amount: 9900, Category: storage.CategoryFood, Date: "2024-04-28"},
	} {
		_, err := env.Service.RecordExpense(t.Context(), input)
		require.NoError(t, err)
	}

	out, err := clitest.Execute(t, NewCommand(env), "", "--month", "2024-05")
	require.NoError(t, err)

	assert.Contains(t, out, "May 2024")
	assert.Contains(t, out, "Budget:    RM 200.00")
	assert.Contains(t, out, "Spent:     RM 75.00 (38%)")
	assert.Contains(t, out, "Under budget")
	assert.Contains(t, out, "Food")
	assert.Contains(t, out, "66.7%")
	assert.Contains(t, out, "02/05/2024")
	assert.Contains(t, out, "bus pass")
	assert.NotContains(t, out, "28/04/2024")
}

func TestReportWithoutBudget(t *testing.T) {
	out, err := clitest.Execute(t, NewCommand(clitest.NewEnv(t)), "", "--month", "2024-05")
	require.NoError(t, err)

	assert.Contains(t, out, "No budget set")
	assert.Contains(t, out, "No expenses recorded this month.")
}

func TestReportBadMonth(t *testing.T) {
	_, err := clitest.Execute(t, NewCommand(clitest.NewEnv(t)), "", "--month", "2024/05")
	require.Error(t, err)
}
