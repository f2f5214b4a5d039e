package budget

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GustavoCaso/spendwatch/internal/cli/clitest"
	"github.com/GustavoCaso/spendwatch/internal/ledger"
	"github.com/GustavoCaso/spendwatch/internal/storage"
)

func TestSet(t *testing.T) {
	env := clitest.NewEnv(t)

	out, err := clitest.Execute(t, NewCommand(env), "", "set", "--limit", "1000", "--month", "2024-05")
	require.NoError(t, err)
	assert.Contains(t, out, "RM 1,000.00 for May 2024")

	b := env.Service.GetBudgetForMonth(t.Context(), "2024-05")
	require.NotNil(t, b)
	assert.Equal(t, storage.NewAmount(1000, 0), b.Limit)
}

func TestSetDefaultsToCurrentMonth(t *testing.T) {
	env := clitest.NewEnv(t)

	_, err := clitest.Execute(t, NewCommand(env), "", "set", "--limit", "250.50")
	require.NoError(t, err)

	b := env.Service.CurrentBudget(t.Context())
	require.NotNil(t, b)
	assert.Equal(t, storage.NewAmount(250, 50), b.Limit)
}

func TestSetInvalid(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{name: "zero limit", args: []string{"set", "--limit", "0", "--month", "2024-05"}},
		{name: "negative limit", args: []string{"set", "--limit", "-10", "--month", "2024-05"}},
		{name: "bad month", args: []string{"set", "--limit", "10", "--month", "05-2024"}},
		{name: "missing limit", args: []string{"set", "--month", "2024-05"}},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			env := clitest.NewEnv(t)

			_, err := clitest.Execute(t, NewCommand(env), "", test.args...)
			require.Error(t, err)
			assert.Nil(t, env.Service.GetBudgetForMonth(t.Context(), "2024-05"))
		})
	}
}

func TestShow(t *testing.T) {
	env := clitest.NewEnv(t)
	require.NoError(t, env.Service.SetBudget(t.Context(), storage.Budget{Limit: 100000, Month: "2024-05"}))
	_, err := env.Service.RecordExpense(t.Context(), ledger.ExpenseInput{
		Amount:   85000,
		Category: storage.CategoryHousing,
		Date:     "2024-05-01",
	})
	require.NoError(t, err)

	out, err := clitest.Execute(t, NewCommand(env), "", "show", "--month", "2024-05")
	require.NoError(t, err)

	assert.Contains(t, out, "May 2024")
	assert.Contains(t, out, "Limit:     RM 1,000.00")
	assert.Contains(t, out, "Spent:     RM 850.00 (85%)")
	assert.Contains(t, out, "Remaining: RM 150.00")
	assert.Contains(t, out, "warning")
}

func TestShowWithoutBudget(t *testing.T) {
	out, err := clitest.Execute(t, NewCommand(clitest.NewEnv(t)), "", "show", "--month", "2024-05")
	require.NoError(t, err)
	assert.Equal(t, "No budget set for May 2024. Suggested limit: RM 1,000.00\n", out)
}
