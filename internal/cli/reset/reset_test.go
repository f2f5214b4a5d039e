package reset

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GustavoCaso/spendwatch/internal/cli"
	"github.com/GustavoCaso/spendwatch/internal/cli/clitest"
	"github.com/GustavoCaso/spendwatch/internal/ledger"
	"github.com/GustavoCaso/spendwatch/internal/storage"
)

func seed(t *testing.T, env *cli.Env) {
	t.Helper()

	require.NoError(t, env.Service.SetBudget(t.Context(), storage.Budget{Limit: 10000, Month: "2024-05"}))
	_, err := env.Service.RecordExpense(t.Context(), ledger.ExpenseInput{
		Amount:   500,
		Category: storage.CategoryFood,
		Date:     "2024-05-03",
	})
	require.NoError(t, err)
}

func TestReset(t *testing.T) {
	tests := []struct {
		name    string
		stdin   string
		args    []string
		removed bool
	}{
		{name: "force", args: []string{"--force"}, removed: true},
		{name: "confirmed", stdin: "yes\n", removed: true},
		{name: "confirmed without newline", stdin: "YES", removed: true},
		{name: "declined", stdin: "no\n", removed: false},
		{name: "no input", stdin: "", removed: false},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			env := clitest.NewEnv(t)
			seed(t, env)

			out, err := clitest.Execute(t, NewCommand(env), test.stdin, test.args...)
			require.NoError(t, err)

			if test.removed {
				assert.Contains(t, out, "All data removed")
				assert.Empty(t, env.Service.ListExpenses(t.Context()))
				assert.Empty(t, env.Service.NotificationHistory(t.Context()))
				assert.Nil(t, env.Service.GetBudgetForMonth(t.Context(), "2024-05"))
			} else {
				assert.Contains(t, out, "Aborted.")
				assert.Len(t, env.Service.ListExpenses(t.Context()), 1)
			}
		})
	}
}
