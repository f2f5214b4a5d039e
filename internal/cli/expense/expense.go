package expense

import (
	"errors"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/GustavoCaso/spendwatch/internal/cli"
	"github.com/GustavoCaso/spendwatch/internal/filter"
	"github.com/GustavoCaso/spendwatch/internal/ledger"
	"github.com/GustavoCaso/spendwatch/internal/report"
	"github.com/GustavoCaso/spendwatch/internal/storage"
	"github.com/GustavoCaso/spendwatch/internal/util"
)

func NewCommand(env *cli.Env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "expense",
		Short: "Record and list expenses",
	}
	cmd.AddCommand(addCommand(env), listCommand(env), exportCommand(env), importCommand(env))
	return cmd
}

func addCommand(env *cli.Env) *cobra.Command {
	var amount, category, date, note string

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Record an expense",
		Long: fmt.Sprintf(`Record an expense against one of the categories:
  %s

The category can be left out when the note names something a category
pattern recognises, e.g. "lunch" or "taxi". The date defaults to today.`, joinCategories()),
		Example: "  spendwatch expense add --amount 12.50 --category Food --note lunch",
		RunE: func(cmd *cobra.Command, _ []string) error {
			value, err := storage.ParseAmount(amount)
			if err != nil {
				return fmt.Errorf("amount %q: %w", amount, err)
			}

			c := storage.NormalizeCategory(category)
			if c == "" {
				matched, ok := env.Matcher.Match(note)
				if !ok {
					return errors.New("--category is required when the note matches no category")
				}
				c = matched
			}

			expense, err := env.Service.RecordExpense(cmd.Context(), ledger.ExpenseInput{
				Amount:   value,
				Category: c,
				Date:     date,
				Note:     note,
			})
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%s %s on %s (%s)\n",
				util.ColorOutput("Recorded", "green", "bold"),
				util.FormatAmount(env.Config.Budget.Currency, expense.Amount.Cents()),
				expense.Category,
				util.DisplayDate(expense.Date),
			)
			return nil
		},
	}

	cmd.Flags().StringVarP(&amount, "amount", "a", "", "amount spent, e.g. 12.50")
	cmd.Flags().StringVarP(&category, "category", "c", "", "expense category")
	cmd.Flags().StringVarP(&date, "date", "d", "", "date of the expense (YYYY-MM-DD)")
	cmd.Flags().StringVarP(&note, "note", "n", "", "optional note")
	_ = cmd.MarkFlagRequired("amount")

	return cmd
}

func listCommand(env *cli.Env) *cobra.Command {
	var month string
	var params filter.Params

	cmd := &cobra.Command{
		Use:     "list",
		Short:   "List recorded expenses",
		Example: "  spendwatch expense list --month 2024-05 --category food --sort amount:desc",
		RunE: func(cmd *cobra.Command, _ []string) error {
			f, sort, err := filter.Parse(params)
			if err != nil {
				return err
			}

			var expenses []storage.Expense
			if month == "" {
				expenses = env.Service.ListExpenses(cmd.Context())
			} else {
				if !util.ValidMonth(month) {
					return fmt.Errorf("month %q must use the YYYY-MM format", month)
				}
				expenses = env.Service.ListExpensesForMonth(cmd.Context(), month)
			}
			expenses = filter.Apply(expenses, f, sort)

			out := cmd.OutOrStdout()
			if len(expenses) == 0 {
				fmt.Fprintln(out, "No expenses recorded.")
				return nil
			}

			currency := env.Config.Budget.Currency
			w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "DATE\tCATEGORY\tAMOUNT\tNOTE")
			for _, e := range expenses {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
					util.DisplayDate(e.Date),
					e.Category,
					util.FormatAmount(currency, e.Amount.Cents()),
					e.Note,
				)
			}
			fmt.Fprintf(w, "\t%s\t%s\t\n",
				util.ColorOutput("Total", "bold"),
				util.FormatAmount(currency, report.TotalOf(expenses).Cents()),
			)
			return w.Flush()
		},
	}

	cmd.Flags().StringVarP(&month, "month", "m", "", "only show expenses of this month (YYYY-MM)")
	cmd.Flags().StringVarP(&params.Category, "category", "c", "", "only show this category")
	cmd.Flags().StringVar(&params.Note, "note", "", "only show notes containing this text")
	cmd.Flags().StringVar(&params.AmountMin, "min", "", "minimum amount")
	cmd.Flags().StringVar(&params.AmountMax, "max", "", "maximum amount")
	cmd.Flags().StringVar(&params.DateFrom, "from", "", "first date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&params.DateTo, "to", "", "last date (YYYY-MM-DD)")
	cmd.Flags().StringVarP(&params.Sort, "sort", "s", "", "sort order, e.g. date:desc or amount:asc")
	return cmd
}

func joinCategories() string {
	names := make([]string, len(storage.Categories))
	for i, c := range storage.Categories {
		names[i] = string(c)
	}
	return strings.Join(names, ", ")
}
