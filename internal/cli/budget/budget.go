package budget

import (
	"fmt"
	"math"

	"github.com/spf13/cobra"

	evaluate "github.com/GustavoCaso/spendwatch/internal/budget"
	"github.com/GustavoCaso/spendwatch/internal/cli"
	"github.com/GustavoCaso/spendwatch/internal/storage"
	"github.com/GustavoCaso/spendwatch/internal/util"
)

func NewCommand(env *cli.Env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "budget",
		Short: "Manage monthly budgets",
	}
	cmd.AddCommand(setCommand(env), showCommand(env))
	return cmd
}

func setCommand(env *cli.Env) *cobra.Command {
	var limit, month string

	cmd := &cobra.Command{
		Use:     "set",
		Short:   "Set the spending limit of a month",
		Example: "  spendwatch budget set --limit 1000 --month 2024-05",
		RunE: func(cmd *cobra.Command, _ []string) error {
			value, err := storage.ParseAmount(limit)
			if err != nil {
				return fmt.Errorf("limit %q: %w", limit, err)
			}
			if month == "" {
				month = env.Service.CurrentMonth()
			}

			if err := env.Service.SetBudget(cmd.Context(), storage.Budget{Limit: value, Month: month}); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%s budget of %s for %s\n",
				util.ColorOutput("Saved", "green", "bold"),
				util.FormatAmount(env.Config.Budget.Currency, value.Cents()),
				util.DisplayMonth(month),
			)
			return nil
		},
	}

	cmd.Flags().StringVarP(&limit, "limit", "l", "", "monthly spending limit, e.g. 1000")
	cmd.Flags().StringVarP(&month, "month", "m", "", "month the budget applies to (YYYY-MM), defaults to the current month")
	_ = cmd.MarkFlagRequired("limit")

	return cmd
}

func showCommand(env *cli.Env) *cobra.Command {
	var month string

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show a month's budget and how much of it is spent",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			if month == "" {
				month = env.Service.CurrentMonth()
			}
			if !util.ValidMonth(month) {
				return fmt.Errorf("month %q must use the YYYY-MM format", month)
			}

			out := cmd.OutOrStdout()
			currency := env.Config.Budget.Currency

			b := env.Service.GetBudgetForMonth(ctx, month)
			if b == nil {
				suggested := storage.Amount(math.Round(env.Config.Budget.DefaultLimit * 100))
				fmt.Fprintf(out, "No budget set for %s. Suggested limit: %s\n",
					util.DisplayMonth(month),
					util.FormatAmount(currency, suggested.Cents()),
				)
				return nil
			}

			summary, err := env.Service.Summary(ctx, month)
			if err != nil {
				return err
			}
			ev := summary.Evaluation

			fmt.Fprintf(out, "%s\n", util.ColorOutput(util.DisplayMonth(month), "bold", "underline"))
			fmt.Fprintf(out, "Limit:     %s\n", util.FormatAmount(currency, ev.Limit.Cents()))
			fmt.Fprintf(out, "Spent:     %s (%d%%)\n", util.FormatAmount(currency, ev.Spent.Cents()), ev.UsedPercentage)
			fmt.Fprintf(out, "Remaining: %s\n", util.FormatAmount(currency, ev.Remaining.Cents()))
			fmt.Fprintf(out, "Status:    %s\n", statusOutput(ev.Status))
			return nil
		},
	}

	cmd.Flags().StringVarP(&month, "month", "m", "", "month to show (YYYY-MM), defaults to the current month")
	return cmd
}

func statusOutput(status evaluate.Status) string {
	switch status {
	case evaluate.StatusExceeded:
		return util.ColorOutput(string(status), "red", "bold")
	case evaluate.StatusWarning:
		return util.ColorOutput(string(status), "yellow")
	case evaluate.StatusUnderBudget:
		return util.ColorOutput(string(status), "green")
	default:
		return string(status)
	}
}
