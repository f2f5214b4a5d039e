package report

import (
	"embed"
	"fmt"
	"io"
	"path"
	"text/template"

	"github.com/spf13/cobra"

	"github.com/GustavoCaso/spendwatch/internal/budget"
	"github.com/GustavoCaso/spendwatch/internal/cli"
	"github.com/GustavoCaso/spendwatch/internal/storage"
	"github.com/GustavoCaso/spendwatch/internal/util"
)

// content holds our static content.
//
//go:embed templates/*
var content embed.FS

func NewCommand(env *cli.Env) *cobra.Command {
	var month string

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Displays the spending summary of a month",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if month != "" && !util.ValidMonth(month) {
				return fmt.Errorf("month %q must use the YYYY-MM format", month)
			}

			summary, err := env.Service.Summary(cmd.Context(), month)
			if err != nil {
				return err
			}

			return renderTemplate(cmd.OutOrStdout(), "report.tmpl", env.Config.Budget.Currency, summary)
		},
	}

	cmd.Flags().StringVarP(&month, "month", "m", "", "month to report on (YYYY-MM), defaults to the current month")
	return cmd
}

func templateFuncs(currency string) template.FuncMap {
	return template.FuncMap{
		"formatAmount": func(a storage.Amount) string {
			return util.FormatAmount(currency, a.Cents())
		},
		"colorOutput":  util.ColorOutput,
		"hexOutput":    util.HexOutput,
		"displayDate":  util.DisplayDate,
		"displayMonth": util.DisplayMonth,
		"statusOutput": statusOutput,
	}
}

func statusOutput(status budget.Status) string {
	switch status {
	case budget.StatusExceeded:
		return util.ColorOutput("Budget exceeded", "red", "bold")
	case budget.StatusWarning:
		return util.ColorOutput("Approaching the limit", "yellow")
	case budget.StatusUnderBudget:
		return util.ColorOutput("Under budget", "green")
	default:
		return "No budget set"
	}
}

func renderTemplate(out io.Writer, templateName, currency string, value any) error {
	tmpl, err := content.ReadFile(path.Join("templates", templateName))
	if err != nil {
		return err
	}
	t, err := template.New(templateName).Funcs(templateFuncs(currency)).Parse(string(tmpl))
	if err != nil {
		return err
	}
	return t.Execute(out, value)
}
