package expense

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/GustavoCaso/spendwatch/internal/cli"
	"github.com/GustavoCaso/spendwatch/internal/export"
	importutil "github.com/GustavoCaso/spendwatch/internal/import"
	"github.com/GustavoCaso/spendwatch/internal/util"
)

func exportCommand(env *cli.Env) *cobra.Command {
	var format, month, output string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export expenses as CSV or JSON",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if month != "" && !util.ValidMonth(month) {
				return fmt.Errorf("month %q must use the YYYY-MM format", month)
			}

			expenses := env.Service.ListExpenses(cmd.Context())
			if month != "" {
				expenses = env.Service.ListExpensesForMonth(cmd.Context(), month)
			}

			var w io.Writer = cmd.OutOrStdout()
			if output != "" {
				f, err := os.Create(output)
				if err != nil {
					return fmt.Errorf("failed to create %s: %w", output, err)
				}
				defer f.Close()
				w = f
			}

			switch format {
			case "csv":
				return export.CSV(w, expenses)
			case "json":
				return export.JSON(w, expenses)
			default:
				return fmt.Errorf("unsupported format %q, use csv or json", format)
			}
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "csv", "export format (csv, json)")
	cmd.Flags().StringVarP(&month, "month", "m", "", "only export expenses of this month (YYYY-MM)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "file to write, defaults to stdout")
	return cmd
}

func importCommand(env *cli.Env) *cobra.Command {
	return &cobra.Command{
		Use:   "import <file>",
		Short: "Record the expenses of a CSV or JSON file",
		Long: `Record the expenses of a CSV or JSON file. The file needs an amount
column and a category column, or notes the category patterns recognise; date
is optional. Every imported expense is checked
against its month's budget like one added by hand.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			filename := args[0]
			f, err := os.Open(filename)
			if err != nil {
				return fmt.Errorf("failed to open %s: %w", filename, err)
			}
			defer f.Close()

			data, err := importutil.ParseFile(filename, f)
			if err != nil {
				return err
			}

			result, err := importutil.Import(cmd.Context(), env.Service, data, env.Matcher)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for _, rowErr := range result.Errors {
				fmt.Fprintln(out, util.ColorOutput(rowErr.Error(), "red"))
			}
			fmt.Fprintf(out, "Imported %d of %d expenses\n", result.Imported, data.GetTotalRows())
			return nil
		},
	}
}
