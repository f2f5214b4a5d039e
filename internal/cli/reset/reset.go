package reset

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/GustavoCaso/spendwatch/internal/cli"
	"github.com/GustavoCaso/spendwatch/internal/util"
)

func NewCommand(env *cli.Env) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Delete all expenses, budgets and notifications",
		RunE: func(cmd *cobra.Command, _ []string) error {
			out := cmd.OutOrStdout()

			if !force {
				fmt.Fprint(out, util.ColorOutput("This removes every expense, budget and notification. Type 'yes' to continue: ", "red"))
				answer, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
				if err != nil && answer == "" {
					fmt.Fprintln(out, "\nAborted.")
					return nil
				}
				if !strings.EqualFold(strings.TrimSpace(answer), "yes") {
					fmt.Fprintln(out, "Aborted.")
					return nil
				}
			}

			if err := env.Service.ResetAllData(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(out, util.ColorOutput("All data removed", "green"))
			return nil
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "skip the confirmation prompt")
	return cmd
}
