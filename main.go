package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/GustavoCaso/spendwatch/internal/cli"
	"github.com/GustavoCaso/spendwatch/internal/cli/budget"
	"github.com/GustavoCaso/spendwatch/internal/cli/expense"
	"github.com/GustavoCaso/spendwatch/internal/cli/notifications"
	"github.com/GustavoCaso/spendwatch/internal/cli/report"
	"github.com/GustavoCaso/spendwatch/internal/cli/reset"
	"github.com/GustavoCaso/spendwatch/internal/cli/serve"
	"github.com/GustavoCaso/spendwatch/internal/config"
)

func newRootCommand(env *cli.Env) *cobra.Command {
	var configPath string

	root := &cobra.Command{
		Use:   "spendwatch",
		Short: "Track expenses against a monthly budget",
		Long: `spendwatch records expenses, compares each month's spending with its
budget and notifies you when spending approaches or goes over the limit.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			conf, err := config.Parse(configPath)
			if err != nil {
				return fmt.Errorf("unable to parse the configuration: %w", err)
			}
			return env.Setup(cmd.Context(), conf, cmd.OutOrStdout())
		},
		PersistentPostRunE: func(_ *cobra.Command, _ []string) error {
			return env.Close()
		},
	}

	root.PersistentFlags().StringVarP(&configPath, "config", "c", config.DefaultFile, "configuration file")

	root.AddCommand(
		expense.NewCommand(env),
		budget.NewCommand(env),
		notifications.NewCommand(env),
		report.NewCommand(env),
		reset.NewCommand(env),
		serve.NewCommand(env),
	)
	return root
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	env := &cli.Env{}
	err := newRootCommand(env).ExecuteContext(ctx)
	stop()

	if err != nil {
		_ = env.Close()
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
