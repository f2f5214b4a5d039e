package notifications

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/GustavoCaso/spendwatch/internal/cli"
	"github.com/GustavoCaso/spendwatch/internal/util"
)

func NewCommand(env *cli.Env) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "notifications",
		Aliases: []string{"notification"},
		Short:   "Review the notification history",
	}
	cmd.AddCommand(listCommand(env), readCommand(env))
	return cmd
}

func listCommand(env *cli.Env) *cobra.Command {
	var unread bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List notifications, newest first",
		RunE: func(cmd *cobra.Command, _ []string) error {
			out := cmd.OutOrStdout()
			history := env.Service.NotificationHistory(cmd.Context())

			shown := 0
			for _, n := range history {
				if unread && n.Read {
					continue
				}
				marker := " "
				title := n.Title
				if !n.Read {
					marker = util.ColorOutput("*", "cyan", "bold")
					title = util.ColorOutput(n.Title, "bold")
				}
				fmt.Fprintf(out, "%s %s  %s  %s\n", marker, util.ColorOutput(n.ID, "faint"), title, n.Date)
				fmt.Fprintf(out, "   %s\n", n.Body)
				shown++
			}

			if shown == 0 {
				fmt.Fprintln(out, "No notifications.")
				return nil
			}
			fmt.Fprintf(out, "\n%d unread\n", env.Service.UnreadCount(cmd.Context()))
			return nil
		},
	}

	cmd.Flags().BoolVarP(&unread, "unread", "u", false, "only show unread notifications")
	return cmd
}

func readCommand(env *cli.Env) *cobra.Command {
	return &cobra.Command{
		Use:   "read <id>",
		Short: "Mark a notification as read",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := env.Service.MarkNotificationRead(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Notification %s marked as read\n", args[0])
			return nil
		},
	}
}
