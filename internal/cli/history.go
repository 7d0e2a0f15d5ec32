package cli

import (
	"github.com/spf13/cobra"

	"github.com/example/streak/internal/ports/primary"
	"github.com/example/streak/internal/wire"
)

// HistoryCmd returns the history command
func HistoryCmd() *cobra.Command {
	var limit int
	var action string
	var pruneDays int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show how the streak changed over time",
		Long: `Show every streak transition (check-ins, relapses, resets and recovery
outcomes) with the surface that caused it, newest first.

Examples:
  streak history
  streak history --action relapse
  streak history --prune 180`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if pruneDays > 0 {
				_, err := wire.ActivityAdapter().Prune(commandContext(cmd), pruneDays)
				return err
			}

			ctx, user, err := requireUser(cmd)
			if err != nil {
				return err
			}
			_, err = wire.ActivityAdapter().History(ctx, primary.ActivityFilters{
				UserID: user,
				Action: action,
				Limit:  limit,
			})
			return err
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Maximum entries to show (0 for all)")
	cmd.Flags().StringVar(&action, "action", "", "Only show one action (victory, relapse, reset, ...)")
	cmd.Flags().IntVar(&pruneDays, "prune", 0, "Delete entries older than this many days instead of listing")
	return cmd
}
