package cli

import (
	"github.com/spf13/cobra"

	"github.com/example/streak/internal/wire"
)

// TodayCmd returns the today command
func TodayCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "today",
		Short: "Show today's missions and habits",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, user, err := requireUser(cmd)
			if err != nil {
				return err
			}
			_, err = wire.DailyAdapter().Today(ctx, user)
			return err
		},
	}
}

// MissionsCmd returns the missions command
func MissionsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "missions",
		Short: "Manage today's missions",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "select <mission-id>...",
		Short: "Choose today's missions (once per day)",
		Long: `Choose today's missions. Missions can only be chosen once per day.

Examples:
  streak missions select caminhada leitura`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, user, err := requireUser(cmd)
			if err != nil {
				return err
			}
			_, err = wire.DailyAdapter().SelectMissions(ctx, user, args)
			return err
		},
	})

	return cmd
}

// HabitCmd returns the habit command
func HabitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "habit",
		Short: "Track today's habits",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "complete <habit-id>",
		Short: "Mark a habit as done today",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, user, err := requireUser(cmd)
			if err != nil {
				return err
			}
			_, err = wire.DailyAdapter().CompleteHabit(ctx, user, args[0])
			return err
		},
	})

	return cmd
}
