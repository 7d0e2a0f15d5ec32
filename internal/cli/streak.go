package cli

import (
	"github.com/spf13/cobra"

	"github.com/example/streak/internal/ports/primary"
	"github.com/example/streak/internal/wire"
)

// StatusCmd returns the status command
func StatusCmd() *cobra.Command {
	var stored bool

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show the current streak",
		Long: `Reconcile today's session and show the streak.

A missed day offers the Recovery Challenge; more than one missed day resets
the streak. Use --stored to print the saved state without reconciling.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, user, err := requireUser(cmd)
			if err != nil {
				return err
			}
			if stored {
				_, err = wire.StreakAdapter().Status(ctx, user)
				return err
			}
			_, err = wire.StreakAdapter().Session(ctx, user)
			return err
		},
	}

	cmd.Flags().BoolVar(&stored, "stored", false, "Show the saved state without reconciling today")
	return cmd
}

// CheckInCmd returns the checkin command
func CheckInCmd() *cobra.Command {
	var relapse bool
	var emotion, context string
	var intensity int

	cmd := &cobra.Command{
		Use:   "checkin",
		Short: "Check in for today",
		Long: `Record today's victory, or a relapse with --relapse.

A relapse can carry the emotion and context that led to it; they are logged
as a relapse trigger and saved as today's mood.

Examples:
  streak checkin
  streak checkin --relapse
  streak checkin --relapse --emotion Tédio --context Sozinho --intensity 4`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, user, err := requireUser(cmd)
			if err != nil {
				return err
			}
			_, err = wire.StreakAdapter().CheckIn(ctx, primary.CheckInRequest{
				UserID:    user,
				Relapse:   relapse,
				Emotion:   emotion,
				Context:   context,
				Intensity: intensity,
			})
			return err
		},
	}

	cmd.Flags().BoolVar(&relapse, "relapse", false, "Record a relapse instead of a victory")
	cmd.Flags().StringVar(&emotion, "emotion", "", "Emotion behind the relapse")
	cmd.Flags().StringVar(&context, "context", "", "Context of the relapse")
	cmd.Flags().IntVar(&intensity, "intensity", 0, "Intensity 1-5 (default 3)")
	return cmd
}

// RecoverCmd returns the recover command
func RecoverCmd() *cobra.Command {
	var questions int

	cmd := &cobra.Command{
		Use:   "recover",
		Short: "Take the Recovery Challenge after missing one day",
		Long: `Answer a short quiz to keep a streak after exactly one missed day.
Every answer must be right; the first wrong answer restarts the streak.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, user, err := requireUser(cmd)
			if err != nil {
				return err
			}
			_, err = wire.RecoveryAdapter(questions).Recover(ctx, user)
			return err
		},
	}

	cmd.Flags().IntVar(&questions, "questions", 0, "Number of questions (default from config)")
	return cmd
}
