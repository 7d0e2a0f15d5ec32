package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/example/streak/internal/ports/primary"
	"github.com/example/streak/internal/wire"
)

// TriggerCmd returns the trigger command
func TriggerCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "trigger",
		Short: "Log urges and what set them off",
	}

	cmd.AddCommand(triggerLogCmd())
	return cmd
}

func triggerLogCmd() *cobra.Command {
	var emotion, context string
	var intensity int

	cmd := &cobra.Command{
		Use:   "log",
		Short: "Log an urge",
		Long: `Log an urge with the emotion and context behind it.

Examples:
  streak trigger log --emotion Ansiedade --context Trabalho --intensity 4`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, user, err := requireUser(cmd)
			if err != nil {
				return err
			}
			_, err = wire.JournalAdapter().LogTrigger(ctx, primary.LogTriggerRequest{
				UserID:    user,
				Emotion:   emotion,
				Context:   context,
				Intensity: intensity,
			})
			return err
		},
	}

	cmd.Flags().StringVarP(&emotion, "emotion", "e", "", "Emotion (required)")
	cmd.Flags().StringVarP(&context, "context", "c", "", "Context (required)")
	cmd.Flags().IntVarP(&intensity, "intensity", "i", 3, "Intensity 1-5")
	cmd.MarkFlagRequired("emotion")
	cmd.MarkFlagRequired("context")
	return cmd
}

// EpitaphCmd returns the epitaph command
func EpitaphCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "epitaph",
		Short: "Milestone journal",
		Long:  `Write one entry on day 1 of a streak and on every 7th day after it.`,
	}

	cmd.AddCommand(epitaphStatusCmd())
	cmd.AddCommand(epitaphWriteCmd())
	cmd.AddCommand(epitaphListCmd())
	return cmd
}

func epitaphStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show whether an epitaph can be written today",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, user, err := requireUser(cmd)
			if err != nil {
				return err
			}
			_, err = wire.JournalAdapter().EpitaphStatus(ctx, user)
			return err
		},
	}
}

func epitaphWriteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "write <text>",
		Short: "Write today's epitaph",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, user, err := requireUser(cmd)
			if err != nil {
				return err
			}
			_, err = wire.JournalAdapter().WriteEpitaph(ctx, user, strings.Join(args, " "))
			return err
		},
	}
}

func epitaphListCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List epitaphs, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, user, err := requireUser(cmd)
			if err != nil {
				return err
			}
			_, err = wire.JournalAdapter().ListEpitaphs(ctx, user, limit)
			return err
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Maximum entries to show (0 for all)")
	return cmd
}
