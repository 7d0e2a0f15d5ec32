package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/example/streak/internal/db"
	"github.com/example/streak/internal/wire"
)

// DevCmd returns the dev command group for development utilities.
func DevCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:    "dev",
		Short:  "Development utilities",
		Hidden: true,
	}

	cmd.AddCommand(devSeedCmd())
	return cmd
}

func devSeedCmd() *cobra.Command {
	var days int

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Seed a demo history for the user",
		Long: `Insert a demo streak of --days consecutive victories ending today, with
daily habit records and a few trigger events. The user must not exist yet.

Point STREAK_DB_PATH at a scratch database to keep your real data apart.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, user, err := requireUser(cmd)
			if err != nil {
				return err
			}
			if err := db.SeedDemo(wire.DB(), user, days, wire.Clock().Now()); err != nil {
				return err
			}
			fmt.Printf("✓ Seeded %d day(s) for %s in %s\n", days, user, wire.Config().DBPath)
			return nil
		},
	}

	cmd.Flags().IntVar(&days, "days", 14, "Length of the demo streak")
	return cmd
}
