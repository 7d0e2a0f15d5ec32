package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/example/streak/internal/cli"
	"github.com/example/streak/internal/version"
	"github.com/example/streak/internal/wire"
)

func main() {
	rootCmd := &cobra.Command{
		Use:     "streak",
		Short:   "Streak - daily check-ins for breaking a habit",
		Version: version.String(),
		Long: `Streak tracks a continuity streak of daily check-ins, the habits and
missions of each day, the urges that come up and milestone journal entries.`,
		SilenceUsage: true,
	}
	cli.BindGlobalFlags(rootCmd)

	// Daily loop
	rootCmd.AddCommand(cli.InitCmd())
	rootCmd.AddCommand(cli.StatusCmd())
	rootCmd.AddCommand(cli.CheckInCmd())
	rootCmd.AddCommand(cli.RecoverCmd())
	rootCmd.AddCommand(cli.TodayCmd())
	rootCmd.AddCommand(cli.MissionsCmd())
	rootCmd.AddCommand(cli.HabitCmd())

	// Journal
	rootCmd.AddCommand(cli.TriggerCmd())
	rootCmd.AddCommand(cli.EpitaphCmd())
	rootCmd.AddCommand(cli.HistoryCmd())

	// Analytics and services
	rootCmd.AddCommand(cli.AnalyticsCmd())
	rootCmd.AddCommand(cli.SyncCmd())
	rootCmd.AddCommand(cli.ServeCmd())

	// Developer tools
	rootCmd.AddCommand(cli.DevCmd())

	err := rootCmd.Execute()
	wire.Close()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
