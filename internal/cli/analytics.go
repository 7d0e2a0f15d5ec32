package cli

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/example/streak/internal/ctxutil"
	"github.com/example/streak/internal/wire"
)

// AnalyticsCmd returns the analytics command
func AnalyticsCmd() *cobra.Command {
	var rangeDays int
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "analytics",
		Short: "Show habit adherence and trigger insights",
		Long: `Show the daily habit completion series, average, perfect days and the
most frequent triggers over the last 7, 15, 30 or 90 days.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, user, err := requireUser(cmd)
			if err != nil {
				return err
			}
			_, err = wire.AnalyticsAdapter().Show(ctx, user, rangeDays, asJSON)
			return err
		},
	}

	cmd.Flags().IntVarP(&rangeDays, "range", "r", 7, "Window in days: 7, 15, 30 or 90")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the report as JSON")
	return cmd
}

// SyncCmd returns the sync command
func SyncCmd() *cobra.Command {
	var once bool

	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Recompute cached analytics for every user",
		Long: `Recompute every analytics window of every user, one window at a time.

Without --once the command stays in the foreground and runs on the
configured cron schedule until interrupted.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(commandContext(cmd), os.Interrupt, syscall.SIGTERM)
			defer stop()
			ctx = ctxutil.WithSource(ctx, "sync")

			if once {
				_, err := wire.AnalyticsAdapter().Sync(ctx)
				return err
			}

			scheduler, err := wire.SyncScheduler()
			if err != nil {
				return err
			}
			scheduler.Start()
			fmt.Printf("Sync scheduled (%s), next run %s. Ctrl-C to stop.\n",
				wire.Config().Sync.Schedule, scheduler.Next().Format("2006-01-02 15:04"))

			<-ctx.Done()
			scheduler.Stop(cmd.Context())
			return nil
		},
	}

	cmd.Flags().BoolVar(&once, "once", false, "Run a single pass and exit")
	return cmd
}

// ServeCmd returns the serve command
func ServeCmd() *cobra.Command {
	var addr string
	var withSync bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the JSON API",
		Long: `Serve the JSON API under /api/v1/users/:user until interrupted.
With --sync the background analytics recomputation runs alongside it.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(commandContext(cmd), os.Interrupt, syscall.SIGTERM)
			defer stop()

			server := wire.HTTPServer(addr)
			g, ctx := errgroup.WithContext(ctx)
			g.Go(func() error {
				return server.Run(ctx)
			})

			if withSync {
				scheduler, err := wire.SyncScheduler()
				if err != nil {
					stop()
					g.Wait()
					return err
				}
				scheduler.Start()
				g.Go(func() error {
					<-ctx.Done()
					scheduler.Stop(cmd.Context())
					return nil
				})
			}

			return g.Wait()
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (default from config)")
	cmd.Flags().BoolVar(&withSync, "sync", true, "Run the background sync scheduler")
	return cmd
}
