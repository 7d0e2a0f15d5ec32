package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/example/streak/internal/config"
	"github.com/example/streak/internal/wire"
)

// InitCmd returns the init command
func InitCmd() *cobra.Command {
	var timezone string

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize the streak config and database",
		Long: `Write a default config to ~/.streak/config.yaml (unless one exists),
create the database with the required schema and start today's session.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := configDirFlag
			if dir == "" {
				d, err := config.DefaultDir()
				if err != nil {
					return err
				}
				dir = d
			}

			path := filepath.Join(dir, config.FileName)
			if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
				cfg := config.Default()
				if userFlag != "" {
					cfg.User = userFlag
				}
				cfg.Timezone = timezone
				if _, err := cfg.Location(); err != nil {
					return err
				}
				if err := config.SaveConfig(dir, cfg); err != nil {
					return err
				}
				fmt.Printf("✓ Config written to %s\n", path)
			} else {
				fmt.Printf("ℹ️  Config already exists at %s\n", path)
			}

			wire.SetConfigDir(dir)
			if err := wire.Init(); err != nil {
				return err
			}
			fmt.Printf("✓ Database ready at %s\n", wire.Config().DBPath)
			fmt.Println()

			ctx, user, err := requireUser(cmd)
			if err != nil {
				return err
			}
			if _, err := wire.StreakAdapter().Session(ctx, user); err != nil {
				return err
			}

			fmt.Println()
			fmt.Println("Next steps:")
			fmt.Println("  streak checkin")
			fmt.Println("  streak today")
			return nil
		},
	}

	cmd.Flags().StringVar(&timezone, "timezone", "", "IANA timezone for calendar days (default: system zone)")
	return cmd
}
