package cli

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/example/streak/internal/app"
	"github.com/example/streak/internal/ctxutil"
	"github.com/example/streak/internal/wire"
)

var (
	userFlag      string
	configDirFlag string
)

// BindGlobalFlags registers the flags shared by every command and points the
// wiring at the chosen config directory.
func BindGlobalFlags(root *cobra.Command) {
	root.PersistentFlags().StringVarP(&userFlag, "user", "u", "", "User id (defaults to the configured user)")
	root.PersistentFlags().StringVar(&configDirFlag, "config-dir", "", "Config directory (default ~/.streak)")

	root.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		if configDirFlag != "" {
			wire.SetConfigDir(configDirFlag)
		}
	}
}

// currentUser resolves --user, falling back to the configured user.
func currentUser() (string, error) {
	user := userFlag
	if user == "" {
		user = wire.Config().User
	}
	if err := app.ValidateUserID(user); err != nil {
		return "", err
	}
	return user, nil
}

// commandContext tags the command's context with a fresh request id.
func commandContext(cmd *cobra.Command) context.Context {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	ctx = ctxutil.WithRequestID(ctx, uuid.NewString())
	return ctxutil.WithSource(ctx, "cli")
}

func requireUser(cmd *cobra.Command) (context.Context, string, error) {
	user, err := currentUser()
	if err != nil {
		return nil, "", fmt.Errorf("invalid --user: %w", err)
	}
	return commandContext(cmd), user, nil
}
