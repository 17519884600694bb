package cli

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/marcosaraujo-dev/RelatorioProjetos/internal/auth"
)

func newTokenCmd(app *App) *cobra.Command {
	var scope []string
	var ttl time.Duration

	cmd := &cobra.Command{
		Use:   "token <subject>",
		Short: "Issue a bearer token for the API",
		Long: "Issue a bearer token signed with JWT_SECRET. Without --scope the token\n" +
			"grants every report.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !app.Config.JWT.Enabled() {
				return errors.New("JWT_SECRET is not set")
			}
			if ttl <= 0 {
				ttl = app.Config.JWT.AccessTokenTTL
			}

			token, err := auth.NewTokenManager(app.Config.JWT.Secret, ttl).GenerateToken(args[0], scope...)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(app.Out, token)
			return err
		},
	}

	cmd.Flags().StringSliceVar(&scope, "scope", nil, "Reports the token may read (epics, subtasks, tickets)")
	cmd.Flags().DurationVar(&ttl, "ttl", 0, "Token lifetime (default JWT_ACCESS_TOKEN_TTL)")
	return cmd
}
