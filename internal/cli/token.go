package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/nurpe/contracts-panel/internal/auth"
	"github.com/nurpe/contracts-panel/internal/config"
	"github.com/nurpe/contracts-panel/internal/model"
)

func newTokenCmd() *cobra.Command {
	var (
		role    string
		subject string
		ttl     time.Duration
	)

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Issue a bearer token for the JSON API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.LoadAuth()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}

			principal, err := tokenPrincipal(role, subject)
			if err != nil {
				return err
			}

			token, err := auth.NewParser(cfg.Auth.AccessSecret).Issue(principal, ttl)
			if err != nil {
				return fmt.Errorf("issue token: %w", err)
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), token)
			return err
		},
	}

	cmd.Flags().StringVar(&role, "role", string(model.UserRoleViewer), "ADMIN, ANALYST or VIEWER")
	cmd.Flags().StringVar(&subject, "subject", "", "user id (random when empty)")
	cmd.Flags().DurationVar(&ttl, "ttl", 24*time.Hour, "token lifetime")

	return cmd
}

func tokenPrincipal(role, subject string) (model.Principal, error) {
	principal := model.Principal{
		UserID: uuid.New(),
		Role:   model.UserRole(strings.ToUpper(strings.TrimSpace(role))),
	}
	if !principal.CanRead() {
		return model.Principal{}, fmt.Errorf("unknown role %q", role)
	}

	if subject != "" {
		parsed, err := uuid.Parse(subject)
		if err != nil {
			return model.Principal{}, fmt.Errorf("subject must be a uuid: %w", err)
		}
		principal.UserID = parsed
	}
	return principal, nil
}
