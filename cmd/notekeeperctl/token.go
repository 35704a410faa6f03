package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/dmitrijs2005/notekeeper/internal/server/auth"
)

type tokenOutput struct {
	UserID    string `json:"userId"`
	Plan      string `json:"plan,omitempty"`
	ExpiresAt string `json:"expiresAt"`
	Token     string `json:"token"`
}

func newTokenCmd(d deps, opts *globalOptions) *cobra.Command {
	var (
		plan string
		ttl  time.Duration
	)

	cmd := &cobra.Command{
		Use:   "token <userID>",
		Short: "Mint an access token for development and testing",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if ttl <= 0 {
				return fmt.Errorf("ttl must be positive, got %s", ttl)
			}
			token, err := auth.GenerateToken(args[0], plan, []byte(opts.secret), ttl)
			if err != nil {
				return fmt.Errorf("generate token: %w", err)
			}

			out := tokenOutput{
				UserID:    args[0],
				Plan:      plan,
				ExpiresAt: d.now().Add(ttl).UTC().Format(time.RFC3339),
				Token:     token,
			}
			if opts.format == "json" {
				return writeJSON(cmd.OutOrStdout(), out)
			}
			fmt.Fprintln(cmd.OutOrStdout(), out.Token)
			return nil
		},
	}

	cmd.Flags().StringVar(&plan, "plan", auth.PlanPro, "Plan claim embedded in the token")
	cmd.Flags().DurationVar(&ttl, "ttl", 24*time.Hour, "Token validity")

	return cmd
}
