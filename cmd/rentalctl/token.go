package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"appliance-rental-backend/internal/app"
)

func tokenCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Issue API tokens",
	}
	cmd.AddCommand(tokenIssueCmd())
	return cmd
}

func tokenIssueCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "issue",
		Short: "Issue an access token for an existing user",
		RunE: func(cmd *cobra.Command, args []string) error {
			email, _ := cmd.Flags().GetString("email")
			return withServices(cmd, func(svcs *app.Services) error {
				token, err := svcs.Auth.IssueAccessToken(cmd.Context(), email)
				if err != nil {
					return fmt.Errorf("failed to issue token: %w", err)
				}
				fmt.Fprintln(cmd.OutOrStdout(), token)
				return nil
			})
		},
	}
	cmd.Flags().String("email", "", "Email of the user")
	_ = cmd.MarkFlagRequired("email")
	return cmd
}
