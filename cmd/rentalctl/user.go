package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"appliance-rental-backend/internal/app"
	"appliance-rental-backend/internal/domain"
)

func userCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "user",
		Short: "Manage user accounts",
	}
	cmd.AddCommand(userCreateCmd())
	return cmd
}

func userCreateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a user account",
		RunE: func(cmd *cobra.Command, args []string) error {
			email, _ := cmd.Flags().GetString("email")
			name, _ := cmd.Flags().GetString("name")
			phone, _ := cmd.Flags().GetString("phone")
			password, _ := cmd.Flags().GetString("password")
			admin, _ := cmd.Flags().GetBool("admin")

			role := domain.UserRoleUser
			if admin {
				role = domain.UserRoleAdmin
			}

			return withServices(cmd, func(svcs *app.Services) error {
				user, err := svcs.Auth.CreateUser(cmd.Context(), email, name, phone, password, role)
				if err != nil {
					return fmt.Errorf("failed to create user: %w", err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Created %s user %s (%s)\n", user.Role, user.Email, user.ID)
				return nil
			})
		},
	}
	cmd.Flags().String("email", "", "Email address")
	cmd.Flags().String("name", "", "Display name")
	cmd.Flags().String("phone", "", "Phone number")
	cmd.Flags().String("password", "", "Initial password (min 8 characters)")
	cmd.Flags().Bool("admin", false, "Grant the admin role")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}

func withServices(cmd *cobra.Command, fn func(svcs *app.Services) error) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	db, err := app.OpenDatabase(cmd.Context(), cfg, cfg.Database.Driver == "sqlite")
	if err != nil {
		return err
	}
	defer db.Close()

	svcs, err := app.NewServices(cfg, db)
	if err != nil {
		return err
	}
	return fn(svcs)
}
