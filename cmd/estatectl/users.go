package main

import (
	"context"
	"fmt"
	"text/tabwriter"

	"github.com/samber/oops"
	"github.com/spf13/cobra"

	"realestate/internal/model"
)

type userFlags struct {
	email    string
	name     string
	password string
	role     string
}

// NewUsersCmd creates the users command group.
func NewUsersCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "users",
		Short: "Manage accounts",
	}

	cmd.AddCommand(newUsersListCmd())
	cmd.AddCommand(newUsersCreateCmd())
	cmd.AddCommand(newUsersResetPasswordCmd())
	cmd.AddCommand(newUsersChangeRoleCmd())

	return cmd
}

func newUsersListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all accounts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withEnvironment(cmd, func(ctx context.Context, env *environment) error {
				users, err := env.users.ListUsers(ctx)
				if err != nil {
					return oops.Code("USERS_LIST_FAILED").Wrap(err)
				}

				w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
				fmt.Fprintln(w, "EMAIL\tNAME\tROLE\tACTIVE\tCREATED")
				for _, u := range users {
					fmt.Fprintf(w, "%s\t%s\t%s\t%t\t%s\n",
						u.Email, u.FullName, u.Role, u.IsActive, u.CreatedAt.Format("2006-01-02 15:04"))
				}
				return w.Flush()
			})
		},
	}
}

func newUsersCreateCmd() *cobra.Command {
	f := &userFlags{}
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create an account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			role := model.Role(f.role)
			if !role.Valid() {
				return oops.Code("INVALID_ROLE").Errorf("role must be %q or %q", model.RoleAdmin, model.RoleClient)
			}
			return withEnvironment(cmd, func(ctx context.Context, env *environment) error {
				user, err := env.users.CreateUser(ctx, f.email, f.name, f.password, role)
				if err != nil {
					return oops.Code("USER_CREATE_FAILED").With("email", f.email).Wrap(err)
				}
				cmd.Printf("Created %s account %s (%s)\n", user.Role, user.Email, user.ID)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&f.email, "email", "", "account email")
	cmd.Flags().StringVar(&f.name, "name", "", "full name")
	cmd.Flags().StringVar(&f.password, "password", "", "initial password")
	cmd.Flags().StringVar(&f.role, "role", string(model.RoleClient), "role (admin or client)")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("password")

	return cmd
}

func newUsersResetPasswordCmd() *cobra.Command {
	f := &userFlags{}
	cmd := &cobra.Command{
		Use:   "reset-password",
		Short: "Set a new password for an account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withEnvironment(cmd, func(ctx context.Context, env *environment) error {
				if _, err := env.users.ResetPassword(ctx, f.email, f.password); err != nil {
					return oops.Code("PASSWORD_RESET_FAILED").With("email", f.email).Wrap(err)
				}
				cmd.Printf("Password reset for %s\n", f.email)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&f.email, "email", "", "account email")
	cmd.Flags().StringVar(&f.password, "password", "", "new password")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")

	return cmd
}

func newUsersChangeRoleCmd() *cobra.Command {
	f := &userFlags{}
	cmd := &cobra.Command{
		Use:   "change-role",
		Short: "Change the role of an account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			role := model.Role(f.role)
			if !role.Valid() {
				return oops.Code("INVALID_ROLE").Errorf("role must be %q or %q", model.RoleAdmin, model.RoleClient)
			}
			return withEnvironment(cmd, func(ctx context.Context, env *environment) error {
				user, err := env.users.ChangeRole(ctx, f.email, role)
				if err != nil {
					return oops.Code("ROLE_CHANGE_FAILED").With("email", f.email).Wrap(err)
				}
				cmd.Printf("%s is now %s\n", user.Email, user.Role)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&f.email, "email", "", "account email")
	cmd.Flags().StringVar(&f.role, "role", "", "new role (admin or client)")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("role")

	return cmd
}
