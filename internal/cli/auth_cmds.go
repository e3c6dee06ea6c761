package cli

import (
	"fmt"
	"strings"

	"github.com/lumicrm/lumicrm-go/internal/auth"
	"github.com/spf13/cobra"
)

func newLoginCmd(app func() *App) *cobra.Command {
	var email, password string
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in with email and password",
		RunE: func(cmd *cobra.Command, args []string) error {
			a := app()
			if err := a.Auth.LoginWithPassword(cmd.Context(), email, password); err != nil {
				return err
			}
			state, user := a.Auth.Snapshot()
			if state != auth.StateAuthenticated {
				return fmt.Errorf("login did not establish a session")
			}
			a.persistSession()
			fmt.Fprintf(cmd.OutOrStdout(), "signed in as %s <%s>\n", user.Name, user.Email)
			return nil
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "account email")
	cmd.Flags().StringVar(&password, "password", "", "account password")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}

func newRegisterCmd(app func() *App) *cobra.Command {
	var name, email, password string
	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create an account and sign in",
		RunE: func(cmd *cobra.Command, args []string) error {
			a := app()
			if err := a.Auth.Register(cmd.Context(), name, email, password); err != nil {
				return err
			}
			a.persistSession()
			fmt.Fprintln(cmd.OutOrStdout(), "account created")
			return nil
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "full name")
	cmd.Flags().StringVar(&email, "email", "", "account email")
	cmd.Flags().StringVar(&password, "password", "", "account password")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}

func newLogoutCmd(app func() *App) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Invalidate the current session",
		RunE: func(cmd *cobra.Command, args []string) error {
			a := app()
			err := a.Auth.Logout(cmd.Context())
			a.clearSession()
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "signed out")
			return nil
		},
	}
}

func newWhoAmICmd(app func() *App) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in user",
		RunE: func(cmd *cobra.Command, args []string) error {
			a := app()
			if err := a.Auth.CheckAuth(cmd.Context()); err != nil {
				return err
			}
			state, user := a.Auth.Snapshot()
			if state != auth.StateAuthenticated {
				fmt.Fprintln(cmd.OutOrStdout(), "not signed in")
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s <%s>\n", user.Name, user.Email)
			if len(user.Roles) > 0 {
				fmt.Fprintf(cmd.OutOrStdout(), "roles: %s\n", strings.Join(user.Roles, ", "))
			}
			return nil
		},
	}
}
