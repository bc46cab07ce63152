package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rabiazulfiqar1/Content-Based-RS/internal/app"
	"github.com/rabiazulfiqar1/Content-Based-RS/internal/core"
	"github.com/rabiazulfiqar1/Content-Based-RS/internal/identity"
	"github.com/rabiazulfiqar1/Content-Based-RS/internal/tui/components"
)

func newLoginCommand(e *env) *cobra.Command {
	var email, password, provider string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in with email and password or an OAuth provider",
		Example: `  recsys login --email ada@example.com
  recsys login --oauth github`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := e.App(cmd)
			if err != nil {
				return err
			}

			var user *core.User
			if provider != "" {
				user, err = a.SignInWithOAuth(cmd.Context(), provider)
			} else {
				if email == "" || password == "" {
					if err := components.NewLoginForm(&email, &password).Run(); err != nil {
						return err
					}
				}
				user, err = a.SignIn(cmd.Context(), email, password)
			}
			if err != nil {
				return fmt.Errorf("sign in failed: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Signed in as %s\n", user.Email)
			return nil
		},
	}

	cmd.Flags().StringVarP(&email, "email", "e", "", "Account email")
	cmd.Flags().StringVarP(&password, "password", "p", "", "Account password (prompted when omitted)")
	cmd.Flags().StringVar(&provider, "oauth", "", "Sign in through an OAuth provider (github, google)")
	cmd.MarkFlagsMutuallyExclusive("oauth", "email")

	return cmd
}

func newSignupCommand(e *env) *cobra.Command {
	var in app.SignUpInput

	cmd := &cobra.Command{
		Use:   "signup",
		Short: "Create an account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := e.App(cmd)
			if err != nil {
				return err
			}

			if in.Email == "" || in.Password == "" {
				if err := components.NewSignUpForm(&in).Run(); err != nil {
					return err
				}
			}

			user, err := a.SignUp(cmd.Context(), in)
			out := cmd.OutOrStdout()
			switch {
			case errors.Is(err, identity.ErrConfirmationRequired):
				fmt.Fprintf(out, "Account created for %s. Check your email to confirm it, then run `recsys login`.\n", in.Email)
				return nil
			case err != nil:
				return fmt.Errorf("sign up failed: %w", err)
			}
			fmt.Fprintf(out, "Account created. Signed in as %s\n", user.Email)
			return nil
		},
	}

	cmd.Flags().StringVarP(&in.Email, "email", "e", "", "Account email")
	cmd.Flags().StringVarP(&in.Password, "password", "p", "", "Account password")
	cmd.Flags().StringVar(&in.FullName, "name", "", "Full name")
	cmd.Flags().StringVar(&in.Username, "username", "", "Username")
	cmd.Flags().StringVar(&in.Organization, "organization", "", "Organization")
	cmd.Flags().StringVar(&in.FieldOfStudy, "field", "", "Field of study")
	cmd.Flags().StringVar(&in.Phone, "phone", "", "Phone number")

	return cmd
}

func newLogoutCommand(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Sign out and forget the stored session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := e.App(cmd)
			if err != nil {
				return err
			}
			if err := a.SignOut(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Signed out")
			return nil
		},
	}
}

func newWhoamiCommand(e *env) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := e.App(cmd)
			if err != nil {
				return err
			}
			user, err := a.RequireUser(cmd.Context())
			if err != nil {
				return err
			}
			name, err := a.DisplayName(cmd.Context())
			if err != nil {
				return err
			}

			if asJSON {
				return printJSON(cmd, map[string]string{"id": user.ID, "email": user.Email, "name": name})
			}
			out := cmd.OutOrStdout()
			field(out, "Name", name)
			field(out, "Email", user.Email)
			field(out, "User ID", user.ID)
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Output as JSON")
	return cmd
}
