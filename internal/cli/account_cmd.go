package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"

	"neon_quizlet/internal/model"

	"github.com/spf13/cobra"
)

func newAccountCommand(state *rootState) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "account",
		Short: "Manage the local account and plan",
	}
	cmd.AddCommand(
		newRegisterCommand(state),
		newLoginCommand(state),
		&cobra.Command{
			Use:   "logout",
			Short: "Log out",
			Args:  exactArgs(0),
			RunE: withLogging(state, func(ctx context.Context, app *App, cmd *cobra.Command, args []string) error {
				if err := app.Auth.Logout(ctx); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "Logged out.")
				return nil
			}),
		},
		&cobra.Command{
			Use:   "whoami",
			Short: "Show the logged in user",
			Args:  exactArgs(0),
			RunE: withLogging(state, func(ctx context.Context, app *App, cmd *cobra.Command, args []string) error {
				user, err := app.Auth.CurrentUser(ctx)
				if err != nil {
					return err
				}
				printUser(cmd.OutOrStdout(), user)
				return nil
			}),
		},
		&cobra.Command{
			Use:   "upgrade",
			Short: "Upgrade to Premium",
			Args:  exactArgs(0),
			RunE: withLogging(state, func(ctx context.Context, app *App, cmd *cobra.Command, args []string) error {
				user, err := app.Auth.UpgradeToPremium(ctx)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Welcome to Premium! Your plan is active until %s.\n", formatOptionalDate(user.PremiumExpiry))
				return nil
			}),
		},
	)
	return cmd
}

func newRegisterCommand(state *rootState) *cobra.Command {
	var name, email, password string
	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create an account and log in",
		Args:  exactArgs(0),
		RunE: withLogging(state, func(ctx context.Context, app *App, cmd *cobra.Command, args []string) error {
			password, err := passwordOrPrompt(cmd, password)
			if err != nil {
				return err
			}
			user, err := app.Auth.Register(ctx, &model.RegisterRequest{Name: name, Email: email, Password: password})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Welcome, %s! You are now logged in.\n", user.Name)
			return nil
		}),
	}
	cmd.Flags().StringVar(&name, "name", "", "display name")
	cmd.Flags().StringVar(&email, "email", "", "email address")
	cmd.Flags().StringVar(&password, "password", "", "password (read from stdin when omitted)")
	return cmd
}

func newLoginCommand(state *rootState) *cobra.Command {
	var email, password string
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in",
		Args:  exactArgs(0),
		RunE: withLogging(state, func(ctx context.Context, app *App, cmd *cobra.Command, args []string) error {
			password, err := passwordOrPrompt(cmd, password)
			if err != nil {
				return err
			}
			user, err := app.Auth.Login(ctx, &model.LoginRequest{Email: email, Password: password})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Logged in as %s.\n", user.Email)
			return nil
		}),
	}
	cmd.Flags().StringVar(&email, "email", "", "email address")
	cmd.Flags().StringVar(&password, "password", "", "password (read from stdin when omitted)")
	return cmd
}

// passwordOrPrompt はフラグがなければ標準入力から1行読みます
func passwordOrPrompt(cmd *cobra.Command, password string) (string, error) {
	if password != "" {
		return password, nil
	}
	line, ok := prompt(bufio.NewReader(cmd.InOrStdin()), cmd.OutOrStdout(), "Password: ")
	if !ok {
		return "", usageError("a password is required")
	}
	return line, nil
}

func printUser(out io.Writer, user *model.User) {
	plan := "Free"
	if user.IsPremium {
		plan = "Premium (until " + formatOptionalDate(user.PremiumExpiry) + ")"
	}
	fmt.Fprintf(out, "Name:   %s\nEmail:  %s\nPlan:   %s\nMember: since %s\n", user.Name, user.Email, plan, formatDate(user.CreatedAt))
}
