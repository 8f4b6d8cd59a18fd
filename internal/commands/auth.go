// Package commands implements the CLI commands.
package commands

import (
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pocketlist/pocketlist/internal/auth"
	"github.com/pocketlist/pocketlist/internal/config"
	"github.com/pocketlist/pocketlist/internal/output"
	"github.com/pocketlist/pocketlist/internal/tui"
)

// NewAuthCmd creates the auth command group.
func NewAuthCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Manage authentication",
		Long: `Manage backend credentials.

The local backend uses your operating system account and needs no login.
The basecamp backend needs an access token, read from POCKETLIST_TOKEN or
stored by 'pocketlist auth login'.`,
	}

	cmd.AddCommand(
		newAuthLoginCmd(),
		newAuthLogoutCmd(),
		newAuthStatusCmd(),
	)

	return cmd
}

func newAuthLoginCmd() *cobra.Command {
	var token string
	var userID string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Store an access token",
		Long:  "Store a Basecamp access token in the system keyring, or a file when no keyring is available.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := requireApp(cmd)
			if err != nil {
				return err
			}
			if app.Config.Backend != config.BackendBasecamp {
				return output.ErrUsageHint("The "+app.Config.Backend+" backend needs no login", "Use --backend basecamp")
			}

			token = strings.TrimSpace(token)
			if token == "" {
				if !canPrompt(app) {
					return output.ErrUsageHint("--token is required", "Pass --token, or run on a terminal to be prompted")
				}
				token, err = tui.PromptToken(cmd.Context())
				if err != nil {
					if tui.IsAborted(err) {
						return output.ErrUsage("Login canceled")
					}
					return err
				}
			}

			if err := app.Gate.Login(token, userID); err != nil {
				return output.ErrAPI("Could not store credentials", err)
			}

			st := app.Gate.Status()
			return app.OK(st,
				output.WithSummary("Logged in to "+st.Origin),
				output.WithBreadcrumbs(
					output.Breadcrumb{
						Action:      "list",
						Cmd:         "pocketlist list",
						Description: "Show every to-do",
					},
				),
			)
		},
	}

	cmd.Flags().StringVar(&token, "token", "", "Access token (prompted when omitted)")
	cmd.Flags().StringVar(&userID, "user-id", "", "Basecamp person ID to record with the token")

	return cmd
}

func newAuthLogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Remove stored credentials",
		Long:  "Remove stored authentication credentials for the current origin.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := requireApp(cmd)
			if err != nil {
				return err
			}

			if err := app.Gate.Logout(); err != nil {
				return output.ErrAPI("Could not remove credentials", err)
			}

			summary := "Successfully logged out"
			if os.Getenv(auth.TokenEnv) != "" {
				summary += " (" + auth.TokenEnv + " is still set)"
			}
			return app.OK(map[string]string{
				"status": "logged_out",
			}, output.WithSummary(summary))
		},
	}
}

func newAuthStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show authentication status",
		Long:  "Display whether the configured backend would accept this session.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := requireApp(cmd)
			if err != nil {
				return err
			}

			st := app.Gate.Status()
			summary := "Not authenticated"
			if st.Authenticated {
				summary = "Authenticated"
				if st.UserID != "" {
					summary += " as " + st.UserID
				}
				summary += " via " + st.Source
			}

			var crumbs []output.Breadcrumb
			if !st.Authenticated {
				crumbs = append(crumbs, output.Breadcrumb{
					Action:      "login",
					Cmd:         "pocketlist auth login",
					Description: "Store an access token",
				})
			}
			return app.OK(st, output.WithSummary(summary), output.WithBreadcrumbs(crumbs...))
		},
	}
}
