package commands

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pocketlist/pocketlist/internal/appctx"
	"github.com/pocketlist/pocketlist/internal/models"
	"github.com/pocketlist/pocketlist/internal/output"
	"github.com/pocketlist/pocketlist/internal/tui"
	"github.com/pocketlist/pocketlist/internal/tui/empty"
)

// NewListCmd creates the list command.
func NewListCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "Print every to-do",
		Long: `Fetch every to-do and print it.

Photos are resolved to displayable URLs. The fetch succeeds or fails as a
whole: if any photo cannot be resolved nothing is printed.`,
		Example: `  pocketlist list
  pocketlist list --json
  pocketlist list --jq '.[] | select(.image != "") | .name'`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runList(cmd)
		},
	}
}

func runList(cmd *cobra.Command) error {
	app, err := requireApp(cmd)
	if err != nil {
		return err
	}
	if err := app.Connect(cmd.Context()); err != nil {
		return err
	}

	if err := fetch(cmd.Context(), app); err != nil {
		return err
	}

	items := app.List.Items()
	if items == nil {
		items = []models.Item{}
	}

	summary := output.Count(len(items), "todo", "todos")
	if len(items) == 0 {
		summary = empty.NoTodosCLI().String()
	}

	return app.OK(items,
		output.WithSummary(summary),
		output.WithBreadcrumbs(
			output.Breadcrumb{
				Action:      "add",
				Cmd:         "pocketlist add --name <text>",
				Description: "Add a to-do",
			},
		),
	)
}

// fetch runs FetchAll, behind a spinner when a person is watching.
func fetch(ctx context.Context, app *appctx.App) error {
	if !canSpin(app) {
		return app.Controller.FetchAll(ctx)
	}
	err := tui.NewSpinner("Loading todos…", tui.NewStyles(), os.Stderr).Run(ctx, app.Controller.FetchAll)
	if errors.Is(err, tui.ErrCanceled) {
		return fmt.Errorf("list: %w", context.Canceled)
	}
	return err
}
