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
	"github.com/pocketlist/pocketlist/internal/picker"
	"github.com/pocketlist/pocketlist/internal/state"
	"github.com/pocketlist/pocketlist/internal/tui"
)

type addFlags struct {
	name        string
	description string
	photo       string
	// browse opens the terminal file picker when no --photo was given.
	browse bool
}

// NewAddCmd creates the add command.
func NewAddCmd() *cobra.Command {
	var flags addFlags

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a to-do",
		Long: `Add a to-do, optionally with a photo.

Without --name a form asks for the fields on a terminal. The photo is
uploaded before the to-do is created; if the upload fails nothing is
created.`,
		Example: `  pocketlist add --name "Buy milk"
  pocketlist add --name "Fix fence" --description "**before** Friday" --photo fence.jpg
  pocketlist add`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := requireApp(cmd)
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("name") {
				if !canPrompt(app) {
					return output.ErrUsageHint("--name is required", "Pass --name, or run on a terminal to use the form")
				}
				in := tui.AddInput{Description: flags.description}
				if err := tui.RunAddForm(cmd.Context(), &in, flags.photo == ""); err != nil {
					if tui.IsAborted(err) {
						return app.OK(map[string]string{"status": "canceled"}, output.WithSummary("Nothing added"))
					}
					return err
				}
				flags.name, flags.description, flags.browse = in.Name, in.Description, in.AttachPhoto
			}
			return runAdd(cmd.Context(), app, flags)
		},
	}

	cmd.Flags().StringVarP(&flags.name, "name", "n", "", "To-do name (may be empty)")
	cmd.Flags().StringVarP(&flags.description, "description", "d", "", "Description (Markdown)")
	cmd.Flags().StringVar(&flags.photo, "photo", "", "Path to a photo to attach")
	_ = cmd.MarkFlagFilename("photo", "jpg", "jpeg", "png", "heic")

	return cmd
}

func runAdd(ctx context.Context, app *appctx.App, flags addFlags) error {
	if err := app.Connect(ctx); err != nil {
		return err
	}

	app.Form.Open()
	app.Form.UpdateField(state.FieldName, flags.name)
	app.Form.UpdateField(state.FieldDescription, flags.description)

	switch {
	case flags.photo != "":
		if err := app.Picker.ChoosePhotoFrom(ctx, picker.PathSource{Path: flags.photo}); err != nil {
			app.Form.Cancel()
			return output.ErrUsage(err.Error())
		}
	case flags.browse:
		// Backing out of the file picker adds the todo without a photo.
		if err := app.Picker.ChoosePhoto(ctx); err != nil {
			app.Form.Cancel()
			return err
		}
	}

	if err := submit(ctx, app); err != nil {
		return err
	}

	created := lastItem(app.List.Items())
	return app.OK(created,
		output.WithSummary(fmt.Sprintf("Added %q", created.Name)),
		output.WithBreadcrumbs(
			output.Breadcrumb{
				Action:      "list",
				Cmd:         "pocketlist list",
				Description: "Show every to-do",
			},
		),
	)
}

// submit runs AddTodo, behind a spinner when a person is watching.
func submit(ctx context.Context, app *appctx.App) error {
	if !canSpin(app) {
		return app.Controller.AddTodo(ctx)
	}
	err := tui.NewSpinner("Saving…", tui.NewStyles(), os.Stderr).Run(ctx, app.Controller.AddTodo)
	if errors.Is(err, tui.ErrCanceled) {
		return fmt.Errorf("add: %w", context.Canceled)
	}
	return err
}

func lastItem(items []models.Item) models.Item {
	if len(items) == 0 {
		return models.Item{}
	}
	return items[len(items)-1]
}
