package commands

import (
	"github.com/spf13/cobra"

	"github.com/pocketlist/pocketlist/internal/output"
	"github.com/pocketlist/pocketlist/internal/tui"
	"github.com/pocketlist/pocketlist/internal/tui/app"
)

// NewTUICmd creates the tui command for the interactive list.
func NewTUICmd() *cobra.Command {
	var watch bool

	cmd := &cobra.Command{
		Use:   "tui",
		Short: "Open the interactive to-do list",
		Long: `Open a full-screen to-do list.

Keys: n adds a to-do, j/k move, r refreshes, q quits. In the form, tab
switches fields, ctrl+p attaches a photo, ctrl+s saves and esc cancels.

With --watch the list refreshes whenever another process changes the
local store.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI(cmd, watch)
		},
	}

	cmd.Flags().BoolVarP(&watch, "watch", "w", false, "Refresh when the store changes (local backend)")

	return cmd
}

// RunTUIDefault opens the list when pocketlist runs without a subcommand.
// Machine output and pipes get the list command instead.
func RunTUIDefault(cmd *cobra.Command, args []string) error {
	a, err := requireApp(cmd)
	if err != nil {
		return err
	}
	if !canPrompt(a) {
		return runList(cmd)
	}
	return runTUI(cmd, false)
}

func runTUI(cmd *cobra.Command, watch bool) error {
	a, err := requireApp(cmd)
	if err != nil {
		return err
	}
	if !canPrompt(a) {
		return output.ErrUsageHint("The interactive list needs a terminal", "Use 'pocketlist list' for non-interactive output")
	}

	// The alternate screen owns the terminal; keep logs out of it.
	if err := a.LogToFile(); err != nil {
		return err
	}
	if err := a.Connect(cmd.Context()); err != nil {
		return err
	}

	opts := app.Options{
		Controller: a.Controller,
		Form:       a.Form,
		List:       a.List,
		Picker:     a.Picker,
		Styles:     tui.NewStyles(),
		Logger:     a.Logger,
	}
	if watch {
		if a.Notifier == nil {
			return output.ErrUsageHint("--watch is not supported by the "+a.Config.Backend+" backend", "Use r to refresh by hand")
		}
		opts.Notifier = a.Notifier
	}

	return app.Run(cmd.Context(), opts)
}
