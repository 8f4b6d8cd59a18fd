package commands

import (
	"fmt"
	"os"

	"github.com/charmbracelet/x/term"
	"github.com/spf13/cobra"

	"github.com/pocketlist/pocketlist/internal/appctx"
)

// requireApp returns the app stored by the root command.
func requireApp(cmd *cobra.Command) (*appctx.App, error) {
	app := appctx.FromContext(cmd.Context())
	if app == nil {
		return nil, fmt.Errorf("app not initialized")
	}
	return app, nil
}

// canPrompt reports whether interactive prompts can run: human output and
// both stdin and stdout attached to a terminal.
func canPrompt(app *appctx.App) bool {
	return app.IsInteractive() && term.IsTerminal(os.Stdin.Fd())
}

// canSpin reports whether a spinner can be drawn on stderr.
func canSpin(app *appctx.App) bool {
	return app.IsInteractive() && term.IsTerminal(os.Stderr.Fd())
}
