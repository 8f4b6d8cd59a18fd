package cli

import (
	"os"
	"regexp"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pocketlist/pocketlist/internal/appctx"
	"github.com/pocketlist/pocketlist/internal/commands"
	"github.com/pocketlist/pocketlist/internal/config"
	"github.com/pocketlist/pocketlist/internal/output"
	"github.com/pocketlist/pocketlist/internal/version"
)

// NewRootCmd creates the root cobra command.
func NewRootCmd() *cobra.Command {
	var flags appctx.GlobalFlags

	cmd := &cobra.Command{
		Use:           "pocketlist",
		Short:         "A small to-do list with photos",
		Long:          "pocketlist keeps a to-do list in a local store or a Basecamp to-do list, with optional photos on each item.",
		Version:       version.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          commands.RunTUIDefault, // Open the list when no args
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// Skip setup for help and version commands
			if cmd.Name() == "help" || cmd.Name() == "version" {
				return nil
			}

			cfg, err := config.Load(config.FlagOverrides{
				Backend:  flags.Backend,
				Account:  flags.Account,
				Project:  flags.Project,
				Todolist: flags.Todolist,
				DataDir:  flags.DataDir,
			})
			if err != nil {
				return output.ErrUsage(err.Error())
			}

			app := appctx.NewApp(cfg)
			app.Flags = flags
			app.ApplyFlags()

			cmd.SetContext(appctx.WithApp(cmd.Context(), app))
			return nil
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if app := appctx.FromContext(cmd.Context()); app != nil {
				app.PrintStats()
				return app.Close()
			}
			return nil
		},
	}

	// Allow flags anywhere in the command line
	cmd.Flags().SetInterspersed(true)
	cmd.PersistentFlags().SetInterspersed(true)

	// Output format flags
	cmd.PersistentFlags().BoolVarP(&flags.JSON, "json", "j", false, "Output as JSON")
	cmd.PersistentFlags().BoolVar(&flags.YAML, "yaml", false, "Output as YAML")
	cmd.PersistentFlags().BoolVarP(&flags.Quiet, "quiet", "q", false, "Output data only, no envelope")
	cmd.PersistentFlags().BoolVar(&flags.Styled, "styled", false, "Force styled output (ANSI colors)")
	cmd.PersistentFlags().StringVar(&flags.JQ, "jq", "", "Filter the data field with a jq expression")

	// Context flags
	cmd.PersistentFlags().StringVarP(&flags.Backend, "backend", "b", "", "Backend: local or basecamp")
	cmd.PersistentFlags().StringVar(&flags.DataDir, "data-dir", "", "Local backend data directory")
	cmd.PersistentFlags().StringVarP(&flags.Account, "account", "a", "", "Basecamp account ID")
	cmd.PersistentFlags().StringVarP(&flags.Project, "project", "p", "", "Basecamp project ID")
	cmd.PersistentFlags().StringVar(&flags.Todolist, "todolist", "", "Basecamp to-do list ID")

	// Behavior flags
	cmd.PersistentFlags().CountVarP(&flags.Verbose, "verbose", "v", "Verbose output (-v for operations, -vv for requests)")
	cmd.PersistentFlags().BoolVar(&flags.Stats, "stats", false, "Show session statistics")

	_ = cmd.RegisterFlagCompletionFunc("backend", func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		return []string{config.BackendLocal, config.BackendBasecamp}, cobra.ShellCompDirectiveNoFileComp
	})

	return cmd
}

// AddCommands registers every subcommand on root.
func AddCommands(root *cobra.Command) {
	root.AddCommand(commands.NewTUICmd())
	root.AddCommand(commands.NewListCmd())
	root.AddCommand(commands.NewAddCmd())
	root.AddCommand(commands.NewAuthCmd())
	root.AddCommand(commands.NewConfigCmd())
	root.AddCommand(commands.NewVersionCmd())
	root.AddCommand(commands.NewCommandsCmd())
}

// Execute runs the root command.
func Execute() {
	cmd := NewRootCmd()
	AddCommands(cmd)

	// Use ExecuteC to get the executed command (for correct context access)
	executedCmd, err := cmd.ExecuteC()
	if err != nil {
		err = transformCobraError(err)
		apiErr := output.AsError(err)

		// Try to use app.Err() if app is available (for --stats support)
		if app := appctx.FromContext(executedCmd.Context()); app != nil {
			_ = app.Err(err)
			_ = app.Close()
			os.Exit(apiErr.ExitCode())
		}

		// Fallback: output error directly (app not available, e.g., during setup)
		writer := output.New(output.Options{
			Format: fallbackFormat(cmd),
			Writer: os.Stdout,
		})
		_ = writer.Err(err)

		os.Exit(apiErr.ExitCode())
	}
}

// fallbackFormat reads the output flags straight off the command line when
// setup failed before the app existed.
func fallbackFormat(cmd *cobra.Command) output.Format {
	pf := cmd.PersistentFlags()
	quiet, _ := pf.GetBool("quiet")
	jsonFlag, _ := pf.GetBool("json")
	yamlFlag, _ := pf.GetBool("yaml")
	styled, _ := pf.GetBool("styled")

	switch {
	case quiet:
		return output.FormatQuiet
	case jsonFlag:
		return output.FormatJSON
	case yamlFlag:
		return output.FormatYAML
	case styled:
		return output.FormatStyled
	}
	return output.FormatAuto
}

var shorthandFlagRE = regexp.MustCompile(`unknown shorthand flag: '.' in (-\w)`)

// transformCobraError turns cobra's parse errors into usage errors with
// shorter messages.
func transformCobraError(err error) error {
	msg := err.Error()

	// "flag needs an argument: --FLAG" → "--FLAG requires a value"
	if strings.HasPrefix(msg, "flag needs an argument: ") {
		flag := strings.TrimPrefix(msg, "flag needs an argument: ")
		return output.ErrUsage(flag + " requires a value")
	}

	if strings.HasPrefix(msg, "unknown flag: ") {
		flag := strings.TrimPrefix(msg, "unknown flag: ")
		return output.ErrUsage("Unknown option: " + flag)
	}

	if strings.HasPrefix(msg, "unknown shorthand flag: ") {
		if matches := shorthandFlagRE.FindStringSubmatch(msg); len(matches) > 1 {
			return output.ErrUsage("Unknown option: " + matches[1])
		}
	}

	if strings.HasPrefix(msg, "unknown command ") {
		return output.ErrUsageHint(msg, "Run 'pocketlist --help' for usage")
	}

	if strings.Contains(msg, "invalid argument") ||
		strings.Contains(msg, "accepts") && strings.Contains(msg, "arg(s)") {
		return output.ErrUsage(msg)
	}

	return err
}
