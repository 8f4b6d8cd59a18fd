package commands

import (
	"path/filepath"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/pocketlist/pocketlist/internal/appctx"
	"github.com/pocketlist/pocketlist/internal/config"
	"github.com/pocketlist/pocketlist/internal/output"
	"github.com/pocketlist/pocketlist/internal/tui"
)

// NewConfigCmd creates the config command for inspecting configuration.
func NewConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show configuration",
		Long: `Show pocketlist configuration.

Configuration is loaded from multiple sources with the following precedence:
  flags > env > local > global > system > defaults

Config locations:
  - System: /etc/pocketlist/config.json
  - Global: ~/.config/pocketlist/config.json
  - Local:  .pocketlist/config.json

Theme colors are read from ~/.config/pocketlist/theme/colors.toml.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConfigShow(cmd)
		},
	}

	cmd.AddCommand(
		newConfigShowCmd(),
		newConfigPathCmd(),
	)

	return cmd
}

func newConfigShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show effective configuration",
		Long:  "Display the current effective configuration with source information.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConfigShow(cmd)
		},
	}
}

// configEntry is one row of config show.
type configEntry struct {
	Value  string `json:"value" yaml:"value"`
	Source string `json:"source" yaml:"source"`
}

func configEntries(cfg *config.Config) map[string]configEntry {
	keys := []struct {
		key     string
		value   string
		include bool
	}{
		{"backend", cfg.Backend, true},
		{"base_url", cfg.BaseURL, cfg.Backend == config.BackendBasecamp},
		{"account_id", cfg.AccountID, cfg.AccountID != ""},
		{"project_id", cfg.ProjectID, cfg.ProjectID != ""},
		{"todolist_id", cfg.TodolistID, cfg.TodolistID != ""},
		{"data_dir", cfg.DataDir, cfg.Backend == config.BackendLocal},
		{"cache_dir", cfg.CacheDir, cfg.CacheDir != ""},
		{"url_ttl", cfg.URLTTL.String(), true},
		{"concurrency", strconv.Itoa(cfg.Concurrency), true},
		{"format", cfg.Format, cfg.Format != ""},
		{"verbose", strconv.Itoa(cfg.Verbose), cfg.Verbose != 0},
	}

	entries := make(map[string]configEntry, len(keys))
	for _, k := range keys {
		if k.include {
			entries[k.key] = configEntry{Value: k.value, Source: cfg.SourceOf(k.key)}
		}
	}
	return entries
}

func runConfigShow(cmd *cobra.Command) error {
	app, err := requireApp(cmd)
	if err != nil {
		return err
	}

	return app.OK(configEntries(app.Config),
		output.WithSummary("Effective configuration"),
		output.WithBreadcrumbs(
			output.Breadcrumb{
				Action:      "path",
				Cmd:         "pocketlist config path",
				Description: "Show config file locations",
			},
		),
	)
}

func newConfigPathCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Show config file locations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := requireApp(cmd)
			if err != nil {
				return err
			}
			return app.OK(configPaths(app), output.WithSummary("Config locations"))
		},
	}
}

func configPaths(app *appctx.App) map[string]string {
	paths := map[string]string{
		"global": filepath.Join(config.GlobalConfigDir(), "config.json"),
		"data":   app.Config.DataDir,
		"cache":  app.Config.CacheDir,
		"log":    filepath.Join(app.Config.CacheDir, "pocketlist.log"),
	}
	if p, err := tui.UserThemePath(); err == nil {
		paths["theme"] = p
	}
	return paths
}
