package cli

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pocketlist/pocketlist/internal/appctx"
	"github.com/pocketlist/pocketlist/internal/config"
	"github.com/pocketlist/pocketlist/internal/output"
)

// runProbe executes root with a probe subcommand and returns the app the
// probe saw.
func runProbe(t *testing.T, args ...string) (*appctx.App, error) {
	t.Helper()
	t.Setenv("POCKETLIST_NO_KEYRING", "1")
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("POCKETLIST_BACKEND", "")
	t.Chdir(t.TempDir())

	var got *appctx.App
	root := NewRootCmd()
	root.AddCommand(&cobra.Command{
		Use: "probe",
		RunE: func(cmd *cobra.Command, args []string) error {
			got = appctx.FromContext(cmd.Context())
			return nil
		},
	})
	root.SetArgs(append([]string{"probe"}, args...))
	err := root.Execute()
	return got, err
}

func TestPersistentPreRunBuildsApp(t *testing.T) {
	dataDir := filepath.Join(t.TempDir(), "data")

	app, err := runProbe(t, "--backend", "basecamp", "--data-dir", dataDir, "--project", "7", "-vv", "--json", "--stats")
	require.NoError(t, err)
	require.NotNil(t, app)

	assert.Equal(t, config.BackendBasecamp, app.Config.Backend)
	assert.Equal(t, "flag", app.Config.SourceOf("backend"))
	assert.Equal(t, dataDir, app.Config.DataDir)
	assert.Equal(t, "7", app.Config.ProjectID)
	assert.Equal(t, 2, app.Flags.Verbose)
	assert.True(t, app.Flags.JSON)
	assert.True(t, app.Flags.Stats)
}

func TestPersistentPreRunDefaults(t *testing.T) {
	app, err := runProbe(t)
	require.NoError(t, err)
	require.NotNil(t, app)
	assert.Equal(t, config.BackendLocal, app.Config.Backend)
	assert.Equal(t, "default", app.Config.SourceOf("backend"))
}

func TestPersistentPreRunRejectsUnknownBackend(t *testing.T) {
	_, err := runProbe(t, "--backend", "ftp")
	require.Error(t, err)

	var e *output.Error
	require.ErrorAs(t, err, &e)
	assert.Equal(t, output.CodeUsage, e.Code)
	assert.Contains(t, e.Message, "ftp")
}

func TestTransformCobraError(t *testing.T) {
	tests := []struct {
		in      string
		wantMsg string
		usage   bool
	}{
		{"flag needs an argument: --name", "--name requires a value", true},
		{"unknown flag: --nope", "Unknown option: --nope", true},
		{"unknown shorthand flag: 'z' in -z", "Unknown option: -z", true},
		{`unknown command "frob" for "pocketlist"`, `unknown command "frob" for "pocketlist"`, true},
		{`invalid argument "x" for "-v, --verbose" flag`, `invalid argument "x" for "-v, --verbose" flag`, true},
		{`unknown command "x" for "pocketlist list"`, `unknown command "x" for "pocketlist list"`, true},
		{"accepts 0 arg(s), received 1", "accepts 0 arg(s), received 1", true},
		{"something else", "something else", false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			err := transformCobraError(errors.New(tt.in))
			var e *output.Error
			if !tt.usage {
				assert.False(t, errors.As(err, &e))
				assert.Equal(t, tt.wantMsg, err.Error())
				return
			}
			require.ErrorAs(t, err, &e)
			assert.Equal(t, output.CodeUsage, e.Code)
			assert.Equal(t, tt.wantMsg, e.Message)
		})
	}
}

func TestFallbackFormat(t *testing.T) {
	tests := []struct {
		args []string
		want output.Format
	}{
		{nil, output.FormatAuto},
		{[]string{"--json"}, output.FormatJSON},
		{[]string{"--yaml"}, output.FormatYAML},
		{[]string{"--styled"}, output.FormatStyled},
		{[]string{"--quiet", "--json"}, output.FormatQuiet},
	}

	for _, tt := range tests {
		root := NewRootCmd()
		require.NoError(t, root.PersistentFlags().Parse(tt.args))
		assert.Equal(t, tt.want, fallbackFormat(root), "%v", tt.args)
	}
}

func TestAddCommandsRegistersEveryCommand(t *testing.T) {
	root := NewRootCmd()
	AddCommands(root)

	for _, name := range []string{"tui", "list", "add", "auth", "config", "version", "commands"} {
		cmd, _, err := root.Find([]string{name})
		require.NoError(t, err, name)
		assert.Equal(t, name, cmd.Name())
	}
}
