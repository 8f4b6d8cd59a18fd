package commands

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pocketlist/pocketlist/internal/appctx"
	"github.com/pocketlist/pocketlist/internal/config"
	"github.com/pocketlist/pocketlist/internal/models"
	"github.com/pocketlist/pocketlist/internal/output"
	"github.com/pocketlist/pocketlist/internal/picker"
)

// setupTestApp creates an app on the local backend in a temp dir, writing
// JSON to the returned buffer.
func setupTestApp(t *testing.T) (*appctx.App, *bytes.Buffer) {
	t.Helper()

	// Disable keyring access during tests
	t.Setenv("POCKETLIST_NO_KEYRING", "1")
	t.Setenv("POCKETLIST_TOKEN", "")
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	cfg := config.Default()
	cfg.DataDir = filepath.Join(t.TempDir(), "data")
	cfg.CacheDir = filepath.Join(t.TempDir(), "cache")

	buf := &bytes.Buffer{}
	app := appctx.NewApp(cfg)
	app.Output = output.New(output.Options{
		Format: output.FormatJSON,
		Writer: buf,
	})
	t.Cleanup(func() { _ = app.Close() })
	return app, buf
}

func executeCommand(cmd *cobra.Command, app *appctx.App, args ...string) error {
	cmd.SetArgs(args)
	cmd.SetContext(appctx.WithApp(context.Background(), app))

	// Suppress output during tests
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})

	return cmd.Execute()
}

type envelope[T any] struct {
	OK      bool   `json:"ok"`
	Data    T      `json:"data"`
	Summary string `json:"summary"`
}

func decode[T any](t *testing.T, buf *bytes.Buffer) envelope[T] {
	t.Helper()
	var env envelope[T]
	require.NoError(t, json.Unmarshal(buf.Bytes(), &env), buf.String())
	buf.Reset()
	return env
}

func writePhoto(t *testing.T, name string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte{0xff, 0xd8, 0xff, 0xe0}, 0o600))
	return path
}

func TestListEmpty(t *testing.T) {
	app, buf := setupTestApp(t)

	require.NoError(t, executeCommand(NewListCmd(), app))

	env := decode[[]models.Item](t, buf)
	assert.True(t, env.OK)
	assert.Empty(t, env.Data)
	assert.NotNil(t, env.Data, "empty list is [] not null")
	assert.Contains(t, env.Summary, "You have no todos yet.")
}

func TestAddRequiresNameWithoutTerminal(t *testing.T) {
	app, _ := setupTestApp(t)

	err := executeCommand(NewAddCmd(), app)
	require.Error(t, err)

	var e *output.Error
	require.ErrorAs(t, err, &e)
	assert.Equal(t, output.CodeUsage, e.Code)
	assert.Equal(t, "--name is required", e.Message)
}

func TestAddThenList(t *testing.T) {
	app, buf := setupTestApp(t)

	require.NoError(t, executeCommand(NewAddCmd(), app, "--name", "Buy milk", "--description", "**2%**"))
	added := decode[models.Item](t, buf)
	assert.Equal(t, "Buy milk", added.Data.Name)
	assert.Equal(t, "**2%**", added.Data.Description)
	assert.Equal(t, `Added "Buy milk"`, added.Summary)

	require.NoError(t, executeCommand(NewListCmd(), app))
	listed := decode[[]models.Item](t, buf)
	require.Len(t, listed.Data, 1)
	assert.Equal(t, "Buy milk", listed.Data[0].Name)
	assert.NotEmpty(t, listed.Data[0].ID)
	assert.Equal(t, "1 todo", listed.Summary)
}

func TestAddEmptyName(t *testing.T) {
	app, buf := setupTestApp(t)

	require.NoError(t, executeCommand(NewAddCmd(), app, "--name", ""))
	added := decode[models.Item](t, buf)
	assert.Empty(t, added.Data.Name)
}

func TestAddWithPhoto(t *testing.T) {
	app, buf := setupTestApp(t)
	photo := writePhoto(t, "fence.jpg")

	require.NoError(t, executeCommand(NewAddCmd(), app, "--name", "Fix fence", "--photo", photo))
	added := decode[models.Item](t, buf)
	assert.Contains(t, added.Data.Image, "_todoPhoto.jpg", "optimistic copy carries the storage key")

	require.NoError(t, executeCommand(NewListCmd(), app))
	listed := decode[[]models.Item](t, buf)
	require.Len(t, listed.Data, 1)
	assert.True(t, listed.Data[0].HasImage())
	assert.NotEqual(t, added.Data.Image, listed.Data[0].Image, "fetched copy carries a display URI")
}

func TestAddRejectsUnsupportedPhoto(t *testing.T) {
	app, buf := setupTestApp(t)
	notes := writePhoto(t, "notes.txt")

	err := executeCommand(NewAddCmd(), app, "--name", "x", "--photo", notes)
	var e *output.Error
	require.ErrorAs(t, err, &e)
	assert.Equal(t, output.CodeUsage, e.Code)
	assert.Empty(t, buf.String())

	require.NoError(t, executeCommand(NewListCmd(), app))
	assert.Empty(t, decode[[]models.Item](t, buf).Data, "nothing is created")
}

func TestAddMissingPhoto(t *testing.T) {
	app, _ := setupTestApp(t)

	err := executeCommand(NewAddCmd(), app, "--name", "x", "--photo", filepath.Join(t.TempDir(), "gone.jpg"))
	require.Error(t, err)
	assert.False(t, app.Form.UI().ShowForm, "form is cancelled on a bad photo")
}

func TestAddBrowsesForPhoto(t *testing.T) {
	app, buf := setupTestApp(t)
	ctx := context.Background()
	require.NoError(t, app.Connect(ctx))

	photo := writePhoto(t, "cat.jpg")
	browsed := 0
	app.Picker = picker.New(app.Form, picker.SourceFunc(func(context.Context, picker.Config) (*picker.Selection, error) {
		browsed++
		return &picker.Selection{URI: picker.FileURI(photo)}, nil
	}), picker.WithLogger(app.Logger))

	require.NoError(t, runAdd(ctx, app, addFlags{name: "Cat", browse: true}))
	assert.Equal(t, 1, browsed)
	assert.True(t, decode[models.Item](t, buf).Data.HasImage())
}

func TestAddBrowseCancelledAddsWithoutPhoto(t *testing.T) {
	app, buf := setupTestApp(t)
	ctx := context.Background()
	require.NoError(t, app.Connect(ctx))

	app.Picker = picker.New(app.Form, picker.SourceFunc(func(context.Context, picker.Config) (*picker.Selection, error) {
		return nil, nil
	}), picker.WithLogger(app.Logger))

	require.NoError(t, runAdd(ctx, app, addFlags{name: "Dog", browse: true}))
	added := decode[models.Item](t, buf)
	assert.Equal(t, "Dog", added.Data.Name)
	assert.False(t, added.Data.HasImage())
}

func TestTUIRequiresTerminal(t *testing.T) {
	app, _ := setupTestApp(t)

	err := executeCommand(NewTUICmd(), app)
	var e *output.Error
	require.ErrorAs(t, err, &e)
	assert.Equal(t, output.CodeUsage, e.Code)
	assert.Nil(t, app.Controller, "nothing connects without a terminal")
}

func TestRunTUIDefaultFallsBackToList(t *testing.T) {
	app, buf := setupTestApp(t)

	cmd := &cobra.Command{Use: "pocketlist", RunE: RunTUIDefault}
	require.NoError(t, executeCommand(cmd, app))

	env := decode[[]models.Item](t, buf)
	assert.True(t, env.OK)
}

func TestAuthStatusLocal(t *testing.T) {
	app, buf := setupTestApp(t)

	require.NoError(t, executeCommand(NewAuthCmd(), app, "status"))

	env := decode[map[string]any](t, buf)
	assert.Equal(t, true, env.Data["authenticated"])
	assert.Equal(t, "os", env.Data["source"])
	assert.Contains(t, env.Summary, "Authenticated")
}

func TestAuthLoginRejectsLocalBackend(t *testing.T) {
	app, _ := setupTestApp(t)

	err := executeCommand(NewAuthCmd(), app, "login", "--token", "abc")
	var e *output.Error
	require.ErrorAs(t, err, &e)
	assert.Equal(t, output.CodeUsage, e.Code)
}

func TestAuthLoginLogoutBasecamp(t *testing.T) {
	app, buf := setupTestApp(t)
	app.Config.Backend = config.BackendBasecamp

	require.NoError(t, executeCommand(NewAuthCmd(), app, "status"))
	assert.Equal(t, false, decode[map[string]any](t, buf).Data["authenticated"])

	require.NoError(t, executeCommand(NewAuthCmd(), app, "login", "--token", "secret", "--user-id", "42"))
	login := decode[map[string]any](t, buf)
	assert.Equal(t, true, login.Data["authenticated"])
	assert.Equal(t, "store", login.Data["source"])
	assert.Equal(t, "42", login.Data["user_id"])

	require.NoError(t, executeCommand(NewAuthCmd(), app, "logout"))
	assert.Equal(t, "logged_out", decode[map[string]any](t, buf).Data["status"])

	require.NoError(t, executeCommand(NewAuthCmd(), app, "status"))
	assert.Equal(t, false, decode[map[string]any](t, buf).Data["authenticated"])
}

func TestAuthLoginRequiresTokenWithoutTerminal(t *testing.T) {
	app, _ := setupTestApp(t)
	app.Config.Backend = config.BackendBasecamp

	err := executeCommand(NewAuthCmd(), app, "login")
	var e *output.Error
	require.ErrorAs(t, err, &e)
	assert.Equal(t, "--token is required", e.Message)
}

func TestConfigShow(t *testing.T) {
	app, buf := setupTestApp(t)
	app.Config.Sources["backend"] = string(config.SourceFlag)

	require.NoError(t, executeCommand(NewConfigCmd(), app, "show"))

	env := decode[map[string]configEntry](t, buf)
	assert.Equal(t, configEntry{Value: "local", Source: "flag"}, env.Data["backend"])
	assert.Equal(t, "default", env.Data["concurrency"].Source)
	assert.Contains(t, env.Data, "data_dir")
	assert.NotContains(t, env.Data, "base_url", "basecamp settings are hidden for the local backend")
}

func TestConfigPath(t *testing.T) {
	app, buf := setupTestApp(t)

	require.NoError(t, executeCommand(NewConfigCmd(), app, "path"))

	env := decode[map[string]string](t, buf)
	assert.Equal(t, app.Config.DataDir, env.Data["data"])
	assert.Equal(t, filepath.Join(app.Config.CacheDir, "pocketlist.log"), env.Data["log"])
}

func TestVersionCommand(t *testing.T) {
	out := &bytes.Buffer{}
	cmd := NewVersionCmd()
	cmd.SetOut(out)
	cmd.SetArgs(nil)

	require.NoError(t, cmd.Execute())
	assert.Contains(t, out.String(), "pocketlist")
}
