// Package appctx provides application context helpers.
package appctx

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/pocketlist/pocketlist/internal/auth"
	"github.com/pocketlist/pocketlist/internal/config"
	"github.com/pocketlist/pocketlist/internal/data"
	"github.com/pocketlist/pocketlist/internal/gateway"
	bcgateway "github.com/pocketlist/pocketlist/internal/gateway/basecamp"
	"github.com/pocketlist/pocketlist/internal/gateway/local"
	"github.com/pocketlist/pocketlist/internal/observability"
	"github.com/pocketlist/pocketlist/internal/output"
	"github.com/pocketlist/pocketlist/internal/picker"
	"github.com/pocketlist/pocketlist/internal/state"
)

// contextKey is a private type for context keys.
type contextKey string

const appKey contextKey = "app"

// DebugEnv raises verbosity like -v: "1", "2" or "true".
const DebugEnv = "POCKETLIST_DEBUG"

// App holds the shared application context for all commands.
type App struct {
	Config *config.Config
	Store  *auth.Store
	Gate   *auth.Gate
	Output *output.Writer
	Logger *slog.Logger

	// Observability
	Collector *observability.SessionCollector

	// Flags holds the global flag values
	Flags GlobalFlags

	// Populated by Connect.
	Principal  *auth.Principal
	Gateway    gateway.Gateway
	Notifier   gateway.Notifier
	Form       *state.Form
	List       *state.List
	Controller *data.Controller
	Picker     *picker.Picker

	closers []io.Closer
}

// GlobalFlags holds values for global CLI flags.
type GlobalFlags struct {
	// Output format flags
	JSON   bool
	YAML   bool
	Quiet  bool
	Styled bool
	JQ     string

	// Context flags
	Backend  string
	DataDir  string
	Account  string
	Project  string
	Todolist string

	// Behavior flags
	Verbose int // 0=warnings, 1=operations, 2=debug (stacks with -v -v or -vv)
	Stats   bool
}

// NewApp creates a new App with the given configuration.
func NewApp(cfg *config.Config) *App {
	store := auth.NewStore(config.GlobalConfigDir())

	format, err := output.ParseFormat(cfg.Format)
	if err != nil {
		format = output.FormatAuto
	}

	return &App{
		Config:    cfg,
		Store:     store,
		Gate:      auth.NewGate(cfg, store),
		Collector: observability.NewSessionCollector(),
		Logger:    observability.NewLogger(cfg.Verbose, os.Stderr),
		Output: output.New(output.Options{
			Format: format,
			Writer: os.Stdout,
		}),
	}
}

// ApplyFlags applies global flag values to the output writer and logger.
func (a *App) ApplyFlags() {
	// Order matters: specific modes first
	format, err := output.ParseFormat(a.Config.Format)
	if err != nil {
		format = output.FormatAuto
	}
	switch {
	case a.Flags.Quiet:
		format = output.FormatQuiet
	case a.Flags.JSON:
		format = output.FormatJSON
	case a.Flags.YAML:
		format = output.FormatYAML
	case a.Flags.Styled:
		format = output.FormatStyled
	}
	a.Output = output.New(output.Options{Format: format, Writer: os.Stdout, JQ: a.Flags.JQ})

	a.Logger = observability.NewLogger(a.verboseLevel(), os.Stderr)
}

// verboseLevel combines -v, config and POCKETLIST_DEBUG.
func (a *App) verboseLevel() int {
	level := max(a.Flags.Verbose, a.Config.Verbose)
	if v := os.Getenv(DebugEnv); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			level = max(level, n)
		} else if v == "true" {
			level = 2
		}
	}
	return level
}

// LogToFile sends logs to <cache_dir>/pocketlist.log, for commands that
// take over the terminal.
func (a *App) LogToFile() error {
	f, err := observability.OpenLogFile(a.Config.CacheDir)
	if err != nil {
		return err
	}
	a.closers = append(a.closers, f)
	a.Logger = observability.NewLogger(max(a.verboseLevel(), 1), f)
	return nil
}

// Connect passes the auth gate and wires the gateway, state holders,
// controller and picker. Nothing touches the gateway before the gate opens.
func (a *App) Connect(ctx context.Context) error {
	if a.Controller != nil {
		return nil
	}

	principal, err := a.Gate.Require(ctx)
	if err != nil {
		return err
	}
	a.Principal = principal

	gw, err := a.openGateway(principal)
	if err != nil {
		return err
	}
	a.Gateway = observability.Trace(gw, a.Logger, a.Collector)

	a.Form = state.NewForm()
	a.List = state.NewList()
	a.Controller = data.NewController(a.Gateway, a.Form, a.List,
		data.WithLogger(a.Logger),
		data.WithMaxConcurrent(a.Config.Concurrency),
		data.WithURLExpiry(a.Config.URLTTL),
	)
	a.Picker = picker.New(a.Form, picker.FormSource{}, picker.WithLogger(a.Logger))

	a.Logger.Debug("connected", "backend", principal.Backend, "principal", principal.ID, "source", principal.Source)
	return nil
}

func (a *App) openGateway(principal *auth.Principal) (gateway.Gateway, error) {
	switch a.Config.Backend {
	case config.BackendBasecamp:
		svc, err := bcgateway.NewSDKService(bcgateway.ClientConfig{
			BaseURL:    a.Config.BaseURL,
			AccountID:  a.Config.AccountID,
			ProjectID:  a.Config.ProjectID,
			TodolistID: a.Config.TodolistID,
			CacheDir:   a.Config.CacheDir,
		}, a.Gate, observability.NewSDKHooks(a.Logger))
		if err != nil {
			return nil, err
		}
		return bcgateway.New(svc, bcgateway.WithLogger(a.Logger)), nil

	case config.BackendLocal:
		b, err := local.Open(a.Config.DataDir, principal.ID, local.WithLogger(a.Logger))
		if err != nil {
			return nil, output.ErrAPI("Could not open local store", err)
		}
		a.closers = append(a.closers, b)
		a.Notifier = b
		return b, nil
	}
	return nil, output.ErrUsage(fmt.Sprintf("unknown backend %q", a.Config.Backend))
}

// Close releases the gateway and log file.
func (a *App) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i].Close(); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}

// OK outputs a success response.
func (a *App) OK(data any, opts ...output.ResponseOption) error {
	return a.Output.OK(data, opts...)
}

// Err outputs an error response, printing stats to stderr if --stats is set.
func (a *App) Err(err error) error {
	if outputErr := a.Output.Err(err); outputErr != nil {
		return outputErr
	}
	a.PrintStats()
	return nil
}

// PrintStats writes a one-line gateway summary to stderr when --stats is set
// and the output is meant for people.
func (a *App) PrintStats() {
	if !a.Flags.Stats || a.Collector == nil || a.isMachineOutput() {
		return
	}
	stats := a.Collector.Summary()
	if stats.Operations == 0 {
		return
	}

	parts := []string{output.Count(stats.Operations, "call", "calls")}
	if stats.Failed > 0 {
		parts = append(parts, fmt.Sprintf("%d failed", stats.Failed))
	}
	if stats.TotalLatency < time.Second {
		parts = append(parts, fmt.Sprintf("%dms", stats.TotalLatency.Milliseconds()))
	} else {
		parts = append(parts, fmt.Sprintf("%.1fs", stats.TotalLatency.Seconds()))
	}
	fmt.Fprintf(os.Stderr, "\nStats: %s\n", strings.Join(parts, " | "))
}

// isMachineOutput reports whether output is meant for programs.
func (a *App) isMachineOutput() bool {
	if a.Flags.JSON || a.Flags.YAML || a.Flags.Quiet {
		return true
	}
	return a.Config != nil && (a.Config.Format == "quiet" || a.Config.Format == "json" || a.Config.Format == "yaml")
}

// IsInteractive returns true if the terminal supports the interactive TUI.
func (a *App) IsInteractive() bool {
	if a.Flags.JSON || a.Flags.YAML || a.Flags.Quiet {
		return false
	}

	fi, err := os.Stdout.Stat()
	if err != nil {
		return false
	}
	return (fi.Mode() & os.ModeCharDevice) != 0
}

// WithApp stores the app in the context.
func WithApp(ctx context.Context, app *App) context.Context {
	return context.WithValue(ctx, appKey, app)
}

// FromContext retrieves the app from the context.
func FromContext(ctx context.Context) *App {
	app, _ := ctx.Value(appKey).(*App)
	return app
}
