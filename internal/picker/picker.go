// Package picker lets the user choose a photo and attaches it to the
// creation form under a freshly generated storage key.
package picker

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/pocketlist/pocketlist/internal/state"
)

// PhotoKeySuffix is appended to every generated photo key.
const PhotoKeySuffix = "_todoPhoto.jpg"

// MediaType restricts what a source offers.
type MediaType string

const MediaPhoto MediaType = "photo"

// Config is passed to a Source on every selection.
type Config struct {
	MediaType     MediaType
	IncludeBase64 bool
	MaxWidth      int
	MaxHeight     int
	// AllowedTypes lists accepted file extensions, with the leading dot.
	AllowedTypes []string
}

// DefaultConfig is the photo configuration used by the creation form.
func DefaultConfig() Config {
	return Config{
		MediaType:     MediaPhoto,
		IncludeBase64: false,
		MaxWidth:      200,
		MaxHeight:     200,
		AllowedTypes:  []string{".jpg", ".jpeg", ".png", ".heic"},
	}
}

// Allows reports whether path has one of the allowed extensions.
// An empty AllowedTypes accepts everything.
func (c Config) Allows(path string) bool {
	if len(c.AllowedTypes) == 0 {
		return true
	}
	ext := strings.ToLower(filepath.Ext(path))
	for _, t := range c.AllowedTypes {
		if ext == t {
			return true
		}
	}
	return false
}

// Selection is one picked asset.
type Selection struct {
	// URI locates the asset on this device (file://...).
	URI    string
	Base64 string
}

// Source is a single-shot selection dialog. A nil selection with a nil
// error means the user cancelled.
type Source interface {
	Select(ctx context.Context, cfg Config) (*Selection, error)
}

// SourceFunc adapts a function to Source.
type SourceFunc func(ctx context.Context, cfg Config) (*Selection, error)

func (f SourceFunc) Select(ctx context.Context, cfg Config) (*Selection, error) {
	return f(ctx, cfg)
}

// Picker attaches selections to a form.
type Picker struct {
	form   *state.Form
	source Source
	cfg    Config
	logger *slog.Logger
	newKey func() string
}

// Option configures a Picker.
type Option func(*Picker)

// WithLogger sets the logger used for selection failures.
func WithLogger(l *slog.Logger) Option {
	return func(p *Picker) { p.logger = l }
}

// WithConfig overrides DefaultConfig.
func WithConfig(cfg Config) Option {
	return func(p *Picker) { p.cfg = cfg }
}

// WithKeyFunc overrides NewPhotoKey.
func WithKeyFunc(fn func() string) Option {
	return func(p *Picker) { p.newKey = fn }
}

// New creates a picker that writes into form. source may be nil when the
// caller only uses Apply.
func New(form *state.Form, source Source, opts ...Option) *Picker {
	p := &Picker{
		form:   form,
		source: source,
		cfg:    DefaultConfig(),
		logger: slog.Default(),
		newKey: NewPhotoKey,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Config returns the selection config.
func (p *Picker) Config() Config {
	return p.cfg
}

// ChoosePhoto runs the configured source once. Cancellation leaves the form
// untouched; so does a failure, which is logged and returned.
func (p *Picker) ChoosePhoto(ctx context.Context) error {
	if p.source == nil {
		return fmt.Errorf("choose photo: no picker source")
	}
	return p.ChoosePhotoFrom(ctx, p.source)
}

// ChoosePhotoFrom is ChoosePhoto with a one-off source, such as a path the
// user already named.
func (p *Picker) ChoosePhotoFrom(ctx context.Context, src Source) error {
	sel, err := src.Select(ctx, p.cfg)
	if err != nil {
		p.logger.Error("photo selection failed", "op", "choose_photo", "err", err)
		return fmt.Errorf("choose photo: %w", err)
	}
	if sel == nil {
		p.logger.Debug("photo selection cancelled", "op", "choose_photo")
		return nil
	}
	p.Apply(*sel)
	return nil
}

// Apply attaches sel under a new key and returns the key.
// Every call generates a fresh key, even for the same asset.
func (p *Picker) Apply(sel Selection) string {
	key := p.newKey()
	p.form.AttachImage(sel.URI, key)
	p.logger.Debug("photo attached", "op", "choose_photo", "key", key, "uri", sel.URI)
	return key
}

// NewPhotoKey returns "<uuid>_todoPhoto.jpg". The suffix is fixed whatever
// the real format of the picked file.
func NewPhotoKey() string {
	return uuid.NewString() + PhotoKeySuffix
}

// FileURI turns a filesystem path into a file:// URI.
func FileURI(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}
	return (&url.URL{Scheme: "file", Path: filepath.ToSlash(abs)}).String()
}

// PathFromURI converts a file:// URI (or a bare path) back to a filesystem path.
func PathFromURI(uri string) (string, error) {
	if !strings.Contains(uri, "://") {
		return uri, nil
	}
	u, err := url.Parse(uri)
	if err != nil {
		return "", fmt.Errorf("parse %q: %w", uri, err)
	}
	if u.Scheme != "file" {
		return "", fmt.Errorf("unsupported URI scheme %q", u.Scheme)
	}
	return filepath.FromSlash(u.Path), nil
}
