// Package data syncs the on-device state holders with the remote gateway.
package data

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/pocketlist/pocketlist/internal/gateway"
	"github.com/pocketlist/pocketlist/internal/models"
	"github.com/pocketlist/pocketlist/internal/picker"
	"github.com/pocketlist/pocketlist/internal/richtext"
	"github.com/pocketlist/pocketlist/internal/state"
)

// DefaultMaxConcurrent bounds parallel image resolution.
const DefaultMaxConcurrent = 8

// Opener opens a local picker URI for upload.
type Opener func(uri string) (io.ReadCloser, error)

// Controller runs fetch and add against the gateway and publishes the
// results into the form and list holders.
type Controller struct {
	gw   gateway.Gateway
	form *state.Form
	list *state.List

	logger        *slog.Logger
	maxConcurrent int
	open          Opener
	urlExpiry     time.Duration

	mu      sync.Mutex
	pending []*AddMutation
}

// Option configures a Controller.
type Option func(*Controller)

// WithLogger sets the logger for swallowed-by-caller failures.
func WithLogger(l *slog.Logger) Option {
	return func(c *Controller) { c.logger = l }
}

// WithMaxConcurrent bounds concurrent StorageRead calls during FetchAll.
func WithMaxConcurrent(n int) Option {
	return func(c *Controller) {
		if n > 0 {
			c.maxConcurrent = n
		}
	}
}

// WithOpener replaces the file opener used for uploads.
func WithOpener(fn Opener) Option {
	return func(c *Controller) { c.open = fn }
}

// WithURLExpiry sets how long resolved image URIs should stay valid.
// Zero lets the backend choose.
func WithURLExpiry(d time.Duration) Option {
	return func(c *Controller) { c.urlExpiry = d }
}

// NewController wires a controller to its gateway and holders.
func NewController(gw gateway.Gateway, form *state.Form, list *state.List, opts ...Option) *Controller {
	c := &Controller{
		gw:            gw,
		form:          form,
		list:          list,
		logger:        slog.Default(),
		maxConcurrent: DefaultMaxConcurrent,
		open:          openFileURI,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func openFileURI(uri string) (io.ReadCloser, error) {
	path, err := picker.PathFromURI(uri)
	if err != nil {
		return nil, err
	}
	return os.Open(path) //nolint:gosec // G304: path chosen by the user
}

// FetchAll lists every item, resolves image keys to display URIs, and
// replaces the list. The list changes only if every step succeeds; the
// final order is the gateway's order regardless of resolution timing.
func (c *Controller) FetchAll(ctx context.Context) error {
	items, err := c.gw.List(ctx)
	if err != nil {
		c.logger.Error("fetch todos failed", "op", "fetch_all", "err", err)
		return fmt.Errorf("list todos: %w", err)
	}

	resolved, err := c.resolveImages(ctx, items)
	if err != nil {
		c.logger.Error("resolve images failed", "op", "fetch_all", "err", err)
		return err
	}

	c.list.ReplaceAll(resolved)
	c.reconcile(resolved)
	c.logger.Debug("fetched todos", "op", "fetch_all", "count", len(resolved))
	return nil
}

// reconcile drops optimistic adds that a fetched list has settled: either
// the item is there, or its create failed and the fetch discarded the local
// copy. Adds still in flight, or created but not yet listed, are kept for
// the next fetch.
func (c *Controller) reconcile(remote []models.Item) {
	c.mu.Lock()
	defer c.mu.Unlock()

	kept := c.pending[:0]
	for _, m := range c.pending {
		switch {
		case m.IsReflectedIn(remote):
			c.logger.Debug("optimistic todo confirmed", "op", "fetch_all", "id", m.Created().ID)
		case m.Failed():
			c.logger.Warn("optimistic todo dropped by fetch", "op", "fetch_all", "name", m.Item.Name)
		default:
			kept = append(kept, m)
		}
	}
	clear(c.pending[len(kept):])
	c.pending = kept
}

// PendingAdds returns how many optimistic adds no fetch has settled yet.
func (c *Controller) PendingAdds() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.pending)
}

// resolveImages swaps each non-empty image key for a URI. Results are
// written by index so completion order doesn't matter.
func (c *Controller) resolveImages(ctx context.Context, items []models.Item) ([]models.Item, error) {
	resolved := make([]models.Item, len(items))
	copy(resolved, items)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.maxConcurrent)

	opts := gateway.ReadOptions{AccessLevel: gateway.Private, Expires: c.urlExpiry}
	for i, it := range items {
		if !it.HasImage() {
			continue
		}
		g.Go(func() error {
			uri, err := c.gw.StorageRead(gctx, it.Image, opts)
			if err != nil {
				return fmt.Errorf("resolve image %q: %w", it.Image, err)
			}
			resolved[i].Image = uri
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return resolved, nil
}

// AddTodo submits the current draft: upload the attached photo, append the
// item optimistically, then create it remotely.
//
// On success the form is closed and reset. On failure the error is logged
// and returned, the draft stays in the form, and an optimistic entry that
// was already appended stays in the list.
func (c *Controller) AddTodo(ctx context.Context) error {
	c.form.BeginSubmit()
	draft := c.form.Draft()
	ui := c.form.UI()

	if ui.ImageURI != "" {
		if err := c.upload(ctx, ui.ImageURI, draft.Image); err != nil {
			c.logger.Error("upload photo failed", "op", "add_todo", "key", draft.Image, "err", err)
			c.form.EndSubmit()
			return err
		}
	}

	m := NewAddMutation(c.gw, draft.Item())
	c.list.Update(m.ApplyLocally)
	c.mu.Lock()
	c.pending = append(c.pending, m)
	c.mu.Unlock()

	if err := m.ApplyRemotely(ctx); err != nil {
		c.logger.Error("create todo failed", "op", "add_todo", "name", draft.Name, "err", err)
		c.form.EndSubmit()
		return err
	}

	c.form.Close()
	c.logger.Debug("created todo", "op", "add_todo", "id", m.Created().ID)
	return nil
}

func (c *Controller) upload(ctx context.Context, uri, key string) error {
	body, err := c.open(uri)
	if err != nil {
		return fmt.Errorf("open photo: %w", err)
	}
	defer body.Close()

	contentType := richtext.DefaultImageType
	if path, err := picker.PathFromURI(uri); err == nil {
		contentType = richtext.ImageContentType(path)
	}

	err = c.gw.StorageWrite(ctx, key, body, gateway.WriteOptions{
		AccessLevel: gateway.Private,
		ContentType: contentType,
	})
	if err != nil {
		return fmt.Errorf("upload photo: %w", err)
	}
	return nil
}
