// Package basecamp implements the gateway on top of a Basecamp to-do list.
//
// Item names map to to-do content and descriptions to the to-do's rich
// text description. A photo is uploaded as an attachment and embedded in
// the description as a <bc-attachment> tag whose caption carries the
// storage key, so the key survives a round trip through the service.
package basecamp

import (
	"context"
	"errors"
	"fmt"
	"html"
	"io"
	"log/slog"
	"path"
	"regexp"
	"strconv"
	"strings"
	"sync"

	bcsdk "github.com/basecamp/basecamp-sdk/go/pkg/basecamp"

	"github.com/pocketlist/pocketlist/internal/gateway"
	"github.com/pocketlist/pocketlist/internal/models"
	"github.com/pocketlist/pocketlist/internal/output"
	"github.com/pocketlist/pocketlist/internal/richtext"
)

// Todo is the slice of a remote to-do the backend reads and writes.
type Todo struct {
	ID          int64
	Content     string
	Description string
}

// Service is the subset of the Basecamp API the backend needs.
type Service interface {
	ListTodos(ctx context.Context) ([]Todo, error)
	CreateTodo(ctx context.Context, content, description string) (int64, error)
	UploadAttachment(ctx context.Context, filename, contentType string, body io.Reader) (string, error)
}

// Backend is a gateway.Gateway over a Basecamp to-do list.
type Backend struct {
	svc    Service
	logger *slog.Logger

	mu sync.Mutex
	// sgids holds uploads not yet embedded in a to-do, by storage key.
	sgids map[string]string
	// urls holds download URLs seen on listed attachments, by storage key.
	urls map[string]string
}

var _ gateway.Gateway = (*Backend)(nil)

// Option configures a Backend.
type Option func(*Backend)

// WithLogger sets the backend's logger.
func WithLogger(l *slog.Logger) Option {
	return func(b *Backend) { b.logger = l }
}

// New returns a backend over svc.
func New(svc Service, opts ...Option) *Backend {
	b := &Backend{
		svc:    svc,
		logger: slog.New(slog.DiscardHandler),
		sgids:  make(map[string]string),
		urls:   make(map[string]string),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// List fetches every to-do on the configured list.
func (b *Backend) List(ctx context.Context) ([]models.Item, error) {
	todos, err := b.svc.ListTodos(ctx)
	if err != nil {
		return nil, convertSDKError(err)
	}

	items := make([]models.Item, 0, len(todos))
	for _, t := range todos {
		desc, att := extractAttachment(t.Description)
		item := models.Item{
			ID:          strconv.FormatInt(t.ID, 10),
			Name:        t.Content,
			Description: richtext.HTMLToText(desc),
		}
		if att.key != "" {
			item.Image = att.key
			if att.url != "" {
				b.mu.Lock()
				b.urls[att.key] = att.url
				b.mu.Unlock()
			}
		}
		items = append(items, item)
	}
	return items, nil
}

// Create posts a new to-do. An item with a photo key must have had that key
// written through StorageWrite first.
func (b *Backend) Create(ctx context.Context, item models.Item) (models.Item, error) {
	desc := richtext.TextToHTML(item.Description)
	if item.HasImage() {
		b.mu.Lock()
		sgid, ok := b.sgids[item.Image]
		b.mu.Unlock()
		if !ok {
			return models.Item{}, fmt.Errorf("%w: no uploaded attachment for %s", gateway.ErrNotFound, item.Image)
		}
		desc += attachmentTag(sgid, item.Image)
	}

	id, err := b.svc.CreateTodo(ctx, item.Name, desc)
	if err != nil {
		return models.Item{}, convertSDKError(err)
	}

	if item.HasImage() {
		b.mu.Lock()
		delete(b.sgids, item.Image)
		b.mu.Unlock()
	}

	item.ID = strconv.FormatInt(id, 10)
	return item, nil
}

// StorageRead returns the download URL recorded for key by a previous List.
// Basecamp serves attachments behind the account's own authentication, so
// opts.Expires has no effect.
func (b *Backend) StorageRead(_ context.Context, key string, opts gateway.ReadOptions) (string, error) {
	if err := checkLevel(opts.AccessLevel); err != nil {
		return "", err
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	u, ok := b.urls[key]
	if !ok {
		return "", fmt.Errorf("%w: %s", gateway.ErrNotFound, key)
	}
	return u, nil
}

// StorageWrite uploads body as an attachment and remembers its sgid for the
// Create that follows.
func (b *Backend) StorageWrite(ctx context.Context, key string, body io.Reader, opts gateway.WriteOptions) error {
	if err := checkLevel(opts.AccessLevel); err != nil {
		return err
	}
	if key == "" || strings.ContainsAny(key, `/\`) {
		return fmt.Errorf("%w: %q", gateway.ErrInvalidKey, key)
	}
	contentType := opts.ContentType
	if contentType == "" {
		contentType = richtext.DefaultImageType
	}

	sgid, err := b.svc.UploadAttachment(ctx, path.Base(key), contentType, body)
	if err != nil {
		return convertSDKError(err)
	}
	b.logger.DebugContext(ctx, "attachment uploaded", "key", key, "content_type", contentType)

	b.mu.Lock()
	b.sgids[key] = sgid
	b.mu.Unlock()
	return nil
}

func checkLevel(level gateway.AccessLevel) error {
	if level == "" || level == gateway.Private {
		return nil
	}
	return fmt.Errorf("%w: %s (basecamp attachments are private to the account)", gateway.ErrUnsupportedAccessLevel, level)
}

func attachmentTag(sgid, key string) string {
	return fmt.Sprintf(`<bc-attachment sgid="%s" caption="%s"></bc-attachment>`,
		html.EscapeString(sgid), html.EscapeString(key))
}

var (
	attachmentRE = regexp.MustCompile(`(?is)<bc-attachment\b([^>]*)>(.*?</bc-attachment>)?`)
	attrRE       = regexp.MustCompile(`([a-zA-Z-]+)="([^"]*)"`)
)

type attachment struct {
	key string
	url string
}

// extractAttachment removes the first <bc-attachment> from s and returns
// what is left together with the attachment's key and URL. The caption is
// the key; a bare filename stands in when the caption is missing.
func extractAttachment(s string) (string, attachment) {
	loc := attachmentRE.FindStringSubmatchIndex(s)
	if loc == nil {
		return s, attachment{}
	}

	attrs := make(map[string]string)
	for _, m := range attrRE.FindAllStringSubmatch(s[loc[2]:loc[3]], -1) {
		attrs[strings.ToLower(m[1])] = html.UnescapeString(m[2])
	}

	att := attachment{key: attrs["caption"]}
	if att.key == "" {
		att.key = attrs["filename"]
	}
	for _, name := range []string{"href", "url"} {
		if attrs[name] != "" {
			att.url = attrs[name]
			break
		}
	}
	return s[:loc[0]] + s[loc[1]:], att
}

// convertSDKError maps Basecamp SDK failures onto output errors, keeping
// the gateway sentinels reachable through errors.Is.
func convertSDKError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, bcsdk.ErrRateLimited) || errors.Is(err, bcsdk.ErrBulkheadFull) {
		return &output.Error{
			Code:      output.CodeAPI,
			Message:   "Rate limit exceeded",
			Hint:      "Too many requests. Please wait before trying again.",
			Retryable: true,
			Cause:     err,
		}
	}
	if errors.Is(err, bcsdk.ErrCircuitOpen) {
		return &output.Error{
			Code:      output.CodeAPI,
			Message:   "Service temporarily unavailable",
			Hint:      "Please wait before trying again.",
			Retryable: true,
			Cause:     err,
		}
	}

	var sdkErr *bcsdk.Error
	if !errors.As(err, &sdkErr) {
		return err
	}

	out := &output.Error{
		Message:   sdkErr.Message,
		Hint:      sdkErr.Hint,
		Retryable: sdkErr.Retryable,
		Cause:     err,
	}
	switch sdkErr.Code {
	case bcsdk.CodeNotFound:
		out.Code = output.CodeNotFound
		out.Cause = fmt.Errorf("%w: %w", gateway.ErrNotFound, err)
	case bcsdk.CodeAuth:
		out.Code = output.CodeAuth
		if out.Hint == "" {
			out.Hint = "Run: pocketlist auth login"
		}
	case bcsdk.CodeForbidden:
		out.Code = output.CodeForbidden
	case bcsdk.CodeNetwork:
		out.Code = output.CodeNetwork
	case bcsdk.CodeUsage:
		out.Code = output.CodeUsage
	default:
		out.Code = output.CodeAPI
	}
	return out
}
