package observability

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/pocketlist/pocketlist/internal/gateway"
	"github.com/pocketlist/pocketlist/internal/models"
)

// SessionMetrics aggregates gateway calls for a session.
type SessionMetrics struct {
	Operations   int
	Failed       int
	TotalLatency time.Duration
}

// SessionCollector accumulates metrics across a session.
// It is safe for concurrent use.
type SessionCollector struct {
	mu      sync.Mutex
	metrics SessionMetrics
}

// NewSessionCollector creates an empty collector.
func NewSessionCollector() *SessionCollector {
	return &SessionCollector{}
}

// Record adds one completed operation.
func (c *SessionCollector) Record(err error, d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.metrics.Operations++
	if err != nil {
		c.metrics.Failed++
	}
	c.metrics.TotalLatency += d
}

// Summary returns a snapshot of the collected metrics.
func (c *SessionCollector) Summary() SessionMetrics {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.metrics
}

// TracedGateway wraps a gateway.Gateway, logging each call at debug level
// and recording it in a collector.
type TracedGateway struct {
	next      gateway.Gateway
	logger    *slog.Logger
	collector *SessionCollector
	now       func() time.Time
}

var _ gateway.Gateway = (*TracedGateway)(nil)

// Trace wraps gw. A nil collector disables metrics.
func Trace(gw gateway.Gateway, logger *slog.Logger, collector *SessionCollector) *TracedGateway {
	if logger == nil {
		logger = Discard()
	}
	return &TracedGateway{next: gw, logger: logger, collector: collector, now: time.Now}
}

func (t *TracedGateway) end(ctx context.Context, op string, start time.Time, err error, attrs ...slog.Attr) {
	d := t.now().Sub(start)
	if t.collector != nil {
		t.collector.Record(err, d)
	}
	attrs = append(attrs, slog.String("op", op), slog.Duration("duration", d))
	if err != nil {
		attrs = append(attrs, slog.Any("err", err))
		t.logger.LogAttrs(ctx, slog.LevelDebug, "gateway call failed", attrs...)
		return
	}
	t.logger.LogAttrs(ctx, slog.LevelDebug, "gateway call", attrs...)
}

func (t *TracedGateway) List(ctx context.Context) ([]models.Item, error) {
	start := t.now()
	items, err := t.next.List(ctx)
	t.end(ctx, "list", start, err, slog.Int("count", len(items)))
	return items, err
}

func (t *TracedGateway) Create(ctx context.Context, item models.Item) (models.Item, error) {
	start := t.now()
	created, err := t.next.Create(ctx, item)
	t.end(ctx, "create", start, err, slog.String("id", created.ID))
	return created, err
}

func (t *TracedGateway) StorageRead(ctx context.Context, key string, opts gateway.ReadOptions) (string, error) {
	start := t.now()
	uri, err := t.next.StorageRead(ctx, key, opts)
	t.end(ctx, "storage.read", start, err, slog.String("key", key))
	return uri, err
}

func (t *TracedGateway) StorageWrite(ctx context.Context, key string, body io.Reader, opts gateway.WriteOptions) error {
	start := t.now()
	err := t.next.StorageWrite(ctx, key, body, opts)
	t.end(ctx, "storage.write", start, err, slog.String("key", key), slog.String("content_type", opts.ContentType))
	return err
}
