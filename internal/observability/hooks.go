package observability

import (
	"context"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/basecamp/basecamp-sdk/go/pkg/basecamp"
)

var _ basecamp.Hooks = (*SDKHooks)(nil)

// SDKHooks forwards Basecamp SDK lifecycle events to a slog logger.
// Operations log at info, HTTP requests and retries at debug.
type SDKHooks struct {
	logger *slog.Logger
}

// NewSDKHooks returns hooks that log to logger.
func NewSDKHooks(logger *slog.Logger) *SDKHooks {
	if logger == nil {
		logger = Discard()
	}
	return &SDKHooks{logger: logger}
}

func (h *SDKHooks) OnOperationStart(ctx context.Context, op basecamp.OperationInfo) context.Context {
	h.logger.DebugContext(ctx, "sdk operation start", "service", op.Service, "op", op.Operation)
	return ctx
}

func (h *SDKHooks) OnOperationEnd(ctx context.Context, op basecamp.OperationInfo, err error, duration time.Duration) {
	if err != nil {
		h.logger.WarnContext(ctx, "sdk operation failed",
			"service", op.Service, "op", op.Operation, "duration", duration, "err", err)
		return
	}
	h.logger.InfoContext(ctx, "sdk operation",
		"service", op.Service, "op", op.Operation, "duration", duration)
}

func (h *SDKHooks) OnRequestStart(ctx context.Context, info basecamp.RequestInfo) context.Context {
	h.logger.DebugContext(ctx, "request", "method", info.Method, "url", scrubURL(info.URL))
	return ctx
}

func (h *SDKHooks) OnRequestEnd(ctx context.Context, info basecamp.RequestInfo, result basecamp.RequestResult) {
	if result.Error != nil {
		h.logger.DebugContext(ctx, "request failed",
			"method", info.Method, "url", scrubURL(info.URL), "err", result.Error)
		return
	}
	h.logger.DebugContext(ctx, "response",
		"method", info.Method,
		"url", scrubURL(info.URL),
		"status", result.StatusCode,
		"cached", result.FromCache,
		"duration", result.Duration)
}

func (h *SDKHooks) OnRetry(ctx context.Context, info basecamp.RequestInfo, attempt int, err error) {
	h.logger.DebugContext(ctx, "retry", "url", scrubURL(info.URL), "attempt", attempt, "err", err)
}

var sensitiveParams = map[string]bool{
	"access_token":  true,
	"token":         true,
	"refresh_token": true,
	"code":          true,
	"client_secret": true,
}

// scrubURL redacts credential-bearing query parameters.
func scrubURL(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "[unparseable URL]"
	}

	query := u.Query()
	modified := false
	for key := range query {
		if sensitiveParams[strings.ToLower(key)] {
			query.Set(key, "[REDACTED]")
			modified = true
		}
	}
	if !modified {
		return rawURL
	}
	u.RawQuery = query.Encode()
	return u.String()
}
