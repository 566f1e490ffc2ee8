package pkglog

import (
	"context"
	"log/slog"
)

type correlationIDKey struct{}

type attrsKey struct{}

// GetCorrelationID returns the correlation ID stored in the context, or an
// empty string when the request never passed the correlation middleware.
func GetCorrelationID(ctx context.Context) string {
	cid, _ := ctx.Value(correlationIDKey{}).(string)
	return cid
}

// SetCorrelationID stores a correlation ID into the context.
func SetCorrelationID(ctx context.Context, cid string) context.Context {
	return context.WithValue(ctx, correlationIDKey{}, cid)
}

// WithAttrs returns a context whose log records carry attrs in addition to
// any attrs already attached to ctx.
func WithAttrs(ctx context.Context, attrs ...slog.Attr) context.Context {
	prev := attrsFrom(ctx)
	merged := make([]slog.Attr, 0, len(prev)+len(attrs))
	merged = append(merged, prev...)
	merged = append(merged, attrs...)
	return context.WithValue(ctx, attrsKey{}, merged)
}

func attrsFrom(ctx context.Context) []slog.Attr {
	attrs, _ := ctx.Value(attrsKey{}).([]slog.Attr)
	return attrs
}

// DetachContext returns a background context that keeps the correlation ID
// and log attrs of ctx, for work that must outlive the request that started it.
func DetachContext(ctx context.Context) context.Context {
	out := context.Background()
	if cid := GetCorrelationID(ctx); cid != "" {
		out = SetCorrelationID(out, cid)
	}
	if attrs := attrsFrom(ctx); len(attrs) > 0 {
		out = context.WithValue(out, attrsKey{}, attrs)
	}
	return out
}
