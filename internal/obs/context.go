package obs

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
)

type routeKey struct{}

// WithRoutePattern pins the route label of a request served outside a chi router.
func WithRoutePattern(ctx context.Context, pattern string) context.Context {
	return context.WithValue(ctx, routeKey{}, pattern)
}

// RoutePattern is the label logs, metrics and spans use for r: a pinned pattern,
// else the chi pattern matched so far. Middleware reads it after calling next so
// that the full /api/v1/... pattern is known.
func RoutePattern(r *http.Request) string {
	ctx := r.Context()
	if pattern, ok := ctx.Value(routeKey{}).(string); ok && pattern != "" {
		return pattern
	}
	if rc := chi.RouteContext(ctx); rc != nil {
		return rc.RoutePattern()
	}
	return ""
}
