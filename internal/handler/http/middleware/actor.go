package middleware

import (
	"context"
	"net/http"
)

type contextKey string

// ActorIDKey carries the acting user's id, taken from the X-Actor-ID
// header set by the upstream gateway after authentication.
const ActorIDKey contextKey = "actor_id"

// Actor stashes the caller identity header into the request context.
func Actor(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if actor := r.Header.Get("X-Actor-ID"); actor != "" {
			r = r.WithContext(context.WithValue(r.Context(), ActorIDKey, actor))
		}
		next.ServeHTTP(w, r)
	})
}

// ActorID returns the acting user's id, or empty when the header was
// absent.
func ActorID(ctx context.Context) string {
	if v, ok := ctx.Value(ActorIDKey).(string); ok {
		return v
	}
	return ""
}
