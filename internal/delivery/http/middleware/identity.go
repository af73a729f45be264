package middleware

import (
	"context"
	"net/http"
	"strings"

	"roomrequests/internal/domain"
)

type contextKey string

const userKey contextKey = "user"

// SetUser returns a context with the acting user set.
func SetUser(ctx context.Context, user domain.User) context.Context {
	return context.WithValue(ctx, userKey, user)
}

// UserFromContext returns the acting user from the context, if present.
func UserFromContext(ctx context.Context) (domain.User, bool) {
	u, ok := ctx.Value(userKey).(domain.User)
	return u, ok
}

// Identity resolves the acting user from the X-User-ID and X-User-Name
// headers and stores it in the request context. Requests without an ID header
// act as the configured fallback user. This is externally supplied identity,
// not authentication; there are no credentials to check.
func Identity(fallback domain.User, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user := fallback
		if id := strings.TrimSpace(r.Header.Get("X-User-ID")); id != "" {
			user = domain.User{ID: id, Name: strings.TrimSpace(r.Header.Get("X-User-Name"))}
		}
		next.ServeHTTP(w, r.WithContext(SetUser(r.Context(), user)))
	})
}
