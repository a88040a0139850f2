// Package middleware provides HTTP middleware for the lead intake API.
package middleware

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/kAtharva4/buyer-lead-intake/internal/config"
	"github.com/kAtharva4/buyer-lead-intake/internal/core"
)

type contextKey string

const sessionKey contextKey = "session"

// Session returns middleware that resolves the acting user from the trusted
// X-User-Id / X-User-Email headers set by the upstream auth proxy. When the
// headers are absent and cfg provides a dev fallback identity, that is used
// instead. Requests with no resolvable identity are rejected with 401.
func Session(cfg *config.SessionConfig) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sess, ok := resolveSession(r, cfg)
			if !ok {
				slog.Warn("session: no identity",
					"path", r.URL.Path,
					"method", r.Method,
					"remote_addr", r.RemoteAddr,
				)
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusUnauthorized)
				w.Write([]byte(`{"message":"` + core.ErrNoSession.Error() + `"}`))
				return
			}

			ctx := context.WithValue(r.Context(), sessionKey, sess)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// SessionFrom returns the session stored by the Session middleware.
func SessionFrom(ctx context.Context) (core.Session, bool) {
	sess, ok := ctx.Value(sessionKey).(core.Session)
	return sess, ok
}

func resolveSession(r *http.Request, cfg *config.SessionConfig) (core.Session, bool) {
	rawID := r.Header.Get("X-User-Id")
	email := r.Header.Get("X-User-Email")

	if rawID == "" && cfg != nil && cfg.DevUserID != "" {
		rawID = cfg.DevUserID
		email = cfg.DevUserEmail
	}
	if rawID == "" {
		return core.Session{}, false
	}

	id, err := uuid.Parse(rawID)
	if err != nil {
		return core.Session{}, false
	}
	return core.Session{UserID: id, Email: email}, true
}
