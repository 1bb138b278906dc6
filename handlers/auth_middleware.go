package handlers

import (
	"errors"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"spicymarket/auth"
)

const sessionCookie = "sid"

// tokenFromRequest reads a bearer token, falling back to the session cookie.
func tokenFromRequest(r *http.Request) string {
	if h := r.Header.Get("Authorization"); h != "" {
		if token, ok := strings.CutPrefix(h, "Bearer "); ok {
			return strings.TrimSpace(token)
		}
		return ""
	}
	if c, err := r.Cookie(sessionCookie); err == nil {
		return c.Value
	}
	return ""
}

// RequireAuth rejects requests without a live session and puts the
// principal in the request context.
func RequireAuth(sessions *auth.Sessions, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := tokenFromRequest(r)
			if token == "" {
				writeError(w, r, http.StatusUnauthorized, "errors.unauthorized")
				return
			}
			p, err := sessions.Verify(r.Context(), token)
			if errors.Is(err, auth.ErrInvalidSession) {
				writeError(w, r, http.StatusUnauthorized, "errors.unauthorized")
				return
			}
			if err != nil {
				internalError(w, r, logger, err)
				return
			}
			next.ServeHTTP(w, r.WithContext(auth.WithPrincipal(r.Context(), p)))
		})
	}
}

// RequireAdmin must run after RequireAuth.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		p, ok := auth.FromContext(r.Context())
		if !ok {
			writeError(w, r, http.StatusUnauthorized, "errors.unauthorized")
			return
		}
		if !p.IsAdmin() {
			writeError(w, r, http.StatusForbidden, "errors.forbidden")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func principal(r *http.Request) auth.Principal {
	p, _ := auth.FromContext(r.Context())
	return p
}
