package httpapi

import (
	"context"
	"net/http"
	"strings"

	"github.com/dmitrijs2005/jobhub/internal/server/auth"
)

type ctxKey string

const userContextKey ctxKey = "userContext"

// tokenFromRequest extracts the session token from the "token" cookie or,
// failing that, from an Authorization: Bearer header.
func tokenFromRequest(r *http.Request) string {
	if c, err := r.Cookie(sessionCookieName); err == nil && c.Value != "" {
		return c.Value
	}
	h := r.Header.Get("Authorization")
	if strings.HasPrefix(h, "Bearer ") {
		return strings.TrimPrefix(h, "Bearer ")
	}
	return ""
}

// identify resolves the request's session token into a UserContext and
// stores it on the request context. Anonymous requests pass through with no
// identity attached.
func (s *Server) identify(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if uc := s.gate.Identify(tokenFromRequest(r)); uc != nil {
			r = r.WithContext(context.WithValue(r.Context(), userContextKey, uc))
		}
		next.ServeHTTP(w, r)
	})
}

// requireRole rejects requests whose identity is missing or lacks the role.
// An empty role only requires authentication.
func (s *Server) requireRole(role string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if err := s.gate.Authorize(userFrom(r.Context()), role); err != nil {
				writeError(w, err)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// userFrom returns the identity attached by the identify middleware, or nil.
func userFrom(ctx context.Context) *auth.UserContext {
	uc, _ := ctx.Value(userContextKey).(*auth.UserContext)
	return uc
}
