package middleware

import (
	"log/slog"
	"net/http"
	"strings"

	"clinic-portal/internal/auth"
)

// SSOMiddleware puts the verified SSO identity on the request context
type SSOMiddleware struct {
	verifier   *auth.Verifier
	cookieName string
	logger     *slog.Logger
}

// NewSSOMiddleware creates the identity middleware. A nil verifier leaves
// every request anonymous.
func NewSSOMiddleware(verifier *auth.Verifier, cookieName string, logger *slog.Logger) *SSOMiddleware {
	if cookieName == "" {
		cookieName = "sso_token"
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &SSOMiddleware{verifier: verifier, cookieName: cookieName, logger: logger}
}

// Attach verifies a bearer token or the SSO cookie when present. Invalid
// tokens are ignored and the request continues anonymously.
func (m *SSOMiddleware) Attach(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := m.tokenFrom(r)
		if token == "" || m.verifier == nil {
			next.ServeHTTP(w, r)
			return
		}
		id, err := m.verifier.Verify(token)
		if err != nil {
			m.logger.Debug("Ignoring invalid SSO token", "path", r.URL.Path, "error", err)
			next.ServeHTTP(w, r)
			return
		}
		next.ServeHTTP(w, r.WithContext(auth.WithIdentity(r.Context(), id)))
	})
}

// RequireRole rejects requests without an identity carrying one of roles.
// With no roles any verified identity passes.
func (m *SSOMiddleware) RequireRole(roles ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return m.Attach(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id, ok := auth.IdentityFromContext(r.Context())
			if !ok {
				respondWithError(w, http.StatusUnauthorized, "Authentication required")
				return
			}
			if len(roles) == 0 {
				next.ServeHTTP(w, r)
				return
			}
			for _, role := range roles {
				if id.HasRole(role) {
					next.ServeHTTP(w, r)
					return
				}
			}
			m.logger.Warn("Role check failed", "subject", id.Subject, "required", roles, "path", r.URL.Path)
			respondWithError(w, http.StatusForbidden, "Insufficient permissions")
		}))
	}
}

func (m *SSOMiddleware) tokenFrom(r *http.Request) string {
	if header := r.Header.Get("Authorization"); header != "" {
		scheme, token, ok := strings.Cut(header, " ")
		if ok && strings.EqualFold(scheme, "Bearer") {
			return strings.TrimSpace(token)
		}
	}
	if c, err := r.Cookie(m.cookieName); err == nil {
		return strings.TrimSpace(c.Value)
	}
	return ""
}

func respondWithError(w http.ResponseWriter, code int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_, _ = w.Write([]byte(`{"error":"` + message + `"}`))
}
