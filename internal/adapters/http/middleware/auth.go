package middleware

import (
	"context"
	"net/http"
	"strings"
	"time"

	domainAccount "churchsite/internal/domain/account"
)

// contextKey is an unexported type for context keys in this package.
type contextKey string

const principalContextKey contextKey = "principal"

// SessionCookieName is the cookie carrying the session token for browser logins.
const SessionCookieName = "church_session"

// SessionTTL is how long an issued token stays valid.
const SessionTTL = 24 * time.Hour

// Principal is the authenticated caller of a request.
type Principal struct {
	Token string
	User  domainAccount.User
}

// CanEdit reports whether the principal may mutate content.
func (p Principal) CanEdit() bool {
	return p.User.Role == domainAccount.RoleAdmin || p.User.Role == domainAccount.RoleEditor
}

// Authenticator resolves a session token to the user it belongs to.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (domainAccount.User, error)
}

// Auth extracts a bearer token (or the session cookie) and, when it resolves,
// stores the Principal in the request context. Unauthenticated requests pass
// through; use RequireEditor or RequireAdmin to block them.
func Auth(authn Authenticator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if token := TokenFromRequest(r); token != "" {
				if user, err := authn.Authenticate(r.Context(), token); err == nil {
					r = r.WithContext(ContextWithPrincipal(r.Context(), Principal{Token: token, User: user}))
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}

// TokenFromRequest returns the Authorization bearer token, falling back to the session cookie.
func TokenFromRequest(r *http.Request) string {
	if h := r.Header.Get("Authorization"); h != "" {
		scheme, token, ok := strings.Cut(h, " ")
		if ok && strings.EqualFold(scheme, "Bearer") {
			return strings.TrimSpace(token)
		}
		return ""
	}
	if c, err := r.Cookie(SessionCookieName); err == nil {
		return c.Value
	}
	return ""
}

// RequireEditor blocks requests without an admin or editor principal.
// Failures are plain text: 401 when unauthenticated, 403 when the role is insufficient.
func RequireEditor(next http.Handler) http.Handler {
	return requireRole(Principal.CanEdit)(next)
}

// RequireAdmin blocks requests without an admin principal.
func RequireAdmin(next http.Handler) http.Handler {
	return requireRole(func(p Principal) bool { return p.User.Role == domainAccount.RoleAdmin })(next)
}

func requireRole(allowed func(Principal) bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			p, ok := PrincipalFromContext(r.Context())
			if !ok {
				http.Error(w, "authentication required", http.StatusUnauthorized)
				return
			}
			if !allowed(p) {
				http.Error(w, "forbidden", http.StatusForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequirePageLogin redirects browsers without an editor session to the login page.
func RequirePageLogin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if p, ok := PrincipalFromContext(r.Context()); !ok || !p.CanEdit() {
			http.Redirect(w, r, "/admin/login", http.StatusSeeOther)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// PrincipalFromContext extracts the principal from the request context.
func PrincipalFromContext(ctx context.Context) (Principal, bool) {
	p, ok := ctx.Value(principalContextKey).(Principal)
	return p, ok
}

// ContextWithPrincipal returns a context carrying p.
func ContextWithPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, principalContextKey, p)
}

// SetSessionCookie sets the browser session cookie.
func SetSessionCookie(w http.ResponseWriter, token string, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    token,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteStrictMode,
		Path:     "/",
		MaxAge:   int(SessionTTL / time.Second),
	})
}

// ClearSessionCookie expires the browser session cookie.
func ClearSessionCookie(w http.ResponseWriter, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    "",
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteStrictMode,
		Path:     "/",
		MaxAge:   -1,
	})
}
