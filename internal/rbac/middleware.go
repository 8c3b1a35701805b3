package rbac

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/wayfarer-travel/wayfarer/internal/platform/httpx"
	"github.com/wayfarer-travel/wayfarer/internal/shared"
)

// Middleware wires authorization checks into HTTP handlers. Resolution
// failures deny access rather than surfacing an error page.
type Middleware struct {
	Service *Service
	Logger  *slog.Logger
}

// RequireAny admits requests whose user holds at least one of the
// required permissions.
func (m Middleware) RequireAny(perms ...string) func(http.Handler) http.Handler {
	normalized := normalizePermissions(perms)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if len(normalized) == 0 {
				next.ServeHTTP(w, r)
				return
			}
			granted, ok := m.resolve(w, r)
			if !ok {
				return
			}
			for _, p := range normalized {
				if _, held := granted[p]; held {
					next.ServeHTTP(w, r)
					return
				}
			}
			m.deny(w)
		})
	}
}

// RequireAll admits requests whose user holds every required permission.
func (m Middleware) RequireAll(perms ...string) func(http.Handler) http.Handler {
	normalized := normalizePermissions(perms)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if len(normalized) == 0 {
				next.ServeHTTP(w, r)
				return
			}
			granted, ok := m.resolve(w, r)
			if !ok {
				return
			}
			for _, p := range normalized {
				if _, held := granted[p]; !held {
					m.deny(w)
					return
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireUser admits any authenticated request.
func (m Middleware) RequireUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := shared.UserIDFromContext(r.Context()); !ok {
			httpx.RespondError(w, shared.ErrNotAuthenticated)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// resolve materialises the user's permission set once per request so a
// route guarded by several names costs a single query.
func (m Middleware) resolve(w http.ResponseWriter, r *http.Request) (map[string]struct{}, bool) {
	userID, ok := shared.UserIDFromContext(r.Context())
	if !ok {
		httpx.RespondError(w, shared.ErrNotAuthenticated)
		return nil, false
	}
	perms, err := m.Service.EffectivePermissions(r.Context(), userID)
	if err != nil {
		if m.Logger != nil {
			m.Logger.Error("rbac: resolve permissions", slog.Int64("user_id", userID), slog.Any("error", err))
		}
		m.deny(w)
		return nil, false
	}
	granted := make(map[string]struct{}, len(perms))
	for _, p := range perms {
		granted[strings.ToLower(p.Name)] = struct{}{}
	}
	return granted, true
}

func (m Middleware) deny(w http.ResponseWriter) {
	httpx.RespondError(w, shared.ErrPermissionDenied)
}

func normalizePermissions(perms []string) []string {
	unique := make(map[string]struct{}, len(perms))
	for _, p := range perms {
		p = strings.TrimSpace(strings.ToLower(p))
		if p == "" {
			continue
		}
		unique[p] = struct{}{}
	}
	normalized := make([]string, 0, len(unique))
	for p := range unique {
		normalized = append(normalized, p)
	}
	return normalized
}
