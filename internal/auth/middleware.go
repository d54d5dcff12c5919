package auth

import (
	"net/http"
	"net/url"

	"github.com/LaviAzankot/CharityChick/internal/logging"
)

// LoadUser resolves the session cookie on every request and, when it maps to
// a live user, puts that user in the request context. Anonymous requests
// pass through unchanged.
func (m *Manager) LoadUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, err := m.CurrentUser(r)
		if err != nil {
			logging.Error().Err(err).Str("path", r.URL.Path).Msg("resolving session")
		}
		if user != nil {
			r = r.WithContext(WithUser(r.Context(), user))
		}
		next.ServeHTTP(w, r)
	})
}

// RequireAuth short-circuits anonymous requests with a redirect to the login
// page before any handler logic runs.
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if UserFrom(r.Context()) == nil {
			http.Redirect(w, r, "/login?error="+url.QueryEscape("You need to login to do that."), http.StatusSeeOther)
			return
		}
		next.ServeHTTP(w, r)
	})
}
