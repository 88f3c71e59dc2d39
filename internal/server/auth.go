package server

import (
	"crypto/subtle"
	"net/http"
)

const authRealm = "Admin"

// requireAuth is a middleware that checks HTTP Basic credentials against
// ADMIN_USER/ADMIN_PASSWORD. With either unset every request is denied.
func (s *Server) requireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !s.config.AdminConfigured() {
			s.log.Warn().Str("path", r.URL.Path).Msg("admin credentials not configured, denying request")
			unauthorized(w)
			return
		}

		user, password, ok := r.BasicAuth()
		if !ok || !s.isAdmin(user, password) {
			unauthorized(w)
			return
		}

		next(w, r)
	}
}

func (s *Server) isAdmin(user, password string) bool {
	userOK := subtle.ConstantTimeCompare([]byte(user), []byte(s.config.AdminUser)) == 1
	passwordOK := subtle.ConstantTimeCompare([]byte(password), []byte(s.config.AdminPassword)) == 1
	return userOK && passwordOK
}

func unauthorized(w http.ResponseWriter) {
	w.Header().Set("WWW-Authenticate", `Basic realm="`+authRealm+`"`)
	http.Error(w, "Unauthorized", http.StatusUnauthorized)
}
