package web

import (
	"net/http"

	"matchday-app/internal/model"
)

const userCookieName = "matchday_user_id"

// requireAdmin guards the admin subtree. Everything else is public; match
// pages and the timer feed are meant to be browsed logged out.
func (s *Server) requireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user := s.currentUser(r)
		if user.ID == "" {
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}
		if !isAdmin(user) {
			http.Error(w, "brak uprawnień", http.StatusForbidden)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func isAdmin(user model.User) bool {
	return user.Role == model.RoleAdmin || user.Role == model.RoleSuperAdmin
}

func isSuperAdmin(user model.User) bool {
	return user.Role == model.RoleSuperAdmin
}
