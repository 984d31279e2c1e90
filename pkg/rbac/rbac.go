// Package rbac provides role-based access control middleware.
package rbac

import (
	"net/http"

	"github.com/shashiranjanraj/galeria/pkg/auth"
	"github.com/shashiranjanraj/galeria/pkg/middleware"
	"github.com/shashiranjanraj/galeria/pkg/response"
)

// HasRole allows only users whose role is one of roles. middleware.Auth must
// run first.
func HasRole(roles ...string) func(http.Handler) http.Handler {
	allowed := make(map[string]bool, len(roles))
	for _, r := range roles {
		allowed[r] = true
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, ok := middleware.UserIDFromCtx(r); !ok {
				response.Unauthorized(w)
				return
			}
			role, ok := middleware.RoleFromCtx(r)
			if !ok || !allowed[role] {
				response.Forbidden(w)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// Admin is HasRole(auth.RoleAdmin), guarding every /api/admin route.
func Admin(next http.Handler) http.Handler {
	return HasRole(auth.RoleAdmin)(next)
}

// Guest blocks authenticated users, e.g. on register.
func Guest(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := middleware.UserIDFromCtx(r); ok {
			response.Error(w, http.StatusConflict, "Ya has iniciado sesión")
			return
		}
		next.ServeHTTP(w, r)
	})
}
