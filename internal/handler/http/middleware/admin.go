package middleware

import (
	"context"
	"net/http"

	"github.com/cmlabs-hris/driver-settlement-go/internal/domain/auth"
	"github.com/cmlabs-hris/driver-settlement-go/internal/domain/user"
	"github.com/cmlabs-hris/driver-settlement-go/internal/handler/http/response"
	"github.com/go-chi/jwtauth/v5"
)

func AdminOnly(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, _, err := jwtauth.FromContext(r.Context()); err != nil {
			response.HandleError(w, auth.ErrInvalidToken)
			return
		}
		if !IsAdmin(r.Context()) {
			response.HandleError(w, user.ErrAdminPrivilegeRequired)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// IsAdmin reports whether the verified token in ctx carries the admin role.
func IsAdmin(ctx context.Context) bool {
	_, claims, err := jwtauth.FromContext(ctx)
	if err != nil {
		return false
	}
	role, ok := claims["role"].(string)
	return ok && role == string(user.RoleAdmin)
}
