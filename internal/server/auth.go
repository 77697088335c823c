package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	obscontext "github.com/ynmsafety/ynmops/internal/observability/context"
)

const (
	HeaderUserRole = "X-User-Role"

	RoleAdmin    = "admin"
	RoleManager  = "manager"
	RoleEmployee = "employee"

	contextRoleKey = "user_role"
)

// RoleResolver reports the caller's role. Authentication happens upstream.
type RoleResolver interface {
	Resolve(r *http.Request) string
}

// HeaderRoleResolver trusts the role header set by the auth gateway.
type HeaderRoleResolver struct{}

func NewHeaderRoleResolver() *HeaderRoleResolver { return &HeaderRoleResolver{} }

func (HeaderRoleResolver) Resolve(r *http.Request) string {
	return strings.ToLower(strings.TrimSpace(r.Header.Get(HeaderUserRole)))
}

func (s *Server) ResolveRole() gin.HandlerFunc {
	return func(c *gin.Context) {
		role := s.roles.Resolve(c.Request)
		if role != "" {
			c.Set(contextRoleKey, role)
			c.Request = c.Request.WithContext(obscontext.WithRole(c.Request.Context(), role))
		}
		c.Next()
	}
}

// RequireRole admits callers holding one of roles.
func RequireRole(roles ...string) gin.HandlerFunc {
	allowed := make(map[string]struct{}, len(roles))
	for _, r := range roles {
		allowed[r] = struct{}{}
	}
	return func(c *gin.Context) {
		role := c.GetString(contextRoleKey)
		if role == "" {
			AbortWithError(c, ErrUnauthorized)
			return
		}
		if _, ok := allowed[role]; !ok {
			AbortWithError(c, ErrForbidden)
			return
		}
		c.Next()
	}
}
