package middleware

import (
	"github.com/gin-gonic/gin"

	appErrors "github.com/noah-isme/sma-absensi-api/pkg/errors"
	"github.com/noah-isme/sma-absensi-api/pkg/response"
)

// RequirePermission allows the request when the session holds any of the given menu paths.
// The superadmin role passes every check.
func RequirePermission(paths ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := CurrentUser(c)
		if claims == nil {
			response.Error(c, appErrors.ErrUnauthorized)
			c.Abort()
			return
		}
		if claims.IsSuperAdmin() {
			c.Next()
			return
		}

		for _, granted := range claims.Permissions {
			for _, path := range paths {
				if granted == path {
					c.Next()
					return
				}
			}
		}

		response.Error(c, appErrors.Clone(appErrors.ErrForbidden, "missing permission for this menu"))
		c.Abort()
	}
}

// RequireSuperAdmin restricts a route to the superadmin role.
func RequireSuperAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := CurrentUser(c)
		if claims == nil {
			response.Error(c, appErrors.ErrUnauthorized)
			c.Abort()
			return
		}
		if !claims.IsSuperAdmin() {
			response.Error(c, appErrors.ErrForbidden)
			c.Abort()
			return
		}
		c.Next()
	}
}
