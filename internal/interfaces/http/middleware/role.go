package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RoleConfig holds configuration for role middleware
type RoleConfig struct {
	// Logger for middleware logging
	Logger *zap.Logger
	// OnDenied is called when access is denied (optional)
	OnDenied func(c *gin.Context, requiredRole string)
}

// RequireAdmin creates middleware that only lets users with the admin role
// claim through. The role comes from the validated token, never from the
// request body or headers.
func RequireAdmin() gin.HandlerFunc {
	return RequireRole("admin")
}

// RequireRole creates middleware that requires a specific role claim
func RequireRole(role string) gin.HandlerFunc {
	return RequireRoleWithConfig(role, RoleConfig{})
}

// RequireRoleWithConfig creates role middleware with custom config
func RequireRoleWithConfig(role string, cfg RoleConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := GetJWTClaims(c)
		if claims == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "UNAUTHORIZED",
					"message": "Authentication required",
				},
			})
			return
		}

		if claims.Role != role {
			if cfg.Logger != nil {
				cfg.Logger.Warn("role check failed",
					zap.String("user_id", claims.UserID),
					zap.String("role", claims.Role),
					zap.String("required_role", role),
					zap.String("path", c.Request.URL.Path),
				)
			}
			if cfg.OnDenied != nil {
				cfg.OnDenied(c, role)
				return
			}
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "FORBIDDEN",
					"message": "Insufficient privileges",
				},
			})
			return
		}

		c.Next()
	}
}
