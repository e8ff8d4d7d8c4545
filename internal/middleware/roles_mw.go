package middleware

import (
	"net/http"

	"task_manager/internal/model"

	"github.com/gin-gonic/gin"
)

// RoleMiddleware restricts a route to the given roles. It reads the role
// from the user re-fetched by AuthMiddleware, not from the token claims, so
// a stale role embedded in a token never grants access.
func RoleMiddleware(allowedRoles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := AuthUser(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"message": "User not found in context, ensure auth middleware runs first"})
			return
		}

		for _, allowed := range allowedRoles {
			if user.Role == allowed {
				c.Next()
				return
			}
		}

		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"message": "Admin privileges required"})
	}
}

// AdminMiddleware restricts a route to admins
func AdminMiddleware() gin.HandlerFunc {
	return RoleMiddleware(model.RoleAdmin)
}
