package middleware

import (
	"net/http"
	"strings"

	"task_manager/internal/model"
	"task_manager/internal/repository"
	"task_manager/internal/utils"

	"github.com/gin-gonic/gin"
)

// AuthUserKey is the gin context key holding the authenticated *model.User.
const AuthUserKey = "authUser"

// AuthMiddleware authenticates requests carrying a bearer token. The token
// only resolves the user's id; the user row (email, role included) is
// re-read from the database on every request, so role changes and account
// deletions take effect without any token revocation machinery.
func AuthMiddleware(jwtUtil *utils.JWTUtil, userRepo repository.UserRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Authorization token is missing"})
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Authorization token is missing"})
			return
		}

		claims, err := jwtUtil.ValidateToken(parts[1])
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Invalid or expired token"})
			return
		}

		user, err := userRepo.FindByID(c.Request.Context(), claims.UserID)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"message": "Internal server error"})
			return
		}
		if user == nil {
			// Deleted account with a still-valid token.
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "User not found"})
			return
		}

		c.Set(AuthUserKey, user)
		c.Next()
	}
}

// AuthUser returns the authenticated user stashed by AuthMiddleware.
func AuthUser(c *gin.Context) (*model.User, bool) {
	val, exists := c.Get(AuthUserKey)
	if !exists {
		return nil, false
	}
	user, ok := val.(*model.User)
	return user, ok
}
