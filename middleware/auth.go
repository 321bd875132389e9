package middleware

import (
	"net/http"
	"strings"

	"recipe-catalog-backend/models"
	"recipe-catalog-backend/utils"

	"github.com/gin-gonic/gin"
)

const actorKey = "actor"

// AuthMiddleware requires a valid bearer token and stores the resolved
// actor on the context.
func AuthMiddleware(jwtSecret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authorization header is missing"})
			c.Abort()
			return
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		claims, err := utils.ValidateJWT(jwtSecret, tokenString)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			c.Abort()
			return
		}

		c.Set(actorKey, &models.Actor{ID: claims.UserID, Roles: []models.Role{claims.Role}})
		c.Next()
	}
}

// OptionalAuthMiddleware resolves the actor when a valid token is present
// and stays silent otherwise.
func OptionalAuthMiddleware(jwtSecret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader != "" {
			tokenString := strings.TrimPrefix(authHeader, "Bearer ")
			if claims, err := utils.ValidateJWT(jwtSecret, tokenString); err == nil {
				c.Set(actorKey, &models.Actor{ID: claims.UserID, Roles: []models.Role{claims.Role}})
			}
		}
		c.Next()
	}
}

// CurrentActor returns the actor resolved by the auth middleware, or nil
// for anonymous requests.
func CurrentActor(c *gin.Context) *models.Actor {
	value, exists := c.Get(actorKey)
	if !exists {
		return nil
	}
	actor, ok := value.(*models.Actor)
	if !ok {
		return nil
	}
	return actor
}
