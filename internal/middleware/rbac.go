package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/noah-isme/payment-portal-api/internal/models"
	appErrors "github.com/noah-isme/payment-portal-api/pkg/errors"
	"github.com/noah-isme/payment-portal-api/pkg/response"
)

// RequireRoles admits requests whose token carries at least one of the roles.
func RequireRoles(roles ...models.UserRole) gin.HandlerFunc {
	return func(c *gin.Context) {
		value, exists := c.Get(ContextUserKey)
		if !exists {
			response.Error(c, appErrors.ErrUnauthorized)
			return
		}
		claims, ok := value.(*models.JWTClaims)
		if !ok || claims == nil {
			response.Error(c, appErrors.ErrUnauthorized)
			return
		}
		if !claims.HasAnyRole(roles...) {
			response.Error(c, appErrors.ErrForbidden)
			return
		}
		c.Next()
	}
}
