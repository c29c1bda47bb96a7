package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/noah-isme/centerkech-api/internal/models"
	appErrors "github.com/noah-isme/centerkech-api/pkg/errors"
	"github.com/noah-isme/centerkech-api/pkg/response"
)

// RequireRoles only lets authenticated users with one of roles through.
func RequireRoles(roles ...models.UserRole) gin.HandlerFunc {
	allowed := make(map[models.UserRole]struct{}, len(roles))
	for _, r := range roles {
		allowed[r] = struct{}{}
	}
	return func(c *gin.Context) {
		claims := CurrentUser(c)
		if claims == nil {
			response.Abort(c, appErrors.ErrUnauthenticated)
			return
		}
		if _, ok := allowed[claims.Role]; !ok {
			response.Abort(c, appErrors.ErrForbidden)
			return
		}
		c.Next()
	}
}
