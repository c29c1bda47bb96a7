package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/noah-isme/centerkech-api/internal/middleware"
	"github.com/noah-isme/centerkech-api/internal/models"
	appErrors "github.com/noah-isme/centerkech-api/pkg/errors"
)

func claimsFromContext(c *gin.Context) *models.JWTClaims {
	return middleware.CurrentUser(c)
}

func actorID(c *gin.Context) string {
	if claims := claimsFromContext(c); claims != nil {
		return claims.UserID
	}
	return ""
}

func invalidPayload(err error) *appErrors.Error {
	return appErrors.Wrap(err, appErrors.ErrInvalidArgument.Code, appErrors.ErrInvalidArgument.Status, "Invalid request payload")
}
