package middleware

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/noah-isme/centerkech-api/internal/models"
	"github.com/noah-isme/centerkech-api/internal/service"
	appErrors "github.com/noah-isme/centerkech-api/pkg/errors"
	"github.com/noah-isme/centerkech-api/pkg/middleware/requestid"
	"github.com/noah-isme/centerkech-api/pkg/response"
)

// ContextUserKey is the gin context key storing JWT claims.
const ContextUserKey = "currentUser"

// TokenVerifier validates session tokens.
type TokenVerifier interface {
	Verify(token string) (*models.JWTClaims, error)
}

// Authenticate protects routes by requiring a valid session token, read from the
// session cookie first and the Authorization header second.
func Authenticate(verifier TokenVerifier, cookieName string, logger *zap.Logger) gin.HandlerFunc {
	if logger == nil {
		logger = zap.NewNop()
	}
	return func(c *gin.Context) {
		token := extractToken(c, cookieName)
		if token == "" {
			response.Abort(c, appErrors.ErrUnauthenticated)
			return
		}

		claims, err := verifier.Verify(token)
		if err != nil {
			kind := service.TokenInvalid
			var tokenErr *service.TokenError
			if errors.As(err, &tokenErr) {
				kind = tokenErr.Kind
			}
			logger.Debug("token rejected",
				zap.String("kind", string(kind)),
				zap.String("request_id", requestid.Value(c)),
				zap.String("path", c.Request.URL.Path),
			)
			response.Abort(c, appErrors.Clone(appErrors.ErrUnauthenticated, "Invalid token"))
			return
		}

		c.Set(ContextUserKey, claims)
		c.Next()
	}
}

func extractToken(c *gin.Context, cookieName string) string {
	if cookieName != "" {
		if value, err := c.Cookie(cookieName); err == nil && value != "" {
			return value
		}
	}
	header := c.GetHeader("Authorization")
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

// CurrentUser returns the claims attached by Authenticate.
func CurrentUser(c *gin.Context) *models.JWTClaims {
	value, exists := c.Get(ContextUserKey)
	if !exists {
		return nil
	}
	claims, ok := value.(*models.JWTClaims)
	if !ok {
		return nil
	}
	return claims
}
