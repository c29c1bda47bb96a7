package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/noah-isme/centerkech-api/pkg/middleware/requestid"
)

// Audit logs one line per successful administrative mutation.
func Audit(logger *zap.Logger, action, resource string) gin.HandlerFunc {
	if logger == nil {
		logger = zap.NewNop()
	}
	logger = logger.Named("audit")
	return func(c *gin.Context) {
		start := time.Now().UTC()
		c.Next()

		if c.Writer.Status() >= 400 {
			return
		}

		fields := []zap.Field{
			zap.String("action", action),
			zap.String("resource", resource),
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Int("status", c.Writer.Status()),
			zap.Int64("latency_ms", time.Since(start).Milliseconds()),
			zap.String("ip", c.ClientIP()),
			zap.String("user_agent", c.GetHeader("User-Agent")),
			zap.String("request_id", requestid.Value(c)),
		}
		if id := resourceID(c); id != "" {
			fields = append(fields, zap.String("resource_id", id))
		}
		if claims := CurrentUser(c); claims != nil {
			fields = append(fields, zap.String("actor_id", claims.UserID))
		}
		logger.Info("admin action", fields...)
	}
}

func resourceID(c *gin.Context) string {
	for _, name := range []string{"id", "key"} {
		if v := c.Param(name); v != "" {
			return v
		}
	}
	return ""
}
