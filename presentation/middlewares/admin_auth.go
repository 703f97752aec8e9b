package middlewares

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/hilthontt/visper-admin/infrastructure/config"
	"github.com/hilthontt/visper-admin/infrastructure/logger"
	"github.com/hilthontt/visper-admin/infrastructure/security"
)

const bearerPrefix = "Bearer "

// AdminAuthMiddleware requires the configured API token as a bearer
// credential. An empty token disables the check, which config validation
// only permits outside production.
func AdminAuthMiddleware(cfg *config.Config, logger *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := cfg.Admin.APIToken
		if token == "" {
			c.Next()
			return
		}

		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, bearerPrefix) {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error":   "unauthorized",
				"message": "missing bearer token",
			})
			c.Abort()
			return
		}

		presented := strings.TrimPrefix(header, bearerPrefix)
		if !security.SecureCompare(presented, token) {
			logger.Warn("rejected admin request",
				zap.String("clientIP", c.ClientIP()),
				zap.String("path", c.Request.URL.Path),
			)

			c.JSON(http.StatusUnauthorized, gin.H{
				"error":   "unauthorized",
				"message": "invalid bearer token",
			})
			c.Abort()
			return
		}

		c.Next()
	}
}
