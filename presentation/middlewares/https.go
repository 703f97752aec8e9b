package middlewares

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/hilthontt/visper-admin/infrastructure/config"
)

func ForceHttps(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.TLS == nil && c.GetHeader("X-Forwarded-Proto") != "https" {
			httpsURL := "https://" + cfg.Server.Domain + c.Request.RequestURI

			c.Redirect(http.StatusMovedPermanently, httpsURL)
			c.Abort()
			return
		}

		c.Next()
	}
}
