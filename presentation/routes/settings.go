package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/hilthontt/visper-admin/presentation/controllers/settings"
)

// SettingsRoutes registers the settings endpoints. Password changes and
// verification attempts go through the stricter limiter.
func SettingsRoutes(router *gin.RouterGroup, controller settings.SettingsController, strictLimiter gin.HandlerFunc) {
	group := router.Group("/settings")
	{
		group.GET("", controller.GetSettings)
		group.PUT("/password", strictLimiter, controller.ChangePassword)
		group.PUT("/active", controller.SetActive)
		group.POST("/verify", strictLimiter, controller.VerifyPassword)
	}

	router.GET("/site", controller.GetSite)
}
