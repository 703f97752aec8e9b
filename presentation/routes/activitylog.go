package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/hilthontt/visper-admin/presentation/controllers/activitylog"
)

func ActivityLogRoutes(router *gin.RouterGroup, controller activitylog.ActivityLogController) {
	logs := router.Group("/activity-logs")
	{
		logs.GET("", controller.ListActivityLogs)
		logs.DELETE("", controller.PurgeActivityLogs)
	}
}
