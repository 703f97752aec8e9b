package activitylog

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/hilthontt/visper-admin/application/usecases/activitylog"
	"github.com/hilthontt/visper-admin/domain/filter"
	"github.com/hilthontt/visper-admin/domain/model"
	"github.com/hilthontt/visper-admin/presentation/middlewares"
)

const defaultPurgeDays = 30

type ActivityLogController interface {
	ListActivityLogs(ctx *gin.Context)
	PurgeActivityLogs(ctx *gin.Context)
}

type activityLogController struct {
	usecase activitylog.ActivityLogUseCase
}

func NewActivityLogController(usecase activitylog.ActivityLogUseCase) ActivityLogController {
	return &activityLogController{
		usecase: usecase,
	}
}

func (c *activityLogController) ListActivityLogs(ctx *gin.Context) {
	var query ListActivityLogsQuery
	if err := ctx.ShouldBindQuery(&query); err != nil {
		ctx.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_request",
			Message: middlewares.TranslateValidationError(err),
		})
		return
	}

	logFilter := filter.ActivityLogFilter{
		RoomID:  query.RoomID,
		Action:  model.ActivityAction(query.Action),
		SinceID: query.SinceID,
		Limit:   query.Limit,
	}

	entries, err := c.usecase.List(ctx.Request.Context(), logFilter)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "listing_failed",
			Message: err.Error(),
		})
		return
	}

	response := ListActivityLogsResponse{
		Data:  make([]ActivityLogResponse, 0, len(entries)),
		Count: len(entries),
	}
	for _, entry := range entries {
		response.Data = append(response.Data, toActivityLogResponse(entry))
	}

	// A full page means there may be older entries; hand back the cursor.
	if len(entries) == logFilter.EffectiveLimit() {
		response.NextSinceID = entries[len(entries)-1].ID
	}

	ctx.JSON(http.StatusOK, response)
}

func (c *activityLogController) PurgeActivityLogs(ctx *gin.Context) {
	var query PurgeActivityLogsQuery
	if err := ctx.ShouldBindQuery(&query); err != nil {
		ctx.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_request",
			Message: middlewares.TranslateValidationError(err),
		})
		return
	}

	days := query.OlderThanDays
	if days == 0 {
		days = defaultPurgeDays
	}

	deleted, err := c.usecase.PurgeOlderThan(ctx.Request.Context(), time.Duration(days)*24*time.Hour)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "purge_failed",
			Message: err.Error(),
		})
		return
	}

	ctx.JSON(http.StatusOK, PurgeActivityLogsResponse{
		Deleted:       deleted,
		OlderThanDays: days,
	})
}

func toActivityLogResponse(entry model.RoomActivityLog) ActivityLogResponse {
	response := ActivityLogResponse{
		ID:               entry.ID,
		EventID:          entry.EventID,
		RoomID:           entry.RoomID,
		Action:           entry.Action.String(),
		Timestamp:        entry.Timestamp,
		ParticipantCount: entry.ParticipantCount,
	}

	if entry.IPAddress.Valid {
		response.IPAddress = &entry.IPAddress.String
	}
	if entry.UserAgentHash.Valid {
		response.UserAgentHash = &entry.UserAgentHash.String
	}

	return response
}
