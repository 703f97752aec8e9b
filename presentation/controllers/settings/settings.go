package settings

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/hilthontt/visper-admin/application/usecases/settings"
	"github.com/hilthontt/visper-admin/domain/apperrors"
	"github.com/hilthontt/visper-admin/domain/model"
	"github.com/hilthontt/visper-admin/infrastructure/config"
	"github.com/hilthontt/visper-admin/presentation/middlewares"
)

// hashPreviewLength keeps responses informative without disclosing the
// full password hash.
const hashPreviewLength = 24

type SettingsController interface {
	GetSettings(ctx *gin.Context)
	ChangePassword(ctx *gin.Context)
	SetActive(ctx *gin.Context)
	VerifyPassword(ctx *gin.Context)
	GetSite(ctx *gin.Context)
}

type settingsController struct {
	usecase settings.SettingsUseCase
	cfg     *config.Config
}

func NewSettingsController(usecase settings.SettingsUseCase, cfg *config.Config) SettingsController {
	return &settingsController{
		usecase: usecase,
		cfg:     cfg,
	}
}

func (c *settingsController) GetSettings(ctx *gin.Context) {
	row, err := c.usecase.GetOrCreate(ctx.Request.Context())
	if err != nil {
		respondSettingsError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, c.toSettingsResponse(row))
}

func (c *settingsController) ChangePassword(ctx *gin.Context) {
	var req ChangePasswordRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_request",
			Message: middlewares.TranslateValidationError(err),
		})
		return
	}

	if err := c.usecase.ChangePassword(ctx.Request.Context(), req.NewPassword, req.ConfirmPassword); err != nil {
		respondSettingsError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, SuccessResponse{
		Message: "access password updated",
	})
}

func (c *settingsController) SetActive(ctx *gin.Context) {
	var req SetActiveRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_request",
			Message: middlewares.TranslateValidationError(err),
		})
		return
	}

	row, err := c.usecase.SetActive(ctx.Request.Context(), *req.IsActive)
	if err != nil {
		respondSettingsError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, c.toSettingsResponse(row))
}

func (c *settingsController) VerifyPassword(ctx *gin.Context) {
	var req VerifyPasswordRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_request",
			Message: middlewares.TranslateValidationError(err),
		})
		return
	}

	valid, err := c.usecase.VerifyPassword(ctx.Request.Context(), req.Password)
	if err != nil {
		respondSettingsError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, VerifyPasswordResponse{Valid: valid})
}

func (c *settingsController) GetSite(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, SiteResponse{
		SiteHeader: c.cfg.Admin.SiteHeader,
		SiteTitle:  c.cfg.Admin.SiteTitle,
		IndexTitle: c.cfg.Admin.IndexTitle,
	})
}

func (c *settingsController) toSettingsResponse(row *model.SystemSettings) SettingsResponse {
	return SettingsResponse{
		IsActive:            row.IsActive,
		PasswordSet:         row.PasswordSet(),
		PasswordHashPreview: previewHash(row.AccessPasswordHash),
		CreatedAt:           row.CreatedAt,
		UpdatedAt:           row.UpdatedAt,
	}
}

func previewHash(hash string) string {
	if len(hash) <= hashPreviewLength {
		return hash
	}
	return hash[:hashPreviewLength] + "..."
}

func respondSettingsError(ctx *gin.Context, err error) {
	var validationErr *apperrors.ValidationError
	if errors.As(err, &validationErr) {
		ctx.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "validation_failed",
			Message: validationErr.Error(),
			Field:   validationErr.Field,
			Reason:  validationErr.Reason,
		})
		return
	}

	var consistencyErr *apperrors.ConsistencyError
	if errors.As(err, &consistencyErr) {
		ctx.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "consistency_check_failed",
			Message: consistencyErr.Error(),
		})
		return
	}

	var storageErr *apperrors.StorageError
	if errors.As(err, &storageErr) {
		ctx.JSON(http.StatusServiceUnavailable, ErrorResponse{
			Error:   "storage_failed",
			Message: storageErr.Error(),
		})
		return
	}

	ctx.JSON(http.StatusInternalServerError, ErrorResponse{
		Error:   "internal_error",
		Message: err.Error(),
	})
}
