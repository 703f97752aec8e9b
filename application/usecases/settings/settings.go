package settings

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/hilthontt/visper-admin/domain/apperrors"
	"github.com/hilthontt/visper-admin/domain/model"
	"github.com/hilthontt/visper-admin/domain/repository"
	"github.com/hilthontt/visper-admin/infrastructure/logger"
	"github.com/hilthontt/visper-admin/infrastructure/security"
)

type SettingsUseCase interface {
	GetOrCreate(ctx context.Context) (*model.SystemSettings, error)
	SetPassword(ctx context.Context, newPassword string) error
	ChangePassword(ctx context.Context, newPassword, confirmPassword string) error
	SetActive(ctx context.Context, active bool) (*model.SystemSettings, error)
	VerifyPassword(ctx context.Context, password string) (bool, error)
}

type settingsUseCase struct {
	repository repository.SystemSettingsRepository
	logger     *logger.Logger
}

func NewSettingsUseCase(
	repository repository.SystemSettingsRepository,
	logger *logger.Logger,
) SettingsUseCase {
	return &settingsUseCase{
		repository: repository,
		logger:     logger,
	}
}

// GetOrCreate returns the settings row, provisioning it with defaults
// on first use. Concurrent first calls race on the insert; every caller
// re-reads afterwards, so all of them observe the row that won.
func (uc *settingsUseCase) GetOrCreate(ctx context.Context) (*model.SystemSettings, error) {
	settings, err := uc.repository.Get(ctx)
	if err == nil {
		return settings, nil
	}
	if !errors.Is(err, apperrors.ErrRecordNotFound) {
		uc.logger.Error("failed to read system settings", zap.Error(err))
		return nil, apperrors.NewStorageError("settings.get", err)
	}

	uc.logger.Warn("no system settings row found, provisioning defaults",
		zap.Bool("default_password_in_use", true),
	)

	hash, err := security.HashPassword(model.DefaultAccessPassword)
	if err != nil {
		uc.logger.Error("failed to hash default password", zap.Error(err))
		return nil, fmt.Errorf("failed to hash default password: %w", err)
	}

	defaults := model.SystemSettings{
		AccessPasswordHash: hash,
		IsActive:           true,
	}

	if err := uc.repository.InsertIfAbsent(ctx, defaults); err != nil {
		uc.logger.Error("failed to insert default system settings", zap.Error(err))
		return nil, apperrors.NewStorageError("settings.insert_defaults", err)
	}

	settings, err = uc.repository.Get(ctx)
	if err != nil {
		uc.logger.Error("failed to re-read system settings after provisioning", zap.Error(err))
		return nil, apperrors.NewStorageError("settings.get", err)
	}

	return settings, nil
}

// SetPassword validates, hashes and persists a new access password.
// The write is verified by reading the row back; a failed verification
// or storage error earns exactly one retry before giving up.
func (uc *settingsUseCase) SetPassword(ctx context.Context, newPassword string) error {
	if verr := ValidatePassword(newPassword); verr != nil {
		return verr
	}

	hash, err := security.HashPassword(newPassword)
	if err != nil {
		uc.logger.Error("failed to hash password", zap.Error(err))
		return fmt.Errorf("failed to hash password: %w", err)
	}

	row := model.SystemSettings{
		AccessPasswordHash: hash,
		IsActive:           true,
	}

	const op = "settings.set_password"

	var lastErr error
	for attempt := 1; attempt <= 2; attempt++ {
		if err := uc.repository.UpsertPasswordHash(ctx, row); err != nil {
			lastErr = err
			uc.logger.Error("failed to write password hash", zap.Error(err), zap.Int("attempt", attempt))
			continue
		}

		stored, err := uc.repository.Get(ctx)
		if err != nil {
			lastErr = err
			uc.logger.Error("failed to read back settings after password write", zap.Error(err), zap.Int("attempt", attempt))
			continue
		}

		ok, err := security.CheckPassword(stored.AccessPasswordHash, newPassword)
		if err != nil {
			lastErr = err
			uc.logger.Error("stored password hash is unusable after write", zap.Error(err), zap.Int("attempt", attempt))
			continue
		}
		if ok {
			if attempt > 1 {
				uc.logger.Info("password write verified after retry")
			}
			uc.logger.Info("access password updated")
			return nil
		}

		lastErr = nil
		uc.logger.Warn("password verification failed after write", zap.Int("attempt", attempt))
	}

	if lastErr != nil {
		return apperrors.NewStorageError(op, lastErr)
	}

	uc.logger.Error("password write failed verification after retry")
	return apperrors.NewConsistencyError(op)
}

// ChangePassword is the confirmation-gated variant used by the admin
// surface. It shares SetPassword's single write path.
func (uc *settingsUseCase) ChangePassword(ctx context.Context, newPassword, confirmPassword string) error {
	if verr := ValidatePasswordChange(newPassword, confirmPassword); verr != nil {
		return verr
	}
	return uc.SetPassword(ctx, newPassword)
}

// SetActive flips the service flag without touching the stored password
// hash or the creation timestamp.
func (uc *settingsUseCase) SetActive(ctx context.Context, active bool) (*model.SystemSettings, error) {
	current, err := uc.GetOrCreate(ctx)
	if err != nil {
		return nil, err
	}

	row := *current
	row.IsActive = active

	if err := uc.repository.UpsertActive(ctx, row); err != nil {
		uc.logger.Error("failed to update active flag", zap.Error(err), zap.Bool("active", active))
		return nil, apperrors.NewStorageError("settings.set_active", err)
	}

	updated, err := uc.repository.Get(ctx)
	if err != nil {
		uc.logger.Error("failed to read back settings after active flag write", zap.Error(err))
		return nil, apperrors.NewStorageError("settings.get", err)
	}

	uc.logger.Info("service active flag updated", zap.Bool("active", updated.IsActive))

	return updated, nil
}

// VerifyPassword compares a candidate against the stored hash. A wrong
// password is (false, nil); errors are reserved for storage problems or
// an unusable stored hash.
func (uc *settingsUseCase) VerifyPassword(ctx context.Context, password string) (bool, error) {
	settings, err := uc.GetOrCreate(ctx)
	if err != nil {
		return false, err
	}

	ok, err := security.CheckPassword(settings.AccessPasswordHash, password)
	if err != nil {
		uc.logger.Error("stored password hash is unusable", zap.Error(err))
		return false, err
	}

	return ok, nil
}
