package dependency

import (
	activityLogUseCase "github.com/hilthontt/visper-admin/application/usecases/activitylog"
	settingsUseCase "github.com/hilthontt/visper-admin/application/usecases/settings"
)

func (c *Container) initUseCases() {
	c.SettingsUC = settingsUseCase.NewSettingsUseCase(c.SettingsRepo, c.Logger)
	c.ActivityLogUC = activityLogUseCase.NewActivityLogUseCase(c.ActivityLogRepo, c.Logger)

	c.Logger.Info("Use cases initialized successfully")
}
