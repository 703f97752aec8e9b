package dependency

import (
	"go.opentelemetry.io/otel"

	"github.com/hilthontt/visper-admin/infrastructure/persistence/repository"
)

func (c *Container) initRepositories() {
	tracer := otel.Tracer("visper-admin")

	c.SettingsRepo = repository.NewSystemSettingsRepository(c.Config, tracer)
	c.ActivityLogRepo = repository.NewRoomActivityLogRepository(c.Config, tracer)

	c.Logger.Info("Repositories initialized successfully")
}
