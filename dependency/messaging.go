package dependency

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/hilthontt/visper-admin/infrastructure/events"
	"github.com/hilthontt/visper-admin/infrastructure/messaging"
)

func (c *Container) initMessaging() error {
	if !c.Config.RabbitMQ.Enabled {
		c.Logger.Info("RabbitMQ disabled, room event ingestion inactive")
		return nil
	}

	rabbit, err := messaging.NewRabbitMQ(c.Config.RabbitMQ)
	if err != nil {
		return fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}
	c.RabbitMQ = rabbit

	c.RoomConsumer = events.NewRoomConsumer(
		rabbit,
		c.ActivityLogUC,
		c.Logger,
		c.MetricsManager,
		c.Config.RabbitMQ.Queue,
	)

	go func() {
		if err := c.RoomConsumer.Listen(c.ctx); err != nil {
			c.Logger.Error("room event consumer stopped", zap.Error(err))
		}
	}()

	c.Logger.Info("RabbitMQ initialized successfully",
		zap.String("queue", c.Config.RabbitMQ.Queue),
		zap.String("exchange", c.Config.RabbitMQ.Exchange),
	)

	return nil
}
