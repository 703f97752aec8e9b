package events

import (
	"context"
	"encoding/json"

	"github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"

	"github.com/hilthontt/visper-admin/application/usecases/activitylog"
	"github.com/hilthontt/visper-admin/domain/model"
	"github.com/hilthontt/visper-admin/infrastructure/contracts"
	"github.com/hilthontt/visper-admin/infrastructure/logger"
	"github.com/hilthontt/visper-admin/infrastructure/messaging"
	"github.com/hilthontt/visper-admin/infrastructure/metrics"
)

// RoomConsumer turns room lifecycle events from the call service into
// activity log entries. This is the production append path; the admin
// API only reads the log.
type RoomConsumer struct {
	rabbitmq           *messaging.RabbitMQ
	activityLogUseCase activitylog.ActivityLogUseCase
	logger             *logger.Logger
	metricsManager     metrics.Manager
	queue              string
}

func NewRoomConsumer(
	rabbitmq *messaging.RabbitMQ,
	activityLogUseCase activitylog.ActivityLogUseCase,
	logger *logger.Logger,
	metricsManager metrics.Manager,
	queue string,
) *RoomConsumer {
	return &RoomConsumer{
		rabbitmq:           rabbitmq,
		activityLogUseCase: activityLogUseCase,
		logger:             logger,
		metricsManager:     metricsManager,
		queue:              queue,
	}
}

func (c *RoomConsumer) Listen(ctx context.Context) error {
	return c.rabbitmq.ConsumeMessages(ctx, c.queue, c.handleDelivery)
}

func (c *RoomConsumer) handleDelivery(ctx context.Context, msg amqp091.Delivery) error {
	var message contracts.AmqpMessage
	if err := json.Unmarshal(msg.Body, &message); err != nil {
		c.logger.Error("failed to unmarshal amqp message", zap.Error(err), zap.String("routingKey", msg.RoutingKey))
		return err
	}

	var payload messaging.RoomEventData
	if err := json.Unmarshal(message.Data, &payload); err != nil {
		c.logger.Error("failed to unmarshal room event payload", zap.Error(err), zap.String("routingKey", msg.RoutingKey))
		return err
	}

	action, ok := actionForRoutingKey(msg.RoutingKey)
	if !ok {
		// Not an event this service records. Ack and move on.
		c.logger.Warn("ignoring unhandled routing key", zap.String("routingKey", msg.RoutingKey))
		return nil
	}

	// MessageId doubles as the idempotency key: a redelivered event
	// never produces a second log row.
	_, err := c.activityLogUseCase.Record(ctx, activitylog.RecordParams{
		EventID:          msg.MessageId,
		RoomID:           payload.RoomID,
		Action:           action,
		ParticipantCount: payload.ParticipantCount,
		IPAddress:        payload.IPAddress,
		UserAgent:        payload.UserAgent,
	})
	if err != nil {
		c.logger.Error("failed to record room event",
			zap.Error(err),
			zap.String("roomID", payload.RoomID),
			zap.String("routingKey", msg.RoutingKey),
		)
		return err
	}

	if c.metricsManager != nil {
		c.metricsManager.IncCounter("room_events_consumed_total")
	}

	c.logger.Debug("room event recorded",
		zap.String("roomID", payload.RoomID),
		zap.String("action", action.String()),
	)

	return nil
}

func actionForRoutingKey(key string) (model.ActivityAction, bool) {
	switch key {
	case contracts.EventRoomCreated:
		return model.ActionCreated, true
	case contracts.EventMemberJoined:
		return model.ActionJoined, true
	case contracts.EventMemberLeft:
		return model.ActionLeft, true
	case contracts.EventRoomExpired:
		return model.ActionExpired, true
	case contracts.EventRoomDeleted:
		return model.ActionDeleted, true
	}
	return "", false
}
