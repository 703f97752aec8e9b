package messaging

import (
	"context"

	"github.com/pkg/errors"
	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/hilthontt/visper-admin/infrastructure/config"
	"github.com/hilthontt/visper-admin/infrastructure/contracts"
)

type RabbitMQ struct {
	conn    *amqp.Connection
	Channel *amqp.Channel
	cfg     config.RabbitMQConfig
}

func NewRabbitMQ(cfg config.RabbitMQConfig) (*RabbitMQ, error) {
	conn, err := amqp.Dial(cfg.URL)
	if err != nil {
		return nil, errors.Wrap(err, "failed to connect to RabbitMQ")
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, errors.Wrap(err, "failed to create channel")
	}

	rmq := &RabbitMQ{
		conn:    conn,
		Channel: ch,
		cfg:     cfg,
	}

	if err := rmq.declareTopology(); err != nil {
		rmq.Close()
		return nil, err
	}

	return rmq, nil
}

func (r *RabbitMQ) Close() {
	if r.Channel != nil {
		r.Channel.Close()
	}
	if r.conn != nil {
		r.conn.Close()
	}
}

// declareTopology sets up the room event exchange, the consumer queue
// and the dead letter pair. Declarations are idempotent, so it is safe
// to race the publishing side.
func (r *RabbitMQ) declareTopology() error {
	if err := r.Channel.ExchangeDeclare(
		r.cfg.Exchange, // name
		"topic",        // type
		true,           // durable
		false,          // auto-deleted
		false,          // internal
		false,          // no-wait
		nil,
	); err != nil {
		return errors.Wrap(err, "failed to declare exchange")
	}

	if err := r.Channel.ExchangeDeclare(
		r.cfg.DeadLetterExchange,
		"fanout",
		true,
		false,
		false,
		false,
		nil,
	); err != nil {
		return errors.Wrap(err, "failed to declare dead letter exchange")
	}

	dlq, err := r.Channel.QueueDeclare(
		r.cfg.DeadLetterQueue,
		true,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		return errors.Wrap(err, "failed to declare dead letter queue")
	}

	if err := r.Channel.QueueBind(dlq.Name, "", r.cfg.DeadLetterExchange, false, nil); err != nil {
		return errors.Wrap(err, "failed to bind dead letter queue")
	}

	// Rejected deliveries land on the DLX instead of being dropped.
	args := amqp.Table{
		"x-dead-letter-exchange": r.cfg.DeadLetterExchange,
	}

	q, err := r.Channel.QueueDeclare(
		r.cfg.Queue, // name
		true,        // durable
		false,       // delete when unused
		false,       // exclusive
		false,       // no-wait
		args,        // arguments with DLX config
	)
	if err != nil {
		return errors.Wrap(err, "failed to declare queue")
	}

	routingKeys := []string{
		contracts.EventRoomCreated,
		contracts.EventMemberJoined,
		contracts.EventMemberLeft,
		contracts.EventRoomExpired,
		contracts.EventRoomDeleted,
	}

	for _, key := range routingKeys {
		if err := r.Channel.QueueBind(
			q.Name,         // queue name
			key,            // routing key
			r.cfg.Exchange, // exchange
			false,
			nil,
		); err != nil {
			return errors.Wrapf(err, "failed to bind queue to %s", key)
		}
	}

	return nil
}

// ConsumeMessages feeds queue deliveries to the handler. A handler
// error rejects the delivery without requeueing, which routes it to the
// dead letter exchange. Blocks until ctx is cancelled or the channel
// closes.
func (r *RabbitMQ) ConsumeMessages(ctx context.Context, queueName string, handler func(ctx context.Context, msg amqp.Delivery) error) error {
	if err := r.Channel.Qos(10, 0, false); err != nil {
		return errors.Wrap(err, "failed to set QoS")
	}

	deliveries, err := r.Channel.Consume(
		queueName, // queue
		"",        // consumer tag
		false,     // auto-ack
		false,     // exclusive
		false,     // no-local
		false,     // no-wait
		nil,
	)
	if err != nil {
		return errors.Wrapf(err, "failed to consume from %s", queueName)
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case msg, ok := <-deliveries:
			if !ok {
				return errors.New("delivery channel closed")
			}

			if err := handler(ctx, msg); err != nil {
				_ = msg.Nack(false, false)
				continue
			}

			_ = msg.Ack(false)
		}
	}
}
