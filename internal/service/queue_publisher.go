package service

import (
	"context"
	"encoding/json"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"

	q "github.com/iliyamo/smart-medicine-box/internal/queue"
)

// defaultDialTimeout bounds the connect and handshake when ctx has no deadline.
const defaultDialTimeout = 5 * time.Second

// EventPublisher announces served predictions. Publishing is best effort:
// a failure never fails the request.
type EventPublisher interface {
	PublishPredictionServed(ctx context.Context, event q.PredictionServedEvent) error
}

// AMQPPublisher publishes events to a durable RabbitMQ queue. Each call
// opens its own connection so a broker outage never leaves stale state
// behind.
type AMQPPublisher struct {
	URL   string
	Queue string
	Log   *zap.Logger
}

// NewAMQPPublisher returns a publisher for url and queue. An empty queue
// name selects q.PredictionQueueName.
func NewAMQPPublisher(url, queue string, log *zap.Logger) *AMQPPublisher {
	if queue == "" {
		queue = q.PredictionQueueName
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &AMQPPublisher{URL: url, Queue: queue, Log: log}
}

// PublishPredictionServed publishes event as a persistent JSON message.
// Errors are logged and returned so the caller can choose to ignore them.
func (p *AMQPPublisher) PublishPredictionServed(ctx context.Context, event q.PredictionServedEvent) error {
	timeout := defaultDialTimeout
	if deadline, ok := ctx.Deadline(); ok {
		timeout = time.Until(deadline)
	}
	if timeout <= 0 {
		return context.DeadlineExceeded
	}
	conn, err := amqp.DialConfig(p.URL, amqp.Config{
		Dial:      amqp.DefaultDial(timeout),
		Heartbeat: 10 * time.Second,
		Locale:    "en_US",
	})
	if err != nil {
		p.Log.Warn("rabbitmq: dial failed", zap.Error(err))
		return err
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		p.Log.Warn("rabbitmq: channel open failed", zap.Error(err))
		return err
	}
	defer func() { _ = ch.Close() }()

	// Durable so messages survive broker restarts.
	if _, err := ch.QueueDeclare(
		p.Queue, // name
		true,    // durable
		false,   // autoDelete
		false,   // exclusive
		false,   // noWait
		nil,     // args
	); err != nil {
		p.Log.Warn("rabbitmq: queue declare failed", zap.String("queue", p.Queue), zap.Error(err))
		return err
	}

	body, err := json.Marshal(event)
	if err != nil {
		return err
	}

	pub := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    event.EventID,
		Timestamp:    time.Now().UTC(),
		Body:         body,
	}
	if err := ch.PublishWithContext(ctx, "", p.Queue, false, false, pub); err != nil {
		p.Log.Warn("rabbitmq: publish failed", zap.String("queue", p.Queue), zap.Error(err))
		return err
	}
	return nil
}
