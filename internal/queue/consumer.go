package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

// HandlerFunc processes one decoded event. A returned error rejects the
// message without requeueing it.
type HandlerFunc func(ev PredictionServedEvent) error

// Consume connects to url, declares queue (durable) and hands every
// message to fn. It reconnects with exponential backoff and returns only
// when ctx is cancelled.
func Consume(ctx context.Context, url, queue string, log *zap.Logger, fn HandlerFunc) error {
	if queue == "" {
		queue = PredictionQueueName
	}
	backoff := time.Second
	for {
		conn, err := amqp.Dial(url)
		if err != nil {
			log.Warn("event-consumer: dial failed", zap.Error(err), zap.Duration("retry_in", backoff))
			if !sleep(ctx, backoff) {
				return ctx.Err()
			}
			if backoff < 30*time.Second {
				backoff *= 2
			}
			continue
		}
		backoff = time.Second

		err = consumeLoop(ctx, conn, queue, log, fn)
		_ = conn.Close()
		if ctx.Err() != nil {
			return ctx.Err()
		}
		log.Warn("event-consumer: consume loop ended, reconnecting", zap.Error(err))
		if !sleep(ctx, 2*time.Second) {
			return ctx.Err()
		}
	}
}

func consumeLoop(ctx context.Context, conn *amqp.Connection, queue string, log *zap.Logger, fn HandlerFunc) error {
	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("channel open: %w", err)
	}
	defer func() { _ = ch.Close() }()

	if err := ch.Qos(50, 0, false); err != nil {
		log.Warn("event-consumer: set QoS failed", zap.Error(err))
	}
	if _, err := ch.QueueDeclare(queue, true, false, false, false, nil); err != nil {
		return fmt.Errorf("queue declare: %w", err)
	}
	msgs, err := ch.Consume(queue, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("queue consume: %w", err)
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case d, ok := <-msgs:
			if !ok {
				return errors.New("deliveries channel closed")
			}
			if err := HandleMessage(d.Body, fn); err != nil {
				log.Warn("event-consumer: handle message failed", zap.Error(err))
				_ = d.Nack(false, false) // do not requeue, avoids tight loops
				continue
			}
			_ = d.Ack(false)
		}
	}
}

// HandleMessage decodes body and passes it to fn.
func HandleMessage(body []byte, fn HandlerFunc) error {
	var ev PredictionServedEvent
	if err := json.Unmarshal(body, &ev); err != nil {
		return fmt.Errorf("unmarshal: %w", err)
	}
	if ev.TimePeriod == "" {
		return errors.New("event without time_period")
	}
	return fn(ev)
}

func sleep(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
