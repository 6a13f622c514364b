// Package notifier contains the collaborators that receive the
// booking-created hand-off after a reservation commits.
package notifier

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/bkarakus/cinema-booking-system/internal/domain"
	amqp "github.com/rabbitmq/amqp091-go"
)

const bookingCreatedQueue = "booking.created"

// AMQPNotifier publishes booking-created events to a RabbitMQ queue. The
// consumer on the other side owns delivery of the confirmation email and any
// retries; the publisher only guarantees the message is durable.
type AMQPNotifier struct {
	conn *amqp.Connection
}

func NewAMQPNotifier(conn *amqp.Connection) *AMQPNotifier {
	return &AMQPNotifier{
		conn: conn,
	}
}

func (n *AMQPNotifier) BookingCreated(ctx context.Context, event domain.BookingCreatedEvent) error {
	ch, err := n.conn.Channel()
	if err != nil {
		return err
	}
	defer ch.Close()

	// Idempotent; durable so messages survive broker restarts.
	_, err = ch.QueueDeclare(
		bookingCreatedQueue,
		true,  // durable
		false, // autoDelete
		false, // exclusive
		false, // noWait
		nil,
	)
	if err != nil {
		return err
	}

	body, err := json.Marshal(event)
	if err != nil {
		return err
	}

	return ch.PublishWithContext(ctx,
		"",                  // default exchange
		bookingCreatedQueue, // routing key = queue name
		false,               // mandatory
		false,               // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			MessageId:    event.EventID,
			Timestamp:    time.Now().UTC(),
			Body:         body,
		},
	)
}

// LogNotifier is the fallback when no broker is configured: the hand-off is
// recorded in the log and nothing else happens.
type LogNotifier struct {
	logger *slog.Logger
}

func NewLogNotifier(logger *slog.Logger) *LogNotifier {
	return &LogNotifier{
		logger: logger,
	}
}

func (n *LogNotifier) BookingCreated(ctx context.Context, event domain.BookingCreatedEvent) error {
	n.logger.Info("booking created event",
		"event_id", event.EventID,
		"booking_id", event.BookingID,
		"booking_number", event.BookingNumber,
		"user_id", event.UserID,
	)

	return nil
}

// MultiNotifier fans an event out to several notifiers. The first failure is
// returned but the remaining notifiers still run.
type MultiNotifier struct {
	notifiers []domain.BookingNotifier
}

func NewMultiNotifier(notifiers ...domain.BookingNotifier) *MultiNotifier {
	return &MultiNotifier{
		notifiers: notifiers,
	}
}

func (n *MultiNotifier) BookingCreated(ctx context.Context, event domain.BookingCreatedEvent) error {
	var firstErr error

	for _, notifier := range n.notifiers {
		if err := notifier.BookingCreated(ctx, event); err != nil && firstErr == nil {
			firstErr = err
		}
	}

	return firstErr
}
