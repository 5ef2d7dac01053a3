// Package events publishes submission status updates to RabbitMQ so other
// services can follow a submission through the bot.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/streadway/amqp"
)

type Status string

const (
	StatusReceived   Status = "received"
	StatusRejected   Status = "rejected"
	StatusProcessing Status = "processing"
	StatusCompleted  Status = "completed"
	StatusFailed     Status = "failed"
)

type Update struct {
	SubmissionID uuid.UUID `json:"submission_id"`
	Status       Status    `json:"status"`
	Message      string    `json:"message"`
	UserID       string    `json:"user_id,omitempty"`
	ATSScore     *float64  `json:"ats_score,omitempty"`
	Timestamp    time.Time `json:"timestamp"`
}

type Publisher interface {
	Publish(ctx context.Context, update Update) error
	Close() error
}

// Nop drops every update. It is used when no broker is configured.
type Nop struct{}

func (Nop) Publish(context.Context, Update) error { return nil }
func (Nop) Close() error                          { return nil }

func RoutingKey(id uuid.UUID) string {
	return fmt.Sprintf("submission.%s", id)
}

func encode(update Update) ([]byte, error) {
	if update.Timestamp.IsZero() {
		update.Timestamp = time.Now().UTC()
	}
	return json.Marshal(update)
}

// AMQPPublisher sends updates to a durable topic exchange. A channel is opened
// per publish; amqp channels are not safe for concurrent use.
type AMQPPublisher struct {
	conn     *amqp.Connection
	exchange string
	once     sync.Once
}

func Dial(url, exchange string) (*AMQPPublisher, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("error connecting to RabbitMQ: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("error opening RabbitMQ channel: %w", err)
	}
	defer ch.Close()

	err = ch.ExchangeDeclare(
		exchange, // name
		"topic",  // kind
		true,     // durable
		false,    // auto-delete
		false,    // internal
		false,    // no-wait
		nil,      // arguments
	)
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to declare exchange %s: %w", exchange, err)
	}

	return &AMQPPublisher{conn: conn, exchange: exchange}, nil
}

func (p *AMQPPublisher) Publish(ctx context.Context, update Update) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	body, err := encode(update)
	if err != nil {
		return fmt.Errorf("failed to marshal update: %w", err)
	}

	ch, err := p.conn.Channel()
	if err != nil {
		return err
	}
	defer ch.Close()

	return ch.Publish(
		p.exchange,
		RoutingKey(update.SubmissionID),
		false,
		false,
		amqp.Publishing{
			ContentType: "application/json",
			Timestamp:   time.Now(),
			Body:        body,
		},
	)
}

func (p *AMQPPublisher) Close() error {
	var err error
	p.once.Do(func() {
		err = p.conn.Close()
	})
	return err
}
