// Package notify announces finished exercises to other services.
package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/hperssn/unibalance/internal/config"
	"github.com/hperssn/unibalance/internal/domain"
)

type ExerciseCompleted struct {
	SessionID   string              `json:"sessionId"`
	UserID      string              `json:"userId"`
	Kind        domain.ExerciseKind `json:"kind"`
	Seconds     int                 `json:"seconds"`
	CompletedAt time.Time           `json:"completedAt"`
}

func NewExerciseCompleted(s domain.Session, seconds int) ExerciseCompleted {
	return ExerciseCompleted{
		SessionID:   s.ID,
		UserID:      s.UserID,
		Kind:        s.Kind,
		Seconds:     seconds,
		CompletedAt: s.CompletedAt,
	}
}

type Publisher interface {
	PublishCompleted(ctx context.Context, e ExerciseCompleted) error
	Close() error
}

// Nop drops every event.
type Nop struct{}

func (Nop) PublishCompleted(context.Context, ExerciseCompleted) error { return nil }
func (Nop) Close() error                                              { return nil }

type RabbitMQPublisher struct {
	conn    *amqp.Connection
	channel *amqp.Channel
	queue   string
}

func NewRabbitMQPublisher(cfg config.RabbitMQConfig) (*RabbitMQPublisher, error) {
	url := fmt.Sprintf("amqp://%s:%s@%s:%s/",
		cfg.User, cfg.Password, cfg.Host, cfg.Port)

	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	p := &RabbitMQPublisher{
		conn:    conn,
		channel: channel,
		queue:   cfg.Queue,
	}
	if _, err := p.declareQueue(); err != nil {
		p.Close()
		return nil, fmt.Errorf("failed to declare queue: %w", err)
	}
	return p, nil
}

func (p *RabbitMQPublisher) Close() error {
	if p.channel != nil {
		p.channel.Close()
	}
	if p.conn != nil {
		return p.conn.Close()
	}
	return nil
}

func (p *RabbitMQPublisher) declareQueue() (amqp.Queue, error) {
	return p.channel.QueueDeclare(
		p.queue,
		true,  // durable
		false, // delete when unused
		false, // exclusive
		false, // no-wait
		nil,   // arguments
	)
}

func (p *RabbitMQPublisher) PublishCompleted(ctx context.Context, e ExerciseCompleted) error {
	body, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("encode event: %w", err)
	}

	return p.channel.PublishWithContext(
		ctx,
		"",      // exchange
		p.queue, // routing key
		false,   // mandatory
		false,   // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Body:         body,
			Timestamp:    time.Now(),
		},
	)
}
