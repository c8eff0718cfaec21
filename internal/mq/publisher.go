package mq

import (
	"context"
	"encoding/json"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"

	"watertax-svc/pkg/logger"
)

// ReadingSubmittedEvent is published after a meter reading is accepted, for
// downstream consumers (billing recalculation, review queues).
type ReadingSubmittedEvent struct {
	ReadingID     string  `json:"reading_id"`
	ConsumerNo    string  `json:"consumer_no"`
	CurrentValue  float64 `json:"current_value"`
	ConsumptionKL float64 `json:"consumption_kl"`
	Source        string  `json:"source"`
	Status        string  `json:"status"`
	ReadAt        string  `json:"read_at"`
}

// Publisher handles event publishing to RabbitMQ
type Publisher struct {
	conn     *amqp.Connection
	channel  *amqp.Channel
	exchange string
	logger   *logger.Logger
}

// NewPublisher dials the broker and declares the topic exchange
func NewPublisher(url, exchange string, log *logger.Logger) (*Publisher, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to broker: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to create channel: %w", err)
	}

	err = ch.ExchangeDeclare(
		exchange,
		"topic",
		true,  // durable
		false, // auto-deleted
		false, // internal
		false, // no-wait
		nil,   // arguments
	)
	if err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("failed to declare exchange: %w", err)
	}

	return &Publisher{
		conn:     conn,
		channel:  ch,
		exchange: exchange,
		logger:   log,
	}, nil
}

// PublishReadingSubmitted publishes a reading.submitted event
func (p *Publisher) PublishReadingSubmitted(ctx context.Context, event ReadingSubmittedEvent) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	err = p.channel.PublishWithContext(
		ctx,
		p.exchange,
		"reading.submitted",
		false, // mandatory
		false, // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			Body:         body,
			DeliveryMode: amqp.Persistent,
		},
	)
	if err != nil {
		return fmt.Errorf("failed to publish event: %w", err)
	}

	p.logger.WithFields(map[string]interface{}{
		"reading_id":  event.ReadingID,
		"consumer_no": event.ConsumerNo,
	}).Debug("Published reading.submitted event")

	return nil
}

// Close closes the channel and connection
func (p *Publisher) Close() error {
	if p.channel != nil {
		if err := p.channel.Close(); err != nil {
			return err
		}
	}
	if p.conn != nil {
		return p.conn.Close()
	}
	return nil
}
