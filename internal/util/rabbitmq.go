package util

import (
	"encoding/json"
	"fmt"

	"cineconnect/internal/config"

	amqp "github.com/rabbitmq/amqp091-go"
)

const (
	ActivityExchange   = "activity_exchange"
	ActivityQueue      = "activity_queue"
	ActivityRoutingKey = "activity"
)

type RabbitMQClient struct {
	conn    *amqp.Connection
	channel *amqp.Channel
}

func NewRabbitMQClient(cfg *config.Config) (*RabbitMQClient, error) {
	conn, err := amqp.Dial(cfg.RabbitMQURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	if err := channel.ExchangeDeclare(
		ActivityExchange,
		"direct",
		true,  // durable
		false, // auto-delete
		false, // internal
		false, // no-wait
		nil,
	); err != nil {
		channel.Close()
		conn.Close()
		return nil, fmt.Errorf("failed to declare exchange: %w", err)
	}

	return &RabbitMQClient{conn: conn, channel: channel}, nil
}

// PublishJSON publishes a JSON-encoded message to the activity exchange.
func (r *RabbitMQClient) PublishJSON(routingKey string, payload interface{}) error {
	if r == nil || r.channel == nil {
		return fmt.Errorf("rabbitmq not connected")
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}

	return r.channel.Publish(
		ActivityExchange,
		routingKey,
		false, // mandatory
		false, // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Body:         body,
		},
	)
}

// GetChannel returns the underlying channel (used by consumers)
func (r *RabbitMQClient) GetChannel() *amqp.Channel {
	if r == nil {
		return nil
	}
	return r.channel
}

// Close closes the channel and connection
func (r *RabbitMQClient) Close() error {
	if r.channel != nil {
		r.channel.Close()
	}
	if r.conn != nil {
		return r.conn.Close()
	}
	return nil
}
