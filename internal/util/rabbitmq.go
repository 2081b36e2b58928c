package util

import (
	"fmt"

	"github.com/argeoalecha/hayahai-web-sub001/internal/config"

	amqp "github.com/rabbitmq/amqp091-go"
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
		return nil, fmt.Errorf("failed to open RabbitMQ channel: %w", err)
	}

	return &RabbitMQClient{
		conn:    conn,
		channel: channel,
	}, nil
}

// DeclareExchangeAndQueue declares a durable direct exchange with a bound queue
func (r *RabbitMQClient) DeclareExchangeAndQueue(exchange, queue, routingKey string) error {
	if err := r.channel.ExchangeDeclare(
		exchange,
		"direct",
		true,  // durable
		false, // auto-deleted
		false, // internal
		false, // no-wait
		nil,
	); err != nil {
		return err
	}

	if _, err := r.channel.QueueDeclare(
		queue,
		true,  // durable
		false, // delete when unused
		false, // exclusive
		false, // no-wait
		nil,
	); err != nil {
		return err
	}

	return r.channel.QueueBind(queue, routingKey, exchange, false, nil)
}

// Publish sends a persistent JSON message to an exchange
func (r *RabbitMQClient) Publish(exchange, routingKey string, body []byte) error {
	return r.channel.Publish(
		exchange,
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

// Consume starts consuming messages from a queue
func (r *RabbitMQClient) Consume(queue string) (<-chan amqp.Delivery, error) {
	return r.channel.Consume(
		queue,
		"",    // consumer
		false, // auto-ack
		false, // exclusive
		false, // no-local
		false, // no-wait
		nil,
	)
}

// GetChannel returns the underlying channel (for advanced usage)
func (r *RabbitMQClient) GetChannel() *amqp.Channel {
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
