package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"soundstage/pkg/config"
	"soundstage/pkg/logger"

	amqp "github.com/rabbitmq/amqp091-go"
)

const (
	LedgerQueueName = "ledger_events"
	LedgerExchange  = "ledger"
)

type Client struct {
	conn    *amqp.Connection
	channel *amqp.Channel
	logger  *logger.Logger
}

func NewRabbitMQClient(cfg *config.Config, log *logger.Logger) (*Client, error) {
	url := fmt.Sprintf("amqp://%s:%s@%s:%s/",
		cfg.RabbitMQUser,
		cfg.RabbitMQPassword,
		cfg.RabbitMQHost,
		cfg.RabbitMQPort,
	)

	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	err = channel.ExchangeDeclare(
		LedgerExchange, // name
		"topic",        // type
		true,           // durable
		false,          // auto-deleted
		false,          // internal
		false,          // no-wait
		nil,            // arguments
	)
	if err != nil {
		channel.Close()
		conn.Close()
		return nil, fmt.Errorf("failed to declare exchange: %w", err)
	}

	_, err = channel.QueueDeclare(
		LedgerQueueName, // name
		true,            // durable
		false,           // delete when unused
		false,           // exclusive
		false,           // no-wait
		nil,             // arguments
	)
	if err != nil {
		channel.Close()
		conn.Close()
		return nil, fmt.Errorf("failed to declare queue: %w", err)
	}

	// Every ledger event type lands on the same queue
	err = channel.QueueBind(LedgerQueueName, "#", LedgerExchange, false, nil)
	if err != nil {
		channel.Close()
		conn.Close()
		return nil, fmt.Errorf("failed to bind queue: %w", err)
	}

	log.Info("Connected to RabbitMQ at %s:%s", cfg.RabbitMQHost, cfg.RabbitMQPort)

	return &Client{
		conn:    conn,
		channel: channel,
		logger:  log,
	}, nil
}

func (c *Client) Close() error {
	if c.channel != nil {
		c.channel.Close()
	}
	if c.conn != nil {
		return c.conn.Close()
	}
	return nil
}

// PublishLedgerEvent publishes event with its type as the routing key.
func (c *Client) PublishLedgerEvent(ctx context.Context, event LedgerEvent) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	err = c.channel.PublishWithContext(ctx,
		LedgerExchange, // exchange
		event.Type,     // routing key
		false,          // mandatory
		false,          // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			MessageId:    event.ID,
			Body:         body,
			DeliveryMode: amqp.Persistent,
			Timestamp:    time.Now(),
		},
	)
	if err != nil {
		c.logger.Error("[RABBITMQ] Failed to publish %s event %s: %v", event.Type, event.ID, err)
		return fmt.Errorf("failed to publish message: %w", err)
	}

	c.logger.Info("[RABBITMQ] Published %s event %s", event.Type, event.ID)
	return nil
}

// ConsumeLedgerEvents starts a consumer goroutine that hands every event to handler.
func (c *Client) ConsumeLedgerEvents(handler func(event LedgerEvent) error) error {
	msgs, err := c.channel.Consume(
		LedgerQueueName, // queue
		"",              // consumer
		false,           // auto-ack (we'll manually ack after processing)
		false,           // exclusive
		false,           // no-local
		false,           // no-wait
		nil,             // args
	)
	if err != nil {
		return fmt.Errorf("failed to register consumer: %w", err)
	}

	c.logger.Info("[RABBITMQ] Started consuming from queue: %s", LedgerQueueName)

	go func() {
		for msg := range msgs {
			handleDelivery(msg, handler, c.logger)
		}
	}()

	return nil
}

// handleDelivery acks processed messages, drops undecodable ones and
// requeues the ones the handler failed on.
func handleDelivery(msg amqp.Delivery, handler func(event LedgerEvent) error, log *logger.Logger) {
	var event LedgerEvent
	if err := json.Unmarshal(msg.Body, &event); err != nil || event.Type == "" {
		log.Error("[RABBITMQ] Dropping malformed ledger event: %v, body=%s", err, string(msg.Body))
		msg.Nack(false, false)
		return
	}

	if err := handler(event); err != nil {
		log.Error("[RABBITMQ] Handler failed for %s event %s: %v", event.Type, event.ID, err)
		msg.Nack(false, true)
		return
	}

	msg.Ack(false)
}

func (c *Client) GetQueueLength() (int, error) {
	queue, err := c.channel.QueueInspect(LedgerQueueName)
	if err != nil {
		return 0, err
	}
	return queue.Messages, nil
}
