package rabbitmq

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/GoArmGo/PasteApp/internal/config"
	"github.com/GoArmGo/PasteApp/internal/messaging/payloads"

	amqp "github.com/rabbitmq/amqp091-go"
)

const publishTimeout = 5 * time.Second

// Client представляет собой клиент RabbitMQ с двумя очередями:
// счетчик просмотров паст и события аутентификации
type Client struct {
	conn            *amqp.Connection
	channel         *amqp.Channel
	pasteViewsQueue string
	authEventsQueue string
	logger          *slog.Logger
}

// NewClient подключается к RabbitMQ и объявляет обе очереди
func NewClient(cfg *config.Config, logger *slog.Logger) (*Client, error) {
	conn, err := amqp.Dial(cfg.RabbitMQ.RabbitMQURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}
	logger.Info("connected to RabbitMQ")

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to open a channel: %w", err)
	}

	client := &Client{
		conn:            conn,
		channel:         ch,
		pasteViewsQueue: cfg.RabbitMQ.PasteViewsQueue,
		authEventsQueue: cfg.RabbitMQ.AuthEventsQueue,
		logger:          logger,
	}

	for _, name := range []string{client.pasteViewsQueue, client.authEventsQueue} {
		// Объявление идемпотентно: очередь создается, только если ее нет.
		q, err := ch.QueueDeclare(
			name,
			true,  // durable
			false, // delete when unused
			false, // exclusive
			false, // no-wait
			nil,
		)
		if err != nil {
			client.Close()
			return nil, fmt.Errorf("failed to declare queue %s: %w", name, err)
		}
		logger.Info("queue declared", "queue", q.Name, "messages", q.Messages)
	}

	return client, nil
}

// Close закрывает канал и соединение RabbitMQ
func (c *Client) Close() {
	if c.channel != nil {
		if err := c.channel.Close(); err != nil {
			c.logger.Error("error closing RabbitMQ channel", "error", err)
		}
	}
	if c.conn != nil {
		if err := c.conn.Close(); err != nil {
			c.logger.Error("error closing RabbitMQ connection", "error", err)
		}
	}
	c.logger.Info("RabbitMQ connection closed")
}

// PublishPasteView реализует ports.PasteViewPublisher
func (c *Client) PublishPasteView(ctx context.Context, payload payloads.PasteViewPayload) error {
	return c.publishJSON(ctx, c.pasteViewsQueue, payload)
}

// PublishAuthEvent реализует ports.AuthEventPublisher
func (c *Client) PublishAuthEvent(ctx context.Context, payload payloads.AuthEventPayload) error {
	return c.publishJSON(ctx, c.authEventsQueue, payload)
}

// StartConsumingPasteViews реализует ports.PasteViewConsumer
func (c *Client) StartConsumingPasteViews(ctx context.Context, handler func(context.Context, payloads.PasteViewPayload) error) error {
	return consume(ctx, c, c.pasteViewsQueue, handler)
}

// StartConsumingAuthEvents реализует ports.AuthEventConsumer
func (c *Client) StartConsumingAuthEvents(ctx context.Context, handler func(context.Context, payloads.AuthEventPayload) error) error {
	return consume(ctx, c, c.authEventsQueue, handler)
}

func (c *Client) publishJSON(ctx context.Context, queue string, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal payload to JSON: %w", err)
	}

	publishCtx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	err = c.channel.PublishWithContext(
		publishCtx,
		"",    // exchange
		queue, // routing key
		false, // mandatory
		false, // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Body:         body,
		},
	)
	if err != nil {
		return fmt.Errorf("failed to publish a message to %s: %w", queue, err)
	}
	c.logger.Debug("message published", "queue", queue, "body", string(body))
	return nil
}

// consume регистрирует потребителя и обрабатывает сообщения в отдельной горутине.
// Повторов нет: и битое сообщение, и ошибка обработчика отбрасываются.
func consume[T any](ctx context.Context, c *Client, queue string, handler func(context.Context, T) error) error {
	msgs, err := c.channel.Consume(
		queue,
		"",    // consumer
		false, // auto-ack
		false, // exclusive
		false, // no-local
		false, // no-wait
		nil,
	)
	if err != nil {
		return fmt.Errorf("failed to register a consumer for %s: %w", queue, err)
	}

	c.logger.Info("consumer registered, waiting for messages", "queue", queue)

	go func() {
		for {
			select {
			case msg, ok := <-msgs:
				if !ok {
					c.logger.Warn("RabbitMQ delivery channel closed, stopping consumer", "queue", queue)
					return
				}
				handleDelivery(ctx, c.logger, queue, msg, handler)
			case <-ctx.Done():
				c.logger.Info("context cancelled, stopping consumer", "queue", queue)
				return
			}
		}
	}()

	return nil
}

// handleDelivery декодирует сообщение и вызывает обработчик; успех подтверждается Ack,
// любая ошибка ведет к Nack без возврата в очередь.
func handleDelivery[T any](ctx context.Context, logger *slog.Logger, queue string, msg amqp.Delivery, handler func(context.Context, T) error) {
	var payload T
	err := json.Unmarshal(msg.Body, &payload)
	if err != nil {
		err = fmt.Errorf("decode payload: %w", err)
	} else {
		err = handler(ctx, payload)
	}

	if err != nil {
		logger.Error("message dropped",
			"queue", queue,
			"body", string(msg.Body),
			"error", err,
		)
		if err := msg.Nack(false, false); err != nil {
			logger.Error("error NACKing message", "queue", queue, "error", err)
		}
		return
	}

	if err := msg.Ack(false); err != nil {
		logger.Error("error ACKing message", "queue", queue, "error", err)
	}
}
