package mq

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/shaiso/Nodeflow/internal/telemetry"
)

// Handler обрабатывает одно сообщение.
//
// nil — ack. Ошибка, обёрнутая в ErrPermanent, сразу уходит в DLQ.
// Любая другая ошибка возвращает сообщение в очередь один раз;
// если повторная доставка тоже падает, сообщение уходит в DLQ.
type Handler func(ctx context.Context, msg Message) error

// outcome — что consumer сделал с доставкой.
type outcome string

const (
	outcomeAck        outcome = "ack"
	outcomeRequeue    outcome = "requeue"
	outcomeDeadLetter outcome = "dead_letter"
)

// settle выбирает исход по ошибке обработчика и признаку повторной доставки.
func settle(err error, redelivered bool) outcome {
	switch {
	case err == nil:
		return outcomeAck
	case errors.Is(err, ErrPermanent), redelivered:
		return outcomeDeadLetter
	default:
		return outcomeRequeue
	}
}

// ConsumerConfig — конфигурация consumer.
type ConsumerConfig struct {
	Queue   Queue
	Handler Handler

	// Prefetch — сколько неподтверждённых сообщений брокер отдаёт заранее (default: 1).
	Prefetch int

	// Tag — consumer tag; пустой — сгенерирует брокер.
	Tag string
}

// Consumer читает очередь и передаёт сообщения Handler'у по одному.
//
// После разрыва соединения Consumer ждёт ReconnectNotify и подписывается
// заново. Stop прерывает цикл и ждёт его завершения.
type Consumer struct {
	conn   *Connection
	logger *slog.Logger
	cfg    ConsumerConfig

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

// NewConsumer создаёт Consumer.
func NewConsumer(conn *Connection, logger *slog.Logger, cfg ConsumerConfig) *Consumer {
	if cfg.Prefetch <= 0 {
		cfg.Prefetch = 1
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Consumer{
		conn:   conn,
		logger: logger.With("queue", string(cfg.Queue)),
		cfg:    cfg,
	}
}

// Start читает очередь до отмены ctx или Stop. Блокирует.
func (c *Consumer) Start(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})

	c.mu.Lock()
	c.cancel, c.done = cancel, done
	c.mu.Unlock()

	defer close(done)
	return c.run(ctx)
}

// Stop останавливает consumer и ждёт выхода из Start.
func (c *Consumer) Stop() {
	c.mu.Lock()
	cancel, done := c.cancel, c.done
	c.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	<-done
}

func (c *Consumer) run(ctx context.Context) error {
	for {
		deliveries, err := c.subscribe()
		if err != nil {
			c.logger.Error("failed to subscribe", "error", err)
		} else {
			c.logger.Info("consumer started")
			err = c.drain(ctx, deliveries)
			if ctx.Err() != nil {
				return ctx.Err()
			}
			c.logger.Warn("subscription lost, waiting for reconnect", "error", err)
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-c.conn.ReconnectNotify():
		}
	}
}

// subscribe выставляет prefetch и подписывается на очередь.
func (c *Consumer) subscribe() (<-chan amqp.Delivery, error) {
	ch := c.conn.Channel()
	if ch == nil || ch.IsClosed() {
		return nil, ErrNoChannel
	}

	if err := ch.Qos(c.cfg.Prefetch, 0, false); err != nil {
		return nil, fmt.Errorf("set qos: %w", err)
	}

	deliveries, err := ch.Consume(
		string(c.cfg.Queue),
		c.cfg.Tag,
		false, // ack вручную
		false, // exclusive
		false, // no-local
		false, // no-wait
		nil,
	)
	if err != nil {
		return nil, fmt.Errorf("consume: %w", err)
	}
	return deliveries, nil
}

// drain обрабатывает доставки, пока канал не закроется или ctx не отменят.
func (c *Consumer) drain(ctx context.Context, deliveries <-chan amqp.Delivery) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case raw, ok := <-deliveries:
			if !ok {
				return errors.New("deliveries channel closed")
			}
			c.handle(ctx, raw)
		}
	}
}

func (c *Consumer) handle(ctx context.Context, raw amqp.Delivery) {
	msg, err := decodeMessage(raw.Body)
	if err != nil {
		c.logger.Error("failed to decode message", "error", err, "body", string(raw.Body))
		c.finish(raw, outcomeDeadLetter)
		return
	}

	logger := c.logger.With("message_id", msg.ID, "type", string(msg.Type))
	logger.Debug("received message", "redelivered", raw.Redelivered)

	err = c.cfg.Handler(telemetry.WithLogger(ctx, logger), msg)
	out := settle(err, raw.Redelivered)
	if err != nil {
		logger.Error("handler failed", "error", err, "outcome", string(out))
	}
	c.finish(raw, out)
}

// finish подтверждает или отклоняет доставку согласно исходу.
func (c *Consumer) finish(raw amqp.Delivery, out outcome) {
	var err error
	switch out {
	case outcomeAck:
		err = raw.Ack(false)
	case outcomeRequeue:
		err = raw.Nack(false, true)
	default:
		err = raw.Nack(false, false)
	}
	if err != nil {
		c.logger.Warn("failed to settle delivery", "outcome", string(out), "error", err)
	}
	telemetry.MQDeliveries.WithLabelValues(string(c.cfg.Queue), string(out)).Inc()
}

// ParsePayload декодирует payload сообщения в T.
func ParsePayload[T any](msg Message) (T, error) {
	var result T

	raw, ok := msg.Payload.(json.RawMessage)
	if !ok {
		b, err := json.Marshal(msg.Payload)
		if err != nil {
			return result, fmt.Errorf("marshal payload: %w", err)
		}
		raw = b
	}

	if err := json.Unmarshal(raw, &result); err != nil {
		return result, fmt.Errorf("unmarshal payload: %w", err)
	}
	return result, nil
}

// decodeMessage разбирает тело доставки, оставляя payload сырым JSON.
func decodeMessage(body []byte) (Message, error) {
	var env struct {
		Message
		Payload json.RawMessage `json:"payload"`
	}
	if err := json.Unmarshal(body, &env); err != nil {
		return Message{}, err
	}
	msg := env.Message
	msg.Payload = env.Payload
	return msg, nil
}
