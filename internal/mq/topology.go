package mq

import (
	"context"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"
)

// Exchange — тип для имени обменника.
type Exchange string

// Queue — тип для имени очереди.
type Queue string

// RoutingKey — тип для ключа маршрутизации.
type RoutingKey string

// Exchanges — имена обменников.
const (
	ExchangeRuns  Exchange = "nodeflow.runs"
	ExchangeSinks Exchange = "nodeflow.sinks"
	ExchangeDLQ   Exchange = "nodeflow.dlq"
)

// Queues — имена очередей.
const (
	QueueRunsPending   Queue = "runs.pending"
	QueueRunsCompleted Queue = "runs.completed"
	QueueSinkValues    Queue = "sinks.values"
	QueueDLQRuns       Queue = "dlq.runs"
)

// Routing keys.
const (
	RoutingKeyPending   RoutingKey = "pending"
	RoutingKeyCompleted RoutingKey = "completed"
	RoutingKeySinkValue RoutingKey = "value"
	RoutingKeyDLQRuns   RoutingKey = "runs"
)

// exchangeDecl — объявление обменника.
type exchangeDecl struct {
	name Exchange
	kind string
}

// queueDecl — объявление очереди.
type queueDecl struct {
	name Queue
	args amqp.Table
}

// bindingDecl — привязка очереди к обменнику.
type bindingDecl struct {
	queue      Queue
	routingKey RoutingKey
	exchange   Exchange
}

// Topology — полный набор объявлений RabbitMQ для Nodeflow.
type Topology struct {
	exchanges []exchangeDecl
	queues    []queueDecl
	bindings  []bindingDecl
}

// DefaultTopology возвращает топологию Nodeflow.
//
//	nodeflow.runs (direct)
//	├── runs.pending   [pending]   → worker, DLQ: dlq.runs
//	└── runs.completed [completed] → внешние подписчики
//	nodeflow.sinks (direct)
//	└── sinks.values   [value]     → значения log-узлов
//	nodeflow.dlq (direct)
//	└── dlq.runs       [runs]      → ручной разбор
func DefaultTopology() Topology {
	dlqArgs := amqp.Table{
		"x-dead-letter-exchange":    string(ExchangeDLQ),
		"x-dead-letter-routing-key": string(RoutingKeyDLQRuns),
	}

	return Topology{
		exchanges: []exchangeDecl{
			{ExchangeRuns, amqp.ExchangeDirect},
			{ExchangeSinks, amqp.ExchangeDirect},
			{ExchangeDLQ, amqp.ExchangeDirect},
		},
		queues: []queueDecl{
			{QueueRunsPending, dlqArgs},
			{QueueRunsCompleted, nil},
			{QueueSinkValues, nil},
			{QueueDLQRuns, nil},
		},
		bindings: []bindingDecl{
			{QueueRunsPending, RoutingKeyPending, ExchangeRuns},
			{QueueRunsCompleted, RoutingKeyCompleted, ExchangeRuns},
			{QueueSinkValues, RoutingKeySinkValue, ExchangeSinks},
			{QueueDLQRuns, RoutingKeyDLQRuns, ExchangeDLQ},
		},
	}
}

// Queues возвращает имена объявляемых очередей.
func (t Topology) Queues() []Queue {
	names := make([]Queue, len(t.queues))
	for i, q := range t.queues {
		names[i] = q.name
	}
	return names
}

// Route возвращает exchange, в который публикуется routing key,
// и очередь, куда он попадает.
func (t Topology) Route(key RoutingKey) (Exchange, Queue, bool) {
	for _, b := range t.bindings {
		if b.routingKey == key {
			return b.exchange, b.queue, true
		}
	}
	return "", "", false
}

// SetupTopology объявляет exchanges, очереди и привязки DefaultTopology.
func SetupTopology(ctx context.Context, conn *Connection) error {
	topo := DefaultTopology()
	return conn.WithChannel(ctx, topo.declare)
}

func (t Topology) declare(ch *amqp.Channel) error {
	for _, ex := range t.exchanges {
		err := ch.ExchangeDeclare(
			string(ex.name), // name
			ex.kind,         // type
			true,            // durable
			false,           // auto-deleted
			false,           // internal
			false,           // no-wait
			nil,             // arguments
		)
		if err != nil {
			return fmt.Errorf("declare exchange %s: %w", ex.name, err)
		}
	}

	for _, q := range t.queues {
		_, err := ch.QueueDeclare(
			string(q.name), // name
			true,           // durable
			false,          // delete when unused
			false,          // exclusive
			false,          // no-wait
			q.args,         // arguments
		)
		if err != nil {
			return fmt.Errorf("declare queue %s: %w", q.name, err)
		}
	}

	for _, b := range t.bindings {
		err := ch.QueueBind(
			string(b.queue),      // queue name
			string(b.routingKey), // routing key
			string(b.exchange),   // exchange
			false,                // no-wait
			nil,                  // arguments
		)
		if err != nil {
			return fmt.Errorf("bind queue %s to %s: %w", b.queue, b.exchange, err)
		}
	}

	return nil
}
