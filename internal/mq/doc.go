// Package mq предоставляет инфраструктуру для работы с RabbitMQ.
//
// Структура:
//   - connection.go — управление соединением с RabbitMQ (reconnect, graceful shutdown)
//   - topology.go   — объявление exchanges, queues, bindings
//   - publisher.go  — публикация сообщений
//   - consumer.go   — потребление сообщений с ack/nack
//   - sink.go       — публикация значений log-узлов во время выполнения
//
// Типы сообщений:
//   - run.pending    — новый run ожидает выполнения
//   - run.completed  — run завершён (SUCCEEDED или FAILED)
//   - sink.value     — значение, прошедшее через log-узел
//
// Exchanges:
//   - nodeflow.runs  — события runs
//   - nodeflow.sinks — значения log-узлов
//   - nodeflow.dlq   — dead letter queue
package mq
