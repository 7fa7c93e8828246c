package mq

import "errors"

var (
	// ErrNoChannel — соединение с RabbitMQ ещё не установлено или потеряно.
	ErrNoChannel = errors.New("no channel available")

	// ErrPermanent — ошибка обработки, которую бессмысленно повторять.
	// Сообщение с такой ошибкой уходит в DLQ.
	ErrPermanent = errors.New("permanent failure")
)
