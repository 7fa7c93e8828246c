package nodes

import (
	"context"

	"github.com/shaiso/Nodeflow/internal/domain"
)

// SinkRecord — одно значение, прошедшее через log-узел.
type SinkRecord struct {
	// NodeID — id log-узла.
	NodeID string `json:"node_id"`

	// Port — порт, через который прошло значение.
	Port string `json:"port"`

	// Label — подпись узла.
	Label string `json:"label,omitempty"`

	// Value — само значение.
	Value domain.Value `json:"value"`

	// Message — текстовое сообщение (Format узла или текст значения).
	Message string `json:"message"`
}

// Observer получает значения, прошедшие через log-узлы.
//
// Executor вызывает Observe из одной горутины и в порядке выполнения
// даже в параллельном режиме. Наблюдатель, общий для нескольких
// одновременных выполнений, должен быть потокобезопасным.
type Observer interface {
	Observe(ctx context.Context, rec SinkRecord)
}

// ObserverFunc — адаптер функции к Observer.
type ObserverFunc func(ctx context.Context, rec SinkRecord)

// Observe вызывает f(ctx, rec).
func (f ObserverFunc) Observe(ctx context.Context, rec SinkRecord) {
	f(ctx, rec)
}

// Discard — Observer, который ничего не делает.
var Discard Observer = ObserverFunc(func(context.Context, SinkRecord) {})

// MultiObserver раздаёт запись всем наблюдателям по очереди.
// nil-наблюдатели пропускаются.
func MultiObserver(observers ...Observer) Observer {
	list := make([]Observer, 0, len(observers))
	for _, o := range observers {
		if o != nil {
			list = append(list, o)
		}
	}
	return ObserverFunc(func(ctx context.Context, rec SinkRecord) {
		for _, o := range list {
			o.Observe(ctx, rec)
		}
	})
}
