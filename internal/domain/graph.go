package domain

import (
	"time"

	"github.com/google/uuid"
)

// Edge — направленная связь от выходного порта одного узла к входному порту другого.
type Edge struct {
	// ID — необязательный идентификатор ребра (используется в сообщениях об ошибках).
	ID string `json:"id,omitempty"`

	// Source — id узла-источника.
	Source string `json:"source"`

	// SourceHandle — выходной порт узла-источника.
	SourceHandle string `json:"sourceHandle"`

	// Target — id узла-приёмника.
	Target string `json:"target"`

	// TargetHandle — входной порт узла-приёмника.
	TargetHandle string `json:"targetHandle"`
}

// Graph — граф вычислений: узлы и рёбра в том виде, в котором их передали.
//
// Движок никогда не изменяет Graph. Граф обязан быть ациклическим,
// это проверяется перед выполнением.
type Graph struct {
	Nodes []Node `json:"nodes"`
	Edges []Edge `json:"edges"`
}

// StoredGraph — граф, сохранённый в базе под именем.
type StoredGraph struct {
	// ID — уникальный идентификатор сохранённого графа.
	ID uuid.UUID `json:"id"`

	// Name — имя графа, уникальное в пределах инсталляции.
	Name string `json:"name"`

	// Graph — сам граф (JSONB поле spec).
	Graph Graph `json:"graph"`

	// CreatedAt — время создания.
	CreatedAt time.Time `json:"created_at"`

	// UpdatedAt — время последнего изменения графа.
	UpdatedAt time.Time `json:"updated_at"`
}
