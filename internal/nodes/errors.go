package nodes

import "errors"

// Ошибки вычисления узлов.
var (
	// ErrUnknownNodeKind — у узла тип, для которого нет вычислителя.
	ErrUnknownNodeKind = errors.New("unknown node kind")

	// ErrDivisionByZero — maths-узел делит на ноль.
	ErrDivisionByZero = errors.New("division by zero")

	// ErrEvaluationFailure — вычислитель не смог посчитать выход.
	ErrEvaluationFailure = errors.New("evaluation failure")

	// ErrTypeMismatch — значение на входе нельзя привести к типу порта.
	ErrTypeMismatch = errors.New("type mismatch")

	// ErrUnknownOperation — неизвестная операция maths-узла.
	ErrUnknownOperation = errors.New("unknown operation")

	// ErrNotFinite — на входе или выходе получилось NaN или ±Inf.
	ErrNotFinite = errors.New("number is not finite")
)

// Ошибки шаблонов сообщений log-узла.
var (
	// ErrTemplateParse — ошибка парсинга шаблона.
	ErrTemplateParse = errors.New("template parse failed")

	// ErrTemplateRender — ошибка рендеринга шаблона.
	ErrTemplateRender = errors.New("template render failed")
)
