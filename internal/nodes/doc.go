// Package nodes содержит вычислители узлов графа.
//
// # Вычисление
//
// Evaluate — чистая функция (узел, входы) → выходы. Тип узла выбирается
// type switch'ем по domain.NodeConfig:
//
//	value        → {id}                   литерал без изменений
//	maths        a, b → o                 add / subtract / multiply / divide
//	timesTwo     in → original, timesTwo  вход и вход×2
//	concatenate  input-a, link, input-b → out
//	log          любые порты → те же порты, каждое значение уходит в Observer
//
// # Приведение типов
//
// Числовые порты принимают числа, числовой текст и bool (1/0).
// Текстовые порты принимают любой скаляр в его каноническом тексте.
// Отсутствующий вход равен нулю своего типа (0 или "").
//
// # Наблюдатели
//
// Observer получает SinkRecord для каждого значения, прошедшего через
// log-узел. Сообщение строится по Format узла (text/template с полями
// .Node, .Port, .Label, .Value) или равно тексту значения.
package nodes
