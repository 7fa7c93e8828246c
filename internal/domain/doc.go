// Package domain содержит модель данных Nodeflow.
//
// # Значения
//
// Value — неизменяемое значение, передаваемое между портами:
// число, строка, bool, последовательность строк или чисел.
// Нулевое Value{} означает "значения нет".
//
// # Граф
//
// Graph состоит из узлов (Node) и рёбер (Edge). Конфигурация узла —
// закрытый набор типов NodeConfig (ValueConfig, MathsConfig, DoubleConfig,
// ConcatenateConfig, LogConfig, UnknownConfig). JSON-формат узла совпадает
// с тем, что экспортирует редактор графов:
//
//	{"id": "1", "type": "maths", "data": {"operation": "add"}}
//
// # Запуски
//
// StoredGraph — граф, сохранённый в базе. Run — один его запуск
// со статусом (RunStatus) и результатом (Result).
package domain
