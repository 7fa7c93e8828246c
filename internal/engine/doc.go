// Package engine содержит движок выполнения графа.
//
// Включает:
//   - validate.go — структурная валидация (ссылки, порты, циклы)
//   - dag.go      — индексный DAG и порядок выполнения (Кан, FIFO-очередь)
//   - executor.go — выполнение: валидация → порядок → вычисление узлов
//   - errors.go   — sentinel ошибки, ValidationError, NodeError, ErrorKind
//
// Порядок выполнения детерминирован: сначала все корни в порядке ID,
// затем узлы в порядке готовности; одновременно готовые узлы идут по ID. Входы узла собираются из выходов источников
// по рёбрам; если в один порт ведут несколько рёбер, побеждает
// последнее в порядке выполнения источников. Незаполненный вход
// получает нулевое значение своего типа.
//
// Executor не изменяет переданный граф и каждый раз возвращает
// новый domain.Result.
package engine
