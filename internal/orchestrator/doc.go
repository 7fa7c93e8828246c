// Package orchestrator ведёт runs сохранённых графов.
//
// Orchestrator отвечает за:
//   - Перевод run из PENDING в RUNNING
//   - Загрузку графа и его выполнение engine'ом
//   - Сохранение результата или класса ошибки (SUCCEEDED/FAILED)
//   - Публикацию run.completed и значений log-узлов
//
// Откуда приходят runs (очередь, polling, API), решает вызывающая
// сторона: worker или api вызывают ProcessRun.
package orchestrator
