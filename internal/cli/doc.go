// Package cli реализует инструмент командной строки Nodeflow.
//
// # Обзор
//
// Команды делятся на две группы:
//   - локальные (exec, validate, order): читают файл графа через graphfile
//     и выполняют его встроенным engine, сервер не нужен;
//   - удалённые (graph, run): работают с Nodeflow API по HTTP.
//
// # Ключевые компоненты
//
// ## Client
//
// HTTP-клиент для Nodeflow API. Разбирает обёртки ответов
// (data, list, error) и превращает ошибки сервера в *APIError.
//
//	client := cli.NewClient("http://localhost:8080")
//	graphs, err := client.ListGraphs(ctx, "")
//
// ## Output
//
// Форматирование вывода: таблицы (text/tabwriter) по умолчанию
// или JSON с флагом --json. Данные идут в stdout, сообщения в stderr,
// поэтому работает pipe: nodeflow graph list --json | jq .
//
// ## Commands
//
//   - exec FILE [--parallel N] [--all]
//   - validate FILE
//   - order FILE
//   - graph: list, create, show, delete
//   - run: list, start, show
//
// Группы создаются фабричными функциями (NewGraphCmd и т.д.),
// принимающими clientFn и outputFn: Client и Output создаются
// после парсинга PersistentFlags.
package cli
