// Package repo содержит репозитории PostgreSQL (pgx/v5).
//
// Таблицы:
//   - graphs — сохранённые графы (spec в JSONB)
//   - runs   — запуски графов со статусом, результатом (JSONB) и ошибкой
//
// Схема лежит в migrations/ и встроена в бинарник; Migrate применяет
// новые файлы и отмечает их в schema_migrations.
//
// Отсутствие записи возвращается как ErrNotFound, нарушение уникальности
// имени графа как ErrAlreadyExists. RunRepo.Claim переводит run в RUNNING
// только из PENDING, иначе ErrInvalidState: так один run не выполнят
// два worker'а.
package repo
