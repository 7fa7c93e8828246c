package repo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/shaiso/Nodeflow/internal/domain"
)

// uniqueViolation — код ошибки PostgreSQL для нарушения уникальности.
const uniqueViolation = "23505"

// GraphRepo — репозиторий для работы с сохранёнными графами.
type GraphRepo struct {
	pool *pgxpool.Pool
}

// NewGraphRepo создаёт новый GraphRepo.
func NewGraphRepo(pool *pgxpool.Pool) *GraphRepo {
	return &GraphRepo{pool: pool}
}

// Create сохраняет новый граф.
// Возвращает ErrAlreadyExists, если граф с таким именем уже есть.
func (r *GraphRepo) Create(ctx context.Context, g *domain.StoredGraph) error {
	spec, err := json.Marshal(g.Graph)
	if err != nil {
		return fmt.Errorf("marshal graph: %w", err)
	}

	query := `
		INSERT INTO graphs (id, name, spec, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	_, err = r.pool.Exec(ctx, query,
		g.ID,
		g.Name,
		spec,
		g.CreatedAt,
		g.UpdatedAt,
	)
	if isUniqueViolation(err) {
		return ErrAlreadyExists
	}
	if err != nil {
		return fmt.Errorf("insert graph: %w", err)
	}
	return nil
}

// GetByID возвращает граф по ID.
func (r *GraphRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.StoredGraph, error) {
	query := `
		SELECT id, name, spec, created_at, updated_at
		FROM graphs
		WHERE id = $1
	`
	return scanGraph(r.pool.QueryRow(ctx, query, id))
}

// GetByName возвращает граф по имени.
func (r *GraphRepo) GetByName(ctx context.Context, name string) (*domain.StoredGraph, error) {
	query := `
		SELECT id, name, spec, created_at, updated_at
		FROM graphs
		WHERE name = $1
	`
	return scanGraph(r.pool.QueryRow(ctx, query, name))
}

// List возвращает все графы, новые первыми.
func (r *GraphRepo) List(ctx context.Context) ([]domain.StoredGraph, error) {
	query := `
		SELECT id, name, spec, created_at, updated_at
		FROM graphs
		ORDER BY created_at DESC
	`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list graphs: %w", err)
	}
	defer rows.Close()

	var graphs []domain.StoredGraph
	for rows.Next() {
		g, err := scanGraph(rows)
		if err != nil {
			return nil, err
		}
		graphs = append(graphs, *g)
	}
	return graphs, rows.Err()
}

// Update заменяет имя и содержимое графа.
func (r *GraphRepo) Update(ctx context.Context, g *domain.StoredGraph) error {
	spec, err := json.Marshal(g.Graph)
	if err != nil {
		return fmt.Errorf("marshal graph: %w", err)
	}

	query := `
		UPDATE graphs
		SET name = $2, spec = $3, updated_at = $4
		WHERE id = $1
	`
	result, err := r.pool.Exec(ctx, query, g.ID, g.Name, spec, g.UpdatedAt)
	if isUniqueViolation(err) {
		return ErrAlreadyExists
	}
	if err != nil {
		return fmt.Errorf("update graph: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete удаляет граф (каскадно удалит его runs).
func (r *GraphRepo) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM graphs WHERE id = $1`
	result, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete graph: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// scanGraph сканирует одну строку в StoredGraph.
// Подходит и для pgx.Row, и для pgx.Rows.
func scanGraph(row pgx.Row) (*domain.StoredGraph, error) {
	var g domain.StoredGraph
	var spec []byte

	err := row.Scan(
		&g.ID,
		&g.Name,
		&spec,
		&g.CreatedAt,
		&g.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan graph: %w", err)
	}

	if err := json.Unmarshal(spec, &g.Graph); err != nil {
		return nil, fmt.Errorf("%w: graph %s: %v", ErrCorruptSpec, g.ID, err)
	}
	return &g, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}
