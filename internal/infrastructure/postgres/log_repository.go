package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/yarn-inventory/internal/domain/entity"
	"github.com/jhoicas/yarn-inventory/internal/domain/repository"
	"github.com/jhoicas/yarn-inventory/pkg/pagination"
)

var _ repository.LogRepository = (*LogRepo)(nil)

// LogRepo append-only LogRepository over PostgreSQL (pool or tx).
type LogRepo struct {
	q Querier
}

// NewLogRepository builds the adapter.
func NewLogRepository(q Querier) *LogRepo {
	return &LogRepo{q: q}
}

// Append inserts an entry. A zero UserID is stored as NULL.
func (r *LogRepo) Append(ctx context.Context, e *entity.LogEntry) error {
	var userID *int64
	if e.UserID != 0 {
		userID = &e.UserID
	}
	query := `
		INSERT INTO logs (user_id, user_name, action_type, table_name, description, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id`
	err := r.q.QueryRow(ctx, query, userID, e.UserName, e.ActionType, e.TableName, e.Description, e.CreatedAt).Scan(&e.ID)
	if err != nil {
		return fmt.Errorf("insert log: %w", err)
	}
	return nil
}

// Search one page of matching entries plus the total match count.
func (r *LogRepo) Search(ctx context.Context, f repository.LogFilter, p pagination.Params) ([]*entity.LogEntry, int, error) {
	w := logWhere(f)

	var total int
	if err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM logs l`+w.sql(), w.args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count logs: %w", err)
	}

	limit, args := w.page(p)
	rows, err := r.q.Query(ctx, `SELECT `+logColumns+` FROM logs l`+w.sql()+logOrderBy+limit, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list logs: %w", err)
	}
	defer rows.Close()

	entries := make([]*entity.LogEntry, 0)
	for rows.Next() {
		var e entity.LogEntry
		if err := rows.Scan(&e.ID, &e.UserID, &e.UserName, &e.ActionType, &e.TableName, &e.Description, &e.CreatedAt); err != nil {
			return nil, 0, fmt.Errorf("scan log: %w", err)
		}
		entries = append(entries, &e)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return entries, total, nil
}
