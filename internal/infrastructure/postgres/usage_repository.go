package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/yarn-inventory/internal/domain"
	"github.com/jhoicas/yarn-inventory/internal/domain/entity"
	"github.com/jhoicas/yarn-inventory/internal/domain/repository"
	"github.com/jhoicas/yarn-inventory/pkg/pagination"
)

var _ repository.UsageRepository = (*UsageRepo)(nil)

// UsageRepo UsageRepository over PostgreSQL (pool or tx).
type UsageRepo struct {
	q Querier
}

// NewUsageRepository builds the adapter.
func NewUsageRepository(q Querier) *UsageRepo {
	return &UsageRepo{q: q}
}

// Create inserts a usage record and fills its ID.
func (r *UsageRepo) Create(ctx context.Context, rec *entity.UsageRecord) error {
	query := `
		INSERT INTO yarn_usage (yarn_id, used_quantity, used_by, purpose, used_on)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id`
	err := r.q.QueryRow(ctx, query, rec.LotID, rec.UsedQuantity, rec.UsedBy, rec.Purpose, rec.UsedOn).Scan(&rec.ID)
	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("insert usage: %w", err)
	}
	return nil
}

// Search one page of matching records plus the total match count.
func (r *UsageRepo) Search(ctx context.Context, f repository.UsageFilter, p pagination.Params) ([]*entity.UsageRecord, int, error) {
	w := usageWhere(f)

	var total int
	if err := r.q.QueryRow(ctx, `SELECT COUNT(*)`+usageFrom+w.sql(), w.args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count usage: %w", err)
	}

	limit, args := w.page(p)
	recs, err := r.list(ctx, `SELECT `+usageColumns+usageFrom+w.sql()+usageOrderBy+limit, args)
	if err != nil {
		return nil, 0, err
	}
	return recs, total, nil
}

// SearchAll every matching record, same predicate and order as Search.
func (r *UsageRepo) SearchAll(ctx context.Context, f repository.UsageFilter) ([]*entity.UsageRecord, error) {
	w := usageWhere(f)
	return r.list(ctx, `SELECT `+usageColumns+usageFrom+w.sql()+usageOrderBy, w.args)
}

func (r *UsageRepo) list(ctx context.Context, query string, args []any) ([]*entity.UsageRecord, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list usage: %w", err)
	}
	defer rows.Close()

	recs := make([]*entity.UsageRecord, 0)
	for rows.Next() {
		var u entity.UsageRecord
		if err := rows.Scan(&u.ID, &u.LotID, &u.UsedQuantity, &u.UsedBy, &u.Purpose, &u.UsedOn, &u.YarnType, &u.Color); err != nil {
			return nil, fmt.Errorf("scan usage: %w", err)
		}
		recs = append(recs, &u)
	}
	return recs, rows.Err()
}

// TotalsByYarnType sum of withdrawals per yarn type.
func (r *UsageRepo) TotalsByYarnType(ctx context.Context) ([]entity.YarnUsageTotal, error) {
	query := `
		SELECT s.yarn_type, SUM(u.used_quantity)` + usageFrom + `
		GROUP BY s.yarn_type
		ORDER BY s.yarn_type`
	rows, err := r.q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("usage totals: %w", err)
	}
	totals, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (entity.YarnUsageTotal, error) {
		var t entity.YarnUsageTotal
		err := row.Scan(&t.YarnType, &t.Total)
		return t, err
	})
	if err != nil {
		return nil, fmt.Errorf("scan usage totals: %w", err)
	}
	return totals, nil
}
