package postgres

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/yarn-inventory/internal/domain/repository"
)

var _ repository.DashboardRepository = (*DashboardRepo)(nil)

// DashboardRepo read-only stock aggregates.
type DashboardRepo struct {
	q Querier
}

// NewDashboardRepository builds the adapter.
func NewDashboardRepository(q Querier) *DashboardRepo {
	return &DashboardRepo{q: q}
}

func (r *DashboardRepo) CountYarnTypes(ctx context.Context) (int64, error) {
	return r.count(ctx, "count yarn types", `SELECT COUNT(DISTINCT yarn_type) FROM yarn_stock`)
}

func (r *DashboardRepo) CountSuppliers(ctx context.Context) (int64, error) {
	return r.count(ctx, "count suppliers", `SELECT COUNT(DISTINCT supplier_name) FROM yarn_stock`)
}

func (r *DashboardRepo) CountLots(ctx context.Context) (int64, error) {
	return r.count(ctx, "count lots", `SELECT COUNT(*) FROM yarn_stock`)
}

// TotalQuantity sum of all lot quantities; zero when there are none.
func (r *DashboardRepo) TotalQuantity(ctx context.Context) (decimal.Decimal, error) {
	var total decimal.Decimal
	if err := r.q.QueryRow(ctx, `SELECT COALESCE(SUM(quantity), 0) FROM yarn_stock`).Scan(&total); err != nil {
		return decimal.Zero, fmt.Errorf("sum quantity: %w", err)
	}
	return total, nil
}

func (r *DashboardRepo) count(ctx context.Context, op, query string) (int64, error) {
	var n int64
	if err := r.q.QueryRow(ctx, query).Scan(&n); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return n, nil
}
