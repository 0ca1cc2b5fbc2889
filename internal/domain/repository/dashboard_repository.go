package repository

import (
	"context"

	"github.com/shopspring/decimal"
)

// DashboardRepository read-only stock aggregates. Each call is an independent read.
type DashboardRepository interface {
	CountYarnTypes(ctx context.Context) (int64, error)
	TotalQuantity(ctx context.Context) (decimal.Decimal, error)
	CountSuppliers(ctx context.Context) (int64, error)
	CountLots(ctx context.Context) (int64, error)
}
