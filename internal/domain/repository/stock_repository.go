package repository

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/yarn-inventory/internal/domain/entity"
	"github.com/jhoicas/yarn-inventory/pkg/pagination"
)

// StockSort external sort keys accepted by the stock listing.
type StockSort string

const (
	StockSortID           StockSort = "id"
	StockSortQuantity     StockSort = "quantity"
	StockSortDateReceived StockSort = "date_received"
	StockSortYarnType     StockSort = "yarn_type"
)

// StockFilter optional predicates, combined with AND. Empty fields are ignored.
type StockFilter struct {
	Search       string // substring of yarn type or color
	SupplierName string // exact match
	Sort         StockSort
}

// StockRepository persistence port for stock lots.
type StockRepository interface {
	Create(ctx context.Context, lot *entity.StockLot) error
	CreateBatch(ctx context.Context, lots []*entity.StockLot) (int64, error)
	GetByID(ctx context.Context, id int64) (*entity.StockLot, error)
	// GetForUpdate reads the lot and holds its row lock until the transaction ends.
	GetForUpdate(ctx context.Context, id int64) (*entity.StockLot, error)
	Update(ctx context.Context, lot *entity.StockLot) error
	SetQuantity(ctx context.Context, id int64, qty decimal.Decimal) error
	Delete(ctx context.Context, id int64) error
	// Search returns one page and the total number of matching lots.
	Search(ctx context.Context, f StockFilter, page pagination.Params) ([]*entity.StockLot, int, error)
	// SearchAll applies the same predicate as Search without paging.
	SearchAll(ctx context.Context, f StockFilter) ([]*entity.StockLot, error)
	SupplierNames(ctx context.Context) ([]string, error)
}
