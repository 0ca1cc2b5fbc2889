package repository

import (
	"context"

	"github.com/jhoicas/yarn-inventory/internal/domain/entity"
)

// SupplierRepository persistence port for suppliers.
type SupplierRepository interface {
	Create(ctx context.Context, s *entity.Supplier) error
	GetByID(ctx context.Context, id int64) (*entity.Supplier, error)
	Update(ctx context.Context, s *entity.Supplier) error
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context) ([]*entity.Supplier, error)
}
