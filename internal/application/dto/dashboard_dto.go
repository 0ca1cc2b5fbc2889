package dto

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/yarn-inventory/internal/domain/entity"
)

// DashboardResponse stock aggregates and the viewer's identity.
type DashboardResponse struct {
	User           entity.Identity `json:"user"`
	TotalYarnTypes int64           `json:"total_yarn_types"`
	TotalQuantity  decimal.Decimal `json:"total_quantity"`
	TotalSuppliers int64           `json:"total_suppliers"`
	TotalLots      int64           `json:"total_lots"`
}
