package inventory

import (
	"context"

	"github.com/jhoicas/yarn-inventory/internal/domain/repository"
)

// TxRunner runs fn inside one database transaction, handing it repositories bound to it.
// fn's error rolls everything back.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		stockRepo repository.StockRepository,
		usageRepo repository.UsageRepository,
		logRepo repository.LogRepository,
	) error) error
}
