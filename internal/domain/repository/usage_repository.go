package repository

import (
	"context"
	"time"

	"github.com/jhoicas/yarn-inventory/internal/domain/entity"
	"github.com/jhoicas/yarn-inventory/pkg/pagination"
)

// UsageFilter optional predicates, combined with AND. From/To are whole days, both inclusive.
type UsageFilter struct {
	YarnType string
	UsedBy   string
	From     *time.Time
	To       *time.Time
}

// UsageRepository persistence port for usage records. Records are never updated.
type UsageRepository interface {
	Create(ctx context.Context, rec *entity.UsageRecord) error
	Search(ctx context.Context, f UsageFilter, page pagination.Params) ([]*entity.UsageRecord, int, error)
	SearchAll(ctx context.Context, f UsageFilter) ([]*entity.UsageRecord, error)
	TotalsByYarnType(ctx context.Context) ([]entity.YarnUsageTotal, error)
}
