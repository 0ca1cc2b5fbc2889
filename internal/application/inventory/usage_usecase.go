package inventory

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/yarn-inventory/internal/application/dto"
	"github.com/jhoicas/yarn-inventory/internal/domain/repository"
	"github.com/jhoicas/yarn-inventory/pkg/pagination"
)

// UsageUseCase read side of the withdrawal history.
type UsageUseCase struct {
	usageRepo repository.UsageRepository
}

// NewUsageUseCase builds the use case.
func NewUsageUseCase(usageRepo repository.UsageRepository) *UsageUseCase {
	return &UsageUseCase{usageRepo: usageRepo}
}

// List returns one page of usage records, most recent first.
func (uc *UsageUseCase) List(ctx context.Context, q dto.UsageListQuery) (*dto.UsageListResponse, error) {
	filter, err := UsageFilter(q)
	if err != nil {
		return nil, err
	}
	page := pagination.New(q.Page, pagination.UsagePageSize)
	recs, total, err := uc.usageRepo.Search(ctx, filter, page)
	if err != nil {
		return nil, err
	}
	items := make([]dto.UsageResponse, 0, len(recs))
	for _, r := range recs {
		items = append(items, toUsageResponse(r))
	}
	q.Page = page.Page
	return &dto.UsageListResponse{Items: items, Page: page.Meta(total), Filters: q}, nil
}

// Chart total withdrawn quantity per yarn type.
func (uc *UsageUseCase) Chart(ctx context.Context) (*dto.UsageChartResponse, error) {
	totals, err := uc.usageRepo.TotalsByYarnType(ctx)
	if err != nil {
		return nil, err
	}
	out := &dto.UsageChartResponse{
		Labels: make([]string, 0, len(totals)),
		Data:   make([]decimal.Decimal, 0, len(totals)),
	}
	for _, t := range totals {
		out.Labels = append(out.Labels, t.YarnType)
		out.Data = append(out.Data, t.Total)
	}
	return out, nil
}
