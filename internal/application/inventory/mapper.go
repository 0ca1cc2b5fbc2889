package inventory

import (
	"strings"

	"github.com/jhoicas/yarn-inventory/internal/application/dto"
	"github.com/jhoicas/yarn-inventory/internal/domain/entity"
	"github.com/jhoicas/yarn-inventory/internal/domain/repository"
)

// StockFilter translates the listing query into the repository predicate.
// Exports call it too, so a list and its export always select the same lots.
func StockFilter(q dto.StockListQuery) repository.StockFilter {
	return repository.StockFilter{
		Search:       strings.TrimSpace(q.Search),
		SupplierName: strings.TrimSpace(q.SupplierName),
		Sort:         repository.StockSort(strings.TrimSpace(q.Sort)),
	}
}

// UsageFilter translates the usage query; malformed dates are rejected.
func UsageFilter(q dto.UsageListQuery) (repository.UsageFilter, error) {
	from, err := dto.ParseDay("from_date", q.FromDate)
	if err != nil {
		return repository.UsageFilter{}, err
	}
	to, err := dto.ParseDay("to_date", q.ToDate)
	if err != nil {
		return repository.UsageFilter{}, err
	}
	return repository.UsageFilter{
		YarnType: strings.TrimSpace(q.YarnType),
		UsedBy:   strings.TrimSpace(q.UsedBy),
		From:     from,
		To:       to,
	}, nil
}

func toStockResponse(l *entity.StockLot) dto.StockResponse {
	return dto.StockResponse{
		ID:           l.ID,
		YarnType:     l.YarnType,
		Color:        l.Color,
		Quantity:     l.Quantity,
		Unit:         l.Unit,
		DateReceived: l.DateReceived.Format(dto.DateLayout),
		SupplierName: l.SupplierName,
	}
}

func toUsageResponse(r *entity.UsageRecord) dto.UsageResponse {
	return dto.UsageResponse{
		ID:           r.ID,
		LotID:        r.LotID,
		YarnType:     r.YarnType,
		Color:        r.Color,
		UsedQuantity: r.UsedQuantity,
		UsedBy:       r.UsedBy,
		Purpose:      r.Purpose,
		UsedOn:       r.UsedOn,
	}
}
