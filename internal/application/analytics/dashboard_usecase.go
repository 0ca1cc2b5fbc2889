// Package analytics builds the dashboard figures.
package analytics

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/jhoicas/yarn-inventory/internal/application/dto"
	"github.com/jhoicas/yarn-inventory/internal/domain/entity"
	"github.com/jhoicas/yarn-inventory/internal/domain/repository"
)

// DashboardUseCase stock summary for the landing page.
type DashboardUseCase struct {
	repo repository.DashboardRepository
}

// NewDashboardUseCase builds the use case.
func NewDashboardUseCase(repo repository.DashboardRepository) *DashboardUseCase {
	return &DashboardUseCase{repo: repo}
}

// Summary runs the four aggregate reads in parallel:
//  1. distinct yarn types
//  2. total quantity on hand (zero when there is no stock)
//  3. distinct supplier names on lots
//  4. number of lots
func (uc *DashboardUseCase) Summary(ctx context.Context, who entity.Identity) (*dto.DashboardResponse, error) {
	var (
		yarnTypes, suppliers, lots int64
		total                      decimal.Decimal
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		yarnTypes, err = uc.repo.CountYarnTypes(gctx)
		return wrap("yarn types", err)
	})
	g.Go(func() (err error) {
		total, err = uc.repo.TotalQuantity(gctx)
		return wrap("total quantity", err)
	})
	g.Go(func() (err error) {
		suppliers, err = uc.repo.CountSuppliers(gctx)
		return wrap("suppliers", err)
	})
	g.Go(func() (err error) {
		lots, err = uc.repo.CountLots(gctx)
		return wrap("lots", err)
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return &dto.DashboardResponse{
		User:           who,
		TotalYarnTypes: yarnTypes,
		TotalQuantity:  total,
		TotalSuppliers: suppliers,
		TotalLots:      lots,
	}, nil
}

func wrap(what string, err error) error {
	if err != nil {
		return fmt.Errorf("dashboard: %s: %w", what, err)
	}
	return nil
}
