package inventory

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/yarn-inventory/internal/application/dto"
	"github.com/jhoicas/yarn-inventory/internal/domain"
	"github.com/jhoicas/yarn-inventory/internal/domain/entity"
	"github.com/jhoicas/yarn-inventory/internal/domain/inventory"
	"github.com/jhoicas/yarn-inventory/internal/domain/repository"
)

// WithdrawUseCase takes yarn out of a lot. The lot row stays locked from the
// read to the commit, so concurrent withdrawals on one lot are serialised.
type WithdrawUseCase struct {
	txRunner TxRunner
	now      func() time.Time
}

// NewWithdrawUseCase builds the use case.
func NewWithdrawUseCase(txRunner TxRunner) *WithdrawUseCase {
	return &WithdrawUseCase{txRunner: txRunner, now: time.Now}
}

// Withdraw validates the request, then in one transaction: locks the lot,
// checks availability, appends the usage record, decrements the lot and logs
// the action. NotFound and InsufficientStock leave no trace.
func (uc *WithdrawUseCase) Withdraw(ctx context.Context, who entity.Identity, lotID int64, in dto.WithdrawRequest) (*dto.WithdrawResponse, error) {
	if lotID <= 0 {
		return nil, fmt.Errorf("%w: invalid lot id", domain.ErrInvalidInput)
	}
	if err := dto.Validate(in); err != nil {
		return nil, err
	}
	if !inventory.FitsScale(in.UsedQuantity) {
		return nil, dto.FieldInvalid("used_quantity", "scale", strconv.Itoa(inventory.Scale))
	}

	var (
		rec       *entity.UsageRecord
		remaining decimal.Decimal
	)
	err := uc.txRunner.Run(ctx, func(
		stockRepo repository.StockRepository,
		usageRepo repository.UsageRepository,
		logRepo repository.LogRepository,
	) error {
		lot, err := stockRepo.GetForUpdate(ctx, lotID)
		if err != nil {
			return err
		}
		if lot == nil {
			return domain.ErrNotFound
		}
		left, err := inventory.Remaining(lot.Quantity, in.UsedQuantity)
		if err != nil {
			return err
		}

		rec = &entity.UsageRecord{
			LotID:        lot.ID,
			UsedQuantity: in.UsedQuantity,
			UsedBy:       strings.TrimSpace(in.UsedBy),
			Purpose:      strings.TrimSpace(in.Purpose),
			UsedOn:       uc.now(),
			YarnType:     lot.YarnType,
			Color:        lot.Color,
		}
		if err := usageRepo.Create(ctx, rec); err != nil {
			return err
		}
		if err := stockRepo.SetQuantity(ctx, lot.ID, left); err != nil {
			return err
		}
		remaining = left

		desc := fmt.Sprintf("Used %s %s of %s %s from lot %d (by %s)",
			in.UsedQuantity.String(), lot.Unit, lot.Color, lot.YarnType, lot.ID, rec.UsedBy)
		return logRepo.Append(ctx, entity.NewLogEntry(who, entity.ActionUse, entity.TableUsage, desc))
	})
	if err != nil {
		return nil, err
	}
	return &dto.WithdrawResponse{Usage: toUsageResponse(rec), Remaining: remaining}, nil
}
