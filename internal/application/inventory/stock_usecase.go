package inventory

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/yarn-inventory/internal/application/audit"
	"github.com/jhoicas/yarn-inventory/internal/application/dto"
	"github.com/jhoicas/yarn-inventory/internal/domain"
	"github.com/jhoicas/yarn-inventory/internal/domain/entity"
	"github.com/jhoicas/yarn-inventory/internal/domain/inventory"
	"github.com/jhoicas/yarn-inventory/internal/domain/repository"
	"github.com/jhoicas/yarn-inventory/pkg/pagination"
)

// maxImportErrors caps how many bad rows are reported back at once.
const maxImportErrors = 10

// importDateLayouts accepted for date_received in spreadsheets.
var importDateLayouts = []string{dto.DateLayout, "2006/01/02", "2006-01-02 15:04:05", time.RFC3339}

// StockUseCase lot maintenance, listing and bulk import.
type StockUseCase struct {
	stockRepo    repository.StockRepository
	supplierRepo repository.SupplierRepository
	txRunner     TxRunner
	recorder     *audit.Recorder
}

// NewStockUseCase builds the use case.
func NewStockUseCase(
	stockRepo repository.StockRepository,
	supplierRepo repository.SupplierRepository,
	txRunner TxRunner,
	recorder *audit.Recorder,
) *StockUseCase {
	return &StockUseCase{
		stockRepo:    stockRepo,
		supplierRepo: supplierRepo,
		txRunner:     txRunner,
		recorder:     recorder,
	}
}

// Add records a newly received lot.
func (uc *StockUseCase) Add(ctx context.Context, who entity.Identity, in dto.StockRequest) (*dto.StockResponse, error) {
	lot, err := lotFromRequest(in)
	if err != nil {
		return nil, err
	}
	if err := uc.stockRepo.Create(ctx, lot); err != nil {
		return nil, err
	}
	uc.recorder.Record(ctx, who, entity.ActionCreate, entity.TableStock,
		fmt.Sprintf("Added lot %d: %s %s %s %s", lot.ID, lot.Quantity, lot.Unit, lot.Color, lot.YarnType))
	out := toStockResponse(lot)
	return &out, nil
}

// Get returns one lot or ErrNotFound.
func (uc *StockUseCase) Get(ctx context.Context, id int64) (*dto.StockResponse, error) {
	lot, err := uc.stockRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if lot == nil {
		return nil, domain.ErrNotFound
	}
	out := toStockResponse(lot)
	return &out, nil
}

// Update overwrites every editable field of a lot.
func (uc *StockUseCase) Update(ctx context.Context, who entity.Identity, id int64, in dto.StockRequest) (*dto.StockResponse, error) {
	lot, err := lotFromRequest(in)
	if err != nil {
		return nil, err
	}
	lot.ID = id
	if err := uc.stockRepo.Update(ctx, lot); err != nil {
		return nil, err
	}
	uc.recorder.Record(ctx, who, entity.ActionUpdate, entity.TableStock,
		fmt.Sprintf("Updated lot %d", id))
	out := toStockResponse(lot)
	return &out, nil
}

// Delete removes a lot. Lots with usage history cannot be deleted (ErrConflict).
func (uc *StockUseCase) Delete(ctx context.Context, who entity.Identity, id int64) error {
	if err := uc.stockRepo.Delete(ctx, id); err != nil {
		return err
	}
	uc.recorder.Record(ctx, who, entity.ActionDelete, entity.TableStock,
		fmt.Sprintf("Deleted lot %d", id))
	return nil
}

// List returns one page of lots matching the query, plus the supplier names for the filter form.
func (uc *StockUseCase) List(ctx context.Context, q dto.StockListQuery) (*dto.StockListResponse, error) {
	page := pagination.New(q.Page, pagination.StockPageSize)
	lots, total, err := uc.stockRepo.Search(ctx, StockFilter(q), page)
	if err != nil {
		return nil, err
	}
	names, err := uc.stockRepo.SupplierNames(ctx)
	if err != nil {
		return nil, err
	}
	items := make([]dto.StockResponse, 0, len(lots))
	for _, l := range lots {
		items = append(items, toStockResponse(l))
	}
	q.Page = page.Page
	return &dto.StockListResponse{
		Items:         items,
		Page:          page.Meta(total),
		Filters:       q,
		SupplierNames: names,
	}, nil
}

// FormOptions supplier names offered by the add-stock form.
func (uc *StockUseCase) FormOptions(ctx context.Context) (*dto.StockFormResponse, error) {
	suppliers, err := uc.supplierRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(suppliers))
	for _, s := range suppliers {
		names = append(names, s.Name)
	}
	return &dto.StockFormResponse{SupplierNames: names}, nil
}

// Import validates every row and inserts them in one transaction: all rows or none.
func (uc *StockUseCase) Import(ctx context.Context, who entity.Identity, rows []dto.StockImportRow) (*dto.ImportResponse, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: the file has no data rows", domain.ErrInvalidInput)
	}
	lots := make([]*entity.StockLot, 0, len(rows))
	var rowErrs []error
	for _, r := range rows {
		lot, err := lotFromImportRow(r)
		if err != nil {
			rowErrs = append(rowErrs, fmt.Errorf("line %d: %s", r.Line, err))
			if len(rowErrs) == maxImportErrors {
				break
			}
			continue
		}
		lots = append(lots, lot)
	}
	if len(rowErrs) > 0 {
		return nil, fmt.Errorf("%w: %w", domain.ErrInvalidInput, errors.Join(rowErrs...))
	}

	var imported int64
	err := uc.txRunner.Run(ctx, func(
		stockRepo repository.StockRepository,
		_ repository.UsageRepository,
		logRepo repository.LogRepository,
	) error {
		n, err := stockRepo.CreateBatch(ctx, lots)
		if err != nil {
			return err
		}
		imported = n
		return logRepo.Append(ctx, entity.NewLogEntry(who, entity.ActionImport, entity.TableStock,
			fmt.Sprintf("Imported %d lots", n)))
	})
	if err != nil {
		return nil, err
	}
	return &dto.ImportResponse{Imported: imported}, nil
}

func lotFromRequest(in dto.StockRequest) (*entity.StockLot, error) {
	if err := dto.Validate(in); err != nil {
		return nil, err
	}
	if !inventory.FitsScale(in.Quantity) {
		return nil, dto.FieldInvalid("quantity", "scale", strconv.Itoa(inventory.Scale))
	}
	received, err := time.Parse(dto.DateLayout, in.DateReceived)
	if err != nil {
		return nil, fmt.Errorf("%w: date_received must be YYYY-MM-DD", domain.ErrInvalidInput)
	}
	return &entity.StockLot{
		YarnType:     strings.TrimSpace(in.YarnType),
		Color:        strings.TrimSpace(in.Color),
		Quantity:     in.Quantity,
		Unit:         strings.TrimSpace(in.Unit),
		DateReceived: received,
		SupplierName: strings.TrimSpace(in.SupplierName),
	}, nil
}

func lotFromImportRow(r dto.StockImportRow) (*entity.StockLot, error) {
	lot := &entity.StockLot{
		YarnType:     strings.TrimSpace(r.YarnType),
		Color:        strings.TrimSpace(r.Color),
		Unit:         strings.TrimSpace(r.Unit),
		SupplierName: strings.TrimSpace(r.SupplierName),
	}
	switch {
	case lot.YarnType == "":
		return nil, errors.New("yarn_type is empty")
	case lot.Color == "":
		return nil, errors.New("color is empty")
	case lot.Unit == "":
		return nil, errors.New("unit is empty")
	case lot.SupplierName == "":
		return nil, errors.New("supplier_name is empty")
	}

	qty, err := decimal.NewFromString(strings.TrimSpace(r.Quantity))
	if err != nil {
		return nil, fmt.Errorf("quantity %q is not a number", r.Quantity)
	}
	if qty.IsNegative() {
		return nil, fmt.Errorf("quantity %s is negative", qty)
	}
	if !inventory.FitsScale(qty) {
		return nil, fmt.Errorf("quantity %s has more than %d decimal places", qty, inventory.Scale)
	}
	lot.Quantity = qty

	received, ok := parseImportDate(r.DateReceived)
	if !ok {
		return nil, fmt.Errorf("date_received %q is not a date", r.DateReceived)
	}
	lot.DateReceived = received
	return lot, nil
}

func parseImportDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	for _, layout := range importDateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), true
		}
	}
	return time.Time{}, false
}
