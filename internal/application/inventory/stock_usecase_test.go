package inventory_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/yarn-inventory/internal/application/audit"
	"github.com/jhoicas/yarn-inventory/internal/application/dto"
	appinventory "github.com/jhoicas/yarn-inventory/internal/application/inventory"
	"github.com/jhoicas/yarn-inventory/internal/domain"
	"github.com/jhoicas/yarn-inventory/internal/domain/entity"
	"github.com/jhoicas/yarn-inventory/internal/testutil/memstore"
	"github.com/jhoicas/yarn-inventory/pkg/logger"
)

var admin = entity.Identity{UserID: 1, Username: "admin", Role: entity.RoleAdmin}

func newStockUseCase(store *memstore.Store) *appinventory.StockUseCase {
	rec := audit.NewRecorder(store.Logs(), logger.Nop())
	return appinventory.NewStockUseCase(store.Stock(), store.Suppliers(), store, rec)
}

func stockReq(yarn, color, qty, received, supplier string) dto.StockRequest {
	return dto.StockRequest{
		YarnType: yarn, Color: color, Quantity: decimal.RequireFromString(qty),
		Unit: "kg", DateReceived: received, SupplierName: supplier,
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Add / Update / Delete
// ──────────────────────────────────────────────────────────────────────────────

func TestAdd_StoresLotAndLogs(t *testing.T) {
	store := memstore.New()
	uc := newStockUseCase(store)

	res, err := uc.Add(context.Background(), admin, stockReq(" Cotton ", "Red", "10", "2024-03-01", "Shree Threads"))
	require.NoError(t, err)
	assert.NotZero(t, res.ID)
	assert.Equal(t, "Cotton", res.YarnType, "values are trimmed")
	assert.Equal(t, "2024-03-01", res.DateReceived)

	logs := store.LogEntries()
	require.Len(t, logs, 1)
	assert.Equal(t, entity.ActionCreate, logs[0].ActionType)
	assert.Equal(t, entity.TableStock, logs[0].TableName)
}

func TestAdd_ZeroQuantityAllowed(t *testing.T) {
	_, err := newStockUseCase(memstore.New()).Add(context.Background(), admin,
		stockReq("Cotton", "Red", "0", "2024-03-01", "Shree Threads"))
	assert.NoError(t, err)
}

func TestAdd_Rejections(t *testing.T) {
	uc := newStockUseCase(memstore.New())
	cases := map[string]dto.StockRequest{
		"negative quantity": stockReq("Cotton", "Red", "-1", "2024-03-01", "Shree Threads"),
		"bad date":          stockReq("Cotton", "Red", "1", "01/03/2024", "Shree Threads"),
		"blank yarn type":   stockReq("  ", "Red", "1", "2024-03-01", "Shree Threads"),
		"blank supplier":    stockReq("Cotton", "Red", "1", "2024-03-01", ""),
	}
	for name, req := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := uc.Add(context.Background(), admin, req)
			assert.ErrorIs(t, err, domain.ErrInvalidInput)
		})
	}
}

func TestUpdate_OverwritesFields(t *testing.T) {
	store := memstore.New()
	uc := newStockUseCase(store)
	added, err := uc.Add(context.Background(), admin, stockReq("Cotton", "Red", "10", "2024-03-01", "Shree Threads"))
	require.NoError(t, err)

	_, err = uc.Update(context.Background(), admin, added.ID, stockReq("Wool", "Grey", "12", "2024-03-02", "Loom & Co"))
	require.NoError(t, err)

	got, err := uc.Get(context.Background(), added.ID)
	require.NoError(t, err)
	assert.Equal(t, "Wool", got.YarnType)
	assert.Equal(t, "Loom & Co", got.SupplierName)
	assert.True(t, got.Quantity.Equal(decimal.NewFromInt(12)))
}

func TestUpdate_UnknownLot(t *testing.T) {
	_, err := newStockUseCase(memstore.New()).Update(context.Background(), admin, 404,
		stockReq("Wool", "Grey", "12", "2024-03-02", "Loom & Co"))
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestGet_UnknownLot(t *testing.T) {
	_, err := newStockUseCase(memstore.New()).Get(context.Background(), 404)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDelete_LotWithUsageIsKept(t *testing.T) {
	store := memstore.New()
	uc := newStockUseCase(store)
	lot := seedLot(t, store, "10")
	_, err := appinventory.NewWithdrawUseCase(store).Withdraw(context.Background(), asha, lot.ID, withdrawReq("1"))
	require.NoError(t, err)

	err = uc.Delete(context.Background(), admin, lot.ID)
	require.ErrorIs(t, err, domain.ErrConflict)
	assert.Len(t, store.Lots(), 1)
}

func TestDelete_RemovesUnusedLot(t *testing.T) {
	store := memstore.New()
	uc := newStockUseCase(store)
	lot := seedLot(t, store, "10")

	require.NoError(t, uc.Delete(context.Background(), admin, lot.ID))
	assert.Empty(t, store.Lots())
	assert.ErrorIs(t, uc.Delete(context.Background(), admin, lot.ID), domain.ErrNotFound)
}

// ──────────────────────────────────────────────────────────────────────────────
// List
// ──────────────────────────────────────────────────────────────────────────────

func TestList_FilterSortAndPaginate(t *testing.T) {
	store := memstore.New()
	uc := newStockUseCase(store)
	for i := 1; i <= 12; i++ {
		_, err := uc.Add(context.Background(), admin,
			stockReq("Cotton", fmt.Sprintf("Shade %02d", i), fmt.Sprint(i), fmt.Sprintf("2024-03-%02d", i), "Shree Threads"))
		require.NoError(t, err)
	}
	_, err := uc.Add(context.Background(), admin, stockReq("Wool", "Grey", "50", "2024-04-01", "Loom & Co"))
	require.NoError(t, err)

	page1, err := uc.List(context.Background(), dto.StockListQuery{Search: "cot"})
	require.NoError(t, err)
	require.Len(t, page1.Items, 10)
	assert.Equal(t, 12, page1.Page.Total)
	assert.True(t, page1.Page.HasNext)
	assert.False(t, page1.Page.HasPrev)
	assert.Equal(t, "2024-03-12", page1.Items[0].DateReceived, "newest received first by default")
	assert.Equal(t, []string{"Loom & Co", "Shree Threads"}, page1.SupplierNames)

	page2, err := uc.List(context.Background(), dto.StockListQuery{Search: "cot", Page: 2})
	require.NoError(t, err)
	assert.Len(t, page2.Items, 2)
	assert.False(t, page2.Page.HasNext)
	assert.True(t, page2.Page.HasPrev)

	byQty, err := uc.List(context.Background(), dto.StockListQuery{Sort: "quantity"})
	require.NoError(t, err)
	assert.Equal(t, "Wool", byQty.Items[0].YarnType)

	bySupplier, err := uc.List(context.Background(), dto.StockListQuery{SupplierName: "Loom & Co"})
	require.NoError(t, err)
	require.Len(t, bySupplier.Items, 1)
	assert.Equal(t, "Grey", bySupplier.Items[0].Color)
}

func TestList_UnknownSortFallsBackToDate(t *testing.T) {
	store := memstore.New()
	uc := newStockUseCase(store)
	_, err := uc.Add(context.Background(), admin, stockReq("A", "x", "1", "2024-01-01", "S"))
	require.NoError(t, err)
	_, err = uc.Add(context.Background(), admin, stockReq("B", "x", "1", "2024-02-01", "S"))
	require.NoError(t, err)

	res, err := uc.List(context.Background(), dto.StockListQuery{Sort: "quantity; DROP TABLE yarn_stock"})
	require.NoError(t, err)
	assert.Equal(t, "B", res.Items[0].YarnType)
}

func TestList_RepeatedQueryIsStable(t *testing.T) {
	store := memstore.New()
	uc := newStockUseCase(store)
	for _, c := range []string{"Red", "Blue", "Green"} {
		_, err := uc.Add(context.Background(), admin, stockReq("Cotton", c, "4", "2024-01-01", "S"))
		require.NoError(t, err)
	}
	q := dto.StockListQuery{Search: "cot", Sort: "quantity", Page: 1}

	first, err := uc.List(context.Background(), q)
	require.NoError(t, err)
	second, err := uc.List(context.Background(), q)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Len(t, store.Lots(), 3)
	assert.Len(t, store.LogEntries(), 3, "listing writes nothing")
}

// ──────────────────────────────────────────────────────────────────────────────
// Import
// ──────────────────────────────────────────────────────────────────────────────

func importRow(line int, qty, date string) dto.StockImportRow {
	return dto.StockImportRow{
		Line: line, YarnType: "Cotton", Color: "Red", Quantity: qty,
		Unit: "kg", DateReceived: date, SupplierName: "Shree Threads",
	}
}

func TestImport_AllRows(t *testing.T) {
	store := memstore.New()
	res, err := newStockUseCase(store).Import(context.Background(), admin, []dto.StockImportRow{
		importRow(2, "10", "2024-03-01"),
		importRow(3, "2.5", "2024/03/02"),
	})
	require.NoError(t, err)
	assert.Equal(t, int64(2), res.Imported)
	assert.Len(t, store.Lots(), 2)

	logs := store.LogEntries()
	require.Len(t, logs, 1)
	assert.Equal(t, entity.ActionImport, logs[0].ActionType)
}

func TestImport_BadRowRejectsWholeFile(t *testing.T) {
	store := memstore.New()
	_, err := newStockUseCase(store).Import(context.Background(), admin, []dto.StockImportRow{
		importRow(2, "10", "2024-03-01"),
		importRow(3, "ten", "2024-03-01"),
		importRow(4, "-2", "2024-03-01"),
		importRow(5, "1", "yesterday"),
	})
	require.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Contains(t, err.Error(), "line 3")
	assert.Contains(t, err.Error(), "line 4")
	assert.Contains(t, err.Error(), "line 5")
	assert.Empty(t, store.Lots())
}

func TestImport_ReportsAtMostTenErrors(t *testing.T) {
	rows := make([]dto.StockImportRow, 0, 15)
	for i := 0; i < 15; i++ {
		rows = append(rows, importRow(i+2, "bad", "2024-03-01"))
	}
	_, err := newStockUseCase(memstore.New()).Import(context.Background(), admin, rows)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "line 11")
	assert.NotContains(t, err.Error(), "line 12")
}

func TestImport_QuantityBeyondStoredPrecision(t *testing.T) {
	store := memstore.New()
	_, err := newStockUseCase(store).Import(context.Background(), admin, []dto.StockImportRow{
		importRow(2, "1.2345", "2024-03-01"),
	})
	require.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Contains(t, err.Error(), "line 2")
	assert.Contains(t, err.Error(), "decimal places")
	assert.Empty(t, store.Lots())
}

func TestAdd_QuantityBeyondStoredPrecision(t *testing.T) {
	store := memstore.New()
	_, err := newStockUseCase(store).Add(context.Background(), admin, stockReq("Cotton", "Red", "10.0001", "2024-03-01", "S"))
	var ve *dto.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "quantity", ve.Fields[0].Field)
	assert.Empty(t, store.Lots())
}

func TestImport_EmptyFile(t *testing.T) {
	_, err := newStockUseCase(memstore.New()).Import(context.Background(), admin, nil)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestImport_StoreFailureLeavesNothing(t *testing.T) {
	store := memstore.New()
	store.Fail(memstore.OpLogAppend, errors.New("log table locked"))

	_, err := newStockUseCase(store).Import(context.Background(), admin, []dto.StockImportRow{importRow(2, "1", "2024-03-01")})
	require.Error(t, err)
	assert.Empty(t, store.Lots())
}

// ──────────────────────────────────────────────────────────────────────────────
// Usage history
// ──────────────────────────────────────────────────────────────────────────────

func TestUsage_ListAndChart(t *testing.T) {
	store := memstore.New()
	cotton := seedLot(t, store, "10")
	wool := &entity.StockLot{YarnType: "Wool", Color: "Grey", Quantity: decimal.NewFromInt(5), Unit: "kg", SupplierName: "Loom & Co"}
	require.NoError(t, store.Stock().Create(context.Background(), wool))

	w := appinventory.NewWithdrawUseCase(store)
	for _, step := range []struct {
		id  int64
		qty string
	}{{cotton.ID, "1"}, {cotton.ID, "2"}, {wool.ID, "0.5"}} {
		_, err := w.Withdraw(context.Background(), asha, step.id, withdrawReq(step.qty))
		require.NoError(t, err)
	}

	uc := appinventory.NewUsageUseCase(store.Usage())
	list, err := uc.List(context.Background(), dto.UsageListQuery{YarnType: "cot"})
	require.NoError(t, err)
	assert.Equal(t, 2, list.Page.Total)
	for _, it := range list.Items {
		assert.Equal(t, "Cotton", it.YarnType)
	}

	chart, err := uc.Chart(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"Cotton", "Wool"}, chart.Labels)
	assert.True(t, chart.Data[0].Equal(decimal.NewFromInt(3)))
	assert.True(t, chart.Data[1].Equal(decimal.RequireFromString("0.5")))
}

func TestUsage_DateFilter(t *testing.T) {
	store := memstore.New()
	lot := seedLot(t, store, "10")
	_, err := appinventory.NewWithdrawUseCase(store).Withdraw(context.Background(), asha, lot.ID, withdrawReq("1"))
	require.NoError(t, err)

	uc := appinventory.NewUsageUseCase(store.Usage())
	today := store.UsageRecords()[0].UsedOn.UTC().Format(dto.DateLayout)

	hit, err := uc.List(context.Background(), dto.UsageListQuery{FromDate: today, ToDate: today})
	require.NoError(t, err)
	assert.Equal(t, 1, hit.Page.Total)

	miss, err := uc.List(context.Background(), dto.UsageListQuery{FromDate: "2000-01-01", ToDate: "2000-01-02"})
	require.NoError(t, err)
	assert.Zero(t, miss.Page.Total)

	_, err = uc.List(context.Background(), dto.UsageListQuery{FromDate: "01-01-2000"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
