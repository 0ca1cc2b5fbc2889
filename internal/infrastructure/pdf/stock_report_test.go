package pdf

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/yarn-inventory/internal/application/report"
	"github.com/jhoicas/yarn-inventory/internal/domain/entity"
)

func TestRenderStock_ProducesPDF(t *testing.T) {
	lots := []*entity.StockLot{
		{ID: 1, YarnType: "Cotton", Color: "Red", Quantity: decimal.NewFromInt(6), Unit: "kg",
			DateReceived: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), SupplierName: "Shree Threads"},
		{ID: 2, YarnType: "Silk", Color: "Ivory", Quantity: decimal.RequireFromString("1.25"), Unit: "kg",
			DateReceived: time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC), SupplierName: "Loom & Co"},
	}
	meta := report.Meta{Title: "Yarn Stock Report", GeneratedAt: time.Now(), GeneratedBy: "admin", Search: "cot"}

	doc, err := NewStockReportRenderer().RenderStock(context.Background(), meta, lots)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(doc, []byte("%PDF")))
}

func TestRenderStock_EmptyListStillRenders(t *testing.T) {
	doc, err := NewStockReportRenderer().RenderStock(context.Background(), report.Meta{Title: "Yarn Stock Report"}, nil)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(doc, []byte("%PDF")))
}
