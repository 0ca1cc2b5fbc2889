package htmlreport

import (
	"bytes"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/yarn-inventory/internal/application/report"
	"github.com/jhoicas/yarn-inventory/internal/domain/entity"
)

func TestRenderStock_RowsAndTotals(t *testing.T) {
	r, err := New()
	require.NoError(t, err)

	lots := []*entity.StockLot{
		{ID: 1, YarnType: "Cotton", Color: "Red", Quantity: decimal.NewFromInt(6), Unit: "kg",
			DateReceived: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), SupplierName: "Shree Threads"},
		{ID: 2, YarnType: "Wool", Color: "Grey", Quantity: decimal.RequireFromString("2.5"), Unit: "kg",
			DateReceived: time.Date(2024, 3, 2, 0, 0, 0, 0, time.UTC), SupplierName: "Loom & Co"},
	}
	var buf bytes.Buffer
	require.NoError(t, r.RenderStock(&buf, report.Meta{
		Title: "Yarn Stock Report", GeneratedAt: time.Date(2024, 3, 5, 10, 0, 0, 0, time.UTC),
		GeneratedBy: "admin", SupplierName: "Shree Threads",
	}, lots))

	out := buf.String()
	assert.Contains(t, out, "<title>Yarn Stock Report</title>")
	assert.Contains(t, out, "Generated 2024-03-05 10:00 by admin")
	assert.Contains(t, out, "<td>Cotton</td>")
	assert.Contains(t, out, "Loom &amp; Co")
	assert.Contains(t, out, "Lots: 2")
	assert.Contains(t, out, "Total kg")
	assert.Contains(t, out, "8.5")
}

func TestRenderStock_EscapesMarkup(t *testing.T) {
	r, err := New()
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, r.RenderStock(&buf, report.Meta{Title: "Report"}, []*entity.StockLot{
		{ID: 1, YarnType: "<script>alert(1)</script>", Quantity: decimal.NewFromInt(1), Unit: "kg"},
	}))
	assert.NotContains(t, buf.String(), "<script>alert(1)</script>")
	assert.Contains(t, buf.String(), "&lt;script&gt;")
}

func TestRenderStock_Empty(t *testing.T) {
	r, err := New()
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, r.RenderStock(&buf, report.Meta{Title: "Report"}, nil))
	assert.Contains(t, buf.String(), "No stock lots match")
}
