// Package pdf renders the stock report as an A4 document.
//
// Page layout:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: title + filters     │  generated at / by           │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLE: ID | Yarn | Color | Quantity | Unit | Date | Supplier│
//	│  ─────────────────────────────────────────────────────────  │
//	│  TOTALS: lots / quantity per unit                           │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"
	"sort"
	"strconv"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/yarn-inventory/internal/application/report"
	"github.com/jhoicas/yarn-inventory/internal/domain/entity"
)

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
)

var _ report.PDFRenderer = (*StockReportRenderer)(nil)

// StockReportRenderer implements report.PDFRenderer with Maroto v2.
type StockReportRenderer struct{}

// NewStockReportRenderer builds the renderer.
func NewStockReportRenderer() *StockReportRenderer { return &StockReportRenderer{} }

// RenderStock generates the PDF and returns its bytes.
func (r *StockReportRenderer) RenderStock(_ context.Context, meta report.Meta, lots []*entity.StockLot) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle(meta.Title, true).
		WithAuthor(meta.GeneratedBy, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(meta))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(tableHeaderRow())
	m.AddRows(tableRows(lots)...)
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(totalsRows(lots)...)

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generate document: %w", err)
	}
	return doc.GetBytes(), nil
}

func headerRow(meta report.Meta) core.Row {
	filters := "All lots"
	switch {
	case meta.Search != "" && meta.SupplierName != "":
		filters = fmt.Sprintf("Search: %q   |   Supplier: %s", meta.Search, meta.SupplierName)
	case meta.Search != "":
		filters = fmt.Sprintf("Search: %q", meta.Search)
	case meta.SupplierName != "":
		filters = "Supplier: " + meta.SupplierName
	}

	return row.New(16).Add(
		col.New(7).Add(
			text.New(meta.Title, props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New(filters, props.Text{Size: 8, Top: 9, Color: colorGray}),
		),
		col.New(5).Add(
			text.New("Generated "+meta.GeneratedAt.Format("2006-01-02 15:04"), props.Text{
				Size: 8, Align: align.Right, Top: 2, Color: colorGray,
			}),
			text.New("By "+nonEmpty(meta.GeneratedBy, "-"), props.Text{
				Size: 8, Align: align.Right, Top: 8, Color: colorGray,
			}),
		),
	)
}

func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a,
			Color: colorPrimary, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("ID", 1, align.Left),
		h("Yarn Type", 3, align.Left),
		h("Color", 2, align.Left),
		h("Quantity", 1, align.Right),
		h("Unit", 1, align.Left),
		h("Received", 2, align.Left),
		h("Supplier", 2, align.Left),
	)
}

func tableRows(lots []*entity.StockLot) []core.Row {
	if len(lots) == 0 {
		return []core.Row{row.New(10).Add(col.New(12).Add(
			text.New("No stock lots match the selected filters.", props.Text{
				Size: 9, Align: align.Center, Top: 3, Color: colorGray,
			}),
		))}
	}

	cell := func(s string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(s, props.Text{Size: 8, Align: a, Top: 1, Left: 1, Right: 1}))
	}
	rows := make([]core.Row, 0, len(lots))
	for _, l := range lots {
		r := row.New(7).Add(
			cell(strconv.FormatInt(l.ID, 10), 1, align.Left),
			cell(l.YarnType, 3, align.Left),
			cell(l.Color, 2, align.Left),
			cell(l.Quantity.String(), 1, align.Right),
			cell(l.Unit, 1, align.Left),
			cell(l.DateReceived.Format("2006-01-02"), 2, align.Left),
			cell(l.SupplierName, 2, align.Left),
		)
		rows = append(rows, r)
	}
	return rows
}

// totalsRows sums quantity per unit; kg and cones are never added together.
func totalsRows(lots []*entity.StockLot) []core.Row {
	perUnit := make(map[string]decimal.Decimal)
	for _, l := range lots {
		perUnit[l.Unit] = perUnit[l.Unit].Add(l.Quantity)
	}
	units := make([]string, 0, len(perUnit))
	for u := range perUnit {
		units = append(units, u)
	}
	sort.Strings(units)

	rows := []core.Row{row.New(7).Add(
		col.New(8),
		col.New(4).Add(text.New(fmt.Sprintf("Lots: %d", len(lots)), props.Text{
			Style: fontstyle.Bold, Size: 9, Align: align.Right, Right: 1, Top: 1,
		})),
	)}
	for _, u := range units {
		rows = append(rows, row.New(6).Add(
			col.New(8),
			col.New(4).Add(text.New(fmt.Sprintf("Total %s: %s", nonEmpty(u, "-"), perUnit[u].String()), props.Text{
				Size: 9, Align: align.Right, Right: 1, Color: colorPrimary,
			})),
		))
	}
	return rows
}

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}
