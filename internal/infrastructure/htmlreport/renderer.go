// Package htmlreport renders the printable stock report page.
package htmlreport

import (
	"embed"
	"html/template"
	"io"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/yarn-inventory/internal/application/report"
	"github.com/jhoicas/yarn-inventory/internal/domain/entity"
)

//go:embed templates/*.html
var templateFS embed.FS

var _ report.HTMLRenderer = (*Renderer)(nil)

// Renderer implements report.HTMLRenderer. Safe for concurrent use.
type Renderer struct {
	stock *template.Template
}

// New parses the embedded templates.
func New() (*Renderer, error) {
	t, err := template.ParseFS(templateFS, "templates/stock_report.html")
	if err != nil {
		return nil, err
	}
	return &Renderer{stock: t}, nil
}

type unitTotal struct {
	Unit     string
	Quantity string
}

type stockPage struct {
	Meta   report.Meta
	Lots   []*entity.StockLot
	Totals []unitTotal
}

// RenderStock writes the report. Field values are HTML-escaped.
func (r *Renderer) RenderStock(w io.Writer, meta report.Meta, lots []*entity.StockLot) error {
	return r.stock.Execute(w, stockPage{Meta: meta, Lots: lots, Totals: totalsByUnit(lots)})
}

func totalsByUnit(lots []*entity.StockLot) []unitTotal {
	sums := make(map[string]decimal.Decimal)
	for _, l := range lots {
		sums[l.Unit] = sums[l.Unit].Add(l.Quantity)
	}
	out := make([]unitTotal, 0, len(sums))
	for u, q := range sums {
		out = append(out, unitTotal{Unit: u, Quantity: q.String()})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Unit < out[j].Unit })
	return out
}
