// Package spreadsheet reads stock imports (CSV, XLSX) and writes CSV exports.
package spreadsheet

import (
	"encoding/csv"
	"io"
	"strconv"

	"github.com/jhoicas/yarn-inventory/internal/application/dto"
	"github.com/jhoicas/yarn-inventory/internal/application/report"
	"github.com/jhoicas/yarn-inventory/internal/domain/entity"
)

// Export headers. The stock header is accepted back by the importer.
var (
	StockHeader = []string{"ID", "Yarn Type", "Color", "Quantity", "Unit", "Date Received", "Supplier Name"}
	UsageHeader = []string{"ID", "Yarn Type", "Color", "Used Quantity", "Used By", "Purpose", "Used On"}
)

const usedOnLayout = "2006-01-02 15:04:05"

var _ report.TableEncoder = (*CSVEncoder)(nil)

// CSVEncoder writes RFC 4180 CSV.
type CSVEncoder struct{}

// NewCSVEncoder builds the encoder.
func NewCSVEncoder() *CSVEncoder { return &CSVEncoder{} }

// EncodeStock writes the header and one row per lot.
func (CSVEncoder) EncodeStock(w io.Writer, lots []*entity.StockLot) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(StockHeader); err != nil {
		return err
	}
	for _, l := range lots {
		if err := cw.Write([]string{
			strconv.FormatInt(l.ID, 10),
			l.YarnType,
			l.Color,
			l.Quantity.String(),
			l.Unit,
			l.DateReceived.Format(dto.DateLayout),
			l.SupplierName,
		}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// EncodeUsage writes the header and one row per usage record.
func (CSVEncoder) EncodeUsage(w io.Writer, recs []*entity.UsageRecord) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(UsageHeader); err != nil {
		return err
	}
	for _, r := range recs {
		if err := cw.Write([]string{
			strconv.FormatInt(r.ID, 10),
			r.YarnType,
			r.Color,
			r.UsedQuantity.String(),
			r.UsedBy,
			r.Purpose,
			r.UsedOn.Format(usedOnLayout),
		}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
