package spreadsheet

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/xuri/excelize/v2"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"github.com/jhoicas/yarn-inventory/internal/application/dto"
	"github.com/jhoicas/yarn-inventory/internal/domain"
)

// Import columns, matched case-insensitively after turning spaces and dashes into underscores.
const (
	colYarnType     = "yarn_type"
	colColor        = "color"
	colQuantity     = "quantity"
	colUnit         = "unit"
	colDateReceived = "date_received"
	colSupplierName = "supplier_name"
)

var requiredColumns = []string{colYarnType, colColor, colQuantity, colUnit, colDateReceived, colSupplierName}

var headerNormalizer = strings.NewReplacer(" ", "_", "-", "_")

// ReadStockRows decodes an uploaded .csv or .xlsx file into raw import rows.
// The first non-blank row is the header; extra columns such as ID are ignored.
func ReadStockRows(r io.Reader, filename string) ([]dto.StockImportRow, error) {
	var (
		records []record
		err     error
	)
	switch ext := strings.ToLower(filepath.Ext(filename)); ext {
	case ".csv", ".txt":
		records, err = readCSV(r)
	case ".xlsx":
		records, err = readXLSX(r)
	default:
		return nil, fmt.Errorf("%w: unsupported file type %q (use .csv or .xlsx)", domain.ErrInvalidInput, ext)
	}
	if err != nil {
		return nil, err
	}
	return mapRecords(records)
}

// record one row of cells and the 1-based source line it starts on.
type record struct {
	line  int
	cells []string
}

// readCSV accepts UTF-8 (with or without BOM), UTF-16 with BOM and, for
// anything else, Windows-1252 as written by older spreadsheet tools.
func readCSV(r io.Reader) ([]record, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read upload: %w", err)
	}

	var src io.Reader
	switch {
	case hasBOM(data):
		src = transform.NewReader(bytes.NewReader(data), unicode.BOMOverride(unicode.UTF8.NewDecoder()))
	case utf8.Valid(data):
		src = bytes.NewReader(data)
	default:
		src = transform.NewReader(bytes.NewReader(data), charmap.Windows1252.NewDecoder())
	}

	cr := csv.NewReader(src)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	var records []record
	for {
		cells, err := cr.Read()
		if errors.Is(err, io.EOF) {
			return records, nil
		}
		if err != nil {
			return nil, fmt.Errorf("%w: malformed CSV: %s", domain.ErrInvalidInput, err)
		}
		// encoding/csv skips blank lines, so the line comes from the reader.
		line, _ := cr.FieldPos(0)
		records = append(records, record{line: line, cells: cells})
	}
}

func hasBOM(b []byte) bool {
	return bytes.HasPrefix(b, []byte{0xEF, 0xBB, 0xBF}) ||
		bytes.HasPrefix(b, []byte{0xFF, 0xFE}) ||
		bytes.HasPrefix(b, []byte{0xFE, 0xFF})
}

// readXLSX returns the rows of the first sheet.
func readXLSX(r io.Reader) ([]record, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("%w: unreadable Excel file", domain.ErrInvalidInput)
	}
	defer func() { _ = f.Close() }()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("%w: the workbook has no sheets", domain.ErrInvalidInput)
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheets[0], err)
	}
	records := make([]record, 0, len(rows))
	for i, cells := range rows {
		records = append(records, record{line: i + 1, cells: cells})
	}
	return records, nil
}

func mapRecords(records []record) ([]dto.StockImportRow, error) {
	headerAt := -1
	for i, rec := range records {
		if !blank(rec.cells) {
			headerAt = i
			break
		}
	}
	if headerAt < 0 {
		return nil, fmt.Errorf("%w: the file is empty", domain.ErrInvalidInput)
	}

	index := make(map[string]int)
	for i, h := range records[headerAt].cells {
		key := headerNormalizer.Replace(strings.ToLower(strings.TrimSpace(h)))
		if _, dup := index[key]; !dup {
			index[key] = i
		}
	}
	var missing []string
	for _, c := range requiredColumns {
		if _, ok := index[c]; !ok {
			missing = append(missing, c)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: missing column(s): %s", domain.ErrInvalidInput, strings.Join(missing, ", "))
	}

	rows := make([]dto.StockImportRow, 0, len(records)-headerAt-1)
	for i := headerAt + 1; i < len(records); i++ {
		rec := records[i].cells
		if blank(rec) {
			continue
		}
		cell := func(col string) string {
			j := index[col]
			if j >= len(rec) {
				return ""
			}
			return strings.TrimSpace(rec[j])
		}
		rows = append(rows, dto.StockImportRow{
			Line:         records[i].line,
			YarnType:     cell(colYarnType),
			Color:        cell(colColor),
			Quantity:     cell(colQuantity),
			Unit:         cell(colUnit),
			DateReceived: cell(colDateReceived),
			SupplierName: cell(colSupplierName),
		})
	}
	return rows, nil
}

func blank(rec []string) bool {
	for _, v := range rec {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
