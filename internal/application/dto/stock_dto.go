package dto

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/yarn-inventory/pkg/pagination"
)

// StockRequest body for adding or editing a lot.
type StockRequest struct {
	YarnType     string          `json:"yarn_type" form:"yarn_type" validate:"notblank,max=100"`
	Color        string          `json:"color" form:"color" validate:"notblank,max=50"`
	Quantity     decimal.Decimal `json:"quantity" form:"quantity" validate:"gte=0"`
	Unit         string          `json:"unit" form:"unit" validate:"notblank,max=20"`
	DateReceived string          `json:"date_received" form:"date_received" validate:"required,datetime=2006-01-02"`
	SupplierName string          `json:"supplier_name" form:"supplier_name" validate:"notblank,max=255"`
}

// StockResponse a lot as returned to clients.
type StockResponse struct {
	ID           int64           `json:"id"`
	YarnType     string          `json:"yarn_type"`
	Color        string          `json:"color"`
	Quantity     decimal.Decimal `json:"quantity"`
	Unit         string          `json:"unit"`
	DateReceived string          `json:"date_received"`
	SupplierName string          `json:"supplier_name"`
}

// StockListQuery query string of the stock listing and its exports.
type StockListQuery struct {
	Search       string `query:"search" json:"search"`
	SupplierName string `query:"supplier_name" json:"supplier_name"`
	Sort         string `query:"sort" json:"sort"`
	Page         int    `query:"page" json:"-"`
}

// StockListResponse one page of lots plus what the filter form needs.
type StockListResponse struct {
	Items         []StockResponse `json:"items"`
	Page          pagination.Meta `json:"page"`
	Filters       StockListQuery  `json:"filters"`
	SupplierNames []string        `json:"supplier_names"`
}

// StockFormResponse options for the add-stock form.
type StockFormResponse struct {
	SupplierNames []string `json:"supplier_names"`
}

// StockImportRow raw values of one spreadsheet row. Line is the 1-based source line.
type StockImportRow struct {
	Line         int
	YarnType     string
	Color        string
	Quantity     string
	Unit         string
	DateReceived string
	SupplierName string
}

// ImportResponse result of a bulk import.
type ImportResponse struct {
	Imported int64 `json:"imported"`
}
