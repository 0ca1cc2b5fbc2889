package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// StockLot a received batch of one yarn type and color.
// Quantity never goes below zero.
type StockLot struct {
	ID           int64
	YarnType     string
	Color        string
	Quantity     decimal.Decimal
	Unit         string
	DateReceived time.Time
	SupplierName string
	CreatedAt    time.Time
}
