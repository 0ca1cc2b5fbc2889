package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// UsageRecord immutable record of one withdrawal from a lot.
// YarnType and Color are read from the lot when listing.
type UsageRecord struct {
	ID           int64
	LotID        int64
	UsedQuantity decimal.Decimal
	UsedBy       string
	Purpose      string
	UsedOn       time.Time

	YarnType string
	Color    string
}

// YarnUsageTotal aggregated withdrawals of one yarn type.
type YarnUsageTotal struct {
	YarnType string
	Total    decimal.Decimal
}
