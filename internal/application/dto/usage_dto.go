package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/yarn-inventory/pkg/pagination"
)

// WithdrawRequest body of the use-yarn form.
type WithdrawRequest struct {
	UsedQuantity decimal.Decimal `json:"used_quantity" form:"used_quantity" validate:"gt=0"`
	UsedBy       string          `json:"used_by" form:"used_by" validate:"notblank,max=100"`
	Purpose      string          `json:"purpose" form:"purpose" validate:"max=255"`
}

// WithdrawResponse outcome of a committed withdrawal.
type WithdrawResponse struct {
	Usage     UsageResponse   `json:"usage"`
	Remaining decimal.Decimal `json:"remaining"`
}

// UsageResponse a usage record with its lot's yarn type and color.
type UsageResponse struct {
	ID           int64           `json:"id"`
	LotID        int64           `json:"yarn_id"`
	YarnType     string          `json:"yarn_type"`
	Color        string          `json:"color"`
	UsedQuantity decimal.Decimal `json:"used_quantity"`
	UsedBy       string          `json:"used_by"`
	Purpose      string          `json:"purpose"`
	UsedOn       time.Time       `json:"used_on"`
}

// UsageListQuery query string of the usage history and its export.
type UsageListQuery struct {
	YarnType string `query:"yarn_type" json:"yarn_type"`
	UsedBy   string `query:"used_by" json:"used_by"`
	FromDate string `query:"from_date" json:"from_date"`
	ToDate   string `query:"to_date" json:"to_date"`
	Page     int    `query:"page" json:"-"`
}

// UsageListResponse one page of usage history.
type UsageListResponse struct {
	Items   []UsageResponse `json:"items"`
	Page    pagination.Meta `json:"page"`
	Filters UsageListQuery  `json:"filters"`
}

// UsageChartResponse withdrawn totals per yarn type, chart ready.
type UsageChartResponse struct {
	Labels []string          `json:"labels"`
	Data   []decimal.Decimal `json:"data"`
}
