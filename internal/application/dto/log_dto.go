package dto

import (
	"time"

	"github.com/jhoicas/yarn-inventory/pkg/pagination"
)

// LogListQuery query string of the activity log listing.
type LogListQuery struct {
	Username string `query:"username" json:"username"`
	Action   string `query:"action" json:"action"`
	Table    string `query:"table" json:"table"`
	FromDate string `query:"from_date" json:"from_date"`
	ToDate   string `query:"to_date" json:"to_date"`
	Page     int    `query:"page" json:"-"`
}

// LogResponse one activity entry.
type LogResponse struct {
	ID          int64     `json:"id"`
	UserID      int64     `json:"user_id"`
	Username    string    `json:"username"`
	Action      string    `json:"action_type"`
	Table       string    `json:"table_name"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
}

// LogListResponse one page of activity.
type LogListResponse struct {
	Items   []LogResponse   `json:"items"`
	Page    pagination.Meta `json:"page"`
	Filters LogListQuery    `json:"filters"`
}
