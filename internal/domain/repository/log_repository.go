package repository

import (
	"context"
	"time"

	"github.com/jhoicas/yarn-inventory/internal/domain/entity"
	"github.com/jhoicas/yarn-inventory/pkg/pagination"
)

// LogFilter optional predicates, combined with AND. From/To are whole days, both inclusive.
type LogFilter struct {
	Username string
	Action   string
	Table    string
	From     *time.Time
	To       *time.Time
}

// LogRepository append-only persistence port for activity logs.
type LogRepository interface {
	Append(ctx context.Context, e *entity.LogEntry) error
	Search(ctx context.Context, f LogFilter, page pagination.Params) ([]*entity.LogEntry, int, error)
}
