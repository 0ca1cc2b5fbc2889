// Package audit records and queries the activity log.
package audit

import (
	"context"

	"github.com/jhoicas/yarn-inventory/internal/domain/entity"
	"github.com/jhoicas/yarn-inventory/internal/domain/repository"
	"github.com/jhoicas/yarn-inventory/pkg/logger"
)

// Recorder appends log entries for actions that run outside a transaction.
// A failed append is logged and swallowed: the user's action already happened.
type Recorder struct {
	repo repository.LogRepository
	log  *logger.Logger
}

// NewRecorder builds the recorder.
func NewRecorder(repo repository.LogRepository, log *logger.Logger) *Recorder {
	return &Recorder{repo: repo, log: log.Component("audit")}
}

// Record appends one entry attributed to who.
func (r *Recorder) Record(ctx context.Context, who entity.Identity, action, table, description string) {
	entry := entity.NewLogEntry(who, action, table, description)
	if err := r.repo.Append(ctx, entry); err != nil {
		r.log.Error().Err(err).
			Int64("user_id", who.UserID).
			Str("action", action).
			Str("table", table).
			Msg("append activity log")
	}
}
