package audit

import (
	"context"
	"strings"

	"github.com/jhoicas/yarn-inventory/internal/application/dto"
	"github.com/jhoicas/yarn-inventory/internal/domain/entity"
	"github.com/jhoicas/yarn-inventory/internal/domain/repository"
	"github.com/jhoicas/yarn-inventory/pkg/pagination"
)

// LogUseCase lists the activity log for administrators.
type LogUseCase struct {
	repo repository.LogRepository
}

// NewLogUseCase builds the use case.
func NewLogUseCase(repo repository.LogRepository) *LogUseCase {
	return &LogUseCase{repo: repo}
}

// List returns one page of entries, newest first. An inverted date range yields an empty page.
func (uc *LogUseCase) List(ctx context.Context, q dto.LogListQuery) (*dto.LogListResponse, error) {
	from, err := dto.ParseDay("from_date", q.FromDate)
	if err != nil {
		return nil, err
	}
	to, err := dto.ParseDay("to_date", q.ToDate)
	if err != nil {
		return nil, err
	}
	filter := repository.LogFilter{
		Username: strings.TrimSpace(q.Username),
		Action:   strings.TrimSpace(q.Action),
		Table:    strings.TrimSpace(q.Table),
		From:     from,
		To:       to,
	}
	page := pagination.New(q.Page, pagination.LogPageSize)

	entries, total, err := uc.repo.Search(ctx, filter, page)
	if err != nil {
		return nil, err
	}
	items := make([]dto.LogResponse, 0, len(entries))
	for _, e := range entries {
		items = append(items, toLogResponse(e))
	}
	q.Page = page.Page
	return &dto.LogListResponse{Items: items, Page: page.Meta(total), Filters: q}, nil
}

func toLogResponse(e *entity.LogEntry) dto.LogResponse {
	return dto.LogResponse{
		ID:          e.ID,
		UserID:      e.UserID,
		Username:    e.UserName,
		Action:      e.ActionType,
		Table:       e.TableName,
		Description: e.Description,
		CreatedAt:   e.CreatedAt,
	}
}
