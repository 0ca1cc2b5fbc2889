package audit_test

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/yarn-inventory/internal/application/audit"
	"github.com/jhoicas/yarn-inventory/internal/application/dto"
	"github.com/jhoicas/yarn-inventory/internal/domain"
	"github.com/jhoicas/yarn-inventory/internal/domain/entity"
	"github.com/jhoicas/yarn-inventory/internal/testutil/memstore"
	"github.com/jhoicas/yarn-inventory/pkg/logger"
)

var admin = entity.Identity{UserID: 1, Username: "admin", Role: entity.RoleAdmin}

func TestRecorder_SwallowsAppendFailure(t *testing.T) {
	store := memstore.New()
	store.Fail(memstore.OpLogAppend, errors.New("log table locked"))
	var out bytes.Buffer
	rec := audit.NewRecorder(store.Logs(), logger.New(logger.Config{Env: "production", Level: "info", Out: &out}))

	assert.NotPanics(t, func() {
		rec.Record(context.Background(), admin, entity.ActionUpdate, entity.TableStock, "Updated lot 1")
	})
	assert.Contains(t, out.String(), "append activity log")
	assert.Contains(t, out.String(), "log table locked")
}

func TestLogList_FiltersAndPages(t *testing.T) {
	store := memstore.New()
	ctx := context.Background()
	rec := audit.NewRecorder(store.Logs(), logger.Nop())
	for i := 0; i < 25; i++ {
		rec.Record(ctx, admin, entity.ActionCreate, entity.TableStock, fmt.Sprintf("Added lot %d", i))
	}
	rec.Record(ctx, entity.Identity{UserID: 2, Username: "asha"}, entity.ActionLogin, entity.TableUsers, "User logged in")

	uc := audit.NewLogUseCase(store.Logs())

	first, err := uc.List(ctx, dto.LogListQuery{})
	require.NoError(t, err)
	assert.Len(t, first.Items, 20)
	assert.Equal(t, 26, first.Page.Total)
	assert.True(t, first.Page.HasNext)

	byUser, err := uc.List(ctx, dto.LogListQuery{Username: "ash"})
	require.NoError(t, err)
	require.Len(t, byUser.Items, 1)
	assert.Equal(t, entity.ActionLogin, byUser.Items[0].Action)

	byAction, err := uc.List(ctx, dto.LogListQuery{Action: entity.ActionCreate, Table: entity.TableStock, Page: 2})
	require.NoError(t, err)
	assert.Len(t, byAction.Items, 5)
	assert.False(t, byAction.Page.HasNext)

	today := time.Now().UTC().Format(dto.DateLayout)
	inverted, err := uc.List(ctx, dto.LogListQuery{FromDate: today, ToDate: "2000-01-01"})
	require.NoError(t, err)
	assert.Empty(t, inverted.Items)

	_, err = uc.List(ctx, dto.LogListQuery{ToDate: "yesterday"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
