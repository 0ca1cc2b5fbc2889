package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/yarn-inventory/internal/domain"
	"github.com/jhoicas/yarn-inventory/internal/domain/entity"
	"github.com/jhoicas/yarn-inventory/internal/domain/repository"
	"github.com/jhoicas/yarn-inventory/pkg/pagination"
)

var _ repository.StockRepository = (*StockRepo)(nil)

// StockRepo StockRepository over PostgreSQL (pool or tx).
type StockRepo struct {
	q Querier
}

// NewStockRepository builds the adapter. Pass a pool or a tx.
func NewStockRepository(q Querier) *StockRepo {
	return &StockRepo{q: q}
}

// Create inserts a lot and fills its ID and CreatedAt.
func (r *StockRepo) Create(ctx context.Context, lot *entity.StockLot) error {
	query := `
		INSERT INTO yarn_stock (yarn_type, color, quantity, unit, date_received, supplier_name)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at`
	err := r.q.QueryRow(ctx, query,
		lot.YarnType, lot.Color, lot.Quantity, lot.Unit, lot.DateReceived, lot.SupplierName,
	).Scan(&lot.ID, &lot.CreatedAt)
	if err != nil {
		if isCheckViolation(err) {
			return fmt.Errorf("%w: quantity cannot be negative", domain.ErrInvalidInput)
		}
		return fmt.Errorf("insert stock: %w", err)
	}
	return nil
}

// CreateBatch bulk-loads lots with COPY.
func (r *StockRepo) CreateBatch(ctx context.Context, lots []*entity.StockLot) (int64, error) {
	n, err := r.q.CopyFrom(ctx,
		pgx.Identifier{"yarn_stock"},
		[]string{"yarn_type", "color", "quantity", "unit", "date_received", "supplier_name"},
		pgx.CopyFromSlice(len(lots), func(i int) ([]any, error) {
			l := lots[i]
			return []any{l.YarnType, l.Color, l.Quantity, l.Unit, l.DateReceived, l.SupplierName}, nil
		}),
	)
	if err != nil {
		if isCheckViolation(err) {
			return 0, fmt.Errorf("%w: quantity cannot be negative", domain.ErrInvalidInput)
		}
		return 0, fmt.Errorf("copy stock: %w", err)
	}
	return n, nil
}

// GetByID returns the lot or (nil, nil).
func (r *StockRepo) GetByID(ctx context.Context, id int64) (*entity.StockLot, error) {
	query := `SELECT ` + stockColumns + ` FROM yarn_stock s WHERE s.id = $1`
	return r.getOne(ctx, "get stock", query, id)
}

// GetForUpdate reads the lot and locks its row (SELECT ... FOR UPDATE).
func (r *StockRepo) GetForUpdate(ctx context.Context, id int64) (*entity.StockLot, error) {
	query := `SELECT ` + stockColumns + ` FROM yarn_stock s WHERE s.id = $1 FOR UPDATE`
	return r.getOne(ctx, "get stock for update", query, id)
}

func (r *StockRepo) getOne(ctx context.Context, op, query string, id int64) (*entity.StockLot, error) {
	lot, err := scanLot(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return lot, nil
}

// Update overwrites every editable column.
func (r *StockRepo) Update(ctx context.Context, lot *entity.StockLot) error {
	query := `
		UPDATE yarn_stock
		SET yarn_type = $2, color = $3, quantity = $4, unit = $5, date_received = $6, supplier_name = $7
		WHERE id = $1`
	tag, err := r.q.Exec(ctx, query,
		lot.ID, lot.YarnType, lot.Color, lot.Quantity, lot.Unit, lot.DateReceived, lot.SupplierName,
	)
	if err != nil {
		if isCheckViolation(err) {
			return fmt.Errorf("%w: quantity cannot be negative", domain.ErrInvalidInput)
		}
		return fmt.Errorf("update stock: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// SetQuantity stores the lot's new quantity.
func (r *StockRepo) SetQuantity(ctx context.Context, id int64, qty decimal.Decimal) error {
	tag, err := r.q.Exec(ctx, `UPDATE yarn_stock SET quantity = $2 WHERE id = $1`, id, qty)
	if err != nil {
		if isCheckViolation(err) {
			return domain.ErrInsufficientStock
		}
		return fmt.Errorf("set stock quantity: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Delete removes a lot. A lot referenced by usage records is kept (ErrConflict).
func (r *StockRepo) Delete(ctx context.Context, id int64) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM yarn_stock WHERE id = $1`, id)
	if err != nil {
		if isForeignKeyViolation(err) {
			return fmt.Errorf("%w: lot %d has recorded usage", domain.ErrConflict, id)
		}
		return fmt.Errorf("delete stock: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Search one page of matching lots plus the total match count.
func (r *StockRepo) Search(ctx context.Context, f repository.StockFilter, p pagination.Params) ([]*entity.StockLot, int, error) {
	w := stockWhere(f)

	var total int
	if err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM yarn_stock s`+w.sql(), w.args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count stock: %w", err)
	}

	limit, args := w.page(p)
	lots, err := r.list(ctx, `SELECT `+stockColumns+` FROM yarn_stock s`+w.sql()+stockOrderBy(f.Sort)+limit, args)
	if err != nil {
		return nil, 0, err
	}
	return lots, total, nil
}

// SearchAll every matching lot, same predicate and order as Search.
func (r *StockRepo) SearchAll(ctx context.Context, f repository.StockFilter) ([]*entity.StockLot, error) {
	w := stockWhere(f)
	return r.list(ctx, `SELECT `+stockColumns+` FROM yarn_stock s`+w.sql()+stockOrderBy(f.Sort), w.args)
}

func (r *StockRepo) list(ctx context.Context, query string, args []any) ([]*entity.StockLot, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list stock: %w", err)
	}
	defer rows.Close()

	lots := make([]*entity.StockLot, 0)
	for rows.Next() {
		lot, err := scanLot(rows)
		if err != nil {
			return nil, fmt.Errorf("scan stock: %w", err)
		}
		lots = append(lots, lot)
	}
	return lots, rows.Err()
}

// SupplierNames distinct supplier names present on lots.
func (r *StockRepo) SupplierNames(ctx context.Context) ([]string, error) {
	rows, err := r.q.Query(ctx,
		`SELECT DISTINCT supplier_name FROM yarn_stock WHERE supplier_name <> '' ORDER BY supplier_name`)
	if err != nil {
		return nil, fmt.Errorf("list supplier names: %w", err)
	}
	names, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, fmt.Errorf("scan supplier names: %w", err)
	}
	return names, nil
}

func scanLot(row scanner) (*entity.StockLot, error) {
	var l entity.StockLot
	err := row.Scan(&l.ID, &l.YarnType, &l.Color, &l.Quantity, &l.Unit, &l.DateReceived, &l.SupplierName, &l.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &l, nil
}
