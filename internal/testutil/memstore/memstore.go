// Package memstore is an in-memory implementation of every repository port,
// used by application and HTTP tests in place of PostgreSQL.
//
// Transactions are serialised: Run holds a store-wide transaction lock and
// restores a snapshot of the state when fn fails. That is stricter than the
// per-row locks of the database but yields the same observable outcomes.
package memstore

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/yarn-inventory/internal/domain"
	"github.com/jhoicas/yarn-inventory/internal/domain/entity"
	"github.com/jhoicas/yarn-inventory/internal/domain/repository"
	"github.com/jhoicas/yarn-inventory/pkg/pagination"
)

// Fault names accepted by Store.Fail.
const (
	OpStockCreateBatch = "stock.CreateBatch"
	OpStockSetQuantity = "stock.SetQuantity"
	OpUsageCreate      = "usage.Create"
	OpLogAppend        = "log.Append"
	OpStockSearch      = "stock.Search"
	OpDashboard        = "dashboard"
)

type state struct {
	users     map[int64]entity.User
	suppliers map[int64]entity.Supplier
	lots      map[int64]entity.StockLot
	usage     map[int64]entity.UsageRecord
	logs      map[int64]entity.LogEntry
	seq       int64
}

func newState() state {
	return state{
		users:     map[int64]entity.User{},
		suppliers: map[int64]entity.Supplier{},
		lots:      map[int64]entity.StockLot{},
		usage:     map[int64]entity.UsageRecord{},
		logs:      map[int64]entity.LogEntry{},
	}
}

func (s state) clone() state {
	c := state{
		users:     make(map[int64]entity.User, len(s.users)),
		suppliers: make(map[int64]entity.Supplier, len(s.suppliers)),
		lots:      make(map[int64]entity.StockLot, len(s.lots)),
		usage:     make(map[int64]entity.UsageRecord, len(s.usage)),
		logs:      make(map[int64]entity.LogEntry, len(s.logs)),
		seq:       s.seq,
	}
	for k, v := range s.users {
		c.users[k] = v
	}
	for k, v := range s.suppliers {
		c.suppliers[k] = v
	}
	for k, v := range s.lots {
		c.lots[k] = v
	}
	for k, v := range s.usage {
		c.usage[k] = v
	}
	for k, v := range s.logs {
		c.logs[k] = v
	}
	return c
}

// Store holds all tables. The zero value is not usable; call New.
type Store struct {
	txMu sync.Mutex // held for the whole of a transaction

	mu     sync.Mutex
	st     state
	faults map[string]error
}

// New returns an empty store.
func New() *Store {
	return &Store{st: newState(), faults: map[string]error{}}
}

// Fail makes every later call of op return err. A nil err clears the fault.
func (s *Store) Fail(op string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err == nil {
		delete(s.faults, op)
		return
	}
	s.faults[op] = err
}

// lock takes the data lock and reports the injected fault for op, if any.
// The caller must unlock s.mu.
func (s *Store) lock(op string) error {
	s.mu.Lock()
	return s.faults[op]
}

func (s *Store) nextID() int64 {
	s.st.seq++
	return s.st.seq
}

// Users repository.
func (s *Store) Users() repository.UserRepository { return userRepo{s} }

// Suppliers repository.
func (s *Store) Suppliers() repository.SupplierRepository { return supplierRepo{s} }

// Stock repository.
func (s *Store) Stock() repository.StockRepository { return stockRepo{s} }

// Usage repository.
func (s *Store) Usage() repository.UsageRepository { return usageRepo{s} }

// Logs repository.
func (s *Store) Logs() repository.LogRepository { return logRepo{s} }

// Dashboard repository.
func (s *Store) Dashboard() repository.DashboardRepository { return dashboardRepo{s} }

// Run executes fn serialised against other transactions and rolls the
// state back when fn returns an error.
func (s *Store) Run(ctx context.Context, fn func(
	stockRepo repository.StockRepository,
	usageRepo repository.UsageRepository,
	logRepo repository.LogRepository,
) error) error {
	s.txMu.Lock()
	defer s.txMu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	snapshot := s.st.clone()
	s.mu.Unlock()

	if err := fn(s.Stock(), s.Usage(), s.Logs()); err != nil {
		s.mu.Lock()
		s.st = snapshot
		s.mu.Unlock()
		return err
	}
	return nil
}

// Lots every lot ordered by ID.
func (s *Store) Lots() []entity.StockLot {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]entity.StockLot, 0, len(s.st.lots))
	for _, l := range s.st.lots {
		out = append(out, l)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// UsageRecords every usage record ordered by ID.
func (s *Store) UsageRecords() []entity.UsageRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]entity.UsageRecord, 0, len(s.st.usage))
	for _, u := range s.st.usage {
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// LogEntries every log entry ordered by ID.
func (s *Store) LogEntries() []entity.LogEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]entity.LogEntry, 0, len(s.st.logs))
	for _, e := range s.st.logs {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// ── Users ─────────────────────────────────────────────────────────────────────

type userRepo struct{ s *Store }

func (r userRepo) Create(_ context.Context, u *entity.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, existing := range r.s.st.users {
		if existing.Username == u.Username {
			return fmt.Errorf("%w: username %q is taken", domain.ErrDuplicate, u.Username)
		}
	}
	u.ID = r.s.nextID()
	if u.CreatedAt.IsZero() {
		u.CreatedAt = time.Now()
	}
	r.s.st.users[u.ID] = *u
	return nil
}

func (r userRepo) GetByID(_ context.Context, id int64) (*entity.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.st.users[id]
	if !ok {
		return nil, nil
	}
	return &u, nil
}

func (r userRepo) GetByUsername(_ context.Context, username string) (*entity.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, u := range r.s.st.users {
		if u.Username == username {
			u := u
			return &u, nil
		}
	}
	return nil, nil
}

// ── Suppliers ─────────────────────────────────────────────────────────────────

type supplierRepo struct{ s *Store }

func (r supplierRepo) Create(_ context.Context, sp *entity.Supplier) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	sp.ID = r.s.nextID()
	r.s.st.suppliers[sp.ID] = *sp
	return nil
}

func (r supplierRepo) GetByID(_ context.Context, id int64) (*entity.Supplier, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	sp, ok := r.s.st.suppliers[id]
	if !ok {
		return nil, nil
	}
	return &sp, nil
}

func (r supplierRepo) Update(_ context.Context, sp *entity.Supplier) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.st.suppliers[sp.ID]; !ok {
		return domain.ErrNotFound
	}
	r.s.st.suppliers[sp.ID] = *sp
	return nil
}

func (r supplierRepo) Delete(_ context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.st.suppliers[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.s.st.suppliers, id)
	return nil
}

func (r supplierRepo) List(_ context.Context) ([]*entity.Supplier, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make([]*entity.Supplier, 0, len(r.s.st.suppliers))
	for _, sp := range r.s.st.suppliers {
		sp := sp
		out = append(out, &sp)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

// ── Stock ─────────────────────────────────────────────────────────────────────

type stockRepo struct{ s *Store }

func (r stockRepo) Create(_ context.Context, lot *entity.StockLot) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.insert(lot)
}

func (r stockRepo) insert(lot *entity.StockLot) error {
	if lot.Quantity.IsNegative() {
		return fmt.Errorf("%w: quantity cannot be negative", domain.ErrInvalidInput)
	}
	lot.ID = r.s.nextID()
	lot.CreatedAt = time.Now()
	r.s.st.lots[lot.ID] = *lot
	return nil
}

func (r stockRepo) CreateBatch(_ context.Context, lots []*entity.StockLot) (int64, error) {
	if err := r.s.lock(OpStockCreateBatch); err != nil {
		r.s.mu.Unlock()
		return 0, err
	}
	defer r.s.mu.Unlock()
	for _, l := range lots {
		if err := r.insert(l); err != nil {
			return 0, err
		}
	}
	return int64(len(lots)), nil
}

func (r stockRepo) GetByID(_ context.Context, id int64) (*entity.StockLot, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	l, ok := r.s.st.lots[id]
	if !ok {
		return nil, nil
	}
	return &l, nil
}

func (r stockRepo) GetForUpdate(ctx context.Context, id int64) (*entity.StockLot, error) {
	return r.GetByID(ctx, id)
}

func (r stockRepo) Update(_ context.Context, lot *entity.StockLot) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	old, ok := r.s.st.lots[lot.ID]
	if !ok {
		return domain.ErrNotFound
	}
	if lot.Quantity.IsNegative() {
		return fmt.Errorf("%w: quantity cannot be negative", domain.ErrInvalidInput)
	}
	lot.CreatedAt = old.CreatedAt
	r.s.st.lots[lot.ID] = *lot
	return nil
}

func (r stockRepo) SetQuantity(_ context.Context, id int64, qty decimal.Decimal) error {
	if err := r.s.lock(OpStockSetQuantity); err != nil {
		r.s.mu.Unlock()
		return err
	}
	defer r.s.mu.Unlock()
	if qty.IsNegative() {
		return domain.ErrInsufficientStock
	}
	l, ok := r.s.st.lots[id]
	if !ok {
		return domain.ErrNotFound
	}
	l.Quantity = qty
	r.s.st.lots[id] = l
	return nil
}

func (r stockRepo) Delete(_ context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.st.lots[id]; !ok {
		return domain.ErrNotFound
	}
	for _, u := range r.s.st.usage {
		if u.LotID == id {
			return fmt.Errorf("%w: lot %d has recorded usage", domain.ErrConflict, id)
		}
	}
	delete(r.s.st.lots, id)
	return nil
}

func (r stockRepo) Search(ctx context.Context, f repository.StockFilter, p pagination.Params) ([]*entity.StockLot, int, error) {
	all, err := r.SearchAll(ctx, f)
	if err != nil {
		return nil, 0, err
	}
	return pageOf(all, p), len(all), nil
}

func (r stockRepo) SearchAll(_ context.Context, f repository.StockFilter) ([]*entity.StockLot, error) {
	if err := r.s.lock(OpStockSearch); err != nil {
		r.s.mu.Unlock()
		return nil, err
	}
	defer r.s.mu.Unlock()

	out := make([]*entity.StockLot, 0)
	for _, l := range r.s.st.lots {
		if f.Search != "" && !containsFold(l.YarnType, f.Search) && !containsFold(l.Color, f.Search) {
			continue
		}
		if f.SupplierName != "" && l.SupplierName != f.SupplierName {
			continue
		}
		l := l
		out = append(out, &l)
	}
	sort.Slice(out, stockLess(out, f.Sort))
	return out, nil
}

// stockLess orders descending by the sort key, then by ID descending.
func stockLess(lots []*entity.StockLot, key repository.StockSort) func(i, j int) bool {
	return func(i, j int) bool {
		a, b := lots[i], lots[j]
		switch key {
		case repository.StockSortID:
		case repository.StockSortQuantity:
			if c := a.Quantity.Cmp(b.Quantity); c != 0 {
				return c > 0
			}
		case repository.StockSortYarnType:
			if a.YarnType != b.YarnType {
				return a.YarnType > b.YarnType
			}
		default:
			if !a.DateReceived.Equal(b.DateReceived) {
				return a.DateReceived.After(b.DateReceived)
			}
		}
		return a.ID > b.ID
	}
}

func (r stockRepo) SupplierNames(_ context.Context) ([]string, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	seen := map[string]bool{}
	names := make([]string, 0)
	for _, l := range r.s.st.lots {
		if l.SupplierName == "" || seen[l.SupplierName] {
			continue
		}
		seen[l.SupplierName] = true
		names = append(names, l.SupplierName)
	}
	sort.Strings(names)
	return names, nil
}

// ── Usage ─────────────────────────────────────────────────────────────────────

type usageRepo struct{ s *Store }

func (r usageRepo) Create(_ context.Context, rec *entity.UsageRecord) error {
	if err := r.s.lock(OpUsageCreate); err != nil {
		r.s.mu.Unlock()
		return err
	}
	defer r.s.mu.Unlock()
	if _, ok := r.s.st.lots[rec.LotID]; !ok {
		return domain.ErrNotFound
	}
	if !rec.UsedQuantity.IsPositive() {
		return fmt.Errorf("%w: used quantity must be positive", domain.ErrInvalidInput)
	}
	rec.ID = r.s.nextID()
	r.s.st.usage[rec.ID] = *rec
	return nil
}

func (r usageRepo) Search(ctx context.Context, f repository.UsageFilter, p pagination.Params) ([]*entity.UsageRecord, int, error) {
	all, err := r.SearchAll(ctx, f)
	if err != nil {
		return nil, 0, err
	}
	return pageOf(all, p), len(all), nil
}

func (r usageRepo) SearchAll(_ context.Context, f repository.UsageFilter) ([]*entity.UsageRecord, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	out := make([]*entity.UsageRecord, 0)
	for _, u := range r.s.st.usage {
		lot := r.s.st.lots[u.LotID]
		u.YarnType, u.Color = lot.YarnType, lot.Color
		if f.YarnType != "" && !containsFold(u.YarnType, f.YarnType) {
			continue
		}
		if f.UsedBy != "" && !containsFold(u.UsedBy, f.UsedBy) {
			continue
		}
		if !inDays(u.UsedOn, f.From, f.To) {
			continue
		}
		u := u
		out = append(out, &u)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].UsedOn.Equal(out[j].UsedOn) {
			return out[i].UsedOn.After(out[j].UsedOn)
		}
		return out[i].ID > out[j].ID
	})
	return out, nil
}

func (r usageRepo) TotalsByYarnType(_ context.Context) ([]entity.YarnUsageTotal, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	sums := map[string]decimal.Decimal{}
	for _, u := range r.s.st.usage {
		yt := r.s.st.lots[u.LotID].YarnType
		sums[yt] = sums[yt].Add(u.UsedQuantity)
	}
	out := make([]entity.YarnUsageTotal, 0, len(sums))
	for yt, total := range sums {
		out = append(out, entity.YarnUsageTotal{YarnType: yt, Total: total})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].YarnType < out[j].YarnType })
	return out, nil
}

// ── Logs ──────────────────────────────────────────────────────────────────────

type logRepo struct{ s *Store }

func (r logRepo) Append(_ context.Context, e *entity.LogEntry) error {
	if err := r.s.lock(OpLogAppend); err != nil {
		r.s.mu.Unlock()
		return err
	}
	defer r.s.mu.Unlock()
	e.ID = r.s.nextID()
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now()
	}
	r.s.st.logs[e.ID] = *e
	return nil
}

func (r logRepo) Search(_ context.Context, f repository.LogFilter, p pagination.Params) ([]*entity.LogEntry, int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	all := make([]*entity.LogEntry, 0)
	for _, e := range r.s.st.logs {
		if f.Username != "" && !containsFold(e.UserName, f.Username) {
			continue
		}
		if f.Action != "" && e.ActionType != f.Action {
			continue
		}
		if f.Table != "" && e.TableName != f.Table {
			continue
		}
		if !inDays(e.CreatedAt, f.From, f.To) {
			continue
		}
		e := e
		all = append(all, &e)
	}
	sort.Slice(all, func(i, j int) bool {
		if !all[i].CreatedAt.Equal(all[j].CreatedAt) {
			return all[i].CreatedAt.After(all[j].CreatedAt)
		}
		return all[i].ID > all[j].ID
	})
	return pageOf(all, p), len(all), nil
}

// ── Dashboard ─────────────────────────────────────────────────────────────────

type dashboardRepo struct{ s *Store }

func (r dashboardRepo) distinct(field func(entity.StockLot) string) (int64, error) {
	if err := r.s.lock(OpDashboard); err != nil {
		r.s.mu.Unlock()
		return 0, err
	}
	defer r.s.mu.Unlock()
	seen := map[string]bool{}
	for _, l := range r.s.st.lots {
		seen[field(l)] = true
	}
	return int64(len(seen)), nil
}

func (r dashboardRepo) CountYarnTypes(_ context.Context) (int64, error) {
	return r.distinct(func(l entity.StockLot) string { return l.YarnType })
}

func (r dashboardRepo) CountSuppliers(_ context.Context) (int64, error) {
	return r.distinct(func(l entity.StockLot) string { return l.SupplierName })
}

func (r dashboardRepo) CountLots(_ context.Context) (int64, error) {
	if err := r.s.lock(OpDashboard); err != nil {
		r.s.mu.Unlock()
		return 0, err
	}
	defer r.s.mu.Unlock()
	return int64(len(r.s.st.lots)), nil
}

func (r dashboardRepo) TotalQuantity(_ context.Context) (decimal.Decimal, error) {
	if err := r.s.lock(OpDashboard); err != nil {
		r.s.mu.Unlock()
		return decimal.Zero, err
	}
	defer r.s.mu.Unlock()
	total := decimal.Zero
	for _, l := range r.s.st.lots {
		total = total.Add(l.Quantity)
	}
	return total, nil
}

// ── helpers ───────────────────────────────────────────────────────────────────

func containsFold(s, sub string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(sub))
}

// inDays mirrors the SQL bound: t >= from and t < to + 1 day.
func inDays(t time.Time, from, to *time.Time) bool {
	if from != nil && t.Before(*from) {
		return false
	}
	if to != nil && !t.Before(to.AddDate(0, 0, 1)) {
		return false
	}
	return true
}

func pageOf[T any](all []T, p pagination.Params) []T {
	if p.Offset >= len(all) {
		return []T{}
	}
	end := p.Offset + p.Size
	if end > len(all) {
		end = len(all)
	}
	return all[p.Offset:end]
}
