package postgres

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/jhoicas/yarn-inventory/internal/domain/repository"
	"github.com/jhoicas/yarn-inventory/pkg/pagination"
)

// whereBuilder accumulates AND-ed conditions with numbered placeholders.
// Values never reach the SQL text.
type whereBuilder struct {
	conds []string
	args  []any
}

func (w *whereBuilder) arg(v any) string {
	w.args = append(w.args, v)
	return "$" + strconv.Itoa(len(w.args))
}

func (w *whereBuilder) add(cond string) {
	w.conds = append(w.conds, cond)
}

func (w *whereBuilder) sql() string {
	if len(w.conds) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(w.conds, " AND ")
}

// page returns the LIMIT/OFFSET clause and the full argument list for it,
// leaving w.args untouched for the matching count query.
func (w *whereBuilder) page(p pagination.Params) (string, []any) {
	args := make([]any, len(w.args), len(w.args)+2)
	copy(args, w.args)
	args = append(args, p.Size, p.Offset)
	n := len(args)
	return fmt.Sprintf(" LIMIT $%d OFFSET $%d", n-1, n), args
}

// dayRange adds inclusive calendar-day bounds on col. An inverted range simply matches nothing.
func (w *whereBuilder) dayRange(col string, from, to *time.Time) {
	if from != nil {
		w.add(col + " >= " + w.arg(*from))
	}
	if to != nil {
		w.add(col + " < " + w.arg(to.AddDate(0, 0, 1)))
	}
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// containsPattern turns user text into an ILIKE substring pattern.
func containsPattern(s string) string {
	return "%" + likeEscaper.Replace(s) + "%"
}

// ── Stock ─────────────────────────────────────────────────────────────────────

const stockColumns = `s.id, s.yarn_type, s.color, s.quantity, s.unit, s.date_received, s.supplier_name, s.created_at`

// stockSortColumns is the only way a client value reaches ORDER BY.
var stockSortColumns = map[repository.StockSort]string{
	repository.StockSortID:           "s.id",
	repository.StockSortQuantity:     "s.quantity",
	repository.StockSortDateReceived: "s.date_received",
	repository.StockSortYarnType:     "s.yarn_type",
}

const defaultStockSortColumn = "s.date_received"

func stockOrderBy(sort repository.StockSort) string {
	col, ok := stockSortColumns[sort]
	if !ok {
		col = defaultStockSortColumn
	}
	if col == "s.id" {
		return " ORDER BY s.id DESC"
	}
	return " ORDER BY " + col + " DESC, s.id DESC"
}

func stockWhere(f repository.StockFilter) *whereBuilder {
	w := &whereBuilder{}
	if f.Search != "" {
		p := w.arg(containsPattern(f.Search))
		w.add(fmt.Sprintf("(s.yarn_type ILIKE %s OR s.color ILIKE %s)", p, p))
	}
	if f.SupplierName != "" {
		w.add("s.supplier_name = " + w.arg(f.SupplierName))
	}
	return w
}

// ── Usage ─────────────────────────────────────────────────────────────────────

const usageFrom = ` FROM yarn_usage u JOIN yarn_stock s ON s.id = u.yarn_id`

const usageColumns = `u.id, u.yarn_id, u.used_quantity, u.used_by, u.purpose, u.used_on, s.yarn_type, s.color`

const usageOrderBy = " ORDER BY u.used_on DESC, u.id DESC"

func usageWhere(f repository.UsageFilter) *whereBuilder {
	w := &whereBuilder{}
	if f.YarnType != "" {
		w.add("s.yarn_type ILIKE " + w.arg(containsPattern(f.YarnType)))
	}
	if f.UsedBy != "" {
		w.add("u.used_by ILIKE " + w.arg(containsPattern(f.UsedBy)))
	}
	w.dayRange("u.used_on", f.From, f.To)
	return w
}

// ── Logs ──────────────────────────────────────────────────────────────────────

const logColumns = `l.id, COALESCE(l.user_id, 0), l.user_name, l.action_type, l.table_name, l.description, l.created_at`

const logOrderBy = " ORDER BY l.created_at DESC, l.id DESC"

func logWhere(f repository.LogFilter) *whereBuilder {
	w := &whereBuilder{}
	if f.Username != "" {
		w.add("l.user_name ILIKE " + w.arg(containsPattern(f.Username)))
	}
	if f.Action != "" {
		w.add("l.action_type = " + w.arg(f.Action))
	}
	if f.Table != "" {
		w.add("l.table_name = " + w.arg(f.Table))
	}
	w.dayRange("l.created_at", f.From, f.To)
	return w
}
