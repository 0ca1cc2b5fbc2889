package http

import (
	"io"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/yarn-inventory/internal/application/analytics"
	"github.com/jhoicas/yarn-inventory/internal/application/audit"
	"github.com/jhoicas/yarn-inventory/internal/application/auth"
	"github.com/jhoicas/yarn-inventory/internal/application/dto"
	"github.com/jhoicas/yarn-inventory/internal/application/inventory"
	"github.com/jhoicas/yarn-inventory/internal/application/report"
	"github.com/jhoicas/yarn-inventory/internal/application/usecase"
)

// StockRowReader decodes an uploaded spreadsheet into import rows.
type StockRowReader func(r io.Reader, filename string) ([]dto.StockImportRow, error)

// RouterDeps dependencies for the router.
type RouterDeps struct {
	Sessions    *SessionManager
	TokenSecret string

	AuthUC      *auth.AuthUseCase
	DashboardUC *analytics.DashboardUseCase
	StockUC     *inventory.StockUseCase
	WithdrawUC  *inventory.WithdrawUseCase
	UsageUC     *inventory.UsageUseCase
	SupplierUC  *usecase.SupplierUseCase
	LogUC       *audit.LogUseCase
	ReportUC    *report.ReportUseCase

	ReadStockRows  StockRowReader
	UploadDir      string // "" means the OS temp dir
	UploadMaxBytes int64
}

// Access level a route demands.
type Access int

const (
	Public Access = iota
	Member        // any authenticated user
	Admin         // authenticated with the admin role
)

// Route one entry of the route table.
type Route struct {
	Method  string
	Path    string
	Access  Access
	Handler fiber.Handler
}

// Routes is the capability table: every endpoint and who may call it.
func Routes(deps RouterDeps) []Route {
	authH := NewAuthHandler(deps.AuthUC, deps.Sessions)
	dashH := NewDashboardHandler(deps.DashboardUC)
	stockH := NewStockHandler(deps.StockUC, deps.WithdrawUC, deps.UsageUC, deps.ReportUC, UploadConfig{
		Dir: deps.UploadDir, MaxBytes: deps.UploadMaxBytes, Read: deps.ReadStockRows,
	})
	supH := NewSupplierHandler(deps.SupplierUC)
	logH := NewLogHandler(deps.LogUC)

	return []Route{
		{fiber.MethodPost, "/login", Public, authH.Login},
		{fiber.MethodPost, "/api/token", Public, authH.Token},
		{fiber.MethodPost, "/logout", Public, authH.Logout},

		{fiber.MethodGet, "/dashboard", Member, dashH.Summary},
		{fiber.MethodGet, "/dashboard/profile", Member, dashH.Profile},

		{fiber.MethodGet, "/stock/stock-list", Member, stockH.List},
		{fiber.MethodGet, "/stock/stock-list/export", Member, stockH.ExportStock},
		{fiber.MethodGet, "/stock/stock-list/report", Member, stockH.Report},
		{fiber.MethodGet, "/stock/add-stock", Member, stockH.AddForm},
		{fiber.MethodPost, "/stock/add-stock", Member, stockH.Add},
		{fiber.MethodGet, "/stock/use-yarn/:id", Member, stockH.UseForm},
		{fiber.MethodPost, "/stock/use-yarn/:id", Member, stockH.Withdraw},
		{fiber.MethodGet, "/stock/yarn-usage", Member, stockH.UsageList},
		{fiber.MethodGet, "/stock/usage-graph", Member, stockH.UsageGraph},
		{fiber.MethodGet, "/stock/export-usage", Member, stockH.ExportUsage},
		{fiber.MethodGet, "/stock/edit-stock/:id", Admin, stockH.EditForm},
		{fiber.MethodPost, "/stock/update-stock/:id", Admin, stockH.Update},
		{fiber.MethodPost, "/stock/delete-stock/:id", Admin, stockH.Delete},
		{fiber.MethodPost, "/stock/upload-csv", Admin, stockH.Upload},
		{fiber.MethodPost, "/stock/email-stock-report", Admin, stockH.EmailReport},

		{fiber.MethodGet, "/supplier/suppliers", Member, supH.List},
		{fiber.MethodPost, "/supplier/add-supplier", Admin, supH.Create},
		{fiber.MethodGet, "/supplier/edit-supplier/:id", Admin, supH.Get},
		{fiber.MethodPost, "/supplier/edit-supplier/:id", Admin, supH.Update},
		{fiber.MethodPost, "/supplier/delete-supplier/:id", Admin, supH.Delete},

		{fiber.MethodGet, "/logs/user-logs", Admin, logH.List},
	}
}

// Router resolves the caller on every request and registers the route table
// with the guards its access level requires.
func Router(app *fiber.App, deps RouterDeps) {
	app.Use(Authenticate(deps.Sessions, deps.TokenSecret))
	for _, r := range Routes(deps) {
		app.Add(r.Method, r.Path, append(guardsFor(r.Access), r.Handler)...)
	}
}

func guardsFor(a Access) []fiber.Handler {
	switch a {
	case Member:
		return []fiber.Handler{RequireAuthenticated()}
	case Admin:
		return []fiber.Handler{RequireAuthenticated(), RequireAdmin()}
	default:
		return nil
	}
}
