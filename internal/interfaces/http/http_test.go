package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/yarn-inventory/internal/application/analytics"
	"github.com/jhoicas/yarn-inventory/internal/application/audit"
	"github.com/jhoicas/yarn-inventory/internal/application/auth"
	"github.com/jhoicas/yarn-inventory/internal/application/dto"
	"github.com/jhoicas/yarn-inventory/internal/application/inventory"
	"github.com/jhoicas/yarn-inventory/internal/application/report"
	"github.com/jhoicas/yarn-inventory/internal/application/usecase"
	"github.com/jhoicas/yarn-inventory/internal/domain/entity"
	"github.com/jhoicas/yarn-inventory/internal/infrastructure/htmlreport"
	"github.com/jhoicas/yarn-inventory/internal/infrastructure/pdf"
	"github.com/jhoicas/yarn-inventory/internal/infrastructure/spreadsheet"
	apphttp "github.com/jhoicas/yarn-inventory/internal/interfaces/http"
	"github.com/jhoicas/yarn-inventory/internal/testutil/memstore"
	"github.com/jhoicas/yarn-inventory/pkg/logger"
)

// ──────────────────────────────────────────────────────────────────────────────
// Test helpers
// ──────────────────────────────────────────────────────────────────────────────

const (
	testSecret    = "http-test-secret"
	adminPassword = "admin-pass"
	ashaPassword  = "asha-pass"
)

type testEnv struct {
	app   *fiber.App
	store *memstore.Store
}

func newTestEnv(t *testing.T, idle time.Duration) *testEnv {
	t.Helper()
	store := memstore.New()
	rec := audit.NewRecorder(store.Logs(), logger.Nop())

	authUC := auth.NewAuthUseCase(store.Users(), rec, auth.TokenConfig{Secret: testSecret, Issuer: "yarn-test", TTL: idle})
	for _, u := range []dto.RegisterUserRequest{
		{Username: "admin", Password: adminPassword, Role: entity.RoleAdmin},
		{Username: "asha", Password: ashaPassword, Role: entity.RoleUser},
	} {
		_, err := authUC.RegisterUser(context.Background(), u)
		require.NoError(t, err)
	}

	html, err := htmlreport.New()
	require.NoError(t, err)

	app := apphttp.NewServer(apphttp.ServerConfig{AppName: "yarn-test", SessionSecret: testSecret, Log: logger.Nop()})
	apphttp.Router(app, apphttp.RouterDeps{
		Sessions:    apphttp.NewSessionManager(apphttp.SessionConfig{IdleTimeout: idle}),
		TokenSecret: testSecret,
		AuthUC:      authUC,
		DashboardUC: analytics.NewDashboardUseCase(store.Dashboard()),
		StockUC:     inventory.NewStockUseCase(store.Stock(), store.Suppliers(), store, rec),
		WithdrawUC:  inventory.NewWithdrawUseCase(store),
		UsageUC:     inventory.NewUsageUseCase(store.Usage()),
		SupplierUC:  usecase.NewSupplierUseCase(store.Suppliers(), rec),
		LogUC:       audit.NewLogUseCase(store.Logs()),
		ReportUC: report.NewReportUseCase(report.Deps{
			StockRepo: store.Stock(),
			UsageRepo: store.Usage(),
			CSV:       spreadsheet.NewCSVEncoder(),
			HTML:      html,
			PDF:       pdf.NewStockReportRenderer(),
			Recorder:  rec,
		}),
		ReadStockRows:  spreadsheet.ReadStockRows,
		UploadDir:      t.TempDir(),
		UploadMaxBytes: 1 << 20,
	})
	return &testEnv{app: app, store: store}
}

func (e *testEnv) do(t *testing.T, req *http.Request, cookie string) *http.Response {
	t.Helper()
	if cookie != "" {
		req.Header.Set("Cookie", cookie)
	}
	resp, err := e.app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func (e *testEnv) get(t *testing.T, path, cookie string) *http.Response {
	t.Helper()
	return e.do(t, httptest.NewRequest(http.MethodGet, path, nil), cookie)
}

func (e *testEnv) postForm(t *testing.T, path string, form url.Values, cookie string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", fiber.MIMEApplicationForm)
	return e.do(t, req, cookie)
}

func (e *testEnv) postJSON(t *testing.T, path string, body any, cookie string) *http.Response {
	t.Helper()
	raw, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(raw))
	req.Header.Set("Content-Type", fiber.MIMEApplicationJSON)
	return e.do(t, req, cookie)
}

// login signs in and returns the Cookie header value for later requests.
func (e *testEnv) login(t *testing.T, username, password string) string {
	t.Helper()
	resp := e.postForm(t, "/login", url.Values{"username": {username}, "password": {password}}, "")
	require.Equal(t, fiber.StatusSeeOther, resp.StatusCode)
	require.Equal(t, "/dashboard", resp.Header.Get("Location"))
	cookies := resp.Cookies()
	require.NotEmpty(t, cookies, "login must set the session cookie")
	return cookies[0].Name + "=" + cookies[0].Value
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	defer resp.Body.Close()
	var v T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&v))
	return v
}

func addLot(t *testing.T, e *testEnv, cookie string, qty int) dto.StockResponse {
	t.Helper()
	resp := e.postJSON(t, "/stock/add-stock", map[string]any{
		"yarn_type": "Cotton", "color": "Red", "quantity": qty, "unit": "kg",
		"date_received": "2024-03-01", "supplier_name": "Shree Threads",
	}, cookie)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	return decode[dto.StockResponse](t, resp)
}

// ──────────────────────────────────────────────────────────────────────────────
// Guards
// ──────────────────────────────────────────────────────────────────────────────

func TestAnonymous_GetsSessionExpiredPrompt(t *testing.T) {
	e := newTestEnv(t, 10*time.Minute)

	resp := e.get(t, "/stock/stock-list", "")
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	body := decode[dto.ErrorResponse](t, resp)
	assert.Equal(t, "SESSION_EXPIRED", body.Code)
	assert.Equal(t, "Session expired. Please log in again.", body.Message)
	assert.Equal(t, "/login", body.LoginURL)
}

func TestNonAdmin_CannotOpenEditStock(t *testing.T) {
	e := newTestEnv(t, 10*time.Minute)
	admin := e.login(t, "admin", adminPassword)
	asha := e.login(t, "asha", ashaPassword)
	lot := addLot(t, e, admin, 10)
	path := "/stock/edit-stock/" + itoa(lot.ID)

	resp := e.get(t, path, asha)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
	body := decode[dto.ErrorResponse](t, resp)
	assert.Equal(t, "FORBIDDEN", body.Code)
	assert.Equal(t, "Access denied: admins only.", body.Message)

	resp = e.get(t, path, admin)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestLogs_AdminOnly(t *testing.T) {
	e := newTestEnv(t, 10*time.Minute)
	asha := e.login(t, "asha", ashaPassword)
	admin := e.login(t, "admin", adminPassword)

	assert.Equal(t, fiber.StatusForbidden, e.get(t, "/logs/user-logs", asha).StatusCode)

	resp := e.get(t, "/logs/user-logs?action=login", admin)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	body := decode[dto.LogListResponse](t, resp)
	assert.Equal(t, 2, body.Page.Total)
}

// ──────────────────────────────────────────────────────────────────────────────
// Sessions
// ──────────────────────────────────────────────────────────────────────────────

func TestLogin_WrongPassword(t *testing.T) {
	e := newTestEnv(t, 10*time.Minute)

	resp := e.postForm(t, "/login", url.Values{"username": {"asha"}, "password": {"wrong"}}, "")
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	assert.Empty(t, resp.Cookies())
	assert.Equal(t, "INVALID_CREDENTIALS", decode[dto.ErrorResponse](t, resp).Code)
}

func TestProfile_ReturnsSessionIdentity(t *testing.T) {
	e := newTestEnv(t, 10*time.Minute)
	asha := e.login(t, "asha", ashaPassword)

	resp := e.get(t, "/dashboard/profile", asha)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	who := decode[entity.Identity](t, resp)
	assert.Equal(t, "asha", who.Username)
	assert.Equal(t, entity.RoleUser, who.Role)
}

func TestLogout_EndsSession(t *testing.T) {
	e := newTestEnv(t, 10*time.Minute)
	asha := e.login(t, "asha", ashaPassword)

	resp := e.postForm(t, "/logout", url.Values{}, asha)
	assert.Equal(t, fiber.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/", resp.Header.Get("Location"))

	body := decode[dto.ErrorResponse](t, e.get(t, "/dashboard", asha))
	assert.Equal(t, "SESSION_EXPIRED", body.Code)

	var logouts int
	for _, l := range e.store.LogEntries() {
		if l.ActionType == entity.ActionLogout {
			logouts++
		}
	}
	assert.Equal(t, 1, logouts)
}

func TestSession_ExpiresAfterIdleTimeout(t *testing.T) {
	if testing.Short() {
		t.Skip("waits for the idle timeout")
	}
	e := newTestEnv(t, time.Second)
	asha := e.login(t, "asha", ashaPassword)
	require.Equal(t, fiber.StatusOK, e.get(t, "/dashboard/profile", asha).StatusCode)

	time.Sleep(2500 * time.Millisecond)

	body := decode[dto.ErrorResponse](t, e.get(t, "/dashboard/profile", asha))
	assert.Equal(t, "SESSION_EXPIRED", body.Code)
}

func TestBearerToken_AuthenticatesWithoutCookie(t *testing.T) {
	e := newTestEnv(t, 10*time.Minute)

	resp := e.postJSON(t, "/api/token", map[string]string{"username": "admin", "password": adminPassword}, "")
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	tok := decode[dto.TokenResponse](t, resp)
	require.NotEmpty(t, tok.Token)

	req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	req.Header.Set("Authorization", "Bearer "+tok.Token)
	resp = e.do(t, req, "")
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	dash := decode[dto.DashboardResponse](t, resp)
	assert.Equal(t, "admin", dash.User.Username)
	assert.Zero(t, dash.TotalLots)
}

// ──────────────────────────────────────────────────────────────────────────────
// Stock flow
// ──────────────────────────────────────────────────────────────────────────────

func TestWithdraw_FormFlow(t *testing.T) {
	e := newTestEnv(t, 10*time.Minute)
	admin := e.login(t, "admin", adminPassword)
	asha := e.login(t, "asha", ashaPassword)
	lot := addLot(t, e, admin, 10)
	path := "/stock/use-yarn/" + itoa(lot.ID)

	resp := e.postForm(t, path, url.Values{"used_quantity": {"4"}, "used_by": {"Asha"}, "purpose": {"Sample run"}}, asha)
	assert.Equal(t, fiber.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/stock/stock-list", resp.Header.Get("Location"))

	resp = e.postForm(t, path, url.Values{"used_quantity": {"7"}, "used_by": {"Asha"}}, asha)
	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)
	assert.Equal(t, "INSUFFICIENT_STOCK", decode[dto.ErrorResponse](t, resp).Code)

	resp = e.postForm(t, path, url.Values{"used_quantity": {"lots"}, "used_by": {"Asha"}}, asha)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	resp = e.postForm(t, path, url.Values{"used_quantity": {"0.0004"}, "used_by": {"Asha"}}, asha)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "VALIDATION", decode[dto.ErrorResponse](t, resp).Code)

	got := decode[dto.StockResponse](t, e.get(t, path, asha))
	assert.True(t, got.Quantity.Equal(decimal.NewFromInt(6)))

	resp = e.get(t, "/stock/yarn-usage?used_by=ash", asha)
	usage := decode[dto.UsageListResponse](t, resp)
	require.Len(t, usage.Items, 1)
	assert.True(t, usage.Items[0].UsedQuantity.Equal(decimal.NewFromInt(4)))
	assert.Equal(t, "Asha", usage.Items[0].UsedBy, "later requests must not rewrite stored text")
	assert.Equal(t, "Sample run", usage.Items[0].Purpose)
}

func TestStoredText_SurvivesLaterRequests(t *testing.T) {
	e := newTestEnv(t, 10*time.Minute)
	admin := e.login(t, "admin", adminPassword)
	lot := addLot(t, e, admin, 10)

	resp := e.postForm(t, "/stock/use-yarn/"+itoa(lot.ID), url.Values{"used_quantity": {"1"}, "used_by": {"Meera"}, "purpose": {"Warp test"}}, admin)
	require.Equal(t, fiber.StatusSeeOther, resp.StatusCode)
	for i := 0; i < 3; i++ {
		e.postForm(t, "/supplier/add-supplier", url.Values{"name": {"XXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXX"}}, admin)
	}

	recs := e.store.UsageRecords()
	require.Len(t, recs, 1)
	assert.Equal(t, "Meera", recs[0].UsedBy)
	assert.Equal(t, "Warp test", recs[0].Purpose)
	lots := e.store.Lots()
	require.Len(t, lots, 1)
	assert.Equal(t, "Cotton", lots[0].YarnType)
	assert.Equal(t, "Shree Threads", lots[0].SupplierName)
}

func TestWithdraw_UnknownLot(t *testing.T) {
	e := newTestEnv(t, 10*time.Minute)
	asha := e.login(t, "asha", ashaPassword)

	resp := e.postForm(t, "/stock/use-yarn/9999", url.Values{"used_quantity": {"1"}, "used_by": {"Asha"}}, asha)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestStockList_SearchAndSupplierFilter(t *testing.T) {
	e := newTestEnv(t, 10*time.Minute)
	admin := e.login(t, "admin", adminPassword)
	addLot(t, e, admin, 10)
	resp := e.postJSON(t, "/stock/add-stock", map[string]any{
		"yarn_type": "Cotton", "color": "Blue", "quantity": 3, "unit": "kg",
		"date_received": "2024-03-02", "supplier_name": "Loom & Co",
	}, admin)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	q := url.Values{"search": {"cot"}, "supplier_name": {"Loom & Co"}}
	list := decode[dto.StockListResponse](t, e.get(t, "/stock/stock-list?"+q.Encode(), admin))
	require.Len(t, list.Items, 1)
	assert.Equal(t, "Blue", list.Items[0].Color)
	assert.ElementsMatch(t, []string{"Loom & Co", "Shree Threads"}, list.SupplierNames)
}

func TestDeleteStock_AdminAndConflict(t *testing.T) {
	e := newTestEnv(t, 10*time.Minute)
	admin := e.login(t, "admin", adminPassword)
	lot := addLot(t, e, admin, 10)

	resp := e.postForm(t, "/stock/use-yarn/"+itoa(lot.ID), url.Values{"used_quantity": {"1"}, "used_by": {"Asha"}}, admin)
	require.Equal(t, fiber.StatusSeeOther, resp.StatusCode)

	resp = e.postForm(t, "/stock/delete-stock/"+itoa(lot.ID), url.Values{}, admin)
	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)
}

// ──────────────────────────────────────────────────────────────────────────────
// Exports & import
// ──────────────────────────────────────────────────────────────────────────────

func TestExportStock_CSV(t *testing.T) {
	e := newTestEnv(t, 10*time.Minute)
	admin := e.login(t, "admin", adminPassword)
	addLot(t, e, admin, 10)

	resp := e.get(t, "/stock/stock-list/export", admin)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Type"), "text/csv")
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "stock_list.csv")

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(raw)), "\n")
	assert.Equal(t, "ID,Yarn Type,Color,Quantity,Unit,Date Received,Supplier Name", lines[0])
	assert.Len(t, lines, 2)
}

func TestStockReport_HTMLAndPDF(t *testing.T) {
	e := newTestEnv(t, 10*time.Minute)
	admin := e.login(t, "admin", adminPassword)
	addLot(t, e, admin, 10)

	resp := e.get(t, "/stock/stock-list/report", admin)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Type"), "text/html")
	raw, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(raw), "Yarn Stock Report")

	resp = e.get(t, "/stock/stock-list/report?format=pdf", admin)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/pdf", resp.Header.Get("Content-Type"))
}

func TestEmailReport_NotConfigured(t *testing.T) {
	e := newTestEnv(t, 10*time.Minute)
	admin := e.login(t, "admin", adminPassword)

	resp := e.postForm(t, "/stock/email-stock-report", url.Values{}, admin)
	assert.Equal(t, fiber.StatusServiceUnavailable, resp.StatusCode)
	assert.Equal(t, "NOT_CONFIGURED", decode[dto.ErrorResponse](t, resp).Code)
}

func uploadRequest(t *testing.T, filename, content string) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("csvfile", filename)
	require.NoError(t, err)
	_, err = io.WriteString(fw, content)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/stock/upload-csv", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func TestUploadCSV(t *testing.T) {
	e := newTestEnv(t, 10*time.Minute)
	admin := e.login(t, "admin", adminPassword)
	asha := e.login(t, "asha", ashaPassword)
	csv := "yarn_type,color,quantity,unit,date_received,supplier_name\n" +
		"Cotton,Red,10,kg,2024-03-01,Shree Threads\n" +
		"Wool,Grey,2.5,kg,2024-03-02,Loom & Co\n"

	resp := e.do(t, uploadRequest(t, "stock.csv", csv), asha)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)

	resp = e.do(t, uploadRequest(t, "stock.csv", csv), admin)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, int64(2), decode[dto.ImportResponse](t, resp).Imported)
	assert.Len(t, e.store.Lots(), 2)

	bad := "yarn_type,color,quantity,unit,date_received,supplier_name\nCotton,Red,many,kg,2024-03-01,Shree Threads\n"
	resp = e.do(t, uploadRequest(t, "stock.csv", bad), admin)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, decode[dto.ErrorResponse](t, resp).Message, "line 2")
	assert.Len(t, e.store.Lots(), 2)
}

// ──────────────────────────────────────────────────────────────────────────────
// Suppliers
// ──────────────────────────────────────────────────────────────────────────────

func TestSuppliers_AdminWritesMemberReads(t *testing.T) {
	e := newTestEnv(t, 10*time.Minute)
	admin := e.login(t, "admin", adminPassword)
	asha := e.login(t, "asha", ashaPassword)

	resp := e.postForm(t, "/supplier/add-supplier", url.Values{"name": {"Shree Threads"}}, asha)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)

	resp = e.postForm(t, "/supplier/add-supplier", url.Values{"name": {"Shree Threads"}, "email": {"sales@shree.test"}}, admin)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	list := decode[[]dto.SupplierResponse](t, e.get(t, "/supplier/suppliers", asha))
	require.Len(t, list, 1)
	assert.Equal(t, "sales@shree.test", list[0].Email)

	resp = e.postForm(t, "/supplier/add-supplier", url.Values{"name": {""}}, admin)
	body := decode[dto.ErrorResponse](t, resp)
	assert.Equal(t, "VALIDATION", body.Code)
	require.NotEmpty(t, body.Fields)
	assert.Equal(t, "name", body.Fields[0].Field)
}

func itoa(id int64) string {
	return strconv.FormatInt(id, 10)
}
