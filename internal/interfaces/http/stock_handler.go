package http

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/yarn-inventory/internal/application/dto"
	"github.com/jhoicas/yarn-inventory/internal/application/inventory"
	"github.com/jhoicas/yarn-inventory/internal/application/report"
	"github.com/jhoicas/yarn-inventory/internal/domain"
)

// UploadConfig staging of imported spreadsheets.
type UploadConfig struct {
	Dir      string
	MaxBytes int64
	Read     StockRowReader
}

// StockHandler lots, withdrawals, usage history and their exports.
type StockHandler struct {
	stock    *inventory.StockUseCase
	withdraw *inventory.WithdrawUseCase
	usage    *inventory.UsageUseCase
	reports  *report.ReportUseCase
	upload   UploadConfig
}

// NewStockHandler builds the handler.
func NewStockHandler(
	stock *inventory.StockUseCase,
	withdraw *inventory.WithdrawUseCase,
	usage *inventory.UsageUseCase,
	reports *report.ReportUseCase,
	upload UploadConfig,
) *StockHandler {
	return &StockHandler{stock: stock, withdraw: withdraw, usage: usage, reports: reports, upload: upload}
}

// List godoc
// @Summary      Stock lots
// @Tags         stock
// @Produce      json
// @Param        search         query  string  false  "substring of yarn type or color"
// @Param        supplier_name  query  string  false  "exact supplier name"
// @Param        sort           query  string  false  "id | quantity | date_received | yarn_type"
// @Param        page           query  int     false  "1-based page"
// @Success      200  {object}  dto.StockListResponse
// @Router       /stock/stock-list [get]
func (h *StockHandler) List(c *fiber.Ctx) error {
	var q dto.StockListQuery
	if err := c.QueryParser(&q); err != nil {
		return badBody(c)
	}
	out, err := h.stock.List(c.Context(), q)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// AddForm supplier names for the add-stock form.
func (h *StockHandler) AddForm(c *fiber.Ctx) error {
	out, err := h.stock.FormOptions(c.Context())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Add godoc
// @Summary      Record a received lot
// @Tags         stock
// @Accept       json,x-www-form-urlencoded
// @Produce      json
// @Param        body  body  dto.StockRequest  true  "lot"
// @Success      201   {object}  dto.StockResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /stock/add-stock [post]
func (h *StockHandler) Add(c *fiber.Ctx) error {
	var in dto.StockRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.stock.Add(c.Context(), CurrentIdentity(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// UseForm returns the lot a withdrawal is about to draw from.
func (h *StockHandler) UseForm(c *fiber.Ctx) error {
	return h.getLot(c)
}

// EditForm returns the lot being edited.
func (h *StockHandler) EditForm(c *fiber.Ctx) error {
	return h.getLot(c)
}

func (h *StockHandler) getLot(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return respondError(c, err)
	}
	out, err := h.stock.Get(c.Context(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Withdraw godoc
// @Summary      Take yarn out of a lot
// @Tags         stock
// @Accept       json,x-www-form-urlencoded
// @Param        id    path  int                  true  "lot id"
// @Param        body  body  dto.WithdrawRequest  true  "used_quantity, used_by, purpose"
// @Success      303
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /stock/use-yarn/{id} [post]
func (h *StockHandler) Withdraw(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return respondError(c, err)
	}
	var in dto.WithdrawRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	if _, err := h.withdraw.Withdraw(c.Context(), CurrentIdentity(c), id, in); err != nil {
		return respondError(c, err)
	}
	return c.Redirect("/stock/stock-list", fiber.StatusSeeOther)
}

// Update overwrites a lot (admin).
func (h *StockHandler) Update(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return respondError(c, err)
	}
	var in dto.StockRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.stock.Update(c.Context(), CurrentIdentity(c), id, in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Delete removes a lot (admin).
func (h *StockHandler) Delete(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return respondError(c, err)
	}
	if err := h.stock.Delete(c.Context(), CurrentIdentity(c), id); err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.MessageResponse{Message: fmt.Sprintf("Lot %d deleted.", id)})
}

// Upload godoc
// @Summary      Bulk import lots from CSV or XLSX
// @Tags         stock
// @Accept       multipart/form-data
// @Produce      json
// @Param        csvfile  formData  file  true  "spreadsheet"
// @Success      200  {object}  dto.ImportResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /stock/upload-csv [post]
func (h *StockHandler) Upload(c *fiber.Ctx) error {
	fh, err := c.FormFile("csvfile")
	if err != nil {
		return respondError(c, fmt.Errorf("%w: choose a .csv or .xlsx file", domain.ErrInvalidInput))
	}
	if h.upload.MaxBytes > 0 && fh.Size > h.upload.MaxBytes {
		return respondError(c, fmt.Errorf("%w: the file exceeds %d bytes", domain.ErrInvalidInput, h.upload.MaxBytes))
	}

	tmp, err := os.CreateTemp(h.upload.Dir, "stock-import-*"+strings.ToLower(filepath.Ext(fh.Filename)))
	if err != nil {
		return respondError(c, fmt.Errorf("stage upload: %w", err))
	}
	path := tmp.Name()
	_ = tmp.Close()
	defer os.Remove(path)

	if err := c.SaveFile(fh, path); err != nil {
		return respondError(c, fmt.Errorf("stage upload: %w", err))
	}
	f, err := os.Open(path)
	if err != nil {
		return respondError(c, fmt.Errorf("open staged upload: %w", err))
	}
	defer f.Close()

	rows, err := h.upload.Read(f, fh.Filename)
	if err != nil {
		return respondError(c, err)
	}
	out, err := h.stock.Import(c.Context(), CurrentIdentity(c), rows)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// ExportStock CSV of every lot matching the listing filters.
func (h *StockHandler) ExportStock(c *fiber.Ctx) error {
	var q dto.StockListQuery
	if err := c.QueryParser(&q); err != nil {
		return badBody(c)
	}
	data, err := h.reports.ExportStockCSV(c.Context(), q)
	if err != nil {
		return respondError(c, err)
	}
	return sendAttachment(c, "stock_list.csv", "text/csv; charset=utf-8", data)
}

// Report godoc
// @Summary      Printable stock report
// @Tags         stock
// @Produce      html,application/pdf
// @Param        format  query  string  false  "html (default) | pdf"
// @Router       /stock/stock-list/report [get]
func (h *StockHandler) Report(c *fiber.Ctx) error {
	var q dto.StockListQuery
	if err := c.QueryParser(&q); err != nil {
		return badBody(c)
	}
	who := CurrentIdentity(c)
	if strings.EqualFold(c.Query("format"), "pdf") {
		doc, err := h.reports.StockReportPDF(c.Context(), who, q)
		if err != nil {
			return respondError(c, err)
		}
		return sendAttachment(c, "stock_report.pdf", "application/pdf", doc)
	}
	page, err := h.reports.StockReportHTML(c.Context(), who, q)
	if err != nil {
		return respondError(c, err)
	}
	c.Set(fiber.HeaderContentType, fiber.MIMETextHTMLCharsetUTF8)
	return c.Send(page)
}

// EmailReport mails the filtered stock CSV to the configured recipient (admin).
func (h *StockHandler) EmailReport(c *fiber.Ctx) error {
	var q dto.StockListQuery
	if err := c.QueryParser(&q); err != nil {
		return badBody(c)
	}
	if err := h.reports.EmailStockReport(c.Context(), CurrentIdentity(c), q); err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.MessageResponse{Message: "Stock report emailed."})
}

// UsageList godoc
// @Summary      Withdrawal history
// @Tags         usage
// @Produce      json
// @Param        yarn_type  query  string  false  "substring of the lot's yarn type"
// @Param        used_by    query  string  false  "substring of the person"
// @Param        from_date  query  string  false  "YYYY-MM-DD, inclusive"
// @Param        to_date    query  string  false  "YYYY-MM-DD, inclusive"
// @Param        page       query  int     false  "1-based page"
// @Success      200  {object}  dto.UsageListResponse
// @Router       /stock/yarn-usage [get]
func (h *StockHandler) UsageList(c *fiber.Ctx) error {
	var q dto.UsageListQuery
	if err := c.QueryParser(&q); err != nil {
		return badBody(c)
	}
	out, err := h.usage.List(c.Context(), q)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// UsageGraph totals per yarn type for the usage chart.
func (h *StockHandler) UsageGraph(c *fiber.Ctx) error {
	out, err := h.usage.Chart(c.Context())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// ExportUsage CSV of the usage history matching the filters.
func (h *StockHandler) ExportUsage(c *fiber.Ctx) error {
	var q dto.UsageListQuery
	if err := c.QueryParser(&q); err != nil {
		return badBody(c)
	}
	data, err := h.reports.ExportUsageCSV(c.Context(), q)
	if err != nil {
		return respondError(c, err)
	}
	return sendAttachment(c, "yarn_usage.csv", "text/csv; charset=utf-8", data)
}

func sendAttachment(c *fiber.Ctx, filename, contentType string, data []byte) error {
	c.Attachment(filename)
	c.Set(fiber.HeaderContentType, contentType)
	return c.Send(data)
}
