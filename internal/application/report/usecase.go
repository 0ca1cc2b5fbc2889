// Package report produces exports and printable reports of stock and usage.
// Every export selects rows with the same predicate as the matching listing.
package report

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/yarn-inventory/internal/application/audit"
	"github.com/jhoicas/yarn-inventory/internal/application/dto"
	"github.com/jhoicas/yarn-inventory/internal/application/inventory"
	"github.com/jhoicas/yarn-inventory/internal/domain"
	"github.com/jhoicas/yarn-inventory/internal/domain/entity"
	"github.com/jhoicas/yarn-inventory/internal/domain/repository"
)

// ReportUseCase exports and reports.
type ReportUseCase struct {
	stockRepo repository.StockRepository
	usageRepo repository.UsageRepository
	csv       TableEncoder
	html      HTMLRenderer
	pdf       PDFRenderer
	mailer    Mailer // nil when mail is not configured
	recipient string
	recorder  *audit.Recorder
	now       func() time.Time
}

// Deps collaborators of ReportUseCase.
type Deps struct {
	StockRepo repository.StockRepository
	UsageRepo repository.UsageRepository
	CSV       TableEncoder
	HTML      HTMLRenderer
	PDF       PDFRenderer
	Mailer    Mailer
	Recipient string
	Recorder  *audit.Recorder
}

// NewReportUseCase builds the use case.
func NewReportUseCase(d Deps) *ReportUseCase {
	return &ReportUseCase{
		stockRepo: d.StockRepo,
		usageRepo: d.UsageRepo,
		csv:       d.CSV,
		html:      d.HTML,
		pdf:       d.PDF,
		mailer:    d.Mailer,
		recipient: d.Recipient,
		recorder:  d.Recorder,
		now:       time.Now,
	}
}

// ExportStockCSV every lot matching the listing query, unpaginated.
func (uc *ReportUseCase) ExportStockCSV(ctx context.Context, q dto.StockListQuery) ([]byte, error) {
	lots, err := uc.stockRepo.SearchAll(ctx, inventory.StockFilter(q))
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := uc.csv.EncodeStock(&buf, lots); err != nil {
		return nil, fmt.Errorf("encode stock csv: %w", err)
	}
	return buf.Bytes(), nil
}

// ExportUsageCSV every usage record matching the history query, unpaginated.
func (uc *ReportUseCase) ExportUsageCSV(ctx context.Context, q dto.UsageListQuery) ([]byte, error) {
	filter, err := inventory.UsageFilter(q)
	if err != nil {
		return nil, err
	}
	recs, err := uc.usageRepo.SearchAll(ctx, filter)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := uc.csv.EncodeUsage(&buf, recs); err != nil {
		return nil, fmt.Errorf("encode usage csv: %w", err)
	}
	return buf.Bytes(), nil
}

// StockReportHTML printable HTML of the lots matching q.
func (uc *ReportUseCase) StockReportHTML(ctx context.Context, who entity.Identity, q dto.StockListQuery) ([]byte, error) {
	meta, lots, err := uc.stockReport(ctx, who, q)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := uc.html.RenderStock(&buf, meta, lots); err != nil {
		return nil, fmt.Errorf("render stock report: %w", err)
	}
	return buf.Bytes(), nil
}

// StockReportPDF PDF of the lots matching q.
func (uc *ReportUseCase) StockReportPDF(ctx context.Context, who entity.Identity, q dto.StockListQuery) ([]byte, error) {
	meta, lots, err := uc.stockReport(ctx, who, q)
	if err != nil {
		return nil, err
	}
	doc, err := uc.pdf.RenderStock(ctx, meta, lots)
	if err != nil {
		return nil, fmt.Errorf("render stock pdf: %w", err)
	}
	return doc, nil
}

// EmailStockReport mails the stock CSV for q to the configured recipient.
func (uc *ReportUseCase) EmailStockReport(ctx context.Context, who entity.Identity, q dto.StockListQuery) error {
	if uc.mailer == nil || uc.recipient == "" {
		return fmt.Errorf("%w: email delivery is disabled", domain.ErrNotConfigured)
	}
	data, err := uc.ExportStockCSV(ctx, q)
	if err != nil {
		return err
	}
	now := uc.now()
	msg := Message{
		To:      []string{uc.recipient},
		Subject: "Yarn stock report " + now.Format(dto.DateLayout),
		Body:    fmt.Sprintf("Attached is the yarn stock report generated by %s on %s.", who.Username, now.Format(time.RFC1123)),
		Attachments: []Attachment{{
			Filename:    "stock_report.csv",
			ContentType: "text/csv",
			Data:        data,
		}},
	}
	if err := uc.mailer.Send(ctx, msg); err != nil {
		return fmt.Errorf("send stock report: %w", err)
	}
	uc.recorder.Record(ctx, who, entity.ActionEmail, entity.TableStock, "Emailed stock report to "+uc.recipient)
	return nil
}

func (uc *ReportUseCase) stockReport(ctx context.Context, who entity.Identity, q dto.StockListQuery) (Meta, []*entity.StockLot, error) {
	filter := inventory.StockFilter(q)
	lots, err := uc.stockRepo.SearchAll(ctx, filter)
	if err != nil {
		return Meta{}, nil, err
	}
	return Meta{
		Title:        "Yarn Stock Report",
		GeneratedAt:  uc.now(),
		GeneratedBy:  who.Username,
		Search:       filter.Search,
		SupplierName: filter.SupplierName,
	}, lots, nil
}
