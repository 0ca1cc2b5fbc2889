package report

import (
	"context"
	"io"
	"time"

	"github.com/jhoicas/yarn-inventory/internal/domain/entity"
)

// TableEncoder writes lots and usage records as delimited text.
type TableEncoder interface {
	EncodeStock(w io.Writer, lots []*entity.StockLot) error
	EncodeUsage(w io.Writer, recs []*entity.UsageRecord) error
}

// Meta header information shared by printable reports.
type Meta struct {
	Title        string
	GeneratedAt  time.Time
	GeneratedBy  string
	Search       string
	SupplierName string
}

// HTMLRenderer renders the print-oriented stock report.
type HTMLRenderer interface {
	RenderStock(w io.Writer, meta Meta, lots []*entity.StockLot) error
}

// PDFRenderer renders the stock report as a PDF document.
type PDFRenderer interface {
	RenderStock(ctx context.Context, meta Meta, lots []*entity.StockLot) ([]byte, error)
}

// Attachment file attached to an outgoing message.
type Attachment struct {
	Filename    string
	ContentType string
	Data        []byte
}

// Message outgoing email.
type Message struct {
	To          []string
	Subject     string
	Body        string
	Attachments []Attachment
}

// Mailer delivers email.
type Mailer interface {
	Send(ctx context.Context, msg Message) error
}
