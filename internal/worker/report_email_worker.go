package worker

// report_email_worker.go
// Processes report email jobs from QueueReportEmail: renders the requested
// sales export and mails it as an attachment.

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/Joe-Bills/moto-spares-manager/internal/infra"

	"github.com/rs/zerolog/log"
)

// ReportEmailPayload is the job payload sent to QueueReportEmail.
type ReportEmailPayload struct {
	To          string `json:"to"`
	Format      string `json:"format"` // pdf | excel
	From        string `json:"from,omitempty"`
	Until       string `json:"until,omitempty"`
	RequestedBy string `json:"requested_by,omitempty"`
}

// ReportExporter renders a sales export for a date window.
type ReportExporter interface {
	ExportSales(ctx context.Context, format, from, to string) (*infra.Attachment, error)
}

// Sender delivers an email.
type Sender interface {
	Send(to, subject, body string, attachments ...infra.Attachment) error
}

type ReportEmailWorker struct {
	exporter     ReportExporter
	mailer       Sender
	businessName string
}

func NewReportEmailWorker(exporter ReportExporter, mailer Sender, businessName string) *ReportEmailWorker {
	return &ReportEmailWorker{exporter: exporter, mailer: mailer, businessName: businessName}
}

func (w *ReportEmailWorker) Process(ctx context.Context, raw json.RawMessage) error {
	var payload ReportEmailPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return fmt.Errorf("%w: invalid payload: %v", ErrPermanent, err)
	}
	if payload.To == "" {
		return fmt.Errorf("%w: empty recipient", ErrPermanent)
	}

	att, err := w.exporter.ExportSales(ctx, payload.Format, payload.From, payload.Until)
	if err != nil {
		return fmt.Errorf("render report: %w", err)
	}

	subject := w.businessName + " sales report"
	body := fmt.Sprintf("Attached is the %s sales report", w.businessName)
	if payload.From != "" || payload.Until != "" {
		body += fmt.Sprintf(" for %s to %s", orDefault(payload.From, "start"), orDefault(payload.Until, "today"))
	}
	body += ".\n"
	if payload.RequestedBy != "" {
		body += "Requested by " + payload.RequestedBy + ".\n"
	}

	if err := w.mailer.Send(payload.To, subject, body, *att); err != nil {
		return fmt.Errorf("send report email: %w", err)
	}
	log.Info().Str("to", payload.To).Str("format", payload.Format).Msg("report_email_worker: report sent")
	return nil
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
